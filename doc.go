// Package dbscango provides density-based clustering (DBSCAN) for Go,
// with a silhouette-based quality score and a parameter sweep.
//
// dbscango follows the scikit-learn shape: estimators are configured with
// functional options, fitted on a gonum matrix and queried afterwards.
//
// # Features
//
// - DBSCAN engine with per-run label store, LIFO or FIFO worklist
// - Pluggable neighbor queries: brute force, uniform grid, k-d tree
// - Silhouette coefficient (mean of per-cluster minimum distances)
// - Parallel (minPts, eps) grid sweep with a text result table
// - Structured errors and zerolog logging
//
// # Installation
//
//	go get github.com/YuminosukeSato/dbscango
//
// # Quick Start
//
//	package main
//
//	import (
//	    "fmt"
//	    "log"
//
//	    "github.com/YuminosukeSato/dbscango/sklearn/cluster"
//	    "gonum.org/v1/gonum/mat"
//	)
//
//	func main() {
//	    X := mat.NewDense(4, 2, []float64{0, 0, 0.1, 0, 0, 0.1, 5, 5})
//
//	    db := cluster.NewDBSCAN(cluster.WithEps(0.2), cluster.WithMinSamples(3))
//	    labels, err := db.FitPredict(X)
//	    if err != nil {
//	        log.Fatal(err)
//	    }
//	    fmt.Println(labels) // [1 1 1 -1]
//	}
//
// # Packages
//
//   - sklearn/cluster: Label, Dataset, NeighborQuery, Engine and the DBSCAN estimator
//   - metrics: SilhouetteScore and SilhouetteSamples
//   - sklearn/model_selection: DBSCANSweep and the result Table
//   - preprocessing: StandardScaler and MinMaxScaler
//   - plotting: labeled scatter plots and sweep heat maps
//   - core/model: estimator base, interfaces and snapshot persistence
//   - core/parallel: worker helpers
//   - pkg/errors, pkg/log: error types and structured logging
//
// # Sweeps
//
//	ds, _ := cluster.NewDatasetFromMatrix(X)
//	table, err := model_selection.NewDBSCANSweep(ds,
//	    model_selection.WithWorkers(4),
//	).Run(ctx)
//	fmt.Println(table.Format(","))
//
// # License
//
// dbscango is released under the MIT License.
package dbscango
