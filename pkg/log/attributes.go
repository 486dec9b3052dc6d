// Package log defines standard attribute keys for clustering operations.
//
// Keys follow a hierarchical naming convention (e.g. "dbscan.eps",
// "cluster.count") so that sweep logs can be filtered per parameter.

package log

// Model and Operation Context
const (
	// ModelNameKey identifies the estimator type, e.g. "DBSCAN".
	ModelNameKey = "model.name"

	// EstimatorIDKey is the UUID assigned to an estimator or sweep instance.
	EstimatorIDKey = "estimator.id"

	// OperationKey specifies the operation being performed.
	OperationKey = "ml.operation"

	// ComponentKey identifies which package is logging.
	ComponentKey = "ml.component"
)

// Data Shape
const (
	// SamplesKey is the number of points in the dataset.
	SamplesKey = "data.samples"

	// FeaturesKey is the coordinate dimension.
	FeaturesKey = "data.features"
)

// Clustering parameters and results
const (
	// EpsilonKey is the neighborhood radius of a run.
	EpsilonKey = "dbscan.eps"

	// MinPointsKey is the density threshold of a run.
	MinPointsKey = "dbscan.min_points"

	// AlgorithmKey names the neighbor query implementation ("brute", "grid", "kd_tree").
	AlgorithmKey = "dbscan.algorithm"

	// ClustersKey is the number of clusters discovered.
	ClustersKey = "cluster.count"

	// NoiseKey is the number of points left as noise.
	NoiseKey = "cluster.noise"

	// CoreKey is the number of core points.
	CoreKey = "cluster.core"

	// SilhouetteKey is the silhouette coefficient of a labeling.
	SilhouetteKey = "metrics.silhouette"

	// CellKey identifies a sweep grid cell as "row,col".
	CellKey = "sweep.cell"

	// CellsKey is the total number of cells of a sweep.
	CellsKey = "sweep.cells"

	// WorkersKey is the number of sweep workers.
	WorkersKey = "sweep.workers"
)

// Performance and errors
const (
	// DurationMsKey records the execution time of an operation in milliseconds.
	DurationMsKey = "perf.duration_ms"

	// ErrorTypeKey categorizes the type of error encountered.
	ErrorTypeKey = "error.type"

	// StacktraceKey contains stack trace information for debugging.
	StacktraceKey = "error.stacktrace"
)

// Standard attribute values.
const (
	OperationFit     = "fit"
	OperationRun     = "run"
	OperationScore   = "score"
	OperationSweep   = "sweep"
	OperationPersist = "persist"
)
