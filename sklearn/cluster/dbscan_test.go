package cluster

import (
	"bytes"
	"testing"

	"github.com/google/go-cmp/cmp"
	"gonum.org/v1/gonum/mat"

	"github.com/YuminosukeSato/dbscango/core/model"
	"github.com/YuminosukeSato/dbscango/pkg/errors"
	"github.com/YuminosukeSato/dbscango/pkg/log"
)

func tightMatrix() *mat.Dense {
	return mat.NewDense(4, 2, []float64{0, 0, 0.1, 0, 0, 0.1, 5, 5})
}

func TestDBSCANNotFitted(t *testing.T) {
	db := NewDBSCAN()

	checks := map[string]func() error{
		"Labels":            func() error { _, err := db.Labels(); return err },
		"NClusters":         func() error { _, err := db.NClusters(); return err },
		"CoreSampleIndices": func() error { _, err := db.CoreSampleIndices(); return err },
		"Result":            func() error { _, err := db.Result(); return err },
		"Snapshot":          func() error { _, err := db.Snapshot(); return err },
	}
	for name, call := range checks {
		t.Run(name, func(t *testing.T) {
			var nf *errors.NotFittedError
			if err := call(); !errors.As(err, &nf) {
				t.Fatalf("expected NotFittedError, got %v", err)
			}
			if nf.Method != name {
				t.Errorf("Method = %q, want %q", nf.Method, name)
			}
		})
	}
}

func TestDBSCANFitPredict(t *testing.T) {
	for _, algo := range []string{AlgorithmBrute, AlgorithmGrid, AlgorithmKDTree} {
		t.Run(algo, func(t *testing.T) {
			db := NewDBSCAN(
				WithEps(0.2),
				WithMinSamples(3),
				WithAlgorithm(algo),
				WithLogger(log.NewNopLogger()),
			)
			labels, err := db.FitPredict(tightMatrix())
			if err != nil {
				t.Fatalf("FitPredict() error = %v", err)
			}
			if diff := cmp.Diff([]int{1, 1, 1, -1}, labels); diff != "" {
				t.Errorf("labels mismatch (-want +got):\n%s", diff)
			}
			n, err := db.NClusters()
			if err != nil || n != 1 {
				t.Errorf("NClusters() = %d, %v; want 1", n, err)
			}
			core, _ := db.CoreSampleIndices()
			if diff := cmp.Diff([]int{0, 1, 2}, core); diff != "" {
				t.Errorf("CoreSampleIndices mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestDBSCANFitErrors(t *testing.T) {
	tests := []struct {
		name string
		db   *DBSCAN
	}{
		{"negative eps", NewDBSCAN(WithEps(-1), WithLogger(log.NewNopLogger()))},
		{"zero min samples", NewDBSCAN(WithMinSamples(0), WithLogger(log.NewNopLogger()))},
		{"unknown algorithm", NewDBSCAN(WithAlgorithm("octree"), WithLogger(log.NewNopLogger()))},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := tt.db.Fit(tightMatrix()); err == nil {
				t.Fatal("Fit() should fail")
			}
			if tt.db.IsFitted() {
				t.Error("estimator must stay unfitted after a failed Fit")
			}
		})
	}
}

func TestDBSCANWorklistOrderOption(t *testing.T) {
	X := mat.NewDense(60, 2, nil)
	for i, c := range randomCoords(13, 60, 2, 1.0) {
		X.SetRow(i, c)
	}
	lifo := NewDBSCAN(WithEps(0.2), WithMinSamples(3), WithLogger(log.NewNopLogger()))
	fifo := NewDBSCAN(WithEps(0.2), WithMinSamples(3), WithDBSCANWorklistOrder(FIFO), WithLogger(log.NewNopLogger()))
	if err := lifo.Fit(X); err != nil {
		t.Fatal(err)
	}
	if err := fifo.Fit(X); err != nil {
		t.Fatal(err)
	}
	a, _ := lifo.Result()
	b, _ := fifo.Result()
	ac, an := a.Partition()
	bc, bn := b.Partition()
	if diff := cmp.Diff(ac, bc); diff != "" {
		t.Errorf("clusters differ (-lifo +fifo):\n%s", diff)
	}
	if diff := cmp.Diff(an, bn); diff != "" {
		t.Errorf("noise differs (-lifo +fifo):\n%s", diff)
	}
	if got := fifo.GetParams()["worklist"]; got != "fifo" {
		t.Errorf("GetParams()[worklist] = %v, want fifo", got)
	}
}

func TestDBSCANLogsFit(t *testing.T) {
	tl := log.NewTestLogger(log.LevelInfo)
	db := NewDBSCAN(WithEps(0.2), WithMinSamples(3), WithLogger(tl))
	if err := db.Fit(tightMatrix()); err != nil {
		t.Fatal(err)
	}
	if !tl.ContainsMessage("fit completed") {
		t.Fatalf("missing fit log, got: %s", tl.String())
	}
	if !tl.ContainsField(log.ClustersKey, float64(1)) {
		t.Errorf("missing %s field, got: %s", log.ClustersKey, tl.String())
	}
	if !tl.ContainsField(log.EstimatorIDKey, db.EstimatorID()) {
		t.Errorf("missing %s field, got: %s", log.EstimatorIDKey, tl.String())
	}
	if tl.ContainsMessage("dbscan run started") {
		t.Error("debug records must not be emitted at info level")
	}
}

func TestDBSCANSnapshotRoundTrip(t *testing.T) {
	db := NewDBSCAN(WithEps(0.2), WithMinSamples(3), WithAlgorithm(AlgorithmGrid), WithLogger(log.NewNopLogger()))
	if err := db.Fit(tightMatrix()); err != nil {
		t.Fatal(err)
	}
	snap, err := db.Snapshot()
	if err != nil {
		t.Fatal(err)
	}

	var buf bytes.Buffer
	if err := model.SaveModelToWriter(snap, &buf); err != nil {
		t.Fatal(err)
	}
	var loaded model.ClusteringSnapshot
	if err := model.LoadModelFromReader(&loaded, &buf); err != nil {
		t.Fatal(err)
	}

	restored := NewDBSCAN(WithLogger(log.NewNopLogger()))
	if err := restored.Restore(&loaded); err != nil {
		t.Fatalf("Restore() error = %v", err)
	}

	wantLabels, _ := db.Labels()
	gotLabels, _ := restored.Labels()
	if diff := cmp.Diff(wantLabels, gotLabels); diff != "" {
		t.Errorf("labels mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(db.GetParams(), restored.GetParams()); diff != "" {
		t.Errorf("params mismatch (-want +got):\n%s", diff)
	}
	if restored.EstimatorID() != db.EstimatorID() {
		t.Errorf("EstimatorID = %s, want %s", restored.EstimatorID(), db.EstimatorID())
	}
	res, _ := restored.Result()
	if res.NNoise != 1 {
		t.Errorf("NNoise = %d, want 1", res.NNoise)
	}
}

func TestDBSCANRestoreRejectsBadSnapshot(t *testing.T) {
	db := NewDBSCAN(WithLogger(log.NewNopLogger()))

	if err := db.Restore(nil); err == nil {
		t.Error("Restore(nil) should fail")
	}
	if err := db.Restore(&model.ClusteringSnapshot{Version: model.SnapshotVersion, ModelType: "KMeans"}); err == nil {
		t.Error("Restore of a non-DBSCAN snapshot should fail")
	}
	bad := &model.ClusteringSnapshot{
		Version:   model.SnapshotVersion,
		ModelType: "DBSCAN",
		NSamples:  2,
		NClusters: 1,
		Labels:    []int{1, 2},
	}
	if err := db.Restore(bad); err == nil {
		t.Error("Restore with a label above NClusters should fail")
	}
	if db.IsFitted() {
		t.Error("failed Restore must leave the estimator unfitted")
	}
}
