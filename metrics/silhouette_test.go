package metrics

import (
	"math"
	"sync"
	"testing"

	"github.com/YuminosukeSato/dbscango/pkg/errors"
	"github.com/YuminosukeSato/dbscango/sklearn/cluster"
)

var (
	c1    = cluster.ClusterLabel(1)
	c2    = cluster.ClusterLabel(2)
	c3    = cluster.ClusterLabel(3)
	noise = cluster.NoiseLabel()
)

// captureWarnings は警告を記録するハンドラに差し替える
func captureWarnings(t *testing.T) func() []error {
	t.Helper()
	var mu sync.Mutex
	var warnings []error
	errors.SetWarningHandler(func(w error) {
		mu.Lock()
		defer mu.Unlock()
		warnings = append(warnings, w)
	})
	t.Cleanup(func() { errors.SetWarningHandler(nil) })
	return func() []error {
		mu.Lock()
		defer mu.Unlock()
		return append([]error(nil), warnings...)
	}
}

func TestSilhouetteScore(t *testing.T) {
	tests := []struct {
		name      string
		points    [][]float64
		labels    []cluster.Label
		want      float64
		tolerance float64
		wantWarn  bool
	}{
		{
			name:     "empty dataset",
			points:   nil,
			labels:   nil,
			want:     0,
			wantWarn: true,
		},
		{
			name:     "single cluster",
			points:   [][]float64{{0}, {1}, {2}},
			labels:   []cluster.Label{c1, c1, c1},
			want:     0,
			wantWarn: true,
		},
		{
			name:     "only noise",
			points:   [][]float64{{0}, {5}},
			labels:   []cluster.Label{noise, noise},
			want:     0,
			wantWarn: true,
		},
		{
			// p0: a=1 b=10 -> 0.9, p1: a=1 b=9 -> 8/9, p2: 単独クラスタ a=0 -> 1
			// ノイズも分母に含むので (0.9 + 8/9 + 1) / 4
			name:      "noise counted in denominator",
			points:    [][]float64{{0}, {1}, {10}, {20}},
			labels:    []cluster.Label{c1, c1, c2, noise},
			want:      25.1 / 36,
			tolerance: 1e-12,
		},
		{
			// b(p) は各クラスタへの最小距離の平均
			// p0: a=1 b=(2+10)/2 -> 5/6, p1: a=1 b=(1+9)/2 -> 4/5, 単独の2点 -> 1
			name:      "mean of per-cluster minimums",
			points:    [][]float64{{0}, {1}, {2}, {10}},
			labels:    []cluster.Label{c1, c1, c2, c3},
			want:      (5.0/6 + 4.0/5 + 2) / 4,
			tolerance: 1e-12,
		},
		{
			name:      "coincident clusters",
			points:    [][]float64{{0, 0}, {0, 0}, {0, 0}},
			labels:    []cluster.Label{c1, c1, c2},
			want:      0,
			tolerance: 1e-12,
		},
		{
			// クラスタ内距離は全て 5。(3,4)-(13,4) は 10、両端の点は sqrt(185)
			name:      "two dimensional",
			points:    [][]float64{{0, 0}, {3, 4}, {13, 4}, {16, 8}},
			labels:    []cluster.Label{c1, c1, c2, c2},
			want:      (2*0.5 + 2*(math.Sqrt(185)-5)/math.Sqrt(185)) / 4,
			tolerance: 1e-12,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			warnings := captureWarnings(t)

			got, err := SilhouetteScore(tt.points, tt.labels)
			if err != nil {
				t.Fatalf("SilhouetteScore() error = %v", err)
			}
			if math.Abs(got-tt.want) > tt.tolerance {
				t.Errorf("SilhouetteScore() = %v, want %v (tolerance: %v)", got, tt.want, tt.tolerance)
			}

			ws := warnings()
			if tt.wantWarn {
				if len(ws) != 1 {
					t.Fatalf("got %d warnings, want 1", len(ws))
				}
				var uw *errors.UndefinedMetricWarning
				if !errors.As(ws[0], &uw) {
					t.Errorf("expected UndefinedMetricWarning, got %T", ws[0])
				}
			} else if len(ws) != 0 {
				t.Errorf("unexpected warnings: %v", ws)
			}
		})
	}
}

func TestSilhouetteSamples(t *testing.T) {
	captureWarnings(t)

	points := [][]float64{{0}, {1}, {10}, {20}}
	labels := []cluster.Label{c1, c1, c2, noise}
	got, err := SilhouetteSamples(points, labels)
	if err != nil {
		t.Fatal(err)
	}
	want := []float64{0.9, 8.0 / 9, 1, 0}
	for i := range want {
		if math.Abs(got[i]-want[i]) > 1e-12 {
			t.Errorf("sample %d = %v, want %v", i, got[i], want[i])
		}
	}
}

func TestSilhouetteErrors(t *testing.T) {
	t.Run("length mismatch", func(t *testing.T) {
		_, err := SilhouetteScore([][]float64{{0}, {1}}, []cluster.Label{c1})
		var derr *errors.DimensionError
		if !errors.As(err, &derr) {
			t.Fatalf("expected DimensionError, got %v", err)
		}
	})

	t.Run("unclassified label", func(t *testing.T) {
		_, err := SilhouetteScore([][]float64{{0}, {1}}, []cluster.Label{c1, cluster.Unclassified()})
		var verr *errors.ValueError
		if !errors.As(err, &verr) {
			t.Fatalf("expected ValueError, got %v", err)
		}
	})

	t.Run("nil result", func(t *testing.T) {
		if _, err := SilhouetteScoreResult(nil, nil); err == nil {
			t.Fatal("expected an error")
		}
	})
}

func TestSilhouetteParallelMatchesSequential(t *testing.T) {
	captureWarnings(t)

	// parallelThreshold を超える点数で、逐次計算した値と一致すること
	n := parallelThreshold*2 + 17
	points := make([][]float64, n)
	labels := make([]cluster.Label, n)
	for i := range points {
		points[i] = []float64{float64(i%50) * 0.1, float64(i/50) * 0.3}
		switch i % 7 {
		case 0:
			labels[i] = noise
		case 1, 2, 3:
			labels[i] = c1
		case 4, 5:
			labels[i] = c2
		default:
			labels[i] = c3
		}
	}

	got, err := SilhouetteSamples(points, labels)
	if err != nil {
		t.Fatal(err)
	}

	members := map[int][]int{}
	for i, l := range labels {
		if l.IsClustered() {
			members[l.ClusterID()] = append(members[l.ClusterID()], i)
		}
	}
	ids := []int{1, 2, 3}
	for i, l := range labels {
		want := 0.0
		if l.IsClustered() {
			want = coefficient(points, i, l.ClusterID(), members, ids)
		}
		if got[i] != want {
			t.Fatalf("sample %d = %v, want %v", i, got[i], want)
		}
	}
}

func TestSilhouetteScoreResult(t *testing.T) {
	captureWarnings(t)

	ds, err := cluster.NewDataset([][]float64{{0}, {1}, {10}, {20}})
	if err != nil {
		t.Fatal(err)
	}
	res := &cluster.Result{Labels: []cluster.Label{c1, c1, c2, noise}, NClusters: 2, NNoise: 1}
	got, err := SilhouetteScoreResult(ds, res)
	if err != nil {
		t.Fatal(err)
	}
	if math.Abs(got-25.1/36) > 1e-12 {
		t.Errorf("SilhouetteScoreResult() = %v, want %v", got, 25.1/36)
	}
}
