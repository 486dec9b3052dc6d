// Package metrics はクラスタリング結果の内部評価指標を提供する
package metrics

import (
	"math"
	"sort"

	"github.com/YuminosukeSato/dbscango/core/parallel"
	"github.com/YuminosukeSato/dbscango/pkg/errors"
	"github.com/YuminosukeSato/dbscango/sklearn/cluster"
)

// parallelThreshold 以下の点数では逐次計算する
const parallelThreshold = 512

// SilhouetteScore はシルエット係数を計算する
//
// ノイズ以外の点 p（クラスタ C に所属）について:
//   - a(p) = C の他のメンバーへの平均距離（|C| = 1 なら 0）
//   - b(p) = C 以外の各クラスタへの最小距離の平均
//   - s(p) = (b(p) - a(p)) / max(a(p), b(p))（max が 0 なら 0）
//
// 全体のスコアは s(p) の総和をノイズを含むデータ点数で割った値。
// クラスタが2つ未満の場合は 0 を返し、UndefinedMetricWarning を発行する。
func SilhouetteScore(points [][]float64, labels []cluster.Label) (float64, error) {
	samples, err := SilhouetteSamples(points, labels)
	if err != nil {
		return 0, err
	}
	if len(samples) == 0 {
		return 0, nil
	}

	// 並列計算しても結果が変わらないよう、総和は点の順に取る
	var sum float64
	for _, s := range samples {
		sum += s
	}
	score := sum / float64(len(samples))
	if err := errors.CheckScalar("silhouette_score", score, 0); err != nil {
		return 0, err
	}
	return score, nil
}

// SilhouetteSamples は各点のシルエット係数を返す。ノイズ点は 0
// クラスタが2つ未満の場合は全て 0 になる
func SilhouetteSamples(points [][]float64, labels []cluster.Label) ([]float64, error) {
	if len(points) != len(labels) {
		return nil, errors.NewDimensionError("SilhouetteSamples", len(points), len(labels), 0)
	}

	members := make(map[int][]int)
	for i, l := range labels {
		switch l.Kind() {
		case cluster.KindUnclassified:
			return nil, errors.NewValueError("SilhouetteSamples", "labeling is incomplete: point is still unclassified")
		case cluster.KindNoise:
		case cluster.KindClustered:
			members[l.ClusterID()] = append(members[l.ClusterID()], i)
		}
	}

	samples := make([]float64, len(points))
	if len(members) < 2 {
		errors.Warn(errors.NewUndefinedMetricWarning("silhouette_score", "fewer than 2 clusters", 0))
		return samples, nil
	}

	ids := make([]int, 0, len(members))
	for k := range members {
		ids = append(ids, k)
	}
	sort.Ints(ids)

	parallel.ParallelizeWithThreshold(len(points), parallelThreshold, func(start, end int) {
		for i := start; i < end; i++ {
			if labels[i].IsClustered() {
				samples[i] = coefficient(points, i, labels[i].ClusterID(), members, ids)
			}
		}
	})
	return samples, nil
}

func coefficient(points [][]float64, i, own int, members map[int][]int, ids []int) float64 {
	p := points[i]

	var a float64
	if same := members[own]; len(same) > 1 {
		var sum float64
		for _, j := range same {
			if j != i {
				sum += cluster.Distance(p, points[j])
			}
		}
		a = sum / float64(len(same)-1)
	}

	var sumMin float64
	for _, k := range ids {
		if k == own {
			continue
		}
		nearest := math.Inf(1)
		for _, j := range members[k] {
			if d := cluster.Distance(p, points[j]); d < nearest {
				nearest = d
			}
		}
		sumMin += nearest
	}
	b := sumMin / float64(len(ids)-1)

	return errors.SafeRatio(b-a, math.Max(a, b))
}

// SilhouetteScoreResult は Result のラベルでデータセットを評価する
func SilhouetteScoreResult(ds *cluster.Dataset, res *cluster.Result) (float64, error) {
	if ds == nil || res == nil {
		return 0, errors.NewValueError("SilhouetteScoreResult", "dataset and result must not be nil")
	}
	return SilhouetteScore(ds.Coords(), res.Labels)
}
