package cluster

import (
	"github.com/YuminosukeSato/dbscango/pkg/errors"
)

// 近傍探索アルゴリズム名
const (
	AlgorithmBrute  = "brute"
	AlgorithmGrid   = "grid"
	AlgorithmKDTree = "kd_tree"
)

// NeighborQuery returns every point within eps of point i, i itself included.
// The boundary is inclusive (distance <= eps) and the result has no particular order.
// Implementations must be safe for concurrent use by several engines.
type NeighborQuery interface {
	Neighbors(i int, eps float64) []int
}

// NewNeighborQuery はアルゴリズム名から近傍探索を作成する
// 空文字列は "brute" として扱う
func NewNeighborQuery(algorithm string, ds *Dataset) (NeighborQuery, error) {
	switch algorithm {
	case "", AlgorithmBrute:
		return NewBruteForce(ds), nil
	case AlgorithmGrid:
		return NewGridIndex(ds), nil
	case AlgorithmKDTree:
		return NewKDTreeIndex(ds), nil
	default:
		return nil, errors.NewValidationError("algorithm", "unknown neighbor query algorithm", algorithm)
	}
}

// BruteForce は全点との距離を計算する基準実装。1回の探索は O(n)
type BruteForce struct {
	ds *Dataset
}

// NewBruteForce creates the reference linear-scan query.
func NewBruteForce(ds *Dataset) *BruteForce {
	return &BruteForce{ds: ds}
}

// Neighbors implements NeighborQuery.
func (b *BruteForce) Neighbors(i int, eps float64) []int {
	p := b.ds.points[i].coords
	var out []int
	for j, q := range b.ds.points {
		if Distance(p, q.coords) <= eps {
			out = append(out, j)
		}
	}
	return out
}
