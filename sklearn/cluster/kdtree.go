package cluster

import (
	"gonum.org/v1/gonum/spatial/kdtree"
)

// kdSlack widens the tree search radius slightly. Candidates are then filtered
// with the same Distance <= eps check BruteForce uses, so rounding in the
// squared-distance search never changes which boundary points are returned.
const kdSlack = 1e-9

// KDTreeIndex answers radius queries with a gonum k-d tree built once per dataset.
type KDTreeIndex struct {
	ds   *Dataset
	tree *kdtree.Tree
}

// NewKDTreeIndex builds the tree over every point of ds.
func NewKDTreeIndex(ds *Dataset) *KDTreeIndex {
	idx := &KDTreeIndex{ds: ds}
	if ds.Len() == 0 || ds.Dim() == 0 {
		return idx
	}
	// kdtree.New は渡したスライスを並べ替えるので、元の順序とは別に持つ
	pts := make(kdPoints, ds.Len())
	for i, p := range ds.points {
		pts[i] = kdPoint{id: i, coords: p.coords}
	}
	idx.tree = kdtree.New(pts, false)
	return idx
}

// Neighbors implements NeighborQuery.
func (k *KDTreeIndex) Neighbors(i int, eps float64) []int {
	if k.tree == nil {
		// 0次元の点は全て距離0
		out := make([]int, k.ds.Len())
		for j := range out {
			out[j] = j
		}
		return out
	}
	p := k.ds.points[i].coords
	keeper := kdtree.NewDistKeeper(eps*eps*(1+kdSlack) + kdSlack)
	k.tree.NearestSet(keeper, kdPoint{id: i, coords: p})

	out := make([]int, 0, len(keeper.Heap))
	for _, c := range keeper.Heap {
		// Heap には半径の番兵が残る
		if c.Comparable == nil {
			continue
		}
		q := c.Comparable.(kdPoint)
		if Distance(p, q.coords) <= eps {
			out = append(out, q.id)
		}
	}
	return out
}

// kdPoint carries the dataset index through the tree's reordering.
type kdPoint struct {
	id     int
	coords []float64
}

func (p kdPoint) Compare(c kdtree.Comparable, d kdtree.Dim) float64 {
	q := c.(kdPoint)
	return p.coords[d] - q.coords[d]
}

func (p kdPoint) Dims() int { return len(p.coords) }

// Distance is the squared Euclidean distance, as the tree expects.
func (p kdPoint) Distance(c kdtree.Comparable) float64 {
	return squaredDistance(p.coords, c.(kdPoint).coords)
}

type kdPoints []kdPoint

func (p kdPoints) Index(i int) kdtree.Comparable { return p[i] }
func (p kdPoints) Len() int                      { return len(p) }
func (p kdPoints) Pivot(d kdtree.Dim) int {
	return kdPlane{dim: d, kdPoints: p}.Pivot()
}
func (p kdPoints) Slice(start, end int) kdtree.Interface { return p[start:end] }

// kdPlane orders points along one dimension for median partitioning.
type kdPlane struct {
	dim kdtree.Dim
	kdPoints
}

func (p kdPlane) Less(i, j int) bool {
	return p.kdPoints[i].coords[p.dim] < p.kdPoints[j].coords[p.dim]
}
func (p kdPlane) Pivot() int { return kdtree.Partition(p, kdtree.MedianOfMedians(p)) }
func (p kdPlane) Slice(start, end int) kdtree.SortSlicer {
	return kdPlane{dim: p.dim, kdPoints: p.kdPoints[start:end]}
}
func (p kdPlane) Swap(i, j int) {
	p.kdPoints[i], p.kdPoints[j] = p.kdPoints[j], p.kdPoints[i]
}
