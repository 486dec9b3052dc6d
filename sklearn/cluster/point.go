package cluster

import (
	"gonum.org/v1/gonum/mat"

	"github.com/YuminosukeSato/dbscango/pkg/errors"
)

// Point は安定したIDと不変の座標を持つ点
// ラベルは点に持たせず、Engine 側のラベルストアで管理する
type Point struct {
	ID     int
	coords []float64
}

// NewPoint は座標をコピーして点を作成する
func NewPoint(id int, coords []float64) Point {
	c := make([]float64, len(coords))
	copy(c, coords)
	return Point{ID: id, coords: c}
}

// Coords は座標のコピーを返す
func (p Point) Coords() []float64 {
	c := make([]float64, len(p.coords))
	copy(c, p.coords)
	return c
}

// Dim は座標の次元数
func (p Point) Dim() int { return len(p.coords) }

// At は i 番目の座標
func (p Point) At(i int) float64 { return p.coords[i] }

// Equal は座標が完全に一致するかを返す
// ワークリストから自分自身を除外する際の同一性判定に使う
func (p Point) Equal(q Point) bool {
	if len(p.coords) != len(q.coords) {
		return false
	}
	for i, v := range p.coords {
		if v != q.coords[i] {
			return false
		}
	}
	return true
}

// Dataset is a fixed-size, ordered collection of points sharing one dimension.
// It is read-only after construction and safe to share between engines.
type Dataset struct {
	points []Point
	dim    int
}

// NewDataset は座標列からデータセットを作成する
// 次元が揃っていない場合は ValidationError を返す。空の入力は空のデータセットになる
func NewDataset(coords [][]float64) (*Dataset, error) {
	ds := &Dataset{points: make([]Point, len(coords))}
	for i, c := range coords {
		if i == 0 {
			ds.dim = len(c)
		} else if len(c) != ds.dim {
			return nil, errors.NewValidationError("coordinates", "dimension mismatch between points",
				map[string]int{"index": i, "expected": ds.dim, "got": len(c)})
		}
		ds.points[i] = NewPoint(i, c)
	}
	return ds, nil
}

// NewDatasetFromMatrix は n_samples × n_features の行列からデータセットを作成する
func NewDatasetFromMatrix(X mat.Matrix) (*Dataset, error) {
	if X == nil {
		return &Dataset{}, nil
	}
	rows, cols := X.Dims()
	coords := make([][]float64, rows)
	for i := 0; i < rows; i++ {
		coords[i] = mat.Row(nil, i, X)
	}
	ds, err := NewDataset(coords)
	if err != nil {
		return nil, err
	}
	ds.dim = cols
	return ds, nil
}

// Len は点の数
func (d *Dataset) Len() int { return len(d.points) }

// Dim は座標の次元数（空なら 0）
func (d *Dataset) Dim() int { return d.dim }

// Point は i 番目の点
func (d *Dataset) Point(i int) Point { return d.points[i] }

// Coords returns a copy of every point's coordinates, in ID order.
func (d *Dataset) Coords() [][]float64 {
	out := make([][]float64, len(d.points))
	for i, p := range d.points {
		out[i] = p.Coords()
	}
	return out
}

// DistanceBetween は i 番目と j 番目の点のユークリッド距離
func (d *Dataset) DistanceBetween(i, j int) float64 {
	return Distance(d.points[i].coords, d.points[j].coords)
}
