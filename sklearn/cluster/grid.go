package cluster

import (
	"math"
	"sync"
)

// GridIndex is a uniform grid over the first two coordinates with cell size eps.
// A query scans the 3x3 block of cells around the point and then applies the
// exact Euclidean distance check over all coordinates, so results match BruteForce.
// One grid is built lazily per distinct eps and cached.
type GridIndex struct {
	ds *Dataset

	mu    sync.RWMutex
	grids map[float64]*cellGrid
}

type cellGrid struct {
	cellSize float64
	cells    map[int64][]int // セルID → 点インデックス
}

// NewGridIndex creates a grid-backed neighbor query.
func NewGridIndex(ds *Dataset) *GridIndex {
	return &GridIndex{ds: ds, grids: make(map[float64]*cellGrid)}
}

// Neighbors implements NeighborQuery.
func (g *GridIndex) Neighbors(i int, eps float64) []int {
	grid := g.gridFor(eps)
	p := g.ds.points[i].coords
	cx, cy := grid.cellOf(p)

	var out []int
	for dx := int64(-1); dx <= 1; dx++ {
		for dy := int64(-1); dy <= 1; dy++ {
			for _, j := range grid.cells[pairCell(cx+dx, cy+dy)] {
				if Distance(p, g.ds.points[j].coords) <= eps {
					out = append(out, j)
				}
			}
		}
	}
	return out
}

func (g *GridIndex) gridFor(eps float64) *cellGrid {
	g.mu.RLock()
	grid, ok := g.grids[eps]
	g.mu.RUnlock()
	if ok {
		return grid
	}

	g.mu.Lock()
	defer g.mu.Unlock()
	if grid, ok = g.grids[eps]; ok {
		return grid
	}
	grid = &cellGrid{cellSize: eps, cells: make(map[int64][]int)}
	for j, pt := range g.ds.points {
		cx, cy := grid.cellOf(pt.coords)
		id := pairCell(cx, cy)
		grid.cells[id] = append(grid.cells[id], j)
	}
	g.grids[eps] = grid
	return grid
}

// cellOf は点の属するセル座標。1次元データは y=0 として扱う
func (c *cellGrid) cellOf(p []float64) (int64, int64) {
	var x, y float64
	if len(p) > 0 {
		x = p[0]
	}
	if len(p) > 1 {
		y = p[1]
	}
	return int64(math.Floor(x / c.cellSize)), int64(math.Floor(y / c.cellSize))
}

// pairCell maps signed cell coordinates to one id: zigzag encoding followed by
// Szudzik's pairing function.
func pairCell(cx, cy int64) int64 {
	a, b := zigzag(cx), zigzag(cy)
	if a >= b {
		return a*a + a + b
	}
	return a + b*b
}

func zigzag(v int64) int64 {
	if v >= 0 {
		return 2 * v
	}
	return -2*v - 1
}
