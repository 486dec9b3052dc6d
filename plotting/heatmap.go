package plotting

import (
	"image/color"
	"math"
	"strconv"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/palette"
	"gonum.org/v1/plot/plotter"

	"github.com/YuminosukeSato/dbscango/pkg/errors"
	"github.com/YuminosukeSato/dbscango/sklearn/model_selection"
)

// tableGrid adapts a sweep table to plotter.GridXYZ: columns are eps, rows minPts.
type tableGrid struct {
	t *model_selection.Table
}

func (g tableGrid) Dims() (c, r int) { return len(g.t.Eps), len(g.t.MinPoints) }

func (g tableGrid) Z(c, r int) float64 {
	if s, ok := g.t.Score(r, c); ok {
		return s
	}
	return math.NaN()
}

func (g tableGrid) X(c int) float64 { return float64(c) }
func (g tableGrid) Y(r int) float64 { return float64(r) }

// SweepHeatMap はスイープ結果のヒートマップを作る。失敗したセルは黒で描く
func SweepHeatMap(t *model_selection.Table, title string) (*plot.Plot, error) {
	if t == nil || len(t.Eps) == 0 || len(t.MinPoints) == 0 {
		return nil, errors.Wrap(errors.ErrEmptyData, "sweep heat map")
	}

	lo, hi := math.Inf(1), math.Inf(-1)
	for i := range t.MinPoints {
		for j := range t.Eps {
			if s, ok := t.Score(i, j); ok {
				lo, hi = math.Min(lo, s), math.Max(hi, s)
			}
		}
	}
	if math.IsInf(lo, 1) {
		return nil, errors.Wrap(errors.ErrEmptyData, "sweep heat map: every cell failed")
	}
	if lo == hi {
		lo, hi = lo-0.5, hi+0.5
	}

	hm := plotter.NewHeatMap(tableGrid{t: t}, palette.Heat(12, 1))
	hm.Min, hm.Max = lo, hi
	hm.NaN = color.Black

	p := plot.New()
	p.Title.Text = title
	p.X.Label.Text = "eps"
	p.Y.Label.Text = "minpts"
	p.Add(hm)

	epsNames := make([]string, len(t.Eps))
	for j, e := range t.Eps {
		epsNames[j] = strconv.FormatFloat(e, 'g', -1, 64)
	}
	minPtsNames := make([]string, len(t.MinPoints))
	for i, m := range t.MinPoints {
		minPtsNames[i] = strconv.Itoa(m)
	}
	p.NominalX(epsNames...)
	p.NominalY(minPtsNames...)
	return p, nil
}
