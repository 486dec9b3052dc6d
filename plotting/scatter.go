// Package plotting renders clustering results with gonum/plot: a labeled
// scatter plot per run and a heat map of a parameter sweep.
package plotting

import (
	"fmt"
	"image/color"
	"io"
	"math"
	"strconv"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"

	"github.com/YuminosukeSato/dbscango/pkg/errors"
	"github.com/YuminosukeSato/dbscango/sklearn/cluster"
)

// 既定の画像サイズ
const (
	DefaultWidth  = 6 * vg.Inch
	DefaultHeight = 6 * vg.Inch
)

var noiseColor = color.RGBA{R: 128, G: 128, B: 128, A: 255}

// RunTitle はある (eps, minPts) の結果に付けるタイトル
func RunTitle(eps float64, minPts, nClusters int) string {
	return fmt.Sprintf("For eps=%s minpts=%d finds %d clusters",
		strconv.FormatFloat(eps, 'g', -1, 64), minPts, nClusters)
}

// Scatter builds a scatter plot of the first two coordinates, one series per
// cluster plus noise drawn as grey crosses. One-dimensional points are drawn at y=0.
func Scatter(coords [][]float64, labels []cluster.Label, title string) (*plot.Plot, error) {
	if len(coords) != len(labels) {
		return nil, errors.NewDimensionError("plotting.Scatter", len(coords), len(labels), 0)
	}

	series := make(map[int]plotter.XYs)
	var noise plotter.XYs
	maxID := 0
	for i, c := range coords {
		xy := plotter.XY{}
		if len(c) > 0 {
			xy.X = c[0]
		}
		if len(c) > 1 {
			xy.Y = c[1]
		}
		switch labels[i].Kind() {
		case cluster.KindClustered:
			k := labels[i].ClusterID()
			series[k] = append(series[k], xy)
			if k > maxID {
				maxID = k
			}
		default:
			// 未分類の点もノイズとして描く
			noise = append(noise, xy)
		}
	}

	p := plot.New()
	p.Title.Text = title
	p.X.Label.Text = "x"
	p.Y.Label.Text = "y"

	colors := clusterColors(maxID)
	for k := 1; k <= maxID; k++ {
		pts, ok := series[k]
		if !ok {
			continue
		}
		s, err := plotter.NewScatter(pts)
		if err != nil {
			return nil, errors.Wrapf(err, "scatter for cluster %d", k)
		}
		s.GlyphStyle.Color = colors[k-1]
		s.GlyphStyle.Shape = draw.CircleGlyph{}
		s.GlyphStyle.Radius = vg.Points(2)
		p.Add(s)
		p.Legend.Add(fmt.Sprintf("cluster %d", k), s)
	}
	if len(noise) > 0 {
		s, err := plotter.NewScatter(noise)
		if err != nil {
			return nil, errors.Wrap(err, "scatter for noise")
		}
		s.GlyphStyle.Color = noiseColor
		s.GlyphStyle.Shape = draw.CrossGlyph{}
		s.GlyphStyle.Radius = vg.Points(2)
		p.Add(s)
		p.Legend.Add("noise", s)
	}
	return p, nil
}

// ScatterResult は Result のラベルでデータセットを描画する
func ScatterResult(ds *cluster.Dataset, res *cluster.Result) (*plot.Plot, error) {
	return Scatter(ds.Coords(), res.Labels, RunTitle(res.Eps, res.MinPoints, res.NClusters))
}

// WritePNG は PNG として w に書き出す
func WritePNG(p *plot.Plot, w io.Writer) error {
	wt, err := p.WriterTo(DefaultWidth, DefaultHeight, "png")
	if err != nil {
		return errors.Wrap(err, "failed to render plot")
	}
	if _, err := wt.WriteTo(w); err != nil {
		return errors.Wrap(err, "failed to write plot")
	}
	return nil
}

// Save は拡張子に応じた形式（png, svg, pdf など）でファイルに保存する
func Save(p *plot.Plot, path string) error {
	if err := p.Save(DefaultWidth, DefaultHeight, path); err != nil {
		return errors.Wrapf(err, "failed to save plot %s", path)
	}
	return nil
}

// clusterColors は色相を均等に分けた n 色を返す
func clusterColors(n int) []color.Color {
	colors := make([]color.Color, n)
	for i := range colors {
		r, g, b := hslToRGB(float64(i)/float64(n), 0.7, 0.5)
		colors[i] = color.RGBA{R: r, G: g, B: b, A: 255}
	}
	return colors
}

func hslToRGB(h, s, l float64) (r, g, b uint8) {
	var q float64
	if l < 0.5 {
		q = l * (1 + s)
	} else {
		q = l + s - l*s
	}
	p := 2*l - q
	return channel(p, q, h+1.0/3), channel(p, q, h), channel(p, q, h-1.0/3)
}

func channel(p, q, t float64) uint8 {
	t -= math.Floor(t)
	var v float64
	switch {
	case t < 1.0/6:
		v = p + (q-p)*6*t
	case t < 0.5:
		v = q
	case t < 2.0/3:
		v = p + (q-p)*(2.0/3-t)*6
	default:
		v = p
	}
	return uint8(math.Round(v * 255))
}
