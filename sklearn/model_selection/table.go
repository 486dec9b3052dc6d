package model_selection

import (
	"io"
	"math"
	"os"
	"strconv"
	"strings"

	"github.com/YuminosukeSato/dbscango/pkg/errors"
)

// DefaultSentinel は表の左上と失敗したセルに入る文字列
const DefaultSentinel = "x"

// Table はスイープ結果の表
// 行は minPts、列は eps。先頭行と先頭列にパラメータ値が入る
type Table struct {
	MinPoints []int
	Eps       []float64
	Sentinel  string

	scores [][]float64
	ok     [][]bool
}

// NewTable は全セルが失敗扱いの空の表を作る
func NewTable(minPts []int, eps []float64, sentinel string) *Table {
	t := &Table{
		MinPoints: append([]int(nil), minPts...),
		Eps:       append([]float64(nil), eps...),
		Sentinel:  sentinel,
		scores:    make([][]float64, len(minPts)),
		ok:        make([][]bool, len(minPts)),
	}
	for i := range minPts {
		t.scores[i] = make([]float64, len(eps))
		t.ok[i] = make([]bool, len(eps))
	}
	return t
}

// Set は (i, j) セルにスコアを記録する
func (t *Table) Set(i, j int, score float64) {
	t.scores[i][j] = score
	t.ok[i][j] = true
}

// Score returns the score of cell (i, j) and false when the cell failed.
func (t *Table) Score(i, j int) (float64, bool) {
	return t.scores[i][j], t.ok[i][j]
}

// Best は最大スコアのセルを返す。同点は行優先で先に現れたもの
func (t *Table) Best() (minPts int, eps float64, score float64, found bool) {
	score = math.Inf(-1)
	for i := range t.scores {
		for j, s := range t.scores[i] {
			if t.ok[i][j] && s > score {
				minPts, eps, score, found = t.MinPoints[i], t.Eps[j], s, true
			}
		}
	}
	if !found {
		score = 0
	}
	return minPts, eps, score, found
}

// Rows は (M+1)×(E+1) の文字列セル
func (t *Table) Rows() [][]string {
	rows := make([][]string, len(t.MinPoints)+1)

	header := make([]string, len(t.Eps)+1)
	header[0] = t.Sentinel
	for j, e := range t.Eps {
		header[j+1] = formatFloat(e)
	}
	rows[0] = header

	for i, m := range t.MinPoints {
		row := make([]string, len(t.Eps)+1)
		row[0] = strconv.Itoa(m)
		for j := range t.Eps {
			if t.ok[i][j] {
				row[j+1] = formatFloat(t.scores[i][j])
			} else {
				row[j+1] = t.Sentinel
			}
		}
		rows[i+1] = row
	}
	return rows
}

// Format は行を改行、セルを delim で連結する（末尾の改行なし）
func (t *Table) Format(delim string) string {
	rows := t.Rows()
	lines := make([]string, len(rows))
	for i, r := range rows {
		lines[i] = strings.Join(r, delim)
	}
	return strings.Join(lines, "\n")
}

// WriteTo writes the comma-delimited table to w.
func (t *Table) WriteTo(w io.Writer) (int64, error) {
	n, err := io.WriteString(w, t.Format(","))
	if err != nil {
		return int64(n), errors.Wrap(err, "failed to write sweep table")
	}
	return int64(n), nil
}

// WriteTableFile は表を delim 区切りでファイルに書き出す
func WriteTableFile(path string, t *Table, delim string) error {
	f, err := os.Create(path)
	if err != nil {
		return errors.Wrap(err, "failed to create table file")
	}
	defer f.Close()

	if _, err := io.WriteString(f, t.Format(delim)); err != nil {
		return errors.Wrapf(err, "failed to write table file %s", path)
	}
	return nil
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}
