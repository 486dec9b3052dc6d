package model_selection

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func smallTable() *Table {
	t := NewTable([]int{2, 3}, []float64{0.08, 0.1}, DefaultSentinel)
	t.Set(0, 0, 0.5)
	t.Set(1, 1, -0.25)
	return t
}

func TestTableRows(t *testing.T) {
	want := [][]string{
		{"x", "0.08", "0.1"},
		{"2", "0.5", "x"},
		{"3", "x", "-0.25"},
	}
	if diff := cmp.Diff(want, smallTable().Rows()); diff != "" {
		t.Errorf("Rows() mismatch (-want +got):\n%s", diff)
	}
}

func TestTableFormat(t *testing.T) {
	tests := []struct {
		name  string
		delim string
		want  string
	}{
		{"comma", ",", "x,0.08,0.1\n2,0.5,x\n3,x,-0.25"},
		{"tab", "\t", "x\t0.08\t0.1\n2\t0.5\tx\n3\tx\t-0.25"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := smallTable().Format(tt.delim); got != tt.want {
				t.Errorf("Format(%q) = %q, want %q", tt.delim, got, tt.want)
			}
		})
	}
}

func TestTableWriteTo(t *testing.T) {
	var buf bytes.Buffer
	n, err := smallTable().WriteTo(&buf)
	if err != nil {
		t.Fatal(err)
	}
	if int(n) != buf.Len() {
		t.Errorf("WriteTo returned %d, wrote %d bytes", n, buf.Len())
	}
	if buf.String() != "x,0.08,0.1\n2,0.5,x\n3,x,-0.25" {
		t.Errorf("unexpected output %q", buf.String())
	}
}

func TestWriteTableFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "DBSCAN_RES.csv")
	if err := WriteTableFile(path, smallTable(), ","); err != nil {
		t.Fatal(err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != smallTable().Format(",") {
		t.Errorf("file content %q", data)
	}

	if err := WriteTableFile(filepath.Join(t.TempDir(), "missing", "out.csv"), smallTable(), ","); err == nil {
		t.Error("writing into a missing directory should fail")
	}
}

func TestTableScoreAndBest(t *testing.T) {
	tb := smallTable()
	if s, ok := tb.Score(0, 0); !ok || s != 0.5 {
		t.Errorf("Score(0,0) = %v, %v", s, ok)
	}
	if _, ok := tb.Score(0, 1); ok {
		t.Error("Score(0,1) should report a failed cell")
	}

	minPts, eps, score, found := tb.Best()
	if !found || minPts != 2 || eps != 0.08 || score != 0.5 {
		t.Errorf("Best() = %d, %v, %v, %v", minPts, eps, score, found)
	}

	empty := NewTable([]int{2}, []float64{0.1}, "x")
	if _, _, _, found := empty.Best(); found {
		t.Error("Best() on a table without scores should report not found")
	}
}
