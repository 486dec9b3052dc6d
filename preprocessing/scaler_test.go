package preprocessing

import (
	"math"
	"testing"

	"gonum.org/v1/gonum/mat"

	"github.com/YuminosukeSato/dbscango/pkg/errors"
)

func assertMatrixNear(t *testing.T, got, want mat.Matrix, tol float64) {
	t.Helper()
	if !mat.EqualApprox(got, want, tol) {
		t.Errorf("matrix mismatch\ngot:\n%v\nwant:\n%v", mat.Formatted(got), mat.Formatted(want))
	}
}

func TestStandardScaler(t *testing.T) {
	// 2列目は定数なのでスケール1、平均のみ引かれる
	X := mat.NewDense(4, 2, []float64{
		1, 5,
		2, 5,
		3, 5,
		4, 5,
	})
	s := NewStandardScalerDefault()
	got, err := s.FitTransform(X)
	if err != nil {
		t.Fatalf("FitTransform() error = %v", err)
	}

	std := math.Sqrt(1.25)
	want := mat.NewDense(4, 2, []float64{
		-1.5 / std, 0,
		-0.5 / std, 0,
		0.5 / std, 0,
		1.5 / std, 0,
	})
	assertMatrixNear(t, got, want, 1e-12)

	back, err := s.InverseTransform(got)
	if err != nil {
		t.Fatal(err)
	}
	assertMatrixNear(t, back, X, 1e-12)
}

func TestStandardScalerWithoutMean(t *testing.T) {
	X := mat.NewDense(2, 1, []float64{2, 4})
	s := NewStandardScaler(false, true)
	got, err := s.FitTransform(X)
	if err != nil {
		t.Fatal(err)
	}
	assertMatrixNear(t, got, mat.NewDense(2, 1, []float64{2, 4}), 1e-12)
}

func TestMinMaxScaler(t *testing.T) {
	X := mat.NewDense(3, 2, []float64{
		-1, 10,
		0, 10,
		3, 10,
	})
	m := NewMinMaxScaler([2]float64{0, 2})
	got, err := m.FitTransform(X)
	if err != nil {
		t.Fatalf("FitTransform() error = %v", err)
	}
	want := mat.NewDense(3, 2, []float64{
		0, 0,
		0.5, 0,
		2, 0,
	})
	assertMatrixNear(t, got, want, 1e-12)

	back, err := m.InverseTransform(got)
	if err != nil {
		t.Fatal(err)
	}
	assertMatrixNear(t, back, X, 1e-12)
}

func TestScalerErrors(t *testing.T) {
	t.Run("not fitted", func(t *testing.T) {
		_, err := NewStandardScalerDefault().Transform(mat.NewDense(1, 1, nil))
		var nf *errors.NotFittedError
		if !errors.As(err, &nf) {
			t.Fatalf("expected NotFittedError, got %v", err)
		}
		_, err = NewMinMaxScalerDefault().InverseTransform(mat.NewDense(1, 1, nil))
		if !errors.As(err, &nf) {
			t.Fatalf("expected NotFittedError, got %v", err)
		}
	})

	t.Run("feature mismatch", func(t *testing.T) {
		s := NewMinMaxScalerDefault()
		if err := s.Fit(mat.NewDense(2, 2, []float64{0, 1, 2, 3})); err != nil {
			t.Fatal(err)
		}
		_, err := s.Transform(mat.NewDense(1, 3, nil))
		var derr *errors.DimensionError
		if !errors.As(err, &derr) {
			t.Fatalf("expected DimensionError, got %v", err)
		}
	})

	t.Run("invalid range", func(t *testing.T) {
		err := NewMinMaxScaler([2]float64{1, 1}).Fit(mat.NewDense(1, 1, nil))
		var verr *errors.ValidationError
		if !errors.As(err, &verr) {
			t.Fatalf("expected ValidationError, got %v", err)
		}
	})
}

func TestNewScaler(t *testing.T) {
	for _, name := range []string{"standard", "minmax"} {
		if _, err := NewScaler(name); err != nil {
			t.Errorf("NewScaler(%q) error = %v", name, err)
		}
	}
	if _, err := NewScaler("robust"); err == nil {
		t.Error("NewScaler(robust) should fail")
	}
}
