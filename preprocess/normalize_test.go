package preprocess

import (
	"bytes"
	"context"
	"math"
	"strings"
	"testing"

	"gorgonia.org/tensor"

	"github.com/kbukum/prepkit/dataset"
	"github.com/kbukum/prepkit/errors"
	"github.com/kbukum/prepkit/logger"
	"github.com/kbukum/prepkit/store"
)

func vec(vals ...float64) *tensor.Dense {
	return tensor.New(tensor.WithShape(len(vals)), tensor.WithBacking(vals))
}

func transformedValues(t *testing.T, n *Normalizer, d *tensor.Dense) []float64 {
	t.Helper()
	out, err := n.Transform(context.Background(), d)
	if err != nil {
		t.Fatal(err)
	}
	vals, ok := out.Data().([]float64)
	if !ok {
		t.Fatalf("expected float64 backing, got %T", out.Data())
	}
	return vals
}

func TestNormalizer_FitTransform(t *testing.T) {
	n := NewNormalizer()
	rows := []*tensor.Dense{vec(1, 2), vec(3, 4)}
	if err := n.Fit(context.Background(), dataset.FromSlice(rows)); err != nil {
		t.Fatal(err)
	}
	if n.State() != Fitted {
		t.Fatalf("expected fitted, got %s", n.State())
	}

	mean := n.Mean()
	if !approxSlice(mean, []float64{2, 3}, 1e-12) {
		t.Errorf("mean = %v", mean)
	}
	std := n.Stddev()
	want := math.Sqrt2
	if !approxSlice(std, []float64{want, want}, 1e-12) {
		t.Errorf("std = %v", std)
	}

	got := transformedValues(t, n, vec(1, 2))
	if !approxSlice(got, []float64{-1 / math.Sqrt2, -1 / math.Sqrt2}, 1e-12) {
		t.Errorf("transformed = %v", got)
	}
}

func TestNormalizer_TransformedBatchIsStandard(t *testing.T) {
	n := NewNormalizer()
	rows := []*tensor.Dense{vec(1, 10), vec(2, 20), vec(3, 30), vec(4, 40)}
	if err := n.Fit(context.Background(), dataset.FromSlice(rows)); err != nil {
		t.Fatal(err)
	}

	// Per-dimension mean of transformed rows must be ~0 and stddev ~1.
	dims := 2
	transformed := make([][]float64, len(rows))
	for i, row := range rows {
		transformed[i] = transformedValues(t, n, row)
	}
	for j := 0; j < dims; j++ {
		sum, sumSq := 0.0, 0.0
		for i := range transformed {
			sum += transformed[i][j]
		}
		mean := sum / float64(len(transformed))
		for i := range transformed {
			d := transformed[i][j] - mean
			sumSq += d * d
		}
		std := math.Sqrt(sumSq / float64(len(transformed)-1))
		if math.Abs(mean) > 1e-9 {
			t.Errorf("dim %d: mean = %v, want ~0", j, mean)
		}
		if math.Abs(std-1) > 1e-9 {
			t.Errorf("dim %d: std = %v, want ~1", j, std)
		}
	}
}

func TestNormalizer_FitBatch(t *testing.T) {
	n := NewNormalizer()
	batch := tensor.New(tensor.WithShape(2, 2), tensor.WithBacking([]float64{1, 2, 3, 4}))
	if err := n.FitBatch(context.Background(), batch); err != nil {
		t.Fatal(err)
	}
	if !approxSlice(n.Mean(), []float64{2, 3}, 1e-12) {
		t.Errorf("mean = %v", n.Mean())
	}
}

func TestNormalizer_FitBatch_TooFewDims(t *testing.T) {
	n := NewNormalizer()
	err := n.FitBatch(context.Background(), vec(1, 2, 3))
	if !errors.IsCode(err, errors.ErrCodeInvalidInput) {
		t.Errorf("expected INVALID_INPUT, got %v", err)
	}
}

func TestNormalizer_ZeroVarianceColumn(t *testing.T) {
	var buf bytes.Buffer
	n := NewNormalizer(WithLogger(logger.NewWriter(&buf, "test")))
	rows := []*tensor.Dense{vec(1, 5, 2), vec(1, 7, 4), vec(1, 9, 6)}
	if err := n.Fit(context.Background(), dataset.FromSlice(rows)); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(buf.String(), "epsilon") {
		t.Error("expected a zero-stddev warning")
	}

	got := transformedValues(t, n, vec(1, 7, 4))
	for j, v := range got {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			t.Errorf("dim %d: transformed value %v is not finite", j, v)
		}
	}
	// The constant column normalizes to exactly zero under the epsilon patch.
	if got[0] != 0 {
		t.Errorf("constant column transformed to %v, want 0", got[0])
	}
}

func TestNormalizer_FitIdempotent(t *testing.T) {
	rows := []*tensor.Dense{vec(1, 2), vec(5, 6), vec(9, 4)}
	n := NewNormalizer()
	if err := n.Fit(context.Background(), dataset.FromSlice(rows)); err != nil {
		t.Fatal(err)
	}
	firstMean, firstStd := n.Mean(), n.Stddev()
	if err := n.Fit(context.Background(), dataset.FromSlice(rows)); err != nil {
		t.Fatal(err)
	}
	if !approxSlice(n.Mean(), firstMean, 0) || !approxSlice(n.Stddev(), firstStd, 0) {
		t.Error("refitting the same dataset must reproduce identical parameters")
	}
}

func TestNormalizer_ShapeMismatch(t *testing.T) {
	n := NewNormalizer()
	if err := n.Fit(context.Background(), dataset.FromSlice([]*tensor.Dense{vec(1, 2), vec(3, 4)})); err != nil {
		t.Fatal(err)
	}
	_, err := n.Transform(context.Background(), vec(1, 2, 3))
	if !errors.IsCode(err, errors.ErrCodeShapeMismatch) {
		t.Errorf("expected SHAPE_MISMATCH, got %v", err)
	}
}

func TestNormalizer_FitShapeMismatch(t *testing.T) {
	n := NewNormalizer()
	err := n.Fit(context.Background(), dataset.FromSlice([]*tensor.Dense{vec(1, 2), vec(3, 4, 5)}))
	if !errors.IsCode(err, errors.ErrCodeShapeMismatch) {
		t.Errorf("expected SHAPE_MISMATCH, got %v", err)
	}
}

func TestNormalizer_EmptyDataset(t *testing.T) {
	n := NewNormalizer()
	err := n.Fit(context.Background(), dataset.FromSlice([]*tensor.Dense{}))
	if !errors.IsCode(err, errors.ErrCodeInvalidInput) {
		t.Errorf("expected INVALID_INPUT, got %v", err)
	}
}

func TestNormalizer_SaveLoadRoundTrip(t *testing.T) {
	st := store.NewMemory()
	ctx := context.Background()

	orig := NewNormalizer()
	if err := orig.Fit(ctx, dataset.FromSlice([]*tensor.Dense{vec(1, 2), vec(3, 4)})); err != nil {
		t.Fatal(err)
	}
	if err := orig.Save(ctx, st, "norm"); err != nil {
		t.Fatal(err)
	}

	restored := NewNormalizer()
	if err := restored.Load(ctx, st, "norm"); err != nil {
		t.Fatal(err)
	}
	if restored.State() != Fitted {
		t.Errorf("expected fitted after load, got %s", restored.State())
	}
	if !approxSlice(restored.Mean(), orig.Mean(), 0) {
		t.Errorf("mean differs after round trip: %v vs %v", restored.Mean(), orig.Mean())
	}
	if !approxSlice(restored.Stddev(), orig.Stddev(), 0) {
		t.Errorf("std differs after round trip")
	}

	a := transformedValues(t, orig, vec(1, 2))
	b := transformedValues(t, restored, vec(1, 2))
	if !approxSlice(a, b, 0) {
		t.Errorf("transforms differ after round trip: %v vs %v", a, b)
	}
}

func TestNormalizer_AutoRecoveryFromStore(t *testing.T) {
	st := store.NewMemory()
	ctx := context.Background()

	fitted := NewNormalizer(WithStore(st, "norm"))
	if err := fitted.Fit(ctx, dataset.FromSlice([]*tensor.Dense{vec(1, 2), vec(3, 4)})); err != nil {
		t.Fatal(err)
	}

	// A fresh instance on another "machine" recovers state on first transform.
	fresh := NewNormalizer(WithStore(st, "norm"))
	got := transformedValues(t, fresh, vec(1, 2))
	want := transformedValues(t, fitted, vec(1, 2))
	if !approxSlice(got, want, 0) {
		t.Errorf("recovered transform differs: %v vs %v", got, want)
	}
	if fresh.State() != Fitted {
		t.Errorf("expected fitted after recovery, got %s", fresh.State())
	}
}

func TestNormalizer_UnfittedLenient(t *testing.T) {
	var buf bytes.Buffer
	n := NewNormalizer(WithLogger(logger.NewWriter(&buf, "test")))
	got := transformedValues(t, n, vec(3, 4))
	if !approxSlice(got, []float64{3, 4}, 0) {
		t.Errorf("unfitted lenient transform should be identity, got %v", got)
	}
	if n.State() != LoadFailed {
		t.Errorf("expected load_failed, got %s", n.State())
	}
	if !strings.Contains(buf.String(), "unfitted") {
		t.Error("expected an unfitted warning")
	}
}

func TestNormalizer_UnfittedStrict(t *testing.T) {
	n := NewNormalizer(WithStrict(), WithLogger(logger.Nop()))
	_, err := n.Transform(context.Background(), vec(1, 2))
	if !errors.IsCode(err, errors.ErrCodeNotFitted) {
		t.Errorf("expected NOT_FITTED, got %v", err)
	}
}

func approxSlice(got, want []float64, tol float64) bool {
	if len(got) != len(want) {
		return false
	}
	for i := range got {
		if math.Abs(got[i]-want[i]) > tol {
			return false
		}
	}
	return true
}
