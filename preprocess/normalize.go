package preprocess

import (
	"context"

	"github.com/montanaflynn/stats"
	"gonum.org/v1/gonum/floats"
	"gorgonia.org/tensor"

	"github.com/kbukum/prepkit/dataset"
	"github.com/kbukum/prepkit/errors"
	"github.com/kbukum/prepkit/logger"
	"github.com/kbukum/prepkit/store"
)

const normalizerSchemaVersion = 1

// stddevEpsilon is added to the whole standard deviation vector when any
// entry is exactly zero, so transforms never divide by zero. The patch is
// global, not per-dimension.
const stddevEpsilon = 1e-7

// Normalizer applies z-score normalization to tensors: (x - mean) / stddev,
// element-wise over every dimension of the sample. For image samples of
// shape (C, H, W) the fitted mean and standard deviation are themselves
// (C, H, W) vectors, computed over the batch dimension of the fitted data.
type Normalizer struct {
	base
	shape []int
	mean  []float64
	std   []float64
}

// NewNormalizer creates an unfitted Normalizer.
func NewNormalizer(opts ...Option) *Normalizer {
	return &Normalizer{base: newBase("normalizer", opts)}
}

// Fit materializes the whole dataset into one batch and computes per-element
// sample mean and standard deviation over the batch dimension. Memory use is
// bounded by the dataset size, not by a single batch.
func (n *Normalizer) Fit(ctx context.Context, data *dataset.Dataset[*tensor.Dense]) error {
	samples, err := dataset.Collect(ctx, data)
	if err != nil {
		return err
	}
	if len(samples) == 0 {
		return errors.InvalidInput("data", "dataset is empty")
	}

	shape := []int(samples[0].Shape())
	size := numElements(shape)
	flat := make([][]float64, len(samples))
	for i, sample := range samples {
		if !intsEqual([]int(sample.Shape()), shape) {
			return errors.ShapeMismatch(shape, []int(sample.Shape()))
		}
		vals, err := denseFloats(sample)
		if err != nil {
			return err
		}
		flat[i] = vals
	}

	mean := make([]float64, size)
	std := make([]float64, size)
	column := make([]float64, len(samples))
	for j := 0; j < size; j++ {
		for i := range flat {
			column[i] = flat[i][j]
		}
		m, err := stats.Mean(column)
		if err != nil {
			return errors.Internal(err)
		}
		s, err := stats.StandardDeviationSample(column)
		if err != nil {
			return errors.Internal(err)
		}
		mean[j] = m
		std[j] = s
	}
	patchZeroStddev(std, n.log())

	n.shape = shape
	n.mean = mean
	n.std = std
	n.setState(Fitted)
	return n.persist(ctx, normalizerSchemaVersion, n.snapshot())
}

// FitBatch fits from a pre-stacked batch tensor whose leading dimension is
// the batch dimension.
func (n *Normalizer) FitBatch(ctx context.Context, batch *tensor.Dense) error {
	shape := []int(batch.Shape())
	if len(shape) < 2 {
		return errors.InvalidInput("batch", "batch tensor needs at least two dimensions")
	}
	rows := shape[0]
	sampleShape := shape[1:]
	size := numElements(sampleShape)
	vals, err := denseFloats(batch)
	if err != nil {
		return err
	}

	samples := make([]*tensor.Dense, rows)
	for i := 0; i < rows; i++ {
		samples[i] = tensor.New(
			tensor.WithShape(sampleShape...),
			tensor.WithBacking(vals[i*size:(i+1)*size]),
		)
	}
	return n.Fit(ctx, dataset.FromSlice(samples))
}

// Transform applies (datum - mean) / stddev element-wise. The sample shape
// must equal the fitted sample shape. An unfitted lenient transform returns
// the input unchanged (zero mean, unit deviation).
func (n *Normalizer) Transform(ctx context.Context, datum *tensor.Dense) (*tensor.Dense, error) {
	if err := n.ensureFitted(ctx, n.reload); err != nil {
		return nil, err
	}
	vals, err := denseFloats(datum)
	if err != nil {
		return nil, err
	}
	if n.mean == nil {
		out := make([]float64, len(vals))
		copy(out, vals)
		return tensor.New(tensor.WithShape([]int(datum.Shape())...), tensor.WithBacking(out)), nil
	}
	if !intsEqual([]int(datum.Shape()), n.shape) {
		return nil, errors.ShapeMismatch(n.shape, []int(datum.Shape()))
	}

	out := make([]float64, len(vals))
	copy(out, vals)
	floats.Sub(out, n.mean)
	floats.Div(out, n.std)
	return tensor.New(tensor.WithShape(n.shape...), tensor.WithBacking(out)), nil
}

// Mean returns a copy of the fitted mean vector in row-major order.
func (n *Normalizer) Mean() []float64 { return copyFloats(n.mean) }

// Stddev returns a copy of the fitted standard deviation vector.
func (n *Normalizer) Stddev() []float64 { return copyFloats(n.std) }

// --- persistence ---

type normalizerState struct {
	Fitted bool      `json:"fitted"`
	Shape  []int     `json:"shape"`
	Mean   []float64 `json:"mean"`
	Std    []float64 `json:"std"`
}

func (n *Normalizer) snapshot() normalizerState {
	return normalizerState{
		Fitted: n.State() == Fitted,
		Shape:  n.shape,
		Mean:   n.mean,
		Std:    n.std,
	}
}

// Save persists the fitted parameters to st under key.
func (n *Normalizer) Save(ctx context.Context, st store.Store, key string) error {
	data, err := store.EncodeSnapshot(key, normalizerSchemaVersion, n.snapshot())
	if err != nil {
		return err
	}
	return st.Save(ctx, key, data)
}

// Load restores fitted parameters from st under key.
func (n *Normalizer) Load(ctx context.Context, st store.Store, key string) error {
	data, err := st.Load(ctx, key)
	if err != nil {
		return err
	}
	var state normalizerState
	if err := store.DecodeSnapshot(data, key, normalizerSchemaVersion, &state); err != nil {
		return err
	}
	n.shape = state.Shape
	n.mean = state.Mean
	n.std = state.Std
	if state.Fitted {
		n.setState(Fitted)
	}
	return nil
}

func (n *Normalizer) reload(ctx context.Context) error {
	var state normalizerState
	if err := n.restore(ctx, normalizerSchemaVersion, &state); err != nil {
		return err
	}
	if !state.Fitted {
		return errors.NotFitted(n.name)
	}
	n.shape = state.Shape
	n.mean = state.Mean
	n.std = state.Std
	return nil
}

// --- helpers ---

// patchZeroStddev applies the epsilon patch when any deviation entry is zero.
// The epsilon is added to every entry, including those with nonzero variance.
func patchZeroStddev(std []float64, log *logger.Logger) {
	hasZero := false
	for _, s := range std {
		if s == 0 {
			hasZero = true
			break
		}
	}
	if !hasZero {
		return
	}
	log.Warn("standard deviation contains zeros, adding epsilon",
		logger.Fields(logger.FieldStage, "normalizer", "epsilon", stddevEpsilon))
	for i := range std {
		std[i] += stddevEpsilon
	}
}

func denseFloats(d *tensor.Dense) ([]float64, error) {
	vals, ok := d.Data().([]float64)
	if !ok {
		return nil, errors.InvalidInput("datum", "tensor backing must be []float64")
	}
	return vals, nil
}

func numElements(shape []int) int {
	size := 1
	for _, dim := range shape {
		size *= dim
	}
	return size
}

func intsEqual(a, b []int) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func copyFloats(src []float64) []float64 {
	if src == nil {
		return nil
	}
	out := make([]float64, len(src))
	copy(out, src)
	return out
}
