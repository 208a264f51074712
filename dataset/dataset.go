package dataset

import "context"

// Iterator provides pull-based sequential access to a stream of samples.
type Iterator[T any] interface {
	// Next returns the next sample. Returns (zero, false, nil) when exhausted.
	Next(ctx context.Context) (T, bool, error)
	// Close releases any resources held by the iterator.
	Close() error
}

// Dataset is a lazy, re-iterable source of samples. Each call to Iter starts
// a fresh pass, so a stage fit and a later pipeline re-wrap can both consume
// the same Dataset.
type Dataset[T any] struct {
	create func(ctx context.Context) Iterator[T]
}

// --- Constructors ---

// From creates a dataset from an iterator factory. Sources that can only be
// consumed once should return an exhausted iterator on subsequent calls.
func From[T any](create func(ctx context.Context) Iterator[T]) *Dataset[T] {
	return &Dataset[T]{create: create}
}

// FromSlice creates a dataset backed by a slice of samples.
func FromSlice[T any](items []T) *Dataset[T] {
	return &Dataset[T]{
		create: func(_ context.Context) Iterator[T] {
			return &sliceIter[T]{items: items}
		},
	}
}

// --- Terminals ---

// Collect iterates the dataset once and returns all samples as a slice.
func Collect[T any](ctx context.Context, d *Dataset[T]) ([]T, error) {
	iter := d.create(ctx)
	defer iter.Close()
	var out []T
	for {
		val, ok, err := iter.Next(ctx)
		if err != nil {
			return out, err
		}
		if !ok {
			return out, nil
		}
		out = append(out, val)
	}
}

// ForEach iterates the dataset once, calling fn for each sample.
func ForEach[T any](ctx context.Context, d *Dataset[T], fn func(context.Context, T) error) error {
	iter := d.create(ctx)
	defer iter.Close()
	for {
		val, ok, err := iter.Next(ctx)
		if err != nil {
			return err
		}
		if !ok {
			return nil
		}
		if err := fn(ctx, val); err != nil {
			return err
		}
	}
}

// Iter returns a raw Iterator over the dataset. The caller must Close() it.
func (d *Dataset[T]) Iter(ctx context.Context) Iterator[T] {
	return d.create(ctx)
}

// --- Internal iterators ---

type sliceIter[T any] struct {
	items []T
	index int
}

func (it *sliceIter[T]) Next(_ context.Context) (T, bool, error) {
	if it.index >= len(it.items) {
		var zero T
		return zero, false, nil
	}
	val := it.items[it.index]
	it.index++
	return val, true, nil
}

func (it *sliceIter[T]) Close() error { return nil }
