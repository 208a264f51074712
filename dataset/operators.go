package dataset

import "context"

// Map transforms each sample using fn. This is how a fitted stage re-wraps
// the dataset seen by later pipeline stages: the mapped dataset stays lazy,
// applying fn on every pull.
func Map[I, O any](d *Dataset[I], fn func(context.Context, I) (O, error)) *Dataset[O] {
	return &Dataset[O]{
		create: func(ctx context.Context) Iterator[O] {
			return &mapIter[I, O]{source: d.create(ctx), fn: fn}
		},
	}
}

// Filter keeps only samples that satisfy the predicate.
func Filter[T any](d *Dataset[T], fn func(T) bool) *Dataset[T] {
	return &Dataset[T]{
		create: func(ctx context.Context) Iterator[T] {
			return &filterIter[T]{source: d.create(ctx), fn: fn}
		},
	}
}

// Concat joins multiple datasets sequentially. All samples from the first
// dataset are yielded before the second, etc.
func Concat[T any](datasets ...*Dataset[T]) *Dataset[T] {
	return &Dataset[T]{
		create: func(ctx context.Context) Iterator[T] {
			iters := make([]Iterator[T], len(datasets))
			for i, d := range datasets {
				iters[i] = d.create(ctx)
			}
			return &concatIter[T]{iters: iters}
		},
	}
}

// --- Iterator implementations ---

type mapIter[I, O any] struct {
	source Iterator[I]
	fn     func(context.Context, I) (O, error)
}

func (it *mapIter[I, O]) Next(ctx context.Context) (O, bool, error) {
	val, ok, err := it.source.Next(ctx)
	if err != nil || !ok {
		var zero O
		return zero, false, err
	}
	out, err := it.fn(ctx, val)
	if err != nil {
		var zero O
		return zero, false, err
	}
	return out, true, nil
}

func (it *mapIter[I, O]) Close() error { return it.source.Close() }

type filterIter[T any] struct {
	source Iterator[T]
	fn     func(T) bool
}

func (it *filterIter[T]) Next(ctx context.Context) (T, bool, error) {
	for {
		val, ok, err := it.source.Next(ctx)
		if err != nil || !ok {
			var zero T
			return zero, false, err
		}
		if it.fn(val) {
			return val, true, nil
		}
	}
}

func (it *filterIter[T]) Close() error { return it.source.Close() }

type concatIter[T any] struct {
	iters []Iterator[T]
	index int
}

func (it *concatIter[T]) Next(ctx context.Context) (T, bool, error) {
	for it.index < len(it.iters) {
		val, ok, err := it.iters[it.index].Next(ctx)
		if err != nil {
			var zero T
			return zero, false, err
		}
		if ok {
			return val, true, nil
		}
		it.index++
	}
	var zero T
	return zero, false, nil
}

func (it *concatIter[T]) Close() error {
	var firstErr error
	for _, iter := range it.iters {
		if err := iter.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}
