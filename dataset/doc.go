// Package dataset provides the lazy, pull-based dataset contract consumed by
// preprocessing stages.
//
// A Dataset is a re-iterable source of samples: no work happens until values
// are pulled via Collect or ForEach. Stage fitting consumes a full pass over
// a Dataset; per-sample transforms never touch it.
//
// # Operators
//
//   - Map: transform each sample (how a fitted stage re-wraps the dataset
//     seen by later stages in a pipeline)
//   - Filter: keep samples matching a predicate
//   - Concat: join datasets sequentially
//
// # Usage
//
//	data := dataset.FromSlice([]preprocess.Labeled{
//	    {Label: 1, Text: "the cat sat"},
//	    {Label: 2, Text: "a dog ran fast"},
//	})
//	err := encoder.Fit(ctx, data)
package dataset
