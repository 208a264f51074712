// Package preprocess provides composable fit/transform stages for turning
// raw samples (text, numeric tensors, question answering tuples) into
// normalized, tokenized, padded numeric artifacts.
//
// A stage is fitted once over a whole dataset (vocabulary building, statistic
// computation, maximum length tracking), then applied per sample many times,
// including at inference time on a machine where the fit never ran. Fitted
// state can be persisted through an injected store.Store under an explicit
// key and recovered lazily on the first transform of an unfitted stage.
//
// # Stages
//
//   - Normalizer: per-dimension z-score normalization of tensors
//   - TextEncoder: tokenize, map to vocabulary ids, right-pad
//   - LabelEncoder: 1-based class labels to 0-based indexes
//   - TranslationEncoder: source/target pairs with independent vocabularies
//     and a shared padded length
//   - QAEncoder: context/question pairs over a shared vocabulary
//   - QASpanEncoder: character answer offsets to token span labels
//
// # Pipelines
//
// Stages compose into an ordered Pipeline. Fitting a pipeline fits each step
// in order, re-wrapping the dataset through the fitted step so later steps
// see transformed samples; transforming applies every step in order.
//
//	enc := preprocess.NewTextEncoder(preprocess.WithStore(st, "text_encoder"))
//	p := preprocess.NewPipeline(preprocess.StepOf[preprocess.Labeled, string, []int64]("encode", enc))
//
// # Unfitted transforms
//
// By default stages are lenient: a transform on an unfitted stage attempts a
// one-time load from the configured store, logs a warning if nothing can be
// recovered, and proceeds with zero-valued parameters. WithStrict makes the
// same situation a NOT_FITTED error instead.
//
// Transforms are safe to call concurrently from multiple readers as long as
// no Fit is in flight; fitting mutates stage state without locking.
package preprocess
