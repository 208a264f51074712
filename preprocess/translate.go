package preprocess

import (
	"context"

	"github.com/kbukum/prepkit/dataset"
	"github.com/kbukum/prepkit/errors"
	"github.com/kbukum/prepkit/logger"
	"github.com/kbukum/prepkit/store"
	"github.com/kbukum/prepkit/vocab"
)

const translationSchemaVersion = 1

// Pair is one translation sample: source text and its target translation.
type Pair struct {
	Source string `json:"source"`
	Target string `json:"target"`
}

// EncodedPair is a transformed translation sample: both sides mapped to ids
// and padded to the same shared length.
type EncodedPair struct {
	Source []int64 `json:"source"`
	Target []int64 `json:"target"`
}

// TranslationEncoder preprocesses source/target text pairs. Each side has its
// own tokenizer, vocabulary and pad id, but both are padded to a single
// maximum length shared across source and target sequences.
type TranslationEncoder struct {
	base
	sourceVocab     *vocab.Vocab
	targetVocab     *vocab.Vocab
	userSourceVocab bool
	userTargetVocab bool
	maxLength       int
}

// NewTranslationEncoder creates an unfitted TranslationEncoder. Vocabularies
// can be supplied with WithVocab (source side) and WithTargetVocab.
func NewTranslationEncoder(opts ...Option) *TranslationEncoder {
	e := &TranslationEncoder{base: newBase("translation_encoder", opts)}
	if e.opts.vocab != nil {
		e.sourceVocab = e.opts.vocab
		e.userSourceVocab = true
	}
	if e.opts.targetVocab != nil {
		e.targetVocab = e.opts.targetVocab
		e.userTargetVocab = true
	}
	return e
}

// Fit builds independent frequency counters for the two sides while tracking
// one maximum length across both.
func (e *TranslationEncoder) Fit(ctx context.Context, data *dataset.Dataset[Pair]) error {
	sourceCounter := vocab.NewCounter()
	targetCounter := vocab.NewCounter()
	maxLength := 0
	err := dataset.ForEach(ctx, data, func(_ context.Context, p Pair) error {
		sourceTokens := e.opts.tokenizer.Tokenize(p.Source)
		targetTokens := e.opts.targetTokenizer.Tokenize(p.Target)
		sourceCounter.Update(sourceTokens)
		targetCounter.Update(targetTokens)
		if len(sourceTokens) > maxLength {
			maxLength = len(sourceTokens)
		}
		if len(targetTokens) > maxLength {
			maxLength = len(targetTokens)
		}
		return nil
	})
	if err != nil {
		return err
	}

	if !e.userSourceVocab {
		e.sourceVocab = vocab.Build(sourceCounter)
	}
	if !e.userTargetVocab {
		e.targetVocab = vocab.Build(targetCounter)
	}
	e.maxLength = maxLength
	e.setState(Fitted)
	e.log().Debug("translation encoder fitted", logger.Fields(
		logger.FieldMaxLength, maxLength,
		"source_vocab_size", e.sourceVocab.Len(),
		"target_vocab_size", e.targetVocab.Len(),
	))
	return e.persist(ctx, translationSchemaVersion, e.snapshot())
}

// Transform encodes both sides with their own vocabulary and pad id, padded
// to the shared maximum length.
func (e *TranslationEncoder) Transform(ctx context.Context, p Pair) (EncodedPair, error) {
	if err := e.ensureFitted(ctx, e.reload); err != nil {
		return EncodedPair{}, err
	}
	source, err := e.encodeSide(e.opts.tokenizer.Tokenize(p.Source), e.sourceVocab)
	if err != nil {
		return EncodedPair{}, err
	}
	target, err := e.encodeSide(e.opts.targetTokenizer.Tokenize(p.Target), e.targetVocab)
	if err != nil {
		return EncodedPair{}, err
	}
	return EncodedPair{Source: source, Target: target}, nil
}

func (e *TranslationEncoder) encodeSide(tokens []string, v *vocab.Vocab) ([]int64, error) {
	var ids []int64
	var padID int64
	if v != nil {
		ids = v.IDs(tokens)
		padID = v.PadID()
	} else {
		ids = make([]int64, len(tokens))
	}
	return pad(ids, e.maxLength, padID, e.opts.padPolicy)
}

// MaxLength returns the fitted shared maximum sequence length.
func (e *TranslationEncoder) MaxLength() int { return e.maxLength }

// SourceVocab returns the source-side vocabulary, nil before fitting.
func (e *TranslationEncoder) SourceVocab() *vocab.Vocab { return e.sourceVocab }

// TargetVocab returns the target-side vocabulary, nil before fitting.
func (e *TranslationEncoder) TargetVocab() *vocab.Vocab { return e.targetVocab }

// --- persistence ---

type translationState struct {
	Fitted      bool         `json:"fitted"`
	MaxLength   int          `json:"max_length"`
	SourceVocab *vocab.Vocab `json:"source_vocab"`
	TargetVocab *vocab.Vocab `json:"target_vocab"`
}

func (e *TranslationEncoder) snapshot() translationState {
	return translationState{
		Fitted:      e.State() == Fitted,
		MaxLength:   e.maxLength,
		SourceVocab: e.sourceVocab,
		TargetVocab: e.targetVocab,
	}
}

// Save persists the fitted parameters to st under key.
func (e *TranslationEncoder) Save(ctx context.Context, st store.Store, key string) error {
	data, err := store.EncodeSnapshot(key, translationSchemaVersion, e.snapshot())
	if err != nil {
		return err
	}
	return st.Save(ctx, key, data)
}

// Load restores fitted parameters from st under key.
func (e *TranslationEncoder) Load(ctx context.Context, st store.Store, key string) error {
	data, err := st.Load(ctx, key)
	if err != nil {
		return err
	}
	var state translationState
	if err := store.DecodeSnapshot(data, key, translationSchemaVersion, &state); err != nil {
		return err
	}
	e.apply(state)
	return nil
}

func (e *TranslationEncoder) reload(ctx context.Context) error {
	var state translationState
	if err := e.restore(ctx, translationSchemaVersion, &state); err != nil {
		return err
	}
	if !state.Fitted {
		return errors.NotFitted(e.name)
	}
	e.apply(state)
	return nil
}

func (e *TranslationEncoder) apply(state translationState) {
	e.maxLength = state.MaxLength
	if state.SourceVocab != nil {
		e.sourceVocab = state.SourceVocab
	}
	if state.TargetVocab != nil {
		e.targetVocab = state.TargetVocab
	}
	if state.Fitted {
		e.setState(Fitted)
	}
}
