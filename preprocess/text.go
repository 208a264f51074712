package preprocess

import (
	"context"

	"github.com/kbukum/prepkit/dataset"
	"github.com/kbukum/prepkit/errors"
	"github.com/kbukum/prepkit/logger"
	"github.com/kbukum/prepkit/store"
	"github.com/kbukum/prepkit/vocab"
)

const textEncoderSchemaVersion = 1

// Labeled is one classification sample: a 1-based class label and its text.
type Labeled struct {
	Label int64  `json:"label"`
	Text  string `json:"text"`
}

// TextEncoder turns text into fixed-length integer id sequences for
// classification. Fitting builds a vocabulary from token frequencies over the
// corpus and records the maximum tokenized length; transforms tokenize, map
// tokens to ids and right-pad to that length.
type TextEncoder struct {
	base
	vocab     *vocab.Vocab
	userVocab bool
	maxLength int
}

// NewTextEncoder creates an unfitted TextEncoder. A pre-built vocabulary can
// be supplied with WithVocab; Fit then only computes the maximum length.
func NewTextEncoder(opts ...Option) *TextEncoder {
	e := &TextEncoder{base: newBase("text_encoder", opts)}
	if e.opts.vocab != nil {
		e.vocab = e.opts.vocab
		e.userVocab = true
	}
	return e
}

// Fit tokenizes every sample's text, accumulating token frequencies and the
// maximum sequence length.
func (e *TextEncoder) Fit(ctx context.Context, data *dataset.Dataset[Labeled]) error {
	counter := vocab.NewCounter()
	maxLength := 0
	samples := 0
	err := dataset.ForEach(ctx, data, func(_ context.Context, s Labeled) error {
		tokens := e.opts.tokenizer.Tokenize(s.Text)
		counter.Update(tokens)
		if len(tokens) > maxLength {
			maxLength = len(tokens)
		}
		samples++
		return nil
	})
	if err != nil {
		return err
	}

	if !e.userVocab {
		e.vocab = vocab.Build(counter)
	}
	e.maxLength = maxLength
	e.setState(Fitted)
	e.log().Debug("text encoder fitted", logger.Fields(
		logger.FieldSamples, samples,
		logger.FieldMaxLength, maxLength,
		logger.FieldVocabSize, e.vocab.Len(),
	))
	return e.persist(ctx, textEncoderSchemaVersion, e.snapshot())
}

// Transform tokenizes text, maps tokens to vocabulary ids and right-pads with
// the pad id up to the fitted maximum length.
func (e *TextEncoder) Transform(ctx context.Context, text string) ([]int64, error) {
	if err := e.ensureFitted(ctx, e.reload); err != nil {
		return nil, err
	}
	tokens := e.opts.tokenizer.Tokenize(text)
	var ids []int64
	var padID int64
	if e.vocab != nil {
		ids = e.vocab.IDs(tokens)
		padID = e.vocab.PadID()
	} else {
		// Unfitted lenient transform: every token is unknown.
		ids = make([]int64, len(tokens))
	}
	return pad(ids, e.maxLength, padID, e.opts.padPolicy)
}

// MaxLength returns the fitted maximum sequence length.
func (e *TextEncoder) MaxLength() int { return e.maxLength }

// Vocab returns the fitted (or supplied) vocabulary, nil before fitting.
func (e *TextEncoder) Vocab() *vocab.Vocab { return e.vocab }

// --- persistence ---

type textEncoderState struct {
	Fitted    bool         `json:"fitted"`
	MaxLength int          `json:"max_length"`
	Vocab     *vocab.Vocab `json:"vocab"`
}

func (e *TextEncoder) snapshot() textEncoderState {
	return textEncoderState{
		Fitted:    e.State() == Fitted,
		MaxLength: e.maxLength,
		Vocab:     e.vocab,
	}
}

// Save persists the fitted parameters to st under key.
func (e *TextEncoder) Save(ctx context.Context, st store.Store, key string) error {
	data, err := store.EncodeSnapshot(key, textEncoderSchemaVersion, e.snapshot())
	if err != nil {
		return err
	}
	return st.Save(ctx, key, data)
}

// Load restores fitted parameters from st under key.
func (e *TextEncoder) Load(ctx context.Context, st store.Store, key string) error {
	data, err := st.Load(ctx, key)
	if err != nil {
		return err
	}
	var state textEncoderState
	if err := store.DecodeSnapshot(data, key, textEncoderSchemaVersion, &state); err != nil {
		return err
	}
	e.apply(state)
	return nil
}

func (e *TextEncoder) reload(ctx context.Context) error {
	var state textEncoderState
	if err := e.restore(ctx, textEncoderSchemaVersion, &state); err != nil {
		return err
	}
	if !state.Fitted {
		return errors.NotFitted(e.name)
	}
	e.apply(state)
	return nil
}

func (e *TextEncoder) apply(state textEncoderState) {
	e.maxLength = state.MaxLength
	if state.Vocab != nil {
		e.vocab = state.Vocab
	}
	if state.Fitted {
		e.setState(Fitted)
	}
}
