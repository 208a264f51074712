package preprocess

import (
	"context"

	"github.com/kbukum/prepkit/dataset"
	"github.com/kbukum/prepkit/errors"
	"github.com/kbukum/prepkit/logger"
	"github.com/kbukum/prepkit/store"
	"github.com/kbukum/prepkit/vocab"
)

const qaEncoderSchemaVersion = 1

// QASample is one question answering sample. AnswerStart is the byte offset
// of the answer's first character within Context.
type QASample struct {
	Context     string `json:"context"`
	Question    string `json:"question"`
	Answer      string `json:"answer"`
	AnswerStart int    `json:"answer_start"`
}

// EncodedQA is a transformed QA sample: context and question mapped to ids
// over the shared vocabulary, each padded to the shared maximum length.
type EncodedQA struct {
	Context  []int64 `json:"context"`
	Question []int64 `json:"question"`
}

// Span is a token-level answer span: the index of the answer's first token
// within the tokenized context, and the index one past its last token.
type Span struct {
	Start int64 `json:"start"`
	End   int64 `json:"end"`
}

// QAEncoder preprocesses question answering samples. Context and question
// share one vocabulary, one pad id and one maximum length. Answer text is
// excluded from vocabulary and length accounting: answers are span targets,
// not input sequences.
type QAEncoder struct {
	base
	vocab     *vocab.Vocab
	userVocab bool
	maxLength int
}

// NewQAEncoder creates an unfitted QAEncoder. A shared vocabulary can be
// supplied with WithVocab.
func NewQAEncoder(opts ...Option) *QAEncoder {
	e := &QAEncoder{base: newBase("qa_encoder", opts)}
	if e.opts.vocab != nil {
		e.vocab = e.opts.vocab
		e.userVocab = true
	}
	return e
}

// Fit accumulates one frequency counter over context and question tokens and
// tracks the maximum length across both.
func (e *QAEncoder) Fit(ctx context.Context, data *dataset.Dataset[QASample]) error {
	counter := vocab.NewCounter()
	maxLength := 0
	err := dataset.ForEach(ctx, data, func(_ context.Context, s QASample) error {
		contextTokens := e.opts.tokenizer.Tokenize(s.Context)
		questionTokens := e.opts.tokenizer.Tokenize(s.Question)
		counter.Update(contextTokens)
		counter.Update(questionTokens)
		if len(contextTokens) > maxLength {
			maxLength = len(contextTokens)
		}
		if len(questionTokens) > maxLength {
			maxLength = len(questionTokens)
		}
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
	e.log().Debug("qa encoder fitted", logger.Fields(
		logger.FieldMaxLength, maxLength,
		logger.FieldVocabSize, e.vocab.Len(),
	))
	return e.persist(ctx, qaEncoderSchemaVersion, e.snapshot())
}

// Transform encodes context and question independently over the shared
// vocabulary, each padded to the shared maximum length.
func (e *QAEncoder) Transform(ctx context.Context, s QASample) (EncodedQA, error) {
	if err := e.ensureFitted(ctx, e.reload); err != nil {
		return EncodedQA{}, err
	}
	encodedContext, err := e.encode(s.Context)
	if err != nil {
		return EncodedQA{}, err
	}
	encodedQuestion, err := e.encode(s.Question)
	if err != nil {
		return EncodedQA{}, err
	}
	return EncodedQA{Context: encodedContext, Question: encodedQuestion}, nil
}

func (e *QAEncoder) encode(text string) ([]int64, error) {
	tokens := e.opts.tokenizer.Tokenize(text)
	var ids []int64
	var padID int64
	if e.vocab != nil {
		ids = e.vocab.IDs(tokens)
		padID = e.vocab.PadID()
	} else {
		ids = make([]int64, len(tokens))
	}
	return pad(ids, e.maxLength, padID, e.opts.padPolicy)
}

// MaxLength returns the fitted shared maximum sequence length.
func (e *QAEncoder) MaxLength() int { return e.maxLength }

// Vocab returns the shared vocabulary, nil before fitting.
func (e *QAEncoder) Vocab() *vocab.Vocab { return e.vocab }

// --- persistence ---

type qaEncoderState struct {
	Fitted    bool         `json:"fitted"`
	MaxLength int          `json:"max_length"`
	Vocab     *vocab.Vocab `json:"vocab"`
}

func (e *QAEncoder) snapshot() qaEncoderState {
	return qaEncoderState{
		Fitted:    e.State() == Fitted,
		MaxLength: e.maxLength,
		Vocab:     e.vocab,
	}
}

// Save persists the fitted parameters to st under key.
func (e *QAEncoder) Save(ctx context.Context, st store.Store, key string) error {
	data, err := store.EncodeSnapshot(key, qaEncoderSchemaVersion, e.snapshot())
	if err != nil {
		return err
	}
	return st.Save(ctx, key, data)
}

// Load restores fitted parameters from st under key.
func (e *QAEncoder) Load(ctx context.Context, st store.Store, key string) error {
	data, err := st.Load(ctx, key)
	if err != nil {
		return err
	}
	var state qaEncoderState
	if err := store.DecodeSnapshot(data, key, qaEncoderSchemaVersion, &state); err != nil {
		return err
	}
	e.apply(state)
	return nil
}

func (e *QAEncoder) reload(ctx context.Context) error {
	var state qaEncoderState
	if err := e.restore(ctx, qaEncoderSchemaVersion, &state); err != nil {
		return err
	}
	if !state.Fitted {
		return errors.NotFitted(e.name)
	}
	e.apply(state)
	return nil
}

func (e *QAEncoder) apply(state qaEncoderState) {
	e.maxLength = state.MaxLength
	if state.Vocab != nil {
		e.vocab = state.Vocab
	}
	if state.Fitted {
		e.setState(Fitted)
	}
}

// QASpanEncoder converts the character-level answer position of a QA sample
// into a token-level span label. It is stateless: Fit is a no-op and the
// encoder is always fitted.
type QASpanEncoder struct {
	base
}

// NewQASpanEncoder creates a QASpanEncoder.
func NewQASpanEncoder(opts ...Option) *QASpanEncoder {
	e := &QASpanEncoder{base: newBase("qa_span_encoder", opts)}
	e.setState(Fitted)
	return e
}

// Fit is a no-op; span labeling needs no dataset-level statistics.
func (e *QASpanEncoder) Fit(_ context.Context, _ *dataset.Dataset[QASample]) error {
	return nil
}

// Transform computes the token span of the answer: Start is the token count
// of the context prefix before AnswerStart, End is Start plus the token count
// of the answer text.
func (e *QASpanEncoder) Transform(_ context.Context, s QASample) (Span, error) {
	if s.AnswerStart < 0 || s.AnswerStart > len(s.Context) {
		return Span{}, errors.InvalidInput("answer_start", "offset outside context").
			WithDetail("answer_start", s.AnswerStart).
			WithDetail("context_length", len(s.Context))
	}
	start := int64(len(e.opts.tokenizer.Tokenize(s.Context[:s.AnswerStart])))
	end := start + int64(len(e.opts.tokenizer.Tokenize(s.Answer)))
	return Span{Start: start, End: end}, nil
}
