package preprocess

import (
	"github.com/kbukum/prepkit/logger"
	"github.com/kbukum/prepkit/store"
	"github.com/kbukum/prepkit/tokenize"
	"github.com/kbukum/prepkit/vocab"
)

// options holds the configuration shared by all stages. Individual stages
// ignore the options that do not apply to them.
type options struct {
	store           store.Store
	key             string
	strict          bool
	padPolicy       PadPolicy
	log             *logger.Logger
	tokenizer       tokenize.Tokenizer
	targetTokenizer tokenize.Tokenizer
	vocab           *vocab.Vocab
	targetVocab     *vocab.Vocab
}

// Option configures a stage.
type Option func(*options)

func newOptions(opts []Option) options {
	o := options{
		log:             defaultLogger,
		tokenizer:       tokenize.NewBasicEnglish(),
		targetTokenizer: tokenize.NewBasicEnglish(),
		padPolicy:       PadTruncate,
	}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

var defaultLogger = logger.NewDefault("preprocess")

// WithStore configures persistence: after a successful Fit the stage saves
// its state to st under key, and a transform on an unfitted stage attempts to
// load it back once.
func WithStore(st store.Store, key string) Option {
	return func(o *options) {
		o.store = st
		o.key = key
	}
}

// WithStrict makes transforms on an unfitted stage fail with a NOT_FITTED
// error after recovery fails, instead of proceeding with zero-valued
// parameters.
func WithStrict() Option {
	return func(o *options) { o.strict = true }
}

// WithLogger sets the logger used for stage warnings.
func WithLogger(l *logger.Logger) Option {
	return func(o *options) { o.log = l }
}

// WithPadPolicy sets the behavior for sequences longer than the fitted
// maximum length.
func WithPadPolicy(p PadPolicy) Option {
	return func(o *options) { o.padPolicy = p }
}

// WithTokenizer sets the tokenizer for text stages (the source-side tokenizer
// for translation).
func WithTokenizer(t tokenize.Tokenizer) Option {
	return func(o *options) { o.tokenizer = t }
}

// WithTargetTokenizer sets the target-side tokenizer for translation.
func WithTargetTokenizer(t tokenize.Tokenizer) Option {
	return func(o *options) { o.targetTokenizer = t }
}

// WithVocab supplies a pre-built vocabulary. Stages with a supplied
// vocabulary skip building one during Fit.
func WithVocab(v *vocab.Vocab) Option {
	return func(o *options) { o.vocab = v }
}

// WithTargetVocab supplies a pre-built target-side vocabulary for translation.
func WithTargetVocab(v *vocab.Vocab) Option {
	return func(o *options) { o.targetVocab = v }
}
