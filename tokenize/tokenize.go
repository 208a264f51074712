package tokenize

import "strings"

// Tokenizer splits text into token strings.
type Tokenizer interface {
	Tokenize(text string) []string
}

// Func adapts a plain function to the Tokenizer interface.
type Func func(text string) []string

// Tokenize calls fn(text).
func (fn Func) Tokenize(text string) []string { return fn(text) }

// BasicEnglish is a simple English tokenizer: it lowercases the input,
// separates common punctuation into standalone tokens, drops double quotes,
// and splits on whitespace.
type BasicEnglish struct{}

// NewBasicEnglish creates the default tokenizer used by text stages.
func NewBasicEnglish() *BasicEnglish { return &BasicEnglish{} }

var basicEnglishReplacer = strings.NewReplacer(
	"<br />", " ",
	"'", " ' ",
	`"`, "",
	".", " . ",
	",", " , ",
	"(", " ( ",
	")", " ) ",
	"!", " ! ",
	"?", " ? ",
	";", " ",
	":", " ",
)

// Tokenize splits text into lowercase tokens.
func (t *BasicEnglish) Tokenize(text string) []string {
	return strings.Fields(basicEnglishReplacer.Replace(strings.ToLower(text)))
}

// Whitespace splits on whitespace runs without any normalization.
type Whitespace struct{}

// NewWhitespace creates a whitespace tokenizer.
func NewWhitespace() *Whitespace { return &Whitespace{} }

// Tokenize splits text on whitespace.
func (t *Whitespace) Tokenize(text string) []string {
	return strings.Fields(text)
}
