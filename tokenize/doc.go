// Package tokenize provides the tokenizer contract used by the text
// preprocessing stages, plus two built-in implementations.
//
// Stages accept any Tokenizer; BasicEnglish is the default when none is
// supplied. Tokenization here means splitting text into token strings for
// vocabulary building and id mapping; subword algorithms (BPE, wordpiece)
// are out of scope and can be plugged in through the same interface.
package tokenize
