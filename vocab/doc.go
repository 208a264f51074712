// Package vocab provides frequency-built token-to-id vocabularies for text
// preprocessing stages.
//
// A Counter accumulates token frequencies during a fit pass; Build turns it
// into an immutable Vocab whose ids are assigned by descending frequency with
// lexicographic tie-breaking, so fitting the same corpus twice yields the
// same ids. Id 0 is reserved for the unknown token, and lookups of
// out-of-vocabulary tokens return it rather than failing.
//
// The pad token is the literal "."; sequences are right-padded with its id.
package vocab
