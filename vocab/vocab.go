package vocab

import (
	"encoding/json"
	"sort"
)

const (
	// UnknownToken is the token reserved at id 0 for out-of-vocabulary lookups.
	UnknownToken = "<unk>"
	// PadToken is the designated padding token.
	PadToken = "."
)

// Counter accumulates token frequencies over a corpus.
type Counter struct {
	counts map[string]int
}

// NewCounter creates an empty frequency counter.
func NewCounter() *Counter {
	return &Counter{counts: make(map[string]int)}
}

// Update adds one occurrence of each given token.
func (c *Counter) Update(tokens []string) {
	for _, tok := range tokens {
		c.counts[tok]++
	}
}

// Count returns the accumulated frequency of a token.
func (c *Counter) Count(token string) int { return c.counts[token] }

// Len returns the number of distinct tokens seen.
func (c *Counter) Len() int { return len(c.counts) }

// Vocab is an immutable token-to-id mapping.
type Vocab struct {
	tokens []string
	index  map[string]int64
}

// Build creates a vocabulary from accumulated frequencies. Ids are assigned
// by descending frequency, ties broken lexicographically, after the reserved
// unknown token at id 0.
func Build(c *Counter) *Vocab {
	ordered := make([]string, 0, c.Len())
	for tok := range c.counts {
		ordered = append(ordered, tok)
	}
	sort.Slice(ordered, func(i, j int) bool {
		if c.counts[ordered[i]] != c.counts[ordered[j]] {
			return c.counts[ordered[i]] > c.counts[ordered[j]]
		}
		return ordered[i] < ordered[j]
	})
	return FromTokens(ordered)
}

// FromTokens creates a vocabulary with the given tokens in id order, after
// the reserved unknown token. Duplicates keep their first position.
func FromTokens(tokens []string) *Vocab {
	v := &Vocab{
		tokens: make([]string, 0, len(tokens)+1),
		index:  make(map[string]int64, len(tokens)+1),
	}
	v.add(UnknownToken)
	for _, tok := range tokens {
		v.add(tok)
	}
	return v
}

func (v *Vocab) add(token string) {
	if _, ok := v.index[token]; ok {
		return
	}
	v.index[token] = int64(len(v.tokens))
	v.tokens = append(v.tokens, token)
}

// ID returns the id of a token. Unknown tokens map to the unknown id (0).
func (v *Vocab) ID(token string) int64 {
	if id, ok := v.index[token]; ok {
		return id
	}
	return v.index[UnknownToken]
}

// IDs maps each token to its id.
func (v *Vocab) IDs(tokens []string) []int64 {
	ids := make([]int64, len(tokens))
	for i, tok := range tokens {
		ids[i] = v.ID(tok)
	}
	return ids
}

// PadID returns the id used to right-pad sequences. If the pad token never
// occurred in the fitted corpus this is the unknown id.
func (v *Vocab) PadID() int64 { return v.ID(PadToken) }

// Len returns the vocabulary size including the reserved unknown token.
func (v *Vocab) Len() int { return len(v.tokens) }

// Tokens returns the tokens in id order. The returned slice is a copy.
func (v *Vocab) Tokens() []string {
	out := make([]string, len(v.tokens))
	copy(out, v.tokens)
	return out
}

// vocabState is the stable serialized form: the token list in id order.
// The unknown token at position 0 is included so the encoding is
// self-describing.
type vocabState struct {
	Tokens []string `json:"tokens"`
}

// MarshalJSON encodes the vocabulary as its ordered token list.
func (v *Vocab) MarshalJSON() ([]byte, error) {
	return json.Marshal(vocabState{Tokens: v.tokens})
}

// UnmarshalJSON rebuilds the id index from an ordered token list.
func (v *Vocab) UnmarshalJSON(data []byte) error {
	var state vocabState
	if err := json.Unmarshal(data, &state); err != nil {
		return err
	}
	tokens := state.Tokens
	if len(tokens) > 0 && tokens[0] == UnknownToken {
		tokens = tokens[1:]
	}
	rebuilt := FromTokens(tokens)
	*v = *rebuilt
	return nil
}
