package preprocess

import "github.com/kbukum/prepkit/errors"

// PadPolicy decides what happens when a transform-time sequence is longer
// than the fitted maximum length. The fitted length is never extended at
// transform time: fitted parameters stay read-only so concurrent readers are
// safe.
type PadPolicy int

const (
	// PadTruncate cuts overlong sequences down to the fitted maximum length.
	PadTruncate PadPolicy = iota
	// PadStrict rejects overlong sequences with a SEQUENCE_TOO_LONG error.
	PadStrict
)

// pad right-pads ids with padID up to maxLength. Every returned slice has
// length exactly maxLength.
func pad(ids []int64, maxLength int, padID int64, policy PadPolicy) ([]int64, error) {
	if len(ids) > maxLength {
		if policy == PadStrict {
			return nil, errors.SequenceTooLong(len(ids), maxLength)
		}
		ids = ids[:maxLength]
	}
	out := make([]int64, maxLength)
	n := copy(out, ids)
	for i := n; i < maxLength; i++ {
		out[i] = padID
	}
	return out, nil
}
