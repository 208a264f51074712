package preprocess

import (
	"context"

	"github.com/kbukum/prepkit/dataset"
	"github.com/kbukum/prepkit/errors"
)

// LabelEncoder converts 1-based class labels into 0-based class indexes.
// It is stateless: Fit is a no-op and the encoder is always fitted.
type LabelEncoder struct {
	base
}

// NewLabelEncoder creates a LabelEncoder.
func NewLabelEncoder(opts ...Option) *LabelEncoder {
	e := &LabelEncoder{base: newBase("label_encoder", opts)}
	e.setState(Fitted)
	return e
}

// Fit is a no-op; labels need no dataset-level statistics.
func (e *LabelEncoder) Fit(_ context.Context, _ *dataset.Dataset[int64]) error {
	return nil
}

// Transform maps a 1-based label to its 0-based class index. Labels below 1
// are rejected rather than producing a negative class index.
func (e *LabelEncoder) Transform(_ context.Context, label int64) (int64, error) {
	if label < 1 {
		return 0, errors.InvalidInput("label", "class labels are 1-based").WithDetail("label", label)
	}
	return label - 1, nil
}
