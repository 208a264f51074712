package preprocess

import (
	"context"
	"testing"

	"github.com/kbukum/prepkit/dataset"
	"github.com/kbukum/prepkit/errors"
)

// recordingStage captures the samples its Fit observes, so tests can check
// what downstream steps see during a pipeline fit.
type recordingStage struct {
	base
	seen []string
}

func newRecordingStage() *recordingStage {
	return &recordingStage{base: newBase("recording", nil)}
}

func (r *recordingStage) Fit(ctx context.Context, data *dataset.Dataset[string]) error {
	err := dataset.ForEach(ctx, data, func(_ context.Context, s string) error {
		r.seen = append(r.seen, s)
		return nil
	})
	if err != nil {
		return err
	}
	r.setState(Fitted)
	return nil
}

func (r *recordingStage) Transform(_ context.Context, s string) (string, error) {
	return s, nil
}

// upperStage uppercases strings; fit is a whole-corpus no-op.
type upperStage struct {
	base
}

func newUpperStage() *upperStage {
	s := &upperStage{base: newBase("upper", nil)}
	s.setState(Fitted)
	return s
}

func (u *upperStage) Fit(_ context.Context, _ *dataset.Dataset[string]) error { return nil }

func (u *upperStage) Transform(_ context.Context, s string) (string, error) {
	out := make([]byte, len(s))
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c >= 'a' && c <= 'z' {
			c -= 'a' - 'A'
		}
		out[i] = c
	}
	return string(out), nil
}

func anyDataset(values ...string) *dataset.Dataset[any] {
	samples := make([]any, len(values))
	for i, v := range values {
		samples[i] = v
	}
	return dataset.FromSlice(samples)
}

func TestPipeline_FitThreadsTransformedSamples(t *testing.T) {
	rec := newRecordingStage()
	p := NewPipeline(
		StepOf[string, string, string]("upper", newUpperStage()),
		StepOf[string, string, string]("recording", rec),
	)
	if err := p.Fit(context.Background(), anyDataset("ab", "cd")); err != nil {
		t.Fatal(err)
	}
	if len(rec.seen) != 2 || rec.seen[0] != "AB" || rec.seen[1] != "CD" {
		t.Errorf("second step must fit on transformed samples, saw %v", rec.seen)
	}
}

func TestPipeline_Transform(t *testing.T) {
	p := NewPipeline(StepOf[string, string, string]("upper", newUpperStage()))
	got, err := p.Transform(context.Background(), "hello")
	if err != nil {
		t.Fatal(err)
	}
	if got != "HELLO" {
		t.Errorf("expected HELLO, got %v", got)
	}
}

func TestPipeline_EndToEndClassification(t *testing.T) {
	enc := NewTextEncoder()

	p := NewPipeline(StepOf[Labeled, string, []int64]("encode_text", enc))
	data := dataset.FromSlice([]any{
		Labeled{Label: 1, Text: "the cat sat"},
		Labeled{Label: 2, Text: "a dog ran fast"},
	})
	if err := p.Fit(context.Background(), data); err != nil {
		t.Fatal(err)
	}

	got, err := p.Transform(context.Background(), "the cat sat")
	if err != nil {
		t.Fatal(err)
	}
	ids, ok := got.([]int64)
	if !ok {
		t.Fatalf("expected []int64, got %T", got)
	}
	if len(ids) != enc.MaxLength() {
		t.Errorf("expected %d ids, got %d", enc.MaxLength(), len(ids))
	}
}

func TestPipeline_StepOfWrapped(t *testing.T) {
	enc := NewTextEncoder()
	rec := newRecordingStage()

	// The encoder fits on labeled samples but transforms bare text, so the
	// fit-time re-wrap keeps samples whole for the downstream step.
	encode := StepOfWrapped[Labeled, string, []int64]("encode_text", enc,
		func(_ context.Context, datum any) (any, error) {
			s, ok := datum.(Labeled)
			if !ok {
				return nil, errors.InvalidInput("sample", "expected a labeled sample")
			}
			return s.Text, nil
		})

	p := NewPipeline(encode, StepOf[string, string, string]("recording", rec))
	data := dataset.FromSlice([]any{
		Labeled{Label: 1, Text: "the cat sat"},
		Labeled{Label: 2, Text: "a dog ran fast"},
	})
	if err := p.Fit(context.Background(), data); err != nil {
		t.Fatal(err)
	}
	if enc.State() != Fitted {
		t.Errorf("expected fitted encoder, got %s", enc.State())
	}
	if len(rec.seen) != 2 || rec.seen[0] != "the cat sat" {
		t.Errorf("downstream step saw %v", rec.seen)
	}
}

func TestPipeline_TypeMismatch(t *testing.T) {
	p := NewPipeline(StepOf[string, string, string]("upper", newUpperStage()))
	_, err := p.Transform(context.Background(), 42)
	if !errors.IsCode(err, errors.ErrCodeInvalidInput) {
		t.Errorf("expected INVALID_INPUT, got %v", err)
	}
}

func TestPipeline_FitTypeMismatch(t *testing.T) {
	rec := newRecordingStage()
	p := NewPipeline(StepOf[string, string, string]("recording", rec))
	err := p.Fit(context.Background(), dataset.FromSlice([]any{42}))
	if !errors.IsCode(err, errors.ErrCodeInvalidInput) {
		t.Errorf("expected INVALID_INPUT, got %v", err)
	}
}

func TestPipeline_Concat(t *testing.T) {
	a := NewPipeline(StepOf[string, string, string]("upper", newUpperStage()))
	b := NewPipeline(StepOf[string, string, string]("recording", newRecordingStage()))
	combined := a.Concat(b)
	if combined.Len() != 2 {
		t.Fatalf("expected 2 steps, got %d", combined.Len())
	}
	if a.Len() != 1 || b.Len() != 1 {
		t.Error("concat must not mutate its operands")
	}
	if combined.At(0).Name() != "upper" || combined.At(1).Name() != "recording" {
		t.Errorf("unexpected order: %s", combined)
	}
}

// suffixStage appends a fixed suffix; fit is a no-op.
type suffixStage struct {
	base
	suffix string
}

func newSuffixStage(suffix string) *suffixStage {
	s := &suffixStage{base: newBase("suffix", nil), suffix: suffix}
	s.setState(Fitted)
	return s
}

func (s *suffixStage) Fit(_ context.Context, _ *dataset.Dataset[string]) error { return nil }

func (s *suffixStage) Transform(_ context.Context, in string) (string, error) {
	return in + s.suffix, nil
}

func TestPipeline_ConcatComposition(t *testing.T) {
	ctx := context.Background()
	a := NewPipeline(StepOf[string, string, string]("upper", newUpperStage()))
	b := NewPipeline(StepOf[string, string, string]("suffix", newSuffixStage("!")))

	combined, err := a.Concat(b).Transform(ctx, "hello")
	if err != nil {
		t.Fatal(err)
	}
	mid, err := a.Transform(ctx, "hello")
	if err != nil {
		t.Fatal(err)
	}
	sequential, err := b.Transform(ctx, mid)
	if err != nil {
		t.Fatal(err)
	}
	if combined != sequential {
		t.Errorf("concat must compose transforms: %v vs %v", combined, sequential)
	}
	if combined != "HELLO!" {
		t.Errorf("got %v", combined)
	}
}

func TestPipeline_Append(t *testing.T) {
	p := NewPipeline(StepOf[string, string, string]("upper", newUpperStage()))
	grown := p.Append(StepOf[string, string, string]("recording", newRecordingStage()))
	if p.Len() != 1 {
		t.Error("append must not mutate the receiver")
	}
	if grown.Len() != 2 {
		t.Errorf("expected 2 steps, got %d", grown.Len())
	}
}

func TestPipeline_String(t *testing.T) {
	p := NewPipeline(
		StepOf[string, string, string]("upper", newUpperStage()),
		StepOf[string, string, string]("recording", newRecordingStage()),
	)
	if got := p.String(); got != "Pipeline(upper, recording)" {
		t.Errorf("unexpected rendering %q", got)
	}
}

func TestPipeline_Empty(t *testing.T) {
	p := NewPipeline()
	if err := p.Fit(context.Background(), anyDataset("x")); err != nil {
		t.Fatal(err)
	}
	got, err := p.Transform(context.Background(), "x")
	if err != nil {
		t.Fatal(err)
	}
	if got != "x" {
		t.Errorf("empty pipeline is identity, got %v", got)
	}
}
