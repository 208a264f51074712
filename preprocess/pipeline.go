package preprocess

import (
	"context"
	"fmt"
	"strings"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/kbukum/prepkit/dataset"
	"github.com/kbukum/prepkit/errors"
)

const tracerName = "github.com/kbukum/prepkit/preprocess"

// Step is a type-erased pipeline member. Typed stages become Steps via StepOf
// or StepOfWrapped; sample types are checked at the step boundary when the
// pipeline runs.
type Step interface {
	// Name identifies the step in errors and traces.
	Name() string

	fit(ctx context.Context, data *dataset.Dataset[any]) error
	transform(ctx context.Context, datum any) (any, error)
	rewrap(ctx context.Context, datum any) (any, error)
}

// StepOf wraps a typed stage as a pipeline Step. During a pipeline fit the
// dataset seen by later steps is re-wrapped through this step's Transform.
func StepOf[D, In, Out any](name string, stage Stage[D, In, Out]) Step {
	return &step[D, In, Out]{name: name, stage: stage}
}

// StepOfWrapped is StepOf with an explicit re-wrap function: wrap, not
// Transform, is applied to dataset samples for downstream fits. Use it when
// a stage transforms one field of a sample but later steps fit on the whole
// sample.
func StepOfWrapped[D, In, Out any](name string, stage Stage[D, In, Out], wrap func(ctx context.Context, datum any) (any, error)) Step {
	return &step[D, In, Out]{name: name, stage: stage, wrap: wrap}
}

type step[D, In, Out any] struct {
	name  string
	stage Stage[D, In, Out]
	wrap  func(ctx context.Context, datum any) (any, error)
}

func (s *step[D, In, Out]) Name() string { return s.name }

func (s *step[D, In, Out]) fit(ctx context.Context, data *dataset.Dataset[any]) error {
	typed := dataset.Map(data, func(_ context.Context, v any) (D, error) {
		d, ok := v.(D)
		if !ok {
			var zero D
			return zero, errors.InvalidInput("sample", fmt.Sprintf("step %s expects %T samples, got %T", s.name, zero, v))
		}
		return d, nil
	})
	return s.stage.Fit(ctx, typed)
}

func (s *step[D, In, Out]) transform(ctx context.Context, datum any) (any, error) {
	in, ok := datum.(In)
	if !ok {
		var zero In
		return nil, errors.InvalidInput("datum", fmt.Sprintf("step %s expects %T, got %T", s.name, zero, datum))
	}
	return s.stage.Transform(ctx, in)
}

func (s *step[D, In, Out]) rewrap(ctx context.Context, datum any) (any, error) {
	if s.wrap != nil {
		return s.wrap(ctx, datum)
	}
	return s.transform(ctx, datum)
}

// Pipeline is an ordered composition of preprocessing steps. The pipeline
// owns its step list; Concat and Append build new pipelines rather than
// sharing slices.
type Pipeline struct {
	steps []Step
}

// NewPipeline creates a pipeline from steps in application order.
func NewPipeline(steps ...Step) *Pipeline {
	owned := make([]Step, len(steps))
	copy(owned, steps)
	return &Pipeline{steps: owned}
}

// Fit fits every step in order. After each step is fitted, the dataset seen
// by the remaining steps is lazily re-wrapped through it, so step N+1 fits on
// samples already transformed by steps 1..N.
func (p *Pipeline) Fit(ctx context.Context, data *dataset.Dataset[any]) error {
	ctx, span := otel.Tracer(tracerName).Start(ctx, "pipeline.fit",
		trace.WithAttributes(attribute.Int("pipeline.steps", len(p.steps))))
	defer span.End()

	for _, s := range p.steps {
		span.AddEvent("fit", trace.WithAttributes(attribute.String("step", s.Name())))
		if err := s.fit(ctx, data); err != nil {
			span.RecordError(err)
			return fmt.Errorf("fit step %s: %w", s.Name(), err)
		}
		current := s
		data = dataset.Map(data, current.rewrap)
	}
	return nil
}

// Transform applies every step's transform in order to one sample.
func (p *Pipeline) Transform(ctx context.Context, datum any) (any, error) {
	var err error
	for _, s := range p.steps {
		datum, err = s.transform(ctx, datum)
		if err != nil {
			return nil, fmt.Errorf("transform step %s: %w", s.Name(), err)
		}
	}
	return datum, nil
}

// Len returns the number of steps.
func (p *Pipeline) Len() int { return len(p.steps) }

// At returns the step at index i.
func (p *Pipeline) At(i int) Step { return p.steps[i] }

// Steps returns a copy of the step list in application order.
func (p *Pipeline) Steps() []Step {
	out := make([]Step, len(p.steps))
	copy(out, p.steps)
	return out
}

// Concat returns a new pipeline running this pipeline's steps followed by
// other's.
func (p *Pipeline) Concat(other *Pipeline) *Pipeline {
	return NewPipeline(append(p.Steps(), other.Steps()...)...)
}

// Append returns a new pipeline with steps added after the existing ones.
func (p *Pipeline) Append(steps ...Step) *Pipeline {
	return NewPipeline(append(p.Steps(), steps...)...)
}

// String renders the pipeline as its ordered step names.
func (p *Pipeline) String() string {
	names := make([]string, len(p.steps))
	for i, s := range p.steps {
		names[i] = s.Name()
	}
	return fmt.Sprintf("Pipeline(%s)", strings.Join(names, ", "))
}
