package preprocess

import (
	"context"
	"sync"
	"sync/atomic"

	"github.com/kbukum/prepkit/dataset"
	"github.com/kbukum/prepkit/errors"
	"github.com/kbukum/prepkit/logger"
	"github.com/kbukum/prepkit/store"
)

// FitState is the lifecycle state of a stage.
type FitState int32

const (
	// Unfitted means Fit has not run and no recovery has been attempted.
	Unfitted FitState = iota
	// LoadFailed means a transform was attempted unfitted, state recovery
	// failed, and the stage is proceeding with zero-valued parameters.
	LoadFailed
	// Fitted means the stage holds usable parameters, from Fit or from a
	// successful load.
	Fitted
)

// String returns the human-readable state name.
func (s FitState) String() string {
	switch s {
	case Fitted:
		return "fitted"
	case LoadFailed:
		return "load_failed"
	default:
		return "unfitted"
	}
}

// Stage is a single preprocessing unit. D is the dataset sample type consumed
// by Fit, In the per-sample input of Transform, Out its artifact. For most
// stages D and In coincide; text classification fits on labeled pairs but
// transforms bare text.
type Stage[D, In, Out any] interface {
	// Fit runs the one-time whole-dataset pass, computing and storing the
	// stage's parameters. Re-fitting overwrites previous parameters and
	// re-persists them when a store is configured.
	Fit(ctx context.Context, data *dataset.Dataset[D]) error

	// Transform applies the fitted parameters to one sample.
	Transform(ctx context.Context, datum In) (Out, error)

	// State reports the current lifecycle state.
	State() FitState
}

// Persistable is implemented by stages whose fitted parameters can be saved
// to and restored from a store under an explicit key.
type Persistable interface {
	Save(ctx context.Context, st store.Store, key string) error
	Load(ctx context.Context, st store.Store, key string) error
}

// base carries the state machine and shared options embedded by every stage.
type base struct {
	name     string
	state    atomic.Int32
	loadOnce sync.Once
	opts     options
}

func newBase(name string, opts []Option) base {
	return base{name: name, opts: newOptions(opts)}
}

// State reports the current lifecycle state.
func (b *base) State() FitState { return FitState(b.state.Load()) }

func (b *base) setState(s FitState) { b.state.Store(int32(s)) }

func (b *base) log() *logger.Logger { return b.opts.log }

// persist saves encoded state to the configured store, if any.
func (b *base) persist(ctx context.Context, schemaVersion int, state any) error {
	if b.opts.store == nil {
		return nil
	}
	data, err := store.EncodeSnapshot(b.opts.key, schemaVersion, state)
	if err != nil {
		return err
	}
	return b.opts.store.Save(ctx, b.opts.key, data)
}

// restore loads and decodes state from the configured store.
func (b *base) restore(ctx context.Context, schemaVersion int, state any) error {
	data, err := b.opts.store.Load(ctx, b.opts.key)
	if err != nil {
		return err
	}
	return store.DecodeSnapshot(data, b.opts.key, schemaVersion, state)
}

// ensureFitted implements the unfitted-transform policy. On the first
// transform of an unfitted stage it attempts one recovery load from the
// configured store. If the stage still is not fitted afterwards, strict mode
// returns a NOT_FITTED error while lenient mode logs a warning and lets the
// transform proceed with whatever parameters exist.
func (b *base) ensureFitted(ctx context.Context, load func(ctx context.Context) error) error {
	if b.State() == Fitted {
		return nil
	}
	b.loadOnce.Do(func() {
		if b.opts.store != nil && load != nil {
			err := load(ctx)
			if err == nil {
				b.setState(Fitted)
				return
			}
			b.log().Warn("persisted state unavailable, attempting the transform anyway",
				logger.Fields(logger.FieldStage, b.name, logger.FieldStateKey, b.opts.key, logger.FieldError, err.Error()))
		} else {
			b.log().Warn("transform on unfitted stage with no store configured",
				logger.Fields(logger.FieldStage, b.name))
		}
		b.setState(LoadFailed)
	})
	if b.State() == Fitted {
		return nil
	}
	if b.opts.strict {
		return errors.NotFitted(b.name)
	}
	return nil
}
