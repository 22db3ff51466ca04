package flock

import (
	"fmt"
	"math/rand/v2"

	"go.uber.org/zap"
)

// Stage is one step of a tick.
type Stage int

const (
	StageBounds Stage = iota
	StageCentering
	StageAlignment
	StageSeparation
	StageRegulation
	StageIntegration
)

// Pipeline is the order of the stages inside every tick. Each rule reads the
// velocities written by the previous one, so the order is part of the
// behavior and must not change.
var Pipeline = [...]Stage{
	StageBounds,
	StageCentering,
	StageAlignment,
	StageSeparation,
	StageRegulation,
	StageIntegration,
}

func (s Stage) String() string {
	switch s {
	case StageBounds:
		return "bounds"
	case StageCentering:
		return "centering"
	case StageAlignment:
		return "alignment"
	case StageSeparation:
		return "separation"
	case StageRegulation:
		return "regulation"
	case StageIntegration:
		return "integration"
	}
	return fmt.Sprintf("stage(%d)", int(s))
}

// Engine advances the flock in fixed timesteps. It has a single running
// state: once a tick fails the engine refuses every later tick.
// Engine is not safe for concurrent use.
type Engine struct {
	params  Params
	tracker Tracker
	store   *Store
	ticks   uint64
	elapsed float64
	err     error
	log     *zap.Logger
}

// New wraps an already populated store.
func New(store *Store, params Params, log *zap.Logger) (*Engine, error) {
	if err := params.Validate(); err != nil {
		return nil, err
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Engine{params: params, store: store, log: log}, nil
}

// Spawn measures the viewport, populates a new store inside it and returns a
// running engine. Initial rotations are computed here, so a degenerate
// heading is reported before the first tick.
func Spawn(vp Viewport, params Params, spawn SpawnParams, src rand.Source, log *zap.Logger) (*Engine, error) {
	e, err := New(NewStore(), params, log)
	if err != nil {
		return nil, err
	}
	b := e.tracker.Refresh(vp)
	if err := e.store.Populate(b, spawn, src); err != nil {
		return nil, fmt.Errorf("populate: %w", err)
	}
	if err := Orient(e.store); err != nil {
		return nil, fmt.Errorf("initial heading: %w", err)
	}
	e.log.Info("flock spawned",
		zap.Int("agents", e.store.Len()),
		zap.Float64("halfWidth", b.HalfWidth),
		zap.Float64("halfHeight", b.HalfHeight))
	return e, nil
}

// Tick runs one fixed timestep. The whole pipeline works on a copy of the
// store which replaces the live one only when every stage succeeded.
func (e *Engine) Tick(vp Viewport) error {
	if e.err != nil {
		return fmt.Errorf("%w: %w", ErrHalted, e.err)
	}

	work := e.store.clone()
	for _, stage := range Pipeline {
		if err := e.run(stage, work, vp); err != nil {
			e.err = fmt.Errorf("tick %d, %s: %w", e.ticks+1, stage, err)
			e.log.Error("simulation halted", zap.Uint64("tick", e.ticks+1), zap.Error(err))
			return e.err
		}
	}

	e.store = work
	e.ticks++
	e.elapsed += e.params.Timestep
	return nil
}

func (e *Engine) run(stage Stage, s *Store, vp Viewport) error {
	p := e.params
	switch stage {
	case StageBounds:
		prev := e.tracker.Bounds()
		if b := e.tracker.Refresh(vp); b != prev {
			e.log.Debug("bounds changed",
				zap.Float64("halfWidth", b.HalfWidth),
				zap.Float64("halfHeight", b.HalfHeight))
		}
	case StageCentering:
		if p.Rules.Centering {
			Centering(s, p.FlockingRange, p.CenteringFactor)
		}
	case StageAlignment:
		if p.Rules.Alignment {
			Alignment(s, p.FlockingRange, p.AlignmentFactor)
		}
	case StageSeparation:
		if p.Rules.Separation {
			Separation(s, p.SeparationDistance, p.SeparationFactor)
		}
	case StageRegulation:
		if p.Rules.Regulation {
			Regulate(s, p.Regulation)
		}
	case StageIntegration:
		Integrate(s, e.tracker.Bounds(), p.Timestep)
		if p.Rules.Orient {
			return Orient(s)
		}
	}
	return nil
}

// SetParams replaces the tuning used from the next tick on.
func (e *Engine) SetParams(p Params) error {
	if err := p.Validate(); err != nil {
		return err
	}
	e.params = p
	return nil
}

// Params returns the current tuning.
func (e *Engine) Params() Params { return e.params }

// Agents returns a copy of the agents after the last committed tick.
func (e *Engine) Agents() []Agent { return e.store.Agents() }

// Len returns the population size.
func (e *Engine) Len() int { return e.store.Len() }

// Bounds returns the bounds used by the last tick.
func (e *Engine) Bounds() Bounds { return e.tracker.Bounds() }

// Ticks returns the number of committed ticks.
func (e *Engine) Ticks() uint64 { return e.ticks }

// Elapsed returns the simulated time in seconds. It only advances by the
// fixed timestep of each committed tick, never by wall time.
func (e *Engine) Elapsed() float64 { return e.elapsed }

// Err returns the error that halted the engine, if any.
func (e *Engine) Err() error { return e.err }
