package simulation

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math/rand/v2"
	"time"

	"go.uber.org/zap"

	"github.com/lao-tseu-is-alive/go-squirrel-flock/pkg/flock"
	"github.com/lao-tseu-is-alive/go-squirrel-flock/pkg/telemetry"
)

// Snapshot is the read-only view of the flock handed to the renderer.
type Snapshot struct {
	Tick    uint64
	SimTime float64
	Bounds  flock.Bounds
	Agents  []flock.Agent
	Stats   telemetry.Stats
	Resets  int
	Err     error
}

// Session owns one running flock: the engine, its configuration and the
// telemetry sink. The world actor and the headless runner both drive a
// Session, never the engine directly. Session is not safe for concurrent use.
type Session struct {
	cfg      Config
	viewport flock.Viewport
	engine   *flock.Engine
	out      *telemetry.Output
	seeds    *rand.Rand
	lag      time.Duration
	resets   int
	log      *zap.Logger
}

// NewSession spawns the first flock inside vp. out may be nil.
func NewSession(cfg *Config, vp flock.Viewport, out *telemetry.Output, log *zap.Logger) (*Session, error) {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if log == nil {
		log = zap.NewNop()
	}
	seed := cfg.Seed
	if seed == 0 {
		seed = uint64(time.Now().UnixNano())
	}
	s := &Session{
		cfg:      *cfg,
		viewport: vp,
		out:      out,
		seeds:    rand.New(rand.NewPCG(seed, seed>>1|1)),
		log:      log.With(zap.Uint64("seed", seed)),
	}
	if err := s.spawn(); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *Session) spawn() error {
	src := rand.NewPCG(s.seeds.Uint64(), s.seeds.Uint64())
	engine, err := flock.Spawn(s.viewport, s.cfg.FlockParams(), s.cfg.SpawnParams(), src, s.log)
	if err != nil {
		return fmt.Errorf("spawning flock: %w", err)
	}
	s.engine = engine
	s.lag = 0
	return nil
}

// Step runs exactly one tick and samples telemetry every StatsEvery ticks.
func (s *Session) Step() error {
	if err := s.engine.Tick(s.viewport); err != nil {
		return err
	}
	if s.cfg.StatsEvery > 0 && s.engine.Ticks()%uint64(s.cfg.StatsEvery) == 0 {
		st := s.Stats()
		s.log.Debug("flock stats",
			zap.Uint64("tick", st.Tick),
			zap.Float64("meanSpeed", st.MeanSpeed),
			zap.Float64("polarization", st.Polarization),
			zap.Int("outOfBounds", st.OutOfBounds))
		if err := s.out.Write(st); err != nil {
			return err
		}
	}
	return nil
}

// Advance adds dt of host time and runs every fixed tick that fits in it.
// The remainder carries over to the next call, so no tick is ever skipped
// and the simulation only moves by the configured timestep. Hosts pass a
// nominal frame duration, not measured wall time.
func (s *Session) Advance(dt time.Duration) (int, error) {
	step := s.cfg.Step()
	if dt > 0 {
		s.lag += dt
	}
	n := 0
	for s.lag >= step {
		s.lag -= step
		if err := s.Step(); err != nil {
			return n, err
		}
		n++
	}
	return n, nil
}

// Reset replaces the flock by a new one with the same population settings
// and a fresh seed. It also clears a halted engine.
func (s *Session) Reset() error {
	if err := s.spawn(); err != nil {
		return err
	}
	s.resets++
	s.log.Info("flock reset", zap.Int("resets", s.resets))
	return nil
}

// Tune overlays a JSON object on the current configuration. The merged
// config must pass the same schema as a config file. Rule tuning applies
// from the next tick, population settings at the next Reset.
// A rejected overlay leaves the session untouched.
func (s *Session) Tune(overlay []byte) error {
	next := s.cfg
	dec := json.NewDecoder(bytes.NewReader(overlay))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&next); err != nil {
		return fmt.Errorf("decoding tuning: %w", err)
	}
	if err := next.validateSchema(); err != nil {
		return err
	}
	if err := next.Validate(); err != nil {
		return err
	}
	if err := s.engine.SetParams(next.FlockParams()); err != nil {
		return err
	}
	s.cfg = next
	return nil
}

// Stats summarizes the flock after the last committed tick.
func (s *Session) Stats() telemetry.Stats {
	return telemetry.Compute(s.engine.Ticks(), s.engine.Elapsed(), s.engine.Agents(), s.engine.Bounds())
}

// Snapshot copies the current state for the renderer.
func (s *Session) Snapshot() *Snapshot {
	return &Snapshot{
		Tick:    s.engine.Ticks(),
		SimTime: s.engine.Elapsed(),
		Bounds:  s.engine.Bounds(),
		Agents:  s.engine.Agents(),
		Stats:   s.Stats(),
		Resets:  s.resets,
		Err:     s.engine.Err(),
	}
}

// Config returns a copy of the configuration in use.
func (s *Session) Config() Config { return s.cfg }

// Close flushes and closes the telemetry sink.
func (s *Session) Close() error { return s.out.Close() }
