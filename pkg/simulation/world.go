package simulation

import (
	"fmt"

	"github.com/tochemey/goakt/v3/actor"
	"github.com/tochemey/goakt/v3/goaktpb"
	"go.uber.org/zap"
	"google.golang.org/protobuf/encoding/protojson"
	"google.golang.org/protobuf/types/known/durationpb"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/lao-tseu-is-alive/go-squirrel-flock/pkg/flock"
	"github.com/lao-tseu-is-alive/go-squirrel-flock/pkg/telemetry"
)

// WorldActor owns the authoritative flock. The render loop talks to it with
// plain protobuf messages:
//
//	*durationpb.Duration  wall time elapsed, advances the fixed-step clock
//	*emptypb.Empty        reset the flock
//	*structpb.Struct      tuning overlay, same keys as the config file
//
// After every message the world pushes a Snapshot on the UI channel.
type WorldActor struct {
	cfg        *Config
	viewport   flock.Viewport
	snapshotCh chan<- *Snapshot
	session    *Session
	log        *zap.Logger
}

var _ actor.Actor = (*WorldActor)(nil)

// NewWorldActor creates the world logic unit
func NewWorldActor(cfg *Config, vp flock.Viewport, snapshotCh chan<- *Snapshot, log *zap.Logger) *WorldActor {
	if log == nil {
		log = zap.NewNop()
	}
	return &WorldActor{
		cfg:        cfg,
		viewport:   vp,
		snapshotCh: snapshotCh,
		log:        log,
	}
}

// PreStart spawns the flock. A flock that cannot start makes the actor fail
// its initialization.
func (w *WorldActor) PreStart(ctx *actor.Context) error {
	out, err := telemetry.CreateOutput(w.cfg.TelemetryFile)
	if err != nil {
		return err
	}
	session, err := NewSession(w.cfg, w.viewport, out, w.log)
	if err != nil {
		_ = out.Close()
		return fmt.Errorf("starting world: %w", err)
	}
	w.session = session
	w.log = w.log.With(zap.String("actor", ctx.ActorName()))
	w.log.Info("world spawning squirrels", zap.Int("squirrels", w.cfg.NumSquirrels))
	return nil
}

func (w *WorldActor) Receive(ctx *actor.ReceiveContext) {
	switch msg := ctx.Message().(type) {

	case *goaktpb.PostStart:
		w.log.Info("world started")
		w.pushSnapshot()

	case *durationpb.Duration:
		if err := msg.CheckValid(); err != nil {
			w.log.Warn("ignoring tick", zap.Error(err))
			return
		}
		if _, err := w.session.Advance(msg.AsDuration()); err != nil {
			w.log.Error("tick failed", zap.Error(err))
		}
		w.pushSnapshot()

	case *emptypb.Empty:
		if err := w.session.Reset(); err != nil {
			w.log.Error("reset failed", zap.Error(err))
		}
		w.pushSnapshot()

	case *structpb.Struct:
		b, err := protojson.Marshal(msg)
		if err == nil {
			err = w.session.Tune(b)
		}
		if err != nil {
			w.log.Warn("tuning rejected", zap.Error(err))
		}

	default:
		ctx.Unhandled()
	}
}

func (w *WorldActor) pushSnapshot() {
	select {
	case w.snapshotCh <- w.session.Snapshot():
	default:
		// UI busy, skip frame
	}
}

func (w *WorldActor) PostStop(ctx *actor.Context) error {
	w.log.Info("world stopped")
	if w.session == nil {
		return nil
	}
	return w.session.Close()
}

// TuningMessage encodes a tuning overlay for the world actor.
func TuningMessage(values map[string]any) (*structpb.Struct, error) {
	return structpb.NewStruct(values)
}
