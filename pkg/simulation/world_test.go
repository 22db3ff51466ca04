package simulation

import (
	"context"
	"testing"
	"time"

	"github.com/tochemey/goakt/v3/actor"
	golog "github.com/tochemey/goakt/v3/log"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
	"google.golang.org/protobuf/types/known/durationpb"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/wrapperspb"

	"github.com/lao-tseu-is-alive/go-squirrel-flock/pkg/flock"
)

func startWorld(t *testing.T, cfg *Config) (context.Context, *actor.PID, chan *Snapshot) {
	t.Helper()
	ctx := context.Background()
	system, err := actor.NewActorSystem("SquirrelsTest",
		actor.WithLogger(golog.DiscardLogger),
		actor.WithActorInitMaxRetries(1))
	if err != nil {
		t.Fatalf("NewActorSystem: %v", err)
	}
	if err := system.Start(ctx); err != nil {
		t.Fatalf("Start: %v", err)
	}
	t.Cleanup(func() { _ = system.Stop(ctx) })

	snapshots := make(chan *Snapshot, 16)
	pid, err := system.Spawn(ctx, "world", NewWorldActor(cfg, NewSharedViewport(800, 600), snapshots, nil))
	if err != nil {
		t.Fatalf("Spawn: %v", err)
	}
	return ctx, pid, snapshots
}

// waitFor reads snapshots until one matches or the deadline passes.
func waitFor(t *testing.T, ch <-chan *Snapshot, match func(*Snapshot) bool) *Snapshot {
	t.Helper()
	deadline := time.After(5 * time.Second)
	for {
		select {
		case s := <-ch:
			if match(s) {
				return s
			}
		case <-deadline:
			t.Fatal("timed out waiting for a snapshot")
			return nil
		}
	}
}

func TestWorldActorTicksAndResets(t *testing.T) {
	cfg := testConfig()
	ctx, pid, snapshots := startWorld(t, cfg)

	for i := 0; i < 3; i++ {
		if err := actor.Tell(ctx, pid, durationpb.New(cfg.Step())); err != nil {
			t.Fatalf("Tell tick: %v", err)
		}
	}
	snap := waitFor(t, snapshots, func(s *Snapshot) bool { return s.Tick == 3 })
	if len(snap.Agents) != cfg.NumSquirrels {
		t.Errorf("agents = %d; want %d", len(snap.Agents), cfg.NumSquirrels)
	}
	if want := (flock.Bounds{HalfWidth: 400, HalfHeight: 300}); snap.Bounds != want {
		t.Errorf("bounds = %+v; want %+v", snap.Bounds, want)
	}

	if err := actor.Tell(ctx, pid, &emptypb.Empty{}); err != nil {
		t.Fatalf("Tell reset: %v", err)
	}
	waitFor(t, snapshots, func(s *Snapshot) bool { return s.Resets == 1 && s.Tick == 0 })
}

func TestWorldActorTuning(t *testing.T) {
	cfg := testConfig()
	ctx, pid, snapshots := startWorld(t, cfg)

	msg, err := TuningMessage(map[string]any{"numSquirrels": 5.0})
	if err != nil {
		t.Fatal(err)
	}
	if err := actor.Tell(ctx, pid, msg); err != nil {
		t.Fatal(err)
	}
	// unknown messages are dropped without stopping the world
	if err := actor.Tell(ctx, pid, wrapperspb.String("ignored")); err != nil {
		t.Fatal(err)
	}
	if err := actor.Tell(ctx, pid, &emptypb.Empty{}); err != nil {
		t.Fatal(err)
	}
	snap := waitFor(t, snapshots, func(s *Snapshot) bool { return s.Resets == 1 })
	if len(snap.Agents) != 5 {
		t.Errorf("agents after tuned reset = %d; want 5", len(snap.Agents))
	}
}

func TestWorldActorRejectsInvalidConfig(t *testing.T) {
	ctx := context.Background()
	system, err := actor.NewActorSystem("SquirrelsInvalid",
		actor.WithLogger(golog.DiscardLogger),
		actor.WithActorInitMaxRetries(1))
	if err != nil {
		t.Fatal(err)
	}
	if err := system.Start(ctx); err != nil {
		t.Fatal(err)
	}
	defer func() { _ = system.Stop(ctx) }()

	cfg := testConfig()
	cfg.MinSpeed, cfg.MaxSpeed = 0, 0
	_, err = system.Spawn(ctx, "world", NewWorldActor(cfg, NewSharedViewport(800, 600), make(chan *Snapshot, 1), nil))
	if err == nil {
		t.Fatal("expected spawn to fail for an unusable population")
	}
}

func TestWorldActorLogsLifecycle(t *testing.T) {
	ctx := context.Background()
	system, err := actor.NewActorSystem("SquirrelsLogs",
		actor.WithLogger(golog.DiscardLogger),
		actor.WithActorInitMaxRetries(1))
	if err != nil {
		t.Fatal(err)
	}
	if err := system.Start(ctx); err != nil {
		t.Fatal(err)
	}

	core, logs := observer.New(zapcore.InfoLevel)
	snapshots := make(chan *Snapshot, 4)
	cfg := testConfig()
	if _, err := system.Spawn(ctx, "world", NewWorldActor(cfg, NewSharedViewport(800, 600), snapshots, zap.New(core))); err != nil {
		t.Fatal(err)
	}
	waitFor(t, snapshots, func(*Snapshot) bool { return true })

	spawning := logs.FilterMessage("world spawning squirrels").All()
	if len(spawning) != 1 {
		t.Fatalf("spawning entries = %d; want 1", len(spawning))
	}
	if got := spawning[0].ContextMap()["squirrels"]; got != int64(cfg.NumSquirrels) {
		t.Errorf("squirrels field = %v; want %d", got, cfg.NumSquirrels)
	}
	if n := logs.FilterMessage("world started").Len(); n != 1 {
		t.Errorf("started entries = %d; want 1", n)
	}

	if err := system.Stop(ctx); err != nil {
		t.Fatal(err)
	}
	if n := logs.FilterMessage("world stopped").Len(); n != 1 {
		t.Errorf("stopped entries = %d; want 1", n)
	}
}
