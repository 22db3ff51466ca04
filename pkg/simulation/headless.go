package simulation

import (
	"context"
	"fmt"
	"io"

	"go.uber.org/multierr"
	"go.uber.org/zap"

	"github.com/lao-tseu-is-alive/go-squirrel-flock/pkg/flock"
	"github.com/lao-tseu-is-alive/go-squirrel-flock/pkg/telemetry"
)

// RunHeadless runs ticks fixed steps without a window, in a viewport of the
// configured window size. Telemetry goes to out when it is not nil, to the
// configured file otherwise. It returns the stats after the last tick.
func RunHeadless(ctx context.Context, cfg *Config, ticks int, out io.Writer, log *zap.Logger) (stats telemetry.Stats, err error) {
	if ticks < 0 {
		return stats, fmt.Errorf("ticks must not be negative, got %d", ticks)
	}
	if cfg == nil {
		cfg = DefaultConfig()
	}
	if log == nil {
		log = zap.NewNop()
	}

	var sink *telemetry.Output
	if out != nil {
		sink = telemetry.NewOutput(out)
	} else if sink, err = telemetry.CreateOutput(cfg.TelemetryFile); err != nil {
		return stats, err
	}

	vp := flock.FixedViewport{Width: cfg.WindowWidth, Height: cfg.WindowHeight}
	session, err := NewSession(cfg, vp, sink, log)
	if err != nil {
		return stats, multierr.Append(err, sink.Close())
	}
	defer func() {
		err = multierr.Append(err, session.Close())
	}()

	log.Info("headless run", zap.Int("ticks", ticks), zap.Int("squirrels", cfg.NumSquirrels))
	for i := 0; i < ticks; i++ {
		if err := ctx.Err(); err != nil {
			return session.Stats(), err
		}
		if err := session.Step(); err != nil {
			return session.Stats(), err
		}
	}
	stats = session.Stats()
	log.Info("headless run done",
		zap.Uint64("tick", stats.Tick),
		zap.Float64("simTime", stats.SimTime),
		zap.Float64("meanSpeed", stats.MeanSpeed),
		zap.Float64("polarization", stats.Polarization))
	return stats, nil
}
