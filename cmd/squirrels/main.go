package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/tochemey/goakt/v3/actor"
	golog "github.com/tochemey/goakt/v3/log"
	"go.uber.org/zap"

	"github.com/lao-tseu-is-alive/go-squirrel-flock/pkg/simulation"
)

func main() {
	var (
		configFile = flag.String("config", "", "config file (.json, .yaml or .toml)")
		headless   = flag.Bool("headless", false, "run without a window")
		ticks      = flag.Int("ticks", 600, "ticks to simulate in headless mode")
		telemetry  = flag.String("telemetry", "", "csv file for flock stats, overrides the config")
		logLevel   = flag.String("log-level", "", "debug, info, warn or error, overrides the config")
	)
	flag.Parse()

	cfg := simulation.DefaultConfig()
	if *configFile != "" {
		loaded, err := simulation.LoadConfig(*configFile)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
			os.Exit(1)
		}
		cfg = loaded
	}
	if *telemetry != "" {
		cfg.TelemetryFile = *telemetry
	}
	if *logLevel != "" {
		cfg.LogLevel = *logLevel
	}

	log, err := simulation.NewLogger(cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error creating logger: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = log.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if *headless {
		if _, err := simulation.RunHeadless(ctx, cfg, *ticks, nil, log); err != nil {
			log.Fatal("headless run failed", zap.Error(err))
		}
		return
	}

	if err := runWindow(ctx, cfg, log); err != nil {
		log.Fatal("simulation stopped", zap.Error(err))
	}
}

func runWindow(ctx context.Context, cfg *simulation.Config, log *zap.Logger) error {
	system, err := actor.NewActorSystem("Squirrels",
		actor.WithLogger(golog.DiscardLogger),
		actor.WithActorInitMaxRetries(1))
	if err != nil {
		return err
	}
	if err := system.Start(ctx); err != nil {
		return err
	}
	defer func() { _ = system.Stop(context.Background()) }()

	game, err := simulation.NewGame(ctx, cfg, system, log)
	if err != nil {
		return err
	}

	ebiten.SetWindowSize(int(cfg.WindowWidth), int(cfg.WindowHeight))
	ebiten.SetWindowTitle(cfg.WindowTitle)
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	ebiten.SetTPS(cfg.TickRate)

	log.Info("window opened", zap.Int("squirrels", cfg.NumSquirrels), zap.Int("tickRate", cfg.TickRate))
	return ebiten.RunGame(game)
}
