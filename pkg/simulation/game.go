package simulation

import (
	"context"
	"fmt"
	"image/color"
	"maps"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/tochemey/goakt/v3/actor"
	"go.uber.org/zap"
	"google.golang.org/protobuf/types/known/durationpb"
	"google.golang.org/protobuf/types/known/emptypb"

	"github.com/lao-tseu-is-alive/go-squirrel-flock/pkg/geometry"
	"github.com/lao-tseu-is-alive/go-squirrel-flock/pkg/ui"
)

var backgroundColor = color.RGBA{R: 18, G: 40, B: 24, A: 255}

type Game struct {
	ctx        context.Context
	System     actor.ActorSystem
	worldPID   *actor.PID
	snapshotCh chan *Snapshot
	lastState  *Snapshot
	viewport   *SharedViewport
	sprite     *ebiten.Image

	controls     *controls
	showPanel    bool
	resetPending bool
	lastTuning   map[string]any

	cfg *Config
	log *zap.Logger

	// Timing instrumentation
	updateAvg float64 // Rolling average in ms
	drawAvg   float64 // Rolling average in ms
}

// NewGame spawns the world actor in system and prepares the render loop.
func NewGame(ctx context.Context, cfg *Config, system actor.ActorSystem, log *zap.Logger) (*Game, error) {
	if log == nil {
		log = zap.NewNop()
	}
	snapshotCh := make(chan *Snapshot, 4)
	viewport := NewSharedViewport(cfg.WindowWidth, cfg.WindowHeight)

	worldPID, err := system.Spawn(ctx, "world", NewWorldActor(cfg, viewport, snapshotCh, log))
	if err != nil {
		return nil, fmt.Errorf("failed to spawn world: %w", err)
	}

	g := &Game{
		ctx:        ctx,
		System:     system,
		worldPID:   worldPID,
		snapshotCh: snapshotCh,
		lastState:  &Snapshot{},
		viewport:   viewport,
		sprite:     generateSprite(squirrelDesign, squirrelPalette),
		showPanel:  cfg.ShowPanel,
		cfg:        cfg,
		log:        log,
	}
	g.controls = newControls(cfg, func() { g.resetPending = true })
	g.lastTuning = g.controls.values()
	return g, nil
}

func (g *Game) Update() error {
	start := time.Now()
	defer func() {
		g.updateAvg = g.updateAvg*0.95 + float64(time.Since(start).Microseconds())/1000.0*0.05
	}()

	if inpututil.IsKeyJustPressed(ebiten.KeyP) {
		g.showPanel = !g.showPanel
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyR) {
		g.resetPending = true
	}
	if g.showPanel {
		g.controls.panel.Update()
		g.controls.keepSpeedBand()
	}

	// Keep only the freshest snapshot
	for drained := false; !drained; {
		select {
		case snap := <-g.snapshotCh:
			g.lastState = snap
		default:
			drained = true
		}
	}
	if g.lastState.Err != nil {
		return fmt.Errorf("simulation halted at tick %d: %w", g.lastState.Tick, g.lastState.Err)
	}

	if values := g.controls.values(); !maps.Equal(values, g.lastTuning) {
		msg, err := TuningMessage(values)
		if err != nil {
			return err
		}
		if err := actor.Tell(g.ctx, g.worldPID, msg); err != nil {
			return err
		}
		g.lastTuning = values
	}
	if g.resetPending {
		g.resetPending = false
		if err := actor.Tell(g.ctx, g.worldPID, &emptypb.Empty{}); err != nil {
			return err
		}
	}

	// One frame of wall time, the world turns it into fixed ticks
	return actor.Tell(g.ctx, g.worldPID, durationpb.New(g.frameDuration()))
}

func (g *Game) frameDuration() time.Duration {
	if tps := ebiten.TPS(); tps > 0 {
		return time.Second / time.Duration(tps)
	}
	return g.cfg.Step()
}

func (g *Game) Draw(screen *ebiten.Image) {
	start := time.Now()
	defer func() {
		g.drawAvg = g.drawAvg*0.95 + float64(time.Since(start).Microseconds())/1000.0*0.05
	}()

	screen.Fill(backgroundColor)

	w, h := g.viewport.Size()
	sw, sh := g.sprite.Bounds().Dx(), g.sprite.Bounds().Dy()
	for _, a := range g.lastState.Agents {
		x, y := toScreen(a.Pos, w, h)
		op := &ebiten.DrawImageOptions{}
		op.GeoM.Translate(-float64(sw)/2, -float64(sh)/2)
		// Rotation is counterclockwise in world space, screen y points down
		op.GeoM.Rotate(-a.Rotation)
		op.GeoM.Translate(x, y)
		screen.DrawImage(g.sprite, op)
	}

	if g.showPanel {
		g.controls.panel.Draw(screen)
	}
	g.drawHUD(screen)
}

func (g *Game) drawHUD(screen *ebiten.Image) {
	st := g.lastState.Stats
	msg := fmt.Sprintf("FPS: %.1f  TPS: %.1f\nUpdate: %.2fms\nDraw:   %.2fms\n\nTick:   %d\nTime:   %.1fs\nAgents: %d\nSpeed:  %.0f +/- %.0f\nOrder:  %.2f\nResets: %d\n\n[P] panel  [R] reset",
		ebiten.ActualFPS(),
		ebiten.ActualTPS(),
		g.updateAvg,
		g.drawAvg,
		g.lastState.Tick,
		g.lastState.SimTime,
		st.Agents,
		st.MeanSpeed,
		st.StdDevSpeed,
		st.Polarization,
		g.lastState.Resets)
	ebitenutil.DebugPrintAt(screen, msg, screen.Bounds().Dx()-190, 10)
}

// Layout follows the window: the flock bounds are derived from its size.
func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	if g.viewport.Set(float64(outsideWidth), float64(outsideHeight)) {
		g.log.Debug("window resized", zap.Int("width", outsideWidth), zap.Int("height", outsideHeight))
	}
	return outsideWidth, outsideHeight
}

// toScreen maps world coordinates, origin at the center and y up, to pixels.
func toScreen(p geometry.Vector2D, width, height float64) (float64, float64) {
	return p.X + width/2, height/2 - p.Y
}

// controls is the tuning panel. Its values use the config keys, so they can
// be sent to the world as an overlay.
type controls struct {
	panel *ui.UIPanel

	flockingRange      *ui.Slider
	separationDistance *ui.Slider
	centeringFactor    *ui.Slider
	alignmentFactor    *ui.Slider
	separationFactor   *ui.Slider
	lowSpeed           *ui.Slider
	highSpeed          *ui.Slider
	regulationFactor   *ui.Slider
	numSquirrels       *ui.Slider

	prevLow float64 // low speed before this frame, tells which end was dragged

	enableCentering  *ui.Checkbox
	enableAlignment  *ui.Checkbox
	enableSeparation *ui.Checkbox
	enableRegulation *ui.Checkbox
}

func newControls(cfg *Config, onReset func()) *controls {
	panel := ui.NewUIPanel(10, 10, 260, cfg.WindowHeight-20)
	panel.Title = "Squirrels"
	c := &controls{panel: panel}

	panel.AddSection("Ranges")
	c.flockingRange = panel.AddSlider("Flocking Range", 0, 300, cfg.FlockingRange)
	c.separationDistance = panel.AddSlider("Separation Distance", 0, 100, cfg.SeparationDistance)
	panel.EndSection()

	panel.AddSection("Rules")
	c.enableCentering = panel.AddCheckbox("Centering", cfg.EnableCentering)
	c.centeringFactor = panel.AddSlider("Centering Factor", 0, 0.05, cfg.CenteringFactor)
	c.enableAlignment = panel.AddCheckbox("Alignment", cfg.EnableAlignment)
	c.alignmentFactor = panel.AddSlider("Alignment Factor", 0, 0.5, cfg.AlignmentFactor)
	c.enableSeparation = panel.AddCheckbox("Separation", cfg.EnableSeparation)
	c.separationFactor = panel.AddSlider("Separation Factor", 0, 0.5, cfg.SeparationFactor)
	panel.EndSection()

	panel.AddSection("Speed Regulation")
	c.enableRegulation = panel.AddCheckbox("Regulation", cfg.EnableRegulation)
	c.lowSpeed = panel.AddSlider("Low Speed", 0, 1500, cfg.LowSpeed)
	c.highSpeed = panel.AddSlider("High Speed", 0, 1500, cfg.HighSpeed)
	c.regulationFactor = panel.AddSlider("Regulation Factor", 0, 0.1, cfg.RegulationFactor)
	panel.EndSection()

	c.prevLow = c.lowSpeed.Value

	panel.AddSection("Population (Reset Required)")
	c.numSquirrels = panel.AddSlider("Squirrels", 0, 1000, float64(cfg.NumSquirrels))
	panel.AddButton("Reset", onReset)
	panel.EndSection()

	return c
}

// keepSpeedBand stops the low speed from passing the high speed: the end
// the user did not drag follows the one they did.
func (c *controls) keepSpeedBand() {
	low, high := c.lowSpeed.Value, c.highSpeed.Value
	if low > high {
		if low != c.prevLow {
			c.highSpeed.Set(low)
		} else {
			c.lowSpeed.Set(high)
		}
	}
	c.prevLow = c.lowSpeed.Value
}

func (c *controls) values() map[string]any {
	return map[string]any{
		"flockingRange":      c.flockingRange.Value,
		"separationDistance": c.separationDistance.Value,
		"centeringFactor":    c.centeringFactor.Value,
		"alignmentFactor":    c.alignmentFactor.Value,
		"separationFactor":   c.separationFactor.Value,
		"lowSpeed":           c.lowSpeed.Value,
		"highSpeed":          c.highSpeed.Value,
		"regulationFactor":   c.regulationFactor.Value,
		"numSquirrels":       float64(int(c.numSquirrels.Value)),
		"enableCentering":    c.enableCentering.Value,
		"enableAlignment":    c.enableAlignment.Value,
		"enableSeparation":   c.enableSeparation.Value,
		"enableRegulation":   c.enableRegulation.Value,
	}
}
