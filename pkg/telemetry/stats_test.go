package telemetry

import (
	"bytes"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/lao-tseu-is-alive/go-squirrel-flock/pkg/flock"
	"github.com/lao-tseu-is-alive/go-squirrel-flock/pkg/geometry"
)

func squirrel(id uint32, px, py, vx, vy float64) flock.Agent {
	return flock.Agent{ID: id, Pos: geometry.Vector2D{X: px, Y: py}, Vel: geometry.Vector2D{X: vx, Y: vy}}
}

func TestCompute(t *testing.T) {
	agents := []flock.Agent{
		squirrel(1, -10, 0, 3, 4),  // speed 5
		squirrel(2, 10, 20, 6, 8),  // speed 10
		squirrel(3, 30, 10, 0, 15), // speed 15
		squirrel(4, 200, 0, 9, 12), // speed 15, outside
	}
	b := flock.Bounds{HalfWidth: 100, HalfHeight: 100}

	got := Compute(42, 0.7, agents, b)

	if got.Tick != 42 || got.SimTime != 0.7 || got.Agents != 4 {
		t.Errorf("header fields = %+v", got)
	}
	checks := []struct {
		name      string
		got, want float64
	}{
		{"mean speed", got.MeanSpeed, 11.25},
		{"min speed", got.MinSpeed, 5},
		{"max speed", got.MaxSpeed, 15},
		{"centroid x", got.CentroidX, 57.5},
		{"centroid y", got.CentroidY, 7.5},
	}
	for _, c := range checks {
		if math.Abs(c.got-c.want) > 1e-9 {
			t.Errorf("%s = %v; want %v", c.name, c.got, c.want)
		}
	}
	if got.OutOfBounds != 1 {
		t.Errorf("out of bounds = %d; want 1", got.OutOfBounds)
	}
	if got.StdDevSpeed <= 0 {
		t.Errorf("stddev speed = %v; want > 0", got.StdDevSpeed)
	}
}

func TestComputePolarization(t *testing.T) {
	tests := []struct {
		name   string
		agents []flock.Agent
		want   float64
	}{
		{"aligned", []flock.Agent{squirrel(1, 0, 0, 1, 0), squirrel(2, 5, 5, 20, 0)}, 1},
		{"opposed", []flock.Agent{squirrel(1, 0, 0, 1, 0), squirrel(2, 5, 5, -1, 0)}, 0},
		{"right angle", []flock.Agent{squirrel(1, 0, 0, 1, 0), squirrel(2, 5, 5, 0, 1)}, math.Sqrt2 / 2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Compute(0, 0, tt.agents, flock.Bounds{HalfWidth: 10, HalfHeight: 10})
			if math.Abs(got.Polarization-tt.want) > 1e-9 {
				t.Errorf("polarization = %v; want %v", got.Polarization, tt.want)
			}
		})
	}
}

func TestComputeEmpty(t *testing.T) {
	got := Compute(3, 0.05, nil, flock.Bounds{})
	if got.Agents != 0 || got.MeanSpeed != 0 || got.Polarization != 0 {
		t.Errorf("empty flock stats = %+v", got)
	}
}

func TestComputeSingleAgent(t *testing.T) {
	got := Compute(1, 0, []flock.Agent{squirrel(1, 0, 0, 3, 4)}, flock.Bounds{HalfWidth: 1, HalfHeight: 1})
	if got.StdDevSpeed != 0 || math.IsNaN(got.StdDevSpeed) {
		t.Errorf("stddev of one agent = %v; want 0", got.StdDevSpeed)
	}
}

func TestOutputWritesHeaderOnce(t *testing.T) {
	var buf bytes.Buffer
	out := NewOutput(&buf)

	for i := uint64(1); i <= 3; i++ {
		if err := out.Write(Stats{Tick: i, Agents: 2}); err != nil {
			t.Fatalf("Write: %v", err)
		}
	}

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 4 {
		t.Fatalf("got %d lines; want header + 3 rows:\n%s", len(lines), buf.String())
	}
	if !strings.HasPrefix(lines[0], "tick,sim_time,agents,mean_speed") {
		t.Errorf("unexpected header %q", lines[0])
	}
	if strings.Count(buf.String(), "tick,") != 1 {
		t.Errorf("header written more than once:\n%s", buf.String())
	}
	if !strings.HasPrefix(lines[3], "3,") {
		t.Errorf("last row = %q; want tick 3", lines[3])
	}
}

func TestCreateOutput(t *testing.T) {
	out, err := CreateOutput("")
	if err != nil || out != nil {
		t.Fatalf("empty path should disable output, got %v, %v", out, err)
	}
	if err := out.Write(Stats{}); err != nil {
		t.Errorf("nil output should discard rows, got %v", err)
	}

	path := filepath.Join(t.TempDir(), "runs", "telemetry.csv")
	out, err = CreateOutput(path)
	if err != nil {
		t.Fatalf("CreateOutput: %v", err)
	}
	if err := out.Write(Stats{Tick: 1}); err != nil {
		t.Fatal(err)
	}
	if err := out.Close(); err != nil {
		t.Fatal(err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), "out_of_bounds") {
		t.Errorf("file content missing header:\n%s", data)
	}
}
