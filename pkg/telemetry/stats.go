// Package telemetry summarizes the flock state for the HUD and for CSV output.
package telemetry

import (
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"github.com/lao-tseu-is-alive/go-squirrel-flock/pkg/flock"
)

// Stats is one sample of the flock. CSV column names come from the csv tags.
type Stats struct {
	Tick         uint64  `csv:"tick"`
	SimTime      float64 `csv:"sim_time"`
	Agents       int     `csv:"agents"`
	MeanSpeed    float64 `csv:"mean_speed"`
	StdDevSpeed  float64 `csv:"stddev_speed"`
	MinSpeed     float64 `csv:"min_speed"`
	MaxSpeed     float64 `csv:"max_speed"`
	CentroidX    float64 `csv:"centroid_x"`
	CentroidY    float64 `csv:"centroid_y"`
	Polarization float64 `csv:"polarization"`
	OutOfBounds  int     `csv:"out_of_bounds"`
}

// Compute summarizes agents at the given tick.
//
// Polarization is the length of the mean unit heading: 1 when every squirrel
// flies the same way, close to 0 for a disordered flock. Agents with no
// heading are left out of it.
func Compute(tick uint64, simTime float64, agents []flock.Agent, b flock.Bounds) Stats {
	s := Stats{Tick: tick, SimTime: simTime, Agents: len(agents)}
	if len(agents) == 0 {
		return s
	}

	speeds := make([]float64, len(agents))
	xs := make([]float64, len(agents))
	ys := make([]float64, len(agents))
	var hx, hy float64
	headed := 0
	for i, a := range agents {
		speeds[i] = a.Speed()
		xs[i], ys[i] = a.Pos.X, a.Pos.Y
		if u, err := a.Vel.Unit(); err == nil {
			hx += u.X
			hy += u.Y
			headed++
		}
		if !b.Contains(a.Pos) {
			s.OutOfBounds++
		}
	}

	s.MeanSpeed, s.StdDevSpeed = stat.MeanStdDev(speeds, nil)
	if len(speeds) < 2 {
		s.StdDevSpeed = 0
	}
	s.MinSpeed = floats.Min(speeds)
	s.MaxSpeed = floats.Max(speeds)
	s.CentroidX = stat.Mean(xs, nil)
	s.CentroidY = stat.Mean(ys, nil)
	if headed > 0 {
		s.Polarization = math.Hypot(hx, hy) / float64(headed)
	}
	return s
}
