package flock

// RegulationParams is the soft speed band applied after the flocking rules.
type RegulationParams struct {
	Low    float64
	High   float64
	Factor float64
}

// Regulate nudges every agent's speed toward [Low, High] by a fraction of its
// own velocity. It is a band-pass, not a clamp: several ticks may be needed to
// get back in band. In-band velocities are left untouched.
func Regulate(s *Store, p RegulationParams) {
	lowSq, highSq := p.Low*p.Low, p.High*p.High
	for i := range s.agents {
		a := &s.agents[i]
		switch speedSq := a.Vel.LenSqr(); {
		case speedSq < lowSq:
			a.Vel = a.Vel.Add(a.Vel.Mul(p.Factor))
		case speedSq > highSq:
			a.Vel = a.Vel.Sub(a.Vel.Mul(p.Factor))
		}
	}
}
