package geodesic

import (
	"github.com/skysim/go-geodesic-raytracer/pkg/metric"
)

// FixedStep is the real-time integration strategy: a semi-implicit Euler
// update with a step size that shrinks near the horizon and grows far away.
// It trades physical accuracy for per-pixel speed; the contract is visually
// smooth deflection and correct capture/escape classification, not
// conservation of the constants of motion.
type FixedStep struct {
	MinStep   float64 // smallest step, used close to the horizon
	MaxStep   float64 // largest step, used far from the hole
	StepScale float64 // step size as a fraction of the current radius
}

// NewFixedStep returns the fixed-step strategy with defaults tuned for
// interactive tracing around a unit-mass hole.
func NewFixedStep() *FixedStep {
	return &FixedStep{
		MinStep:   0.02,
		MaxStep:   2.0,
		StepScale: 0.1,
	}
}

// Advance performs one semi-implicit Euler step: the acceleration (radial
// bending plus tangential frame drag) is folded into the direction, the
// direction is renormalized, and the position moves along the new direction.
// Never fails.
func (fs *FixedStep) Advance(s *State, bh metric.BlackHole) error {
	r := s.Position.Length()

	h := r * fs.StepScale
	if h < fs.MinStep {
		h = fs.MinStep
	} else if h > fs.MaxStep {
		h = fs.MaxStep
	}

	accel := bh.RadialAcceleration(s.Position).
		Add(bh.FrameDragAcceleration(s.Position))

	// Update the direction first, then move along the updated direction:
	// the semi-implicit form stays stable at step sizes where explicit
	// Euler visibly spirals.
	s.Direction = s.Direction.Add(accel.Multiply(h)).Normalize()
	s.Position = s.Position.Add(s.Direction.Multiply(h))
	s.Affine += h
	s.StepSize = h

	return nil
}
