// Package geodesic integrates the paths of light rays through the curved
// spacetime described by pkg/metric. It provides two interchangeable step
// integrators (a fixed-step one for per-pixel real-time tracing and an
// adaptive embedded Runge-Kutta one for accuracy-critical use) and the
// Tracer driver that classifies each ray as captured or escaped.
package geodesic

import (
	"errors"

	"github.com/skysim/go-geodesic-raytracer/pkg/core"
)

// ErrInvalidInitialCondition reports a degenerate initial ray: a zero-length
// direction, or an origin on the singular spin axis. Correctly constructed
// camera rays never trigger it; the driver resolves it as a capture rather
// than propagating a failure out of the per-pixel call.
var ErrInvalidInitialCondition = errors.New("geodesic: degenerate initial ray")

// State is the mutable integration state of a single ray. It is created once
// per trace and owned exclusively by that trace; nothing shares it across
// goroutines. Direction is kept at unit length by every integrator step.
type State struct {
	Position  core.Vec3
	Direction core.Vec3
	Affine    float64 // accumulated affine parameter along the geodesic
	StepSize  float64 // step used for (fixed) or proposed for (adaptive) the next advance
}

// NewState builds the initial ray state from a camera-supplied origin and
// direction. The direction is normalized here; a zero-length direction is a
// degenerate input and fails with ErrInvalidInitialCondition.
func NewState(origin, direction core.Vec3, initialStep float64) (State, error) {
	if direction.LengthSquared() == 0 {
		return State{}, ErrInvalidInitialCondition
	}
	return State{
		Position:  origin,
		Direction: direction.Normalize(),
		StepSize:  initialStep,
	}, nil
}

// Radius returns the current coordinate distance from the hole.
func (s *State) Radius() float64 {
	return s.Position.Length()
}
