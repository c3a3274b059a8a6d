package geodesic

import (
	"github.com/skysim/go-geodesic-raytracer/pkg/metric"
)

// Integrator advances a ray state by one step under the equations of motion.
// Implementations must treat the metric as a black box and must not
// special-case spin = 0: the Schwarzschild case is spin 0 flowing through
// the same code path.
//
// Advance mutates the state in place. The position it produces may lie at or
// inside the horizon; the driver checks the horizon before the metric is
// consulted at the new position. An error return means the strategy could
// not complete the step (only the adaptive strategy does this, via
// ErrStepSizeUnderflow); the driver resolves it as a capture.
type Integrator interface {
	Advance(s *State, bh metric.BlackHole) error
}
