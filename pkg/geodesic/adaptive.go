package geodesic

import (
	"errors"
	"math"

	"github.com/skysim/go-geodesic-raytracer/pkg/core"
	"github.com/skysim/go-geodesic-raytracer/pkg/metric"
)

// ErrStepSizeUnderflow reports that the adaptive strategy could not satisfy
// its error tolerance without shrinking the step below the configured
// minimum. This only happens pathologically close to the horizon; the driver
// resolves it as a capture so no ray can loop indefinitely.
var ErrStepSizeUnderflow = errors.New("geodesic: adaptive step size underflow")

// Adaptive is the accuracy-oriented strategy: an embedded Runge-Kutta-
// Fehlberg 5(4) pair integrating the first-order form of the geodesic
// equations, with proportional step-size control. Each step compares the
// fifth- and fourth-order solutions; steps whose error estimate exceeds the
// tolerance are rejected and retried with a smaller step.
type Adaptive struct {
	Tolerance float64 // local truncation error bound per step
	MinStep   float64 // below this the step is declared underflowed
	MaxStep   float64 // growth ceiling
	Safety    float64 // step control safety factor, conventionally 0.9

	conserved Conserved // normalization constants, fixed at trace start
}

// NewAdaptive returns the adaptive strategy with defaults that keep the
// per-step error estimate well inside visual tolerances.
func NewAdaptive(tolerance float64) *Adaptive {
	return &Adaptive{
		Tolerance: tolerance,
		MinStep:   1e-5,
		MaxStep:   5.0,
		Safety:    0.9,
	}
}

// SetConserved installs the constants of motion computed at trace start.
// The energy normalization fixes the affine scale of the velocity; the
// remaining constants are used as drift diagnostics, not re-imposed.
func (ad *Adaptive) SetConserved(c Conserved) {
	ad.conserved = c
}

// phase is the first-order integration variable: position and coordinate
// velocity, eight equations reduced to six by the conserved energy.
type phase struct {
	pos core.Vec3
	vel core.Vec3
}

func (p phase) advance(d deriv, h float64) phase {
	return phase{
		pos: p.pos.Add(d.dPos.Multiply(h)),
		vel: p.vel.Add(d.dVel.Multiply(h)),
	}
}

type deriv struct {
	dPos core.Vec3
	dVel core.Vec3
}

func derivAt(p phase, bh metric.BlackHole) deriv {
	return deriv{
		dPos: p.vel,
		dVel: bh.GeodesicAcceleration(p.pos, p.vel),
	}
}

// Fehlberg 4(5) coefficients. The b5 row gives the fifth-order solution,
// b4 the embedded fourth-order one used for the error estimate.
var (
	rkfA = [6][5]float64{
		{},
		{1.0 / 4.0},
		{3.0 / 32.0, 9.0 / 32.0},
		{1932.0 / 2197.0, -7200.0 / 2197.0, 7296.0 / 2197.0},
		{439.0 / 216.0, -8.0, 3680.0 / 513.0, -845.0 / 4104.0},
		{-8.0 / 27.0, 2.0, -3544.0 / 2565.0, 1859.0 / 4104.0, -11.0 / 40.0},
	}
	rkfB5 = [6]float64{16.0 / 135.0, 0, 6656.0 / 12825.0, 28561.0 / 56430.0, -9.0 / 50.0, 2.0 / 55.0}
	rkfB4 = [6]float64{25.0 / 216.0, 0, 1408.0 / 2565.0, 2197.0 / 4104.0, -1.0 / 5.0, 0}
)

// attempt integrates one trial step of size h, returning the fifth-order
// solution and the embedded error estimate.
func (ad *Adaptive) attempt(p phase, h float64, bh metric.BlackHole) (phase, float64) {
	var k [6]deriv
	k[0] = derivAt(p, bh)
	for stage := 1; stage < 6; stage++ {
		trial := p
		for j := 0; j < stage; j++ {
			if rkfA[stage][j] != 0 {
				trial = trial.advance(k[j], h*rkfA[stage][j])
			}
		}
		k[stage] = derivAt(trial, bh)
	}

	var high, low phase
	high, low = p, p
	for i := 0; i < 6; i++ {
		if rkfB5[i] != 0 {
			high = high.advance(k[i], h*rkfB5[i])
		}
		if rkfB4[i] != 0 {
			low = low.advance(k[i], h*rkfB4[i])
		}
	}

	errVec := high.pos.Subtract(low.pos)
	errEst := math.Max(errVec.Length(), high.vel.Subtract(low.vel).Length())
	return high, errEst
}

// Advance takes one error-controlled step, retrying with smaller step sizes
// until the local error estimate satisfies the tolerance. A step is never
// accepted with an error beyond Tolerance/Safety. If the required step would
// fall below MinStep the method gives up with ErrStepSizeUnderflow.
func (ad *Adaptive) Advance(s *State, bh metric.BlackHole) error {
	h := s.StepSize
	if h <= 0 || h > ad.MaxStep {
		h = min(ad.MaxStep, 0.1)
	}

	// Velocity magnitude is the conserved energy under the affine
	// parameterization; direction carries the unit constraint.
	speed := ad.conserved.Energy
	if speed == 0 {
		speed = 1.0
	}
	p := phase{pos: s.Position, vel: s.Direction.Multiply(speed)}

	const maxRejects = 32
	for reject := 0; reject < maxRejects; reject++ {
		next, errEst := ad.attempt(p, h, bh)

		if errEst <= ad.Tolerance/ad.Safety {
			s.Position = next.pos
			s.Direction = next.vel.Normalize()
			s.Affine += h
			s.StepSize = ad.proposeNext(h, errEst)
			return nil
		}

		// Rejected: shrink proportionally to the fourth root of the
		// error ratio, but never by more than a factor of ten.
		shrink := ad.Safety * math.Pow(ad.Tolerance/errEst, 0.25)
		h *= math.Max(shrink, 0.1)
		if h < ad.MinStep {
			return ErrStepSizeUnderflow
		}
	}

	return ErrStepSizeUnderflow
}

// proposeNext grows the next step when the error came in well under
// tolerance, capped so a single clean step cannot balloon the step size.
func (ad *Adaptive) proposeNext(h, errEst float64) float64 {
	if errEst <= 0 {
		return min(h*4.0, ad.MaxStep)
	}
	grow := ad.Safety * math.Pow(ad.Tolerance/errEst, 0.2)
	if grow > 4.0 {
		grow = 4.0
	}
	if grow < 1.0 {
		grow = 1.0
	}
	return min(h*grow, ad.MaxStep)
}
