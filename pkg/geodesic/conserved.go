package geodesic

import (
	"math"

	"github.com/skysim/go-geodesic-raytracer/pkg/metric"
)

// Conserved holds the constants of motion of a photon. They are computed
// once at trace start from the initial state and remain read-only for the
// rest of the trace: the adaptive strategy uses them to normalize its
// first-order reformulation and to monitor integration drift.
type Conserved struct {
	Energy          float64 // fixed to 1 by the affine parameterization of null geodesics
	AngularMomentum float64 // axial component about the spin axis
	Carter          float64 // Carter-like constant for out-of-equatorial-plane motion
}

// axisDistanceSq returns the squared distance of a point from the spin axis.
func axisDistanceSq(x, z float64) float64 {
	return x*x + z*z
}

// SolveConserved derives the constants of motion for the photon described by
// the initial state. A ray starting on the singular axis has no well-defined
// azimuthal angle and fails with ErrInvalidInitialCondition.
func SolveConserved(s State, bh metric.BlackHole) (Conserved, error) {
	r := s.Radius()
	if r == 0 || s.Direction.LengthSquared() == 0 {
		return Conserved{}, ErrInvalidInitialCondition
	}
	if axisDistanceSq(s.Position.X, s.Position.Z) < 1e-24 {
		return Conserved{}, ErrInvalidInitialCondition
	}

	// Affine parameterization fixes the energy normalization.
	energy := 1.0

	// Axial angular momentum: the spin-axis component of r x p, scaled by
	// the local time-dilation factor so distant and near rays with the
	// same apparent motion carry different Lz.
	angMom := s.Position.Cross(s.Direction)
	metricFactor := 1.0 + bh.SchwarzschildRadius()/r
	lz := angMom.Dot(metric.SpinAxis) * metricFactor

	// Carter-like constant: total angular momentum minus its axial part,
	// with the usual spin correction for polar motion. Reduces to
	// L² - Lz² in the Schwarzschild limit.
	lTotalSq := angMom.LengthSquared() * metricFactor * metricFactor
	cosTheta := s.Position.Y / r
	a := bh.SpinParameter()
	carter := lTotalSq - lz*lz - a*a*energy*energy*cosTheta*cosTheta

	return Conserved{
		Energy:          energy,
		AngularMomentum: lz,
		Carter:          carter,
	}, nil
}

// AngularMomentumDrift recomputes the axial angular momentum from the current
// state and returns its deviation from the conserved value. The fixed-step
// strategy makes no promise about this number; for the adaptive strategy it
// is a useful accuracy diagnostic.
func (c Conserved) AngularMomentumDrift(s State, bh metric.BlackHole) float64 {
	r := s.Radius()
	if r == 0 {
		return math.Inf(1)
	}
	metricFactor := 1.0 + bh.SchwarzschildRadius()/r
	lz := s.Position.Cross(s.Direction).Dot(metric.SpinAxis) * metricFactor
	return math.Abs(lz - c.AngularMomentum)
}
