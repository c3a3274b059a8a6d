// Package metric provides the spacetime geometry around a massive, possibly
// spinning compact object. All functions are pure and allocation-free so that
// independent ray traces can call them concurrently.
//
// Units are geometric (G = c = 1): the Schwarzschild radius of a mass M is
// 2M. The spin axis is the world +Y axis and the hole sits at the origin.
package metric

import (
	"math"

	"github.com/skysim/go-geodesic-raytracer/pkg/core"
)

// SpinAxis is the rotation axis of the black hole in world coordinates.
var SpinAxis = core.NewVec3(0, 1, 0)

const minMass = 1e-9

// BlackHole describes a stationary axisymmetric mass distribution: a mass in
// geometric units and a dimensionless Kerr spin parameter a/M in [-1, 1].
// The zero spin case is Schwarzschild and flows through the same code paths.
type BlackHole struct {
	Mass float64
	Spin float64
}

// NewBlackHole creates a black hole configuration, clamping parameters to
// their physical ranges. Clamping happens here, at the boundary, so the
// integrators never have to re-validate mid-trace.
func NewBlackHole(mass, spin float64) BlackHole {
	return BlackHole{
		Mass: math.Max(mass, minMass),
		Spin: max(-1.0, min(1.0, spin)),
	}
}

// SchwarzschildRadius returns 2M, the horizon radius of the non-spinning case.
func (bh BlackHole) SchwarzschildRadius() float64 {
	return 2.0 * bh.Mass
}

// SpinParameter returns a = spin*M, the angular momentum per unit mass.
func (bh BlackHole) SpinParameter() float64 {
	return bh.Spin * bh.Mass
}

// HorizonRadius returns the outer event horizon radius M + sqrt(M² - a²).
// For spin 0 this is exactly 2M. It is always recomputed from the
// configuration; nothing caches it independently.
func (bh BlackHole) HorizonRadius() float64 {
	a := bh.SpinParameter()
	return bh.Mass + math.Sqrt(math.Max(bh.Mass*bh.Mass-a*a, 0))
}

// FrameDragCoefficient returns the signed strength of the tangential
// frame-dragging term. Its magnitude is spin²·r_s²/2 and its sign follows
// the spin, so mirrored configurations drag in mirrored directions.
func (bh BlackHole) FrameDragCoefficient() float64 {
	rs := bh.SchwarzschildRadius()
	return bh.Spin * math.Abs(bh.Spin) * rs * rs * 0.5
}

// RadialAcceleration returns the inward bending acceleration felt by a photon
// at the given position. The 3M/r² magnitude matches the weak-field photon
// deflection limit. Must only be called with |pos| > HorizonRadius; the
// driver checks the horizon before advancing.
func (bh BlackHole) RadialAcceleration(pos core.Vec3) core.Vec3 {
	r2 := pos.LengthSquared()
	r := math.Sqrt(r2)
	strength := 1.5 * bh.SchwarzschildRadius() / r2
	// -rhat * strength
	return pos.Multiply(-strength / r)
}

// FrameDragAcceleration returns the tangential acceleration induced by the
// hole's rotation at the given position. The term is odd in spin, scales
// with spin², and falls off as 1/r³ so it dies away faster than the radial
// term. Zero on the spin axis, where the azimuthal direction degenerates.
func (bh BlackHole) FrameDragAcceleration(pos core.Vec3) core.Vec3 {
	coeff := bh.FrameDragCoefficient()
	if coeff == 0 {
		return core.Vec3{}
	}
	r := pos.Length()
	phiHat := SpinAxis.Cross(pos).Normalize()
	return phiHat.Multiply(coeff / (r * r * r))
}

// GeodesicAcceleration returns the spatial acceleration d²x/dλ² of a null
// geodesic at the given position and coordinate velocity, using the
// Kerr-Schild Cartesian form of the equations of motion. This form is free
// of polar coordinate singularities, which matters for rays crossing the
// spin axis. Spin enters through a gravitomagnetic precession term.
func (bh BlackHole) GeodesicAcceleration(pos, vel core.Vec3) core.Vec3 {
	rs := bh.SchwarzschildRadius()
	r2 := pos.LengthSquared()
	r := math.Sqrt(r2)
	r3 := r2 * r

	xDotV := pos.Dot(vel)

	// Schwarzschild part in Kerr-Schild coordinates.
	factor := (1.0 - 3.0*rs*xDotV*xDotV/r3) / r3
	accel := pos.Multiply(factor).
		Subtract(vel.Multiply(2.0 * xDotV / r3)).
		Multiply(-rs)

	// Lense-Thirring precession of the velocity about the spin axis,
	// omega = 2J/r³ with J = a·M.
	j := bh.SpinParameter() * bh.Mass
	if j != 0 {
		omega := SpinAxis.Multiply(2.0 * j / r3)
		accel = accel.Add(omega.Cross(vel))
	}

	return accel
}
