package geodesic

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/skysim/go-geodesic-raytracer/pkg/core"
	"github.com/skysim/go-geodesic-raytracer/pkg/metric"
)

var qualities = []Quality{Fast, Accurate}

func TestTracerDegenerateDirectionIsCaptured(t *testing.T) {
	tr := NewTracer(metric.NewBlackHole(1.0, 0.5), DefaultOptions())
	for _, q := range qualities {
		out := tr.Trace(core.NewVec3(0, 0, -30), core.Vec3{}, q)
		assert.Equal(t, Captured, out.Kind, "quality %v", q)
	}
}

func TestTracerOriginOnAxisIsCaptured(t *testing.T) {
	tr := NewTracer(metric.NewBlackHole(1.0, 0.5), DefaultOptions())
	for _, q := range qualities {
		out := tr.Trace(core.NewVec3(0, 20, 0), core.NewVec3(0, 1, 0), q)
		assert.Equal(t, Captured, out.Kind, "quality %v", q)
	}
}

func TestTracerCapturesPlungingRay(t *testing.T) {
	bh := metric.NewBlackHole(1.0, 0.0)
	tr := NewTracer(bh, DefaultOptions())
	origin := core.NewVec3(bh.HorizonRadius()+0.1, 0.001, 0.001)
	toCenter := origin.Negate()

	for _, q := range qualities {
		out := tr.Trace(origin, toCenter, q)
		assert.Equal(t, Captured, out.Kind, "quality %v", q)
		assert.Less(t, out.Steps, 25, "quality %v: a plunging ray terminates quickly", q)
	}
}

func TestTracerEscapesAtBoundary(t *testing.T) {
	// A ray starting at the escape radius moving outward must escape on the
	// first classification check, direction untouched.
	bh := metric.NewBlackHole(1.0, 0.7)
	tr := NewTracer(bh, DefaultOptions())
	origin := core.NewVec3(0, 0, tr.Options().EscapeFactor*bh.Mass)
	dir := core.NewVec3(0, 0, 1)

	for _, q := range qualities {
		out := tr.Trace(origin, dir, q)
		assert.Equal(t, Escaped, out.Kind, "quality %v", q)
		assert.Equal(t, 0, out.Steps, "quality %v", q)
		assert.InDelta(t, 1.0, out.Direction.Dot(dir), 1e-12, "quality %v", q)
	}
}

func TestTracerWideMissEscapes(t *testing.T) {
	bh := metric.NewBlackHole(1.0, 0.5)
	tr := NewTracer(bh, DefaultOptions())

	for _, q := range qualities {
		out := tr.Trace(core.NewVec3(-60, 0, 30), core.NewVec3(1, 0, 0), q)
		assert.Equal(t, Escaped, out.Kind, "quality %v: impact parameter 30M misses", q)
		assert.Greater(t, out.Steps, 0)
	}
}

func TestTracerTerminatesWithinBudget(t *testing.T) {
	bh := metric.NewBlackHole(2.0, 0.9)
	opts := DefaultOptions()
	tr := NewTracer(bh, opts)

	for _, q := range qualities {
		for b := -20.0; b <= 20.0; b += 2.5 {
			out := tr.TraceFunc(core.NewVec3(-50, 1, b), core.NewVec3(1, 0, 0), q, nil)
			assert.LessOrEqual(t, out.Steps, opts.MaxSteps, "quality %v, b %v", q, b)
		}
	}
}

func TestTracerResolvesExhaustedBudget(t *testing.T) {
	bh := metric.NewBlackHole(1.0, 0.0)
	opts := DefaultOptions()
	opts.MaxSteps = 3
	tr := NewTracer(bh, opts)

	origin := core.NewVec3(-100, 0, 40)
	raw := tr.TraceFunc(origin, core.NewVec3(1, 0, 0), Fast, nil)
	assert.Equal(t, Inconclusive, raw.Kind)
	assert.Equal(t, 3, raw.Steps)

	resolved := tr.Trace(origin, core.NewVec3(1, 0, 0), Fast)
	assert.Equal(t, Escaped, resolved.Kind)
	assert.Equal(t, raw.Direction, resolved.Direction)
}

func TestTracerDirectionStaysUnit(t *testing.T) {
	bh := metric.NewBlackHole(1.0, 0.8)
	tr := NewTracer(bh, DefaultOptions())

	for _, q := range qualities {
		tr.TraceFunc(core.NewVec3(-40, 2, 7), core.NewVec3(1, 0, -0.05), q, func(prev, cur State) {
			assert.InDelta(t, 1.0, cur.Direction.Length(), 1e-9, "quality %v", q)
		})
	}
}

func TestTracerVisitorSeesEveryStep(t *testing.T) {
	bh := metric.NewBlackHole(1.0, 0.0)
	tr := NewTracer(bh, DefaultOptions())

	visits := 0
	out := tr.TraceFunc(core.NewVec3(-40, 0, 25), core.NewVec3(1, 0, 0), Fast, func(prev, cur State) {
		assert.NotEqual(t, prev.Position, cur.Position)
		visits++
	})
	assert.Equal(t, out.Steps, visits)
}

func TestTracerClassificationStableAcrossTolerance(t *testing.T) {
	// Clearly-capturing and clearly-escaping rays must classify identically
	// whether the adaptive tolerance is loose or tight.
	bh := metric.NewBlackHole(1.0, 0.6)
	loose := DefaultOptions()
	loose.Tolerance = 1e-4
	tight := DefaultOptions()
	tight.Tolerance = 1e-9

	trLoose := NewTracer(bh, loose)
	trTight := NewTracer(bh, tight)

	rays := []struct {
		origin core.Vec3
		want   OutcomeKind
	}{
		{core.NewVec3(-50, 0.5, 0.5), Captured},
		{core.NewVec3(-50, 0, 1.5), Captured},
		{core.NewVec3(-50, 0, 25), Escaped},
		{core.NewVec3(-50, 10, -20), Escaped},
	}
	dir := core.NewVec3(1, 0, 0)

	for _, ray := range rays {
		a := trLoose.Trace(ray.origin, dir, Accurate)
		b := trTight.Trace(ray.origin, dir, Accurate)
		assert.Equal(t, ray.want, a.Kind, "loose tolerance, origin %v", ray.origin)
		assert.Equal(t, ray.want, b.Kind, "tight tolerance, origin %v", ray.origin)
	}
}

func TestTracerMirrorSymmetry(t *testing.T) {
	// Negating the spin and mirroring the ray through the x-y plane must
	// produce the mirrored trajectory: same outcome kind, reflected final
	// direction.
	mirror := func(v core.Vec3) core.Vec3 { return core.NewVec3(v.X, v.Y, -v.Z) }

	opts := DefaultOptions()
	tr := NewTracer(metric.NewBlackHole(1.0, 0.8), opts)
	trNeg := NewTracer(metric.NewBlackHole(1.0, -0.8), opts)

	origins := []core.Vec3{
		core.NewVec3(-40, 0, 6),
		core.NewVec3(-40, 3, -9),
		core.NewVec3(-40, -2, 2),
	}
	dir := core.NewVec3(1, 0.02, -0.03)

	for _, q := range qualities {
		for _, origin := range origins {
			out := tr.Trace(origin, dir, q)
			mirrored := trNeg.Trace(mirror(origin), mirror(dir), q)

			require.Equal(t, out.Kind, mirrored.Kind, "quality %v, origin %v", q, origin)
			want := mirror(out.Direction)
			assert.InDelta(t, want.X, mirrored.Direction.X, 1e-9)
			assert.InDelta(t, want.Y, mirrored.Direction.Y, 1e-9)
			assert.InDelta(t, want.Z, mirrored.Direction.Z, 1e-9)
		}
	}
}

func TestTracerSchwarzschildSpinIndependentOfSign(t *testing.T) {
	// Spin zero through both code paths: there is no drag, so the outcome
	// must be identical for +0 and -0 spin.
	a := NewTracer(metric.NewBlackHole(1.0, 0.0), DefaultOptions())
	b := NewTracer(metric.NewBlackHole(1.0, -0.0), DefaultOptions())

	origin := core.NewVec3(-45, 1, 8)
	dir := core.NewVec3(1, 0, 0)
	for _, q := range qualities {
		oa := a.Trace(origin, dir, q)
		ob := b.Trace(origin, dir, q)
		assert.Equal(t, oa, ob, "quality %v", q)
	}
}

func TestNewTracerFillsZeroOptions(t *testing.T) {
	tr := NewTracer(metric.NewBlackHole(1.0, 0.0), Options{})
	assert.Equal(t, DefaultOptions(), tr.Options())
}
