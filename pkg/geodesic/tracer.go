package geodesic

import (
	"github.com/skysim/go-geodesic-raytracer/pkg/core"
	"github.com/skysim/go-geodesic-raytracer/pkg/metric"
)

// Quality selects the integration strategy for a trace.
type Quality int

const (
	// Fast uses the fixed-step semi-implicit Euler strategy, meant for
	// per-pixel real-time tracing.
	Fast Quality = iota
	// Accurate uses the adaptive embedded Runge-Kutta strategy.
	Accurate
)

func (q Quality) String() string {
	if q == Accurate {
		return "accurate"
	}
	return "fast"
}

// OutcomeKind is the terminal classification of a traced ray.
type OutcomeKind int

const (
	// Captured means the ray crossed the event horizon.
	Captured OutcomeKind = iota
	// Escaped means the ray left the region of interest with a final direction.
	Escaped
	// Inconclusive means the step budget ran out without a clear outcome.
	// Callers that need a renderable result use Resolve, which treats it
	// as an escape along the last known direction.
	Inconclusive
)

func (k OutcomeKind) String() string {
	switch k {
	case Captured:
		return "captured"
	case Escaped:
		return "escaped"
	default:
		return "inconclusive"
	}
}

// Outcome is the result of tracing one ray.
type Outcome struct {
	Kind      OutcomeKind
	Direction core.Vec3 // final (Escaped) or last known (Captured/Inconclusive) unit direction
	Steps     int       // integration steps consumed
}

// Resolve converts an Inconclusive outcome into an Escaped one along the
// last known direction, so that every ray maps to a renderable color.
func (o Outcome) Resolve() Outcome {
	if o.Kind == Inconclusive {
		o.Kind = Escaped
	}
	return o
}

// Options bounds a trace. The defaults follow the interactive tuning of the
// renderer: escape at 200x the mass, a budget of a few hundred steps.
type Options struct {
	MaxSteps     int     // hard iteration ceiling per ray
	EscapeFactor float64 // escape radius as a multiple of the mass
	InitialStep  float64 // starting step size handed to the integrator
	Tolerance    float64 // adaptive strategy error tolerance
}

// DefaultOptions returns the trace bounds used by the interactive renderer.
func DefaultOptions() Options {
	return Options{
		MaxSteps:     450,
		EscapeFactor: 200.0,
		InitialStep:  0.1,
		Tolerance:    1e-6,
	}
}

// Tracer drives rays to termination against one immutable black hole
// configuration. It holds no per-ray state, so a single Tracer may run any
// number of traces concurrently. Live parameter changes are applied by
// building a new Tracer between frames, never by mutating one mid-frame.
type Tracer struct {
	bh    metric.BlackHole
	opts  Options
	fixed *FixedStep // stateless, shared across traces
}

// NewTracer creates a tracer for the given configuration.
func NewTracer(bh metric.BlackHole, opts Options) *Tracer {
	if opts.MaxSteps <= 0 {
		opts.MaxSteps = DefaultOptions().MaxSteps
	}
	if opts.EscapeFactor <= 0 {
		opts.EscapeFactor = DefaultOptions().EscapeFactor
	}
	if opts.InitialStep <= 0 {
		opts.InitialStep = DefaultOptions().InitialStep
	}
	if opts.Tolerance <= 0 {
		opts.Tolerance = DefaultOptions().Tolerance
	}
	return &Tracer{bh: bh, opts: opts, fixed: NewFixedStep()}
}

// BlackHole returns the configuration snapshot this tracer was built with.
func (t *Tracer) BlackHole() metric.BlackHole { return t.bh }

// Options returns the trace bounds this tracer was built with.
func (t *Tracer) Options() Options { return t.opts }

// Trace integrates a single ray to termination. It is total: every input
// yields an outcome. Degenerate rays and adaptive step underflow resolve as
// Captured; an exhausted step budget resolves as Escaped along the last
// direction. No error ever propagates to the caller.
func (t *Tracer) Trace(origin, direction core.Vec3, quality Quality) Outcome {
	return t.TraceFunc(origin, direction, quality, nil).Resolve()
}

// TraceFunc is Trace with a per-step visitor, used by the renderer for
// effects that need the path itself (accretion disk crossings, debug
// output). Unlike Trace it reports Inconclusive outcomes unresolved. The
// visitor sees the state before and after each accepted step.
func (t *Tracer) TraceFunc(origin, direction core.Vec3, quality Quality, visit func(prev, cur State)) Outcome {
	s, err := NewState(origin, direction, t.opts.InitialStep)
	if err != nil {
		return Outcome{Kind: Captured}
	}

	conserved, err := SolveConserved(s, t.bh)
	if err != nil {
		return Outcome{Kind: Captured, Direction: s.Direction}
	}

	var integ Integrator
	if quality == Accurate {
		// The adaptive strategy carries per-trace normalization
		// constants, so each trace gets its own instance.
		ad := NewAdaptive(t.opts.Tolerance)
		ad.SetConserved(conserved)
		integ = ad
	} else {
		integ = t.fixed
	}

	horizon := t.bh.HorizonRadius()
	escape := t.opts.EscapeFactor * t.bh.Mass

	for step := 0; step < t.opts.MaxSteps; step++ {
		r := s.Radius()
		if r <= horizon {
			return Outcome{Kind: Captured, Direction: s.Direction, Steps: step}
		}
		if r >= escape {
			return Outcome{Kind: Escaped, Direction: s.Direction, Steps: step}
		}

		prev := s
		if err := integ.Advance(&s, t.bh); err != nil {
			// Step size underflow: the ray is pathologically close
			// to the horizon. Terminate as captured rather than
			// looping indefinitely.
			return Outcome{Kind: Captured, Direction: s.Direction, Steps: step}
		}
		if visit != nil {
			visit(prev, s)
		}
	}

	return Outcome{Kind: Inconclusive, Direction: s.Direction, Steps: t.opts.MaxSteps}
}
