package renderer

import (
	"time"

	"github.com/skysim/go-geodesic-raytracer/pkg/geodesic"
)

// RenderStats contains statistics about the rendering process
type RenderStats struct {
	TotalRays       int           // Number of rays traced
	Captured        int           // Rays that crossed the horizon
	Escaped         int           // Rays that left the region of interest
	BudgetExhausted int           // Rays that ran out of integration steps
	TotalSteps      int           // Integration steps across all rays
	AverageSteps    float64       // Average steps per ray
	MaxStepsUsed    int           // Most steps any single ray took
	RenderTime      time.Duration // Wall time for the pass
}

// recordOutcome updates the statistics with a single traced ray. The outcome
// must be the raw (unresolved) one so budget exhaustion stays visible.
func (s *RenderStats) recordOutcome(outcome geodesic.Outcome) {
	s.TotalRays++
	switch outcome.Kind {
	case geodesic.Captured:
		s.Captured++
	case geodesic.Escaped:
		s.Escaped++
	case geodesic.Inconclusive:
		s.BudgetExhausted++
	}
	s.TotalSteps += outcome.Steps
	if outcome.Steps > s.MaxStepsUsed {
		s.MaxStepsUsed = outcome.Steps
	}
}

// Merge folds another stats block into this one, keeping the longer of the
// two render times since tiles render concurrently.
func (s *RenderStats) Merge(other RenderStats) {
	s.TotalRays += other.TotalRays
	s.Captured += other.Captured
	s.Escaped += other.Escaped
	s.BudgetExhausted += other.BudgetExhausted
	s.TotalSteps += other.TotalSteps
	if other.MaxStepsUsed > s.MaxStepsUsed {
		s.MaxStepsUsed = other.MaxStepsUsed
	}
	if other.RenderTime > s.RenderTime {
		s.RenderTime = other.RenderTime
	}
	s.finalize()
}

// finalize computes the derived fields.
func (s *RenderStats) finalize() {
	if s.TotalRays > 0 {
		s.AverageSteps = float64(s.TotalSteps) / float64(s.TotalRays)
	}
}
