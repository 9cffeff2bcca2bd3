// Package projection fits a quadratic population model to three census
// counts and evaluates it at future horizons.
package projection

import (
	"context"
	"slices"

	"github.com/okian/popcast/internal/domain/model"
	"github.com/okian/popcast/internal/domain/types"
)

// Default projection configuration constants.
const (
	DefaultBaseYear = 2016
	// SampleInterval is the spacing, in years, between the three census counts.
	SampleInterval = 2
	// lastSampleOffset is the offset of the third census count.
	lastSampleOffset = 2 * SampleInterval
)

// DefaultHorizons are the offsets, in years after the base year, at which
// the model is evaluated.
var DefaultHorizons = []int{7, 8, 9, 10}

// Option applies a configuration option to the Engine.
type Option func(*Engine)

// WithBaseYear sets the calendar year of the first census count.
func WithBaseYear(year int) Option {
	return func(e *Engine) {
		if year > 0 {
			e.baseYear = year
		}
	}
}

// WithHorizons sets the forward offsets to evaluate. Offsets that do not lie
// beyond the last census count are dropped; an empty result keeps the defaults.
func WithHorizons(horizons []int) Option {
	return func(e *Engine) {
		var kept []int
		for _, h := range horizons {
			if h > lastSampleOffset && !slices.Contains(kept, h) {
				kept = append(kept, h)
			}
		}
		if len(kept) > 0 {
			slices.Sort(kept)
			e.horizons = kept
		}
	}
}

// CalculateCoefficients derives the quadratic through (0,p0), (2,p1), (4,p2)
// using second-order finite differences.
func CalculateCoefficients(p0, p1, p2 float64) types.Coefficients {
	return types.Coefficients{
		A: (p2 - 2*p1 + p0) / 8,
		B: (4*p1 - p2 - 3*p0) / 4,
		C: p0,
	}
}

// Evaluate returns A*t^2 + B*t + C. The result is not clamped.
func Evaluate(c types.Coefficients, t float64) float64 {
	return c.A*t*t + c.B*t + c.C
}

// Engine projects census input onto calendar years.
type Engine struct {
	baseYear int
	horizons []int
}

// NewEngine creates an engine with configuration options.
func NewEngine(opts ...Option) *Engine {
	e := &Engine{
		baseYear: DefaultBaseYear,
		horizons: slices.Clone(DefaultHorizons),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// BaseYear returns the calendar year mapped to t=0.
func (e *Engine) BaseYear() int { return e.baseYear }

// Horizons returns a copy of the configured forward offsets.
func (e *Engine) Horizons() []int { return slices.Clone(e.horizons) }

// Project fits the model for c and builds its record. The three census
// counts are stored as supplied; each horizon is evaluated from the model.
func (e *Engine) Project(_ context.Context, c model.Census) types.Record {
	p := c.Populations
	coef := CalculateCoefficients(p[0], p[1], p[2])

	projections := make(map[int]float64, len(p)+len(e.horizons))
	for i, v := range p {
		projections[e.baseYear+i*SampleInterval] = v
	}
	for _, h := range e.horizons {
		projections[e.baseYear+h] = Evaluate(coef, float64(h))
	}

	return types.Record{Coefficients: coef, Projections: projections}
}
