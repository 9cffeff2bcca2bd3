// Package model contains domain models passed between layers.
package model

import (
	"errors"
	"fmt"
	"math"
	"strings"
)

// ErrInvalidCensus marks census input that fails validation.
var ErrInvalidCensus = errors.New("invalid census")

// Census is one locality's three census counts, taken at the base year,
// base+2 and base+4.
type Census struct {
	Locality    string
	Populations [3]float64 // base, base+2, base+4
}

// Validate checks that the locality is named and every population is a
// finite non-negative number.
func (c Census) Validate() error {
	if strings.TrimSpace(c.Locality) == "" {
		return fmt.Errorf("%w: missing locality", ErrInvalidCensus)
	}
	for i, p := range c.Populations {
		if math.IsNaN(p) || math.IsInf(p, 0) {
			return fmt.Errorf("%w: population %d is not a finite number", ErrInvalidCensus, i)
		}
		if p < 0 {
			return fmt.Errorf("%w: population %d is negative", ErrInvalidCensus, i)
		}
	}
	return nil
}
