// Package types contains common types used across the application
package types

import "sort"

// Coefficients holds the quadratic model population(t) = A*t^2 + B*t + C,
// where t is the number of years since the base year.
type Coefficients struct {
	A float64 `json:"a"`
	B float64 `json:"b"`
	C float64 `json:"c"`
}

// Record is the projection result for one locality: the fitted model plus
// the population per calendar year (historical samples and horizons).
type Record struct {
	Coefficients Coefficients    `json:"coefficients"`
	Projections  map[int]float64 `json:"projections"`
}

// Years returns the record's calendar years in ascending order.
func (r Record) Years() []int {
	years := make([]int, 0, len(r.Projections))
	for y := range r.Projections {
		years = append(years, y)
	}
	sort.Ints(years)
	return years
}

// Clone returns a deep copy so callers cannot mutate stored projections.
func (r Record) Clone() Record {
	out := Record{Coefficients: r.Coefficients}
	if r.Projections != nil {
		out.Projections = make(map[int]float64, len(r.Projections))
		for y, v := range r.Projections {
			out.Projections[y] = v
		}
	}
	return out
}
