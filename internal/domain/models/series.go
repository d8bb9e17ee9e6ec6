package models

import "time"

// Point is a single (date, value) observation.
type Point struct {
	Date  time.Time
	Value float64
}

// Series is a chronological sequence of points, ascending by date.
// A Series is owned by one pipeline invocation and never mutated after
// construction.
type Series []Point

// Dates returns the dates of all points in order.
func (s Series) Dates() []time.Time {
	out := make([]time.Time, len(s))
	for i, p := range s {
		out[i] = p.Date
	}
	return out
}

// Values returns the values of all points in order.
func (s Series) Values() []float64 {
	out := make([]float64, len(s))
	for i, p := range s {
		out[i] = p.Value
	}
	return out
}

// Last returns the final point. Callers must ensure the series is non-empty.
func (s Series) Last() Point { return s[len(s)-1] }

// Split is a chronological partition of a series: Train is the prefix,
// Validation the remaining suffix. The two never overlap and their union
// is the original series.
type Split struct {
	Train      Series
	Validation Series
}
