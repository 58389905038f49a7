package reports

import "errors"

// ErrInsufficientData is returned by reports that must not be drawn when they
// have nothing to show. It is a condition, not a failure.
var ErrInsufficientData = errors.New("reports: insufficient data")

// LabelMaxRunes is the longest label shown for book titles and author names.
const LabelMaxRunes = 20

// Point is one bar of a chart.
type Point struct {
	Label string  `json:"label"`
	Value float64 `json:"value"`
}

// Series is an ordered list of points. Order is set by the producer and
// preserved by Render.
type Series []Point

// Labels returns the point labels in order.
func (s Series) Labels() []string {
	out := make([]string, len(s))
	for i, p := range s {
		out[i] = p.Label
	}
	return out
}

// Values returns the point values in order.
func (s Series) Values() []float64 {
	out := make([]float64, len(s))
	for i, p := range s {
		out[i] = p.Value
	}
	return out
}

// Max returns the largest value, or 0 for an empty series.
func (s Series) Max() float64 {
	var m float64
	for _, p := range s {
		if p.Value > m {
			m = p.Value
		}
	}
	return m
}
