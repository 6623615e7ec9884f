package tabulation

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/integrate"
)

// Integrate returns the definite integral of the curve from a to b.
//
// Virtual nodes are placed at a and b and the trapezoidal rule is applied to
// them and every stored node between them; the stored samples are not
// modified. If a > b the result is -Integrate(b, a), and a NaN bound yields
// NaN in every mode. Outside the domain the virtual nodes follow the
// extrapolation mode: flat extension contributes a rectangle, linear
// extension a trapezoid, and strict mode fails with ErrCodeDomain.
//
// Accuracy is bounded by the sampling density; there is no refinement.
func (t *Tabulation) Integrate(a, b float64) (float64, error) {
	switch {
	case math.IsNaN(a) || math.IsNaN(b):
		return math.NaN(), nil
	case a == b:
		return 0, nil
	case a > b:
		v, err := t.Integrate(b, a)
		return -v, err
	}
	xs, ys, err := t.span(a, b)
	if err != nil {
		return 0, err
	}
	return integrate.Trapezoidal(xs, ys), nil
}

// Total returns the integral over the whole domain.
func (t *Tabulation) Total() float64 {
	return integrate.Trapezoidal(t.x, t.y)
}

// Mean returns the average value over [a, b], the integral divided by b - a.
func (t *Tabulation) Mean(a, b float64) (float64, error) {
	if a == b {
		return t.Evaluate(a)
	}
	v, err := t.Integrate(a, b)
	if err != nil {
		return 0, err
	}
	return v / (b - a), nil
}

// XMean returns the y-weighted mean abscissa over the domain,
// ∫x·y dx / ∫y dx, computed exactly for the piecewise-linear curve.
//
// Returns an ErrCodeDivisionByZero error when the integral of y is zero.
func (t *Tabulation) XMean() (float64, error) {
	var num, den float64
	for i := 0; i+1 < len(t.x); i++ {
		x0, x1 := t.x[i], t.x[i+1]
		y0, y1 := t.y[i], t.y[i+1]
		h := x1 - x0
		num += h / 6 * (x0*(2*y0+y1) + x1*(y0+2*y1))
		den += h / 2 * (y0 + y1)
	}
	if den == 0 {
		return 0, &Error{Code: ErrCodeDivisionByZero, Message: "integral of y is zero", Index: -1}
	}
	return num / den, nil
}

// Crossings returns, in increasing order, the abscissae inside the domain
// where the curve equals level. Nodes equal to level are reported once;
// segments that lie entirely on level contribute only their nodes.
func (t *Tabulation) Crossings(level float64) []float64 {
	var out []float64
	for i := range t.x {
		if t.y[i] == level {
			out = append(out, t.x[i])
		}
		if i+1 == len(t.x) {
			break
		}
		d0, d1 := t.y[i]-level, t.y[i+1]-level
		if (d0 < 0 && d1 > 0) || (d0 > 0 && d1 < 0) {
			out = append(out, t.x[i]+(level-t.y[i])*(t.x[i+1]-t.x[i])/(t.y[i+1]-t.y[i]))
		}
	}
	return out
}

// FWHM returns the full width at half maximum: the distance between the
// outermost points where the curve equals half its peak value.
//
// Returns an ErrCodeDomain error if the curve does not fall to half its peak
// on both sides within the domain.
func (t *Tabulation) FWHM() (float64, error) {
	peak := math.Inf(-1)
	for _, y := range t.y {
		peak = max(peak, y)
	}
	half := peak / 2
	c := t.Crossings(half)
	if peak <= 0 || len(c) < 2 {
		return 0, &Error{
			Code:    ErrCodeDomain,
			Message: fmt.Sprintf("half maximum %g not bracketed by the domain", half),
			Index:   -1,
		}
	}
	return c[len(c)-1] - c[0], nil
}

// Quantile returns the abscissa at which the cumulative integral from x[0]
// reaches fraction q of the total. The curve is assumed non-negative.
//
// Returns an ErrCodeDomain error when q is outside [0, 1] and an
// ErrCodeDivisionByZero error when the total integral is zero.
func (t *Tabulation) Quantile(q float64) (float64, error) {
	if !(q >= 0 && q <= 1) {
		return 0, &Error{
			Code:    ErrCodeDomain,
			Message: fmt.Sprintf("quantile %g outside [0, 1]", q),
			Index:   -1,
			X:       q,
		}
	}
	total := t.Total()
	if total == 0 {
		return 0, &Error{Code: ErrCodeDivisionByZero, Message: "integral of y is zero", Index: -1}
	}

	target := q * total
	var cum float64
	for i := 0; i+1 < len(t.x); i++ {
		x0, x1 := t.x[i], t.x[i+1]
		y0, y1 := t.y[i], t.y[i+1]
		h := x1 - x0
		area := h / 2 * (y0 + y1)
		if cum+area >= target {
			return x0 + segmentOffset(y0, y1, h, target-cum), nil
		}
		cum += area
	}
	return t.x[len(t.x)-1], nil
}

// segmentOffset solves y0·s + (y1-y0)·s²/(2h) = r for s in [0, h].
func segmentOffset(y0, y1, h, r float64) float64 {
	if r <= 0 {
		return 0
	}
	disc := math.Max(y0*y0+2*(y1-y0)*r/h, 0)
	den := y0 + math.Sqrt(disc)
	if den <= 0 {
		return h
	}
	return math.Min(2*r/den, h)
}
