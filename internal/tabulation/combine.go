package tabulation

import (
	"slices"

	"gonum.org/v1/gonum/floats"
)

// Add returns a + b on the intersection of their domains.
func Add(a, b *Tabulation) (*Tabulation, error) {
	return combine(a, b, func(ya, yb float64) float64 { return ya + yb }, false)
}

// Subtract returns a - b on the intersection of their domains.
func Subtract(a, b *Tabulation) (*Tabulation, error) {
	return combine(a, b, func(ya, yb float64) float64 { return ya - yb }, false)
}

// Multiply returns a * b on the intersection of their domains.
func Multiply(a, b *Tabulation) (*Tabulation, error) {
	return combine(a, b, func(ya, yb float64) float64 { return ya * yb }, false)
}

// Divide returns a / b on the intersection of their domains.
//
// Returns an ErrCodeDivisionByZero error if b is exactly zero at any point of
// the combined grid. Near-zero denominators are not special-cased.
func Divide(a, b *Tabulation) (*Tabulation, error) {
	return combine(a, b, func(ya, yb float64) float64 { return ya / yb }, true)
}

// Add returns t + other. See the package-level Add.
func (t *Tabulation) Add(other *Tabulation) (*Tabulation, error) {
	return Add(t, other)
}

// Subtract returns t - other. See the package-level Subtract.
func (t *Tabulation) Subtract(other *Tabulation) (*Tabulation, error) {
	return Subtract(t, other)
}

// Multiply returns t * other. See the package-level Multiply.
func (t *Tabulation) Multiply(other *Tabulation) (*Tabulation, error) {
	return Multiply(t, other)
}

// Divide returns t / other. See the package-level Divide.
func (t *Tabulation) Divide(other *Tabulation) (*Tabulation, error) {
	return Divide(t, other)
}

// combine evaluates op on the union grid of a and b restricted to the
// intersection of their domains. The result takes a's extrapolation mode.
func combine(a, b *Tabulation, op func(ya, yb float64) float64, checkZero bool) (*Tabulation, error) {
	alo, ahi := a.Domain()
	blo, bhi := b.Domain()
	lo, hi := max(alo, blo), min(ahi, bhi)
	if !(lo < hi) {
		return nil, newShapeError("domains [%g, %g] and [%g, %g] do not overlap", alo, ahi, blo, bhi)
	}

	grid := unionGrid(a.x, b.x, lo, hi)
	ya := a.sampleInside(grid)
	yb := b.sampleInside(grid)

	if checkZero {
		for i, d := range yb {
			if d == 0 {
				return nil, newDivisionByZeroError(i, grid[i])
			}
		}
	}

	y := make([]float64, len(grid))
	for i := range grid {
		y[i] = op(ya[i], yb[i])
	}
	return fromOwned(grid, y, a.mode), nil
}

// unionGrid merges two sorted grids, dropping duplicates and values outside
// [lo, hi].
func unionGrid(a, b []float64, lo, hi float64) []float64 {
	out := make([]float64, 0, len(a)+len(b))
	i, j := 0, 0
	for i < len(a) || j < len(b) {
		var v float64
		switch {
		case j >= len(b) || (i < len(a) && a[i] < b[j]):
			v = a[i]
			i++
		case i >= len(a) || b[j] < a[i]:
			v = b[j]
			j++
		default:
			v = a[i]
			i++
			j++
		}
		if v < lo || v > hi {
			continue
		}
		out = append(out, v)
	}
	return out
}

// sampleInside evaluates t at points known to lie inside its domain.
func (t *Tabulation) sampleInside(grid []float64) []float64 {
	out := make([]float64, len(grid))
	for i, v := range grid {
		// Flat mode never fails.
		out[i], _ = Interpolate(t.x, t.y, v, ExtrapolateFlat)
	}
	return out
}

// Scale returns a Tabulation with every ordinate multiplied by k.
func (t *Tabulation) Scale(k float64) *Tabulation {
	y := slices.Clone(t.y)
	floats.Scale(k, y)
	return fromOwned(slices.Clone(t.x), y, t.mode)
}

// Offset returns a Tabulation with k added to every ordinate.
func (t *Tabulation) Offset(k float64) *Tabulation {
	y := slices.Clone(t.y)
	floats.AddConst(k, y)
	return fromOwned(slices.Clone(t.x), y, t.mode)
}

// Resample returns a Tabulation evaluated at every point of newX.
//
// newX must hold at least two strictly increasing values. Points outside the
// domain follow the receiver's extrapolation mode, so a strict Tabulation
// fails with ErrCodeDomain.
func (t *Tabulation) Resample(newX []float64) (*Tabulation, error) {
	if len(newX) < 2 {
		return nil, newShapeError("at least 2 samples required, got %d", len(newX))
	}
	if err := checkIncreasing(newX); err != nil {
		return nil, err
	}
	y, err := t.EvaluateAll(newX)
	if err != nil {
		return nil, err
	}
	return fromOwned(slices.Clone(newX), y, t.mode), nil
}

// Clip returns the part of the curve over [lo, hi].
//
// End nodes are inserted at lo and hi by interpolation, or by extrapolation
// when they fall outside the domain.
func (t *Tabulation) Clip(lo, hi float64) (*Tabulation, error) {
	if !(lo < hi) {
		return nil, newShapeError("clip range [%g, %g] is empty", lo, hi)
	}
	x, y, err := t.span(lo, hi)
	if err != nil {
		return nil, err
	}
	return fromOwned(x, y, t.mode), nil
}

// span returns the nodes of the curve over [a, b] (a < b): a virtual node at
// a, every stored node strictly between a and b, and a virtual node at b.
// Stored buffers are never modified.
func (t *Tabulation) span(a, b float64) ([]float64, []float64, error) {
	ya, err := t.Evaluate(a)
	if err != nil {
		return nil, nil, err
	}
	yb, err := t.Evaluate(b)
	if err != nil {
		return nil, nil, err
	}

	// First stored node > a, first stored node >= b.
	start, found := slices.BinarySearch(t.x, a)
	if found {
		start++
	}
	end, _ := slices.BinarySearch(t.x, b)
	if end < start {
		end = start
	}

	n := end - start + 2
	xs := make([]float64, 0, n)
	ys := make([]float64, 0, n)
	xs = append(xs, a)
	ys = append(ys, ya)
	xs = append(xs, t.x[start:end]...)
	ys = append(ys, t.y[start:end]...)
	xs = append(xs, b)
	ys = append(ys, yb)
	return xs, ys, nil
}
