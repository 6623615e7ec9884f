package tabulation

import (
	"fmt"
	"slices"
)

// Tabulation is an immutable piecewise-linear function defined by sorted
// sample pairs.
//
// The zero value is not usable; construct with New.
type Tabulation struct {
	x    []float64
	y    []float64
	mode Extrapolation
}

// Option configures a Tabulation at construction.
type Option func(*Tabulation)

// WithExtrapolation sets the extrapolation mode used outside the domain.
func WithExtrapolation(mode Extrapolation) Option {
	return func(t *Tabulation) {
		t.mode = mode
	}
}

// New creates a Tabulation from two equal-length sequences.
//
// The inputs are copied; later changes to x or y do not affect the result.
//
// Returns an ErrCodeInvalidShape error if the lengths differ or fewer than
// two samples are given, and an ErrCodeNonMonotonic error if x is not
// strictly increasing. NaN abscissae are reported as non-monotonic.
func New(x, y []float64, opts ...Option) (*Tabulation, error) {
	if err := validate(x, y); err != nil {
		return nil, err
	}
	t := &Tabulation{
		x:    slices.Clone(x),
		y:    slices.Clone(y),
		mode: ExtrapolateFlat,
	}
	for _, opt := range opts {
		opt(t)
	}
	return t, nil
}

// MustNew is like New but panics on error.
// Intended for literal tables whose validity is known at compile time.
func MustNew(x, y []float64, opts ...Option) *Tabulation {
	t, err := New(x, y, opts...)
	if err != nil {
		panic(fmt.Sprintf("tabulation: %v", err))
	}
	return t
}

// validate checks the shape and ordering invariants.
func validate(x, y []float64) error {
	if len(x) != len(y) {
		return newShapeError("x and y lengths differ (%d != %d)", len(x), len(y))
	}
	if len(x) < 2 {
		return newShapeError("at least 2 samples required, got %d", len(x))
	}
	return checkIncreasing(x)
}

// checkIncreasing reports the first index where xs fails to increase.
func checkIncreasing(xs []float64) error {
	for i := 1; i < len(xs); i++ {
		// Written as a negation so NaN on either side fails.
		if !(xs[i] > xs[i-1]) {
			return newNonMonotonicError(i, xs[i])
		}
	}
	return nil
}

// fromOwned wraps buffers that the caller has just allocated and already
// validated. Used by operations that build new curves.
func fromOwned(x, y []float64, mode Extrapolation) *Tabulation {
	return &Tabulation{x: x, y: y, mode: mode}
}

// Len returns the number of samples.
func (t *Tabulation) Len() int {
	return len(t.x)
}

// X returns a copy of the sample abscissae.
func (t *Tabulation) X() []float64 {
	return slices.Clone(t.x)
}

// Y returns a copy of the sample ordinates.
func (t *Tabulation) Y() []float64 {
	return slices.Clone(t.y)
}

// Point returns the i-th sample pair.
func (t *Tabulation) Point(i int) (x, y float64) {
	return t.x[i], t.y[i]
}

// Domain returns the closed interval covered by the samples.
func (t *Tabulation) Domain() (lo, hi float64) {
	return t.x[0], t.x[len(t.x)-1]
}

// Contains reports whether v lies inside the domain.
func (t *Tabulation) Contains(v float64) bool {
	lo, hi := t.Domain()
	return v >= lo && v <= hi
}

// Extrapolation returns the mode used outside the domain.
func (t *Tabulation) Extrapolation() Extrapolation {
	return t.mode
}

// WithExtrapolation returns a Tabulation over the same samples using mode.
// The receiver is unchanged; sample buffers are shared read-only.
func (t *Tabulation) WithExtrapolation(mode Extrapolation) *Tabulation {
	return &Tabulation{x: t.x, y: t.y, mode: mode}
}

// String returns a short description for logs and diagnostics.
func (t *Tabulation) String() string {
	lo, hi := t.Domain()
	return fmt.Sprintf("Tabulation(n=%d, domain=[%g, %g], extrapolation=%s)", t.Len(), lo, hi, t.mode)
}

// Position classifies a query point relative to a sample grid.
type Position int

const (
	// Inside means the point lies in [xs[0], xs[last]].
	Inside Position = iota
	// Below means the point is less than xs[0].
	Below
	// Above means the point is greater than xs[last].
	Above
)

func (p Position) String() string {
	switch p {
	case Inside:
		return "inside"
	case Below:
		return "below"
	case Above:
		return "above"
	default:
		return fmt.Sprintf("Position(%d)", int(p))
	}
}

// Locate finds the interval of xs containing v by binary search.
//
// For v inside the domain it returns (i, Inside) with xs[i] <= v < xs[i+1];
// v == xs[last] maps to the final interval, i == len(xs)-2. Outside the
// domain it returns (0, Below) or (len(xs)-2, Above), the index of the
// boundary interval.
//
// xs must hold at least two strictly increasing values and v must not be NaN.
func Locate(xs []float64, v float64) (int, Position) {
	last := len(xs) - 1
	switch {
	case v < xs[0]:
		return 0, Below
	case v > xs[last]:
		return last - 1, Above
	}
	i, found := slices.BinarySearch(xs, v)
	if !found {
		i--
	}
	if i >= last {
		i = last - 1
	}
	return i, Inside
}

// Locate finds the interval containing v. See the package-level Locate.
func (t *Tabulation) Locate(v float64) (int, Position) {
	return Locate(t.x, v)
}
