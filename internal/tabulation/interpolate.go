package tabulation

import (
	"fmt"
	"math"
)

// Extrapolation selects how a Tabulation is evaluated outside its domain.
type Extrapolation int

const (
	// ExtrapolateFlat extends y[0] below the domain and y[last] above it.
	ExtrapolateFlat Extrapolation = iota

	// ExtrapolateLinear extends the first and last segments as straight lines.
	ExtrapolateLinear

	// ExtrapolateStrict rejects queries outside the domain with ErrCodeDomain.
	ExtrapolateStrict
)

// ValidExtrapolations lists the accepted textual mode names.
var ValidExtrapolations = []string{"flat", "linear", "strict"}

func (e Extrapolation) String() string {
	switch e {
	case ExtrapolateFlat:
		return "flat"
	case ExtrapolateLinear:
		return "linear"
	case ExtrapolateStrict:
		return "strict"
	default:
		return fmt.Sprintf("Extrapolation(%d)", int(e))
	}
}

// ParseExtrapolation converts a mode name to an Extrapolation.
// The empty string selects ExtrapolateFlat.
func ParseExtrapolation(s string) (Extrapolation, error) {
	switch s {
	case "", "flat":
		return ExtrapolateFlat, nil
	case "linear":
		return ExtrapolateLinear, nil
	case "strict":
		return ExtrapolateStrict, nil
	}
	return 0, fmt.Errorf("invalid extrapolation %q: must be one of %v", s, ValidExtrapolations)
}

// MarshalText implements encoding.TextMarshaler.
func (e Extrapolation) MarshalText() ([]byte, error) {
	return []byte(e.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (e *Extrapolation) UnmarshalText(text []byte) error {
	mode, err := ParseExtrapolation(string(text))
	if err != nil {
		return err
	}
	*e = mode
	return nil
}

// Interpolate evaluates the piecewise-linear curve through (xs, ys) at v.
//
// Querying exactly at a node returns the stored ordinate unchanged. Outside
// the domain the result follows mode. A NaN query yields NaN.
//
// xs must be strictly increasing with len(xs) == len(ys) >= 2.
func Interpolate(xs, ys []float64, v float64, mode Extrapolation) (float64, error) {
	if math.IsNaN(v) {
		return math.NaN(), nil
	}
	i, pos := Locate(xs, v)
	switch pos {
	case Below:
		switch mode {
		case ExtrapolateStrict:
			return 0, newDomainError(v, xs[0], xs[len(xs)-1])
		case ExtrapolateLinear:
			return lerp(xs[i], xs[i+1], ys[i], ys[i+1], v), nil
		}
		return ys[0], nil
	case Above:
		switch mode {
		case ExtrapolateStrict:
			return 0, newDomainError(v, xs[0], xs[len(xs)-1])
		case ExtrapolateLinear:
			return lerp(xs[i], xs[i+1], ys[i], ys[i+1], v), nil
		}
		return ys[len(ys)-1], nil
	}

	if v == xs[i] {
		return ys[i], nil
	}
	if v == xs[i+1] {
		return ys[i+1], nil
	}
	return lerp(xs[i], xs[i+1], ys[i], ys[i+1], v), nil
}

// lerp evaluates the line through (x0, y0) and (x1, y1) at v.
func lerp(x0, x1, y0, y1, v float64) float64 {
	return y0 + (y1-y0)*(v-x0)/(x1-x0)
}

// Evaluate returns the function value at v.
//
// Errors only in ExtrapolateStrict mode, when v lies outside the domain.
func (t *Tabulation) Evaluate(v float64) (float64, error) {
	return Interpolate(t.x, t.y, v, t.mode)
}

// EvaluateAll applies Evaluate to every point of vs.
// Stops at the first error; no partial result is returned.
func (t *Tabulation) EvaluateAll(vs []float64) ([]float64, error) {
	out := make([]float64, len(vs))
	for i, v := range vs {
		y, err := Interpolate(t.x, t.y, v, t.mode)
		if err != nil {
			return nil, err
		}
		out[i] = y
	}
	return out, nil
}
