// Package tabulation implements immutable, irregularly-sampled
// one-dimensional functions.
//
// A Tabulation is a piecewise-linear curve through sorted (x, y) samples. It
// supports evaluation at arbitrary points, resampling onto a new grid,
// elementwise arithmetic between two tabulations, and definite integrals
// over arbitrary ranges.
//
// # Invariants
//
//   - len(x) == len(y) >= 2
//   - x strictly increasing
//   - a Tabulation never changes after New returns; every operation that
//     produces a curve allocates a new Tabulation
//
// # Extrapolation
//
// Outside [x[0], x[last]] values are resolved by the Tabulation's
// Extrapolation mode:
//
//   - ExtrapolateFlat (default): y[0] below the domain, y[last] above it
//   - ExtrapolateLinear: extend the first or last segment
//   - ExtrapolateStrict: fail with an ErrCodeDomain error
//
// # Combination
//
// Binary arithmetic (Add, Subtract, Multiply, Divide) is defined on the
// intersection of the operand domains. The result grid is the sorted union
// of both sample grids restricted to that intersection, so no extrapolated
// value ever enters a combined curve.
//
// # Concurrency
//
// Tabulations hold no caches and are safe for concurrent use by multiple
// goroutines.
package tabulation
