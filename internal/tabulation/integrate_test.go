package tabulation

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIntegrate_Triangle(t *testing.T) {
	tab := triangle(t)

	v, err := tab.Integrate(1, 3)
	require.NoError(t, err)
	assert.Equal(t, 10.0, v)

	v, err = tab.Integrate(1, 2)
	require.NoError(t, err)
	assert.Equal(t, 5.0, v)

	v, err = tab.Integrate(1.5, 2.5)
	require.NoError(t, err)
	assert.InDelta(t, 7.5, v, 1e-12)
}

func TestIntegrate_FullDomainMatchesNodeSum(t *testing.T) {
	x := []float64{0.1195, 0.1205, 0.1215, 0.1225, 0.3, 0.9, 2.5}
	y := []float64{1.34269e-18, 1.06999e-17, 9.52491e-17, 2.28803e-17, 4e-13, 6e-13, 3.3761e-13}
	tab := MustNew(x, y)

	var want float64
	for i := 0; i+1 < len(x); i++ {
		want += 0.5 * (x[i+1] - x[i]) * (y[i+1] + y[i])
	}

	got, err := tab.Integrate(x[0], x[len(x)-1])
	require.NoError(t, err)
	assert.Equal(t, want, got)
	assert.Equal(t, want, tab.Total())
}

func TestIntegrate_ReversedBounds(t *testing.T) {
	tab := triangle(t)

	fwd, err := tab.Integrate(1.2, 2.7)
	require.NoError(t, err)
	rev, err := tab.Integrate(2.7, 1.2)
	require.NoError(t, err)
	assert.Equal(t, -fwd, rev)

	zero, err := tab.Integrate(2, 2)
	require.NoError(t, err)
	assert.Equal(t, 0.0, zero)
}

func TestIntegrate_Additivity(t *testing.T) {
	tab := MustNew(
		[]float64{0, 0.3, 0.35, 1.1, 2, 2.05, 4},
		[]float64{1, 4, -2, 3.5, 0, 7, 2},
	)

	cases := [][3]float64{
		{0, 1, 4},
		{0.1, 0.3, 0.35},
		{0.31, 2.01, 3.99},
		{1.1, 1.1, 2},
		{0.5, 0.75, 1.0},
	}
	for _, c := range cases {
		a, mid, b := c[0], c[1], c[2]
		whole, err := tab.Integrate(a, b)
		require.NoError(t, err)
		left, err := tab.Integrate(a, mid)
		require.NoError(t, err)
		right, err := tab.Integrate(mid, b)
		require.NoError(t, err)
		assert.InDelta(t, whole, left+right, 1e-12, "a=%g c=%g b=%g", a, mid, b)
	}
}

func TestIntegrate_FlatOutsideDomain(t *testing.T) {
	tab := MustNew([]float64{1, 3}, []float64{2, 4})

	// Rectangle below: 2 * 1, body: 6, rectangle above: 4 * 2.
	v, err := tab.Integrate(0, 5)
	require.NoError(t, err)
	assert.InDelta(t, 16.0, v, 1e-12)

	// Entirely below the domain.
	v, err = tab.Integrate(-3, -1)
	require.NoError(t, err)
	assert.InDelta(t, 4.0, v, 1e-12)
}

func TestIntegrate_LinearOutsideDomain(t *testing.T) {
	tab := MustNew([]float64{1, 3}, []float64{2, 4}, WithExtrapolation(ExtrapolateLinear))

	// y = x + 1, integral from 0 to 5 is 12.5 + 5.
	v, err := tab.Integrate(0, 5)
	require.NoError(t, err)
	assert.InDelta(t, 17.5, v, 1e-12)
}

func TestIntegrate_StrictOutsideDomain(t *testing.T) {
	tab := triangle(t, WithExtrapolation(ExtrapolateStrict))

	_, err := tab.Integrate(0, 2)
	assert.True(t, IsDomain(err))

	v, err := tab.Integrate(1, 3)
	require.NoError(t, err)
	assert.Equal(t, 10.0, v)
}

func TestIntegrate_NaNBounds(t *testing.T) {
	for _, mode := range []Extrapolation{ExtrapolateFlat, ExtrapolateLinear, ExtrapolateStrict} {
		t.Run(mode.String(), func(t *testing.T) {
			tab := triangle(t, WithExtrapolation(mode))
			nan := math.NaN()

			for _, bounds := range [][2]float64{{1, nan}, {nan, 1}, {nan, nan}} {
				v, err := tab.Integrate(bounds[0], bounds[1])
				require.NoError(t, err)
				assert.True(t, math.IsNaN(v), "Integrate(%v, %v) = %v", bounds[0], bounds[1], v)

				m, err := tab.Mean(bounds[0], bounds[1])
				require.NoError(t, err)
				assert.True(t, math.IsNaN(m), "Mean(%v, %v) = %v", bounds[0], bounds[1], m)
			}
		})
	}
}

func TestMean(t *testing.T) {
	tab := triangle(t)

	m, err := tab.Mean(1, 3)
	require.NoError(t, err)
	assert.InDelta(t, 5.0, m, 1e-12)

	m, err = tab.Mean(2, 2)
	require.NoError(t, err)
	assert.Equal(t, 10.0, m)
}

func TestXMean(t *testing.T) {
	m, err := triangle(t).XMean()
	require.NoError(t, err)
	assert.InDelta(t, 2.0, m, 1e-12)

	// Ramp y = x on [0, 3]: ∫x² / ∫x = 9 / 4.5.
	ramp := MustNew([]float64{0, 1, 3}, []float64{0, 1, 3})
	m, err = ramp.XMean()
	require.NoError(t, err)
	assert.InDelta(t, 2.0, m, 1e-12)

	_, err = MustNew([]float64{0, 1}, []float64{0, 0}).XMean()
	assert.True(t, IsDivisionByZero(err))
}

func TestCrossings(t *testing.T) {
	tab := triangle(t)

	assert.Equal(t, []float64{1.5, 2.5}, tab.Crossings(5))
	assert.Equal(t, []float64{2}, tab.Crossings(10))
	assert.Equal(t, []float64{1, 3}, tab.Crossings(0))
	assert.Empty(t, tab.Crossings(11))
}

func TestFWHM(t *testing.T) {
	w, err := triangle(t).FWHM()
	require.NoError(t, err)
	assert.InDelta(t, 1.0, w, 1e-12)

	// Peak on the edge: half maximum reached on one side only.
	_, err = MustNew([]float64{0, 1}, []float64{10, 1}).FWHM()
	assert.True(t, IsDomain(err))
}

func TestQuantile(t *testing.T) {
	tab := triangle(t)

	median, err := tab.Quantile(0.5)
	require.NoError(t, err)
	assert.InDelta(t, 2.0, median, 1e-12)

	// Cumulative on the rising edge is 5(x-1)², so 1/8 of 10 is at x=1.5.
	q, err := tab.Quantile(0.125)
	require.NoError(t, err)
	assert.InDelta(t, 1.5, q, 1e-12)

	first, err := tab.Quantile(0)
	require.NoError(t, err)
	assert.Equal(t, 1.0, first)

	last, err := tab.Quantile(1)
	require.NoError(t, err)
	assert.InDelta(t, 3.0, last, 1e-12)

	_, err = tab.Quantile(1.5)
	assert.True(t, IsDomain(err))
	_, err = tab.Quantile(math.NaN())
	assert.True(t, IsDomain(err))

	_, err = MustNew([]float64{0, 1}, []float64{0, 0}).Quantile(0.5)
	assert.True(t, IsDivisionByZero(err))
}

func TestQuantile_Constant(t *testing.T) {
	flat := MustNew([]float64{0, 10}, []float64{2, 2})
	q, err := flat.Quantile(0.3)
	require.NoError(t, err)
	assert.InDelta(t, 3.0, q, 1e-12)
}
