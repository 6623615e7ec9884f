package colina

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/colina/internal/tabulation"
)

func TestLoad(t *testing.T) {
	spectrum, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 1447, spectrum.Flux.Len())
	assert.Equal(t, Units, spectrum.Units)
	assert.Equal(t, XUnits, spectrum.XUnits)
	assert.Contains(t, spectrum.Reference, "Colina")

	lo, hi := spectrum.Flux.Domain()
	assert.Equal(t, 0.1195, lo)
	assert.Equal(t, 2.5, hi)
}

func TestLoad_AppliesPi(t *testing.T) {
	spectrum, err := Load()
	require.NoError(t, err)

	first, last := 1.34269e-18, 3.37610e-13

	got, err := spectrum.FluxAt(0.1195)
	require.NoError(t, err)
	assert.Equal(t, first*math.Pi, got)

	got, err = spectrum.FluxAt(2.5)
	require.NoError(t, err)
	assert.Equal(t, last*math.Pi, got)

	// Lyman-alpha sample.
	lya := 9.52491e-17
	got, err = spectrum.FluxAt(0.1215)
	require.NoError(t, err)
	assert.Equal(t, lya*math.Pi, got)
}

func TestLoad_FlatOutsideBand(t *testing.T) {
	spectrum, err := Load()
	require.NoError(t, err)

	edge, err := spectrum.FluxAt(0.1195)
	require.NoError(t, err)
	below, err := spectrum.FluxAt(0.01)
	require.NoError(t, err)
	assert.Equal(t, edge, below)

	edge, err = spectrum.FluxAt(2.5)
	require.NoError(t, err)
	above, err := spectrum.FluxAt(10)
	require.NoError(t, err)
	assert.Equal(t, edge, above)
}

func TestLoad_WithOptions(t *testing.T) {
	spectrum, err := Load(tabulation.WithExtrapolation(tabulation.ExtrapolateStrict))
	require.NoError(t, err)

	_, err = spectrum.FluxAt(3)
	assert.True(t, tabulation.IsDomain(err))
}

func TestDefault_IsShared(t *testing.T) {
	a, err := Default()
	require.NoError(t, err)
	b, err := Default()
	require.NoError(t, err)
	assert.Same(t, a, b)
}

func TestWithExtrapolation(t *testing.T) {
	spectrum, err := Default()
	require.NoError(t, err)

	strict := spectrum.WithExtrapolation(tabulation.ExtrapolateStrict)
	assert.NotSame(t, spectrum, strict)
	assert.Equal(t, tabulation.ExtrapolateFlat, spectrum.Flux.Extrapolation())
	assert.Equal(t, tabulation.ExtrapolateStrict, strict.Flux.Extrapolation())
	assert.Equal(t, spectrum.Units, strict.Units)
}

func TestFluxOn(t *testing.T) {
	spectrum, err := Default()
	require.NoError(t, err)

	grid := []float64{0.3, 0.5, 1.0, 2.0}
	r, err := spectrum.FluxOn(grid)
	require.NoError(t, err)
	assert.Equal(t, grid, r.X())

	for i, x := range grid {
		want, err := spectrum.FluxAt(x)
		require.NoError(t, err)
		_, got := r.Point(i)
		assert.Equal(t, want, got)
	}

	_, err = spectrum.FluxOn([]float64{1, 0.5})
	assert.True(t, tabulation.IsNonMonotonic(err))
}

func TestBandFlux(t *testing.T) {
	spectrum, err := Default()
	require.NoError(t, err)

	whole, err := spectrum.BandFlux(0.1195, 2.5)
	require.NoError(t, err)
	assert.Equal(t, spectrum.Flux.Total(), whole)
	assert.Greater(t, whole, 0.0)

	visible, err := spectrum.BandFlux(0.4, 0.7)
	require.NoError(t, err)
	nearIR, err := spectrum.BandFlux(0.7, 2.5)
	require.NoError(t, err)
	uv, err := spectrum.BandFlux(0.1195, 0.4)
	require.NoError(t, err)
	assert.InEpsilon(t, whole, uv+visible+nearIR, 1e-12)
}

func TestParse_Errors(t *testing.T) {
	tests := []struct {
		name string
		doc  string
		want string
	}{
		{
			name: "unknown field",
			doc:  "units: x\nxunits: y\nsample: []\n",
			want: "failed to parse flux table",
		},
		{
			name: "short row",
			doc:  "samples:\n  - [0.1, 1]\n  - [0.2]\n",
			want: "samples[1]",
		},
		{
			name: "too few samples",
			doc:  "samples:\n  - [0.1, 1]\n",
			want: "INVALID_SHAPE",
		},
		{
			name: "unsorted",
			doc:  "samples:\n  - [0.2, 1]\n  - [0.1, 1]\n",
			want: "NON_MONOTONIC",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := parse([]byte(tt.doc))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestParse_NormalizesUnitLabels(t *testing.T) {
	doc := "units: \"e\u0301rg\"\nxunits: um\nsamples:\n  - [1, 1]\n  - [2, 1]\n"
	spectrum, err := parse([]byte(doc))
	require.NoError(t, err)
	assert.Equal(t, "\u00e9rg", spectrum.Units)
}

func TestString(t *testing.T) {
	spectrum, err := Default()
	require.NoError(t, err)
	assert.Contains(t, spectrum.String(), "1447 samples")
	assert.Contains(t, spectrum.String(), "0.1195-2.5 um")
}
