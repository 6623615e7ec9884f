package colina

import (
	"bytes"
	_ "embed"
	"fmt"
	"log/slog"
	"math"
	"sync"

	"golang.org/x/text/unicode/norm"
	"gopkg.in/yaml.v3"

	"github.com/roach88/colina/internal/tabulation"
)

//go:embed colina.yaml
var tableYAML []byte

// Unit labels attached to the table. They are opaque: nothing in this
// module interprets or converts them.
const (
	Units  = "W/m^2/Hz"
	XUnits = "um"
)

// Spectrum is a flux tabulation together with its unit labels.
type Spectrum struct {
	// Flux is the flux density versus wavelength.
	Flux *tabulation.Tabulation

	// Units labels Flux ordinates.
	Units string

	// XUnits labels Flux abscissae.
	XUnits string

	// Reference cites the source of the data.
	Reference string
}

// table mirrors the layout of colina.yaml.
type table struct {
	Reference string      `yaml:"reference"`
	Units     string      `yaml:"units"`
	XUnits    string      `yaml:"xunits"`
	Samples   [][]float64 `yaml:"samples"`
}

var defaultSpectrum = sync.OnceValues(func() (*Spectrum, error) {
	return Load()
})

// Default returns the shared Spectrum, building it on first call.
// Callers must treat the result as read-only.
func Default() (*Spectrum, error) {
	return defaultSpectrum()
}

// Load decodes the embedded table and returns a new Spectrum.
// Options are applied to the flux tabulation.
func Load(opts ...tabulation.Option) (*Spectrum, error) {
	return parse(tableYAML, opts...)
}

// parse decodes a table document and builds the Spectrum. The F column is
// converted to flux density by multiplying by pi.
func parse(data []byte, opts ...tabulation.Option) (*Spectrum, error) {
	var tbl table
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&tbl); err != nil {
		return nil, fmt.Errorf("failed to parse flux table: %w", err)
	}

	x := make([]float64, len(tbl.Samples))
	f := make([]float64, len(tbl.Samples))
	for i, s := range tbl.Samples {
		if len(s) != 2 {
			return nil, fmt.Errorf("samples[%d]: expected [wavelength, flux], got %d values", i, len(s))
		}
		x[i], f[i] = s[0], s[1]
	}

	tab, err := tabulation.New(x, f, opts...)
	if err != nil {
		return nil, fmt.Errorf("invalid flux table: %w", err)
	}

	spectrum := &Spectrum{
		Flux:      tab.Scale(math.Pi),
		Units:     normalizeLabel(tbl.Units),
		XUnits:    normalizeLabel(tbl.XUnits),
		Reference: tbl.Reference,
	}

	lo, hi := spectrum.Flux.Domain()
	slog.Debug("flux table loaded",
		"samples", spectrum.Flux.Len(),
		"min_wavelength", lo,
		"max_wavelength", hi,
		"units", spectrum.Units,
	)
	return spectrum, nil
}

// normalizeLabel puts a unit label in Unicode NFC so that composed and
// decomposed spellings compare equal.
func normalizeLabel(s string) string {
	return norm.NFC.String(s)
}

// WithExtrapolation returns a Spectrum whose flux uses mode outside the
// tabulated band. The receiver is unchanged.
func (s *Spectrum) WithExtrapolation(mode tabulation.Extrapolation) *Spectrum {
	out := *s
	out.Flux = s.Flux.WithExtrapolation(mode)
	return &out
}

// FluxAt returns the flux density at a wavelength in microns.
func (s *Spectrum) FluxAt(wavelength float64) (float64, error) {
	return s.Flux.Evaluate(wavelength)
}

// FluxOn returns the flux density resampled onto a wavelength grid.
func (s *Spectrum) FluxOn(grid []float64) (*tabulation.Tabulation, error) {
	return s.Flux.Resample(grid)
}

// BandFlux returns the flux density integrated over wavelength from lo to
// hi microns, in Units times XUnits.
func (s *Spectrum) BandFlux(lo, hi float64) (float64, error) {
	return s.Flux.Integrate(lo, hi)
}

func (s *Spectrum) String() string {
	lo, hi := s.Flux.Domain()
	return fmt.Sprintf("%s: %d samples, %g-%g %s, %s", s.Reference, s.Flux.Len(), lo, hi, s.XUnits, s.Units)
}
