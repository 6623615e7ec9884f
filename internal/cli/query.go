package cli

import (
	"fmt"
	"log/slog"
	"math"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/roach88/colina/internal/colina"
)

// FluxPoint is one wavelength/flux pair in command output.
type FluxPoint struct {
	Wavelength float64 `json:"wavelength"`
	Flux       float64 `json:"flux"`
}

// FluxTable is the output of eval and resample.
type FluxTable struct {
	Units  string      `json:"units"`
	XUnits string      `json:"xunits"`
	Points []FluxPoint `json:"points"`
}

func (t FluxTable) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "# wavelength[%s]\tflux[%s]", t.XUnits, t.Units)
	for _, p := range t.Points {
		fmt.Fprintf(&b, "\n%g\t%g", p.Wavelength, p.Flux)
	}
	return b.String()
}

// BandResult is the output of integrate.
type BandResult struct {
	Lo    float64 `json:"lo"`
	Hi    float64 `json:"hi"`
	Flux  float64 `json:"flux"`
	Units string  `json:"units"`
}

func (r BandResult) String() string {
	return fmt.Sprintf("%g %s (%g-%g)", r.Flux, r.Units, r.Lo, r.Hi)
}

// InfoResult is the output of info.
type InfoResult struct {
	Reference      string  `json:"reference"`
	Samples        int     `json:"samples"`
	MinWavelength  float64 `json:"min_wavelength"`
	MaxWavelength  float64 `json:"max_wavelength"`
	Units          string  `json:"units"`
	XUnits         string  `json:"xunits"`
	Extrapolation  string  `json:"extrapolation"`
	TotalFlux      float64 `json:"total_flux"`
	MeanWavelength float64 `json:"mean_wavelength"`
}

func (r InfoResult) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "Reference:       %s\n", r.Reference)
	fmt.Fprintf(&b, "Samples:         %d\n", r.Samples)
	fmt.Fprintf(&b, "Domain:          %g-%g %s\n", r.MinWavelength, r.MaxWavelength, r.XUnits)
	fmt.Fprintf(&b, "Units:           %s\n", r.Units)
	fmt.Fprintf(&b, "Extrapolation:   %s\n", r.Extrapolation)
	fmt.Fprintf(&b, "Total flux:      %g %s*%s\n", r.TotalFlux, r.Units, r.XUnits)
	fmt.Fprintf(&b, "Mean wavelength: %g %s", r.MeanWavelength, r.XUnits)
	return b.String()
}

// NewInfoCommand creates the info command.
func NewInfoCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "info",
		Short: "Describe the flux table",
		Long: `Describe the flux table: source, sampling, units, and band integral.

Example:
  colina info
  colina info --format json`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runInfo(rootOpts, cmd)
		},
	}
}

func runInfo(opts *RootOptions, cmd *cobra.Command) error {
	f := newFormatter(opts, cmd)
	spectrum, err := loadSpectrum(opts)
	if err != nil {
		return f.Fail(err)
	}

	mean, err := spectrum.Flux.XMean()
	if err != nil {
		return f.Fail(WrapExitError(ExitFailure, "mean wavelength", err))
	}
	lo, hi := spectrum.Flux.Domain()
	return f.Success(InfoResult{
		Reference:      spectrum.Reference,
		Samples:        spectrum.Flux.Len(),
		MinWavelength:  lo,
		MaxWavelength:  hi,
		Units:          spectrum.Units,
		XUnits:         spectrum.XUnits,
		Extrapolation:  spectrum.Flux.Extrapolation().String(),
		TotalFlux:      spectrum.Flux.Total(),
		MeanWavelength: mean,
	})
}

// NewEvalCommand creates the eval command.
func NewEvalCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "eval <wavelength>...",
		Short: "Flux density at wavelengths in microns",
		Long: `Evaluate the flux density at one or more wavelengths in microns.

Values between samples are linearly interpolated.

Example:
  colina eval 0.55
  colina eval 0.3 0.5 1.0 --format json
  colina eval 3.0 --extrapolation strict`,
		Args:          cobra.MinimumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runEval(rootOpts, args, cmd)
		},
	}
}

func runEval(opts *RootOptions, args []string, cmd *cobra.Command) error {
	f := newFormatter(opts, cmd)
	points, err := parseFloats(args)
	if err != nil {
		return f.Fail(err)
	}
	spectrum, err := loadSpectrum(opts)
	if err != nil {
		return f.Fail(err)
	}

	flux, err := spectrum.Flux.EvaluateAll(points)
	if err != nil {
		return f.Fail(WrapExitError(ExitFailure, "evaluation failed", err))
	}
	slog.Debug("evaluated flux", "points", len(points))
	return f.Success(newFluxTable(spectrum, points, flux))
}

// NewIntegrateCommand creates the integrate command.
func NewIntegrateCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "integrate <lo> <hi>",
		Short: "Integrate flux density over a wavelength band",
		Long: `Integrate the flux density over [lo, hi] microns with the trapezoidal rule.

The result is in W/m^2/Hz*um. If lo > hi the result is negated.

Example:
  colina integrate 0.4 0.7`,
		Args:          cobra.ExactArgs(2),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runIntegrate(rootOpts, args, cmd)
		},
	}
}

func runIntegrate(opts *RootOptions, args []string, cmd *cobra.Command) error {
	f := newFormatter(opts, cmd)
	bounds, err := parseFloats(args)
	if err != nil {
		return f.Fail(err)
	}
	spectrum, err := loadSpectrum(opts)
	if err != nil {
		return f.Fail(err)
	}

	flux, err := spectrum.BandFlux(bounds[0], bounds[1])
	if err != nil {
		return f.Fail(WrapExitError(ExitFailure, "integration failed", err))
	}
	return f.Success(BandResult{
		Lo:    bounds[0],
		Hi:    bounds[1],
		Flux:  flux,
		Units: spectrum.Units + "*" + spectrum.XUnits,
	})
}

// ResampleOptions holds flags for the resample command.
type ResampleOptions struct {
	*RootOptions
	Grid []float64
	From float64
	To   float64
	Step float64
}

// NewResampleCommand creates the resample command.
func NewResampleCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ResampleOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "resample",
		Short: "Flux density on a new wavelength grid",
		Long: `Resample the flux density onto a strictly increasing wavelength grid.

The grid is given explicitly with --grid or as a range with --from, --to,
and --step.

Example:
  colina resample --grid 0.3,0.5,1.0
  colina resample --from 0.2 --to 2.4 --step 0.1 --format json`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runResample(opts, cmd)
		},
	}

	cmd.Flags().Float64SliceVar(&opts.Grid, "grid", nil, "comma-separated wavelengths in microns")
	cmd.Flags().Float64Var(&opts.From, "from", 0, "first wavelength of a regular grid")
	cmd.Flags().Float64Var(&opts.To, "to", 0, "last wavelength of a regular grid")
	cmd.Flags().Float64Var(&opts.Step, "step", 0, "spacing of a regular grid")
	cmd.MarkFlagsMutuallyExclusive("grid", "from")
	cmd.MarkFlagsMutuallyExclusive("grid", "to")
	cmd.MarkFlagsMutuallyExclusive("grid", "step")

	return cmd
}

func runResample(opts *ResampleOptions, cmd *cobra.Command) error {
	f := newFormatter(opts.RootOptions, cmd)
	grid := opts.Grid
	if grid == nil {
		var err error
		grid, err = regularGrid(opts.From, opts.To, opts.Step)
		if err != nil {
			return f.Fail(err)
		}
	} else if err := checkFinite("--grid", grid); err != nil {
		return f.Fail(err)
	}
	spectrum, err := loadSpectrum(opts.RootOptions)
	if err != nil {
		return f.Fail(err)
	}

	r, err := spectrum.FluxOn(grid)
	if err != nil {
		return f.Fail(WrapExitError(ExitFailure, "resample failed", err))
	}
	f.VerboseLog("resampled %d points onto %d", spectrum.Flux.Len(), r.Len())
	return f.Success(newFluxTable(spectrum, r.X(), r.Y()))
}

// maxGridPoints bounds the size of a --from/--to/--step grid.
const maxGridPoints = 1_000_000

// regularGrid builds from, from+step, ... up to and including to.
func regularGrid(from, to, step float64) ([]float64, error) {
	if !(step > 0) || !(to > from) {
		return nil, NewExitError(ExitCommandError, "either --grid or --from < --to with --step > 0 is required")
	}
	count := (to-from)/step + 1e-9
	if math.IsInf(count, 0) || count >= maxGridPoints {
		return nil, NewExitError(ExitCommandError, fmt.Sprintf("grid from %g to %g in steps of %g exceeds %d points", from, to, step, maxGridPoints))
	}
	n := int(count) + 1
	grid := make([]float64, 0, n+1)
	for i := 0; i < n; i++ {
		grid = append(grid, from+float64(i)*step)
	}
	if last := grid[len(grid)-1]; last < to {
		grid = append(grid, to)
	}
	return grid, nil
}

func newFluxTable(spectrum *colina.Spectrum, x, y []float64) FluxTable {
	points := make([]FluxPoint, len(x))
	for i := range x {
		points[i] = FluxPoint{Wavelength: x[i], Flux: y[i]}
	}
	return FluxTable{Units: spectrum.Units, XUnits: spectrum.XUnits, Points: points}
}

// parseFloats parses arguments as finite numbers.
func parseFloats(args []string) ([]float64, error) {
	out := make([]float64, len(args))
	for i, a := range args {
		v, err := strconv.ParseFloat(a, 64)
		if err != nil {
			return nil, WrapExitError(ExitCommandError, fmt.Sprintf("invalid number %q", a), err)
		}
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return nil, NewExitError(ExitCommandError, fmt.Sprintf("invalid number %q: must be finite", a))
		}
		out[i] = v
	}
	return out, nil
}

// checkFinite rejects NaN and infinite flag values.
func checkFinite(flag string, vs []float64) error {
	for _, v := range vs {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return NewExitError(ExitCommandError, fmt.Sprintf("invalid %s value %g: must be finite", flag, v))
		}
	}
	return nil
}
