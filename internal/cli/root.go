package cli

import (
	"fmt"
	"io"
	"log/slog"
	"slices"

	"github.com/spf13/cobra"

	"github.com/roach88/colina/internal/colina"
	"github.com/roach88/colina/internal/tabulation"
)

// RootOptions holds global flags for all commands.
type RootOptions struct {
	Verbose       bool
	Format        string // "json" | "text"
	Extrapolation string // "flat" | "linear" | "strict"
}

// ValidFormats defines the allowed output formats.
var ValidFormats = []string{"text", "json"}

// NewRootCommand creates the root command for the colina CLI.
func NewRootCommand() *cobra.Command {
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:   "colina",
		Short: "Solar flux density at 1 AU",
		Long: `Query the Colina, Bohlin & Castelli (1996) solar flux density table.

Wavelengths are in microns; flux density is in W/m^2/Hz. Outside the
tabulated band (0.1195-2.5 um) values follow --extrapolation.`,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if !slices.Contains(ValidFormats, opts.Format) {
				return NewExitError(ExitCommandError, fmt.Sprintf("invalid format %q: must be one of %v", opts.Format, ValidFormats))
			}
			if _, err := tabulation.ParseExtrapolation(opts.Extrapolation); err != nil {
				return WrapExitError(ExitCommandError, "invalid --extrapolation", err)
			}
			configureLogging(opts, cmd.ErrOrStderr())
			return nil
		},
	}

	cmd.PersistentFlags().BoolVarP(&opts.Verbose, "verbose", "v", false, "verbose output")
	cmd.PersistentFlags().StringVar(&opts.Format, "format", "text", "output format (json|text)")
	cmd.PersistentFlags().StringVar(&opts.Extrapolation, "extrapolation", "flat", "behaviour outside the tabulated band (flat|linear|strict)")

	cmd.AddCommand(NewInfoCommand(opts))
	cmd.AddCommand(NewEvalCommand(opts))
	cmd.AddCommand(NewIntegrateCommand(opts))
	cmd.AddCommand(NewResampleCommand(opts))
	cmd.AddCommand(NewTestCommand(opts))

	return cmd
}

// configureLogging installs the default slog logger.
func configureLogging(opts *RootOptions, w io.Writer) {
	level := slog.LevelInfo
	if opts.Verbose {
		level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level})))
}

// loadSpectrum returns the shared flux table with the requested
// extrapolation mode applied.
func loadSpectrum(opts *RootOptions) (*colina.Spectrum, error) {
	mode, err := tabulation.ParseExtrapolation(opts.Extrapolation)
	if err != nil {
		return nil, WrapExitError(ExitCommandError, "invalid --extrapolation", err)
	}
	spectrum, err := colina.Default()
	if err != nil {
		return nil, WrapExitError(ExitFailure, "failed to load flux table", err)
	}
	return spectrum.WithExtrapolation(mode), nil
}

// newFormatter builds an OutputFormatter bound to the command's writers.
func newFormatter(opts *RootOptions, cmd *cobra.Command) *OutputFormatter {
	return &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   opts.Verbose,
	}
}
