package cli

import (
	"fmt"
	"log/slog"
	"slices"

	"github.com/spf13/cobra"

	"github.com/roach88/calibra/internal/audit"
	"github.com/roach88/calibra/internal/caldate"
	"github.com/roach88/calibra/internal/clock"
	"github.com/roach88/calibra/internal/config"
)

// RootOptions holds global flags for all commands.
type RootOptions struct {
	Verbose       bool
	Format        string // "json" | "text"
	Database      string
	ThresholdDays int
	AsOf          string // YYYY-MM-DD; empty means today
	PolicyFile    string
	EnvFile       string

	// Resolved in PersistentPreRunE.
	clock  clock.Clock
	logger *slog.Logger
}

// ValidFormats defines the allowed output formats.
var ValidFormats = []string{"text", "json"}

// NewRootCommand creates the root command for the calibra CLI.
func NewRootCommand() *cobra.Command {
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:   "calibra",
		Short: "calibra - asset calibration compliance",
		Long: `Track calibration compliance of field assets in a SQLite store.

Typical scheduled pipeline:
  calibra init
  calibra normalize
  calibra audit || calibra recalibrate

Settings come from CALIBRA_* environment variables, an optional .env file,
an optional CUE policy file, and flags (highest precedence).`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return opts.resolve(cmd)
		},
	}

	// Bad flags are command errors; exit 1 is reserved for overdue audits.
	cmd.SetFlagErrorFunc(func(c *cobra.Command, err error) error {
		return WrapExitError(ExitCommandError, "invalid flags for "+c.CommandPath(), err)
	})

	// Global flags
	cmd.PersistentFlags().BoolVarP(&opts.Verbose, "verbose", "v", false, "verbose output")
	cmd.PersistentFlags().StringVar(&opts.Format, "format", "text", "output format (json|text)")
	cmd.PersistentFlags().StringVar(&opts.Database, "db", "", "path to SQLite database (default $CALIBRA_DB or assets.db)")
	cmd.PersistentFlags().IntVar(&opts.ThresholdDays, "threshold-days", audit.DefaultThresholdDays, "maximum calibration age in days")
	cmd.PersistentFlags().StringVar(&opts.AsOf, "as-of", "", "evaluate as of this date (YYYY-MM-DD) instead of today")
	cmd.PersistentFlags().StringVar(&opts.PolicyFile, "policy", "", "CUE policy file (overrides $CALIBRA_POLICY)")
	cmd.PersistentFlags().StringVar(&opts.EnvFile, "env-file", ".env", "dotenv file to load if present")

	// Add subcommands
	cmd.AddCommand(NewInitCommand(opts))
	cmd.AddCommand(NewSeedCommand(opts))
	cmd.AddCommand(NewNormalizeCommand(opts))
	cmd.AddCommand(NewAuditCommand(opts))
	cmd.AddCommand(NewRecalibrateCommand(opts))
	cmd.AddCommand(NewInspectCommand(opts))
	cmd.AddCommand(NewHistoryCommand(opts))

	return cmd
}

// resolve merges configuration sources into opts and sets up logging and
// the clock. Flags win over the policy file, which wins over the environment.
func (o *RootOptions) resolve(cmd *cobra.Command) error {
	if !isValidFormat(o.Format) {
		return NewExitError(ExitCommandError, fmt.Sprintf("invalid format %q: must be one of %v", o.Format, ValidFormats))
	}

	cfg, err := config.Load(o.EnvFile)
	if err != nil {
		return WrapExitError(ExitCommandError, "invalid configuration", err)
	}

	if o.PolicyFile != "" {
		p, err := config.LoadPolicy(o.PolicyFile)
		if err != nil {
			return WrapExitError(ExitCommandError, "invalid policy", err)
		}
		cfg.ThresholdDays = p.ThresholdDays
	}

	flags := cmd.Flags()
	if !flags.Changed("db") {
		o.Database = cfg.Database
	}
	if !flags.Changed("threshold-days") {
		o.ThresholdDays = cfg.ThresholdDays
	}
	if err := o.policy().Validate(); err != nil {
		return WrapExitError(ExitCommandError, "invalid --threshold-days", err)
	}

	if o.AsOf != "" {
		d, err := caldate.ParseCanonical(o.AsOf)
		if err != nil {
			return WrapExitError(ExitCommandError, "invalid --as-of", err)
		}
		o.clock = clock.NewFixed(d)
	} else {
		o.clock = clock.System{}
	}

	level := slog.LevelInfo
	if err := level.UnmarshalText([]byte(cfg.LogLevel)); err != nil {
		return WrapExitError(ExitCommandError, "invalid log level", err)
	}
	if o.Verbose {
		level = slog.LevelDebug
	}
	o.logger = slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{
		Level: level,
	}))

	return nil
}

func (o *RootOptions) policy() audit.Policy {
	return audit.Policy{ThresholdDays: o.ThresholdDays}
}

func (o *RootOptions) formatter(cmd *cobra.Command) *OutputFormatter {
	return &OutputFormatter{
		Format:    o.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(), // Verbose logs go to stderr to avoid corrupting JSON
		Verbose:   o.Verbose,
	}
}

// isValidFormat checks if the format is one of the allowed values.
func isValidFormat(format string) bool {
	return slices.Contains(ValidFormats, format)
}
