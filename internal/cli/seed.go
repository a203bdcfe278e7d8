package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/roach88/calibra/internal/asset"
	"github.com/roach88/calibra/internal/fixture"
	"github.com/roach88/calibra/internal/store"
)

// SeedOptions holds flags for the seed command.
type SeedOptions struct {
	*RootOptions
	File   string
	Sample bool
}

// NewSeedCommand creates the seed command.
func NewSeedCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &SeedOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Import assets from a YAML fixture",
		Long: `Import assets from a YAML fixture, creating the store if needed.

Dates in the fixture may use any recognized format and are stored in
canonical YYYY-MM-DD form. Assets whose serial number already exists are
skipped, so seeding the same file twice is harmless.

Examples:
  calibra seed --file ./assets.yaml
  calibra seed --sample --as-of 2024-06-01`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSeed(opts, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.File, "file", "", "YAML fixture to import")
	cmd.Flags().BoolVar(&opts.Sample, "sample", false, "import the built-in sample assets")
	cmd.MarkFlagsMutuallyExclusive("file", "sample")
	cmd.MarkFlagsOneRequired("file", "sample")

	return cmd
}

func runSeed(opts *SeedOptions, cmd *cobra.Command) error {
	f := opts.formatter(cmd)
	today := opts.clock.Today()

	var (
		assets []asset.New
		err    error
	)
	if opts.Sample {
		assets, err = fixture.Sample(today)
	} else {
		assets, err = fixture.LoadFile(opts.File, today)
	}
	if err != nil {
		_ = f.Error(CodeInvalidInput, "Fixture rejected.", err.Error())
		return WrapExitError(ExitCommandError, "invalid fixture", err)
	}

	st, err := store.Open(opts.Database)
	if err != nil {
		_ = f.Error(CodeStoreUnavailable, fmt.Sprintf("Could not open %s.", opts.Database), err.Error())
		return WrapExitError(ExitCommandError, "failed to open database", err)
	}
	defer closeStore(opts.RootOptions, st)

	report, err := fixture.Seed(context.Background(), st, assets)
	if err != nil {
		return WrapExitError(ExitCommandError, "seed failed", err)
	}
	opts.logger.Info("seed complete", "inserted", len(report.Inserted), "skipped", len(report.Skipped))

	return f.Render(report, func(w io.Writer) {
		for _, serial := range report.Inserted {
			fmt.Fprintf(w, "Inserted %s\n", serial)
		}
		for _, serial := range report.Skipped {
			fmt.Fprintf(w, "Skipped %s (serial already present)\n", serial)
		}
		fmt.Fprintf(w, "Seed complete. Inserted: %d, skipped: %d\n", len(report.Inserted), len(report.Skipped))
	})
}
