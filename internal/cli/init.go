package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/roach88/calibra/internal/store"
)

// InitResult is the JSON payload of the init command.
type InitResult struct {
	Database string `json:"database"`
	Assets   int    `json:"assets"`
}

// NewInitCommand creates the init command.
func NewInitCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Create the asset store schema",
		Long: `Create the SQLite asset store, or upgrade an existing one, so the
assets table and its serial number uniqueness constraint exist.

Safe to run repeatedly.

Example:
  calibra init --db ./assets.db`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runInit(rootOpts, cmd)
		},
	}
}

func runInit(opts *RootOptions, cmd *cobra.Command) error {
	f := opts.formatter(cmd)

	st, err := store.Open(opts.Database)
	if err != nil {
		_ = f.Error(CodeStoreUnavailable, fmt.Sprintf("Could not initialize %s.", opts.Database), err.Error())
		return WrapExitError(ExitCommandError, "failed to open database", err)
	}
	defer closeStore(opts, st)

	n, err := st.CountAssets(context.Background())
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to count assets", err)
	}
	opts.logger.Info("schema ready", "path", opts.Database, "assets", n)

	result := InitResult{Database: opts.Database, Assets: n}
	return f.Render(result, func(w io.Writer) {
		fmt.Fprintf(w, "Asset store ready at %s (%d assets).\n", result.Database, result.Assets)
	})
}
