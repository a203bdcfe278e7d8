package cli

import (
	"context"
	"io"

	"github.com/spf13/cobra"
)

// HistoryOptions holds flags for the history command.
type HistoryOptions struct {
	*RootOptions
	Limit int
}

// NewHistoryCommand creates the history command.
func NewHistoryCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &HistoryOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "history",
		Short: "List recent normalize and recalibrate runs",
		Long: `List journal entries written by normalize and recalibrate, newest
first. Dry runs are not journaled.

Example:
  calibra history --limit 5`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runHistory(opts, cmd)
		},
	}

	cmd.Flags().IntVar(&opts.Limit, "limit", 20, "maximum number of runs to show (0 for all)")

	return cmd
}

func runHistory(opts *HistoryOptions, cmd *cobra.Command) error {
	f := opts.formatter(cmd)

	st, err := openExisting(opts.RootOptions, f)
	if err != nil || st == nil {
		return err
	}
	defer closeStore(opts.RootOptions, st)

	runs, err := st.ListRuns(context.Background(), opts.Limit)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to list runs", err)
	}

	return f.Render(runs, func(w io.Writer) { renderHistory(w, runs) })
}
