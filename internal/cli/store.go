package cli

import (
	"errors"
	"fmt"

	"github.com/roach88/calibra/internal/store"
)

// openExisting opens the configured store for a command that needs existing
// data. A missing store is reported through f and yields (nil, nil): the
// command ends cleanly without creating anything.
func openExisting(opts *RootOptions, f *OutputFormatter) (*store.Store, error) {
	f.VerboseLog("Opening %s", opts.Database)
	st, err := store.OpenExisting(opts.Database)
	if errors.Is(err, store.ErrMissingStore) {
		opts.logger.Warn("asset store missing", "path", opts.Database)
		if ferr := f.Error(CodeMissingStore, "No assets table found in database.", err.Error()); ferr != nil {
			return nil, ferr
		}
		return nil, nil
	}
	if err != nil {
		_ = f.Error(CodeStoreUnavailable, fmt.Sprintf("Could not open %s.", opts.Database), err.Error())
		return nil, WrapExitError(ExitCommandError, "failed to open database", err)
	}
	return st, nil
}

// closeStore closes st and logs, rather than returns, a close failure.
func closeStore(opts *RootOptions, st *store.Store) {
	if err := st.Close(); err != nil {
		opts.logger.Error("error closing database", "error", err)
	}
}
