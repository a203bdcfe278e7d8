// Command calibra tracks calibration compliance of field assets.
package main

import (
	"fmt"
	"os"

	"github.com/roach88/calibra/internal/cli"
)

func main() {
	err := cli.NewRootCommand().Execute()
	if err != nil && err.Error() != "" {
		fmt.Fprintln(os.Stderr, "Error:", err)
	}
	os.Exit(cli.GetExitCode(err))
}
