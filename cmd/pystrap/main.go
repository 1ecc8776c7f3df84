// pystrap - Python project scaffolding

package main

import (
	"os"

	"github.com/pystrap-dev/pystrap/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(cli.ExitCode(err))
	}
}
