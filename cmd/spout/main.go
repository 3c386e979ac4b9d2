package main

import (
	"os"

	"github.com/spout-app/spout/internal/cli"
)

func main() {
	if err := cli.NewRootCommand().Execute(); err != nil {
		// Commands render their own error output; only the code matters here.
		os.Exit(cli.GetExitCode(err))
	}
}
