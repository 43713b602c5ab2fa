package main

import (
	"fmt"
	"os"

	"qevolve/internal/cli"
)

func main() {
	if err := cli.NewRootCommand().Execute(); err != nil {
		if !cli.IsReported(err) {
			fmt.Fprintf(os.Stderr, "qevolve: %v\n", err)
		}
		os.Exit(cli.GetExitCode(err))
	}
}
