// Command colina queries the Colina, Bohlin & Castelli (1996) solar flux table.
package main

import (
	"fmt"
	"os"

	"github.com/roach88/colina/internal/cli"
)

func main() {
	if err := cli.NewRootCommand().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(cli.GetExitCode(err))
	}
}
