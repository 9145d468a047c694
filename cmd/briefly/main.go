package main

import (
	"fmt"
	"os"

	"github.com/custodia-labs/briefly-cli/internal/adapters/driving/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "briefly: %v\n", err)
		os.Exit(1)
	}
}
