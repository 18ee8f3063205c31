package main

import (
	"os"

	"github.com/quayline/stevedore/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
