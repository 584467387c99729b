package main

import (
	"os"

	"github.com/agrofel/sales-agent/cmd/agent/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		os.Exit(1)
	}
}
