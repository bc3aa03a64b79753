package main

import (
	"os"

	"github.com/aqua-quant/aqua/cmd/aqua/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
