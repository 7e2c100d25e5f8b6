// covertint - adaptive accent theming from cover art
//
// covertint derives a legible accent colour from artwork and publishes it
// as CSS custom properties.
//
// Copyright (c) 2025 John Mylchreest
// Licensed under the MIT License
package main

import (
	"os"

	"github.com/jmylchreest/covertint/internal/cli"
)

func main() {
	if err := cli.NewRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
