// Package main is the entry point for competitor-alerts.
package main

import (
	"os"

	"github.com/ecomwatch/competitor-alerts/cmd/competitor-alerts/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
