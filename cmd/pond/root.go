package main

import (
	"os"

	"github.com/spf13/cobra"
)

var Command = &cobra.Command{
	Use:   "pond",
	Short: "run time-series pipelines over csv telemetry samples",
}

func main() {
	if err := Command.Execute(); err != nil {
		os.Exit(1)
	}
}
