// Command aoldaqctl drives an in-process acquisition engine against the
// Random device, for local smoke-testing of its end-to-end scenarios
// without a C host.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "aoldaqctl",
	Short: "Exercise an acquisition engine instance from the command line",
}

func init() {
	rootCmd.AddCommand(basicDrainCmd)
	rootCmd.AddCommand(flushCmd)
	rootCmd.AddCommand(pauseCmd)
	rootCmd.AddCommand(overflowCmd)
	rootCmd.AddCommand(blockingReadCmd)
	rootCmd.AddCommand(shutdownCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Printf("ERROR: %v\n", err)
		os.Exit(1)
	}
}
