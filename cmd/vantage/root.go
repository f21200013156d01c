package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// errChainBroken signals a non-zero exit after the verdict has already
// been printed. Returning it instead of calling os.Exit lets deferred
// store closes run.
var errChainBroken = errors.New("audit chain broken")

var (
	// Global flags
	cfgFile string
	verbose bool
)

var rootCmd = &cobra.Command{
	Use:   "vantage",
	Short: "Vantage - audit trail for data-broker opt-out work",
	Long: `Vantage tracks manual data-broker opt-out cases with a tamper-evident
audit trail.

Every case transition is appended to a hash-chained event log, evidence
artifacts are sealed in an encrypted vault, and the whole chain can be
verified and exported for third-party review.`,
	Version:       Version,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		if !errors.Is(err, errChainBroken) {
			fmt.Fprintln(os.Stderr, err)
		}
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "config.yaml", "config file path")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
}
