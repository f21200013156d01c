package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"privacyops/vantage/pkg/cli"
	"privacyops/vantage/pkg/finding"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show workspace status",
	Long: `Summarize the workspace: findings per state, chain length, and the
result of a fresh chain verification.`,
	RunE: runStatus,
}

func init() {
	rootCmd.AddCommand(statusCmd)
}

func runStatus(cmd *cobra.Command, args []string) error {
	a, err := loadApp()
	if err != nil {
		return cli.NewCommandError("status", err)
	}
	defer a.Close()
	ctx := cmd.Context()

	findings, err := a.findings.List(ctx)
	if err != nil {
		return cli.NewCommandError("status", err)
	}
	byState := make(map[finding.BrokerState]int)
	for _, f := range findings {
		byState[f.State]++
	}

	verdict, err := a.chain.Verify(ctx)
	if err != nil {
		return cli.NewCommandError("status", err)
	}

	fmt.Printf("Findings: %d\n", len(findings))
	for _, state := range finding.States() {
		if n := byState[state]; n > 0 {
			fmt.Printf("  %-11s %d\n", state, n)
		}
	}
	fmt.Printf("Audit chain: %d events\n", verdict.Checked)
	if verdict.Valid {
		fmt.Println("Chain integrity: OK")
		return nil
	}

	fmt.Printf("Chain integrity: BROKEN at seq %d (%s)\n", verdict.BrokenAt, verdict.Reason)
	return errChainBroken
}
