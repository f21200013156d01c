package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"privacyops/vantage/pkg/cli"
	"privacyops/vantage/pkg/finding"
)

var findingFlags struct {
	broker   string
	url      string
	note     string
	evidence string
	format   string
}

var findingCmd = &cobra.Command{
	Use:   "finding",
	Short: "Manage broker findings",
	Long: `Manage data-broker findings and their removal lifecycle.

A finding starts as "discovered" and moves through confirmed,
submitted, and pending to verified. A broker that re-lists the data
after verification is marked resurfaced, which is terminal; resume
work by opening a new finding.`,
}

var findingAddCmd = &cobra.Command{
	Use:   "add <finding-id>",
	Short: "Register a new finding",
	Args:  cobra.ExactArgs(1),
	RunE:  runFindingAdd,
}

var findingListCmd = &cobra.Command{
	Use:   "list",
	Short: "List findings",
	Args:  cobra.NoArgs,
	RunE:  runFindingList,
}

var findingShowCmd = &cobra.Command{
	Use:   "show <finding-id>",
	Short: "Show a finding and its event history",
	Args:  cobra.ExactArgs(1),
	RunE:  runFindingShow,
}

var findingTransitionCmd = &cobra.Command{
	Use:   "transition <finding-id> <to-state>",
	Short: "Move a finding to a new state",
	Long: `Move a finding to a new lifecycle state, appending one audit event.

The state write and the audit event share a transaction: either both
happen or neither does. An --evidence file is sealed in the vault first
and referenced from the event note.`,
	Args: cobra.ExactArgs(2),
	RunE: runFindingTransition,
}

func init() {
	findingAddCmd.Flags().StringVar(&findingFlags.broker, "broker", "", "broker name (required)")
	findingAddCmd.Flags().StringVar(&findingFlags.url, "url", "", "profile or listing URL")
	findingAddCmd.MarkFlagRequired("broker")

	findingListCmd.Flags().StringVar(&findingFlags.format, "format", "text", "output format (text, json, csv)")

	findingTransitionCmd.Flags().StringVar(&findingFlags.note, "note", "", "free-text note (PII is redacted)")
	findingTransitionCmd.Flags().StringVar(&findingFlags.evidence, "evidence", "", "evidence file to seal in the vault")

	findingCmd.AddCommand(findingAddCmd, findingListCmd, findingShowCmd, findingTransitionCmd)
	rootCmd.AddCommand(findingCmd)
}

func runFindingAdd(cmd *cobra.Command, args []string) error {
	a, err := loadApp()
	if err != nil {
		return cli.NewCommandError("finding add", err)
	}
	defer a.Close()

	f, err := a.findings.Create(cmd.Context(), args[0], findingFlags.broker, findingFlags.url)
	if err != nil {
		return cli.NewCommandError("finding add", err)
	}
	fmt.Printf("Added finding %s (%s) in state %s\n", f.ID, f.Broker, f.State)
	return nil
}

func runFindingList(cmd *cobra.Command, args []string) error {
	format, err := cli.ParseFormat(findingFlags.format)
	if err != nil {
		return err
	}

	a, err := loadApp()
	if err != nil {
		return cli.NewCommandError("finding list", err)
	}
	defer a.Close()

	findings, err := a.findings.List(cmd.Context())
	if err != nil {
		return cli.NewCommandError("finding list", err)
	}

	if format == cli.FormatJSON {
		return cli.WriteJSON(os.Stdout, findings)
	}

	table := &cli.Table{Header: []string{"FINDING", "BROKER", "STATE", "UPDATED"}}
	for _, f := range findings {
		table.Rows = append(table.Rows, []string{f.ID, f.Broker, string(f.State), f.UpdatedAt})
	}
	if format == cli.FormatCSV {
		return table.WriteCSV(os.Stdout)
	}
	return table.WriteText(os.Stdout)
}

func runFindingShow(cmd *cobra.Command, args []string) error {
	a, err := loadApp()
	if err != nil {
		return cli.NewCommandError("finding show", err)
	}
	defer a.Close()
	ctx := cmd.Context()

	f, err := a.findings.Get(ctx, args[0])
	if err != nil {
		return cli.NewCommandError("finding show", err)
	}
	events, err := a.events.EventsForFinding(ctx, f.ID)
	if err != nil {
		return cli.NewCommandError("finding show", err)
	}

	fmt.Printf("Finding: %s\n", f.ID)
	fmt.Printf("Broker:  %s\n", f.Broker)
	if f.URL != "" {
		fmt.Printf("URL:     %s\n", f.URL)
	}
	fmt.Printf("State:   %s\n", f.State)
	fmt.Printf("Created: %s\n", f.CreatedAt)
	fmt.Printf("Events:  %d\n", len(events))
	for _, e := range events {
		fmt.Printf("  [%d] %s  %s -> %s", e.Sequence, e.Timestamp, e.FromState, e.ToState)
		if e.Note != "" {
			fmt.Printf("  (%s)", e.Note)
		}
		fmt.Println()
	}
	return nil
}

func runFindingTransition(cmd *cobra.Command, args []string) error {
	a, err := loadApp()
	if err != nil {
		return cli.NewCommandError("finding transition", err)
	}
	defer a.Close()
	ctx := cmd.Context()

	req := finding.TransitionRequest{
		FindingID: args[0],
		To:        finding.BrokerState(args[1]),
		Note:      findingFlags.note,
	}

	var v finding.EvidenceVault
	if findingFlags.evidence != "" {
		data, err := os.ReadFile(findingFlags.evidence)
		if err != nil {
			return cli.NewCommandError("finding transition", err)
		}
		req.Evidence = data
		req.EvidenceFilename = findingFlags.evidence

		vlt, err := a.openVault(ctx)
		if err != nil {
			return cli.NewCommandError("finding transition", err)
		}
		defer vlt.Close()
		v = vlt
	}

	tracker := finding.NewTracker(a.findings, a.events, v, a.logger)
	event, err := tracker.Transition(ctx, req)
	if err != nil {
		return cli.NewCommandError("finding transition", err)
	}

	fmt.Printf("Transitioned %s: %s -> %s (event seq %d)\n",
		args[0], event.FromState, event.ToState, event.Sequence)
	return nil
}
