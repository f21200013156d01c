package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"privacyops/vantage/pkg/cli"
	"privacyops/vantage/pkg/manifest"
)

var manifestFlags struct {
	format string
}

var manifestCmd = &cobra.Command{
	Use:   "manifest",
	Short: "Work with the broker manifest",
	Long: `Validate the broker manifest, plan work against current findings,
or watch it for edits.`,
}

var manifestValidateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Parse and validate the manifest",
	Args:  cobra.NoArgs,
	RunE:  runManifestValidate,
}

var manifestPlanCmd = &cobra.Command{
	Use:   "plan",
	Short: "List manifest brokers with no finding yet",
	Long: `Compare the manifest against the findings database and list the
brokers that have no finding, i.e. the opt-out work still to start.`,
	Args: cobra.NoArgs,
	RunE: runManifestPlan,
}

var manifestWatchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Watch the manifest and revalidate on change",
	Args:  cobra.NoArgs,
	RunE:  runManifestWatch,
}

func init() {
	manifestPlanCmd.Flags().StringVar(&manifestFlags.format, "format", "text", "output format (text, json, csv)")

	manifestCmd.AddCommand(manifestValidateCmd, manifestPlanCmd, manifestWatchCmd)
	rootCmd.AddCommand(manifestCmd)
}

func runManifestValidate(cmd *cobra.Command, args []string) error {
	a, err := loadApp()
	if err != nil {
		return cli.NewCommandError("manifest validate", err)
	}
	defer a.Close()

	brokers, err := manifest.Load(a.cfg.Manifest.Path, a.cfg.Manifest.MaxSize)
	if err != nil {
		return cli.NewCommandError("manifest validate", err)
	}

	fmt.Printf("Manifest OK: %d brokers\n", len(brokers))
	return nil
}

func runManifestPlan(cmd *cobra.Command, args []string) error {
	format, err := cli.ParseFormat(manifestFlags.format)
	if err != nil {
		return err
	}

	a, err := loadApp()
	if err != nil {
		return cli.NewCommandError("manifest plan", err)
	}
	defer a.Close()

	brokers, err := manifest.Load(a.cfg.Manifest.Path, a.cfg.Manifest.MaxSize)
	if err != nil {
		return cli.NewCommandError("manifest plan", err)
	}
	findings, err := a.findings.List(cmd.Context())
	if err != nil {
		return cli.NewCommandError("manifest plan", err)
	}

	covered := make(map[string]bool, len(findings))
	for _, f := range findings {
		covered[f.Broker] = true
	}

	var pending []manifest.Broker
	for _, b := range brokers {
		if !covered[b.Name] {
			pending = append(pending, b)
		}
	}

	if format == cli.FormatJSON {
		return cli.WriteJSON(os.Stdout, pending)
	}

	table := &cli.Table{Header: []string{"BROKER", "URL", "STATUS"}}
	for _, b := range pending {
		table.Rows = append(table.Rows, []string{b.Name, b.URL, b.Status})
	}
	if format == cli.FormatCSV {
		return table.WriteCSV(os.Stdout)
	}
	if err := table.WriteText(os.Stdout); err != nil {
		return err
	}
	fmt.Printf("\n%d of %d brokers not yet started\n", len(pending), len(brokers))
	return nil
}

func runManifestWatch(cmd *cobra.Command, args []string) error {
	a, err := loadApp()
	if err != nil {
		return cli.NewCommandError("manifest watch", err)
	}
	defer a.Close()

	w, err := manifest.NewWatcher(
		a.cfg.Manifest.Path,
		a.cfg.Manifest.MaxSize,
		a.cfg.Manifest.DebounceInterval,
		a.logger,
	)
	if err != nil {
		return cli.NewCommandError("manifest watch", err)
	}
	defer w.Close()

	ctx := cli.SetupSignalHandler()
	err = w.Watch(ctx, func(brokers []manifest.Broker) {
		fmt.Printf("Manifest reloaded: %d brokers\n", len(brokers))
	})
	if err != nil {
		return cli.NewCommandError("manifest watch", err)
	}
	return nil
}
