package main

import (
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/spf13/cobra"

	"privacyops/vantage/pkg/audit/monitor"
	"privacyops/vantage/pkg/cli"
	"privacyops/vantage/pkg/telemetry/metrics"
)

var auditFlags struct {
	format   string
	output   string
	schedule string
	listen   string
}

var auditCmd = &cobra.Command{
	Use:   "audit",
	Short: "Verify, export, and monitor the audit chain",
}

var auditVerifyCmd = &cobra.Command{
	Use:   "verify",
	Short: "Walk the full chain and report integrity",
	Long: `Recompute every entry hash and check chain linkage. Exits non-zero
when the chain is broken, printing the first broken sequence and why.`,
	Args: cobra.NoArgs,
	RunE: runAuditVerify,
}

var auditExportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export the chain with a verification verdict",
	Long: `Export every event plus the verdict of a fresh verification. Export
never refuses a broken chain; the verdict travels with the data so a
reviewer sees exactly what the operator saw.

When a signing key is configured the JSON envelope carries an
HMAC-SHA256 signature over the canonical entry list.`,
	Args: cobra.NoArgs,
	RunE: runAuditExport,
}

var auditMonitorCmd = &cobra.Command{
	Use:   "monitor",
	Short: "Re-verify the chain on a schedule",
	Long: `Run scheduled chain verification and serve Prometheus metrics.
Blocks until interrupted.`,
	Args: cobra.NoArgs,
	RunE: runAuditMonitor,
}

func init() {
	auditExportCmd.Flags().StringVar(&auditFlags.format, "format", "json", "export format (json, csv)")
	auditExportCmd.Flags().StringVar(&auditFlags.output, "output", "", "write export to file instead of stdout")

	auditMonitorCmd.Flags().StringVar(&auditFlags.schedule, "schedule", "", "cron schedule (overrides config)")
	auditMonitorCmd.Flags().StringVar(&auditFlags.listen, "listen", "", "metrics listen address (overrides config)")

	auditCmd.AddCommand(auditVerifyCmd, auditExportCmd, auditMonitorCmd)
	rootCmd.AddCommand(auditCmd)
}

func runAuditVerify(cmd *cobra.Command, args []string) error {
	a, err := loadApp()
	if err != nil {
		return cli.NewCommandError("audit verify", err)
	}
	defer a.Close()

	verdict, err := a.chain.Verify(cmd.Context())
	if err != nil {
		return cli.NewCommandError("audit verify", err)
	}

	if verdict.Valid {
		fmt.Printf("Chain OK: %d events verified\n", verdict.Checked)
		return nil
	}

	fmt.Printf("Chain BROKEN at seq %d: %s\n", verdict.BrokenAt, verdict.Reason)
	if verdict.Detail != "" {
		fmt.Printf("  %s\n", verdict.Detail)
	}
	return errChainBroken
}

func runAuditExport(cmd *cobra.Command, args []string) error {
	a, err := loadApp()
	if err != nil {
		return cli.NewCommandError("audit export", err)
	}
	defer a.Close()
	ctx := cmd.Context()

	key, err := a.signingKey(ctx)
	if err != nil {
		return cli.NewCommandError("audit export", err)
	}

	envelope, err := a.chain.Export(ctx, key)
	if err != nil {
		return cli.NewCommandError("audit export", err)
	}

	out := os.Stdout
	if auditFlags.output != "" {
		f, err := os.Create(auditFlags.output)
		if err != nil {
			return cli.NewCommandError("audit export", err)
		}
		defer f.Close()
		out = f
	}

	switch auditFlags.format {
	case "json":
		err = envelope.WriteJSON(out)
	case "csv":
		err = envelope.WriteCSV(out)
	default:
		return fmt.Errorf("unsupported export format: %q", auditFlags.format)
	}
	if err != nil {
		return cli.NewCommandError("audit export", err)
	}

	if !envelope.Verdict.Valid {
		fmt.Fprintf(os.Stderr, "warning: exported chain is broken at seq %d (%s)\n",
			envelope.Verdict.BrokenAt, envelope.Verdict.Reason)
	}
	return nil
}

func runAuditMonitor(cmd *cobra.Command, args []string) error {
	a, err := loadApp()
	if err != nil {
		return cli.NewCommandError("audit monitor", err)
	}
	defer a.Close()

	schedule := a.cfg.Audit.MonitorSchedule
	if auditFlags.schedule != "" {
		schedule = auditFlags.schedule
	}
	listen := a.cfg.Audit.MetricsAddress
	if auditFlags.listen != "" {
		listen = auditFlags.listen
	}

	collector := metrics.NewCollector(nil)
	sched := monitor.NewScheduler(a.chain, schedule, collector, a.logger)

	ctx := cli.SetupSignalHandler()
	if err := sched.Start(ctx); err != nil {
		return cli.NewCommandError("audit monitor", err)
	}

	server := &http.Server{
		Addr:              listen,
		Handler:           collector.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		<-ctx.Done()
		server.Close()
	}()

	a.logger.Info("Metrics endpoint listening", "address", listen)
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return cli.NewCommandError("audit monitor", err)
	}
	sched.Stop()
	return nil
}
