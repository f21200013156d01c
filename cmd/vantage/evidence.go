package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"privacyops/vantage/pkg/cli"
)

var evidenceFlags struct {
	finding string
	output  string
	format  string
}

var evidenceCmd = &cobra.Command{
	Use:   "evidence",
	Short: "Manage vault evidence artifacts",
	Long: `Seal and retrieve evidence artifacts.

Artifacts are redacted, hashed, and encrypted before they touch disk.
The vault master key comes from the VANTAGE_SECRET_VAULT_KEY
environment variable (or the configured secret provider) and is never
stored with the artifacts.`,
}

var evidenceStoreCmd = &cobra.Command{
	Use:   "store <file>",
	Short: "Seal an evidence file into the vault",
	Args:  cobra.ExactArgs(1),
	RunE:  runEvidenceStore,
}

var evidenceRetrieveCmd = &cobra.Command{
	Use:   "retrieve <artifact-id>",
	Short: "Decrypt an artifact and verify its digest",
	Args:  cobra.ExactArgs(1),
	RunE:  runEvidenceRetrieve,
}

var evidenceListCmd = &cobra.Command{
	Use:   "list",
	Short: "List artifacts for a finding",
	Args:  cobra.NoArgs,
	RunE:  runEvidenceList,
}

func init() {
	evidenceStoreCmd.Flags().StringVar(&evidenceFlags.finding, "finding", "", "finding the artifact belongs to (required)")
	evidenceStoreCmd.MarkFlagRequired("finding")

	evidenceRetrieveCmd.Flags().StringVar(&evidenceFlags.output, "output", "", "write plaintext to file instead of stdout")

	evidenceListCmd.Flags().StringVar(&evidenceFlags.finding, "finding", "", "finding to list artifacts for (required)")
	evidenceListCmd.Flags().StringVar(&evidenceFlags.format, "format", "text", "output format (text, json, csv)")
	evidenceListCmd.MarkFlagRequired("finding")

	evidenceCmd.AddCommand(evidenceStoreCmd, evidenceRetrieveCmd, evidenceListCmd)
	rootCmd.AddCommand(evidenceCmd)
}

func runEvidenceStore(cmd *cobra.Command, args []string) error {
	a, err := loadApp()
	if err != nil {
		return cli.NewCommandError("evidence store", err)
	}
	defer a.Close()
	ctx := cmd.Context()

	data, err := os.ReadFile(args[0])
	if err != nil {
		return cli.NewCommandError("evidence store", err)
	}

	v, err := a.openVault(ctx)
	if err != nil {
		return cli.NewCommandError("evidence store", err)
	}
	defer v.Close()

	record, err := v.Store(ctx, evidenceFlags.finding, data, filepath.Base(args[0]))
	if err != nil {
		return cli.NewCommandError("evidence store", err)
	}

	fmt.Printf("Sealed artifact %s\n", record.ArtifactID)
	fmt.Printf("  finding: %s\n", record.FindingID)
	fmt.Printf("  sha256:  %s\n", record.ContentHash)
	fmt.Printf("  size:    %d bytes\n", record.Size)
	return nil
}

func runEvidenceRetrieve(cmd *cobra.Command, args []string) error {
	a, err := loadApp()
	if err != nil {
		return cli.NewCommandError("evidence retrieve", err)
	}
	defer a.Close()
	ctx := cmd.Context()

	v, err := a.openVault(ctx)
	if err != nil {
		return cli.NewCommandError("evidence retrieve", err)
	}
	defer v.Close()

	plaintext, record, err := v.Retrieve(ctx, args[0])
	if err != nil {
		return cli.NewCommandError("evidence retrieve", err)
	}

	if evidenceFlags.output != "" {
		if err := os.WriteFile(evidenceFlags.output, plaintext, 0600); err != nil {
			return cli.NewCommandError("evidence retrieve", err)
		}
		fmt.Printf("Wrote %s (%d bytes, sha256 %s)\n", evidenceFlags.output, len(plaintext), record.ContentHash)
		return nil
	}

	_, err = os.Stdout.Write(plaintext)
	return err
}

func runEvidenceList(cmd *cobra.Command, args []string) error {
	format, err := cli.ParseFormat(evidenceFlags.format)
	if err != nil {
		return err
	}

	a, err := loadApp()
	if err != nil {
		return cli.NewCommandError("evidence list", err)
	}
	defer a.Close()
	ctx := cmd.Context()

	v, err := a.openVault(ctx)
	if err != nil {
		return cli.NewCommandError("evidence list", err)
	}
	defer v.Close()

	records, err := v.List(ctx, evidenceFlags.finding)
	if err != nil {
		return cli.NewCommandError("evidence list", err)
	}

	if format == cli.FormatJSON {
		return cli.WriteJSON(os.Stdout, records)
	}

	table := &cli.Table{Header: []string{"ARTIFACT", "FILENAME", "SHA256", "SIZE", "CREATED"}}
	for _, r := range records {
		table.Rows = append(table.Rows, []string{
			r.ArtifactID, r.Filename, r.ContentHash, fmt.Sprintf("%d", r.Size), r.CreatedUTC,
		})
	}
	if format == cli.FormatCSV {
		return table.WriteCSV(os.Stdout)
	}
	return table.WriteText(os.Stdout)
}
