package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"privacyops/vantage/pkg/cli"
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize the vantage workspace",
	Long: `Create the local directories and database vantage needs:
the findings database, the vault root, and the manifests directory.
Running init on an existing workspace is safe; nothing is overwritten.`,
	RunE: runInit,
}

func init() {
	rootCmd.AddCommand(initCmd)
}

func runInit(cmd *cobra.Command, args []string) error {
	a, err := loadApp()
	if err != nil {
		return cli.NewCommandError("init", err)
	}
	defer a.Close()

	dirs := []string{
		a.cfg.Vault.Root,
		filepath.Dir(a.cfg.Manifest.Path),
	}
	for _, dir := range dirs {
		if err := os.MkdirAll(dir, 0700); err != nil {
			return cli.NewCommandError("init", err)
		}
	}

	// Seed an empty manifest so the watcher has a file to follow.
	if _, err := os.Stat(a.cfg.Manifest.Path); os.IsNotExist(err) {
		if err := os.WriteFile(a.cfg.Manifest.Path, []byte("brokers: []\n"), 0644); err != nil {
			return cli.NewCommandError("init", err)
		}
	}

	fmt.Printf("Initialized workspace\n")
	fmt.Printf("  database: %s\n", a.cfg.Storage.Path)
	fmt.Printf("  vault:    %s\n", a.cfg.Vault.Root)
	fmt.Printf("  manifest: %s\n", a.cfg.Manifest.Path)
	return nil
}
