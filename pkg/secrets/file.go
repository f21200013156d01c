package secrets

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// FileProvider loads secrets from individual files in a directory,
// one secret per file. File permissions are checked so a
// world-readable key file is rejected rather than silently used.
type FileProvider struct {
	BasePath string
}

// NewFileProvider creates a file-based secret provider rooted at
// basePath.
func NewFileProvider(basePath string) (*FileProvider, error) {
	info, err := os.Stat(basePath)
	if err != nil {
		return nil, fmt.Errorf("failed to stat secrets directory: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("secrets path is not a directory: %s", basePath)
	}
	return &FileProvider{BasePath: basePath}, nil
}

// GetSecret reads the file named after the secret. Path separators in
// the name are rejected so a secret name cannot escape the directory.
func (p *FileProvider) GetSecret(ctx context.Context, name string) (string, error) {
	if strings.ContainsAny(name, `/\`) || strings.Contains(name, "..") {
		return "", fmt.Errorf("invalid secret name: %q", name)
	}

	path := filepath.Join(p.BasePath, name)
	info, err := os.Stat(path)
	if err != nil {
		return "", fmt.Errorf("secret not found: %s", name)
	}
	if perm := info.Mode().Perm(); perm&0077 != 0 {
		return "", fmt.Errorf("secret file %s has permissions %o, want 0600 or 0400", name, perm)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("failed to read secret %s: %w", name, err)
	}
	return strings.TrimSpace(string(data)), nil
}

// Provider returns "file".
func (p *FileProvider) Provider() string {
	return "file"
}
