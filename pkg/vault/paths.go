package vault

import (
	"path/filepath"
	"strings"
)

// artifactPath resolves the on-disk location for an artifact and
// rejects any component that would land outside the vault root. The
// check is lexical and runs before any filesystem access.
func artifactPath(root, findingID, artifactID string) (string, error) {
	for _, component := range []string{findingID, artifactID} {
		if component == "" ||
			strings.Contains(component, "..") ||
			strings.ContainsAny(component, `/\`) ||
			filepath.IsAbs(component) {
			return "", NewPathEscapeError(component)
		}
	}

	path := filepath.Join(root, findingID, artifactID+".enc")
	rel, err := filepath.Rel(root, path)
	if err != nil || strings.HasPrefix(rel, "..") {
		return "", NewPathEscapeError(path)
	}
	return path, nil
}
