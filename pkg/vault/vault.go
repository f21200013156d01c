package vault

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"

	"privacyops/vantage/pkg/pii"
)

// DefaultMaxArtifactSize caps artifacts at 50 MB.
const DefaultMaxArtifactSize = 50 * 1024 * 1024

// Config holds vault settings.
type Config struct {
	// Root is the directory artifacts and the index live under.
	Root string `yaml:"root"`

	// MaxArtifactSize is the raw-byte ceiling per artifact.
	MaxArtifactSize int64 `yaml:"max_artifact_size"`

	// KDFIterations is the PBKDF2 iteration count for key derivation.
	KDFIterations int `yaml:"kdf_iterations"`
}

// DefaultConfig returns a vault configuration with sane defaults.
func DefaultConfig() *Config {
	return &Config{
		Root:            "data/vault",
		MaxArtifactSize: DefaultMaxArtifactSize,
		KDFIterations:   MinKDFIterations,
	}
}

// Vault encrypts, stores, and retrieves evidence artifacts.
type Vault struct {
	config    *Config
	masterKey []byte
	index     *index
	logger    *slog.Logger
}

// New opens a vault rooted at config.Root. The master key comes from a
// secret provider and is never written to disk.
func New(config *Config, masterKey []byte, logger *slog.Logger) (*Vault, error) {
	if config == nil {
		config = DefaultConfig()
	}
	if logger == nil {
		logger = slog.Default()
	}
	if len(masterKey) == 0 {
		return nil, ErrKeyMissing
	}
	if config.MaxArtifactSize <= 0 {
		config.MaxArtifactSize = DefaultMaxArtifactSize
	}
	if config.KDFIterations < MinKDFIterations {
		return nil, fmt.Errorf("kdf iterations %d below minimum %d", config.KDFIterations, MinKDFIterations)
	}

	if err := os.MkdirAll(config.Root, 0700); err != nil {
		return nil, fmt.Errorf("failed to create vault root: %w", err)
	}
	ix, err := openIndex(filepath.Join(config.Root, "index.db"))
	if err != nil {
		return nil, err
	}

	return &Vault{
		config:    config,
		masterKey: masterKey,
		index:     ix,
		logger:    logger.With("component", "vault"),
	}, nil
}

// Store seals an artifact for a finding and returns its index record.
// The size ceiling is enforced on the raw bytes before redaction or
// any cryptographic work.
func (v *Vault) Store(ctx context.Context, findingID string, data []byte, filename string) (*Record, error) {
	if int64(len(data)) > v.config.MaxArtifactSize {
		return nil, NewTooLargeError(int64(len(data)), v.config.MaxArtifactSize)
	}
	if _, err := pii.ValidateID(findingID); err != nil {
		return nil, err
	}

	artifactID := uuid.New().String()
	path, err := artifactPath(v.config.Root, findingID, artifactID)
	if err != nil {
		return nil, err
	}

	// Redaction only applies to text payloads. Binary artifacts must
	// round-trip byte for byte.
	plaintext := data
	if utf8.Valid(data) {
		plaintext = []byte(pii.Sanitize(string(data)))
	}
	digest := sha256.Sum256(plaintext)

	salt, nonce, ciphertext, err := encrypt(v.masterKey, plaintext, v.config.KDFIterations)
	if err != nil {
		return nil, fmt.Errorf("failed to encrypt artifact: %w", err)
	}
	raw := encodeArtifact(artifactHeader{salt: salt, nonce: nonce, digest: digest[:]}, ciphertext)

	if err := writeAtomic(path, raw); err != nil {
		return nil, err
	}

	record := &Record{
		ArtifactID:  artifactID,
		FindingID:   findingID,
		Filename:    filepath.Base(filename),
		ContentHash: hex.EncodeToString(digest[:]),
		Size:        int64(len(plaintext)),
		Path:        path,
		CreatedUTC:  time.Now().UTC().Format(time.RFC3339Nano),
	}
	if err := v.index.insert(ctx, record); err != nil {
		os.Remove(path)
		return nil, err
	}

	v.logger.Info("Stored artifact",
		"artifact_id", artifactID,
		"finding_id", findingID,
		"size", record.Size)
	return record, nil
}

// Retrieve decrypts an artifact and verifies its content digest. The
// path guard runs again on the read side: the on-disk location is
// recomputed from the record's identifiers, and an index row whose
// stored path disagrees fails closed before any file I/O.
func (v *Vault) Retrieve(ctx context.Context, artifactID string) ([]byte, *Record, error) {
	record, err := v.index.get(ctx, artifactID)
	if err != nil {
		return nil, nil, err
	}

	path, err := artifactPath(v.config.Root, record.FindingID, record.ArtifactID)
	if err != nil {
		return nil, nil, err
	}
	if record.Path != path {
		return nil, nil, NewPathEscapeError(record.Path)
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read artifact file: %w", err)
	}
	header, ciphertext, err := decodeArtifact(raw)
	if err != nil {
		return nil, nil, NewDecryptError(artifactID, err)
	}

	plaintext, err := decrypt(v.masterKey, header.salt, header.nonce, ciphertext, v.config.KDFIterations)
	if err != nil {
		return nil, nil, NewDecryptError(artifactID, err)
	}

	digest := sha256.Sum256(plaintext)
	if hex.EncodeToString(digest[:]) != record.ContentHash {
		return nil, nil, NewDecryptError(artifactID, fmt.Errorf("content digest mismatch"))
	}
	return plaintext, record, nil
}

// List returns the index records for a finding's artifacts.
func (v *Vault) List(ctx context.Context, findingID string) ([]*Record, error) {
	return v.index.listForFinding(ctx, findingID)
}

// StoreArtifact adapts Store to the shape the finding tracker expects.
func (v *Vault) StoreArtifact(ctx context.Context, findingID string, data []byte, filename string) (string, string, error) {
	record, err := v.Store(ctx, findingID, data, filename)
	if err != nil {
		return "", "", err
	}
	return record.ArtifactID, record.ContentHash, nil
}

// Close releases the artifact index.
func (v *Vault) Close() error {
	return v.index.close()
}
