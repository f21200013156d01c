package vault

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"fmt"

	"golang.org/x/crypto/pbkdf2"
)

const (
	saltSize  = 16
	nonceSize = 12
	keySize   = 32

	// MinKDFIterations is the floor for PBKDF2 iteration counts.
	// Lower values are rejected at configuration time.
	MinKDFIterations = 600000
)

// deriveKey stretches the vault master key into a per-artifact AES key
// using PBKDF2-HMAC-SHA256 with a random per-file salt.
func deriveKey(masterKey, salt []byte, iterations int) []byte {
	return pbkdf2.Key(masterKey, salt, iterations, keySize, sha256.New)
}

// encrypt seals plaintext under a key derived from masterKey. It
// returns the fresh salt and nonce alongside the ciphertext so the
// caller can persist them in the artifact header.
func encrypt(masterKey, plaintext []byte, iterations int) (salt, nonce, ciphertext []byte, err error) {
	salt = make([]byte, saltSize)
	if _, err = rand.Read(salt); err != nil {
		return nil, nil, nil, fmt.Errorf("failed to generate salt: %w", err)
	}
	nonce = make([]byte, nonceSize)
	if _, err = rand.Read(nonce); err != nil {
		return nil, nil, nil, fmt.Errorf("failed to generate nonce: %w", err)
	}

	gcm, err := newGCM(deriveKey(masterKey, salt, iterations))
	if err != nil {
		return nil, nil, nil, err
	}
	return salt, nonce, gcm.Seal(nil, nonce, plaintext, nil), nil
}

// decrypt opens ciphertext sealed by encrypt. An authentication
// failure surfaces as the cipher package's error and is wrapped by the
// caller.
func decrypt(masterKey, salt, nonce, ciphertext []byte, iterations int) ([]byte, error) {
	gcm, err := newGCM(deriveKey(masterKey, salt, iterations))
	if err != nil {
		return nil, err
	}
	return gcm.Open(nil, nonce, ciphertext, nil)
}

func newGCM(key []byte) (cipher.AEAD, error) {
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("failed to create cipher: %w", err)
	}
	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return nil, fmt.Errorf("failed to create GCM: %w", err)
	}
	return gcm, nil
}
