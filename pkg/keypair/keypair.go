// Package keypair loads and validates ed25519 keys in the formats used by the
// Solana tool suite: base58 public keys and JSON byte array keypair files.
package keypair

import (
	"bytes"
	"crypto/ed25519"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"

	"filippo.io/edwards25519"
	"github.com/mr-tron/base58"
	"github.com/pkg/errors"
)

var (
	ErrInvalidPublicKey = errors.New("invalid public key")
	ErrInvalidKeypair   = errors.New("invalid keypair")
)

// ParsePublicKey decodes a base58 public key.
func ParsePublicKey(value string) (ed25519.PublicKey, error) {
	decoded, err := base58.Decode(strings.TrimSpace(value))
	if err != nil {
		return nil, errors.Wrapf(ErrInvalidPublicKey, "%q is not base58", value)
	}
	if len(decoded) != ed25519.PublicKeySize {
		return nil, errors.Wrapf(ErrInvalidPublicKey, "%q decodes to %d bytes", value, len(decoded))
	}
	return decoded, nil
}

// IsOnCurve reports whether pub is a valid compressed Edwards point, meaning
// a private key for it may exist. Program derived addresses never are.
func IsOnCurve(pub ed25519.PublicKey) bool {
	_, err := new(edwards25519.Point).SetBytes(pub)
	return err == nil
}

// Generate creates a new random keypair.
func Generate() (ed25519.PrivateKey, error) {
	_, key, err := ed25519.GenerateKey(nil)
	if err != nil {
		return nil, errors.Wrap(err, "error generating private key")
	}
	return key, nil
}

// Decode parses a keypair file body: a JSON array of the 64 keypair bytes.
func Decode(data []byte) (ed25519.PrivateKey, error) {
	var raw []int
	if err := json.Unmarshal(bytes.TrimSpace(data), &raw); err != nil {
		return nil, errors.Wrap(ErrInvalidKeypair, "expected a JSON byte array")
	}
	if len(raw) != ed25519.PrivateKeySize {
		return nil, errors.Wrapf(ErrInvalidKeypair, "expected %d bytes, got %d", ed25519.PrivateKeySize, len(raw))
	}

	key := make(ed25519.PrivateKey, ed25519.PrivateKeySize)
	for i, v := range raw {
		if v < 0 || v > 255 {
			return nil, errors.Wrapf(ErrInvalidKeypair, "byte %d out of range: %d", i, v)
		}
		key[i] = byte(v)
	}

	derived := ed25519.NewKeyFromSeed(key.Seed())
	if !bytes.Equal(derived, key) {
		return nil, errors.Wrap(ErrInvalidKeypair, "public key does not match secret key")
	}

	return key, nil
}

// Encode formats key the way Load expects it.
func Encode(key ed25519.PrivateKey) ([]byte, error) {
	if len(key) != ed25519.PrivateKeySize {
		return nil, ErrInvalidKeypair
	}

	raw := make([]int, len(key))
	for i, b := range key {
		raw[i] = int(b)
	}
	return json.Marshal(raw)
}

// Load reads a keypair file. A leading "~" is expanded to the home directory.
func Load(path string) (ed25519.PrivateKey, error) {
	path, err := ExpandHome(path)
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to read keypair %s", path)
	}

	key, err := Decode(data)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to load keypair %s", path)
	}
	return key, nil
}

// Save writes key to path, readable only by the current user.
func Save(path string, key ed25519.PrivateKey) error {
	path, err := ExpandHome(path)
	if err != nil {
		return err
	}

	data, err := Encode(key)
	if err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return errors.Wrap(err, "failed to create keypair directory")
	}
	return errors.Wrap(os.WriteFile(path, data, 0o600), "failed to write keypair")
}

// ExpandHome replaces a leading "~" with the user's home directory.
func ExpandHome(path string) (string, error) {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path, nil
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return "", errors.Wrap(err, "failed to resolve home directory")
	}
	return filepath.Join(home, strings.TrimPrefix(path, "~")), nil
}
