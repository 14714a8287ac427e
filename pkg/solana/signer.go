package solana

import (
	"crypto/ed25519"

	"github.com/pkg/errors"
)

// Signer produces ed25519 signatures for a single public key.
//
// Implementations backed by remote or hardware keys may fail, so Sign returns
// an error rather than panicking.
type Signer interface {
	PublicKey() ed25519.PublicKey
	Sign(message []byte) ([]byte, error)
}

// KeypairSigner is a Signer backed by an in-memory private key.
type KeypairSigner struct {
	key ed25519.PrivateKey
}

// NewKeypairSigner wraps a private key.
func NewKeypairSigner(key ed25519.PrivateKey) (*KeypairSigner, error) {
	if len(key) != ed25519.PrivateKeySize {
		return nil, errors.Errorf("invalid private key size: %d", len(key))
	}
	return &KeypairSigner{key: key}, nil
}

// MustKeypairSigner is NewKeypairSigner that panics on a malformed key.
func MustKeypairSigner(key ed25519.PrivateKey) *KeypairSigner {
	s, err := NewKeypairSigner(key)
	if err != nil {
		panic(err)
	}
	return s
}

func (s *KeypairSigner) PublicKey() ed25519.PublicKey {
	return s.key.Public().(ed25519.PublicKey)
}

func (s *KeypairSigner) PrivateKey() ed25519.PrivateKey {
	return s.key
}

func (s *KeypairSigner) Sign(message []byte) ([]byte, error) {
	return ed25519.Sign(s.key, message), nil
}
