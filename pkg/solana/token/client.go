package token

import (
	"bytes"
	"crypto/ed25519"

	"github.com/pkg/errors"

	"github.com/code-payments/code-token-cli/pkg/solana"
)

var (
	// ErrAccountNotFound indicates there is no account for the given address.
	ErrAccountNotFound = errors.New("account not found")
	// ErrInvalidTokenAccount indicates the account exists but is not a token
	// account, or not an initialized one.
	ErrInvalidTokenAccount = errors.New("invalid token account")
	// ErrInvalidMint indicates the account exists but is not a mint.
	ErrInvalidMint = errors.New("invalid mint")
)

// Client reads token program state.
type Client struct {
	sc solana.Client
}

// NewClient creates a new Client.
func NewClient(sc solana.Client) *Client {
	return &Client{
		sc: sc,
	}
}

// GetMint returns the mint state at the given address.
func (c *Client) GetMint(mint ed25519.PublicKey, commitment solana.Commitment) (*Mint, error) {
	data, err := c.getProgramAccount(mint, commitment)
	if err != nil {
		return nil, err
	}

	var m Mint
	if !m.Unmarshal(data) || !m.IsInitialized {
		return nil, ErrInvalidMint
	}

	return &m, nil
}

// GetAccount returns the token account at the given address.
func (c *Client) GetAccount(account ed25519.PublicKey, commitment solana.Commitment) (*Account, error) {
	data, err := c.getProgramAccount(account, commitment)
	if err != nil {
		return nil, err
	}

	var a Account
	if !a.Unmarshal(data) || a.State == AccountStateUninitialized {
		return nil, ErrInvalidTokenAccount
	}

	return &a, nil
}

func (c *Client) getProgramAccount(address ed25519.PublicKey, commitment solana.Commitment) ([]byte, error) {
	info, err := c.sc.GetAccountInfo(address, commitment)
	if errors.Is(err, solana.ErrNoAccountInfo) {
		return nil, ErrAccountNotFound
	} else if err != nil {
		return nil, errors.Wrap(err, "failed to get account info")
	}

	if !bytes.Equal(info.Owner, ProgramKey) {
		return nil, errors.Wrap(ErrInvalidTokenAccount, "not owned by the token program")
	}

	return info.Data, nil
}
