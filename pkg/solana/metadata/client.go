package metadata

import (
	"bytes"
	"crypto/ed25519"

	"github.com/mr-tron/base58"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/code-payments/code-token-cli/pkg/solana"
)

// ErrMetadataNotFound indicates the mint has no metadata account.
var ErrMetadataNotFound = errors.New("metadata account not found")

// Client reads metadata accounts.
type Client struct {
	log *logrus.Entry
	sc  solana.Client
}

func NewClient(sc solana.Client) *Client {
	return &Client{
		log: logrus.StandardLogger().WithField("type", "metadata/client"),
		sc:  sc,
	}
}

// GetMetadata fetches and decodes the metadata account of mint.
func (c *Client) GetMetadata(mint ed25519.PublicKey, commitment solana.Commitment) (*MetadataAccount, ed25519.PublicKey, error) {
	address, _, err := GetMetadataAddress(&GetMetadataAddressArgs{Mint: mint})
	if err != nil {
		return nil, nil, errors.Wrap(err, "failed to derive metadata address")
	}

	log := c.log.WithFields(logrus.Fields{
		"method":   "GetMetadata",
		"mint":     base58.Encode(mint),
		"metadata": base58.Encode(address),
	})

	info, err := c.sc.GetAccountInfo(address, commitment)
	if errors.Is(err, solana.ErrNoAccountInfo) {
		return nil, address, ErrMetadataNotFound
	} else if err != nil {
		log.WithError(err).Warn("failed to get metadata account")
		return nil, address, errors.Wrap(err, "failed to get metadata account")
	}

	if !bytes.Equal(info.Owner, PROGRAM_ID) {
		return nil, address, ErrInvalidProgram
	}

	var account MetadataAccount
	if err := account.Unmarshal(info.Data); err != nil {
		return nil, address, err
	}

	log.Debug("fetched metadata")
	return &account, address, nil
}
