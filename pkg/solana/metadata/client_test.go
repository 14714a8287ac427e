package metadata

import (
	"crypto/ed25519"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/code-payments/code-token-cli/pkg/solana"
)

type stubClient struct {
	solana.Client

	requested ed25519.PublicKey
	info      solana.AccountInfo
	err       error
}

func (c *stubClient) GetAccountInfo(account ed25519.PublicKey, _ solana.Commitment) (solana.AccountInfo, error) {
	c.requested = account
	return c.info, c.err
}

func TestClient_GetMetadata(t *testing.T) {
	keys := generateKeys(t, 2)
	sc := &stubClient{
		info: solana.AccountInfo{
			Owner: PROGRAM_ID,
			Data:  recordedMetadata(keys[0], testMint, keys[1]),
		},
	}

	expectedAddress, _, err := GetMetadataAddress(&GetMetadataAddressArgs{Mint: testMint})
	require.NoError(t, err)

	account, address, err := NewClient(sc).GetMetadata(testMint, solana.CommitmentConfirmed)
	require.NoError(t, err)
	assert.Equal(t, expectedAddress, address)
	assert.Equal(t, expectedAddress, sc.requested)
	assert.Equal(t, "Token", account.Data.Name)

	sc.info.Owner = keys[0]
	_, _, err = NewClient(sc).GetMetadata(testMint, solana.CommitmentConfirmed)
	assert.Equal(t, ErrInvalidProgram, err)

	sc.err = solana.ErrNoAccountInfo
	_, _, err = NewClient(sc).GetMetadata(testMint, solana.CommitmentConfirmed)
	assert.Equal(t, ErrMetadataNotFound, err)
}
