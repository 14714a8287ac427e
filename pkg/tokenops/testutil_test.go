package tokenops

import (
	"crypto/ed25519"
	"sync"
	"testing"

	"github.com/mr-tron/base58"
	"github.com/stretchr/testify/require"

	"github.com/code-payments/code-token-cli/pkg/solana"
	"github.com/code-payments/code-token-cli/pkg/testutil"
)

const (
	payerAddress          = "4uQeVj5tqViQh7yWWGStvkEG1Zmhx6uasJtWCJziofM"
	mintAddress           = "8opHzTAnfzRpPEx21XtnrVTX28YQuCpAjcn1PczScKh"
	receiverAddress       = "5nNBW1KhzHVbR4NMPLYPRYj3UN5vgiw5GrtpdK6eGoce"
	bridgeProgramAddress  = "9Rgx4kjnYZBbeXXgbbYLT2FfgzrNHFUShDtp8dpHHjd2"
	metadataAddress       = "H7EA12ipCXvY4ZERpbPLWLLorzNktr5LyQRhsA6YVNHg"
	payerAtaAddress       = "H7MQwEzt97tUJryocn3qaEoy2ymWstwyEk1i9Yv3EmuZ"
	receiverAtaAddress    = "BCo7cok29BHvRcRu39wHztk88aMGe7qFTEphBfpHT6vE"
	bridgeStateAddress    = "BFcDrCKNbT5sB6qgSf4AqKcWR9DsyZqU8eD9c6soJAL1"
	bridgeVaultAddress    = "RhHpfdH5eVzRRtaygKU1uxe62DMWQCU7CDdvQQkbYBu"
	metadataProgramString = "metaqbxxUerdq28cj1RbAWkYQm3ybzjb6a8bt518x1s"
)

func mustKey(t *testing.T, address string) ed25519.PublicKey {
	decoded, err := base58.Decode(address)
	require.NoError(t, err)
	require.Len(t, decoded, ed25519.PublicKeySize)
	return decoded
}

func newSigner(t *testing.T) *solana.KeypairSigner {
	signer, err := solana.NewKeypairSigner(testutil.GenerateSolanaKeypair(t))
	require.NoError(t, err)
	return signer
}

// fakeClient is an in memory solana.Client that records every call.
type fakeClient struct {
	mu sync.Mutex

	blockhash    solana.Blockhash
	blockhashErr error
	submitErr    error
	accounts     map[string]solana.AccountInfo

	// blockhashGate, when set, blocks GetLatestBlockhash until closed.
	blockhashGate chan struct{}

	blockhashCalls int
	submitted      []solana.Transaction
	commitments    []solana.Commitment
}

func newFakeClient() *fakeClient {
	return &fakeClient{
		blockhash: solana.Blockhash{1, 2, 3},
		accounts:  make(map[string]solana.AccountInfo),
	}
}

func (c *fakeClient) GetAccountInfo(account ed25519.PublicKey, _ solana.Commitment) (solana.AccountInfo, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	info, ok := c.accounts[string(account)]
	if !ok {
		return solana.AccountInfo{}, solana.ErrNoAccountInfo
	}
	return info, nil
}

func (c *fakeClient) GetLatestBlockhash(commitment solana.Commitment) (solana.Blockhash, error) {
	c.mu.Lock()
	gate := c.blockhashGate
	c.blockhashCalls++
	c.commitments = append(c.commitments, commitment)
	c.mu.Unlock()

	if gate != nil {
		<-gate
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	return c.blockhash, c.blockhashErr
}

func (c *fakeClient) SubmitTransaction(txn solana.Transaction, commitment solana.Commitment) (solana.Signature, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.submitted = append(c.submitted, txn)
	c.commitments = append(c.commitments, commitment)
	return txn.Signature(), c.submitErr
}

func (c *fakeClient) BlockhashCalls() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.blockhashCalls
}

func (c *fakeClient) Submitted() []solana.Transaction {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]solana.Transaction(nil), c.submitted...)
}
