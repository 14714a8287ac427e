package token

import (
	"bytes"
	"crypto/ed25519"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/code-payments/code-token-cli/pkg/solana"
)

func filledKey(b byte) ed25519.PublicKey {
	return bytes.Repeat([]byte{b}, ed25519.PublicKeySize)
}

func TestAccount_RoundTrip(t *testing.T) {
	isNative := uint64(2)
	expected := Account{
		Mint:           filledKey(1),
		Owner:          filledKey(2),
		Amount:         10,
		Delegate:       filledKey(3),
		State:          AccountStateFrozen,
		IsNative:       &isNative,
		CloseAuthority: filledKey(2),
	}

	var actual Account
	require.True(t, actual.Unmarshal(expected.Marshal()))
	assert.Equal(t, expected, actual)

	assert.False(t, actual.Unmarshal(make([]byte, AccountSize-1)))
}

func TestMint_Layout(t *testing.T) {
	m := Mint{
		MintAuthority: filledKey(7),
		Supply:        1_000_000,
		Decimals:      6,
		IsInitialized: true,
	}

	b := m.Marshal()
	require.Len(t, b, MintSize)
	assert.Equal(t, []byte{1, 0, 0, 0}, b[:4])
	assert.EqualValues(t, filledKey(7), b[4:36])
	assert.Equal(t, []byte{0x40, 0x42, 0x0f, 0, 0, 0, 0, 0}, b[36:44])
	assert.EqualValues(t, 6, b[44])
	assert.EqualValues(t, 1, b[45])
	assert.Equal(t, make([]byte, 36), b[46:])

	var actual Mint
	require.True(t, actual.Unmarshal(b))
	assert.Equal(t, m, actual)
	assert.Nil(t, actual.FreezeAuthority)

	assert.False(t, actual.Unmarshal(b[:MintSize-1]))
}

type stubClient struct {
	solana.Client

	info solana.AccountInfo
	err  error
}

func (c *stubClient) GetAccountInfo(ed25519.PublicKey, solana.Commitment) (solana.AccountInfo, error) {
	return c.info, c.err
}

func TestClient_GetMint(t *testing.T) {
	m := Mint{Supply: 5, Decimals: 9, IsInitialized: true, FreezeAuthority: filledKey(4)}
	sc := &stubClient{info: solana.AccountInfo{Owner: ProgramKey, Data: m.Marshal()}}

	actual, err := NewClient(sc).GetMint(filledKey(1), solana.CommitmentConfirmed)
	require.NoError(t, err)
	assert.Equal(t, m, *actual)

	sc.info.Data = (&Mint{}).Marshal()
	_, err = NewClient(sc).GetMint(filledKey(1), solana.CommitmentConfirmed)
	assert.Equal(t, ErrInvalidMint, err)

	sc.info.Owner = filledKey(9)
	_, err = NewClient(sc).GetMint(filledKey(1), solana.CommitmentConfirmed)
	assert.Error(t, err)

	sc.err = solana.ErrNoAccountInfo
	_, err = NewClient(sc).GetMint(filledKey(1), solana.CommitmentConfirmed)
	assert.Equal(t, ErrAccountNotFound, err)
}

func TestClient_GetAccount(t *testing.T) {
	a := Account{Mint: filledKey(1), Owner: filledKey(2), Amount: 3, State: AccountStateInitialized}
	sc := &stubClient{info: solana.AccountInfo{Owner: ProgramKey, Data: a.Marshal()}}

	actual, err := NewClient(sc).GetAccount(filledKey(5), solana.CommitmentConfirmed)
	require.NoError(t, err)
	assert.Equal(t, a, *actual)

	sc.info.Data = (&Account{}).Marshal()
	_, err = NewClient(sc).GetAccount(filledKey(5), solana.CommitmentConfirmed)
	assert.Equal(t, ErrInvalidTokenAccount, err)
}
