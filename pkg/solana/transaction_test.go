package solana

import (
	"bytes"
	"crypto/ed25519"
	"encoding/base64"
	"sort"
	"testing"

	"github.com/mr-tron/base58/base58"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Signed legacy transaction produced by the Solana SDK for the same keypair,
// program and accounts.
const sdkGenerated = "ATMfBMZ8phHEheLph8K9TJhRKhnE4qNZvWiXdUdJRmlTCRsQjWmW2CkQJeRHBCcsqFm2gynjL40M9mTe0Dxp4QIBAAEDfEya6wnC7f3Cv53qnOEywwIJ928rIdqAlfXYI1adXroBAQEEBQYHCAkJCQkJCQkJCQkJCQkJCQkIBwYFBAEBAQICAgQFBgcICQEBAQEBAQEBAQEBAQEBCQgHBgUEAgICAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAABAgIAAQMBAgM="

func TestTransaction_CrossImpl(t *testing.T) {
	keypair := ed25519.NewKeyFromSeed([]byte{48, 83, 2, 1, 1, 48, 5, 6, 3, 43, 101, 112, 4, 34, 4, 32, 255, 101, 36, 24, 124, 23,
		167, 21, 132, 204, 155, 5, 185, 58, 121, 75})
	programID := ed25519.PublicKey{2, 2, 2, 4, 5, 6, 7, 8, 9, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 9, 8, 7, 6, 5, 4,
		2, 2, 2}
	to := ed25519.PublicKey{1, 1, 1, 4, 5, 6, 7, 8, 9, 9, 9, 9, 9, 9, 9, 9, 9, 9, 9, 9, 9, 9, 9, 9, 8, 7, 6, 5, 4, 1, 1, 1}

	tx, err := NewTransaction(
		public(keypair),
		NewInstruction(
			programID,
			[]byte{1, 2, 3},
			NewAccountMeta(public(keypair), true),
			NewAccountMeta(to, false),
		),
	)
	require.NoError(t, err)
	require.NoError(t, tx.Sign(MustKeypairSigner(keypair)))
	assert.Equal(t, sdkGenerated, base64.StdEncoding.EncodeToString(tx.Marshal()))

	var decoded Transaction
	require.NoError(t, decoded.Unmarshal(tx.Marshal()))
	assert.Equal(t, tx.Marshal(), decoded.Marshal())
	assert.Equal(t, tx.Signature(), decoded.Signature())
}

func TestTransaction_EmptyInstructionSet(t *testing.T) {
	keys := generateKeys(t, 1)

	_, err := NewTransaction(public(keys[0]))
	assert.Equal(t, ErrEmptyInstructionSet, err)
}

func TestTransaction_PayerFirst(t *testing.T) {
	keys := generateKeys(t, 4)
	sort.Slice(keys, func(i, j int) bool {
		return bytes.Compare(public(keys[i]), public(keys[j])) < 0
	})

	// The payer sorts last by key, but must still be account 0.
	payer := keys[3]
	tx, err := NewTransaction(
		public(payer),
		NewInstruction(
			public(keys[2]),
			nil,
			NewAccountMeta(public(keys[0]), true),
			NewAccountMeta(public(keys[1]), true),
		),
	)
	require.NoError(t, err)

	require.Len(t, tx.Message.Accounts, 4)
	assert.Equal(t, public(payer), tx.Message.Accounts[0])
	assert.Equal(t, public(keys[0]), tx.Message.Accounts[1])
	assert.Equal(t, public(keys[1]), tx.Message.Accounts[2])
	assert.Equal(t, public(keys[2]), tx.Message.Accounts[3])
	assert.Equal(t, []ed25519.PublicKey{public(payer), public(keys[0]), public(keys[1])}, tx.RequiredSigners())
}

func TestTransaction_SingleInstruction(t *testing.T) {
	keys := generateKeys(t, 2)
	payer := keys[0]
	program := keys[1]

	keys = generateKeys(t, 4)
	data := []byte{1, 2, 3}

	tx, err := NewTransaction(
		public(payer),
		NewInstruction(
			public(program),
			data,
			NewReadonlyAccountMeta(public(keys[0]), true),
			NewReadonlyAccountMeta(public(keys[1]), false),
			NewAccountMeta(public(keys[2]), false),
			NewAccountMeta(public(keys[3]), true),
		),
	)
	require.NoError(t, err)

	// Signing order does not matter.
	assert.NoError(t, tx.Sign(signers(keys[0], keys[3], payer)...))

	require.Len(t, tx.Signatures, 3)
	require.Len(t, tx.Message.Accounts, 6)
	assert.EqualValues(t, 3, tx.Message.Header.NumSignatures)
	assert.EqualValues(t, 1, tx.Message.Header.NumReadonlySigned)
	assert.EqualValues(t, 2, tx.Message.Header.NumReadOnly)

	message := tx.Message.Marshal()
	assert.True(t, ed25519.Verify(public(payer), message, tx.Signatures[0][:]))
	assert.True(t, ed25519.Verify(public(keys[3]), message, tx.Signatures[1][:]))
	assert.True(t, ed25519.Verify(public(keys[0]), message, tx.Signatures[2][:]))

	assert.Equal(t, public(payer), tx.Message.Accounts[0])
	assert.Equal(t, public(keys[3]), tx.Message.Accounts[1])
	assert.Equal(t, public(keys[0]), tx.Message.Accounts[2])
	assert.Equal(t, public(keys[2]), tx.Message.Accounts[3])
	assert.Equal(t, public(keys[1]), tx.Message.Accounts[4])
	assert.Equal(t, public(program), tx.Message.Accounts[5])

	assert.Equal(t, byte(5), tx.Message.Instructions[0].ProgramIndex)
	assert.Equal(t, data, tx.Message.Instructions[0].Data)
	assert.Equal(t, []byte{2, 4, 3, 1}, tx.Message.Instructions[0].Accounts)
}

func TestTransaction_MergedFlags(t *testing.T) {
	keys := generateKeys(t, 3)
	sort.Slice(keys, func(i, j int) bool {
		return bytes.Compare(public(keys[i]), public(keys[j])) < 0
	})
	payer, program, program2 := keys[0], keys[1], keys[2]

	keys = generateKeys(t, 6)
	sort.Slice(keys, func(i, j int) bool {
		return bytes.Compare(public(keys[i]), public(keys[j])) < 0
	})

	// keys[0]: readonly signer, then writable        -> writable signer
	// keys[1]: readonly, then writable signer        -> writable signer
	// keys[2]: writable, then readonly               -> writable
	// keys[3]: writable signer, then readonly        -> writable signer
	// keys[4]: writable signer
	// keys[5]: readonly
	tx, err := NewTransaction(
		public(payer),
		NewInstruction(
			public(program2),
			[]byte{1},
			NewReadonlyAccountMeta(public(keys[0]), true),
			NewReadonlyAccountMeta(public(keys[1]), false),
			NewAccountMeta(public(keys[2]), false),
			NewAccountMeta(public(keys[3]), true),
		),
		NewInstruction(
			public(program),
			[]byte{2},
			NewReadonlyAccountMeta(public(keys[3]), false),
			NewReadonlyAccountMeta(public(keys[2]), false),
			NewAccountMeta(public(keys[0]), false),
			NewAccountMeta(public(keys[1]), true),
			NewAccountMeta(public(keys[4]), true),
			NewReadonlyAccountMeta(public(keys[5]), false),
		),
	)
	require.NoError(t, err)

	require.NoError(t, tx.Sign(signers(payer, keys[0], keys[1], keys[3], keys[4])...))

	require.Len(t, tx.Signatures, 5)
	require.Len(t, tx.Message.Accounts, 9)
	assert.EqualValues(t, 5, tx.Message.Header.NumSignatures)
	assert.EqualValues(t, 0, tx.Message.Header.NumReadonlySigned)
	assert.EqualValues(t, 3, tx.Message.Header.NumReadOnly)

	expected := []ed25519.PublicKey{
		public(payer),
		public(keys[0]),
		public(keys[1]),
		public(keys[3]),
		public(keys[4]),
		public(keys[2]),
		public(keys[5]),
		public(program),
		public(program2),
	}
	assert.Equal(t, expected, tx.Message.Accounts)

	assert.Equal(t, byte(8), tx.Message.Instructions[0].ProgramIndex)
	assert.Equal(t, []byte{1, 2, 5, 3}, tx.Message.Instructions[0].Accounts)
	assert.Equal(t, byte(7), tx.Message.Instructions[1].ProgramIndex)
	assert.Equal(t, []byte{3, 5, 1, 2, 4, 6}, tx.Message.Instructions[1].Accounts)

	message := tx.Message.Marshal()
	for i, key := range expected[:5] {
		assert.True(t, ed25519.Verify(key, message, tx.Signatures[i][:]))
	}
}

func TestTransaction_MissingSigner(t *testing.T) {
	keys := generateKeys(t, 3)
	payer, program, mint := keys[0], keys[1], keys[2]

	tx, err := NewTransaction(
		public(payer),
		NewInstruction(public(program), nil, NewAccountMeta(public(mint), true)),
	)
	require.NoError(t, err)

	err = tx.Sign(signers(payer)...)
	assert.True(t, errors.Is(err, ErrMissingSigner))
	assert.Contains(t, err.Error(), base58.Encode(public(mint)))
}

func TestTransaction_UnexpectedSigner(t *testing.T) {
	keys := generateKeys(t, 3)

	tx, err := NewTransaction(
		public(keys[0]),
		NewInstruction(public(keys[1]), nil),
	)
	require.NoError(t, err)

	err = tx.Sign(signers(keys[0], keys[2])...)
	assert.True(t, errors.Is(err, ErrUnexpectedSigner))
}

type failingSigner struct {
	pub ed25519.PublicKey
}

func (s *failingSigner) PublicKey() ed25519.PublicKey { return s.pub }
func (s *failingSigner) Sign([]byte) ([]byte, error) {
	return nil, errors.New("device unavailable")
}

func TestTransaction_SignerFailure(t *testing.T) {
	keys := generateKeys(t, 2)

	tx, err := NewTransaction(
		public(keys[0]),
		NewInstruction(public(keys[1]), nil),
	)
	require.NoError(t, err)

	err = tx.Sign(&failingSigner{pub: public(keys[0])})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "device unavailable")
}

func TestTransaction_InvalidIndexes(t *testing.T) {
	keys := generateKeys(t, 2)

	tx, err := NewTransaction(
		public(keys[0]),
		NewInstruction(public(keys[1]), nil, NewAccountMeta(public(keys[0]), true)),
	)
	require.NoError(t, err)
	tx.Message.Instructions[0].ProgramIndex = 2
	assert.Error(t, tx.Unmarshal(tx.Marshal()))

	tx, err = NewTransaction(
		public(keys[0]),
		NewInstruction(public(keys[1]), nil, NewAccountMeta(public(keys[0]), true)),
	)
	require.NoError(t, err)
	tx.Message.Instructions[0].Accounts = []byte{2}
	assert.Error(t, tx.Unmarshal(tx.Marshal()))
}

func TestTransaction_BlockhashChangesSignature(t *testing.T) {
	keys := generateKeys(t, 2)

	tx, err := NewTransaction(
		public(keys[0]),
		NewInstruction(public(keys[1]), []byte{7}),
	)
	require.NoError(t, err)

	tx.SetBlockhash(Blockhash{1})
	require.NoError(t, tx.Sign(signers(keys[0])...))
	first := tx.Signature()

	tx.SetBlockhash(Blockhash{2})
	require.NoError(t, tx.Sign(signers(keys[0])...))
	assert.NotEqual(t, first, tx.Signature())
}

func public(priv ed25519.PrivateKey) ed25519.PublicKey {
	return priv.Public().(ed25519.PublicKey)
}

func signers(keys ...ed25519.PrivateKey) []Signer {
	out := make([]Signer, len(keys))
	for i, key := range keys {
		out[i] = MustKeypairSigner(key)
	}
	return out
}

func generateKeys(t *testing.T, amount int) []ed25519.PrivateKey {
	keys := make([]ed25519.PrivateKey, amount)

	for i := 0; i < amount; i++ {
		_, priv, err := ed25519.GenerateKey(nil)
		require.NoError(t, err)
		keys[i] = priv
	}

	return keys
}
