package metadata

import (
	"crypto/ed25519"
	"encoding/binary"
	"testing"

	bin "github.com/gagliardetto/binary"
	"github.com/mr-tron/base58"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/code-payments/code-token-cli/pkg/solana"
)

var (
	testPayer = mustBase58Decode("4uQeVj5tqViQh7yWWGStvkEG1Zmhx6uasJtWCJziofM")
	testMint  = mustBase58Decode("8opHzTAnfzRpPEx21XtnrVTX28YQuCpAjcn1PczScKh")
)

func TestProgramKeys(t *testing.T) {
	assert.Equal(t, "metaqbxxUerdq28cj1RbAWkYQm3ybzjb6a8bt518x1s", base58.Encode(PROGRAM_ID))
	assert.Equal(t, "11111111111111111111111111111111", base58.Encode(SYSTEM_PROGRAM_ID))
	assert.Equal(t, "Sysvar1nstructions1111111111111111111111111", base58.Encode(SYSVAR_INSTRUCTIONS_PUBKEY))
}

func TestGetMetadataAddress(t *testing.T) {
	address, bump, err := GetMetadataAddress(&GetMetadataAddressArgs{Mint: testMint})
	require.NoError(t, err)
	assert.Equal(t, "H7EA12ipCXvY4ZERpbPLWLLorzNktr5LyQRhsA6YVNHg", base58.Encode(address))
	assert.EqualValues(t, 255, bump)

	again, _, err := GetMetadataAddress(&GetMetadataAddressArgs{Mint: testMint})
	require.NoError(t, err)
	assert.Equal(t, address, again)
}

func borshString(s string) []byte {
	b := make([]byte, 4, 4+len(s))
	binary.LittleEndian.PutUint32(b, uint32(len(s)))
	return append(b, s...)
}

func placeholder() solana.AccountMeta {
	return solana.NewReadonlyAccountMeta(PROGRAM_ID, false)
}

func TestNewCreateV1Instruction(t *testing.T) {
	metadataAddress, _, err := GetMetadataAddress(&GetMetadataAddressArgs{Mint: testMint})
	require.NoError(t, err)

	decimals := uint8(9)
	ix, err := NewCreateV1Instruction(
		&CreateV1InstructionAccounts{
			Metadata:                metadataAddress,
			Mint:                    testMint,
			MintIsSigner:            true,
			Authority:               testPayer,
			Payer:                   testPayer,
			UpdateAuthority:         testPayer,
			UpdateAuthorityIsSigner: true,
			SplTokenProgram:         SPL_TOKEN_PROGRAM_ID,
		},
		&CreateV1InstructionArgs{
			Name:          "Token",
			Symbol:        "TKN",
			Uri:           "https://x",
			IsMutable:     true,
			TokenStandard: TokenStandardFungible,
			Decimals:      &decimals,
		},
	)
	require.NoError(t, err)
	assert.EqualValues(t, PROGRAM_ID, ix.Program)

	var expected []byte
	expected = append(expected, 42, 0)
	expected = append(expected, borshString("Token")...)
	expected = append(expected, borshString("TKN")...)
	expected = append(expected, borshString("https://x")...)
	expected = append(expected,
		0, 0, // seller_fee_basis_points
		0,    // creators
		0,    // primary_sale_happened
		1,    // is_mutable
		2,    // token_standard
		0,    // collection
		0,    // uses
		0,    // collection_details
		0,    // rule_set
		1, 9, // decimals
		0, // print_supply
	)
	assert.Equal(t, expected, ix.Data)

	assert.Equal(t, []solana.AccountMeta{
		solana.NewAccountMeta(metadataAddress, false),
		placeholder(),
		solana.NewAccountMeta(testMint, true),
		solana.NewReadonlyAccountMeta(testPayer, true),
		solana.NewAccountMeta(testPayer, true),
		solana.NewReadonlyAccountMeta(testPayer, true),
		solana.NewReadonlyAccountMeta(SYSTEM_PROGRAM_ID, false),
		solana.NewReadonlyAccountMeta(SYSVAR_INSTRUCTIONS_PUBKEY, false),
		solana.NewReadonlyAccountMeta(SPL_TOKEN_PROGRAM_ID, false),
	}, ix.Accounts)
}

func TestNewMintV1Instruction(t *testing.T) {
	keys := generateKeys(t, 4)
	token, owner, metadataAddress, authority := keys[0], keys[1], keys[2], keys[3]

	ix, err := NewMintV1Instruction(
		&MintV1InstructionAccounts{
			Token:      token,
			TokenOwner: owner,
			Metadata:   metadataAddress,
			Mint:       testMint,
			Authority:  authority,
			Payer:      testPayer,
		},
		&MintV1InstructionArgs{Amount: 1_000_000},
	)
	require.NoError(t, err)

	assert.Equal(t, []byte{43, 0, 0x40, 0x42, 0x0f, 0, 0, 0, 0, 0, 0}, ix.Data)
	assert.Equal(t, []solana.AccountMeta{
		solana.NewAccountMeta(token, false),
		solana.NewReadonlyAccountMeta(owner, false),
		solana.NewReadonlyAccountMeta(metadataAddress, false),
		placeholder(),
		placeholder(),
		solana.NewAccountMeta(testMint, false),
		solana.NewReadonlyAccountMeta(authority, true),
		placeholder(),
		solana.NewAccountMeta(testPayer, true),
		solana.NewReadonlyAccountMeta(SYSTEM_PROGRAM_ID, false),
		solana.NewReadonlyAccountMeta(SYSVAR_INSTRUCTIONS_PUBKEY, false),
		solana.NewReadonlyAccountMeta(SPL_TOKEN_PROGRAM_ID, false),
		solana.NewReadonlyAccountMeta(SPL_ASSOCIATED_TOKEN_ACCOUNT_PROGRAM_ID, false),
		placeholder(),
		placeholder(),
	}, ix.Accounts)
}

func TestNewTransferV1Instruction(t *testing.T) {
	keys := generateKeys(t, 5)
	source, destination, destinationOwner, metadataAddress, tokenRecord := keys[0], keys[1], keys[2], keys[3], keys[4]

	ix, err := NewTransferV1Instruction(
		&TransferV1InstructionAccounts{
			Token:            source,
			TokenOwner:       testPayer,
			DestinationToken: destination,
			DestinationOwner: destinationOwner,
			Mint:             testMint,
			Metadata:         metadataAddress,
			TokenRecord:      tokenRecord,
			Authority:        testPayer,
			Payer:            testPayer,
		},
		&TransferV1InstructionArgs{Amount: 5},
	)
	require.NoError(t, err)

	assert.Equal(t, []byte{49, 0, 5, 0, 0, 0, 0, 0, 0, 0, 0}, ix.Data)
	assert.Equal(t, []solana.AccountMeta{
		solana.NewAccountMeta(source, false),
		solana.NewReadonlyAccountMeta(testPayer, false),
		solana.NewAccountMeta(destination, false),
		solana.NewReadonlyAccountMeta(destinationOwner, false),
		solana.NewReadonlyAccountMeta(testMint, false),
		solana.NewAccountMeta(metadataAddress, false),
		placeholder(),
		solana.NewAccountMeta(tokenRecord, false),
		placeholder(),
		solana.NewReadonlyAccountMeta(testPayer, true),
		solana.NewAccountMeta(testPayer, true),
		solana.NewReadonlyAccountMeta(SYSTEM_PROGRAM_ID, false),
		solana.NewReadonlyAccountMeta(SYSVAR_INSTRUCTIONS_PUBKEY, false),
		solana.NewReadonlyAccountMeta(SPL_TOKEN_PROGRAM_ID, false),
		solana.NewReadonlyAccountMeta(SPL_ASSOCIATED_TOKEN_ACCOUNT_PROGRAM_ID, false),
		placeholder(),
		placeholder(),
	}, ix.Accounts)
}

func TestNewUpdateMetadataAccountV2Instruction(t *testing.T) {
	keys := generateKeys(t, 3)
	metadataAddress, authority, newAuthority := keys[0], keys[1], keys[2]

	isMutable := false
	args := &UpdateMetadataAccountV2InstructionArgs{
		Data: &DataV2{
			Name:                 "A",
			Symbol:               "B",
			Uri:                  "C",
			SellerFeeBasisPoints: 250,
			Creators:             []Creator{{Address: authority, Verified: true, Share: 100}},
			Collection:           &Collection{Verified: false, Key: newAuthority},
		},
		NewUpdateAuthority: newAuthority,
		IsMutable:          &isMutable,
	}

	ix, err := NewUpdateMetadataAccountV2Instruction(
		&UpdateMetadataAccountV2InstructionAccounts{
			Metadata:        metadataAddress,
			UpdateAuthority: authority,
		},
		args,
	)
	require.NoError(t, err)

	var expected []byte
	expected = append(expected, 15, 1)
	expected = append(expected, borshString("A")...)
	expected = append(expected, borshString("B")...)
	expected = append(expected, borshString("C")...)
	expected = append(expected, 0xfa, 0x00)
	expected = append(expected, 1, 1, 0, 0, 0)
	expected = append(expected, authority...)
	expected = append(expected, 1, 100)
	expected = append(expected, 1, 0)
	expected = append(expected, newAuthority...)
	expected = append(expected, 0) // uses
	expected = append(expected, 1)
	expected = append(expected, newAuthority...)
	expected = append(expected, 0)    // primary_sale_happened
	expected = append(expected, 1, 0) // is_mutable
	assert.Equal(t, expected, ix.Data)

	assert.Equal(t, []solana.AccountMeta{
		solana.NewAccountMeta(metadataAddress, false),
		solana.NewReadonlyAccountMeta(authority, true),
	}, ix.Accounts)

	var decoded UpdateMetadataAccountV2InstructionArgs
	require.NoError(t, decoded.UnmarshalWithDecoder(bin.NewBorshDecoder(ix.Data[1:])))
	assert.Equal(t, args, &decoded)

	ix, err = NewUpdateMetadataAccountV2Instruction(
		&UpdateMetadataAccountV2InstructionAccounts{Metadata: metadataAddress, UpdateAuthority: authority},
		&UpdateMetadataAccountV2InstructionArgs{},
	)
	require.NoError(t, err)
	assert.Equal(t, []byte{15, 0, 0, 0, 0}, ix.Data)
}

// recordedMetadata lays out a metadata account the way the program stores
// it: fixed size with null padded strings.
func recordedMetadata(updateAuthority, mint, creator ed25519.PublicKey) []byte {
	padded := func(s string, size int) []byte {
		return borshString(s + string(make([]byte, size-len(s))))
	}

	var b []byte
	b = append(b, KeyMetadataV1)
	b = append(b, updateAuthority...)
	b = append(b, mint...)
	b = append(b, padded("Token", MaxNameLength)...)
	b = append(b, padded("TKN", MaxSymbolLength)...)
	b = append(b, padded("https://x", MaxUriLength)...)
	b = append(b, 0xf4, 0x01)
	b = append(b, 1, 1, 0, 0, 0)
	b = append(b, creator...)
	b = append(b, 0, 100)
	b = append(b, 0)      // primary_sale_happened
	b = append(b, 1)      // is_mutable
	b = append(b, 1, 254) // edition_nonce
	b = append(b, 1, 2)   // token_standard
	return append(b, make([]byte, 679-len(b))...)
}

func TestMetadataAccount_Unmarshal(t *testing.T) {
	keys := generateKeys(t, 2)
	data := recordedMetadata(keys[0], testMint, keys[1])

	var actual MetadataAccount
	require.NoError(t, actual.Unmarshal(data))

	assert.Equal(t, KeyMetadataV1, actual.Key)
	assert.Equal(t, keys[0], actual.UpdateAuthority)
	assert.EqualValues(t, testMint, actual.Mint)
	assert.Equal(t, "Token", actual.Data.Name)
	assert.Equal(t, "TKN", actual.Data.Symbol)
	assert.Equal(t, "https://x", actual.Data.Uri)
	assert.EqualValues(t, 500, actual.Data.SellerFeeBasisPoints)
	require.Len(t, actual.Data.Creators, 1)
	assert.Equal(t, Creator{Address: keys[1], Verified: false, Share: 100}, actual.Data.Creators[0])
	assert.False(t, actual.PrimarySaleHappened)
	assert.True(t, actual.IsMutable)
	require.NotNil(t, actual.EditionNonce)
	assert.EqualValues(t, 254, *actual.EditionNonce)
	require.NotNil(t, actual.TokenStandard)
	assert.Equal(t, TokenStandardFungible, *actual.TokenStandard)
	assert.Nil(t, actual.Data.Collection)
	assert.Nil(t, actual.Data.Uses)
	assert.Contains(t, actual.String(), "name=Token,symbol=TKN")

	// Accounts created before the optional fields existed end after is_mutable.
	legacySize := 1 + 32 + 32 + (4 + MaxNameLength) + (4 + MaxSymbolLength) + (4 + MaxUriLength) + 2 + (1 + 4 + 34) + 2
	legacy := data[:legacySize]
	var old MetadataAccount
	require.NoError(t, old.Unmarshal(legacy))
	assert.Nil(t, old.EditionNonce)
	assert.Nil(t, old.TokenStandard)

	data[0] = 1
	assert.Error(t, actual.Unmarshal(data))
	assert.Equal(t, ErrInvalidAccountData, new(MetadataAccount).Unmarshal(data[:10]))
}

func TestDataV2_Validate(t *testing.T) {
	ok := DataV2{Name: "Token", Symbol: "TKN", Uri: "https://x", SellerFeeBasisPoints: MaxSellerFeeBasisPoints}
	assert.NoError(t, ok.Validate())

	for _, invalid := range []DataV2{
		{Name: string(make([]byte, MaxNameLength+1))},
		{Symbol: "ELEVENCHARS"},
		{Uri: string(make([]byte, MaxUriLength+1))},
		{SellerFeeBasisPoints: MaxSellerFeeBasisPoints + 1},
		{Creators: make([]Creator, MaxCreatorLimit+1)},
	} {
		err := invalid.Validate()
		assert.Error(t, err)
		assert.Contains(t, err.Error(), ErrInvalidData.Error())
	}
}

func generateKeys(t *testing.T, amount int) []ed25519.PublicKey {
	keys := make([]ed25519.PublicKey, amount)
	for i := range keys {
		pub, _, err := ed25519.GenerateKey(nil)
		require.NoError(t, err)
		keys[i] = pub
	}
	return keys
}
