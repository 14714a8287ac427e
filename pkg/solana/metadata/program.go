// Package metadata builds instructions for, and decodes accounts of, the
// Metaplex token metadata program.
package metadata

import (
	"crypto/ed25519"

	"github.com/mr-tron/base58"
	"github.com/pkg/errors"

	"github.com/code-payments/code-token-cli/pkg/solana"
	"github.com/code-payments/code-token-cli/pkg/solana/system"
	"github.com/code-payments/code-token-cli/pkg/solana/token"
)

var (
	ErrInvalidProgram     = errors.New("invalid program id")
	ErrInvalidAccountData = errors.New("unexpected account data")
	ErrInvalidData        = errors.New("invalid metadata")
	ErrNoChanges          = errors.New("no metadata changes requested")
)

var (
	PROGRAM_ADDRESS = mustBase58Decode("metaqbxxUerdq28cj1RbAWkYQm3ybzjb6a8bt518x1s")
	PROGRAM_ID      = ed25519.PublicKey(PROGRAM_ADDRESS)
)

var (
	SYSTEM_PROGRAM_ID                       = system.ProgramKey
	SYSVAR_INSTRUCTIONS_PUBKEY              = system.InstructionsSysVar
	SPL_TOKEN_PROGRAM_ID                    = token.ProgramKey
	SPL_ASSOCIATED_TOKEN_ACCOUNT_PROGRAM_ID = token.AssociatedTokenAccountProgramKey
)

// Limits enforced by the program on the stored data.
const (
	MaxNameLength           = 32
	MaxSymbolLength         = 10
	MaxUriLength            = 200
	MaxSellerFeeBasisPoints = 10_000
	MaxCreatorLimit         = 5
)

type instructionType uint8

const (
	instructionTypeUpdateMetadataAccountV2 instructionType = 15
	instructionTypeCreate                  instructionType = 42
	instructionTypeMint                    instructionType = 43
	instructionTypeTransfer                instructionType = 49
)

// Versioned instructions carry a second discriminator byte.
const instructionVersionV1 uint8 = 0

// optionalAccount returns the account meta for an optional account, or the
// program id placeholder the program expects when the account is omitted.
func optionalAccount(key ed25519.PublicKey, isWritable, isSigner bool) solana.AccountMeta {
	if len(key) == 0 {
		return solana.NewReadonlyAccountMeta(PROGRAM_ID, false)
	}
	return solana.AccountMeta{
		PublicKey:  key,
		IsWritable: isWritable,
		IsSigner:   isSigner,
	}
}

// orDefault returns key, or fallback when key is empty.
func orDefault(key, fallback ed25519.PublicKey) ed25519.PublicKey {
	if len(key) == 0 {
		return fallback
	}
	return key
}

func mustBase58Decode(value string) []byte {
	decoded, err := base58.Decode(value)
	if err != nil {
		panic(err)
	}
	return decoded
}
