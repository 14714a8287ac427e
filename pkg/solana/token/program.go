package token

import (
	"crypto/ed25519"
	"fmt"

	"github.com/code-payments/code-token-cli/pkg/solana"
)

// ProgramKey is the address of the SPL token program.
//
// TokenkegQfeZyiNwAJbNbGKPFXCWuBvf9Ss623VQ5DA
var ProgramKey = ed25519.PublicKey{6, 221, 246, 225, 215, 101, 161, 147, 217, 203, 225, 70, 206, 235, 121, 172, 28, 180, 133, 237, 95, 91, 55, 145, 58, 140, 245, 133, 126, 255, 0, 169}

type Command byte

// Reference: https://github.com/solana-labs/solana-program-library/blob/b011698251981b5a12088acba18fad1d41c3719a/token/program/src/instruction.rs
const (
	CommandInitializeMint Command = iota
	CommandInitializeAccount
	CommandInitializeMultisig
	CommandTransfer
	CommandApprove
	CommandRevoke
	CommandSetAuthority
	CommandMintTo
	CommandBurn
	CommandCloseAccount
	CommandFreezeAccount
	CommandThawAccount
)

// Custom errors returned by the token program, indexed by code.
var programErrors = []string{
	"NotRentExempt",
	"InsufficientFunds",
	"InvalidMint",
	"MintMismatch",
	"OwnerMismatch",
	"FixedSupply",
	"AlreadyInUse",
	"InvalidNumberOfProvidedSigners",
	"InvalidNumberOfRequiredSigners",
	"UninitializedState",
	"NativeNotSupported",
	"NonNativeHasBalance",
	"InvalidInstruction",
	"InvalidState",
	"Overflow",
	"AuthorityTypeNotSupported",
	"MintCannotFreeze",
	"AccountFrozen",
	"MintDecimalsMismatch",
}

// ErrorName returns the token program's name for a custom error code.
func ErrorName(code solana.CustomError) string {
	if code >= 0 && int(code) < len(programErrors) {
		return programErrors[code]
	}
	return fmt.Sprintf("Unknown(%d)", int(code))
}

type AuthorityType byte

const (
	AuthorityTypeMintTokens AuthorityType = iota
	AuthorityTypeFreezeAccount
	AuthorityTypeAccountHolder
	AuthorityTypeCloseAccount
)

func (t AuthorityType) String() string {
	switch t {
	case AuthorityTypeMintTokens:
		return "mint"
	case AuthorityTypeFreezeAccount:
		return "freeze"
	case AuthorityTypeAccountHolder:
		return "owner"
	case AuthorityTypeCloseAccount:
		return "close"
	}
	return fmt.Sprintf("AuthorityType(%d)", byte(t))
}

// SetAuthority changes or, when newAuthority is empty, revokes an authority
// of a mint or token account.
//
// Accounts expected by this instruction:
//
//  0. `[writable]` The mint or account to change the authority of.
//  1. `[signer]` The current authority of the mint or account.
//
// Reference: https://github.com/solana-labs/solana-program-library/blob/b011698251981b5a12088acba18fad1d41c3719a/token/program/src/instruction.rs#L128-L139
func SetAuthority(account, currentAuthority, newAuthority ed25519.PublicKey, authorityType AuthorityType) solana.Instruction {
	data := []byte{byte(CommandSetAuthority), byte(authorityType), 0}
	if len(newAuthority) > 0 {
		data[2] = 1
		data = append(data, newAuthority...)
	}

	return solana.NewInstruction(
		ProgramKey,
		data,
		solana.NewAccountMeta(account, false),
		solana.NewReadonlyAccountMeta(currentAuthority, true),
	)
}

// FreezeAccount freezes a token account using the mint's freeze authority.
//
// Accounts expected by this instruction:
//
//  0. `[writable]` The account to freeze.
//  1. `[]` The token mint.
//  2. `[signer]` The mint freeze authority.
func FreezeAccount(account, mint, freezeAuthority ed25519.PublicKey) solana.Instruction {
	return freezeOrThaw(CommandFreezeAccount, account, mint, freezeAuthority)
}

// ThawAccount thaws a frozen token account. It takes the same accounts as
// FreezeAccount.
func ThawAccount(account, mint, freezeAuthority ed25519.PublicKey) solana.Instruction {
	return freezeOrThaw(CommandThawAccount, account, mint, freezeAuthority)
}

func freezeOrThaw(cmd Command, account, mint, freezeAuthority ed25519.PublicKey) solana.Instruction {
	return solana.NewInstruction(
		ProgramKey,
		[]byte{byte(cmd)},
		solana.NewAccountMeta(account, false),
		solana.NewReadonlyAccountMeta(mint, false),
		solana.NewReadonlyAccountMeta(freezeAuthority, true),
	)
}
