package token

import (
	"crypto/ed25519"

	"github.com/code-payments/code-token-cli/pkg/solana"
)

// AssociatedTokenAccountProgramKey is the address of the associated token
// account program.
//
// ATokenGPvbdGVxr1b2hvZbsiqW5xWH25efTNsLJA8knL
var AssociatedTokenAccountProgramKey = ed25519.PublicKey{140, 151, 37, 143, 78, 36, 137, 241, 187, 61, 16, 41, 20, 142, 13, 131, 11, 90, 19, 153, 218, 255, 16, 132, 4, 142, 123, 216, 219, 233, 248, 89}

// GetAssociatedAccount returns the canonical token account of owner for mint.
//
// Reference: https://spl.solana.com/associated-token-account#finding-the-associated-token-account-address
func GetAssociatedAccount(owner, mint ed25519.PublicKey) (ed25519.PublicKey, error) {
	addr, _, err := GetAssociatedAccountAndBump(owner, mint)
	return addr, err
}

// GetAssociatedAccountAndBump is GetAssociatedAccount that also returns the
// bump seed.
func GetAssociatedAccountAndBump(owner, mint ed25519.PublicKey) (ed25519.PublicKey, uint8, error) {
	return GetAssociatedAccountWithProgram(owner, mint, ProgramKey)
}

// GetAssociatedAccountWithProgram derives the associated token account for a
// mint owned by tokenProgram, such as token-2022.
func GetAssociatedAccountWithProgram(owner, mint, tokenProgram ed25519.PublicKey) (ed25519.PublicKey, uint8, error) {
	return solana.FindProgramAddressAndBump(
		AssociatedTokenAccountProgramKey,
		owner,
		tokenProgram,
		mint,
	)
}
