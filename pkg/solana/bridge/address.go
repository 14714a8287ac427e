package bridge

import (
	"crypto/ed25519"

	"github.com/code-payments/code-token-cli/pkg/solana"
	"github.com/code-payments/code-token-cli/pkg/solana/token"
)

var (
	BridgeStatePrefix = []byte("bridge_state")
)

type GetBridgeStateAddressArgs struct {
	Program ed25519.PublicKey
}

// GetBridgeStateAddress derives the singleton state account of a deployed
// bridge program.
func GetBridgeStateAddress(args *GetBridgeStateAddressArgs) (ed25519.PublicKey, uint8, error) {
	if len(args.Program) != ed25519.PublicKeySize {
		return nil, 0, ErrInvalidProgram
	}

	return solana.FindProgramAddressAndBump(
		args.Program,
		BridgeStatePrefix,
	)
}

type GetVaultAddressArgs struct {
	BridgeState ed25519.PublicKey
	Mint        ed25519.PublicKey
}

// GetVaultAddress returns the token account holding the bridge's liquidity
// for a mint: the associated token account of the bridge state.
func GetVaultAddress(args *GetVaultAddressArgs) (ed25519.PublicKey, error) {
	return token.GetAssociatedAccount(args.BridgeState, args.Mint)
}
