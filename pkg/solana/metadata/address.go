package metadata

import (
	"crypto/ed25519"

	"github.com/code-payments/code-token-cli/pkg/solana"
)

var MetadataPrefix = []byte("metadata")

type GetMetadataAddressArgs struct {
	Mint ed25519.PublicKey
}

// GetMetadataAddress derives the metadata account of a mint.
func GetMetadataAddress(args *GetMetadataAddressArgs) (ed25519.PublicKey, uint8, error) {
	return solana.FindProgramAddressAndBump(
		PROGRAM_ID,
		MetadataPrefix,
		PROGRAM_ID,
		args.Mint,
	)
}
