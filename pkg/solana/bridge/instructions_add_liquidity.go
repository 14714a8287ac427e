package bridge

import (
	"crypto/ed25519"

	"github.com/code-payments/code-token-cli/pkg/solana"
	"github.com/code-payments/code-token-cli/pkg/solana/anchor"
	"github.com/code-payments/code-token-cli/pkg/solana/borsh"
)

type AddLiquidityInstructionArgs struct {
	Amount uint64
}

type AddLiquidityInstructionAccounts struct {
	BridgeState ed25519.PublicKey
	Vault       ed25519.PublicKey
	Signer      ed25519.PublicKey
	Mint        ed25519.PublicKey
	SignerAta   ed25519.PublicKey
}

// NewAddLiquidityInstruction moves tokens from the signer's token account
// into the bridge vault.
func NewAddLiquidityInstruction(
	program ed25519.PublicKey,
	accounts *AddLiquidityInstructionAccounts,
	args *AddLiquidityInstructionArgs,
) (solana.Instruction, error) {
	// Serialize instruction arguments
	data, err := anchor.NewInstructionData(
		AddLiquidityInstructionDiscriminator,
		borsh.U64("amount", args.Amount),
	)
	if err != nil {
		return solana.Instruction{}, err
	}

	return solana.Instruction{
		Program: program,

		// Instruction args
		Data: data,

		// Instruction accounts
		Accounts: []solana.AccountMeta{
			{
				PublicKey:  accounts.BridgeState,
				IsWritable: true,
				IsSigner:   false,
			},
			{
				PublicKey:  accounts.Vault,
				IsWritable: true,
				IsSigner:   false,
			},
			{
				PublicKey:  accounts.Signer,
				IsWritable: false,
				IsSigner:   true,
			},
			{
				PublicKey:  accounts.Mint,
				IsWritable: false,
				IsSigner:   false,
			},
			{
				PublicKey:  accounts.SignerAta,
				IsWritable: true,
				IsSigner:   false,
			},
			{
				PublicKey:  SYSTEM_PROGRAM_ID,
				IsWritable: false,
				IsSigner:   false,
			},
			{
				PublicKey:  SPL_TOKEN_PROGRAM_ID,
				IsWritable: false,
				IsSigner:   false,
			},
			{
				PublicKey:  SPL_ASSOCIATED_TOKEN_ACCOUNT_PROGRAM_ID,
				IsWritable: false,
				IsSigner:   false,
			},
		},
	}, nil
}

// DecodeAddLiquidityInstructionData parses add_liquidity instruction data.
// ErrNotAddLiquidity is returned when the discriminator does not match.
func DecodeAddLiquidityInstructionData(data []byte) (*AddLiquidityInstructionArgs, error) {
	d, rest, err := anchor.SplitInstructionData(data)
	if err != nil {
		return nil, err
	}
	if d != AddLiquidityInstructionDiscriminator {
		return nil, ErrNotAddLiquidity
	}

	fields, err := borsh.Decode(rest, borsh.Schema("amount", borsh.KindU64))
	if err != nil {
		return nil, err
	}

	return &AddLiquidityInstructionArgs{Amount: fields[0].Value.(uint64)}, nil
}
