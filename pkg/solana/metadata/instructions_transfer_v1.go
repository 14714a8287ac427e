package metadata

import (
	"crypto/ed25519"

	"github.com/code-payments/code-token-cli/pkg/solana"
)

type TransferV1InstructionArgs struct {
	Amount uint64
}

type TransferV1InstructionAccounts struct {
	Token                     ed25519.PublicKey
	TokenOwner                ed25519.PublicKey
	DestinationToken          ed25519.PublicKey
	DestinationOwner          ed25519.PublicKey
	Mint                      ed25519.PublicKey
	Metadata                  ed25519.PublicKey
	Edition                   ed25519.PublicKey // optional
	TokenRecord               ed25519.PublicKey // optional
	DestinationTokenRecord    ed25519.PublicKey // optional
	Authority                 ed25519.PublicKey
	Payer                     ed25519.PublicKey
	SystemProgram             ed25519.PublicKey // defaults to the system program
	SysvarInstructions        ed25519.PublicKey // defaults to the instructions sysvar
	SplTokenProgram           ed25519.PublicKey // defaults to spl-token
	SplAtaProgram             ed25519.PublicKey // defaults to the associated token account program
	AuthorizationRulesProgram ed25519.PublicKey // optional
	AuthorizationRules        ed25519.PublicKey // optional
}

// NewTransferV1Instruction transfers tokens of an asset between token
// accounts, creating the destination associated token account when needed.
func NewTransferV1Instruction(
	accounts *TransferV1InstructionAccounts,
	args *TransferV1InstructionArgs,
) (solana.Instruction, error) {
	data, err := amountInstructionData(instructionTypeTransfer, args.Amount)
	if err != nil {
		return solana.Instruction{}, err
	}

	return solana.Instruction{
		Program: PROGRAM_ADDRESS,

		// Instruction args
		Data: data,

		// Instruction accounts
		Accounts: []solana.AccountMeta{
			{
				PublicKey:  accounts.Token,
				IsWritable: true,
				IsSigner:   false,
			},
			{
				PublicKey:  accounts.TokenOwner,
				IsWritable: false,
				IsSigner:   false,
			},
			{
				PublicKey:  accounts.DestinationToken,
				IsWritable: true,
				IsSigner:   false,
			},
			{
				PublicKey:  accounts.DestinationOwner,
				IsWritable: false,
				IsSigner:   false,
			},
			{
				PublicKey:  accounts.Mint,
				IsWritable: false,
				IsSigner:   false,
			},
			{
				PublicKey:  accounts.Metadata,
				IsWritable: true,
				IsSigner:   false,
			},
			optionalAccount(accounts.Edition, false, false),
			optionalAccount(accounts.TokenRecord, true, false),
			optionalAccount(accounts.DestinationTokenRecord, true, false),
			{
				PublicKey:  accounts.Authority,
				IsWritable: false,
				IsSigner:   true,
			},
			{
				PublicKey:  accounts.Payer,
				IsWritable: true,
				IsSigner:   true,
			},
			{
				PublicKey:  orDefault(accounts.SystemProgram, SYSTEM_PROGRAM_ID),
				IsWritable: false,
				IsSigner:   false,
			},
			{
				PublicKey:  orDefault(accounts.SysvarInstructions, SYSVAR_INSTRUCTIONS_PUBKEY),
				IsWritable: false,
				IsSigner:   false,
			},
			{
				PublicKey:  orDefault(accounts.SplTokenProgram, SPL_TOKEN_PROGRAM_ID),
				IsWritable: false,
				IsSigner:   false,
			},
			{
				PublicKey:  orDefault(accounts.SplAtaProgram, SPL_ASSOCIATED_TOKEN_ACCOUNT_PROGRAM_ID),
				IsWritable: false,
				IsSigner:   false,
			},
			optionalAccount(accounts.AuthorizationRulesProgram, false, false),
			optionalAccount(accounts.AuthorizationRules, false, false),
		},
	}, nil
}
