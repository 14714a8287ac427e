package metadata

import (
	"bytes"
	"crypto/ed25519"

	bin "github.com/gagliardetto/binary"

	"github.com/code-payments/code-token-cli/pkg/solana"
)

const (
	MintV1InstructionArgsSize = (8 + // amount
		1) // authorization_data
)

type MintV1InstructionArgs struct {
	Amount uint64
}

type MintV1InstructionAccounts struct {
	Token                     ed25519.PublicKey
	TokenOwner                ed25519.PublicKey // optional
	Metadata                  ed25519.PublicKey
	MasterEdition             ed25519.PublicKey // optional
	TokenRecord               ed25519.PublicKey // optional
	Mint                      ed25519.PublicKey
	Authority                 ed25519.PublicKey
	DelegateRecord            ed25519.PublicKey // optional
	Payer                     ed25519.PublicKey
	SystemProgram             ed25519.PublicKey // defaults to the system program
	SysvarInstructions        ed25519.PublicKey // defaults to the instructions sysvar
	SplTokenProgram           ed25519.PublicKey // defaults to spl-token
	SplAtaProgram             ed25519.PublicKey // defaults to the associated token account program
	AuthorizationRulesProgram ed25519.PublicKey // optional
	AuthorizationRules        ed25519.PublicKey // optional
}

// NewMintV1Instruction mints tokens of an asset into a token account,
// creating the associated token account when needed.
func NewMintV1Instruction(
	accounts *MintV1InstructionAccounts,
	args *MintV1InstructionArgs,
) (solana.Instruction, error) {
	data, err := amountInstructionData(instructionTypeMint, args.Amount)
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
			optionalAccount(accounts.TokenOwner, false, false),
			{
				PublicKey:  accounts.Metadata,
				IsWritable: false,
				IsSigner:   false,
			},
			optionalAccount(accounts.MasterEdition, false, false),
			optionalAccount(accounts.TokenRecord, true, false),
			{
				PublicKey:  accounts.Mint,
				IsWritable: true,
				IsSigner:   false,
			},
			{
				PublicKey:  accounts.Authority,
				IsWritable: false,
				IsSigner:   true,
			},
			optionalAccount(accounts.DelegateRecord, false, false),
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

// amountInstructionData encodes the data shared by the V1 mint and transfer
// instructions: the discriminators, an amount and no authorization data.
func amountInstructionData(ixType instructionType, amount uint64) ([]byte, error) {
	var buf bytes.Buffer
	buf.Grow(2 + MintV1InstructionArgsSize)
	buf.Write([]byte{byte(ixType), instructionVersionV1})

	enc := bin.NewBorshEncoder(&buf)
	if err := enc.WriteUint64(amount, bin.LE); err != nil {
		return nil, err
	}
	if err := enc.WriteOption(false); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
