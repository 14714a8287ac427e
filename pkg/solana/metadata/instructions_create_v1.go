package metadata

import (
	"bytes"
	"crypto/ed25519"

	bin "github.com/gagliardetto/binary"

	"github.com/code-payments/code-token-cli/pkg/solana"
)

type CreateV1InstructionArgs struct {
	Name                 string
	Symbol               string
	Uri                  string
	SellerFeeBasisPoints uint16
	Creators             []Creator
	PrimarySaleHappened  bool
	IsMutable            bool
	TokenStandard        TokenStandard
	Collection           *Collection
	Uses                 *Uses
	Decimals             *uint8
}

type CreateV1InstructionAccounts struct {
	Metadata                ed25519.PublicKey
	MasterEdition           ed25519.PublicKey // optional
	Mint                    ed25519.PublicKey
	MintIsSigner            bool
	Authority               ed25519.PublicKey
	Payer                   ed25519.PublicKey
	UpdateAuthority         ed25519.PublicKey
	UpdateAuthorityIsSigner bool
	SystemProgram           ed25519.PublicKey // defaults to the system program
	SysvarInstructions      ed25519.PublicKey // defaults to the instructions sysvar
	SplTokenProgram         ed25519.PublicKey // optional
}

func (args *CreateV1InstructionArgs) MarshalWithEncoder(enc *bin.Encoder) error {
	if err := writeNameSymbolUri(enc, args.Name, args.Symbol, args.Uri); err != nil {
		return err
	}
	if err := enc.WriteUint16(args.SellerFeeBasisPoints, bin.LE); err != nil {
		return err
	}
	if err := writeCreators(enc, args.Creators); err != nil {
		return err
	}
	if err := enc.WriteBool(args.PrimarySaleHappened); err != nil {
		return err
	}
	if err := enc.WriteBool(args.IsMutable); err != nil {
		return err
	}
	if err := enc.WriteUint8(uint8(args.TokenStandard)); err != nil {
		return err
	}
	if err := writeOptional(enc, args.Collection != nil, args.Collection); err != nil {
		return err
	}
	if err := writeOptional(enc, args.Uses != nil, args.Uses); err != nil {
		return err
	}

	// collection_details and rule_set
	if err := enc.WriteOption(false); err != nil {
		return err
	}
	if err := enc.WriteOption(false); err != nil {
		return err
	}

	if err := enc.WriteOption(args.Decimals != nil); err != nil {
		return err
	}
	if args.Decimals != nil {
		if err := enc.WriteUint8(*args.Decimals); err != nil {
			return err
		}
	}

	// print_supply
	return enc.WriteOption(false)
}

// NewCreateV1Instruction creates the metadata account, and the mint when it
// does not exist yet, for a new asset.
func NewCreateV1Instruction(
	accounts *CreateV1InstructionAccounts,
	args *CreateV1InstructionArgs,
) (solana.Instruction, error) {
	var buf bytes.Buffer
	buf.Write([]byte{byte(instructionTypeCreate), instructionVersionV1})
	if err := args.MarshalWithEncoder(bin.NewBorshEncoder(&buf)); err != nil {
		return solana.Instruction{}, err
	}

	return solana.Instruction{
		Program: PROGRAM_ADDRESS,

		// Instruction args
		Data: buf.Bytes(),

		// Instruction accounts
		Accounts: []solana.AccountMeta{
			{
				PublicKey:  accounts.Metadata,
				IsWritable: true,
				IsSigner:   false,
			},
			optionalAccount(accounts.MasterEdition, true, false),
			{
				PublicKey:  accounts.Mint,
				IsWritable: true,
				IsSigner:   accounts.MintIsSigner,
			},
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
				PublicKey:  accounts.UpdateAuthority,
				IsWritable: false,
				IsSigner:   accounts.UpdateAuthorityIsSigner,
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
			optionalAccount(accounts.SplTokenProgram, false, false),
		},
	}, nil
}
