package metadata

import (
	"bytes"
	"crypto/ed25519"

	bin "github.com/gagliardetto/binary"

	"github.com/code-payments/code-token-cli/pkg/solana"
)

// UpdateMetadataAccountV2InstructionArgs holds the optional changes. Nil
// fields are left unchanged by the program.
type UpdateMetadataAccountV2InstructionArgs struct {
	Data                *DataV2
	NewUpdateAuthority  ed25519.PublicKey
	PrimarySaleHappened *bool
	IsMutable           *bool
}

type UpdateMetadataAccountV2InstructionAccounts struct {
	Metadata        ed25519.PublicKey
	UpdateAuthority ed25519.PublicKey
}

func (args *UpdateMetadataAccountV2InstructionArgs) MarshalWithEncoder(enc *bin.Encoder) error {
	if err := writeOptional(enc, args.Data != nil, args.Data); err != nil {
		return err
	}

	if err := enc.WriteOption(len(args.NewUpdateAuthority) > 0); err != nil {
		return err
	}
	if len(args.NewUpdateAuthority) > 0 {
		if err := writeKey(enc, args.NewUpdateAuthority); err != nil {
			return err
		}
	}

	for _, flag := range []*bool{args.PrimarySaleHappened, args.IsMutable} {
		if err := enc.WriteOption(flag != nil); err != nil {
			return err
		}
		if flag != nil {
			if err := enc.WriteBool(*flag); err != nil {
				return err
			}
		}
	}
	return nil
}

func (args *UpdateMetadataAccountV2InstructionArgs) UnmarshalWithDecoder(dec *bin.Decoder) error {
	ok, err := dec.ReadOption()
	if err != nil {
		return err
	}
	if ok {
		args.Data = new(DataV2)
		if err := args.Data.UnmarshalWithDecoder(dec); err != nil {
			return err
		}
	}

	if ok, err = dec.ReadOption(); err != nil {
		return err
	}
	if ok {
		if args.NewUpdateAuthority, err = readKey(dec); err != nil {
			return err
		}
	}

	for _, dst := range []**bool{&args.PrimarySaleHappened, &args.IsMutable} {
		if ok, err = dec.ReadOption(); err != nil {
			return err
		}
		if ok {
			v, err := dec.ReadBool()
			if err != nil {
				return err
			}
			*dst = &v
		}
	}
	return nil
}

// NewUpdateMetadataAccountV2Instruction updates the data, update authority,
// primary sale flag or mutability of a metadata account.
func NewUpdateMetadataAccountV2Instruction(
	accounts *UpdateMetadataAccountV2InstructionAccounts,
	args *UpdateMetadataAccountV2InstructionArgs,
) (solana.Instruction, error) {
	var buf bytes.Buffer
	buf.WriteByte(byte(instructionTypeUpdateMetadataAccountV2))
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
			{
				PublicKey:  accounts.UpdateAuthority,
				IsWritable: false,
				IsSigner:   true,
			},
		},
	}, nil
}
