package tokenops

import (
	"bytes"
	"crypto/ed25519"

	"github.com/pkg/errors"

	"github.com/code-payments/code-token-cli/pkg/solana"
	"github.com/code-payments/code-token-cli/pkg/solana/bridge"
	"github.com/code-payments/code-token-cli/pkg/solana/metadata"
	"github.com/code-payments/code-token-cli/pkg/solana/token"
)

// BuildOption configures BuildInstruction.
type BuildOption func(*buildOpts)

type buildOpts struct {
	validateMetadata bool
}

// WithMetadataValidation toggles the client-side checks of metadata string
// lengths and seller fee. They are enabled by default. When disabled, values
// the metadata program would reject are only caught on chain.
func WithMetadataValidation(enabled bool) BuildOption {
	return func(o *buildOpts) {
		o.validateMetadata = enabled
	}
}

// BuildInstruction derives the addresses op needs and builds its instruction.
// It performs no I/O.
func BuildInstruction(op Operation, opts ...BuildOption) (solana.Instruction, error) {
	o := &buildOpts{validateMetadata: true}
	for _, opt := range opts {
		opt(o)
	}

	switch typed := op.(type) {
	case CreateFungible:
		return buildCreateFungible(typed, o)
	case MintTo:
		return buildMintTo(typed)
	case Transfer:
		return buildTransfer(typed)
	case Freeze:
		return buildFreezeOrThaw(typed.Mint, typed.FreezeAuthority, typed.Holder, token.FreezeAccount)
	case Thaw:
		return buildFreezeOrThaw(typed.Mint, typed.FreezeAuthority, typed.Holder, token.ThawAccount)
	case UpdateMetadata:
		return buildUpdateMetadata(typed, o)
	case UpdateAuthority:
		return buildUpdateAuthority(typed)
	case AddLiquidity:
		return buildAddLiquidity(typed)
	case nil:
		return solana.Instruction{}, errors.Wrap(ErrInvalidOperation, "nil operation")
	default:
		return solana.Instruction{}, errors.Wrapf(ErrInvalidOperation, "unsupported operation %T", op)
	}
}

func buildCreateFungible(op CreateFungible, o *buildOpts) (solana.Instruction, error) {
	if err := requireKeys(
		namedKey{"mint", op.Mint},
		namedKey{"authority", op.Authority},
	); err != nil {
		return solana.Instruction{}, err
	}

	if o.validateMetadata {
		data := metadata.DataV2{Name: op.Name, Symbol: op.Symbol, Uri: op.Uri}
		if err := data.Validate(); err != nil {
			return solana.Instruction{}, errors.Wrap(ErrMetadataValidation, err.Error())
		}
	}

	metadataAddress, _, err := metadata.GetMetadataAddress(&metadata.GetMetadataAddressArgs{
		Mint: op.Mint,
	})
	if err != nil {
		return solana.Instruction{}, errors.Wrap(err, "error deriving metadata address")
	}

	decimals := op.Decimals
	return metadata.NewCreateV1Instruction(
		&metadata.CreateV1InstructionAccounts{
			Metadata:                metadataAddress,
			Mint:                    op.Mint,
			MintIsSigner:            true,
			Authority:               op.Authority,
			Payer:                   op.Authority,
			UpdateAuthority:         op.Authority,
			UpdateAuthorityIsSigner: true,
			SplTokenProgram:         token.ProgramKey,
		},
		&metadata.CreateV1InstructionArgs{
			Name:          op.Name,
			Symbol:        op.Symbol,
			Uri:           op.Uri,
			IsMutable:     true,
			TokenStandard: metadata.TokenStandardFungible,
			Decimals:      &decimals,
		},
	)
}

func buildMintTo(op MintTo) (solana.Instruction, error) {
	if err := requireKeys(
		namedKey{"mint", op.Mint},
		namedKey{"authority", op.Authority},
		namedKey{"receiver", op.Receiver},
	); err != nil {
		return solana.Instruction{}, err
	}

	metadataAddress, receiverAta, err := deriveMetadataAndAta(op.Mint, op.Receiver)
	if err != nil {
		return solana.Instruction{}, err
	}

	return metadata.NewMintV1Instruction(
		&metadata.MintV1InstructionAccounts{
			Token:      receiverAta,
			TokenOwner: op.Receiver,
			Metadata:   metadataAddress,
			Mint:       op.Mint,
			Authority:  op.Authority,
			Payer:      op.Authority,
		},
		&metadata.MintV1InstructionArgs{
			Amount: op.Amount,
		},
	)
}

func buildTransfer(op Transfer) (solana.Instruction, error) {
	if err := requireKeys(
		namedKey{"mint", op.Mint},
		namedKey{"owner", op.Owner},
		namedKey{"destination", op.Destination},
	); err != nil {
		return solana.Instruction{}, err
	}

	metadataAddress, sourceAta, err := deriveMetadataAndAta(op.Mint, op.Owner)
	if err != nil {
		return solana.Instruction{}, err
	}

	destinationAta, err := token.GetAssociatedAccount(op.Destination, op.Mint)
	if err != nil {
		return solana.Instruction{}, errors.Wrap(err, "error deriving destination token account")
	}

	return metadata.NewTransferV1Instruction(
		&metadata.TransferV1InstructionAccounts{
			Token:            sourceAta,
			TokenOwner:       op.Owner,
			DestinationToken: destinationAta,
			DestinationOwner: op.Destination,
			Mint:             op.Mint,
			Metadata:         metadataAddress,
			Authority:        op.Owner,
			Payer:            op.Owner,
		},
		&metadata.TransferV1InstructionArgs{
			Amount: op.Amount,
		},
	)
}

func buildFreezeOrThaw(
	mint, freezeAuthority, holder ed25519.PublicKey,
	build func(account, mint, freezeAuthority ed25519.PublicKey) solana.Instruction,
) (solana.Instruction, error) {
	if err := requireKeys(
		namedKey{"mint", mint},
		namedKey{"freeze authority", freezeAuthority},
		namedKey{"holder", holder},
	); err != nil {
		return solana.Instruction{}, err
	}

	account, err := token.GetAssociatedAccount(holder, mint)
	if err != nil {
		return solana.Instruction{}, errors.Wrap(err, "error deriving token account")
	}

	return build(account, mint, freezeAuthority), nil
}

func buildUpdateMetadata(op UpdateMetadata, o *buildOpts) (solana.Instruction, error) {
	if err := requireKeys(
		namedKey{"mint", op.Mint},
		namedKey{"update authority", op.UpdateAuthority},
	); err != nil {
		return solana.Instruction{}, err
	}
	if len(op.Changes.NewUpdateAuthority) > 0 {
		if err := requireKeys(namedKey{"new update authority", op.Changes.NewUpdateAuthority}); err != nil {
			return solana.Instruction{}, err
		}
	}

	current := op.Current
	if current == nil {
		if op.Changes.Name != nil || op.Changes.Symbol != nil || op.Changes.Uri != nil || op.Changes.SellerFeeBasisPoints != nil {
			return solana.Instruction{}, errors.Wrap(ErrInvalidOperation, "current metadata is required to change name, symbol, uri or seller fee")
		}
		current = &metadata.MetadataAccount{}
	} else if len(current.Mint) > 0 && !bytes.Equal(current.Mint, op.Mint) {
		return solana.Instruction{}, errors.Wrapf(ErrInvalidOperation, "current metadata belongs to mint %s", keyString(current.Mint))
	}

	args, err := metadata.ApplyUpdate(current, &op.Changes)
	if err != nil {
		return solana.Instruction{}, err
	}

	if o.validateMetadata && args.Data != nil {
		if err := args.Data.Validate(); err != nil {
			return solana.Instruction{}, errors.Wrap(ErrMetadataValidation, err.Error())
		}
	}

	metadataAddress, _, err := metadata.GetMetadataAddress(&metadata.GetMetadataAddressArgs{
		Mint: op.Mint,
	})
	if err != nil {
		return solana.Instruction{}, errors.Wrap(err, "error deriving metadata address")
	}

	return metadata.NewUpdateMetadataAccountV2Instruction(
		&metadata.UpdateMetadataAccountV2InstructionAccounts{
			Metadata:        metadataAddress,
			UpdateAuthority: op.UpdateAuthority,
		},
		args,
	)
}

func buildUpdateAuthority(op UpdateAuthority) (solana.Instruction, error) {
	if err := requireKeys(
		namedKey{"mint", op.Mint},
		namedKey{"current authority", op.CurrentAuthority},
	); err != nil {
		return solana.Instruction{}, err
	}

	switch op.Type {
	case token.AuthorityTypeMintTokens, token.AuthorityTypeFreezeAccount:
	default:
		return solana.Instruction{}, errors.Wrapf(ErrInvalidOperation, "%s authority cannot be changed on a mint", op.Type)
	}

	if len(op.NewAuthority) > 0 {
		if err := requireKeys(namedKey{"new authority", op.NewAuthority}); err != nil {
			return solana.Instruction{}, err
		}
	}

	return token.SetAuthority(op.Mint, op.CurrentAuthority, op.NewAuthority, op.Type), nil
}

func buildAddLiquidity(op AddLiquidity) (solana.Instruction, error) {
	if err := requireKeys(
		namedKey{"program", op.Program},
		namedKey{"mint", op.Mint},
		namedKey{"depositor", op.Depositor},
	); err != nil {
		return solana.Instruction{}, err
	}

	bridgeState, _, err := bridge.GetBridgeStateAddress(&bridge.GetBridgeStateAddressArgs{
		Program: op.Program,
	})
	if err != nil {
		return solana.Instruction{}, errors.Wrap(err, "error deriving bridge state address")
	}

	vault, err := bridge.GetVaultAddress(&bridge.GetVaultAddressArgs{
		BridgeState: bridgeState,
		Mint:        op.Mint,
	})
	if err != nil {
		return solana.Instruction{}, errors.Wrap(err, "error deriving vault address")
	}

	depositorAta, err := token.GetAssociatedAccount(op.Depositor, op.Mint)
	if err != nil {
		return solana.Instruction{}, errors.Wrap(err, "error deriving depositor token account")
	}

	return bridge.NewAddLiquidityInstruction(
		op.Program,
		&bridge.AddLiquidityInstructionAccounts{
			BridgeState: bridgeState,
			Vault:       vault,
			Signer:      op.Depositor,
			Mint:        op.Mint,
			SignerAta:   depositorAta,
		},
		&bridge.AddLiquidityInstructionArgs{
			Amount: op.Amount,
		},
	)
}

func deriveMetadataAndAta(mint, owner ed25519.PublicKey) (ed25519.PublicKey, ed25519.PublicKey, error) {
	metadataAddress, _, err := metadata.GetMetadataAddress(&metadata.GetMetadataAddressArgs{
		Mint: mint,
	})
	if err != nil {
		return nil, nil, errors.Wrap(err, "error deriving metadata address")
	}

	ata, err := token.GetAssociatedAccount(owner, mint)
	if err != nil {
		return nil, nil, errors.Wrap(err, "error deriving token account")
	}

	return metadataAddress, ata, nil
}
