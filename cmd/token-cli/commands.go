package main

import (
	"crypto/ed25519"
	"fmt"

	"github.com/mr-tron/base58"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/code-payments/code-token-cli/pkg/keypair"
	"github.com/code-payments/code-token-cli/pkg/pointer"
	"github.com/code-payments/code-token-cli/pkg/solana"
	"github.com/code-payments/code-token-cli/pkg/solana/metadata"
	"github.com/code-payments/code-token-cli/pkg/tokenops"
)

// withSession opens a session for the duration of fn.
func withSession(flags *globalFlags, fn func(cmd *cobra.Command, s *session, args []string) error) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		s, err := openSession(cmd, flags)
		if err != nil {
			return err
		}
		defer s.close()

		return fn(cmd, s, args)
	}
}

func newCreateTokenCmd(flags *globalFlags) *cobra.Command {
	var saveMintKeypair string

	cmd := &cobra.Command{
		Use:   "create-token DECIMALS NAME SYMBOL URI [MINT_KEYPAIR]",
		Short: "Creates a new token with metadata",
		Long:  "Creates a new fungible token and its metadata account. The configured keypair pays and becomes the mint, freeze and update authority. A new mint keypair is generated unless MINT_KEYPAIR is given.",
		Args:  cobra.RangeArgs(4, 5),
	}

	cmd.Flags().StringVar(&saveMintKeypair, "save-mint-keypair", "", "Write a generated mint keypair to this path")

	cmd.RunE = withSession(flags, func(cmd *cobra.Command, s *session, args []string) error {
		decimals, err := parseDecimals(args[0])
		if err != nil {
			return err
		}

		var mintKey ed25519.PrivateKey
		if len(args) == 5 {
			mintKey, err = keypair.Load(args[4])
		} else {
			mintKey, err = keypair.Generate()
		}
		if err != nil {
			return err
		}

		mint, err := solana.NewKeypairSigner(mintKey)
		if err != nil {
			return err
		}

		if len(saveMintKeypair) > 0 && len(args) < 5 && !s.dryRun {
			if err := keypair.Save(saveMintKeypair, mintKey); err != nil {
				return err
			}
		}

		fmt.Fprintf(cmd.OutOrStdout(), "Mint: %s\n", base58.Encode(mint.PublicKey()))

		return s.run(cmd, tokenops.CreateFungible{
			Mint:      mint.PublicKey(),
			Authority: s.payer.PublicKey(),
			Name:      args[1],
			Symbol:    args[2],
			Uri:       args[3],
			Decimals:  decimals,
		}, mint)
	})

	return cmd
}

func newMintToCmd(flags *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "mint-to RECEIVER_ACCOUNT MINT AMOUNT",
		Short: "Mints tokens to a specific account",
		Long:  "Mints AMOUNT base units to the associated token account of RECEIVER_ACCOUNT, creating it if needed. The configured keypair must be the mint authority.",
		Args:  cobra.ExactArgs(3),
		RunE: withSession(flags, func(cmd *cobra.Command, s *session, args []string) error {
			receiver, err := parsePublicKey("receiver account", args[0])
			if err != nil {
				return err
			}
			mint, err := parsePublicKey("mint", args[1])
			if err != nil {
				return err
			}
			amount, err := parseAmount(args[2])
			if err != nil {
				return err
			}

			return s.run(cmd, tokenops.MintTo{
				Mint:      mint,
				Authority: s.payer.PublicKey(),
				Receiver:  receiver,
				Amount:    amount,
			})
		}),
	}
}

func newTransferToCmd(flags *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "transfer-to RECEIVER_ACCOUNT MINT AMOUNT",
		Short: "Transfer tokens from signer to receiver",
		Long:  "Transfers AMOUNT base units from the associated token account of the configured keypair to that of RECEIVER_ACCOUNT, creating it if needed.",
		Args:  cobra.ExactArgs(3),
		RunE: withSession(flags, func(cmd *cobra.Command, s *session, args []string) error {
			receiver, err := parsePublicKey("receiver account", args[0])
			if err != nil {
				return err
			}
			mint, err := parsePublicKey("mint", args[1])
			if err != nil {
				return err
			}
			amount, err := parseAmount(args[2])
			if err != nil {
				return err
			}

			return s.run(cmd, tokenops.Transfer{
				Mint:        mint,
				Owner:       s.payer.PublicKey(),
				Destination: receiver,
				Amount:      amount,
			})
		}),
	}
}

func newFreezeCmd(flags *globalFlags, freeze bool) *cobra.Command {
	use, short := "unfreeze ACCOUNT MINT", "Unfreeze an account"
	if freeze {
		use, short = "freeze ACCOUNT MINT", "Freeze an account"
	}

	return &cobra.Command{
		Use:   use,
		Short: short,
		Long:  short + ". ACCOUNT is the wallet whose associated token account is affected. The configured keypair must be the freeze authority.",
		Args:  cobra.ExactArgs(2),
		RunE: withSession(flags, func(cmd *cobra.Command, s *session, args []string) error {
			holder, err := parsePublicKey("account", args[0])
			if err != nil {
				return err
			}
			mint, err := parsePublicKey("mint", args[1])
			if err != nil {
				return err
			}

			if freeze {
				return s.run(cmd, tokenops.Freeze{Mint: mint, FreezeAuthority: s.payer.PublicKey(), Holder: holder})
			}
			return s.run(cmd, tokenops.Thaw{Mint: mint, FreezeAuthority: s.payer.PublicKey(), Holder: holder})
		}),
	}
}

func newUpdateMetadataCmd(flags *globalFlags) *cobra.Command {
	var (
		name, symbol, uri  string
		sellerFee          uint16
		isMutable          bool
		newUpdateAuthority string
	)

	cmd := &cobra.Command{
		Use:   "update-metadata MINT",
		Short: "Updates metadata for a token",
		Long:  "Updates the metadata account of MINT. Only the fields given as flags change. The configured keypair must be the update authority.",
		Args:  cobra.ExactArgs(1),
	}

	fs := cmd.Flags()
	fs.StringVar(&name, "name", "", "New name")
	fs.StringVar(&symbol, "symbol", "", "New symbol")
	fs.StringVar(&uri, "uri", "", "New URI")
	fs.Uint16Var(&sellerFee, "seller-fee-basis-points", 0, "New seller fee basis points")
	fs.BoolVar(&isMutable, "mutable", true, "Whether the metadata stays mutable")
	fs.StringVar(&newUpdateAuthority, "new-update-authority", "", "New update authority address")

	cmd.RunE = withSession(flags, func(cmd *cobra.Command, s *session, args []string) error {
		mint, err := parsePublicKey("mint", args[0])
		if err != nil {
			return err
		}

		changes := metadata.MetadataChanges{
			Name:                 pointer.IfValid(fs.Changed("name"), name),
			Symbol:               pointer.IfValid(fs.Changed("symbol"), symbol),
			Uri:                  pointer.IfValid(fs.Changed("uri"), uri),
			SellerFeeBasisPoints: pointer.IfValid(fs.Changed("seller-fee-basis-points"), sellerFee),
			IsMutable:            pointer.IfValid(fs.Changed("mutable"), isMutable),
		}
		if fs.Changed("new-update-authority") {
			changes.NewUpdateAuthority, err = parsePublicKey("new update authority", newUpdateAuthority)
			if err != nil {
				return err
			}
		}

		current, err := s.pipeline.CurrentMetadata(s.ctx, mint)
		if err != nil {
			return err
		}

		fmt.Fprintln(cmd.OutOrStdout(), "Current metadata:")
		fmt.Fprintln(cmd.OutOrStdout(), current.String())

		return s.run(cmd, tokenops.UpdateMetadata{
			Mint:            mint,
			UpdateAuthority: s.payer.PublicKey(),
			Current:         current,
			Changes:         changes,
		})
	})

	return cmd
}

func newUpdateAuthorityCmd(flags *globalFlags) *cobra.Command {
	var (
		authorityType string
		newAuthority  string
		revoke        bool
	)

	cmd := &cobra.Command{
		Use:   "update-authority MINT",
		Short: "Updates authorities for a token (mint, freeze)",
		Long:  "Sets the mint or freeze authority of MINT to a new address, or revokes it. The configured keypair must hold the current authority.",
		Args:  cobra.ExactArgs(1),
	}

	fs := cmd.Flags()
	fs.StringVar(&authorityType, "type", "mint", "Authority to change: mint or freeze")
	fs.StringVar(&newAuthority, "new-authority", "", "New authority address")
	fs.BoolVar(&revoke, "revoke", false, "Revoke the authority permanently")

	cmd.RunE = withSession(flags, func(cmd *cobra.Command, s *session, args []string) error {
		mint, err := parsePublicKey("mint", args[0])
		if err != nil {
			return err
		}
		typ, err := parseAuthorityType(authorityType)
		if err != nil {
			return err
		}

		if revoke == (len(newAuthority) > 0) {
			return errors.New("exactly one of --new-authority or --revoke is required")
		}

		var next ed25519.PublicKey
		if !revoke {
			next, err = parsePublicKey("new authority", newAuthority)
			if err != nil {
				return err
			}
		}

		return s.run(cmd, tokenops.UpdateAuthority{
			Mint:             mint,
			CurrentAuthority: s.payer.PublicKey(),
			Type:             typ,
			NewAuthority:     next,
		})
	})

	return cmd
}

func newAddLiquidityCmd(flags *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "add-liquidity AMOUNT MINT_OF_TOKEN_SENT [PROGRAM_ID]",
		Short: "Add token supply to bridge contract as liquidity",
		Long:  "Deposits AMOUNT base units from the associated token account of the configured keypair into the bridge vault. PROGRAM_ID defaults to bridge_program_id from the configuration.",
		Args:  cobra.RangeArgs(2, 3),
		RunE: withSession(flags, func(cmd *cobra.Command, s *session, args []string) error {
			amount, err := parseAmount(args[0])
			if err != nil {
				return err
			}
			mint, err := parsePublicKey("mint", args[1])
			if err != nil {
				return err
			}

			programID := s.config.BridgeProgramId
			if len(args) == 3 {
				programID = args[2]
			}
			if len(programID) == 0 {
				return errors.New("no bridge program id: pass PROGRAM_ID or set bridge_program_id")
			}
			program, err := parsePublicKey("program id", programID)
			if err != nil {
				return err
			}

			return s.run(cmd, tokenops.AddLiquidity{
				Program:   program,
				Mint:      mint,
				Depositor: s.payer.PublicKey(),
				Amount:    amount,
			})
		}),
	}
}

func newShowTokenCmd(flags *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "show-token MINT",
		Short: "Shows the mint and metadata of a token",
		Args:  cobra.ExactArgs(1),
		RunE: withSession(flags, func(cmd *cobra.Command, s *session, args []string) error {
			mint, err := parsePublicKey("mint", args[0])
			if err != nil {
				return err
			}

			state, err := s.pipeline.CurrentMint(s.ctx, mint)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Mint: %s\n", base58.Encode(mint))
			fmt.Fprintf(out, "Supply: %d\n", state.Supply)
			fmt.Fprintf(out, "Decimals: %d\n", state.Decimals)
			fmt.Fprintf(out, "Mint authority: %s\n", authorityString(state.MintAuthority))
			fmt.Fprintf(out, "Freeze authority: %s\n", authorityString(state.FreezeAuthority))

			record, err := s.pipeline.CurrentMetadata(s.ctx, mint)
			if errors.Is(err, metadata.ErrMetadataNotFound) {
				fmt.Fprintln(out, "Metadata: <none>")
				return nil
			} else if err != nil {
				return err
			}

			fmt.Fprintf(out, "Metadata: %s\n", record.String())
			return nil
		}),
	}
}

func authorityString(key ed25519.PublicKey) string {
	if len(key) == 0 {
		return "<revoked>"
	}
	return base58.Encode(key)
}
