// Package bridge builds instructions for the token bridge program, an Anchor
// program that holds liquidity in a vault owned by its state account.
package bridge

import (
	"github.com/pkg/errors"

	"github.com/code-payments/code-token-cli/pkg/solana/anchor"
	"github.com/code-payments/code-token-cli/pkg/solana/system"
	"github.com/code-payments/code-token-cli/pkg/solana/token"
)

var (
	ErrInvalidProgram  = errors.New("invalid program id")
	ErrNotAddLiquidity = errors.New("not an add_liquidity instruction")
)

var (
	SYSTEM_PROGRAM_ID                       = system.ProgramKey
	SPL_TOKEN_PROGRAM_ID                    = token.ProgramKey
	SPL_ASSOCIATED_TOKEN_ACCOUNT_PROGRAM_ID = token.AssociatedTokenAccountProgramKey
)

var AddLiquidityInstructionDiscriminator = anchor.InstructionDiscriminator("add_liquidity")
