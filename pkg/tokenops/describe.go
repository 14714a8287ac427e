package tokenops

import (
	"bytes"
	"fmt"

	"github.com/mr-tron/base58"

	"github.com/code-payments/code-token-cli/pkg/solana"
	"github.com/code-payments/code-token-cli/pkg/solana/bridge"
	"github.com/code-payments/code-token-cli/pkg/solana/computebudget"
	"github.com/code-payments/code-token-cli/pkg/solana/memo"
	"github.com/code-payments/code-token-cli/pkg/solana/metadata"
	"github.com/code-payments/code-token-cli/pkg/solana/token"
)

// Describe returns one human readable line per instruction of txn, decoding
// the compute budget, memo and bridge deposit instructions the pipeline adds.
func Describe(txn *solana.Transaction) []string {
	lines := make([]string, 0, len(txn.Message.Instructions))
	for i, ixn := range txn.Message.Instructions {
		lines = append(lines, fmt.Sprintf("%d: %s", i, describeInstruction(txn.Message, i, ixn)))
	}
	return lines
}

func describeInstruction(m solana.Message, index int, ixn solana.CompiledInstruction) string {
	if int(ixn.ProgramIndex) >= len(m.Accounts) {
		return fmt.Sprintf("invalid program index %d", ixn.ProgramIndex)
	}
	program := m.Accounts[ixn.ProgramIndex]

	switch {
	case bytes.Equal(program, computebudget.ProgramKey):
		if limit, err := computebudget.ParseSetComputeUnitLimit(ixn.Data); err == nil {
			return fmt.Sprintf("compute budget: set compute unit limit %d", limit)
		}
		if price, err := computebudget.ParseSetComputeUnitPrice(ixn.Data); err == nil {
			return fmt.Sprintf("compute budget: set compute unit price %d micro-lamports", price)
		}
		return fmt.Sprintf("compute budget: %x", ixn.Data)
	case bytes.Equal(program, memo.ProgramKey):
		decompiled, err := memo.DecompileMemo(m, index)
		if err != nil {
			return fmt.Sprintf("memo: %v", err)
		}
		signers := make([]string, len(decompiled.Signers))
		for i, signer := range decompiled.Signers {
			signers[i] = base58.Encode(signer)
		}
		return fmt.Sprintf("memo: %q signers=%v", decompiled.Data, signers)
	case bytes.Equal(program, metadata.PROGRAM_ID):
		return fmt.Sprintf("token metadata: %d accounts, data=%x", len(ixn.Accounts), ixn.Data)
	case bytes.Equal(program, token.ProgramKey):
		return fmt.Sprintf("token: %d accounts, data=%x", len(ixn.Accounts), ixn.Data)
	}

	if args, err := bridge.DecodeAddLiquidityInstructionData(ixn.Data); err == nil {
		return fmt.Sprintf("bridge %s: add_liquidity (%s) amount %d", base58.Encode(program), bridge.AddLiquidityInstructionDiscriminator, args.Amount)
	}

	return fmt.Sprintf("program %s: %d accounts, data=%x", base58.Encode(program), len(ixn.Accounts), ixn.Data)
}
