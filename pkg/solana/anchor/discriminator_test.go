package anchor

import (
	"crypto/sha256"
	"math"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/code-payments/code-token-cli/pkg/solana/borsh"
)

func TestDiscriminator_KnownValues(t *testing.T) {
	for _, tc := range []struct {
		d        Discriminator
		expected Discriminator
	}{
		{InstructionDiscriminator("add_liquidity"), Discriminator{181, 157, 89, 67, 143, 182, 52, 72}},
		{InstructionDiscriminator("remove_liquidity"), Discriminator{80, 85, 209, 72, 24, 206, 177, 108}},
		{InstructionDiscriminator("create"), Discriminator{24, 30, 200, 40, 5, 28, 7, 119}},
	} {
		assert.Equal(t, tc.expected, tc.d)
	}

	assert.Equal(t, "b59d59438fb63448", InstructionDiscriminator("add_liquidity").String())
}

func TestDiscriminator_Hash(t *testing.T) {
	h := sha256.Sum256([]byte("global:add_liquidity"))
	assert.EqualValues(t, h[:8], InstructionDiscriminator("add_liquidity").Bytes())

	assert.Equal(t, NewDiscriminator("global", "add_liquidity"), InstructionDiscriminator("add_liquidity"))
	assert.NotEqual(t, InstructionDiscriminator("add_liquidity"), InstructionDiscriminator("add_liquidityy"))
	assert.NotEqual(t, InstructionDiscriminator("add_liquidity"), NewDiscriminator("state", "add_liquidity"))
}

func TestNewInstructionData(t *testing.T) {
	d := InstructionDiscriminator("add_liquidity")

	data, err := NewInstructionData(d, borsh.U64("amount", 1_000_000))
	require.NoError(t, err)
	assert.Equal(t, []byte{181, 157, 89, 67, 143, 182, 52, 72, 0x40, 0x42, 0x0f, 0, 0, 0, 0, 0}, data)

	actual, args, err := SplitInstructionData(data)
	require.NoError(t, err)
	assert.Equal(t, d, actual)

	decoded, err := borsh.Decode(args, borsh.Schema("amount", borsh.KindU64))
	require.NoError(t, err)
	assert.EqualValues(t, 1_000_000, decoded[0].Value)

	data, err = NewInstructionData(d, borsh.U64("amount", math.MaxUint64))
	require.NoError(t, err)
	assert.Equal(t, []byte{0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff}, data[8:])

	_, err = NewInstructionData(d, borsh.U8("decimals", 300))
	assert.True(t, errors.Is(err, borsh.ErrEncodingRange))

	_, _, err = SplitInstructionData([]byte{1, 2})
	assert.Error(t, err)
}
