package borsh

import (
	"bytes"
	"crypto/ed25519"
	"math"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncode_Layout(t *testing.T) {
	key := ed25519.PublicKey(bytes.Repeat([]byte{7}, ed25519.PublicKeySize))

	actual, err := Encode(
		U8("decimals", 9),
		U16("fee", 500),
		U32("count", 1),
		U64("amount", 1_000_000),
		I64("delta", -2),
		Bool("mutable", true),
		String("name", "TKN"),
		Bytes("blob", []byte{0xaa}),
		PublicKey("owner", key),
	)
	require.NoError(t, err)

	var expected []byte
	expected = append(expected, 9)
	expected = append(expected, 0xf4, 0x01)
	expected = append(expected, 1, 0, 0, 0)
	expected = append(expected, 0x40, 0x42, 0x0f, 0, 0, 0, 0, 0)
	expected = append(expected, 0xfe, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff)
	expected = append(expected, 1)
	expected = append(expected, 3, 0, 0, 0, 'T', 'K', 'N')
	expected = append(expected, 1, 0, 0, 0, 0xaa)
	expected = append(expected, key...)
	assert.Equal(t, expected, actual)
}

func TestEncode_AmountRoundTrip(t *testing.T) {
	for _, amount := range []uint64{0, 1, math.MaxUint64} {
		encoded, err := Encode(U64("amount", amount))
		require.NoError(t, err)
		require.Len(t, encoded, 8)

		decoded, err := Decode(encoded, Schema("amount", KindU64))
		require.NoError(t, err)
		require.Len(t, decoded, 1)
		assert.Equal(t, amount, decoded[0].Value)
	}
}

func TestEncode_Range(t *testing.T) {
	for _, f := range []Field{
		U8("decimals", 256),
		U16("fee", math.MaxUint16+1),
		U32("count", math.MaxUint32+1),
		{Name: "amount", Kind: KindU64, Value: -1},
		{Name: "decimals", Kind: KindU8, Value: int8(-1)},
		{Name: "delta", Kind: KindI64, Value: uint64(math.MaxInt64) + 1},
		PublicKey("owner", make([]byte, 31)),
	} {
		_, err := Encode(U8("ok", 1), f)
		assert.True(t, errors.Is(err, ErrEncodingRange), "%s: %v", f.Name, err)
		assert.Contains(t, err.Error(), f.Name)
	}

	encoded, err := Encode(
		Field{Name: "decimals", Kind: KindU8, Value: 255},
		Field{Name: "amount", Kind: KindU64, Value: int64(math.MaxInt64)},
	)
	require.NoError(t, err)
	assert.Len(t, encoded, 9)
}

func TestEncode_TypeMismatch(t *testing.T) {
	_, err := Encode(Field{Name: "name", Kind: KindString, Value: 1})
	assert.Error(t, err)
	assert.False(t, errors.Is(err, ErrEncodingRange))

	_, err = Encode(Field{Name: "amount", Kind: KindU64, Value: "1"})
	assert.Error(t, err)
}

func TestDecode(t *testing.T) {
	key := ed25519.PublicKey(bytes.Repeat([]byte{3}, ed25519.PublicKeySize))
	encoded, err := Encode(U16("fee", 42), String("uri", "https://x"), PublicKey("owner", key), Bool("flag", false))
	require.NoError(t, err)

	decoded, err := Decode(encoded,
		Schema("fee", KindU16),
		Schema("uri", KindString),
		Schema("owner", KindPublicKey),
		Schema("flag", KindBool),
	)
	require.NoError(t, err)
	assert.Equal(t, uint64(42), decoded[0].Value)
	assert.Equal(t, "https://x", decoded[1].Value)
	assert.Equal(t, key, decoded[2].Value)
	assert.Equal(t, false, decoded[3].Value)

	_, err = Decode(encoded[:len(encoded)-1], Schema("fee", KindU16), Schema("uri", KindString), Schema("owner", KindPublicKey), Schema("flag", KindBool))
	assert.Error(t, err)

	_, err = Decode(encoded, Schema("fee", KindU16))
	assert.Error(t, err)
}

func TestKind_String(t *testing.T) {
	assert.Equal(t, "u64", KindU64.String())
	assert.Equal(t, "pubkey", KindPublicKey.String())
	assert.Equal(t, "Kind(99)", Kind(99).String())
}
