package metadata

import (
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestApplyUpdate(t *testing.T) {
	keys := generateKeys(t, 3)

	current := &MetadataAccount{
		Key:             KeyMetadataV1,
		UpdateAuthority: keys[0],
		Mint:            keys[1],
		Data: DataV2{
			Name:                 "Token",
			Symbol:               "TKN",
			Uri:                  "https://x",
			SellerFeeBasisPoints: 100,
			Creators:             []Creator{{Address: keys[0], Verified: true, Share: 100}},
			Uses:                 &Uses{UseMethod: UseMethodSingle, Remaining: 1, Total: 1},
		},
		IsMutable: true,
	}

	name := "Renamed"
	fee := uint16(0)
	args, err := ApplyUpdate(current, &MetadataChanges{Name: &name, SellerFeeBasisPoints: &fee})
	require.NoError(t, err)
	require.NotNil(t, args.Data)
	assert.Equal(t, "Renamed", args.Data.Name)
	assert.Equal(t, "TKN", args.Data.Symbol)
	assert.Equal(t, "https://x", args.Data.Uri)
	assert.EqualValues(t, 0, args.Data.SellerFeeBasisPoints)
	assert.Equal(t, current.Data.Creators, args.Data.Creators)
	assert.Equal(t, current.Data.Uses, args.Data.Uses)
	assert.Nil(t, args.IsMutable)
	assert.Nil(t, args.NewUpdateAuthority)
	assert.Nil(t, args.PrimarySaleHappened)

	// The input record is untouched.
	assert.Equal(t, "Token", current.Data.Name)
	assert.EqualValues(t, 100, current.Data.SellerFeeBasisPoints)
	args.Data.Creators[0].Share = 1
	assert.EqualValues(t, 100, current.Data.Creators[0].Share)

	isMutable := false
	args, err = ApplyUpdate(current, &MetadataChanges{IsMutable: &isMutable, NewUpdateAuthority: keys[2]})
	require.NoError(t, err)
	assert.Nil(t, args.Data)
	require.NotNil(t, args.IsMutable)
	assert.False(t, *args.IsMutable)
	assert.Equal(t, keys[2], args.NewUpdateAuthority)

	_, err = ApplyUpdate(current, &MetadataChanges{})
	assert.Equal(t, ErrNoChanges, err)
}

func TestApplyUpdate_NoCurrentRecord(t *testing.T) {
	keys := generateKeys(t, 1)

	symbol := "NEW"
	_, err := ApplyUpdate(nil, &MetadataChanges{Symbol: &symbol})
	assert.True(t, errors.Is(err, ErrInvalidData))

	isMutable := false
	args, err := ApplyUpdate(nil, &MetadataChanges{IsMutable: &isMutable, NewUpdateAuthority: keys[0]})
	require.NoError(t, err)
	assert.Nil(t, args.Data)
	assert.Equal(t, keys[0], args.NewUpdateAuthority)
}
