package metadata

import (
	"crypto/ed25519"
	"fmt"
	"strings"

	bin "github.com/gagliardetto/binary"
	"github.com/pkg/errors"
)

// KeyMetadataV1 is the account type tag of a metadata account.
const KeyMetadataV1 uint8 = 4

const (
	MetadataAccountMinSize = (1 + // key
		32 + // update_authority
		32 + // mint
		4 + // name
		4 + // symbol
		4 + // uri
		2 + // seller_fee_basis_points
		1 + // creators
		1 + // primary_sale_happened
		1) // is_mutable
)

// MetadataAccount is the decoded state of a metadata account. Strings are
// stored null padded on chain and are trimmed when decoded.
type MetadataAccount struct {
	Key                 uint8
	UpdateAuthority     ed25519.PublicKey
	Mint                ed25519.PublicKey
	Data                DataV2
	PrimarySaleHappened bool
	IsMutable           bool
	EditionNonce        *uint8
	TokenStandard       *TokenStandard
}

func (obj *MetadataAccount) Unmarshal(data []byte) error {
	if len(data) < MetadataAccountMinSize {
		return ErrInvalidAccountData
	}

	if err := obj.UnmarshalWithDecoder(bin.NewBorshDecoder(data)); err != nil {
		return errors.Wrap(ErrInvalidAccountData, err.Error())
	}
	return nil
}

func (obj *MetadataAccount) UnmarshalWithDecoder(dec *bin.Decoder) (err error) {
	if obj.Key, err = dec.ReadUint8(); err != nil {
		return err
	}
	if obj.Key != KeyMetadataV1 {
		return errors.Errorf("unexpected account key %d", obj.Key)
	}
	if obj.UpdateAuthority, err = readKey(dec); err != nil {
		return err
	}
	if obj.Mint, err = readKey(dec); err != nil {
		return err
	}

	var name, symbol, uri string
	if name, symbol, uri, err = readNameSymbolUri(dec); err != nil {
		return err
	}
	obj.Data.Name = removeFixedStringPadding(name)
	obj.Data.Symbol = removeFixedStringPadding(symbol)
	obj.Data.Uri = removeFixedStringPadding(uri)

	if obj.Data.SellerFeeBasisPoints, err = dec.ReadUint16(bin.LE); err != nil {
		return err
	}
	if obj.Data.Creators, err = readCreators(dec); err != nil {
		return err
	}
	if obj.PrimarySaleHappened, err = dec.ReadBool(); err != nil {
		return err
	}
	if obj.IsMutable, err = dec.ReadBool(); err != nil {
		return err
	}

	// Older accounts end here; everything after is optional.
	if !dec.HasRemaining() {
		return nil
	}
	if obj.EditionNonce, err = readOptionalUint8(dec); err != nil {
		return err
	}

	if !dec.HasRemaining() {
		return nil
	}
	standard, err := readOptionalUint8(dec)
	if err != nil {
		return err
	}
	if standard != nil {
		ts := TokenStandard(*standard)
		obj.TokenStandard = &ts
	}

	if !dec.HasRemaining() {
		return nil
	}
	if obj.Data.Collection, err = readCollection(dec); err != nil {
		return err
	}

	if !dec.HasRemaining() {
		return nil
	}
	obj.Data.Uses, err = readUses(dec)
	return err
}

func (obj *MetadataAccount) String() string {
	tokenStandard := "<none>"
	if obj.TokenStandard != nil {
		tokenStandard = obj.TokenStandard.String()
	}

	return fmt.Sprintf(
		"Metadata{update_authority=%s,mint=%s,name=%s,symbol=%s,uri=%s,seller_fee_basis_points=%d,creators=%d,primary_sale_happened=%t,is_mutable=%t,token_standard=%s,collection=%t,uses=%t}",
		keyString(obj.UpdateAuthority),
		keyString(obj.Mint),
		obj.Data.Name,
		obj.Data.Symbol,
		obj.Data.Uri,
		obj.Data.SellerFeeBasisPoints,
		len(obj.Data.Creators),
		obj.PrimarySaleHappened,
		obj.IsMutable,
		tokenStandard,
		obj.Data.Collection != nil,
		obj.Data.Uses != nil,
	)
}

func readOptionalUint8(dec *bin.Decoder) (*uint8, error) {
	ok, err := dec.ReadOption()
	if err != nil || !ok {
		return nil, err
	}
	v, err := dec.ReadUint8()
	if err != nil {
		return nil, err
	}
	return &v, nil
}

func removeFixedStringPadding(value string) string {
	return strings.TrimRight(value, "\x00")
}
