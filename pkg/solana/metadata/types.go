package metadata

import (
	"crypto/ed25519"
	"fmt"

	bin "github.com/gagliardetto/binary"
	"github.com/mr-tron/base58"
	"github.com/pkg/errors"
)

type TokenStandard uint8

const (
	TokenStandardNonFungible TokenStandard = iota
	TokenStandardFungibleAsset
	TokenStandardFungible
	TokenStandardNonFungibleEdition
	TokenStandardProgrammableNonFungible
	TokenStandardProgrammableNonFungibleEdition
)

func (s TokenStandard) String() string {
	switch s {
	case TokenStandardNonFungible:
		return "NonFungible"
	case TokenStandardFungibleAsset:
		return "FungibleAsset"
	case TokenStandardFungible:
		return "Fungible"
	case TokenStandardNonFungibleEdition:
		return "NonFungibleEdition"
	case TokenStandardProgrammableNonFungible:
		return "ProgrammableNonFungible"
	case TokenStandardProgrammableNonFungibleEdition:
		return "ProgrammableNonFungibleEdition"
	}
	return fmt.Sprintf("TokenStandard(%d)", uint8(s))
}

type UseMethod uint8

const (
	UseMethodBurn UseMethod = iota
	UseMethodMultiple
	UseMethodSingle
)

type Creator struct {
	Address  ed25519.PublicKey
	Verified bool
	Share    uint8
}

func (obj Creator) MarshalWithEncoder(enc *bin.Encoder) error {
	if err := writeKey(enc, obj.Address); err != nil {
		return err
	}
	if err := enc.WriteBool(obj.Verified); err != nil {
		return err
	}
	return enc.WriteUint8(obj.Share)
}

func (obj *Creator) UnmarshalWithDecoder(dec *bin.Decoder) (err error) {
	if obj.Address, err = readKey(dec); err != nil {
		return err
	}
	if obj.Verified, err = dec.ReadBool(); err != nil {
		return err
	}
	obj.Share, err = dec.ReadUint8()
	return err
}

type Collection struct {
	Verified bool
	Key      ed25519.PublicKey
}

func (obj Collection) MarshalWithEncoder(enc *bin.Encoder) error {
	if err := enc.WriteBool(obj.Verified); err != nil {
		return err
	}
	return writeKey(enc, obj.Key)
}

func (obj *Collection) UnmarshalWithDecoder(dec *bin.Decoder) (err error) {
	if obj.Verified, err = dec.ReadBool(); err != nil {
		return err
	}
	obj.Key, err = readKey(dec)
	return err
}

type Uses struct {
	UseMethod UseMethod
	Remaining uint64
	Total     uint64
}

func (obj Uses) MarshalWithEncoder(enc *bin.Encoder) error {
	if err := enc.WriteUint8(uint8(obj.UseMethod)); err != nil {
		return err
	}
	if err := enc.WriteUint64(obj.Remaining, bin.LE); err != nil {
		return err
	}
	return enc.WriteUint64(obj.Total, bin.LE)
}

func (obj *Uses) UnmarshalWithDecoder(dec *bin.Decoder) error {
	method, err := dec.ReadUint8()
	if err != nil {
		return err
	}
	obj.UseMethod = UseMethod(method)
	if obj.Remaining, err = dec.ReadUint64(bin.LE); err != nil {
		return err
	}
	obj.Total, err = dec.ReadUint64(bin.LE)
	return err
}

// DataV2 is the mutable portion of a metadata account.
type DataV2 struct {
	Name                 string
	Symbol               string
	Uri                  string
	SellerFeeBasisPoints uint16
	Creators             []Creator
	Collection           *Collection
	Uses                 *Uses
}

func (obj DataV2) MarshalWithEncoder(enc *bin.Encoder) error {
	if err := writeNameSymbolUri(enc, obj.Name, obj.Symbol, obj.Uri); err != nil {
		return err
	}
	if err := enc.WriteUint16(obj.SellerFeeBasisPoints, bin.LE); err != nil {
		return err
	}
	if err := writeCreators(enc, obj.Creators); err != nil {
		return err
	}
	if err := writeOptional(enc, obj.Collection != nil, obj.Collection); err != nil {
		return err
	}
	return writeOptional(enc, obj.Uses != nil, obj.Uses)
}

func (obj *DataV2) UnmarshalWithDecoder(dec *bin.Decoder) (err error) {
	if obj.Name, obj.Symbol, obj.Uri, err = readNameSymbolUri(dec); err != nil {
		return err
	}
	if obj.SellerFeeBasisPoints, err = dec.ReadUint16(bin.LE); err != nil {
		return err
	}
	if obj.Creators, err = readCreators(dec); err != nil {
		return err
	}
	if obj.Collection, err = readCollection(dec); err != nil {
		return err
	}
	obj.Uses, err = readUses(dec)
	return err
}

// Validate checks the data against the limits the program enforces.
func (obj *DataV2) Validate() error {
	if len(obj.Name) > MaxNameLength {
		return errors.Wrapf(ErrInvalidData, "name is %d bytes, max %d", len(obj.Name), MaxNameLength)
	}
	if len(obj.Symbol) > MaxSymbolLength {
		return errors.Wrapf(ErrInvalidData, "symbol is %d bytes, max %d", len(obj.Symbol), MaxSymbolLength)
	}
	if len(obj.Uri) > MaxUriLength {
		return errors.Wrapf(ErrInvalidData, "uri is %d bytes, max %d", len(obj.Uri), MaxUriLength)
	}
	if obj.SellerFeeBasisPoints > MaxSellerFeeBasisPoints {
		return errors.Wrapf(ErrInvalidData, "seller fee of %d basis points exceeds %d", obj.SellerFeeBasisPoints, MaxSellerFeeBasisPoints)
	}
	if len(obj.Creators) > MaxCreatorLimit {
		return errors.Wrapf(ErrInvalidData, "%d creators, max %d", len(obj.Creators), MaxCreatorLimit)
	}
	return nil
}

func (obj *DataV2) String() string {
	return fmt.Sprintf(
		"DataV2{name=%s,symbol=%s,uri=%s,seller_fee_basis_points=%d,creators=%d,collection=%t,uses=%t}",
		obj.Name,
		obj.Symbol,
		obj.Uri,
		obj.SellerFeeBasisPoints,
		len(obj.Creators),
		obj.Collection != nil,
		obj.Uses != nil,
	)
}

func writeKey(enc *bin.Encoder, key ed25519.PublicKey) error {
	if len(key) != ed25519.PublicKeySize {
		return errors.Errorf("invalid public key length %d", len(key))
	}
	return enc.WriteBytes(key, false)
}

func readKey(dec *bin.Decoder) (ed25519.PublicKey, error) {
	b, err := dec.ReadNBytes(ed25519.PublicKeySize)
	if err != nil {
		return nil, err
	}
	return ed25519.PublicKey(append([]byte(nil), b...)), nil
}

func writeNameSymbolUri(enc *bin.Encoder, name, symbol, uri string) error {
	for _, s := range []string{name, symbol, uri} {
		if err := enc.WriteString(s); err != nil {
			return err
		}
	}
	return nil
}

func readNameSymbolUri(dec *bin.Decoder) (name, symbol, uri string, err error) {
	if name, err = dec.ReadString(); err != nil {
		return
	}
	if symbol, err = dec.ReadString(); err != nil {
		return
	}
	uri, err = dec.ReadString()
	return
}

// writeOptional writes a Borsh Option tag followed by v when present.
func writeOptional(enc *bin.Encoder, present bool, v bin.BinaryMarshaler) error {
	if err := enc.WriteOption(present); err != nil {
		return err
	}
	if !present {
		return nil
	}
	return v.MarshalWithEncoder(enc)
}

func writeCreators(enc *bin.Encoder, creators []Creator) error {
	if err := enc.WriteOption(creators != nil); err != nil {
		return err
	}
	if creators == nil {
		return nil
	}
	if err := enc.WriteUint32(uint32(len(creators)), bin.LE); err != nil {
		return err
	}
	for _, c := range creators {
		if err := c.MarshalWithEncoder(enc); err != nil {
			return err
		}
	}
	return nil
}

func readCreators(dec *bin.Decoder) ([]Creator, error) {
	ok, err := dec.ReadOption()
	if err != nil || !ok {
		return nil, err
	}

	n, err := dec.ReadUint32(bin.LE)
	if err != nil {
		return nil, err
	}
	if n > MaxCreatorLimit {
		return nil, errors.Wrapf(ErrInvalidAccountData, "%d creators", n)
	}

	creators := make([]Creator, n)
	for i := range creators {
		if err := creators[i].UnmarshalWithDecoder(dec); err != nil {
			return nil, err
		}
	}
	return creators, nil
}

func readCollection(dec *bin.Decoder) (*Collection, error) {
	ok, err := dec.ReadOption()
	if err != nil || !ok {
		return nil, err
	}
	var c Collection
	if err := c.UnmarshalWithDecoder(dec); err != nil {
		return nil, err
	}
	return &c, nil
}

func readUses(dec *bin.Decoder) (*Uses, error) {
	ok, err := dec.ReadOption()
	if err != nil || !ok {
		return nil, err
	}
	var u Uses
	if err := u.UnmarshalWithDecoder(dec); err != nil {
		return nil, err
	}
	return &u, nil
}

func keyString(key ed25519.PublicKey) string {
	if len(key) == 0 {
		return "<none>"
	}
	return base58.Encode(key)
}
