// Package borsh encodes ordered, typed instruction arguments in the Borsh
// layout used by Anchor programs: fixed width little endian integers, one
// byte booleans and u32 length prefixed strings and byte vectors, with no
// padding between fields.
package borsh

import (
	"crypto/ed25519"
	"fmt"
	"math"

	"github.com/pkg/errors"
)

// ErrEncodingRange is returned when a field value does not fit the width the
// field declares.
var ErrEncodingRange = errors.New("value out of range for field width")

// Kind is the declared wire type of a field.
type Kind uint8

const (
	KindU8 Kind = iota
	KindU16
	KindU32
	KindU64
	KindI64
	KindBool
	KindString
	KindBytes
	KindPublicKey
)

func (k Kind) String() string {
	switch k {
	case KindU8:
		return "u8"
	case KindU16:
		return "u16"
	case KindU32:
		return "u32"
	case KindU64:
		return "u64"
	case KindI64:
		return "i64"
	case KindBool:
		return "bool"
	case KindString:
		return "string"
	case KindBytes:
		return "bytes"
	case KindPublicKey:
		return "pubkey"
	}
	return fmt.Sprintf("Kind(%d)", uint8(k))
}

// maxUnsigned returns the largest value an unsigned kind can hold.
func (k Kind) maxUnsigned() uint64 {
	switch k {
	case KindU8:
		return math.MaxUint8
	case KindU16:
		return math.MaxUint16
	case KindU32:
		return math.MaxUint32
	default:
		return math.MaxUint64
	}
}

// Field is a single named argument. Integer kinds accept any Go integer type
// as Value; the value is range checked against the declared width when
// encoded.
type Field struct {
	Name  string
	Kind  Kind
	Value interface{}
}

func U8(name string, v uint64) Field { return Field{Name: name, Kind: KindU8, Value: v} }
func U16(name string, v uint64) Field { return Field{Name: name, Kind: KindU16, Value: v} }
func U32(name string, v uint64) Field { return Field{Name: name, Kind: KindU32, Value: v} }
func U64(name string, v uint64) Field { return Field{Name: name, Kind: KindU64, Value: v} }
func I64(name string, v int64) Field { return Field{Name: name, Kind: KindI64, Value: v} }
func Bool(name string, v bool) Field { return Field{Name: name, Kind: KindBool, Value: v} }
func String(name string, v string) Field { return Field{Name: name, Kind: KindString, Value: v} }
func Bytes(name string, v []byte) Field { return Field{Name: name, Kind: KindBytes, Value: v} }
func PublicKey(name string, v ed25519.PublicKey) Field {
	return Field{Name: name, Kind: KindPublicKey, Value: v}
}

// Schema returns a value-less field, used to describe what Decode expects.
func Schema(name string, kind Kind) Field {
	return Field{Name: name, Kind: kind}
}

func (f Field) unsigned() (uint64, error) {
	var v uint64
	switch t := f.Value.(type) {
	case uint:
		v = uint64(t)
	case uint8:
		v = uint64(t)
	case uint16:
		v = uint64(t)
	case uint32:
		v = uint64(t)
	case uint64:
		v = t
	case int, int8, int16, int32, int64:
		s, _ := f.signed()
		if s < 0 {
			return 0, errors.Wrapf(ErrEncodingRange, "%s: %d is negative for %s", f.Name, s, f.Kind)
		}
		v = uint64(s)
	default:
		return 0, errors.Errorf("%s: %T is not an integer", f.Name, f.Value)
	}

	if v > f.Kind.maxUnsigned() {
		return 0, errors.Wrapf(ErrEncodingRange, "%s: %d does not fit %s", f.Name, v, f.Kind)
	}
	return v, nil
}

func (f Field) signed() (int64, error) {
	switch t := f.Value.(type) {
	case int:
		return int64(t), nil
	case int8:
		return int64(t), nil
	case int16:
		return int64(t), nil
	case int32:
		return int64(t), nil
	case int64:
		return t, nil
	case uint, uint8, uint16, uint32, uint64:
		u, err := Field{Name: f.Name, Kind: KindU64, Value: t}.unsigned()
		if err != nil {
			return 0, err
		}
		if u > math.MaxInt64 {
			return 0, errors.Wrapf(ErrEncodingRange, "%s: %d does not fit %s", f.Name, u, f.Kind)
		}
		return int64(u), nil
	}
	return 0, errors.Errorf("%s: %T is not an integer", f.Name, f.Value)
}
