package borsh

import (
	"bytes"
	"crypto/ed25519"
	"math"

	bin "github.com/gagliardetto/binary"
	"github.com/pkg/errors"
)

// Encode concatenates the encoding of every field in order.
func Encode(fields ...Field) ([]byte, error) {
	var buf bytes.Buffer
	enc := bin.NewBorshEncoder(&buf)

	for _, f := range fields {
		if err := encodeField(enc, f); err != nil {
			return nil, err
		}
	}

	return buf.Bytes(), nil
}

func encodeField(enc *bin.Encoder, f Field) error {
	switch f.Kind {
	case KindU8, KindU16, KindU32, KindU64:
		v, err := f.unsigned()
		if err != nil {
			return err
		}
		switch f.Kind {
		case KindU8:
			return enc.WriteUint8(uint8(v))
		case KindU16:
			return enc.WriteUint16(uint16(v), bin.LE)
		case KindU32:
			return enc.WriteUint32(uint32(v), bin.LE)
		default:
			return enc.WriteUint64(v, bin.LE)
		}
	case KindI64:
		v, err := f.signed()
		if err != nil {
			return err
		}
		return enc.WriteInt64(v, bin.LE)
	case KindBool:
		v, ok := f.Value.(bool)
		if !ok {
			return errors.Errorf("%s: %T is not a bool", f.Name, f.Value)
		}
		return enc.WriteBool(v)
	case KindString:
		v, ok := f.Value.(string)
		if !ok {
			return errors.Errorf("%s: %T is not a string", f.Name, f.Value)
		}
		if uint64(len(v)) > math.MaxUint32 {
			return errors.Wrapf(ErrEncodingRange, "%s: string length %d does not fit u32", f.Name, len(v))
		}
		return enc.WriteString(v)
	case KindBytes:
		v, ok := f.Value.([]byte)
		if !ok {
			return errors.Errorf("%s: %T is not a byte slice", f.Name, f.Value)
		}
		if uint64(len(v)) > math.MaxUint32 {
			return errors.Wrapf(ErrEncodingRange, "%s: length %d does not fit u32", f.Name, len(v))
		}
		return enc.WriteBytes(v, true)
	case KindPublicKey:
		var v []byte
		switch t := f.Value.(type) {
		case ed25519.PublicKey:
			v = t
		case []byte:
			v = t
		default:
			return errors.Errorf("%s: %T is not a public key", f.Name, f.Value)
		}
		if len(v) != ed25519.PublicKeySize {
			return errors.Wrapf(ErrEncodingRange, "%s: public key is %d bytes", f.Name, len(v))
		}
		return enc.WriteBytes(v, false)
	}

	return errors.Errorf("%s: unsupported kind %s", f.Name, f.Kind)
}

// Decode reads one value per schema field, in order, and returns the fields
// with Value populated. Unsigned integers decode as uint64. Trailing bytes
// are an error.
func Decode(data []byte, schema ...Field) ([]Field, error) {
	dec := bin.NewBorshDecoder(data)

	out := make([]Field, len(schema))
	for i, f := range schema {
		v, err := decodeField(dec, f.Kind)
		if err != nil {
			return nil, errors.Wrapf(err, "failed to decode %s", f.Name)
		}
		out[i] = Field{Name: f.Name, Kind: f.Kind, Value: v}
	}

	if dec.HasRemaining() {
		return nil, errors.Errorf("%d trailing bytes", dec.Remaining())
	}

	return out, nil
}

func decodeField(dec *bin.Decoder, kind Kind) (interface{}, error) {
	switch kind {
	case KindU8:
		v, err := dec.ReadUint8()
		return uint64(v), err
	case KindU16:
		v, err := dec.ReadUint16(bin.LE)
		return uint64(v), err
	case KindU32:
		v, err := dec.ReadUint32(bin.LE)
		return uint64(v), err
	case KindU64:
		return dec.ReadUint64(bin.LE)
	case KindI64:
		return dec.ReadInt64(bin.LE)
	case KindBool:
		return dec.ReadBool()
	case KindString:
		return dec.ReadString()
	case KindBytes:
		v, err := dec.ReadByteSlice()
		if err != nil {
			return nil, err
		}
		return append([]byte(nil), v...), nil
	case KindPublicKey:
		v, err := dec.ReadNBytes(ed25519.PublicKeySize)
		if err != nil {
			return nil, err
		}
		return ed25519.PublicKey(append([]byte(nil), v...)), nil
	}
	return nil, errors.Errorf("unsupported kind %s", kind)
}
