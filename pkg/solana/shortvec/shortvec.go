// Package shortvec implements the compact-u16 length prefix used in Solana
// transaction wire encoding.
package shortvec

import (
	"io"
	"math"

	"github.com/pkg/errors"
)

// maxEncodedSize is the number of bytes needed for math.MaxUint16.
const maxEncodedSize = 3

// ErrTooLong is returned when a length does not fit in a compact-u16.
var ErrTooLong = errors.Errorf("len exceeds %d", math.MaxUint16)

// EncodeLen writes l to w as a compact-u16 and returns the number of bytes
// written.
func EncodeLen(w io.Writer, l int) (int, error) {
	if l < 0 || l > math.MaxUint16 {
		return 0, ErrTooLong
	}

	var buf [maxEncodedSize]byte
	n := 0
	for {
		buf[n] = byte(l & 0x7f)
		l >>= 7
		if l == 0 {
			n++
			break
		}
		buf[n] |= 0x80
		n++
	}

	return w.Write(buf[:n])
}

// DecodeLen reads a compact-u16 from r.
func DecodeLen(r io.Reader) (int, error) {
	var val int
	b := make([]byte, 1)

	for i := 0; ; i++ {
		if i == maxEncodedSize {
			return 0, errors.Errorf("invalid size: more than %d bytes", maxEncodedSize)
		}

		if _, err := io.ReadFull(r, b); err != nil {
			return 0, err
		}

		val |= int(b[0]&0x7f) << (i * 7)
		if b[0]&0x80 == 0 {
			break
		}
	}

	if val > math.MaxUint16 {
		return 0, ErrTooLong
	}

	return val, nil
}
