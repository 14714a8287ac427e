// Package anchor computes the method and account discriminators used by
// programs built with the Anchor framework and assembles instruction data
// from them.
package anchor

import (
	"encoding/hex"

	bin "github.com/gagliardetto/binary"
	"github.com/pkg/errors"

	"github.com/code-payments/code-token-cli/pkg/solana/borsh"
)

// DiscriminatorSize is the length of every discriminator.
const DiscriminatorSize = 8

// Discriminator is the first 8 bytes of sha256("<namespace>:<name>"). For
// instructions it acts as the opcode the program dispatches on.
type Discriminator [DiscriminatorSize]byte

func (d Discriminator) Bytes() []byte {
	return d[:]
}

func (d Discriminator) String() string {
	return hex.EncodeToString(d[:])
}

// NewDiscriminator hashes "<namespace>:<name>".
func NewDiscriminator(namespace, name string) Discriminator {
	var d Discriminator
	copy(d[:], bin.Sighash(namespace, name))
	return d
}

// InstructionDiscriminator is the discriminator of a method in the global
// namespace.
func InstructionDiscriminator(method string) Discriminator {
	return NewDiscriminator(bin.SIGHASH_GLOBAL_NAMESPACE, method)
}

// NewInstructionData returns the discriminator followed by the Borsh encoding
// of args.
func NewInstructionData(d Discriminator, args ...borsh.Field) ([]byte, error) {
	encoded, err := borsh.Encode(args...)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to encode arguments for %s", d)
	}

	data := make([]byte, 0, DiscriminatorSize+len(encoded))
	data = append(data, d[:]...)
	return append(data, encoded...), nil
}

// SplitInstructionData separates the discriminator from the argument bytes.
func SplitInstructionData(data []byte) (Discriminator, []byte, error) {
	var d Discriminator
	if len(data) < DiscriminatorSize {
		return d, nil, errors.Errorf("instruction data is %d bytes, need at least %d", len(data), DiscriminatorSize)
	}
	copy(d[:], data)
	return d, data[DiscriminatorSize:], nil
}
