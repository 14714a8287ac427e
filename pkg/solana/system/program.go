package system

import (
	"crypto/ed25519"
)

// ProgramKey is the address of the system program.
//
// 11111111111111111111111111111111
var ProgramKey = make(ed25519.PublicKey, ed25519.PublicKeySize)
