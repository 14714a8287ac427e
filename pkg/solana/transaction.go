package solana

import (
	"bytes"
	"crypto/ed25519"
	"crypto/sha256"
	"fmt"
	"sort"
	"strings"

	"github.com/mr-tron/base58/base58"
	"github.com/pkg/errors"
)

const (
	// MaxTransactionSize is the largest serialized transaction a node accepts.
	MaxTransactionSize = 1232
)

var (
	ErrEmptyInstructionSet = errors.New("transaction has no instructions")
	ErrMissingSigner       = errors.New("missing signer")
	ErrUnexpectedSigner    = errors.New("signer is not required by transaction")
)

type Signature [ed25519.SignatureSize]byte

func (s Signature) String() string {
	return base58.Encode(s[:])
}

type Blockhash [sha256.Size]byte

func (b Blockhash) String() string {
	return base58.Encode(b[:])
}

type Header struct {
	NumSignatures     byte
	NumReadonlySigned byte
	NumReadOnly       byte
}

// Message is a legacy transaction message.
type Message struct {
	Header          Header
	Accounts        []ed25519.PublicKey
	RecentBlockhash Blockhash
	Instructions    []CompiledInstruction
}

type Transaction struct {
	Signatures []Signature
	Message    Message
}

// NewTransaction compiles instructions into an unsigned transaction paid for
// by payer. The blockhash is left zeroed until SetBlockhash is called.
func NewTransaction(payer ed25519.PublicKey, instructions ...Instruction) (Transaction, error) {
	if len(instructions) == 0 {
		return Transaction{}, ErrEmptyInstructionSet
	}
	if len(payer) != ed25519.PublicKeySize {
		return Transaction{}, errors.Wrap(ErrInvalidPublicKey, "payer")
	}

	accounts := []AccountMeta{
		{
			PublicKey:  payer,
			IsSigner:   true,
			IsWritable: true,
			isPayer:    true,
		},
	}
	for _, ix := range instructions {
		accounts = append(accounts, AccountMeta{
			PublicKey: ix.Program,
			isProgram: true,
		})
		accounts = append(accounts, ix.Accounts...)
	}

	accounts = filterUnique(accounts)
	sort.Sort(SortableAccountMeta(accounts))

	var m Message
	for _, account := range accounts {
		m.Accounts = append(m.Accounts, account.PublicKey)

		switch {
		case account.IsSigner:
			m.Header.NumSignatures++
			if !account.IsWritable {
				m.Header.NumReadonlySigned++
			}
		case !account.IsWritable:
			m.Header.NumReadOnly++
		}
	}

	for _, ix := range instructions {
		compiled := CompiledInstruction{
			ProgramIndex: byte(indexOf(m.Accounts, ix.Program)),
			Data:         ix.Data,
		}
		for _, account := range ix.Accounts {
			compiled.Accounts = append(compiled.Accounts, byte(indexOf(m.Accounts, account.PublicKey)))
		}
		m.Instructions = append(m.Instructions, compiled)
	}

	for i := range m.Accounts {
		if len(m.Accounts[i]) == 0 {
			m.Accounts[i] = make([]byte, ed25519.PublicKeySize)
		}
	}

	return Transaction{
		Signatures: make([]Signature, m.Header.NumSignatures),
		Message:    m,
	}, nil
}

// Signature returns the fee payer's signature, which identifies the
// transaction on chain.
func (t *Transaction) Signature() Signature {
	if len(t.Signatures) == 0 {
		return Signature{}
	}
	return t.Signatures[0]
}

// RequiredSigners returns the accounts that must sign, payer first.
func (t *Transaction) RequiredSigners() []ed25519.PublicKey {
	return t.Message.Accounts[:t.Message.Header.NumSignatures]
}

func (t *Transaction) SetBlockhash(bh Blockhash) {
	t.Message.RecentBlockhash = bh
}

// Sign signs the message with every provided signer and verifies that all
// required signature slots are filled afterwards.
func (t *Transaction) Sign(signers ...Signer) error {
	message := t.Message.Marshal()

	for _, signer := range signers {
		pub := signer.PublicKey()
		index := indexOf(t.Message.Accounts, pub)
		if index < 0 || index >= len(t.Signatures) {
			return errors.Wrap(ErrUnexpectedSigner, base58.Encode(pub))
		}

		sig, err := signer.Sign(message)
		if err != nil {
			return errors.Wrapf(err, "failed to sign with %s", base58.Encode(pub))
		}
		if len(sig) != ed25519.SignatureSize {
			return errors.Errorf("signer %s produced %d byte signature", base58.Encode(pub), len(sig))
		}
		copy(t.Signatures[index][:], sig)
	}

	var empty Signature
	for i, sig := range t.Signatures {
		if sig == empty {
			return errors.Wrap(ErrMissingSigner, base58.Encode(t.Message.Accounts[i]))
		}
	}

	return nil
}

func (t *Transaction) String() string {
	var sb strings.Builder
	sb.WriteString("Signatures:\n")
	for i, s := range t.Signatures {
		fmt.Fprintf(&sb, "  %d: %s\n", i, s)
	}
	sb.WriteString("Message:\n")
	fmt.Fprintf(&sb, "  Header: signatures=%d readonly_signed=%d readonly=%d\n",
		t.Message.Header.NumSignatures,
		t.Message.Header.NumReadonlySigned,
		t.Message.Header.NumReadOnly,
	)
	fmt.Fprintf(&sb, "  Recent Blockhash: %s\n", t.Message.RecentBlockhash)
	sb.WriteString("  Accounts:\n")
	for i, a := range t.Message.Accounts {
		fmt.Fprintf(&sb, "    %d: %s\n", i, base58.Encode(a))
	}
	sb.WriteString("  Instructions:\n")
	for i, ix := range t.Message.Instructions {
		fmt.Fprintf(&sb, "    %d: program=%d accounts=%v data=%x\n", i, ix.ProgramIndex, ix.Accounts, ix.Data)
	}
	return sb.String()
}

// filterUnique collapses repeated accounts into a single entry whose flags are
// the union of every occurrence.
func filterUnique(accounts []AccountMeta) []AccountMeta {
	filtered := make([]AccountMeta, 0, len(accounts))
	seen := make(map[string]int, len(accounts))

	for _, account := range accounts {
		key := string(account.PublicKey)

		j, ok := seen[key]
		if !ok {
			seen[key] = len(filtered)
			filtered = append(filtered, account)
			continue
		}

		filtered[j].IsSigner = filtered[j].IsSigner || account.IsSigner
		filtered[j].IsWritable = filtered[j].IsWritable || account.IsWritable
		filtered[j].isPayer = filtered[j].isPayer || account.isPayer
	}

	// A program that is also passed as a regular account is only treated as
	// a program when nothing else references it mutably or as a signer.
	for i := range filtered {
		if filtered[i].isProgram && (filtered[i].IsSigner || filtered[i].IsWritable || filtered[i].isPayer) {
			filtered[i].isProgram = false
		}
	}

	return filtered
}

func indexOf(slice []ed25519.PublicKey, item ed25519.PublicKey) int {
	for i, val := range slice {
		if bytes.Equal(val, item) {
			return i
		}
	}

	return -1
}
