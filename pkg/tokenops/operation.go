package tokenops

import (
	"crypto/ed25519"

	"github.com/mr-tron/base58"
	"github.com/pkg/errors"

	"github.com/code-payments/code-token-cli/pkg/solana/metadata"
	"github.com/code-payments/code-token-cli/pkg/solana/token"
)

// Operation is a token administration intent. Each variant carries the
// parameters of one kind of instruction and is turned into it by
// BuildInstruction. The authority of every operation also pays for it.
type Operation interface {
	// Kind is a short stable identifier used in logs and metrics.
	Kind() string

	// signers lists the accounts that must sign, in account order.
	signers() []ed25519.PublicKey
}

// CreateFungible creates a fungible mint together with its metadata account.
// Authority becomes the mint, freeze and update authority.
type CreateFungible struct {
	Mint      ed25519.PublicKey
	Authority ed25519.PublicKey
	Name      string
	Symbol    string
	Uri       string
	Decimals  uint8
}

// MintTo mints Amount base units into the receiver's associated token
// account, creating it when needed.
type MintTo struct {
	Mint      ed25519.PublicKey
	Authority ed25519.PublicKey
	Receiver  ed25519.PublicKey
	Amount    uint64
}

// Transfer moves Amount base units between the associated token accounts of
// Owner and Destination.
type Transfer struct {
	Mint        ed25519.PublicKey
	Owner       ed25519.PublicKey
	Destination ed25519.PublicKey
	Amount      uint64
}

// Freeze freezes the associated token account of Holder.
type Freeze struct {
	Mint            ed25519.PublicKey
	FreezeAuthority ed25519.PublicKey
	Holder          ed25519.PublicKey
}

// Thaw unfreezes the associated token account of Holder.
type Thaw struct {
	Mint            ed25519.PublicKey
	FreezeAuthority ed25519.PublicKey
	Holder          ed25519.PublicKey
}

// UpdateMetadata applies Changes to the Current metadata record of Mint.
// Current may be nil when only mutability or the update authority change.
type UpdateMetadata struct {
	Mint            ed25519.PublicKey
	UpdateAuthority ed25519.PublicKey
	Current         *metadata.MetadataAccount
	Changes         metadata.MetadataChanges
}

// UpdateAuthority replaces the mint or freeze authority of Mint. A nil
// NewAuthority revokes it.
type UpdateAuthority struct {
	Mint             ed25519.PublicKey
	CurrentAuthority ed25519.PublicKey
	Type             token.AuthorityType
	NewAuthority     ed25519.PublicKey
}

// AddLiquidity deposits Amount base units from the depositor's associated
// token account into the vault of the bridge deployed at Program.
type AddLiquidity struct {
	Program   ed25519.PublicKey
	Mint      ed25519.PublicKey
	Depositor ed25519.PublicKey
	Amount    uint64
}

func (CreateFungible) Kind() string  { return "create_fungible" }
func (MintTo) Kind() string          { return "mint_to" }
func (Transfer) Kind() string        { return "transfer" }
func (Freeze) Kind() string          { return "freeze" }
func (Thaw) Kind() string            { return "thaw" }
func (UpdateMetadata) Kind() string  { return "update_metadata" }
func (UpdateAuthority) Kind() string { return "update_authority" }
func (AddLiquidity) Kind() string    { return "add_liquidity" }

func (op CreateFungible) signers() []ed25519.PublicKey {
	return []ed25519.PublicKey{op.Mint, op.Authority}
}
func (op MintTo) signers() []ed25519.PublicKey {
	return []ed25519.PublicKey{op.Authority}
}
func (op Transfer) signers() []ed25519.PublicKey {
	return []ed25519.PublicKey{op.Owner}
}
func (op Freeze) signers() []ed25519.PublicKey {
	return []ed25519.PublicKey{op.FreezeAuthority}
}
func (op Thaw) signers() []ed25519.PublicKey {
	return []ed25519.PublicKey{op.FreezeAuthority}
}
func (op UpdateMetadata) signers() []ed25519.PublicKey {
	return []ed25519.PublicKey{op.UpdateAuthority}
}
func (op UpdateAuthority) signers() []ed25519.PublicKey {
	return []ed25519.PublicKey{op.CurrentAuthority}
}
func (op AddLiquidity) signers() []ed25519.PublicKey {
	return []ed25519.PublicKey{op.Depositor}
}

// RequiredSigners returns the distinct accounts that must sign a transaction
// carrying op.
func RequiredSigners(op Operation) []ed25519.PublicKey {
	var result []ed25519.PublicKey
	seen := make(map[string]struct{})
	for _, signer := range op.signers() {
		key := string(signer)
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		result = append(result, signer)
	}
	return result
}

// Authority returns the account that authorizes and pays for op.
func Authority(op Operation) ed25519.PublicKey {
	signers := op.signers()
	return signers[len(signers)-1]
}

type namedKey struct {
	name string
	key  ed25519.PublicKey
}

func requireKeys(keys ...namedKey) error {
	for _, k := range keys {
		if len(k.key) != ed25519.PublicKeySize {
			return errors.Wrapf(ErrInvalidOperation, "%s must be a %d byte public key, got %d bytes", k.name, ed25519.PublicKeySize, len(k.key))
		}
	}
	return nil
}

func keyString(key ed25519.PublicKey) string {
	if len(key) == 0 {
		return "<none>"
	}
	return base58.Encode(key)
}
