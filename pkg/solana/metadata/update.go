package metadata

import (
	"crypto/ed25519"

	"github.com/pkg/errors"

	"github.com/code-payments/code-token-cli/pkg/pointer"
)

// MetadataChanges are the requested edits to a metadata account. Nil or
// empty fields are left as they are.
type MetadataChanges struct {
	Name                 *string
	Symbol               *string
	Uri                  *string
	SellerFeeBasisPoints *uint16
	IsMutable            *bool
	NewUpdateAuthority   ed25519.PublicKey
}

func (c *MetadataChanges) changesData() bool {
	return c.Name != nil || c.Symbol != nil || c.Uri != nil || c.SellerFeeBasisPoints != nil
}

// ApplyUpdate computes the update instruction arguments that turn current
// into current with changes applied. Creators, collection and uses are
// carried over unchanged. current may be nil when no data field changes.
// It has no side effects.
func ApplyUpdate(current *MetadataAccount, changes *MetadataChanges) (*UpdateMetadataAccountV2InstructionArgs, error) {
	args := &UpdateMetadataAccountV2InstructionArgs{}

	if changes.changesData() {
		if current == nil {
			return nil, errors.Wrap(ErrInvalidData, "current metadata is required to change data fields")
		}

		data := current.Data
		if len(current.Data.Creators) > 0 {
			data.Creators = append([]Creator(nil), current.Data.Creators...)
		}

		if changes.Name != nil {
			data.Name = *changes.Name
		}
		if changes.Symbol != nil {
			data.Symbol = *changes.Symbol
		}
		if changes.Uri != nil {
			data.Uri = *changes.Uri
		}
		if changes.SellerFeeBasisPoints != nil {
			data.SellerFeeBasisPoints = *changes.SellerFeeBasisPoints
		}

		args.Data = &data
	}

	args.IsMutable = pointer.Copy(changes.IsMutable)

	if len(changes.NewUpdateAuthority) > 0 {
		args.NewUpdateAuthority = changes.NewUpdateAuthority
	}

	if args.Data == nil && args.IsMutable == nil && args.NewUpdateAuthority == nil {
		return nil, ErrNoChanges
	}

	return args, nil
}
