package marshal

import (
	"context"
	"fmt"

	"github.com/decred/dcrd/dcrec/secp256k1/v4"

	"github.com/LeJamon/goHederad/internal/core/types"
)

// Serialized key prefixes accepted as account aliases.
var (
	ed25519AliasPrefix   = []byte{0x12, 0x20}
	secp256k1AliasPrefix = []byte{0x3a, 0x21}
)

const (
	ed25519KeyLen   = 32
	secp256k1KeyLen = 33
)

// AliasIndex maps aliases to the accounts they name.
type AliasIndex interface {
	Lookup(ctx context.Context, alias types.Alias) (types.AccountID, bool, error)
}

// AliasResolver rewrites alias-form references in a transfer to account ids
// and classifies the aliases that resolve to nothing.
type AliasResolver struct {
	resolutions map[types.Alias]types.AccountID

	perceivedAutoCreations    int
	perceivedLazyCreations    int
	perceivedMissing          int
	perceivedInvalidCreations int
}

// NewAliasResolver returns a resolver with no resolutions
func NewAliasResolver() *AliasResolver {
	return &AliasResolver{resolutions: make(map[types.Alias]types.AccountID)}
}

// Resolve returns a copy of op with every resolvable alias replaced by its
// account id. Unresolvable aliases keep their alias and carry the missing id.
func (r *AliasResolver) Resolve(ctx context.Context, op types.TransferInstruction, index AliasIndex) (types.TransferInstruction, error) {
	out := op.Clone()

	for i := range out.HbarAdjusts {
		aa := &out.HbarAdjusts[i]
		ref, err := r.resolveRef(ctx, aa.Account, aa.Amount > 0, index)
		if err != nil {
			return types.TransferInstruction{}, err
		}
		aa.Account = ref
	}

	for i := range out.TokenTransfers {
		list := &out.TokenTransfers[i]
		for j := range list.Transfers {
			aa := &list.Transfers[j]
			ref, err := r.resolveRef(ctx, aa.Account, aa.Amount > 0, index)
			if err != nil {
				return types.TransferInstruction{}, err
			}
			aa.Account = ref
		}
		for j := range list.NftTransfers {
			nt := &list.NftTransfers[j]
			sender, err := r.resolveRef(ctx, nt.Sender, false, index)
			if err != nil {
				return types.TransferInstruction{}, err
			}
			receiver, err := r.resolveRef(ctx, nt.Receiver, true, index)
			if err != nil {
				return types.TransferInstruction{}, err
			}
			nt.Sender, nt.Receiver = sender, receiver
		}
	}
	return out, nil
}

func (r *AliasResolver) resolveRef(ctx context.Context, ref types.AccountRef, isCredit bool, index AliasIndex) (types.AccountRef, error) {
	if !ref.IsAlias() {
		return ref, nil
	}
	alias := ref.Alias

	id, seen := r.resolutions[alias]
	if !seen {
		found, ok, err := index.Lookup(ctx, alias)
		if err != nil {
			return types.AccountRef{}, fmt.Errorf("failed to resolve alias %s: %w", alias, err)
		}
		if ok {
			id = found
		} else {
			id = types.MissingAccountID
		}
		r.resolutions[alias] = id
	}

	if !id.IsMissing() {
		return types.RefByID(id), nil
	}

	switch {
	case !isCredit:
		r.perceivedMissing++
	case alias.IsEVMAddress():
		r.perceivedLazyCreations++
	case IsKeyAlias(alias):
		r.perceivedAutoCreations++
	default:
		r.perceivedInvalidCreations++
	}
	return types.AccountRef{ID: types.MissingAccountID, Alias: alias}, nil
}

// Resolutions returns every alias looked up, mapped to its account or to
// types.MissingAccountID.
func (r *AliasResolver) Resolutions() map[types.Alias]types.AccountID {
	out := make(map[types.Alias]types.AccountID, len(r.resolutions))
	for alias, id := range r.resolutions {
		out[alias] = id
	}
	return out
}

func (r *AliasResolver) PerceivedAutoCreations() int { return r.perceivedAutoCreations }

func (r *AliasResolver) PerceivedLazyCreations() int { return r.perceivedLazyCreations }

func (r *AliasResolver) PerceivedMissing() int { return r.perceivedMissing }

func (r *AliasResolver) PerceivedInvalidCreations() int { return r.perceivedInvalidCreations }

// IsKeyAlias returns true if alias is a serialized ED25519 key or a
// serialized compressed ECDSA(secp256k1) key that parses to a curve point.
func IsKeyAlias(alias types.Alias) bool {
	raw := alias.Bytes()
	switch {
	case len(raw) == len(ed25519AliasPrefix)+ed25519KeyLen && hasPrefix(raw, ed25519AliasPrefix):
		return true
	case len(raw) == len(secp256k1AliasPrefix)+secp256k1KeyLen && hasPrefix(raw, secp256k1AliasPrefix):
		_, err := secp256k1.ParsePubKey(raw[len(secp256k1AliasPrefix):])
		return err == nil
	default:
		return false
	}
}

func hasPrefix(raw, prefix []byte) bool {
	for i, b := range prefix {
		if raw[i] != b {
			return false
		}
	}
	return true
}
