package marshal

import (
	"context"
	"fmt"
	"sort"

	"github.com/LeJamon/goHederad/internal/core/assess"
	"github.com/LeJamon/goHederad/internal/core/balance"
	"github.com/LeJamon/goHederad/internal/core/customfee"
	"github.com/LeJamon/goHederad/internal/core/status"
	"github.com/LeJamon/goHederad/internal/core/types"
)

// ImpliedTransfersMeta is everything an assessment's outcome depended on.
type ImpliedTransfersMeta struct {
	Props            ValidationProps
	Code             status.ResponseCode
	CustomFeeMeta    []*customfee.Meta
	Resolutions      map[types.Alias]types.AccountID
	NumAutoCreations int
	NumLazyCreations int
}

// WasDerivedFrom reports whether an assessment made now, with props and the
// current state of schedules and aliases, would reach the same outcome. Every
// consulted schedule is fetched again and compared, and every recorded alias
// must still resolve the same way.
func (m *ImpliedTransfersMeta) WasDerivedFrom(ctx context.Context, props ValidationProps, schedules assess.ScheduleSource, aliases AliasIndex) (bool, error) {
	if m.Props != props {
		return false, nil
	}
	for _, used := range m.CustomFeeMeta {
		current, err := schedules.LookupMetaFor(ctx, used.TokenID())
		if err != nil {
			return false, fmt.Errorf("failed to look up fee schedule of %s: %w", used.TokenID(), err)
		}
		if current == nil {
			current = customfee.MissingMeta(used.TokenID())
		}
		if !used.Equal(current) {
			return false, nil
		}
	}
	for alias, id := range m.Resolutions {
		current, ok, err := aliases.Lookup(ctx, alias)
		if err != nil {
			return false, fmt.Errorf("failed to resolve alias %s: %w", alias, err)
		}
		if !ok {
			current = types.MissingAccountID
		}
		if current != id {
			return false, nil
		}
	}
	return true, nil
}

// ImpliedTransfers is the outcome of assessing one transfer: the final
// balance changes and the fees charged along the way.
type ImpliedTransfers struct {
	Meta         ImpliedTransfersMeta
	Changes      []*balance.Change
	AssessedFees []customfee.AssessedCustomFee
}

// Code returns the outcome of the assessment
func (it *ImpliedTransfers) Code() status.ResponseCode {
	return it.Meta.Code
}

func valid(props ValidationProps, changes []*balance.Change, metas []*customfee.Meta, fees []customfee.AssessedCustomFee, resolver *AliasResolver) *ImpliedTransfers {
	it := &ImpliedTransfers{
		Meta: ImpliedTransfersMeta{
			Props:         props,
			Code:          status.OK,
			CustomFeeMeta: metas,
		},
		Changes:      changes,
		AssessedFees: fees,
	}
	if resolver != nil {
		it.Meta.Resolutions = resolver.Resolutions()
		it.Meta.NumAutoCreations = resolver.PerceivedAutoCreations()
		it.Meta.NumLazyCreations = resolver.PerceivedLazyCreations()
	}
	return it
}

func invalid(props ValidationProps, code status.ResponseCode, metas []*customfee.Meta, resolver *AliasResolver) *ImpliedTransfers {
	it := &ImpliedTransfers{
		Meta: ImpliedTransfersMeta{
			Props:         props,
			Code:          code,
			CustomFeeMeta: metas,
		},
	}
	if resolver != nil {
		it.Meta.Resolutions = resolver.Resolutions()
	}
	return it
}

// Record is the serializable form of an assessment outcome.
type Record struct {
	Code             status.ResponseCode           `json:"code"`
	Props            ValidationProps               `json:"props"`
	Changes          []balance.Record              `json:"changes"`
	AssessedFees     []customfee.AssessedCustomFee `json:"assessed_custom_fees"`
	SchedulesUsed    []customfee.MetaRecord        `json:"schedules_used,omitempty"`
	Resolutions      []AliasResolution             `json:"resolutions,omitempty"`
	NumAutoCreations int                           `json:"num_auto_creations,omitempty"`
	NumLazyCreations int                           `json:"num_lazy_creations,omitempty"`
}

// AliasResolution is one alias and the account it resolved to.
type AliasResolution struct {
	Alias   string          `json:"alias"`
	Account types.AccountID `json:"account"`
}

// Record returns the serializable form, with resolutions sorted by alias
func (it *ImpliedTransfers) Record() Record {
	rec := Record{
		Code:             it.Meta.Code,
		Props:            it.Meta.Props,
		Changes:          make([]balance.Record, 0, len(it.Changes)),
		AssessedFees:     it.AssessedFees,
		NumAutoCreations: it.Meta.NumAutoCreations,
		NumLazyCreations: it.Meta.NumLazyCreations,
	}
	if rec.AssessedFees == nil {
		rec.AssessedFees = []customfee.AssessedCustomFee{}
	}
	for _, c := range it.Changes {
		rec.Changes = append(rec.Changes, c.Record())
	}
	for _, meta := range it.Meta.CustomFeeMeta {
		rec.SchedulesUsed = append(rec.SchedulesUsed, meta.Record())
	}
	for alias, id := range it.Meta.Resolutions {
		rec.Resolutions = append(rec.Resolutions, AliasResolution{Alias: alias.Hex(), Account: id})
	}
	sort.Slice(rec.Resolutions, func(i, j int) bool {
		return rec.Resolutions[i].Alias < rec.Resolutions[j].Alias
	})
	return rec
}
