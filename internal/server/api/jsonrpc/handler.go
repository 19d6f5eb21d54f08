package jsonrpc

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"

	"github.com/LeJamon/goHederad/internal/core/customfee"
	"github.com/LeJamon/goHederad/internal/core/marshal"
	"github.com/LeJamon/goHederad/internal/core/types"
)

// MethodFunc serves one JSON-RPC method.
type MethodFunc func(ctx context.Context, params json.RawMessage) (interface{}, *RPCError)

// Assessor assesses a transfer on behalf of payer.
type Assessor interface {
	Unmarshal(ctx context.Context, op types.TransferInstruction, payer types.AccountID) (*marshal.ImpliedTransfers, error)
}

// ScheduleReader returns the fee schedule of a token.
type ScheduleReader interface {
	LookupMetaFor(ctx context.Context, token types.TokenID) (*customfee.Meta, error)
}

// Handler dispatches JSON-RPC methods to their implementations.
type Handler struct {
	methods map[string]MethodFunc

	assessor  Assessor
	schedules ScheduleReader
	aliases   marshal.AliasIndex
}

// NewHandler creates a Handler serving implied_transfers, fee_schedule and
// resolve_alias.
func NewHandler(assessor Assessor, schedules ScheduleReader, aliases marshal.AliasIndex) *Handler {
	h := &Handler{
		methods:   make(map[string]MethodFunc),
		assessor:  assessor,
		schedules: schedules,
		aliases:   aliases,
	}

	// Register available methods.
	h.Register("implied_transfers", h.handleImpliedTransfers)
	h.Register("fee_schedule", h.handleFeeSchedule)
	h.Register("resolve_alias", h.handleResolveAlias)

	return h
}

// Register adds or replaces a method.
func (h *Handler) Register(name string, fn MethodFunc) {
	h.methods[name] = fn
}

// Methods returns the registered method names, sorted.
func (h *Handler) Methods() []string {
	names := make([]string, 0, len(h.methods))
	for name := range h.methods {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Handle dispatches a JSON-RPC method to the appropriate handler.
func (h *Handler) Handle(ctx context.Context, method string, params json.RawMessage) (interface{}, *RPCError) {
	fn, exists := h.methods[method]
	if !exists {
		return nil, errMethodNotFound(method)
	}
	return fn(ctx, params)
}

func decodeParams(params json.RawMessage, into interface{}) *RPCError {
	if len(params) == 0 {
		return errInvalidParams("missing params")
	}
	if err := json.Unmarshal(params, into); err != nil {
		return errInvalidParams("%v", err)
	}
	return nil
}

func (h *Handler) handleImpliedTransfers(ctx context.Context, params json.RawMessage) (interface{}, *RPCError) {
	var p ImpliedTransfersParams
	if rpcErr := decodeParams(params, &p); rpcErr != nil {
		return nil, rpcErr
	}
	payer, err := types.ParseAccountID(p.Payer)
	if err != nil {
		return nil, errInvalidParams("payer: %v", err)
	}
	var op types.TransferInstruction
	if len(p.Transfer) > 0 {
		if err := json.Unmarshal(p.Transfer, &op); err != nil {
			return nil, errInvalidParams("transfer: %v", err)
		}
	}

	it, err := h.assessor.Unmarshal(ctx, op, payer)
	if err != nil {
		return nil, errInternal(err)
	}
	return it.Record(), nil
}

func (h *Handler) handleFeeSchedule(ctx context.Context, params json.RawMessage) (interface{}, *RPCError) {
	var p FeeScheduleParams
	if rpcErr := decodeParams(params, &p); rpcErr != nil {
		return nil, rpcErr
	}
	token, err := types.ParseTokenID(p.Token)
	if err != nil {
		return nil, errInvalidParams("token: %v", err)
	}
	meta, err := h.schedules.LookupMetaFor(ctx, token)
	if err != nil {
		return nil, errInternal(fmt.Errorf("failed to look up fee schedule: %w", err))
	}
	if meta == nil {
		meta = customfee.MissingMeta(token)
	}
	return meta.Record(), nil
}

func (h *Handler) handleResolveAlias(ctx context.Context, params json.RawMessage) (interface{}, *RPCError) {
	var p ResolveAliasParams
	if rpcErr := decodeParams(params, &p); rpcErr != nil {
		return nil, rpcErr
	}
	alias, err := types.AliasFromHex(p.Alias)
	if err != nil {
		return nil, errInvalidParams("alias: %v", err)
	}
	id, ok, err := h.aliases.Lookup(ctx, alias)
	if err != nil {
		return nil, errInternal(err)
	}
	res := ResolveAliasResult{Alias: alias.Hex(), Found: ok}
	if ok {
		res.Account = id.String()
	}
	return res, nil
}
