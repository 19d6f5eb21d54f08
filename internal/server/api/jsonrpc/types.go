package jsonrpc

import (
	"encoding/json"
	"fmt"
)

// Version is the only protocol version served.
const Version = "2.0"

// Request represents a JSON-RPC request
type Request struct {
	JSONRPC string          `json:"jsonrpc"`
	Method  string          `json:"method"`
	Params  json.RawMessage `json:"params,omitempty"`
	ID      interface{}     `json:"id"`
}

// Response represents a JSON-RPC response
type Response struct {
	JSONRPC string      `json:"jsonrpc"`
	Result  interface{} `json:"result,omitempty"`
	Error   *RPCError   `json:"error,omitempty"`
	ID      interface{} `json:"id"`
}

// Standard JSON-RPC error codes.
const (
	CodeParseError     = -32700
	CodeInvalidRequest = -32600
	CodeMethodNotFound = -32601
	CodeInvalidParams  = -32602
	CodeInternalError  = -32603
)

// RPCError represents a JSON-RPC error
type RPCError struct {
	Code    int         `json:"code"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

func (e *RPCError) Error() string {
	return fmt.Sprintf("rpc error %d: %s", e.Code, e.Message)
}

func errParse(err error) *RPCError {
	return &RPCError{Code: CodeParseError, Message: "Parse error", Data: err.Error()}
}

func errInvalidRequest(msg string) *RPCError {
	return &RPCError{Code: CodeInvalidRequest, Message: "Invalid request", Data: msg}
}

func errMethodNotFound(method string) *RPCError {
	return &RPCError{Code: CodeMethodNotFound, Message: "Method not found", Data: method}
}

func errInvalidParams(format string, args ...interface{}) *RPCError {
	return &RPCError{Code: CodeInvalidParams, Message: "Invalid params", Data: fmt.Sprintf(format, args...)}
}

func errInternal(err error) *RPCError {
	return &RPCError{Code: CodeInternalError, Message: "Internal error", Data: err.Error()}
}

// ImpliedTransfersParams are the params of implied_transfers.
type ImpliedTransfersParams struct {
	Payer    string          `json:"payer"`
	Transfer json.RawMessage `json:"transfer"`
}

// FeeScheduleParams are the params of fee_schedule.
type FeeScheduleParams struct {
	Token string `json:"token"`
}

// ResolveAliasParams are the params of resolve_alias.
type ResolveAliasParams struct {
	Alias string `json:"alias"`
}

// ResolveAliasResult is the result of resolve_alias.
type ResolveAliasResult struct {
	Alias   string `json:"alias"`
	Account string `json:"account,omitempty"`
	Found   bool   `json:"found"`
}
