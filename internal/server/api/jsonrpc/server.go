package jsonrpc

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// RequestIDHeader carries the id a request is logged under.
const RequestIDHeader = "X-Request-Id"

// Observer is notified of every served request
type Observer interface {
	ObserveRPC(method, result string, elapsed time.Duration)
}

// Server represents a JSON-RPC server.
type Server struct {
	handler      *Handler
	maxBodyBytes int64
	logger       zerolog.Logger
	observer     Observer
}

// ServerOption configures a Server.
type ServerOption func(*Server)

// WithMaxBodyBytes bounds the size of request bodies
func WithMaxBodyBytes(n int64) ServerOption {
	return func(s *Server) {
		s.maxBodyBytes = n
	}
}

func WithLogger(logger zerolog.Logger) ServerOption {
	return func(s *Server) {
		s.logger = logger
	}
}

func WithObserver(obs Observer) ServerOption {
	return func(s *Server) {
		s.observer = obs
	}
}

// NewServer creates a new JSON-RPC server instance.
func NewServer(handler *Handler, opts ...ServerOption) *Server {
	s := &Server{
		handler:      handler,
		maxBodyBytes: 1 << 20,
		logger:       zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	requestID := r.Header.Get(RequestIDHeader)
	if requestID == "" {
		requestID = uuid.NewString()
	}
	w.Header().Set(RequestIDHeader, requestID)
	logger := s.logger.With().Str("request_id", requestID).Logger()

	start := time.Now()
	req, resp := s.serve(r)
	elapsed := time.Since(start)

	result := "ok"
	if resp.Error != nil {
		result = "error"
		logger.Warn().
			Str("method", req.Method).
			Int("code", resp.Error.Code).
			Interface("data", resp.Error.Data).
			Dur("elapsed", elapsed).
			Msg("RPC request failed")
	} else {
		logger.Debug().Str("method", req.Method).Dur("elapsed", elapsed).Msg("RPC request served")
	}
	if s.observer != nil {
		s.observer.ObserveRPC(methodLabel(s.handler, req.Method), result, elapsed)
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(resp); err != nil {
		logger.Error().Err(err).Msg("Failed to write RPC response")
	}
}

func (s *Server) serve(r *http.Request) (Request, Response) {
	var req Request
	resp := Response{JSONRPC: Version}

	body, err := io.ReadAll(io.LimitReader(r.Body, s.maxBodyBytes+1))
	if err != nil {
		resp.Error = errParse(err)
		return req, resp
	}
	if int64(len(body)) > s.maxBodyBytes {
		resp.Error = errInvalidRequest("request body too large")
		return req, resp
	}

	dec := json.NewDecoder(bytes.NewReader(body))
	dec.UseNumber()
	if err := dec.Decode(&req); err != nil {
		resp.Error = errParse(err)
		return req, resp
	}
	resp.ID = req.ID
	if req.JSONRPC != Version {
		resp.Error = errInvalidRequest("jsonrpc must be " + Version)
		return req, resp
	}
	if req.Method == "" {
		resp.Error = errInvalidRequest("missing method")
		return req, resp
	}

	result, rpcErr := s.handler.Handle(r.Context(), req.Method, req.Params)
	if rpcErr != nil {
		resp.Error = rpcErr
		return req, resp
	}
	resp.Result = result
	return req, resp
}

// methodLabel keeps metric cardinality bounded by registered methods.
func methodLabel(h *Handler, method string) string {
	if _, ok := h.methods[method]; ok {
		return method
	}
	return "unknown"
}
