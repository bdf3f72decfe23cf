package transport

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
)

// version is the only protocol revision this transport speaks.
const version = "2.0"

// Error codes from the JSON-RPC 2.0 spec. The first two describe problems
// with the envelope itself and are reported with a null id; the rest arise
// after dispatch and echo the caller's id.
const (
	ErrParseCode  = -32700 // body is not valid JSON
	ErrInvalidReq = -32600 // envelope is malformed

	ErrMethodNotFound = -32601
	ErrInvalidParams  = -32602
	ErrInternal       = -32603
)

// Request is one incoming JSON-RPC call. Params stay raw here; the MCP
// layer decodes them per method.
type Request struct {
	JSONRPC string          `json:"jsonrpc"`
	Method  string          `json:"method"`
	Params  json.RawMessage `json:"params,omitempty"`
	ID      any             `json:"id,omitempty"`
}

// Response carries either a result or an error, never both.
type Response struct {
	JSONRPC string `json:"jsonrpc"`
	Result  any    `json:"result,omitempty"`
	Error   *Error `json:"error,omitempty"`
	ID      any    `json:"id,omitempty"`
}

// Error is the error object attached to a failed Response.
type Error struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Data    any    `json:"data,omitempty"`
}

// ParseRequest decodes a single request from body and checks its envelope.
func ParseRequest(body io.Reader) (Request, error) {
	var req Request
	if err := json.NewDecoder(body).Decode(&req); err != nil {
		return Request{}, fmt.Errorf("decode request: %w", err)
	}
	if req.JSONRPC != version {
		return Request{}, fmt.Errorf("unsupported jsonrpc version %q", req.JSONRPC)
	}
	if req.Method == "" {
		return Request{}, fmt.Errorf("missing method")
	}
	return req, nil
}

// WriteResult sends a success response for the given request id.
func WriteResult(w http.ResponseWriter, id any, result any) {
	send(w, Response{JSONRPC: version, Result: result, ID: id})
}

// WriteError sends an error response. Failures travel in the JSON-RPC
// envelope, so the HTTP status is 200 either way.
func WriteError(w http.ResponseWriter, id any, code int, message string, data any) {
	send(w, Response{
		JSONRPC: version,
		Error:   &Error{Code: code, Message: message, Data: data},
		ID:      id,
	})
}

func send(w http.ResponseWriter, resp Response) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_ = json.NewEncoder(w).Encode(resp)
}
