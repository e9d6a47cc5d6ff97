package test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"
)

// RPCError is a JSON-RPC error object returned by a mock handler.
type RPCError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

// RPCHandler answers a single JSON-RPC method. Returning a json.RawMessage
// result writes it verbatim, which allows null or malformed results.
type RPCHandler func(params []json.RawMessage) (any, *RPCError)

// RPCServer is an httptest JSON-RPC node with per-method handlers and call counters.
type RPCServer struct {
	*httptest.Server

	mu       sync.Mutex
	handlers map[string]RPCHandler
	calls    map[string]int
	total    int
	down     bool
	garbage  bool
	delay    time.Duration
}

type rpcRequest struct {
	ID     json.RawMessage   `json:"id"`
	Method string            `json:"method"`
	Params []json.RawMessage `json:"params"`
}

type rpcResponse struct {
	JSONRPC string          `json:"jsonrpc"`
	ID      json.RawMessage `json:"id"`
	Result  json.RawMessage `json:"result,omitempty"`
	Error   *RPCError       `json:"error,omitempty"`
}

// NewRPCServer starts a mock node that is closed when the test ends.
func NewRPCServer(t *testing.T) *RPCServer {
	t.Helper()

	s := &RPCServer{
		handlers: make(map[string]RPCHandler),
		calls:    make(map[string]int),
	}
	s.Server = httptest.NewServer(http.HandlerFunc(s.serve))
	t.Cleanup(s.Close)

	return s
}

// Handle registers h for method.
func (s *RPCServer) Handle(method string, h RPCHandler) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.handlers[method] = h
}

// Result registers a handler that always returns result.
func (s *RPCServer) Result(method string, result any) {
	s.Handle(method, func([]json.RawMessage) (any, *RPCError) {
		return result, nil
	})
}

// SetDown makes the server answer every request with 503.
func (s *RPCServer) SetDown(down bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.down = down
}

// SetGarbage makes the server answer with a body that is not JSON.
func (s *RPCServer) SetGarbage(garbage bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.garbage = garbage
}

// SetDelay delays every response by d.
func (s *RPCServer) SetDelay(d time.Duration) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.delay = d
}

// Calls returns how often method was requested.
func (s *RPCServer) Calls(method string) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.calls[method]
}

// TotalCalls returns the number of requests received, including failed ones.
func (s *RPCServer) TotalCalls() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.total
}

func (s *RPCServer) serve(w http.ResponseWriter, r *http.Request) {
	var req rpcRequest
	decodeErr := json.NewDecoder(r.Body).Decode(&req)

	s.mu.Lock()
	s.total++
	s.calls[req.Method]++
	handler := s.handlers[req.Method]
	down, garbage, delay := s.down, s.garbage, s.delay
	s.mu.Unlock()

	if delay > 0 {
		select {
		case <-time.After(delay):
		case <-r.Context().Done():
			return
		}
	}

	if down {
		http.Error(w, "service unavailable", http.StatusServiceUnavailable)
		return
	}

	w.Header().Set("Content-Type", "application/json")

	if garbage {
		_, _ = w.Write([]byte("<html>bad gateway</html>"))
		return
	}

	resp := rpcResponse{JSONRPC: "2.0", ID: req.ID}

	switch {
	case decodeErr != nil:
		resp.Error = &RPCError{Code: -32700, Message: "parse error"}
	case handler == nil:
		resp.Error = &RPCError{Code: -32601, Message: "the method " + req.Method + " does not exist/is not available"}
	default:
		result, rpcErr := handler(req.Params)
		if rpcErr != nil {
			resp.Error = rpcErr
			break
		}

		if raw, ok := result.(json.RawMessage); ok {
			resp.Result = raw
			break
		}

		encoded, err := json.Marshal(result)
		if err != nil {
			resp.Error = &RPCError{Code: -32603, Message: err.Error()}
			break
		}

		resp.Result = encoded
	}

	_ = json.NewEncoder(w).Encode(resp)
}
