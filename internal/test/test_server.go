package test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github/chapool/go-sweeper/internal/api"
	"github/chapool/go-sweeper/internal/api/router"
	"github/chapool/go-sweeper/internal/config"
)

// TestChainID is the chain id served by the fake chain of WithTestServer.
const TestChainID = 77777

// NewTestConfig returns the default configuration pointing at the given rpc urls.
// Spacing and backoff are shortened so sweeps finish quickly in tests.
func NewTestConfig(rpcURLs ...string) config.Sweep {
	cfg := config.Default()
	cfg.Chain.ID = TestChainID
	cfg.Chain.RPCURLs = rpcURLs
	cfg.Engine.MinSpacing = 0
	cfg.Engine.RetryBackoff = 10 * time.Millisecond
	cfg.Engine.RPCAttemptTimeout = 2 * time.Second
	cfg.Engine.ReceiptPollInterval = 10 * time.Millisecond

	return cfg
}

// WithTestServer starts a fake chain and runs closure with a server connected to it.
func WithTestServer(t *testing.T, closure func(s *api.Server)) {
	t.Helper()

	WithTestServerAndChain(t, func(s *api.Server, _ *FakeChain) {
		t.Helper()
		closure(s)
	})
}

// WithTestServerAndChain is WithTestServer that also hands out the fake chain.
func WithTestServerAndChain(t *testing.T, closure func(s *api.Server, chain *FakeChain)) {
	t.Helper()

	chain := NewFakeChain(t, TestChainID)

	WithTestServerConfigurable(t, NewTestConfig(chain.URL), func(s *api.Server) {
		t.Helper()
		closure(s, chain)
	})
}

// WithTestServerConfigurable runs closure with a server initialized from cfg.
func WithTestServerConfigurable(t *testing.T, cfg config.Sweep, closure func(s *api.Server)) {
	t.Helper()

	s, err := api.InitNewServer(cfg)
	if err != nil {
		t.Fatalf("failed to init server: %v", err)
	}

	router.Init(s)

	closure(s)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if errs := s.Shutdown(ctx); len(errs) > 0 {
		t.Fatalf("failed to shutdown server: %v", errs)
	}
}

// PerformRequest runs a request directly against the server's echo instance.
// A non-nil body is encoded as JSON.
func PerformRequest(t *testing.T, s *api.Server, method string, path string, body any, headers http.Header) *httptest.ResponseRecorder {
	t.Helper()

	var reader io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("failed to encode request body: %v", err)
		}
		reader = bytes.NewReader(b)
	}

	req := httptest.NewRequest(method, path, reader)
	for key, values := range headers {
		for _, value := range values {
			req.Header.Add(key, value)
		}
	}

	if body != nil && req.Header.Get("Content-Type") == "" {
		req.Header.Set("Content-Type", "application/json")
	}

	res := httptest.NewRecorder()
	s.Echo.ServeHTTP(res, req)

	return res
}
