// Menurec - Restaurant Menu Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/menurec

package api

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/goccy/go-json"

	"github.com/tomtom215/menurec/internal/recommend"
)

// mockRecommender records requests and returns a canned response.
type mockRecommender struct {
	mu       sync.Mutex
	requests []recommend.Request
	snapshot *recommend.Snapshot
	panics   bool
}

func (m *mockRecommender) Predict(req recommend.Request) *recommend.Response {
	if m.panics {
		panic("predict exploded")
	}
	m.mu.Lock()
	m.requests = append(m.requests, req)
	m.mu.Unlock()
	return &recommend.Response{
		RestaurantID:   req.RestaurantID,
		CustomerID:     req.CustomerID,
		Recommendation: []string{"Coke", "Pizza"},
		Reason:         "your usual order at " + req.RestaurantID,
		ModelType:      recommend.ModelTypeBundle,
	}
}

func (m *mockRecommender) Ready() bool { return m.snapshot != nil }

func (m *mockRecommender) Snapshot() *recommend.Snapshot { return m.snapshot }

func (m *mockRecommender) lastRequest(t *testing.T) recommend.Request {
	t.Helper()
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.requests) == 0 {
		t.Fatal("Predict was not called")
	}
	return m.requests[len(m.requests)-1]
}

func (m *mockRecommender) calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.requests)
}

// mockReloader accepts or rejects every reload request.
type mockReloader struct {
	mu       sync.Mutex
	accept   bool
	triggers []string
}

func (m *mockReloader) RequestReload(trigger string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.triggers = append(m.triggers, trigger)
	return m.accept
}

func newTestServer(engine Recommender, reloader ReloadRequester, cfg RouterConfig) http.Handler {
	if cfg.Middleware == nil {
		cfg.Middleware = DefaultChiMiddlewareConfig()
	}
	return NewRouter(NewHandler(engine, reloader), cfg).SetupChi()
}

func doRequest(t *testing.T, h http.Handler, method, path, body string, headers map[string]string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decodeEnvelope(t *testing.T, rec *httptest.ResponseRecorder) APIResponse {
	t.Helper()
	var resp APIResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode envelope: %v (body %q)", err, rec.Body.String())
	}
	return resp
}
