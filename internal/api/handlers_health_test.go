// Menurec - Restaurant Menu Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/menurec

package api

import (
	"net/http"
	"reflect"
	"testing"

	"github.com/tomtom215/menurec/internal/recommend"
)

func TestHealthLive(t *testing.T) {
	t.Parallel()

	srv := newTestServer(&mockRecommender{}, nil, RouterConfig{})
	rec := doRequest(t, srv, http.MethodGet, "/api/v1/health/live", "", nil)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if resp := decodeEnvelope(t, rec); resp.Status != "success" {
		t.Errorf("status = %q", resp.Status)
	}
}

func TestHealthReady(t *testing.T) {
	t.Parallel()

	engine := &mockRecommender{}
	srv := newTestServer(engine, nil, RouterConfig{})

	rec := doRequest(t, srv, http.MethodGet, "/api/v1/health/ready", "", nil)
	if rec.Code != http.StatusServiceUnavailable {
		t.Errorf("before publish: status = %d, want 503", rec.Code)
	}
	if resp := decodeEnvelope(t, rec); resp.Error == nil || resp.Error.Code != CodeNotReady {
		t.Errorf("before publish: envelope = %+v", resp)
	}

	readyEngine := &mockRecommender{snapshot: recommend.EmptySnapshot()}
	srv = newTestServer(readyEngine, nil, RouterConfig{})
	rec = doRequest(t, srv, http.MethodGet, "/api/v1/health/ready", "", nil)
	if rec.Code != http.StatusOK {
		t.Errorf("empty snapshot: status = %d, want 200", rec.Code)
	}
}

func TestSnapshotEndpoint(t *testing.T) {
	t.Parallel()

	snapshot := recommend.EmptySnapshot()
	srv := newTestServer(&mockRecommender{snapshot: snapshot}, nil, RouterConfig{})

	rec := doRequest(t, srv, http.MethodGet, "/api/v1/snapshot", "", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	data, ok := decodeEnvelope(t, rec).Data.(map[string]interface{})
	if !ok {
		t.Fatalf("data is not an object")
	}
	if data["id"] != snapshot.ID() {
		t.Errorf("id = %v, want %q", data["id"], snapshot.ID())
	}
	if data["rows"] != float64(0) {
		t.Errorf("rows = %v, want 0", data["rows"])
	}

	srv = newTestServer(&mockRecommender{}, nil, RouterConfig{})
	if rec := doRequest(t, srv, http.MethodGet, "/api/v1/snapshot", "", nil); rec.Code != http.StatusServiceUnavailable {
		t.Errorf("no snapshot: status = %d, want 503", rec.Code)
	}
}

func TestReload(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		reloader   *mockReloader
		wantStatus int
		wantCode   string
	}{
		{name: "accepted", reloader: &mockReloader{accept: true}, wantStatus: http.StatusAccepted},
		{name: "pending", reloader: &mockReloader{accept: false}, wantStatus: http.StatusTooManyRequests, wantCode: CodeReloadPending},
		{name: "not configured", reloader: nil, wantStatus: http.StatusServiceUnavailable, wantCode: CodeReloadUnavailable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			var reloader ReloadRequester
			if tt.reloader != nil {
				reloader = tt.reloader
			}
			srv := newTestServer(&mockRecommender{}, reloader, RouterConfig{})
			rec := doRequest(t, srv, http.MethodPost, "/api/v1/reload", "", nil)

			if rec.Code != tt.wantStatus {
				t.Fatalf("status = %d, want %d", rec.Code, tt.wantStatus)
			}
			resp := decodeEnvelope(t, rec)
			if tt.wantCode != "" && (resp.Error == nil || resp.Error.Code != tt.wantCode) {
				t.Errorf("envelope = %+v, want code %s", resp, tt.wantCode)
			}
			if tt.reloader != nil && !reflect.DeepEqual(tt.reloader.triggers, []string{"http"}) {
				t.Errorf("triggers = %v", tt.reloader.triggers)
			}
		})
	}
}
