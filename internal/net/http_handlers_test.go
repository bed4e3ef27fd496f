package net

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"lane-dash/server"
	"lane-dash/server/internal/net/proto"
)

func newTestHandler() http.Handler {
	return NewHTTPHandler(server.NewHub(), HTTPHandlerConfig{})
}

func TestHealthEndpoint(t *testing.T) {
	handler := newTestHandler()

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if rec.Body.String() != "ok" {
		t.Fatalf("unexpected health body %q", rec.Body.String())
	}
}

func TestJoinEndpointCreatesRun(t *testing.T) {
	handler := newTestHandler()

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/join", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var join proto.JoinResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &join); err != nil {
		t.Fatalf("failed to decode join response: %v", err)
	}
	if join.ID == "" {
		t.Fatalf("expected a run ID in the join response")
	}
	if join.TickRate <= 0 {
		t.Fatalf("expected a positive tick rate, got %d", join.TickRate)
	}
	if join.Snapshot.Running {
		t.Fatalf("a new run must start stopped")
	}
}

func TestJoinEndpointRejectsGet(t *testing.T) {
	handler := newTestHandler()

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/join", nil))
	if rec.Code != http.StatusMethodNotAllowed {
		t.Fatalf("expected 405 for GET /join, got %d", rec.Code)
	}
}

func TestDiagnosticsEndpoint(t *testing.T) {
	hub := server.NewHub()
	handler := NewHTTPHandler(hub, HTTPHandlerConfig{})
	hub.Join()

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/diagnostics", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var diag server.DiagnosticsSnapshot
	if err := json.Unmarshal(rec.Body.Bytes(), &diag); err != nil {
		t.Fatalf("failed to decode diagnostics: %v", err)
	}
	if diag.Status != "ok" {
		t.Fatalf("expected status ok, got %q", diag.Status)
	}
	if len(diag.Runs) != 1 {
		t.Fatalf("expected one run in diagnostics, got %d", len(diag.Runs))
	}
}

func TestWebsocketRequiresRunID(t *testing.T) {
	handler := newTestHandler()

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/ws", nil))
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 without an id parameter, got %d", rec.Code)
	}
}
