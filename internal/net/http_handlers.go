// Package net exposes the HTTP surface: join, websocket, diagnostics, and
// the static client files.
package net

import (
	"encoding/json"
	"log"
	nethttp "net/http"

	"lane-dash/server"
	"lane-dash/server/internal/net/ws"
	"lane-dash/server/internal/telemetry"
	"lane-dash/server/logging"
)

type HTTPHandlerConfig struct {
	ClientDir string
	Logger    telemetry.Logger

	// RouterStats, when set, adds logging router counters to /diagnostics.
	RouterStats func() logging.RouterStats
}

// NewHTTPHandler wires the hub behind a mux.
func NewHTTPHandler(hub *server.Hub, cfg HTTPHandlerConfig) nethttp.Handler {
	logger := cfg.Logger
	if logger == nil {
		logger = telemetry.WrapLogger(log.Default())
	}

	mux := nethttp.NewServeMux()

	mux.HandleFunc("/health", func(w nethttp.ResponseWriter, r *nethttp.Request) {
		w.Header().Set("Content-Type", "text/plain")
		w.Write([]byte("ok"))
	})

	mux.HandleFunc("/diagnostics", func(w nethttp.ResponseWriter, r *nethttp.Request) {
		payload := struct {
			server.DiagnosticsSnapshot
			Logging *logging.RouterStats `json:"logging,omitempty"`
		}{DiagnosticsSnapshot: hub.Diagnostics()}
		if cfg.RouterStats != nil {
			stats := cfg.RouterStats()
			payload.Logging = &stats
		}
		data, err := json.Marshal(payload)
		if err != nil {
			nethttp.Error(w, "failed to encode", nethttp.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write(data)
	})

	mux.HandleFunc("/join", func(w nethttp.ResponseWriter, r *nethttp.Request) {
		if r.Method != nethttp.MethodPost {
			nethttp.Error(w, "method not allowed", nethttp.StatusMethodNotAllowed)
			return
		}
		data, err := json.Marshal(hub.Join())
		if err != nil {
			nethttp.Error(w, "failed to encode", nethttp.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write(data)
	})

	wsHandler := ws.NewHandler(hub, ws.HandlerConfig{Logger: logger})
	mux.HandleFunc("/ws", wsHandler.Handle)

	if cfg.ClientDir != "" {
		mux.Handle("/", nethttp.FileServer(nethttp.Dir(cfg.ClientDir)))
	}

	return mux
}
