// Package ws upgrades connections and runs the per-run websocket session.
package ws

import (
	"encoding/json"
	"log"
	nethttp "net/http"
	"time"

	"github.com/gorilla/websocket"

	"lane-dash/server"
	"lane-dash/server/internal/net/proto"
	"lane-dash/server/internal/telemetry"
)

// subscription is the slice of the hub subscriber the session needs.
type subscription interface {
	Send(data []byte) error
}

type HandlerConfig struct {
	Logger telemetry.Logger
}

type Handler struct {
	hub      *server.Hub
	logger   telemetry.Logger
	upgrader websocket.Upgrader
}

func NewHandler(hub *server.Hub, cfg HandlerConfig) *Handler {
	logger := cfg.Logger
	if logger == nil {
		logger = telemetry.WrapLogger(log.Default())
	}
	return &Handler{
		hub:    hub,
		logger: logger,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *nethttp.Request) bool {
				return true
			},
		},
	}
}

// Handle upgrades the connection, attaches it to the run named by ?id=, and
// enters the read loop.
func (h *Handler) Handle(w nethttp.ResponseWriter, r *nethttp.Request) {
	runID := r.URL.Query().Get("id")
	if runID == "" {
		nethttp.Error(w, "missing id", nethttp.StatusBadRequest)
		return
	}

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Printf("upgrade failed for %s: %v", runID, err)
		return
	}

	sub, snapshot, ok := h.hub.Subscribe(runID, conn)
	if !ok {
		message := websocket.FormatCloseMessage(websocket.ClosePolicyViolation, "unknown run")
		conn.WriteMessage(websocket.CloseMessage, message)
		conn.Close()
		return
	}

	initial := proto.NewStateMessage(snapshot, time.Now().UnixMilli())
	data, err := json.Marshal(initial)
	if err != nil {
		h.logger.Printf("failed to marshal initial state for %s: %v", runID, err)
		h.hub.Disconnect(runID)
		return
	}
	if err := sub.Send(data); err != nil {
		h.hub.Disconnect(runID)
		return
	}

	h.readLoop(runID, conn, sub)
}
