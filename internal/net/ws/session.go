package ws

import (
	"encoding/json"
	"time"

	"github.com/gorilla/websocket"

	"lane-dash/server/internal/net/proto"
	"lane-dash/server/internal/sim"
)

// readLoop dispatches client messages until the connection drops, then
// removes the run so its pooled state is released.
func (h *Handler) readLoop(runID string, conn *websocket.Conn, sub subscription) {
	for {
		_, payload, err := conn.ReadMessage()
		if err != nil {
			h.hub.Disconnect(runID)
			return
		}

		var msg proto.ClientMessage
		if err := json.Unmarshal(payload, &msg); err != nil {
			h.logger.Printf("discarding malformed message from %s: %v", runID, err)
			continue
		}

		switch msg.Type {
		case proto.TypeInput:
			cmd, ok := keyboardCommand(msg.Action)
			if !ok {
				h.logger.Printf("unknown input action %q from %s", msg.Action, runID)
				continue
			}
			if !h.hub.Command(runID, cmd) {
				h.logger.Printf("input ignored for unknown run %s", runID)
			}
		case proto.TypePose:
			sample := sim.PoseSample{HipX: msg.HipX, ShoulderY: msg.ShoulderY, SentAt: msg.SentAt}
			h.hub.Command(runID, sim.Command{Type: sim.CommandPose, Pose: &sample})
		case proto.TypePoseStatus:
			h.hub.PoseStatus(runID, msg.Status, msg.Detail)
		case proto.TypeStart:
			h.hub.StartRun(runID)
		case proto.TypeStop:
			h.hub.StopRun(runID)
		case proto.TypeHeartbeat:
			now := time.Now()
			rtt, ok := h.hub.UpdateHeartbeat(runID, now, msg.SentAt)
			if !ok {
				continue
			}
			ack := proto.HeartbeatMessage{
				Ver:        proto.Version,
				Type:       proto.TypeHeartbeat,
				ServerTime: now.UnixMilli(),
				ClientTime: msg.SentAt,
				RTTMillis:  rtt.Milliseconds(),
			}
			data, err := json.Marshal(ack)
			if err != nil {
				h.logger.Printf("failed to marshal heartbeat ack for %s: %v", runID, err)
				continue
			}
			if err := sub.Send(data); err != nil {
				h.hub.Disconnect(runID)
				return
			}
		default:
			h.logger.Printf("unknown message type %q from %s", msg.Type, runID)
		}
	}
}

func keyboardCommand(action string) (sim.Command, bool) {
	switch action {
	case proto.ActionLeft:
		return sim.Command{Type: sim.CommandMoveLeft}, true
	case proto.ActionRight:
		return sim.Command{Type: sim.CommandMoveRight}, true
	case proto.ActionJump:
		return sim.Command{Type: sim.CommandJump}, true
	default:
		return sim.Command{}, false
	}
}
