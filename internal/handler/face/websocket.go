package face

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"

	facemodel "github.com/zhouzirui/commcoach/backend/internal/model/face"
	engagementservice "github.com/zhouzirui/commcoach/backend/internal/service/engagement"
	"github.com/zhouzirui/commcoach/backend/pkg/utils"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
	ReadBufferSize:  4096,
	WriteBufferSize: 1024,
}

type inboundMessage struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data"`
}

type landmarksMessage struct {
	Points []facemodel.Point `json:"points"`
}

type outgoingMessage struct {
	Type      string      `json:"type"`
	SessionID string      `json:"sessionId,omitempty"`
	Data      interface{} `json:"data,omitempty"`
	Timestamp int64       `json:"timestamp"`
}

// wsConn serializes writes; the update pump and the read loop both send.
type wsConn struct {
	mu   sync.Mutex
	conn *websocket.Conn
}

func (c *wsConn) writeJSON(v interface{}) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.conn.WriteJSON(v)
}

// handleStream upgrades the connection and runs the landmark stream: the
// client pushes detector meshes at its native frame rate, the monitor scores
// the freshest one per tick, and the scores flow back down the socket while
// also updating the session's latest-score slot.
func (h *Handler) handleStream(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "sessionID")
	if _, err := h.sessions.Get(r.Context(), sessionID); err != nil {
		utils.RespondError(w, http.StatusNotFound, "session not found")
		return
	}

	rawConn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("[face] websocket upgrade failed session=%s: %v", sessionID, err)
		return
	}
	conn := &wsConn{conn: rawConn}
	defer rawConn.Close()

	ctx, cancel := context.WithCancel(r.Context())
	defer cancel()

	monitor := engagementservice.NewMonitor(sessionID, h.sessions, h.interval)
	go monitor.Run(ctx)

	go h.pumpUpdates(sessionID, conn, monitor)

	_ = conn.writeJSON(outgoingMessage{
		Type:      "status",
		SessionID: sessionID,
		Data:      map[string]string{"message": "engagement stream established"},
		Timestamp: time.Now().UnixMilli(),
	})

	h.readLoop(sessionID, conn, rawConn, monitor)
}

// pumpUpdates forwards analyzed scores to the client until the monitor stops.
func (h *Handler) pumpUpdates(sessionID string, conn *wsConn, monitor *engagementservice.Monitor) {
	for update := range monitor.Updates() {
		msg := outgoingMessage{
			Type:      "engagement",
			SessionID: sessionID,
			Data:      analysisPayload{Score: update.Score, Advice: update.Advice},
			Timestamp: time.Now().UnixMilli(),
		}
		if err := conn.writeJSON(msg); err != nil {
			log.Printf("[face] failed to push engagement update session=%s: %v", sessionID, err)
			return
		}
	}
}

func (h *Handler) readLoop(sessionID string, conn *wsConn, rawConn *websocket.Conn, monitor *engagementservice.Monitor) {
	for {
		var msg inboundMessage
		if err := rawConn.ReadJSON(&msg); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				log.Printf("[face] websocket closed unexpectedly session=%s: %v", sessionID, err)
			}
			return
		}

		switch msg.Type {
		case "landmarks":
			h.offerLandmarks(conn, monitor, msg.Data)
		case "ping":
			_ = conn.writeJSON(outgoingMessage{Type: "pong", Timestamp: time.Now().UnixMilli()})
		default:
			_ = conn.writeJSON(outgoingMessage{
				Type:      "error",
				Data:      map[string]string{"message": "unknown message type: " + msg.Type},
				Timestamp: time.Now().UnixMilli(),
			})
		}
	}
}

func (h *Handler) offerLandmarks(conn *wsConn, monitor *engagementservice.Monitor, data json.RawMessage) {
	var payload landmarksMessage
	if err := json.Unmarshal(data, &payload); err != nil {
		_ = conn.writeJSON(outgoingMessage{
			Type:      "error",
			Data:      map[string]string{"message": "invalid landmarks payload"},
			Timestamp: time.Now().UnixMilli(),
		})
		return
	}

	sample, err := facemodel.SampleFromMesh(payload.Points)
	if err != nil {
		_ = conn.writeJSON(outgoingMessage{
			Type:      "error",
			Data:      map[string]string{"message": err.Error()},
			Timestamp: time.Now().UnixMilli(),
		})
		return
	}

	// Frames the monitor cannot keep up with are discarded, never queued.
	monitor.Offer(sample)
}
