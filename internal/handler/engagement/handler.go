package engagement

import (
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/zhouzirui/commcoach/backend/internal/analysis/engagement"
	sessionservice "github.com/zhouzirui/commcoach/backend/internal/service/session"
	"github.com/zhouzirui/commcoach/backend/pkg/utils"
)

// streamInterval paces the SSE feed. The analyzer runs faster, but a UI
// panel does not need more than one refresh per second.
const streamInterval = time.Second

// Handler streams a session's latest engagement score over SSE.
type Handler struct {
	sessions *sessionservice.Service
	interval time.Duration
}

// New creates the engagement stream handler.
func New(sessions *sessionservice.Service) *Handler {
	return &Handler{sessions: sessions, interval: streamInterval}
}

// RegisterRoutes mounts the stream route.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Get("/engagement/stream/{sessionID}", h.handleStream)
}

func (h *Handler) handleStream(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "sessionID")

	if _, err := h.sessions.Get(r.Context(), sessionID); err != nil {
		if errors.Is(err, sessionservice.ErrSessionNotFound) {
			utils.RespondError(w, http.StatusNotFound, "session not found")
			return
		}
		utils.RespondError(w, http.StatusInternalServerError, "failed to load session")
		return
	}

	flusher, ok := w.(http.Flusher)
	if !ok {
		utils.RespondError(w, http.StatusInternalServerError, "streaming unsupported")
		return
	}

	utils.SetupSSEHeaders(w)

	ctx := r.Context()
	log.Printf("[engagement] opening stream for session=%s", sessionID)

	utils.SendSSEChunk(w, flusher, map[string]any{
		"event":   "status",
		"message": "engagement stream established",
	})

	ticker := time.NewTicker(h.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			log.Printf("[engagement] closing stream for session=%s", sessionID)
			return
		case t := <-ticker.C:
			score, ok, err := h.sessions.LatestScore(ctx, sessionID)
			if err != nil {
				return
			}
			if !ok {
				// No frame has produced a score yet; keep the
				// connection warm.
				utils.SendSSEEvent(w, flusher, "heartbeat", map[string]string{
					"time": t.UTC().Format(time.RFC3339),
				})
				continue
			}

			utils.SendSSEEvent(w, flusher, "engagement", map[string]any{
				"scores": score,
				"advice": engagement.Advise(score),
				"time":   t.UTC().Format(time.RFC3339),
			})
		}
	}
}
