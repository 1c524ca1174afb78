package feedback

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/zhouzirui/commcoach/backend/internal/analysis/engagement"
	sessionmodel "github.com/zhouzirui/commcoach/backend/internal/model/session"
	feedbackservice "github.com/zhouzirui/commcoach/backend/internal/service/feedback"
	sessionservice "github.com/zhouzirui/commcoach/backend/internal/service/session"
	"github.com/zhouzirui/commcoach/backend/pkg/utils"
)

// Handler exposes the coaching feedback endpoint.
type Handler struct {
	engine *feedbackservice.Service
}

// New creates the feedback handler.
func New(engine *feedbackservice.Service) *Handler {
	return &Handler{engine: engine}
}

// RegisterRoutes mounts the feedback routes.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Post("/feedback", h.handleFeedback)
}

type historyEntry struct {
	Type    string `json:"type"`
	Content string `json:"content"`
}

type feedbackRequest struct {
	Message             string            `json:"message"`
	Mode                string            `json:"mode"`
	SessionID           string            `json:"sessionId"`
	ConversationHistory []historyEntry    `json:"conversationHistory"`
	FaceAnalysis        *engagement.Score `json:"faceAnalysis"`
}

type feedbackResponse struct {
	Feedback  string `json:"feedback"`
	Mode      string `json:"mode"`
	Timestamp string `json:"timestamp"`
	Fallback  bool   `json:"fallback,omitempty"`
}

func (h *Handler) handleFeedback(w http.ResponseWriter, r *http.Request) {
	var payload feedbackRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		utils.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if strings.TrimSpace(payload.Message) == "" || strings.TrimSpace(payload.Mode) == "" {
		utils.RespondError(w, http.StatusBadRequest, "Message and mode are required")
		return
	}

	if !h.engine.Ready() {
		utils.RespondError(w, http.StatusInternalServerError, "Ark credentials not configured")
		return
	}

	result, err := h.engine.Submit(r.Context(), feedbackservice.Request{
		SessionID: payload.SessionID,
		Message:   payload.Message,
		Mode:      payload.Mode,
		History:   convertHistory(payload.ConversationHistory),
		Snapshot:  payload.FaceAnalysis,
	})
	if err != nil {
		switch {
		case errors.Is(err, feedbackservice.ErrMessageRequired):
			utils.RespondError(w, http.StatusBadRequest, "Message and mode are required")
		case errors.Is(err, sessionservice.ErrSessionNotFound):
			utils.RespondError(w, http.StatusNotFound, "session not found")
		case errors.Is(err, sessionservice.ErrTurnInFlight):
			utils.RespondError(w, http.StatusConflict, "a reply is still being generated for this session")
		default:
			utils.RespondError(w, http.StatusInternalServerError, "failed to generate feedback")
		}
		return
	}

	utils.RespondJSON(w, http.StatusOK, feedbackResponse{
		Feedback:  result.Feedback,
		Mode:      string(result.Mode),
		Timestamp: result.Timestamp.Format(time.RFC3339),
		Fallback:  result.Fallback,
	})
}

// convertHistory maps the wire history entries ("user"/"ai") onto turn roles
// for the stateless request path.
func convertHistory(entries []historyEntry) []sessionmodel.Turn {
	if len(entries) == 0 {
		return nil
	}

	turns := make([]sessionmodel.Turn, 0, len(entries))
	for _, entry := range entries {
		role := sessionmodel.RoleCoach
		if entry.Type == "user" {
			role = sessionmodel.RoleUser
		}
		turns = append(turns, sessionmodel.Turn{Role: role, Content: entry.Content})
	}
	return turns
}
