package face

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/zhouzirui/commcoach/backend/internal/analysis/engagement"
	facemodel "github.com/zhouzirui/commcoach/backend/internal/model/face"
	sessionservice "github.com/zhouzirui/commcoach/backend/internal/service/session"
	"github.com/zhouzirui/commcoach/backend/pkg/utils"
)

// Handler exposes facial-engagement analysis over REST and WebSocket.
type Handler struct {
	sessions *sessionservice.Service
	interval time.Duration
}

// New creates the face-analysis handler. interval is the streaming analysis
// cadence.
func New(sessions *sessionservice.Service, interval time.Duration) *Handler {
	return &Handler{sessions: sessions, interval: interval}
}

// RegisterRoutes mounts the analysis routes.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Post("/face/analyze", h.handleAnalyze)
	r.Get("/face/ws/{sessionID}", h.handleStream)
}

type analyzeRequest struct {
	Landmarks []facemodel.Point `json:"landmarks"`
}

// analysisPayload is the score plus its advisory message, shared by the REST
// response and the WebSocket frames.
type analysisPayload struct {
	engagement.Score
	Advice string `json:"advice"`
}

// handleAnalyze scores a single landmark mesh. Useful for clients without a
// WebSocket and for probing the analyzer.
func (h *Handler) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	var payload analyzeRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		utils.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	sample, err := facemodel.SampleFromMesh(payload.Landmarks)
	if err != nil {
		utils.RespondError(w, http.StatusBadRequest, err.Error())
		return
	}

	score := engagement.Analyze(sample)
	utils.RespondJSON(w, http.StatusOK, analysisPayload{
		Score:  score,
		Advice: engagement.Advise(score),
	})
}
