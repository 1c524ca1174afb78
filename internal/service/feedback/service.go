package feedback

import (
	"context"
	"errors"
	"log"
	"strings"
	"time"

	"github.com/zhouzirui/commcoach/backend/internal/analysis/engagement"
	"github.com/zhouzirui/commcoach/backend/internal/model/coachmode"
	sessionmodel "github.com/zhouzirui/commcoach/backend/internal/model/session"
	sessionservice "github.com/zhouzirui/commcoach/backend/internal/service/session"
)

// ErrMessageRequired rejects submissions with a blank message.
var ErrMessageRequired = errors.New("message is required")

const defaultHistoryLimit = 3

// Generator produces one coaching reply. Implemented by the AI service and
// by test stubs.
type Generator interface {
	GenerateFeedback(ctx context.Context, profile coachmode.Profile, history []sessionmodel.Turn, message string, snapshot *engagement.Score) (string, error)
}

// Service orchestrates one coaching exchange per Submit call: prompt context
// assembly, a single model attempt, deterministic fallback, and history
// bookkeeping.
type Service struct {
	sessions     *sessionservice.Service
	modes        *coachmode.Store
	generator    Generator
	historyLimit int
}

// NewService wires the feedback engine. A nil generator degrades every
// submission to the fallback path.
func NewService(sessions *sessionservice.Service, modes *coachmode.Store, generator Generator, historyLimit int) *Service {
	if historyLimit <= 0 {
		historyLimit = defaultHistoryLimit
	}
	return &Service{
		sessions:     sessions,
		modes:        modes,
		generator:    generator,
		historyLimit: historyLimit,
	}
}

// Ready reports whether a live generator is configured.
func (s *Service) Ready() bool {
	return s.generator != nil
}

// Request carries one user turn. SessionID is optional: when set, history
// and the latest engagement score come from the session store and the
// exchange is recorded; when empty, History supplies the context and nothing
// is stored.
type Request struct {
	SessionID string
	Message   string
	Mode      string
	History   []sessionmodel.Turn
	Snapshot  *engagement.Score
}

// Result is the outcome of one submission. Feedback is always non-empty;
// Fallback distinguishes the canned reply from a live one.
type Result struct {
	Feedback  string
	Mode      coachmode.Mode
	Timestamp time.Time
	Fallback  bool
}

// Submit runs one coaching exchange. It returns an error only for input
// validation and session-state violations; model and transport failures are
// absorbed by the fallback reply.
func (s *Service) Submit(ctx context.Context, req Request) (Result, error) {
	message := strings.TrimSpace(req.Message)
	if message == "" {
		return Result{}, ErrMessageRequired
	}

	profile := s.modes.Resolve(req.Mode)
	history := req.History
	snapshot := req.Snapshot

	stateful := req.SessionID != ""
	if stateful {
		if err := s.sessions.BeginTurn(ctx, req.SessionID); err != nil {
			return Result{}, err
		}
		defer s.sessions.EndTurn(ctx, req.SessionID)

		transcript, err := s.sessions.Transcript(ctx, req.SessionID)
		if err != nil {
			return Result{}, err
		}
		history = transcript

		if snapshot == nil {
			if score, ok, err := s.sessions.LatestScore(ctx, req.SessionID); err == nil && ok {
				snapshot = &score
			}
		}
	}

	window := lastTurns(history, s.historyLimit)

	result := s.generate(ctx, profile, window, message, snapshot)

	if stateful {
		s.record(ctx, req.SessionID, message, result)
	}

	return result, nil
}

// generate makes exactly one model attempt. Missing generator, transport
// errors, and malformed replies all collapse to the mode's canned fallback;
// this path cannot fail.
func (s *Service) generate(ctx context.Context, profile coachmode.Profile, window []sessionmodel.Turn, message string, snapshot *engagement.Score) Result {
	if s.generator != nil {
		text, err := s.generator.GenerateFeedback(ctx, profile, window, message, snapshot)
		if err == nil {
			return Result{
				Feedback:  strings.TrimSpace(text),
				Mode:      profile.Mode,
				Timestamp: time.Now().UTC(),
			}
		}
		log.Printf("[feedback] generation failed, using fallback: %v", err)
	}

	return Result{
		Feedback:  profile.Fallback,
		Mode:      profile.Mode,
		Timestamp: time.Now().UTC(),
		Fallback:  true,
	}
}

// record appends the user turn and the coach reply to the session. Failures
// here are logged but never surfaced: the user already has their reply.
func (s *Service) record(ctx context.Context, sessionID, message string, result Result) {
	if _, err := s.sessions.AppendTurn(ctx, sessionmodel.Turn{
		SessionID: sessionID,
		Role:      sessionmodel.RoleUser,
		Content:   message,
	}); err != nil {
		log.Printf("[feedback] failed to record user turn session=%s: %v", sessionID, err)
		return
	}

	if _, err := s.sessions.AppendTurn(ctx, sessionmodel.Turn{
		SessionID: sessionID,
		Role:      sessionmodel.RoleCoach,
		Content:   result.Feedback,
	}); err != nil {
		log.Printf("[feedback] failed to record coach turn session=%s: %v", sessionID, err)
	}
}

func lastTurns(turns []sessionmodel.Turn, limit int) []sessionmodel.Turn {
	if len(turns) <= limit {
		return turns
	}
	return turns[len(turns)-limit:]
}
