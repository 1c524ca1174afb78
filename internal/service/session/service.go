package session

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/zhouzirui/commcoach/backend/internal/analysis/engagement"
	"github.com/zhouzirui/commcoach/backend/internal/model/coachmode"
	"github.com/zhouzirui/commcoach/backend/internal/model/session"
)

var (
	ErrSessionNotFound = errors.New("session not found")
	ErrEmptyContent    = errors.New("turn content is empty")
	ErrTurnInFlight    = errors.New("a turn is already awaiting its reply")
)

// Service holds all practice-session state in memory. Sessions live only as
// long as the process; there is no persistence by design.
type Service struct {
	mu       sync.RWMutex
	sessions map[string]session.Session
	turns    map[string][]session.Turn
	scores   map[string]engagement.Score
	hasScore map[string]bool
	inFlight map[string]bool
}

// NewService bootstraps the in-memory session store.
func NewService() *Service {
	return &Service{
		sessions: make(map[string]session.Session),
		turns:    make(map[string][]session.Turn),
		scores:   make(map[string]engagement.Score),
		hasScore: make(map[string]bool),
		inFlight: make(map[string]bool),
	}
}

// Create provisions a session for the given mode. Unknown modes are
// normalized to the default rather than rejected.
func (s *Service) Create(_ context.Context, mode string) (session.Session, error) {
	sess := session.Session{
		ID:        uuid.NewString(),
		Mode:      string(coachmode.Normalize(mode)),
		CreatedAt: time.Now().UTC(),
	}

	s.mu.Lock()
	s.sessions[sess.ID] = sess
	s.turns[sess.ID] = make([]session.Turn, 0, 16)
	s.mu.Unlock()

	return sess, nil
}

// Get retrieves a session by identifier.
func (s *Service) Get(_ context.Context, sessionID string) (session.Session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	sess, ok := s.sessions[sessionID]
	if !ok {
		return session.Session{}, ErrSessionNotFound
	}
	return sess, nil
}

// AppendTurn adds a turn to the session's append-only history and returns
// the stored turn with its assigned ID and timestamp.
func (s *Service) AppendTurn(_ context.Context, turn session.Turn) (session.Turn, error) {
	if turn.Content == "" {
		return session.Turn{}, ErrEmptyContent
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.sessions[turn.SessionID]; !ok {
		return session.Turn{}, ErrSessionNotFound
	}

	turn.ID = uuid.NewString()
	if turn.CreatedAt.IsZero() {
		turn.CreatedAt = time.Now().UTC()
	}

	s.turns[turn.SessionID] = append(s.turns[turn.SessionID], turn)
	return turn, nil
}

// Transcript returns a copy of the stored turns in chronological order.
func (s *Service) Transcript(_ context.Context, sessionID string) ([]session.Turn, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	turns, ok := s.turns[sessionID]
	if !ok {
		return nil, ErrSessionNotFound
	}

	copied := make([]session.Turn, len(turns))
	copy(copied, turns)
	return copied, nil
}

// UpdateScore replaces the session's latest engagement score. Scores are
// whole-value snapshots, never partially updated.
func (s *Service) UpdateScore(_ context.Context, sessionID string, score engagement.Score) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.sessions[sessionID]; !ok {
		return ErrSessionNotFound
	}

	s.scores[sessionID] = score
	s.hasScore[sessionID] = true
	return nil
}

// LatestScore returns the most recent engagement score, if any frame has
// produced one yet.
func (s *Service) LatestScore(_ context.Context, sessionID string) (engagement.Score, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if _, ok := s.sessions[sessionID]; !ok {
		return engagement.Score{}, false, ErrSessionNotFound
	}
	return s.scores[sessionID], s.hasScore[sessionID], nil
}

// BeginTurn marks the session as awaiting a coach reply. A second submit
// while one is outstanding is rejected; callers must serialize turns.
func (s *Service) BeginTurn(_ context.Context, sessionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.sessions[sessionID]; !ok {
		return ErrSessionNotFound
	}
	if s.inFlight[sessionID] {
		return ErrTurnInFlight
	}
	s.inFlight[sessionID] = true
	return nil
}

// EndTurn releases the in-flight marker set by BeginTurn.
func (s *Service) EndTurn(_ context.Context, sessionID string) {
	s.mu.Lock()
	delete(s.inFlight, sessionID)
	s.mu.Unlock()
}
