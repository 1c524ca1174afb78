package session

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"

	sessionmodel "github.com/zhouzirui/commcoach/backend/internal/model/session"
	sessionservice "github.com/zhouzirui/commcoach/backend/internal/service/session"
)

func setupRouter() (*chi.Mux, *sessionservice.Service) {
	sessions := sessionservice.NewService()
	r := chi.NewRouter()
	New(sessions).RegisterRoutes(r)
	return r, sessions
}

func TestCreateSession(t *testing.T) {
	r, _ := setupRouter()

	payload := []byte(`{"mode":"interview"}`)
	req := httptest.NewRequest(http.MethodPost, "/session", bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()

	r.ServeHTTP(resp, req)

	if resp.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", resp.Code)
	}

	var created sessionmodel.Session
	if err := json.Unmarshal(resp.Body.Bytes(), &created); err != nil {
		t.Fatalf("decode err: %v", err)
	}
	if created.ID == "" || created.Mode != "interview" {
		t.Fatalf("unexpected session: %+v", created)
	}
}

func TestCreateSessionUnknownModeNormalized(t *testing.T) {
	r, _ := setupRouter()

	payload := []byte(`{"mode":"standup_comedy"}`)
	req := httptest.NewRequest(http.MethodPost, "/session", bytes.NewReader(payload))
	resp := httptest.NewRecorder()

	r.ServeHTTP(resp, req)

	if resp.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", resp.Code)
	}

	var created sessionmodel.Session
	if err := json.Unmarshal(resp.Body.Bytes(), &created); err != nil {
		t.Fatalf("decode err: %v", err)
	}
	if created.Mode != "introduction" {
		t.Fatalf("expected introduction mode, got %s", created.Mode)
	}
}

func TestTranscriptOrderAndNotFound(t *testing.T) {
	r, sessions := setupRouter()
	ctx := httptest.NewRequest(http.MethodGet, "/", nil).Context()

	sess, _ := sessions.Create(ctx, "seminar")
	for _, content := range []string{"alpha", "beta"} {
		if _, err := sessions.AppendTurn(ctx, sessionmodel.Turn{SessionID: sess.ID, Role: sessionmodel.RoleUser, Content: content}); err != nil {
			t.Fatalf("AppendTurn err: %v", err)
		}
	}

	req := httptest.NewRequest(http.MethodGet, "/session/"+sess.ID+"/transcript", nil)
	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.Code)
	}

	var body struct {
		SessionID string              `json:"sessionId"`
		Turns     []sessionmodel.Turn `json:"turns"`
	}
	if err := json.Unmarshal(resp.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode err: %v", err)
	}
	if len(body.Turns) != 2 || body.Turns[0].Content != "alpha" || body.Turns[1].Content != "beta" {
		t.Fatalf("unexpected transcript: %+v", body.Turns)
	}

	req = httptest.NewRequest(http.MethodGet, "/session/missing/transcript", nil)
	resp = httptest.NewRecorder()
	r.ServeHTTP(resp, req)

	if resp.Code != http.StatusNotFound {
		t.Fatalf("expected 404 for unknown session, got %d", resp.Code)
	}
}
