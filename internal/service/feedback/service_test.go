package feedback

import (
	"context"
	"errors"
	"testing"

	"github.com/zhouzirui/commcoach/backend/internal/analysis/engagement"
	"github.com/zhouzirui/commcoach/backend/internal/model/coachmode"
	sessionmodel "github.com/zhouzirui/commcoach/backend/internal/model/session"
	sessionservice "github.com/zhouzirui/commcoach/backend/internal/service/session"
)

// stubGenerator records what it was asked and returns a fixed reply or error.
type stubGenerator struct {
	reply   string
	err     error
	profile coachmode.Profile
	history []sessionmodel.Turn
	message string
	snap    *engagement.Score
	calls   int
}

func (g *stubGenerator) GenerateFeedback(_ context.Context, profile coachmode.Profile, history []sessionmodel.Turn, message string, snapshot *engagement.Score) (string, error) {
	g.calls++
	g.profile = profile
	g.history = history
	g.message = message
	g.snap = snapshot
	if g.err != nil {
		return "", g.err
	}
	return g.reply, nil
}

func newEngine(t *testing.T, gen Generator) (*Service, *sessionservice.Service) {
	t.Helper()
	modes, err := coachmode.NewStore(coachmode.Seed())
	if err != nil {
		t.Fatalf("NewStore err: %v", err)
	}
	sessions := sessionservice.NewService()
	return NewService(sessions, modes, gen, 3), sessions
}

func TestSubmitSuccessEchoesModeAndFeedback(t *testing.T) {
	gen := &stubGenerator{reply: "Good clarity—try projecting more energy."}
	engine, _ := newEngine(t, gen)

	result, err := engine.Submit(context.Background(), Request{
		Message: "Hi, I'm Alex, a software engineer",
		Mode:    "introduction",
	})
	if err != nil {
		t.Fatalf("Submit err: %v", err)
	}

	if result.Feedback != "Good clarity—try projecting more energy." {
		t.Fatalf("unexpected feedback: %q", result.Feedback)
	}
	if result.Mode != coachmode.Introduction {
		t.Fatalf("unexpected mode: %s", result.Mode)
	}
	if result.Fallback {
		t.Fatal("successful reply must not be marked fallback")
	}
	if result.Timestamp.IsZero() {
		t.Fatal("missing timestamp")
	}
}

func TestSubmitTransportFailureReturnsExactFallback(t *testing.T) {
	gen := &stubGenerator{err: errors.New("network error")}
	engine, _ := newEngine(t, gen)

	result, err := engine.Submit(context.Background(), Request{
		Message: "Hi, I'm Alex, a software engineer",
		Mode:    "introduction",
	})
	if err != nil {
		t.Fatalf("fallback path must not error, got: %v", err)
	}

	want := coachmode.Seed()[0].Fallback
	if result.Feedback != want {
		t.Fatalf("fallback text mismatch:\ngot  %q\nwant %q", result.Feedback, want)
	}
	if !result.Fallback {
		t.Fatal("expected Fallback=true")
	}
	if gen.calls != 1 {
		t.Fatalf("expected a single attempt, got %d", gen.calls)
	}
}

func TestSubmitUnknownModeUsesIntroductionProfile(t *testing.T) {
	gen := &stubGenerator{err: errors.New("boom")}
	engine, _ := newEngine(t, gen)

	result, err := engine.Submit(context.Background(), Request{Message: "hello", Mode: "unknown_mode"})
	if err != nil {
		t.Fatalf("Submit err: %v", err)
	}

	if gen.profile.Mode != coachmode.Introduction {
		t.Fatalf("expected introduction persona, got %s", gen.profile.Mode)
	}
	if result.Mode != coachmode.Introduction {
		t.Fatalf("expected introduction mode in result, got %s", result.Mode)
	}
	if result.Feedback != coachmode.Seed()[0].Fallback {
		t.Fatalf("expected introduction fallback, got %q", result.Feedback)
	}
}

func TestSubmitRejectsBlankMessage(t *testing.T) {
	engine, _ := newEngine(t, &stubGenerator{reply: "ok"})

	if _, err := engine.Submit(context.Background(), Request{Message: "   ", Mode: "seminar"}); err != ErrMessageRequired {
		t.Fatalf("expected ErrMessageRequired, got %v", err)
	}
}

func TestSubmitNilGeneratorStillReplies(t *testing.T) {
	engine, _ := newEngine(t, nil)

	result, err := engine.Submit(context.Background(), Request{Message: "hello", Mode: "interview"})
	if err != nil {
		t.Fatalf("Submit err: %v", err)
	}
	if !result.Fallback || result.Feedback == "" {
		t.Fatalf("expected non-empty fallback reply, got %+v", result)
	}
}

func TestSubmitWindowNeverExceedsLimit(t *testing.T) {
	gen := &stubGenerator{reply: "ok"}
	engine, sessions := newEngine(t, gen)
	ctx := context.Background()

	sess, _ := sessions.Create(ctx, "seminar")
	for _, content := range []string{"one", "two", "three", "four", "five"} {
		if _, err := sessions.AppendTurn(ctx, sessionmodel.Turn{SessionID: sess.ID, Role: sessionmodel.RoleUser, Content: content}); err != nil {
			t.Fatalf("AppendTurn err: %v", err)
		}
	}

	if _, err := engine.Submit(ctx, Request{SessionID: sess.ID, Message: "latest", Mode: "seminar"}); err != nil {
		t.Fatalf("Submit err: %v", err)
	}

	if len(gen.history) != 3 {
		t.Fatalf("expected 3-turn window, got %d", len(gen.history))
	}
	want := []string{"three", "four", "five"}
	for i, turn := range gen.history {
		if turn.Content != want[i] {
			t.Fatalf("window turn %d: got %q want %q", i, turn.Content, want[i])
		}
	}
}

func TestSubmitRecordsBothTurns(t *testing.T) {
	gen := &stubGenerator{err: errors.New("down")}
	engine, sessions := newEngine(t, gen)
	ctx := context.Background()

	sess, _ := sessions.Create(ctx, "interview")
	if _, err := engine.Submit(ctx, Request{SessionID: sess.ID, Message: "tell me about yourself", Mode: "interview"}); err != nil {
		t.Fatalf("Submit err: %v", err)
	}

	turns, err := sessions.Transcript(ctx, sess.ID)
	if err != nil {
		t.Fatalf("Transcript err: %v", err)
	}
	if len(turns) != 2 {
		t.Fatalf("expected user+coach turns recorded, got %d", len(turns))
	}
	if turns[0].Role != sessionmodel.RoleUser || turns[1].Role != sessionmodel.RoleCoach {
		t.Fatalf("unexpected turn roles: %s, %s", turns[0].Role, turns[1].Role)
	}
	if turns[1].Content == "" {
		t.Fatal("coach turn must carry the fallback text")
	}
}

func TestSubmitMergesSessionScoreWhenSnapshotAbsent(t *testing.T) {
	gen := &stubGenerator{reply: "ok"}
	engine, sessions := newEngine(t, gen)
	ctx := context.Background()

	sess, _ := sessions.Create(ctx, "introduction")
	score := engagement.Score{EyeContact: 80, Positivity: 60, HeadStability: 40, Confidence: 60}
	if err := sessions.UpdateScore(ctx, sess.ID, score); err != nil {
		t.Fatalf("UpdateScore err: %v", err)
	}

	if _, err := engine.Submit(ctx, Request{SessionID: sess.ID, Message: "hello"}); err != nil {
		t.Fatalf("Submit err: %v", err)
	}

	if gen.snap == nil || *gen.snap != score {
		t.Fatalf("expected session score merged into request, got %+v", gen.snap)
	}
}

func TestSubmitSecondTurnWhileAwaitingReply(t *testing.T) {
	engine, sessions := newEngine(t, &stubGenerator{reply: "ok"})
	ctx := context.Background()

	sess, _ := sessions.Create(ctx, "seminar")
	if err := sessions.BeginTurn(ctx, sess.ID); err != nil {
		t.Fatalf("BeginTurn err: %v", err)
	}

	if _, err := engine.Submit(ctx, Request{SessionID: sess.ID, Message: "hello"}); err != sessionservice.ErrTurnInFlight {
		t.Fatalf("expected ErrTurnInFlight, got %v", err)
	}
}
