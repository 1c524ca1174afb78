package ai

import (
	"strings"
	"testing"

	"github.com/zhouzirui/commcoach/backend/internal/analysis/engagement"
	sessionmodel "github.com/zhouzirui/commcoach/backend/internal/model/session"
)

func TestBuildQueryWithoutHistory(t *testing.T) {
	query := buildQuery(nil, "Hi, I'm Alex")

	if strings.Contains(query, "Previous conversation") {
		t.Fatal("empty history should not render a conversation block")
	}
	if !strings.Contains(query, `Current user message: "Hi, I'm Alex"`) {
		t.Fatalf("missing current message: %q", query)
	}
}

func TestBuildQueryRendersHistoryOldestFirst(t *testing.T) {
	history := []sessionmodel.Turn{
		{Role: sessionmodel.RoleUser, Content: "first"},
		{Role: sessionmodel.RoleCoach, Content: "second"},
		{Role: sessionmodel.RoleUser, Content: "third"},
	}

	query := buildQuery(history, "now")

	wantBlock := "Previous conversation:\nUser: first\nCoach: second\nUser: third\n"
	if !strings.Contains(query, wantBlock) {
		t.Fatalf("history block mismatch:\n%q", query)
	}
	if strings.Index(query, "first") > strings.Index(query, "third") {
		t.Fatal("history not in chronological order")
	}
}

func TestSnapshotContext(t *testing.T) {
	if got := snapshotContext(nil); got != nil {
		t.Fatalf("nil snapshot should produce no context, got %v", got)
	}

	msgs := snapshotContext(&engagement.Score{EyeContact: 70, Positivity: 40, HeadStability: 90, Confidence: 66})
	if len(msgs) != 1 {
		t.Fatalf("expected one auxiliary message, got %d", len(msgs))
	}
	if !strings.Contains(msgs[0].Content, "eye contact 70") {
		t.Fatalf("snapshot values missing from context: %q", msgs[0].Content)
	}
}
