package ai

import (
	"fmt"
	"strings"

	"github.com/cloudwego/eino/schema"

	"github.com/zhouzirui/commcoach/backend/internal/analysis/engagement"
	sessionmodel "github.com/zhouzirui/commcoach/backend/internal/model/session"
)

// buildQuery renders the user-facing part of the prompt: the bounded
// conversation window oldest-first, then the current message. The caller has
// already trimmed history to the configured window.
func buildQuery(history []sessionmodel.Turn, message string) string {
	var builder strings.Builder

	if len(history) > 0 {
		builder.WriteString("Previous conversation:\n")
		for _, turn := range history {
			builder.WriteString(roleLabel(turn.Role))
			builder.WriteString(": ")
			builder.WriteString(turn.Content)
			builder.WriteString("\n")
		}
		builder.WriteString("\n")
	}

	builder.WriteString(fmt.Sprintf("Current user message: %q\n\n", message))
	builder.WriteString("Provide specific, actionable feedback that helps improve their communication skills. Keep it concise and motivating.")

	return builder.String()
}

func roleLabel(role sessionmodel.Role) string {
	if role == sessionmodel.RoleUser {
		return "User"
	}
	return "Coach"
}

// snapshotContext turns an optional engagement snapshot into an auxiliary
// system message. The snapshot travels as structured data up to this point
// and is never spliced into the user's own message text.
func snapshotContext(snapshot *engagement.Score) []*schema.Message {
	if snapshot == nil {
		return nil
	}

	text := fmt.Sprintf(
		"Live camera engagement snapshot (heuristic percentages 0-100): eye contact %d, smile %d, head stability %d, overall confidence %d. If one of these stands out, mention it briefly in your feedback.",
		snapshot.EyeContact, snapshot.Positivity, snapshot.HeadStability, snapshot.Confidence,
	)

	return []*schema.Message{schema.SystemMessage(text)}
}
