package coachmode

import "strings"

// Mode identifies one of the fixed coaching scenarios.
type Mode string

const (
	Introduction Mode = "introduction"
	Seminar      Mode = "seminar"
	Interview    Mode = "interview"
)

// All lists every known mode.
func All() []Mode {
	return []Mode{Introduction, Seminar, Interview}
}

// Normalize maps arbitrary client input onto a known mode. Unknown or blank
// values fall back to Introduction; that is the default-mode policy, not an
// error.
func Normalize(raw string) Mode {
	switch Mode(strings.ToLower(strings.TrimSpace(raw))) {
	case Seminar:
		return Seminar
	case Interview:
		return Interview
	default:
		return Introduction
	}
}

// Profile bundles the per-mode coaching persona and its canned fallback
// reply.
type Profile struct {
	Mode         Mode   `json:"mode"`
	Title        string `json:"title"`
	SystemPrompt string `json:"-"`
	Fallback     string `json:"-"`
}
