package coachmode

import "fmt"

// Store exposes profile lookup for services and handlers. The mode set is
// closed, so the store validates exhaustiveness once at construction instead
// of guarding every lookup.
type Store struct {
	profiles map[Mode]Profile
}

// NewStore builds a Store from the supplied profiles. Every known mode must
// be covered with non-empty prompt and fallback texts.
func NewStore(profiles []Profile) (*Store, error) {
	byMode := make(map[Mode]Profile, len(profiles))
	for _, p := range profiles {
		if _, dup := byMode[p.Mode]; dup {
			return nil, fmt.Errorf("duplicate profile for mode %q", p.Mode)
		}
		if p.SystemPrompt == "" || p.Fallback == "" {
			return nil, fmt.Errorf("profile for mode %q is missing prompt or fallback text", p.Mode)
		}
		byMode[p.Mode] = p
	}

	for _, mode := range All() {
		if _, ok := byMode[mode]; !ok {
			return nil, fmt.Errorf("no profile for mode %q", mode)
		}
	}

	return &Store{profiles: byMode}, nil
}

// Resolve returns the profile for the given raw mode string, defaulting to
// the introduction profile for unknown input.
func (s *Store) Resolve(raw string) Profile {
	return s.profiles[Normalize(raw)]
}

// List returns the profiles in declaration order.
func (s *Store) List() []Profile {
	out := make([]Profile, 0, len(s.profiles))
	for _, mode := range All() {
		out = append(out, s.profiles[mode])
	}
	return out
}
