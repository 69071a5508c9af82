package ai

import (
	"fmt"
	"strings"
)

// Kind is the provider variant.
type Kind string

const (
	// KindLocal is the dependency free hashing vectorizer. It is always ready.
	KindLocal Kind = "local"
	// KindExternal is a remote OpenAI-compatible embedding API.
	KindExternal Kind = "external"
)

// ParseKind parses a provider name. "openai" is accepted as an alias for external.
func ParseKind(s string) (Kind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", string(KindLocal):
		return KindLocal, nil
	case string(KindExternal), "openai":
		return KindExternal, nil
	default:
		return "", fmt.Errorf("unknown provider %q", s)
	}
}
