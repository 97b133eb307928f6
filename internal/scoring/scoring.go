package scoring

import (
	"fmt"
	"strings"
)

// Provider selects the scoring engine implementation.
type Provider string

const (
	ProviderRemote Provider = "remote"
	ProviderGemini Provider = "gemini"
)

// ParseProvider validates a configured provider name. Empty means remote.
func ParseProvider(name string) (Provider, error) {
	switch p := Provider(strings.ToLower(strings.TrimSpace(name))); p {
	case "":
		return ProviderRemote, nil
	case ProviderRemote, ProviderGemini:
		return p, nil
	default:
		return "", fmt.Errorf("unknown scoring provider %q", name)
	}
}
