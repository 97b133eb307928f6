package secrets

import (
	"fmt"
	"os"
	"strings"
)

// Source describes where a credential comes from.
type Source struct {
	// Name is used in error messages, e.g. "hr directory token".
	Name string
	// Value is an inline secret from configuration or the environment.
	Value string
	// File holds the secret. When set it takes precedence over Value.
	File string
	// Optional allows the secret to be absent; Load then returns "".
	Optional bool
}

// Load resolves the secret described by src and trims it.
func Load(src Source) (string, error) {
	name := strings.TrimSpace(src.Name)
	if name == "" {
		name = "secret"
	}

	file := strings.TrimSpace(src.File)
	if file != "" {
		data, err := os.ReadFile(file)
		if err != nil {
			return "", fmt.Errorf("reading %s from file %q: %w", name, file, err)
		}
		src.Value = string(data)
	}

	secret := strings.TrimSpace(src.Value)
	if secret != "" {
		return secret, nil
	}

	switch {
	case file != "":
		// A configured but empty file is a mistake even for optional secrets.
		return "", fmt.Errorf("%s file %q is empty", name, file)
	case src.Optional:
		return "", nil
	default:
		return "", fmt.Errorf("%s is not configured", name)
	}
}
