package environment

import "context"

type Provider interface {
	// Get retrieves the value of an environment variable by name.
	// Returns (value, true) if found (value may be empty).
	// Returns ("", false) if not found.
	Get(ctx context.Context, name string) (string, bool)
}

// Lookup returns the first non-empty value for name, or "" when none of the
// provider's sources has it.
func Lookup(ctx context.Context, p Provider, name string) string {
	value, ok := p.Get(ctx, name)
	if !ok {
		return ""
	}
	return value
}

// Require resolves every name and reports all missing ones at once.
func Require(ctx context.Context, p Provider, names ...string) (map[string]string, error) {
	values := make(map[string]string, len(names))

	var missing []string
	for _, name := range names {
		value, ok := p.Get(ctx, name)
		if !ok || value == "" {
			missing = append(missing, name)
			continue
		}
		values[name] = value
	}

	if len(missing) > 0 {
		return nil, &RequiredEnvError{Missing: missing}
	}
	return values, nil
}
