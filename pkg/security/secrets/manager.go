package secrets

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"regexp"
)

// secretRefPattern matches ${secret:name} references in configuration
// text.
var secretRefPattern = regexp.MustCompile(`\$\{secret:([^}]+)\}`)

// Manager resolves secrets through an ordered provider chain with a
// shared TTL cache in front. The first provider that supports a name
// and returns a value wins; later providers are fallbacks.
//
// Manager satisfies the provider adapters' secret source interface, so
// it is handed directly to them for per-request key resolution.
type Manager struct {
	chain []SecretProvider
	cache *Cache
}

// NewManager creates a manager over the given providers, tried in
// order.
func NewManager(providers []SecretProvider, cacheConfig CacheConfig) *Manager {
	return &Manager{
		chain: providers,
		cache: NewCache(cacheConfig),
	}
}

// GetSecret resolves name through the cache and then the provider
// chain.
func (m *Manager) GetSecret(ctx context.Context, name string) (string, error) {
	if value, ok := m.cache.Get(name); ok {
		return value, nil
	}

	value, err := m.lookup(ctx, name)
	if err != nil {
		return "", err
	}

	m.cache.Set(name, value)
	return value, nil
}

// lookup walks the provider chain for name.
func (m *Manager) lookup(ctx context.Context, name string) (string, error) {
	var lastErr error
	for _, provider := range m.chain {
		if !provider.Supports(name) {
			continue
		}

		value, err := provider.GetSecret(ctx, name)
		if err != nil {
			lastErr = err
			slog.Debug("secret lookup failed, trying next provider",
				"provider", provider.Provider(),
				"name", redactSecretName(name),
				"error", err,
			)
			continue
		}

		slog.Debug("secret resolved",
			"provider", provider.Provider(),
			"name", redactSecretName(name),
		)
		return value, nil
	}

	if lastErr != nil {
		return "", fmt.Errorf("failed to get secret %q: %w", name, lastErr)
	}
	return "", fmt.Errorf("secret not found: %q (no provider supports this secret)", name)
}

// ResolveReferences replaces every ${secret:name} reference in input
// with its resolved value. References that cannot be resolved are left
// in place and reported in the returned error, so a failed resolution
// never substitutes partial or empty values silently.
func (m *Manager) ResolveReferences(ctx context.Context, input string) (string, error) {
	var failures []error

	output := secretRefPattern.ReplaceAllStringFunc(input, func(ref string) string {
		groups := secretRefPattern.FindStringSubmatch(ref)
		if len(groups) < 2 {
			failures = append(failures, fmt.Errorf("invalid secret reference: %s", ref))
			return ref
		}

		value, err := m.GetSecret(ctx, groups[1])
		if err != nil {
			failures = append(failures, fmt.Errorf("failed to resolve secret %q: %w", groups[1], err))
			return ref
		}
		return value
	})

	if len(failures) > 0 {
		return output, fmt.Errorf("failed to resolve secret references: %w", errors.Join(failures...))
	}
	return output, nil
}

// Refresh reloads every refreshable provider and clears the cache, so
// rotated secrets take effect on the next lookup rather than after one
// cache TTL.
func (m *Manager) Refresh(ctx context.Context) error {
	var failures []error
	for _, provider := range m.chain {
		refreshable, ok := provider.(RefreshableProvider)
		if !ok {
			continue
		}
		if err := refreshable.Refresh(ctx); err != nil {
			failures = append(failures, fmt.Errorf("%s: %w", provider.Provider(), err))
		}
	}

	m.cache.Clear()

	if len(failures) > 0 {
		return fmt.Errorf("failed to refresh some providers: %w", errors.Join(failures...))
	}
	return nil
}

// ListSecrets returns the union of secret names across the chain.
// Values are never included.
func (m *Manager) ListSecrets(ctx context.Context) ([]string, error) {
	seen := make(map[string]struct{})
	var names []string

	for _, provider := range m.chain {
		providerNames, err := provider.ListSecrets(ctx)
		if err != nil {
			slog.Warn("failed to list secrets from provider",
				"provider", provider.Provider(),
				"error", err,
			)
			continue
		}
		for _, name := range providerNames {
			if _, ok := seen[name]; ok {
				continue
			}
			seen[name] = struct{}{}
			names = append(names, name)
		}
	}

	return names, nil
}

// redactSecretName shortens a secret name for log output.
func redactSecretName(name string) string {
	if len(name) <= 4 {
		return "***"
	}
	return name[:2] + "..." + name[len(name)-2:]
}
