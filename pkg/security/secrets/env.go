package secrets

import (
	"context"
	"fmt"
	"os"
	"strings"
)

// DefaultEnvPrefix namespaces quill's secret environment variables.
const DefaultEnvPrefix = "QUILL_"

// EnvProvider loads secrets from environment variables.
//
// Secret names are converted to uppercase environment variable names
// with dots and hyphens replaced by underscores. An optional prefix
// namespaces the variables.
//
// Example:
//   - Secret name: "provider.api_key"
//   - Env var name: "QUILL_PROVIDER_API_KEY" (with prefix "QUILL_")
type EnvProvider struct {
	Prefix string // Optional prefix for environment variables
}

// NewEnvProvider creates a new environment variable secret provider.
// An empty prefix selects DefaultEnvPrefix.
func NewEnvProvider(prefix string) *EnvProvider {
	if prefix == "" {
		prefix = DefaultEnvPrefix
	}
	return &EnvProvider{
		Prefix: prefix,
	}
}

// GetSecret retrieves a secret from an environment variable.
//
// The secret name is converted by uppercasing it, replacing dots and
// hyphens with underscores, and prepending the configured prefix.
func (p *EnvProvider) GetSecret(ctx context.Context, name string) (string, error) {
	envVar := p.secretNameToEnvVar(name)

	value := os.Getenv(envVar)
	if value == "" {
		return "", fmt.Errorf("secret not found in environment: %s (env var: %s)", name, envVar)
	}

	return value, nil
}

// ListSecrets returns all secret names from environment variables with
// the configured prefix.
func (p *EnvProvider) ListSecrets(ctx context.Context) ([]string, error) {
	var secrets []string

	for _, env := range os.Environ() {
		if !strings.HasPrefix(env, p.Prefix) {
			continue
		}

		parts := strings.SplitN(env, "=", 2)
		if len(parts) != 2 {
			continue
		}

		secrets = append(secrets, p.envVarToSecretName(parts[0]))
	}

	return secrets, nil
}

// Provider returns the provider name.
func (p *EnvProvider) Provider() string {
	return "env"
}

// Supports indicates if this provider supports the given secret name.
//
// The environment provider always returns true so it can serve as a
// fallback for any name.
func (p *EnvProvider) Supports(name string) bool {
	return true
}

// secretNameToEnvVar converts a secret name to an environment variable
// name.
//
// Example: "provider.api_key" -> "QUILL_PROVIDER_API_KEY"
func (p *EnvProvider) secretNameToEnvVar(name string) string {
	envVar := strings.ToUpper(name)
	envVar = strings.ReplaceAll(envVar, ".", "_")
	envVar = strings.ReplaceAll(envVar, "-", "_")
	return p.Prefix + envVar
}

// envVarToSecretName converts an environment variable name back to a
// secret name.
//
// Example: "QUILL_PROVIDER_API_KEY" -> "provider_api_key"
func (p *EnvProvider) envVarToSecretName(envVar string) string {
	name := strings.TrimPrefix(envVar, p.Prefix)
	return strings.ToLower(name)
}
