/*
Package secrets loads quill's credentials from the host's settings
store without ever placing them in configuration files.

Two backends are provided: environment variables (the QUILL_ prefix by
default) and Kubernetes-style secret files with strict permission
checks. A Manager chains providers with priority-based fallback and a
TTL cache, so rotated keys take effect within one cache interval and
no restart.

# Well-Known Names

The provider bearer token lives under NameProviderAPIKey and the shared
host token under NameServerAuthToken. With the env provider these map
to QUILL_PROVIDER_API_KEY and QUILL_SERVER_AUTH_TOKEN.

# Usage

	fileProvider, err := secrets.NewFileProvider("/etc/quill/secrets", true)
	if err != nil {
		return err
	}

	manager := secrets.NewManager(
		[]secrets.SecretProvider{fileProvider, secrets.NewEnvProvider("")},
		secrets.CacheConfig{Enabled: true, TTL: 5 * time.Minute, MaxSize: 32},
	)

	apiKey, err := manager.GetSecret(ctx, secrets.NameProviderAPIKey)

Configuration files may reference secrets indirectly:

	provider:
	  api_key: ${secret:provider.api_key}

ResolveReferences expands such references after the file is read.

# Security Considerations

  - Secret values never appear in logs; names are redacted
  - Secret files must have 0600 or 0400 permissions
  - Directory traversal in secret names is rejected
*/
package secrets
