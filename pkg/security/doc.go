/*
Package security groups quill's protective layers: sensitive content
redaction, secret management, and caller authorization.

# Content Redaction

Screen and redact text before it leaves the process:

	validator := redact.NewValidator()
	if validator.ContainsSensitive(prompt) {
		// refuse the request
	}
	safe := validator.Filter(pageText)

# Secret Management

Load credentials from multiple providers:

	manager := secrets.NewManager([]secrets.SecretProvider{
		fileProvider,
		secrets.NewEnvProvider(""),
	}, cacheConfig)

	apiKey, err := manager.GetSecret(ctx, secrets.NameProviderAPIKey)
	if err != nil {
		log.Fatal(err)
	}

# Caller Authorization

Check space access in the generation path:

	list := auth.NewSpaceList()
	list.Grant("ENG", auth.AnySubject)

	if err := list.Authorize(ctx, caller, spaceKey, pageID); err != nil {
		// refused
	}
*/
package security
