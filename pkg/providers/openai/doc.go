// Package openai implements the chat-completion provider adapter.
//
// # Overview
//
// The adapter maps quill's completion request onto the provider's
// chat-completion wire shape: a fixed system instruction plus one user
// message that embeds the page context and the prompt. Exactly one
// completion is requested per call and exactly one HTTP attempt is
// made.
//
// Before any network activity the prompt and context are screened by
// the configured detector. Flagged input is a hard stop: the call
// returns *providers.SecurityError and nothing leaves the process.
//
// The bearer token is resolved from the secret source on every request
// under a fixed settings name, so key rotation in the host's settings
// store takes effect without a restart.
//
// # Usage
//
//	provider, err := openai.NewProvider(openai.Config{
//		BaseURL: "https://api.openai.com/v1",
//	}, secretSource, validator)
//	if err != nil {
//		return err
//	}
//	defer provider.Close()
//
//	resp, err := provider.Complete(ctx, &providers.CompletionRequest{
//		Prompt:  "Summarize the page below.",
//		Context: pageText,
//		Model:   "gpt-4o-mini",
//	})
package openai
