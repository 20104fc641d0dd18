package openai

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"pagecraft/quill/pkg/providers"
	"pagecraft/quill/pkg/tokens"
)

const (
	// DefaultBaseURL is the provider's hosted API endpoint.
	DefaultBaseURL = "https://api.openai.com/v1"

	// DefaultAPIKeyName is the settings-store name the bearer token is
	// resolved under.
	DefaultAPIKeyName = "provider.api_key"

	// DefaultMaxTokens caps the length of a generated completion.
	DefaultMaxTokens = 512

	// DefaultTemperature is the sampling temperature applied when the
	// configuration leaves it unset.
	DefaultTemperature = 0.7
)

// Config holds the chat-completion provider configuration. Sampling
// parameters are fixed here and never taken from the caller.
type Config struct {
	// Name identifies the provider in errors and logs. Defaults to
	// "openai".
	Name string

	// BaseURL is the API root, without the /chat/completions suffix.
	BaseURL string

	// APIKeyName is the settings-store name the bearer token is read
	// from on every request.
	APIKeyName string

	// MaxTokens caps the completion length requested from the provider.
	MaxTokens int

	// Temperature is the sampling temperature. Zero selects the
	// default.
	Temperature float64

	// InputTokenBudget rejects requests whose estimated input size
	// exceeds it. Zero disables the check.
	InputTokenBudget int

	// Client carries the HTTP transport settings.
	Client providers.ClientConfig
}

// Provider is the chat-completion adapter. It performs the sensitive
// content hard stop, resolves the bearer token per request, and issues
// exactly one attempt per call.
type Provider struct {
	*providers.HTTPClient

	config    Config
	secrets   providers.SecretSource
	detector  providers.Detector
	estimator *tokens.Estimator
}

// NewProvider creates a chat-completion provider. The secret source and
// detector are required.
func NewProvider(config Config, secrets providers.SecretSource, detector providers.Detector) (*Provider, error) {
	if config.Name == "" {
		config.Name = "openai"
	}
	if secrets == nil {
		return nil, &providers.ConfigError{
			Provider: config.Name,
			Field:    "secrets",
			Message:  "secret source is required",
		}
	}
	if detector == nil {
		return nil, &providers.ConfigError{
			Provider: config.Name,
			Field:    "detector",
			Message:  "sensitive content detector is required",
		}
	}
	if config.BaseURL == "" {
		config.BaseURL = DefaultBaseURL
	}
	if config.APIKeyName == "" {
		config.APIKeyName = DefaultAPIKeyName
	}
	if config.MaxTokens == 0 {
		config.MaxTokens = DefaultMaxTokens
	}
	if config.MaxTokens < 0 {
		return nil, &providers.ConfigError{
			Provider: config.Name,
			Field:    "max_tokens",
			Message:  "must be positive",
		}
	}
	if config.Temperature == 0 {
		config.Temperature = DefaultTemperature
	}
	if config.Temperature < 0 || config.Temperature > 2 {
		return nil, &providers.ConfigError{
			Provider: config.Name,
			Field:    "temperature",
			Message:  "must be between 0 and 2",
		}
	}
	if config.InputTokenBudget < 0 {
		return nil, &providers.ConfigError{
			Provider: config.Name,
			Field:    "input_token_budget",
			Message:  "must not be negative",
		}
	}

	config.Client.Name = config.Name
	config.Client.BaseURL = config.BaseURL

	p := &Provider{
		HTTPClient: providers.NewHTTPClient(config.Client),
		config:     config,
		secrets:    secrets,
		detector:   detector,
		estimator:  tokens.NewEstimator(nil),
	}

	slog.Info("provider initialized",
		"provider", config.Name,
		"base_url", config.BaseURL,
		"max_tokens", config.MaxTokens,
	)
	return p, nil
}

// Complete sends a single chat-completion request. Prompt and context
// are screened before any network activity: flagged input returns a
// *providers.SecurityError and nothing is sent.
func (p *Provider) Complete(ctx context.Context, req *providers.CompletionRequest) (*providers.CompletionResponse, error) {
	if req == nil {
		return nil, &providers.ValidationError{Field: "request", Message: "request is required"}
	}
	if req.Model == "" {
		return nil, &providers.ValidationError{Field: "model", Message: "model is required"}
	}
	if req.Prompt == "" {
		return nil, &providers.ValidationError{Field: "prompt", Message: "prompt is required"}
	}

	if detected := p.screen(req); len(detected) > 0 {
		return nil, &providers.SecurityError{
			Provider: p.config.Name,
			Detected: detected,
		}
	}

	system, user := buildMessages(req)
	if p.config.InputTokenBudget > 0 {
		estimated := p.estimator.EstimateConversation(req.Model, system.Content, user.Content)
		if estimated > p.config.InputTokenBudget {
			return nil, &providers.ValidationError{
				Field: "prompt",
				Message: fmt.Sprintf("estimated input of %d tokens exceeds budget of %d",
					estimated, p.config.InputTokenBudget),
			}
		}
	}

	apiKey, err := p.secrets.GetSecret(ctx, p.config.APIKeyName)
	if err != nil {
		return nil, &providers.ConfigError{
			Provider: p.config.Name,
			Field:    p.config.APIKeyName,
			Message:  fmt.Sprintf("api key unavailable: %v", err),
		}
	}

	wireReq := buildRequest(req, p.config.MaxTokens, p.config.Temperature)
	url := fmt.Sprintf("%s/chat/completions", strings.TrimSuffix(p.config.BaseURL, "/"))
	headers := map[string]string{
		"Authorization": "Bearer " + apiKey,
	}

	var wireResp chatResponse
	if err := p.DoJSONRequest(ctx, http.MethodPost, url, wireReq, &wireResp, headers); err != nil {
		return nil, err
	}

	resp, err := transformResponse(&wireResp, p.config.Name)
	if err != nil {
		return nil, err
	}

	slog.Debug("completion received",
		"provider", p.config.Name,
		"model", resp.Model,
		"finish_reason", resp.FinishReason,
		"total_tokens", resp.Usage.TotalTokens,
	)
	return resp, nil
}

// screen runs the detector over the caller-supplied fields and reports
// which ones were flagged.
func (p *Provider) screen(req *providers.CompletionRequest) []string {
	var detected []string
	if p.detector.ContainsSensitive(req.Prompt) {
		detected = append(detected, "prompt")
	}
	if req.Context != "" && p.detector.ContainsSensitive(req.Context) {
		detected = append(detected, "context")
	}
	return detected
}
