package openai

import (
	"strings"

	"pagecraft/quill/pkg/providers"
)

// systemInstruction is the fixed system message sent with every request.
// It is not caller-controlled.
const systemInstruction = "You are a writing assistant embedded in a collaborative documentation platform. " +
	"Use the provided page context to complete the request. " +
	"Respond with the generated text only, without preamble."

// chatRequest is the provider's chat-completion request shape.
type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	MaxTokens   int           `json:"max_tokens,omitempty"`
	Temperature float64       `json:"temperature"`
	N           int           `json:"n"`
}

// chatMessage is one message in the provider's request shape.
type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// chatResponse is the provider's chat-completion response shape.
type chatResponse struct {
	ID      string       `json:"id"`
	Object  string       `json:"object"`
	Created int64        `json:"created"`
	Model   string       `json:"model"`
	Choices []chatChoice `json:"choices"`
	Usage   chatUsage    `json:"usage"`
}

// chatChoice is one generated alternative in the response.
type chatChoice struct {
	Index        int         `json:"index"`
	Message      chatMessage `json:"message"`
	FinishReason string      `json:"finish_reason"`
}

// chatUsage is the provider's token accounting.
type chatUsage struct {
	PromptTokens     int `json:"prompt_tokens"`
	CompletionTokens int `json:"completion_tokens"`
	TotalTokens      int `json:"total_tokens"`
}

// buildMessages assembles the fixed message pair: the system instruction
// plus a single user message embedding context and prompt.
func buildMessages(req *providers.CompletionRequest) (system, user chatMessage) {
	system = chatMessage{
		Role:    providers.RoleSystem,
		Content: systemInstruction,
	}

	var b strings.Builder
	if req.Context != "" {
		b.WriteString("Context:\n")
		b.WriteString(req.Context)
		b.WriteString("\n\nRequest:\n")
	}
	b.WriteString(req.Prompt)

	user = chatMessage{
		Role:    providers.RoleUser,
		Content: b.String(),
	}
	return system, user
}

// buildRequest maps quill's request onto the wire shape. Exactly one
// completion is requested; token and temperature limits come from
// configuration.
func buildRequest(req *providers.CompletionRequest, maxTokens int, temperature float64) *chatRequest {
	system, user := buildMessages(req)
	return &chatRequest{
		Model:       req.Model,
		Messages:    []chatMessage{system, user},
		MaxTokens:   maxTokens,
		Temperature: temperature,
		N:           1,
	}
}

// transformResponse extracts the generated text from the wire response.
// A reply missing the expected structure is a *providers.ProviderError.
func transformResponse(resp *chatResponse, providerName string) (*providers.CompletionResponse, error) {
	if len(resp.Choices) == 0 {
		return nil, &providers.ProviderError{
			Provider:   providerName,
			StatusCode: 0,
			Message:    "response contains no choices",
		}
	}

	choice := resp.Choices[0]
	if choice.Message.Content == "" {
		return nil, &providers.ProviderError{
			Provider: providerName,
			Message:  "response contains no content",
		}
	}

	return &providers.CompletionResponse{
		ID:           resp.ID,
		Model:        resp.Model,
		Content:      choice.Message.Content,
		FinishReason: normalizeFinishReason(choice.FinishReason),
		Usage: providers.TokenUsage{
			PromptTokens:     resp.Usage.PromptTokens,
			CompletionTokens: resp.Usage.CompletionTokens,
			TotalTokens:      resp.Usage.TotalTokens,
		},
		Created: resp.Created,
	}, nil
}

// normalizeFinishReason maps provider finish reasons onto quill's
// constants.
func normalizeFinishReason(reason string) string {
	switch reason {
	case "stop", "":
		return providers.FinishReasonStop
	case "length", "max_tokens":
		return providers.FinishReasonLength
	case "content_filter":
		return providers.FinishReasonContentFilter
	default:
		return reason
	}
}
