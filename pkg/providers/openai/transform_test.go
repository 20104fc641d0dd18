package openai

import (
	"strings"
	"testing"

	"pagecraft/quill/pkg/providers"
)

func TestBuildMessages(t *testing.T) {
	tests := []struct {
		name        string
		req         *providers.CompletionRequest
		wantUser    string
		wantContext bool
	}{
		{
			name: "prompt only",
			req: &providers.CompletionRequest{
				Prompt: "Write a title for this page.",
				Model:  "gpt-4o-mini",
			},
			wantUser: "Write a title for this page.",
		},
		{
			name: "prompt with context",
			req: &providers.CompletionRequest{
				Prompt:  "Summarize the page.",
				Context: "The page describes the Q3 release plan.",
				Model:   "gpt-4o-mini",
			},
			wantUser:    "Context:\nThe page describes the Q3 release plan.\n\nRequest:\nSummarize the page.",
			wantContext: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			system, user := buildMessages(tt.req)

			if system.Role != providers.RoleSystem {
				t.Errorf("expected system role, got %q", system.Role)
			}
			if system.Content != systemInstruction {
				t.Errorf("system content does not match the fixed instruction")
			}
			if user.Role != providers.RoleUser {
				t.Errorf("expected user role, got %q", user.Role)
			}
			if user.Content != tt.wantUser {
				t.Errorf("expected user content %q, got %q", tt.wantUser, user.Content)
			}
			if tt.wantContext && !strings.Contains(user.Content, tt.req.Context) {
				t.Errorf("user content missing page context")
			}
		})
	}
}

func TestBuildRequest(t *testing.T) {
	req := &providers.CompletionRequest{
		Prompt:  "Expand this outline.",
		Context: "- intro\n- details",
		Model:   "gpt-4o",
	}

	wire := buildRequest(req, 256, 0.3)

	if wire.Model != "gpt-4o" {
		t.Errorf("expected model gpt-4o, got %q", wire.Model)
	}
	if wire.N != 1 {
		t.Errorf("expected exactly one completion, got n=%d", wire.N)
	}
	if wire.MaxTokens != 256 {
		t.Errorf("expected max_tokens 256, got %d", wire.MaxTokens)
	}
	if wire.Temperature != 0.3 {
		t.Errorf("expected temperature 0.3, got %v", wire.Temperature)
	}
	if len(wire.Messages) != 2 {
		t.Fatalf("expected 2 messages, got %d", len(wire.Messages))
	}
	if wire.Messages[0].Role != providers.RoleSystem {
		t.Errorf("expected first message to be system, got %q", wire.Messages[0].Role)
	}
	if wire.Messages[1].Role != providers.RoleUser {
		t.Errorf("expected second message to be user, got %q", wire.Messages[1].Role)
	}
}

func TestTransformResponse(t *testing.T) {
	tests := []struct {
		name    string
		resp    *chatResponse
		want    string
		wantErr bool
	}{
		{
			name: "single choice",
			resp: &chatResponse{
				ID:    "chatcmpl-1",
				Model: "gpt-4o-mini",
				Choices: []chatChoice{
					{
						Message:      chatMessage{Role: "assistant", Content: "Generated text."},
						FinishReason: "stop",
					},
				},
				Usage: chatUsage{PromptTokens: 12, CompletionTokens: 8, TotalTokens: 20},
			},
			want: "Generated text.",
		},
		{
			name: "no choices",
			resp: &chatResponse{
				ID:      "chatcmpl-2",
				Model:   "gpt-4o-mini",
				Choices: []chatChoice{},
			},
			wantErr: true,
		},
		{
			name: "empty content",
			resp: &chatResponse{
				ID:    "chatcmpl-3",
				Model: "gpt-4o-mini",
				Choices: []chatChoice{
					{Message: chatMessage{Role: "assistant"}},
				},
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, err := transformResponse(tt.resp, "openai")

			if tt.wantErr {
				if err == nil {
					t.Fatal("expected error, got nil")
				}
				if _, ok := err.(*providers.ProviderError); !ok {
					t.Fatalf("expected ProviderError, got %T: %v", err, err)
				}
				return
			}

			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if resp.Content != tt.want {
				t.Errorf("expected content %q, got %q", tt.want, resp.Content)
			}
			if resp.Usage.TotalTokens != tt.resp.Usage.TotalTokens {
				t.Errorf("expected total tokens %d, got %d",
					tt.resp.Usage.TotalTokens, resp.Usage.TotalTokens)
			}
		})
	}
}

func TestNormalizeFinishReason(t *testing.T) {
	tests := []struct {
		reason string
		want   string
	}{
		{"stop", providers.FinishReasonStop},
		{"", providers.FinishReasonStop},
		{"length", providers.FinishReasonLength},
		{"max_tokens", providers.FinishReasonLength},
		{"content_filter", providers.FinishReasonContentFilter},
		{"tool_calls", "tool_calls"},
	}

	for _, tt := range tests {
		t.Run(tt.reason, func(t *testing.T) {
			if got := normalizeFinishReason(tt.reason); got != tt.want {
				t.Errorf("normalizeFinishReason(%q) = %q, want %q", tt.reason, got, tt.want)
			}
		})
	}
}
