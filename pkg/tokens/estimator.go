package tokens

import "strings"

const (
	// messageOverhead approximates the per-message formatting tokens
	// (role plus boundaries).
	messageOverhead = 4

	// conversationOverhead approximates the fixed per-request tokens.
	conversationOverhead = 3

	// defaultCharsPerToken is the fallback ratio for unknown models.
	defaultCharsPerToken = 4.0
)

// Estimator approximates token counts from character counts using
// model-specific ratios. It is immutable after construction and safe for
// concurrent use.
type Estimator struct {
	ratios map[string]float64
}

// NewEstimator creates an estimator with the given characters-per-token
// ratios. Keys are model identifiers or prefixes; the key "default"
// overrides the built-in fallback. A nil map uses the fallback for every
// model.
func NewEstimator(ratios map[string]float64) *Estimator {
	if ratios == nil {
		ratios = map[string]float64{}
	}
	return &Estimator{ratios: ratios}
}

// EstimateText estimates the token count of a single text for model.
// Non-empty text estimates to at least one token.
func (e *Estimator) EstimateText(text, model string) int {
	if text == "" {
		return 0
	}

	tokens := float64(len(text)) / e.charsPerToken(model)
	if tokens < 1.0 {
		tokens = 1.0
	}
	return int(tokens + 0.5)
}

// EstimateConversation estimates the prompt-side token count of a request
// made of the given message contents, including per-message and
// per-request formatting overhead.
func (e *Estimator) EstimateConversation(model string, contents ...string) int {
	if len(contents) == 0 {
		return 0
	}

	total := conversationOverhead
	for _, content := range contents {
		total += e.EstimateText(content, model) + messageOverhead
	}
	return total
}

// charsPerToken returns the ratio for model: exact match first, then the
// longest configured prefix, then the "default" entry, then the built-in
// fallback.
func (e *Estimator) charsPerToken(model string) float64 {
	if ratio, ok := e.ratios[model]; ok {
		return ratio
	}

	bestLen := 0
	bestRatio := 0.0
	for pattern, ratio := range e.ratios {
		if pattern != "default" && strings.HasPrefix(model, pattern) && len(pattern) > bestLen {
			bestLen = len(pattern)
			bestRatio = ratio
		}
	}
	if bestLen > 0 {
		return bestRatio
	}

	if ratio, ok := e.ratios["default"]; ok {
		return ratio
	}
	return defaultCharsPerToken
}
