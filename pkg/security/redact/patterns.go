package redact

import (
	"fmt"
	"os"
	"regexp"

	"gopkg.in/yaml.v3"
)

// Marker is the fixed replacement for every redacted match.
const Marker = "[REDACTED]"

// Built-in pattern class names.
const (
	ClassGovernmentID = "government_id"
	ClassPaymentCard  = "payment_card"
	ClassEmail        = "email"
	ClassCredential   = "credential"
	ClassBearerToken  = "bearer_token"
	ClassAPIKey       = "api_key"
)

// pattern is one compiled sensitive-data class.
type pattern struct {
	class string
	regex *regexp.Regexp
}

// CustomPattern is one user-supplied pattern class, loaded from YAML.
type CustomPattern struct {
	// Name identifies the class in findings and metrics.
	Name string `yaml:"name"`

	// Pattern is the regular expression to match.
	Pattern string `yaml:"pattern"`
}

// builtinPatterns returns the default pattern table in evaluation order.
// Order matters: classes are applied one at a time, and a later class may
// act on text already rewritten by an earlier one.
func builtinPatterns() []pattern {
	return []pattern{
		{
			class: ClassGovernmentID,
			regex: regexp.MustCompile(`\b\d{3}-\d{2}-\d{4}\b`),
		},
		{
			class: ClassPaymentCard,
			regex: regexp.MustCompile(`\b\d(?:[ -]?\d){12,15}\b`),
		},
		{
			class: ClassEmail,
			regex: regexp.MustCompile(`\b[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,}\b`),
		},
		{
			class: ClassCredential,
			regex: regexp.MustCompile(`(?i)\b(?:api[_-]?key|secret[_-]?key|access[_-]?key|secret|token|password|passwd|pwd)\b\s*[:=]\s*\S+`),
		},
		{
			class: ClassBearerToken,
			regex: regexp.MustCompile(`(?i)\bbearer\s+[A-Za-z0-9\-._~+/]+=*`),
		},
		{
			class: ClassAPIKey,
			regex: regexp.MustCompile(`\bsk-[A-Za-z0-9]{16,}\b`),
		},
	}
}

// compileCustom compiles user-supplied patterns. Classes named after a
// built-in replace that built-in; new names append after the built-ins in
// file order.
func compileCustom(custom []CustomPattern) ([]pattern, error) {
	compiled := make([]pattern, 0, len(custom))
	for _, cp := range custom {
		if cp.Name == "" {
			return nil, fmt.Errorf("custom pattern missing name")
		}
		re, err := regexp.Compile(cp.Pattern)
		if err != nil {
			return nil, fmt.Errorf("custom pattern %q: %w", cp.Name, err)
		}
		compiled = append(compiled, pattern{class: cp.Name, regex: re})
	}
	return compiled, nil
}

// mergePatterns overlays custom classes onto the built-in table.
func mergePatterns(builtin, custom []pattern) []pattern {
	merged := make([]pattern, len(builtin), len(builtin)+len(custom))
	copy(merged, builtin)

	for _, cp := range custom {
		replaced := false
		for i := range merged {
			if merged[i].class == cp.class {
				merged[i] = cp
				replaced = true
				break
			}
		}
		if !replaced {
			merged = append(merged, cp)
		}
	}
	return merged
}

// loadCustomFile reads and compiles a YAML pattern file. The file holds a
// list of {name, pattern} entries.
func loadCustomFile(path string) ([]pattern, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read pattern file: %w", err)
	}

	var custom []CustomPattern
	if err := yaml.Unmarshal(data, &custom); err != nil {
		return nil, fmt.Errorf("parse pattern file %s: %w", path, err)
	}

	return compileCustom(custom)
}
