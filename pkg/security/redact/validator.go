package redact

import (
	"sort"
	"strings"
	"sync"
)

// Finding reports matches of one pattern class in a scanned text. It
// carries the class name and match count only, never the matched values.
type Finding struct {
	Class string
	Count int
}

// Validator scans and redacts sensitive substrings in text. It is safe
// for concurrent use; the pattern table can be swapped while Filter and
// ContainsSensitive run.
type Validator struct {
	mu       sync.RWMutex
	patterns []pattern
}

// NewValidator creates a Validator with the built-in pattern classes.
func NewValidator() *Validator {
	return &Validator{patterns: builtinPatterns()}
}

// NewValidatorWithCustom creates a Validator with the built-in classes
// plus the given custom classes merged over them.
func NewValidatorWithCustom(custom []CustomPattern) (*Validator, error) {
	compiled, err := compileCustom(custom)
	if err != nil {
		return nil, err
	}
	return &Validator{patterns: mergePatterns(builtinPatterns(), compiled)}, nil
}

// snapshot returns the current pattern table for lock-free matching.
func (v *Validator) snapshot() []pattern {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return v.patterns
}

// Filter returns a copy of text with every match of every pattern class
// replaced by Marker. Replacement is applied class by class over the whole
// text; matches within a class are rewritten non-overlapping left to
// right. Filtering is idempotent.
func (v *Validator) Filter(text string) string {
	if text == "" {
		return text
	}
	for _, p := range v.snapshot() {
		text = p.regex.ReplaceAllString(text, Marker)
	}
	return text
}

// ContainsSensitive reports whether any pattern class matches text. The
// input is never modified.
func (v *Validator) ContainsSensitive(text string) bool {
	if text == "" {
		return false
	}
	for _, p := range v.snapshot() {
		if p.regex.MatchString(text) {
			return true
		}
	}
	return false
}

// Scan reports which pattern classes match text and how often. Findings
// are ordered by class name so output is deterministic. Counts follow the
// same class-by-class evaluation as Filter: a class is counted against the
// text as rewritten by the classes before it.
func (v *Validator) Scan(text string) []Finding {
	if text == "" {
		return nil
	}

	var findings []Finding
	for _, p := range v.snapshot() {
		matches := p.regex.FindAllStringIndex(text, -1)
		if len(matches) > 0 {
			findings = append(findings, Finding{Class: p.class, Count: len(matches)})
			text = p.regex.ReplaceAllString(text, Marker)
		}
	}

	sort.Slice(findings, func(i, j int) bool { return findings[i].Class < findings[j].Class })
	return findings
}

// Classes returns the names of all active pattern classes in evaluation
// order.
func (v *Validator) Classes() []string {
	patterns := v.snapshot()
	classes := make([]string, len(patterns))
	for i, p := range patterns {
		classes[i] = p.class
	}
	return classes
}

// SetCustomPatterns swaps in a new custom set merged over the built-ins.
// The swap is atomic with respect to concurrent matching; an error leaves
// the active table unchanged.
func (v *Validator) SetCustomPatterns(custom []CustomPattern) error {
	compiled, err := compileCustom(custom)
	if err != nil {
		return err
	}

	v.mu.Lock()
	v.patterns = mergePatterns(builtinPatterns(), compiled)
	v.mu.Unlock()
	return nil
}

// LoadCustomFile loads a YAML pattern file and swaps the merged table in.
// A file that fails to read, parse, or compile leaves the active table
// unchanged.
func (v *Validator) LoadCustomFile(path string) error {
	compiled, err := loadCustomFile(path)
	if err != nil {
		return err
	}

	v.mu.Lock()
	v.patterns = mergePatterns(builtinPatterns(), compiled)
	v.mu.Unlock()
	return nil
}

// sensitiveKeys are log-field names whose values are masked outright by
// the LogRedactor, whatever the value looks like.
var sensitiveKeys = []string{
	"password", "passwd", "pwd",
	"secret", "token", "api_key", "apikey",
	"authorization", "credential", "private_key",
}

// isSensitiveKey reports whether a log key names a secret-bearing field.
func isSensitiveKey(key string) bool {
	lower := strings.ToLower(key)
	for _, s := range sensitiveKeys {
		if strings.Contains(lower, s) {
			return true
		}
	}
	return false
}

// LogRedactor adapts a Validator to the logging package's Redactor
// interface: values under secret-bearing keys are masked outright, and
// every other string value is filtered through the pattern table.
type LogRedactor struct {
	validator *Validator
}

// NewLogRedactor creates a LogRedactor backed by validator.
func NewLogRedactor(validator *Validator) *LogRedactor {
	return &LogRedactor{validator: validator}
}

// RedactArgs rewrites a key-value argument list for logging. Non-string
// values and dangling arguments pass through unchanged.
func (r *LogRedactor) RedactArgs(args ...any) []any {
	out := make([]any, len(args))
	copy(out, args)

	for i := 0; i+1 < len(out); i += 2 {
		key, ok := out[i].(string)
		if !ok {
			continue
		}
		value, ok := out[i+1].(string)
		if !ok {
			continue
		}

		if isSensitiveKey(key) {
			out[i+1] = Marker
			continue
		}
		out[i+1] = r.validator.Filter(value)
	}
	return out
}
