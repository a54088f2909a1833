package logging

import (
	"regexp"
	"strings"
)

// Redactor scrubs credentials out of log values.
type Redactor struct {
	patterns []redactPattern
}

type redactPattern struct {
	regex       *regexp.Regexp
	replacement string
}

// Built-in patterns. Google API keys start with AIza and are 39 characters;
// the key query parameter carries them on upstream URLs.
var defaultPatterns = []struct {
	regex       string
	replacement string
}{
	{`([?&]key=)[^&\s"]+`, "${1}REDACTED"},
	{`AIza[0-9A-Za-z_\-]{35}`, "AIza***"},
	{`Bearer\s+[a-zA-Z0-9\-._~+/]+=*`, "Bearer ***"},
	{`(?i)(api[-_]?key|password|secret)([=:]\s*)[^\s&"]+`, "${1}${2}***"},
}

// sensitiveKeys are attribute names whose values are always masked.
var sensitiveKeys = []string{
	"api_key", "apikey", "secret", "token", "password", "authorization",
}

// NewRedactor creates a Redactor with the built-in patterns.
func NewRedactor() *Redactor {
	r := &Redactor{}
	for _, p := range defaultPatterns {
		r.patterns = append(r.patterns, redactPattern{
			regex:       regexp.MustCompile(p.regex),
			replacement: p.replacement,
		})
	}
	return r
}

// RedactString replaces every credential-shaped substring of value.
func (r *Redactor) RedactString(value string) string {
	if value == "" {
		return value
	}
	for _, p := range r.patterns {
		value = p.regex.ReplaceAllString(value, p.replacement)
	}
	return value
}

// IsSensitiveKey reports whether an attribute name marks a secret value.
func (r *Redactor) IsSensitiveKey(key string) bool {
	lower := strings.ToLower(key)
	for _, s := range sensitiveKeys {
		if strings.Contains(lower, s) {
			return true
		}
	}
	return false
}

// RedactAPIKey masks an API key, keeping only a prefix.
func RedactAPIKey(apiKey string) string {
	if len(apiKey) <= 4 {
		return "***"
	}
	return apiKey[:4] + "***"
}
