// Package filter scrubs sensitive values out of source text before it
// leaves the machine.
package filter

import (
	"regexp"
	"strings"

	"github.com/yourorg/codespec/internal/config"
)

// RedactConfig is an alias of config.RedactConfig.
type RedactConfig = config.RedactConfig

// Redactor replaces the values of sensitive assignments such as
// `password = "hunter2"` or `"api_key": "sk-..."`.
type Redactor struct {
	re          *regexp.Regexp
	replacement string
}

// NewRedactor compiles cfg into a Redactor. It returns nil when redaction
// is disabled or no field is configured; a nil Redactor is a no-op.
func NewRedactor(cfg RedactConfig) *Redactor {
	if !cfg.Enabled {
		return nil
	}
	names := make([]string, 0, len(cfg.Fields))
	for _, f := range cfg.Fields {
		f = strings.TrimSpace(strings.ToLower(f))
		if f == "" {
			continue
		}
		names = append(names, regexp.QuoteMeta(f))
	}
	if len(names) == 0 {
		return nil
	}
	name := `[\w-]*(?:` + strings.Join(names, "|") + `)[\w-]*`
	quoted := `"[^"\n]*"|'[^'\n]*'|` + "`[^`]*`"
	// A short declaration only redacts literals; `token := f()` is left alone.
	pattern := `(?i)(` + name + `\s*:=\s*)(` + quoted + `)` +
		`|(` + name + `["']?\s*[:=]\s*)(` + quoted + `|[\w./+-]+)`
	return &Redactor{re: regexp.MustCompile(pattern), replacement: cfg.Replacement}
}

// Redact returns text with sensitive values replaced. Quotes around a
// replaced value are kept.
func (r *Redactor) Redact(text string) string {
	if r == nil || text == "" {
		return text
	}
	return r.re.ReplaceAllStringFunc(text, func(m string) string {
		sub := r.re.FindStringSubmatch(m)
		if len(sub) != 5 {
			return m
		}
		prefix, value := sub[1], sub[2]
		if prefix == "" {
			prefix, value = sub[3], sub[4]
		}
		quote := ""
		if len(value) >= 2 && strings.ContainsAny(value[:1], "\"'`") && value[len(value)-1] == value[0] {
			quote = value[:1]
		}
		return prefix + quote + r.replacement + quote
	})
}
