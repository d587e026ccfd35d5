package naming

import (
	"fmt"
	"strings"
)

// Template tokens.
const (
	TokenFilename      = "filename"
	TokenTimestamp     = "timestamp"
	TokenFileExtension = "file_extension"
	TokenCounter       = "counter"
)

// ConfigurationError reports a template that cannot be used. It is raised at
// startup, before any file is touched.
type ConfigurationError struct {
	Template string
	Reason   string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("invalid template %q: %s", e.Template, e.Reason)
}

type segment struct {
	text  string
	token bool
}

// Template is a parsed token-substitution pattern.
type Template struct {
	raw      string
	segments []segment
}

// ParseTemplate parses s, allowing only the listed tokens.
func ParseTemplate(s string, allowed ...string) (Template, error) {
	ok := make(map[string]bool, len(allowed))
	for _, a := range allowed {
		ok[a] = true
	}

	t := Template{raw: s}
	rest := s
	for rest != "" {
		open := strings.IndexByte(rest, '{')
		closing := strings.IndexByte(rest, '}')
		if open < 0 {
			if closing >= 0 {
				return Template{}, &ConfigurationError{Template: s, Reason: "unmatched '}'"}
			}
			t.segments = append(t.segments, segment{text: rest})
			break
		}
		if closing >= 0 && closing < open {
			return Template{}, &ConfigurationError{Template: s, Reason: "unmatched '}'"}
		}
		if open > 0 {
			t.segments = append(t.segments, segment{text: rest[:open]})
		}
		rest = rest[open+1:]
		end := strings.IndexByte(rest, '}')
		if end < 0 {
			return Template{}, &ConfigurationError{Template: s, Reason: "unterminated '{'"}
		}
		name := rest[:end]
		if !ok[name] {
			return Template{}, &ConfigurationError{Template: s, Reason: fmt.Sprintf("unknown token {%s}", name)}
		}
		t.segments = append(t.segments, segment{text: name, token: true})
		rest = rest[end+1:]
	}
	return t, nil
}

// MustParseTemplate is ParseTemplate for compile-time constants.
func MustParseTemplate(s string, allowed ...string) Template {
	t, err := ParseTemplate(s, allowed...)
	if err != nil {
		panic(err)
	}
	return t
}

// String returns the template source.
func (t Template) String() string { return t.raw }

// Has reports whether the template references token.
func (t Template) Has(token string) bool {
	for _, seg := range t.segments {
		if seg.token && seg.text == token {
			return true
		}
	}
	return false
}

// Render substitutes values; tokens without a value render empty.
func (t Template) Render(values map[string]string) string {
	var b strings.Builder
	for _, seg := range t.segments {
		if seg.token {
			b.WriteString(values[seg.text])
			continue
		}
		b.WriteString(seg.text)
	}
	return b.String()
}

// fragment renders the token's value together with the literal text around
// it up to the neighbouring tokens, e.g. "_20060417_134347" for
// "{filename}_{timestamp}{file_extension}". It is what an earlier rendering
// inserted into a name on account of that token.
func (t Template) fragment(token, value string) string {
	for i, seg := range t.segments {
		if !seg.token || seg.text != token {
			continue
		}
		var b strings.Builder
		if i > 0 && !t.segments[i-1].token {
			b.WriteString(t.segments[i-1].text)
		}
		b.WriteString(value)
		if i+1 < len(t.segments) && !t.segments[i+1].token {
			b.WriteString(t.segments[i+1].text)
		}
		return b.String()
	}
	return value
}
