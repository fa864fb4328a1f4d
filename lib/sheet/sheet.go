// Package sheet accumulates scoped component styles into one ordered,
// append-only style sheet.
package sheet

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/a-h/templ"
	"github.com/aymerick/douceur/css"

	"github.com/pthm/nanocmp/lib/scope"
)

// Sheet is the global style sheet shared by every component of a document.
// Rules are only ever appended; nothing removes or reorders them.
//
// A Sheet is not safe for concurrent use.
type Sheet struct {
	rules []string
}

// New creates an empty sheet.
func New() *Sheet {
	return &Sheet{}
}

// Insert scopes every top-level rule of style to tag and appends the results
// at the end of the sheet. style is raw CSS text (string or []byte) or a
// pre-parsed *css.Stylesheet; nil inserts nothing.
//
// Parse errors are returned as is and leave the sheet untouched. The return
// value is the number of rules appended; unscopable rules are skipped.
func (s *Sheet) Insert(tag string, style any) (int, error) {
	parsed, err := Materialize(style)
	if err != nil {
		return 0, err
	}
	if parsed == nil {
		return 0, nil
	}

	n := 0
	for _, rule := range parsed.Rules {
		text, ok := scope.Rewrite(tag, rule)
		if !ok {
			continue
		}
		s.rules = append(s.rules, text)
		n++
	}
	return n, nil
}

// Materialize turns a style source into a parsed style sheet.
func Materialize(style any) (*css.Stylesheet, error) {
	switch v := style.(type) {
	case nil:
		return nil, nil
	case string:
		return Parse(v)
	case []byte:
		return Parse(string(v))
	case *css.Stylesheet:
		return v, nil
	default:
		return nil, fmt.Errorf("sheet: unsupported style source %T", style)
	}
}

// IsSource reports whether style is a value Insert accepts.
func IsSource(style any) bool {
	switch v := style.(type) {
	case string, []byte:
		return true
	case *css.Stylesheet:
		return v != nil
	default:
		return false
	}
}

// Len returns the number of rules in the sheet.
func (s *Sheet) Len() int {
	return len(s.rules)
}

// Rules returns a copy of the rules in insertion order.
func (s *Sheet) Rules() []string {
	out := make([]string, len(s.rules))
	copy(out, s.rules)
	return out
}

// String returns the sheet as CSS text, one rule per line.
func (s *Sheet) String() string {
	return strings.Join(s.rules, "\n")
}

// Text returns the sheet as the raw text of a <style> element. Only a
// closing tag sequence can end that element early, so "</" is escaped; in
// CSS "\/" reads as "/".
func (s *Sheet) Text() string {
	return strings.ReplaceAll(s.String(), "</", `<\/`)
}

// WriteTo writes the CSS text of the sheet to w.
func (s *Sheet) WriteTo(w io.Writer) (int64, error) {
	n, err := io.WriteString(w, s.String())
	return int64(n), err
}

// Component renders the sheet as a <style> element for templ layouts:
//
//	@reg.Stylesheet().Component()
func (s *Sheet) Component() templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		if _, err := io.WriteString(w, "<style>"); err != nil {
			return err
		}
		if _, err := io.WriteString(w, s.Text()); err != nil {
			return err
		}
		_, err := io.WriteString(w, "</style>")
		return err
	})
}
