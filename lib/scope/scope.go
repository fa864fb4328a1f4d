// Package scope rewrites CSS rules so they only apply inside instances of a
// component tag.
//
// A selector branch that mentions the self token (SelfToken, matched without
// regard to case) has the token replaced by the tag; every other branch is
// prefixed with the tag and a descendant combinator:
//
//	.title, self-tag:hover { color: red }
//
// scoped to my-card becomes
//
//	my-card .title, my-card:hover { color: red; }
//
// Rules that embed other rules (@media, @supports, ...) keep their condition
// verbatim and have their children rewritten recursively.
package scope

import (
	"strings"

	"github.com/aymerick/douceur/css"
)

// SelfToken is the placeholder replaced by the component's own tag name.
const SelfToken = "self-tag"

// Rewrite returns the scoped text of rule. ok is false for rules that can't
// be scoped (at-rules without nested rules such as @font-face or @import);
// callers skip those.
func Rewrite(tag string, rule *css.Rule) (text string, ok bool) {
	if rule == nil {
		return "", false
	}
	if rule.Kind == css.QualifiedRule {
		return Selector(tag, prelude(rule)) + " " + declarationBlock(rule.Declarations), true
	}
	if len(rule.Rules) == 0 {
		return "", false
	}
	return group(tag, rule), true
}

// Selector scopes a comma separated selector list.
func Selector(tag, selectorList string) string {
	if strings.TrimSpace(selectorList) == "" {
		return ""
	}
	branches := SplitTopLevel(selectorList)
	for i, branch := range branches {
		branches[i] = scopeBranch(tag, strings.TrimSpace(branch))
	}
	return strings.Join(branches, ", ")
}

func scopeBranch(tag, branch string) string {
	idx := indexFold(branch, SelfToken)
	if idx < 0 {
		return tag + " " + branch
	}
	return branch[:idx] + tag + branch[idx+len(SelfToken):]
}

// indexFold is strings.Index with ASCII case folding. Byte offsets stay valid
// for s, which strings.ToLower does not guarantee.
func indexFold(s, substr string) int {
	for i := 0; i+len(substr) <= len(s); i++ {
		if strings.EqualFold(s[i:i+len(substr)], substr) {
			return i
		}
	}
	return -1
}

// group rewrites an at-rule that embeds other rules. Keyframe blocks hold
// keyframe selectors rather than element selectors and are emitted as is.
func group(tag string, rule *css.Rule) string {
	var sb strings.Builder
	sb.WriteString(condition(rule))
	sb.WriteString(" {")
	for _, child := range rule.Rules {
		var text string
		var ok bool
		if isKeyframes(rule) {
			text, ok = verbatim(child), true
		} else {
			text, ok = Rewrite(tag, child)
		}
		if !ok {
			continue
		}
		sb.WriteString(" ")
		sb.WriteString(text)
	}
	sb.WriteString(" }")
	return sb.String()
}

func condition(rule *css.Rule) string {
	if rule.Prelude == "" {
		return rule.Name
	}
	return rule.Name + " " + rule.Prelude
}

func isKeyframes(rule *css.Rule) bool {
	name := strings.ToLower(rule.Name)
	return strings.HasSuffix(name, "keyframes")
}

func verbatim(rule *css.Rule) string {
	if rule.Kind == css.QualifiedRule {
		return prelude(rule) + " " + declarationBlock(rule.Declarations)
	}
	return condition(rule) + " " + declarationBlock(rule.Declarations)
}

// prelude prefers the raw prelude, since Selectors is split on every comma
// including those inside :is() or attribute values.
func prelude(rule *css.Rule) string {
	if rule.Prelude != "" {
		return rule.Prelude
	}
	return strings.Join(rule.Selectors, ", ")
}

func declarationBlock(decls []*css.Declaration) string {
	if len(decls) == 0 {
		return "{}"
	}
	var sb strings.Builder
	sb.WriteString("{")
	for _, d := range decls {
		sb.WriteString(" ")
		sb.WriteString(d.Property)
		sb.WriteString(": ")
		sb.WriteString(d.Value)
		if d.Important {
			sb.WriteString(" !important")
		}
		sb.WriteString(";")
	}
	sb.WriteString(" }")
	return sb.String()
}

// SplitTopLevel splits a selector list on commas that are not nested inside
// parentheses, brackets or quoted strings.
func SplitTopLevel(list string) []string {
	var (
		parts []string
		depth int
		quote rune
		start int
		esc   bool
	)
	for i, r := range list {
		switch {
		case esc:
			esc = false
		case r == '\\':
			esc = true
		case quote != 0:
			if r == quote {
				quote = 0
			}
		case r == '"' || r == '\'':
			quote = r
		case r == '(' || r == '[':
			depth++
		case r == ')' || r == ']':
			if depth > 0 {
				depth--
			}
		case r == ',' && depth == 0:
			parts = append(parts, list[start:i])
			start = i + 1
		}
	}
	return append(parts, list[start:])
}
