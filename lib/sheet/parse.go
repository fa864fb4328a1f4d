package sheet

import (
	"strings"

	"github.com/aymerick/douceur/css"
	"github.com/aymerick/douceur/parser"
	"github.com/gorilla/css/scanner"
)

// Parse parses CSS text into a style sheet.
//
// douceur only nests rules under the at-rules it knows (@media, @supports,
// @document, @keyframes). Any at-rule whose block holds rules of its own,
// such as @container or @layer, is split out here and its body parsed
// recursively; everything else goes to douceur as is.
func Parse(text string) (*css.Stylesheet, error) {
	rules, err := parseRules(text)
	if err != nil {
		return nil, err
	}
	return &css.Stylesheet{Rules: rules}, nil
}

func parseRules(text string) ([]*css.Rule, error) {
	blocks, ok := splitBlocks(text)
	if !ok {
		// Unbalanced braces: let douceur report it.
		return parseFlat(text)
	}

	var (
		rules []*css.Rule
		flat  strings.Builder
	)
	flush := func() error {
		parsed, err := parseFlat(flat.String())
		flat.Reset()
		if err != nil {
			return err
		}
		rules = append(rules, parsed...)
		return nil
	}

	for _, b := range blocks {
		if !b.isGroup() {
			flat.WriteString(b.raw)
			continue
		}
		if err := flush(); err != nil {
			return nil, err
		}
		children, err := parseRules(b.body)
		if err != nil {
			return nil, err
		}
		name, prelude := splitAtKeyword(b.prelude)
		rules = append(rules, &css.Rule{
			Kind:    css.AtRule,
			Name:    name,
			Prelude: prelude,
			Rules:   children,
		})
	}
	if err := flush(); err != nil {
		return nil, err
	}
	return rules, nil
}

func parseFlat(text string) ([]*css.Rule, error) {
	if strings.TrimSpace(text) == "" {
		return nil, nil
	}
	parsed, err := parser.Parse(text)
	if err != nil {
		return nil, err
	}
	return parsed.Rules, nil
}

// block is one top-level statement or block of a style sheet.
type block struct {
	raw     string
	prelude string // text before the block, comments removed
	body    string // text between the outer braces
	hasBody bool
	nested  bool // body contains blocks of its own
}

func (b block) isGroup() bool {
	return b.hasBody && b.nested && strings.HasPrefix(b.prelude, "@")
}

// splitBlocks cuts text into top-level statements and blocks. ok is false
// when braces don't balance or the text doesn't tokenize.
func splitBlocks(text string) (blocks []block, ok bool) {
	var (
		raw, prelude, body strings.Builder
		depth              int
		nested             bool
	)
	s := scanner.New(text)
	for {
		tok := s.Next()
		switch tok.Type {
		case scanner.TokenEOF:
			if depth != 0 {
				return nil, false
			}
			if raw.Len() > 0 {
				blocks = append(blocks, block{raw: raw.String()})
			}
			return blocks, true
		case scanner.TokenError:
			return nil, false
		}

		raw.WriteString(tok.Value)
		if tok.Type == scanner.TokenChar {
			switch tok.Value {
			case "{":
				depth++
				if depth == 1 {
					continue
				}
				if depth == 2 {
					nested = true
				}
			case "}":
				depth--
				if depth < 0 {
					return nil, false
				}
				if depth == 0 {
					blocks = append(blocks, block{
						raw:     raw.String(),
						prelude: strings.TrimSpace(prelude.String()),
						body:    body.String(),
						hasBody: true,
						nested:  nested,
					})
					raw.Reset()
					prelude.Reset()
					body.Reset()
					nested = false
					continue
				}
			case ";":
				if depth == 0 {
					blocks = append(blocks, block{raw: raw.String()})
					raw.Reset()
					prelude.Reset()
					continue
				}
			}
		}

		switch {
		case depth > 0:
			body.WriteString(tok.Value)
		case tok.Type != scanner.TokenComment:
			prelude.WriteString(tok.Value)
		}
	}
}

// splitAtKeyword splits "@container (min-width: 10px)" into its name and
// prelude.
func splitAtKeyword(s string) (name, prelude string) {
	end := strings.IndexFunc(s, func(r rune) bool {
		return r == '(' || r == ' ' || r == '\t' || r == '\n' || r == '\r' || r == '\f'
	})
	if end < 0 {
		return s, ""
	}
	return s[:end], strings.TrimSpace(s[end:])
}
