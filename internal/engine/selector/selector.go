// # internal/engine/selector/selector.go
package selector

import (
	"strings"

	"a11ylint/internal/core/errors"
	"a11ylint/internal/model"
)

// Combinator joins two compounds in a complex selector.
type Combinator int

const (
	Descendant Combinator = iota // whitespace
	Child                        // >
	Adjacent                     // +
)

// AttrMatcher is [name] or [name="value"].
type AttrMatcher struct {
	Name     string
	Value    string
	HasValue bool
}

// Pseudo is a state pseudo-class. Not carries the argument compound
// for :not(...).
type Pseudo struct {
	Name string
	Not  *Compound
}

// Compound is one simple-selector sequence, e.g. `button.primary[disabled]:focus`.
type Compound struct {
	Tag     string
	ID      string
	Classes []string
	Attrs   []AttrMatcher
	Pseudos []Pseudo
}

// Complex is a compound chain joined by combinators. Parts has one
// more entry than Combinators; matching anchors on the last part.
type Complex struct {
	Parts       []Compound
	Combinators []Combinator
}

// Selector is a parsed selector list.
type Selector struct {
	Raw          string
	Alternatives []Complex
}

var supportedPseudos = map[string]bool{
	"focus":         true,
	"focus-visible": true,
	"hover":         true,
	"disabled":      true,
	"not":           true,
}

// Parse parses a selector list. Unsupported syntax returns a
// MALFORMED_SELECTOR error so the merger can degrade to unresolved.
func Parse(raw string) (*Selector, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return nil, errors.New(errors.CodeMalformedSelector, "empty selector")
	}

	sel := &Selector{Raw: raw}
	for _, alt := range splitTopLevel(trimmed, ',') {
		alt = strings.TrimSpace(alt)
		if alt == "" {
			return nil, errors.New(errors.CodeMalformedSelector, "empty selector alternative")
		}
		complexSel, err := parseComplex(alt)
		if err != nil {
			return nil, errors.AddContext(err, errors.CtxSelector, raw)
		}
		sel.Alternatives = append(sel.Alternatives, complexSel)
	}
	return sel, nil
}

func parseComplex(input string) (Complex, error) {
	var c Complex
	tokens, err := tokenizeComplex(input)
	if err != nil {
		return c, err
	}

	expectCompound := true
	for _, tok := range tokens {
		switch tok {
		case ">", "+":
			if expectCompound {
				return c, errors.New(errors.CodeMalformedSelector, "combinator without left-hand compound")
			}
			if tok == ">" {
				c.Combinators = append(c.Combinators, Child)
			} else {
				c.Combinators = append(c.Combinators, Adjacent)
			}
			expectCompound = true
		default:
			if !expectCompound {
				// Two compounds separated by whitespace only.
				c.Combinators = append(c.Combinators, Descendant)
			}
			compound, err := parseCompound(tok)
			if err != nil {
				return c, err
			}
			c.Parts = append(c.Parts, compound)
			expectCompound = false
		}
	}

	if expectCompound || len(c.Parts) == 0 {
		return c, errors.New(errors.CodeMalformedSelector, "selector ends without a compound")
	}
	return c, nil
}

// tokenizeComplex splits a complex selector into compound and
// combinator tokens, respecting brackets and parens.
func tokenizeComplex(input string) ([]string, error) {
	var tokens []string
	var cur strings.Builder
	depth := 0

	flush := func() {
		if cur.Len() > 0 {
			tokens = append(tokens, cur.String())
			cur.Reset()
		}
	}

	for _, r := range input {
		switch {
		case r == '[' || r == '(':
			depth++
			cur.WriteRune(r)
		case r == ']' || r == ')':
			depth--
			if depth < 0 {
				return nil, errors.New(errors.CodeMalformedSelector, "unbalanced bracket")
			}
			cur.WriteRune(r)
		case depth == 0 && (r == ' ' || r == '\t' || r == '\n'):
			flush()
		case depth == 0 && (r == '>' || r == '+'):
			flush()
			tokens = append(tokens, string(r))
		case depth == 0 && r == '~':
			return nil, errors.New(errors.CodeMalformedSelector, "general sibling combinator not supported")
		default:
			cur.WriteRune(r)
		}
	}
	if depth != 0 {
		return nil, errors.New(errors.CodeMalformedSelector, "unbalanced bracket")
	}
	flush()
	return tokens, nil
}

func parseCompound(input string) (Compound, error) {
	var c Compound
	i := 0
	n := len(input)

	readName := func() string {
		start := i
		for i < n && isNameRune(rune(input[i])) {
			i++
		}
		return input[start:i]
	}

	for i < n {
		switch input[i] {
		case '#':
			i++
			name := readName()
			if name == "" {
				return c, errors.New(errors.CodeMalformedSelector, "empty id selector")
			}
			c.ID = name
		case '.':
			i++
			name := readName()
			if name == "" {
				return c, errors.New(errors.CodeMalformedSelector, "empty class selector")
			}
			c.Classes = append(c.Classes, name)
		case '[':
			end := strings.IndexByte(input[i:], ']')
			if end < 0 {
				return c, errors.New(errors.CodeMalformedSelector, "unterminated attribute selector")
			}
			attr, err := parseAttrMatcher(input[i+1 : i+end])
			if err != nil {
				return c, err
			}
			c.Attrs = append(c.Attrs, attr)
			i += end + 1
		case ':':
			i++
			if i < n && input[i] == ':' {
				return c, errors.New(errors.CodeMalformedSelector, "pseudo-elements not supported")
			}
			name := readName()
			if name == "" {
				return c, errors.New(errors.CodeMalformedSelector, "empty pseudo-class")
			}
			if !supportedPseudos[name] {
				return c, errors.New(errors.CodeMalformedSelector, "unsupported pseudo-class :"+name)
			}
			if name == "not" {
				if i >= n || input[i] != '(' {
					return c, errors.New(errors.CodeMalformedSelector, ":not requires an argument")
				}
				end := strings.IndexByte(input[i:], ')')
				if end < 0 {
					return c, errors.New(errors.CodeMalformedSelector, "unterminated :not argument")
				}
				arg := strings.TrimSpace(input[i+1 : i+end])
				inner, err := parseCompound(arg)
				if err != nil {
					return c, err
				}
				c.Pseudos = append(c.Pseudos, Pseudo{Name: name, Not: &inner})
				i += end + 1
			} else {
				c.Pseudos = append(c.Pseudos, Pseudo{Name: name})
			}
		case '*':
			i++
		default:
			if !isNameRune(rune(input[i])) {
				return c, errors.New(errors.CodeMalformedSelector, "unexpected character "+string(input[i]))
			}
			c.Tag = strings.ToLower(readName())
		}
	}
	return c, nil
}

func parseAttrMatcher(body string) (AttrMatcher, error) {
	body = strings.TrimSpace(body)
	if body == "" {
		return AttrMatcher{}, errors.New(errors.CodeMalformedSelector, "empty attribute selector")
	}
	eq := strings.IndexByte(body, '=')
	if eq < 0 {
		return AttrMatcher{Name: strings.ToLower(body)}, nil
	}
	name := strings.ToLower(strings.TrimSpace(body[:eq]))
	if name == "" || strings.ContainsAny(name, "~|^$*") {
		return AttrMatcher{}, errors.New(errors.CodeMalformedSelector, "only exact attribute match supported")
	}
	value := strings.TrimSpace(body[eq+1:])
	value = strings.Trim(value, `"'`)
	return AttrMatcher{Name: name, Value: value, HasValue: true}, nil
}

func isNameRune(r rune) bool {
	return r == '-' || r == '_' ||
		(r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9')
}

// splitTopLevel splits on sep outside brackets and parens.
func splitTopLevel(input string, sep rune) []string {
	var parts []string
	var cur strings.Builder
	depth := 0
	for _, r := range input {
		switch {
		case r == '[' || r == '(':
			depth++
			cur.WriteRune(r)
		case r == ']' || r == ')':
			depth--
			cur.WriteRune(r)
		case r == sep && depth == 0:
			parts = append(parts, cur.String())
			cur.Reset()
		default:
			cur.WriteRune(r)
		}
	}
	parts = append(parts, cur.String())
	return parts
}

// ComputeSpecificity returns the specificity tuple of a parsed
// selector. For a selector list the maximum alternative wins; the
// tuple is precomputed once per rule, so one value must stand for the
// whole list.
func ComputeSpecificity(sel *Selector) model.Specificity {
	var best model.Specificity
	for i, alt := range sel.Alternatives {
		spec := complexSpecificity(alt)
		if i == 0 || spec.Compare(best) > 0 {
			best = spec
		}
	}
	return best
}

func complexSpecificity(c Complex) model.Specificity {
	var spec model.Specificity
	for _, part := range c.Parts {
		addCompoundSpecificity(&spec, part)
	}
	return spec
}

func addCompoundSpecificity(spec *model.Specificity, c Compound) {
	if c.ID != "" {
		spec[0]++
	}
	spec[1] += len(c.Classes) + len(c.Attrs)
	for _, p := range c.Pseudos {
		if p.Not != nil {
			// :not itself contributes nothing; its argument does.
			addCompoundSpecificity(spec, *p.Not)
			continue
		}
		spec[1]++
	}
	if c.Tag != "" {
		spec[2]++
	}
}

// ExactKey reports whether the selector is a single simple selector
// eligible for O(1) index lookup, returning the normalized key:
// "#id", ".class", "tag", or `[role="value"]`.
func ExactKey(sel *Selector) (string, bool) {
	if len(sel.Alternatives) != 1 {
		return "", false
	}
	alt := sel.Alternatives[0]
	if len(alt.Parts) != 1 {
		return "", false
	}
	c := alt.Parts[0]
	if len(c.Pseudos) > 0 {
		return "", false
	}

	simple := 0
	key := ""
	if c.ID != "" {
		simple++
		key = "#" + c.ID
	}
	if len(c.Classes) == 1 {
		simple++
		key = "." + c.Classes[0]
	} else if len(c.Classes) > 1 {
		return "", false
	}
	if len(c.Attrs) == 1 {
		a := c.Attrs[0]
		if a.Name != "role" || !a.HasValue {
			return "", false
		}
		simple++
		key = `[role="` + a.Value + `"]`
	} else if len(c.Attrs) > 1 {
		return "", false
	}
	if c.Tag != "" {
		simple++
		key = c.Tag
	}

	if simple != 1 {
		return "", false
	}
	return key, true
}
