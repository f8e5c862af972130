// # internal/engine/selector/match.go
package selector

import (
	"strings"

	"a11ylint/internal/model"
)

// Matches reports whether element matches any alternative of sel.
func Matches(sel *Selector, e *model.Element) bool {
	if sel == nil || e == nil {
		return false
	}
	for _, alt := range sel.Alternatives {
		if matchComplex(alt, e) {
			return true
		}
	}
	return false
}

// matchComplex anchors the rightmost compound on e and walks the
// combinator chain leftward.
func matchComplex(c Complex, e *model.Element) bool {
	last := len(c.Parts) - 1
	if !matchCompound(c.Parts[last], e) {
		return false
	}
	return matchLeft(c, last-1, e)
}

func matchLeft(c Complex, part int, anchor *model.Element) bool {
	if part < 0 {
		return true
	}

	switch c.Combinators[part] {
	case Child:
		p := anchor.Parent
		if p == nil || !matchCompound(c.Parts[part], p) {
			return false
		}
		return matchLeft(c, part-1, p)
	case Adjacent:
		prev := previousSibling(anchor)
		if prev == nil || !matchCompound(c.Parts[part], prev) {
			return false
		}
		return matchLeft(c, part-1, prev)
	default: // Descendant
		for p := anchor.Parent; p != nil; p = p.Parent {
			if matchCompound(c.Parts[part], p) && matchLeft(c, part-1, p) {
				return true
			}
		}
		return false
	}
}

func previousSibling(e *model.Element) *model.Element {
	if e.Parent == nil {
		return nil
	}
	var prev *model.Element
	for _, c := range e.Parent.Children {
		if c == e {
			return prev
		}
		prev = c
	}
	return nil
}

func matchCompound(c Compound, e *model.Element) bool {
	if c.Tag != "" && c.Tag != strings.ToLower(e.Tag) {
		return false
	}
	if c.ID != "" && e.DOMID() != c.ID {
		return false
	}
	for _, class := range c.Classes {
		if !hasClass(e, class) {
			return false
		}
	}
	for _, attr := range c.Attrs {
		v, ok := e.Attr(attr.Name)
		if !ok {
			return false
		}
		if attr.HasValue && v != attr.Value {
			return false
		}
	}
	for _, p := range c.Pseudos {
		if !matchPseudo(p, e) {
			return false
		}
	}
	return true
}

func matchPseudo(p Pseudo, e *model.Element) bool {
	switch p.Name {
	case "focus", "focus-visible", "hover":
		// State pseudo-classes are statically satisfiable; a static
		// checker cannot rule the state out.
		return true
	case "disabled":
		return e.HasAttr("disabled")
	case "not":
		return p.Not == nil || !matchCompound(*p.Not, e)
	}
	return false
}

func hasClass(e *model.Element, class string) bool {
	v, ok := e.Attr("class")
	if !ok {
		return false
	}
	for _, f := range strings.Fields(v) {
		if f == class {
			return true
		}
	}
	return false
}
