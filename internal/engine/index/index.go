// # internal/engine/index/index.go
package index

import (
	"strings"

	"a11ylint/internal/engine/selector"
	"a11ylint/internal/model"
)

// SelectorIndex indexes every element across every fragment by id,
// class, tag, and role for O(1) exact lookup, and resolves general
// selectors by structural matching. Built once per merge, never
// mutated afterwards.
type SelectorIndex struct {
	elements []*model.Element // all fragments, document order

	byID    map[string][]*model.Element
	byClass map[string][]*model.Element
	byTag   map[string][]*model.Element
	byRole  map[string][]*model.Element
}

// Build indexes the given fragments. Iteration order follows fragment
// order then document order, which keeps every downstream sequence
// deterministic.
func Build(fragments []*model.Fragment) *SelectorIndex {
	idx := &SelectorIndex{
		byID:    make(map[string][]*model.Element),
		byClass: make(map[string][]*model.Element),
		byTag:   make(map[string][]*model.Element),
		byRole:  make(map[string][]*model.Element),
	}
	for _, frag := range fragments {
		if frag == nil || frag.Root == nil {
			continue
		}
		frag.Root.Walk(func(e *model.Element) {
			idx.elements = append(idx.elements, e)
			if id := e.DOMID(); id != "" {
				idx.byID[id] = append(idx.byID[id], e)
			}
			if class, ok := e.Attr("class"); ok {
				for _, c := range strings.Fields(class) {
					idx.byClass[c] = append(idx.byClass[c], e)
				}
			}
			tag := strings.ToLower(e.Tag)
			idx.byTag[tag] = append(idx.byTag[tag], e)
			if role, ok := e.Attr("role"); ok && role != "" {
				idx.byRole[role] = append(idx.byRole[role], e)
			}
		})
	}
	return idx
}

// Elements returns every indexed element in document order.
func (idx *SelectorIndex) Elements() []*model.Element {
	return idx.elements
}

// ByID returns the elements carrying the given id attribute value.
func (idx *SelectorIndex) ByID(id string) []*model.Element {
	return idx.byID[id]
}

// ByRole returns the elements with the given explicit role.
func (idx *SelectorIndex) ByRole(role string) []*model.Element {
	return idx.byRole[role]
}

// Lookup resolves an exact key: "#id", ".class", "tag", or
// `[role="value"]`.
func (idx *SelectorIndex) Lookup(key string) []*model.Element {
	switch {
	case strings.HasPrefix(key, "#"):
		return idx.byID[key[1:]]
	case strings.HasPrefix(key, "."):
		return idx.byClass[key[1:]]
	case strings.HasPrefix(key, `[role="`) && strings.HasSuffix(key, `"]`):
		return idx.byRole[key[len(`[role="`) : len(key)-2]]
	default:
		return idx.byTag[strings.ToLower(key)]
	}
}

// Resolve parses a selector string and returns all matching elements.
// Exact single-key selectors take the O(1) map path; everything else
// is matched structurally against all elements.
func (idx *SelectorIndex) Resolve(raw string) ([]*model.Element, error) {
	sel, err := selector.Parse(raw)
	if err != nil {
		return nil, err
	}
	return idx.ResolveParsed(sel), nil
}

// ResolveParsed resolves an already-parsed selector.
func (idx *SelectorIndex) ResolveParsed(sel *selector.Selector) []*model.Element {
	if key, ok := selector.ExactKey(sel); ok {
		return idx.Lookup(key)
	}
	var out []*model.Element
	for _, e := range idx.elements {
		if selector.Matches(sel, e) {
			out = append(out, e)
		}
	}
	return out
}
