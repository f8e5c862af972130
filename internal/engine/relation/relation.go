// # internal/engine/relation/relation.go
package relation

import (
	"fmt"
	"strings"

	"a11ylint/internal/engine/merge"
	"a11ylint/internal/model"
)

// Relation attributes whose values are whitespace-separated id lists.
// `for` is the label-to-control association; the rest are ARIA
// relationships.
var relationAttrs = []string{
	"aria-labelledby",
	"aria-describedby",
	"aria-controls",
	"aria-owns",
	"for",
}

// Edge is one resolved id reference between two elements.
type Edge struct {
	Source   *model.Element
	Relation string
	Target   *model.Element
}

// Dangling is an id reference that resolved to nothing.
type Dangling struct {
	Source    *model.Element
	Relation  string
	MissingID string
}

// Graph is the directed id-reference graph over all fragments.
// Relationships may legitimately cross fragment boundaries during
// incremental development.
type Graph struct {
	Edges    []Edge
	Dangling []Dangling

	outgoing map[string][]int // element ID -> edge indexes
	incoming map[string][]int
}

// Resolve builds the relationship graph for a merged document. Runs
// after the merger; only element identity is needed here.
func Resolve(doc *merge.Document) *Graph {
	g := &Graph{
		outgoing: make(map[string][]int),
		incoming: make(map[string][]int),
	}

	// Global id map across all fragments. First occurrence wins on
	// duplicate ids, matching browser getElementById behavior.
	byID := make(map[string]*model.Element)
	for _, e := range doc.Elements() {
		if id := e.DOMID(); id != "" {
			if _, seen := byID[id]; !seen {
				byID[id] = e
			}
		}
	}

	for _, e := range doc.Elements() {
		for _, attr := range relationAttrs {
			raw, ok := e.Attr(attr)
			if !ok || strings.TrimSpace(raw) == "" {
				continue
			}
			for _, id := range strings.Fields(raw) {
				target, found := byID[id]
				if !found {
					g.Dangling = append(g.Dangling, Dangling{Source: e, Relation: attr, MissingID: id})
					continue
				}
				idx := len(g.Edges)
				g.Edges = append(g.Edges, Edge{Source: e, Relation: attr, Target: target})
				g.outgoing[e.ID] = append(g.outgoing[e.ID], idx)
				g.incoming[target.ID] = append(g.incoming[target.ID], idx)
			}
		}
	}

	return g
}

// Stats returns resolved and unresolved id-reference counts.
func (g *Graph) Stats() (resolved, unresolved int) {
	return len(g.Edges), len(g.Dangling)
}

// Outgoing returns the edges originating at e, in attribute order.
func (g *Graph) Outgoing(e *model.Element) []Edge {
	return g.edges(g.outgoing[e.ID])
}

// Incoming returns the edges pointing at e.
func (g *Graph) Incoming(e *model.Element) []Edge {
	return g.edges(g.incoming[e.ID])
}

// Related returns the targets of e's edges with the given relation.
func (g *Graph) Related(e *model.Element, relation string) []*model.Element {
	var out []*model.Element
	for _, edge := range g.Outgoing(e) {
		if edge.Relation == relation {
			out = append(out, edge.Target)
		}
	}
	return out
}

func (g *Graph) edges(idxs []int) []Edge {
	out := make([]Edge, 0, len(idxs))
	for _, i := range idxs {
		out = append(out, g.Edges[i])
	}
	return out
}

// Findings converts every dangling reference into a structural
// finding naming the attribute, the missing id, and the referencing
// element's location.
func (g *Graph) Findings() []model.Finding {
	findings := make([]model.Finding, 0, len(g.Dangling))
	for _, d := range g.Dangling {
		findings = append(findings, model.Finding{
			Type:     "dangling-aria-reference",
			Severity: model.SeverityError,
			WCAG:     []string{"1.3.1", "4.1.2"},
			Message:  fmt.Sprintf("%s references id %q which is not defined in any fragment", d.Relation, d.MissingID),
			Element:  d.Source,
			Locations: []model.Location{
				d.Source.Location,
			},
			Fix: &model.FixHint{
				Attr:        d.Relation,
				Description: fmt.Sprintf("define an element with id %q or remove it from %s", d.MissingID, d.Relation),
			},
		})
	}
	return findings
}
