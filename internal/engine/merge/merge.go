// # internal/engine/merge/merge.go
package merge

import (
	"fmt"
	"sort"
	"time"

	"a11ylint/internal/engine/index"
	"a11ylint/internal/engine/selector"
	"a11ylint/internal/model"
	"a11ylint/internal/shared/observability"
)

// Stats counts reference resolutions across one merge. The completeness
// scorer consumes Resolved/Unresolved; Broadcast counts behavior
// references that attached to more than one element.
type Stats struct {
	Resolved   int
	Unresolved int
	Broadcast  int
}

// Document is the merged, queryable graph for one analysis session.
// All collections are owned by the document; contexts reference
// document-owned rule clones, never the source models' rules, so a
// session can never mutate its inputs. Rebuilt wholesale on every
// merge, never patched.
type Document struct {
	Fragments []*model.Fragment
	Index     *index.SelectorIndex
	Rules     []*model.StyleRule // clones with global source order
	Actions   []*model.ActionNode

	Structural []model.Finding
	Stats      Stats

	contexts map[string]*ElementContext // element ID -> context
}

// Context returns the derived context for an element.
func (d *Document) Context(e *model.Element) *ElementContext {
	if e == nil {
		return nil
	}
	return d.contexts[e.ID]
}

// Elements returns all merged elements in fragment + document order.
func (d *Document) Elements() []*model.Element {
	return d.Index.Elements()
}

// Merge resolves every behavior reference and style rule of the given
// source models against the combined fragment set and derives one
// ElementContext per element. Idempotent: merging an unchanged model
// set again produces identical content.
func Merge(models []*model.SourceModel) *Document {
	start := time.Now()

	doc := &Document{contexts: make(map[string]*ElementContext)}

	for _, m := range models {
		doc.Fragments = append(doc.Fragments, m.Fragments...)
	}
	doc.Index = index.Build(doc.Fragments)

	for _, e := range doc.Index.Elements() {
		doc.contexts[e.ID] = newElementContext(e)
	}

	doc.attachActions(models)
	doc.attachRules(models)

	for _, e := range doc.Index.Elements() {
		doc.contexts[e.ID].finalize()
	}

	observability.MergeDuration.Observe(time.Since(start).Seconds())
	observability.FragmentsTotal.Set(float64(len(doc.Fragments)))
	observability.ElementsTotal.Set(float64(len(doc.Index.Elements())))
	return doc
}

// MergeSingle builds the degraded single-fragment view used when a
// file is analyzed without surrounding context. Same shape as a full
// merge; cross-file handler and rule sets are simply absent because
// only one source model contributes.
func MergeSingle(m *model.SourceModel) *Document {
	return Merge([]*model.SourceModel{m})
}

func (doc *Document) attachActions(models []*model.SourceModel) {
	for _, m := range models {
		for _, root := range m.Actions {
			doc.Actions = append(doc.Actions, root)
			root.Walk(func(n *model.ActionNode) {
				if n.Target == "" {
					return
				}
				doc.resolveAction(n)
			})
		}
	}
}

func (doc *Document) resolveAction(n *model.ActionNode) {
	sel, err := selector.Parse(n.Target)
	if err != nil {
		// Malformed selectors degrade to unresolved, never abort.
		doc.Stats.Unresolved++
		doc.Structural = append(doc.Structural, model.Finding{
			Type:      "malformed-selector",
			Severity:  model.SeverityWarning,
			WCAG:      []string{},
			Message:   fmt.Sprintf("behavior reference %q is not a parseable selector", n.Target),
			Locations: []model.Location{n.Location},
		})
		return
	}

	targets := doc.Index.ResolveParsed(sel)
	if len(targets) == 0 {
		doc.Stats.Unresolved++
		doc.Structural = append(doc.Structural, model.Finding{
			Type:      "orphaned-handler",
			Severity:  model.SeverityWarning,
			WCAG:      []string{},
			Message:   fmt.Sprintf("%s targets %q which matches no element in any fragment", n.Kind, n.Target),
			Locations: []model.Location{n.Location},
		})
		return
	}

	doc.Stats.Resolved++
	if len(targets) > 1 {
		// Broadcast semantics: attach to every match.
		doc.Stats.Broadcast++
	}
	for _, e := range targets {
		doc.contexts[e.ID].attachAction(n)
	}
}

func (doc *Document) attachRules(models []*model.SourceModel) {
	order := 0
	for _, m := range models {
		for _, src := range m.Rules {
			rule := cloneRule(src)
			rule.SourceOrder = order
			order++
			doc.Rules = append(doc.Rules, rule)

			sel, err := selector.Parse(rule.Selector)
			if err != nil {
				// Rule selectors never count toward the resolution
				// stats; a stylesheet legitimately carries selectors
				// that match nothing. Malformed ones still surface.
				doc.Structural = append(doc.Structural, model.Finding{
					Type:      "malformed-selector",
					Severity:  model.SeverityWarning,
					WCAG:      []string{},
					Message:   fmt.Sprintf("style rule selector %q could not be parsed", rule.Selector),
					Locations: []model.Location{rule.Location},
				})
				continue
			}
			rule.Specificity = selector.ComputeSpecificity(sel)

			for _, e := range doc.Index.ResolveParsed(sel) {
				doc.contexts[e.ID].attachRule(rule)
			}
		}
	}

	// Matched rules in specificity order, later declarations winning
	// ties. The single cascading tie-break rule for the whole system.
	for _, ctx := range doc.contexts {
		sort.SliceStable(ctx.Rules, func(i, j int) bool {
			cmp := ctx.Rules[i].Specificity.Compare(ctx.Rules[j].Specificity)
			if cmp != 0 {
				return cmp > 0
			}
			return ctx.Rules[i].SourceOrder > ctx.Rules[j].SourceOrder
		})
	}
}

func cloneRule(r *model.StyleRule) *model.StyleRule {
	c := *r
	c.Properties = append([]model.Property(nil), r.Properties...)
	return &c
}
