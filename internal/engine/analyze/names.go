// # internal/engine/analyze/names.go
package analyze

import (
	"fmt"
	"strings"

	"a11ylint/internal/model"
)

// AccessibleNames flags interactive elements that end up with no
// accessible name: no text content, no aria-label, no resolvable
// aria-labelledby, and no associated <label for>.
type AccessibleNames struct{}

func (a *AccessibleNames) Name() string                    { return "missing-accessible-name" }
func (a *AccessibleNames) Criteria() []string              { return []string{"4.1.2", "2.4.6"} }
func (a *AccessibleNames) DefaultSeverity() model.Severity { return model.SeverityError }

func (a *AccessibleNames) Analyze(view *View) []model.Finding {
	var findings []model.Finding
	for _, e := range view.Doc.Elements() {
		ctx := view.Doc.Context(e)
		if !ctx.Interactive || ctx.HiddenByStyle {
			continue
		}
		if !needsName(e) {
			continue
		}
		if hasAccessibleName(view, e) {
			continue
		}
		findings = append(findings, model.Finding{
			Type:      a.Name(),
			Severity:  a.DefaultSeverity(),
			WCAG:      a.Criteria(),
			Message:   fmt.Sprintf("<%s> is interactive but has no accessible name", e.Tag),
			Element:   e,
			Locations: []model.Location{e.Location},
			Fix: &model.FixHint{
				Attr:        "aria-label",
				Description: "add visible text, an aria-label, or an aria-labelledby reference",
			},
		})
	}
	return findings
}

// needsName limits the rule to control-like elements; plain containers
// with a stray handler are the mouse-only rule's business.
func needsName(e *model.Element) bool {
	switch strings.ToLower(e.Tag) {
	case "button", "a", "input", "select", "textarea":
		if t, _ := e.Attr("type"); strings.ToLower(t) == "hidden" {
			return false
		}
		return true
	}
	switch e.Role() {
	case "button", "link", "checkbox", "radio", "textbox", "combobox", "tab", "menuitem", "slider", "searchbox":
		return true
	}
	return false
}

func hasAccessibleName(view *View, e *model.Element) bool {
	if textContent(e) != "" {
		return true
	}
	if v, ok := e.Attr("aria-label"); ok && strings.TrimSpace(v) != "" {
		return true
	}
	if v, ok := e.Attr("alt"); ok && strings.TrimSpace(v) != "" {
		return true
	}
	if v, ok := e.Attr("title"); ok && strings.TrimSpace(v) != "" {
		return true
	}
	if v, ok := e.Attr("value"); ok && strings.TrimSpace(v) != "" {
		if t, _ := e.Attr("type"); t == "submit" || t == "button" || t == "reset" {
			return true
		}
	}

	if view.Relations != nil {
		// Name from a resolved aria-labelledby target with text.
		for _, target := range view.Relations.Related(e, "aria-labelledby") {
			if textContent(target) != "" {
				return true
			}
		}
		// Name from an associated <label for=...>.
		for _, edge := range view.Relations.Incoming(e) {
			if edge.Relation == "for" && textContent(edge.Source) != "" {
				return true
			}
		}
	}
	return false
}

func textContent(e *model.Element) string {
	var b strings.Builder
	e.Walk(func(n *model.Element) {
		b.WriteString(n.Text)
		b.WriteString(" ")
	})
	return strings.TrimSpace(b.String())
}
