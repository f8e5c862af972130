// # internal/engine/analyze/focus.go
package analyze

import (
	"fmt"
	"strconv"
	"strings"

	"a11ylint/internal/model"
)

// FocusManagement flags handlers that remove focus-impacting content
// without restoring focus: a DomManipulation remove with the
// focus-impact flag set and no FocusChange carrying the restore flag
// anywhere in the same handler tree.
type FocusManagement struct{}

func (a *FocusManagement) Name() string                    { return "focus-not-restored" }
func (a *FocusManagement) Criteria() []string              { return []string{"2.4.3"} }
func (a *FocusManagement) DefaultSeverity() model.Severity { return model.SeverityWarning }

func (a *FocusManagement) Analyze(view *View) []model.Finding {
	var findings []model.Finding
	for _, root := range view.Doc.Actions {
		root.Walk(func(n *model.ActionNode) {
			if n.Kind != model.ActionEventHandler {
				return
			}
			removal := findFocusImpactingRemoval(n)
			if removal == nil {
				return
			}
			if hasFocusRestore(n) {
				return
			}
			findings = append(findings, model.Finding{
				Type:      a.Name(),
				Severity:  a.DefaultSeverity(),
				WCAG:      a.Criteria(),
				Message:   fmt.Sprintf("handler removes focus-impacting content targeting %q without restoring focus", removal.Target),
				Locations: []model.Location{removal.Location},
				Fix: &model.FixHint{
					Description: "move focus to a sensible element (or restore the previous focus) after removing the focused subtree",
				},
			})
		})
	}
	return findings
}

func findFocusImpactingRemoval(handler *model.ActionNode) *model.ActionNode {
	var found *model.ActionNode
	handler.Walk(func(n *model.ActionNode) {
		if found != nil || n == handler {
			return
		}
		if n.Kind == model.ActionDomManipulation && n.Op == model.DomRemove && n.AffectsFocus {
			found = n
		}
	})
	return found
}

func hasFocusRestore(handler *model.ActionNode) bool {
	restore := false
	handler.Walk(func(n *model.ActionNode) {
		if n == handler {
			return
		}
		if n.Kind == model.ActionFocusChange {
			restore = true
		}
	})
	return restore
}

// TabOrder flags explicit positive tabindex values, which override the
// natural focus order.
type TabOrder struct{}

func (a *TabOrder) Name() string                    { return "positive-tabindex" }
func (a *TabOrder) Criteria() []string              { return []string{"2.4.3"} }
func (a *TabOrder) DefaultSeverity() model.Severity { return model.SeverityWarning }

func (a *TabOrder) Analyze(view *View) []model.Finding {
	var findings []model.Finding
	emit := func(value int, loc model.Location, e *model.Element) {
		findings = append(findings, model.Finding{
			Type:      a.Name(),
			Severity:  a.DefaultSeverity(),
			WCAG:      a.Criteria(),
			Message:   fmt.Sprintf("tabindex=%d overrides the natural focus order", value),
			Element:   e,
			Locations: []model.Location{loc},
			Fix: &model.FixHint{
				Attr:        "tabindex",
				Value:       "0",
				Description: "use tabindex 0 and document order instead of positive values",
			},
		})
	}

	for _, e := range view.Doc.Elements() {
		if v, ok := e.Attr("tabindex"); ok {
			if n, err := strconv.Atoi(strings.TrimSpace(v)); err == nil && n > 0 {
				emit(n, e.Location, e)
			}
		}
	}
	for _, root := range view.Doc.Actions {
		root.Walk(func(n *model.ActionNode) {
			if n.Kind == model.ActionTabIndexChange && n.TabIndex > 0 {
				emit(n.TabIndex, n.Location, nil)
			}
		})
	}
	return findings
}
