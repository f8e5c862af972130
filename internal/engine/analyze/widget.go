// # internal/engine/analyze/widget.go
package analyze

import (
	"fmt"
	"sort"
	"strings"

	"a11ylint/internal/model"
)

// widgetPattern describes what a complete composite widget needs:
// structural sub-roles, a state attribute on at least one
// representative element, a keyboard interaction, and internal
// id-style cross-references.
type widgetPattern struct {
	Container     string
	RequiredRoles []string
	StateAttr     string
	RequiredKeys  []string
	RefAttr       string
}

// Registered patterns, ordered by container role name.
var widgetPatterns = []widgetPattern{
	{
		Container:     "combobox",
		RequiredRoles: []string{"listbox"},
		StateAttr:     "aria-expanded",
		RequiredKeys:  []string{"ArrowDown", "Escape"},
		RefAttr:       "aria-controls",
	},
	{
		Container:     "listbox",
		RequiredRoles: []string{"option"},
		StateAttr:     "aria-selected",
		RequiredKeys:  []string{"ArrowDown", "ArrowUp"},
	},
	{
		Container:     "menu",
		RequiredRoles: []string{"menuitem"},
		StateAttr:     "aria-expanded",
		RequiredKeys:  []string{"ArrowDown", "ArrowUp", "Escape"},
	},
	{
		Container:     "radiogroup",
		RequiredRoles: []string{"radio"},
		StateAttr:     "aria-checked",
		RequiredKeys:  []string{"ArrowLeft", "ArrowRight", "ArrowDown", "ArrowUp"},
	},
	{
		Container:     "tablist",
		RequiredRoles: []string{"tab", "tabpanel"},
		StateAttr:     "aria-selected",
		RequiredKeys:  []string{"ArrowLeft", "ArrowRight"},
		RefAttr:       "aria-controls",
	},
}

// Sub-feature codes, in fixed enumeration order. One finding per
// missing sub-feature, never a single combined finding.
const (
	subMissingRole     = "widget-missing-role"
	subMissingState    = "widget-missing-state"
	subMissingKeyboard = "widget-missing-keyboard"
	subMissingRef      = "widget-missing-reference"
)

// WidgetPatterns validates composite-widget implementations in four
// phases: collect elements by role, check structural/state/keyboard
// requirements, check internal references via the relationship graph,
// and emit one finding per missing sub-feature.
type WidgetPatterns struct{}

func (a *WidgetPatterns) Name() string                    { return "widget-patterns" }
func (a *WidgetPatterns) Criteria() []string              { return []string{"2.1.1", "4.1.2"} }
func (a *WidgetPatterns) DefaultSeverity() model.Severity { return model.SeverityWarning }

func (a *WidgetPatterns) Analyze(view *View) []model.Finding {
	// Phase 1: collect by explicit/implicit role across all fragments.
	byRole := make(map[string][]*model.Element)
	for _, e := range view.Doc.Elements() {
		if role := e.Role(); role != "" {
			byRole[role] = append(byRole[role], e)
		}
	}

	var findings []model.Finding
	for _, pattern := range widgetPatterns {
		containers := byRole[pattern.Container]
		if len(containers) == 0 {
			continue
		}
		for _, container := range containers {
			findings = append(findings, a.validate(view, pattern, container, byRole)...)
		}
	}
	return findings
}

func (a *WidgetPatterns) validate(view *View, pattern widgetPattern, container *model.Element, byRole map[string][]*model.Element) []model.Finding {
	var findings []model.Finding
	emit := func(sub, msg string) {
		findings = append(findings, model.Finding{
			Type:      sub,
			Severity:  a.DefaultSeverity(),
			WCAG:      a.Criteria(),
			Message:   fmt.Sprintf("%s pattern: %s", pattern.Container, msg),
			Element:   container,
			Locations: []model.Location{container.Location},
		})
	}

	candidates := a.candidates(pattern, container, byRole)

	// Phase 2a: required structural sub-roles.
	missingRoles := make([]string, 0)
	for _, role := range pattern.RequiredRoles {
		if len(byRole[role]) == 0 {
			missingRoles = append(missingRoles, role)
		}
	}
	sort.Strings(missingRoles)
	for _, role := range missingRoles {
		emit(subMissingRole, fmt.Sprintf("no element with role %q found in any fragment", role))
	}

	// Phase 2b: state attribute on at least one representative element.
	if pattern.StateAttr != "" && !anyHasAttr(candidates, pattern.StateAttr) {
		emit(subMissingState, fmt.Sprintf("no element carries the %s state attribute", pattern.StateAttr))
	}

	// Phase 2c: keyboard interaction, detected by scanning handler
	// summaries for the pattern's key names. A text heuristic, so
	// false negatives are possible for indirect key dispatch.
	if len(pattern.RequiredKeys) > 0 && !a.hasKeyboardInteraction(view, candidates, pattern.RequiredKeys) {
		emit(subMissingKeyboard, fmt.Sprintf("no handler mentions any of the required keys (%s)",
			strings.Join(pattern.RequiredKeys, ", ")))
	}

	// Phase 3: internal id-style cross-references via the relationship
	// graph built by the resolver.
	if pattern.RefAttr != "" && view.Relations != nil {
		found := false
		for _, e := range candidates {
			if len(view.Relations.Related(e, pattern.RefAttr)) > 0 {
				found = true
				break
			}
		}
		if !found {
			emit(subMissingRef, fmt.Sprintf("no resolved %s reference between the widget's parts", pattern.RefAttr))
		}
	}

	return findings
}

// candidates are the container, its descendants, and every element
// carrying one of the pattern's roles (sub-parts may live in other
// fragments during incremental development).
func (a *WidgetPatterns) candidates(pattern widgetPattern, container *model.Element, byRole map[string][]*model.Element) []*model.Element {
	seen := make(map[string]bool)
	var out []*model.Element
	add := func(e *model.Element) {
		if !seen[e.ID] {
			seen[e.ID] = true
			out = append(out, e)
		}
	}
	container.Walk(add)
	for _, role := range pattern.RequiredRoles {
		for _, e := range byRole[role] {
			add(e)
		}
	}
	return out
}

func (a *WidgetPatterns) hasKeyboardInteraction(view *View, candidates []*model.Element, keys []string) bool {
	for _, e := range candidates {
		ctx := view.Doc.Context(e)
		if ctx == nil {
			continue
		}
		for event, handlers := range ctx.Handlers {
			if event != "keydown" && event != "keypress" && event != "keyup" {
				continue
			}
			for _, h := range handlers {
				for _, key := range keys {
					if strings.Contains(h.Summary, key) {
						return true
					}
				}
			}
		}
	}
	return false
}

func anyHasAttr(elements []*model.Element, attr string) bool {
	for _, e := range elements {
		if e.HasAttr(attr) {
			return true
		}
	}
	return false
}
