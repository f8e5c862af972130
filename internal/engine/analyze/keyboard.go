// # internal/engine/analyze/keyboard.go
package analyze

import (
	"fmt"

	"a11ylint/internal/model"
)

// ClickWithoutKeyboard flags elements that react to click but offer no
// keyboard path: a click handler, no keydown/keypress handler, and a
// host element that is not natively keyboard operable.
type ClickWithoutKeyboard struct{}

func (a *ClickWithoutKeyboard) Name() string                    { return "mouse-only-click" }
func (a *ClickWithoutKeyboard) Criteria() []string              { return []string{"2.1.1"} }
func (a *ClickWithoutKeyboard) DefaultSeverity() model.Severity { return model.SeverityWarning }

func (a *ClickWithoutKeyboard) Analyze(view *View) []model.Finding {
	var findings []model.Finding
	for _, e := range view.Doc.Elements() {
		ctx := view.Doc.Context(e)
		// keyup alone cannot activate a control, so it does not count
		// as a keyboard path here.
		if !ctx.HasClickHandler || ctx.HasHandler("keydown") || ctx.HasHandler("keypress") {
			continue
		}
		if model.KeyboardOperable(e) {
			continue
		}

		locations := append([]model.Location{e.Location}, ctx.ClickHandlerLocations()...)
		findings = append(findings, model.Finding{
			Type:     a.Name(),
			Severity: a.DefaultSeverity(),
			WCAG:     a.Criteria(),
			Message: fmt.Sprintf("<%s> handles click but has no keydown/keypress handler and is not natively keyboard operable",
				e.Tag),
			Element:   e,
			Locations: locations,
			Fix: &model.FixHint{
				Description: "add a keydown handler activating on Enter/Space, or use a native button",
			},
		})
	}
	return findings
}
