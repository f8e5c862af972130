// # internal/engine/merge/context.go
package merge

import (
	"strconv"
	"strings"

	"a11ylint/internal/model"
)

// ElementContext is the per-element aggregation derived on every
// merge: attached behavior nodes grouped by event, matched style rules
// in cascade order, and the accessibility-relevant booleans. Never
// mutated after finalize.
type ElementContext struct {
	Element  *model.Element
	Handlers map[string][]*model.ActionNode
	Actions  []*model.ActionNode
	Rules    []*model.StyleRule

	Focusable          bool
	Interactive        bool
	HasClickHandler    bool
	HasKeyboardHandler bool
	HiddenByStyle      bool
}

func newElementContext(e *model.Element) *ElementContext {
	return &ElementContext{
		Element:  e,
		Handlers: make(map[string][]*model.ActionNode),
	}
}

func (c *ElementContext) attachAction(n *model.ActionNode) {
	c.Actions = append(c.Actions, n)
	if n.Kind == model.ActionEventHandler && n.Event != "" {
		c.Handlers[n.Event] = append(c.Handlers[n.Event], n)
	}
}

func (c *ElementContext) attachRule(r *model.StyleRule) {
	c.Rules = append(c.Rules, r)
}

// finalize computes the derived booleans. Pure over the aggregated
// data; no further mutation happens afterwards.
func (c *ElementContext) finalize() {
	c.HasClickHandler = len(c.Handlers["click"]) > 0
	c.HasKeyboardHandler = len(c.Handlers["keydown"]) > 0 ||
		len(c.Handlers["keypress"]) > 0 ||
		len(c.Handlers["keyup"]) > 0
	c.Focusable = computeFocusable(c)
	c.HiddenByStyle = computeHiddenByStyle(c.Rules)
	c.Interactive = c.Focusable || c.HasClickHandler || c.HasKeyboardHandler ||
		len(c.Handlers) > 0
}

func computeFocusable(c *ElementContext) bool {
	if c.Element.Semantic.NativelyFocusable {
		return true
	}
	if v, ok := c.Element.Attr("tabindex"); ok {
		if n, err := strconv.Atoi(strings.TrimSpace(v)); err == nil && n >= 0 {
			return true
		}
	}
	for _, n := range c.Actions {
		if n.Kind == model.ActionTabIndexChange && n.TabIndex >= 0 {
			return true
		}
	}
	return false
}

// computeHiddenByStyle walks the cascade-ordered rules; the first rule
// declaring display or visibility decides.
func computeHiddenByStyle(rules []*model.StyleRule) bool {
	displayDecided := false
	visibilityDecided := false
	for _, r := range rules {
		if !displayDecided {
			if v, ok := r.Property("display"); ok {
				if strings.TrimSpace(v) == "none" {
					return true
				}
				displayDecided = true
			}
		}
		if !visibilityDecided {
			if v, ok := r.Property("visibility"); ok {
				if strings.TrimSpace(v) == "hidden" {
					return true
				}
				visibilityDecided = true
			}
		}
		if displayDecided && visibilityDecided {
			break
		}
	}
	return false
}

// HasHandler reports whether at least one handler is attached for the
// given event name.
func (c *ElementContext) HasHandler(event string) bool {
	return len(c.Handlers[event]) > 0
}

// ClickHandlerLocations returns the location of every click handler
// attached to the element, in attachment order.
func (c *ElementContext) ClickHandlerLocations() []model.Location {
	locs := make([]model.Location, 0, len(c.Handlers["click"]))
	for _, h := range c.Handlers["click"] {
		locs = append(locs, h.Location)
	}
	return locs
}
