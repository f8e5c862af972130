// # internal/model/types.go
package model

import (
	"fmt"
	"time"
)

// Location pins a node to its origin in a source file.
type Location struct {
	File      string
	Line      int
	Column    int
	StartByte int
	EndByte   int
}

func (l Location) String() string {
	return fmt.Sprintf("%s:%d:%d", l.File, l.Line, l.Column)
}

// Dialect identifies which per-dialect parser produced a source model.
const (
	DialectHTML       = "html"
	DialectCSS        = "css"
	DialectJavaScript = "javascript"
	DialectTypeScript = "typescript"
)

// SourceModel is the per-file container handed over by a dialect
// parser. Immutable once constructed; a session never mutates it.
type SourceModel struct {
	Path      string
	Dialect   string
	Fragments []*Fragment
	Actions   []*ActionNode
	Rules     []*StyleRule
	ParsedAt  time.Time
}

// Fragment is one independently-rooted markup tree. Its ID is derived
// from path and root ordinal so it stays stable across re-merges.
type Fragment struct {
	ID   string
	Path string
	Root *Element
}

func FragmentID(path string, ordinal int) string {
	return fmt.Sprintf("%s#%d", path, ordinal)
}

// Attr is one markup attribute. Order is preserved, names are unique.
type Attr struct {
	Name  string
	Value string
}

// Element is a markup node. Identity (ID) is stable within its
// fragment but never assumed unique across fragments except via the
// id attribute.
type Element struct {
	ID       string
	Tag      string
	Attrs    []Attr
	Parent   *Element
	Children []*Element
	Text     string
	Location Location
	Semantic Semantics
}

// Attr returns the value of the named attribute.
func (e *Element) Attr(name string) (string, bool) {
	for _, a := range e.Attrs {
		if a.Name == name {
			return a.Value, true
		}
	}
	return "", false
}

func (e *Element) HasAttr(name string) bool {
	_, ok := e.Attr(name)
	return ok
}

// DOMID returns the value of the id attribute, if any.
func (e *Element) DOMID() string {
	v, _ := e.Attr("id")
	return v
}

// Role returns the explicit role attribute, falling back to the
// implicit role derived from tag and attributes.
func (e *Element) Role() string {
	if v, ok := e.Attr("role"); ok && v != "" {
		return v
	}
	return e.Semantic.ImplicitRole
}

// Walk visits e and all descendants in document order.
func (e *Element) Walk(fn func(*Element)) {
	if e == nil {
		return
	}
	fn(e)
	for _, c := range e.Children {
		c.Walk(fn)
	}
}

// ActionKind tags the behavior-IR union.
type ActionKind int

const (
	ActionEventHandler ActionKind = iota
	ActionFocusChange
	ActionAriaStateChange
	ActionDomManipulation
	ActionTabIndexChange
)

func (k ActionKind) String() string {
	switch k {
	case ActionEventHandler:
		return "event-handler"
	case ActionFocusChange:
		return "focus-change"
	case ActionAriaStateChange:
		return "aria-state-change"
	case ActionDomManipulation:
		return "dom-manipulation"
	case ActionTabIndexChange:
		return "tabindex-change"
	}
	return "unknown"
}

// FocusTiming describes when a focus change fires.
type FocusTiming int

const (
	FocusImmediate FocusTiming = iota
	FocusDelayed
	FocusOnEvent
)

// DomOp is the operation of a DomManipulation node.
type DomOp int

const (
	DomAdd DomOp = iota
	DomRemove
	DomSetAttribute
)

// ActionNode is one node of the behavior IR. Target is always a
// selector string, never a live element reference; resolution happens
// in the merger so behavior can be parsed before any markup exists.
// Children mirror the source control structure (function, conditional,
// loop nesting).
type ActionNode struct {
	Kind     ActionKind
	Target   string
	Location Location
	Children []*ActionNode

	// ActionEventHandler
	Event   string
	Summary string
	Async   bool

	// ActionFocusChange
	Timing          FocusTiming
	RestorePrevious bool

	// ActionAriaStateChange
	Attr        string
	OldValue    string
	NewValue    string
	UpdateCount int

	// ActionDomManipulation
	Op           DomOp
	AffectsFocus bool

	// ActionTabIndexChange
	TabIndex int
}

// Walk visits n and all nested actions.
func (n *ActionNode) Walk(fn func(*ActionNode)) {
	if n == nil {
		return
	}
	fn(n)
	for _, c := range n.Children {
		c.Walk(fn)
	}
}

// Property is one declared style property. Order is preserved.
type Property struct {
	Name  string
	Value string
}

// Specificity is the [idCount, classAttrPseudoCount, typeCount] tuple.
type Specificity [3]int

// Compare returns -1, 0 or 1 ordering a against b.
func (s Specificity) Compare(other Specificity) int {
	for i := 0; i < 3; i++ {
		if s[i] != other[i] {
			if s[i] < other[i] {
				return -1
			}
			return 1
		}
	}
	return 0
}

func (s Specificity) String() string {
	return fmt.Sprintf("(%d,%d,%d)", s[0], s[1], s[2])
}

// StyleRule is one declared stylesheet rule. SourceOrder is assigned
// globally across all style sources in load order; it is the tie-break
// for equal specificity (higher wins).
type StyleRule struct {
	Selector    string
	Properties  []Property
	Specificity Specificity
	SourceOrder int
	Location    Location
}

// Property returns the last declared value for name.
func (r *StyleRule) Property(name string) (string, bool) {
	for i := len(r.Properties) - 1; i >= 0; i-- {
		if r.Properties[i].Name == name {
			return r.Properties[i].Value, true
		}
	}
	return "", false
}
