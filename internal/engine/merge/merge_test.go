package merge

import (
	"fmt"
	"reflect"
	"testing"

	"a11ylint/internal/model"
)

type treeBuilder struct {
	path string
	n    int
}

func (b *treeBuilder) el(tag string, attrs ...model.Attr) *model.Element {
	b.n++
	return &model.Element{
		ID:       fmt.Sprintf("%s/%d", b.path, b.n),
		Tag:      tag,
		Attrs:    attrs,
		Semantic: model.DeriveSemantics(tag, attrs),
	}
}

func attach(parent *model.Element, children ...*model.Element) *model.Element {
	for _, c := range children {
		c.Parent = parent
		parent.Children = append(parent.Children, c)
	}
	return parent
}

func markupModel(path string, roots ...*model.Element) *model.SourceModel {
	m := &model.SourceModel{Path: path, Dialect: model.DialectHTML}
	for i, r := range roots {
		m.Fragments = append(m.Fragments, &model.Fragment{
			ID:   model.FragmentID(path, i),
			Path: path,
			Root: r,
		})
	}
	return m
}

func clickHandler(target string) *model.ActionNode {
	return &model.ActionNode{
		Kind:     model.ActionEventHandler,
		Target:   target,
		Event:    "click",
		Summary:  "doThing()",
		Location: model.Location{File: "app.js", Line: 3, Column: 1},
	}
}

func styleRule(sel string, props ...model.Property) *model.StyleRule {
	return &model.StyleRule{
		Selector:   sel,
		Properties: props,
		Location:   model.Location{File: "app.css", Line: 1, Column: 1},
	}
}

func TestMergeAttachesHandlerByID(t *testing.T) {
	b := &treeBuilder{path: "page.html"}
	btn := b.el("div", model.Attr{Name: "id", Value: "save"})
	markup := markupModel("page.html", attach(b.el("main"), btn))
	behavior := &model.SourceModel{
		Path:    "app.js",
		Dialect: model.DialectJavaScript,
		Actions: []*model.ActionNode{clickHandler("#save")},
	}

	doc := Merge([]*model.SourceModel{markup, behavior})

	ctx := doc.Context(btn)
	if ctx == nil || !ctx.HasClickHandler {
		t.Fatal("expected click handler attached to #save")
	}
	if doc.Stats.Resolved != 1 || doc.Stats.Unresolved != 0 {
		t.Fatalf("stats = %+v", doc.Stats)
	}
	if len(doc.Structural) != 0 {
		t.Fatalf("unexpected structural findings: %v", doc.Structural)
	}
}

func TestMergeOrphanedHandler(t *testing.T) {
	b := &treeBuilder{path: "page.html"}
	markup := markupModel("page.html", b.el("main"))
	behavior := &model.SourceModel{
		Path:    "app.js",
		Dialect: model.DialectJavaScript,
		Actions: []*model.ActionNode{clickHandler("#missing")},
	}

	doc := Merge([]*model.SourceModel{markup, behavior})

	if doc.Stats.Unresolved != 1 {
		t.Fatalf("stats = %+v", doc.Stats)
	}
	if len(doc.Structural) != 1 || doc.Structural[0].Type != "orphaned-handler" {
		t.Fatalf("structural = %v", doc.Structural)
	}
}

func TestMergeMalformedSelectorDegrades(t *testing.T) {
	b := &treeBuilder{path: "page.html"}
	markup := markupModel("page.html", b.el("main"))
	behavior := &model.SourceModel{
		Path:    "app.js",
		Dialect: model.DialectJavaScript,
		Actions: []*model.ActionNode{clickHandler("div[")},
	}

	doc := Merge([]*model.SourceModel{markup, behavior})

	if len(doc.Structural) != 1 || doc.Structural[0].Type != "malformed-selector" {
		t.Fatalf("structural = %v", doc.Structural)
	}
	if doc.Stats.Unresolved != 1 {
		t.Fatalf("stats = %+v", doc.Stats)
	}
}

// Style-rule selectors stay out of the resolution stats: an unmatched
// or malformed rule selector must not drag the completeness rate down,
// and a matched one must not inflate it.
func TestRuleSelectorsExcludedFromStats(t *testing.T) {
	b := &treeBuilder{path: "page.html"}
	btn := b.el("button", model.Attr{Name: "class", Value: "btn"})
	markup := markupModel("page.html", attach(b.el("main"), btn))
	styles := &model.SourceModel{
		Path:    "app.css",
		Dialect: model.DialectCSS,
		Rules: []*model.StyleRule{
			styleRule(".btn", model.Property{Name: "color", Value: "green"}),
			styleRule(".future-state", model.Property{Name: "color", Value: "red"}),
			styleRule("div[", model.Property{Name: "color", Value: "blue"}),
		},
	}

	doc := Merge([]*model.SourceModel{markup, styles})

	if doc.Stats.Resolved != 0 || doc.Stats.Unresolved != 0 {
		t.Fatalf("stats = %+v", doc.Stats)
	}
	if len(doc.Structural) != 1 || doc.Structural[0].Type != "malformed-selector" {
		t.Fatalf("structural = %v", doc.Structural)
	}
	if len(doc.Context(btn).Rules) != 1 {
		t.Fatalf("rules = %v", doc.Context(btn).Rules)
	}
}

func TestMergeBroadcastsMultiMatch(t *testing.T) {
	b := &treeBuilder{path: "page.html"}
	first := b.el("div", model.Attr{Name: "class", Value: "card"})
	second := b.el("div", model.Attr{Name: "class", Value: "card"})
	markup := markupModel("page.html", attach(b.el("main"), first, second))
	behavior := &model.SourceModel{
		Path:    "app.js",
		Dialect: model.DialectJavaScript,
		Actions: []*model.ActionNode{clickHandler(".card")},
	}

	doc := Merge([]*model.SourceModel{markup, behavior})

	if !doc.Context(first).HasClickHandler || !doc.Context(second).HasClickHandler {
		t.Fatal("broadcast attach expected on both matches")
	}
	if doc.Stats.Broadcast != 1 || doc.Stats.Resolved != 1 {
		t.Fatalf("stats = %+v", doc.Stats)
	}
}

func TestRuleCascadeOrder(t *testing.T) {
	b := &treeBuilder{path: "page.html"}
	btn := b.el("button", model.Attr{Name: "id", Value: "go"}, model.Attr{Name: "class", Value: "btn"})
	markup := markupModel("page.html", attach(b.el("main"), btn))
	styles := &model.SourceModel{
		Path:    "app.css",
		Dialect: model.DialectCSS,
		Rules: []*model.StyleRule{
			styleRule("button", model.Property{Name: "color", Value: "red"}),
			styleRule("#go", model.Property{Name: "color", Value: "blue"}),
			styleRule(".btn", model.Property{Name: "color", Value: "green"}),
			styleRule(".btn", model.Property{Name: "color", Value: "black"}),
		},
	}

	doc := Merge([]*model.SourceModel{markup, styles})
	rules := doc.Context(btn).Rules

	want := []string{"#go", ".btn", ".btn", "button"}
	for i, r := range rules {
		if r.Selector != want[i] {
			t.Fatalf("rule %d = %q, want %q (got order %v)", i, r.Selector, want[i], rules)
		}
	}
	// Equal specificity: later source order precedes.
	if rules[1].SourceOrder != 3 || rules[2].SourceOrder != 2 {
		t.Fatalf("tie-break order wrong: %d then %d", rules[1].SourceOrder, rules[2].SourceOrder)
	}
}

func TestHiddenByStyle(t *testing.T) {
	b := &treeBuilder{path: "page.html"}
	hidden := b.el("div", model.Attr{Name: "class", Value: "menu"})
	markup := markupModel("page.html", attach(b.el("main"), hidden))
	styles := &model.SourceModel{
		Path:    "app.css",
		Dialect: model.DialectCSS,
		Rules: []*model.StyleRule{
			styleRule(".menu", model.Property{Name: "display", Value: "none"}),
			// Lower specificity, must not override.
			styleRule("div", model.Property{Name: "display", Value: "block"}),
		},
	}

	doc := Merge([]*model.SourceModel{markup, styles})
	if !doc.Context(hidden).HiddenByStyle {
		t.Fatal("expected hidden-by-style from winning display:none")
	}
}

// Re-merging an unchanged model set must produce identical contexts,
// never accumulate duplicate attachments.
func TestMergeIdempotent(t *testing.T) {
	b := &treeBuilder{path: "page.html"}
	btn := b.el("button", model.Attr{Name: "id", Value: "go"}, model.Attr{Name: "class", Value: "btn"})
	markup := markupModel("page.html", attach(b.el("main"), btn))
	behavior := &model.SourceModel{
		Path:    "app.js",
		Dialect: model.DialectJavaScript,
		Actions: []*model.ActionNode{clickHandler("#go")},
	}
	styles := &model.SourceModel{
		Path:    "app.css",
		Dialect: model.DialectCSS,
		Rules: []*model.StyleRule{
			styleRule(".btn", model.Property{Name: "color", Value: "green"}),
		},
	}
	models := []*model.SourceModel{markup, behavior, styles}

	first := Merge(models)
	second := Merge(models)

	for _, e := range first.Elements() {
		a, b := first.Context(e), second.Context(e)
		if !reflect.DeepEqual(a.Handlers, b.Handlers) ||
			!reflect.DeepEqual(a.Rules, b.Rules) ||
			a.HasClickHandler != b.HasClickHandler ||
			a.Focusable != b.Focusable {
			t.Fatalf("contexts differ for %s", e.ID)
		}
		if len(a.Handlers["click"]) > 1 {
			t.Fatal("duplicate handler attachment")
		}
	}
	if !reflect.DeepEqual(first.Stats, second.Stats) {
		t.Fatalf("stats differ: %+v vs %+v", first.Stats, second.Stats)
	}
}
