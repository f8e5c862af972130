package relation

import (
	"fmt"
	"strings"
	"testing"

	"a11ylint/internal/engine/merge"
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

// A label defined in one fragment and referenced from another must
// resolve across the fragment boundary.
func TestCrossFragmentLabelledBy(t *testing.T) {
	b1 := &treeBuilder{path: "label.html"}
	span := b1.el("span", model.Attr{Name: "id", Value: "lbl"})
	span.Text = "Submit"
	frag1 := markupModel("label.html", attach(b1.el("div"), span))

	b2 := &treeBuilder{path: "form.html"}
	button := b2.el("button", model.Attr{Name: "aria-labelledby", Value: "lbl"})
	frag2 := markupModel("form.html", attach(b2.el("form"), button))

	doc := merge.Merge([]*model.SourceModel{frag1, frag2})
	g := Resolve(doc)

	if len(g.Dangling) != 0 {
		t.Fatalf("dangling = %v", g.Dangling)
	}
	if len(g.Edges) != 1 {
		t.Fatalf("edges = %v", g.Edges)
	}
	e := g.Edges[0]
	if e.Source != button || e.Relation != "aria-labelledby" || e.Target != span {
		t.Fatalf("edge = %+v", e)
	}

	if got := g.Related(button, "aria-labelledby"); len(got) != 1 || got[0].Text != "Submit" {
		t.Fatalf("Related = %v", got)
	}
	if got := g.Incoming(span); len(got) != 1 {
		t.Fatalf("Incoming = %v", got)
	}
}

// Removing the target element must introduce exactly one structural
// finding naming the missing id.
func TestDanglingReference(t *testing.T) {
	b := &treeBuilder{path: "form.html"}
	button := b.el("button", model.Attr{Name: "aria-labelledby", Value: "lbl"})
	doc := merge.Merge([]*model.SourceModel{markupModel("form.html", attach(b.el("form"), button))})
	g := Resolve(doc)

	if len(g.Edges) != 0 || len(g.Dangling) != 1 {
		t.Fatalf("edges=%d dangling=%d", len(g.Edges), len(g.Dangling))
	}
	findings := g.Findings()
	if len(findings) != 1 {
		t.Fatalf("findings = %v", findings)
	}
	f := findings[0]
	if f.Type != "dangling-aria-reference" {
		t.Fatalf("type = %s", f.Type)
	}
	if !strings.Contains(f.Message, `"lbl"`) || !strings.Contains(f.Message, "aria-labelledby") {
		t.Fatalf("message = %q", f.Message)
	}
}

func TestWhitespaceSeparatedIDList(t *testing.T) {
	b := &treeBuilder{path: "page.html"}
	d1 := b.el("p", model.Attr{Name: "id", Value: "hint1"})
	d2 := b.el("p", model.Attr{Name: "id", Value: "hint2"})
	input := b.el("input", model.Attr{Name: "aria-describedby", Value: "hint1  hint2 hint3"})
	doc := merge.Merge([]*model.SourceModel{markupModel("page.html", attach(b.el("form"), d1, d2, input))})
	g := Resolve(doc)

	if len(g.Edges) != 2 {
		t.Fatalf("edges = %v", g.Edges)
	}
	if len(g.Dangling) != 1 || g.Dangling[0].MissingID != "hint3" {
		t.Fatalf("dangling = %v", g.Dangling)
	}
}

func TestForAssociation(t *testing.T) {
	b := &treeBuilder{path: "page.html"}
	input := b.el("input", model.Attr{Name: "id", Value: "email"})
	label := b.el("label", model.Attr{Name: "for", Value: "email"})
	doc := merge.Merge([]*model.SourceModel{markupModel("page.html", attach(b.el("form"), label, input))})
	g := Resolve(doc)

	if len(g.Edges) != 1 || g.Edges[0].Relation != "for" || g.Edges[0].Target != input {
		t.Fatalf("edges = %v", g.Edges)
	}
}
