package analyze

import (
	"testing"

	"a11ylint/internal/model"
)

func TestButtonWithoutNameFlagged(t *testing.T) {
	b := &treeBuilder{path: "form.html"}
	btn := b.el("button", model.Attr{Name: "id", Value: "go"})
	view := buildView(markupModel("form.html", attach(b.el("form"), btn)))

	findings := (&AccessibleNames{}).Analyze(view)
	if len(findings) != 1 || findings[0].Type != "missing-accessible-name" {
		t.Fatalf("findings = %v", findings)
	}
}

func TestButtonWithTextPasses(t *testing.T) {
	b := &treeBuilder{path: "form.html"}
	btn := b.el("button")
	btn.Text = "Save"
	view := buildView(markupModel("form.html", attach(b.el("form"), btn)))

	if findings := (&AccessibleNames{}).Analyze(view); len(findings) != 0 {
		t.Fatalf("named button flagged: %v", findings)
	}
}

func TestAriaLabelPasses(t *testing.T) {
	b := &treeBuilder{path: "form.html"}
	btn := b.el("button", model.Attr{Name: "aria-label", Value: "Close"})
	view := buildView(markupModel("form.html", attach(b.el("form"), btn)))

	if findings := (&AccessibleNames{}).Analyze(view); len(findings) != 0 {
		t.Fatalf("aria-label button flagged: %v", findings)
	}
}

// A button labelled from a different fragment via aria-labelledby must
// pass once the relationship graph resolves the reference.
func TestCrossFragmentLabelledByName(t *testing.T) {
	b1 := &treeBuilder{path: "label.html"}
	span := b1.el("span", model.Attr{Name: "id", Value: "lbl"})
	span.Text = "Submit"
	markup1 := markupModel("label.html", attach(b1.el("div"), span))

	b2 := &treeBuilder{path: "form.html"}
	btn := b2.el("button", model.Attr{Name: "aria-labelledby", Value: "lbl"})
	markup2 := markupModel("form.html", attach(b2.el("form"), btn))

	if findings := (&AccessibleNames{}).Analyze(buildView(markup1, markup2)); len(findings) != 0 {
		t.Fatalf("cross-fragment labelled button flagged: %v", findings)
	}
}

func TestLabelForPasses(t *testing.T) {
	b := &treeBuilder{path: "form.html"}
	label := b.el("label", model.Attr{Name: "for", Value: "email"})
	label.Text = "Email"
	input := b.el("input", model.Attr{Name: "id", Value: "email"}, model.Attr{Name: "type", Value: "text"})
	view := buildView(markupModel("form.html", attach(b.el("form"), label, input)))

	if findings := (&AccessibleNames{}).Analyze(view); len(findings) != 0 {
		t.Fatalf("label-for input flagged: %v", findings)
	}
}

func TestHiddenByStyleSkipped(t *testing.T) {
	b := &treeBuilder{path: "form.html"}
	btn := b.el("button", model.Attr{Name: "class", Value: "ghost"})
	markup := markupModel("form.html", attach(b.el("form"), btn))
	styles := &model.SourceModel{
		Path:    "form.css",
		Dialect: model.DialectCSS,
		Rules: []*model.StyleRule{{
			Selector:   ".ghost",
			Properties: []model.Property{{Name: "display", Value: "none"}},
		}},
	}

	if findings := (&AccessibleNames{}).Analyze(buildView(markup, styles)); len(findings) != 0 {
		t.Fatalf("style-hidden button flagged: %v", findings)
	}
}
