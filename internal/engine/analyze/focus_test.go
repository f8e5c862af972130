package analyze

import (
	"testing"

	"a11ylint/internal/model"
)

func dialogModels(b *treeBuilder, withRestore bool) []*model.SourceModel {
	dialog := b.el("div", model.Attr{Name: "id", Value: "dialog"})
	markup := markupModel(b.path, attach(b.el("main"), dialog))

	close := &model.ActionNode{
		Kind:     model.ActionEventHandler,
		Target:   "#dialog",
		Event:    "click",
		Summary:  "closeDialog()",
		Location: model.Location{File: "dialog.js", Line: 1, Column: 1},
		Children: []*model.ActionNode{{
			Kind:         model.ActionDomManipulation,
			Op:           model.DomRemove,
			Target:       "#dialog",
			AffectsFocus: true,
			Location:     model.Location{File: "dialog.js", Line: 2, Column: 3},
		}},
	}
	if withRestore {
		close.Children = append(close.Children, &model.ActionNode{
			Kind:            model.ActionFocusChange,
			Target:          "#open-button",
			Timing:          model.FocusImmediate,
			RestorePrevious: true,
			Location:        model.Location{File: "dialog.js", Line: 3, Column: 3},
		})
	}
	keyboard := &model.ActionNode{
		Kind:     model.ActionEventHandler,
		Target:   "#dialog",
		Event:    "keydown",
		Summary:  "if (e.key === 'Escape') closeDialog()",
		Location: model.Location{File: "dialog.js", Line: 5, Column: 1},
	}
	behavior := &model.SourceModel{
		Path:    "dialog.js",
		Dialect: model.DialectJavaScript,
		Actions: []*model.ActionNode{close, keyboard},
	}
	return []*model.SourceModel{markup, behavior}
}

func TestRemovalWithoutRestoreFlagged(t *testing.T) {
	b := &treeBuilder{path: "dialog.html"}
	findings := (&FocusManagement{}).Analyze(buildView(dialogModels(b, false)...))
	if len(findings) != 1 || findings[0].Type != "focus-not-restored" {
		t.Fatalf("findings = %v", findings)
	}
}

func TestRemovalWithRestorePasses(t *testing.T) {
	b := &treeBuilder{path: "dialog.html"}
	if findings := (&FocusManagement{}).Analyze(buildView(dialogModels(b, true)...)); len(findings) != 0 {
		t.Fatalf("restored handler flagged: %v", findings)
	}
}

func TestPositiveTabindexFlagged(t *testing.T) {
	b := &treeBuilder{path: "page.html"}
	input := b.el("input", model.Attr{Name: "type", Value: "text"}, model.Attr{Name: "tabindex", Value: "5"}, model.Attr{Name: "aria-label", Value: "Search"})
	view := buildView(markupModel("page.html", attach(b.el("form"), input)))

	findings := (&TabOrder{}).Analyze(view)
	if len(findings) != 1 || findings[0].Type != "positive-tabindex" {
		t.Fatalf("findings = %v", findings)
	}
}

func TestZeroTabindexPasses(t *testing.T) {
	b := &treeBuilder{path: "page.html"}
	div := b.el("div", model.Attr{Name: "tabindex", Value: "0"})
	view := buildView(markupModel("page.html", attach(b.el("main"), div)))

	if findings := (&TabOrder{}).Analyze(view); len(findings) != 0 {
		t.Fatalf("tabindex=0 flagged: %v", findings)
	}
}
