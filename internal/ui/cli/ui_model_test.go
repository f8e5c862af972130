package cli

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"a11ylint/internal/model"
)

func TestUIModelUpdatePopulatesList(t *testing.T) {
	m := initialModel()

	updated, _ := m.Update(updateMsg{
		findings: []model.Finding{
			{
				Type:     "missing-accessible-name",
				Severity: model.SeverityError,
				Message:  "button has no accessible name",
				Locations: []model.Location{
					{File: "page.html", Line: 4, Column: 3},
				},
			},
		},
		confidence:    model.Confidence{Score: 0.9, Band: model.BandHigh},
		fragmentCount: 2,
		elementCount:  10,
	})

	um, ok := updated.(uiModel)
	if !ok {
		t.Fatalf("unexpected model type %T", updated)
	}
	if len(um.list.Items()) != 1 {
		t.Fatalf("list items = %d", len(um.list.Items()))
	}

	view := um.View()
	if !strings.Contains(view, "Confidence 0.90 (HIGH)") {
		t.Errorf("view missing confidence banner:\n%s", view)
	}
	if !strings.Contains(view, "1 Errors") {
		t.Errorf("view missing error count:\n%s", view)
	}
}

func TestUIModelQuit(t *testing.T) {
	m := initialModel()
	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyCtrlC})
	if cmd == nil {
		t.Fatal("expected quit command")
	}
}
