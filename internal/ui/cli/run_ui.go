package cli

import (
	tea "github.com/charmbracelet/bubbletea"

	coreapp "a11ylint/internal/core/app"
	"a11ylint/internal/core/ports"
)

func runUI(app *coreapp.App) error {
	m := initialModel()
	p := tea.NewProgram(m, tea.WithAltScreen())

	sendUpdate := func(result ports.SessionResult) {
		p.Send(updateMsg{
			findings:      result.Findings,
			confidence:    result.Confidence,
			fragmentCount: result.FragmentCount,
			elementCount:  result.ElementCount,
		})
	}

	app.SetUpdateHandler(sendUpdate)

	// Seed the UI with the session that ran before the watcher started.
	go func() {
		sendUpdate(app.LastResult())
	}()

	_, err := p.Run()
	return err
}
