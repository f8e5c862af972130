package cli

import (
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"a11ylint/internal/model"
)

var (
	titleStyle = lipgloss.NewStyle().
			MarginLeft(2).
			Foreground(lipgloss.Color("#3B82F6")).
			Bold(true).
			Render

	docStyle = lipgloss.NewStyle().Margin(1, 2)

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#F87171")).
			Bold(true)

	warningStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FBBF24")).
			Bold(true)

	successStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#10B981")).
			Bold(true)

	statusStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#64748B")).
			Italic(true)
)

type item struct {
	title, desc string
	severity    model.Severity
}

func (i item) Title() string       { return i.title }
func (i item) Description() string { return i.desc }
func (i item) FilterValue() string { return i.title + i.desc }

type uiModel struct {
	list          list.Model
	findings      []model.Finding
	confidence    model.Confidence
	lastUpdate    time.Time
	fragmentCount int
	elementCount  int
}

type updateMsg struct {
	findings      []model.Finding
	confidence    model.Confidence
	fragmentCount int
	elementCount  int
}

func (m uiModel) Init() tea.Cmd {
	return nil
}

func (m uiModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if msg.String() == "ctrl+c" || msg.String() == "q" {
			return m, tea.Quit
		}
	case tea.WindowSizeMsg:
		h, v := docStyle.GetFrameSize()
		m.list.SetSize(msg.Width-h, msg.Height-v-4)
	case updateMsg:
		m.findings = msg.findings
		m.confidence = msg.confidence
		m.fragmentCount = msg.fragmentCount
		m.elementCount = msg.elementCount
		m.lastUpdate = time.Now()

		items := []list.Item{}
		for _, f := range m.findings {
			loc := f.PrimaryLocation()
			items = append(items, item{
				title:    fmt.Sprintf("[%s] %s", f.Severity, f.Type),
				desc:     fmt.Sprintf("%s (%s:%d)", f.Message, loc.File, loc.Line),
				severity: f.Severity,
			})
		}
		m.list.SetItems(items)
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

func (m uiModel) View() string {
	status := statusStyle.Render(fmt.Sprintf("Last update: %v | %d fragments | %d elements",
		m.lastUpdate.Format("15:04:05"), m.fragmentCount, m.elementCount))

	confidence := statusStyle.Render(fmt.Sprintf("Confidence %.2f (%s)", m.confidence.Score, m.confidence.Band))

	errs, warns, _ := countBySeverity(m.findings)
	var summary string
	if len(m.findings) == 0 {
		summary = successStyle.Render("✅ No Issues")
	} else {
		summary = fmt.Sprintf("⚠️  %s | %s",
			errorStyle.Render(fmt.Sprintf("%d Errors", errs)),
			warningStyle.Render(fmt.Sprintf("%d Warnings", warns)))
	}

	header := fmt.Sprintf("%s\n%s | %s | %s\n", titleStyle("Accessibility Monitor"), status, confidence, summary)
	return docStyle.Render(header + "\n" + m.list.View())
}

func initialModel() uiModel {
	l := list.New([]list.Item{}, list.NewDefaultDelegate(), 0, 0)
	l.Title = "Detected Issues"
	l.SetShowStatusBar(false)
	l.SetFilteringEnabled(true)

	return uiModel{
		list:       l,
		lastUpdate: time.Now(),
	}
}
