// # cmd/terradep/ui.go
package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"terradep/internal/app"
	"terradep/internal/report"
)

var (
	titleStyle = lipgloss.NewStyle().
			MarginLeft(2).
			Foreground(lipgloss.Color("#3B82F6")).
			Bold(true).
			Render

	docStyle = lipgloss.NewStyle().Margin(1, 2)

	cycleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#F87171")).
			Bold(true)

	impactStyle = lipgloss.NewStyle().
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
}

func (i item) Title() string       { return i.title }
func (i item) Description() string { return i.desc }
func (i item) FilterValue() string { return i.title + i.desc }

type model struct {
	list       list.Model
	rep        *report.Report
	fileCount  int
	lastUpdate time.Time
}

type updateMsg struct {
	rep       *report.Report
	fileCount int
}

func (m model) Init() tea.Cmd {
	return nil
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if msg.String() == "ctrl+c" || msg.String() == "q" {
			return m, tea.Quit
		}
	case tea.WindowSizeMsg:
		h, v := docStyle.GetFrameSize()
		m.list.SetSize(msg.Width-h, msg.Height-v-4)
	case updateMsg:
		m.rep = msg.rep
		m.fileCount = msg.fileCount
		m.lastUpdate = time.Now()
		m.list.SetItems(reportItems(msg.rep))
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

func reportItems(rep *report.Report) []list.Item {
	items := []list.Item{}
	for _, c := range rep.CircularDependencies {
		items = append(items, item{
			title: "Circular Dependency",
			desc:  strings.Join(c, " -> "),
		})
	}
	for _, him := range rep.ImpactAnalysis.HighImpactModules {
		items = append(items, item{
			title: "High-Impact Module",
			desc:  fmt.Sprintf("%s affects %d modules", him.Module, him.ImpactCount),
		})
	}
	for _, w := range rep.Warnings {
		items = append(items, item{
			title: "Warning",
			desc:  w,
		})
	}
	return items
}

func (m model) View() string {
	var modules, deps, cycles, highImpact int
	if m.rep != nil {
		modules = m.rep.TotalModules
		deps = m.rep.TotalDependencies
		cycles = len(m.rep.CircularDependencies)
		highImpact = len(m.rep.ImpactAnalysis.HighImpactModules)
	}

	status := statusStyle.Render(fmt.Sprintf("Last update: %v | %d files | %d modules | %d dependencies",
		m.lastUpdate.Format("15:04:05"), m.fileCount, modules, deps))

	var summary string
	if cycles == 0 && highImpact == 0 {
		summary = successStyle.Render("✅ Graph Clean")
	} else {
		summary = fmt.Sprintf("⚠️  %s | %s",
			cycleStyle.Render(fmt.Sprintf("%d Cycles", cycles)),
			impactStyle.Render(fmt.Sprintf("%d High-Impact", highImpact)))
	}

	header := fmt.Sprintf("%s\n%s | %s\n", titleStyle("Module Dependency Monitor"), status, summary)
	return docStyle.Render(header + "\n" + m.list.View())
}

func initialModel() model {
	l := list.New([]list.Item{}, list.NewDefaultDelegate(), 0, 0)
	l.Title = "Findings"
	l.SetShowStatusBar(false)
	l.SetFilteringEnabled(true)

	return model{
		list:       l,
		lastUpdate: time.Now(),
	}
}

func runUI(a *app.App) error {
	m := initialModel()
	p := tea.NewProgram(m, tea.WithAltScreen())

	a.SetUpdateHandler(func(u app.Update) {
		p.Send(updateMsg{rep: u.Report, fileCount: u.FileCount})
	})

	// Seed the view with the run that already completed.
	if rep := a.LastReport(); rep != nil {
		go p.Send(updateMsg{rep: rep})
	}

	_, err := p.Run()
	return err
}
