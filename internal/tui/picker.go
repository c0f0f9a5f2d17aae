// Package tui provides the interactive day picker.
package tui

import (
	"fmt"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/Deutsche-Digitale-Bibliothek/ddblabs-statistics/internal/github"
)

var (
	titleStyle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("63"))
	liveItemStyle = lipgloss.NewStyle().Italic(true)
)

// dayItem adapts a DayRevision to the bubbles list. The zero item stands
// for the live branch.
type dayItem struct {
	day string
	sha string
}

func (i dayItem) Title() string {
	if i.day == "" {
		return liveItemStyle.Render("aktueller Stand")
	}
	return i.day
}

func (i dayItem) Description() string {
	if i.sha == "" {
		return "live branch"
	}
	short := i.sha
	if len(short) > 10 {
		short = short[:10]
	}
	return short
}

func (i dayItem) FilterValue() string { return i.day }

// Model is the day-picker TUI. It resolves after one selection or quits
// without a choice.
type Model struct {
	list     list.Model
	choice   *github.DayRevision
	live     bool
	accepted bool
}

// NewModel builds the picker from the fetched day options, newest first,
// with a leading "live branch" entry.
func NewModel(options []github.DayRevision) Model {
	items := make([]list.Item, 0, len(options)+1)
	items = append(items, dayItem{})
	for _, opt := range options {
		items = append(items, dayItem{day: opt.Day, sha: opt.SHA})
	}

	l := list.New(items, list.NewDefaultDelegate(), 0, 0)
	l.Title = "Stand auswählen"
	l.Styles.Title = titleStyle
	l.SetShowStatusBar(false)
	l.SetFilteringEnabled(true)

	return Model{list: l}
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.list.SetSize(msg.Width, msg.Height-2)
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "q", "esc":
			return m, tea.Quit
		case "enter":
			if item, ok := m.list.SelectedItem().(dayItem); ok {
				m.accepted = true
				if item.day == "" {
					m.live = true
				} else {
					m.choice = &github.DayRevision{Day: item.day, SHA: item.sha}
				}
			}
			return m, tea.Quit
		}
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

// View implements tea.Model.
func (m Model) View() string {
	return m.list.View()
}

// Choice returns the selected day revision (nil when the live branch was
// chosen) and whether any selection was accepted at all.
func (m Model) Choice() (*github.DayRevision, bool, bool) {
	return m.choice, m.live, m.accepted
}

// Pick runs the picker and returns the selection. A nil revision with
// live=true means "back to the live branch"; accepted=false means the user
// quit without choosing.
func Pick(options []github.DayRevision) (revision *github.DayRevision, live bool, accepted bool, err error) {
	final, err := tea.NewProgram(NewModel(options), tea.WithAltScreen()).Run()
	if err != nil {
		return nil, false, false, fmt.Errorf("run picker: %w", err)
	}
	m, ok := final.(Model)
	if !ok {
		return nil, false, false, fmt.Errorf("unexpected picker model %T", final)
	}
	revision, live, accepted = m.Choice()
	return revision, live, accepted, nil
}
