package tui

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Deutsche-Digitale-Bibliothek/ddblabs-statistics/internal/github"
)

func options() []github.DayRevision {
	return []github.DayRevision{
		{Day: "2024-03-05", SHA: "c2aa00ff11223344"},
		{Day: "2024-03-01", SHA: "c1"},
	}
}

func TestModelListsLiveEntryFirst(t *testing.T) {
	m := NewModel(options())
	items := m.list.Items()
	require.Len(t, items, 3)

	first, ok := items[0].(dayItem)
	require.True(t, ok)
	assert.Equal(t, "", first.day)

	second, ok := items[1].(dayItem)
	require.True(t, ok)
	assert.Equal(t, "2024-03-05", second.day)
	assert.Equal(t, "c2aa00ff11", second.Description())
}

func sized(t *testing.T, m Model) Model {
	t.Helper()
	next, _ := m.Update(tea.WindowSizeMsg{Width: 80, Height: 24})
	sizedModel, ok := next.(Model)
	require.True(t, ok)
	return sizedModel
}

func TestSelectLive(t *testing.T) {
	m := sized(t, NewModel(options()))

	next, _ := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	final, ok := next.(Model)
	require.True(t, ok)

	revision, live, accepted := final.Choice()
	assert.Nil(t, revision)
	assert.True(t, live)
	assert.True(t, accepted)
}

func TestSelectDay(t *testing.T) {
	m := sized(t, NewModel(options()))

	next, _ := m.Update(tea.KeyMsg{Type: tea.KeyDown})
	next, _ = next.(Model).Update(tea.KeyMsg{Type: tea.KeyEnter})
	final := next.(Model)

	revision, live, accepted := final.Choice()
	require.NotNil(t, revision)
	assert.Equal(t, "2024-03-05", revision.Day)
	assert.False(t, live)
	assert.True(t, accepted)
}

func TestQuitWithoutChoice(t *testing.T) {
	m := NewModel(options())

	next, _ := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'q'}})
	final := next.(Model)

	_, _, accepted := final.Choice()
	assert.False(t, accepted)
}
