package pager

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dkoosis/lta/pkg/pattern"
	"github.com/dkoosis/lta/pkg/render"
)

func sized(t *testing.T, m Model) Model {
	t.Helper()
	next, _ := m.Update(tea.WindowSizeMsg{Width: 100, Height: 30})
	return next.(Model)
}

func TestModel_Navigation(t *testing.T) {
	t.Parallel()

	m := sized(t, New("lta", []Section{
		{Title: "Summary", Body: "5 tests"},
		{Title: "BUGCR1", Body: "media/a.html"},
	}))
	assert.Contains(t, m.View(), "5 tests")

	next, _ := m.Update(tea.KeyMsg{Type: tea.KeyDown})
	m = next.(Model)
	assert.Equal(t, 1, m.Selected())
	assert.Contains(t, m.View(), "media/a.html")

	next, _ = m.Update(tea.KeyMsg{Type: tea.KeyDown})
	m = next.(Model)
	assert.Equal(t, 1, m.Selected(), "selection stops at the last section")

	next, _ = m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'k'}})
	m = next.(Model)
	assert.Equal(t, 0, m.Selected())
}

func TestModel_Quit(t *testing.T) {
	t.Parallel()

	m := sized(t, New("lta", nil))
	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'q'}})
	require.NotNil(t, cmd)
	assert.Equal(t, tea.Quit(), cmd())
}

func TestModel_ViewBeforeSize(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "Loading...", New("lta", nil).View())
}

func TestSectionsFrom(t *testing.T) {
	t.Parallel()

	patterns := []pattern.Pattern{
		&pattern.Summary{Label: "5 tests"},
		&pattern.TestTable{Label: "BUGCR1 http://crbug.com/1: flaky", Results: []pattern.TestTableItem{{Name: "a.html", Status: "fail"}}},
		&pattern.TestTable{Label: "empty"},
	}
	sections := SectionsFrom(patterns, render.NewLLM())
	require.Len(t, sections, 2)
	assert.Equal(t, "Summary", sections[0].Title)
	assert.Equal(t, "BUGCR1", sections[1].Title)
	assert.Contains(t, sections[1].Body, "FAIL a.html")
}
