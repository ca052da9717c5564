// Package pager is the interactive viewer behind `lta view`: a list of
// report sections on the left and the selected section in a scrollable
// viewport on the right.
package pager

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"github.com/dkoosis/lta/pkg/pattern"
	"github.com/dkoosis/lta/pkg/render"
)

const (
	minListWidth  = 16
	maxTitleWidth = 40
	chromeHeight  = 4 // title line, blank line, status line, margin
)

// Section is one selectable page of the viewer.
type Section struct {
	Title string
	Body  string
}

// SectionsFrom renders each pattern on its own so it can be paged
// separately. Patterns that render to nothing are dropped.
func SectionsFrom(patterns []pattern.Pattern, r render.Renderer) []Section {
	sections := make([]Section, 0, len(patterns))
	for _, p := range patterns {
		body := r.Render([]pattern.Pattern{p})
		if strings.TrimSpace(body) == "" {
			continue
		}
		sections = append(sections, Section{Title: sectionTitle(p), Body: body})
	}
	return sections
}

func sectionTitle(p pattern.Pattern) string {
	var label string
	switch v := p.(type) {
	case *pattern.Summary:
		label = "Summary"
	case *pattern.Comparison:
		label = "Comparison"
	case *pattern.Leaderboard:
		label = v.Label
	case *pattern.TestTable:
		label = v.Label
	case *pattern.Sparkline:
		label = v.Label
	}
	if label == "" {
		label = string(p.Type())
	}
	// Bug tables carry a URL and annotation after the id.
	if i := strings.IndexByte(label, ' '); i > 0 && strings.HasPrefix(label, "BUG") {
		label = label[:i]
	}
	return label
}

// Run shows the sections until the user quits or ctx is cancelled.
func Run(ctx context.Context, title string, sections []Section, in io.Reader, out io.Writer) error {
	program := tea.NewProgram(New(title, sections),
		tea.WithContext(ctx),
		tea.WithInput(in),
		tea.WithOutput(out),
		tea.WithAltScreen(),
	)
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("running viewer: %w", err)
	}
	return nil
}

// Model is the bubbletea model of the viewer.
type Model struct {
	title     string
	sections  []Section
	selected  int
	viewport  viewport.Model
	ready     bool
	width     int
	height    int
	listWidth int

	titleStyle    lipgloss.Style
	selectedStyle lipgloss.Style
	mutedStyle    lipgloss.Style
}

// New builds a viewer model. The first section is selected.
func New(title string, sections []Section) Model {
	vp := viewport.New(0, 0)
	vp.SetContent("Nothing to show")
	return Model{
		title:         title,
		sections:      sections,
		viewport:      vp,
		titleStyle:    lipgloss.NewStyle().Bold(true),
		selectedStyle: lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("39")),
		mutedStyle:    lipgloss.NewStyle().Foreground(lipgloss.Color("242")),
	}
}

// Selected returns the index of the selected section.
func (m Model) Selected() int { return m.selected }

func (m Model) Init() tea.Cmd { return nil }

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "esc", "ctrl+c":
			return m, tea.Quit
		case "up", "k":
			if m.selected > 0 {
				m.selected--
				m.refreshViewport()
			}
			return m, nil
		case "down", "j":
			if m.selected < len(m.sections)-1 {
				m.selected++
				m.refreshViewport()
			}
			return m, nil
		}
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.listWidth = m.calculateListWidth()
		m.viewport.Width = max(m.width-m.listWidth-3, 1)
		m.viewport.Height = max(m.height-chromeHeight, 1)
		m.ready = true
		m.refreshViewport()
		return m, nil
	}

	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

func (m *Model) calculateListWidth() int {
	w := minListWidth
	for _, s := range m.sections {
		w = max(w, runewidth.StringWidth(s.Title)+2)
	}
	w = min(w, maxTitleWidth)
	if m.width > 0 {
		w = min(w, m.width/2)
	}
	return w
}

func (m *Model) refreshViewport() {
	if m.selected < 0 || m.selected >= len(m.sections) {
		return
	}
	m.viewport.SetContent(m.sections[m.selected].Body)
	m.viewport.GotoTop()
}

func (m Model) View() string {
	if !m.ready {
		return "Loading..."
	}

	var list strings.Builder
	for i, s := range m.sections {
		name := runewidth.Truncate(s.Title, m.listWidth-2, "...")
		if i == m.selected {
			list.WriteString(m.selectedStyle.Render("▸ " + name))
		} else {
			list.WriteString(m.mutedStyle.Render("  " + name))
		}
		list.WriteString("\n")
	}
	left := lipgloss.NewStyle().Width(m.listWidth).Height(m.viewport.Height).Render(list.String())
	body := lipgloss.JoinHorizontal(lipgloss.Top, left, " │ ", m.viewport.View())

	status := m.mutedStyle.Render(fmt.Sprintf("%d/%d  ↑/↓ section  pgup/pgdn scroll  q quit",
		m.selected+1, len(m.sections)))
	return m.titleStyle.Render(m.title) + "\n\n" + body + "\n" + status
}
