// Package ui implements the interactive bookmark picker.
package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/treykane/sshmark/internal/bookmark"
)

var (
	titleStyle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("39"))
	selectedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("229")).Background(lipgloss.Color("57"))
	addrStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("244"))
	helpStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
)

type item struct {
	key   string
	entry bookmark.Entry
}

type pickerModel struct {
	items    []item
	filtered []item
	sel      int
	input    textinput.Model
	chosen   string
	height   int
}

func newPicker(store *bookmark.Store, keys []string) pickerModel {
	in := textinput.New()
	in.Placeholder = "filter"
	in.Prompt = "> "
	in.Focus()

	m := pickerModel{input: in}
	for _, k := range keys {
		if e, ok := store.Get(k); ok {
			m.items = append(m.items, item{key: k, entry: e})
		}
	}
	m.applyFilter()
	return m
}

func (m *pickerModel) applyFilter() {
	f := strings.ToLower(strings.TrimSpace(m.input.Value()))
	m.filtered = nil
	for _, it := range m.items {
		if f == "" || strings.Contains(strings.ToLower(it.key), f) || strings.Contains(strings.ToLower(it.entry.Addr), f) {
			m.filtered = append(m.filtered, it)
		}
	}
	if m.sel >= len(m.filtered) {
		m.sel = len(m.filtered) - 1
	}
	if m.sel < 0 {
		m.sel = 0
	}
}

func (m pickerModel) Init() tea.Cmd { return textinput.Blink }

func (m pickerModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.height = msg.Height
		return m, nil
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "esc":
			m.chosen = ""
			return m, tea.Quit
		case "enter":
			if len(m.filtered) > 0 {
				m.chosen = m.filtered[m.sel].key
				return m, tea.Quit
			}
			return m, nil
		case "down", "ctrl+n":
			if m.sel < len(m.filtered)-1 {
				m.sel++
			}
			return m, nil
		case "up", "ctrl+p":
			if m.sel > 0 {
				m.sel--
			}
			return m, nil
		}
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	m.applyFilter()
	return m, cmd
}

func (m pickerModel) View() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("sshmark"))
	b.WriteString(fmt.Sprintf("  %d/%d\n", len(m.filtered), len(m.items)))
	b.WriteString(m.input.View())
	b.WriteString("\n")

	width := 0
	for _, it := range m.filtered {
		width = max(width, lipgloss.Width(it.key))
	}
	start, end := m.window()
	for i := start; i < end; i++ {
		it := m.filtered[i]
		line := fmt.Sprintf("%-*s  %s", width, it.key, addrStyle.Render(it.entry.Addr))
		if i == m.sel {
			line = selectedStyle.Render(fmt.Sprintf("%-*s  %s", width, it.key, it.entry.Addr))
		}
		b.WriteString(line)
		b.WriteString("\n")
	}
	if len(m.filtered) == 0 {
		b.WriteString("  (no bookmarks matched)\n")
	}
	b.WriteString(helpStyle.Render("enter connect | up/down move | esc quit"))
	return b.String()
}

// window returns the visible slice of filtered rows around the selection.
func (m pickerModel) window() (int, int) {
	rows := m.height - 3
	if rows <= 0 || rows >= len(m.filtered) {
		return 0, len(m.filtered)
	}
	start := m.sel - rows + 1
	if start < 0 {
		start = 0
	}
	return start, start + rows
}

// Pick shows the picker over keys and returns the chosen key, or "" when the
// user cancelled.
func Pick(store *bookmark.Store, keys []string) (string, error) {
	p := tea.NewProgram(newPicker(store, keys), tea.WithAltScreen())
	final, err := p.Run()
	if err != nil {
		return "", err
	}
	return final.(pickerModel).chosen, nil
}
