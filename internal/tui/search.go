package tui

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/sahilm/fuzzy"
)

const searchMaxRows = 8

var (
	searchBoxStyle   = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("#5E6472")).Padding(0, 1)
	searchMatchStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#7D56F4"))
)

// historySearch 是 ctrl+r 的提示历史模糊检索状态。
type historySearch struct {
	entries []string
	query   string
	sel     int
	matches []fuzzy.Match
}

func (s *historySearch) Open(entries []string) {
	// 最新的排在前面。
	s.entries = make([]string, 0, len(entries))
	for i := len(entries) - 1; i >= 0; i-- {
		s.entries = append(s.entries, entries[i])
	}
	s.query = ""
	s.sel = 0
	s.refresh()
}

func (s *historySearch) refresh() {
	if strings.TrimSpace(s.query) == "" {
		s.matches = s.matches[:0]
		for i, e := range s.entries {
			if i >= searchMaxRows {
				break
			}
			s.matches = append(s.matches, fuzzy.Match{Str: e, Index: i})
		}
	} else {
		s.matches = fuzzy.Find(s.query, s.entries)
		if len(s.matches) > searchMaxRows {
			s.matches = s.matches[:searchMaxRows]
		}
	}
	if s.sel >= len(s.matches) {
		s.sel = maxInt(0, len(s.matches)-1)
	}
}

// Choice 返回当前选中的历史条目。
func (s *historySearch) Choice() (string, bool) {
	if s.sel < 0 || s.sel >= len(s.matches) {
		return "", false
	}
	return s.matches[s.sel].Str, true
}

func (s *historySearch) View(width int) string {
	var b strings.Builder
	b.WriteString("history search: " + s.query)
	for i, match := range s.matches {
		b.WriteString("\n")
		prefix := "  "
		if i == s.sel {
			prefix = "> "
		}
		line := prefix + match.Str
		if i == s.sel {
			line = searchMatchStyle.Render(line)
		}
		b.WriteString(line)
	}
	box := searchBoxStyle
	if width > 4 {
		box = box.Width(width - 2)
	}
	return box.Render(b.String())
}

// handleSearchKey 处理检索态下的按键。
func (m *Model) handleSearchKey(msg tea.KeyMsg) tea.Cmd {
	switch msg.String() {
	case "esc", "ctrl+c", "ctrl+r":
		m.searching = false
		return nil
	case "enter":
		if choice, ok := m.histSearch.Choice(); ok {
			m.setComposerText(choice)
		}
		m.searching = false
		return nil
	case "up", "ctrl+p":
		if m.histSearch.sel > 0 {
			m.histSearch.sel--
		}
		return nil
	case "down", "ctrl+n":
		if m.histSearch.sel < len(m.histSearch.matches)-1 {
			m.histSearch.sel++
		}
		return nil
	case "backspace":
		if q := m.histSearch.query; q != "" {
			runes := []rune(q)
			m.histSearch.query = string(runes[:len(runes)-1])
			m.histSearch.refresh()
		}
		return nil
	}
	if msg.Type == tea.KeyRunes || msg.Type == tea.KeySpace {
		m.histSearch.query += string(msg.Runes)
		if msg.Type == tea.KeySpace {
			m.histSearch.query += " "
		}
		m.histSearch.refresh()
	}
	return nil
}
