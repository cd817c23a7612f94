package ui

import (
	"fmt"
	"sort"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/sahilm/fuzzy"

	"github.com/vanderheijden86/treeview/pkg/config"
)

// OutlineEntry holds display data for one outline in the picker.
type OutlineEntry struct {
	Outline  config.Outline
	Number   int  // 0 = no quick-switch key, 1-9 = key
	IsActive bool // currently loaded outline
	Nodes    int  // node count once loaded, 0 if unknown
}

// SwitchOutlineMsg is sent when the user selects an outline to load.
type SwitchOutlineMsg struct {
	Outline config.Outline
}

// OutlinePickerModel is a compact k9s-style header listing the known outline
// files. Switching is done with number keys 1-9 or through filter mode.
type OutlinePickerModel struct {
	entries     []OutlineEntry
	filtered    []int // indices into entries
	cursor      int   // only used during filter mode for selecting results
	width       int
	filterInput textinput.Model
	filtering   bool
	theme       Theme
}

// NewOutlinePicker creates a picker over outlines, numbering the first nine.
func NewOutlinePicker(outlines []config.Outline, active string, theme Theme) OutlinePickerModel {
	ti := textinput.New()
	ti.Placeholder = "type to filter..."
	ti.CharLimit = 50
	ti.Width = 30

	entries := make([]OutlineEntry, len(outlines))
	for i, o := range outlines {
		entries[i] = OutlineEntry{Outline: o, IsActive: o.ResolvedPath() == active}
		if i < 9 {
			entries[i].Number = i + 1
		}
	}

	m := OutlinePickerModel{
		entries:     entries,
		filterInput: ti,
		theme:       theme,
	}
	m.applyFilter()
	return m
}

// SetSize updates the picker width.
func (m *OutlinePickerModel) SetSize(w int) {
	m.width = w
}

// SetActive marks the outline at path as loaded with the given node count.
func (m *OutlinePickerModel) SetActive(path string, nodes int) {
	for i := range m.entries {
		e := &m.entries[i]
		e.IsActive = e.Outline.ResolvedPath() == path
		if e.IsActive {
			e.Nodes = nodes
		}
	}
}

// StartFilter enters filter mode.
func (m *OutlinePickerModel) StartFilter() tea.Cmd {
	m.filtering = true
	m.cursor = 0
	m.filterInput.SetValue("")
	m.applyFilter()
	return m.filterInput.Focus()
}

// Update handles keyboard input for the outline picker.
func (m OutlinePickerModel) Update(msg tea.Msg) (OutlinePickerModel, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		if m.filtering {
			return m.updateFiltering(msg)
		}
		return m.updateNormal(msg)
	}
	return m, nil
}

// updateNormal handles keys while the picker is display-only: filter entry
// and number-key quick switch.
func (m OutlinePickerModel) updateNormal(msg tea.KeyMsg) (OutlinePickerModel, tea.Cmd) {
	switch msg.String() {
	case "/":
		cmd := m.StartFilter()
		return m, cmd
	case "1", "2", "3", "4", "5", "6", "7", "8", "9":
		n := int(msg.String()[0] - '0')
		for _, entry := range m.entries {
			if entry.Number == n {
				return m, switchOutline(entry.Outline)
			}
		}
	}
	return m, nil
}

// updateFiltering handles keys when in filter mode.
func (m OutlinePickerModel) updateFiltering(msg tea.KeyMsg) (OutlinePickerModel, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.filtering = false
		m.filterInput.SetValue("")
		m.filterInput.Blur()
		m.applyFilter()
		return m, nil
	case "enter":
		m.filtering = false
		m.filterInput.Blur()
		if len(m.filtered) > 0 && m.cursor < len(m.filtered) {
			return m, switchOutline(m.entries[m.filtered[m.cursor]].Outline)
		}
		return m, nil
	case "up":
		if m.cursor > 0 {
			m.cursor--
		}
		return m, nil
	case "down":
		if m.cursor < len(m.filtered)-1 {
			m.cursor++
		}
		return m, nil
	default:
		var cmd tea.Cmd
		m.filterInput, cmd = m.filterInput.Update(msg)
		m.applyFilter()
		return m, cmd
	}
}

func switchOutline(o config.Outline) tea.Cmd {
	return func() tea.Msg {
		return SwitchOutlineMsg{Outline: o}
	}
}

// applyFilter updates the filtered indices from the filter input, best
// fuzzy match first. Names and paths are both searched.
func (m *OutlinePickerModel) applyFilter() {
	query := strings.TrimSpace(m.filterInput.Value())
	if query == "" {
		m.filtered = make([]int, len(m.entries))
		for i := range m.entries {
			m.filtered[i] = i
		}
		if m.cursor >= len(m.filtered) {
			m.cursor = max(0, len(m.filtered)-1)
		}
		return
	}

	names := make([]string, len(m.entries))
	paths := make([]string, len(m.entries))
	for i, e := range m.entries {
		names[i] = strings.ToLower(e.Outline.Name)
		paths[i] = strings.ToLower(e.Outline.Path)
	}
	query = strings.ToLower(query)

	best := make(map[int]int)
	var order []int
	for _, matches := range []fuzzy.Matches{fuzzy.Find(query, names), fuzzy.Find(query, paths)} {
		for _, match := range matches {
			score, seen := best[match.Index]
			if !seen {
				order = append(order, match.Index)
			}
			if !seen || match.Score > score {
				best[match.Index] = match.Score
			}
		}
	}
	// ties keep name matches ahead of path matches
	sort.SliceStable(order, func(i, j int) bool {
		return best[order[i]] > best[order[j]]
	})

	m.filtered = order
	if m.cursor >= len(m.filtered) {
		m.cursor = max(0, len(m.filtered)-1)
	}
}

// View renders the shortcut bar, optional filter line, outline chips and
// the title bar.
func (m *OutlinePickerModel) View() string {
	if m.width == 0 {
		m.width = 80
	}
	w := m.width

	var sections []string
	sections = append(sections, m.renderShortcutBar())

	if m.filtering {
		t := m.theme
		filterStyle := t.Renderer.NewStyle().
			Foreground(t.Primary).
			Width(w)
		sections = append(sections, filterStyle.Render("  / "+m.filterInput.View()))
	}

	if len(m.filtered) == 0 {
		t := m.theme
		dimStyle := t.Renderer.NewStyle().
			Foreground(t.Secondary).
			Italic(true)
		sections = append(sections, dimStyle.Render("  No outlines found. Configure discovery.scan_paths in .treeview/config.yaml"))
	} else {
		sections = append(sections, m.renderChips(w)...)
	}

	sections = append(sections, m.renderTitleBar(w))
	return strings.Join(sections, "\n")
}

// Height returns the number of terminal lines the picker uses.
func (m *OutlinePickerModel) Height() int {
	return strings.Count(m.View(), "\n") + 1
}

func (m *OutlinePickerModel) renderShortcutBar() string {
	t := m.theme
	keyStyle := t.Renderer.NewStyle().Foreground(t.Highlight).Bold(true)
	descStyle := t.Renderer.NewStyle().Foreground(t.Subtext)

	shortcuts := []struct {
		key  string
		desc string
	}{
		{"<1-9>", "Quick Switch"},
		{"</>", "Filter"},
		{"<?>", "Help"},
	}

	var parts []string
	for _, s := range shortcuts {
		parts = append(parts, keyStyle.Render(s.key)+" "+descStyle.Render(s.desc))
	}
	return " " + strings.Join(parts, "  ")
}

// renderTitleBar renders the divider between the picker and the tree:
// outlines(active-name)[count].
func (m *OutlinePickerModel) renderTitleBar(w int) string {
	t := m.theme
	titleText := t.Renderer.NewStyle().Foreground(t.Primary).Bold(true)
	countText := t.Renderer.NewStyle().Foreground(t.Highlight)

	label := "outlines"
	if m.filtering && m.filterInput.Value() != "" {
		label = fmt.Sprintf("outlines(%s)", m.filterInput.Value())
	} else {
		for _, entry := range m.entries {
			if entry.IsActive {
				label = fmt.Sprintf("outlines(%s)", entry.Outline.Name)
				break
			}
		}
	}
	count := fmt.Sprintf("[%d]", len(m.filtered))
	title := titleText.Render(label) + countText.Render(count)

	sepStyle := t.Renderer.NewStyle().Foreground(t.Border)
	titleLen := lipgloss.Width(label) + len(count)
	leftPad := (w - titleLen - 4) / 2
	rightPad := w - titleLen - 4 - leftPad
	if leftPad < 1 {
		leftPad = 1
	}
	if rightPad < 1 {
		rightPad = 1
	}
	return sepStyle.Render(strings.Repeat("─", leftPad)) + " " + title + " " + sepStyle.Render(strings.Repeat("─", rightPad))
}

// renderChips flows outline chips horizontally, wrapping at w.
func (m *OutlinePickerModel) renderChips(w int) []string {
	const indent = "  "
	var lines []string
	var line strings.Builder
	lineLen := 0

	for i, idx := range m.filtered {
		entry := m.entries[idx]
		text := chipText(entry)
		textLen := lipgloss.Width(text)

		if lineLen > len(indent) && lineLen+textLen+2 > w {
			lines = append(lines, line.String())
			line.Reset()
			lineLen = 0
		}
		if lineLen == 0 {
			line.WriteString(indent)
			lineLen = len(indent)
		} else {
			line.WriteString("  ")
			lineLen += 2
		}
		line.WriteString(m.renderChip(entry, text, m.filtering && i == m.cursor))
		lineLen += textLen
	}
	if lineLen > 0 {
		lines = append(lines, line.String())
	}
	return lines
}

// chipText is "N name(count)"; the count is left out until known.
func chipText(entry OutlineEntry) string {
	num := " "
	if entry.Number > 0 {
		num = fmt.Sprintf("%d", entry.Number)
	}
	text := num + " " + entry.Outline.Name
	if entry.Nodes > 0 {
		text += fmt.Sprintf("(%d)", entry.Nodes)
	}
	return text
}

func (m *OutlinePickerModel) renderChip(entry OutlineEntry, text string, isCursor bool) string {
	t := m.theme
	if isCursor || entry.IsActive {
		return t.Renderer.NewStyle().Foreground(t.Primary).Bold(true).Render(text)
	}
	return t.Renderer.NewStyle().Foreground(t.Base.GetForeground()).Render(text)
}

// Filtering returns whether the picker is in filter mode.
func (m *OutlinePickerModel) Filtering() bool {
	return m.filtering
}

// Cursor returns the current cursor position.
func (m *OutlinePickerModel) Cursor() int {
	return m.cursor
}

// FilteredCount returns the number of entries matching the current filter.
func (m *OutlinePickerModel) FilteredCount() int {
	return len(m.filtered)
}

// Len returns the number of outlines.
func (m *OutlinePickerModel) Len() int {
	return len(m.entries)
}

// SelectedEntry returns the highlighted entry, or nil if none.
func (m *OutlinePickerModel) SelectedEntry() *OutlineEntry {
	if len(m.filtered) == 0 || m.cursor >= len(m.filtered) {
		return nil
	}
	entry := m.entries[m.filtered[m.cursor]]
	return &entry
}
