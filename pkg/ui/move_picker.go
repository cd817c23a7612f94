package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"github.com/vanderheijden86/treeview/pkg/tree"
)

type moveTarget struct {
	node    tree.NodeID
	label   string
	depth   int
	allowed bool // the drop validator accepts the dragged node here
	current bool // the dragged node's current parent
}

// MovePickerModel is a modal listing every node as a drop target for the
// picked-up node, with targets the validator refuses marked as such.
type MovePickerModel struct {
	targets       []moveTarget
	label         string // what is being moved
	selectedIndex int
	width         int
	height        int
	theme         Theme
}

// NewMovePickerModel lists the drop targets for d in tree order.
func NewMovePickerModel(t *tree.Tree, d Draggable, theme Theme) MovePickerModel {
	m := MovePickerModel{theme: theme}
	parent := tree.None
	if id := d.DragNode(); id != tree.None {
		m.label = t.Label(id)
		parent = t.Parent(id)
	} else {
		m.label = fmt.Sprint(d.Payload())
	}

	t.Walk(t.Root(), func(id tree.NodeID, depth int) bool {
		m.targets = append(m.targets, moveTarget{
			node:    id,
			label:   t.Label(id),
			depth:   depth,
			allowed: IntoRow{Node: id}.Accepts(t, d),
			current: id == parent,
		})
		return true
	})

	// Start on the current parent, else on the first allowed target
	m.selectedIndex = -1
	for i, target := range m.targets {
		if target.current {
			m.selectedIndex = i
			break
		}
	}
	if m.selectedIndex < 0 {
		m.selectedIndex = 0
		for i, target := range m.targets {
			if target.allowed {
				m.selectedIndex = i
				break
			}
		}
	}
	return m
}

// SetSize updates the picker dimensions
func (m *MovePickerModel) SetSize(width, height int) {
	m.width = width
	m.height = height
}

// MoveUp moves selection up
func (m *MovePickerModel) MoveUp() {
	if m.selectedIndex > 0 {
		m.selectedIndex--
	}
}

// MoveDown moves selection down
func (m *MovePickerModel) MoveDown() {
	if m.selectedIndex < len(m.targets)-1 {
		m.selectedIndex++
	}
}

// Selected returns the highlighted target and whether it accepts the drop.
func (m *MovePickerModel) Selected() (tree.NodeID, bool) {
	if m.selectedIndex >= 0 && m.selectedIndex < len(m.targets) {
		target := m.targets[m.selectedIndex]
		return target.node, target.allowed
	}
	return tree.None, false
}

// Target returns the highlighted target as a Droppable.
func (m *MovePickerModel) Target() Droppable {
	node, _ := m.Selected()
	return IntoRow{Node: node}
}

// View renders the move picker overlay
func (m *MovePickerModel) View() string {
	if m.width == 0 {
		m.width = 60
	}
	if m.height == 0 {
		m.height = 20
	}

	t := m.theme

	boxWidth := 50
	if m.width < 60 {
		boxWidth = m.width - 10
	}
	if boxWidth < 30 {
		boxWidth = 30
	}

	var lines []string

	titleStyle := t.Renderer.NewStyle().
		Foreground(t.Primary).
		Bold(true).
		MarginBottom(1)
	title := runewidth.Truncate(m.label, boxWidth-14, "…")
	lines = append(lines, titleStyle.Render("Move “"+title+"” into"))
	lines = append(lines, "")

	// Window of targets around the selection
	visible := m.height - 10
	if visible < 3 {
		visible = 3
	}
	start := m.selectedIndex - visible/2
	if start > len(m.targets)-visible {
		start = len(m.targets) - visible
	}
	if start < 0 {
		start = 0
	}
	end := min(start+visible, len(m.targets))

	for i := start; i < end; i++ {
		target := m.targets[i]
		isSelected := i == m.selectedIndex

		itemStyle := t.Renderer.NewStyle()
		switch {
		case isSelected && target.allowed:
			itemStyle = itemStyle.Foreground(t.Primary).Bold(true)
		case !target.allowed:
			itemStyle = itemStyle.Foreground(t.Muted)
		default:
			itemStyle = itemStyle.Foreground(t.Base.GetForeground())
		}

		prefix := "  "
		if isSelected {
			prefix = "> "
		}
		name := strings.Repeat("  ", target.depth) + runewidth.Truncate(target.label, boxWidth-12-2*target.depth, "…")

		suffix := ""
		if target.current {
			suffix = " " + t.Renderer.NewStyle().Foreground(t.Secondary).Render("✓")
		}
		if !target.allowed {
			suffix += " " + t.DropBad.Render("✗")
		}
		lines = append(lines, itemStyle.Render(prefix+name)+suffix)
	}

	lines = append(lines, "")
	footerStyle := t.Renderer.NewStyle().
		Foreground(t.Secondary).
		Italic(true)
	lines = append(lines, footerStyle.Render("j/k: navigate | enter: move | esc: cancel"))

	content := strings.Join(lines, "\n")

	boxStyle := t.Renderer.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(t.Primary).
		Padding(1, 2).
		Width(boxWidth)

	return lipgloss.Place(
		m.width,
		m.height,
		lipgloss.Center,
		lipgloss.Center,
		boxStyle.Render(content),
	)
}
