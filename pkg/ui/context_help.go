package ui

import (
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"
)

// Context identifies what the user is doing, for context-specific help.
type Context string

const (
	ContextTree       Context = "tree"
	ContextDrag       Context = "drag"
	ContextMovePicker Context = "move"
	ContextOutlines   Context = "outlines"
	ContextPrompt     Context = "prompt"
)

// ContextHelpContent is the markdown help per context. Each page fits on
// one screen without scrolling.
var ContextHelpContent = map[Context]string{
	ContextTree:       contextHelpTree,
	ContextDrag:       contextHelpDrag,
	ContextMovePicker: contextHelpMovePicker,
	ContextOutlines:   contextHelpOutlines,
	ContextPrompt:     contextHelpPrompt,
}

// GetContextHelp returns the help content for ctx, falling back to the
// tree help.
func GetContextHelp(ctx Context) string {
	if content, ok := ContextHelpContent[ctx]; ok {
		return content
	}
	return contextHelpTree
}

// RenderContextHelp renders the help modal for ctx, converting the markdown
// with glamour. A glamour failure falls back to the raw markdown.
func RenderContextHelp(ctx Context, theme Theme, width, height int) string {
	content := GetContextHelp(ctx)
	r := theme.Renderer

	modalWidth := 64
	if modalWidth > width-4 {
		modalWidth = width - 4
	}
	if modalWidth < 30 {
		modalWidth = 30
	}

	body := content
	if md, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(modalWidth-6),
	); err == nil {
		if out, err := md.Render(content); err == nil {
			body = strings.Trim(out, "\n")
		}
	}

	titleStyle := r.NewStyle().Bold(true).Foreground(theme.Primary)
	footerStyle := r.NewStyle().Foreground(theme.Muted).Italic(true)

	var b strings.Builder
	b.WriteString(titleStyle.Render("Quick Reference"))
	b.WriteString("\n")
	b.WriteString(r.NewStyle().Foreground(theme.Border).Render(strings.Repeat("─", modalWidth-6)))
	b.WriteString("\n")
	b.WriteString(body)
	b.WriteString("\n\n")
	b.WriteString(footerStyle.Render("? or Esc to close"))

	modal := r.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(theme.Secondary).
		Padding(1, 2).
		Width(modalWidth).
		Render(b.String())

	if width <= 0 || height <= 0 {
		return modal
	}
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, modal)
}

const contextHelpTree = `## Tree

**Navigation**

- ` + "`j/k`" + ` move down/up, ` + "`g/G`" + ` top/bottom
- ` + "`l/→`" + ` expand, or enter the first child
- ` + "`h/←`" + ` collapse, or jump to the parent
- ` + "`enter`" + ` open/close (double click)
- ` + "`E/C`" + ` expand/collapse everything

**Selection**

- ` + "`space`" + ` click: only this node
- ` + "`x`" + ` ctrl-click: add to the selection
- ` + "`X`" + ` shift-click: range from the last click

**Editing**

- ` + "`m`" + ` pick up, ` + "`M`" + ` move to…
- ` + "`n`" + ` new child, ` + "`r`" + ` rename, ` + "`d`" + ` delete
- ` + "`y`" + ` copy labels, ` + "`v`" + ` paste clipboard`

const contextHelpDrag = `## Dragging

A node is picked up. Move the cursor to a target; the row shows
whether the drop is allowed.

- ` + "`p`" + ` drop into the row (last child)
- ` + "`a`" + ` drop after the row (next sibling)
- ` + "`esc`" + ` put it back

A node can never be dropped into itself or its own subtree.`

const contextHelpMovePicker = `## Move To

- ` + "`j/k`" + ` choose a target
- ` + "`enter`" + ` move the node there
- ` + "`esc`" + ` cancel

Targets marked ✗ would create a cycle, or the tree does not accept drops.`

const contextHelpOutlines = `## Outlines

- ` + "`1-9`" + ` load an outline
- ` + "`/`" + ` filter by name or path
- ` + "`↑/↓`" + ` choose while filtering, ` + "`enter`" + ` load
- ` + "`R`" + ` reload the current outline

Open branches are kept across reloads.`

const contextHelpPrompt = `## Editing a Label

- ` + "`enter`" + ` save
- ` + "`esc`" + ` cancel`
