// tree.go - tree view over the engine's visible projection
package ui

import (
	"errors"
	"slices"
	"strings"

	"github.com/mattn/go-runewidth"

	"github.com/vanderheijden86/treeview/pkg/tree"
)

// ErrNotDragging is returned by Drop when nothing has been picked up.
var ErrNotDragging = errors.New("nothing picked up")

// TreeModel renders the projection of a tree.Tree and maps cursor, click and
// drag gestures onto the engine. It never mutates the hierarchy directly.
type TreeModel struct {
	t      *tree.Tree
	theme  Theme
	indent int

	// rows is the projection, refreshed whenever the revision or the
	// display-root option it was taken at goes stale
	rows        []tree.NodeID
	rowsRev     uint64
	rowsRootOpt bool
	synced      bool

	cursor         int
	viewportOffset int // index of the first rendered row
	width          int
	height         int

	hover    tree.NodeID
	dragging Draggable
}

// NewTreeModel creates a view over t. indent is the number of columns per level.
func NewTreeModel(t *tree.Tree, theme Theme, indent int) TreeModel {
	if indent < 1 {
		indent = 4
	}
	return TreeModel{t: t, theme: theme, indent: indent}
}

// Tree returns the engine behind the view.
func (m *TreeModel) Tree() *tree.Tree {
	return m.t
}

// SetTree swaps the engine, for example after an outline reload. The cursor
// stays on the same row index where possible.
func (m *TreeModel) SetTree(t *tree.Tree) {
	m.t = t
	m.synced = false
	m.hover = tree.None
	m.dragging = nil
	m.sync()
}

// SetSize updates the available dimensions for the tree view
func (m *TreeModel) SetSize(width, height int) {
	m.width = width
	m.height = height
	m.ensureCursorVisible()
}

// sync re-projects when the tree changed since the last look. The cursor
// follows its node, falling back to the nearest visible ancestor.
func (m *TreeModel) sync() {
	if m.t == nil {
		m.rows = nil
		m.cursor = 0
		return
	}
	displayRoot := m.t.Options().DisplayRootElement
	if m.synced && m.rowsRev == m.t.Revision() && m.rowsRootOpt == displayRoot {
		return
	}

	prev := tree.None
	if m.cursor >= 0 && m.cursor < len(m.rows) {
		prev = m.rows[m.cursor]
	}
	m.rows = m.t.Visible()
	m.rowsRev = m.t.Revision()
	m.rowsRootOpt = displayRoot
	m.synced = true

	for n := prev; n != tree.None; n = m.t.Parent(n) {
		if i := slices.Index(m.rows, n); i >= 0 {
			m.cursor = i
			break
		}
	}
	m.clampCursor()
	m.ensureCursorVisible()
}

func (m *TreeModel) clampCursor() {
	if m.cursor >= len(m.rows) {
		m.cursor = len(m.rows) - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
}

// Rows returns the rendered node order, which is also the visible order
// used for shift ranges.
func (m *TreeModel) Rows() []tree.NodeID {
	m.sync()
	return m.rows
}

// NodeCount returns the number of rendered rows.
func (m *TreeModel) NodeCount() int {
	m.sync()
	return len(m.rows)
}

// Cursor returns the cursor's row index.
func (m *TreeModel) Cursor() int {
	m.sync()
	return m.cursor
}

// CursorNode returns the node under the cursor, or tree.None.
func (m *TreeModel) CursorNode() tree.NodeID {
	m.sync()
	if m.cursor >= 0 && m.cursor < len(m.rows) {
		return m.rows[m.cursor]
	}
	return tree.None
}

// SelectNode moves the cursor to id. Returns false when id is not rendered.
func (m *TreeModel) SelectNode(id tree.NodeID) bool {
	m.sync()
	i := slices.Index(m.rows, id)
	if i < 0 {
		return false
	}
	m.cursor = i
	m.ensureCursorVisible()
	return true
}

// RevealNode opens id's ancestors and moves the cursor to it.
func (m *TreeModel) RevealNode(id tree.NodeID) bool {
	if m.t == nil || m.t.Reveal(id) != nil {
		return false
	}
	return m.SelectNode(id)
}

// MoveDown moves the cursor down one row.
func (m *TreeModel) MoveDown() {
	m.sync()
	if m.cursor < len(m.rows)-1 {
		m.cursor++
	}
	m.ensureCursorVisible()
}

// MoveUp moves the cursor up one row.
func (m *TreeModel) MoveUp() {
	m.sync()
	if m.cursor > 0 {
		m.cursor--
	}
	m.ensureCursorVisible()
}

// PageDown moves the cursor down by half a viewport.
func (m *TreeModel) PageDown() {
	m.sync()
	m.cursor += m.halfPage()
	m.clampCursor()
	m.ensureCursorVisible()
}

// PageUp moves the cursor up by half a viewport.
func (m *TreeModel) PageUp() {
	m.sync()
	m.cursor -= m.halfPage()
	m.clampCursor()
	m.ensureCursorVisible()
}

func (m *TreeModel) halfPage() int {
	if n := m.height / 2; n >= 1 {
		return n
	}
	return 5
}

// JumpToTop moves the cursor to the first row.
func (m *TreeModel) JumpToTop() {
	m.sync()
	m.cursor = 0
	m.ensureCursorVisible()
}

// JumpToBottom moves the cursor to the last row.
func (m *TreeModel) JumpToBottom() {
	m.sync()
	if len(m.rows) > 0 {
		m.cursor = len(m.rows) - 1
	}
	m.ensureCursorVisible()
}

// JumpToParent moves the cursor to the parent row. Nothing happens at the top
// or when the parent is the hidden display root.
func (m *TreeModel) JumpToParent() {
	node := m.CursorNode()
	if node == tree.None {
		return
	}
	m.SelectNode(m.t.Parent(node))
}

// ExpandOrMoveToChild handles → / l: a closed branch opens, an open branch
// moves the cursor to its first child, a leaf does nothing.
func (m *TreeModel) ExpandOrMoveToChild() {
	node := m.CursorNode()
	if node == tree.None || !m.t.IsBranch(node) {
		return
	}
	if !m.t.IsOpened(node) {
		_ = m.t.SetOpened(node, true)
		return
	}
	if children := m.t.Children(node); len(children) > 0 {
		m.SelectNode(children[0])
	}
}

// CollapseOrJumpToParent handles ← / h: an open branch closes, anything else
// jumps to its parent.
func (m *TreeModel) CollapseOrJumpToParent() {
	node := m.CursorNode()
	if node == tree.None {
		return
	}
	if m.t.IsBranch(node) && m.t.IsOpened(node) {
		_ = m.t.SetOpened(node, false)
		return
	}
	m.JumpToParent()
}

// ToggleExpand opens or closes the branch under the cursor. Leaves are ignored.
func (m *TreeModel) ToggleExpand() bool {
	node := m.CursorNode()
	if node == tree.None {
		return false
	}
	return m.t.ToggleOpen(node)
}

// ExpandAll opens every branch.
func (m *TreeModel) ExpandAll() {
	if m.t != nil {
		m.t.ExpandAll(m.t.Root())
	}
}

// CollapseAll closes every branch.
func (m *TreeModel) CollapseAll() {
	if m.t != nil {
		m.t.CollapseAll(m.t.Root())
	}
}

// Click applies a click with mods to the cursor row.
func (m *TreeModel) Click(mods tree.Modifiers) error {
	node := m.CursorNode()
	if node == tree.None {
		return nil
	}
	return m.t.OnClick(node, mods, m.rows)
}

// DoubleClick toggles the open state of the cursor row.
func (m *TreeModel) DoubleClick() error {
	node := m.CursorNode()
	if node == tree.None {
		return nil
	}
	return m.t.OnDoubleClick(node)
}

// RowAt maps a line of the rendered view to a row index.
func (m *TreeModel) RowAt(line int) (int, bool) {
	m.sync()
	start, end := m.visibleRange()
	i := start + line
	if line < 0 || i >= end {
		return 0, false
	}
	return i, true
}

// IndicatorAt reports whether column x of row is the branch indicator, the
// only spot where a single click opens or closes a branch.
func (m *TreeModel) IndicatorAt(row, x int) bool {
	m.sync()
	if row < 0 || row >= len(m.rows) || !m.t.IsBranch(m.rows[row]) {
		return false
	}
	return x == runewidth.StringWidth(m.plainPrefix(m.rows[row]))
}

// ToggleRow opens or closes the branch at row and puts the cursor on it.
func (m *TreeModel) ToggleRow(row int) bool {
	m.sync()
	if row < 0 || row >= len(m.rows) {
		return false
	}
	m.cursor = row
	m.ensureCursorVisible()
	return m.t.ToggleOpen(m.rows[row])
}

// DoubleClickRow moves the cursor to row and double-clicks it.
func (m *TreeModel) DoubleClickRow(row int) error {
	m.sync()
	if row < 0 || row >= len(m.rows) {
		return nil
	}
	m.cursor = row
	m.ensureCursorVisible()
	return m.DoubleClick()
}

// ClickRow moves the cursor to row and clicks it.
func (m *TreeModel) ClickRow(row int, mods tree.Modifiers) error {
	m.sync()
	if row < 0 || row >= len(m.rows) {
		return nil
	}
	m.cursor = row
	m.ensureCursorVisible()
	return m.Click(mods)
}

// HoverRow marks row as the active node; a negative row clears the hover.
func (m *TreeModel) HoverRow(row int) {
	m.sync()
	next := tree.None
	if row >= 0 && row < len(m.rows) {
		next = m.rows[row]
	}
	if next == m.hover {
		return
	}
	if m.hover != tree.None {
		_ = m.t.SetActive(m.hover, false)
	}
	if next != tree.None {
		_ = m.t.SetActive(next, true)
	}
	m.hover = next
}

// PickUp starts dragging the cursor row. It fails when dragging is disabled.
func (m *TreeModel) PickUp() bool {
	node := m.CursorNode()
	if node == tree.None || !m.t.BeginDrag(node) {
		return false
	}
	m.dragging = NodeDrag(node)
	return true
}

// PickUpPayload starts dragging something from outside the tree.
func (m *TreeModel) PickUpPayload(v any) {
	m.dragging = PayloadDrag{Value: v}
}

// Dragging returns what is picked up, or nil.
func (m *TreeModel) Dragging() Draggable {
	return m.dragging
}

// CancelDrag drops nothing.
func (m *TreeModel) CancelDrag() {
	m.dragging = nil
}

// Target returns where a drop at the cursor would land: onto the row, or
// into the gap after it when after is set.
func (m *TreeModel) Target(after bool) Droppable {
	node := m.CursorNode()
	switch {
	case node == tree.None:
		return EmptyTree{}
	case after:
		return AfterRow{Node: node}
	default:
		return IntoRow{Node: node}
	}
}

// CanDrop reports whether the current drag would be accepted at the cursor.
func (m *TreeModel) CanDrop(after bool) bool {
	if m.dragging == nil || m.t == nil {
		return false
	}
	return m.Target(after).Accepts(m.t, m.dragging)
}

// Drop releases the drag at the cursor.
func (m *TreeModel) Drop(after bool) error {
	return m.DropOn(m.Target(after))
}

// DropOn releases the drag on target. The drag ends whatever the outcome;
// a dropped node keeps the cursor.
func (m *TreeModel) DropOn(target Droppable) error {
	if m.dragging == nil {
		return ErrNotDragging
	}
	d := m.dragging
	m.dragging = nil
	if err := target.Drop(m.t, d); err != nil {
		return err
	}
	if id := d.DragNode(); id != tree.None {
		m.SelectNode(id)
	}
	return nil
}

// SelectedLabels returns the labels of the selection in tree order, or the
// cursor row's label when nothing is selected.
func (m *TreeModel) SelectedLabels() []string {
	if m.t == nil {
		return nil
	}
	var labels []string
	if m.t.SelectionCount() > 0 {
		m.t.Walk(m.t.Root(), func(id tree.NodeID, _ int) bool {
			if m.t.IsSelected(id) {
				labels = append(labels, m.t.Label(id))
			}
			return true
		})
		return labels
	}
	if node := m.CursorNode(); node != tree.None {
		labels = append(labels, m.t.Label(node))
	}
	return labels
}

// View renders the rows in the viewport.
func (m *TreeModel) View() string {
	m.sync()
	if len(m.rows) == 0 {
		return m.renderEmptyState()
	}

	var sb strings.Builder
	start, end := m.visibleRange()
	for i := start; i < end; i++ {
		sb.WriteString(m.renderRow(i, m.rows[i]))
		if i < end-1 {
			sb.WriteString("\n")
		}
	}
	return sb.String()
}

// renderEmptyState renders the view when there is nothing to show.
func (m *TreeModel) renderEmptyState() string {
	r := m.theme.Renderer
	titleStyle := r.NewStyle().Foreground(m.theme.Primary).Bold(true)
	mutedStyle := r.NewStyle().Foreground(m.theme.Muted)

	var sb strings.Builder
	sb.WriteString(titleStyle.Render("Tree View"))
	sb.WriteString("\n\n")
	sb.WriteString(mutedStyle.Render("No nodes to display."))
	sb.WriteString("\n\n")
	sb.WriteString(mutedStyle.Render("Press v to drop the clipboard in as the first node."))
	return sb.String()
}

// renderRow renders one row: guides, open indicator, label and marks.
func (m *TreeModel) renderRow(i int, id tree.NodeID) string {
	r := m.theme.Renderer
	isCursor := i == m.cursor

	var sb strings.Builder
	prefix := m.buildTreePrefix(id)
	sb.WriteString(prefix)

	indicatorStyle := r.NewStyle().Foreground(m.theme.Secondary)
	sb.WriteString(indicatorStyle.Render(m.indicator(id)))
	sb.WriteString(" ")

	var suffix string
	if m.t.IsSelected(id) {
		suffix += " ✓"
	}
	if m.dragging != nil && m.dragging.DragNode() == id {
		suffix += " ⇅"
	}
	feedback := ""
	if isCursor && m.dragging != nil {
		if m.CanDrop(false) {
			feedback = m.theme.DropOK.Render(" ⇠ drop here")
		} else {
			feedback = m.theme.DropBad.Render(" ✗ drop not allowed")
		}
	}

	maxLabel := m.width - runewidth.StringWidth(m.plainPrefix(id)) - 2 - runewidth.StringWidth(suffix)
	if isCursor && m.dragging != nil {
		maxLabel -= 20
	}
	if maxLabel < 10 {
		maxLabel = 10
	}
	label := runewidth.Truncate(m.t.Label(id), maxLabel, "…")

	labelStyle := m.theme.Base
	if m.t.IsSelected(id) {
		labelStyle = m.theme.Selected
	}
	if m.t.IsActive(id) {
		labelStyle = labelStyle.Inherit(m.theme.Active)
	}
	sb.WriteString(labelStyle.Render(label + suffix))
	sb.WriteString(feedback)

	line := sb.String()
	if isCursor {
		line = m.theme.Cursor.Render(line)
	}
	return line
}

// depth is the node's indentation level: its tree level, less one when the
// root is hidden so that the root's children start at the left edge.
func (m *TreeModel) depth(id tree.NodeID) int {
	d := m.t.Level(id)
	if !m.t.Options().DisplayRootElement {
		d--
	}
	return d
}

// buildTreePrefix returns the styled guides in front of a row, depth*indent
// columns wide.
func (m *TreeModel) buildTreePrefix(id tree.NodeID) string {
	plain := m.plainPrefix(id)
	if plain == "" {
		return ""
	}
	return m.theme.Renderer.NewStyle().Foreground(m.theme.Muted).Render(plain)
}

func (m *TreeModel) plainPrefix(id tree.NodeID) string {
	depth := m.depth(id)
	if depth <= 0 {
		return ""
	}
	segs := make([]string, depth)
	if m.isLastChild(id) {
		segs[depth-1] = guide(guideLast, m.indent)
	} else {
		segs[depth-1] = guide(guideBranch, m.indent)
	}
	n := m.t.Parent(id)
	for i := depth - 2; i >= 0; i-- {
		if m.isLastChild(n) {
			segs[i] = guide(guideBlank, m.indent)
		} else {
			segs[i] = guide(guideLine, m.indent)
		}
		n = m.t.Parent(n)
	}
	return strings.Join(segs, "")
}

func (m *TreeModel) isLastChild(id tree.NodeID) bool {
	p := m.t.Parent(id)
	return p == tree.None || m.t.IndexOf(id) == m.t.ChildCount(p)-1
}

// indicator returns the open/closed marker for a row.
func (m *TreeModel) indicator(id tree.NodeID) string {
	if !m.t.IsBranch(id) {
		return "•"
	}
	if m.t.IsOpened(id) {
		return "▾"
	}
	return "▸"
}

type guideKind int

const (
	guideBlank guideKind = iota
	guideLine
	guideBranch
	guideLast
)

// guide returns one indentation segment of exactly width columns. Below three
// columns there is no room for box drawing, so segments are blank.
func guide(kind guideKind, width int) string {
	if width < 3 {
		return strings.Repeat(" ", width)
	}
	switch kind {
	case guideLine:
		return "│" + strings.Repeat(" ", width-1)
	case guideBranch:
		return "├" + strings.Repeat("─", width-2) + " "
	case guideLast:
		return "└" + strings.Repeat("─", width-2) + " "
	default:
		return strings.Repeat(" ", width)
	}
}

func (m *TreeModel) pageHeight() int {
	if m.height > 0 {
		return m.height
	}
	return 20
}

// ensureCursorVisible scrolls the viewport so the cursor row is rendered.
func (m *TreeModel) ensureCursorVisible() {
	h := m.pageHeight()
	if m.cursor < m.viewportOffset {
		m.viewportOffset = m.cursor
	}
	if m.cursor >= m.viewportOffset+h {
		m.viewportOffset = m.cursor - h + 1
	}
	if m.viewportOffset < 0 {
		m.viewportOffset = 0
	}
}

// visibleRange returns the start and end indices of rows to render.
// The range [start, end) covers rows visible in the viewport.
func (m *TreeModel) visibleRange() (start, end int) {
	if len(m.rows) == 0 {
		return 0, 0
	}
	visibleCount := m.pageHeight()

	start = m.viewportOffset
	end = start + visibleCount
	if end > len(m.rows) {
		end = len(m.rows)
		start = end - visibleCount
		if start < 0 {
			start = 0
		}
	}
	if start > len(m.rows) {
		start = len(m.rows)
	}
	return start, end
}
