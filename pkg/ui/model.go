package ui

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/vanderheijden86/treeview/pkg/config"
	"github.com/vanderheijden86/treeview/pkg/demo"
	"github.com/vanderheijden86/treeview/pkg/loader"
	"github.com/vanderheijden86/treeview/pkg/logger"
	"github.com/vanderheijden86/treeview/pkg/model"
	"github.com/vanderheijden86/treeview/pkg/tree"
)

const doubleClickThreshold = 400 * time.Millisecond

type mode int

const (
	modeTree mode = iota
	modeMovePicker
	modePrompt
	modeConfirm
)

type promptKind int

const (
	promptRename promptKind = iota
	promptAdd
)

// Options configure a Model.
type Options struct {
	Config   config.Config
	Title    string
	Outlines []config.Outline // shown in the outline picker
	Active   string           // path of Doc, empty for the demo tree
	Doc      *model.Document  // nil seeds the demo tree
}

type statusMsg struct {
	text string
	err  bool
}

type demoLoadMsg struct {
	gen  int
	load demo.Load
}

type outlineLoadedMsg struct {
	path string
	doc  *model.Document
	err  error
}

type pasteMsg struct {
	text string
}

// hookSink receives the tree's notifications. It lives behind a pointer so
// that the copies bubbletea makes of Model share it.
type hookSink struct {
	t     *tree.Tree
	drops []tree.DropEvent
	last  string
}

func (s *hookSink) hooks() tree.Hooks {
	return tree.Hooks{
		NodeMoved: func(e tree.MoveEvent) {
			s.last = fmt.Sprintf("moved %q to %q at %d", s.t.Label(e.Node), s.t.Label(e.NewParent), e.NewIndex)
		},
		NodeRemoved: func(e tree.RemoveEvent) {
			s.last = fmt.Sprintf("deleted %q (%d nodes)", e.Label, e.Size)
		},
		OpenStateChanged: func(id tree.NodeID, opened bool) {
			logger.Debug("open state changed", "node", s.t.Label(id), "opened", opened)
		},
		SelectionChanged: func(id tree.NodeID, selected bool) {
			logger.Debug("selection changed", "node", s.t.Label(id), "selected", selected)
		},
		ElementDropped: func(e tree.DropEvent) {
			s.drops = append(s.drops, e)
		},
	}
}

// Model is the top-level bubbletea model: the outline picker header, the
// tree view and the overlays for moving, editing and help.
type Model struct {
	cfg   config.Config
	theme Theme
	keys  KeyMap
	help  help.Model

	t     *tree.Tree
	sink  *hookSink
	view  TreeModel
	title string
	gen   int // bumps when the tree is replaced; stale demo loads are dropped

	picker     OutlinePickerModel
	activePath string

	mode       mode
	showHelp   bool
	move       MovePickerModel
	prompt     textinput.Model
	promptKind promptKind
	promptNode tree.NodeID
	confirm    *huh.Form
	confirmed  *bool
	doomed     tree.NodeID

	pending []demo.Load

	lastClickRow int
	lastClickAt  time.Time

	status    string
	statusErr bool
	width     int
	height    int
	ready     bool
}

// NewModel builds the model and its tree, from opts.Doc or the demo.
func NewModel(opts Options) Model {
	theme := DefaultTheme(lipgloss.DefaultRenderer())
	cfg := opts.Config

	m := Model{
		cfg:        cfg,
		theme:      theme,
		keys:       DefaultKeyMap(),
		help:       help.New(),
		sink:       &hookSink{},
		title:      opts.Title,
		activePath: opts.Active,
		picker:     NewOutlinePicker(opts.Outlines, opts.Active, theme),
	}

	t := tree.New(tree.WithOptions(cfg.Tree))
	if opts.Doc != nil {
		if _, err := loader.Build(t, opts.Doc, loader.BuildOptions{Repair: true}); err != nil {
			m.setStatus(err.Error(), true)
		}
		if m.title == "" {
			m.title = opts.Doc.Title
		}
		m.picker.SetActive(opts.Active, opts.Doc.Count())
	} else {
		_, m.pending = demo.Seed(t, cfg.Demo)
		if m.title == "" {
			m.title = "Demo"
		}
	}
	m.attach(t)
	return m
}

// attach makes t the model's tree.
func (m *Model) attach(t *tree.Tree) {
	m.sink.t = t
	m.sink.drops = nil
	t.SetHooks(m.sink.hooks())
	m.t = t
	m.gen++
	if m.view.t == nil {
		m.view = NewTreeModel(t, m.theme, m.cfg.UI.Indent)
	} else {
		m.view.SetTree(t)
	}
}

func (m Model) Init() tea.Cmd {
	return scheduleLoads(m.gen, m.pending)
}

func scheduleLoads(gen int, loads []demo.Load) tea.Cmd {
	if len(loads) == 0 {
		return nil
	}
	cmds := make([]tea.Cmd, len(loads))
	for i, l := range loads {
		l := l
		cmds[i] = tea.Tick(l.Delay, func(time.Time) tea.Msg {
			return demoLoadMsg{gen: gen, load: l}
		})
	}
	return tea.Batch(cmds...)
}

func loadOutline(path string) tea.Cmd {
	return func() tea.Msg {
		doc, err := loader.LoadFile(path)
		return outlineLoadedMsg{path: path, doc: doc, err: err}
	}
}

func (m *Model) setStatus(text string, isErr bool) {
	m.status = text
	m.statusErr = isErr
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.ready = true
		m.picker.SetSize(msg.Width)
		m.help.Width = msg.Width
		m.view.SetSize(msg.Width, m.bodyHeight())
		m.move.SetSize(msg.Width, msg.Height)
		return m, nil

	case statusMsg:
		m.setStatus(msg.text, msg.err)
		return m, nil

	case demoLoadMsg:
		if msg.gen != m.gen {
			return m, nil
		}
		next, err := demo.Apply(m.t, msg.load)
		if err != nil {
			logger.Warn("demo load skipped", "error", err)
		}
		return m, scheduleLoads(m.gen, next)

	case pasteMsg:
		text := strings.TrimSpace(msg.text)
		if text == "" {
			m.setStatus("clipboard is empty", true)
			return m, nil
		}
		m.view.PickUpPayload(text)
		m.setStatus("carrying clipboard text: p drops into, a drops after", false)
		return m, nil

	case SwitchOutlineMsg:
		return m, loadOutline(msg.Outline.ResolvedPath())

	case outlineLoadedMsg:
		if msg.err != nil {
			m.setStatus(msg.err.Error(), true)
			return m, nil
		}
		m.replaceTree(msg.path, msg.doc, msg.path == m.activePath)
		return m, nil

	case OutlineReloadedMsg:
		for _, doc := range msg.Snapshot.Docs {
			if doc.Source == m.activePath {
				m.replaceTree(doc.Source, doc, true)
				m.setStatus("reloaded "+doc.Title, false)
			}
		}
		return m, nil

	case ReloadErrorMsg:
		m.setStatus(msg.Err.Error(), true)
		return m, nil

	case tea.MouseMsg:
		return m.handleMouse(msg)

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	if m.mode == modePrompt {
		var cmd tea.Cmd
		m.prompt, cmd = m.prompt.Update(msg)
		return m, cmd
	}
	if m.mode == modeConfirm {
		return m.updateConfirm(msg)
	}
	return m, nil
}

// replaceTree builds doc into a fresh tree. When keepState is set the open
// branches and the cursor are carried over by label path.
func (m *Model) replaceTree(path string, doc *model.Document, keepState bool) {
	t := tree.New(tree.WithOptions(m.t.Options()))
	root, err := loader.Build(t, doc, loader.BuildOptions{Repair: true})
	if err != nil {
		m.setStatus(err.Error(), true)
		return
	}

	var cursorPath []string
	if keepState {
		loader.RestoreOpen(t, root, loader.OpenPaths(m.t, m.t.Root()))
		cursorPath = m.t.Path(m.view.CursorNode())
	}

	m.activePath = path
	m.title = doc.Title
	m.pending = nil
	m.mode = modeTree
	m.attach(t)
	m.picker.SetActive(path, doc.Count())
	if cursorPath != nil {
		m.view.SelectNode(findPath(t, root, cursorPath))
	}
}

// findPath returns the node under root whose label path is path, or tree.None.
func findPath(t *tree.Tree, root tree.NodeID, path []string) tree.NodeID {
	if len(path) == 0 || t.Label(root) != path[0] {
		return tree.None
	}
	node := root
	for _, label := range path[1:] {
		next := tree.None
		for _, c := range t.Children(node) {
			if t.Label(c) == label {
				next = c
				break
			}
		}
		if next == tree.None {
			return node
		}
		node = next
	}
	return node
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch m.mode {
	case modePrompt:
		return m.updatePrompt(msg)
	case modeConfirm:
		return m.updateConfirm(msg)
	case modeMovePicker:
		return m.updateMovePicker(msg)
	}

	if m.showHelp {
		switch {
		case key.Matches(msg, m.keys.Quit) && msg.String() == "ctrl+c":
			return m, tea.Quit
		case key.Matches(msg, m.keys.Help), key.Matches(msg, m.keys.Cancel), msg.String() == "q":
			m.showHelp = false
		}
		return m, nil
	}

	if m.picker.Filtering() {
		var cmd tea.Cmd
		m.picker, cmd = m.picker.Update(msg)
		return m, cmd
	}

	if s := msg.String(); m.picker.Len() > 0 && (s == "/" || (len(s) == 1 && s[0] >= '1' && s[0] <= '9')) {
		var cmd tea.Cmd
		m.picker, cmd = m.picker.Update(msg)
		return m, cmd
	}

	k := m.keys
	switch {
	case key.Matches(msg, k.Quit):
		return m, tea.Quit
	case key.Matches(msg, k.Help):
		m.showHelp = true

	case key.Matches(msg, k.Cancel):
		if m.view.Dragging() != nil {
			m.view.CancelDrag()
			m.setStatus("drag cancelled", false)
		} else {
			m.t.ClearSelection()
		}

	case key.Matches(msg, k.Up):
		m.view.MoveUp()
	case key.Matches(msg, k.Down):
		m.view.MoveDown()
	case key.Matches(msg, k.PageUp):
		m.view.PageUp()
	case key.Matches(msg, k.PageDown):
		m.view.PageDown()
	case key.Matches(msg, k.Top):
		m.view.JumpToTop()
	case key.Matches(msg, k.Bottom):
		m.view.JumpToBottom()
	case key.Matches(msg, k.Expand):
		m.view.ExpandOrMoveToChild()
	case key.Matches(msg, k.Collapse):
		m.view.CollapseOrJumpToParent()
	case key.Matches(msg, k.Parent):
		m.view.JumpToParent()
	case key.Matches(msg, k.Toggle):
		m.report(m.view.DoubleClick())
	case key.Matches(msg, k.ExpandAll):
		m.view.ExpandAll()
	case key.Matches(msg, k.CollapseAll):
		m.view.CollapseAll()

	case key.Matches(msg, k.Select):
		m.report(m.view.Click(tree.Modifiers{}))
	case key.Matches(msg, k.SelectAdd):
		m.report(m.view.Click(tree.Modifiers{Ctrl: true}))
	case key.Matches(msg, k.SelectRange):
		m.report(m.view.Click(tree.Modifiers{Shift: true}))

	case key.Matches(msg, k.PickUp):
		if m.view.PickUp() {
			m.setStatus(fmt.Sprintf("carrying %q: p drops into, a drops after", m.t.Label(m.view.CursorNode())), false)
		} else {
			m.setStatus("dragging is disabled", true)
		}
	case key.Matches(msg, k.DropInto):
		m.drop(m.view.Drop(false))
	case key.Matches(msg, k.DropAfter):
		m.drop(m.view.Drop(true))
	case key.Matches(msg, k.MoveTo):
		if m.view.Dragging() == nil && !m.view.PickUp() {
			m.setStatus("dragging is disabled", true)
			break
		}
		m.move = NewMovePickerModel(m.t, m.view.Dragging(), m.theme)
		m.move.SetSize(m.width, m.height)
		m.mode = modeMovePicker
	case key.Matches(msg, k.Paste):
		return m, func() tea.Msg {
			text, err := clipboard.ReadAll()
			if err != nil {
				return statusMsg{text: "clipboard: " + err.Error(), err: true}
			}
			return pasteMsg{text: text}
		}

	case key.Matches(msg, k.Rename):
		if node := m.view.CursorNode(); node != tree.None {
			return m, m.openPrompt(promptRename, node, m.t.Label(node))
		}
	case key.Matches(msg, k.Add):
		if node := m.view.CursorNode(); node != tree.None {
			return m, m.openPrompt(promptAdd, node, "")
		}
	case key.Matches(msg, k.Delete):
		if node := m.view.CursorNode(); node != tree.None {
			return m, m.openConfirm(node)
		}
	case key.Matches(msg, k.Copy):
		labels := m.view.SelectedLabels()
		if len(labels) == 0 {
			break
		}
		return m, func() tea.Msg {
			if err := clipboard.WriteAll(strings.Join(labels, "\n")); err != nil {
				return statusMsg{text: "clipboard: " + err.Error(), err: true}
			}
			return statusMsg{text: fmt.Sprintf("copied %d label(s)", len(labels))}
		}

	case key.Matches(msg, k.Outlines):
		if m.picker.Len() > 0 {
			return m, m.picker.StartFilter()
		}
		m.setStatus("no outlines configured", true)
	case key.Matches(msg, k.Reload):
		if m.activePath == "" {
			m.setStatus("the demo tree has no file to reload", true)
			break
		}
		return m, loadOutline(m.activePath)
	}
	return m, nil
}

// report shows err in the status bar.
func (m *Model) report(err error) {
	if err != nil {
		m.setStatus(err.Error(), true)
	}
}

// drop reports the outcome of a drop and applies external payload drops.
func (m *Model) drop(err error) {
	switch {
	case errors.Is(err, tree.ErrNoOp):
		m.setStatus("already there", false)
	case errors.Is(err, tree.ErrCycle), errors.Is(err, ErrDropRejected):
		m.setStatus("drop not allowed", true)
	case err != nil:
		m.setStatus(err.Error(), true)
	default:
		m.setStatus(m.sink.last, false)
	}
	m.applyDrops()
}

// applyDrops turns dropped clipboard text into nodes, one per line.
func (m *Model) applyDrops() {
	drops := m.sink.drops
	m.sink.drops = nil
	for _, d := range drops {
		text, ok := d.Payload.(string)
		if !ok {
			continue
		}
		pos := d.Position
		var last tree.NodeID
		for _, line := range strings.Split(text, "\n") {
			label := strings.TrimSpace(line)
			if label == "" {
				continue
			}
			id := m.t.NewNode(label)
			if d.Parent != tree.None {
				if err := m.t.Move(id, d.Parent, pos); err != nil {
					_ = m.t.Remove(id)
					m.setStatus(err.Error(), true)
					return
				}
				pos++
			} else if m.t.Root() != id {
				// a second line on an empty tree goes under the first
				_ = m.t.InsertInto(id, m.t.Root())
			}
			last = id
		}
		if last != tree.None {
			m.view.RevealNode(last)
			m.setStatus("pasted", false)
		}
	}
}

func (m *Model) openPrompt(kind promptKind, node tree.NodeID, value string) tea.Cmd {
	ti := textinput.New()
	ti.CharLimit = 200
	ti.Width = max(20, m.width-20)
	if kind == promptRename {
		ti.Prompt = "Rename: "
	} else {
		ti.Prompt = "New child: "
		ti.Placeholder = "label"
	}
	ti.SetValue(value)
	ti.CursorEnd()
	m.prompt = ti
	m.promptKind = kind
	m.promptNode = node
	m.mode = modePrompt
	return m.prompt.Focus()
}

func (m Model) updatePrompt(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.mode = modeTree
		return m, nil
	case "enter":
		m.mode = modeTree
		label := strings.TrimSpace(m.prompt.Value())
		if label == "" {
			m.setStatus("label cannot be empty", true)
			return m, nil
		}
		if m.promptKind == promptRename {
			m.report(m.t.SetLabel(m.promptNode, label))
			return m, nil
		}
		child := m.t.NewNode(label)
		if err := m.t.InsertInto(child, m.promptNode); err != nil {
			_ = m.t.Remove(child)
			m.setStatus(err.Error(), true)
			return m, nil
		}
		m.view.SelectNode(child)
		return m, nil
	}
	var cmd tea.Cmd
	m.prompt, cmd = m.prompt.Update(msg)
	return m, cmd
}

func (m *Model) openConfirm(node tree.NodeID) tea.Cmd {
	size := 0
	m.t.Walk(node, func(tree.NodeID, int) bool { size++; return true })

	title := fmt.Sprintf("Delete %q?", m.t.Label(node))
	if size > 1 {
		title = fmt.Sprintf("Delete %q and its %d descendants?", m.t.Label(node), size-1)
	}
	m.confirmed = new(bool)
	m.doomed = node
	m.confirm = huh.NewForm(huh.NewGroup(
		huh.NewConfirm().
			Title(title).
			Affirmative("Delete").
			Negative("Cancel").
			Value(m.confirmed),
	)).WithShowHelp(false).WithTheme(huh.ThemeDracula()).WithWidth(50)
	m.mode = modeConfirm
	return m.confirm.Init()
}

func (m Model) updateConfirm(msg tea.Msg) (tea.Model, tea.Cmd) {
	if k, ok := msg.(tea.KeyMsg); ok && k.String() == "esc" {
		m.mode = modeTree
		m.confirm = nil
		return m, nil
	}
	updated, cmd := m.confirm.Update(msg)
	if f, ok := updated.(*huh.Form); ok {
		m.confirm = f
	}
	switch m.confirm.State {
	case huh.StateCompleted:
		if *m.confirmed {
			if err := m.t.Remove(m.doomed); err != nil {
				m.setStatus(err.Error(), true)
			} else {
				m.setStatus(m.sink.last, false)
			}
		}
		m.mode = modeTree
		m.confirm = nil
		return m, nil
	case huh.StateAborted:
		m.mode = modeTree
		m.confirm = nil
		return m, nil
	}
	return m, cmd
}

func (m Model) updateMovePicker(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "j", "down":
		m.move.MoveDown()
	case "k", "up":
		m.move.MoveUp()
	case "esc", "q":
		m.view.CancelDrag()
		m.mode = modeTree
	case "enter":
		m.mode = modeTree
		m.drop(m.view.DropOn(m.move.Target()))
	}
	return m, nil
}

func (m Model) handleMouse(msg tea.MouseMsg) (tea.Model, tea.Cmd) {
	if m.mode != modeTree || m.showHelp {
		return m, nil
	}
	row, onRow := m.view.RowAt(msg.Y - m.headerHeight())

	switch {
	case msg.Action == tea.MouseActionMotion && msg.Button == tea.MouseButtonNone:
		if onRow {
			m.view.HoverRow(row)
		} else {
			m.view.HoverRow(-1)
		}
	case msg.Button == tea.MouseButtonWheelUp:
		m.view.MoveUp()
	case msg.Button == tea.MouseButtonWheelDown:
		m.view.MoveDown()
	case msg.Button == tea.MouseButtonLeft && msg.Action == tea.MouseActionPress:
		if !onRow {
			return m, nil
		}
		now := time.Now()
		double := row == m.lastClickRow && now.Sub(m.lastClickAt) <= doubleClickThreshold
		m.lastClickRow, m.lastClickAt = row, now
		switch {
		case double:
			m.lastClickAt = time.Time{}
			m.report(m.view.DoubleClickRow(row))
		case m.view.IndicatorAt(row, msg.X):
			m.view.ToggleRow(row)
		default:
			m.report(m.view.ClickRow(row, tree.Modifiers{Ctrl: msg.Ctrl || msg.Alt, Shift: msg.Shift}))
		}
	}
	return m, nil
}

func (m *Model) headerHeight() int {
	if m.picker.Len() > 0 {
		return m.picker.Height()
	}
	return 1
}

func (m *Model) bodyHeight() int {
	return max(1, m.height-m.headerHeight()-2)
}

func (m Model) View() string {
	if !m.ready {
		return "Initializing..."
	}

	switch {
	case m.showHelp:
		return RenderContextHelp(m.helpContext(), m.theme, m.width, m.height)
	case m.mode == modeMovePicker:
		return m.move.View()
	case m.mode == modeConfirm && m.confirm != nil:
		box := m.theme.Renderer.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(m.theme.Danger).
			Padding(1, 2).
			Render(m.confirm.View())
		return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, box)
	}

	var header string
	if m.picker.Len() > 0 {
		header = m.picker.View()
	} else {
		header = m.theme.Renderer.NewStyle().Foreground(m.theme.Primary).Bold(true).Render(" " + m.title)
	}

	body := m.theme.Renderer.NewStyle().Height(m.bodyHeight()).MaxHeight(m.bodyHeight()).Render(m.view.View())
	return lipgloss.JoinVertical(lipgloss.Left, header, body, m.renderStatus(), m.renderFooter())
}

func (m *Model) helpContext() Context {
	switch {
	case m.mode == modePrompt:
		return ContextPrompt
	case m.view.Dragging() != nil:
		return ContextDrag
	case m.picker.Filtering():
		return ContextOutlines
	}
	return ContextTree
}

func (m *Model) renderStatus() string {
	if m.mode == modePrompt {
		return " " + m.prompt.View()
	}
	r := m.theme.Renderer
	counts := fmt.Sprintf("%d nodes · %d visible · %d selected", m.t.Len(), m.view.NodeCount(), m.t.SelectionCount())
	left := m.theme.Status.Render(counts)
	if m.status != "" {
		style := r.NewStyle().Foreground(m.theme.Highlight)
		if m.statusErr {
			style = style.Foreground(m.theme.Danger)
		}
		left += style.Render(m.status)
	}
	return left
}

func (m *Model) renderFooter() string {
	return " " + m.help.View(m.keys)
}

// Tree returns the engine behind the view.
func (m Model) Tree() *tree.Tree {
	return m.t
}

// TreeView returns the tree view.
func (m Model) TreeView() *TreeModel {
	return &m.view
}

// Status returns the status bar message.
func (m Model) Status() string {
	return m.status
}

// Title returns the loaded outline's title.
func (m Model) Title() string {
	return m.title
}

// ShowHelp reports whether the help overlay is open.
func (m Model) ShowHelp() bool {
	return m.showHelp
}

// Mode names the active interaction: tree, move, prompt or confirm.
func (m Model) Mode() string {
	switch m.mode {
	case modeMovePicker:
		return "move"
	case modePrompt:
		return "prompt"
	case modeConfirm:
		return "confirm"
	}
	return "tree"
}

// PendingLoads returns the demo loads scheduled at construction.
func (m Model) PendingLoads() []demo.Load {
	return m.pending
}
