package ui

import (
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/vanderheijden86/treeview/pkg/config"
	"github.com/vanderheijden86/treeview/pkg/demo"
	"github.com/vanderheijden86/treeview/pkg/loader"
	"github.com/vanderheijden86/treeview/pkg/model"
	"github.com/vanderheijden86/treeview/pkg/tree"
)

// notesDoc is Notes (open) with inbox, archive and todo, where todo holds x.
func notesDoc() *model.Document {
	return &model.Document{
		Title: "Notes",
		Root: &model.Item{Label: "Notes", Open: true, Children: []*model.Item{
			{Label: "inbox"},
			{Label: "archive"},
			{Label: "todo", Children: []*model.Item{{Label: "x"}}},
		}},
	}
}

func newNotesModel(t *testing.T) Model {
	t.Helper()
	m := NewModel(Options{Config: config.Default(), Doc: notesDoc()})
	return update(t, m, tea.WindowSizeMsg{Width: 100, Height: 30})
}

func update(t *testing.T, m Model, msg tea.Msg) Model {
	t.Helper()
	next, _ := m.Update(msg)
	out, ok := next.(Model)
	if !ok {
		t.Fatalf("Update returned %T", next)
	}
	return out
}

func press(t *testing.T, m Model, keys ...string) Model {
	t.Helper()
	for _, k := range keys {
		var msg tea.KeyMsg
		switch k {
		case "enter":
			msg = tea.KeyMsg{Type: tea.KeyEnter}
		case "esc":
			msg = tea.KeyMsg{Type: tea.KeyEsc}
		case " ":
			msg = tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}}
		default:
			msg = tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(k)}
		}
		m = update(t, m, msg)
	}
	return m
}

func nodeByLabel(t *testing.T, tr *tree.Tree, label string) tree.NodeID {
	t.Helper()
	for _, id := range tr.Nodes() {
		if tr.Label(id) == label {
			return id
		}
	}
	t.Fatalf("no node labeled %q", label)
	return tree.None
}

func TestModelBuildsDocument(t *testing.T) {
	m := newNotesModel(t)

	if m.Title() != "Notes" {
		t.Errorf("expected title Notes, got %q", m.Title())
	}
	if m.Tree().Len() != 5 {
		t.Errorf("expected 5 nodes, got %d", m.Tree().Len())
	}
	if got := strings.Join(labels(m.Tree(), m.TreeView().Rows()), ","); got != "inbox,archive,todo" {
		t.Errorf("rows = %s", got)
	}

	view := m.View()
	for _, want := range []string{"Notes", "inbox", "5 nodes · 3 visible · 0 selected"} {
		if !strings.Contains(view, want) {
			t.Errorf("view missing %q:\n%s", want, view)
		}
	}
}

func TestModelInitializing(t *testing.T) {
	m := NewModel(Options{Config: config.Default(), Doc: notesDoc()})
	if m.View() != "Initializing..." {
		t.Errorf("expected placeholder before the first resize, got %q", m.View())
	}
}

func TestModelDemoLoads(t *testing.T) {
	cfg := config.Default()
	cfg.Demo = config.DemoConfig{Folders: 2, Children: 2, Depth: 1, Delay: time.Millisecond}
	m := NewModel(Options{Config: cfg})

	if m.Title() != "Demo" {
		t.Errorf("expected Demo title, got %q", m.Title())
	}
	if m.Tree().Len() != 3 {
		t.Fatalf("expected root and 2 folders, got %d", m.Tree().Len())
	}
	loads := m.PendingLoads()
	if len(loads) != 2 {
		t.Fatalf("expected 2 pending loads, got %d", len(loads))
	}
	if m.Init() == nil {
		t.Error("expected Init to schedule the loads")
	}

	stale := update(t, m, demoLoadMsg{gen: m.gen - 1, load: loads[0]})
	if stale.Tree().Len() != 3 {
		t.Error("loads for a replaced tree must be ignored")
	}

	for _, l := range loads {
		m = update(t, m, demoLoadMsg{gen: m.gen, load: l})
	}
	if got, want := m.Tree().Len(), demo.Expected(cfg.Demo); got != want {
		t.Errorf("expected %d nodes after loading, got %d", want, got)
	}
}

func TestModelSelectionKeys(t *testing.T) {
	m := newNotesModel(t)

	m = press(t, m, "j", " ", "j", "x")
	if got := strings.Join(labels(m.Tree(), m.Tree().SelectedNodes()), ","); got != "archive,todo" {
		t.Errorf("selection = %s, want archive,todo", got)
	}

	m = press(t, m, "g", "X")
	if m.Tree().SelectionCount() != 3 {
		t.Errorf("shift should extend from todo up to inbox, got %d", m.Tree().SelectionCount())
	}

	m = press(t, m, "esc")
	if m.Tree().SelectionCount() != 0 {
		t.Error("esc should clear the selection")
	}
}

func TestModelEnterTogglesOpen(t *testing.T) {
	m := newNotesModel(t)
	todo := nodeByLabel(t, m.Tree(), "todo")

	m = press(t, m, "G", "enter")
	if !m.Tree().IsOpened(todo) {
		t.Fatal("enter should open todo")
	}
	if m.Tree().SelectionCount() != 0 {
		t.Error("enter must not select")
	}
	m = press(t, m, "C")
	if m.Tree().IsOpened(todo) {
		t.Error("C should collapse everything")
	}
	m = press(t, m, "E")
	if !m.Tree().IsOpened(todo) {
		t.Error("E should expand everything")
	}
}

func TestModelPickUpAndDrop(t *testing.T) {
	m := newNotesModel(t)
	tr := m.Tree()
	inbox, todo := nodeByLabel(t, tr, "inbox"), nodeByLabel(t, tr, "todo")

	m = press(t, m, "m", "G", "p")
	if tr.Parent(inbox) != todo {
		t.Fatalf("expected inbox under todo")
	}
	if !strings.Contains(m.Status(), `moved "inbox" to "todo" at 1`) {
		t.Errorf("unexpected status %q", m.Status())
	}
	if m.TreeView().CursorNode() != inbox {
		t.Error("cursor should follow the moved node")
	}
}

func TestModelDropRejected(t *testing.T) {
	m := newNotesModel(t)
	tr := m.Tree()
	todo := nodeByLabel(t, tr, "todo")

	// pick up todo, open it and try to drop it into its own child
	m = press(t, m, "G", "m", "l", "l", "p")
	if m.Status() != "drop not allowed" {
		t.Errorf("unexpected status %q", m.Status())
	}
	if tr.Parent(todo) != tr.Root() {
		t.Error("rejected drop must leave todo in place")
	}
	if m.TreeView().Dragging() != nil {
		t.Error("the drag ends after a rejected drop")
	}
}

func TestModelDropAfter(t *testing.T) {
	m := newNotesModel(t)
	tr := m.Tree()

	m = press(t, m, "G", "m", "g", "a")
	if got := strings.Join(labels(tr, tr.Children(tr.Root())), ","); got != "inbox,todo,archive" {
		t.Errorf("children = %s, want inbox,todo,archive", got)
	}
}

func TestModelCancelDrag(t *testing.T) {
	m := newNotesModel(t)
	m = press(t, m, "m")
	if m.TreeView().Dragging() == nil {
		t.Fatal("expected a drag")
	}
	m = press(t, m, "esc")
	if m.TreeView().Dragging() != nil {
		t.Error("esc should cancel the drag")
	}
}

func TestModelMovePicker(t *testing.T) {
	m := newNotesModel(t)
	tr := m.Tree()
	archive := nodeByLabel(t, tr, "archive")

	m = press(t, m, "j", "M")
	if m.Mode() != "move" {
		t.Fatalf("expected move mode, got %s", m.Mode())
	}
	if !strings.Contains(m.View(), "Move “archive” into") {
		t.Errorf("expected the move picker:\n%s", m.View())
	}
	// targets: Notes, inbox, archive, todo, x; starts on Notes
	m = press(t, m, "j", "enter")
	if m.Mode() != "tree" {
		t.Errorf("expected tree mode after enter, got %s", m.Mode())
	}
	if tr.Parent(archive) != nodeByLabel(t, tr, "inbox") {
		t.Error("expected archive under inbox")
	}
}

func TestModelMovePickerCancel(t *testing.T) {
	m := newNotesModel(t)
	m = press(t, m, "M", "esc")
	if m.Mode() != "tree" || m.TreeView().Dragging() != nil {
		t.Error("esc should close the picker and cancel the drag")
	}
}

func TestModelRename(t *testing.T) {
	m := newNotesModel(t)
	inbox := nodeByLabel(t, m.Tree(), "inbox")

	m = press(t, m, "r")
	if m.Mode() != "prompt" {
		t.Fatalf("expected prompt mode, got %s", m.Mode())
	}
	m = press(t, m, "2", "enter")
	if got := m.Tree().Label(inbox); got != "inbox2" {
		t.Errorf("expected inbox2, got %q", got)
	}
}

func TestModelRenameCancel(t *testing.T) {
	m := newNotesModel(t)
	inbox := nodeByLabel(t, m.Tree(), "inbox")

	m = press(t, m, "r", "z", "esc")
	if m.Mode() != "tree" || m.Tree().Label(inbox) != "inbox" {
		t.Error("esc should discard the edit")
	}
}

func TestModelAddChild(t *testing.T) {
	m := newNotesModel(t)
	inbox := nodeByLabel(t, m.Tree(), "inbox")

	m = press(t, m, "n", "call bob", "enter")
	children := m.Tree().Children(inbox)
	if len(children) != 1 || m.Tree().Label(children[0]) != "call bob" {
		t.Fatalf("expected new child under inbox, got %v", labels(m.Tree(), children))
	}
	if m.TreeView().CursorNode() != children[0] {
		t.Error("cursor should move to the new node")
	}
}

func TestModelAddEmptyLabel(t *testing.T) {
	m := newNotesModel(t)
	m = press(t, m, "n", "enter")
	if m.Tree().Len() != 5 {
		t.Error("an empty label must not create a node")
	}
	if !m.statusErr {
		t.Error("expected an error status")
	}
}

func TestModelDeleteCancel(t *testing.T) {
	m := newNotesModel(t)
	m = press(t, m, "G", "d")
	if m.Mode() != "confirm" {
		t.Fatalf("expected confirm mode, got %s", m.Mode())
	}
	if m.doomed != nodeByLabel(t, m.Tree(), "todo") {
		t.Error("expected todo to be the node up for deletion")
	}
	m = press(t, m, "esc")
	if m.Mode() != "tree" || m.Tree().Len() != 5 {
		t.Error("esc should cancel the delete")
	}
}

func TestModelPasteCreatesNodes(t *testing.T) {
	m := newNotesModel(t)
	tr := m.Tree()
	inbox := nodeByLabel(t, tr, "inbox")

	m = update(t, m, pasteMsg{text: "alpha\n\nbeta\n"})
	if m.TreeView().Dragging() == nil {
		t.Fatal("pasted text should be carried")
	}
	m = press(t, m, "p")

	if got := strings.Join(labels(tr, tr.Children(inbox)), ","); got != "alpha,beta" {
		t.Errorf("inbox children = %s, want alpha,beta", got)
	}
	if tr.Label(m.TreeView().CursorNode()) != "beta" {
		t.Error("cursor should land on the last pasted node")
	}
}

func TestModelPasteIntoEmptyTree(t *testing.T) {
	m := newNotesModel(t)
	tr := m.Tree()
	if err := tr.Remove(tr.Root()); err != nil {
		t.Fatalf("Remove: %v", err)
	}
	if !strings.Contains(m.View(), "No nodes to display.") {
		t.Errorf("expected empty state:\n%s", m.View())
	}

	m = update(t, m, pasteMsg{text: "first\nsecond"})
	m = press(t, m, "p")

	if tr.Len() != 2 || tr.Label(tr.Root()) != "first" {
		t.Fatalf("expected first as the new root, got %d nodes", tr.Len())
	}
	if got := labels(tr, tr.Children(tr.Root())); len(got) != 1 || got[0] != "second" {
		t.Errorf("expected second under first, got %v", got)
	}
}

func TestModelPasteEmptyClipboard(t *testing.T) {
	m := newNotesModel(t)
	m = update(t, m, pasteMsg{text: "  \n"})
	if m.TreeView().Dragging() != nil {
		t.Error("blank clipboard must not start a drag")
	}
}

func TestModelHelpOverlay(t *testing.T) {
	m := newNotesModel(t)
	m = press(t, m, "?")
	if !m.ShowHelp() {
		t.Fatal("expected help overlay")
	}
	if !strings.Contains(m.View(), "Quick Reference") {
		t.Errorf("expected help modal:\n%s", m.View())
	}
	m = press(t, m, "j")
	if m.TreeView().Cursor() != 0 {
		t.Error("keys must not reach the tree while help is shown")
	}
	m = press(t, m, "?")
	if m.ShowHelp() {
		t.Error("? should close the help")
	}
}

func TestModelMouse(t *testing.T) {
	m := newNotesModel(t)
	header := m.headerHeight()
	todo := nodeByLabel(t, m.Tree(), "todo")

	click := func(m Model, x, y int, ctrl bool) Model {
		return update(t, m, tea.MouseMsg{X: x, Y: y, Ctrl: ctrl, Button: tea.MouseButtonLeft, Action: tea.MouseActionPress})
	}

	m = click(m, 4, header, false)
	m = click(m, 4, header+1, true)
	if m.Tree().SelectionCount() != 2 {
		t.Errorf("expected 2 selected, got %d", m.Tree().SelectionCount())
	}

	// indicator of todo sits in column 0
	m = click(m, 0, header+2, false)
	if !m.Tree().IsOpened(todo) {
		t.Error("clicking the indicator should open todo")
	}

	m.lastClickAt = time.Time{}
	m = click(m, 4, header+2, false)
	m = click(m, 4, header+2, false)
	if m.Tree().IsOpened(todo) {
		t.Error("double click should close todo")
	}

	m = update(t, m, tea.MouseMsg{X: 4, Y: header + 1, Button: tea.MouseButtonNone, Action: tea.MouseActionMotion})
	if !m.Tree().IsActive(nodeByLabel(t, m.Tree(), "archive")) {
		t.Error("motion should mark the hovered row active")
	}

	m = update(t, m, tea.MouseMsg{Button: tea.MouseButtonWheelDown, Action: tea.MouseActionPress})
	if m.TreeView().Cursor() != 3 && m.TreeView().Cursor() != 2 {
		t.Errorf("wheel should move the cursor, got %d", m.TreeView().Cursor())
	}
}

func TestModelOutlineSwitch(t *testing.T) {
	dir := t.TempDir()
	path := writeOutline(t, dir, sampleOutline)
	outlines := []config.Outline{{Name: "notes", Path: path}}

	m := NewModel(Options{Config: config.Default(), Outlines: outlines})
	m = update(t, m, tea.WindowSizeMsg{Width: 100, Height: 30})

	next, cmd := m.Update(keyRunes("1"))
	m = next.(Model)
	if cmd == nil {
		t.Fatal("expected a switch command")
	}
	next, cmd = m.Update(cmd())
	m = next.(Model)
	if cmd == nil {
		t.Fatal("expected a load command")
	}
	m = update(t, m, cmd())

	if m.Title() != "Notes" || m.Tree().Len() != 3 {
		t.Errorf("expected the Notes outline, got %q with %d nodes", m.Title(), m.Tree().Len())
	}
	if !strings.Contains(m.View(), "outlines(notes)") {
		t.Errorf("expected the active outline in the header:\n%s", m.View())
	}
}

func TestModelReloadKeepsOpenState(t *testing.T) {
	dir := t.TempDir()
	body := sampleOutline + "    - label: later\n      children:\n        - label: deep\n"
	path := writeOutline(t, dir, body)
	doc, err := loader.LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile: %v", err)
	}

	m := NewModel(Options{Config: config.Default(), Doc: doc, Active: path})
	m = update(t, m, tea.WindowSizeMsg{Width: 100, Height: 30})
	m = press(t, m, "G", "enter", "j")
	if m.Tree().Label(m.TreeView().CursorNode()) != "deep" {
		t.Fatalf("expected cursor on deep, got %s", m.Tree().Label(m.TreeView().CursorNode()))
	}

	fresh, err := loader.LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile: %v", err)
	}
	old := m.Tree()
	m = update(t, m, OutlineReloadedMsg{Snapshot: &OutlineSnapshot{Docs: []*model.Document{fresh}}})

	if m.Tree() == old {
		t.Fatal("expected a rebuilt tree")
	}
	if !m.Tree().IsOpened(nodeByLabel(t, m.Tree(), "later")) {
		t.Error("open branches should survive the reload")
	}
	if m.Tree().Label(m.TreeView().CursorNode()) != "deep" {
		t.Errorf("cursor should stay on deep, got %s", m.Tree().Label(m.TreeView().CursorNode()))
	}
}

func TestModelReloadError(t *testing.T) {
	m := newNotesModel(t)
	m = update(t, m, ReloadErrorMsg{Err: WorkerError{Phase: "load", Cause: errTest}})
	if !strings.Contains(m.Status(), "load failed") {
		t.Errorf("unexpected status %q", m.Status())
	}
}

func TestModelReloadWithoutFile(t *testing.T) {
	m := newNotesModel(t)
	m = press(t, m, "R")
	if !m.statusErr {
		t.Error("reloading a tree without a file should report an error")
	}
}

func TestModelQuit(t *testing.T) {
	m := newNotesModel(t)
	_, cmd := m.Update(keyRunes("q"))
	if cmd == nil {
		t.Fatal("expected quit command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("q should quit")
	}
}

type testError string

func (e testError) Error() string { return string(e) }

const errTest = testError("boom")
