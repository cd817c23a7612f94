package export

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/vanderheijden86/treeview/pkg/analysis"
	"github.com/vanderheijden86/treeview/pkg/tree"
)

// maxMermaidNodes caps the structure diagram; larger trees only get the list.
const maxMermaidNodes = 150

// MarkdownOptions tune GenerateMarkdown
type MarkdownOptions struct {
	Title       string
	VisibleOnly bool      // skip the children of closed nodes
	Now         time.Time // generation timestamp; zero means time.Now()
}

// GenerateMarkdown creates a markdown report of the subtree under root: a
// summary, a nested outline and, for small trees, a Mermaid diagram.
func GenerateMarkdown(t *tree.Tree, root tree.NodeID, opts MarkdownOptions) string {
	var sb strings.Builder

	title := opts.Title
	if title == "" {
		title = t.Label(root)
	}
	now := opts.Now
	if now.IsZero() {
		now = time.Now()
	}

	// Header
	sb.WriteString(fmt.Sprintf("# %s\n\n", title))
	sb.WriteString(fmt.Sprintf("Generated: %s\n\n", now.Format(time.RFC1123)))

	// Summary
	stats := analysis.ComputeFrom(t, root)
	sb.WriteString("## Summary\n\n")
	sb.WriteString(fmt.Sprintf("- **Nodes**: %d\n", stats.Nodes))
	sb.WriteString(fmt.Sprintf("- **Branches**: %d\n", stats.Branches))
	sb.WriteString(fmt.Sprintf("- **Leaves**: %d\n", stats.Leaves))
	sb.WriteString(fmt.Sprintf("- **Depth**: %d\n", stats.MaxDepth))
	if stats.Selected > 0 {
		sb.WriteString(fmt.Sprintf("- **Selected**: %d\n", stats.Selected))
	}
	sb.WriteString("\n")

	// Outline
	sb.WriteString("## Outline\n\n")
	base := t.Level(root)
	t.Walk(root, func(id tree.NodeID, _ int) bool {
		indent := strings.Repeat("  ", t.Level(id)-base)
		mark := ""
		if t.IsSelected(id) {
			mark = " ✓"
		}
		sb.WriteString(fmt.Sprintf("%s- %s%s\n", indent, escapeMarkdown(t.Label(id)), mark))
		return !opts.VisibleOnly || t.IsOpened(id)
	})
	sb.WriteString("\n")

	// Structure diagram (Mermaid)
	if stats.Nodes <= maxMermaidNodes {
		sb.WriteString("## Structure\n\n")
		sb.WriteString("```mermaid\ngraph TD\n")
		t.Walk(root, func(id tree.NodeID, _ int) bool {
			sb.WriteString(fmt.Sprintf("    n%d[\"%s\"]\n", id, mermaidLabel(t.Label(id))))
			for _, c := range t.Children(id) {
				sb.WriteString(fmt.Sprintf("    n%d --> n%d\n", id, c))
			}
			return true
		})
		sb.WriteString("```\n")
	}

	return sb.String()
}

// SaveMarkdownToFile writes the generated markdown to a file
func SaveMarkdownToFile(t *tree.Tree, root tree.NodeID, opts MarkdownOptions, filename string) error {
	return os.WriteFile(filename, []byte(GenerateMarkdown(t, root, opts)), 0644)
}

func escapeMarkdown(s string) string {
	r := strings.NewReplacer(`\`, `\\`, "*", `\*`, "_", `\_`, "`", "\\`", "[", `\[`, "]", `\]`)
	return r.Replace(s)
}

// mermaidLabel sanitizes a label for use inside a quoted Mermaid node.
func mermaidLabel(s string) string {
	s = strings.ReplaceAll(s, "\"", "'")
	s = strings.NewReplacer("[", "", "]", "", "(", "", ")", "").Replace(s)
	if r := []rune(s); len(r) > 30 {
		s = string(r[:27]) + "..."
	}
	return s
}
