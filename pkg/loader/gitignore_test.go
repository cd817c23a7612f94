package loader

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

const logsDir = ".treeview/logs"

func TestMatchesDirPattern(t *testing.T) {
	tests := []struct {
		line    string
		matches bool
	}{
		{".treeview/logs", true},
		{".treeview/logs/", true},
		{".treeview/logs/*", true},
		{".treeview/logs/**", true},
		{".treeview/logs/**/*", true},
		{"/.treeview/logs/", true}, // Leading slash should be normalized

		{"", false},
		{".treeview/logs2", false},
		{"treeview/logs/", false},
		{".treeview/", false},
		{"*.log", false},
	}

	for _, tt := range tests {
		t.Run(tt.line, func(t *testing.T) {
			got := matchesDirPattern(tt.line, logsDir)
			if got != tt.matches {
				t.Errorf("matchesDirPattern(%q) = %v, want %v", tt.line, got, tt.matches)
			}
		})
	}
}

func TestIsIgnored(t *testing.T) {
	tests := []struct {
		name     string
		content  string
		expected bool
	}{
		{"empty file", "", false},
		{"has dir", "node_modules/\n.treeview/logs/\n*.log\n", true},
		{"commented out", "# .treeview/logs/\n", false},
		{"different pattern", ".beads/\nnode_modules/\n", false},
		{"with whitespace", "  .treeview/logs  \n", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gitignorePath := filepath.Join(t.TempDir(), ".gitignore")
			if err := os.WriteFile(gitignorePath, []byte(tt.content), 0644); err != nil {
				t.Fatalf("failed to write test file: %v", err)
			}

			got, err := isIgnored(gitignorePath, logsDir)
			if err != nil {
				t.Fatalf("isIgnored() error = %v", err)
			}
			if got != tt.expected {
				t.Errorf("isIgnored() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestIsIgnored_FileNotExists(t *testing.T) {
	_, err := isIgnored(filepath.Join(t.TempDir(), ".gitignore"), logsDir)
	if !os.IsNotExist(err) {
		t.Errorf("expected IsNotExist error, got %v", err)
	}
}

func TestAppendToGitignore(t *testing.T) {
	tests := []struct {
		name            string
		existingContent string
		wantPrefix      string
	}{
		{"new file", "", "#"},
		{"existing file with newline", "node_modules/\n", "node_modules/\n\n#"},
		{"existing file without trailing newline", "node_modules/", "node_modules/\n\n#"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gitignorePath := filepath.Join(t.TempDir(), ".gitignore")
			if tt.existingContent != "" {
				if err := os.WriteFile(gitignorePath, []byte(tt.existingContent), 0644); err != nil {
					t.Fatalf("failed to write existing file: %v", err)
				}
			}

			if err := appendToGitignore(gitignorePath, logsDir+"/"); err != nil {
				t.Fatalf("appendToGitignore() error = %v", err)
			}

			content, err := os.ReadFile(gitignorePath)
			if err != nil {
				t.Fatalf("failed to read result: %v", err)
			}
			if !strings.Contains(string(content), "# treeview local logs\n.treeview/logs/\n") {
				t.Errorf("missing pattern block, got:\n%s", content)
			}
			if !strings.HasPrefix(string(content), tt.wantPrefix) {
				t.Errorf("expected file to start with %q, got:\n%s", tt.wantPrefix, content)
			}
		})
	}
}

func TestEnsureIgnored(t *testing.T) {
	t.Run("creates gitignore if not exists", func(t *testing.T) {
		tmpDir := t.TempDir()
		if err := EnsureIgnored(tmpDir, logsDir); err != nil {
			t.Fatalf("EnsureIgnored() error = %v", err)
		}
		content, err := os.ReadFile(filepath.Join(tmpDir, ".gitignore"))
		if err != nil {
			t.Fatalf("failed to read .gitignore: %v", err)
		}
		if !strings.Contains(string(content), ".treeview/logs/") {
			t.Errorf("expected pattern in .gitignore, got:\n%s", content)
		}
	})

	t.Run("idempotent", func(t *testing.T) {
		tmpDir := t.TempDir()
		for i := 0; i < 3; i++ {
			if err := EnsureIgnored(tmpDir, "/"+logsDir+"/"); err != nil {
				t.Fatalf("EnsureIgnored() error = %v", err)
			}
		}
		content, err := os.ReadFile(filepath.Join(tmpDir, ".gitignore"))
		if err != nil {
			t.Fatal(err)
		}
		if count := strings.Count(string(content), ".treeview/logs/"); count != 1 {
			t.Errorf("expected exactly 1 occurrence, got %d:\n%s", count, content)
		}
	})

	t.Run("uses current dir", func(t *testing.T) {
		tmpDir := t.TempDir()
		origDir, err := os.Getwd()
		if err != nil {
			t.Fatal(err)
		}
		if err := os.Chdir(tmpDir); err != nil {
			t.Fatal(err)
		}
		t.Cleanup(func() { _ = os.Chdir(origDir) })
		if err := EnsureIgnored("", logsDir); err != nil {
			t.Fatalf("EnsureIgnored() error = %v", err)
		}
		if _, err := os.Stat(filepath.Join(tmpDir, ".gitignore")); err != nil {
			t.Errorf("expected .gitignore in current dir: %v", err)
		}
	})
}
