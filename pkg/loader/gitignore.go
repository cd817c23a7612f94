package loader

import (
	"bufio"
	"os"
	"path/filepath"
	"strings"
)

// EnsureIgnored ensures that dir (a path relative to projectDir, such as
// ".treeview/logs") is listed in the project's .gitignore file.
//
// The function is idempotent and safe to call multiple times.
// It will:
//   - Create .gitignore if it doesn't exist
//   - Add "<dir>/" if no line already covers it (dir, dir/, dir/*, dir/**)
//   - Preserve existing file content and formatting
func EnsureIgnored(projectDir, dir string) error {
	if projectDir == "" {
		var err error
		projectDir, err = os.Getwd()
		if err != nil {
			return err
		}
	}
	dir = strings.Trim(filepath.ToSlash(dir), "/")

	gitignorePath := filepath.Join(projectDir, ".gitignore")

	alreadyPresent, err := isIgnored(gitignorePath, dir)
	if err != nil && !os.IsNotExist(err) {
		return err
	}
	if alreadyPresent {
		return nil
	}

	return appendToGitignore(gitignorePath, dir+"/")
}

// isIgnored checks if dir is already covered by the .gitignore file.
func isIgnored(path, dir string) (bool, error) {
	file, err := os.Open(path)
	if err != nil {
		return false, err
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		// Skip empty lines and comments
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		if matchesDirPattern(line, dir) {
			return true, nil
		}
	}

	return false, scanner.Err()
}

// matchesDirPattern checks if a gitignore line covers dir.
func matchesDirPattern(line, dir string) bool {
	normalized := strings.TrimPrefix(line, "/")

	for _, suffix := range []string{"", "/", "/*", "/**", "/**/*"} {
		if normalized == dir+suffix {
			return true
		}
	}
	return false
}

// appendToGitignore appends a pattern to the .gitignore file.
// It creates the file if it doesn't exist.
// It ensures there's a newline before the pattern if the file doesn't end with one.
func appendToGitignore(path string, pattern string) error {
	content, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return err
	}

	file, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return err
	}
	defer file.Close()

	var toWrite string
	if len(content) == 0 {
		toWrite = "# treeview local logs\n" + pattern + "\n"
	} else {
		if content[len(content)-1] != '\n' {
			toWrite = "\n"
		}
		toWrite += "\n# treeview local logs\n" + pattern + "\n"
	}

	_, err = file.WriteString(toWrite)
	return err
}
