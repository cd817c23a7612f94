package config

import (
	"os"
	"path/filepath"
	"strings"
)

// DiscoverOutlines scans the discovery paths for outline files and returns
// them merged with the registered outlines, preferring the registered name
// when a path matches.
func DiscoverOutlines(cfg Config) []Outline {
	seen := make(map[string]bool)
	var result []Outline

	// Start with registered outlines
	for _, o := range cfg.Outlines {
		resolved := o.ResolvedPath()
		seen[resolved] = true
		result = append(result, o)
	}

	patterns := cfg.Discovery.Patterns
	if len(patterns) == 0 {
		patterns = DefaultPatterns()
	}
	maxDepth := cfg.Discovery.MaxDepth
	if maxDepth <= 0 {
		maxDepth = 3
	}

	for _, scanPath := range cfg.Discovery.ScanPaths {
		for _, f := range scanForOutlines(scanPath, maxDepth, patterns) {
			if !seen[f] {
				seen[f] = true
				result = append(result, Outline{
					Name: outlineName(f),
					Path: f,
				})
			}
		}
	}

	return result
}

// outlineName strips the directory and the ".outline.<ext>" suffix.
func outlineName(path string) string {
	name := filepath.Base(path)
	name = strings.TrimSuffix(name, filepath.Ext(name))
	return strings.TrimSuffix(name, ".outline")
}

// scanForOutlines walks a directory tree up to maxDepth levels deep,
// collecting files whose names match one of patterns.
func scanForOutlines(root string, maxDepth int, patterns []string) []string {
	root = expandHome(root)
	var results []string

	rootDepth := strings.Count(filepath.Clean(root), string(filepath.Separator))

	_ = filepath.WalkDir(root, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return filepath.SkipDir
		}

		currentDepth := strings.Count(filepath.Clean(path), string(filepath.Separator)) - rootDepth
		if d.IsDir() {
			if currentDepth > maxDepth {
				return filepath.SkipDir
			}
			// Skip hidden directories
			if path != root && strings.HasPrefix(d.Name(), ".") {
				return filepath.SkipDir
			}
			return nil
		}

		for _, p := range patterns {
			if ok, _ := filepath.Match(p, d.Name()); ok {
				results = append(results, path)
				break
			}
		}
		return nil
	})

	return results
}

// DetectProjectRoot attempts to find the directory holding .treeview/ by
// walking up from the current directory.
func DetectProjectRoot() (string, bool) {
	dir, err := os.Getwd()
	if err != nil {
		return "", false
	}
	return findConfigRoot(dir)
}

// findConfigRoot walks up from dir looking for .treeview/config.yaml.
func findConfigRoot(dir string) (string, bool) {
	home, _ := os.UserHomeDir()

	for {
		candidate := filepath.Join(dir, dirName, fileName)
		if info, err := os.Stat(candidate); err == nil && !info.IsDir() {
			return dir, true
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			break // Reached filesystem root
		}
		// Don't go above home directory
		if home != "" && dir == home {
			break
		}
		dir = parent
	}
	return "", false
}
