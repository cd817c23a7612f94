// Package loader reads outline files and builds them into trees.
package loader

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/goccy/go-json"
	"golang.org/x/sync/errgroup"
	"gopkg.in/yaml.v3"

	"github.com/vanderheijden86/treeview/pkg/logger"
	"github.com/vanderheijden86/treeview/pkg/model"
)

// maxConcurrentLoads bounds the number of files read at once.
const maxConcurrentLoads = 8

// Decode parses outline data. ext selects the format: ".json", ".yaml" or ".yml".
func Decode(data []byte, ext string) (*model.Document, error) {
	var doc model.Document
	switch strings.ToLower(ext) {
	case ".json":
		if err := json.Unmarshal(data, &doc); err != nil {
			return nil, fmt.Errorf("decoding JSON outline: %w", err)
		}
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &doc); err != nil {
			return nil, fmt.Errorf("decoding YAML outline: %w", err)
		}
	default:
		return nil, fmt.Errorf("unsupported outline format %q", ext)
	}
	return &doc, nil
}

// LoadFile reads, decodes and validates one outline file.
func LoadFile(path string) (*model.Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	doc, err := Decode(data, filepath.Ext(path))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	if err := doc.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	doc.Source = path
	if doc.Title == "" {
		doc.Title = documentName(path)
	}
	logger.Debug("outline loaded", "path", path, "format", doc.Format(), "nodes", doc.Count())
	return doc, nil
}

// LoadFiles loads several outline files concurrently. Results keep the order
// of paths; the first failure cancels the rest.
func LoadFiles(ctx context.Context, paths []string) ([]*model.Document, error) {
	docs := make([]*model.Document, len(paths))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(maxConcurrentLoads)
	for i, path := range paths {
		i, path := i, path
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			doc, err := LoadFile(path)
			if err != nil {
				return err
			}
			docs[i] = doc
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return docs, nil
}

// documentName strips the directory and the ".outline.<ext>" suffix.
func documentName(path string) string {
	name := filepath.Base(path)
	name = strings.TrimSuffix(name, filepath.Ext(name))
	return strings.TrimSuffix(name, ".outline")
}
