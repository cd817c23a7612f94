package model

import (
	"fmt"
	"strings"
)

// Item is one node of a nested outline
type Item struct {
	Label    string  `json:"label" yaml:"label"`
	Open     bool    `json:"open,omitempty" yaml:"open,omitempty"`
	Children []*Item `json:"children,omitempty" yaml:"children,omitempty"`
}

// Clone creates a deep copy of the item and its children
func (i *Item) Clone() *Item {
	if i == nil {
		return nil
	}
	clone := &Item{Label: i.Label, Open: i.Open}
	if i.Children != nil {
		clone.Children = make([]*Item, len(i.Children))
		for idx, child := range i.Children {
			clone.Children[idx] = child.Clone()
		}
	}
	return clone
}

// Count returns the number of items in the subtree, including i
func (i *Item) Count() int {
	if i == nil {
		return 0
	}
	n := 1
	for _, c := range i.Children {
		n += c.Count()
	}
	return n
}

// Record is a row of a flat outline: nodes reference their parent by ID.
// An empty Parent makes the record a child of the document root.
type Record struct {
	ID     string `json:"id" yaml:"id"`
	Parent string `json:"parent,omitempty" yaml:"parent,omitempty"`
	Label  string `json:"label" yaml:"label"`
	Open   bool   `json:"open,omitempty" yaml:"open,omitempty"`
}

// Format distinguishes the two document shapes
type Format string

const (
	FormatNested Format = "nested"
	FormatFlat   Format = "flat"
)

// Document is a decoded outline file. Exactly one of Root or Records is set.
type Document struct {
	Title   string   `json:"title,omitempty" yaml:"title,omitempty"`
	Root    *Item    `json:"root,omitempty" yaml:"root,omitempty"`
	Records []Record `json:"records,omitempty" yaml:"records,omitempty"`

	// Source is the file the document was read from; not serialized
	Source string `json:"-" yaml:"-"`
}

// Format reports which shape the document uses
func (d *Document) Format() Format {
	if d.Root != nil {
		return FormatNested
	}
	return FormatFlat
}

// Validate checks if the document is structurally valid.
// Parent cycles in flat records are checked by the analysis package.
func (d *Document) Validate() error {
	switch {
	case d.Root != nil && len(d.Records) > 0:
		return fmt.Errorf("document cannot have both root and records")
	case d.Root == nil && len(d.Records) == 0:
		return fmt.Errorf("document has neither root nor records")
	case d.Root != nil:
		return validateItem(d.Root, nil)
	}

	seen := make(map[string]bool, len(d.Records))
	for idx, r := range d.Records {
		if r.ID == "" {
			return fmt.Errorf("record %d: id cannot be empty", idx)
		}
		if r.Label == "" {
			return fmt.Errorf("record %s: label cannot be empty", r.ID)
		}
		if r.Parent == r.ID {
			return fmt.Errorf("record %s: cannot be its own parent", r.ID)
		}
		if seen[r.ID] {
			return fmt.Errorf("duplicate record id: %s", r.ID)
		}
		seen[r.ID] = true
	}
	return nil
}

func validateItem(i *Item, path []string) error {
	if i == nil {
		return fmt.Errorf("nil item under %q", strings.Join(path, " / "))
	}
	if i.Label == "" {
		if len(path) == 0 {
			return fmt.Errorf("root label cannot be empty")
		}
		return fmt.Errorf("item under %q: label cannot be empty", strings.Join(path, " / "))
	}
	path = append(path, i.Label)
	for _, c := range i.Children {
		if err := validateItem(c, path); err != nil {
			return err
		}
	}
	return nil
}

// Count returns the number of nodes the document describes, excluding the
// implicit root of flat documents
func (d *Document) Count() int {
	if d.Root != nil {
		return d.Root.Count()
	}
	return len(d.Records)
}
