package io

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/matzehuels/familytree/pkg/errors"
	"github.com/matzehuels/familytree/pkg/family"
)

// Layout is a settled chart.
type Layout struct {
	Name    string                    `json:"name,omitempty"`
	Width   float64                   `json:"width"`
	Height  float64                   `json:"height"`
	Visible []family.RelationshipType `json:"visible"`

	// Ticks is the number of simulation steps run; Settled is false when
	// the tick limit stopped the simulation first.
	Ticks   int     `json:"ticks"`
	Alpha   float64 `json:"alpha"`
	Settled bool    `json:"settled"`

	// LevelsConverged is false when the generation resolver hit its pass
	// limit on cyclic input.
	LevelsConverged bool `json:"levelsConverged"`

	Nodes []LayoutNode `json:"nodes"`
	Edges []LayoutEdge `json:"edges"`
}

// LayoutNode is one person's position.
type LayoutNode struct {
	ID         string  `json:"id"`
	Name       string  `json:"name"`
	Generation int     `json:"generation"`
	X          float64 `json:"x"`
	Y          float64 `json:"y"`
	InitialX   float64 `json:"initialX"`
	InitialY   float64 `json:"initialY"`
}

// LayoutEdge is one drawn relationship.
type LayoutEdge struct {
	ID     string                  `json:"id"`
	Source string                  `json:"source"`
	Target string                  `json:"target"`
	Type   family.RelationshipType `json:"type"`
	Path   string                  `json:"path"`
}

// Node returns the entry for id.
func (l *Layout) Node(id string) (LayoutNode, bool) {
	for _, n := range l.Nodes {
		if n.ID == id {
			return n, true
		}
	}
	return LayoutNode{}, false
}

// WriteLayout encodes l as indented JSON.
func WriteLayout(l *Layout, w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(l); err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	return nil
}

// MarshalLayout returns the JSON encoding of l.
func MarshalLayout(l *Layout) ([]byte, error) {
	return json.MarshalIndent(l, "", "  ")
}

// ReadLayout decodes a layout written by [WriteLayout].
func ReadLayout(r io.Reader) (*Layout, error) {
	var l Layout
	if err := json.NewDecoder(r).Decode(&l); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "decode layout")
	}
	return &l, nil
}

// ExportLayout writes l to path, replacing any existing file.
func ExportLayout(l *Layout, path string) error {
	return writeFile(path, func(w io.Writer) error { return WriteLayout(l, w) })
}

// ImportLayout reads the layout at path.
func ImportLayout(path string) (*Layout, error) {
	f, err := os.Open(path)
	if os.IsNotExist(err) {
		return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "layout %s", path)
	}
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	return ReadLayout(f)
}
