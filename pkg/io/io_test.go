package io

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/matzehuels/familytree/pkg/errors"
	"github.com/matzehuels/familytree/pkg/family"
)

const sample = `{
  "name": "Lee family",
  "people": [
    {"id": "ann", "firstName": "Ann", "lastName": "Lee", "gender": "FEMALE", "birthDate": "1950"},
    {"id": "bob", "firstName": "Bob", "lastName": "Lee", "gender": "male"},
    {"id": "cat", "firstName": "Cat", "lastName": "Lee", "gender": "FEMALE", "nickname": "kitty"}
  ],
  "relationships": [
    {"id": "r1", "source": "ann", "target": "bob", "type": "SPOUSE"},
    {"id": "r2", "source": "ann", "target": "cat", "type": "PARENT"},
    {"id": "r3", "source": "bob", "target": "ghost", "type": "parent"}
  ]
}`

func TestReadTree(t *testing.T) {
	tree, err := ReadTree(strings.NewReader(sample))
	if err != nil {
		t.Fatalf("ReadTree: %v", err)
	}
	if tree.Name != "Lee family" || len(tree.People) != 3 || len(tree.Relationships) != 3 {
		t.Fatalf("tree = %+v", tree)
	}
	if tree.People[1].Gender != family.Male {
		t.Errorf("gender = %q, want MALE", tree.People[1].Gender)
	}
	if tree.Relationships[2].Type != family.Parent {
		t.Errorf("type = %q, want PARENT", tree.Relationships[2].Type)
	}
	if tree.People[0].BirthDate != "1950" {
		t.Errorf("birthDate = %q", tree.People[0].BirthDate)
	}
	// Dangling references are kept for the engine to skip.
	if issues := tree.Validate(); len(issues) != 1 {
		t.Errorf("issues = %v, want one dangling reference", issues)
	}
}

func TestReadTreeRejects(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"malformed", `{"people": [`},
		{"unknown gender", `{"people": [{"id": "a", "gender": "ROBOT"}]}`},
		{"unknown type", `{"people": [], "relationships": [{"id": "r", "source": "a", "target": "b", "type": "COUSIN"}]}`},
		{"missing id", `{"people": [{"firstName": "Ann"}]}`},
		{"missing type", `{"relationships": [{"id": "r", "source": "a", "target": "b"}]}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ReadTree(strings.NewReader(tt.input))
			if !errors.Is(err, errors.ErrCodeInvalidFormat) {
				t.Errorf("err = %v, want INVALID_FORMAT", err)
			}
		})
	}
}

func TestReadTreeEmpty(t *testing.T) {
	tree, err := ReadTree(strings.NewReader(`{}`))
	if err != nil {
		t.Fatalf("ReadTree: %v", err)
	}
	if tree.People == nil || tree.Relationships == nil {
		t.Error("empty arrays should decode as empty slices")
	}
}

func TestImportTree(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "tree.json")
	if err := os.WriteFile(path, []byte(sample), 0o644); err != nil {
		t.Fatal(err)
	}

	tree, err := ImportTree(path)
	if err != nil {
		t.Fatalf("ImportTree: %v", err)
	}

	out := filepath.Join(dir, "out.json")
	if err := ExportTree(tree, out); err != nil {
		t.Fatalf("ExportTree: %v", err)
	}
	again, err := ImportTree(out)
	if err != nil {
		t.Fatalf("re-import: %v", err)
	}
	if len(again.People) != len(tree.People) || again.Relationships[0] != tree.Relationships[0] {
		t.Errorf("round trip changed the tree: %+v", again)
	}
}

func TestImportTreeMissing(t *testing.T) {
	_, err := ImportTree(filepath.Join(t.TempDir(), "missing.json"))
	if !errors.Is(err, errors.ErrCodeFileNotFound) {
		t.Errorf("err = %v, want FILE_NOT_FOUND", err)
	}
}

func TestLayoutRoundTrip(t *testing.T) {
	l := &Layout{
		Name:    "Lee family",
		Width:   800,
		Height:  600,
		Visible: []family.RelationshipType{family.Parent, family.Spouse},
		Ticks:   300,
		Settled: true,
		Nodes: []LayoutNode{
			{ID: "ann", Name: "Ann Lee", Generation: 0, X: 260.5, Y: 220, InitialX: 260, InitialY: 220},
		},
		Edges: []LayoutEdge{
			{ID: "r2", Source: "ann", Target: "cat", Type: family.Parent, Path: "M260,250 C260,300 330,300 330,350"},
		},
	}

	var buf bytes.Buffer
	if err := WriteLayout(l, &buf); err != nil {
		t.Fatalf("WriteLayout: %v", err)
	}
	if !strings.Contains(buf.String(), `"initialX": 260`) {
		t.Errorf("unexpected encoding:\n%s", buf.String())
	}

	got, err := ReadLayout(&buf)
	if err != nil {
		t.Fatalf("ReadLayout: %v", err)
	}
	n, ok := got.Node("ann")
	if !ok || n != l.Nodes[0] {
		t.Errorf("node = %+v, want %+v", n, l.Nodes[0])
	}
	if got.Edges[0] != l.Edges[0] {
		t.Errorf("edge = %+v", got.Edges[0])
	}

	path := filepath.Join(t.TempDir(), "layout.json")
	if err := ExportLayout(l, path); err != nil {
		t.Fatalf("ExportLayout: %v", err)
	}
	if _, err := ImportLayout(path); err != nil {
		t.Fatalf("ImportLayout: %v", err)
	}
}
