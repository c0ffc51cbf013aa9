package io

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/matzehuels/familytree/pkg/errors"
	"github.com/matzehuels/familytree/pkg/family"
)

// ReadTree decodes a JSON tree from r. Unknown fields are ignored; unknown
// enum values and malformed JSON fail with INVALID_FORMAT. Missing arrays
// decode as empty. ReadTree does not close r.
func ReadTree(r io.Reader) (*family.Tree, error) {
	var t family.Tree
	if err := json.NewDecoder(r).Decode(&t); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "decode tree")
	}
	for i, p := range t.People {
		if p.ID == "" {
			return nil, errors.New(errors.ErrCodeInvalidFormat, "person %d has no id", i)
		}
	}
	for i, rel := range t.Relationships {
		if rel.Type == "" {
			return nil, errors.New(errors.ErrCodeInvalidFormat, "relationship %d has no type", i)
		}
	}
	if t.People == nil {
		t.People = []family.Person{}
	}
	if t.Relationships == nil {
		t.Relationships = []family.Relationship{}
	}
	return &t, nil
}

// ImportTree reads the JSON tree at path.
func ImportTree(path string) (*family.Tree, error) {
	f, err := os.Open(path)
	if os.IsNotExist(err) {
		return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "tree %s", path)
	}
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	t, err := ReadTree(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return t, nil
}

// WriteTree encodes t as indented JSON.
func WriteTree(t *family.Tree, w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(t); err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	return nil
}

// ExportTree writes t to path, replacing any existing file.
func ExportTree(t *family.Tree, path string) error {
	return writeFile(path, func(w io.Writer) error { return WriteTree(t, w) })
}

func writeFile(path string, write func(io.Writer) error) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if err := write(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
