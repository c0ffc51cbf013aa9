package family

import (
	"fmt"
	"slices"
	"strings"
)

// TypeSet is a set of relationship types, used as the visibility filter.
// The zero value is an empty set.
type TypeSet map[RelationshipType]struct{}

// AllTypes returns a set containing every relationship type.
func AllTypes() TypeSet { return NewTypeSet(RelationshipTypes...) }

// NewTypeSet builds a set from the given types.
func NewTypeSet(types ...RelationshipType) TypeSet {
	s := make(TypeSet, len(types))
	for _, t := range types {
		s[t] = struct{}{}
	}
	return s
}

// Has reports whether t is in the set.
func (s TypeSet) Has(t RelationshipType) bool {
	_, ok := s[t]
	return ok
}

// Toggle returns a copy of s with t added if absent or removed if present.
func (s TypeSet) Toggle(t RelationshipType) TypeSet {
	out := s.Clone()
	if out.Has(t) {
		delete(out, t)
	} else {
		out[t] = struct{}{}
	}
	return out
}

// Clone returns an independent copy.
func (s TypeSet) Clone() TypeSet {
	out := make(TypeSet, len(s))
	for t := range s {
		out[t] = struct{}{}
	}
	return out
}

// Types returns the members in legend order.
func (s TypeSet) Types() []RelationshipType {
	var out []RelationshipType
	for _, t := range RelationshipTypes {
		if s.Has(t) {
			out = append(out, t)
		}
	}
	return out
}

// String renders the set as a comma-separated list, e.g. "PARENT,SPOUSE".
func (s TypeSet) String() string {
	types := s.Types()
	parts := make([]string, len(types))
	for i, t := range types {
		parts[i] = string(t)
	}
	return strings.Join(parts, ",")
}

// Filter returns the relationships whose type is in the set, preserving order.
func (s TypeSet) Filter(rels []Relationship) []Relationship {
	return slices.DeleteFunc(slices.Clone(rels), func(r Relationship) bool {
		return !s.Has(r.Type)
	})
}

// ParseType accepts a relationship type name in any case.
func ParseType(s string) (RelationshipType, error) {
	t := RelationshipType(strings.ToUpper(strings.TrimSpace(s)))
	if !t.Valid() {
		return "", fmt.Errorf("unknown relationship type %q", s)
	}
	return t, nil
}

// ParseTypeSet parses a comma-separated list such as "parent,spouse".
// Empty elements are ignored.
func ParseTypeSet(s string) (TypeSet, error) {
	out := TypeSet{}
	for _, part := range strings.Split(s, ",") {
		if strings.TrimSpace(part) == "" {
			continue
		}
		t, err := ParseType(part)
		if err != nil {
			return nil, err
		}
		out[t] = struct{}{}
	}
	return out, nil
}
