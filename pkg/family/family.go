package family

import (
	"encoding/json"
	"fmt"
	"slices"
	"strings"

	"github.com/google/uuid"
)

// Gender of a person. It only affects node color.
type Gender string

const (
	Male   Gender = "MALE"
	Female Gender = "FEMALE"
	Other  Gender = "OTHER"
)

// Valid reports whether g is one of the known genders.
func (g Gender) Valid() bool {
	switch g {
	case Male, Female, Other:
		return true
	}
	return false
}

// UnmarshalJSON rejects unknown gender values.
func (g *Gender) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	v := Gender(strings.ToUpper(s))
	if !v.Valid() {
		return fmt.Errorf("unknown gender %q", s)
	}
	*g = v
	return nil
}

// RelationshipType classifies an edge between two people.
type RelationshipType string

const (
	// Parent is directed: Source is the parent, Target the child.
	Parent RelationshipType = "PARENT"
	// Spouse is undirected; the stored order carries no meaning.
	Spouse RelationshipType = "SPOUSE"
	// Sibling is undirected; the stored order carries no meaning.
	Sibling RelationshipType = "SIBLING"
)

// RelationshipTypes lists every type in legend order.
var RelationshipTypes = []RelationshipType{Parent, Spouse, Sibling}

// Valid reports whether t is one of the known relationship types.
func (t RelationshipType) Valid() bool {
	return slices.Contains(RelationshipTypes, t)
}

// UnmarshalJSON rejects unknown relationship types.
func (t *RelationshipType) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	v := RelationshipType(strings.ToUpper(s))
	if !v.Valid() {
		return fmt.Errorf("unknown relationship type %q", s)
	}
	*t = v
	return nil
}

// Person is a member of the tree. The layout engine only reads the ID, the
// name parts and the gender; everything else is carried for display.
type Person struct {
	ID         string `json:"id"`
	FirstName  string `json:"firstName"`
	LastName   string `json:"lastName"`
	Gender     Gender `json:"gender"`
	BirthDate  string `json:"birthDate,omitempty"`
	DeathDate  string `json:"deathDate,omitempty"`
	BirthPlace string `json:"birthPlace,omitempty"`
	Occupation string `json:"occupation,omitempty"`
	Biography  string `json:"biography,omitempty"`
	PhotoURL   string `json:"photoUrl,omitempty"`
}

// DisplayName returns "First Last", trimmed when a part is missing.
func (p Person) DisplayName() string {
	return strings.TrimSpace(p.FirstName + " " + p.LastName)
}

// Relationship is an ordered pair of person IDs with a type.
type Relationship struct {
	ID     string           `json:"id"`
	Source string           `json:"source"`
	Target string           `json:"target"`
	Type   RelationshipType `json:"type"`
}

// IsSelfLoop reports whether both endpoints are the same person.
func (r Relationship) IsSelfLoop() bool { return r.Source == r.Target }

// Other returns the endpoint opposite to id, or "" if id is not an endpoint.
func (r Relationship) Other(id string) string {
	switch id {
	case r.Source:
		return r.Target
	case r.Target:
		return r.Source
	}
	return ""
}

// Touches reports whether id is one of the endpoints.
func (r Relationship) Touches(id string) bool {
	return r.Source == id || r.Target == id
}

// NewRelationship creates a relationship with a fresh random ID.
func NewRelationship(source, target string, t RelationshipType) Relationship {
	return Relationship{ID: uuid.NewString(), Source: source, Target: target, Type: t}
}
