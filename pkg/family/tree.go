package family

import (
	"errors"
	"fmt"
	"slices"
)

var (
	// ErrUnknownPerson is returned by [Tree.Connect] when an endpoint is not in the tree.
	ErrUnknownPerson = errors.New("unknown person")

	// ErrSelfConnection is returned by [Tree.Connect] when both endpoints match.
	ErrSelfConnection = errors.New("cannot connect a person to themselves")

	// ErrAlreadyConnected is returned by [Tree.Connect] when the pair already
	// shares a relationship in either direction.
	ErrAlreadyConnected = errors.New("people are already connected")

	// ErrUnknownConnection is returned by [Tree.Connect] for an invalid kind.
	ErrUnknownConnection = errors.New("unknown connection kind")
)

// Tree is the people/relationship data set supplied by the external store.
// The layout engine treats it as read-only.
type Tree struct {
	Name          string         `json:"name,omitempty"`
	People        []Person       `json:"people"`
	Relationships []Relationship `json:"relationships"`
}

// Person looks up a person by ID.
func (t *Tree) Person(id string) (Person, bool) {
	i := slices.IndexFunc(t.People, func(p Person) bool { return p.ID == id })
	if i < 0 {
		return Person{}, false
	}
	return t.People[i], true
}

// Has reports whether a person with the given ID exists.
func (t *Tree) Has(id string) bool {
	_, ok := t.Person(id)
	return ok
}

// Connected reports whether any relationship links a and b in either direction.
func (t *Tree) Connected(a, b string) bool {
	return slices.ContainsFunc(t.Relationships, func(r Relationship) bool {
		return (r.Source == a && r.Target == b) || (r.Source == b && r.Target == a)
	})
}

// CanConnect applies the proximity-drop guard: distinct, known people that
// are not yet related.
func (t *Tree) CanConnect(a, b string) bool {
	return a != b && t.Has(a) && t.Has(b) && !t.Connected(a, b)
}

// ConnectionKind is the user's answer to a proximity-drop prompt, phrased
// from the dragged person's point of view.
type ConnectionKind string

const (
	// ConnectParent makes the dragged person the parent of the candidate.
	ConnectParent ConnectionKind = "PARENT"
	// ConnectChild makes the dragged person the child of the candidate.
	ConnectChild ConnectionKind = "CHILD"
	// ConnectSpouse marries the two people.
	ConnectSpouse ConnectionKind = "SPOUSE"
	// ConnectSibling makes the two people siblings.
	ConnectSibling ConnectionKind = "SIBLING"
)

// Connect appends a new relationship between the dragged person (from) and the
// proximity candidate (to). It returns the created relationship.
func (t *Tree) Connect(from, to string, kind ConnectionKind) (Relationship, error) {
	if from == to {
		return Relationship{}, ErrSelfConnection
	}
	for _, id := range []string{from, to} {
		if !t.Has(id) {
			return Relationship{}, fmt.Errorf("%w: %s", ErrUnknownPerson, id)
		}
	}
	if t.Connected(from, to) {
		return Relationship{}, ErrAlreadyConnected
	}

	var r Relationship
	switch kind {
	case ConnectParent:
		r = NewRelationship(from, to, Parent)
	case ConnectChild:
		r = NewRelationship(to, from, Parent)
	case ConnectSpouse:
		r = NewRelationship(from, to, Spouse)
	case ConnectSibling:
		r = NewRelationship(from, to, Sibling)
	default:
		return Relationship{}, fmt.Errorf("%w: %q", ErrUnknownConnection, kind)
	}
	t.Relationships = append(t.Relationships, r)
	return r, nil
}

// IssueKind classifies a tolerated data problem.
type IssueKind int

const (
	// IssueDanglingReference marks a relationship pointing at a missing person.
	IssueDanglingReference IssueKind = iota
	// IssueSelfLoop marks a relationship whose endpoints are identical.
	IssueSelfLoop
	// IssueDuplicatePerson marks a repeated person ID.
	IssueDuplicatePerson
)

func (k IssueKind) String() string {
	switch k {
	case IssueDanglingReference:
		return "dangling reference"
	case IssueSelfLoop:
		return "self loop"
	case IssueDuplicatePerson:
		return "duplicate person"
	}
	return "unknown"
}

// Issue describes one malformed entry. Issues are warnings: the layout
// engine skips the offending entry and continues.
type Issue struct {
	Kind IssueKind
	ID   string // relationship or person ID
	Ref  string // offending person ID, if any
}

func (i Issue) String() string {
	if i.Ref != "" {
		return fmt.Sprintf("%s: %s (%s)", i.Kind, i.ID, i.Ref)
	}
	return fmt.Sprintf("%s: %s", i.Kind, i.ID)
}

// Validate lists the entries the layout engine will ignore.
func (t *Tree) Validate() []Issue {
	var issues []Issue
	seen := make(map[string]struct{}, len(t.People))
	for _, p := range t.People {
		if _, dup := seen[p.ID]; dup {
			issues = append(issues, Issue{Kind: IssueDuplicatePerson, ID: p.ID})
			continue
		}
		seen[p.ID] = struct{}{}
	}
	for _, r := range t.Relationships {
		if r.IsSelfLoop() {
			issues = append(issues, Issue{Kind: IssueSelfLoop, ID: r.ID, Ref: r.Source})
			continue
		}
		for _, id := range []string{r.Source, r.Target} {
			if _, ok := seen[id]; !ok {
				issues = append(issues, Issue{Kind: IssueDanglingReference, ID: r.ID, Ref: id})
			}
		}
	}
	return issues
}
