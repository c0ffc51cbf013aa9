package family

import (
	"encoding/json"
	"errors"
	"testing"
)

func sampleTree() *Tree {
	return &Tree{
		People: []Person{
			{ID: "a", FirstName: "Anna", LastName: "Ivanova", Gender: Female},
			{ID: "b", FirstName: "Boris", LastName: "Ivanov", Gender: Male},
			{ID: "c", FirstName: "Clara", Gender: Female},
		},
		Relationships: []Relationship{
			{ID: "r1", Source: "a", Target: "c", Type: Parent},
			{ID: "r2", Source: "a", Target: "b", Type: Spouse},
		},
	}
}

func TestRelationshipTypeJSON(t *testing.T) {
	tests := []struct {
		in      string
		want    RelationshipType
		wantErr bool
	}{
		{`"PARENT"`, Parent, false},
		{`"spouse"`, Spouse, false},
		{`"SIBLING"`, Sibling, false},
		{`"COUSIN"`, "", true},
		{`42`, "", true},
	}
	for _, tt := range tests {
		var got RelationshipType
		err := json.Unmarshal([]byte(tt.in), &got)
		if (err != nil) != tt.wantErr {
			t.Errorf("Unmarshal(%s) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			continue
		}
		if got != tt.want {
			t.Errorf("Unmarshal(%s) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestGenderJSON(t *testing.T) {
	var g Gender
	if err := json.Unmarshal([]byte(`"female"`), &g); err != nil || g != Female {
		t.Errorf("Unmarshal female = %q, %v", g, err)
	}
	if err := json.Unmarshal([]byte(`"ROBOT"`), &g); err == nil {
		t.Error("Unmarshal ROBOT should fail")
	}
}

func TestDisplayName(t *testing.T) {
	tree := sampleTree()
	if got := tree.People[0].DisplayName(); got != "Anna Ivanova" {
		t.Errorf("DisplayName() = %q", got)
	}
	if got := tree.People[2].DisplayName(); got != "Clara" {
		t.Errorf("DisplayName() = %q, want trimmed", got)
	}
}

func TestConnected(t *testing.T) {
	tree := sampleTree()
	tests := []struct {
		a, b string
		want bool
	}{
		{"a", "c", true},
		{"c", "a", true},
		{"b", "a", true},
		{"b", "c", false},
	}
	for _, tt := range tests {
		if got := tree.Connected(tt.a, tt.b); got != tt.want {
			t.Errorf("Connected(%s, %s) = %v, want %v", tt.a, tt.b, got, tt.want)
		}
	}
}

func TestCanConnect(t *testing.T) {
	tree := sampleTree()
	if tree.CanConnect("a", "a") {
		t.Error("self pair must not be connectable")
	}
	if tree.CanConnect("a", "c") {
		t.Error("already-connected pair must not be connectable")
	}
	if tree.CanConnect("b", "zz") {
		t.Error("unknown person must not be connectable")
	}
	if !tree.CanConnect("b", "c") {
		t.Error("b and c should be connectable")
	}
}

func TestConnect(t *testing.T) {
	tests := []struct {
		kind       ConnectionKind
		wantSource string
		wantTarget string
		wantType   RelationshipType
	}{
		{ConnectParent, "b", "c", Parent},
		{ConnectChild, "c", "b", Parent},
		{ConnectSpouse, "b", "c", Spouse},
		{ConnectSibling, "b", "c", Sibling},
	}
	for _, tt := range tests {
		t.Run(string(tt.kind), func(t *testing.T) {
			tree := sampleTree()
			r, err := tree.Connect("b", "c", tt.kind)
			if err != nil {
				t.Fatalf("Connect() error = %v", err)
			}
			if r.Source != tt.wantSource || r.Target != tt.wantTarget || r.Type != tt.wantType {
				t.Errorf("Connect() = %+v", r)
			}
			if r.ID == "" {
				t.Error("Connect() should assign an ID")
			}
			if len(tree.Relationships) != 3 {
				t.Errorf("relationships = %d, want 3", len(tree.Relationships))
			}
		})
	}
}

func TestConnectErrors(t *testing.T) {
	tree := sampleTree()
	if _, err := tree.Connect("a", "a", ConnectSpouse); !errors.Is(err, ErrSelfConnection) {
		t.Errorf("self: err = %v", err)
	}
	if _, err := tree.Connect("a", "x", ConnectSpouse); !errors.Is(err, ErrUnknownPerson) {
		t.Errorf("unknown: err = %v", err)
	}
	if _, err := tree.Connect("c", "a", ConnectSibling); !errors.Is(err, ErrAlreadyConnected) {
		t.Errorf("connected: err = %v", err)
	}
	if _, err := tree.Connect("b", "c", "COUSIN"); !errors.Is(err, ErrUnknownConnection) {
		t.Errorf("kind: err = %v", err)
	}
	if len(tree.Relationships) != 2 {
		t.Errorf("failed Connect must not mutate, got %d relationships", len(tree.Relationships))
	}
}

func TestValidate(t *testing.T) {
	tree := sampleTree()
	tree.People = append(tree.People, Person{ID: "a"})
	tree.Relationships = append(tree.Relationships,
		Relationship{ID: "loop", Source: "b", Target: "b", Type: Sibling},
		Relationship{ID: "dangle", Source: "b", Target: "ghost", Type: Parent},
	)

	issues := tree.Validate()
	want := map[IssueKind]int{IssueDuplicatePerson: 1, IssueSelfLoop: 1, IssueDanglingReference: 1}
	got := map[IssueKind]int{}
	for _, i := range issues {
		got[i.Kind]++
	}
	for k, n := range want {
		if got[k] != n {
			t.Errorf("issues[%s] = %d, want %d", k, got[k], n)
		}
	}
}

func TestTypeSet(t *testing.T) {
	s := AllTypes()
	if !s.Has(Parent) || !s.Has(Spouse) || !s.Has(Sibling) {
		t.Fatal("AllTypes() missing members")
	}
	off := s.Toggle(Spouse)
	if off.Has(Spouse) {
		t.Error("Toggle should remove Spouse")
	}
	if !s.Has(Spouse) {
		t.Error("Toggle must not mutate the receiver")
	}
	if got := off.String(); got != "PARENT,SIBLING" {
		t.Errorf("String() = %q", got)
	}
	if !off.Toggle(Spouse).Has(Spouse) {
		t.Error("second Toggle should restore Spouse")
	}

	rels := sampleTree().Relationships
	if got := NewTypeSet(Spouse).Filter(rels); len(got) != 1 || got[0].ID != "r2" {
		t.Errorf("Filter() = %+v", got)
	}
	if len(rels) != 2 {
		t.Error("Filter must not modify its input")
	}
}

func TestParseTypeSet(t *testing.T) {
	tests := []struct {
		in      string
		want    string
		wantErr bool
	}{
		{"parent", "PARENT", false},
		{"Spouse, sibling", "SPOUSE,SIBLING", false},
		{"sibling,parent,", "PARENT,SIBLING", false},
		{"", "", false},
		{"cousin", "", true},
	}
	for _, tt := range tests {
		got, err := ParseTypeSet(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseTypeSet(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			continue
		}
		if err == nil && got.String() != tt.want {
			t.Errorf("ParseTypeSet(%q) = %q, want %q", tt.in, got.String(), tt.want)
		}
	}
}

func TestIndex(t *testing.T) {
	tree := sampleTree()
	tree.Relationships = append(tree.Relationships,
		Relationship{ID: "p2", Source: "b", Target: "c", Type: Parent},
		Relationship{ID: "dangle", Source: "ghost", Target: "c", Type: Parent},
		Relationship{ID: "loop", Source: "c", Target: "c", Type: Spouse},
	)
	idx := NewIndex(tree.People, tree.Relationships)

	if got := idx.Parents("c"); len(got) != 2 || got[0] != "a" || got[1] != "b" {
		t.Errorf("Parents(c) = %v, want [a b]", got)
	}
	if got := idx.Spouses("b"); len(got) != 1 || got[0] != "a" {
		t.Errorf("Spouses(b) = %v", got)
	}
	if got := idx.Spouses("c"); len(got) != 0 {
		t.Errorf("Spouses(c) = %v, self-loop should be skipped", got)
	}
	if idx.Skipped() != 2 {
		t.Errorf("Skipped() = %d, want 2", idx.Skipped())
	}
}
