package family

// Index answers the lookups the layout heuristics repeat for every person:
// parents in input order and spouses in input order. Relationships with
// unknown endpoints and self-loops are left out.
type Index struct {
	order   map[string]int
	parents map[string][]string
	spouses map[string][]string
	skipped int
}

// NewIndex builds an index over people and rels.
func NewIndex(people []Person, rels []Relationship) *Index {
	idx := &Index{
		order:   make(map[string]int, len(people)),
		parents: make(map[string][]string),
		spouses: make(map[string][]string),
	}
	for i, p := range people {
		if _, dup := idx.order[p.ID]; !dup {
			idx.order[p.ID] = i
		}
	}
	for _, r := range rels {
		if !idx.Known(r) {
			idx.skipped++
			continue
		}
		switch r.Type {
		case Parent:
			idx.parents[r.Target] = append(idx.parents[r.Target], r.Source)
		case Spouse:
			idx.spouses[r.Source] = append(idx.spouses[r.Source], r.Target)
			idx.spouses[r.Target] = append(idx.spouses[r.Target], r.Source)
		}
	}
	return idx
}

// Known reports whether both endpoints exist and differ.
func (idx *Index) Known(r Relationship) bool {
	if r.IsSelfLoop() {
		return false
	}
	_, okS := idx.order[r.Source]
	_, okT := idx.order[r.Target]
	return okS && okT
}

// Contains reports whether id belongs to an indexed person.
func (idx *Index) Contains(id string) bool {
	_, ok := idx.order[id]
	return ok
}

// Parents returns the parent IDs of id in relationship input order.
func (idx *Index) Parents(id string) []string { return idx.parents[id] }

// Spouses returns the spouse IDs of id in relationship input order.
func (idx *Index) Spouses(id string) []string { return idx.spouses[id] }

// Skipped returns how many relationships were ignored while indexing.
func (idx *Index) Skipped() int { return idx.skipped }
