// Package layout computes generation levels and the initial placement of a
// family tree before the force simulation takes over.
//
// # Pipeline
//
//	gens := layout.ResolveGenerations(tree.People, tree.Relationships)
//	place := layout.Place(tree.People, tree.Relationships, gens.Levels, canvas, cfg.Layout)
//	// place.Positions seeds the simulation; place.Bands gives the target y per level
//
// # Generation Levels
//
// [ResolveGenerations] relaxes Parent and Spouse constraints until a fixed
// point or an iteration cap of 2×len(people) passes. The cap means the call
// always returns, even for cyclic data; [Generations.Converged] reports
// whether a fixed point was reached.
//
//	child level ≥ parent level + 1   (Parent)
//	level(a) == level(b)             (Spouse)
//
// # Initial Placement
//
// [Place] assigns y from fixed generation [Bands] and x from a single
// left-to-right sweep per level that keeps children under their parents and
// spouses side by side. It is a crossing-reduction heuristic, not an optimal
// ordering; ties keep input order through a stable sort.
package layout
