// Package family defines the genealogy data model consumed by the layout engine.
//
// # Core Types
//
//   - [Person]: a tree member; gender only affects node color
//   - [Relationship]: an ordered (Source, Target) pair with a [RelationshipType]
//   - [Tree]: the people and relationship lists supplied by the external store
//   - [TypeSet]: the relationship-type visibility filter
//
// Only [Parent] relationships are directed (Source is the parent). [Spouse] and
// [Sibling] are stored as ordered pairs but carry no direction.
//
// # Malformed Data
//
// Dangling references, self-loops and cycles are tolerated everywhere. Use
// [Tree.Validate] to list what downstream packages will skip:
//
//	for _, issue := range tree.Validate() {
//	    logger.Debug("skipping", "issue", issue)
//	}
//
// # Proposing Connections
//
// The interaction layer reports proximity drops as (dragged, candidate) pairs.
// Collaborators apply [Tree.CanConnect] and, once the user picks a
// [ConnectionKind], call [Tree.Connect] and re-supply the tree.
package family
