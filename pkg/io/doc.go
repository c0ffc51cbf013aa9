// Package io reads family trees from JSON and writes settled layouts.
//
// # Tree Format
//
// A tree is a JSON object with "people" and "relationships" arrays:
//
//	{
//	  "name": "Lee family",
//	  "people": [
//	    {"id": "ann", "firstName": "Ann", "lastName": "Lee", "gender": "FEMALE"},
//	    {"id": "cat", "firstName": "Cat", "lastName": "Lee", "gender": "FEMALE"}
//	  ],
//	  "relationships": [
//	    {"id": "r1", "source": "ann", "target": "cat", "type": "PARENT"}
//	  ]
//	}
//
// Gender is one of MALE, FEMALE or OTHER; relationship type is one of
// PARENT (source is the parent), SPOUSE or SIBLING. Enum values are
// matched case-insensitively and unknown values fail the import.
//
// Optional person fields: birthDate, deathDate, birthPlace, occupation,
// biography and photoUrl. They are carried through but never laid out.
//
// Dangling references and self-loops are not import errors; the engine
// skips them. Use [family.Tree.Validate] to list them.
//
// # Layout Format
//
// [Layout] is the export of a simulation at rest: one entry per person
// with its generation, final position and initial placement, plus the
// drawn edges with SVG path data. It can be read back with [ReadLayout].
//
// [family.Tree.Validate]: github.com/matzehuels/familytree/pkg/family#Tree.Validate
package io
