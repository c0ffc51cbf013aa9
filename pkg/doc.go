// Package pkg holds the familytree libraries.
//
// # Overview
//
// Familytree lays out genealogy charts: every person sits in a horizontal
// band for their generation, spouses share a band and a d3-style force
// simulation settles the chart without letting anyone leave their band.
// The packages split along that flow:
//
//  1. [family] - people, relationships and the type filter
//  2. [layout] - generation resolver and initial placement
//  3. [sim] - the force simulation
//  4. [interact] - the interactive view: gestures, proximity drop, zoom, scene
//  5. [render] - SVG, PNG, PDF and Graphviz output
//  6. [pipeline] - load, layout and render with caching
//
// Supporting packages: [config] (TOML settings), [io] (JSON files),
// [cache] (file and Redis caches), [session] (saved viewer state),
// [observability] (hooks), [errors] (coded errors) and [buildinfo].
//
// # Data Flow
//
//	tree.json
//	    ↓
//	[io] ImportTree
//	    ↓
//	[layout] ResolveGenerations → Place
//	    ↓
//	[sim] Simulation.Settle
//	    ↓
//	[interact] ComposeScene
//	    ↓
//	[render] SVG / PNG / PDF / DOT
//
// # Quick Start
//
//	import (
//	    "github.com/matzehuels/familytree/pkg/io"
//	    "github.com/matzehuels/familytree/pkg/pipeline"
//	)
//
//	tree, _ := io.ImportTree("family.json")
//	runner := pipeline.NewRunner(nil, nil, nil)
//	res, _ := runner.Execute(ctx, tree, pipeline.Options{Formats: []string{"svg"}})
//	os.WriteFile("family.svg", res.Artifacts["svg"], 0o644)
//
// [family]: https://pkg.go.dev/github.com/matzehuels/familytree/pkg/family
// [layout]: https://pkg.go.dev/github.com/matzehuels/familytree/pkg/layout
// [sim]: https://pkg.go.dev/github.com/matzehuels/familytree/pkg/sim
// [interact]: https://pkg.go.dev/github.com/matzehuels/familytree/pkg/interact
// [render]: https://pkg.go.dev/github.com/matzehuels/familytree/pkg/render
// [pipeline]: https://pkg.go.dev/github.com/matzehuels/familytree/pkg/pipeline
// [config]: https://pkg.go.dev/github.com/matzehuels/familytree/pkg/config
// [io]: https://pkg.go.dev/github.com/matzehuels/familytree/pkg/io
// [cache]: https://pkg.go.dev/github.com/matzehuels/familytree/pkg/cache
// [session]: https://pkg.go.dev/github.com/matzehuels/familytree/pkg/session
// [observability]: https://pkg.go.dev/github.com/matzehuels/familytree/pkg/observability
// [errors]: https://pkg.go.dev/github.com/matzehuels/familytree/pkg/errors
// [buildinfo]: https://pkg.go.dev/github.com/matzehuels/familytree/pkg/buildinfo
package pkg
