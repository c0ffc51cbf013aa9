// Package cache stores pipeline results between runs.
//
// Layout is the expensive stage (hundreds of simulation ticks), so the
// pipeline caches settled layouts and rendered artifacts under keys derived
// from everything that influences them: the tree, the canvas, the visible
// relationship types and the configuration.
//
// # Backends
//
//   - [FileCache]: JSON entry files under a directory, for the CLI
//   - [RedisCache]: a shared Redis instance, selected with a redis:// URL
//   - [NullCache]: caching disabled
//
// # Keys
//
// A [Keyer] builds keys. [DefaultKeyer] hashes its inputs with SHA-256;
// [ScopedKeyer] prefixes another keyer, for instance with the build version
// so that an upgrade never reads stale layouts.
package cache

import (
	"context"
	"time"
)

// Cache is a byte store with optional expiry.
type Cache interface {
	// Get returns the value for key. A miss is (nil, false, nil).
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores data under key. A ttl of zero never expires.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases the backend.
	Close() error
}

// Clearer is implemented by caches that can drop every entry at once.
type Clearer interface {
	Clear(ctx context.Context) error
}

// LayoutKeyOpts are the inputs besides the tree that shape a layout.
type LayoutKeyOpts struct {
	Width, Height float64
	Visible       string // canonical TypeSet string
	ConfigHash    string
	MaxTicks      int
}

// ArtifactKeyOpts are the inputs besides the layout that shape an artifact.
type ArtifactKeyOpts struct {
	Format   string
	Selected string
	Dark     bool
	Legend   bool
	Fit      bool
	Detailed bool
	Scale    float64
}

// Keyer builds cache keys.
type Keyer interface {
	// TreeHash identifies a serialized tree.
	TreeHash(tree []byte) string

	// LayoutKey identifies a settled layout of the tree with treeHash.
	LayoutKey(treeHash string, opts LayoutKeyOpts) string

	// ArtifactKey identifies a rendered artifact of the layout with layoutHash.
	ArtifactKey(layoutHash string, opts ArtifactKeyOpts) string
}

// DefaultKeyer hashes key components with SHA-256.
type DefaultKeyer struct{}

// NewDefaultKeyer returns the standard keyer.
func NewDefaultKeyer() Keyer { return DefaultKeyer{} }

func (DefaultKeyer) TreeHash(tree []byte) string { return Hash(tree) }

func (DefaultKeyer) LayoutKey(treeHash string, opts LayoutKeyOpts) string {
	return hashKey("layout", treeHash, opts)
}

func (DefaultKeyer) ArtifactKey(layoutHash string, opts ArtifactKeyOpts) string {
	return hashKey("artifact", layoutHash, opts)
}
