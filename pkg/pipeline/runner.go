package pipeline

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/familytree/pkg/cache"
	"github.com/matzehuels/familytree/pkg/errors"
	"github.com/matzehuels/familytree/pkg/family"
	pkgio "github.com/matzehuels/familytree/pkg/io"
	"github.com/matzehuels/familytree/pkg/observability"
)

// Runner encapsulates pipeline execution with caching.
//
// The Runner is stateless except for the cache and logger: it doesn't
// store pipeline results. Multiple goroutines can safely use the same
// Runner with different options.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger
}

// Result contains the outputs of a pipeline run.
type Result struct {
	Tree      *family.Tree
	TreeHash  string
	Layout    *pkgio.Layout
	Artifacts map[string][]byte
	Stats     Stats
	CacheInfo CacheInfo
}

// NewRunner creates a runner with the given cache and keyer.
// If keyer is nil, a DefaultKeyer is used.
// If cache is nil, a NullCache is used (caching disabled).
func NewRunner(c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Runner {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{Cache: c, Keyer: keyer, Logger: logger}
}

// Load reads a tree file.
func (r *Runner) Load(ctx context.Context, path string) (*family.Tree, error) {
	hooks := observability.Pipeline()
	hooks.OnLoadStart(ctx, path)
	start := time.Now()

	tree, err := pkgio.ImportTree(path)
	if err != nil {
		hooks.OnLoadComplete(ctx, path, 0, 0, time.Since(start), err)
		return nil, err
	}
	hooks.OnLoadComplete(ctx, path, len(tree.People), len(tree.Relationships), time.Since(start), nil)

	for _, issue := range tree.Validate() {
		r.Logger.Debug("skipping malformed entry", "issue", issue.String())
	}
	return tree, nil
}

// Execute runs layout and render with caching.
func (r *Runner) Execute(ctx context.Context, tree *family.Tree, opts Options) (*Result, error) {
	if tree == nil {
		return nil, errors.New(errors.ErrCodeInvalidInput, "tree is required")
	}
	r.applyLogger(&opts)
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, fmt.Errorf("invalid options: %w", err)
	}

	result := &Result{
		Tree:     tree,
		TreeHash: r.treeHash(tree),
		Stats: Stats{
			People:        len(tree.People),
			Relationships: len(tree.Relationships),
		},
	}

	layoutStart := time.Now()
	l, layoutHit, err := r.LayoutWithCacheInfo(ctx, tree, opts)
	if err != nil {
		return nil, fmt.Errorf("layout: %w", err)
	}
	result.Layout = l
	result.Stats.Ticks = l.Ticks
	result.Stats.Skipped = family.NewIndex(tree.People, tree.Relationships).Skipped()
	result.Stats.LayoutTime = time.Since(layoutStart)
	result.CacheInfo.LayoutHit = layoutHit

	r.Logger.Info("computed layout",
		"people", len(l.Nodes),
		"edges", len(l.Edges),
		"ticks", l.Ticks,
		"settled", l.Settled,
		"cached", layoutHit,
		"duration", result.Stats.LayoutTime)

	renderStart := time.Now()
	artifacts, renderHit, err := r.RenderWithCacheInfo(ctx, tree, l, opts)
	if err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	result.Artifacts = artifacts
	result.Stats.RenderTime = time.Since(renderStart)
	result.CacheInfo.RenderHit = renderHit

	r.Logger.Info("rendered outputs",
		"formats", opts.Formats,
		"renderer", opts.Renderer,
		"cached", renderHit,
		"duration", result.Stats.RenderTime)

	return result, nil
}

// LayoutWithCacheInfo settles the chart with caching and reports whether
// the result came from the cache.
func (r *Runner) LayoutWithCacheInfo(ctx context.Context, tree *family.Tree, opts Options) (*pkgio.Layout, bool, error) {
	if tree == nil {
		return nil, false, errors.New(errors.ErrCodeInvalidInput, "tree is required")
	}
	r.applyLogger(&opts)
	if err := opts.ValidateForLayout(); err != nil {
		return nil, false, err
	}

	cacheKey := r.Keyer.LayoutKey(r.treeHash(tree), opts.LayoutKeyOpts())

	if !opts.Refresh {
		if data, hit, err := r.Cache.Get(ctx, cacheKey); err == nil && hit {
			if cached, err := pkgio.ReadLayout(bytes.NewReader(data)); err == nil {
				observability.Cache().OnCacheHit(ctx, "layout")
				return cached, true, nil
			}
			// Undecodable entries fall through to recompute.
		} else if err != nil {
			opts.Logger.Warn("cache read failed", "error", err)
		}
		observability.Cache().OnCacheMiss(ctx, "layout")
	}

	hooks := observability.Pipeline()
	hooks.OnLayoutStart(ctx, len(tree.People))
	start := time.Now()

	l, skipped := GenerateLayout(tree, opts)

	hooks.OnLayoutComplete(ctx, l.Ticks, time.Since(start), nil)
	observability.Simulation().OnSettled(ctx, len(l.Nodes), len(l.Edges), l.Ticks, l.Alpha)
	if skipped > 0 {
		observability.Simulation().OnSkipped(ctx, "relationship", skipped)
		opts.Logger.Debug("skipped relationships", "count", skipped)
	}
	if !l.LevelsConverged {
		opts.Logger.Warn("generation levels did not converge; tree has a parent cycle")
	}
	if !l.Settled {
		opts.Logger.Debug("simulation stopped at tick limit", "ticks", l.Ticks, "alpha", l.Alpha)
	}

	if data, err := pkgio.MarshalLayout(l); err == nil {
		if err := r.Cache.Set(ctx, cacheKey, data, TTLLayout); err != nil {
			opts.Logger.Warn("cache write failed", "error", err)
		} else {
			observability.Cache().OnCacheSet(ctx, "layout", len(data))
		}
	}
	return l, false, nil
}

// Layout is a convenience wrapper that discards the cache hit info.
func (r *Runner) Layout(ctx context.Context, tree *family.Tree, opts Options) (*pkgio.Layout, error) {
	l, _, err := r.LayoutWithCacheInfo(ctx, tree, opts)
	return l, err
}

// RenderWithCacheInfo generates artifacts with caching and reports whether
// every format came from the cache.
func (r *Runner) RenderWithCacheInfo(ctx context.Context, tree *family.Tree, l *pkgio.Layout, opts Options) (map[string][]byte, bool, error) {
	if tree == nil || l == nil {
		return nil, false, errors.New(errors.ErrCodeInvalidInput, "tree and layout are required")
	}
	r.applyLogger(&opts)
	if err := opts.ValidateForRender(); err != nil {
		return nil, false, err
	}

	layoutData, err := pkgio.MarshalLayout(l)
	if err != nil {
		return nil, false, fmt.Errorf("serialize layout for cache key: %w", err)
	}
	// Names and genders come from the tree, so both feed the key.
	layoutHash := cache.Hash(append(layoutData, r.treeHash(tree)...))

	artifacts := make(map[string][]byte, len(opts.Formats))
	for _, format := range opts.Formats {
		key := r.Keyer.ArtifactKey(layoutHash, opts.ArtifactKeyOpts(format))
		data, hit, err := r.Cache.Get(ctx, key)
		if err != nil || !hit {
			break
		}
		artifacts[format] = data
	}
	if len(artifacts) == len(opts.Formats) {
		observability.Cache().OnCacheHit(ctx, "artifact")
		return artifacts, true, nil
	}
	observability.Cache().OnCacheMiss(ctx, "artifact")

	hooks := observability.Pipeline()
	hooks.OnRenderStart(ctx, opts.Formats)
	start := time.Now()

	rendered, err := RenderLayout(ctx, tree, l, opts)
	hooks.OnRenderComplete(ctx, opts.Formats, time.Since(start), err)
	if err != nil {
		return nil, false, err
	}

	for format, data := range rendered {
		key := r.Keyer.ArtifactKey(layoutHash, opts.ArtifactKeyOpts(format))
		if err := r.Cache.Set(ctx, key, data, TTLArtifact); err == nil {
			observability.Cache().OnCacheSet(ctx, "artifact", len(data))
		}
	}
	return rendered, false, nil
}

// Render is a convenience wrapper that discards the cache hit info.
func (r *Runner) Render(ctx context.Context, tree *family.Tree, l *pkgio.Layout, opts Options) (map[string][]byte, error) {
	artifacts, _, err := r.RenderWithCacheInfo(ctx, tree, l, opts)
	return artifacts, err
}

// Close releases resources held by the runner (primarily the cache).
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}

func (r *Runner) treeHash(tree *family.Tree) string {
	var buf bytes.Buffer
	_ = pkgio.WriteTree(tree, &buf)
	return r.Keyer.TreeHash(buf.Bytes())
}

// applyLogger sets the runner's logger on options if not already set.
func (r *Runner) applyLogger(opts *Options) {
	if opts.Logger == nil {
		opts.Logger = r.Logger
	}
}
