// Package pipeline runs the family tree layout headlessly.
//
// The same code path backs the CLI commands and any batch job: it loads a
// tree, resolves generations, places people, runs the force simulation to
// rest and renders the settled chart.
//
// # Architecture
//
// The pipeline consists of three stages:
//
//  1. Load: decode a tree file (people and relationships)
//  2. Layout: levels, initial placement, simulation until alpha < alphaMin
//  3. Render: SVG, PNG, PDF, JSON or DOT from the settled layout
//
// Layouts and artifacts are cached under keys derived from the tree, the
// canvas, the visible relationship types and the configuration.
//
// # Usage
//
//	runner := pipeline.NewRunner(c, nil, logger)
//	result, err := runner.Execute(ctx, tree, pipeline.Options{
//	    Formats: []string{"svg", "dot"},
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	svg := result.Artifacts["svg"]
package pipeline

import (
	"io"
	"slices"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/familytree/pkg/cache"
	"github.com/matzehuels/familytree/pkg/config"
	"github.com/matzehuels/familytree/pkg/errors"
	"github.com/matzehuels/familytree/pkg/family"
)

// =============================================================================
// Default Values
// =============================================================================

const (
	// DefaultWidth is the default canvas width in pixels.
	DefaultWidth = 1200.0

	// DefaultHeight is the default canvas height in pixels.
	DefaultHeight = 800.0

	// DefaultMaxTicks bounds the simulation. The default cooling schedule
	// reaches alphaMin after about 300 ticks.
	DefaultMaxTicks = 1000

	// DefaultScale is the PNG resolution factor.
	DefaultScale = 2.0

	// DefaultFitPadding is the margin kept around the chart when fitting.
	DefaultFitPadding = 40.0
)

// Renderer names.
const (
	// RendererForce draws the simulated positions.
	RendererForce = "force"
	// RendererGraphviz hands the tree to Graphviz, ranked by generation.
	RendererGraphviz = "graphviz"
)

// Format constants for output formats.
const (
	FormatSVG  = "svg"
	FormatPNG  = "png"
	FormatPDF  = "pdf"
	FormatJSON = "json"
	FormatDOT  = "dot"
)

// ValidFormats lists the supported output formats.
var ValidFormats = []string{FormatSVG, FormatPNG, FormatPDF, FormatJSON, FormatDOT}

// ValidRenderers lists the supported renderers.
var ValidRenderers = []string{RendererForce, RendererGraphviz}

// Cache lifetimes.
const (
	TTLLayout   = 7 * 24 * time.Hour
	TTLArtifact = 7 * 24 * time.Hour
)

// =============================================================================
// Options
// =============================================================================

// Options configures a pipeline run.
type Options struct {
	// Layout options
	Width    float64        `json:"width,omitempty"`
	Height   float64        `json:"height,omitempty"`
	Visible  family.TypeSet `json:"-"` // nil shows every type
	MaxTicks int            `json:"max_ticks,omitempty"`
	Refresh  bool           `json:"refresh,omitempty"` // ignore cached results

	// Render options
	Formats  []string `json:"formats,omitempty"`
	Renderer string   `json:"renderer,omitempty"`
	Selected string   `json:"selected,omitempty"`
	Dark     bool     `json:"dark,omitempty"`
	Legend   bool     `json:"legend,omitempty"`
	Fit      bool     `json:"fit,omitempty"`
	Detailed bool     `json:"detailed,omitempty"` // graphviz labels with generation and dates
	Scale    float64  `json:"scale,omitempty"`

	// Runtime options (not serialized)
	Config *config.Config `json:"-"` // nil uses config.Default()
	Logger *log.Logger    `json:"-"`

	validated bool
}

// ValidateFormat checks that a format is supported.
func ValidateFormat(format string) error {
	if !slices.Contains(ValidFormats, format) {
		return errors.New(errors.ErrCodeUnsupported, "format %q (must be one of: svg, png, pdf, json, dot)", format)
	}
	return nil
}

// ValidateFormats checks that all formats are supported.
func ValidateFormats(formats []string) error {
	for _, f := range formats {
		if err := ValidateFormat(f); err != nil {
			return err
		}
	}
	return nil
}

// ValidateRenderer checks that a renderer is supported.
func ValidateRenderer(r string) error {
	if !slices.Contains(ValidRenderers, r) {
		return errors.New(errors.ErrCodeUnsupported, "renderer %q (must be one of: force, graphviz)", r)
	}
	return nil
}

// ValidateAndSetDefaults checks the options and fills in defaults. It is
// idempotent.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	if err := o.ValidateForLayout(); err != nil {
		return err
	}
	if err := o.ValidateForRender(); err != nil {
		return err
	}
	o.validated = true
	return nil
}

// ValidateForLayout applies layout defaults and checks layout options.
func (o *Options) ValidateForLayout() error {
	o.setCommonDefaults()
	if o.Width == 0 {
		o.Width = DefaultWidth
	}
	if o.Height == 0 {
		o.Height = DefaultHeight
	}
	if o.MaxTicks == 0 {
		o.MaxTicks = DefaultMaxTicks
	}
	switch {
	case o.Width < 0 || o.Height < 0:
		return errors.New(errors.ErrCodeInvalidInput, "canvas %gx%g must not be negative", o.Width, o.Height)
	case o.MaxTicks < 0:
		return errors.New(errors.ErrCodeInvalidInput, "max ticks %d must not be negative", o.MaxTicks)
	}
	return o.Config.Validate()
}

// ValidateForRender applies render defaults and checks render options.
func (o *Options) ValidateForRender() error {
	o.setCommonDefaults()
	if len(o.Formats) == 0 {
		o.Formats = []string{FormatSVG}
	}
	if o.Renderer == "" {
		o.Renderer = RendererForce
	}
	if o.Scale == 0 {
		o.Scale = DefaultScale
	}
	if o.Scale < 0 {
		return errors.New(errors.ErrCodeInvalidInput, "scale %g must be positive", o.Scale)
	}
	if err := ValidateRenderer(o.Renderer); err != nil {
		return err
	}
	return ValidateFormats(o.Formats)
}

func (o *Options) setCommonDefaults() {
	if o.Config == nil {
		cfg := config.Default()
		o.Config = &cfg
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
}

// visible returns the visibility filter, never nil.
func (o *Options) visible() family.TypeSet {
	if o.Visible == nil {
		return family.AllTypes()
	}
	return o.Visible
}

// LayoutKeyOpts returns cache key options for layout computation.
func (o *Options) LayoutKeyOpts() cache.LayoutKeyOpts {
	cfg := config.Default()
	if o.Config != nil {
		cfg = *o.Config
	}
	return cache.LayoutKeyOpts{
		Width:      o.Width,
		Height:     o.Height,
		Visible:    o.visible().String(),
		ConfigHash: cache.Hash([]byte(cfg.String())),
		MaxTicks:   o.MaxTicks,
	}
}

// ArtifactKeyOpts returns cache key options for artifact rendering.
func (o *Options) ArtifactKeyOpts(format string) cache.ArtifactKeyOpts {
	return cache.ArtifactKeyOpts{
		Format:   o.Renderer + ":" + format,
		Selected: o.Selected,
		Dark:     o.Dark,
		Legend:   o.Legend,
		Fit:      o.Fit,
		Detailed: o.Detailed,
		Scale:    o.Scale,
	}
}

// =============================================================================
// Results
// =============================================================================

// Stats contains pipeline execution statistics.
type Stats struct {
	People        int
	Relationships int
	Skipped       int // relationships the engine ignored
	Ticks         int
	LayoutTime    time.Duration
	RenderTime    time.Duration
}

// CacheInfo tracks cache hits for each pipeline stage.
type CacheInfo struct {
	LayoutHit bool
	RenderHit bool // all artifacts came from cache
}
