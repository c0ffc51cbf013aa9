// Package cli implements the familytree command-line interface.
//
// The commands load a family tree from JSON, lay it out with the force
// simulation and either write the result (levels, layout, render) or host
// it in an interactive terminal viewer (view). The CLI is built with cobra
// and logs through charmbracelet/log.
//
// # Commands
//
//   - levels: print the generation table of a tree
//   - layout: write settled positions as JSON
//   - render: write SVG, PNG, PDF, JSON or DOT artifacts
//   - view: interactive terminal viewer with drag, zoom and proximity drop
//   - cache: clear or locate the layout cache
//   - config: print the effective configuration as TOML
//
// # Logging
//
// All commands support --verbose (-v) for debug-level logging. Loggers are
// passed through context.Context.
package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/familytree/pkg/buildinfo"
	"github.com/matzehuels/familytree/pkg/cache"
	"github.com/matzehuels/familytree/pkg/config"
	"github.com/matzehuels/familytree/pkg/family"
	"github.com/matzehuels/familytree/pkg/pipeline"
)

// =============================================================================
// Constants
// =============================================================================

// appName is the application name used for directories and display.
const appName = "familytree"

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// =============================================================================
// CLI - Central CLI State
// =============================================================================

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{Logger: newLogger(w, level)}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:          appName,
		Short:        "Familytree lays out genealogy charts by generation",
		Long:         `Familytree resolves generations from parent and spouse relationships, places people in horizontal bands and settles the chart with a force simulation. Charts can be rendered to files or explored interactively in the terminal.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cmd.SetContext(withLogger(cmd.Context(), c.Logger))
			return nil
		},
	}

	root.SetVersionTemplate(buildinfo.Template())

	root.AddCommand(c.levelsCommand())
	root.AddCommand(c.layoutCommand())
	root.AddCommand(c.renderCommand())
	root.AddCommand(c.viewCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.configCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// =============================================================================
// Shared Flags
// =============================================================================

// commonFlags are the flags every tree-consuming command accepts.
type commonFlags struct {
	config   string
	hide     string
	cacheURL string
	noCache  bool
	width    float64
	height   float64
	maxTicks int
}

func (f *commonFlags) register(cmd *cobra.Command, withCache bool) {
	cmd.Flags().StringVarP(&f.config, "config", "c", "", "TOML configuration file")
	cmd.Flags().StringVar(&f.hide, "hide", "", "relationship types to hide: parent, spouse, sibling (comma-separated)")
	cmd.Flags().Float64Var(&f.width, "width", pipeline.DefaultWidth, "canvas width")
	cmd.Flags().Float64Var(&f.height, "height", pipeline.DefaultHeight, "canvas height")
	if withCache {
		cmd.Flags().IntVar(&f.maxTicks, "max-ticks", pipeline.DefaultMaxTicks, "simulation tick limit")
		cmd.Flags().StringVar(&f.cacheURL, "cache", "", "cache directory or redis:// URL (default: XDG cache dir)")
		cmd.Flags().BoolVar(&f.noCache, "no-cache", false, "disable caching")
	}
}

// options converts the flags into pipeline options.
func (f *commonFlags) options() (pipeline.Options, error) {
	cfg, err := loadConfig(f.config)
	if err != nil {
		return pipeline.Options{}, err
	}
	visible, err := visibleTypes(f.hide)
	if err != nil {
		return pipeline.Options{}, err
	}
	return pipeline.Options{
		Width:    f.width,
		Height:   f.height,
		Visible:  visible,
		MaxTicks: f.maxTicks,
		Config:   &cfg,
	}, nil
}

// loadConfig returns the defaults, overlaid with path when given.
func loadConfig(path string) (config.Config, error) {
	if path == "" {
		return config.Default(), nil
	}
	return config.Load(path)
}

// visibleTypes returns every relationship type except the hidden ones.
func visibleTypes(hide string) (family.TypeSet, error) {
	hidden, err := family.ParseTypeSet(hide)
	if err != nil {
		return nil, err
	}
	visible := family.AllTypes()
	for t := range hidden {
		visible = visible.Toggle(t)
	}
	return visible, nil
}

// =============================================================================
// Runner Factory
// =============================================================================

// newRunner creates a pipeline runner for CLI use. Keys are scoped by
// build version so an upgrade never reads stale layouts.
func (c *CLI) newRunner(ctx context.Context, f *commonFlags) (*pipeline.Runner, error) {
	store, err := openCache(ctx, f.cacheURL, f.noCache)
	if err != nil {
		return nil, err
	}
	keyer := cache.NewScopedKeyer(cache.NewDefaultKeyer(), buildinfo.Version+":")
	return pipeline.NewRunner(store, keyer, c.Logger), nil
}

// openCache selects the backend: none, redis for redis:// URLs, else files.
func openCache(ctx context.Context, target string, disabled bool) (cache.Cache, error) {
	switch {
	case disabled:
		return cache.NewNullCache(), nil
	case cache.IsRedisURL(target):
		return cache.NewRedisCache(ctx, target, "")
	case target != "":
		return cache.NewFileCache(target)
	}
	dir, err := cacheDir()
	if err != nil {
		return cache.NewNullCache(), nil
	}
	return cache.NewFileCache(dir)
}

// =============================================================================
// Paths
// =============================================================================

// cacheDir returns the cache directory using XDG standard (~/.cache/familytree/).
func cacheDir() (string, error) {
	if cacheHome := os.Getenv("XDG_CACHE_HOME"); cacheHome != "" {
		return filepath.Join(cacheHome, appName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".cache", appName), nil
}

// =============================================================================
// Options Helpers
// =============================================================================

// parseFormats parses a comma-separated format string into a slice.
func parseFormats(s string) []string {
	if s == "" {
		return []string{pipeline.FormatSVG}
	}
	var out []string
	for _, f := range strings.Split(s, ",") {
		if f = strings.TrimSpace(f); f != "" {
			out = append(out, f)
		}
	}
	return out
}

// basePath derives the output base path. An empty output strips the input
// extension; a known format extension on output is stripped.
func basePath(output, input string) string {
	if output == "" {
		return strings.TrimSuffix(input, filepath.Ext(input))
	}
	ext := filepath.Ext(output)
	if pipeline.ValidateFormat(strings.TrimPrefix(ext, ".")) == nil {
		return strings.TrimSuffix(output, ext)
	}
	return output
}

func outputPath(base, format string) string {
	if format == pipeline.FormatJSON {
		return base + ".layout.json"
	}
	return fmt.Sprintf("%s.%s", base, format)
}
