// Package config holds the tunable constants of the layout engine.
//
// Every value has a documented default taken from the empirically tuned
// original chart. A TOML file can override any subset:
//
//	[layout]
//	generation_gap = 180.0
//
//	[interaction]
//	proximity_threshold = 120.0
//
// Unknown keys are rejected so typos surface instead of being ignored.
package config

import (
	"bytes"
	"fmt"
	"io"
	"math"
	"os"
	"strings"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/matzehuels/familytree/pkg/errors"
)

// Config groups all tunables.
type Config struct {
	Layout      Layout      `toml:"layout"`
	Simulation  Simulation  `toml:"simulation"`
	Interaction Interaction `toml:"interaction"`
}

// Layout tunes the generation bands and the initial placement heuristic.
type Layout struct {
	GenerationGap float64 `toml:"generation_gap"` // vertical distance between bands
	NodeSpacing   float64 `toml:"node_spacing"`   // horizontal slot width within a band
}

// Link tunes the link force for one relationship type.
type Link struct {
	Distance float64 `toml:"distance"`
	Strength float64 `toml:"strength"`
}

// Simulation tunes the force engine.
type Simulation struct {
	Spouse  Link `toml:"spouse"`
	Parent  Link `toml:"parent"`
	Sibling Link `toml:"sibling"`

	Charge            float64 `toml:"charge"`             // many-body strength, negative repels
	CollideRadius     float64 `toml:"collide_radius"`     // disc radius per node
	CollideIterations int     `toml:"collide_iterations"` // overlap passes per tick
	CollideStrength   float64 `toml:"collide_strength"`   // 0..1
	YStrength         float64 `toml:"y_strength"`         // generation lock
	XStrength         float64 `toml:"x_strength"`         // layout bias

	AlphaMin        float64  `toml:"alpha_min"`
	AlphaDecay      float64  `toml:"alpha_decay"`
	VelocityDecay   float64  `toml:"velocity_decay"`
	DragAlphaTarget float64  `toml:"drag_alpha_target"` // energy while a node is held
	TickInterval    Duration `toml:"tick_interval"`
	MaxStepsPerCall int      `toml:"max_steps_per_call"` // bound for Advance catch-up
	Seed            uint64   `toml:"seed"`               // jiggle source for coincident nodes
}

// Interaction tunes dragging, proximity and zoom.
type Interaction struct {
	NodeRadius         float64 `toml:"node_radius"`
	ProximityThreshold float64 `toml:"proximity_threshold"`
	MinZoom            float64 `toml:"min_zoom"`
	MaxZoom            float64 `toml:"max_zoom"`
}

// Duration wraps time.Duration for TOML strings such as "16ms".
type Duration struct{ time.Duration }

// UnmarshalText parses a Go duration string.
func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	d.Duration = v
	return nil
}

// MarshalText renders the duration in Go syntax.
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.Duration.String()), nil
}

// Default returns the tuned defaults.
func Default() Config {
	return Config{
		Layout: Layout{
			GenerationGap: 160,
			NodeSpacing:   140,
		},
		Simulation: Simulation{
			Spouse:            Link{Distance: 80, Strength: 1.5},
			Parent:            Link{Distance: 120, Strength: 0.5},
			Sibling:           Link{Distance: 120, Strength: 0.5},
			Charge:            -800,
			CollideRadius:     50,
			CollideIterations: 2,
			CollideStrength:   1,
			YStrength:         3,
			XStrength:         0.2,
			AlphaMin:          0.001,
			AlphaDecay:        1 - math.Pow(0.001, 1.0/300),
			VelocityDecay:     0.4,
			DragAlphaTarget:   0.3,
			TickInterval:      Duration{time.Second / 60},
			MaxStepsPerCall:   8,
			Seed:              1,
		},
		Interaction: Interaction{
			NodeRadius:         30,
			ProximityThreshold: 150,
			MinZoom:            0.1,
			MaxZoom:            4,
		},
	}
}

// Load reads path on top of the defaults.
func Load(path string) (Config, error) {
	f, err := os.Open(path)
	if os.IsNotExist(err) {
		return Config{}, errors.Wrap(errors.ErrCodeFileNotFound, err, "config %s", path)
	}
	if err != nil {
		return Config{}, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	return Read(f)
}

// Read decodes TOML from r on top of the defaults and validates the result.
func Read(r io.Reader) (Config, error) {
	cfg := Default()
	md, err := toml.NewDecoder(r).Decode(&cfg)
	if err != nil {
		return Config{}, errors.Wrap(errors.ErrCodeInvalidConfig, err, "decode config")
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return Config{}, errors.New(errors.ErrCodeInvalidConfig, "unknown keys: %s", strings.Join(keys, ", "))
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Encode writes cfg as TOML.
func (c Config) Encode(w io.Writer) error {
	return toml.NewEncoder(w).Encode(c)
}

// String returns the TOML form of the configuration.
func (c Config) String() string {
	var buf bytes.Buffer
	_ = c.Encode(&buf)
	return buf.String()
}

// Validate checks value ranges.
func (c Config) Validate() error {
	checks := []struct {
		ok  bool
		msg string
	}{
		{c.Layout.GenerationGap > 0, "layout.generation_gap must be positive"},
		{c.Layout.NodeSpacing > 0, "layout.node_spacing must be positive"},
		{c.Simulation.Spouse.Distance >= 0, "simulation.spouse.distance must not be negative"},
		{c.Simulation.Parent.Distance >= 0, "simulation.parent.distance must not be negative"},
		{c.Simulation.Sibling.Distance >= 0, "simulation.sibling.distance must not be negative"},
		{c.Simulation.CollideRadius >= 0, "simulation.collide_radius must not be negative"},
		{c.Simulation.CollideIterations >= 0, "simulation.collide_iterations must not be negative"},
		{c.Simulation.CollideStrength >= 0 && c.Simulation.CollideStrength <= 1, "simulation.collide_strength must be within [0, 1]"},
		{c.Simulation.AlphaMin > 0 && c.Simulation.AlphaMin < 1, "simulation.alpha_min must be within (0, 1)"},
		{c.Simulation.AlphaDecay > 0 && c.Simulation.AlphaDecay < 1, "simulation.alpha_decay must be within (0, 1)"},
		{c.Simulation.VelocityDecay >= 0 && c.Simulation.VelocityDecay <= 1, "simulation.velocity_decay must be within [0, 1]"},
		{c.Simulation.DragAlphaTarget > c.Simulation.AlphaMin && c.Simulation.DragAlphaTarget <= 1, "simulation.drag_alpha_target must be above alpha_min and at most 1"},
		{c.Simulation.TickInterval.Duration > 0, "simulation.tick_interval must be positive"},
		{c.Simulation.MaxStepsPerCall > 0, "simulation.max_steps_per_call must be positive"},
		{c.Interaction.NodeRadius > 0, "interaction.node_radius must be positive"},
		{c.Interaction.ProximityThreshold > 0, "interaction.proximity_threshold must be positive"},
		{c.Interaction.MinZoom > 0, "interaction.min_zoom must be positive"},
		{c.Interaction.MaxZoom >= c.Interaction.MinZoom, "interaction.max_zoom must not be below min_zoom"},
	}
	for _, chk := range checks {
		if !chk.ok {
			return errors.New(errors.ErrCodeInvalidConfig, "%s", chk.msg)
		}
	}
	return nil
}
