package config

import (
	"os"
	"sort"

	"github.com/pkg/errors"
	"go.uber.org/multierr"
	"gopkg.in/yaml.v3"

	"github.com/san-kum/motionlab/internal/drivetrain"
	"github.com/san-kum/motionlab/internal/hardware"
	"github.com/san-kum/motionlab/internal/path"
	"github.com/san-kum/motionlab/internal/sim"
	"github.com/san-kum/motionlab/internal/tracking"
)

const (
	DefaultRoute           = "s-curve"
	DefaultMaxVelocity     = 48.0
	DefaultMaxAcceleration = 24.0
	DefaultPointSpacing    = 1.0
)

// ErrUnknownRoute is returned for a route name that is neither configured
// nor a preset.
var ErrUnknownRoute = errors.New("config: unknown route")

type Config struct {
	Robot   sim.Params             `yaml:"robot"`
	Chassis drivetrain.Config      `yaml:"chassis"`
	Planner path.Limits            `yaml:"planner"`
	Ramsete tracking.RamseteConfig `yaml:"ramsete"`
	Stanley tracking.StanleyConfig `yaml:"stanley"`
	Start   hardware.Pose          `yaml:"start"`
	Route   string                 `yaml:"route"`
	// Routes are named bezier chains, each segment a list of three [x, y]
	// points. They shadow presets of the same name.
	Routes map[string][][][]float64 `yaml:"routes,omitempty"`
}

func DefaultConfig() *Config {
	robot := sim.DefaultParams()
	return &Config{
		Robot:   robot,
		Chassis: drivetrain.DefaultConfig(),
		Planner: path.Limits{
			MaxVelocity:     DefaultMaxVelocity,
			MaxAcceleration: DefaultMaxAcceleration,
			TrackWidth:      robot.TrackWidth,
			PointSpacing:    DefaultPointSpacing,
		},
		Ramsete: tracking.DefaultRamseteConfig(),
		Stanley: tracking.DefaultStanleyConfig(),
		Route:   DefaultRoute,
	}
}

// Load reads a YAML file over the defaults, so a file only needs the
// values it changes.
func Load(file string) (*Config, error) {
	data, err := os.ReadFile(file)
	if err != nil {
		return nil, errors.Wrap(err, "config: read")
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, errors.Wrapf(err, "config: parse %s", file)
	}
	return cfg, nil
}

func Save(file string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return errors.Wrap(err, "config: encode")
	}
	return os.WriteFile(file, data, 0644)
}

// Validate checks every section and reports all problems together.
func (c *Config) Validate() error {
	err := multierr.Combine(
		errors.Wrap(c.Robot.Validate(), "robot"),
		errors.Wrap(c.Chassis.Validate(), "chassis"),
		errors.Wrap(c.Planner.Validate(), "planner"),
		errors.Wrap(c.Ramsete.Validate(), "ramsete"),
		errors.Wrap(c.Stanley.Validate(), "stanley"),
	)
	for name, pts := range c.Routes {
		if _, rerr := path.RouteFromPoints(pts); rerr != nil {
			err = multierr.Append(err, errors.Wrapf(rerr, "route %q", name))
		}
	}
	return err
}

// GetRoute resolves name against the configured routes, then the presets.
func (c *Config) GetRoute(name string) (path.Route, error) {
	if pts, ok := c.Routes[name]; ok {
		return path.RouteFromPoints(pts)
	}
	if r, ok := Presets[name]; ok {
		return r, nil
	}
	return nil, errors.Wrap(ErrUnknownRoute, name)
}

// ListRoutes returns every resolvable route name, sorted.
func (c *Config) ListRoutes() []string {
	seen := make(map[string]bool, len(Presets)+len(c.Routes))
	for name := range Presets {
		seen[name] = true
	}
	for name := range c.Routes {
		seen[name] = true
	}
	names := make([]string, 0, len(seen))
	for name := range seen {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
