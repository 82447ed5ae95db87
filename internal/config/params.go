package config

import (
	"sort"

	"github.com/pkg/errors"
)

// ErrUnknownParam is returned by SetParam for names outside Tunables.
var ErrUnknownParam = errors.New("config: unknown parameter")

// tunables maps a dotted parameter name to the field it sets.
var tunables = map[string]func(c *Config) *float64{
	"ramsete.beta":             func(c *Config) *float64 { return &c.Ramsete.Beta },
	"ramsete.zeta":             func(c *Config) *float64 { return &c.Ramsete.Zeta },
	"stanley.kt":               func(c *Config) *float64 { return &c.Stanley.Kt },
	"stanley.steer_kp":         func(c *Config) *float64 { return &c.Stanley.SteerKp },
	"stanley.cruise":           func(c *Config) *float64 { return &c.Stanley.Cruise },
	"stanley.softening":        func(c *Config) *float64 { return &c.Stanley.Softening },
	"planner.max_velocity":     func(c *Config) *float64 { return &c.Planner.MaxVelocity },
	"planner.max_acceleration": func(c *Config) *float64 { return &c.Planner.MaxAcceleration },
}

// Tunables lists the names SetParam accepts, sorted.
func Tunables() []string {
	names := make([]string, 0, len(tunables))
	for name := range tunables {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func (c *Config) GetParam(name string) (float64, error) {
	field, ok := tunables[name]
	if !ok {
		return 0, errors.Wrap(ErrUnknownParam, name)
	}
	return *field(c), nil
}

func (c *Config) SetParam(name string, value float64) error {
	field, ok := tunables[name]
	if !ok {
		return errors.Wrap(ErrUnknownParam, name)
	}
	*field(c) = value
	return nil
}

// Clone returns a deep copy, so tuning trials can each change their own.
func (c *Config) Clone() *Config {
	out := *c
	if c.Routes != nil {
		out.Routes = make(map[string][][][]float64, len(c.Routes))
		for name, segs := range c.Routes {
			cp := make([][][]float64, len(segs))
			for i, seg := range segs {
				cp[i] = make([][]float64, len(seg))
				for j, pt := range seg {
					cp[i][j] = append([]float64(nil), pt...)
				}
			}
			out.Routes[name] = cp
		}
	}
	return &out
}
