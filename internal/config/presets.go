package config

import "github.com/san-kum/motionlab/internal/path"

// Presets are built-in routes, in inches from a robot starting at the origin
// facing +y.
var Presets = map[string]path.Route{
	"straight": {
		path.NewSegment(0, 0, 0, 24, 0, 48),
	},
	"curve": {
		path.NewSegment(0, 0, 24, 24, 0, 48),
	},
	"s-curve": {
		path.NewSegment(0, 0, 24, 12, 12, 24),
		path.NewSegment(12, 24, 0, 36, 24, 48),
	},
	"hook": {
		path.NewSegment(0, 0, 0, 36, 36, 36),
	},
	"slalom": {
		path.NewSegment(0, 0, 0, 12, 12, 18),
		path.NewSegment(12, 18, 24, 24, 12, 36),
		path.NewSegment(12, 36, 0, 48, 12, 60),
	},
}

// GetPreset returns the preset route called name, or nil.
func GetPreset(name string) path.Route {
	return Presets[name]
}

// ListPresets returns the preset names in no particular order.
func ListPresets() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	return names
}
