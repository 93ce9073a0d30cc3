package config

import (
	"math"
	"sort"
)

// Presets are ready-made scenarios, keyed by name.
var Presets = map[string]*Config{
	"resting": resting(),
	"drop":    drop(),
	"incline": incline(10),
	"push":    push(),
	"crawl":   crawl(),
}

func resting() *Config {
	cfg := DefaultConfig()
	cfg.Name = "resting"
	cfg.Sim.Duration = 1.0
	return cfg
}

// drop releases a horizontal rod half a meter above the floor. The plane's
// dashpot also acts away from contact, so it is kept light here.
func drop() *Config {
	cfg := DefaultConfig()
	cfg.Name = "drop"
	cfg.Rod.Start = Vec3{0, 0, 0.5}
	cfg.Plane.Damping = 0.2
	cfg.Sim.Duration = 1.5
	return cfg
}

// incline lays the rod head-up along the slope of a plane tilted by deg
// degrees about y. Gravity pulls it tail first, against the backward
// coefficient.
func incline(deg float64) *Config {
	cfg := DefaultConfig()
	cfg.Name = "incline"

	th := deg * math.Pi / 180
	normal := Vec3{math.Sin(th), 0, math.Cos(th)}
	downhill := Vec3{math.Cos(th), 0, -math.Sin(th)}
	r := cfg.Rod.Radius

	cfg.Plane.Normal = normal
	cfg.Rod.Direction = downhill
	cfg.Rod.Start = Vec3{r * normal[0], 0, r * normal[2]}
	cfg.Sim.Duration = 2.0
	return cfg
}

// push shoves a resting rod sideways, past the static sideways limit, for
// 0.3 s; kinetic friction then brings it to rest.
func push() *Config {
	cfg := DefaultConfig()
	cfg.Name = "push"
	cfg.Forces.Push = PushConfig{Force: Vec3{0, 12, 0}, Start: 0.1, Stop: 0.4}
	cfg.Sim.Duration = 1.5
	return cfg
}

// crawl drives a peristaltic stretch wave along the rod. Net travel comes
// only from the forward/backward friction asymmetry.
func crawl() *Config {
	cfg := DefaultConfig()
	cfg.Name = "crawl"
	cfg.Forces.Stretch.Amplitude = 0.1
	cfg.Forces.Stretch.Frequency = 2
	cfg.Friction.Kinetic.Backward = 1.0
	cfg.Friction.Static.Backward = 1.5
	cfg.Sim.Duration = 5.0
	cfg.Sim.SampleEvery = 200
	return cfg
}

// GetPreset returns a copy of the named preset, or nil.
func GetPreset(name string) *Config {
	cfg, ok := Presets[name]
	if !ok {
		return nil
	}
	return cfg.Clone()
}

func ListPresets() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
