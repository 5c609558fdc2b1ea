package config

import (
	"fmt"
	"sort"
)

// Preset is a named point in the (F, k) plane with a known pattern type.
type Preset struct {
	F           float64 `yaml:"f"`
	K           float64 `yaml:"k"`
	Description string  `yaml:"description"`
}

var Presets = map[string]Preset{
	"default":  {F: 0.025, K: 0.056, Description: "spots and stripes from a central seed"},
	"coral":    {F: 0.0545, K: 0.062, Description: "branching coral growth"},
	"mitosis":  {F: 0.0367, K: 0.0649, Description: "self-replicating spots"},
	"maze":     {F: 0.029, K: 0.057, Description: "labyrinthine stripes"},
	"solitons": {F: 0.03, K: 0.062, Description: "stable isolated spots"},
	"waves":    {F: 0.014, K: 0.045, Description: "travelling waves"},
	"worms":    {F: 0.078, K: 0.061, Description: "worm-like segments"},
	"holes":    {F: 0.039, K: 0.058, Description: "negative spots in a V background"},
}

func GetPreset(name string) (Preset, bool) {
	p, ok := Presets[name]
	return p, ok
}

func ListPresets() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// ApplyPreset overwrites F and k with the named preset.
func (c *Config) ApplyPreset(name string) error {
	p, ok := Presets[name]
	if !ok {
		return fmt.Errorf("unknown preset: %s", name)
	}
	c.F, c.K = p.F, p.K
	return nil
}
