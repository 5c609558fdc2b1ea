package export

import (
	"fmt"
	"image/color"
	"sort"

	colorful "github.com/lucasb-eyer/go-colorful"
)

// Colormap maps a value in [0, 1] to a colour by blending between evenly
// spaced stops.
type Colormap struct {
	Name  string
	stops []colorful.Color
}

func mustHex(hex ...string) []colorful.Color {
	out := make([]colorful.Color, len(hex))
	for i, h := range hex {
		c, err := colorful.Hex(h)
		if err != nil {
			panic(err)
		}
		out[i] = c
	}
	return out
}

var colormaps = map[string]Colormap{
	"jet":     {Name: "jet", stops: mustHex("#00007f", "#0000ff", "#007fff", "#00ffff", "#7fff7f", "#ffff00", "#ff7f00", "#ff0000", "#7f0000")},
	"viridis": {Name: "viridis", stops: mustHex("#440154", "#3b528b", "#21918c", "#5ec962", "#fde725")},
	"inferno": {Name: "inferno", stops: mustHex("#000004", "#420a68", "#932667", "#dd513a", "#fca50a", "#fcffa4")},
	"gray":    {Name: "gray", stops: mustHex("#000000", "#ffffff")},
}

func GetColormap(name string) (Colormap, error) {
	cm, ok := colormaps[name]
	if !ok {
		return Colormap{}, fmt.Errorf("unknown colormap: %s", name)
	}
	return cm, nil
}

func ListColormaps() []string {
	names := make([]string, 0, len(colormaps))
	for name := range colormaps {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// At returns the colour for t, clamped to [0, 1]. NaN maps to black.
func (c Colormap) At(t float64) colorful.Color {
	if t != t {
		return colorful.Color{}
	}
	if t <= 0 {
		return c.stops[0]
	}
	if t >= 1 {
		return c.stops[len(c.stops)-1]
	}
	pos := t * float64(len(c.stops)-1)
	i := int(pos)
	return c.stops[i].BlendRgb(c.stops[i+1], pos-float64(i)).Clamped()
}

// Palette samples the colormap at size evenly spaced points.
func (c Colormap) Palette(size int) color.Palette {
	p := make(color.Palette, size)
	for i := range p {
		p[i] = c.At(float64(i) / float64(size-1))
	}
	return p
}
