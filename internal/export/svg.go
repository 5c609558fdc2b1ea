package export

import (
	"fmt"
	"strings"
)

// FieldToSVG draws the field as one rect per cell.
func FieldToSVG(n int, values []float64, cm Colormap, rng Range, scale float64) (string, error) {
	if err := checkField(n, values, 1); err != nil {
		return "", err
	}
	if rng.zero() {
		rng = FieldRange(values)
	}

	size := float64(n) * scale
	var sb strings.Builder

	sb.WriteString(fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%.0f" height="%.0f" viewBox="0 0 %.0f %.0f" shape-rendering="crispEdges">
`, size, size, size, size))

	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			c := cm.At(rng.normalize(values[i*n+j]))
			sb.WriteString(fmt.Sprintf(`<rect x="%.1f" y="%.1f" width="%.1f" height="%.1f" fill="%s"/>
`, float64(j)*scale, float64(i)*scale, scale, scale, c.Hex()))
		}
	}

	sb.WriteString("</svg>")
	return sb.String(), nil
}

// HistoryToSVG plots a series (for example mean U per step) as a polyline.
func HistoryToSVG(series []float64, width, height int, strokeColor string) string {
	if len(series) < 2 {
		return ""
	}

	lo, hi := series[0], series[0]
	for _, v := range series {
		if v < lo {
			lo = v
		}
		if v > hi {
			hi = v
		}
	}

	span := hi - lo
	if span == 0 {
		span = 1
	}
	lo -= span * 0.1
	hi += span * 0.1
	span = hi - lo

	var sb strings.Builder

	sb.WriteString(fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d">
<rect width="100%%" height="100%%" fill="#0a0a0a"/>
<path fill="none" stroke="%s" stroke-width="1.5" d="M`,
		width, height, width, height, strokeColor))

	last := float64(len(series) - 1)
	for i, v := range series {
		x := float64(i) / last * float64(width)
		y := float64(height) - (v-lo)/span*float64(height)

		if i == 0 {
			sb.WriteString(fmt.Sprintf("%.1f,%.1f", x, y))
		} else {
			sb.WriteString(fmt.Sprintf(" L%.1f,%.1f", x, y))
		}
	}

	sb.WriteString(`"/>
</svg>`)
	return sb.String()
}
