package viz

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/san-kum/grayscott/internal/export"
)

// Heatmap renders an n×n field into cols×rows terminal cells. Each cell is
// an upper half block whose foreground and background carry two vertically
// adjacent samples, so the picture has 2·rows sample rows.
func Heatmap(n int, values []float64, cm export.Colormap, rng export.Range, cols, rows int) string {
	if cols < 1 || rows < 1 || n < 1 {
		return ""
	}
	if rng.Lo == rng.Hi {
		rng = export.FieldRange(values)
	}
	span := rng.Hi - rng.Lo
	if span == 0 {
		span = 1
	}
	colour := func(y, x int) lipgloss.Color {
		i := y * n / (2 * rows)
		j := x * n / cols
		return lipgloss.Color(cm.At((values[i*n+j] - rng.Lo) / span).Hex())
	}

	var b strings.Builder
	for r := 0; r < rows; r++ {
		for c := 0; c < cols; c++ {
			style := lipgloss.NewStyle().
				Foreground(colour(2*r, c)).
				Background(colour(2*r+1, c))
			b.WriteString(style.Render("▀"))
		}
		if r < rows-1 {
			b.WriteByte('\n')
		}
	}
	return b.String()
}
