package viz

import (
	"strings"
)

// brailleBlank is U+2800, the empty Braille cell. Each cell holds a 2×4
// block of dots; dotBits maps a sub-pixel (row, col) to its bit.
const brailleBlank = 0x2800

var dotBits = [4][2]rune{
	{0x01, 0x08},
	{0x02, 0x10},
	{0x04, 0x20},
	{0x40, 0x80},
}

// Canvas packs a binary image into Braille characters, giving two
// horizontal and four vertical sub-pixels per terminal cell.
type Canvas struct {
	Width, Height int
	Grid          [][]rune
}

func NewCanvas(w, h int) *Canvas {
	c := &Canvas{Width: w, Height: h, Grid: make([][]rune, h)}
	for i := range c.Grid {
		c.Grid[i] = []rune(strings.Repeat(string(rune(brailleBlank)), w))
	}
	return c
}

// Set lights the dot at sub-pixel (x, y). The canvas is Width*2 by
// Height*4 sub-pixels.
func (c *Canvas) Set(x, y int) {
	if x < 0 || y < 0 {
		return
	}

	col := x / 2
	row := y / 4
	if col >= c.Width || row >= c.Height {
		return
	}

	c.Grid[row][col] |= dotBits[y%4][x%2]
}

func (c *Canvas) Clear() {
	for i := range c.Grid {
		for j := range c.Grid[i] {
			c.Grid[i][j] = brailleBlank
		}
	}
}

// DrawField lights every sub-pixel whose nearest grid cell exceeds
// threshold. The whole n×n field is stretched over the canvas.
func (c *Canvas) DrawField(n int, values []float64, threshold float64) {
	c.Clear()
	w, h := c.Width*2, c.Height*4
	for y := 0; y < h; y++ {
		i := y * n / h
		for x := 0; x < w; x++ {
			j := x * n / w
			if values[i*n+j] > threshold {
				c.Set(x, y)
			}
		}
	}
}

// Lit counts the dots that are set.
func (c *Canvas) Lit() int {
	count := 0
	for _, row := range c.Grid {
		for _, r := range row {
			for bits := r - brailleBlank; bits != 0; bits &= bits - 1 {
				count++
			}
		}
	}
	return count
}

func (c *Canvas) String() string {
	var b strings.Builder
	for _, row := range c.Grid {
		b.WriteString(string(row) + "\n")
	}
	return b.String()
}
