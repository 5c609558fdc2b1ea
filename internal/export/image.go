package export

import (
	"fmt"
	"image"
	"image/color"
	"image/gif"
	"image/png"
	"io"
	"math"
	"os"
)

// Range gives the value interval mapped onto the colormap. A zero Range
// means "use the field's own min and max".
type Range struct {
	Lo, Hi float64
}

func (r Range) zero() bool { return r.Lo == 0 && r.Hi == 0 }

// FieldRange returns the finite min and max of values.
func FieldRange(values []float64) Range {
	r := Range{Lo: math.Inf(1), Hi: math.Inf(-1)}
	for _, v := range values {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			continue
		}
		r.Lo = math.Min(r.Lo, v)
		r.Hi = math.Max(r.Hi, v)
	}
	if r.Lo > r.Hi {
		return Range{Lo: 0, Hi: 1}
	}
	return r
}

func (r Range) normalize(v float64) float64 {
	if r.Hi == r.Lo {
		return 0.5
	}
	return (v - r.Lo) / (r.Hi - r.Lo)
}

func checkField(n int, values []float64, scale int) error {
	if n < 1 || len(values) != n*n {
		return fmt.Errorf("field has %d values, want %d", len(values), n*n)
	}
	if scale < 1 {
		return fmt.Errorf("scale must be at least 1, got %d", scale)
	}
	return nil
}

// FieldImage renders an n×n row-major field with each cell drawn as a
// scale×scale block. Row 0 is at the top.
func FieldImage(n int, values []float64, cm Colormap, rng Range, scale int) (*image.RGBA, error) {
	if err := checkField(n, values, scale); err != nil {
		return nil, err
	}
	if rng.zero() {
		rng = FieldRange(values)
	}

	img := image.NewRGBA(image.Rect(0, 0, n*scale, n*scale))
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			c := color.RGBAModel.Convert(cm.At(rng.normalize(values[i*n+j]))).(color.RGBA)
			for y := i * scale; y < (i+1)*scale; y++ {
				for x := j * scale; x < (j+1)*scale; x++ {
					img.SetRGBA(x, y, c)
				}
			}
		}
	}
	return img, nil
}

func WritePNG(w io.Writer, n int, values []float64, cm Colormap, rng Range, scale int) error {
	img, err := FieldImage(n, values, cm, rng, scale)
	if err != nil {
		return err
	}
	return png.Encode(w, img)
}

func SavePNG(path string, n int, values []float64, cm Colormap, rng Range, scale int) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := WritePNG(f, n, values, cm, rng, scale); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// Movie collects frames for an animated GIF. All frames share one
// 256-colour palette sampled from the colormap and one value range, so
// colours stay comparable across frames.
type Movie struct {
	n, scale int
	cm       Colormap
	rng      Range
	delay    int
	anim     gif.GIF
}

// NewMovie starts an animation. delay is the frame time in hundredths of a
// second.
func NewMovie(n int, cm Colormap, rng Range, scale, delay int) *Movie {
	if rng.zero() {
		rng = Range{Lo: 0, Hi: 1}
	}
	return &Movie{n: n, scale: scale, cm: cm, rng: rng, delay: delay}
}

func (m *Movie) Len() int { return len(m.anim.Image) }

func (m *Movie) AddFrame(values []float64) error {
	if err := checkField(m.n, values, m.scale); err != nil {
		return err
	}
	pal := m.cm.Palette(256)
	size := m.n * m.scale
	img := image.NewPaletted(image.Rect(0, 0, size, size), pal)
	for i := 0; i < m.n; i++ {
		for j := 0; j < m.n; j++ {
			t := m.rng.normalize(values[i*m.n+j])
			idx := uint8(0)
			if t == t {
				idx = uint8(math.Round(math.Max(0, math.Min(1, t)) * 255))
			}
			for y := i * m.scale; y < (i+1)*m.scale; y++ {
				row := img.Pix[y*img.Stride : y*img.Stride+size]
				for x := j * m.scale; x < (j+1)*m.scale; x++ {
					row[x] = idx
				}
			}
		}
	}
	m.anim.Image = append(m.anim.Image, img)
	m.anim.Delay = append(m.anim.Delay, m.delay)
	return nil
}

func (m *Movie) Encode(w io.Writer) error {
	if len(m.anim.Image) == 0 {
		return fmt.Errorf("movie has no frames")
	}
	return gif.EncodeAll(w, &m.anim)
}

func (m *Movie) Save(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := m.Encode(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
