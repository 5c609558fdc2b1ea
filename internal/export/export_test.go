package export

import (
	"bytes"
	"image/gif"
	"image/png"
	"math"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func ramp(n int) []float64 {
	v := make([]float64, n*n)
	for k := range v {
		v[k] = float64(k) / float64(len(v)-1)
	}
	return v
}

func TestColormapEnds(t *testing.T) {
	jet, err := GetColormap("jet")
	require.NoError(t, err)
	require.Equal(t, "#00007f", jet.At(0).Hex())
	require.Equal(t, "#7f0000", jet.At(1).Hex())
	require.Equal(t, jet.At(0), jet.At(-3), "values below the range clamp")
	require.Equal(t, "#000000", jet.At(math.NaN()).Hex())

	_, err = GetColormap("rainbow")
	require.Error(t, err)
	require.Contains(t, ListColormaps(), "viridis")
	require.Len(t, jet.Palette(256), 256)
}

func TestPNGSize(t *testing.T) {
	cm, _ := GetColormap("gray")
	var buf bytes.Buffer
	require.NoError(t, WritePNG(&buf, 8, ramp(8), cm, Range{}, 3))

	img, err := png.Decode(&buf)
	require.NoError(t, err)
	require.Equal(t, 24, img.Bounds().Dx())
	require.Equal(t, 24, img.Bounds().Dy())

	r, _, _, _ := img.At(0, 0).RGBA()
	require.Zero(t, r, "minimum maps to black")
	r, _, _, _ = img.At(23, 23).RGBA()
	require.Equal(t, uint32(0xffff), r, "maximum maps to white")
}

func TestFieldImageRejectsBadInput(t *testing.T) {
	cm, _ := GetColormap("jet")
	_, err := FieldImage(4, ramp(3), cm, Range{}, 1)
	require.Error(t, err)
	_, err = FieldImage(4, ramp(4), cm, Range{}, 0)
	require.Error(t, err)
}

func TestFieldRangeSkipsNonFinite(t *testing.T) {
	r := FieldRange([]float64{0.2, math.NaN(), 0.7, math.Inf(1)})
	require.Equal(t, Range{Lo: 0.2, Hi: 0.7}, r)
	require.Equal(t, Range{Lo: 0, Hi: 1}, FieldRange([]float64{math.NaN()}))
}

func TestMovie(t *testing.T) {
	cm, _ := GetColormap("inferno")
	m := NewMovie(6, cm, Range{}, 2, 5)
	var buf bytes.Buffer
	require.Error(t, m.Encode(&buf))

	for i := 0; i < 3; i++ {
		require.NoError(t, m.AddFrame(ramp(6)))
	}
	require.Error(t, m.AddFrame(ramp(5)))
	require.Equal(t, 3, m.Len())
	require.NoError(t, m.Encode(&buf))

	anim, err := gif.DecodeAll(&buf)
	require.NoError(t, err)
	require.Len(t, anim.Image, 3)
	require.Equal(t, 12, anim.Image[0].Bounds().Dx())
	require.Equal(t, []int{5, 5, 5}, anim.Delay)
}

func TestSVG(t *testing.T) {
	cm, _ := GetColormap("jet")
	svg, err := FieldToSVG(3, ramp(3), cm, Range{}, 4)
	require.NoError(t, err)
	require.Equal(t, 9, strings.Count(svg, "<rect"))
	require.True(t, strings.HasSuffix(svg, "</svg>"))

	require.Empty(t, HistoryToSVG([]float64{1}, 100, 50, "#fff"))
	line := HistoryToSVG([]float64{1, 0.9, 0.8}, 100, 50, "#fff")
	require.Equal(t, 2, strings.Count(line, " L"))
}
