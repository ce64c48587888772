package plots

import (
	"image/color"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPalette(t *testing.T) {
	assert.Nil(t, Palette(0))

	colors := Palette(4)
	assert.Len(t, colors, 4)
	seen := make(map[string]bool)
	for _, c := range colors {
		seen[hexColor(c)] = true
	}
	assert.Len(t, seen, 4, "palette colours should be distinct")
}

func TestHexColor(t *testing.T) {
	assert.Equal(t, "#ff0010", hexColor(color.RGBA{R: 255, G: 0, B: 16, A: 255}))
	assert.Equal(t, "#000000", hexColor(color.Black))
}

func TestHSLToRGB(t *testing.T) {
	r, g, b := hslToRGB(0, 0, 0.5)
	assert.Equal(t, r, g)
	assert.Equal(t, g, b)

	r, g, b = hslToRGB(0, 1, 0.5)
	assert.Equal(t, uint8(255), r)
	assert.Equal(t, uint8(0), g)
	assert.Equal(t, uint8(0), b)
}
