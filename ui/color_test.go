package ui

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMean(t *testing.T) {
	assert.Equal(t, White, Mean())
	assert.Equal(t, Red, Mean(Red))

	m := Mean(Black, White)
	assert.InDelta(t, 0.5, m.R, 1e-9)
	assert.InDelta(t, 0.5, m.G, 1e-9)
	assert.InDelta(t, 0.5, m.B, 1e-9)
	assert.InDelta(t, 1.0, m.A, 1e-9)
}

func TestColorHex(t *testing.T) {
	assert.Equal(t, "#ffffff", White.Hex())
	assert.Equal(t, "#000000", Black.Hex())
	assert.Equal(t, "#ff0000", Red.Hex())
	// Out-of-range components clamp.
	assert.Equal(t, "#ff0000", Color{R: 2, G: -1, B: 0, A: 1}.Hex())
}

func TestColorString(t *testing.T) {
	assert.Equal(t, "rgba(1.00, 0.00, 0.00, 1.00)", Red.String())
}

func TestVec2String(t *testing.T) {
	assert.Equal(t, "(1.50, -2.00)", Vec2{X: 1.5, Y: -2}.String())
}
