package ui

import "fmt"

// Color is an RGBA color with components in [0, 1].
type Color struct {
	R, G, B, A float64
}

// Common colors used by the editor system for type color-coding.
var (
	White   = Color{1, 1, 1, 1}
	Black   = Color{0, 0, 0, 1}
	Red     = Color{1, 0, 0, 1}
	Green   = Color{0, 1, 0, 1}
	Blue    = Color{0.2, 0.2, 1, 1}
	Yellow  = Color{1, 1, 0, 1}
	Cyan    = Color{0, 1, 1, 1}
	Magenta = Color{1, 0, 1, 1}
	Gray    = Color{0.5, 0.5, 0.5, 1}
)

// Mean returns the component-wise average of the given colors.
// With no arguments it returns opaque white.
func Mean(colors ...Color) Color {
	if len(colors) == 0 {
		return White
	}
	var m Color
	for _, c := range colors {
		m.R += c.R
		m.G += c.G
		m.B += c.B
		m.A += c.A
	}
	n := float64(len(colors))
	return Color{m.R / n, m.G / n, m.B / n, m.A / n}
}

// String formats the color as "rgba(R, G, B, A)".
func (c Color) String() string {
	return fmt.Sprintf("rgba(%.2f, %.2f, %.2f, %.2f)", c.R, c.G, c.B, c.A)
}

// Hex returns the color as a "#RRGGBB" string, ignoring alpha.
func (c Color) Hex() string {
	return fmt.Sprintf("#%02x%02x%02x", clamp8(c.R), clamp8(c.G), clamp8(c.B))
}

func clamp8(v float64) uint8 {
	if v <= 0 {
		return 0
	}
	if v >= 1 {
		return 255
	}
	return uint8(v*255 + 0.5)
}

// Vec2 is a two-component vector.
type Vec2 struct {
	X, Y float64
}

// String formats the vector as "(X, Y)".
func (v Vec2) String() string {
	return fmt.Sprintf("(%.2f, %.2f)", v.X, v.Y)
}
