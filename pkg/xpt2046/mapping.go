package xpt2046

import "github.com/chewxy/math32"

// Mapping is the linear transform from raw ADC units to screen pixels,
// applied before rotation.
type Mapping struct {
	XScale  float32
	YScale  float32
	XOffset int
	YOffset int
}

// Identity returns a unit-scale, zero-offset mapping.
func Identity() Mapping {
	return Mapping{XScale: 1, YScale: 1}
}

// Valid reports whether both scales are finite and non-zero.
func (m Mapping) Valid() bool {
	return finite(m.XScale) && finite(m.YScale) && m.XScale != 0 && m.YScale != 0
}

// apply maps a raw centroid into screen coordinates.
// X is clamped to the screen height and Y to the screen width.
func (m Mapping) apply(raw Position, width, height, rotation int) Position {
	sx := int(float32(m.XOffset) + float32(raw.X)*m.XScale)
	sy := int(float32(m.YOffset) + float32(raw.Y)*m.YScale)

	sx = clamp(sx, height)
	sy = clamp(sy, width)

	return rotate(sx, sy, width, height, rotation)
}

// rotate applies one of the four output orientations.
func rotate(sx, sy, width, height, rotation int) Position {
	switch rotation {
	case 1:
		return Position{X: sy, Y: height - sx}
	case 2:
		return Position{X: height - sx, Y: width - sy}
	case 3:
		return Position{X: width - sy, Y: sx}
	default:
		return Position{X: sx, Y: sy}
	}
}

func clamp(v, limit int) int {
	if v > limit {
		return limit
	}
	if v < 0 {
		return 0
	}
	return v
}

// normalizeRotation reduces r into [0, 3], so -1 becomes 3.
func normalizeRotation(r int) int {
	return ((r % 4) + 4) % 4
}

func finite(v float32) bool {
	return !math32.IsNaN(v) && !math32.IsInf(v, 0)
}
