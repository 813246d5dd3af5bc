package main

import (
	"github.com/itohio/goxpt/pkg/config"
	"github.com/itohio/goxpt/pkg/xpt2046"
)

// mockRaw converts a pad position into the reading a linear panel spanning
// [RawMin, RawMax] would produce. The position is first rotated back into
// the unrotated frame, where X spans the height and Y the width.
func mockRaw(p xpt2046.Position, rotation int, screen *config.ScreenConfig, mock *config.MockConfig) xpt2046.RawSample {
	sx, sy := unrotate(p, rotation, screen.Width, screen.Height)
	return xpt2046.RawSample{
		X: lerp(sx, screen.Height, mock.RawMin, mock.RawMax),
		Y: lerp(sy, screen.Width, mock.RawMin, mock.RawMax),
	}
}

// unrotate inverts the output rotation.
func unrotate(p xpt2046.Position, rotation, width, height int) (sx, sy int) {
	switch ((rotation % 4) + 4) % 4 {
	case 1:
		return height - p.Y, p.X
	case 2:
		return height - p.X, width - p.Y
	case 3:
		return p.Y, width - p.X
	default:
		return p.X, p.Y
	}
}

func lerp(v, span, lo, hi int) int {
	if span <= 0 {
		return lo
	}
	return lo + v*(hi-lo)/span
}
