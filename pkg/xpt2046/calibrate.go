package xpt2046

import (
	"context"
	"errors"
	"time"
)

// ErrDegenerateCalibration is returned when the captured corners do not span
// a usable area on either axis.
var ErrDegenerateCalibration = errors.New("degenerate calibration points")

// Corner identifies a calibration target. Corners are captured in
// declaration order.
type Corner int

const (
	TopLeft Corner = iota
	TopRight
	BottomRight
	BottomLeft
)

// Corners lists the calibration targets in capture order.
var Corners = [4]Corner{TopLeft, TopRight, BottomRight, BottomLeft}

func (c Corner) String() string {
	switch c {
	case TopLeft:
		return "top-left"
	case TopRight:
		return "top-right"
	case BottomRight:
		return "bottom-right"
	case BottomLeft:
		return "bottom-left"
	}
	return "unknown"
}

// CalibrateOptions tunes CalibrateContext. The zero value reproduces
// Calibrate: busy polling with no prompt and no release wait.
type CalibrateOptions struct {
	// OnCorner is called before waiting for each corner.
	OnCorner func(Corner)
	// OnCaptured is called with the raw centroid of each captured corner.
	OnCaptured func(Corner, Position)
	// Interval is slept between unsuccessful sample passes.
	Interval time.Duration
	// WaitRelease waits for a not-pressed pass before the next corner.
	WaitRelease bool
}

// Calibrate captures the four corners and replaces the mapping.
// It blocks until each corner is pressed; there is no timeout.
func (d *Device) Calibrate() error {
	return d.CalibrateContext(context.Background(), CalibrateOptions{})
}

// CalibrateContext runs the calibration procedure, checking ctx before every
// sample pass. On error the mapping is left unchanged.
func (d *Device) CalibrateContext(ctx context.Context, opts CalibrateOptions) error {
	var corners [4]Position

	for i, c := range Corners {
		if i > 0 && opts.WaitRelease {
			if err := d.waitPressed(ctx, false, opts.Interval); err != nil {
				return err
			}
		}
		if opts.OnCorner != nil {
			opts.OnCorner(c)
		}
		if err := d.waitPressed(ctx, true, opts.Interval); err != nil {
			return err
		}
		corners[i] = d.RawPosition()
		if opts.OnCaptured != nil {
			opts.OnCaptured(c, corners[i])
		}
	}

	m, err := CalibrationMapping(corners, d.width, d.height)
	if err != nil {
		return err
	}
	d.mapping = m
	return nil
}

// waitPressed samples until IsPressed equals want.
func (d *Device) waitPressed(ctx context.Context, want bool, interval time.Duration) error {
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		d.Sample()
		if d.pressed == want {
			return nil
		}
		if interval > 0 {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(interval):
			}
		}
	}
}

// CalibrationMapping derives a mapping from raw centroids captured at
// TopLeft, TopRight, BottomRight and BottomLeft (in that order).
//
// NOTE: the far X reference averages the bottom-right X with the
// bottom-left Y, not the bottom-left X.
func CalibrationMapping(corners [4]Position, width, height int) (Mapping, error) {
	tl, tr, br, bl := corners[0], corners[1], corners[2], corners[3]

	px0 := (tl.X + tr.X) / 2
	py0 := (tl.Y + bl.Y) / 2
	px1 := (br.X + bl.Y) / 2
	py1 := (br.Y + tr.Y) / 2

	if px1 == px0 || py1 == py0 {
		return Mapping{}, ErrDegenerateCalibration
	}

	xs := float32(height) / float32(px1-px0)
	ys := float32(width) / float32(py1-py0)

	m := Mapping{
		XScale:  xs,
		YScale:  ys,
		XOffset: int(float32(height) - float32(px1)*xs),
		YOffset: int(float32(width) - float32(py1)*ys),
	}
	if !m.Valid() {
		return Mapping{}, ErrDegenerateCalibration
	}
	return m, nil
}
