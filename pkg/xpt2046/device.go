// Package xpt2046 implements sampling, filtering, coordinate mapping and
// four-point calibration for the XPT2046 resistive touch-screen controller.
package xpt2046

import "tinygo.org/x/drivers/touch"

const (
	// CmdX is the control byte for a 12-bit differential X conversion.
	CmdX byte = 0xD0
	// CmdY is the control byte for a 12-bit differential Y conversion.
	CmdY byte = 0x90

	// RailLow and RailHigh are the ADC extremes. A reading at either rail
	// means the panel is not firmly pressed or the conversion saturated.
	RailLow  = 0
	RailHigh = 4095

	// DefaultSampleSize is the number of raw pairs acquired per pass.
	DefaultSampleSize = 20
)

// RawSample is a single raw ADC pair.
type RawSample struct {
	X, Y int
}

// Position is either a filtered raw centroid or a mapped screen coordinate.
type Position struct {
	X, Y int
}

// Config holds construction parameters of a Device.
type Config struct {
	Width      int     // screen width in pixels
	Height     int     // screen height in pixels
	Mapping    Mapping // initial scale and offset
	SampleSize int     // raw pairs per pass (0 = DefaultSampleSize)
}

// Device is a single XPT2046 controller with its mapping state.
//
// Device is not safe for concurrent use. Callers must serialize access,
// including Calibrate which blocks on the calling goroutine.
type Device struct {
	bus Bus

	width    int
	height   int
	mapping  Mapping
	rotation int

	pos     Position
	pressed bool

	// per-pass buffers, sized once at construction
	samples []RawSample
	ranks   []rank
}

// New creates a Device on the given bus.
func New(bus Bus, cfg Config) *Device {
	size := cfg.SampleSize
	if size < 2 {
		size = DefaultSampleSize
	}

	return &Device{
		bus:     bus,
		width:   cfg.Width,
		height:  cfg.Height,
		mapping: cfg.Mapping,
		samples: make([]RawSample, size),
		ranks:   make([]rank, size),
	}
}

// IsPressed reports whether every raw pair of the last Sample pass was
// off the ADC rails.
func (d *Device) IsPressed() bool {
	return d.pressed
}

// InterruptLevel returns the level of the touch-detect line.
func (d *Device) InterruptLevel() int {
	return d.bus.InterruptLevel()
}

// Sample performs one acquisition pass and updates the filtered raw
// position and the pressed flag.
func (d *Device) Sample() {
	d.pressed = true
	for i := range d.samples {
		x := d.bus.ReadSample(CmdX)
		y := d.bus.ReadSample(CmdY)
		if isRail(x) || isRail(y) {
			d.pressed = false
		}
		d.samples[i] = RawSample{X: x, Y: y}
	}

	d.pos = filter(d.samples, d.ranks)
}

// SampleSize returns the number of raw pairs acquired per pass.
func (d *Device) SampleSize() int {
	return len(d.samples)
}

// SetRotation sets the output rotation, reduced into [0, 3].
func (d *Device) SetRotation(r int) {
	d.rotation = normalizeRotation(r)
}

// Rotation returns the current output rotation.
func (d *Device) Rotation() int {
	return d.rotation
}

// RawPosition returns the filtered raw centroid of the last pass.
func (d *Device) RawPosition() Position {
	return d.pos
}

// Position returns the mapped screen coordinate of the last pass.
func (d *Device) Position() Position {
	return d.mapping.apply(d.pos, d.width, d.height, d.rotation)
}

// X returns the mapped screen X coordinate.
func (d *Device) X() int {
	return d.Position().X
}

// Y returns the mapped screen Y coordinate.
func (d *Device) Y() int {
	return d.Position().Y
}

// Size returns the screen dimensions fixed at construction.
func (d *Device) Size() (width, height int) {
	return d.width, d.height
}

// Bounds returns the largest mapped X and Y for the current rotation.
func (d *Device) Bounds() Position {
	if d.rotation%2 == 1 {
		return Position{X: d.width, Y: d.height}
	}
	return Position{X: d.height, Y: d.width}
}

// SetMapping overrides the scale and offset, e.g. with a stored calibration.
func (d *Device) SetMapping(m Mapping) {
	d.mapping = m
}

// Mapping returns the current scale and offset.
func (d *Device) Mapping() Mapping {
	return d.mapping
}

// ReadTouchPoint samples the panel and returns the mapped position.
// Z is 1 while pressed and 0 otherwise.
func (d *Device) ReadTouchPoint() touch.Point {
	d.Sample()
	if !d.pressed {
		return touch.Point{}
	}
	p := d.Position()
	return touch.Point{X: p.X, Y: p.Y, Z: 1}
}

func isRail(v int) bool {
	return v == RailLow || v == RailHigh
}
