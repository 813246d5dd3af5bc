// Package pad provides a Fyne widget that draws touches on a picture of the panel.
package pad

import (
	"sync"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/driver/desktop"
	"fyne.io/fyne/v2/widget"
	"github.com/itohio/goxpt/pkg/sample"
	"github.com/itohio/goxpt/pkg/xpt2046"
)

const (
	margin           = float32(10)
	maxTrail         = 2000
	maxDisplayPoints = 500
)

var (
	_ desktop.Mouseable = (*PadWidget)(nil)
	_ fyne.Draggable    = (*PadWidget)(nil)
)

// PadWidget is a custom Fyne widget that displays the touch trail on a
// scaled image of the panel. Mapped Y runs horizontally and mapped X
// vertically, so the top-left corner is (0, 0) and the bottom-left corner
// is (bounds.X, 0).
type PadWidget struct {
	widget.BaseWidget

	// OnPress and OnRelease are called with panel coordinates when the
	// pad itself is clicked or dragged. Used to drive a simulated panel.
	OnPress   func(p xpt2046.Position)
	OnRelease func()

	// Data (protected by mu)
	mu        sync.RWMutex
	bounds    xpt2046.Position
	trail     []sample.Touch
	display   []sample.Touch
	last      sample.Touch
	hasLast   bool
	target    xpt2046.Corner
	hasTarget bool
	status    string
}

// New creates a pad for a panel whose mapped coordinates end at bounds.
func New(bounds xpt2046.Position) *PadWidget {
	p := &PadWidget{
		bounds:  bounds,
		trail:   make([]sample.Touch, 0, maxTrail),
		display: make([]sample.Touch, 0, maxDisplayPoints),
	}
	p.ExtendBaseWidget(p)
	return p
}

// SetBounds changes the panel extent, e.g. after a rotation change.
// The trail is cleared since its coordinates no longer apply.
func (p *PadWidget) SetBounds(bounds xpt2046.Position) {
	p.mu.Lock()
	p.bounds = bounds
	p.trail = p.trail[:0]
	p.display = p.display[:0]
	p.hasLast = false
	p.mu.Unlock()

	p.Refresh()
}

// Bounds returns the panel extent.
func (p *PadWidget) Bounds() xpt2046.Position {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.bounds
}

// Add appends a touch transition to the trail.
// This should be called from the UI goroutine using fyne.Do().
func (p *PadWidget) Add(e sample.Event) {
	p.mu.Lock()

	if len(p.trail) == maxTrail {
		n := copy(p.trail, p.trail[maxTrail/2:])
		p.trail = p.trail[:n]
	}
	p.trail = append(p.trail, e.Touch)
	p.display = sample.Downsample(p.display, p.trail, maxDisplayPoints)
	p.last = e.Touch
	p.hasLast = true

	p.mu.Unlock()

	p.Refresh()
}

// Clear removes the trail.
func (p *PadWidget) Clear() {
	p.mu.Lock()
	p.trail = p.trail[:0]
	p.display = p.display[:0]
	p.hasLast = false
	p.mu.Unlock()

	p.Refresh()
}

// Trail returns a copy of the stored touches, oldest first.
func (p *PadWidget) Trail() []sample.Touch {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return append([]sample.Touch(nil), p.trail...)
}

// SetTarget shows the calibration crosshair on a corner.
func (p *PadWidget) SetTarget(c xpt2046.Corner) {
	p.mu.Lock()
	p.target = c
	p.hasTarget = true
	p.mu.Unlock()

	p.Refresh()
}

// ClearTarget hides the calibration crosshair.
func (p *PadWidget) ClearTarget() {
	p.mu.Lock()
	p.hasTarget = false
	p.mu.Unlock()

	p.Refresh()
}

// Target returns the corner currently shown, if any.
func (p *PadWidget) Target() (xpt2046.Corner, bool) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.target, p.hasTarget
}

// SetStatus sets the text shown in the top-left of the pad.
func (p *PadWidget) SetStatus(s string) {
	p.mu.Lock()
	p.status = s
	p.mu.Unlock()

	p.Refresh()
}

// MouseDown implements desktop.Mouseable.
func (p *PadWidget) MouseDown(e *desktop.MouseEvent) {
	if e.Button != desktop.MouseButtonPrimary {
		return
	}
	p.press(e.Position)
}

// MouseUp implements desktop.Mouseable.
func (p *PadWidget) MouseUp(*desktop.MouseEvent) {
	p.release()
}

// Dragged implements fyne.Draggable.
func (p *PadWidget) Dragged(e *fyne.DragEvent) {
	p.press(e.Position)
}

// DragEnd implements fyne.Draggable.
func (p *PadWidget) DragEnd() {
	p.release()
}

func (p *PadWidget) press(pos fyne.Position) {
	if p.OnPress != nil {
		p.OnPress(p.toPanel(pos, p.Size()))
	}
}

func (p *PadWidget) release() {
	if p.OnRelease != nil {
		p.OnRelease()
	}
}

// toPanel converts a widget position into clamped panel coordinates.
func (p *PadWidget) toPanel(pos fyne.Position, size fyne.Size) xpt2046.Position {
	b := p.Bounds()
	w, h := plotSize(size)
	if w <= 0 || h <= 0 {
		return xpt2046.Position{}
	}
	return xpt2046.Position{
		X: clamp(int((pos.Y-margin)/h*float32(b.X)), b.X),
		Y: clamp(int((pos.X-margin)/w*float32(b.Y)), b.Y),
	}
}

// CreateRenderer creates the widget renderer.
func (p *PadWidget) CreateRenderer() fyne.WidgetRenderer {
	return newRenderer(p)
}

// CornerPosition returns the panel coordinate of a calibration corner.
func CornerPosition(c xpt2046.Corner, bounds xpt2046.Position) xpt2046.Position {
	switch c {
	case xpt2046.TopRight:
		return xpt2046.Position{X: 0, Y: bounds.Y}
	case xpt2046.BottomRight:
		return bounds
	case xpt2046.BottomLeft:
		return xpt2046.Position{X: bounds.X, Y: 0}
	default:
		return xpt2046.Position{}
	}
}

func plotSize(size fyne.Size) (w, h float32) {
	return size.Width - 2*margin, size.Height - 2*margin
}

func clamp(v, limit int) int {
	if v < 0 {
		return 0
	}
	if v > limit {
		return limit
	}
	return v
}
