package pad

import (
	"fmt"
	"image/color"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"github.com/itohio/goxpt/pkg/sample"
	"github.com/itohio/goxpt/pkg/xpt2046"
)

var (
	backgroundColor = color.RGBA{R: 20, G: 20, B: 20, A: 255}
	panelColor      = color.RGBA{R: 60, G: 60, B: 60, A: 255}
	gridColor       = color.RGBA{R: 40, G: 40, B: 40, A: 255}
	trailColor      = color.RGBA{R: 255, G: 165, B: 0, A: 255}  // Orange
	cursorColor     = color.RGBA{R: 100, G: 200, B: 255, A: 255} // Light blue
	targetColor     = color.RGBA{R: 255, G: 60, B: 60, A: 255}
	textColor       = color.RGBA{R: 150, G: 150, B: 150, A: 255}
)

const (
	cursorRadius = float32(6)
	targetArm    = float32(14)
)

// padRenderer renders the pad widget.
type padRenderer struct {
	pad *PadWidget

	background *canvas.Rectangle
	frame      *canvas.Rectangle

	objects []fyne.CanvasObject

	lastSize fyne.Size
}

func newRenderer(p *PadWidget) *padRenderer {
	frame := canvas.NewRectangle(color.Transparent)
	frame.StrokeColor = panelColor
	frame.StrokeWidth = 1

	background := canvas.NewRectangle(backgroundColor)
	return &padRenderer{
		pad:        p,
		background: background,
		frame:      frame,
		objects:    []fyne.CanvasObject{background, frame},
	}
}

// MinSize returns the minimum size of the widget.
func (r *padRenderer) MinSize() fyne.Size {
	return fyne.NewSize(240, 320)
}

// Layout arranges the widget components.
func (r *padRenderer) Layout(size fyne.Size) {
	r.background.Resize(size)
	w, h := plotSize(size)
	r.frame.Move(fyne.NewPos(margin, margin))
	r.frame.Resize(fyne.NewSize(w, h))

	if r.lastSize != size {
		r.lastSize = size
		r.pad.BaseWidget.Refresh()
	}
}

// Refresh redraws the trail, cursor and target.
func (r *padRenderer) Refresh() {
	r.pad.mu.RLock()
	bounds := r.pad.bounds
	trail := r.pad.display
	last := r.pad.last
	hasLast := r.pad.hasLast
	target := r.pad.target
	hasTarget := r.pad.hasTarget
	status := r.pad.status
	r.pad.mu.RUnlock()

	size := r.pad.Size()
	r.objects = []fyne.CanvasObject{r.background, r.frame}
	if size.Width == 0 || size.Height == 0 {
		return
	}

	r.drawGrid(size)
	r.drawTrail(trail, bounds, size)
	if hasLast && last.Pressed {
		r.drawCursor(toWidget(xpt2046.Position{X: last.X, Y: last.Y}, bounds, size))
	}
	if hasTarget {
		r.drawTarget(target, bounds, size)
	}
	r.drawStatus(status, last, hasLast)
}

// drawGrid draws quarter lines across the panel.
func (r *padRenderer) drawGrid(size fyne.Size) {
	w, h := plotSize(size)
	for i := 1; i < 4; i++ {
		x := margin + float32(i)*w/4
		y := margin + float32(i)*h/4
		r.addLine(fyne.NewPos(x, margin), fyne.NewPos(x, margin+h), gridColor, 1)
		r.addLine(fyne.NewPos(margin, y), fyne.NewPos(margin+w, y), gridColor, 1)
	}
}

// drawTrail connects consecutive pressed touches. Released touches break the line.
func (r *padRenderer) drawTrail(trail []sample.Touch, bounds xpt2046.Position, size fyne.Size) {
	for i := range len(trail) - 1 {
		a, b := trail[i], trail[i+1]
		if !a.Pressed || !b.Pressed {
			continue
		}
		r.addLine(
			toWidget(xpt2046.Position{X: a.X, Y: a.Y}, bounds, size),
			toWidget(xpt2046.Position{X: b.X, Y: b.Y}, bounds, size),
			trailColor, 1.5,
		)
	}
}

func (r *padRenderer) drawCursor(pos fyne.Position) {
	c := canvas.NewCircle(color.Transparent)
	c.StrokeColor = cursorColor
	c.StrokeWidth = 2
	c.Move(fyne.NewPos(pos.X-cursorRadius, pos.Y-cursorRadius))
	c.Resize(fyne.NewSize(2*cursorRadius, 2*cursorRadius))
	r.objects = append(r.objects, c)
}

// drawTarget draws a crosshair on a calibration corner with its name.
func (r *padRenderer) drawTarget(c xpt2046.Corner, bounds xpt2046.Position, size fyne.Size) {
	pos := toWidget(CornerPosition(c, bounds), bounds, size)
	r.addLine(fyne.NewPos(pos.X-targetArm, pos.Y), fyne.NewPos(pos.X+targetArm, pos.Y), targetColor, 2)
	r.addLine(fyne.NewPos(pos.X, pos.Y-targetArm), fyne.NewPos(pos.X, pos.Y+targetArm), targetColor, 2)

	text := canvas.NewText("touch "+c.String(), targetColor)
	text.TextSize = 12
	text.Alignment = fyne.TextAlignCenter
	text.Move(fyne.NewPos(size.Width/2, size.Height/2-8))
	r.objects = append(r.objects, text)
}

func (r *padRenderer) drawStatus(status string, last sample.Touch, hasLast bool) {
	if hasLast {
		coords := fmt.Sprintf("x=%d y=%d raw=%d,%d", last.X, last.Y, last.Raw.X, last.Raw.Y)
		if status == "" {
			status = coords
		} else {
			status += "  " + coords
		}
	}
	if status == "" {
		return
	}
	text := canvas.NewText(status, textColor)
	text.TextSize = 10
	text.Move(fyne.NewPos(margin+5, margin+5))
	r.objects = append(r.objects, text)
}

func (r *padRenderer) addLine(a, b fyne.Position, c color.Color, width float32) {
	line := canvas.NewLine(c)
	line.Position1 = a
	line.Position2 = b
	line.StrokeWidth = width
	r.objects = append(r.objects, line)
}

// Objects returns all canvas objects for rendering.
func (r *padRenderer) Objects() []fyne.CanvasObject {
	return r.objects
}

// Destroy cleans up resources.
func (r *padRenderer) Destroy() {}

// toWidget converts panel coordinates into a widget position.
func toWidget(p, bounds xpt2046.Position, size fyne.Size) fyne.Position {
	w, h := plotSize(size)
	var x, y float32
	if bounds.Y > 0 {
		x = float32(p.Y) / float32(bounds.Y) * w
	}
	if bounds.X > 0 {
		y = float32(p.X) / float32(bounds.X) * h
	}
	return fyne.NewPos(margin+x, margin+y)
}
