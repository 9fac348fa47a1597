// ABOUTME: Zoom and pan state machine for the screenshot viewer
// ABOUTME: Keeps scale in [1,5] and the pan offset at the origin whenever scale is 1

package viewer

import "math"

const (
	MinScale = 1.0
	MaxScale = 5.0
	ZoomStep = 0.5
)

// Point is a position in screen coordinates
type Point struct {
	X, Y float64
}

// Viewer holds zoom level, pan offset and drag state. All coordinates are
// in screen units, so a drag of (dx,dy) moves the image by exactly (dx,dy).
type Viewer struct {
	scale    float64
	offset   Point
	dragging bool
	anchor   Point
}

// New creates a viewer at 100% with no pan
func New() *Viewer {
	return &Viewer{scale: MinScale}
}

// Scale returns the current zoom factor
func (v *Viewer) Scale() float64 {
	return v.scale
}

// Offset returns the current pan offset
func (v *Viewer) Offset() Point {
	return v.offset
}

// Dragging reports whether a drag is in progress
func (v *Viewer) Dragging() bool {
	return v.dragging
}

// Percent returns the zoom level as a rounded percentage
func (v *Viewer) Percent() int {
	return int(math.Round(v.scale * 100))
}

// CanZoomIn reports whether zooming in would change the scale
func (v *Viewer) CanZoomIn() bool {
	return v.scale < MaxScale
}

// CanZoomOut reports whether zooming out would change the scale
func (v *Viewer) CanZoomOut() bool {
	return v.scale > MinScale
}

// CanReset reports whether the view differs from the default
func (v *Viewer) CanReset() bool {
	return v.scale != MinScale
}

// ZoomIn increases the scale by one step
func (v *Viewer) ZoomIn() {
	v.scale = math.Min(v.scale+ZoomStep, MaxScale)
}

// ZoomOut decreases the scale by one step; reaching 1 discards any pan
func (v *Viewer) ZoomOut() {
	v.scale = math.Max(v.scale-ZoomStep, MinScale)
	if v.scale == MinScale {
		v.offset = Point{}
		v.dragging = false
	}
}

// Reset returns to 100% with no pan
func (v *Viewer) Reset() {
	v.scale = MinScale
	v.offset = Point{}
	v.dragging = false
}

// DragStart begins a drag at the pointer position; ignored at scale 1
func (v *Viewer) DragStart(x, y float64) {
	if v.scale <= MinScale {
		return
	}
	v.dragging = true
	v.anchor = Point{X: x - v.offset.X, Y: y - v.offset.Y}
}

// DragMove pans so the anchor stays under the pointer
func (v *Viewer) DragMove(x, y float64) {
	if !v.dragging || v.scale <= MinScale {
		return
	}
	v.offset = Point{X: x - v.anchor.X, Y: y - v.anchor.Y}
}

// DragEnd finishes a drag on pointer release or when the pointer leaves
// the viewing surface
func (v *Viewer) DragEnd() {
	v.dragging = false
}

// Pan shifts the offset by (dx,dy) for keyboard navigation; ignored at scale 1
func (v *Viewer) Pan(dx, dy float64) {
	if v.scale <= MinScale {
		return
	}
	v.offset.X += dx
	v.offset.Y += dy
}

// Translate returns the translation to apply after scaling, in unscaled
// units (offset/scale), so screen displacement equals the offset
func (v *Viewer) Translate() Point {
	return Point{X: v.offset.X / v.scale, Y: v.offset.Y / v.scale}
}

// ToSource maps a screen point back into unzoomed content coordinates,
// zooming about center c: p = c + scale*(q + translate - c)
func (v *Viewer) ToSource(p, c Point) Point {
	t := v.Translate()
	return Point{
		X: c.X + (p.X-c.X)/v.scale - t.X,
		Y: c.Y + (p.Y-c.Y)/v.scale - t.Y,
	}
}
