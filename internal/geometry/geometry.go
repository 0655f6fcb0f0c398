// Package geometry converts field rectangles between document space and
// render space.
//
// Document space is the coordinate system native to the PDF: origin at the
// bottom-left of the page, unit = typographic points. Render space is the
// coordinate system of the rasterized page as displayed: origin at the
// top-left, unit = pixels, scaled by the session zoom factor. All conversions
// are pure functions of the rectangle, the zoom factor and the page height.
package geometry

import "math"

// Rect is a rectangle in document space. X,Y is the bottom-left corner in
// points; Width and Height are in points. This is the authoritative,
// persisted geometry of a field.
type Rect struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// RenderRect is a rectangle in render space. X,Y is the top-left corner in
// pixels at the current zoom. Render rectangles are ephemeral: they are
// recomputed from the document rectangle whenever needed, never persisted.
type RenderRect struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// Round2 rounds a document-space value to 2 decimal places. Stored geometry
// is rounded on every write to keep it stable and diff-friendly.
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// ToDocumentSpace converts a render-space rectangle to document space,
// flipping the vertical axis. The result is rounded to 2 decimals per
// component.
func ToDocumentSpace(r RenderRect, zoom, pageHeightPt float64) Rect {
	return Rect{
		X:      Round2(r.X / zoom),
		Y:      Round2(pageHeightPt - (r.Y+r.Height)/zoom),
		Width:  Round2(r.Width / zoom),
		Height: Round2(r.Height / zoom),
	}
}

// ToRenderSpace converts a document-space rectangle to render space for the
// given zoom and page height. Render values are not rounded; sub-pixel
// precision is fine for display.
func ToRenderSpace(r Rect, zoom, pageHeightPt float64) RenderRect {
	return RenderRect{
		X:      r.X * zoom,
		Y:      (pageHeightPt - r.Y - r.Height) * zoom,
		Width:  r.Width * zoom,
		Height: r.Height * zoom,
	}
}

// NormalizedRenderRect builds a render rectangle from two corner points in
// any order, the way a drag gesture reports them.
func NormalizedRenderRect(x1, y1, x2, y2 float64) RenderRect {
	return RenderRect{
		X:      math.Min(x1, x2),
		Y:      math.Min(y1, y2),
		Width:  math.Abs(x2 - x1),
		Height: math.Abs(y2 - y1),
	}
}

// CenteredRenderRect builds a render rectangle of the given size centered on
// a point. Used for fixed-size checkbox and radio proposals.
func CenteredRenderRect(cx, cy, width, height float64) RenderRect {
	return RenderRect{
		X:      cx - width/2,
		Y:      cy - height/2,
		Width:  width,
		Height: height,
	}
}

// Contains reports whether the point (x, y) lies inside the rectangle.
func (r RenderRect) Contains(x, y float64) bool {
	return x >= r.X && x <= r.X+r.Width && y >= r.Y && y <= r.Y+r.Height
}

// Translated returns the rectangle shifted by (dx, dy).
func (r RenderRect) Translated(dx, dy float64) RenderRect {
	return RenderRect{X: r.X + dx, Y: r.Y + dy, Width: r.Width, Height: r.Height}
}
