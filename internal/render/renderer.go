package render

import (
	"bytes"
	"context"
	"fmt"
	"math"
)

// Surface receives the rasterized pixels of one page. Pixel production is
// outside this core; a surface implementation belongs to the embedding UI.
type Surface interface {
	// SetSize prepares the surface for a page of the given pixel dimensions.
	SetSize(widthPx, heightPx int)
}

// RenderedPage is the outcome of rendering a single page at the session
// zoom: its immutable metrics plus a draw callback for the black-box
// rasterizer.
type RenderedPage struct {
	Metrics  PageMetrics
	DrawInto func(Surface) error
}

// Renderer is the page-renderer adapter contract consumed by the
// coordinator.
type Renderer interface {
	Open(data []byte) (Document, error)
	RenderPage(ctx context.Context, doc Document, pageIndex int) (RenderedPage, error)
	Zoom() float64
}

// PageRenderer renders pages through a PDF engine at one fixed zoom factor.
// Zoom is fixed for the lifetime of a session.
type PageRenderer struct {
	engine Engine
	zoom   float64
}

// DefaultZoom matches the display scale the editing surface renders at.
const DefaultZoom = 1.5

// NewPageRenderer creates a renderer over the given engine. A zoom of 0
// falls back to DefaultZoom.
func NewPageRenderer(engine Engine, zoom float64) (*PageRenderer, error) {
	if zoom < 0 {
		return nil, fmt.Errorf("zoom factor must be positive, got %g", zoom)
	}
	if zoom == 0 {
		zoom = DefaultZoom
	}
	return &PageRenderer{engine: engine, zoom: zoom}, nil
}

// Zoom returns the fixed session zoom factor.
func (r *PageRenderer) Zoom() float64 {
	return r.zoom
}

// Open parses the document bytes through the underlying engine.
func (r *PageRenderer) Open(data []byte) (Document, error) {
	return r.engine.Open(bytes.NewReader(data))
}

// RenderPage produces the metrics of one 0-based page at the session zoom.
// Pixel dimensions are the floor of the scaled point dimensions, matching
// how the display surface sizes its canvas.
func (r *PageRenderer) RenderPage(ctx context.Context, doc Document, pageIndex int) (RenderedPage, error) {
	if err := ctx.Err(); err != nil {
		return RenderedPage{}, err
	}

	wPt, hPt, err := doc.PageSize(pageIndex)
	if err != nil {
		return RenderedPage{}, err
	}
	if wPt <= 0 || hPt <= 0 {
		return RenderedPage{}, fmt.Errorf("page %d has degenerate size %gx%g pt", pageIndex, wPt, hPt)
	}

	m := PageMetrics{
		Page:             pageIndex,
		ZoomFactor:       r.zoom,
		PageHeightPoints: hPt,
		PageWidthPoints:  wPt,
		PixelWidth:       int(math.Floor(wPt * r.zoom)),
		PixelHeight:      int(math.Floor(hPt * r.zoom)),
	}

	return RenderedPage{
		Metrics: m,
		DrawInto: func(s Surface) error {
			if err := ctx.Err(); err != nil {
				return err
			}
			s.SetSize(m.PixelWidth, m.PixelHeight)
			return nil
		},
	}, nil
}
