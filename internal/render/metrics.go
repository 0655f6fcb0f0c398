package render

// PageMetrics describes one rendered page for the lifetime of a session.
// It is created once the page renderer has reported the page's dimensions at
// the session zoom and is immutable thereafter; zoom is fixed per session.
type PageMetrics struct {
	Page             int     `json:"page"`
	ZoomFactor       float64 `json:"zoom_factor"`
	PageHeightPoints float64 `json:"page_height_points"`
	PageWidthPoints  float64 `json:"page_width_points"`
	PixelWidth       int     `json:"pixel_width"`
	PixelHeight      int     `json:"pixel_height"`
}
