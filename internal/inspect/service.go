// Package inspect exposes read-only PDF inspection operations: page
// metrics at the session zoom and AcroForm field detection. The MCP
// server and the CLI inspection mode both sit on top of it.
package inspect

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/pdfforms/fieldplacer/internal/render"
	"github.com/pdfforms/fieldplacer/internal/workflow"
)

// Service handles PDF inspection by orchestrating the render engine and
// the field detector behind path and size checks.
type Service struct {
	maxFileSize int64
	engine      render.Engine
	renderer    *render.PageRenderer
	detector    render.FieldDetector
	guard       *PathGuard
}

// NewService creates an inspection service. engine picks the PDF
// backend, zoom fixes the metrics scale for the lifetime of the
// service.
func NewService(maxFileSize int64, dir string, engine render.Engine, zoom float64, detector render.FieldDetector) (*Service, error) {
	guard, err := NewPathGuard(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to create path guard: %w", err)
	}

	renderer, err := render.NewPageRenderer(engine, zoom)
	if err != nil {
		return nil, fmt.Errorf("failed to create page renderer: %w", err)
	}

	return &Service{
		maxFileSize: maxFileSize,
		engine:      engine,
		renderer:    renderer,
		detector:    detector,
		guard:       guard,
	}, nil
}

// MaxFileSize returns the maximum file size limit
func (s *Service) MaxFileSize() int64 {
	return s.maxFileSize
}

// Zoom returns the fixed zoom factor metrics are computed at
func (s *Service) Zoom() float64 {
	return s.renderer.Zoom()
}

// Dir returns the configured document directory
func (s *Service) Dir() string {
	return s.guard.Dir()
}

// readFile resolves, checks and loads a PDF file.
func (s *Service) readFile(path string) (string, []byte, error) {
	resolved, err := s.guard.Resolve(path)
	if err != nil {
		return "", nil, fmt.Errorf("security validation failed: %w", err)
	}

	info, err := os.Stat(resolved)
	if err != nil {
		return "", nil, fmt.Errorf("cannot access file: %w", err)
	}
	if info.IsDir() {
		return "", nil, fmt.Errorf("path is a directory: %s", resolved)
	}
	if info.Size() > s.maxFileSize {
		return "", nil, fmt.Errorf("file too large: %d bytes (limit %d)", info.Size(), s.maxFileSize)
	}
	if !strings.EqualFold(filepath.Ext(resolved), ".pdf") {
		return "", nil, fmt.Errorf("not a PDF file: %s", resolved)
	}

	data, err := os.ReadFile(resolved)
	if err != nil {
		return "", nil, fmt.Errorf("failed to read file: %w", err)
	}
	return resolved, data, nil
}

// PageMetrics opens the document and returns the per-page metrics table
// at the configured zoom.
func (s *Service) PageMetrics(ctx context.Context, req PageMetricsRequest) (*PageMetricsResult, error) {
	resolved, data, err := s.readFile(req.Path)
	if err != nil {
		return nil, err
	}

	doc, err := s.renderer.Open(data)
	if err != nil {
		return nil, fmt.Errorf("failed to open PDF: %w", err)
	}

	pages := make([]render.PageMetrics, doc.PageCount())
	for i := range pages {
		rendered, err := s.renderer.RenderPage(ctx, doc, i)
		if err != nil {
			return nil, fmt.Errorf("failed to render page %d: %w", i, err)
		}
		pages[i] = rendered.Metrics
	}

	return &PageMetricsResult{
		Path:       resolved,
		Engine:     string(s.engine.Type()),
		PageCount:  len(pages),
		ZoomFactor: s.renderer.Zoom(),
		Pages:      pages,
	}, nil
}

// DetectFields scans the document for existing AcroForm fields and
// returns them as wire records.
func (s *Service) DetectFields(req DetectFieldsRequest) (*DetectFieldsResult, error) {
	resolved, data, err := s.readFile(req.Path)
	if err != nil {
		return nil, err
	}

	detected, err := s.detector.DetectFields(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("field detection failed: %w", err)
	}

	records := make([]workflow.FieldRecord, len(detected))
	for i, f := range detected {
		records[i] = workflow.Record(f)
	}

	return &DetectFieldsResult{
		Path:       resolved,
		TotalCount: len(records),
		Fields:     records,
	}, nil
}

// ValidateFile reports whether the file opens as a PDF with at least
// one page. Failures are returned in the result, not as an error.
func (s *Service) ValidateFile(req ValidateFileRequest) (*ValidateFileResult, error) {
	resolved, data, err := s.readFile(req.Path)
	if err != nil {
		return &ValidateFileResult{Path: req.Path, Valid: false, Message: err.Error()}, nil
	}

	doc, err := s.renderer.Open(data)
	if err != nil {
		return &ValidateFileResult{Path: resolved, Valid: false, Message: err.Error()}, nil
	}
	if doc.PageCount() < 1 {
		return &ValidateFileResult{Path: resolved, Valid: false, Message: "document has no pages"}, nil
	}

	return &ValidateFileResult{Path: resolved, Valid: true}, nil
}

// ServerInfo describes the service configuration and its tools.
func (s *Service) ServerInfo(serverName, version string) *ServerInfoResult {
	return &ServerInfoResult{
		ServerName:       serverName,
		Version:          version,
		DefaultDirectory: s.guard.Dir(),
		MaxFileSize:      s.maxFileSize,
		ZoomFactor:       s.renderer.Zoom(),
		Engine:           string(s.engine.Type()),
		AvailableTools: []ToolInfo{
			{
				Name:        "pdf_page_metrics",
				Description: "Get per-page render metrics (points, pixels, zoom) for a PDF file",
				Parameters:  "path (required): Path to the PDF file",
			},
			{
				Name:        "pdf_detect_fields",
				Description: "Detect existing AcroForm text, checkbox and radio fields in a PDF file",
				Parameters:  "path (required): Path to the PDF file",
			},
			{
				Name:        "pdf_validate_file",
				Description: "Validate that a file is a readable PDF",
				Parameters:  "path (required): Path to the PDF file",
			},
			{
				Name:        "pdf_server_info",
				Description: "Get server configuration and available tools",
				Parameters:  "none",
			},
		},
	}
}
