package inspect

import (
	"github.com/pdfforms/fieldplacer/internal/render"
	"github.com/pdfforms/fieldplacer/internal/workflow"
)

// PageMetricsRequest asks for per-page render metrics of a PDF file
type PageMetricsRequest struct {
	Path string `json:"path"`
}

// PageMetricsResult contains the metrics table for every page
type PageMetricsResult struct {
	Path       string               `json:"path"`
	Engine     string               `json:"engine"`
	PageCount  int                  `json:"page_count"`
	ZoomFactor float64              `json:"zoom_factor"`
	Pages      []render.PageMetrics `json:"pages"`
}

// DetectFieldsRequest asks for the AcroForm fields of a PDF file
type DetectFieldsRequest struct {
	Path string `json:"path"`
}

// DetectFieldsResult contains the detected fields as wire records
type DetectFieldsResult struct {
	Path       string                 `json:"path"`
	TotalCount int                    `json:"total_count"`
	Fields     []workflow.FieldRecord `json:"fields"`
}

// ValidateFileRequest asks whether a file is an openable PDF
type ValidateFileRequest struct {
	Path string `json:"path"`
}

// ValidateFileResult contains the validation outcome
type ValidateFileResult struct {
	Path    string `json:"path"`
	Valid   bool   `json:"valid"`
	Message string `json:"message,omitempty"`
}

// ToolInfo describes one available tool for server info output
type ToolInfo struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Parameters  string `json:"parameters"`
}

// ServerInfoResult contains server configuration and usage guidance
type ServerInfoResult struct {
	ServerName       string     `json:"server_name"`
	Version          string     `json:"version"`
	DefaultDirectory string     `json:"default_directory"`
	MaxFileSize      int64      `json:"max_file_size"`
	ZoomFactor       float64    `json:"zoom_factor"`
	Engine           string     `json:"engine"`
	AvailableTools   []ToolInfo `json:"available_tools"`
}
