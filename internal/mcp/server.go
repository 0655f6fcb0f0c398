package mcp

import (
	"context"
	"fmt"
	"log"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/pdfforms/fieldplacer/internal/config"
	"github.com/pdfforms/fieldplacer/internal/inspect"
)

// Server represents the MCP server instance
type Server struct {
	config    *config.Config
	inspect   *inspect.Service
	mcpServer *server.MCPServer
}

// NewServer creates a new MCP server instance
func NewServer(cfg *config.Config, inspectService *inspect.Service) (*Server, error) {
	if inspectService == nil {
		return nil, fmt.Errorf("inspectService cannot be nil")
	}

	// Create MCP server
	mcpServer := server.NewMCPServer(
		cfg.ServerName,
		cfg.Version,
		server.WithToolCapabilities(false), // We don't support dynamic tool capabilities
	)

	s := &Server{
		config:    cfg,
		inspect:   inspectService,
		mcpServer: mcpServer,
	}

	// Register tools
	s.registerTools()

	return s, nil
}

// registerTools registers all available MCP tools
func (s *Server) registerTools() {
	// Register page metrics tool
	pageMetricsTool := mcp.NewTool(
		"pdf_page_metrics",
		mcp.WithDescription("Get per-page render metrics (points, pixels, zoom) for a PDF file"),
		mcp.WithString("path",
			mcp.Required(),
			mcp.Description("Path to the PDF file"),
		),
	)
	s.mcpServer.AddTool(pageMetricsTool, s.handlePageMetrics)

	// Register field detection tool
	detectFieldsTool := mcp.NewTool(
		"pdf_detect_fields",
		mcp.WithDescription("Detect existing AcroForm text, checkbox and radio fields in a PDF file"),
		mcp.WithString("path",
			mcp.Required(),
			mcp.Description("Path to the PDF file"),
		),
	)
	s.mcpServer.AddTool(detectFieldsTool, s.handleDetectFields)

	// Register file validation tool
	validateFileTool := mcp.NewTool(
		"pdf_validate_file",
		mcp.WithDescription("Validate that a file is a readable PDF"),
		mcp.WithString("path",
			mcp.Required(),
			mcp.Description("Path to the PDF file"),
		),
	)
	s.mcpServer.AddTool(validateFileTool, s.handleValidateFile)

	// Register server info tool
	serverInfoTool := mcp.NewTool(
		"pdf_server_info",
		mcp.WithDescription("Get server configuration, available tools and usage guidance"),
	)
	s.mcpServer.AddTool(serverInfoTool, s.handleServerInfo)
}

// Handler functions
func (s *Server) handlePageMetrics(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	path, err := request.RequireString("path")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	req := inspect.PageMetricsRequest{Path: path}
	result, err := s.inspect.PageMetrics(ctx, req)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(s.formatPageMetricsResult(result)), nil
}

func (s *Server) handleDetectFields(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	path, err := request.RequireString("path")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	req := inspect.DetectFieldsRequest{Path: path}
	result, err := s.inspect.DetectFields(req)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(s.formatDetectFieldsResult(result)), nil
}

func (s *Server) handleValidateFile(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	path, err := request.RequireString("path")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	req := inspect.ValidateFileRequest{Path: path}
	result, err := s.inspect.ValidateFile(req)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	var responseText string
	if result.Valid {
		responseText = fmt.Sprintf("PDF file %s is valid and readable", result.Path)
	} else {
		responseText = fmt.Sprintf("PDF validation failed for %s: %s", result.Path, result.Message)
	}

	return mcp.NewToolResultText(responseText), nil
}

func (s *Server) handleServerInfo(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	result := s.inspect.ServerInfo(s.config.ServerName, s.config.Version)
	return mcp.NewToolResultText(s.formatServerInfoResult(result)), nil
}

// Formatting methods
func (s *Server) formatPageMetricsResult(result *inspect.PageMetricsResult) string {
	text := fmt.Sprintf("Page metrics for: %s\n", result.Path)
	text += fmt.Sprintf("Engine: %s\n", result.Engine)
	text += fmt.Sprintf("Pages: %d\n", result.PageCount)
	text += fmt.Sprintf("Zoom factor: %.2f\n", result.ZoomFactor)
	text += "\nPages:\n"

	for _, page := range result.Pages {
		text += fmt.Sprintf("%d. %.2f x %.2f pt -> %d x %d px\n",
			page.Page+1, page.PageWidthPoints, page.PageHeightPoints, page.PixelWidth, page.PixelHeight)
	}

	return text
}

func (s *Server) formatDetectFieldsResult(result *inspect.DetectFieldsResult) string {
	text := fmt.Sprintf("Detected fields for: %s\n", result.Path)
	text += fmt.Sprintf("Total fields: %d\n", result.TotalCount)

	if result.TotalCount > 0 {
		text += "\nFields:\n"
		for i, f := range result.Fields {
			text += fmt.Sprintf("%d. %s (%s) page %d at (%.2f, %.2f) %gx%g pt",
				i+1, f.FieldName, f.FieldType, f.Page, f.X, f.Y, f.Width, f.Height)
			if f.GroupName != "" {
				text += fmt.Sprintf(", group: %s", f.GroupName)
			}
			if f.CurrentValue != "" {
				text += fmt.Sprintf(", value: %s", f.CurrentValue)
			}
			text += "\n"
		}
	}

	return text
}

func (s *Server) formatServerInfoResult(result *inspect.ServerInfoResult) string {
	text := fmt.Sprintf("%s v%s - Server Information\n", result.ServerName, result.Version)
	text += fmt.Sprintf("Default Directory: %s\n", result.DefaultDirectory)
	text += fmt.Sprintf("Max File Size: %d MB\n", result.MaxFileSize/(1024*1024))
	text += fmt.Sprintf("Zoom Factor: %.2f\n", result.ZoomFactor)
	text += fmt.Sprintf("Engine: %s\n", result.Engine)

	text += "\nAvailable Tools:\n"
	for _, tool := range result.AvailableTools {
		text += fmt.Sprintf("\n- %s\n", tool.Name)
		text += fmt.Sprintf("  Description: %s\n", tool.Description)
		text += fmt.Sprintf("  Parameters: %s\n", tool.Parameters)
	}

	return text
}

// Run starts the MCP server in the configured mode
func (s *Server) Run(ctx context.Context) error {
	if s.config.IsServerMode() {
		return s.runServerMode(ctx)
	}
	return s.runStdioMode(ctx)
}

// runStdioMode runs the server in stdio mode
func (s *Server) runStdioMode(_ context.Context) error {
	if s.config.IsDebug() {
		log.Printf("Starting fieldplacer MCP server in stdio mode")
		log.Printf("PDF directory: %s", s.config.PDFDirectory)
	}

	// Use the mark3labs/mcp-go server.ServeStdio function
	if err := server.ServeStdio(s.mcpServer); err != nil {
		return fmt.Errorf("failed to serve stdio: %w", err)
	}
	return nil
}

// runServerMode runs the server in HTTP server mode
func (s *Server) runServerMode(ctx context.Context) error {
	// The mark3labs transport only speaks stdio for now
	log.Printf("Server mode not yet implemented with mark3labs/mcp-go")
	log.Printf("Falling back to stdio mode")
	return s.runStdioMode(ctx)
}
