package main

import (
	"bytes"
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"github.com/pdfforms/fieldplacer/internal/detect"
	"github.com/pdfforms/fieldplacer/internal/render"
	"github.com/pdfforms/fieldplacer/internal/workflow"
)

var (
	outputFormat = flag.String("format", "text", "Output format: text, json")
	engineName   = flag.String("engine", "pdfcpu", "PDF engine: pdfcpu, ledongthuc, auto")
	zoom         = flag.Float64("zoom", render.DefaultZoom, "Zoom factor for page metrics")
	verbose      = flag.Bool("verbose", false, "Enable verbose output")
	help         = flag.Bool("help", false, "Show help message")
)

func main() {
	flag.Parse()

	if *help {
		printHelp()
		return
	}

	if flag.NArg() == 0 {
		fmt.Fprintf(os.Stderr, "Error: PDF file path required\n\n")
		printUsage()
		os.Exit(1)
	}

	pdfPath := flag.Arg(0)
	if _, err := os.Stat(pdfPath); os.IsNotExist(err) {
		fmt.Fprintf(os.Stderr, "Error: File not found: %s\n", pdfPath)
		os.Exit(1)
	}

	result, err := inspectFile(pdfPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error inspecting file: %v\n", err)
		os.Exit(1)
	}

	if err := outputResults(result); err != nil {
		fmt.Fprintf(os.Stderr, "Error outputting results: %v\n", err)
		os.Exit(1)
	}
}

func printHelp() {
	fmt.Println("PDF Detect Fields - List AcroForm fields and page metrics of a PDF document")
	fmt.Println()
	fmt.Println("Detected fields are reported in document space (points, bottom-left origin),")
	fmt.Println("the same coordinates a placement workflow stores and submits.")
	fmt.Println()
	printUsage()
	fmt.Println()
	fmt.Println("OPTIONS:")
	fmt.Println("  -format        Output format: text (default), json")
	fmt.Println("  -engine        PDF engine: pdfcpu (default), ledongthuc, auto")
	fmt.Println("  -zoom          Zoom factor for reported pixel metrics")
	fmt.Println("  -verbose       Enable verbose output")
	fmt.Println("  -help          Show this help message")
	fmt.Println()
	fmt.Println("EXAMPLES:")
	fmt.Println("  pdf_detect_fields contract.pdf")
	fmt.Println("  pdf_detect_fields -format json -zoom 2.0 forms/nda.pdf")
}

func printUsage() {
	fmt.Println("USAGE:")
	fmt.Println("  pdf_detect_fields [OPTIONS] <pdf_file>")
}

// InspectionResult is the complete output for one document
type InspectionResult struct {
	FilePath   string                 `json:"file_path"`
	Success    bool                   `json:"success"`
	PageCount  int                    `json:"page_count"`
	ZoomFactor float64                `json:"zoom_factor"`
	Pages      []render.PageMetrics   `json:"pages,omitempty"`
	FieldCount int                    `json:"field_count"`
	Fields     []workflow.FieldRecord `json:"fields"`
	Error      string                 `json:"error,omitempty"`
}

func inspectFile(pdfPath string) (*InspectionResult, error) {
	absPath, err := filepath.Abs(pdfPath)
	if err != nil {
		return nil, fmt.Errorf("failed to get absolute path: %w", err)
	}

	result := &InspectionResult{
		FilePath:   absPath,
		ZoomFactor: *zoom,
	}

	engine, err := render.NewEngineFactory().Create(render.EngineType(*engineName))
	if err != nil {
		return nil, fmt.Errorf("failed to create engine: %w", err)
	}
	renderer, err := render.NewPageRenderer(engine, *zoom)
	if err != nil {
		return nil, fmt.Errorf("failed to create renderer: %w", err)
	}

	data, err := os.ReadFile(absPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}

	doc, err := renderer.Open(data)
	if err != nil {
		result.Error = err.Error()
		return result, nil // Don't fail, return error in result
	}

	result.PageCount = doc.PageCount()
	for i := 0; i < doc.PageCount(); i++ {
		page, err := renderer.RenderPage(context.Background(), doc, i)
		if err != nil {
			result.Error = err.Error()
			return result, nil
		}
		result.Pages = append(result.Pages, page.Metrics)
	}

	detector := detect.NewDetector(*verbose)
	detected, err := detector.DetectFields(bytes.NewReader(data))
	if err != nil {
		result.Error = err.Error()
		return result, nil
	}

	result.Success = true
	result.FieldCount = len(detected)
	result.Fields = make([]workflow.FieldRecord, len(detected))
	for i, f := range detected {
		result.Fields[i] = workflow.Record(f)
	}

	return result, nil
}

func outputResults(result *InspectionResult) error {
	switch *outputFormat {
	case "json":
		return outputJSON(result)
	case "text":
		return outputText(result)
	default:
		return fmt.Errorf("unsupported output format: %s", *outputFormat)
	}
}

func outputJSON(result *InspectionResult) error {
	encoder := json.NewEncoder(os.Stdout)
	encoder.SetIndent("", "  ")
	return encoder.Encode(result)
}

func outputText(result *InspectionResult) error {
	if !result.Success {
		fmt.Printf("Inspection failed: %s\n", result.Error)
		return nil
	}

	fmt.Printf("File: %s\n", result.FilePath)
	fmt.Printf("Pages: %d (zoom %.2f)\n", result.PageCount, result.ZoomFactor)
	for _, page := range result.Pages {
		fmt.Printf("  %d. %.2f x %.2f pt -> %d x %d px\n",
			page.Page+1, page.PageWidthPoints, page.PageHeightPoints, page.PixelWidth, page.PixelHeight)
	}
	fmt.Println()

	if result.FieldCount == 0 {
		fmt.Println("No form fields detected in the PDF")
		return nil
	}

	fmt.Printf("Detected %d form fields\n", result.FieldCount)
	for i, f := range result.Fields {
		fmt.Printf("[%d] %s\n", i+1, f.FieldName)
		fmt.Printf("    Type: %s\n", f.FieldType)
		fmt.Printf("    Page: %d\n", f.Page)
		fmt.Printf("    Rect: (%.2f, %.2f) %g x %g pt\n", f.X, f.Y, f.Width, f.Height)
		if f.GroupName != "" {
			fmt.Printf("    Group: %s\n", f.GroupName)
		}
		if f.CurrentValue != "" {
			fmt.Printf("    Value: %s\n", f.CurrentValue)
		}
	}

	return nil
}
