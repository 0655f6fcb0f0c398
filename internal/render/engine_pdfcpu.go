package render

import (
	"fmt"
	"io"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
)

// PDFCPUEngine implements Engine using pdfcpu.
type PDFCPUEngine struct{}

// NewPDFCPUEngine creates a pdfcpu-backed engine.
func NewPDFCPUEngine() *PDFCPUEngine {
	return &PDFCPUEngine{}
}

// Type returns the engine identifier.
func (e *PDFCPUEngine) Type() EngineType {
	return EnginePDFCPU
}

// Open reads the PDF cross-reference structure and caches every page's
// dimensions up front.
func (e *PDFCPUEngine) Open(rs io.ReadSeeker) (Document, error) {
	conf := model.NewDefaultConfiguration()
	conf.ValidationMode = model.ValidationRelaxed

	ctx, err := api.ReadContext(rs, conf)
	if err != nil {
		return nil, &EngineError{Engine: EnginePDFCPU, Op: "open", Err: fmt.Errorf("failed to read PDF context: %w", err)}
	}
	if err := ctx.EnsurePageCount(); err != nil {
		return nil, &EngineError{Engine: EnginePDFCPU, Op: "open", Err: fmt.Errorf("failed to ensure page count: %w", err)}
	}

	dims, err := ctx.PageDims()
	if err != nil {
		return nil, &EngineError{Engine: EnginePDFCPU, Op: "open", Err: fmt.Errorf("failed to read page dimensions: %w", err)}
	}

	doc := &pdfcpuDocument{pageCount: ctx.PageCount}
	for _, d := range dims {
		doc.widths = append(doc.widths, d.Width)
		doc.heights = append(doc.heights, d.Height)
	}
	return doc, nil
}

type pdfcpuDocument struct {
	pageCount int
	widths    []float64
	heights   []float64
}

func (d *pdfcpuDocument) PageCount() int {
	return d.pageCount
}

func (d *pdfcpuDocument) PageSize(pageIndex int) (float64, float64, error) {
	if pageIndex < 0 || pageIndex >= len(d.widths) {
		return 0, 0, &EngineError{
			Engine: EnginePDFCPU,
			Op:     "page_size",
			Err:    fmt.Errorf("invalid page index %d (document has %d pages)", pageIndex, d.pageCount),
		}
	}
	return d.widths[pageIndex], d.heights[pageIndex], nil
}
