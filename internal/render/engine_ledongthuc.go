package render

import (
	"bytes"
	"fmt"
	"io"

	"github.com/ledongthuc/pdf"
)

// LedongthucEngine implements Engine using ledongthuc/pdf. It is the
// lightweight alternative to pdfcpu; page sizes come straight from the page
// tree's MediaBox entries.
type LedongthucEngine struct{}

// NewLedongthucEngine creates a ledongthuc-backed engine.
func NewLedongthucEngine() *LedongthucEngine {
	return &LedongthucEngine{}
}

// Type returns the engine identifier.
func (e *LedongthucEngine) Type() EngineType {
	return EngineLedongthuc
}

// Open buffers the document and parses it. ledongthuc/pdf requires an
// io.ReaderAt, so the stream is read fully into memory first.
func (e *LedongthucEngine) Open(rs io.ReadSeeker) (Document, error) {
	data, err := io.ReadAll(rs)
	if err != nil {
		return nil, &EngineError{Engine: EngineLedongthuc, Op: "open", Err: fmt.Errorf("failed to buffer document: %w", err)}
	}

	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, &EngineError{Engine: EngineLedongthuc, Op: "open", Err: fmt.Errorf("failed to parse PDF: %w", err)}
	}

	return &ledongthucDocument{reader: reader}, nil
}

type ledongthucDocument struct {
	reader *pdf.Reader
}

func (d *ledongthucDocument) PageCount() int {
	return d.reader.NumPage()
}

func (d *ledongthucDocument) PageSize(pageIndex int) (float64, float64, error) {
	if pageIndex < 0 || pageIndex >= d.reader.NumPage() {
		return 0, 0, &EngineError{
			Engine: EngineLedongthuc,
			Op:     "page_size",
			Err:    fmt.Errorf("invalid page index %d (document has %d pages)", pageIndex, d.reader.NumPage()),
		}
	}

	page := d.reader.Page(pageIndex + 1) // ledongthuc pages are 1-based
	if page.V.IsNull() {
		return 0, 0, &EngineError{
			Engine: EngineLedongthuc,
			Op:     "page_size",
			Err:    fmt.Errorf("page %d is null", pageIndex),
		}
	}

	box := mediaBox(page.V)
	if box.IsNull() || box.Len() < 4 {
		return 0, 0, &EngineError{
			Engine: EngineLedongthuc,
			Op:     "page_size",
			Err:    fmt.Errorf("page %d has no MediaBox", pageIndex),
		}
	}

	llx := box.Index(0).Float64()
	lly := box.Index(1).Float64()
	urx := box.Index(2).Float64()
	ury := box.Index(3).Float64()
	return urx - llx, ury - lly, nil
}

// mediaBox resolves a page's MediaBox, walking up the page tree when the
// entry is inherited from an ancestor Pages node.
func mediaBox(page pdf.Value) pdf.Value {
	for v := page; !v.IsNull(); v = v.Key("Parent") {
		if box := v.Key("MediaBox"); !box.IsNull() {
			return box
		}
	}
	return pdf.Value{}
}
