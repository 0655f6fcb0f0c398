// Package render adapts PDF engines behind a uniform page-metrics contract
// and coordinates multi-page rendering for an editing or signing session.
package render

import (
	"fmt"
	"io"
)

// EngineType identifies the underlying PDF library.
type EngineType string

const (
	EnginePDFCPU     EngineType = "pdfcpu"
	EngineLedongthuc EngineType = "ledongthuc"
	EngineAuto       EngineType = "auto"
)

// Engine opens PDF documents for page-level inspection.
type Engine interface {
	Open(rs io.ReadSeeker) (Document, error)
	Type() EngineType
}

// Document exposes the page-level geometry of an opened PDF. Rasterization
// itself is a black box behind Surface; the core only needs page counts and
// native page sizes in points.
type Document interface {
	PageCount() int
	// PageSize returns the native size of a 0-based page in points.
	PageSize(pageIndex int) (widthPt, heightPt float64, err error)
}

// EngineError wraps a failure inside a specific engine.
type EngineError struct {
	Engine EngineType
	Op     string
	Err    error
}

func (e *EngineError) Error() string {
	return fmt.Sprintf("pdf %s engine error in %s: %v", e.Engine, e.Op, e.Err)
}

func (e *EngineError) Unwrap() error {
	return e.Err
}

// EngineFactory creates engine instances by type.
type EngineFactory struct {
	preferred EngineType
}

// NewEngineFactory creates a factory defaulting to pdfcpu, which carries the
// most robust page-tree handling of the supported engines.
func NewEngineFactory() *EngineFactory {
	return &EngineFactory{preferred: EnginePDFCPU}
}

// SetPreferred changes the engine selected for EngineAuto.
func (f *EngineFactory) SetPreferred(t EngineType) {
	f.preferred = t
}

// Create instantiates an engine of the given type.
func (f *EngineFactory) Create(t EngineType) (Engine, error) {
	switch t {
	case EnginePDFCPU:
		return NewPDFCPUEngine(), nil
	case EngineLedongthuc:
		return NewLedongthucEngine(), nil
	case EngineAuto:
		return f.Create(f.preferred)
	default:
		return nil, &EngineError{Engine: t, Op: "create", Err: fmt.Errorf("unknown engine type: %s", t)}
	}
}

// SupportedEngines lists the selectable engine types.
func SupportedEngines() []EngineType {
	return []EngineType{EnginePDFCPU, EngineLedongthuc, EngineAuto}
}

// ValidEngineType reports whether t is a selectable engine type.
func ValidEngineType(t EngineType) bool {
	for _, s := range SupportedEngines() {
		if t == s {
			return true
		}
	}
	return false
}
