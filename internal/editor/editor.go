// Package editor implements the pointer-driven placement state machine: it
// consumes down/move/up events over a page surface and drives the field
// store through draw, drag and reassignment gestures.
package editor

import (
	"fmt"
	"math"

	"github.com/pdfforms/fieldplacer/internal/field"
	"github.com/pdfforms/fieldplacer/internal/geometry"
	"github.com/pdfforms/fieldplacer/internal/render"
)

const (
	// DragThresholdPx is the cumulative pointer travel beyond which a
	// candidate gesture on an existing field commits to a move. Below it,
	// up reinterprets the gesture as a plain click and opens the popup.
	DragThresholdPx = 5.0

	// MinTextWidthPx and MinTextHeightPx reject degenerate text-field
	// drawings caused by stray clicks. Both must be exceeded strictly.
	MinTextWidthPx  = 15.0
	MinTextHeightPx = 10.0

	// CheckboxSizePx and RadioSizePx are the constant on-screen sizes of
	// single-click field proposals.
	CheckboxSizePx = 20.0
	RadioSizePx    = 18.0

	// HandleSizePx is the side of the move-handle square anchored at the
	// top-right corner of checkbox and radio fields.
	HandleSizePx = 12.0
)

// Phase identifies the editor's current state for observation. Each phase
// corresponds to exactly one state value; impossible flag combinations
// cannot be represented.
type Phase string

const (
	PhaseIdle          Phase = "idle"
	PhaseDrawing       Phase = "drawing"
	PhaseDragCandidate Phase = "drag_candidate"
	PhaseDragActive    Phase = "drag_active"
	PhasePopupOpen     Phase = "popup_open"
)

// MetricsFunc supplies the immutable metrics of a page, or false when the
// page has not been rendered.
type MetricsFunc func(page int) (render.PageMetrics, bool)

// SignersFunc supplies the live ordered signer list. The editor only reads
// it; ownership stays with the surrounding form.
type SignersFunc func() []field.Signer

// sessionState is the tagged union of editing states.
type sessionState interface {
	phase() Phase
}

type idleState struct{}

// drawingState covers both the free-form text rectangle gesture and the
// fixed-size checkbox/radio proposal awaiting pointer up.
type drawingState struct {
	page           int
	startX, startY float64
	rect           geometry.RenderRect
	fixed          bool
	fieldType      field.Type
}

type dragCandidateState struct {
	page         int
	fieldIndex   int
	lastX, lastY float64
	travel       float64
	origin       geometry.RenderRect
	downX, downY float64
}

type dragActiveState struct {
	page       int
	fieldIndex int
	origin     geometry.RenderRect
	dx, dy     float64
	downX      float64
	downY      float64
}

type popupOpenState struct {
	page          int
	pendingRect   geometry.RenderRect
	pendingType   field.Type
	reassignIndex int // -1 when placing a new field
}

func (idleState) phase() Phase          { return PhaseIdle }
func (drawingState) phase() Phase       { return PhaseDrawing }
func (dragCandidateState) phase() Phase { return PhaseDragCandidate }
func (dragActiveState) phase() Phase    { return PhaseDragActive }
func (popupOpenState) phase() Phase     { return PhasePopupOpen }

// Editor is the placement state machine for one editing session. It is not
// safe for concurrent use: all mutation happens synchronously inside pointer
// event handlers, and at most one gesture is active at a time by
// construction.
type Editor struct {
	store   *field.Store
	metrics MetricsFunc
	signers SignersFunc

	tool  field.Type
	state sessionState
}

// New creates an editor over the given store. The tool starts as text.
func New(store *field.Store, metrics MetricsFunc, signers SignersFunc) *Editor {
	return &Editor{
		store:   store,
		metrics: metrics,
		signers: signers,
		tool:    field.TypeText,
		state:   idleState{},
	}
}

// Phase returns the current state of the machine.
func (e *Editor) Phase() Phase {
	return e.state.phase()
}

// Tool returns the active placement tool.
func (e *Editor) Tool() field.Type {
	return e.tool
}

// SetTool switches the active tool and resets any in-flight gesture.
func (e *Editor) SetTool(t field.Type) error {
	if !t.Valid() {
		return fmt.Errorf("invalid tool: %q", t)
	}
	e.tool = t
	e.state = idleState{}
	return nil
}

// PointerDown handles a pointer press on the given page surface.
//
// While the popup is open, any press outside it closes the popup and
// consumes the click; it never also starts a new placement. Hit-testing
// priority on a fresh press: move handle, then topmost field body, then
// empty space.
func (e *Editor) PointerDown(page int, x, y float64) {
	if _, open := e.state.(popupOpenState); open {
		e.state = idleState{}
		return
	}

	m, ok := e.metrics(page)
	if !ok {
		return
	}

	fields, indices := e.store.FieldsOnPage(page)

	// Handle zone first. Only checkbox and radio fields carry handles:
	// their fixed small size makes body-dragging inaccurate.
	for i := len(fields) - 1; i >= 0; i-- {
		f := fields[i]
		if f.Type == field.TypeText {
			continue
		}
		r := f.RenderRect(m.ZoomFactor, m.PageHeightPoints)
		if handleRect(r).Contains(x, y) {
			e.state = dragCandidateState{
				page: page, fieldIndex: indices[i],
				lastX: x, lastY: y, downX: x, downY: y,
				origin: r,
			}
			return
		}
	}

	// Field body, topmost (most recently drawn) first.
	for i := len(fields) - 1; i >= 0; i-- {
		f := fields[i]
		r := f.RenderRect(m.ZoomFactor, m.PageHeightPoints)
		if !r.Contains(x, y) {
			continue
		}
		if f.Type == field.TypeText {
			e.state = dragCandidateState{
				page: page, fieldIndex: indices[i],
				lastX: x, lastY: y, downX: x, downY: y,
				origin: r,
			}
		} else {
			e.state = popupOpenState{
				page:          page,
				pendingRect:   r,
				pendingType:   f.Type,
				reassignIndex: indices[i],
			}
		}
		return
	}

	// Empty space starts a new-field gesture.
	switch e.tool {
	case field.TypeText:
		e.state = drawingState{
			page: page, startX: x, startY: y,
			rect:      geometry.NormalizedRenderRect(x, y, x, y),
			fieldType: field.TypeText,
		}
	case field.TypeCheckbox:
		e.state = drawingState{
			page: page, startX: x, startY: y,
			rect:      geometry.CenteredRenderRect(x, y, CheckboxSizePx, CheckboxSizePx),
			fixed:     true,
			fieldType: field.TypeCheckbox,
		}
	case field.TypeRadio:
		e.state = drawingState{
			page: page, startX: x, startY: y,
			rect:      geometry.CenteredRenderRect(x, y, RadioSizePx, RadioSizePx),
			fixed:     true,
			fieldType: field.TypeRadio,
		}
	}
}

// PointerMove handles pointer travel. Gestures are scoped to the page they
// started on; events for another page are ignored.
func (e *Editor) PointerMove(page int, x, y float64) {
	switch st := e.state.(type) {
	case drawingState:
		if st.page != page || st.fixed {
			return
		}
		st.rect = geometry.NormalizedRenderRect(st.startX, st.startY, x, y)
		e.state = st

	case dragCandidateState:
		if st.page != page {
			return
		}
		st.travel += math.Hypot(x-st.lastX, y-st.lastY)
		st.lastX, st.lastY = x, y
		if st.travel > DragThresholdPx {
			e.state = dragActiveState{
				page: st.page, fieldIndex: st.fieldIndex,
				origin: st.origin,
				dx:     x - st.downX, dy: y - st.downY,
				downX: st.downX, downY: st.downY,
			}
		} else {
			e.state = st
		}

	case dragActiveState:
		if st.page != page {
			return
		}
		st.dx = x - st.downX
		st.dy = y - st.downY
		e.state = st
	}
}

// PointerUp completes the current gesture.
func (e *Editor) PointerUp(page int, x, y float64) {
	switch st := e.state.(type) {
	case drawingState:
		if st.page != page {
			return
		}
		if !st.fixed {
			st.rect = geometry.NormalizedRenderRect(st.startX, st.startY, x, y)
			if st.rect.Width <= MinTextWidthPx || st.rect.Height <= MinTextHeightPx {
				// A stray click, not a field. Discarded silently.
				e.state = idleState{}
				return
			}
		}
		e.state = popupOpenState{
			page:          st.page,
			pendingRect:   st.rect,
			pendingType:   st.fieldType,
			reassignIndex: -1,
		}

	case dragCandidateState:
		if st.page != page {
			return
		}
		// Travel stayed below the threshold: a plain click, so offer
		// reassignment instead of committing a micro-drag.
		f, err := e.store.At(st.fieldIndex)
		if err != nil {
			e.state = idleState{}
			return
		}
		e.state = popupOpenState{
			page:          st.page,
			pendingRect:   st.origin,
			pendingType:   f.Type,
			reassignIndex: st.fieldIndex,
		}

	case dragActiveState:
		if st.page != page {
			return
		}
		m, ok := e.metrics(st.page)
		if !ok {
			e.state = idleState{}
			return
		}
		moved := st.origin.Translated(st.dx, st.dy)
		_ = e.store.Move(st.fieldIndex, geometry.ToDocumentSpace(moved, m.ZoomFactor, m.PageHeightPoints))
		e.state = idleState{}
	}
}

// handleRect returns the move-handle zone of a field rectangle: a fixed-size
// square anchored at the top-right corner.
func handleRect(r geometry.RenderRect) geometry.RenderRect {
	return geometry.RenderRect{
		X:      r.X + r.Width - HandleSizePx,
		Y:      r.Y,
		Width:  HandleSizePx,
		Height: HandleSizePx,
	}
}
