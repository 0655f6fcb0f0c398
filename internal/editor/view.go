package editor

import (
	"github.com/pdfforms/fieldplacer/internal/field"
	"github.com/pdfforms/fieldplacer/internal/geometry"
)

// FieldBox is one placed field prepared for drawing on a page surface:
// render-space geometry plus the attributes the surface needs for captions
// and per-signer coloring. ColorIndex is derived from the signer list at
// snapshot time, never read from a stored copy.
type FieldBox struct {
	FieldIndex int
	FieldName  string
	Type       field.Type
	Label      string
	SignerName string
	ColorIndex int
	Rect       geometry.RenderRect
	// Handle is the move-handle zone; zero for text fields, which have none.
	Handle geometry.RenderRect
}

// PageView is everything a page surface draws for the current editor state:
// the placed fields in z-order and, when a gesture is in flight on this
// page, its live rectangle.
type PageView struct {
	Page   int
	Fields []FieldBox
	// Active is the in-progress rectangle: the rubber band while drawing,
	// the proposal or pending rectangle while the popup is open, or the
	// drag preview while moving. Nil when the page is quiet.
	Active *geometry.RenderRect
}

// View assembles the drawable state of one page. Geometry is recomputed
// from document space on every call.
func (e *Editor) View(page int) PageView {
	v := PageView{Page: page}

	m, ok := e.metrics(page)
	if !ok {
		return v
	}

	signers := e.signers()
	fields, indices := e.store.FieldsOnPage(page)
	for i, f := range fields {
		r := f.RenderRect(m.ZoomFactor, m.PageHeightPoints)
		box := FieldBox{
			FieldIndex: indices[i],
			FieldName:  f.FieldName,
			Type:       f.Type,
			Label:      f.Label,
			SignerName: f.SignerName,
			ColorIndex: field.IndexOf(signers, f.AssignedTo),
			Rect:       r,
		}
		if f.Type != field.TypeText {
			box.Handle = handleRect(r)
		}
		v.Fields = append(v.Fields, box)
	}

	switch st := e.state.(type) {
	case drawingState:
		if st.page == page {
			r := st.rect
			v.Active = &r
		}
	case popupOpenState:
		if st.page == page {
			r := st.pendingRect
			v.Active = &r
		}
	case dragActiveState:
		if st.page == page {
			r := st.origin.Translated(st.dx, st.dy)
			v.Active = &r
		}
	}

	return v
}
