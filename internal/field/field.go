// Package field holds the field data model, the signer model and the
// in-memory field store used by the placement editor and the fill overlay.
package field

import (
	"fmt"

	"github.com/pdfforms/fieldplacer/internal/geometry"
)

// Type identifies the kind of a field. A field's type is immutable after
// creation; changing type means delete and recreate.
type Type string

const (
	TypeText     Type = "text"
	TypeCheckbox Type = "checkbox"
	TypeRadio    Type = "radio"
)

// Valid reports whether t is one of the supported field types.
func (t Type) Valid() bool {
	return t == TypeText || t == TypeCheckbox || t == TypeRadio
}

// Field is an axis-aligned rectangular region on one page, typed and
// optionally assigned to a signer.
//
// Rect is the authoritative geometry in document space (bottom-left origin,
// points). SignerIndex is a derived color cache: it must be re-derivable from
// AssignedTo and the current signer list at any time and is never trusted
// across a signer-list edit.
type Field struct {
	FieldName   string        `json:"fieldName"`
	Type        Type          `json:"fieldType"`
	Label       string        `json:"label,omitempty"`
	AssignedTo  string        `json:"assignedTo"`
	SignerName  string        `json:"signerName,omitempty"`
	SignerIndex int           `json:"signerIndex"`
	Page        int           `json:"page"`
	Rect        geometry.Rect `json:"rect"`
	GroupName   string        `json:"groupName,omitempty"`

	// CurrentValue carries a previously persisted fill value on the signing
	// side. It is never set during placement.
	CurrentValue string `json:"currentValue,omitempty"`
}

// Unassigned reports whether the field has no signer. An unassigned field is
// a valid state during editing, not an error.
func (f *Field) Unassigned() bool {
	return f.AssignedTo == ""
}

// RenderRect returns the field's rectangle in render space for the given
// zoom and page height. The result is recomputed on every call and never
// cached on the field.
func (f *Field) RenderRect(zoom, pageHeightPt float64) geometry.RenderRect {
	return geometry.ToRenderSpace(f.Rect, zoom, pageHeightPt)
}

// Validate checks the structural invariants of a single field.
func (f *Field) Validate(pageCount int) error {
	if f.FieldName == "" {
		return fmt.Errorf("field name cannot be empty")
	}
	if !f.Type.Valid() {
		return fmt.Errorf("invalid field type: %q", f.Type)
	}
	if f.Rect.Width <= 0 || f.Rect.Height <= 0 {
		return fmt.Errorf("field %s has degenerate size %gx%g", f.FieldName, f.Rect.Width, f.Rect.Height)
	}
	if f.Page < 0 || (pageCount > 0 && f.Page >= pageCount) {
		return fmt.Errorf("field %s page %d out of range [0, %d)", f.FieldName, f.Page, pageCount)
	}
	if f.Type == TypeRadio && f.GroupName == "" {
		return fmt.Errorf("radio field %s has no group name", f.FieldName)
	}
	if f.Type != TypeRadio && f.GroupName != "" {
		return fmt.Errorf("%s field %s must not have a group name", f.Type, f.FieldName)
	}
	return nil
}
