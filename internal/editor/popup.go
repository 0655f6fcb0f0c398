package editor

import (
	"fmt"

	"github.com/pdfforms/fieldplacer/internal/field"
	"github.com/pdfforms/fieldplacer/internal/geometry"
)

// Popup describes the open assignment dialog: where it anchors, what it is
// assigning, and the radio groups it can offer.
type Popup struct {
	Page        int
	Rect        geometry.RenderRect
	FieldType   field.Type
	Reassigning bool
	// FieldIndex is the store index under reassignment; -1 for a creation.
	FieldIndex int
	// GroupOptions lists the existing radio group names; only populated for
	// radio fields. Choosing none of them mints the next groupN name.
	GroupOptions []string
}

// Assignment is the outcome of the popup: the chosen signer (nil means
// explicitly unassigned), an optional label, and for radio fields the chosen
// group name ("" requests a new group).
type Assignment struct {
	Signer *field.Signer
	Label  string
	Group  string
}

// PendingPopup returns the open popup, if any.
func (e *Editor) PendingPopup() (Popup, bool) {
	st, ok := e.state.(popupOpenState)
	if !ok {
		return Popup{}, false
	}
	p := Popup{
		Page:        st.page,
		Rect:        st.pendingRect,
		FieldType:   st.pendingType,
		Reassigning: st.reassignIndex >= 0,
		FieldIndex:  st.reassignIndex,
	}
	if st.pendingType == field.TypeRadio {
		p.GroupOptions = e.store.GroupNames()
	}
	return p, true
}

// ConfirmAssignment finalizes the open popup: a creation when the popup was
// anchored to a pending rectangle, a reassignment when it targeted an
// existing field. A nil signer is the first-class "unassigned" choice, not
// an error.
func (e *Editor) ConfirmAssignment(a Assignment) error {
	st, ok := e.state.(popupOpenState)
	if !ok {
		return fmt.Errorf("no assignment popup is open")
	}

	var signerID, signerName string
	if a.Signer != nil {
		signerID = a.Signer.SignerID
		signerName = a.Signer.Name
	}
	signerIndex := field.IndexOf(e.signers(), signerID)

	group := ""
	if st.pendingType == field.TypeRadio {
		group = a.Group
		if group == "" {
			group = field.NextGroupName(e.store.GroupNames())
		}
	}

	if st.reassignIndex >= 0 {
		err := e.store.Reassign(st.reassignIndex, field.AssignmentPatch{
			AssignedTo:  signerID,
			SignerName:  signerName,
			SignerIndex: signerIndex,
			Label:       a.Label,
			GroupName:   group,
		})
		if err != nil {
			return err
		}
		e.state = idleState{}
		return nil
	}

	m, ok := e.metrics(st.page)
	if !ok {
		return fmt.Errorf("page %d has no metrics", st.page)
	}
	f := field.Field{
		FieldName:   field.MintName(st.pendingType, signerID),
		Type:        st.pendingType,
		Label:       a.Label,
		AssignedTo:  signerID,
		SignerName:  signerName,
		SignerIndex: signerIndex,
		Page:        st.page,
		Rect:        geometry.ToDocumentSpace(st.pendingRect, m.ZoomFactor, m.PageHeightPoints),
		GroupName:   group,
	}
	if err := e.store.Add(f, 0); err != nil {
		return err
	}
	e.state = idleState{}
	return nil
}

// CancelPopup discards the pending rectangle or reassignment target without
// touching the store.
func (e *Editor) CancelPopup() {
	if _, ok := e.state.(popupOpenState); ok {
		e.state = idleState{}
	}
}
