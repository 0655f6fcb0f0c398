// Package workflow defines the wire contract between the placement
// editor and the backend that stores workflows: field records, the
// creation payload and the signing-side document exchange.
package workflow

import (
	"fmt"

	"github.com/pdfforms/fieldplacer/internal/field"
	"github.com/pdfforms/fieldplacer/internal/geometry"
)

// FieldRecord is the serialized form of one placed field. Geometry is
// document space: x,y is the bottom-left corner in points.
type FieldRecord struct {
	FieldName    string  `json:"fieldName"`
	Label        string  `json:"label"`
	AssignedTo   string  `json:"assignedTo"`
	FieldType    string  `json:"fieldType"`
	Page         int     `json:"page"`
	X            float64 `json:"x"`
	Y            float64 `json:"y"`
	Width        float64 `json:"width"`
	Height       float64 `json:"height"`
	GroupName    string  `json:"groupName,omitempty"`
	CurrentValue string  `json:"currentValue,omitempty"`
}

// SignerRecord mirrors the signer list the surrounding form supplies.
type SignerRecord struct {
	Name     string `json:"name"`
	SignerID string `json:"signerId"`
	Order    int    `json:"order"`
}

// WorkflowCreateRequest is the payload submitted when the editing
// session is finalized.
type WorkflowCreateRequest struct {
	Name    string         `json:"name"`
	Signers []SignerRecord `json:"signers"`
	Fields  []FieldRecord  `json:"fields"`
}

// SignerDocumentResponse is what a signer receives when opening their
// document: their field subset with any previously filled values, plus
// the document bytes to render.
type SignerDocumentResponse struct {
	Fields   []FieldRecord `json:"fields"`
	PDFBytes []byte        `json:"pdfBytes"`
}

// FillAndSignRequest carries a signer's completed values. Values are
// keyed by field name and are strings only; booleans use the literals
// "true" and "false".
type FillAndSignRequest struct {
	WorkflowID string            `json:"workflowId"`
	SignerName string            `json:"signerName"`
	Values     map[string]string `json:"values"`
}

// Record serializes one field.
func Record(f field.Field) FieldRecord {
	return FieldRecord{
		FieldName:    f.FieldName,
		Label:        f.Label,
		AssignedTo:   f.AssignedTo,
		FieldType:    string(f.Type),
		Page:         f.Page,
		X:            f.Rect.X,
		Y:            f.Rect.Y,
		Width:        f.Rect.Width,
		Height:       f.Rect.Height,
		GroupName:    f.GroupName,
		CurrentValue: f.CurrentValue,
	}
}

// FieldFromRecord rebuilds a field from its wire form. SignerIndex is
// left at -1; callers resolve it against their signer list.
func FieldFromRecord(r FieldRecord) field.Field {
	return field.Field{
		FieldName:    r.FieldName,
		Type:         field.Type(r.FieldType),
		Label:        r.Label,
		AssignedTo:   r.AssignedTo,
		SignerIndex:  -1,
		Page:         r.Page,
		Rect:         geometry.Rect{X: r.X, Y: r.Y, Width: r.Width, Height: r.Height},
		GroupName:    r.GroupName,
		CurrentValue: r.CurrentValue,
	}
}

// ExportFields serializes the whole store in placement order.
func ExportFields(s *field.Store) []FieldRecord {
	fields := s.Fields()
	records := make([]FieldRecord, len(fields))
	for i, f := range fields {
		records[i] = Record(f)
	}
	return records
}

// NewCreateRequest assembles the submission payload for a finished
// editing session.
func NewCreateRequest(name string, signers []field.Signer, s *field.Store) WorkflowCreateRequest {
	signerRecords := make([]SignerRecord, len(signers))
	for i, sg := range signers {
		signerRecords[i] = SignerRecord{Name: sg.Name, SignerID: sg.SignerID, Order: sg.Order}
	}
	return WorkflowCreateRequest{
		Name:    name,
		Signers: signerRecords,
		Fields:  ExportFields(s),
	}
}

// FieldsForSigner filters records to those assigned to the given signer.
// The signing side never sees other signers' fields.
func FieldsForSigner(records []FieldRecord, signerID string) []FieldRecord {
	var out []FieldRecord
	for _, r := range records {
		if r.AssignedTo == signerID {
			out = append(out, r)
		}
	}
	return out
}

// SignerDocument builds the response for one signer from the full field
// store and the document bytes.
func SignerDocument(s *field.Store, signerID string, pdfBytes []byte) SignerDocumentResponse {
	return SignerDocumentResponse{
		Fields:   FieldsForSigner(ExportFields(s), signerID),
		PDFBytes: pdfBytes,
	}
}

// SubmitPolicy controls validation at submission time. Whether an
// unassigned field blocks submission is a policy decision, so it is an
// explicit flag rather than hidden behavior. The default permits
// unassigned fields.
type SubmitPolicy struct {
	RequireAssigned bool
}

// ValidateForSubmission checks the store against the policy. With
// RequireAssigned set, the first unassigned field fails the check by
// name.
func (p SubmitPolicy) ValidateForSubmission(s *field.Store) error {
	if !p.RequireAssigned {
		return nil
	}
	for _, f := range s.Fields() {
		if f.Unassigned() {
			return fmt.Errorf("field %q is not assigned to a signer", f.FieldName)
		}
	}
	return nil
}
