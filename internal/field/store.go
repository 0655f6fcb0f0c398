package field

import (
	"fmt"

	"github.com/pdfforms/fieldplacer/internal/geometry"
)

// Store is the ordered, in-memory collection of fields for one editing
// session. All operations are synchronous and mutate only the collection;
// persistence and network calls belong to the caller. Field order is
// creation order, which doubles as z-order (last is topmost).
type Store struct {
	fields []Field
	names  map[string]struct{}
}

// NewStore creates an empty field store.
func NewStore() *Store {
	return &Store{names: make(map[string]struct{})}
}

// Len returns the number of fields in the store.
func (s *Store) Len() int {
	return len(s.fields)
}

// Fields returns the fields in z-order. The returned slice is a copy; the
// records themselves are values, so callers cannot mutate store state.
func (s *Store) Fields() []Field {
	out := make([]Field, len(s.fields))
	copy(out, s.fields)
	return out
}

// At returns the field at index.
func (s *Store) At(index int) (Field, error) {
	if index < 0 || index >= len(s.fields) {
		return Field{}, fmt.Errorf("field index %d out of range [0, %d)", index, len(s.fields))
	}
	return s.fields[index], nil
}

// FieldsOnPage returns the fields whose page matches, preserving z-order,
// together with their store indices. Fields on other pages are invisible to
// a page surface.
func (s *Store) FieldsOnPage(page int) ([]Field, []int) {
	var fields []Field
	var indices []int
	for i, f := range s.fields {
		if f.Page == page {
			fields = append(fields, f)
			indices = append(indices, i)
		}
	}
	return fields, indices
}

// GroupNames returns the distinct radio group names present in the store,
// in first-seen order.
func (s *Store) GroupNames() []string {
	seen := make(map[string]struct{})
	var names []string
	for _, f := range s.fields {
		if f.Type != TypeRadio || f.GroupName == "" {
			continue
		}
		if _, ok := seen[f.GroupName]; ok {
			continue
		}
		seen[f.GroupName] = struct{}{}
		names = append(names, f.GroupName)
	}
	return names
}

// Add appends a field after validating it. Field names must be unique across
// the whole collection, all pages included.
func (s *Store) Add(f Field, pageCount int) error {
	if err := f.Validate(pageCount); err != nil {
		return err
	}
	if _, exists := s.names[f.FieldName]; exists {
		return fmt.Errorf("duplicate field name: %s", f.FieldName)
	}
	s.fields = append(s.fields, f)
	s.names[f.FieldName] = struct{}{}
	return nil
}

// AssignmentPatch carries the mutable assignment attributes of a field.
// Geometry and type are never touched by a reassignment.
type AssignmentPatch struct {
	AssignedTo  string
	SignerName  string
	SignerIndex int
	Label       string
	GroupName   string
}

// Reassign merges an assignment patch into the field at index. GroupName is
// applied only to radio fields; for other types it is ignored so the
// type/group invariant cannot be broken by a patch.
func (s *Store) Reassign(index int, patch AssignmentPatch) error {
	if index < 0 || index >= len(s.fields) {
		return fmt.Errorf("field index %d out of range [0, %d)", index, len(s.fields))
	}
	f := &s.fields[index]
	f.AssignedTo = patch.AssignedTo
	f.SignerName = patch.SignerName
	f.SignerIndex = patch.SignerIndex
	f.Label = patch.Label
	if f.Type == TypeRadio && patch.GroupName != "" {
		f.GroupName = patch.GroupName
	}
	return nil
}

// Move replaces the geometry of the field at index with a new document-space
// rectangle. Type and assignment are untouched.
func (s *Store) Move(index int, rect geometry.Rect) error {
	if index < 0 || index >= len(s.fields) {
		return fmt.Errorf("field index %d out of range [0, %d)", index, len(s.fields))
	}
	if rect.Width <= 0 || rect.Height <= 0 {
		return fmt.Errorf("degenerate rectangle %gx%g", rect.Width, rect.Height)
	}
	s.fields[index].Rect = rect
	return nil
}

// Remove deletes the field at index. Other fields keep their identities;
// the removed name is never reused within the session.
func (s *Store) Remove(index int) error {
	if index < 0 || index >= len(s.fields) {
		return fmt.Errorf("field index %d out of range [0, %d)", index, len(s.fields))
	}
	s.fields = append(s.fields[:index], s.fields[index+1:]...)
	return nil
}

// RefreshSignerIndices recomputes every field's derived SignerIndex from its
// AssignedTo and the current signer list. Call after any signer-list edit;
// the stored index is a color cache, never authoritative.
func (s *Store) RefreshSignerIndices(signers []Signer) {
	for i := range s.fields {
		s.fields[i].SignerIndex = IndexOf(signers, s.fields[i].AssignedTo)
	}
}
