package field

import (
	"testing"

	"github.com/pdfforms/fieldplacer/internal/geometry"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStoreAdd(t *testing.T) {
	s := NewStore()

	require.NoError(t, s.Add(textField("f1", 0), 2))
	require.NoError(t, s.Add(textField("f2", 1), 2))
	assert.Equal(t, 2, s.Len())

	err := s.Add(textField("f1", 0), 2)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "duplicate field name")

	err = s.Add(textField("f3", 5), 2)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "out of range")
	assert.Equal(t, 2, s.Len())
}

func TestStoreNameNeverReused(t *testing.T) {
	s := NewStore()
	require.NoError(t, s.Add(textField("f1", 0), 1))
	require.NoError(t, s.Remove(0))
	assert.Equal(t, 0, s.Len())

	// A removed identity stays burned for the session.
	err := s.Add(textField("f1", 0), 1)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "duplicate field name")
}

func TestStoreReassign(t *testing.T) {
	s := NewStore()
	require.NoError(t, s.Add(textField("f1", 0), 1))
	require.NoError(t, s.Add(textField("f2", 0), 1))
	require.NoError(t, s.Add(textField("f3", 0), 1))

	before, err := s.At(2)
	require.NoError(t, err)

	require.NoError(t, s.Reassign(2, AssignmentPatch{
		AssignedTo:  "alice-martin",
		SignerName:  "Alice Martin",
		SignerIndex: 0,
		Label:       "Signature",
	}))

	got, err := s.At(2)
	require.NoError(t, err)
	assert.Equal(t, "alice-martin", got.AssignedTo)
	assert.Equal(t, "Alice Martin", got.SignerName)
	assert.Equal(t, 0, got.SignerIndex)
	assert.Equal(t, "Signature", got.Label)
	assert.Equal(t, before.Rect, got.Rect, "reassignment must not alter geometry")
	assert.Equal(t, before.Type, got.Type)

	// Back to unassigned.
	require.NoError(t, s.Reassign(2, AssignmentPatch{AssignedTo: "", SignerIndex: -1}))
	got, _ = s.At(2)
	assert.Equal(t, "", got.AssignedTo)
	assert.Equal(t, -1, got.SignerIndex)
	assert.Equal(t, before.Rect, got.Rect)
}

func TestStoreReassignIgnoresGroupForNonRadio(t *testing.T) {
	s := NewStore()
	require.NoError(t, s.Add(textField("f1", 0), 1))

	require.NoError(t, s.Reassign(0, AssignmentPatch{GroupName: "group1", SignerIndex: -1}))
	got, _ := s.At(0)
	assert.Equal(t, "", got.GroupName)
}

func TestStoreMove(t *testing.T) {
	s := NewStore()
	require.NoError(t, s.Add(textField("f1", 0), 1))

	newRect := geometry.Rect{X: 50, Y: 60, Width: 80, Height: 20}
	require.NoError(t, s.Move(0, newRect))

	got, _ := s.At(0)
	assert.Equal(t, newRect, got.Rect)

	err := s.Move(0, geometry.Rect{Width: 0, Height: 10})
	require.Error(t, err)

	err = s.Move(7, newRect)
	require.Error(t, err)
}

func TestStoreFieldsOnPage(t *testing.T) {
	s := NewStore()
	require.NoError(t, s.Add(textField("p0a", 0), 3))
	require.NoError(t, s.Add(textField("p1a", 1), 3))
	require.NoError(t, s.Add(textField("p0b", 0), 3))

	fields, indices := s.FieldsOnPage(0)
	require.Len(t, fields, 2)
	assert.Equal(t, "p0a", fields[0].FieldName)
	assert.Equal(t, "p0b", fields[1].FieldName)
	assert.Equal(t, []int{0, 2}, indices)

	fields, _ = s.FieldsOnPage(2)
	assert.Empty(t, fields)
}

func TestStoreGroupNames(t *testing.T) {
	s := NewStore()
	radio := func(name, group string) Field {
		return Field{
			FieldName: name, Type: TypeRadio, GroupName: group, Page: 0,
			Rect: geometry.Rect{Width: 12, Height: 12},
		}
	}
	require.NoError(t, s.Add(radio("r1", "group1"), 1))
	require.NoError(t, s.Add(radio("r2", "group1"), 1))
	require.NoError(t, s.Add(radio("r3", "group2"), 1))
	require.NoError(t, s.Add(textField("t1", 0), 1))

	assert.Equal(t, []string{"group1", "group2"}, s.GroupNames())
}

func TestStoreRefreshSignerIndices(t *testing.T) {
	s := NewStore()
	f := textField("f1", 0)
	f.AssignedTo = "bob-durand"
	f.SignerIndex = 1
	require.NoError(t, s.Add(f, 1))

	// Alice is removed from the list; Bob shifts to position 0.
	s.RefreshSignerIndices([]Signer{NewSigner("Bob Durand", 1)})
	got, _ := s.At(0)
	assert.Equal(t, 0, got.SignerIndex)

	// Bob disappears entirely; the field keeps its assignment but the
	// derived index reports unknown.
	s.RefreshSignerIndices(nil)
	got, _ = s.At(0)
	assert.Equal(t, -1, got.SignerIndex)
	assert.Equal(t, "bob-durand", got.AssignedTo)
}

func TestStoreFieldNamesPairwiseDistinct(t *testing.T) {
	s := NewStore()
	for i := 0; i < 50; i++ {
		f := textField(MintName(TypeText, "alice"), 0)
		require.NoError(t, s.Add(f, 1))
	}
	seen := make(map[string]struct{})
	for _, f := range s.Fields() {
		_, dup := seen[f.FieldName]
		require.False(t, dup, "duplicate name %s", f.FieldName)
		seen[f.FieldName] = struct{}{}
	}
}
