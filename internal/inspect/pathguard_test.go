package inspect

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewPathGuardEmptyDir(t *testing.T) {
	_, err := NewPathGuard("")
	assert.Error(t, err)
}

func TestResolveRelativePath(t *testing.T) {
	dir := t.TempDir()
	guard, err := NewPathGuard(dir)
	require.NoError(t, err)

	resolved, err := guard.Resolve("form.pdf")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "form.pdf"), resolved)
}

func TestResolveAbsolutePathInside(t *testing.T) {
	dir := t.TempDir()
	guard, err := NewPathGuard(dir)
	require.NoError(t, err)

	inside := filepath.Join(dir, "sub", "form.pdf")
	resolved, err := guard.Resolve(inside)
	require.NoError(t, err)
	assert.Equal(t, inside, resolved)
}

func TestResolveRejectsOutsidePath(t *testing.T) {
	dir := t.TempDir()
	other := t.TempDir()
	guard, err := NewPathGuard(dir)
	require.NoError(t, err)

	_, err = guard.Resolve(filepath.Join(other, "form.pdf"))
	assert.ErrorContains(t, err, "outside configured directory")
}

func TestResolveRejectsTraversal(t *testing.T) {
	dir := t.TempDir()
	guard, err := NewPathGuard(dir)
	require.NoError(t, err)

	_, err = guard.Resolve(filepath.Join(dir, "..", "escape.pdf"))
	assert.Error(t, err)
}

func TestResolveEmptyPath(t *testing.T) {
	guard, err := NewPathGuard(t.TempDir())
	require.NoError(t, err)

	_, err = guard.Resolve("")
	assert.ErrorContains(t, err, "path cannot be empty")
}

func TestResolveMissingDirSkipsConfinement(t *testing.T) {
	// Placeholder directories that don't exist yet accept any path.
	guard, err := NewPathGuard(filepath.Join(t.TempDir(), "not-created"))
	require.NoError(t, err)

	_, err = guard.Resolve("/anywhere/form.pdf")
	assert.NoError(t, err)
}
