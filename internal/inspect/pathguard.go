package inspect

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// PathGuard confines file access to one configured directory so a tool
// caller cannot read arbitrary files on the host.
type PathGuard struct {
	dir string
}

// NewPathGuard creates a guard for the given directory. The directory
// does not have to exist yet; validation is skipped until it does.
func NewPathGuard(dir string) (*PathGuard, error) {
	if dir == "" {
		return nil, fmt.Errorf("configured directory cannot be empty")
	}
	return &PathGuard{dir: dir}, nil
}

// Dir returns the configured directory.
func (g *PathGuard) Dir() string {
	return g.dir
}

// Resolve turns path into an absolute path inside the configured
// directory. Relative paths are joined onto the directory; absolute
// paths must already be within it.
func (g *PathGuard) Resolve(path string) (string, error) {
	if path == "" {
		return "", fmt.Errorf("path cannot be empty")
	}
	path = strings.ReplaceAll(path, "\x00", "")

	if !filepath.IsAbs(path) {
		path = filepath.Join(g.dir, path)
	}

	absPath, err := filepath.Abs(path)
	if err != nil {
		return "", fmt.Errorf("failed to resolve path: %w", err)
	}

	if err := g.check(absPath); err != nil {
		return "", err
	}
	return absPath, nil
}

func (g *PathGuard) check(absPath string) error {
	// Skip confinement until the directory exists, placeholder paths
	// are allowed in configuration.
	if _, err := os.Stat(g.dir); os.IsNotExist(err) {
		return nil
	}

	absDir, err := filepath.Abs(g.dir)
	if err != nil {
		return fmt.Errorf("failed to resolve configured directory: %w", err)
	}

	cleanPath := filepath.Clean(absPath)
	cleanDir := filepath.Clean(absDir)

	// Symlinked paths are compared by their real location.
	realPath := cleanPath
	if info, err := os.Lstat(cleanPath); err == nil && info.Mode()&os.ModeSymlink != 0 {
		if resolved, err := filepath.EvalSymlinks(cleanPath); err == nil {
			realPath = resolved
		}
	}
	realDir := cleanDir
	if resolved, err := filepath.EvalSymlinks(cleanDir); err == nil {
		realDir = resolved
	}

	pathOk := within(cleanPath, cleanDir) || within(cleanPath, realDir)
	realPathOk := within(realPath, cleanDir) || within(realPath, realDir)
	if pathOk && realPathOk {
		return nil
	}
	return fmt.Errorf("path is outside configured directory: %s", absPath)
}

func within(path, dir string) bool {
	if path == dir {
		return true
	}
	if !strings.HasSuffix(dir, string(filepath.Separator)) {
		dir += string(filepath.Separator)
	}
	return strings.HasPrefix(path, dir)
}
