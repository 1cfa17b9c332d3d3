// Package security confines file access to a configured directory.
package security

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// PathValidator checks that paths resolve inside one directory.
type PathValidator struct {
	configuredDirectory string
}

// NewPathValidator creates a validator for dir. The directory does not
// need to exist yet.
func NewPathValidator(dir string) (*PathValidator, error) {
	if dir == "" {
		return nil, fmt.Errorf("configured directory cannot be empty")
	}
	abs, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve configured directory: %w", err)
	}
	return &PathValidator{configuredDirectory: filepath.Clean(abs)}, nil
}

// Directory returns the absolute configured directory.
func (v *PathValidator) Directory() string {
	return v.configuredDirectory
}

// Resolve returns the absolute form of path, interpreting relative paths
// against the configured directory, after checking that it stays inside.
func (v *PathValidator) Resolve(path string) (string, error) {
	path = strings.ReplaceAll(path, "\x00", "")
	if path == "" {
		return "", fmt.Errorf("path cannot be empty")
	}
	if !filepath.IsAbs(path) {
		path = filepath.Join(v.configuredDirectory, path)
	}
	path = filepath.Clean(path)

	if err := v.ValidatePath(path); err != nil {
		return "", err
	}
	return path, nil
}

// ValidatePath checks that path, and the file it links to if it is a
// symlink, lie within the configured directory.
func (v *PathValidator) ValidatePath(path string) error {
	if path == "" {
		return fmt.Errorf("path cannot be empty")
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return fmt.Errorf("failed to resolve path: %w", err)
	}
	if !v.IsPathWithinDirectory(abs) {
		return fmt.Errorf("path is outside configured directory: %s", path)
	}
	return nil
}

// IsPathWithinDirectory reports whether the absolute path lies within the
// configured directory. Symlinks in either are evaluated when they exist.
func (v *PathValidator) IsPathWithinDirectory(abs string) bool {
	dirs := []string{v.configuredDirectory}
	if real, err := filepath.EvalSymlinks(v.configuredDirectory); err == nil && real != v.configuredDirectory {
		dirs = append(dirs, real)
	}

	clean := filepath.Clean(abs)
	if !within(clean, dirs) {
		return false
	}
	if real, err := filepath.EvalSymlinks(clean); err == nil {
		return within(real, dirs)
	}
	return true
}

func within(path string, dirs []string) bool {
	for _, dir := range dirs {
		if path == dir {
			return true
		}
		prefix := dir
		if !strings.HasSuffix(prefix, string(filepath.Separator)) {
			prefix += string(filepath.Separator)
		}
		if strings.HasPrefix(path, prefix) {
			return true
		}
	}
	return false
}

// ValidateDirectory checks that dirPath lies within the configured
// directory and, if it exists, is a directory.
func (v *PathValidator) ValidateDirectory(dirPath string) error {
	if err := v.ValidatePath(dirPath); err != nil {
		return err
	}
	info, err := os.Stat(dirPath)
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("cannot access directory: %w", err)
	}
	if !info.IsDir() {
		return fmt.Errorf("path is not a directory: %s", dirPath)
	}
	return nil
}
