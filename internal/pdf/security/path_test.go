package security

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewPathValidator(t *testing.T) {
	_, err := NewPathValidator("")
	assert.Error(t, err)

	v, err := NewPathValidator("relative/dir")
	require.NoError(t, err)
	assert.True(t, filepath.IsAbs(v.Directory()))

	v, err = NewPathValidator("/non/existent/path/")
	require.NoError(t, err)
	assert.Equal(t, "/non/existent/path", v.Directory())
}

func TestPathValidator_ValidatePath(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.Mkdir(filepath.Join(dir, "sub"), 0o755))
	v, err := NewPathValidator(dir)
	require.NoError(t, err)

	tests := []struct {
		name    string
		path    string
		wantErr bool
	}{
		{name: "file in directory", path: filepath.Join(dir, "a.pdf")},
		{name: "file in subdirectory", path: filepath.Join(dir, "sub", "b.pdf")},
		{name: "directory itself", path: dir},
		{name: "empty", path: "", wantErr: true},
		{name: "traversal", path: filepath.Join(dir, "..", "escape.pdf"), wantErr: true},
		{name: "sibling with shared prefix", path: dir + "-other/a.pdf", wantErr: true},
		{name: "outside", path: "/etc/passwd", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := v.ValidatePath(tt.path)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestPathValidator_SymlinkEscape(t *testing.T) {
	dir := t.TempDir()
	outside := t.TempDir()
	target := filepath.Join(outside, "secret.pdf")
	require.NoError(t, os.WriteFile(target, []byte("%PDF-1.4"), 0o600))

	link := filepath.Join(dir, "link.pdf")
	if err := os.Symlink(target, link); err != nil {
		t.Skipf("symlinks unsupported: %v", err)
	}

	v, err := NewPathValidator(dir)
	require.NoError(t, err)
	assert.Error(t, v.ValidatePath(link))
}

func TestPathValidator_Resolve(t *testing.T) {
	dir := t.TempDir()
	v, err := NewPathValidator(dir)
	require.NoError(t, err)

	got, err := v.Resolve("tables.pdf")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(v.Directory(), "tables.pdf"), got)

	got, err = v.Resolve(filepath.Join(dir, "x\x00.pdf"))
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "x.pdf"), got)

	_, err = v.Resolve("../outside.pdf")
	assert.Error(t, err)

	_, err = v.Resolve("")
	assert.Error(t, err)
}

func TestPathValidator_ValidateDirectory(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "f.pdf")
	require.NoError(t, os.WriteFile(file, []byte("x"), 0o600))

	v, err := NewPathValidator(dir)
	require.NoError(t, err)

	assert.NoError(t, v.ValidateDirectory(dir))
	assert.NoError(t, v.ValidateDirectory(filepath.Join(dir, "later")))
	assert.Error(t, v.ValidateDirectory(file))
	assert.Error(t, v.ValidateDirectory(t.TempDir()))
}
