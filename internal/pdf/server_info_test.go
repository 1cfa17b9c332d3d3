package pdf

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/a3tai/traprange/internal/pdf/pdftest"
)

func TestDirectoryCache(t *testing.T) {
	now := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	cache := NewDirectoryCache(time.Minute)
	cache.now = func() time.Time { return now }

	_, _, _, ok := cache.Get("/docs")
	assert.False(t, ok)

	files := []FileInfo{{Name: "a.pdf"}}
	cache.Set("/docs", files, true)

	now = now.Add(30 * time.Second)
	got, truncated, age, ok := cache.Get("/docs")
	require.True(t, ok)
	assert.Equal(t, files, got)
	assert.True(t, truncated)
	assert.Equal(t, 30*time.Second, age)

	now = now.Add(time.Minute)
	_, _, _, ok = cache.Get("/docs")
	assert.False(t, ok)

	cache.Set("/other", files, false)
	assert.Len(t, cache.entries, 2)
	cache.Clear()
	assert.Len(t, cache.entries, 1)
	_, _, _, ok = cache.Get("/other")
	assert.True(t, ok)
}

func TestService_ServerInfo(t *testing.T) {
	svc, dir := newTestService(t)
	writeInventory(t, dir, 1)

	info, err := svc.ServerInfo("traprange", "1.2.3")
	require.NoError(t, err)

	assert.Equal(t, "traprange", info.ServerName)
	assert.Equal(t, "1.2.3", info.Version)
	assert.Equal(t, dir, info.DefaultDirectory)
	assert.Equal(t, int64(1024*1024), info.MaxFileSize)
	assert.False(t, info.FromCache)
	assert.False(t, info.Truncated)
	require.Len(t, info.DirectoryContents, 1)
	assert.Equal(t, "inventory.pdf", info.DirectoryContents[0].Name)
	assert.Contains(t, info.UsageGuidance, "up to 1MB")

	names := make([]string, len(info.AvailableTools))
	for i, tool := range info.AvailableTools {
		names[i] = tool.Name
		assert.NotEmpty(t, tool.Description)
	}
	assert.Contains(t, names, "pdf_extract_tables")
	assert.Contains(t, names, "pdf_server_info")

	// A second call is served from the cache and misses new files
	pdftest.WriteFile(t, dir, "later.pdf", []byte("%PDF-1.4"))
	info, err = svc.ServerInfo("traprange", "1.2.3")
	require.NoError(t, err)
	assert.True(t, info.FromCache)
	assert.Len(t, info.DirectoryContents, 1)
}
