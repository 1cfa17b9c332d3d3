package pdf

import (
	"fmt"
	"sync"
	"time"

	"github.com/a3tai/traprange/internal/descriptions"
)

const (
	serverInfoTTL       = 5 * time.Minute
	serverInfoFileLimit = 100
)

// DirectoryCache keeps directory listings for a fixed time.
type DirectoryCache struct {
	entries map[string]cacheEntry
	ttl     time.Duration
	now     func() time.Time
	mu      sync.RWMutex
}

type cacheEntry struct {
	files      []FileInfo
	truncated  bool
	lastUpdate time.Time
}

// NewDirectoryCache creates a new directory cache with specified TTL
func NewDirectoryCache(ttl time.Duration) *DirectoryCache {
	return &DirectoryCache{
		entries: make(map[string]cacheEntry),
		ttl:     ttl,
		now:     time.Now,
	}
}

// Get returns the cached listing of path and its age, if still valid.
func (c *DirectoryCache) Get(path string) ([]FileInfo, bool, time.Duration, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	entry, exists := c.entries[path]
	if !exists {
		return nil, false, 0, false
	}
	age := c.now().Sub(entry.lastUpdate)
	if age > c.ttl {
		return nil, false, 0, false
	}
	return entry.files, entry.truncated, age, true
}

// Set stores directory contents in cache
func (c *DirectoryCache) Set(path string, files []FileInfo, truncated bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries[path] = cacheEntry{files: files, truncated: truncated, lastUpdate: c.now()}
}

// Clear removes expired entries from cache
func (c *DirectoryCache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.now()
	for path, entry := range c.entries {
		if now.Sub(entry.lastUpdate) > c.ttl {
			delete(c.entries, path)
		}
	}
}

// ServerInfo describes the server and what is in its directory.
type ServerInfo struct {
	cache   *DirectoryCache
	search  *Search
	service *Service
}

// NewServerInfo creates a server info handler for service. Directory
// listings are capped at serverInfoFileLimit files and cached.
func NewServerInfo(service *Service) *ServerInfo {
	return &ServerInfo{
		cache:   NewDirectoryCache(serverInfoTTL),
		search:  NewSearch(service.validator, service.pathValidator, serverInfoFileLimit),
		service: service,
	}
}

// GetServerInfo reports the server identity, limits, tools and the PDF
// files of the configured directory.
func (p *ServerInfo) GetServerInfo(serverName, version string) (*PDFServerInfoResult, error) {
	dir := p.service.Directory()

	files, truncated, age, cached := p.cache.Get(dir)
	if !cached {
		result, err := p.search.SearchDirectory(PDFSearchDirectoryRequest{})
		if err != nil {
			return nil, fmt.Errorf("failed to list %s: %w", dir, err)
		}
		files = result.Files
		truncated = len(files) >= serverInfoFileLimit
		p.cache.Clear()
		p.cache.Set(dir, files, truncated)
	}

	return &PDFServerInfoResult{
		ServerName:        serverName,
		Version:           version,
		DefaultDirectory:  dir,
		MaxFileSize:       p.service.maxFileSize,
		AvailableTools:    availableTools(),
		DirectoryContents: files,
		Truncated:         truncated,
		FromCache:         cached,
		CacheAge:          age,
		UsageGuidance:     usageGuidance(p.service.maxFileSize),
	}, nil
}

func availableTools() []ToolInfo {
	names := descriptions.GetAllToolNames()
	tools := make([]ToolInfo, len(names))
	for i, name := range names {
		tools[i] = ToolInfo{Name: name, Description: descriptions.GetToolDescription(name)}
	}
	return tools
}

func usageGuidance(maxFileSize int64) string {
	return fmt.Sprintf(`TrapRange MCP Server Usage Guide:

1. FIND DOCUMENTS:
   - Use 'pdf_search_directory' to find PDF files by name
   - Use 'pdf_validate_file' to check that a file opens before extracting

2. LOOK AT THE LAYOUT:
   - Use 'pdf_layout_text' to see each page as fixed-width text
   - Count the rows you want to drop: headers, footers, totals

3. EXTRACT TABLES:
   - Use 'pdf_extract_tables' with except_lines to drop those rows
   - Pick the output format: html, json, yaml, csv, markdown or text

IMPORTANT NOTES:
- Page and line indices are zero-based
- Only text-based PDFs work; scanned pages have no glyphs to cluster
- The server can handle files up to %dMB
- Directory contents here are cached for 5 minutes and capped at %d files`,
		maxFileSize/(1024*1024), serverInfoFileLimit)
}
