package glyph

import "fmt"

// MemorySource is a Source over pages already held in memory.
type MemorySource struct {
	pages  []Page
	closed bool
}

// NewMemorySource creates a source over pages. Each page's Index is reset to its position.
func NewMemorySource(pages ...Page) *MemorySource {
	ps := make([]Page, len(pages))
	for i, p := range pages {
		flows := make([][]Glyph, len(p.Flows))
		for f, flow := range p.Flows {
			flows[f] = make([]Glyph, len(flow))
			for j, g := range flow {
				g.Page = i
				flows[f][j] = g
			}
		}
		p.Index = i
		p.Flows = flows
		ps[i] = p
	}
	return &MemorySource{pages: ps}
}

// PageCount returns the number of pages.
func (m *MemorySource) PageCount() int {
	return len(m.pages)
}

// Page returns the page at index.
func (m *MemorySource) Page(index int) (Page, error) {
	if m.closed {
		return Page{}, fmt.Errorf("source is closed")
	}
	if index < 0 || index >= len(m.pages) {
		return Page{}, fmt.Errorf("invalid page index %d (source has %d pages)", index, len(m.pages))
	}
	return m.pages[index], nil
}

// Close marks the source closed.
func (m *MemorySource) Close() error {
	m.closed = true
	return nil
}

// Closed reports whether Close has been called.
func (m *MemorySource) Closed() bool {
	return m.closed
}
