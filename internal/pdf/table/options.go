package table

import "sort"

type intSet map[int]struct{}

func (s intSet) has(i int) bool {
	_, ok := s[i]
	return ok
}

func (s intSet) clone() intSet {
	out := make(intSet, len(s))
	for k := range s {
		out[k] = struct{}{}
	}
	return out
}

func (s intSet) sorted() []int {
	out := make([]int, 0, len(s))
	for k := range s {
		out = append(out, k)
	}
	sort.Ints(out)
	return out
}

// Options selects the pages and rows an Extractor works on. The zero value
// selects every row of every page. Options are built with an OptionsBuilder
// and never change afterwards.
type Options struct {
	pages       intSet
	exceptPages intSet
	// exceptLines holds row indices excluded on one page; allLines applies to every page.
	exceptLines map[int]intSet
	allLines    intSet
}

// Pages returns the allow-listed page indices in ascending order. Empty means all pages.
func (o Options) Pages() []int {
	return o.pages.sorted()
}

// ExceptedPages returns the excluded page indices in ascending order.
func (o Options) ExceptedPages() []int {
	return o.exceptPages.sorted()
}

// Eligible reports whether page is extracted.
func (o Options) Eligible(page int) bool {
	if o.exceptPages.has(page) {
		return false
	}
	return len(o.pages) == 0 || o.pages.has(page)
}

// LineExcepted reports whether row line of a page with rowCount rows is excluded.
// Negative indices count from the end: -1 is the last row.
func (o Options) LineExcepted(page, line, rowCount int) bool {
	onPage := o.exceptLines[page]
	for _, idx := range [...]int{line, line - rowCount} {
		if onPage.has(idx) || o.allLines.has(idx) {
			return true
		}
	}
	return false
}

// OptionsBuilder assembles Options.
type OptionsBuilder struct {
	opts Options
}

// NewOptionsBuilder returns a builder selecting every row of every page.
func NewOptionsBuilder() *OptionsBuilder {
	return &OptionsBuilder{opts: Options{
		pages:       intSet{},
		exceptPages: intSet{},
		exceptLines: map[int]intSet{},
		allLines:    intSet{},
	}}
}

// AddPage adds a page to the allow-list.
func (b *OptionsBuilder) AddPage(idx int) *OptionsBuilder {
	b.opts.pages[idx] = struct{}{}
	return b
}

// ExceptPage excludes a page.
func (b *OptionsBuilder) ExceptPage(idx int) *OptionsBuilder {
	b.opts.exceptPages[idx] = struct{}{}
	return b
}

// ExceptLine excludes rows on every page.
func (b *OptionsBuilder) ExceptLine(idx ...int) *OptionsBuilder {
	for _, i := range idx {
		b.opts.allLines[i] = struct{}{}
	}
	return b
}

// ExceptLineOnPage excludes rows on one page.
func (b *OptionsBuilder) ExceptLineOnPage(page int, idx ...int) *OptionsBuilder {
	set, ok := b.opts.exceptLines[page]
	if !ok {
		set = intSet{}
		b.opts.exceptLines[page] = set
	}
	for _, i := range idx {
		set[i] = struct{}{}
	}
	return b
}

// Build returns a snapshot of the options; later builder calls do not affect it.
func (b *OptionsBuilder) Build() Options {
	lines := make(map[int]intSet, len(b.opts.exceptLines))
	for page, set := range b.opts.exceptLines {
		lines[page] = set.clone()
	}
	return Options{
		pages:       b.opts.pages.clone(),
		exceptPages: b.opts.exceptPages.clone(),
		exceptLines: lines,
		allLines:    b.opts.allLines.clone(),
	}
}
