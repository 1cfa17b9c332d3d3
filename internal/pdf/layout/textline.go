package layout

const blank = ' '

// TextLine is one fixed-width line of character cells.
// Cells are written left to right and only while still blank.
type TextLine struct {
	cells []rune
	last  int
}

// NewTextLine returns a blank line sized for a page of the given width.
func NewTextLine(pageWidth int) *TextLine {
	n := pageWidth / CellWidth
	if n < 0 {
		n = 0
	}
	cells := make([]rune, n)
	for i := range cells {
		cells[i] = blank
	}
	return &TextLine{cells: cells, last: -1}
}

// Len returns the number of cells.
func (l *TextLine) Len() int {
	return len(l.cells)
}

// String returns the cells as text, trailing blanks included.
func (l *TextLine) String() string {
	return string(l.cells)
}

// MarshalText encodes the line as its string form.
func (l *TextLine) MarshalText() ([]byte, error) {
	return []byte(l.String()), nil
}

func (l *TextLine) inBounds(i int) bool {
	return i >= 0 && i < len(l.cells)
}

func (l *TextLine) filled(i int) bool {
	return l.inBounds(i) && l.cells[i] != blank
}

// runStart walks left from i over blank cells and returns the first blank
// cell after the preceding non-blank run.
func (l *TextLine) runStart(i int) int {
	for i >= 0 && l.cells[i] == blank {
		i--
	}
	return i + 1
}

// place resolves the target cell of c and advances the cursor.
// It returns -1 when the glyph falls outside the line.
func (l *TextLine) place(c character) int {
	idx := c.column
	if !l.inBounds(idx) {
		return -1
	}

	switch {
	case c.partOfPreviousWord && !c.beginningOfNewLine:
		idx = l.runStart(idx)
	case c.closeToPreviousWord:
		if l.filled(idx) {
			idx++
		} else {
			idx = l.runStart(idx) + 1
		}
	}

	next := idx
	if next <= l.last {
		next = l.last + 1
	}
	if !c.partOfPreviousWord && l.filled(idx-1) {
		next++
	}
	l.last = next
	return next
}

// write places c and stores its value if the target cell is free.
func (l *TextLine) write(c character) {
	idx := l.place(c)
	if l.inBounds(idx) && l.cells[idx] == blank {
		l.cells[idx] = c.value
	}
}
