package decode

import (
	"strconv"
	"strings"
)

// Header holds the column labels of a table. Duplicate labels are kept;
// every occurrence stays addressable.
type Header struct {
	labels    []string
	positions map[string][]int
}

// NewHeader indexes a header record. Labels are trimmed of surrounding whitespace.
func NewHeader(labels []string) *Header {
	h := &Header{
		labels:    make([]string, len(labels)),
		positions: make(map[string][]int, len(labels)),
	}
	for i, l := range labels {
		l = strings.TrimSpace(l)
		h.labels[i] = l
		h.positions[l] = append(h.positions[l], i)
	}
	return h
}

// Labels returns the header labels in file order.
func (h *Header) Labels() []string {
	if h == nil {
		return nil
	}
	out := make([]string, len(h.labels))
	copy(out, h.labels)
	return out
}

// Len returns the number of columns.
func (h *Header) Len() int {
	if h == nil {
		return 0
	}
	return len(h.labels)
}

// Count returns how many columns carry label.
func (h *Header) Count(label string) int {
	if h == nil {
		return 0
	}
	return len(h.positions[label])
}

// Has reports whether key resolves to a column (see Position).
func (h *Header) Has(key string) bool {
	_, ok := h.Position(key)
	return ok
}

// Position resolves key to a column index.
//
// A literal label wins and maps to its first occurrence. Otherwise a key of
// the form "label_N" (N >= 1) maps to the (N+1)-th column labelled "label",
// which is how spreadsheet tools number repeated headings.
func (h *Header) Position(key string) (int, bool) {
	if h == nil {
		return 0, false
	}
	if pos := h.positions[key]; len(pos) > 0 {
		return pos[0], true
	}
	i := strings.LastIndexByte(key, '_')
	if i <= 0 {
		return 0, false
	}
	n, err := strconv.Atoi(key[i+1:])
	if err != nil || n < 1 {
		return 0, false
	}
	return h.nth(key[:i], n)
}

func (h *Header) nth(label string, n int) (int, bool) {
	if h == nil || n < 0 {
		return 0, false
	}
	pos := h.positions[label]
	if n >= len(pos) {
		return 0, false
	}
	return pos[n], true
}

// Row is one data record. Values always line up with the header.
type Row struct {
	header *Header
	values []string
	line   int
}

func newRow(h *Header, record []string, line int) Row {
	values := make([]string, h.Len())
	copy(values, record) // short rows pad with "", extra fields drop
	return Row{header: h, values: values, line: line}
}

// NewRow builds a row against h; used by tests and callers assembling rows by hand.
func NewRow(h *Header, record []string) Row {
	return newRow(h, record, 0)
}

// Line returns the 1-indexed source line the row started on, or 0 if unknown.
func (r Row) Line() int { return r.line }

// Get returns the value for key, resolved as in Header.Position.
func (r Row) Get(key string) (string, bool) {
	pos, ok := r.header.Position(key)
	if !ok {
		return "", false
	}
	return r.values[pos], true
}

// Nth returns the value of the n-th (0-based) column labelled label.
func (r Row) Nth(label string, n int) (string, bool) {
	pos, ok := r.header.nth(label, n)
	if !ok {
		return "", false
	}
	return r.values[pos], true
}

// Values returns a copy of the row's cells in column order.
func (r Row) Values() []string {
	out := make([]string, len(r.values))
	copy(out, r.values)
	return out
}

// Table is a decoded source file.
type Table struct {
	Header *Header
	Rows   []Row
}

// Len returns the number of data rows.
func (t *Table) Len() int {
	if t == nil {
		return 0
	}
	return len(t.Rows)
}

func emptyTable() *Table {
	return &Table{Header: NewHeader(nil)}
}
