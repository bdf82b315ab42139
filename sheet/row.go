package sheet

import "fmt"

// Row is an ordered sequence of Cells owned by a Sheet. Positional access
// auto-extends the row with empty cells; rows never shrink.
type Row struct {
	sheet *Sheet
	index int
	cells []*Cell
}

func newRow(s *Sheet, index int, values []string) *Row {
	r := &Row{sheet: s, index: index}
	r.cells = make([]*Cell, len(values))
	for i, v := range values {
		r.cells[i] = newCell(r, i, v)
	}
	return r
}

// Index returns the row's absolute 0-based position in its sheet.
func (r *Row) Index() int { return r.index }

// Len returns the number of cells currently in the row.
func (r *Row) Len() int { return len(r.cells) }

// Cells returns the row's cells in column order.
func (r *Row) Cells() []*Cell { return r.cells }

// IsHeader reports whether this row is its sheet's header row.
func (r *Row) IsHeader() bool {
	return r.sheet != nil && r.sheet.header == r
}

// Cell returns the cell at the given 0-based column index, extending the row
// with empty cells up to and including that index when needed.
func (r *Row) Cell(index int) *Cell {
	r.extendTo(index)
	return r.cells[index]
}

// CellByKey returns the cell in the column whose header value equals key.
// It fails wrapping ErrUnknownColumn when the key is not a header value.
func (r *Row) CellByKey(key string) (*Cell, error) {
	indexes := r.sheet.headerIndexes()
	index, ok := indexes[key]
	if !ok {
		return nil, fmt.Errorf("column key %q: %w", key, ErrUnknownColumn)
	}
	return r.Cell(index), nil
}

// Set updates the cell at the given column index, extending the row as needed.
func (r *Row) Set(index int, value any) {
	r.Cell(index).Set(value)
}

// Erase sets every cell's value to the empty string. The row keeps its length
// and position in the sheet; this is a soft clear, not a structural delete.
func (r *Row) Erase() {
	for _, cell := range r.cells {
		cell.Set(nil)
	}
}

// AsMap returns a header-key → raw cell value snapshot of this row.
func (r *Row) AsMap() map[string]string {
	indexes := r.sheet.headerIndexes()
	data := make(map[string]string, len(indexes))
	for key, i := range indexes {
		data[key] = r.Cell(i).Value()
	}
	return data
}

func (r *Row) extendTo(index int) {
	for i := len(r.cells); i <= index; i++ {
		r.cells = append(r.cells, newCell(r, i, ""))
	}
}

// String identifies the row by its sheet and 1-based position.
func (r *Row) String() string {
	if r.sheet != nil {
		return fmt.Sprintf("%s.Row#%d", r.sheet, r.index+1)
	}
	return fmt.Sprintf("Row#%d", r.index+1)
}
