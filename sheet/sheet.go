// Package sheet implements a thin client over a remote spreadsheet API: cells
// with dirty tracking and typed accessors, header-keyed rows, and load/save/
// rename/duplicate operations on a single named table.
//
// Terminology follows the remote API: a spreadsheet (identified by its id) is a
// file holding one or more named tables; a Sheet value represents one table.
package sheet

import (
	"context"
	"fmt"

	"github.com/gridkit/gridkit/uilog"
)

// loadRange covers every column the client cares about; the remote trims it to
// the table's actual extent.
const loadRange = "A1:ZZ"

// maxLoadRetries is the number of additional attempts made when a load times
// out.
const maxLoadRetries = 3

// Sheet is a loaded table of Rows with a designated header row. It is created
// unloaded; Load fetches the rows, mutations accumulate as per-cell dirty
// flags, and Save flushes only the dirty cells.
type Sheet struct {
	transport     Transport
	spreadsheetID string
	name          string

	rows       []*Row
	header     *Row
	headerKeys map[string]int

	tableID    int64
	hasTableID bool
	loaded     bool

	log *uilog.Logger
}

// Option configures a Sheet.
type Option func(*Sheet)

// WithLogger routes the sheet's load/save diagnostics to the given logger.
func WithLogger(l *uilog.Logger) Option {
	return func(s *Sheet) { s.log = l }
}

// New creates an unloaded Sheet for the named table of the given spreadsheet.
func New(transport Transport, spreadsheetID, name string, opts ...Option) *Sheet {
	s := &Sheet{
		transport:     transport,
		spreadsheetID: spreadsheetID,
		name:          name,
	}
	// Header starts as a phantom row before the data so that data rows begin
	// at absolute index 0 until a real header is designated.
	s.header = &Row{sheet: s, index: -1}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Name returns the table name.
func (s *Sheet) Name() string { return s.name }

// SpreadsheetID returns the id of the spreadsheet file containing this table.
func (s *Sheet) SpreadsheetID() string { return s.spreadsheetID }

// IsLoaded reports whether Load has completed successfully.
func (s *Sheet) IsLoaded() bool { return s.loaded }

// Load fetches all rows of the table and designates row 0 as the header.
// Timeouts are retried up to maxLoadRetries additional times; any other remote
// failure fails immediately. Load is an idempotent reload: previously loaded
// rows are replaced, not appended to.
func (s *Sheet) Load(ctx context.Context) error {
	rng := fmt.Sprintf("'%s'!%s", s.name, loadRange)
	s.logf(uilog.Info, "Downloading sheet %q", s.name)

	var lastErr error
	for attempt := 0; attempt <= maxLoadRetries; attempt++ {
		values, err := s.transport.BatchGet(ctx, s.spreadsheetID, rng)
		if err != nil {
			if isTimeout(err) {
				lastErr = err
				if attempt < maxLoadRetries {
					s.logf(uilog.Warning, "Retry %d of %d.", attempt+1, maxLoadRetries)
				}
				continue
			}
			s.logf(uilog.Error, "No sheet found for %q: %v", s.name, err)
			return fmt.Errorf("load sheet %q: %w", s.name, err)
		}

		s.rows = make([]*Row, 0, len(values))
		for i, rowValues := range values {
			s.rows = append(s.rows, newRow(s, i, rowValues))
		}
		if len(s.rows) > 0 {
			s.SetHeaderRow(0)
		}
		s.loaded = true
		return nil
	}

	s.logf(uilog.Error, "Requests timed out, couldn't fetch spreadsheet.")
	return fmt.Errorf("load sheet %q: %w", s.name, lastErr)
}

// Save flushes every dirty cell as one batched remote write, then commits the
// cells locally. With no dirty cells it is a no-op success. A failed remote
// call leaves all dirty flags intact.
func (s *Sheet) Save(ctx context.Context) error {
	var writes []ValueWrite
	var dirty []*Cell
	for _, row := range s.rows {
		for _, cell := range row.cells {
			if !cell.WasChanged() {
				continue
			}
			writes = append(writes, ValueWrite{
				Range:  fmt.Sprintf("'%s'!%s", s.name, cell.Address()),
				Values: [][]string{{cell.Value()}},
			})
			dirty = append(dirty, cell)
		}
	}

	if len(writes) == 0 {
		s.logf(uilog.Good, "Sheet %q: no changes to save", s.name)
		return nil
	}

	if err := s.transport.BatchUpdate(ctx, s.spreadsheetID, writes); err != nil {
		s.logf(uilog.Error, "Couldn't write to sheet %q: %v", s.name, err)
		return fmt.Errorf("save sheet %q: %w", s.name, err)
	}
	for _, cell := range dirty {
		cell.Commit()
	}
	s.logf(uilog.Good, "Sheet %q: saved changes in %d cells", s.name, len(writes))
	return nil
}

// Rename changes the table's name, remotely then locally. It fails wrapping
// ErrNameExists when another table in the spreadsheet already has the target
// name.
func (s *Sheet) Rename(ctx context.Context, newName string) error {
	tables, err := s.transport.Metadata(ctx, s.spreadsheetID)
	if err != nil {
		s.logf(uilog.Error, "%s: failed to rename sheet to %q: %v", s, newName, err)
		return fmt.Errorf("rename sheet %q: %w", s.name, err)
	}
	for _, t := range tables {
		if t.Name == newName {
			return fmt.Errorf("rename sheet %q to %q: %w", s.name, newName, ErrNameExists)
		}
	}

	id, err := s.TableID(ctx)
	if err != nil {
		return fmt.Errorf("rename sheet %q: %w", s.name, err)
	}
	if err := s.transport.RenameTable(ctx, s.spreadsheetID, id, newName); err != nil {
		s.logf(uilog.Error, "%s: failed to rename sheet to %q: %v", s, newName, err)
		return fmt.Errorf("rename sheet %q: %w", s.name, err)
	}
	s.name = newName
	return nil
}

// Duplicate copies this table into the target spreadsheet (which may be the
// same spreadsheet) and returns a new unloaded Sheet for the copy, with its
// table id already resolved.
func (s *Sheet) Duplicate(ctx context.Context, targetSpreadsheetID string) (*Sheet, error) {
	id, err := s.TableID(ctx)
	if err != nil {
		return nil, fmt.Errorf("duplicate sheet %q: %w", s.name, err)
	}
	info, err := s.transport.CopyTable(ctx, s.spreadsheetID, id, targetSpreadsheetID)
	if err != nil {
		s.logf(uilog.Error, "%s: failed to duplicate sheet to %q: %v", s, targetSpreadsheetID, err)
		return nil, fmt.Errorf("duplicate sheet %q: %w", s.name, err)
	}

	dup := New(s.transport, targetSpreadsheetID, info.Name)
	dup.log = s.log
	dup.tableID = info.ID
	dup.hasTableID = true
	return dup, nil
}

// TableID resolves the table's numeric id by name via a one-time metadata
// query and caches it. Some operations (Duplicate) pre-resolve the id, in
// which case no query is made.
func (s *Sheet) TableID(ctx context.Context) (int64, error) {
	if s.hasTableID {
		return s.tableID, nil
	}
	tables, err := s.transport.Metadata(ctx, s.spreadsheetID)
	if err != nil {
		s.logf(uilog.Error, "%s: failed to get table-id: %v", s, err)
		return 0, fmt.Errorf("get table id for %q: %w", s.name, err)
	}
	for _, t := range tables {
		if t.Name == s.name {
			s.tableID = t.ID
			s.hasTableID = true
			return s.tableID, nil
		}
	}
	return 0, fmt.Errorf("get table id for %q: %w", s.name, ErrTableNotFound)
}

// SetHeaderRow designates the row at the given absolute index as the header
// used for keyed cell access, invalidating the cached key map. Rows handed out
// before the change are not revalidated.
func (s *Sheet) SetHeaderRow(index int) {
	if index < 0 || index >= len(s.rows) {
		return
	}
	s.header = s.rows[index]
	s.headerKeys = nil
}

// Header returns the current header row.
func (s *Sheet) Header() *Row { return s.header }

// headerIndexes returns the lazily built header value → column index map.
func (s *Sheet) headerIndexes() map[string]int {
	if s.headerKeys == nil {
		s.headerKeys = make(map[string]int, len(s.header.cells))
		for i, cell := range s.header.cells {
			s.headerKeys[cell.Value()] = i
		}
	}
	return s.headerKeys
}

// Rows returns all data rows, i.e. the rows after the header.
func (s *Sheet) Rows() []*Row {
	start := s.header.index + 1
	if start > len(s.rows) {
		return nil
	}
	return s.rows[start:]
}

// Row returns the data row at the given index relative to the header, or nil
// when the index is out of bounds.
func (s *Sheet) Row(index int) *Row {
	actual := s.header.index + index + 1
	if actual < 0 || actual >= len(s.rows) {
		return nil
	}
	return s.rows[actual]
}

// Size returns the number of data rows after the header.
func (s *Sheet) Size() int {
	return len(s.Rows())
}

// AddRow appends a new empty row at the end of the sheet.
func (s *Sheet) AddRow() *Row {
	row := newRow(s, len(s.rows), nil)
	s.rows = append(s.rows, row)
	return row
}

// CellAt returns the cell at the given A1-notation address. Addresses index
// absolute rows, header included.
func (s *Sheet) CellAt(addr string) (*Cell, error) {
	row, col, err := ParseAddress(addr)
	if err != nil {
		return nil, err
	}
	if row >= len(s.rows) {
		return nil, fmt.Errorf("address %q: row out of range", addr)
	}
	return s.rows[row].Cell(col), nil
}

func (s *Sheet) logf(kind uilog.Kind, format string, args ...any) {
	if s.log != nil {
		s.log.Logf(kind, format, args...)
	}
}

// String identifies the sheet by its table name.
func (s *Sheet) String() string {
	return fmt.Sprintf("Sheet[%s]", s.name)
}
