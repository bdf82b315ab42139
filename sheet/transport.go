package sheet

import (
	"context"
	"errors"
	"net"
)

// Sentinel errors for the failure classes callers are expected to handle.
var (
	// ErrTimeout marks a transport round-trip that timed out. Sheet.Load
	// retries these a bounded number of times; everything else fails fast.
	ErrTimeout = errors.New("request timed out")

	// ErrUnknownColumn marks a keyed cell lookup whose key is not a header
	// value.
	ErrUnknownColumn = errors.New("unknown column key")

	// ErrNameExists marks a rename whose target name is already taken in the
	// spreadsheet.
	ErrNameExists = errors.New("sheet name already in use")

	// ErrTableNotFound marks a metadata lookup that found no table with the
	// sheet's name.
	ErrTableNotFound = errors.New("table not found")
)

// ValueWrite is a single staged cell write: an A1-notation range (including the
// table name) and the rows of values to put there. Sheet.Save stages one write
// per dirty cell, so Values is a 1x1 grid in practice.
type ValueWrite struct {
	Range  string     `json:"range"`
	Values [][]string `json:"values"`
}

// TableInfo describes one table (tab) of a spreadsheet as reported by the
// transport's metadata query.
type TableInfo struct {
	ID    int64  `json:"sheetId"`
	Name  string `json:"title"`
	Index int    `json:"index"`
}

// Transport abstracts the remote spreadsheet API the Sheet type is built on.
// Implementations must report timeouts wrapping ErrTimeout so Load can
// distinguish them from non-retryable remote errors.
type Transport interface {
	// BatchGet fetches all rows of cells in the given A1 range.
	BatchGet(ctx context.Context, spreadsheetID, rng string) ([][]string, error)

	// BatchUpdate applies all staged writes in a single remote call.
	BatchUpdate(ctx context.Context, spreadsheetID string, writes []ValueWrite) error

	// Metadata lists the spreadsheet's tables with their names and numeric ids.
	Metadata(ctx context.Context, spreadsheetID string) ([]TableInfo, error)

	// CopyTable copies a table into the destination spreadsheet (which may be
	// the source spreadsheet) and returns the new table's metadata.
	CopyTable(ctx context.Context, srcSpreadsheetID string, tableID int64, dstSpreadsheetID string) (TableInfo, error)

	// RenameTable updates a table's name.
	RenameTable(ctx context.Context, spreadsheetID string, tableID int64, newName string) error
}

// isTimeout reports whether err belongs to the retryable timeout class:
// ErrTimeout as reported by a transport, a context deadline, or a net.Error
// that timed out.
func isTimeout(err error) bool {
	if errors.Is(err, ErrTimeout) || errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var ne net.Error
	return errors.As(err, &ne) && ne.Timeout()
}
