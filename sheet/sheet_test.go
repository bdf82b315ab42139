package sheet

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeTransport is an in-memory Transport with per-call failure injection.
type fakeTransport struct {
	values [][]string
	tables []TableInfo

	getErrs  []error // consumed one per BatchGet call
	saveErr  error
	metaErr  error
	copyInfo TableInfo
	copyErr  error

	getCalls    int
	updateCalls int
	updates     [][]ValueWrite
	renames     []string
}

func (f *fakeTransport) BatchGet(ctx context.Context, spreadsheetID, rng string) ([][]string, error) {
	f.getCalls++
	if len(f.getErrs) > 0 {
		err := f.getErrs[0]
		f.getErrs = f.getErrs[1:]
		if err != nil {
			return nil, err
		}
	}
	return f.values, nil
}

func (f *fakeTransport) BatchUpdate(ctx context.Context, spreadsheetID string, writes []ValueWrite) error {
	f.updateCalls++
	if f.saveErr != nil {
		return f.saveErr
	}
	f.updates = append(f.updates, writes)
	return nil
}

func (f *fakeTransport) Metadata(ctx context.Context, spreadsheetID string) ([]TableInfo, error) {
	if f.metaErr != nil {
		return nil, f.metaErr
	}
	return f.tables, nil
}

func (f *fakeTransport) CopyTable(ctx context.Context, srcSpreadsheetID string, tableID int64, dstSpreadsheetID string) (TableInfo, error) {
	if f.copyErr != nil {
		return TableInfo{}, f.copyErr
	}
	return f.copyInfo, nil
}

func (f *fakeTransport) RenameTable(ctx context.Context, spreadsheetID string, tableID int64, newName string) error {
	f.renames = append(f.renames, newName)
	return nil
}

func loadedSheet(t *testing.T, tr *fakeTransport) *Sheet {
	t.Helper()
	s := New(tr, "spreadsheet-id", "Data")
	require.NoError(t, s.Load(context.Background()))
	return s
}

func peopleTransport() *fakeTransport {
	return &fakeTransport{
		values: [][]string{
			{"Name", "Age"},
			{"Alice", "30"},
			{"Bob", "25"},
		},
		tables: []TableInfo{{ID: 77, Name: "Data", Index: 0}},
	}
}

func TestSheetLoad(t *testing.T) {
	s := loadedSheet(t, peopleTransport())

	assert.True(t, s.IsLoaded())
	assert.Equal(t, 2, s.Size())
	// Row 0 is the first row after the header.
	c, err := s.Row(0).CellByKey("Age")
	require.NoError(t, err)
	n, ok := c.AsInt()
	assert.True(t, ok)
	assert.Equal(t, 30, n)
}

func TestSheetLoadRetriesTimeouts(t *testing.T) {
	tr := peopleTransport()
	tr.getErrs = []error{
		fmt.Errorf("slow: %w", ErrTimeout),
		fmt.Errorf("slow: %w", ErrTimeout),
	}
	s := New(tr, "spreadsheet-id", "Data")

	require.NoError(t, s.Load(context.Background()))
	assert.Equal(t, 3, tr.getCalls)
	assert.Equal(t, 2, s.Size())
}

func TestSheetLoadGivesUpAfterRetries(t *testing.T) {
	tr := peopleTransport()
	for i := 0; i < 10; i++ {
		tr.getErrs = append(tr.getErrs, fmt.Errorf("slow: %w", ErrTimeout))
	}
	s := New(tr, "spreadsheet-id", "Data")

	err := s.Load(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrTimeout)
	assert.Equal(t, 4, tr.getCalls)
	assert.False(t, s.IsLoaded())
}

func TestSheetLoadFailsFastOnOtherErrors(t *testing.T) {
	tr := peopleTransport()
	tr.getErrs = []error{fmt.Errorf("permission denied")}
	s := New(tr, "spreadsheet-id", "Data")

	err := s.Load(context.Background())
	require.Error(t, err)
	assert.Equal(t, 1, tr.getCalls)
}

func TestSheetLoadIsReload(t *testing.T) {
	tr := peopleTransport()
	s := loadedSheet(t, tr)
	require.Equal(t, 2, s.Size())

	tr.values = [][]string{{"Name"}, {"Carol"}}
	require.NoError(t, s.Load(context.Background()))

	// A reload replaces the rows instead of appending.
	assert.Equal(t, 1, s.Size())
	assert.Equal(t, "Carol", s.Row(0).Cell(0).Value())
}

func TestSheetSaveOnlyDirtyCells(t *testing.T) {
	tr := peopleTransport()
	s := loadedSheet(t, tr)

	s.Row(0).Set(1, "31")
	s.Row(1).Set(0, "Robert")
	require.NoError(t, s.Save(context.Background()))

	require.Len(t, tr.updates, 1)
	writes := tr.updates[0]
	require.Len(t, writes, 2)
	assert.Equal(t, "'Data'!B2", writes[0].Range)
	assert.Equal(t, [][]string{{"31"}}, writes[0].Values)
	assert.Equal(t, "'Data'!A3", writes[1].Range)

	// A successful save commits: nothing left to write.
	require.NoError(t, s.Save(context.Background()))
	assert.Equal(t, 1, tr.updateCalls)
}

func TestSheetSaveNoChangesIsNoop(t *testing.T) {
	tr := peopleTransport()
	s := loadedSheet(t, tr)

	require.NoError(t, s.Save(context.Background()))
	assert.Equal(t, 0, tr.updateCalls)
}

func TestSheetSaveKeepsDirtyOnFailure(t *testing.T) {
	tr := peopleTransport()
	s := loadedSheet(t, tr)

	s.Row(0).Set(1, "31")
	tr.saveErr = fmt.Errorf("quota exceeded")
	require.Error(t, s.Save(context.Background()))
	assert.True(t, s.Row(0).Cell(1).WasChanged())

	tr.saveErr = nil
	require.NoError(t, s.Save(context.Background()))
	assert.False(t, s.Row(0).Cell(1).WasChanged())
}

func TestSheetRename(t *testing.T) {
	tr := peopleTransport()
	s := loadedSheet(t, tr)

	require.NoError(t, s.Rename(context.Background(), "Archive"))
	assert.Equal(t, []string{"Archive"}, tr.renames)
	assert.Equal(t, "Archive", s.Name())
}

func TestSheetRenameConflict(t *testing.T) {
	tr := peopleTransport()
	tr.tables = append(tr.tables, TableInfo{ID: 78, Name: "Archive", Index: 1})
	s := loadedSheet(t, tr)

	err := s.Rename(context.Background(), "Archive")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrNameExists)
	assert.Empty(t, tr.renames)
	assert.Equal(t, "Data", s.Name())
}

func TestSheetDuplicate(t *testing.T) {
	tr := peopleTransport()
	tr.copyInfo = TableInfo{ID: 99, Name: "Copy of Data", Index: 1}
	s := loadedSheet(t, tr)

	dup, err := s.Duplicate(context.Background(), "other-spreadsheet")
	require.NoError(t, err)
	assert.Equal(t, "Copy of Data", dup.Name())
	assert.Equal(t, "other-spreadsheet", dup.SpreadsheetID())
	assert.False(t, dup.IsLoaded())

	// The copy's table id comes from the copy response, not a metadata query.
	id, err := dup.TableID(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(99), id)
}

func TestSheetTableID(t *testing.T) {
	tr := peopleTransport()
	s := loadedSheet(t, tr)

	id, err := s.TableID(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(77), id)

	tr.tables = nil // cached, so this must not matter
	id, err = s.TableID(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(77), id)
}

func TestSheetTableIDNotFound(t *testing.T) {
	tr := peopleTransport()
	tr.tables = []TableInfo{{ID: 1, Name: "Other", Index: 0}}
	s := New(tr, "spreadsheet-id", "Data")

	_, err := s.TableID(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrTableNotFound)
}

func TestSheetHeaderOffset(t *testing.T) {
	s := testSheet(t, [][]string{
		{"ignore", "me"},
		{"Name", "Age"},
		{"Alice", "30"},
	})
	s.SetHeaderRow(1)

	assert.Equal(t, 1, s.Size())
	c, err := s.Row(0).CellByKey("Name")
	require.NoError(t, err)
	assert.Equal(t, "Alice", c.Value())
}

func TestSheetCellAt(t *testing.T) {
	s := testSheet(t, [][]string{
		{"Name", "Age"},
		{"Alice", "30"},
	})

	c, err := s.CellAt("B2")
	require.NoError(t, err)
	assert.Equal(t, "30", c.Value())

	_, err = s.CellAt("B9")
	assert.Error(t, err)
	_, err = s.CellAt("nope")
	assert.Error(t, err)
}

func TestSheetAddRow(t *testing.T) {
	s := testSheet(t, [][]string{
		{"Name", "Age"},
		{"Alice", "30"},
	})
	row := s.AddRow()
	row.Set(0, "Bob")

	assert.Equal(t, 2, s.Size())
	assert.True(t, row.Cell(0).WasChanged())
	assert.Equal(t, "A3", row.Cell(0).Address())
}
