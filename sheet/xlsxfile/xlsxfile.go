// Package xlsxfile implements sheet.Transport over local .xlsx files, so the
// same Sheet code can edit workbooks offline. The spreadsheet ID is the file
// path; table names are worksheet names and table IDs are worksheet indexes.
package xlsxfile

import (
	"context"
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/gridkit/gridkit/sheet"
)

// Transport reads and writes .xlsx workbooks through excelize.
type Transport struct{}

var _ sheet.Transport = (*Transport)(nil)

// New creates a file transport.
func New() *Transport { return &Transport{} }

// open loads the workbook at path, which doubles as the spreadsheet ID.
func open(path string) (*excelize.File, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("open workbook %s: %w", path, err)
	}
	return f, nil
}

func (t *Transport) BatchGet(ctx context.Context, spreadsheetID, rng string) ([][]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	f, err := open(spreadsheetID)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	name, _ := splitRange(rng)
	if name == "" {
		name = f.GetSheetList()[0]
	}
	rows, err := f.GetRows(name)
	if err != nil {
		return nil, fmt.Errorf("read rows of %s: %w", name, err)
	}
	return rows, nil
}

func (t *Transport) BatchUpdate(ctx context.Context, spreadsheetID string, writes []sheet.ValueWrite) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	f, err := open(spreadsheetID)
	if err != nil {
		return err
	}
	defer f.Close()

	for _, w := range writes {
		name, addr := splitRange(w.Range)
		row, col, err := sheet.ParseAddress(addr)
		if err != nil {
			return fmt.Errorf("write range %q: %w", w.Range, err)
		}
		for i, line := range w.Values {
			for j, value := range line {
				cell := sheet.FormatAddress(row+i, col+j)
				if err := f.SetCellStr(name, cell, value); err != nil {
					return fmt.Errorf("set %s!%s: %w", name, cell, err)
				}
			}
		}
	}
	if err := f.Save(); err != nil {
		return fmt.Errorf("save workbook: %w", err)
	}
	return nil
}

func (t *Transport) Metadata(ctx context.Context, spreadsheetID string) ([]sheet.TableInfo, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	f, err := open(spreadsheetID)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var infos []sheet.TableInfo
	for i, name := range f.GetSheetList() {
		infos = append(infos, sheet.TableInfo{ID: int64(i), Name: name, Index: i})
	}
	return infos, nil
}

func (t *Transport) CopyTable(ctx context.Context, srcSpreadsheetID string, tableID int64, dstSpreadsheetID string) (sheet.TableInfo, error) {
	if err := ctx.Err(); err != nil {
		return sheet.TableInfo{}, err
	}
	if srcSpreadsheetID != dstSpreadsheetID {
		return t.copyAcross(srcSpreadsheetID, tableID, dstSpreadsheetID)
	}

	f, err := open(srcSpreadsheetID)
	if err != nil {
		return sheet.TableInfo{}, err
	}
	defer f.Close()

	srcName := f.GetSheetName(int(tableID))
	if srcName == "" {
		return sheet.TableInfo{}, fmt.Errorf("table %d: %w", tableID, sheet.ErrTableNotFound)
	}
	dupName := copyName(f, srcName)
	dstIdx, err := f.NewSheet(dupName)
	if err != nil {
		return sheet.TableInfo{}, fmt.Errorf("create sheet %s: %w", dupName, err)
	}
	if err := f.CopySheet(int(tableID), dstIdx); err != nil {
		return sheet.TableInfo{}, fmt.Errorf("copy sheet %s: %w", srcName, err)
	}
	if err := f.Save(); err != nil {
		return sheet.TableInfo{}, fmt.Errorf("save workbook: %w", err)
	}
	return sheet.TableInfo{ID: int64(dstIdx), Name: dupName, Index: dstIdx}, nil
}

// copyAcross clones a worksheet into another workbook cell by cell. excelize
// only copies sheets within one file, so cross-file copies go through values.
func (t *Transport) copyAcross(srcPath string, tableID int64, dstPath string) (sheet.TableInfo, error) {
	src, err := open(srcPath)
	if err != nil {
		return sheet.TableInfo{}, err
	}
	defer src.Close()
	dst, err := open(dstPath)
	if err != nil {
		return sheet.TableInfo{}, err
	}
	defer dst.Close()

	srcName := src.GetSheetName(int(tableID))
	if srcName == "" {
		return sheet.TableInfo{}, fmt.Errorf("table %d: %w", tableID, sheet.ErrTableNotFound)
	}
	rows, err := src.GetRows(srcName)
	if err != nil {
		return sheet.TableInfo{}, fmt.Errorf("read rows of %s: %w", srcName, err)
	}

	dupName := copyName(dst, srcName)
	dstIdx, err := dst.NewSheet(dupName)
	if err != nil {
		return sheet.TableInfo{}, fmt.Errorf("create sheet %s: %w", dupName, err)
	}
	for i, row := range rows {
		for j, value := range row {
			if value == "" {
				continue
			}
			cell := sheet.FormatAddress(i, j)
			if err := dst.SetCellStr(dupName, cell, value); err != nil {
				return sheet.TableInfo{}, fmt.Errorf("set %s!%s: %w", dupName, cell, err)
			}
		}
	}
	if err := dst.Save(); err != nil {
		return sheet.TableInfo{}, fmt.Errorf("save workbook: %w", err)
	}
	return sheet.TableInfo{ID: int64(dstIdx), Name: dupName, Index: dstIdx}, nil
}

func (t *Transport) RenameTable(ctx context.Context, spreadsheetID string, tableID int64, newName string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	f, err := open(spreadsheetID)
	if err != nil {
		return err
	}
	defer f.Close()

	oldName := f.GetSheetName(int(tableID))
	if oldName == "" {
		return fmt.Errorf("table %d: %w", tableID, sheet.ErrTableNotFound)
	}
	if sheetExists(f, newName) {
		return fmt.Errorf("rename to %q: %w", newName, sheet.ErrNameExists)
	}
	if err := f.SetSheetName(oldName, newName); err != nil {
		return fmt.Errorf("rename sheet %s: %w", oldName, err)
	}
	if err := f.Save(); err != nil {
		return fmt.Errorf("save workbook: %w", err)
	}
	return nil
}

func sheetExists(f *excelize.File, name string) bool {
	idx, err := f.GetSheetIndex(name)
	return err == nil && idx >= 0
}

// copyName picks "name (Copy)", "name (Copy 2)", ... whichever is free.
func copyName(f *excelize.File, name string) string {
	candidate := name + " (Copy)"
	for n := 2; sheetExists(f, candidate); n++ {
		candidate = fmt.Sprintf("%s (Copy %d)", name, n)
	}
	return candidate
}

// splitRange separates an A1 range like "'Data'!B2" into table name and
// address. A missing table part returns an empty name.
func splitRange(rng string) (name, addr string) {
	for i := len(rng) - 1; i >= 0; i-- {
		if rng[i] == '!' {
			name, addr = rng[:i], rng[i+1:]
			if len(name) >= 2 && name[0] == '\'' && name[len(name)-1] == '\'' {
				name = name[1 : len(name)-1]
			}
			return name, addr
		}
	}
	return "", rng
}
