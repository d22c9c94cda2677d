package dataset

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"
)

// loadXLSX reads one worksheet. If sheetName is empty and sheetIndex <= 0, the
// first sheet is used. sheetIndex is 1-based (Sheet1 == 1).
func loadXLSX(path, sheetName string, sheetIndex int) (*Table, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, &LoadError{Path: path, Op: "open xlsx", Err: err}
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, &LoadError{Path: path, Op: "open xlsx", Err: fmt.Errorf("workbook has no sheets")}
	}
	target := ""
	if sheetName != "" {
		for _, s := range sheets {
			if strings.EqualFold(s, sheetName) {
				target = s
				break
			}
		}
		if target == "" {
			return nil, &LoadError{Path: path, Op: "select sheet", Err: fmt.Errorf("sheet '%s' not found in workbook '%s'; available sheets: %s",
				sheetName, filepath.Base(path), strings.Join(sheets, ", "))}
		}
	} else {
		idx := sheetIndex
		if idx <= 0 {
			idx = 1
		}
		if idx > len(sheets) {
			return nil, &LoadError{Path: path, Op: "select sheet", Err: fmt.Errorf("sheet index %d out of range (workbook has %d sheets)", idx, len(sheets))}
		}
		target = sheets[idx-1]
	}

	rows, err := f.GetRows(target, excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, &LoadError{Path: path, Op: "read sheet " + target, Err: err}
	}
	if len(rows) == 0 || len(rows[0]) == 0 {
		return nil, &LoadError{Path: path, Op: "read header", Err: ErrNoHeader}
	}
	t := &Table{Name: filepath.Base(path), Sheet: target, Header: rows[0]}
	ncol := len(t.Header)
	for _, row := range rows[1:] {
		// GetRows trims trailing empty cells, so blank spacer rows come back empty.
		if len(row) == 0 {
			continue
		}
		t.Rows = append(t.Rows, padRow(row, ncol))
	}
	return t, nil
}
