package table

import (
	"fmt"
	"strings"

	"github.com/xuri/excelize/v2"
)

// metadataSheets are skipped when picking the data sheet of a workbook.
var metadataSheets = map[string]bool{
	"info":     true,
	"metadata": true,
	"about":    true,
	"readme":   true,
	"notes":    true,
}

// LoadXLSX reads the first non-metadata sheet of a workbook that has a header row.
// Rows shorter than the header are padded (excelize trims trailing empty cells).
func LoadXLSX(path string) (*Loaded, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("open xlsx: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("%w: workbook has no sheets", ErrEmpty)
	}
	ld := &Loaded{Strategy: StrategyXLSX}
	for _, sheet := range sheets {
		if metadataSheets[strings.ToLower(sheet)] {
			continue
		}
		rows, err := f.GetRows(sheet)
		if err != nil {
			return nil, fmt.Errorf("read sheet %q: %w", sheet, err)
		}
		if len(rows) == 0 || len(rows[0]) == 0 {
			ld.Warnings = append(ld.Warnings, fmt.Sprintf("sheet %q is empty, skipped", sheet))
			continue
		}
		ld.Table = New(rows[0], rows[1:])
		if len(sheets) > 1 {
			ld.Warnings = append(ld.Warnings, fmt.Sprintf("workbook has %d sheets; using %q", len(sheets), sheet))
		}
		return ld, nil
	}
	return nil, ErrEmpty
}

// HeaderXLSX returns the header row of the sheet LoadXLSX would pick.
func HeaderXLSX(path string) ([]string, error) {
	ld, err := LoadXLSX(path)
	if err != nil {
		return nil, err
	}
	return ld.Table.Columns, nil
}
