package output

import (
	"fmt"
	"os"

	"github.com/xuri/excelize/v2"

	"github.com/vegasq/arffconv/table"
)

// excelMaxRows is the hard per-sheet row cap of the XLSX format,
// including the header row.
const excelMaxRows = 1048576

// XLSXEncoder writes the table as a spreadsheet: a "Data" sheet with a
// header row plus one row per record. When the configured per-sheet row
// limit is exceeded, the remainder spills into sequentially numbered
// sheets (Data2, Data3, ...), each with its own header row.
type XLSXEncoder struct {
	opts Options
}

// Encode writes the table to dest via a staged temp file.
func (e *XLSXEncoder) Encode(tbl *table.Table, dest string) error {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	limit := e.opts.SheetRowLimit
	if limit <= 0 || limit > excelMaxRows-1 {
		limit = excelMaxRows - 1
	}

	header := make([]interface{}, len(tbl.Columns))
	for i, col := range tbl.Columns {
		header[i] = col.Name
	}

	total := len(tbl.Rows)
	start := 0
	for sheet := 0; ; sheet++ {
		end := start + limit
		if end > total {
			end = total
		}

		name := "Data"
		if sheet > 0 {
			name = fmt.Sprintf("Data%d", sheet+1)
		}
		if sheet == 0 {
			if err := f.SetSheetName("Sheet1", name); err != nil {
				return encodeErrorf(FormatXLSX, "renaming sheet: %w", err)
			}
		} else {
			if _, err := f.NewSheet(name); err != nil {
				return encodeErrorf(FormatXLSX, "creating sheet %s: %w", name, err)
			}
		}

		if err := writeSheet(f, name, header, tbl.Rows[start:end]); err != nil {
			return err
		}

		start = end
		if start >= total {
			break
		}
	}

	tmp := tempPath(dest)
	if err := f.SaveAs(tmp); err != nil {
		_ = os.Remove(tmp)
		return &EncodeError{Format: FormatXLSX, Err: err}
	}
	return commitFile(FormatXLSX, tmp, dest)
}

func writeSheet(f *excelize.File, name string, header []interface{}, rows [][]interface{}) error {
	sw, err := f.NewStreamWriter(name)
	if err != nil {
		return encodeErrorf(FormatXLSX, "stream writer for %s: %w", name, err)
	}

	cell, err := excelize.CoordinatesToCellName(1, 1)
	if err != nil {
		return encodeErrorf(FormatXLSX, "cell name: %w", err)
	}
	if err := sw.SetRow(cell, header); err != nil {
		return encodeErrorf(FormatXLSX, "writing header: %w", err)
	}

	for r, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, r+2)
		if err != nil {
			return encodeErrorf(FormatXLSX, "cell name: %w", err)
		}
		// Cells are written as-is: nil stays an empty cell, float64 a
		// number, string text.
		vals := make([]interface{}, len(row))
		copy(vals, row)
		if err := sw.SetRow(cell, vals); err != nil {
			return encodeErrorf(FormatXLSX, "writing row %d: %w", r, err)
		}
	}

	if err := sw.Flush(); err != nil {
		return encodeErrorf(FormatXLSX, "flushing sheet %s: %w", name, err)
	}
	return nil
}
