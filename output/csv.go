package output

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"github.com/vegasq/arffconv/table"
)

// CSVEncoder writes the table as comma-separated text: a header row of
// attribute names in declared order, then one line per data row.
// Missing values become empty fields; fields containing commas, quotes
// or newlines are quoted with embedded quotes doubled.
type CSVEncoder struct {
	opts Options
}

// Encode writes the table to dest via a staged temp file.
func (e *CSVEncoder) Encode(tbl *table.Table, dest string) error {
	return writeFileAtomic(FormatCSV, dest, func(w io.Writer) error {
		return e.EncodeTo(w, tbl)
	})
}

// EncodeTo writes CSV to an arbitrary writer.
func (e *CSVEncoder) EncodeTo(w io.Writer, tbl *table.Table) error {
	cw := csv.NewWriter(w)

	header := make([]string, len(tbl.Columns))
	for i, col := range tbl.Columns {
		header[i] = col.Name
	}
	if err := cw.Write(header); err != nil {
		return err
	}

	record := make([]string, len(tbl.Columns))
	for _, row := range tbl.Rows {
		for i, cell := range row {
			record[i] = cellString(cell)
		}
		if err := cw.Write(record); err != nil {
			return err
		}
	}

	cw.Flush()
	return cw.Error()
}

// cellString renders a table cell as text. Missing cells render empty;
// numerics use the shortest representation that round-trips.
func cellString(v interface{}) string {
	switch val := v.(type) {
	case nil:
		return ""
	case float64:
		return strconv.FormatFloat(val, 'g', -1, 64)
	case string:
		return val
	default:
		return fmt.Sprintf("%v", val)
	}
}
