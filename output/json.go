package output

import (
	"bufio"
	"encoding/json"
	"io"

	"github.com/vegasq/arffconv/table"
)

// JSONEncoder writes the table as a single JSON array with one object
// per row. Object keys are the attribute names in declared order, which
// is why rows are assembled field by field rather than marshaled as Go
// maps. Missing values become null; numerics are emitted as JSON
// numbers, not strings.
type JSONEncoder struct {
	opts Options
}

// Encode writes the table to dest via a staged temp file.
func (e *JSONEncoder) Encode(tbl *table.Table, dest string) error {
	return writeFileAtomic(FormatJSON, dest, func(w io.Writer) error {
		return e.EncodeTo(w, tbl)
	})
}

// EncodeTo writes the JSON array to an arbitrary writer.
func (e *JSONEncoder) EncodeTo(w io.Writer, tbl *table.Table) error {
	bw := bufio.NewWriter(w)

	keys := make([][]byte, len(tbl.Columns))
	for i, col := range tbl.Columns {
		k, err := json.Marshal(col.Name)
		if err != nil {
			return err
		}
		keys[i] = k
	}

	if err := bw.WriteByte('['); err != nil {
		return err
	}
	for r, row := range tbl.Rows {
		if r > 0 {
			bw.WriteByte(',')
		}
		bw.WriteByte('{')
		for i, cell := range row {
			if i > 0 {
				bw.WriteByte(',')
			}
			bw.Write(keys[i])
			bw.WriteByte(':')
			v, err := json.Marshal(cell)
			if err != nil {
				return err
			}
			bw.Write(v)
		}
		bw.WriteByte('}')
	}
	if err := bw.WriteByte(']'); err != nil {
		return err
	}
	return bw.Flush()
}
