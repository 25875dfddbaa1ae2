package output

import (
	"os"
	"strings"

	"github.com/scritchley/orc"

	"github.com/vegasq/arffconv/arff"
	"github.com/vegasq/arffconv/table"
)

// ORCEncoder writes the table as an ORC file. The struct schema is
// derived from the column kinds (numeric -> double, everything else ->
// string) in declared column order; missing values are written as ORC
// nulls. Compression is the library default.
type ORCEncoder struct {
	opts Options
}

// Encode writes the table to dest via a staged temp file.
func (e *ORCEncoder) Encode(tbl *table.Table, dest string) error {
	schema, err := orc.ParseSchema(orcSchema(tbl))
	if err != nil {
		return encodeErrorf(FormatORC, "building schema: %w", err)
	}

	tmp := tempPath(dest)
	file, err := os.Create(tmp)
	if err != nil {
		return &EncodeError{Format: FormatORC, Err: err}
	}
	cleanup := func() {
		_ = file.Close()
		_ = os.Remove(tmp)
	}

	w, err := orc.NewWriter(file, orc.SetSchema(schema))
	if err != nil {
		cleanup()
		return encodeErrorf(FormatORC, "creating writer: %w", err)
	}

	vals := make([]interface{}, len(tbl.Columns))
	for r, row := range tbl.Rows {
		copy(vals, row)
		if err := w.Write(vals...); err != nil {
			cleanup()
			return encodeErrorf(FormatORC, "writing row %d: %w", r, err)
		}
	}

	if err := w.Close(); err != nil {
		cleanup()
		return encodeErrorf(FormatORC, "closing writer: %w", err)
	}
	if err := file.Close(); err != nil {
		_ = os.Remove(tmp)
		return &EncodeError{Format: FormatORC, Err: err}
	}
	return commitFile(FormatORC, tmp, dest)
}

// orcSchema renders the struct type description, such as
// struct<a:double,b:string>.
func orcSchema(tbl *table.Table) string {
	parts := make([]string, len(tbl.Columns))
	for i, col := range tbl.Columns {
		typ := "string"
		if col.Kind == arff.Numeric {
			typ = "double"
		}
		parts[i] = col.Name + ":" + typ
	}
	return "struct<" + strings.Join(parts, ",") + ">"
}
