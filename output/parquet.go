package output

import (
	"os"

	"github.com/parquet-go/parquet-go"

	"github.com/vegasq/arffconv/arff"
	"github.com/vegasq/arffconv/table"
)

// defaultRowGroupRows bounds row group size when no chunk size is
// configured.
const defaultRowGroupRows = 50000

// ParquetEncoder writes the table as a Parquet file. The schema is
// derived from the column kinds: numeric columns become optional
// doubles, nominal columns dictionary-encoded enum strings, string and
// date columns UTF8 strings. Missing values use Parquet's native null
// definition levels, never a sentinel. Fast mode selects snappy
// compression over gzip.
type ParquetEncoder struct {
	opts Options
}

// Encode writes the table to dest via a staged temp file.
func (e *ParquetEncoder) Encode(tbl *table.Table, dest string) error {
	schema := parquetSchema(tbl)

	chunk := e.opts.ChunkSize
	if chunk <= 0 {
		chunk = defaultRowGroupRows
	}

	compression := parquet.Compression(&parquet.Gzip)
	if e.opts.FastMode {
		compression = parquet.Compression(&parquet.Snappy)
	}

	tmp := tempPath(dest)
	file, err := os.Create(tmp)
	if err != nil {
		return &EncodeError{Format: FormatParquet, Err: err}
	}
	cleanup := func() {
		_ = file.Close()
		_ = os.Remove(tmp)
	}

	w := parquet.NewGenericWriter[map[string]interface{}](file, schema, compression)

	// Row groups are closed explicitly after each full batch, so the
	// chunk size bounds rows per row group.
	batch := make([]map[string]interface{}, 0, chunk)
	flush := func() error {
		if len(batch) == 0 {
			return nil
		}
		if _, err := w.Write(batch); err != nil {
			return err
		}
		batch = batch[:0]
		return w.Flush()
	}

	for _, row := range tbl.Rows {
		m := make(map[string]interface{}, len(row))
		for i, cell := range row {
			// Absent keys become nulls for the optional fields.
			if cell != nil {
				m[tbl.Columns[i].Name] = cell
			}
		}
		batch = append(batch, m)
		if len(batch) >= chunk {
			if err := flush(); err != nil {
				cleanup()
				return encodeErrorf(FormatParquet, "writing rows: %w", err)
			}
		}
	}
	if err := flush(); err != nil {
		cleanup()
		return encodeErrorf(FormatParquet, "writing rows: %w", err)
	}

	if err := w.Close(); err != nil {
		cleanup()
		return encodeErrorf(FormatParquet, "closing writer: %w", err)
	}
	if err := file.Close(); err != nil {
		_ = os.Remove(tmp)
		return &EncodeError{Format: FormatParquet, Err: err}
	}
	return commitFile(FormatParquet, tmp, dest)
}

// parquetSchema builds the file schema from the table columns, in
// declared column order. All fields are optional so missing cells map
// onto the format's validity mechanism.
func parquetSchema(tbl *table.Table) *parquet.Schema {
	group := parquet.Group{}
	for _, col := range tbl.Columns {
		var node parquet.Node
		switch col.Kind {
		case arff.Numeric:
			node = parquet.Leaf(parquet.DoubleType)
		case arff.Nominal:
			node = parquet.Encoded(parquet.Enum(), &parquet.RLEDictionary)
		default:
			node = parquet.String()
		}
		group[col.Name] = parquet.Optional(node)
	}

	name := tbl.Name
	if name == "" {
		name = "relation"
	}
	return parquet.NewSchema(name, orderedFields(group, tbl.Columns))
}

// orderedNode wraps a group node so Fields() reports the declared
// column order. parquet.Group is a map and would sort fields by name.
type orderedNode struct {
	parquet.Node
	fields []parquet.Field
}

func (n *orderedNode) Fields() []parquet.Field { return n.fields }

func orderedFields(group parquet.Group, cols []table.Column) parquet.Node {
	byName := make(map[string]parquet.Field, len(cols))
	for _, f := range group.Fields() {
		byName[f.Name()] = f
	}
	fields := make([]parquet.Field, len(cols))
	for i, col := range cols {
		fields[i] = byName[col.Name]
	}
	return &orderedNode{Node: group, fields: fields}
}
