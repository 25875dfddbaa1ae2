// Package table converts a parsed ARFF relation into the typed,
// encoder-ready form shared by all output formats.
//
// A Table cell is one of three runtime shapes: nil for a missing value,
// float64 for numeric columns, or string for nominal, string and date
// columns. Encoders consume Tables read-only; coercion is a pure
// function, so coercing the same Relation twice yields identical Tables.
package table

import (
	"fmt"
	"strconv"

	"github.com/vegasq/arffconv/arff"
)

// Column describes one table column. For nominal columns Values carries
// the declared value set as schema metadata, which columnar encoders use
// for dictionary/enum encodings.
type Column struct {
	Name       string
	Kind       arff.Kind
	Values     []string
	DateFormat string
}

// Table is the coerced in-memory representation of a relation. Rows are
// positionally aligned with Columns; a cell is nil, float64 or string.
type Table struct {
	Name    string
	Columns []Column
	Rows    [][]interface{}
}

// TypeError reports a cell that could not be coerced to its column's
// declared kind. Row is the 0-based data row index.
type TypeError struct {
	Attribute string
	Row       int
	Value     string
	Msg       string
}

func (e *TypeError) Error() string {
	return fmt.Sprintf("table: attribute %q, row %d: %s", e.Attribute, e.Row, e.Msg)
}

// Coerce converts rel into a Table. Numeric cells become float64,
// everything else stays a verbatim string; missing cells become nil.
// Date columns are deliberately not parsed into calendar values; the
// declared format travels on the Column for consumers that want to.
func Coerce(rel *arff.Relation) (*Table, error) {
	tbl := &Table{
		Name:    rel.Name,
		Columns: make([]Column, len(rel.Attributes)),
		Rows:    make([][]interface{}, len(rel.Rows)),
	}

	for i, attr := range rel.Attributes {
		col := Column{Name: attr.Name, Kind: attr.Kind, DateFormat: attr.DateFormat}
		if len(attr.Values) > 0 {
			col.Values = make([]string, len(attr.Values))
			copy(col.Values, attr.Values)
		}
		tbl.Columns[i] = col
	}

	for r, row := range rel.Rows {
		if len(row) != len(rel.Attributes) {
			return nil, &TypeError{
				Row: r,
				Msg: fmt.Sprintf("row has %d cells, expected %d", len(row), len(rel.Attributes)),
			}
		}

		cells := make([]interface{}, len(row))
		for c, cell := range row {
			v, err := coerceCell(cell, rel.Attributes[c], r)
			if err != nil {
				return nil, err
			}
			cells[c] = v
		}
		tbl.Rows[r] = cells
	}

	return tbl, nil
}

func coerceCell(cell arff.Cell, attr arff.Attribute, row int) (interface{}, error) {
	if cell.Missing {
		return nil, nil
	}

	switch attr.Kind {
	case arff.Numeric:
		f, err := strconv.ParseFloat(cell.Raw, 64)
		if err != nil {
			return nil, &TypeError{
				Attribute: attr.Name,
				Row:       row,
				Value:     cell.Raw,
				Msg:       fmt.Sprintf("cannot coerce %q to numeric", cell.Raw),
			}
		}
		return f, nil
	default:
		return cell.Raw, nil
	}
}
