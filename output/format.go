// Package output provides encoders that serialize a coerced table into
// the supported target formats.
//
// Supported formats: CSV, JSON, XML, XLSX, ORC and Parquet. Each encoder
// is a pure consumer of a table.Table: it never mutates the table and
// never consults global state, so encoding the same table twice produces
// equivalent files.
//
// Example usage:
//
//	enc := output.NewEncoder(output.FormatCSV, output.Options{})
//	if err := enc.Encode(tbl, "out/data.csv"); err != nil {
//	    log.Fatal(err)
//	}
package output

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/google/uuid"

	"github.com/vegasq/arffconv/table"
)

// Format identifies a target serialization format. The set is closed:
// encoder dispatch is an exhaustive switch, not a name lookup.
type Format int

const (
	FormatCSV Format = iota
	FormatJSON
	FormatXML
	FormatXLSX
	FormatORC
	FormatParquet
)

var formatNames = map[Format]string{
	FormatCSV:     "csv",
	FormatJSON:    "json",
	FormatXML:     "xml",
	FormatXLSX:    "xlsx",
	FormatORC:     "orc",
	FormatParquet: "parquet",
}

// ParseFormat maps a format name (case-sensitive, lowercase) to its
// Format. Unknown names return an error listing the supported set.
func ParseFormat(s string) (Format, error) {
	for f, name := range formatNames {
		if name == s {
			return f, nil
		}
	}
	return 0, fmt.Errorf("unsupported format %q (supported: csv, json, xml, xlsx, orc, parquet)", s)
}

// String returns the lowercase format name.
func (f Format) String() string {
	if name, ok := formatNames[f]; ok {
		return name
	}
	return fmt.Sprintf("Format(%d)", int(f))
}

// Ext returns the file extension for the format, without the dot.
func (f Format) Ext() string { return f.String() }

// Valid reports whether f is one of the supported formats.
func (f Format) Valid() bool {
	_, ok := formatNames[f]
	return ok
}

// Options tunes encoder behavior. None of the options change the data
// content of the output, only its physical layout.
type Options struct {
	// FastMode selects faster compression codecs for the columnar
	// formats (snappy instead of gzip for parquet).
	FastMode bool

	// ChunkSize is an advisory batching hint: rows per parquet row
	// group and per write batch. Zero means a format-specific default.
	ChunkSize int

	// SheetRowLimit caps data rows per XLSX sheet; when exceeded the
	// remainder spills into numbered continuation sheets. Zero means
	// the Excel per-sheet maximum.
	SheetRowLimit int
}

// Encoder serializes a table to a destination path.
type Encoder interface {
	Encode(tbl *table.Table, dest string) error
}

// NewEncoder returns the encoder for f. The switch is exhaustive over
// the Format constants.
func NewEncoder(f Format, opts Options) Encoder {
	switch f {
	case FormatCSV:
		return &CSVEncoder{opts: opts}
	case FormatJSON:
		return &JSONEncoder{opts: opts}
	case FormatXML:
		return &XMLEncoder{opts: opts}
	case FormatXLSX:
		return &XLSXEncoder{opts: opts}
	case FormatORC:
		return &ORCEncoder{opts: opts}
	case FormatParquet:
		return &ParquetEncoder{opts: opts}
	default:
		panic(fmt.Sprintf("output: no encoder for %v", f))
	}
}

// EncodeError wraps a failure from an underlying format library or the
// filesystem during encoding.
type EncodeError struct {
	Format Format
	Err    error
}

func (e *EncodeError) Error() string {
	return fmt.Sprintf("output: encoding %s: %v", e.Format, e.Err)
}

func (e *EncodeError) Unwrap() error { return e.Err }

func encodeErrorf(f Format, format string, args ...interface{}) *EncodeError {
	return &EncodeError{Format: f, Err: fmt.Errorf(format, args...)}
}

// tempPath returns a unique sibling path of dest for staged writes.
func tempPath(dest string) string {
	name := fmt.Sprintf(".%s.%s.tmp", filepath.Base(dest), uuid.NewString())
	return filepath.Join(filepath.Dir(dest), name)
}

// writeFileAtomic runs write against a temp file in dest's directory
// and renames it over dest on success. On failure the temp file is
// removed so no partial output is left behind.
func writeFileAtomic(f Format, dest string, write func(w io.Writer) error) error {
	tmp := tempPath(dest)
	file, err := os.Create(tmp)
	if err != nil {
		return &EncodeError{Format: f, Err: err}
	}

	if err := write(file); err != nil {
		_ = file.Close()
		_ = os.Remove(tmp)
		if _, ok := err.(*EncodeError); ok {
			return err
		}
		return &EncodeError{Format: f, Err: err}
	}
	if err := file.Close(); err != nil {
		_ = os.Remove(tmp)
		return &EncodeError{Format: f, Err: err}
	}

	if err := os.Rename(tmp, dest); err != nil {
		_ = os.Remove(tmp)
		return &EncodeError{Format: f, Err: err}
	}
	return nil
}

// commitFile renames a staged file over dest, cleaning up on failure.
// Used by encoders whose libraries write whole files by path.
func commitFile(f Format, tmp, dest string) error {
	if err := os.Rename(tmp, dest); err != nil {
		_ = os.Remove(tmp)
		return &EncodeError{Format: f, Err: err}
	}
	return nil
}
