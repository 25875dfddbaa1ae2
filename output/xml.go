package output

import (
	"bufio"
	"encoding/xml"
	"io"
	"strings"
	"unicode"

	"github.com/vegasq/arffconv/table"
)

// XMLEncoder writes the table as a <data> document with one <record>
// element per row and one child element per attribute, named after the
// attribute. Attribute names that are not valid XML element names (a
// quoted ARFF name may contain spaces) are sanitized with underscores.
// Text content escapes &, < and >; missing values render as empty
// elements.
type XMLEncoder struct {
	opts Options
}

// Encode writes the table to dest via a staged temp file.
func (e *XMLEncoder) Encode(tbl *table.Table, dest string) error {
	return writeFileAtomic(FormatXML, dest, func(w io.Writer) error {
		return e.EncodeTo(w, tbl)
	})
}

// EncodeTo writes the XML document to an arbitrary writer.
func (e *XMLEncoder) EncodeTo(w io.Writer, tbl *table.Table) error {
	bw := bufio.NewWriter(w)

	names := make([]string, len(tbl.Columns))
	for i, col := range tbl.Columns {
		names[i] = xmlName(col.Name)
	}

	bw.WriteString(xml.Header)
	bw.WriteString("<data>\n")
	for _, row := range tbl.Rows {
		bw.WriteString("  <record>\n")
		for i, cell := range row {
			name := names[i]
			bw.WriteString("    <")
			bw.WriteString(name)
			bw.WriteByte('>')
			if cell != nil {
				if err := xml.EscapeText(bw, []byte(cellString(cell))); err != nil {
					return err
				}
			}
			bw.WriteString("</")
			bw.WriteString(name)
			bw.WriteString(">\n")
		}
		bw.WriteString("  </record>\n")
	}
	bw.WriteString("</data>\n")
	return bw.Flush()
}

// xmlName maps an attribute name onto a valid XML element name.
// Characters that cannot appear in a name become underscores, and a
// name that cannot start an element gets one prefixed.
func xmlName(name string) string {
	var b strings.Builder
	for _, r := range name {
		if r == '_' || r == '-' || r == '.' || unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(r)
		} else {
			b.WriteByte('_')
		}
	}
	s := b.String()
	if s == "" {
		return "_"
	}
	if first := []rune(s)[0]; first != '_' && !unicode.IsLetter(first) {
		s = "_" + s
	}
	return s
}
