package arff

import (
	"bufio"
	"errors"
	"io"
	"strconv"
	"strings"
)

// Parse reads ARFF text from r and returns the parsed relation.
//
// Keywords (@relation, @attribute, @data) and attribute type tokens are
// matched case-insensitively. Lines whose first non-whitespace character
// is % are comments. Data rows may be dense (comma-separated) or sparse
// ({index value, ...}); the unquoted marker ? denotes a missing value in
// either form. Nominal membership and numeric syntax are validated here,
// so errors carry the data line they occurred on.
func Parse(r io.Reader) (*Relation, error) {
	p := &parser{rel: &Relation{}}

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)
	for scanner.Scan() {
		p.line++
		if err := p.consume(scanner.Text()); err != nil {
			return nil, err
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, parseErrorf(p.line, "", "reading input: %v", err)
	}

	if !p.inData {
		return nil, parseErrorf(0, "", "missing @data section")
	}
	return p.rel, nil
}

// ParseString is a convenience wrapper around Parse.
func ParseString(s string) (*Relation, error) {
	return Parse(strings.NewReader(s))
}

type parser struct {
	rel         *Relation
	line        int
	relationSet bool
	inData      bool
}

func (p *parser) consume(raw string) error {
	line := strings.TrimSpace(raw)
	if line == "" || strings.HasPrefix(line, "%") {
		return nil
	}

	if strings.HasPrefix(line, "@") {
		return p.declaration(line)
	}

	if !p.inData {
		return parseErrorf(p.line, line, "unexpected content before @data: %q", line)
	}
	return p.dataRow(line)
}

func (p *parser) declaration(line string) error {
	keyword := line
	rest := ""
	if i := strings.IndexAny(line, " \t"); i >= 0 {
		keyword, rest = line[:i], strings.TrimSpace(line[i+1:])
	}

	switch strings.ToLower(keyword) {
	case "@relation":
		if p.relationSet {
			return parseErrorf(p.line, rest, "duplicate @relation declaration")
		}
		if p.inData {
			return parseErrorf(p.line, rest, "@relation after @data")
		}
		name, _, _, err := takeToken(rest)
		if err != nil {
			return parseErrorf(p.line, rest, "invalid relation name: %v", err)
		}
		if name == "" {
			return parseErrorf(p.line, "", "@relation requires a name")
		}
		p.rel.Name = name
		p.relationSet = true
		return nil

	case "@attribute":
		if p.inData {
			return parseErrorf(p.line, rest, "@attribute declaration after @data")
		}
		if !p.relationSet {
			return parseErrorf(p.line, rest, "@attribute before @relation")
		}
		return p.attribute(rest)

	case "@data":
		if p.inData {
			return parseErrorf(p.line, "", "duplicate @data declaration")
		}
		if !p.relationSet {
			return parseErrorf(p.line, "", "@data before @relation")
		}
		if len(p.rel.Attributes) == 0 {
			return parseErrorf(p.line, "", "@data with no attribute declarations")
		}
		p.inData = true
		return nil

	default:
		return parseErrorf(p.line, keyword, "unknown declaration %q", keyword)
	}
}

func (p *parser) attribute(rest string) error {
	name, spec, _, err := takeToken(rest)
	if err != nil {
		return parseErrorf(p.line, rest, "invalid attribute name: %v", err)
	}
	if name == "" || spec == "" {
		return parseErrorf(p.line, rest, "@attribute requires a name and a type")
	}
	for _, existing := range p.rel.Attributes {
		if existing.Name == name {
			return parseErrorf(p.line, name, "duplicate attribute name %q", name)
		}
	}

	attr := Attribute{Name: name}
	spec = strings.TrimSpace(spec)

	if strings.HasPrefix(spec, "{") {
		values, err := parseNominalSet(spec)
		if err != nil {
			return parseErrorf(p.line, spec, "attribute %q: %v", name, err)
		}
		attr.Kind = Nominal
		attr.Values = values
		p.rel.Attributes = append(p.rel.Attributes, attr)
		return nil
	}

	typeTok := spec
	typeRest := ""
	if i := strings.IndexAny(spec, " \t"); i >= 0 {
		typeTok, typeRest = spec[:i], strings.TrimSpace(spec[i+1:])
	}

	switch strings.ToLower(typeTok) {
	case "numeric", "real", "integer":
		attr.Kind = Numeric
	case "string":
		attr.Kind = String
	case "date":
		attr.Kind = Date
		if typeRest != "" {
			format, _, _, err := takeToken(typeRest)
			if err != nil {
				return parseErrorf(p.line, typeRest, "attribute %q: invalid date format: %v", name, err)
			}
			attr.DateFormat = format
		}
	default:
		return parseErrorf(p.line, typeTok, "attribute %q: unknown type %q", name, typeTok)
	}

	p.rel.Attributes = append(p.rel.Attributes, attr)
	return nil
}

// parseNominalSet parses a brace-enclosed value list such as
// {red, green, "dark blue"}.
func parseNominalSet(spec string) ([]string, error) {
	if !strings.HasSuffix(spec, "}") {
		return nil, errors.New("unterminated nominal value set")
	}
	inner := spec[1 : len(spec)-1]
	fields := splitFields(inner)

	values := make([]string, 0, len(fields))
	for _, f := range fields {
		v := strings.TrimSpace(f.text)
		if v == "" && !f.quoted {
			return nil, errors.New("empty nominal value")
		}
		values = append(values, v)
	}
	if len(values) == 0 {
		return nil, errors.New("empty nominal value set")
	}
	return values, nil
}

func (p *parser) dataRow(line string) error {
	var cells []Cell
	var err error
	if strings.HasPrefix(line, "{") {
		cells, err = p.sparseRow(line)
	} else {
		cells, err = p.denseRow(line)
	}
	if err != nil {
		return err
	}
	p.rel.Rows = append(p.rel.Rows, cells)
	return nil
}

func (p *parser) denseRow(line string) ([]Cell, error) {
	fields := splitFields(line)
	if len(fields) != len(p.rel.Attributes) {
		return nil, parseErrorf(p.line, line,
			"row has %d fields, expected %d", len(fields), len(p.rel.Attributes))
	}

	cells := make([]Cell, len(fields))
	for i, f := range fields {
		cell := fieldToCell(f)
		if err := p.validateCell(cell, i); err != nil {
			return nil, err
		}
		cells[i] = cell
	}
	return cells, nil
}

// sparseRow expands a {index value, ...} row. Indices not mentioned
// default to 0 for numeric columns and the empty string otherwise;
// defaulted cells are exempt from nominal membership checks.
func (p *parser) sparseRow(line string) ([]Cell, error) {
	if !strings.HasSuffix(line, "}") {
		return nil, parseErrorf(p.line, line, "unterminated sparse row")
	}
	inner := strings.TrimSpace(line[1 : len(line)-1])

	cells := make([]Cell, len(p.rel.Attributes))
	for i, attr := range p.rel.Attributes {
		if attr.Kind == Numeric {
			cells[i] = Cell{Raw: "0"}
		} else {
			cells[i] = Cell{Raw: ""}
		}
	}
	if inner == "" {
		return cells, nil
	}

	for _, f := range splitFields(inner) {
		entry := strings.TrimSpace(f.text)
		sep := strings.IndexAny(entry, " \t")
		if sep < 0 {
			return nil, parseErrorf(p.line, entry, "sparse entry %q is not an index/value pair", entry)
		}
		idx, err := strconv.Atoi(entry[:sep])
		if err != nil {
			return nil, parseErrorf(p.line, entry[:sep], "invalid sparse index %q", entry[:sep])
		}
		if idx < 0 || idx >= len(p.rel.Attributes) {
			return nil, parseErrorf(p.line, entry[:sep],
				"sparse index %d out of range (relation has %d attributes)", idx, len(p.rel.Attributes))
		}

		valueFields := splitFields(strings.TrimSpace(entry[sep+1:]))
		if len(valueFields) != 1 {
			return nil, parseErrorf(p.line, entry, "sparse entry %q is not an index/value pair", entry)
		}
		cell := fieldToCell(valueFields[0])
		if err := p.validateCell(cell, idx); err != nil {
			return nil, err
		}
		cells[idx] = cell
	}
	return cells, nil
}

// fieldToCell trims the field's edges (whitespace around the separator
// is not significant, quoted or not) and maps the bare ? marker to a
// missing cell. A quoted "?" stays a literal value.
func fieldToCell(f field) Cell {
	text := strings.TrimSpace(f.text)
	if !f.quoted && text == "?" {
		return Cell{Missing: true}
	}
	return Cell{Raw: text}
}

// validateCell enforces the declared type at parse time: numeric cells
// must be valid float literals and nominal cells must be members of the
// declared value set. Missing cells always pass.
func (p *parser) validateCell(cell Cell, idx int) error {
	if cell.Missing {
		return nil
	}
	attr := p.rel.Attributes[idx]
	switch attr.Kind {
	case Numeric:
		if _, err := strconv.ParseFloat(cell.Raw, 64); err != nil {
			return parseErrorf(p.line, cell.Raw,
				"non-numeric value %q for numeric attribute %q", cell.Raw, attr.Name)
		}
	case Nominal:
		for _, v := range attr.Values {
			if v == cell.Raw {
				return nil
			}
		}
		return parseErrorf(p.line, cell.Raw,
			"value %q not in nominal set of attribute %q", cell.Raw, attr.Name)
	}
	return nil
}

// field is one comma-separated portion of a data line or nominal set.
// quoted records whether any part of the field was quoted, which keeps
// a quoted "?" distinct from the missing-value marker.
type field struct {
	text   string
	quoted bool
}

// splitFields splits on commas that are outside single or double
// quotes. Inside quotes a backslash escapes the next character and a
// doubled quote produces a literal quote.
func splitFields(s string) []field {
	var fields []field
	var cur strings.Builder
	var quote byte
	quoted := false

	flush := func() {
		fields = append(fields, field{text: cur.String(), quoted: quoted})
		cur.Reset()
		quoted = false
	}

	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case quote != 0:
			switch {
			case c == '\\' && i+1 < len(s):
				cur.WriteByte(s[i+1])
				i++
			case c == quote && i+1 < len(s) && s[i+1] == quote:
				cur.WriteByte(c)
				i++
			case c == quote:
				quote = 0
			default:
				cur.WriteByte(c)
			}
		case c == '\'' || c == '"':
			quote = c
			quoted = true
		case c == ',':
			flush()
		default:
			cur.WriteByte(c)
		}
	}
	flush()
	return fields
}

// takeToken reads one whitespace-delimited token from s, honoring
// single or double quotes so names may contain spaces. It returns the
// token, the remainder of s, and whether the token was quoted.
func takeToken(s string) (tok, rest string, quoted bool, err error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return "", "", false, nil
	}

	if s[0] == '\'' || s[0] == '"' {
		q := s[0]
		var b strings.Builder
		for i := 1; i < len(s); i++ {
			c := s[i]
			switch {
			case c == '\\' && i+1 < len(s):
				b.WriteByte(s[i+1])
				i++
			case c == q:
				return b.String(), strings.TrimSpace(s[i+1:]), true, nil
			default:
				b.WriteByte(c)
			}
		}
		return "", "", true, errors.New("unterminated quoted token")
	}

	if i := strings.IndexAny(s, " \t"); i >= 0 {
		return s[:i], strings.TrimSpace(s[i+1:]), false, nil
	}
	return s, "", false, nil
}
