// Package arff provides parsing of the Attribute-Relation File Format
// into a typed relation model.
//
// It implements the text format used by Weka and friends: an optional
// comment block, a header of @relation and @attribute declarations, and
// a @data section of dense or sparse rows. The parser validates nominal
// values and numeric literals as it reads, so a successfully parsed
// Relation is structurally sound.
//
// Example usage:
//
//	rel, err := arff.ParseString(src)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(rel.Name, len(rel.Rows))
package arff

import "fmt"

// Kind is the semantic type of an attribute.
type Kind int

const (
	// Numeric covers the ARFF type tokens numeric, real and integer.
	Numeric Kind = iota
	// String is free-form text.
	String
	// Nominal is a value constrained to a declared set.
	Nominal
	// Date is a date value, carried as its verbatim string form.
	Date
)

// String returns the lowercase ARFF name of the kind.
func (k Kind) String() string {
	switch k {
	case Numeric:
		return "numeric"
	case String:
		return "string"
	case Nominal:
		return "nominal"
	case Date:
		return "date"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// Attribute is one declared column of a relation.
type Attribute struct {
	Name string
	Kind Kind

	// Values is the ordered nominal value set. Non-empty only when
	// Kind is Nominal, in which case it defines the only legal values
	// for the column.
	Values []string

	// DateFormat is the optional format token from a date declaration.
	// Dates are not parsed into calendar values; the format is kept so
	// downstream consumers can interpret the strings if they choose.
	DateFormat string
}

// Cell is one data value as read from the file. A missing value (the
// unquoted ? marker) has Missing set and an empty Raw.
type Cell struct {
	Raw     string
	Missing bool
}

// Relation is a fully parsed ARFF document. It is immutable after
// Parse returns: every row has exactly len(Attributes) cells, aligned
// positionally with Attributes.
type Relation struct {
	Name       string
	Attributes []Attribute
	Rows       [][]Cell
}

// AttributeNames returns the attribute names in declared order.
func (r *Relation) AttributeNames() []string {
	names := make([]string, len(r.Attributes))
	for i, attr := range r.Attributes {
		names[i] = attr.Name
	}
	return names
}

// ParseError describes malformed ARFF input. Line is the 1-based
// physical line number of the offending line, or 0 when the problem is
// not tied to a single line (such as a missing @data section). Value
// holds the offending token when one exists.
type ParseError struct {
	Line  int
	Value string
	Msg   string
}

func (e *ParseError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("arff: line %d: %s", e.Line, e.Msg)
	}
	return "arff: " + e.Msg
}

func parseErrorf(line int, value, format string, args ...interface{}) *ParseError {
	return &ParseError{Line: line, Value: value, Msg: fmt.Sprintf(format, args...)}
}
