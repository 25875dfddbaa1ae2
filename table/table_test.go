package table

import (
	"errors"
	"reflect"
	"testing"

	"github.com/vegasq/arffconv/arff"
)

func testRelation(t *testing.T) *arff.Relation {
	t.Helper()
	rel, err := arff.ParseString(
		"@relation r\n" +
			"@attribute a numeric\n" +
			"@attribute b {x,y}\n" +
			"@attribute c string\n" +
			"@data\n" +
			"1.5,x,hello\n" +
			"?,y,?\n")
	if err != nil {
		t.Fatalf("ParseString() error = %v", err)
	}
	return rel
}

func TestCoerce(t *testing.T) {
	tbl, err := Coerce(testRelation(t))
	if err != nil {
		t.Fatalf("Coerce() error = %v", err)
	}

	if tbl.Name != "r" {
		t.Errorf("name = %q, want %q", tbl.Name, "r")
	}
	if len(tbl.Columns) != 3 || len(tbl.Rows) != 2 {
		t.Fatalf("got %d columns, %d rows", len(tbl.Columns), len(tbl.Rows))
	}

	if got, ok := tbl.Rows[0][0].(float64); !ok || got != 1.5 {
		t.Errorf("numeric cell = %#v, want float64 1.5", tbl.Rows[0][0])
	}
	if got, ok := tbl.Rows[0][1].(string); !ok || got != "x" {
		t.Errorf("nominal cell = %#v, want string x", tbl.Rows[0][1])
	}
	if tbl.Rows[1][0] != nil || tbl.Rows[1][2] != nil {
		t.Errorf("missing cells should be nil, got %#v, %#v", tbl.Rows[1][0], tbl.Rows[1][2])
	}

	// Nominal value set carried through as column metadata.
	if got := tbl.Columns[1].Values; !reflect.DeepEqual(got, []string{"x", "y"}) {
		t.Errorf("column values = %v, want [x y]", got)
	}
}

func TestCoerce_Idempotent(t *testing.T) {
	rel := testRelation(t)

	first, err := Coerce(rel)
	if err != nil {
		t.Fatalf("Coerce() error = %v", err)
	}
	second, err := Coerce(rel)
	if err != nil {
		t.Fatalf("Coerce() error = %v", err)
	}

	if !reflect.DeepEqual(first, second) {
		t.Error("coercing the same relation twice produced different tables")
	}
}

func TestCoerce_TypeError(t *testing.T) {
	// Built by hand: the parser would reject this, but relations can be
	// constructed programmatically.
	rel := &arff.Relation{
		Name:       "bad",
		Attributes: []arff.Attribute{{Name: "a", Kind: arff.Numeric}},
		Rows:       [][]arff.Cell{{{Raw: "not-a-number"}}},
	}

	_, err := Coerce(rel)
	if err == nil {
		t.Fatal("Coerce() succeeded, want error")
	}

	var terr *TypeError
	if !errors.As(err, &terr) {
		t.Fatalf("error type = %T, want *TypeError", err)
	}
	if terr.Attribute != "a" || terr.Row != 0 || terr.Value != "not-a-number" {
		t.Errorf("TypeError = %+v", terr)
	}
}

func TestCoerce_RowWidthMismatch(t *testing.T) {
	rel := &arff.Relation{
		Name: "bad",
		Attributes: []arff.Attribute{
			{Name: "a", Kind: arff.Numeric},
			{Name: "b", Kind: arff.String},
		},
		Rows: [][]arff.Cell{{{Raw: "1"}}},
	}

	var terr *TypeError
	if _, err := Coerce(rel); !errors.As(err, &terr) {
		t.Fatalf("Coerce() error = %v, want *TypeError", err)
	}
}
