package output

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/vegasq/arffconv/arff"
	"github.com/vegasq/arffconv/table"
)

func TestJSONEncoder_Scenario(t *testing.T) {
	var buf bytes.Buffer
	enc := &JSONEncoder{}
	if err := enc.EncodeTo(&buf, scenarioTable(t)); err != nil {
		t.Fatalf("EncodeTo() error = %v", err)
	}

	// Key order follows attribute declaration order; numerics are
	// unquoted; the missing cell is null.
	want := `[{"a":1.5,"b":"x"},{"a":null,"b":"y"}]`
	if got := buf.String(); got != want {
		t.Errorf("EncodeTo() = %q, want %q", got, want)
	}
}

func TestJSONEncoder_ValidJSON(t *testing.T) {
	tbl := &table.Table{
		Name: "r",
		Columns: []table.Column{
			{Name: "weird \"name\"", Kind: arff.String},
			{Name: "n", Kind: arff.Numeric},
		},
		Rows: [][]interface{}{
			{"a<b>&c", float64(2)},
			{nil, nil},
		},
	}

	var buf bytes.Buffer
	enc := &JSONEncoder{}
	if err := enc.EncodeTo(&buf, tbl); err != nil {
		t.Fatalf("EncodeTo() error = %v", err)
	}

	var decoded []map[string]interface{}
	if err := json.Unmarshal(buf.Bytes(), &decoded); err != nil {
		t.Fatalf("output is not valid JSON: %v\n%s", err, buf.String())
	}
	if len(decoded) != 2 {
		t.Fatalf("got %d rows, want 2", len(decoded))
	}
	if decoded[0][`weird "name"`] != "a<b>&c" {
		t.Errorf("row 0 = %v", decoded[0])
	}
	if v, present := decoded[1]["n"]; !present || v != nil {
		t.Errorf("missing cell = %v (present=%v), want null", v, present)
	}
}

func TestJSONEncoder_EmptyTable(t *testing.T) {
	tbl := &table.Table{Name: "r", Columns: []table.Column{{Name: "a", Kind: arff.Numeric}}}

	var buf bytes.Buffer
	enc := &JSONEncoder{}
	if err := enc.EncodeTo(&buf, tbl); err != nil {
		t.Fatalf("EncodeTo() error = %v", err)
	}
	if got := buf.String(); got != "[]" {
		t.Errorf("EncodeTo() = %q, want %q", got, "[]")
	}
}
