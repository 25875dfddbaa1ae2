package output

import (
	"bytes"
	"encoding/csv"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/vegasq/arffconv/arff"
	"github.com/vegasq/arffconv/table"
)

func TestCSVEncoder_Scenario(t *testing.T) {
	var buf bytes.Buffer
	enc := &CSVEncoder{}
	if err := enc.EncodeTo(&buf, scenarioTable(t)); err != nil {
		t.Fatalf("EncodeTo() error = %v", err)
	}

	want := "a,b\n1.5,x\n,y\n"
	if got := buf.String(); got != want {
		t.Errorf("EncodeTo() = %q, want %q", got, want)
	}
}

func TestCSVEncoder_SpecialCharacters(t *testing.T) {
	tbl := &table.Table{
		Name: "r",
		Columns: []table.Column{
			{Name: "s", Kind: arff.String},
		},
		Rows: [][]interface{}{
			{`has, comma`},
			{`has "quote"`},
			{"has\nnewline"},
		},
	}

	var buf bytes.Buffer
	enc := &CSVEncoder{}
	if err := enc.EncodeTo(&buf, tbl); err != nil {
		t.Fatalf("EncodeTo() error = %v", err)
	}

	records, err := csv.NewReader(strings.NewReader(buf.String())).ReadAll()
	if err != nil {
		t.Fatalf("output is not valid CSV: %v", err)
	}
	if len(records) != 4 {
		t.Fatalf("got %d records, want 4", len(records))
	}
	for i, want := range []string{`has, comma`, `has "quote"`, "has\nnewline"} {
		if records[i+1][0] != want {
			t.Errorf("record %d = %q, want %q", i+1, records[i+1][0], want)
		}
	}
}

func TestCSVEncoder_EncodeFile(t *testing.T) {
	dir := t.TempDir()
	dest := filepath.Join(dir, "out.csv")

	enc := NewEncoder(FormatCSV, Options{})
	if err := enc.Encode(scenarioTable(t), dest); err != nil {
		t.Fatalf("Encode() error = %v", err)
	}

	data, err := os.ReadFile(dest)
	if err != nil {
		t.Fatalf("reading output: %v", err)
	}
	if string(data) != "a,b\n1.5,x\n,y\n" {
		t.Errorf("file content = %q", data)
	}

	// Staged temp files must not survive a successful encode.
	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 1 {
		t.Errorf("output dir has %d entries, want 1", len(entries))
	}
}
