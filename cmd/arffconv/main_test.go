package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/vegasq/arffconv/arff"
)

const sampleARFF = "@relation weather\n@attribute temp numeric\n@attribute sky {sunny,rainy}\n@data\n20.5,sunny\n?,rainy\n"

func TestRenderInfo(t *testing.T) {
	rel, err := arff.ParseString(sampleARFF)
	if err != nil {
		t.Fatalf("ParseString() error = %v", err)
	}

	var buf bytes.Buffer
	renderInfo(&buf, rel)
	got := buf.String()

	for _, want := range []string{"weather", "temp", "numeric", "sky", "sunny, rainy"} {
		if !strings.Contains(got, want) {
			t.Errorf("info output missing %q:\n%s", want, got)
		}
	}
}

func TestConvertCommand(t *testing.T) {
	dir := t.TempDir()
	input := filepath.Join(dir, "weather.arff")
	if err := os.WriteFile(input, []byte(sampleARFF), 0o644); err != nil {
		t.Fatal(err)
	}

	root := newRootCmd()
	var out, errOut bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&errOut)
	root.SetArgs([]string{
		"convert", "--file", input, "--output", dir,
		"--format", "csv", "--name", "weather",
	})

	if err := root.Execute(); err != nil {
		t.Fatalf("Execute() error = %v (stderr: %s)", err, errOut.String())
	}

	data, err := os.ReadFile(filepath.Join(dir, "weather.csv"))
	if err != nil {
		t.Fatalf("reading output: %v", err)
	}
	if string(data) != "temp,sky\n20.5,sunny\n,rainy\n" {
		t.Errorf("output = %q", data)
	}
	if !strings.Contains(out.String(), "converted successfully") {
		t.Errorf("stdout = %q", out.String())
	}
}

func TestConvertCommand_UnsupportedFormat(t *testing.T) {
	root := newRootCmd()
	root.SetOut(new(bytes.Buffer))
	root.SetErr(new(bytes.Buffer))
	root.SetArgs([]string{"convert", "--file", "x.arff", "--format", "yaml"})

	err := root.Execute()
	if err == nil {
		t.Fatal("Execute() succeeded, want error")
	}
	if !strings.Contains(err.Error(), "yaml") {
		t.Errorf("error = %v, should name the unsupported format", err)
	}
}
