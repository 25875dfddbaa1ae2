// Package convert ties the pipeline together: it reads an ARFF source,
// parses it, coerces the relation into a table and hands the table to
// the selected format encoder.
//
// Two validation policies exist. Careful mode (the default) checks the
// input path, the .arff extension and the file's leading @relation
// header before parsing, surfacing configuration mistakes early. Fast
// mode skips those pre-checks and lets the parser or encoder fail
// naturally; for valid input both modes produce identical output bytes.
//
// Example usage:
//
//	out, err := convert.Convert("iris.arff", "out", convert.Options{
//	    Format: output.FormatParquet,
//	})
package convert

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
	"unicode/utf8"

	"golang.org/x/sync/errgroup"
	"golang.org/x/text/encoding/charmap"

	"github.com/vegasq/arffconv/arff"
	"github.com/vegasq/arffconv/output"
	"github.com/vegasq/arffconv/table"
)

// Stage identifies a completed pipeline milestone for progress
// reporting.
type Stage int

const (
	StageParsed Stage = iota
	StageCoerced
	StageEncoded
)

// String returns the human-readable stage name.
func (s Stage) String() string {
	switch s {
	case StageParsed:
		return "parsed"
	case StageCoerced:
		return "coerced"
	case StageEncoded:
		return "encoded"
	default:
		return fmt.Sprintf("Stage(%d)", int(s))
	}
}

// ProgressFunc receives coarse-grained stage milestones during a
// conversion. It is invoked synchronously from the conversion
// goroutine, never from a background thread.
type ProgressFunc func(stage Stage)

// Options configures a conversion.
type Options struct {
	// Format selects the target format. An unsupported value fails
	// with ValidationError before any input is read.
	Format output.Format

	// FastMode skips the pre-parse input checks. It never changes the
	// output bytes for valid input, only when errors surface.
	FastMode bool

	// ChunkSize is an advisory batching hint passed to the encoders.
	// Zero means format defaults; negative values are rejected.
	ChunkSize int

	// SheetRowLimit caps data rows per XLSX sheet.
	SheetRowLimit int

	// OutputName overrides the derived output filename (extension is
	// appended from the format). When empty the name is
	// <input stem>_<unix time>.<ext>.
	OutputName string

	// Progress, when non-nil, is invoked after each pipeline stage.
	Progress ProgressFunc
}

// ValidationError reports invalid configuration or a failed pre-parse
// input check.
type ValidationError struct {
	Msg string
}

func (e *ValidationError) Error() string {
	return "convert: " + e.Msg
}

func validationErrorf(format string, args ...interface{}) *ValidationError {
	return &ValidationError{Msg: fmt.Sprintf(format, args...)}
}

// ParseFormatName maps a target format name onto its output.Format,
// failing with *ValidationError for unsupported names such as "yaml".
func ParseFormatName(name string) (output.Format, error) {
	f, err := output.ParseFormat(strings.ToLower(strings.TrimSpace(name)))
	if err != nil {
		return 0, &ValidationError{Msg: err.Error()}
	}
	return f, nil
}

// Result is one slot of a batch conversion, aligned by index with the
// batch inputs.
type Result struct {
	Input  string
	Output string
	Err    error
}

// Convert runs the parse -> coerce -> encode pipeline for one ARFF file
// and returns the path of the written output file.
//
// Error types discriminate the failure stage: *ValidationError for bad
// configuration or failed pre-checks, *arff.ParseError for malformed
// input, *table.TypeError for uncoercible values and *output.EncodeError
// for serialization failures.
func Convert(inputPath, outputDir string, opts Options) (string, error) {
	// Configuration is validated before anything is read, so an
	// unsupported format fails identically in both modes.
	if !opts.Format.Valid() {
		return "", validationErrorf("unsupported target format %v", opts.Format)
	}
	if opts.ChunkSize < 0 {
		return "", validationErrorf("chunk size must not be negative, got %d", opts.ChunkSize)
	}

	if !opts.FastMode {
		if err := validateInput(inputPath); err != nil {
			return "", err
		}
	}

	text, err := readSource(inputPath)
	if err != nil {
		return "", err
	}

	rel, err := arff.Parse(bytes.NewReader(text))
	if err != nil {
		return "", err
	}
	opts.progress(StageParsed)

	tbl, err := table.Coerce(rel)
	if err != nil {
		return "", err
	}
	opts.progress(StageCoerced)

	outPath, err := outputPath(inputPath, outputDir, opts)
	if err != nil {
		return "", err
	}

	enc := output.NewEncoder(opts.Format, output.Options{
		FastMode:      opts.FastMode,
		ChunkSize:     opts.ChunkSize,
		SheetRowLimit: opts.SheetRowLimit,
	})
	if err := enc.Encode(tbl, outPath); err != nil {
		return "", err
	}
	opts.progress(StageEncoded)

	return outPath, nil
}

// ConvertBatch converts several files with a bounded worker pool.
// Results are reassembled by input index, so results[i] always
// corresponds to inputs[i] regardless of completion order. One file's
// failure never aborts its siblings.
func ConvertBatch(inputs []string, outputDir string, opts Options, workers int) []Result {
	results := make([]Result, len(inputs))

	var g errgroup.Group
	if workers > 0 {
		g.SetLimit(workers)
	}
	for i, input := range inputs {
		i, input := i, input
		g.Go(func() error {
			out, err := Convert(input, outputDir, opts)
			results[i] = Result{Input: input, Output: out, Err: err}
			return nil
		})
	}
	// Workers never return errors; failures live in their result slot.
	_ = g.Wait()

	return results
}

func (o Options) progress(stage Stage) {
	if o.Progress != nil {
		o.Progress(stage)
	}
}

// validateInput runs the careful-mode pre-checks: the path must exist,
// be a regular .arff file, and open with an @relation header.
func validateInput(path string) error {
	info, err := os.Stat(path)
	if err != nil {
		return validationErrorf("input file does not exist: %s", path)
	}
	if info.IsDir() {
		return validationErrorf("input path is not a file: %s", path)
	}
	if !strings.EqualFold(filepath.Ext(path), ".arff") {
		return validationErrorf("input file is not an ARFF file: %s", path)
	}

	text, err := readSource(path)
	if err != nil {
		return err
	}
	for _, line := range strings.Split(string(text), "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "%") {
			continue
		}
		lower := strings.ToLower(line)
		if !strings.HasPrefix(lower, "@relation") {
			return validationErrorf("invalid ARFF header in %s: expected @relation, got %q", path, line)
		}
		return nil
	}
	return validationErrorf("invalid ARFF header in %s: file has no declarations", path)
}

// readSource reads the input as UTF-8, falling back to Latin-1 when the
// bytes are not valid UTF-8.
func readSource(path string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, validationErrorf("cannot read input file: %v", err)
	}
	if utf8.Valid(data) {
		return data, nil
	}

	decoded, err := charmap.ISO8859_1.NewDecoder().Bytes(data)
	if err != nil {
		return nil, validationErrorf("cannot decode input file %s: %v", path, err)
	}
	return decoded, nil
}

// outputPath derives the destination filename and ensures the output
// directory exists. The default name carries a timestamp so repeated
// conversions of the same input do not clobber each other.
func outputPath(inputPath, outputDir string, opts Options) (string, error) {
	if outputDir == "" {
		outputDir = "."
	}
	if err := os.MkdirAll(outputDir, 0o755); err != nil {
		return "", validationErrorf("cannot create output directory: %v", err)
	}

	var base string
	if opts.OutputName != "" {
		base = strings.TrimSuffix(filepath.Base(opts.OutputName), filepath.Ext(opts.OutputName))
	} else {
		stem := strings.TrimSuffix(filepath.Base(inputPath), filepath.Ext(inputPath))
		base = fmt.Sprintf("%s_%d", stem, time.Now().Unix())
	}
	return filepath.Join(outputDir, base+"."+opts.Format.Ext()), nil
}
