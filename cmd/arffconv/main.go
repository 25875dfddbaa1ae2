// Command arffconv converts ARFF files to CSV, JSON, XML, XLSX, ORC or
// Parquet.
package main

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"github.com/vegasq/arffconv/arff"
	"github.com/vegasq/arffconv/convert"
)

var version = "dev"

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "arffconv",
		Short:         "Convert ARFF files to csv, json, xml, xlsx, orc or parquet",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(newConvertCmd(), newInfoCmd())
	return root
}

func newConvertCmd() *cobra.Command {
	var (
		files     []string
		outputDir string
		format    string
		fast      bool
		name      string
		chunkSize int
		sheetRows int
		workers   int
		verbose   bool
	)

	cmd := &cobra.Command{
		Use:   "convert",
		Short: "Convert one or more ARFF files to the selected format",
		Example: `  arffconv convert --file data.arff --output ./out --format csv
  arffconv convert -f a.arff -f b.arff -o ./out --format parquet --fast`,
		RunE: func(cmd *cobra.Command, args []string) error {
			target, err := convert.ParseFormatName(format)
			if err != nil {
				return err
			}

			opts := convert.Options{
				Format:        target,
				FastMode:      fast,
				ChunkSize:     chunkSize,
				SheetRowLimit: sheetRows,
				OutputName:    name,
			}
			if verbose {
				opts.Progress = func(s convert.Stage) {
					fmt.Fprintf(cmd.ErrOrStderr(), "stage complete: %s\n", s)
				}
			}

			if len(files) == 1 {
				out, err := convert.Convert(files[0], outputDir, opts)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(),
					"File converted successfully to %s format.\n", strings.ToUpper(format))
				fmt.Fprintf(cmd.OutOrStdout(), "Output file: %s\n", out)
				return nil
			}

			results := convert.ConvertBatch(files, outputDir, opts, workers)
			failed := 0
			for _, res := range results {
				if res.Err != nil {
					failed++
					fmt.Fprintf(cmd.ErrOrStderr(), "%s: %v\n", res.Input, res.Err)
					continue
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s -> %s\n", res.Input, res.Output)
			}
			if failed > 0 {
				return fmt.Errorf("%d of %d conversions failed", failed, len(results))
			}
			return nil
		},
	}

	cmd.Flags().StringSliceVarP(&files, "file", "f", nil, "Path to an ARFF file (repeatable)")
	cmd.Flags().StringVarP(&outputDir, "output", "o", ".", "Output directory")
	cmd.Flags().StringVar(&format, "format", "", "Target format: csv, json, xml, xlsx, orc, parquet")
	cmd.Flags().BoolVar(&fast, "fast", false, "Skip pre-parse validation checks")
	cmd.Flags().StringVar(&name, "name", "", "Custom output filename (extension added from format)")
	cmd.Flags().IntVar(&chunkSize, "chunk-size", 0, "Advisory batch size for the encoders")
	cmd.Flags().IntVar(&sheetRows, "sheet-rows", 0, "Max data rows per XLSX sheet (0 = format maximum)")
	cmd.Flags().IntVar(&workers, "workers", 0, "Batch worker pool size (0 = unbounded)")
	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "Report pipeline stage milestones to stderr")
	_ = cmd.MarkFlagRequired("file")
	_ = cmd.MarkFlagRequired("format")

	return cmd
}

func newInfoCmd() *cobra.Command {
	var file string

	cmd := &cobra.Command{
		Use:   "info",
		Short: "Show the relation schema of an ARFF file",
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := os.Open(file)
			if err != nil {
				return err
			}
			defer func() { _ = f.Close() }()

			rel, err := arff.Parse(f)
			if err != nil {
				return err
			}
			renderInfo(cmd.OutOrStdout(), rel)
			return nil
		},
	}

	cmd.Flags().StringVarP(&file, "file", "f", "", "Path to an ARFF file")
	_ = cmd.MarkFlagRequired("file")

	return cmd
}

func renderInfo(w io.Writer, rel *arff.Relation) {
	fmt.Fprintf(w, "Relation: %s (%d attributes, %d rows)\n",
		rel.Name, len(rel.Attributes), len(rel.Rows))

	tw := tablewriter.NewWriter(w)
	tw.SetHeader([]string{"#", "Name", "Type", "Detail"})
	for i, attr := range rel.Attributes {
		detail := ""
		switch attr.Kind {
		case arff.Nominal:
			detail = strings.Join(attr.Values, ", ")
		case arff.Date:
			detail = attr.DateFormat
		}
		tw.Append([]string{strconv.Itoa(i), attr.Name, attr.Kind.String(), detail})
	}
	tw.Render()
}
