package cli

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/thurmanmarka/astrowheel/internal/render"
)

type exportOpts struct {
	format string
	output string
	size   float64
}

func newExportCmd(opts *rootOpts) *cobra.Command {
	var cf chartFlags
	eo := exportOpts{format: string(render.FormatSVG)}

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write the chart as SVG, PNG, CSV, TSV or JSON",
		Long: `Write the chart to a file or stdout.

Without --format the format follows the --output extension and falls back to SVG.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !cmd.Flags().Changed("format") && eo.output != "" {
				if ext := strings.TrimPrefix(filepath.Ext(eo.output), "."); ext != "" {
					eo.format = strings.ToLower(ext)
				}
			}
			format, err := render.ParseFormat(eo.format)
			if err != nil {
				return err
			}

			s, err := newSession(cmd, opts, &cf)
			if err != nil {
				return err
			}
			size := eo.size
			if !cmd.Flags().Changed("size") {
				size = s.file.Chart.Size
			}
			if !(size > 0) {
				return fmt.Errorf("size %v must be positive", size)
			}

			prog := newProgress(s.logger)
			c, err := s.compute(s.when)
			if err != nil {
				return err
			}

			if eo.output == "" || eo.output == "-" {
				return render.Write(cmd.OutOrStdout(), c, format, size)
			}
			if err := writeFile(eo.output, func(w *bufio.Writer) error {
				return render.Write(w, c, format, size)
			}); err != nil {
				return err
			}
			prog.done("Wrote " + eo.output)
			printSuccess(cmd.OutOrStdout(), "Exported %s chart", format)
			printFile(cmd.OutOrStdout(), eo.output)
			return nil
		},
	}

	cf.bind(cmd)
	cmd.Flags().StringVarP(&eo.format, "format", "f", eo.format, "output format: svg, png, csv, tsv, json")
	cmd.Flags().StringVarP(&eo.output, "output", "o", "", "output file (default stdout)")
	cmd.Flags().Float64Var(&eo.size, "size", 0, "wheel width in pixels (default from config)")
	return cmd
}

// writeFile creates path and hands fn a buffered writer, removing the file
// if fn fails.
func writeFile(path string, fn func(*bufio.Writer) error) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	w := bufio.NewWriter(f)
	if err := fn(w); err != nil {
		f.Close()
		os.Remove(path)
		return err
	}
	if err := w.Flush(); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
