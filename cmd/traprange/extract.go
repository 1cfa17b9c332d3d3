package main

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/a3tai/traprange/internal/config"
	"github.com/a3tai/traprange/internal/logging"
	"github.com/a3tai/traprange/internal/pdf"
	"github.com/a3tai/traprange/internal/render"
)

const outputPerm = 0o644

// extractOptions are the flags shared by the tables and layout commands.
type extractOptions struct {
	in        string
	out       string
	flags     config.ExtractionFlags
	logLevel  string
	logFormat string
	maxSize   int64
}

func (o *extractOptions) register(cmd *cobra.Command) {
	fs := cmd.Flags()
	fs.StringVarP(&o.in, "in", "i", "", "Input PDF file (required)")
	fs.StringVarP(&o.out, "out", "o", "", "Output file or directory (default stdout)")
	fs.StringVarP(&o.flags.Pages, "pages", "p", "", "Comma-separated zero-based pages to process (default all)")
	fs.StringVar(&o.flags.Password, "password", "", "Password of an encrypted PDF")
	fs.StringVar(&o.logLevel, "loglevel", "warn", "Log level (debug, info, warn, error)")
	fs.StringVar(&o.logFormat, "logformat", config.DefaultLogFormat, "Log format (console, json)")
	fs.Int64Var(&o.maxSize, "maxfilesize", config.DefaultMaxFileSize, "Maximum PDF file size in bytes")
	_ = cmd.MarkFlagRequired("in")
}

// service confines a service to the directory of the input file.
func (o *extractOptions) service(cmd *cobra.Command) (*pdf.Service, string, error) {
	abs, err := filepath.Abs(o.in)
	if err != nil {
		return nil, "", fmt.Errorf("resolve input path: %w", err)
	}
	log := logging.New(logging.Config{
		Level:  o.logLevel,
		Format: o.logFormat,
		Output: cmd.ErrOrStderr(),
	})
	svc, err := pdf.NewService(o.maxSize, filepath.Dir(abs), log)
	if err != nil {
		return nil, "", err
	}
	return svc, abs, nil
}

// write sends the rendered output to --out, or stdout when it is unset.
func (o *extractOptions) write(cmd *cobra.Command, data []byte) error {
	if o.out == "" {
		_, err := cmd.OutOrStdout().Write(data)
		return err
	}
	if err := os.WriteFile(o.out, data, outputPerm); err != nil {
		return fmt.Errorf("write output: %w", err)
	}
	return nil
}

func newTablesCmd() *cobra.Command {
	var (
		opts   extractOptions
		format string
	)
	cmd := &cobra.Command{
		Use:   "tables",
		Short: "Extract tables from a PDF",
		Example: `  traprange tables --in invoice.pdf --out invoice.html --el 0,1,-1
  traprange tables --in report.pdf -p 2,3 --ep 3 --el 4@2 --format csv`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			f, err := outputFormat(format, opts.out)
			if err != nil {
				return err
			}
			opts.out = outputPath(opts.out, opts.in, f)
			svc, path, err := opts.service(cmd)
			if err != nil {
				return err
			}
			result, err := svc.ExtractTables(pdf.PDFExtractTablesRequest{
				Path:        path,
				Password:    opts.flags.Password,
				Pages:       opts.flags.Pages,
				ExceptPages: opts.flags.ExceptPages,
				ExceptLines: opts.flags.ExceptLines,
			})
			if err != nil {
				return err
			}

			var buf bytes.Buffer
			if err := render.Tables(&buf, f, result.Tables); err != nil {
				return fmt.Errorf("render tables: %w", err)
			}
			return opts.write(cmd, buf.Bytes())
		},
	}
	opts.register(cmd)
	fs := cmd.Flags()
	fs.StringVar(&opts.flags.ExceptPages, "ep", "", "Comma-separated zero-based pages to skip")
	fs.StringVar(&opts.flags.ExceptLines, "el", "",
		"Row indices to drop; negative counts from the end, line@page limits to one page")
	fs.StringVarP(&format, "format", "f", "",
		"Output format: html, json, yaml, csv, markdown, text (default from --out extension, else html)")
	return cmd
}

func newLayoutCmd() *cobra.Command {
	var opts extractOptions
	cmd := &cobra.Command{
		Use:     "layout",
		Short:   "Render PDF pages as fixed-width text",
		Example: `  traprange layout --in statement.pdf -p 0`,
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			svc, path, err := opts.service(cmd)
			if err != nil {
				return err
			}
			result, err := svc.LayoutText(pdf.PDFLayoutTextRequest{
				Path:     path,
				Password: opts.flags.Password,
				Pages:    opts.flags.Pages,
			})
			if err != nil {
				return err
			}

			var buf bytes.Buffer
			if err := render.Layout(&buf, result.Pages); err != nil {
				return fmt.Errorf("render layout: %w", err)
			}
			return opts.write(cmd, buf.Bytes())
		},
	}
	opts.register(cmd)
	return cmd
}

// outputPath names the output file after the input when out is a directory.
func outputPath(out, in string, f render.Format) string {
	if out == "" {
		return out
	}
	if fi, err := os.Stat(out); err != nil || !fi.IsDir() {
		return out
	}
	base := strings.TrimSuffix(filepath.Base(in), filepath.Ext(in))
	return filepath.Join(out, base+f.Extension())
}

// outputFormat resolves --format, falling back to the extension of the
// output file and then to html.
func outputFormat(name, out string) (render.Format, error) {
	if name != "" {
		return render.ParseFormat(name)
	}
	if ext := strings.TrimPrefix(filepath.Ext(out), "."); ext != "" {
		if f, err := render.ParseFormat(ext); err == nil {
			return f, nil
		}
	}
	return render.FormatHTML, nil
}
