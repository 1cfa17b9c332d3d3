package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/a3tai/traprange/internal/config"
	"github.com/a3tai/traprange/internal/logging"
	"github.com/a3tai/traprange/internal/mcp"
	"github.com/a3tai/traprange/internal/pdf"
)

func newServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the extraction tools over MCP",
		Long: `Serve pdf_extract_tables, pdf_layout_text, pdf_validate_file and
pdf_search_directory as MCP tools, on standard I/O or over HTTP with SSE.
Every flag can also be set through a TRAPRANGE_* environment variable or a
config file.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load(cmd.Flags())
			if err != nil {
				return err
			}
			if version != "dev" {
				cfg.Version = version
			}

			// stdout carries the protocol in stdio mode
			log := logging.New(logging.Config{
				Level:  cfg.LogLevel,
				Format: cfg.LogFormat,
				Output: cmd.ErrOrStderr(),
			})
			log.Debug().Str("config", cfg.String()).Msg("starting")

			svc, err := pdf.NewService(cfg.MaxFileSize, cfg.PDFDirectory, log)
			if err != nil {
				return err
			}
			server, err := mcp.NewServer(cfg, svc, log)
			if err != nil {
				return fmt.Errorf("failed to create MCP server: %w", err)
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return server.Run(ctx)
		},
	}
	config.DefineFlags(cmd.Flags(), config.DefaultConfig())
	return cmd
}

