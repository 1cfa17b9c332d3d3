// Package mcp exposes the table and layout extraction tools over the Model
// Context Protocol, on stdio or as an HTTP server with SSE transport.
package mcp

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/rs/zerolog"

	"github.com/a3tai/traprange/internal/config"
	"github.com/a3tai/traprange/internal/descriptions"
	"github.com/a3tai/traprange/internal/pdf"
	"github.com/a3tai/traprange/internal/render"
)

const shutdownTimeout = 5 * time.Second

// Server represents the MCP server instance
type Server struct {
	config     *config.Config
	pdfService *pdf.Service
	mcpServer  *server.MCPServer
	logger     zerolog.Logger
}

// NewServer creates a new MCP server instance
func NewServer(cfg *config.Config, pdfService *pdf.Service, logger zerolog.Logger) (*Server, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config cannot be nil")
	}
	if pdfService == nil {
		return nil, fmt.Errorf("pdfService cannot be nil")
	}

	mcpServer := server.NewMCPServer(
		cfg.ServerName,
		cfg.Version,
		server.WithToolCapabilities(false),
		server.WithRecovery(),
	)

	s := &Server{
		config:     cfg,
		pdfService: pdfService,
		mcpServer:  mcpServer,
		logger:     logger,
	}
	s.registerTools()

	return s, nil
}

// registerTools registers all available MCP tools
func (s *Server) registerTools() {
	extractTablesTool := mcp.NewTool(
		"pdf_extract_tables",
		mcp.WithDescription(descriptions.GetToolDescription("pdf_extract_tables")),
		mcp.WithString("path",
			mcp.Required(),
			mcp.Description("Path to the PDF file, absolute or relative to the configured directory"),
		),
		mcp.WithString("password", mcp.Description("Password of an encrypted PDF")),
		mcp.WithString("pages", mcp.Description("Comma-separated zero-based pages to extract; empty for all")),
		mcp.WithString("except_pages", mcp.Description("Comma-separated zero-based pages to skip")),
		mcp.WithString("except_lines",
			mcp.Description("Comma-separated row indices to drop; negative counts from the end, line@page limits to one page"),
		),
		mcp.WithString("format",
			mcp.Description("Output format (default html)"),
			mcp.Enum(formatNames()...),
		),
	)
	s.mcpServer.AddTool(extractTablesTool, s.handleExtractTables)

	layoutTextTool := mcp.NewTool(
		"pdf_layout_text",
		mcp.WithDescription(descriptions.GetToolDescription("pdf_layout_text")),
		mcp.WithString("path",
			mcp.Required(),
			mcp.Description("Path to the PDF file, absolute or relative to the configured directory"),
		),
		mcp.WithString("password", mcp.Description("Password of an encrypted PDF")),
		mcp.WithString("pages", mcp.Description("Comma-separated zero-based pages; empty for all")),
	)
	s.mcpServer.AddTool(layoutTextTool, s.handleLayoutText)

	validateFileTool := mcp.NewTool(
		"pdf_validate_file",
		mcp.WithDescription(descriptions.GetToolDescription("pdf_validate_file")),
		mcp.WithString("path",
			mcp.Required(),
			mcp.Description("Full path to the PDF file"),
		),
		mcp.WithString("password", mcp.Description("Password of an encrypted PDF")),
	)
	s.mcpServer.AddTool(validateFileTool, s.handleValidateFile)

	searchDirectoryTool := mcp.NewTool(
		"pdf_search_directory",
		mcp.WithDescription(descriptions.GetToolDescription("pdf_search_directory")),
		mcp.WithString("directory", mcp.Description("Directory to search (uses the configured one if empty)")),
		mcp.WithString("query", mcp.Description("Case-insensitive file name filter")),
	)
	s.mcpServer.AddTool(searchDirectoryTool, s.handleSearchDirectory)

	serverInfoTool := mcp.NewTool(
		"pdf_server_info",
		mcp.WithDescription(descriptions.GetToolDescription("pdf_server_info")),
	)
	s.mcpServer.AddTool(serverInfoTool, s.handleServerInfo)
}

func formatNames() []string {
	names := make([]string, len(render.Formats))
	for i, f := range render.Formats {
		names[i] = string(f)
	}
	return names
}

// optionalString reads an optional argument. Numbers are accepted where
// clients send a single page index unquoted.
func optionalString(args map[string]any, key string) string {
	switch v := args[key].(type) {
	case string:
		return v
	case float64:
		return strconv.Itoa(int(v))
	default:
		return ""
	}
}

func (s *Server) handleExtractTables(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	path, err := request.RequireString("path")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	args := request.GetArguments()

	format, err := render.ParseFormat(optionalString(args, "format"))
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	result, err := s.pdfService.ExtractTables(pdf.PDFExtractTablesRequest{
		Path:        path,
		Password:    optionalString(args, "password"),
		Pages:       optionalString(args, "pages"),
		ExceptPages: optionalString(args, "except_pages"),
		ExceptLines: optionalString(args, "except_lines"),
	})
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	var sb strings.Builder
	if format != render.FormatJSON && format != render.FormatYAML {
		fmt.Fprintf(&sb, "Extracted %d table(s) from %s (%d pages)\n\n", len(result.Tables), result.Path, result.PageCount)
	}
	if err := render.Tables(&sb, format, result.Tables); err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to render tables: %v", err)), nil
	}

	return mcp.NewToolResultText(sb.String()), nil
}

func (s *Server) handleLayoutText(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	path, err := request.RequireString("path")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	args := request.GetArguments()

	result, err := s.pdfService.LayoutText(pdf.PDFLayoutTextRequest{
		Path:     path,
		Password: optionalString(args, "password"),
		Pages:    optionalString(args, "pages"),
	})
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	var sb strings.Builder
	for _, page := range result.Pages {
		fmt.Fprintf(&sb, "--- Page %d ---\n", page.Index+1)
		sb.WriteString(page.String())
	}
	if len(result.Pages) == 0 {
		fmt.Fprintf(&sb, "No pages selected in %s (%d pages)\n", result.Path, result.PageCount)
	}

	return mcp.NewToolResultText(sb.String()), nil
}

func (s *Server) handleValidateFile(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	path, err := request.RequireString("path")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	result, err := s.pdfService.ValidateFile(pdf.PDFValidateFileRequest{
		Path:     path,
		Password: optionalString(request.GetArguments(), "password"),
	})
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	var responseText string
	if result.Valid {
		responseText = fmt.Sprintf("PDF file %s is valid and readable\nPages: %d\nVersion: %s\nEncrypted: %t",
			result.Path, result.PageCount, result.Version, result.Encrypted)
	} else {
		responseText = fmt.Sprintf("PDF validation failed for %s: %s", result.Path, result.Message)
	}

	return mcp.NewToolResultText(responseText), nil
}

func (s *Server) handleSearchDirectory(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := request.GetArguments()

	result, err := s.pdfService.SearchDirectory(pdf.PDFSearchDirectoryRequest{
		Directory: optionalString(args, "directory"),
		Query:     optionalString(args, "query"),
	})
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	if result.TotalCount == 0 {
		responseText := fmt.Sprintf("No PDF files found in directory: %s", result.Directory)
		if result.SearchQuery != "" {
			responseText += fmt.Sprintf(" (searched for: %s)", result.SearchQuery)
		}
		return mcp.NewToolResultText(responseText), nil
	}

	return mcp.NewToolResultText(formatSearchDirectoryResult(result)), nil
}

func formatSearchDirectoryResult(result *pdf.PDFSearchDirectoryResult) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Found %d PDF file(s) in directory: %s\n", result.TotalCount, result.Directory)
	if result.SearchQuery != "" {
		fmt.Fprintf(&sb, "Search query: %s\n", result.SearchQuery)
	}
	sb.WriteString("\nFiles:\n")

	for i, file := range result.Files {
		fmt.Fprintf(&sb, "%d. %s\n", i+1, file.Name)
		fmt.Fprintf(&sb, "   Path: %s\n", file.Path)
		fmt.Fprintf(&sb, "   Size: %d bytes\n", file.Size)
		fmt.Fprintf(&sb, "   Modified: %s\n", file.ModifiedTime)
	}

	return sb.String()
}

func (s *Server) handleServerInfo(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	result, err := s.pdfService.ServerInfo(s.config.ServerName, s.config.Version)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(formatServerInfoResult(result)), nil
}

func formatServerInfoResult(result *pdf.PDFServerInfoResult) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "%s v%s - Server Information\n", result.ServerName, result.Version)
	fmt.Fprintf(&sb, "Default Directory: %s\n", result.DefaultDirectory)
	fmt.Fprintf(&sb, "Max File Size: %d MB\n\n", result.MaxFileSize/(1024*1024))

	sb.WriteString("Available Tools:\n")
	for _, tool := range result.AvailableTools {
		fmt.Fprintf(&sb, "- %s\n", tool.Name)
	}

	fmt.Fprintf(&sb, "\nTable Formats: %s\n\n", strings.Join(formatNames(), ", "))

	fmt.Fprintf(&sb, "Directory Contents (%d PDF files found", len(result.DirectoryContents))
	if result.Truncated {
		sb.WriteString(", truncated")
	}
	if result.FromCache {
		fmt.Fprintf(&sb, ", cached %s ago", result.CacheAge.Round(time.Second))
	}
	sb.WriteString("):\n")
	for i, file := range result.DirectoryContents {
		if i == 10 {
			fmt.Fprintf(&sb, "   ... and %d more files\n", len(result.DirectoryContents)-10)
			break
		}
		fmt.Fprintf(&sb, "   %s (%d bytes)\n", file.Name, file.Size)
	}

	sb.WriteString("\n")
	sb.WriteString(result.UsageGuidance)
	return sb.String()
}

// Run starts the MCP server in the configured mode and blocks until ctx is
// done or the transport fails.
func (s *Server) Run(ctx context.Context) error {
	if s.config.IsServerMode() {
		return s.runServerMode(ctx)
	}
	return s.runStdioMode(ctx)
}

// runStdioMode serves the protocol on stdin/stdout. Logs must go to stderr.
func (s *Server) runStdioMode(ctx context.Context) error {
	s.logger.Debug().Str("dir", s.pdfService.Directory()).Msg("starting MCP server in stdio mode")
	return s.serveStdio(ctx, os.Stdin, os.Stdout)
}

func (s *Server) serveStdio(ctx context.Context, in io.Reader, out io.Writer) error {
	stdio := server.NewStdioServer(s.mcpServer)
	err := stdio.Listen(ctx, in, out)
	if err != nil && !errors.Is(err, context.Canceled) && !errors.Is(err, io.EOF) {
		return fmt.Errorf("failed to serve stdio: %w", err)
	}
	return nil
}

// runServerMode serves SSE on the configured address.
func (s *Server) runServerMode(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.config.Address())
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", s.config.Address(), err)
	}
	return s.serveHTTP(ctx, ln)
}

// newSSEServer builds the SSE transport. When httpServer is set, shutting
// the transport down closes open streams and then httpServer.
func (s *Server) newSSEServer(baseURL string, httpServer *http.Server) *server.SSEServer {
	opts := []server.SSEOption{server.WithBaseURL(baseURL)}
	if httpServer != nil {
		opts = append(opts, server.WithHTTPServer(httpServer))
	}
	return server.NewSSEServer(s.mcpServer, opts...)
}

// Router returns the HTTP routes of server mode: the SSE stream at /sse,
// client messages at /message and a liveness probe at /healthz.
func (s *Server) Router(sse *server.SSEServer) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		_, _ = io.WriteString(w, "ok\n")
	})
	r.Handle("/sse", sse.SSEHandler())
	r.Handle("/message", sse.MessageHandler())
	return r
}

func (s *Server) serveHTTP(ctx context.Context, ln net.Listener) error {
	httpServer := &http.Server{ReadHeaderTimeout: 10 * time.Second}
	sse := s.newSSEServer("http://"+ln.Addr().String(), httpServer)
	httpServer.Handler = s.Router(sse)

	errCh := make(chan error, 1)
	go func() {
		errCh <- httpServer.Serve(ln)
	}()
	s.logger.Info().Str("addr", ln.Addr().String()).Str("dir", s.pdfService.Directory()).
		Msg("MCP server listening")

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("server failed: %w", err)
	case <-ctx.Done():
	}

	s.logger.Info().Msg("shutting down MCP server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := sse.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown failed: %w", err)
	}
	return nil
}
