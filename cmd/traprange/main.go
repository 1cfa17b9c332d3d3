// Command traprange recovers tables and text layout from PDF files. It runs
// one-shot extractions from the command line or serves the same operations
// as MCP tools.
package main

import (
	"fmt"
	"io"
	"os"
	"runtime"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/a3tai/traprange/internal/config"
	"github.com/a3tai/traprange/internal/logging"
)

var (
	version   = "dev"     // This will be set by build flags
	buildTime = "unknown" // This will be set by build flags
	gitCommit = "unknown" // This will be set by build flags
)

func main() {
	// A missing .env is not an error
	_ = godotenv.Load()

	if err := newRootCmd(os.Stdout, os.Stderr).Execute(); err != nil {
		log := logging.New(logging.Config{Level: config.DefaultLogLevel, Format: logging.FormatConsole})
		log.Error().Err(err).Msg("command failed")
		os.Exit(1)
	}
}

func newRootCmd(stdout, stderr io.Writer) *cobra.Command {
	root := &cobra.Command{
		Use:   "traprange",
		Short: "Recover tables and text layout from PDF files",
		Long: `traprange reads the positions of the characters on each PDF page and
rebuilds what the text extraction loses: table rows and columns, and the
horizontal layout of every line.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.SetOut(stdout)
	root.SetErr(stderr)

	root.AddCommand(
		newTablesCmd(),
		newLayoutCmd(),
		newServeCmd(),
		newVersionCmd(),
	)
	return root
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "TrapRange\n")
			fmt.Fprintf(out, "Version: %s\n", version)
			fmt.Fprintf(out, "Build Time: %s\n", buildTime)
			fmt.Fprintf(out, "Git Commit: %s\n", gitCommit)
			fmt.Fprintf(out, "Built with: %s\n", runtime.Version())
		},
	}
}
