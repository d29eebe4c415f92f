package main

import (
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"loupe/internal/version"
)

var rootCmd = &cobra.Command{
	Use:   "loupe",
	Short: "Multi-language static analysis engine",
	Long:  `Loupe normalizes heterogeneous syntax trees into one model and runs rule analyzers over it`,
}

func main() {
	rootCmd.Version = version.Version

	rootCmd.AddCommand(analyzeCmd)
	rootCmd.AddCommand(languagesCmd)
	rootCmd.AddCommand(versionCmd)

	rootCmd.PersistentFlags().String("color", "auto", "colorize output (auto|on|off)")
	rootCmd.PersistentFlags().Bool("quiet", false, "suppress non-essential output")
	rootCmd.PersistentFlags().Bool("timings", false, "show timing information")

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
	os.Exit(exitCode)
}

// exitCode is set by subcommands that finish successfully but want a
// non-zero process status (analyze with high-severity findings).
var exitCode int

func isTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}

// colorEnabled resolves the persistent --color flag against the terminal.
func colorEnabled(cmd *cobra.Command, f *os.File) bool {
	mode, err := cmd.Root().PersistentFlags().GetString("color")
	if err != nil {
		mode = "auto"
	}
	switch mode {
	case "on":
		return true
	case "off":
		return false
	default:
		return isTerminal(f)
	}
}
