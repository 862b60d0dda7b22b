// Command fiberdemo mounts a small todo application into an in-memory host
// and drives it with simulated input.
package main

import (
	"fmt"
	"os"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"github.com/vango-dev/fiber/internal/errors"
)

// Version information set at build time.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "fiberdemo",
		Short: "Drive the fiber reconciler against an in-memory host",
		Long: `fiberdemo mounts a todo application into an in-memory host tree.

It types and clicks through the application the way a user would and
prints the resulting HTML, the host mutation log and render metrics.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.AddCommand(
		runCmd(),
		renderCmd(),
		serveCmd(),
		initCmd(),
		explainCmd(),
		versionCmd(),
	)

	if !isTerminal(os.Stderr) {
		errors.DisableColors()
	}

	if err := rootCmd.Execute(); err != nil {
		errors.Fprint(os.Stderr, err)
		os.Exit(1)
	}
}

// isTerminal reports whether f is attached to a terminal.
func isTerminal(f *os.File) bool {
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

// success prints a success message.
func success(format string, args ...any) {
	mark := "✓"
	if isTerminal(os.Stdout) {
		mark = "\033[32m✓\033[0m"
	}
	fmt.Printf("%s %s\n", mark, fmt.Sprintf(format, args...))
}

// info prints an info message.
func info(format string, args ...any) {
	fmt.Printf("  %s\n", fmt.Sprintf(format, args...))
}
