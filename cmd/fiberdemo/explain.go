package main

import (
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/vango-dev/fiber/internal/errors"
)

func explainCmd() *cobra.Command {
	var noColor bool

	cmd := &cobra.Command{
		Use:   "explain [code]",
		Short: "Describe engine error codes",
		Long: `Explain prints the message and suggestion registered for an error
code, or lists every code when called without arguments.

Examples:
  fiberdemo explain
  fiberdemo explain F003`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if noColor {
				errors.DisableColors()
			}
			code := ""
			if len(args) > 0 {
				code = args[0]
			}
			return runExplain(os.Stdout, code)
		},
	}

	cmd.Flags().BoolVar(&noColor, "no-color", false, "Disable colored output")

	return cmd
}

func runExplain(w io.Writer, code string) error {
	if code == "" {
		codes := errors.Codes()
		sort.Strings(codes)
		for _, c := range codes {
			t, _ := errors.Lookup(c)
			fmt.Fprintf(w, "%s  %-10s %s\n", c, t.Category, t.Message)
		}
		return nil
	}

	code = strings.ToUpper(code)
	if _, ok := errors.Lookup(code); !ok {
		return fmt.Errorf("unknown error code %q", code)
	}
	fmt.Fprint(w, errors.New(code).Format())
	return nil
}
