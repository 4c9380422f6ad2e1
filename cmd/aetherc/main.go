// Command aetherc is a thin wrapper around the compiler front-end/mid-end
// library: it wires cobra flags to parser.New, sema.NewAnalyzer, mir.LowerModule,
// and abi.Generate, and prints whatever diag.Bag each call produces through
// internal/diagfmt. It contains no parsing, analysis, or lowering logic of its
// own — per §6 the tokenizer, backend, and linker are external collaborators,
// so every subcommand here reads an already-tokenized unit from disk (see
// tokens.go) rather than lexing source text itself. The build subcommand
// additionally orders a multi-unit project through internal/project/dag
// before handing each module to the same analyzer used by analyze.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"
)

var rootCmd = &cobra.Command{
	Use:   "aetherc",
	Short: "AetherScript front-end/mid-end toolchain",
	Long:  "aetherc drives the AetherScript parser, semantic analyzer, MIR lowering, and ABI generator over a pre-tokenized compilation unit.",
}

func main() {
	rootCmd.AddCommand(parseCmd)
	rootCmd.AddCommand(analyzeCmd)
	rootCmd.AddCommand(lowerCmd)
	rootCmd.AddCommand(generateAbiCmd)
	rootCmd.AddCommand(buildCmd)

	rootCmd.PersistentFlags().String("color", "auto", "colorize diagnostic output (auto|on|off)")
	rootCmd.PersistentFlags().Bool("quiet", false, "suppress non-diagnostic output")
	rootCmd.PersistentFlags().Int("max-diagnostics", 0, "maximum number of diagnostics to collect (0 = unbounded)")
	rootCmd.PersistentFlags().String("trace", "off", "phase-boundary tracing level (off|error|phase|detail|debug)")
	rootCmd.PersistentFlags().String("trace-output", "-", "trace output path ('-' for stderr)")

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func isTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}

// useColor resolves the --color flag (auto|on|off) against whether w looks
// like a terminal.
func useColor(cmd *cobra.Command, w *os.File) bool {
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
		return isTerminal(w)
	}
}
