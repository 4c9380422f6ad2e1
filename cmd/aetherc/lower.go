package main

import (
	"fmt"
	"os"

	"aetherscript/internal/mir"

	"github.com/spf13/cobra"
)

var lowerCmd = &cobra.Command{
	Use:   "lower <tokens.json>",
	Short: "Parse, analyze, and lower a pre-tokenized compilation unit to MIR",
	Args:  cobra.ExactArgs(1),
	RunE:  runLower,
}

func runLower(cmd *cobra.Command, args []string) error {
	res, fs, bag, tracer, err := analyzeUnit(cmd, args[0])
	if err != nil {
		return err
	}
	defer tracer.Close()
	printBag(cmd, bag, fs)
	if bag.HasErrors() {
		// Per §7, MIR lowering assumes semantic success; a module that
		// failed analysis is never handed to it.
		return fmt.Errorf("lowering skipped: analysis failed with errors")
	}

	prog := mir.LowerModuleTraced(res, tracer)

	quiet, _ := cmd.Root().PersistentFlags().GetBool("quiet")
	if !quiet {
		fmt.Fprintf(os.Stdout, "lowered %q: %d functions\n", res.Module.Name, len(prog.Funcs))
	}
	return nil
}
