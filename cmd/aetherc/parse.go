package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var parseCmd = &cobra.Command{
	Use:   "parse <tokens.json>",
	Short: "Parse a pre-tokenized compilation unit and report diagnostics",
	Args:  cobra.ExactArgs(1),
	RunE:  runParse,
}

func runParse(cmd *cobra.Command, args []string) error {
	mod, fs, bag, tracer, err := parseUnit(cmd, args[0])
	if err != nil {
		return err
	}
	defer tracer.Close()
	printBag(cmd, bag, fs)
	if bag.HasErrors() {
		return fmt.Errorf("parsing failed with errors")
	}

	quiet, _ := cmd.Root().PersistentFlags().GetBool("quiet")
	if !quiet {
		fmt.Fprintf(os.Stdout, "module %q: %d imports, %d functions, %d types, %d traits, %d impls\n",
			mod.Name, len(mod.Imports), len(mod.FunctionDefinitions), len(mod.TypeDefinitions),
			len(mod.TraitDefinitions), len(mod.ImplBlocks))
	}
	return nil
}
