package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze <tokens.json>",
	Short: "Parse and semantically analyze a pre-tokenized compilation unit",
	Args:  cobra.ExactArgs(1),
	RunE:  runAnalyze,
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	res, fs, bag, tracer, err := analyzeUnit(cmd, args[0])
	if err != nil {
		return err
	}
	defer tracer.Close()
	printBag(cmd, bag, fs)
	if bag.HasErrors() {
		return fmt.Errorf("analysis failed with errors")
	}

	quiet, _ := cmd.Root().PersistentFlags().GetBool("quiet")
	if !quiet {
		fmt.Fprintf(os.Stdout, "module %q: %d functions, %d externs, %d dispatch entries, %d traits\n",
			res.Module.Name, len(res.Functions), len(res.Externs), len(res.Dispatch), len(res.Traits))
	}
	return nil
}
