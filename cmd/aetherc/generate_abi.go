package main

import (
	"fmt"
	"os"

	"aetherscript/internal/abi"

	"github.com/spf13/cobra"
)

var generateAbiCmd = &cobra.Command{
	Use:   "generate-abi <tokens.json>",
	Short: "Parse, analyze, and generate an ABI module, writing it to --out",
	Args:  cobra.ExactArgs(1),
	RunE:  runGenerateAbi,
}

func init() {
	generateAbiCmd.Flags().String("out", "", "output path for the ABI artifact (required)")
}

func runGenerateAbi(cmd *cobra.Command, args []string) error {
	out, err := cmd.Flags().GetString("out")
	if err != nil {
		return err
	}
	if out == "" {
		return fmt.Errorf("--out is required")
	}

	res, fs, bag, tracer, err := analyzeUnit(cmd, args[0])
	if err != nil {
		return err
	}
	defer tracer.Close()
	printBag(cmd, bag, fs)
	if bag.HasErrors() {
		return fmt.Errorf("ABI generation skipped: analysis failed with errors")
	}

	mod := abi.GenerateTraced(res, args[0], tracer)
	if err := abi.Save(mod, out); err != nil {
		return fmt.Errorf("writing ABI artifact: %w", err)
	}

	quiet, _ := cmd.Root().PersistentFlags().GetBool("quiet")
	if !quiet {
		fmt.Fprintf(os.Stdout, "wrote ABI module %q to %s\n", mod.Name, out)
	}
	return nil
}
