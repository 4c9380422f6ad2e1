package main

import (
	"os"

	"aetherscript/internal/ast"
	"aetherscript/internal/diag"
	"aetherscript/internal/diagfmt"
	"aetherscript/internal/parser"
	"aetherscript/internal/sema"
	"aetherscript/internal/source"
	"aetherscript/internal/trace"

	"github.com/spf13/cobra"
)

// noImportsLoader resolves no imports. A real driver would consult
// internal/project's module mapping to locate and parse an imported
// module's own token unit; wiring that up is a driver concern, not this
// thin command wrapper's (see DESIGN.md).
type noImportsLoader struct{}

func (noImportsLoader) Load(string) (*ast.Module, bool) { return nil, false }

func maxDiagnostics(cmd *cobra.Command) int {
	n, err := cmd.Root().PersistentFlags().GetInt("max-diagnostics")
	if err != nil {
		return 0
	}
	return n
}

// buildTracer constructs the Tracer requested by --trace/--trace-output.
// Callers must Close the returned tracer once the command is done with it.
func buildTracer(cmd *cobra.Command) (trace.Tracer, error) {
	flags := cmd.Root().PersistentFlags()
	levelStr, _ := flags.GetString("trace")
	level, err := trace.ParseLevel(levelStr)
	if err != nil {
		return nil, err
	}
	if level == trace.LevelOff {
		return trace.Nop, nil
	}
	output, _ := flags.GetString("trace-output")
	return trace.New(trace.Config{Level: level, Mode: trace.ModeStream, OutputPath: output})
}

func printBag(cmd *cobra.Command, bag *diag.Bag, fs *source.FileSet) {
	if bag.Len() == 0 {
		return
	}
	bag.Sort()
	opts := diagfmt.DefaultOpts()
	opts.Color = useColor(cmd, os.Stderr)
	opts.Width = diagfmt.DetectWidth(os.Stderr.Fd(), 0)
	diagfmt.Pretty(os.Stderr, bag, fs, opts)
}

// parseUnit loads path's tokens and parses them into an *ast.Module,
// reporting into bag. The returned Tracer received the parse phase's span
// and must be Closed by the caller once tracing is no longer needed.
func parseUnit(cmd *cobra.Command, path string) (*ast.Module, *source.FileSet, *diag.Bag, trace.Tracer, error) {
	toks, fs, fileID, err := loadTokenUnit(path)
	if err != nil {
		return nil, nil, nil, nil, err
	}
	tracer, err := buildTracer(cmd)
	if err != nil {
		return nil, nil, nil, nil, err
	}
	bag := diag.NewBag(maxDiagnostics(cmd))
	p := parser.New(fileID, toks, diag.BagReporter{Bag: bag})
	p.SetTracer(tracer)
	mod := p.ParseModule()
	return mod, fs, bag, tracer, nil
}

// analyzeUnit parses and then semantically analyzes path, reporting every
// diagnostic from both phases into one bag and both phases' spans into one
// tracer.
func analyzeUnit(cmd *cobra.Command, path string) (*sema.ModuleResult, *source.FileSet, *diag.Bag, trace.Tracer, error) {
	mod, fs, bag, tracer, err := parseUnit(cmd, path)
	if err != nil {
		return nil, nil, nil, nil, err
	}
	a := sema.NewAnalyzer(noImportsLoader{}, diag.BagReporter{Bag: bag})
	a.SetTracer(tracer)
	res := a.AnalyzeModule(mod)
	return res, fs, bag, tracer, nil
}
