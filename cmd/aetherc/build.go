package main

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"aetherscript/internal/ast"
	"aetherscript/internal/diag"
	"aetherscript/internal/parser"
	"aetherscript/internal/project"
	"aetherscript/internal/project/dag"
	"aetherscript/internal/sema"
	"aetherscript/internal/source"
	"aetherscript/internal/token"

	"github.com/spf13/cobra"
)

var buildCmd = &cobra.Command{
	Use:   "build <tokens.json> [tokens.json...]",
	Short: "order and analyze a multi-module project from its import graph",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runBuild,
}

// buildUnit is one project module: its parsed AST and the bag collecting
// its own diagnostics. Every unit's spans resolve against the build's one
// shared FileSet (see runBuild) rather than a FileSet of their own, since a
// project's modules must share file IDs to be reported together.
type buildUnit struct {
	meta project.ModuleMeta
	mod  *ast.Module
	bag  *diag.Bag
}

// loadTokenUnitInto reads a tokenUnit from path and installs its source
// text into fs, returning its tokens ready for parser.New. Unlike
// loadTokenUnit, the caller supplies the FileSet so that several units can
// be loaded into one FileSet and share file-ID space for diagnostics.
func loadTokenUnitInto(path string, fs *source.FileSet) ([]token.Token, source.FileID, error) {
	raw, err := os.ReadFile(path) // #nosec G304 -- path is an explicit CLI argument
	if err != nil {
		return nil, 0, fmt.Errorf("read %s: %w", path, err)
	}

	var unit tokenUnit
	if err := json.Unmarshal(raw, &unit); err != nil {
		return nil, 0, fmt.Errorf("%s: invalid token unit: %w", path, err)
	}

	displayPath := unit.Path
	if displayPath == "" {
		displayPath = path
	}

	fileID := fs.AddVirtual(displayPath, []byte(unit.Source))

	toks := make([]token.Token, len(unit.Tokens))
	for i, r := range unit.Tokens {
		toks[i] = token.Token{
			Kind: r.Kind,
			Text: r.Text,
			Span: source.Span{File: fileID, Start: r.Start, End: r.End},
		}
	}
	return toks, fileID, nil
}

// mapLoader serves already-parsed modules to sema.Analyzer by module path,
// standing in for the "invoking the module loader" step (§4.3 step 3) a
// real driver would satisfy by reading the imported path off disk.
type mapLoader struct {
	byPath map[string]*ast.Module
}

func (l mapLoader) Load(path string) (*ast.Module, bool) {
	mod, ok := l.byPath[path]
	return mod, ok
}

// modulePathFor derives a module's logical path: its own module declaration
// if it has one, otherwise the token unit's file path with the extension
// stripped.
func modulePathFor(tokenUnitPath string, mod *ast.Module) string {
	if mod.Name != "" {
		return mod.Name
	}
	clean := filepath.ToSlash(tokenUnitPath)
	return strings.TrimSuffix(clean, filepath.Ext(clean))
}

func runBuild(cmd *cobra.Command, args []string) error {
	tracer, err := buildTracer(cmd)
	if err != nil {
		return err
	}
	defer tracer.Close()

	fs := source.NewFileSet()
	units := make([]*buildUnit, 0, len(args))
	byPath := make(map[string]*ast.Module, len(args))

	for _, path := range args {
		toks, fileID, err := loadTokenUnitInto(path, fs)
		if err != nil {
			return err
		}
		bag := diag.NewBag(maxDiagnostics(cmd))
		p := parser.New(fileID, toks, diag.BagReporter{Bag: bag})
		p.SetTracer(tracer)
		mod := p.ParseModule()

		modPath, err := project.NormalizeModulePath(modulePathFor(path, mod))
		if err != nil {
			return fmt.Errorf("%s: %w", path, err)
		}

		imports := make([]project.ImportMeta, len(mod.Imports))
		for i, imp := range mod.Imports {
			normImp, err := project.NormalizeModulePath(imp.Path)
			if err != nil {
				return fmt.Errorf("%s: import %q: %w", path, imp.Path, err)
			}
			imports[i] = project.ImportMeta{Path: normImp, Span: imp.Span}
		}

		file := fs.Get(fileID)
		units = append(units, &buildUnit{
			meta: project.ModuleMeta{
				Name:        mod.Name,
				Path:        modPath,
				Span:        mod.Span,
				Imports:     imports,
				ContentHash: project.Digest(file.Hash),
			},
			mod: mod,
			bag: bag,
		})
		byPath[modPath] = mod
	}

	metas := make([]project.ModuleMeta, len(units))
	nodes := make([]dag.ModuleNode, len(units))
	for i, u := range units {
		metas[i] = u.meta
		nodes[i] = dag.ModuleNode{Meta: u.meta, Reporter: diag.BagReporter{Bag: u.bag}}
	}

	idx := dag.BuildIndex(metas)
	graph, slots := dag.BuildGraph(idx, nodes)
	topo := dag.ToposortKahn(graph)
	dag.ReportCycles(idx, slots, *topo)
	dag.ReportBrokenDeps(idx, slots)
	dag.ComputeModuleHashes(idx, graph, slots, topo)

	hadErrors := false
	for _, u := range units {
		printBag(cmd, u.bag, fs)
		if u.bag.HasErrors() {
			hadErrors = true
		}
	}
	if topo.Cyclic {
		return fmt.Errorf("build aborted: import cycle among %d module(s)", len(topo.Cycles))
	}
	if hadErrors {
		return fmt.Errorf("build aborted: parse or import errors")
	}

	// One Analyzer and one bag for the whole project: the Analyzer's own
	// cache (§4.3 step 3) then keeps a module imported by several others
	// from being re-analyzed, and every module's diagnostics land in a
	// single report instead of being repeated once per importer.
	loader := mapLoader{byPath: byPath}
	analysisBag := diag.NewBag(maxDiagnostics(cmd))
	a := sema.NewAnalyzer(loader, diag.BagReporter{Bag: analysisBag})
	a.SetTracer(tracer)

	order := make([]string, 0, len(topo.Order))
	for _, id := range topo.Order {
		slot := slots[int(id)]
		if !slot.Present {
			continue
		}
		a.AnalyzeModule(byPath[slot.Meta.Path])
		order = append(order, slot.Meta.Path)
	}

	printBag(cmd, analysisBag, fs)
	if analysisBag.HasErrors() {
		hadErrors = true
	}

	if hadErrors {
		return fmt.Errorf("build aborted: analysis errors")
	}

	quiet, _ := cmd.Root().PersistentFlags().GetBool("quiet")
	if !quiet {
		fmt.Fprintf(os.Stdout, "built %d module(s) in dependency order:\n", len(order))
		for _, id := range topo.Order {
			slot := slots[int(id)]
			if slot.Present {
				fmt.Fprintf(os.Stdout, "  %-30s hash=%x\n", slot.Meta.Path, slot.Meta.ModuleHash[:8])
			}
		}
	}
	return nil
}
