package sema

import (
	"aetherscript/internal/ast"
	"aetherscript/internal/diag"
	"aetherscript/internal/source"
	"aetherscript/internal/symbols"
	"aetherscript/internal/trace"
	"aetherscript/internal/types"

	"golang.org/x/sync/singleflight"
)

// ModuleLoader resolves an import path to its parsed module. Producing that
// module (reading files, following a search path) is the module loader's
// job, outside this package (§4.3 step 3 says "invoking the module loader").
type ModuleLoader interface {
	Load(path string) (*ast.Module, bool)
}

// FunctionSig is a resolved function signature, enough to check calls
// against without re-walking the declaration (§4.3 step 9; §4.3.4).
type FunctionSig struct {
	Name          string
	GenericParams []string
	Params        []types.TypeID
	Return        types.TypeID
	Variadic      bool
	FFISymbol     string
	IsExtern      bool
}

// DispatchKey identifies one (receiver_type, method_name) dispatch entry
// (§4.3 step 6; §4.3.4).
type DispatchKey struct {
	Receiver types.TypeID
	Method   string
}

// DispatchEntry is the resolved target of a method call.
type DispatchEntry struct {
	Symbol string // namespaced symbol name, e.g. "TraitName::method" or "ReceiverType::method"
	Sig    FunctionSig
}

// ModuleResult is everything AnalyzeModule produces for one module: enough
// for another module's import step to build export symbols, and enough for
// internal/mir to lower function bodies.
type ModuleResult struct {
	Module       *ast.Module
	Table        *symbols.Table
	Interner     *types.Interner // shared across every module analyzed by the owning Analyzer; internal/mir dereferences TypeIDs through this
	Defs         *types.Registry
	Functions    map[string]*FunctionSig
	Externs      map[string]*FunctionSig
	Constants    map[string]types.TypeID
	Traits       map[string]*ast.TraitDefinition
	Dispatch     map[DispatchKey]DispatchEntry
	Captures     map[source.Span][]string // Concurrent block -> sorted free-variable names (§4.3.6)
	ExprTypes    map[*ast.Expr]types.TypeID
	Diagnostics  *diag.Bag
}

// Analyzer drives the module analysis pipeline (§4.3). One Analyzer can
// analyze many modules, caching each by name so an import reached from
// multiple modules is only analyzed once (§4.3 step 3: "exactly once
// (cached)").
type Analyzer struct {
	loader  ModuleLoader
	interner *types.Interner
	rep     diag.Reporter
	tracer  trace.Tracer

	cache map[string]*ModuleResult
	group singleflight.Group
}

// NewAnalyzer creates an Analyzer backed by loader for cross-module imports.
// rep receives every diagnostic from every module analyzed through it.
func NewAnalyzer(loader ModuleLoader, rep diag.Reporter) *Analyzer {
	if rep == nil {
		rep = diag.NopReporter{}
	}
	return &Analyzer{
		loader:   loader,
		interner: types.NewInterner(),
		rep:      rep,
		tracer:   trace.Nop,
		cache:    make(map[string]*ModuleResult),
	}
}

// SetTracer attaches t as the destination for this analyzer's phase and
// per-module spans. A nil t disables tracing.
func (a *Analyzer) SetTracer(t trace.Tracer) {
	if t == nil {
		t = trace.Nop
	}
	a.tracer = t
}

// AnalyzeModule runs the full 13-step pipeline (§4.3) over mod.
func (a *Analyzer) AnalyzeModule(mod *ast.Module) *ModuleResult {
	if cached, ok := a.cache[mod.Name]; ok {
		return cached
	}

	span := trace.Begin(a.tracer, trace.ScopePass, "sema", 0)
	defer func() { span.End(mod.Name) }()
	moduleSpan := trace.Begin(a.tracer, trace.ScopeModule, "analyze_module:"+mod.Name, span.ID())
	defer func() { moduleSpan.End("") }()

	checker := types.NewChecker(a.interner, types.NewRegistry(), mod.Name) // step 1

	table := symbols.NewTable(checker.Defs)
	table.EnterScope(symbols.ScopeModule) // step 2

	res := &ModuleResult{
		Module:      mod,
		Table:       table,
		Interner:    a.interner,
		Defs:        checker.Defs,
		Functions:   make(map[string]*FunctionSig),
		Externs:     make(map[string]*FunctionSig),
		Constants:   make(map[string]types.TypeID),
		Traits:      make(map[string]*ast.TraitDefinition),
		Dispatch:    make(map[DispatchKey]DispatchEntry),
		Captures:    make(map[source.Span][]string),
		ExprTypes:   make(map[*ast.Expr]types.TypeID),
		Diagnostics: diag.NewBag(0),
	}
	a.cache[mod.Name] = res // insert before recursing: a cyclic import resolves to a partial result rather than looping

	fc := &funcChecker{a: a, checker: checker, res: res, rep: a.rep}

	a.resolveImports(fc, mod)           // step 3
	a.registerTypeDefinitions(fc, mod)  // step 4
	a.registerTraits(fc, mod)           // step 5
	a.processImplBlocks(fc, mod)        // step 6
	a.registerConstants(fc, mod)        // step 7
	a.registerExternalFunctions(fc, mod) // step 8
	a.predeclareFunctionSignatures(fc, mod) // step 9

	for _, fn := range mod.FunctionDefinitions { // step 10
		fc.analyzeFunctionBody(fn)
	}

	a.validateExports(fc, mod) // step 11
	a.runCaptureAnalysis(fc, mod) // step 12

	table.ExitScope() // step 13
	return res
}

// loadCached resolves path through the shared loader exactly once per
// process, even under concurrent callers, using a singleflight group keyed
// by the import path (§4.3 step 3; grounded on golang.org/x/sync/singleflight).
func (a *Analyzer) loadCached(path string) (*ModuleResult, bool) {
	if cached, ok := a.cache[path]; ok {
		return cached, true
	}
	span := trace.Begin(a.tracer, trace.ScopeModule, "analyze_import:"+path, 0)
	v, err, _ := a.group.Do(path, func() (any, error) {
		mod, ok := a.loader.Load(path)
		if !ok {
			return nil, nil
		}
		return a.AnalyzeModule(mod), nil
	})
	if err != nil || v == nil {
		span.End("unresolved")
		return nil, false
	}
	span.End("ok")
	return v.(*ModuleResult), true
}
