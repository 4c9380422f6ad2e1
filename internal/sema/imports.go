package sema

import (
	"aetherscript/internal/ast"
	"aetherscript/internal/diag"
	"aetherscript/internal/symbols"
)

// resolveImports recursively analyzes each of mod's imports (exactly once,
// cached by the Analyzer) and inserts a Module symbol plus one symbol per
// export into the importing module's table (§4.3 step 3).
func (a *Analyzer) resolveImports(fc *funcChecker, mod *ast.Module) {
	for _, imp := range mod.Imports {
		alias := imp.Alias
		if alias == "" {
			alias = lastSegment(imp.Path)
		}
		dep, ok := a.loadCached(imp.Path)
		if !ok {
			fc.errf(diag.SemaImportError, imp.Span, "cannot resolve import %q", imp.Path)
			continue
		}

		exports := make(map[string]*symbols.Symbol, len(dep.Functions)+len(dep.Constants))
		for name, sig := range dep.Functions {
			exports[name] = &symbols.Symbol{Name: name, Kind: symbols.KindFunction, Type: sig.Return, Initialized: true, FFISymbol: sig.FFISymbol}
		}
		for name, ty := range dep.Constants {
			exports[name] = &symbols.Symbol{Name: name, Kind: symbols.KindConstant, Type: ty, Initialized: true}
		}
		for name, def := range dep.Defs.All() {
			fc.res.Defs.Add(def)
			exports[name] = &symbols.Symbol{Name: name, Kind: symbols.KindType}
		}
		for name, tr := range dep.Traits {
			fc.res.Traits[alias+"."+name] = tr
			fc.res.Traits[name] = tr
		}

		fc.res.Table.AddImport(alias, imp.Path, exports)
		fc.res.Table.AddSymbol(&symbols.Symbol{Name: alias, Kind: symbols.KindModule, Declared: imp.Span})
	}
}

func lastSegment(path string) string {
	last := path
	for i := 0; i < len(path); i++ {
		if path[i] == '.' {
			last = path[i+1:]
		}
	}
	return last
}
