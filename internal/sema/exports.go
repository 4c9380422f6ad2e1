package sema

import (
	"aetherscript/internal/ast"
	"aetherscript/internal/diag"
)

// validateExports verifies that every name mod declares as `pub` resolves
// to a symbol or trait actually registered in this module (§4.3 step 11).
func (a *Analyzer) validateExports(fc *funcChecker, mod *ast.Module) {
	for name, info := range mod.Exports() {
		_ = info
		if _, ok := fc.res.Functions[name]; ok {
			continue
		}
		if _, ok := fc.res.Constants[name]; ok {
			continue
		}
		if _, ok := fc.res.Table.LookupTypeDefinition(name); ok {
			continue
		}
		if _, ok := fc.res.Traits[name]; ok {
			continue
		}
		fc.errf(diag.SemaUndefinedSymbol, mod.Span, "exported name %q does not resolve to any declaration in this module", name)
	}
}
