package sema

import (
	"aetherscript/internal/ast"
	"aetherscript/internal/diag"
)

// registerExternalFunctions registers every `@extern` declaration's
// signature, validating the arity rule the variadic flag implies: a
// variadic extern accepts at least its declared fixed parameters; a
// non-variadic one requires an exact match at call sites (enforced later,
// in calls.go) (§4.3.2).
func (a *Analyzer) registerExternalFunctions(fc *funcChecker, mod *ast.Module) {
	for _, fn := range mod.ExternalFunctions {
		sig := sigFromFunction(fc, fn)
		if fn.Extern.Library == "" {
			fc.errf(diag.SemaMalformedConstruct, fn.Span, "@extern function %q is missing a library attribute", fn.Name)
		}
		fc.res.Externs[fn.Name] = sig
		fc.res.Functions[fn.Name] = sig
		if !fc.res.Table.AddSymbolToGlobal(symbolFromSig(fn, sig)) {
			fc.errf(diag.SemaDuplicateDefinition, fn.Span, "function %q is already defined in this module", fn.Name)
		}
	}
}
