package sema

import (
	"aetherscript/internal/ast"
	"aetherscript/internal/diag"
	"aetherscript/internal/symbols"
)

// registerConstants type-checks each constant's initializer against its
// declared type (when given) and adds it as an initialized Constant symbol
// (§4.3 step 7).
func (a *Analyzer) registerConstants(fc *funcChecker, mod *ast.Module) {
	for _, c := range mod.ConstantDeclarations {
		valType := fc.inferExprType(c.Value, fc.res.Table)
		declared := valType
		if c.Type != nil {
			declared = fc.resolveTypeSyntax(c.Type)
			if ok, _ := fc.checker.Compatible(declared, valType); !ok {
				fc.errf(diag.SemaTypeMismatch, c.Span, "constant %q initializer does not match declared type", c.Name)
			}
		}
		fc.res.Constants[c.Name] = declared
		if !fc.res.Table.AddSymbol(&symbols.Symbol{Name: c.Name, Kind: symbols.KindConstant, Type: declared, Initialized: true, Declared: c.Span}) {
			fc.errf(diag.SemaDuplicateDefinition, c.Span, "constant %q is already defined in this module", c.Name)
		}
	}
}
