package sema

import (
	"aetherscript/internal/ast"
	"aetherscript/internal/diag"
	"aetherscript/internal/symbols"
	"aetherscript/internal/types"
)

// checkContracts resolves every `@pre`/`@post`/invariant condition attached
// to fn against a scope exposing its parameters, plus `return_value` for
// post-conditions (§4.3.7). A condition that fails to type-check as Bool is
// reported as the compound InvalidContract error.
func (fc *funcChecker) checkContracts(fn *ast.Function, table *symbols.Table, retType types.TypeID) {
	table.EnterScope(symbols.ScopeBlock)
	defer table.ExitScope()

	for _, c := range fn.Meta.Pre {
		fc.checkContractCond(c, table)
	}

	table.EnterScope(symbols.ScopeBlock)
	table.AddSymbol(symbols.NewVariable("return_value", retType, false, fn.Span))
	for _, c := range fn.Meta.Post {
		fc.checkContractCond(c, table)
	}
	table.ExitScope()

	for _, c := range fn.Meta.Invariants {
		fc.checkContractCond(c, table)
	}
}

func (fc *funcChecker) checkContractCond(c ast.Contract, table *symbols.Table) {
	if c.Cond == nil {
		fc.errf(diag.SemaInvalidContract, c.Span, "contract annotation has no condition expression")
		return
	}
	condType := fc.inferExprType(c.Cond, table)
	boolType := fc.checker.Interner.Primitive(types.PrimBool)
	if ok, _ := fc.checker.Compatible(boolType, condType); !ok {
		fc.errf(diag.SemaInvalidContract, c.Span, "contract condition must be a Bool expression")
	}
}
