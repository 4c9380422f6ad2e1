package sema

import (
	"aetherscript/internal/ast"
	"aetherscript/internal/symbols"
)

// releaseCallBorrows releases every borrow taken by an `&expr`/`&mut expr`
// argument of a call once the call statement finishes, matching the
// resource model's "borrows released after the call statement finishes"
// rule (§4.2, §4.3.5). checkStmt invokes this after a StmtExpr wrapping a
// Call/MethodCall whose arguments contain a borrow expression.
func releaseCallBorrows(table *symbols.Table, args []ast.Arg) {
	for _, a := range args {
		if a.Value != nil && a.Value.Kind == ast.ExprBorrow {
			if name := identName(a.Value.Operand); name != "" {
				table.ReleaseBorrow(name)
			}
		}
	}
}
