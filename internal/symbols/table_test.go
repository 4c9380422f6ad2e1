package symbols_test

import (
	"testing"

	"aetherscript/internal/source"
	"aetherscript/internal/symbols"
	"aetherscript/internal/types"
)

func TestShadowingAcrossScopesAllowed(t *testing.T) {
	tbl := symbols.NewTable(types.NewRegistry())
	intT := types.NewInterner().Primitive(types.PrimInt64)

	if !tbl.AddSymbol(symbols.NewVariable("x", intT, false, source.Span{})) {
		t.Fatalf("first add of x should succeed")
	}
	tbl.EnterScope(symbols.ScopeBlock)
	if !tbl.AddSymbol(symbols.NewVariable("x", intT, true, source.Span{})) {
		t.Fatalf("shadowing x in an inner scope should succeed")
	}
	sym, ok := tbl.LookupSymbol("x")
	if !ok || !sym.Mutable {
		t.Fatalf("lookup should resolve to the innermost (mutable) x")
	}
	tbl.ExitScope()
	sym, ok = tbl.LookupSymbol("x")
	if !ok || sym.Mutable {
		t.Fatalf("after exiting the inner scope, x should resolve to the outer (immutable) binding")
	}
}

func TestDuplicateInSameScopeRejected(t *testing.T) {
	tbl := symbols.NewTable(types.NewRegistry())
	intT := types.NewInterner().Primitive(types.PrimInt64)

	if !tbl.AddSymbol(symbols.NewVariable("x", intT, false, source.Span{})) {
		t.Fatalf("first add should succeed")
	}
	if tbl.AddSymbol(symbols.NewVariable("x", intT, false, source.Span{})) {
		t.Fatalf("re-adding x in the same scope must fail")
	}
}

func TestBorrowStateMachine(t *testing.T) {
	tbl := symbols.NewTable(types.NewRegistry())
	intT := types.NewInterner().Primitive(types.PrimInt64)
	tbl.AddSymbol(symbols.NewVariable("v", intT, true, source.Span{}))

	if err := tbl.BorrowVariable("v"); err != nil {
		t.Fatalf("first shared borrow should succeed: %v", err)
	}
	if err := tbl.BorrowVariable("v"); err != nil {
		t.Fatalf("second shared borrow should succeed: %v", err)
	}
	if err := tbl.BorrowVariableMut("v"); err == nil {
		t.Fatalf("mutable borrow while shared-borrowed must fail")
	}
	tbl.ReleaseBorrow("v")
	tbl.ReleaseBorrow("v")

	if err := tbl.BorrowVariableMut("v"); err != nil {
		t.Fatalf("mutable borrow after releases should succeed: %v", err)
	}
	if err := tbl.BorrowVariable("v"); err == nil {
		t.Fatalf("shared borrow while mutably-borrowed must fail")
	}
}

func TestQualifiedLookupThroughImport(t *testing.T) {
	tbl := symbols.NewTable(types.NewRegistry())
	intT := types.NewInterner().Primitive(types.PrimInt64)
	tbl.AddImport("mathlib", "std/math", map[string]*symbols.Symbol{
		"sqrt": {Name: "sqrt", Kind: symbols.KindFunction, Type: intT},
	})

	sym, ok := tbl.LookupSymbol("mathlib.sqrt")
	if !ok || sym.Name != "sqrt" {
		t.Fatalf("qualified lookup through import alias should resolve, got %+v, %v", sym, ok)
	}
}
