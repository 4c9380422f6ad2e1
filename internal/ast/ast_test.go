package ast_test

import (
	"testing"

	"aetherscript/internal/ast"
)

func TestModuleExportsCollectsExportedFunctionsAndConstants(t *testing.T) {
	mod := &ast.Module{
		Name: "geometry",
		FunctionDefinitions: []*ast.Function{
			{Name: "area", Export: ast.ExportInfo{Exported: true, AsName: "area"}},
			{Name: "helper"},
		},
		ConstantDeclarations: []*ast.ConstantDecl{
			{Name: "Pi", Export: ast.ExportInfo{Exported: true, AsName: "Pi"}},
		},
	}

	exports := mod.Exports()
	if len(exports) != 2 {
		t.Fatalf("expected 2 exports, got %d: %+v", len(exports), exports)
	}
	if _, ok := exports["area"]; !ok {
		t.Fatalf("expected area to be exported")
	}
	if _, ok := exports["helper"]; ok {
		t.Fatalf("helper is not pub, should not be exported")
	}
	if _, ok := exports["Pi"]; !ok {
		t.Fatalf("expected Pi to be exported")
	}
}

func TestAnnotationFindAndPositional(t *testing.T) {
	ann := ast.Annotation{
		Name: "extern",
		Args: []ast.AnnotationArg{
			{Label: "library", Kind: ast.AnnotationArgString, Text: "libm"},
			{Kind: ast.AnnotationArgBool, Bool: true},
		},
	}

	arg, ok := ann.Find("library")
	if !ok || arg.Text != "libm" {
		t.Fatalf("expected to find library=libm, got %+v, %v", arg, ok)
	}
	if _, ok := ann.Find("symbol"); ok {
		t.Fatalf("did not expect to find unset label symbol")
	}
	pos := ann.Positional()
	if len(pos) != 1 || !pos[0].Bool {
		t.Fatalf("expected exactly one positional bool arg, got %+v", pos)
	}
}

func TestFixedIterationForRangeDefaultsToInclusiveFalse(t *testing.T) {
	stmt := ast.Stmt{
		Kind:        ast.StmtForRange,
		CounterName: "i",
		RangeLo:     &ast.Expr{Kind: ast.ExprLit, Lit: ast.Literal{Kind: ast.LitInt, Text: "0"}},
		RangeHi:     &ast.Expr{Kind: ast.ExprLit, Lit: ast.Literal{Kind: ast.LitInt, Text: "10"}},
		Body:        &ast.Block{},
	}
	if stmt.RangeIncl {
		t.Fatalf("zero value RangeIncl should be exclusive (..)")
	}
	if stmt.RangeLo.Lit.Text != "0" || stmt.RangeHi.Lit.Text != "10" {
		t.Fatalf("range bounds not preserved: %+v", stmt)
	}
}

func TestPatternWildcardVsBinding(t *testing.T) {
	wc := ast.Pattern{Kind: ast.PatternWildcard}
	bind := ast.Pattern{Kind: ast.PatternBinding, BindingName: "x"}

	if wc.Kind == bind.Kind {
		t.Fatalf("wildcard and binding must be distinct pattern kinds")
	}
	if bind.BindingName != "x" {
		t.Fatalf("expected binding name x, got %q", bind.BindingName)
	}
}
