package abi_test

import (
	"path/filepath"
	"testing"

	"aetherscript/internal/abi"
	"aetherscript/internal/ast"
	"aetherscript/internal/diag"
	"aetherscript/internal/sema"
)

type nullLoader struct{}

func (nullLoader) Load(string) (*ast.Module, bool) { return nil, false }

func analyze(t *testing.T, mod *ast.Module) *sema.ModuleResult {
	t.Helper()
	bag := diag.NewBag(0)
	a := sema.NewAnalyzer(nullLoader{}, diag.BagReporter{Bag: bag})
	res := a.AnalyzeModule(mod)
	if bag.HasErrors() {
		t.Fatalf("module failed to analyze cleanly: %v", bag.Items())
	}
	return res
}

func int64Type() *ast.TypeSyntax {
	return &ast.TypeSyntax{Kind: ast.TypeSyntaxPrimitive, PrimitiveName: "int64"}
}

func TestGenerateEmptyModule(t *testing.T) {
	mod := &ast.Module{Name: "test"}
	res := analyze(t, mod)
	out := abi.Generate(res, "test.aeth")
	if out.Name != "test" {
		t.Fatalf("expected module name %q, got %q", "test", out.Name)
	}
	if len(out.Functions) != 0 || len(out.Types.Structs) != 0 {
		t.Fatalf("expected an empty module to produce no functions or structs, got %+v", out)
	}
}

func TestGenerateNativeFunctionMangledSymbol(t *testing.T) {
	mod := &ast.Module{
		Name: "MathUtils",
		FunctionDefinitions: []*ast.Function{{
			Name:       "add",
			Params:     []ast.Param{{Name: "a", Type: int64Type()}, {Name: "b", Type: int64Type()}},
			ReturnType: int64Type(),
			Export:     ast.ExportInfo{Exported: true},
			Body: &ast.Block{Stmts: []ast.Stmt{
				{Kind: ast.StmtReturn, ReturnValue: &ast.Expr{
					Kind: ast.ExprBinary, BinOp: ast.OpAdd,
					Left:  &ast.Expr{Kind: ast.ExprIdent, Name: "a"},
					Right: &ast.Expr{Kind: ast.ExprIdent, Name: "b"},
				}},
			}},
		}},
	}
	res := analyze(t, mod)
	out := abi.Generate(res, "math_utils.aeth")

	if len(out.Functions) != 1 {
		t.Fatalf("expected exactly one function, got %d", len(out.Functions))
	}
	fn := out.Functions[0]
	if fn.Kind.Tag != abi.KindNative {
		t.Fatalf("expected a non-generic function to be Native, got tag %v", fn.Kind.Tag)
	}
	if fn.Kind.Symbol != "MathUtils.add" {
		t.Fatalf("expected symbol %q, got %q", "MathUtils.add", fn.Kind.Symbol)
	}
	var sawExport bool
	for _, a := range fn.Attributes {
		if a == "export" {
			sawExport = true
		}
	}
	if !sawExport {
		t.Fatalf("expected the export attribute to be set for a pub function, got %v", fn.Attributes)
	}
}

func TestGenerateGenericFunctionUsesSymbolPrefix(t *testing.T) {
	mod := &ast.Module{
		Name: "main",
		FunctionDefinitions: []*ast.Function{{
			Name:          "identity",
			GenericParams: []ast.GenericParam{{Name: "T"}},
			Params:        []ast.Param{{Name: "x", Type: &ast.TypeSyntax{Kind: ast.TypeSyntaxNamed, Name: "T"}}},
			ReturnType:    &ast.TypeSyntax{Kind: ast.TypeSyntaxNamed, Name: "T"},
			Body: &ast.Block{Stmts: []ast.Stmt{
				{Kind: ast.StmtReturn, ReturnValue: &ast.Expr{Kind: ast.ExprIdent, Name: "x"}},
			}},
		}},
	}
	res := analyze(t, mod)
	out := abi.Generate(res, "main.aeth")

	fn := out.Functions[0]
	if fn.Kind.Tag != abi.KindGeneric {
		t.Fatalf("expected a generic function to produce a Generic kind, got tag %v", fn.Kind.Tag)
	}
	if fn.Kind.SymbolPrefix != "main.identity" || !fn.Kind.HasMir {
		t.Fatalf("expected symbol_prefix %q with has_mir=true, got %+v", "main.identity", fn.Kind)
	}
}

func TestGenerateStructPreservesDeclarationFieldOrder(t *testing.T) {
	mod := &ast.Module{
		Name: "main",
		TypeDefinitions: []*ast.TypeDeclSyntax{{
			Kind: ast.TypeDeclStruct,
			Name: "Point",
			Fields: []ast.FieldSyntax{
				{Name: "x", Type: int64Type()},
				{Name: "y", Type: int64Type()},
			},
		}},
	}
	res := analyze(t, mod)
	out := abi.Generate(res, "main.aeth")

	if len(out.Types.Structs) != 1 {
		t.Fatalf("expected exactly one struct, got %d", len(out.Types.Structs))
	}
	s := out.Types.Structs[0]
	if len(s.Fields) != 2 || s.Fields[0].Name != "x" || s.Fields[1].Name != "y" {
		t.Fatalf("expected field order [x, y] preserved, got %+v", s.Fields)
	}
}

func TestGenerateEnumVariantsGetPositionalDiscriminantsAndFieldNames(t *testing.T) {
	mod := &ast.Module{
		Name: "main",
		TypeDefinitions: []*ast.TypeDeclSyntax{{
			Kind: ast.TypeDeclEnum,
			Name: "Shape",
			Variants: []ast.VariantSyntax{
				{Name: "Circle", AssociatedTypes: []*ast.TypeSyntax{int64Type()}},
				{Name: "Empty"},
			},
		}},
	}
	res := analyze(t, mod)
	out := abi.Generate(res, "main.aeth")

	e := out.Types.Enums[0]
	if e.Variants[0].Discriminant != 0 || e.Variants[1].Discriminant != 1 {
		t.Fatalf("expected positional discriminants 0, 1, got %+v", e.Variants)
	}
	if len(e.Variants[0].Fields) != 1 || e.Variants[0].Fields[0].Name != "_0" {
		t.Fatalf("expected the Circle variant's sole field to be named _0, got %+v", e.Variants[0].Fields)
	}
}

func TestGenerateTraitImplMangledMethodSymbol(t *testing.T) {
	mod := &ast.Module{
		Name: "main",
		TraitDefinitions: []*ast.TraitDefinition{{
			Name: "Greeter",
			Methods: []ast.TraitMethodSig{
				{Name: "greet", ReturnType: int64Type()},
			},
		}},
		TypeDefinitions: []*ast.TypeDeclSyntax{{Kind: ast.TypeDeclStruct, Name: "Person"}},
		ImplBlocks: []*ast.ImplBlock{{
			Trait:   &ast.TraitRef{Name: "Greeter"},
			ForType: &ast.TypeSyntax{Kind: ast.TypeSyntaxNamed, Name: "Person"},
			Methods: []*ast.Function{{
				Name:       "greet",
				Params:     []ast.Param{{Name: "self"}},
				ReturnType: int64Type(),
				Body: &ast.Block{Stmts: []ast.Stmt{
					{Kind: ast.StmtReturn, ReturnValue: &ast.Expr{Kind: ast.ExprLit, Lit: ast.Literal{Kind: ast.LitInt, Text: "1"}}},
				}},
			}},
		}},
	}
	res := analyze(t, mod)
	out := abi.Generate(res, "main.aeth")

	if len(out.Impls) != 1 {
		t.Fatalf("expected exactly one impl, got %d", len(out.Impls))
	}
	impl := out.Impls[0]
	if len(impl.Methods) != 1 || impl.Methods[0].Symbol != "main.Greeter__greet" {
		t.Fatalf("expected mangled method symbol %q, got %+v", "main.Greeter__greet", impl.Methods)
	}
}

func TestPrintExprFullyParenthesizesBinaryOperators(t *testing.T) {
	mod := &ast.Module{
		Name: "main",
		FunctionDefinitions: []*ast.Function{{
			Name: "addPositive",
			Meta: ast.Metadata{Pre: []ast.Contract{
				{Cond: &ast.Expr{
					Kind: ast.ExprBinary, BinOp: ast.OpGt,
					Left:  &ast.Expr{Kind: ast.ExprIdent, Name: "n"},
					Right: &ast.Expr{Kind: ast.ExprLit, Lit: ast.Literal{Kind: ast.LitInt, Text: "0"}},
				}},
			}},
			Params: []ast.Param{{Name: "n", Type: int64Type()}},
			Body:   &ast.Block{},
		}},
	}
	res := analyze(t, mod)
	out := abi.Generate(res, "main.aeth")

	fn := out.Functions[0]
	if len(fn.Contracts.Preconditions) != 1 {
		t.Fatalf("expected one precondition, got %d", len(fn.Contracts.Preconditions))
	}
	if got := fn.Contracts.Preconditions[0].Expr; got != "(n > 0)" {
		t.Fatalf("expected fully parenthesized %q, got %q", "(n > 0)", got)
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	mod := &ast.Module{
		Name: "main",
		FunctionDefinitions: []*ast.Function{{
			Name: "noop", Body: &ast.Block{},
		}},
	}
	res := analyze(t, mod)
	out := abi.Generate(res, "main.aeth")

	path := filepath.Join(t.TempDir(), "main.abi.mp")
	if err := abi.Save(out, path); err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	loaded, err := abi.Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if loaded.Name != out.Name || len(loaded.Functions) != len(out.Functions) {
		t.Fatalf("round trip mismatch: got %+v, want %+v", loaded, out)
	}
}
