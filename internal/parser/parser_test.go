package parser_test

import (
	"testing"

	"aetherscript/internal/ast"
	"aetherscript/internal/diag"
	"aetherscript/internal/parser"
	"aetherscript/internal/token"
)

func tk(kind token.Kind, text string) token.Token {
	return token.Token{Kind: kind, Text: text}
}

func ident(name string) token.Token { return tk(token.Ident, name) }

func parse(t *testing.T, toks []token.Token) (*ast.Module, *diag.Bag) {
	t.Helper()
	bag := diag.NewBag(0)
	p := parser.New(1, toks, diag.BagReporter{Bag: bag})
	return p.ParseModule(), bag
}

func TestParseFuncDeclWithReturnType(t *testing.T) {
	// func add(a: int, b: int) -> int { return a; }
	toks := []token.Token{
		tk(token.KwFunc, "func"), ident("add"), tk(token.LParen, "("),
		ident("a"), tk(token.Colon, ":"), tk(token.KwInt, "int"), tk(token.Comma, ","),
		ident("b"), tk(token.Colon, ":"), tk(token.KwInt, "int"), tk(token.RParen, ")"),
		tk(token.Arrow, "->"), tk(token.KwInt, "int"),
		tk(token.LBrace, "{"), tk(token.KwReturn, "return"), ident("a"), tk(token.Semicolon, ";"), tk(token.RBrace, "}"),
	}
	mod, bag := parse(t, toks)
	if bag.HasErrors() {
		t.Fatalf("unexpected errors: %+v", bag.Items())
	}
	if len(mod.FunctionDefinitions) != 1 {
		t.Fatalf("expected 1 function, got %d", len(mod.FunctionDefinitions))
	}
	fn := mod.FunctionDefinitions[0]
	if fn.Name != "add" || len(fn.Params) != 2 || fn.ReturnType == nil || fn.ReturnType.PrimitiveName != "int" {
		t.Fatalf("unexpected function shape: %+v", fn)
	}
}

func TestParseExternFunctionHasNoBody(t *testing.T) {
	// @extern(library="libm", symbol="sqrt") func sqrt(x: float64) -> float64;
	toks := []token.Token{
		tk(token.At, "@"), ident("extern"), tk(token.LParen, "("),
		ident("library"), tk(token.Assign, "="), tk(token.StringLit, "libm"), tk(token.Comma, ","),
		ident("symbol"), tk(token.Assign, "="), tk(token.StringLit, "sqrt"),
		tk(token.RParen, ")"),
		tk(token.KwFunc, "func"), ident("sqrt"), tk(token.LParen, "("),
		ident("x"), tk(token.Colon, ":"), tk(token.KwFloat64, "float64"), tk(token.RParen, ")"),
		tk(token.Arrow, "->"), tk(token.KwFloat64, "float64"), tk(token.Semicolon, ";"),
	}
	mod, bag := parse(t, toks)
	if bag.HasErrors() {
		t.Fatalf("unexpected errors: %+v", bag.Items())
	}
	if len(mod.ExternalFunctions) != 1 {
		t.Fatalf("expected 1 external function, got %d", len(mod.ExternalFunctions))
	}
	ext := mod.ExternalFunctions[0].Extern
	if ext == nil || ext.Library != "libm" || ext.Symbol != "sqrt" {
		t.Fatalf("unexpected extern info: %+v", ext)
	}
}

func TestParsePreconditionContract(t *testing.T) {
	// @pre({n > 0}, check=runtime) func f(n: int) -> int { return n; }
	toks := []token.Token{
		tk(token.At, "@"), ident("pre"), tk(token.LParen, "("),
		tk(token.LBrace, "{"), ident("n"), tk(token.Gt, ">"), tk(token.IntLit, "0"), tk(token.RBrace, "}"),
		tk(token.Comma, ","), ident("check"), tk(token.Assign, "="), ident("runtime"),
		tk(token.RParen, ")"),
		tk(token.KwFunc, "func"), ident("f"), tk(token.LParen, "("),
		ident("n"), tk(token.Colon, ":"), tk(token.KwInt, "int"), tk(token.RParen, ")"),
		tk(token.Arrow, "->"), tk(token.KwInt, "int"),
		tk(token.LBrace, "{"), tk(token.KwReturn, "return"), ident("n"), tk(token.Semicolon, ";"), tk(token.RBrace, "}"),
	}
	mod, bag := parse(t, toks)
	if bag.HasErrors() {
		t.Fatalf("unexpected errors: %+v", bag.Items())
	}
	fn := mod.FunctionDefinitions[0]
	if len(fn.Meta.Pre) != 1 || !fn.Meta.Pre[0].RuntimeCheck {
		t.Fatalf("expected one runtime-checked precondition, got %+v", fn.Meta.Pre)
	}
	cond := fn.Meta.Pre[0].Cond
	if cond == nil || cond.Kind != ast.ExprBinary || cond.BinOp != ast.OpGt {
		t.Fatalf("unexpected precondition expression: %+v", cond)
	}
}

func TestStructLiteralVsBlockDisambiguation(t *testing.T) {
	// let p = Point { x: 1 };
	toks := []token.Token{
		tk(token.KwLet, "let"), ident("p"), tk(token.Assign, "="),
		ident("Point"), tk(token.LBrace, "{"), ident("x"), tk(token.Colon, ":"), tk(token.IntLit, "1"), tk(token.RBrace, "}"),
		tk(token.Semicolon, ";"),
	}
	bag := diag.NewBag(0)
	p := parser.New(1, toks, diag.BagReporter{Bag: bag})
	stmt := p.ParseStmtForTest()
	if bag.HasErrors() {
		t.Fatalf("unexpected errors: %+v", bag.Items())
	}
	if stmt.Kind != ast.StmtLet || stmt.Init == nil || stmt.Init.Kind != ast.ExprStructLit || stmt.Init.StructName != "Point" {
		t.Fatalf("expected `Point { x: ... }` to parse as a struct literal initializer, got %+v", stmt)
	}
}

func TestFixedIterationForLoopRecognizesRangeOperator(t *testing.T) {
	// for i in 0..10 { }
	toks := []token.Token{
		tk(token.KwFor, "for"), ident("i"), tk(token.KwIn, "in"),
		tk(token.IntLit, "0"), tk(token.DotDot, ".."), tk(token.IntLit, "10"),
		tk(token.LBrace, "{"), tk(token.RBrace, "}"),
	}
	bag := diag.NewBag(0)
	p := parser.New(1, toks, diag.BagReporter{Bag: bag})
	stmt := p.ParseStmtForTest()
	if bag.HasErrors() {
		t.Fatalf("unexpected errors: %+v", bag.Items())
	}
	if stmt.Kind != ast.StmtForRange {
		t.Fatalf("expected a fixed-iteration loop, got kind %v", stmt.Kind)
	}
	if stmt.RangeIncl {
		t.Fatalf("0..10 should be exclusive")
	}
}

func TestMatchExpressionWithWildcardArm(t *testing.T) {
	// match x { 1 => { } _ => { } }
	toks := []token.Token{
		tk(token.KwMatch, "match"), ident("x"), tk(token.LBrace, "{"),
		tk(token.IntLit, "1"), tk(token.FatArrow, "=>"), tk(token.LBrace, "{"), tk(token.RBrace, "}"),
		tk(token.Underscore, "_"), tk(token.FatArrow, "=>"), tk(token.LBrace, "{"), tk(token.RBrace, "}"),
		tk(token.RBrace, "}"),
	}
	bag := diag.NewBag(0)
	p := parser.New(1, toks, diag.BagReporter{Bag: bag})
	e := p.ParseExprForTest()
	if bag.HasErrors() {
		t.Fatalf("unexpected errors: %+v", bag.Items())
	}
	if e.Kind != ast.ExprMatch || len(e.Arms) != 2 {
		t.Fatalf("unexpected match expression: %+v", e)
	}
	if e.Arms[1].Pattern.Kind != ast.PatternWildcard {
		t.Fatalf("expected second arm to be a wildcard pattern")
	}
}

func TestErrorRecoveryContinuesPastMalformedItem(t *testing.T) {
	// struct ) func g() -> int { return 0; }   -- malformed struct header, should recover
	toks := []token.Token{
		tk(token.KwStruct, "struct"), tk(token.RParen, ")"),
		tk(token.KwFunc, "func"), ident("g"), tk(token.LParen, "("), tk(token.RParen, ")"),
		tk(token.Arrow, "->"), tk(token.KwInt, "int"),
		tk(token.LBrace, "{"), tk(token.KwReturn, "return"), tk(token.IntLit, "0"), tk(token.Semicolon, ";"), tk(token.RBrace, "}"),
	}
	mod, bag := parse(t, toks)
	if !bag.HasErrors() {
		t.Fatalf("expected at least one diagnostic for the malformed struct header")
	}
	if len(mod.FunctionDefinitions) != 1 || mod.FunctionDefinitions[0].Name != "g" {
		t.Fatalf("expected parsing to recover and still find function g, got %+v", mod.FunctionDefinitions)
	}
}
