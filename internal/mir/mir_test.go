package mir_test

import (
	"testing"

	"aetherscript/internal/ast"
	"aetherscript/internal/diag"
	"aetherscript/internal/mir"
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

func ident(name string) *ast.Expr { return &ast.Expr{Kind: ast.ExprIdent, Name: name} }

func intLit(text string) *ast.Expr {
	return &ast.Expr{Kind: ast.ExprLit, Lit: ast.Literal{Kind: ast.LitInt, Text: text}}
}

func TestLowerIdentityFunctionReturnsParamByCopy(t *testing.T) {
	mod := &ast.Module{
		Name: "main",
		FunctionDefinitions: []*ast.Function{{
			Name:       "identity",
			Params:     []ast.Param{{Name: "x", Type: int64Type()}},
			ReturnType: int64Type(),
			Body: &ast.Block{Stmts: []ast.Stmt{
				{Kind: ast.StmtReturn, ReturnValue: ident("x")},
			}},
		}},
	}
	res := analyze(t, mod)
	prog := mir.LowerModule(res)

	fn, ok := prog.Lookup("identity")
	if !ok {
		t.Fatalf("expected a lowered function named identity")
	}
	if fn.ParamCount != 1 {
		t.Fatalf("expected 1 parameter, got %d", fn.ParamCount)
	}
	if fn.ReturnLocal == mir.NoLocalID {
		t.Fatalf("expected a return local to be allocated for a non-void function")
	}
	entry := fn.Blocks[fn.Entry]
	if entry.Term.Kind != mir.TermReturn {
		t.Fatalf("expected the entry block to terminate in Return, got %v", entry.Term.Kind)
	}
	if !entry.Term.Return.HasValue {
		t.Fatalf("expected the return terminator to carry a value")
	}

	// The assignment into the return local should copy the parameter local
	// directly, with no intervening arithmetic.
	var sawCopyFromParam bool
	for _, s := range entry.Stmts {
		if s.Kind != mir.StmtAssign {
			continue
		}
		if s.Assign.Dst.Local == fn.ReturnLocal && s.Assign.Src.Kind == mir.RvalueUse &&
			s.Assign.Src.Use.Kind == mir.OperandCopy && s.Assign.Src.Use.Place.Local == mir.LocalID(0) {
			sawCopyFromParam = true
		}
	}
	if !sawCopyFromParam {
		t.Fatalf("expected return value to be assigned from the parameter local by copy, stmts: %+v", entry.Stmts)
	}
}

func TestLowerIfElseEmitsBooleanSwitchInt(t *testing.T) {
	mod := &ast.Module{
		Name: "main",
		FunctionDefinitions: []*ast.Function{{
			Name:       "sign",
			Params:     []ast.Param{{Name: "x", Type: int64Type()}},
			ReturnType: int64Type(),
			Body: &ast.Block{Stmts: []ast.Stmt{
				{Kind: ast.StmtIf,
					Cond: &ast.Expr{Kind: ast.ExprBinary, BinOp: ast.OpGt, Left: ident("x"), Right: intLit("0")},
					Then: &ast.Block{Stmts: []ast.Stmt{{Kind: ast.StmtReturn, ReturnValue: intLit("1")}}},
					Else: &ast.Block{Stmts: []ast.Stmt{{Kind: ast.StmtReturn, ReturnValue: intLit("0")}}},
				},
			}},
		}},
	}
	res := analyze(t, mod)
	prog := mir.LowerModule(res)

	fn, ok := prog.Lookup("sign")
	if !ok {
		t.Fatalf("expected a lowered function named sign")
	}

	var sawSwitch bool
	for _, b := range fn.Blocks {
		if b.Term.Kind != mir.TermSwitchInt {
			continue
		}
		sawSwitch = true
		if len(b.Term.SwitchInt.Cases) != 1 || b.Term.SwitchInt.Cases[0].Value != 1 {
			t.Fatalf("expected a single case for value 1 (boolean true), got %+v", b.Term.SwitchInt.Cases)
		}
	}
	if !sawSwitch {
		t.Fatalf("expected an if/else to lower to a SwitchInt terminator, blocks: %+v", fn.Blocks)
	}
}

func TestLowerWhileLoopBranchesBackToHead(t *testing.T) {
	mod := &ast.Module{
		Name: "main",
		FunctionDefinitions: []*ast.Function{{
			Name: "countdown",
			Params: []ast.Param{{Name: "n", Type: int64Type()}},
			Body: &ast.Block{Stmts: []ast.Stmt{
				{Kind: ast.StmtWhile,
					Cond: &ast.Expr{Kind: ast.ExprBinary, BinOp: ast.OpGt, Left: ident("n"), Right: intLit("0")},
					Body: &ast.Block{Stmts: []ast.Stmt{
						{Kind: ast.StmtAssign, Target: ident("n"),
							Value: &ast.Expr{Kind: ast.ExprBinary, BinOp: ast.OpSub, Left: ident("n"), Right: intLit("1")}},
					}},
				},
			}},
		}},
	}
	res := analyze(t, mod)
	prog := mir.LowerModule(res)

	fn, ok := prog.Lookup("countdown")
	if !ok {
		t.Fatalf("expected a lowered function named countdown")
	}

	headBlocks := map[mir.BlockID]bool{}
	for _, b := range fn.Blocks {
		if b.Term.Kind == mir.TermSwitchInt {
			headBlocks[b.ID] = true
		}
	}
	if len(headBlocks) == 0 {
		t.Fatalf("expected the loop condition to lower to a SwitchInt head block")
	}

	var sawBackEdge bool
	for _, b := range fn.Blocks {
		if b.Term.Kind == mir.TermGoto && headBlocks[b.Term.Goto.Target] {
			sawBackEdge = true
		}
	}
	if !sawBackEdge {
		t.Fatalf("expected the loop body's last block to Goto back to the head, blocks: %+v", fn.Blocks)
	}
}

func TestLowerMatchOverEnumUsesDiscriminantSwitch(t *testing.T) {
	mod := &ast.Module{
		Name: "main",
		TypeDefinitions: []*ast.TypeDeclSyntax{{
			Kind: ast.TypeDeclEnum,
			Name: "Opt",
			Variants: []ast.VariantSyntax{
				{Name: "Some"},
				{Name: "None"},
			},
		}},
		FunctionDefinitions: []*ast.Function{{
			Name:   "describe",
			Params: []ast.Param{{Name: "o", Type: &ast.TypeSyntax{Kind: ast.TypeSyntaxNamed, Name: "Opt"}}},
			Body: &ast.Block{Stmts: []ast.Stmt{
				{Kind: ast.StmtMatch, Scrutinee: ident("o"), Arms: []ast.MatchArm{
					{Pattern: ast.Pattern{Kind: ast.PatternEnumVariant, VariantName: "Some"}, Body: &ast.Block{}},
					{Pattern: ast.Pattern{Kind: ast.PatternEnumVariant, VariantName: "None"}, Body: &ast.Block{}},
				}},
			}},
		}},
	}
	res := analyze(t, mod)
	prog := mir.LowerModule(res)

	fn, ok := prog.Lookup("describe")
	if !ok {
		t.Fatalf("expected a lowered function named describe")
	}

	var sawDiscriminantSwitch bool
	for _, b := range fn.Blocks {
		if b.Term.Kind != mir.TermSwitchInt {
			continue
		}
		for _, s := range b.Stmts {
			if s.Kind == mir.StmtAssign && s.Assign.Src.Kind == mir.RvalueDiscriminant {
				sawDiscriminantSwitch = true
			}
		}
		if b.Term.SwitchInt.Discr.Kind == mir.OperandCopy {
			for _, s := range b.Stmts {
				if s.Kind == mir.StmtAssign && s.Assign.Dst.Local == b.Term.SwitchInt.Discr.Place.Local &&
					s.Assign.Src.Kind == mir.RvalueDiscriminant {
					sawDiscriminantSwitch = true
				}
			}
		}
	}
	if !sawDiscriminantSwitch {
		t.Fatalf("expected a match over an enum's variants with no bindings to lower to a single discriminant SwitchInt, blocks: %+v", fn.Blocks)
	}
	if len(fn.Blocks) == 0 {
		t.Fatalf("expected at least one block")
	}
}

func TestLowerLambdaRegistersSyntheticFunctionAndClosureValue(t *testing.T) {
	lambdaType := &ast.TypeSyntax{Kind: ast.TypeSyntaxFunction,
		Params: []*ast.TypeSyntax{int64Type()}, Return: int64Type()}
	mod := &ast.Module{
		Name: "main",
		FunctionDefinitions: []*ast.Function{{
			Name: "makeAdder",
			Body: &ast.Block{Stmts: []ast.Stmt{
				{Kind: ast.StmtLet, Name: "base", DeclaredType: int64Type(), Init: intLit("1")},
				{Kind: ast.StmtLet, Name: "adder", DeclaredType: lambdaType,
					Init: &ast.Expr{
						Kind:   ast.ExprLambda,
						Params: []ast.Param{{Name: "y", Type: int64Type()}},
						Body: &ast.Block{Stmts: []ast.Stmt{
							{Kind: ast.StmtExpr, Expr: &ast.Expr{
								Kind: ast.ExprBinary, BinOp: ast.OpAdd, Left: ident("base"), Right: ident("y"),
							}},
						}},
						Captures: []ast.Capture{{Name: "base", Kind: ast.CaptureByValue}},
					},
				},
			}},
		}},
	}
	res := analyze(t, mod)
	prog := mir.LowerModule(res)

	if _, ok := prog.Lookup("makeAdder"); !ok {
		t.Fatalf("expected a lowered function named makeAdder")
	}
	if _, ok := prog.Lookup("__lambda_1"); !ok {
		names := make([]string, 0, len(prog.FuncByName))
		for n := range prog.FuncByName {
			names = append(names, n)
		}
		t.Fatalf("expected a synthetic __lambda_1 function to be registered, got %v", names)
	}

	outer, _ := prog.Lookup("makeAdder")
	var sawClosureAssign bool
	for _, b := range outer.Blocks {
		for _, s := range b.Stmts {
			if s.Kind == mir.StmtAssign && s.Assign.Src.Kind == mir.RvalueClosure {
				sawClosureAssign = true
				if s.Assign.Src.Closure.FuncName != "__lambda_1" {
					t.Fatalf("expected the closure rvalue to name __lambda_1, got %q", s.Assign.Src.Closure.FuncName)
				}
				if len(s.Assign.Src.Closure.Captures) != 1 {
					t.Fatalf("expected exactly one captured operand for base, got %d", len(s.Assign.Src.Closure.Captures))
				}
			}
		}
	}
	if !sawClosureAssign {
		t.Fatalf("expected a Closure rvalue assignment at the lambda's creation site, blocks: %+v", outer.Blocks)
	}

	lambdaFn, _ := prog.Lookup("__lambda_1")
	if lambdaFn.ParamCount != 2 {
		t.Fatalf("expected the lowered lambda to take 2 params (1 capture + 1 declared), got %d", lambdaFn.ParamCount)
	}
}
