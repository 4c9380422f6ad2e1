package mir

import (
	"fmt"

	"aetherscript/internal/ast"
	"aetherscript/internal/sema"
	"aetherscript/internal/types"
)

// lowerLambda lowers a lambda expression per §4.4.6: the body becomes a
// synthetic top-level MIR function `__lambda_<n>` whose parameter list
// begins with the captured values followed by the declared parameters; the
// creation site assigns a Closure rvalue pairing the function name with the
// captured operands evaluated in the enclosing scope.
func (l *lowerer) lowerLambda(e *ast.Expr, ty types.TypeID) Operand {
	captureNames, captureKinds := l.lambdaCaptures(e)

	captureOps := make([]Operand, 0, len(captureNames))
	captureTypes := make([]types.TypeID, 0, len(captureNames))
	for i, name := range captureNames {
		id, ok := l.localByName[name]
		if !ok {
			continue
		}
		t := l.localType(id)
		captureTypes = append(captureTypes, t)
		kind := ast.CaptureByValue
		if i < len(captureKinds) {
			kind = captureKinds[i]
		}
		switch kind {
		case ast.CaptureByRef:
			captureOps = append(captureOps, Operand{Kind: OperandAddrOf, Type: t, Place: Place{Local: id}})
		case ast.CaptureByRefMut:
			captureOps = append(captureOps, Operand{Kind: OperandAddrOfMut, Type: t, Place: Place{Local: id}})
		default:
			captureOps = append(captureOps, asOperand(Place{Local: id}, t))
		}
	}

	*l.lambdaSeq++
	name := fmt.Sprintf("__lambda_%d", *l.lambdaSeq)

	retType := types.NoTypeID
	declParamTypes := make([]types.TypeID, len(e.Params))
	tt := l.in.Get(ty)
	if tt.Kind == types.KindFunction {
		retType = tt.Func.Return
		for i := range e.Params {
			if i < len(tt.Func.Params) {
				declParamTypes[i] = tt.Func.Params[i]
			}
		}
	}
	paramTypes := append(append([]types.TypeID{}, captureTypes...), declParamTypes...)

	allParams := make([]ast.Param, 0, len(captureNames)+len(e.Params))
	for _, cn := range captureNames {
		allParams = append(allParams, ast.Param{Name: cn, Span: e.Span})
	}
	allParams = append(allParams, e.Params...)

	fn := &ast.Function{Name: name, Params: allParams, Body: implicitReturnBody(e.Body), Span: e.Span}
	sig := &sema.FunctionSig{Name: name, Params: paramTypes, Return: retType}

	l.lowerFunc(fn, name, types.NoTypeID, sig)

	tmp := l.newTemp(ty, "closure")
	l.emit(Stmt{Kind: StmtAssign, Assign: AssignStmt{Dst: Place{Local: tmp}, Src: Rvalue{
		Kind: RvalueClosure, Closure: ClosureRvalue{FuncName: name, Captures: captureOps},
	}}})
	return asOperand(Place{Local: tmp}, ty)
}

// lambdaCaptures resolves the capture list: an explicit capture clause if
// the lambda wrote one, otherwise the free-variable set the analyzer
// computed for this span (§4.3.6, shared with Concurrent-block capture
// resolution).
func (l *lowerer) lambdaCaptures(e *ast.Expr) ([]string, []ast.CaptureKind) {
	if len(e.Captures) > 0 {
		names := make([]string, len(e.Captures))
		kinds := make([]ast.CaptureKind, len(e.Captures))
		for i, c := range e.Captures {
			names[i] = c.Name
			kinds[i] = c.Kind
		}
		return names, kinds
	}
	names := l.res.Captures[e.Span]
	return names, make([]ast.CaptureKind, len(names))
}

// implicitReturnBody rewrites a trailing bare-expression statement into an
// explicit return, per the implicit-return convention documented on
// ast.Expr.Body (§4.1): "a block containing a single trailing expression is
// an implicit return."
func implicitReturnBody(body *ast.Block) *ast.Block {
	if body == nil || len(body.Stmts) == 0 {
		return body
	}
	last := body.Stmts[len(body.Stmts)-1]
	if last.Kind != ast.StmtExpr || last.Expr == nil {
		return body
	}
	stmts := make([]ast.Stmt, len(body.Stmts))
	copy(stmts, body.Stmts)
	stmts[len(stmts)-1] = ast.Stmt{Kind: ast.StmtReturn, Span: last.Span, ReturnValue: last.Expr}
	return &ast.Block{Stmts: stmts, Span: body.Span}
}
