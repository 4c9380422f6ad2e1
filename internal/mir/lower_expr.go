package mir

import (
	"strconv"
	"strings"

	"aetherscript/internal/ast"
	"aetherscript/internal/sema"
	"aetherscript/internal/types"
)

// lowerExprForType lowers e and, if the analyzer recorded an implicit
// conversion at this site (§4.3.1's Compatible), materializes the
// corresponding Cast rvalue before returning the converted operand.
func (l *lowerer) lowerExprForType(e *ast.Expr, want types.TypeID) Operand {
	op := l.lowerExpr(e)
	if want == types.NoTypeID || op.Type == types.NoTypeID {
		return op
	}
	ok, kind := l.checker.Compatible(want, op.Type)
	if !ok || kind == types.CastNone {
		return op
	}
	switch kind {
	case types.CastFutureAwait:
		return l.lowerFutureAwait(op, want)
	case types.CastNumericWiden:
		tmp := l.newTemp(want, "widen")
		l.emit(Stmt{Kind: StmtAssign, Assign: AssignStmt{Dst: Place{Local: tmp}, Src: Rvalue{
			Kind: RvalueCast, Cast: CastRvalue{Value: op, TargetType: want},
		}}})
		return asOperand(Place{Local: tmp}, want)
	default:
		return op
	}
}

// lowerFutureAwait implements the opportunistic Future<T> unwrap of §4.4.2:
// aether_await(future) -> cast to Pointer<T> -> deref into a fresh T local.
func (l *lowerer) lowerFutureAwait(op Operand, want types.TypeID) Operand {
	ptrTy := l.in.Pointer(want, false)
	awaited := l.newTemp(ptrTy, "awaited")
	l.emit(Stmt{Kind: StmtAssign, Assign: AssignStmt{Dst: Place{Local: awaited}, Src: Rvalue{
		Kind: RvalueCall, Call: CallRvalue{FuncName: "aether_await", Args: []Operand{op}},
	}}})
	casted := l.newTemp(ptrTy, "ptr")
	l.emit(Stmt{Kind: StmtAssign, Assign: AssignStmt{Dst: Place{Local: casted}, Src: Rvalue{
		Kind: RvalueCast, Cast: CastRvalue{Value: asOperand(Place{Local: awaited}, ptrTy), TargetType: ptrTy},
	}}})
	result := l.newTemp(want, "val")
	derefPlace := Place{Local: casted, Proj: []PlaceProj{{Kind: ProjDeref}}}
	l.emit(Stmt{Kind: StmtAssign, Assign: AssignStmt{Dst: Place{Local: result}, Src: Rvalue{
		Kind: RvalueUse, Use: asOperand(derefPlace, want),
	}}})
	return asOperand(Place{Local: result}, want)
}

// lowerExpr lowers e to an Operand per §4.4.2.
func (l *lowerer) lowerExpr(e *ast.Expr) Operand {
	if e == nil {
		return Operand{Kind: OperandConstant, Const: Const{Kind: ConstVoid}}
	}
	ty := l.res.ExprTypes[e]
	switch e.Kind {
	case ast.ExprLit:
		return l.lowerLiteral(e.Lit, ty)
	case ast.ExprIdent:
		return l.lowerIdent(e, ty)
	case ast.ExprBinary:
		return l.lowerBinary(e, ty)
	case ast.ExprUnary:
		return l.lowerUnary(e, ty)
	case ast.ExprBorrow:
		return l.lowerBorrow(e, ty)
	case ast.ExprMove:
		return l.lowerMoveExpr(e, ty)
	case ast.ExprCast:
		return l.lowerCast(e, ty)
	case ast.ExprGroup:
		if len(e.Elems) == 1 {
			return l.lowerExpr(e.Elems[0])
		}
		return Operand{Kind: OperandConstant, Const: Const{Kind: ConstVoid}}
	case ast.ExprTuple:
		return l.lowerArrayLike(e.Elems, ty)
	case ast.ExprArrayLit:
		return l.lowerArrayLike(e.Elems, ty)
	case ast.ExprMapLit:
		return l.lowerMapLit(e, ty)
	case ast.ExprIndex:
		return l.lowerIndex(e, ty)
	case ast.ExprField:
		return asOperand(l.lowerPlace(e), ty)
	case ast.ExprStructLit:
		return l.lowerStructLit(e, ty)
	case ast.ExprCall:
		return l.lowerCall(e, ty)
	case ast.ExprMethodCall:
		return l.lowerMethodCall(e, ty)
	case ast.ExprLambda:
		return l.lowerLambda(e, ty)
	case ast.ExprMatch:
		return l.lowerMatchExpr(e, ty)
	case ast.ExprRange:
		return Operand{Kind: OperandConstant, Type: ty, Const: Const{Kind: ConstVoid}}
	default:
		return Operand{Kind: OperandConstant, Type: ty, Const: Const{Kind: ConstVoid}}
	}
}

func (l *lowerer) lowerLiteral(lit ast.Literal, ty types.TypeID) Operand {
	c := Const{Type: ty}
	switch lit.Kind {
	case ast.LitInt:
		c.Kind = ConstInt
		c.IntValue = parseIntLiteral(lit.Text)
	case ast.LitUint:
		c.Kind = ConstUint
		c.UintValue = parseUintLiteral(lit.Text)
	case ast.LitFloat:
		c.Kind = ConstFloat
		c.FloatValue = parseFloatLiteral(lit.Text)
	case ast.LitBool:
		c.Kind = ConstBool
		c.BoolValue = lit.Bool
	case ast.LitString, ast.LitFString:
		c.Kind = ConstString
		c.StringValue = lit.Text
	case ast.LitNothing:
		c.Kind = ConstVoid
	}
	return Operand{Kind: OperandConstant, Type: ty, Const: c}
}

// lowerIdent resolves a variable reference. Inside postcondition lowering,
// the synthetic name `return_value` resolves to the function's return
// local rather than an ordinary local lookup (§4.3.7, §4.4.1).
func (l *lowerer) lowerIdent(e *ast.Expr, ty types.TypeID) Operand {
	if l.inPostcondition && e.Name == "return_value" && l.f.ReturnLocal != NoLocalID {
		return asOperand(Place{Local: l.f.ReturnLocal}, l.f.Result)
	}
	if id, ok := l.localByName[e.Name]; ok {
		return asOperand(Place{Local: id}, ty)
	}
	// Unknown names are a hard error during semantic analysis; here the
	// identifier may instead resolve to a module-level constant or a
	// function reference used as a value (§4.4.2, §4.4.6).
	if _, ok := l.res.Functions[e.Name]; ok {
		return Operand{Kind: OperandConstant, Type: ty, Const: Const{Kind: ConstFunc, Type: ty, FuncName: e.Name}}
	}
	return Operand{Kind: OperandConstant, Type: ty, Const: Const{Kind: ConstVoid}}
}

// isStringType reports whether t is the primitive String type, used to
// route ExprBinary's `+`/`==` over strings to the string_concat/
// string_compare runtime builtins instead of BinaryOp (§4.4.2).
func isStringType(in *types.Interner, t types.TypeID) bool {
	if t == types.NoTypeID {
		return false
	}
	tt := in.Get(t)
	return tt.Kind == types.KindPrimitive && tt.Primitive == types.PrimString
}

func (l *lowerer) lowerBinary(e *ast.Expr, ty types.TypeID) Operand {
	leftType := l.res.ExprTypes[e.Left]
	if e.BinOp == ast.OpAdd && isStringType(l.in, leftType) {
		left := l.lowerExpr(e.Left)
		right := l.lowerExpr(e.Right)
		tmp := l.newTemp(ty, "concat")
		l.emit(Stmt{Kind: StmtAssign, Assign: AssignStmt{Dst: Place{Local: tmp}, Src: Rvalue{
			Kind: RvalueCall, Call: CallRvalue{FuncName: "string_concat", Args: []Operand{left, right}},
		}}})
		return asOperand(Place{Local: tmp}, ty)
	}
	if e.BinOp == ast.OpEq && isStringType(l.in, leftType) {
		left := l.lowerExpr(e.Left)
		right := l.lowerExpr(e.Right)
		tmp := l.newTemp(ty, "cmp")
		l.emit(Stmt{Kind: StmtAssign, Assign: AssignStmt{Dst: Place{Local: tmp}, Src: Rvalue{
			Kind: RvalueCall, Call: CallRvalue{FuncName: "string_compare", Args: []Operand{left, right}},
		}}})
		return asOperand(Place{Local: tmp}, ty)
	}

	// && / || lower to chained BinaryOp statements with no short-circuit
	// evaluation (§4.4.2, a documented limitation).
	left := l.lowerExpr(e.Left)
	right := l.lowerExpr(e.Right)
	tmp := l.newTemp(ty, "bin")
	l.emit(Stmt{Kind: StmtAssign, Assign: AssignStmt{Dst: Place{Local: tmp}, Src: Rvalue{
		Kind: RvalueBinaryOp, Binary: BinaryOpRvalue{Op: e.BinOp, Left: left, Right: right},
	}}})
	return asOperand(Place{Local: tmp}, ty)
}

func (l *lowerer) lowerUnary(e *ast.Expr, ty types.TypeID) Operand {
	operand := l.lowerExpr(e.Operand)
	tmp := l.newTemp(ty, "un")
	l.emit(Stmt{Kind: StmtAssign, Assign: AssignStmt{Dst: Place{Local: tmp}, Src: Rvalue{
		Kind: RvalueUnaryOp, Unary: UnaryOpRvalue{Op: e.UnOp, Operand: operand},
	}}})
	return asOperand(Place{Local: tmp}, ty)
}

func (l *lowerer) lowerBorrow(e *ast.Expr, ty types.TypeID) Operand {
	place := l.lowerPlace(e.Operand)
	kind := OperandAddrOf
	if e.Mutable {
		kind = OperandAddrOfMut
	}
	return Operand{Kind: kind, Type: ty, Place: place}
}

// lowerMoveExpr lowers `^expr`: the analyzer has already validated the
// move's legality (§4.3.5); MIR only needs the underlying value.
func (l *lowerer) lowerMoveExpr(e *ast.Expr, ty types.TypeID) Operand {
	place := l.lowerPlace(e.Operand)
	return Operand{Kind: OperandMove, Type: ty, Place: place}
}

func (l *lowerer) lowerCast(e *ast.Expr, ty types.TypeID) Operand {
	value := l.lowerExpr(e.Operand)
	tmp := l.newTemp(ty, "cast")
	l.emit(Stmt{Kind: StmtAssign, Assign: AssignStmt{Dst: Place{Local: tmp}, Src: Rvalue{
		Kind: RvalueCast, Cast: CastRvalue{Value: value, TargetType: ty},
	}}})
	return asOperand(Place{Local: tmp}, ty)
}

func (l *lowerer) lowerArrayLike(elems []*ast.Expr, ty types.TypeID) Operand {
	ops := make([]Operand, len(elems))
	for i, el := range elems {
		ops[i] = l.lowerExpr(el)
	}
	tmp := l.newTemp(ty, "arr")
	l.emit(Stmt{Kind: StmtAssign, Assign: AssignStmt{Dst: Place{Local: tmp}, Src: Rvalue{
		Kind: RvalueArrayLit, ArrayLit: ArrayLitRvalue{Elems: ops},
	}}})
	return asOperand(Place{Local: tmp}, ty)
}

// lowerMapLit lowers a map literal to map_new followed by one map_insert
// call per entry (§4.4.2).
func (l *lowerer) lowerMapLit(e *ast.Expr, ty types.TypeID) Operand {
	tmp := l.newTemp(ty, "map")
	l.emit(Stmt{Kind: StmtAssign, Assign: AssignStmt{Dst: Place{Local: tmp}, Src: Rvalue{
		Kind: RvalueCall, Call: CallRvalue{FuncName: "map_new"},
	}}})
	for _, entry := range e.MapEntries {
		k := l.lowerExpr(entry.Key)
		v := l.lowerExpr(entry.Value)
		l.emit(Stmt{Kind: StmtAssign, Assign: AssignStmt{Dst: Place{Local: l.newTemp(types.NoTypeID, "ins")}, Src: Rvalue{
			Kind: RvalueCall, Call: CallRvalue{FuncName: "map_insert", Args: []Operand{asOperand(Place{Local: tmp}, ty), k, v}},
		}}})
	}
	return asOperand(Place{Local: tmp}, ty)
}

func (l *lowerer) lowerIndex(e *ast.Expr, ty types.TypeID) Operand {
	baseType := l.res.ExprTypes[e.Base]
	base := l.lowerExpr(e.Base)
	index := l.lowerExpr(e.Index)
	tmp := l.newTemp(ty, "idx")
	fn := "array_get"
	if isMapType(l.in, baseType) {
		fn = "map_get"
	}
	l.emit(Stmt{Kind: StmtAssign, Assign: AssignStmt{Dst: Place{Local: tmp}, Src: Rvalue{
		Kind: RvalueCall, Call: CallRvalue{FuncName: fn, Args: []Operand{base, index}},
	}}})
	return asOperand(Place{Local: tmp}, ty)
}

func isMapType(in *types.Interner, t types.TypeID) bool {
	if t == types.NoTypeID {
		return false
	}
	return in.Get(t).Kind == types.KindMap
}

func (l *lowerer) lowerStructLit(e *ast.Expr, ty types.TypeID) Operand {
	def, _ := l.res.Defs.Lookup(e.StructName)
	fields := make([]StructLitField, 0, len(e.Fields))
	for _, fi := range e.Fields {
		var ft types.TypeID
		if def != nil {
			if _, t, ok := def.FieldIndex(fi.Name); ok {
				ft = t
			}
		}
		fields = append(fields, StructLitField{Name: fi.Name, Value: l.lowerExprForType(fi.Value, ft)})
	}
	tmp := l.newTemp(ty, "struct")
	l.emit(Stmt{Kind: StmtAssign, Assign: AssignStmt{Dst: Place{Local: tmp}, Src: Rvalue{
		Kind: RvalueStructLit, StructLit: StructLitRvalue{Type: ty, Fields: fields},
	}}})
	return asOperand(Place{Local: tmp}, ty)
}

// lowerCall distinguishes a closure-valued call (a local of function type)
// from a direct function-name call (§4.4.6).
func (l *lowerer) lowerCall(e *ast.Expr, ty types.TypeID) Operand {
	args := make([]Operand, 0, len(e.Args))
	name := calleeName(e.Callee)

	var sigParams []types.TypeID
	if name != "" {
		if sig, ok := l.res.Functions[name]; ok {
			sigParams = sig.Params
		}
	}
	for i, a := range e.Args {
		var want types.TypeID
		if i < len(sigParams) {
			want = sigParams[i]
		}
		args = append(args, l.lowerExprForType(a.Value, want))
	}

	tmp := l.newTemp(ty, "call")
	call := CallRvalue{Args: args}
	if name != "" {
		if _, ok := l.localByName[name]; ok && isFunctionType(l.in, l.res.ExprTypes[e.Callee]) {
			op := l.lowerExpr(e.Callee)
			call.FuncValue = &op
		} else {
			call.FuncName = name
		}
	} else {
		op := l.lowerExpr(e.Callee)
		call.FuncValue = &op
	}
	l.emit(Stmt{Kind: StmtAssign, Assign: AssignStmt{Dst: Place{Local: tmp}, Src: Rvalue{Kind: RvalueCall, Call: call}}})
	return asOperand(Place{Local: tmp}, ty)
}

func isFunctionType(in *types.Interner, t types.TypeID) bool {
	if t == types.NoTypeID {
		return false
	}
	return in.Get(t).Kind == types.KindFunction
}

func (l *lowerer) lowerMethodCall(e *ast.Expr, ty types.TypeID) Operand {
	recvType := l.res.ExprTypes[e.Receiver]
	recv := l.lowerExpr(e.Receiver)

	baseType := recvType
	if baseType != types.NoTypeID {
		bt := l.in.Get(baseType)
		for bt.Kind == types.KindOwned {
			baseType = bt.Elem
			bt = l.in.Get(baseType)
		}
	}
	entry, ok := l.res.Dispatch[sema.DispatchKey{Receiver: baseType, Method: e.Method}]
	var sigParams []types.TypeID
	symbol := e.Method
	if ok {
		sigParams = entry.Sig.Params
		symbol = entry.Symbol
	}

	args := make([]Operand, 0, len(e.Args)+1)
	args = append(args, recv)
	for i, a := range e.Args {
		var want types.TypeID
		if i < len(sigParams) {
			want = sigParams[i]
		}
		args = append(args, l.lowerExprForType(a.Value, want))
	}

	tmp := l.newTemp(ty, "call")
	l.emit(Stmt{Kind: StmtAssign, Assign: AssignStmt{Dst: Place{Local: tmp}, Src: Rvalue{
		Kind: RvalueCall, Call: CallRvalue{FuncName: symbol, Args: args},
	}}})
	return asOperand(Place{Local: tmp}, ty)
}

func parseIntLiteral(text string) int64 {
	v, _ := strconv.ParseInt(strings.ReplaceAll(text, "_", ""), 0, 64)
	return v
}

func parseUintLiteral(text string) uint64 {
	v, _ := strconv.ParseUint(strings.TrimSuffix(strings.ReplaceAll(text, "_", ""), "u"), 0, 64)
	return v
}

func parseFloatLiteral(text string) float64 {
	v, _ := strconv.ParseFloat(strings.ReplaceAll(text, "_", ""), 64)
	return v
}

// lowerPlace resolves e to an assignable/addressable Place. Field access
// walks Owned/Pointer wrappers, prepending a Deref projection per layer,
// before appending the Field{index,type} projection itself (§4.4.2).
func (l *lowerer) lowerPlace(e *ast.Expr) Place {
	if e == nil {
		return Place{Local: NoLocalID}
	}
	switch e.Kind {
	case ast.ExprIdent:
		if id, ok := l.localByName[e.Name]; ok {
			return Place{Local: id}
		}
		return Place{Local: NoLocalID}
	case ast.ExprField:
		base := l.lowerPlace(e.FieldBase)
		baseType := l.res.ExprTypes[e.FieldBase]
		proj := append([]PlaceProj{}, base.Proj...)
		named := baseType
		for named != types.NoTypeID {
			t := l.in.Get(named)
			if t.Kind == types.KindOwned {
				proj = append(proj, PlaceProj{Kind: ProjDeref})
				named = t.Elem
				continue
			}
			if t.Kind == types.KindPointer {
				proj = append(proj, PlaceProj{Kind: ProjDeref})
				named = t.Elem
				continue
			}
			break
		}
		var fieldIdx int
		var fieldType types.TypeID
		if named != types.NoTypeID {
			t := l.in.Get(named)
			if t.Kind == types.KindNamed {
				if def, ok := l.res.Defs.Lookup(t.Named.Name); ok {
					if idx, ft, ok := def.FieldIndex(e.FieldName); ok {
						fieldIdx, fieldType = idx, ft
					}
				}
			}
		}
		proj = append(proj, PlaceProj{Kind: ProjField, FieldName: e.FieldName, FieldIdx: fieldIdx, FieldType: fieldType})
		return Place{Local: base.Local, Proj: proj}
	case ast.ExprIndex:
		base := l.lowerPlace(e.Base)
		idxOp := l.lowerExpr(e.Index)
		idxLocal := l.materialize(idxOp)
		elemType := l.elemType(l.res.ExprTypes[e.Base])
		proj := append([]PlaceProj{}, base.Proj...)
		proj = append(proj, PlaceProj{Kind: ProjIndex, IndexLocal: idxLocal, ElemType: elemType})
		return Place{Local: base.Local, Proj: proj}
	default:
		tmp := l.materialize(l.lowerExpr(e))
		return Place{Local: tmp}
	}
}
