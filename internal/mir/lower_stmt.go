package mir

import (
	"aetherscript/internal/ast"
	"aetherscript/internal/types"
)

func (l *lowerer) lowerBlock(b *ast.Block) {
	if b == nil {
		return
	}
	for i := range b.Stmts {
		if l.curBlock().Terminated() {
			return
		}
		l.lowerStmt(b.Stmts[i])
	}
}

func (l *lowerer) lowerStmt(s ast.Stmt) {
	switch s.Kind {
	case ast.StmtLet:
		l.lowerLet(s)
	case ast.StmtAssign:
		l.lowerAssign(s)
	case ast.StmtReturn:
		l.lowerReturn(s)
	case ast.StmtExpr:
		if s.Expr != nil {
			l.lowerExpr(s.Expr)
		}
	case ast.StmtIf:
		l.lowerIf(s)
	case ast.StmtWhile:
		l.lowerWhile(s)
	case ast.StmtForEach:
		l.lowerForEach(s)
	case ast.StmtForRange:
		l.lowerForRange(s)
	case ast.StmtBreak:
		l.lowerBreak(s)
	case ast.StmtContinue:
		l.lowerContinue(s)
	case ast.StmtMatch:
		l.lowerMatchStmt(s)
	case ast.StmtTry:
		l.lowerTry(s)
	case ast.StmtThrow:
		l.lowerThrow(s)
	case ast.StmtConcurrent:
		l.lowerConcurrent(s)
	case ast.StmtBlock:
		l.lowerBlock(s.Body)
	}
}

func (l *lowerer) lowerLet(s ast.Stmt) {
	declared := l.res.ExprTypes[s.Init]
	local := l.newLocal(s.Name, declared, s.Span)
	if s.Init == nil {
		return
	}
	op := l.lowerExprForType(s.Init, declared)
	l.emit(Stmt{Kind: StmtAssign, Assign: AssignStmt{Dst: Place{Local: local}, Src: Rvalue{Kind: RvalueUse, Use: op}}})
}

func (l *lowerer) lowerAssign(s ast.Stmt) {
	dst := l.lowerPlace(s.Target)
	expected := l.res.ExprTypes[s.Target]
	op := l.lowerExprForType(s.Value, expected)
	l.emit(Stmt{Kind: StmtAssign, Assign: AssignStmt{Dst: dst, Src: Rvalue{Kind: RvalueUse, Use: op}}})
}

func (l *lowerer) lowerReturn(s ast.Stmt) {
	if s.ReturnValue == nil {
		l.lowerPostconditions()
		l.setTerm(Terminator{Kind: TermReturn})
		return
	}
	op := l.lowerExprForType(s.ReturnValue, l.f.Result)
	if l.f.ReturnLocal != NoLocalID {
		l.emit(Stmt{Kind: StmtAssign, Assign: AssignStmt{Dst: Place{Local: l.f.ReturnLocal}, Src: Rvalue{Kind: RvalueUse, Use: op}}})
	}
	l.lowerPostconditions()
	l.setTerm(Terminator{Kind: TermReturn, Return: ReturnTerm{HasValue: true, Value: op}})
}

// lowerIf implements §4.4.4: a SwitchInt on the boolean discriminant, joining
// unless a branch diverges.
func (l *lowerer) lowerIf(s ast.Stmt) {
	cond := l.lowerExpr(s.Cond)
	thenBB := l.newBlock()
	elseBB := l.newBlock()
	joinBB := l.newBlock()

	l.setTerm(Terminator{Kind: TermSwitchInt, SwitchInt: SwitchIntTerm{
		Discr: cond, Cases: []SwitchIntCase{{Value: 1, Target: thenBB}}, Default: elseBB,
	}})

	l.startBlock(thenBB)
	l.lowerBlock(s.Then)
	if !l.curBlock().Terminated() {
		l.setTerm(Terminator{Kind: TermGoto, Goto: GotoTerm{Target: joinBB}})
	}

	l.startBlock(elseBB)
	if s.Else != nil {
		l.lowerBlock(s.Else)
	}
	if !l.curBlock().Terminated() {
		l.setTerm(Terminator{Kind: TermGoto, Goto: GotoTerm{Target: joinBB}})
	}

	l.startBlock(joinBB)
}

func (l *lowerer) lowerWhile(s ast.Stmt) {
	head := l.newBlock()
	body := l.newBlock()
	end := l.newBlock()

	l.setTerm(Terminator{Kind: TermGoto, Goto: GotoTerm{Target: head}})

	l.startBlock(head)
	cond := l.lowerExpr(s.Cond)
	l.setTerm(Terminator{Kind: TermSwitchInt, SwitchInt: SwitchIntTerm{
		Discr: cond, Cases: []SwitchIntCase{{Value: 1, Target: body}}, Default: end,
	}})

	l.startBlock(body)
	l.loopStack = append(l.loopStack, loopCtx{breakTarget: end, continueTarget: head, label: s.Label})
	l.lowerBlock(s.Body)
	l.loopStack = l.loopStack[:len(l.loopStack)-1]
	if !l.curBlock().Terminated() {
		l.setTerm(Terminator{Kind: TermGoto, Goto: GotoTerm{Target: head}})
	}

	l.startBlock(end)
}

// lowerForRange materializes counter/bound/step locals per §4.4.4.
func (l *lowerer) lowerForRange(s ast.Stmt) {
	intTy := l.in.Primitive(types.PrimInt64)
	counter := l.newLocal(s.CounterName, intTy, s.Span)
	lo := l.lowerExpr(s.RangeLo)
	l.emit(Stmt{Kind: StmtAssign, Assign: AssignStmt{Dst: Place{Local: counter}, Src: Rvalue{Kind: RvalueUse, Use: lo}}})

	bound := l.newTemp(intTy, "bound")
	hi := l.lowerExpr(s.RangeHi)
	l.emit(Stmt{Kind: StmtAssign, Assign: AssignStmt{Dst: Place{Local: bound}, Src: Rvalue{Kind: RvalueUse, Use: hi}}})

	step := l.newTemp(intTy, "step")
	if s.RangeStep != nil {
		stepOp := l.lowerExpr(s.RangeStep)
		l.emit(Stmt{Kind: StmtAssign, Assign: AssignStmt{Dst: Place{Local: step}, Src: Rvalue{Kind: RvalueUse, Use: stepOp}}})
	} else {
		l.emit(Stmt{Kind: StmtAssign, Assign: AssignStmt{Dst: Place{Local: step}, Src: Rvalue{Kind: RvalueUse, Use: intConst(1, intTy)}}})
	}

	head := l.newBlock()
	incr := l.newBlock()
	body := l.newBlock()
	end := l.newBlock()

	l.setTerm(Terminator{Kind: TermGoto, Goto: GotoTerm{Target: head}})

	l.startBlock(head)
	cmpOp := ast.OpLtEq
	if !s.RangeIncl {
		cmpOp = ast.OpLt
	}
	cmp := l.newTemp(l.in.Primitive(types.PrimBool), "cmp")
	l.emit(Stmt{Kind: StmtAssign, Assign: AssignStmt{Dst: Place{Local: cmp}, Src: Rvalue{
		Kind:   RvalueBinaryOp,
		Binary: BinaryOpRvalue{Op: cmpOp, Left: asOperand(Place{Local: counter}, intTy), Right: asOperand(Place{Local: bound}, intTy)},
	}}})
	l.setTerm(Terminator{Kind: TermSwitchInt, SwitchInt: SwitchIntTerm{
		Discr: asOperand(Place{Local: cmp}, l.in.Primitive(types.PrimBool)), Cases: []SwitchIntCase{{Value: 1, Target: body}}, Default: end,
	}})

	l.startBlock(body)
	l.loopStack = append(l.loopStack, loopCtx{breakTarget: end, continueTarget: incr, label: s.Label})
	l.lowerBlock(s.Body)
	l.loopStack = l.loopStack[:len(l.loopStack)-1]
	if !l.curBlock().Terminated() {
		l.setTerm(Terminator{Kind: TermGoto, Goto: GotoTerm{Target: incr}})
	}

	l.startBlock(incr)
	l.emit(Stmt{Kind: StmtAssign, Assign: AssignStmt{Dst: Place{Local: counter}, Src: Rvalue{
		Kind:   RvalueBinaryOp,
		Binary: BinaryOpRvalue{Op: ast.OpAdd, Left: asOperand(Place{Local: counter}, intTy), Right: asOperand(Place{Local: step}, intTy)},
	}}})
	l.setTerm(Terminator{Kind: TermGoto, Goto: GotoTerm{Target: head}})

	l.startBlock(end)
}

// lowerForEach evaluates the collection once, indexes it with a synthetic
// counter, and calls the array_get/array_length runtime builtins (§4.4.4).
func (l *lowerer) lowerForEach(s ast.Stmt) {
	collType := l.res.ExprTypes[s.Collection]
	coll := l.materialize(l.lowerExpr(s.Collection))

	intTy := l.in.Primitive(types.PrimInt64)
	idx := l.newLocal(s.IndexName, intTy, s.Span)
	if s.IndexName == "" {
		idx = l.newTemp(intTy, "idx")
	}
	l.emit(Stmt{Kind: StmtAssign, Assign: AssignStmt{Dst: Place{Local: idx}, Src: Rvalue{Kind: RvalueUse, Use: intConst(0, intTy)}}})

	elemType := l.elemType(collType)
	elem := l.newLocal(s.ElemName, elemType, s.Span)

	head := l.newBlock()
	body := l.newBlock()
	end := l.newBlock()

	l.setTerm(Terminator{Kind: TermGoto, Goto: GotoTerm{Target: head}})

	l.startBlock(head)
	length := l.newTemp(intTy, "len")
	l.emit(Stmt{Kind: StmtAssign, Assign: AssignStmt{Dst: Place{Local: length}, Src: Rvalue{
		Kind: RvalueCall, Call: CallRvalue{FuncName: "array_length", Args: []Operand{asOperand(Place{Local: coll}, collType)}},
	}}})
	cmp := l.newTemp(l.in.Primitive(types.PrimBool), "cmp")
	l.emit(Stmt{Kind: StmtAssign, Assign: AssignStmt{Dst: Place{Local: cmp}, Src: Rvalue{
		Kind:   RvalueBinaryOp,
		Binary: BinaryOpRvalue{Op: ast.OpLt, Left: asOperand(Place{Local: idx}, intTy), Right: asOperand(Place{Local: length}, intTy)},
	}}})
	l.setTerm(Terminator{Kind: TermSwitchInt, SwitchInt: SwitchIntTerm{
		Discr: asOperand(Place{Local: cmp}, l.in.Primitive(types.PrimBool)), Cases: []SwitchIntCase{{Value: 1, Target: body}}, Default: end,
	}})

	l.startBlock(body)
	l.emit(Stmt{Kind: StmtAssign, Assign: AssignStmt{Dst: Place{Local: elem}, Src: Rvalue{
		Kind: RvalueCall, Call: CallRvalue{FuncName: "array_get", Args: []Operand{asOperand(Place{Local: coll}, collType), asOperand(Place{Local: idx}, intTy)}},
	}}})
	l.loopStack = append(l.loopStack, loopCtx{breakTarget: end, continueTarget: head, label: s.Label})
	l.lowerBlock(s.Body)
	l.loopStack = l.loopStack[:len(l.loopStack)-1]
	if !l.curBlock().Terminated() {
		l.emit(Stmt{Kind: StmtAssign, Assign: AssignStmt{Dst: Place{Local: idx}, Src: Rvalue{
			Kind:   RvalueBinaryOp,
			Binary: BinaryOpRvalue{Op: ast.OpAdd, Left: asOperand(Place{Local: idx}, intTy), Right: intConst(1, intTy)},
		}}})
		l.setTerm(Terminator{Kind: TermGoto, Goto: GotoTerm{Target: head}})
	}

	l.startBlock(end)
}

func (l *lowerer) lowerBreak(s ast.Stmt) {
	target := l.loopTarget(s.BreakLabel, true)
	l.setTerm(Terminator{Kind: TermGoto, Goto: GotoTerm{Target: target}})
	l.startBlock(l.newBlock()) // §4.4.4: subsequent statements get a fresh dead block
}

func (l *lowerer) lowerContinue(s ast.Stmt) {
	target := l.loopTarget(s.BreakLabel, false)
	l.setTerm(Terminator{Kind: TermGoto, Goto: GotoTerm{Target: target}})
	l.startBlock(l.newBlock())
}

func (l *lowerer) loopTarget(label string, isBreak bool) BlockID {
	for i := len(l.loopStack) - 1; i >= 0; i-- {
		ctx := l.loopStack[i]
		if label == "" || ctx.label == label {
			if isBreak {
				return ctx.breakTarget
			}
			return ctx.continueTarget
		}
	}
	if len(l.loopStack) == 0 {
		return NoBlockID
	}
	ctx := l.loopStack[len(l.loopStack)-1]
	if isBreak {
		return ctx.breakTarget
	}
	return ctx.continueTarget
}

// lowerTry lowers try/catch/finally as straight-line code: the body, then
// every catch block, then finally, all unconditionally reached in sequence.
// Exception propagation is not modeled in the CFG (§4.4.5, a documented
// simplification carried from the analyzer's straight-line contract check).
func (l *lowerer) lowerTry(s ast.Stmt) {
	l.lowerBlock(s.TryBody)
	for _, c := range s.Catches {
		if l.curBlock().Terminated() {
			break
		}
		if c.BindingName != "" {
			l.newLocal(c.BindingName, l.in.Error(), c.Span)
		}
		l.lowerBlock(c.Body)
	}
	if s.Finally != nil && !l.curBlock().Terminated() {
		l.lowerBlock(s.Finally)
	}
}

// lowerThrow evaluates the thrown expression then terminates the block as
// unreachable (§4.4.5: "Throw lowers to Unreachable after evaluating the
// expression").
func (l *lowerer) lowerThrow(s ast.Stmt) {
	if s.ThrowValue != nil {
		l.lowerExpr(s.ThrowValue)
	}
	l.setTerm(Terminator{Kind: TermUnreachable})
}

// lowerConcurrent terminates the current block with a Concurrent terminator
// whose captures are the deterministic sorted set computed by capture
// analysis, then lowers the body into the new entry block (§4.4.5).
func (l *lowerer) lowerConcurrent(s ast.Stmt) {
	names := l.res.Captures[s.Span]
	captures := make([]Operand, 0, len(names))
	for _, name := range names {
		if id, ok := l.localByName[name]; ok {
			captures = append(captures, asOperand(Place{Local: id}, l.localType(id)))
		}
	}

	entry := l.newBlock()
	target := l.newBlock()
	l.setTerm(Terminator{Kind: TermConcurrent, Concurrent: ConcurrentTerm{Entry: entry, Target: target, Captures: captures}})

	l.startBlock(entry)
	l.lowerBlock(s.ConcurrentBody)
	if !l.curBlock().Terminated() {
		l.setTerm(Terminator{Kind: TermReturn})
	}

	l.startBlock(target)
}

func (l *lowerer) localType(id LocalID) types.TypeID {
	if l.f == nil || int(id) < 0 || int(id) >= len(l.f.Locals) {
		return types.NoTypeID
	}
	return l.f.Locals[id].Type
}

// elemType resolves coll's element type, unwrapping an Owned wrapper first
// since a foreach collection is commonly passed by reference.
func (l *lowerer) elemType(coll types.TypeID) types.TypeID {
	if coll == types.NoTypeID {
		return types.NoTypeID
	}
	t := l.in.Get(coll)
	if t.Kind == types.KindOwned {
		t = l.in.Get(t.Elem)
	}
	if t.Kind == types.KindArray {
		return t.Elem
	}
	return types.NoTypeID
}

func intConst(v int64, t types.TypeID) Operand {
	return Operand{Kind: OperandConstant, Type: t, Const: Const{Kind: ConstInt, Type: t, IntValue: v}}
}
