package mir

import (
	"aetherscript/internal/ast"
	"aetherscript/internal/source"
	"aetherscript/internal/types"
)

// lowerMatchStmt compiles a match statement per §4.4.3: a simple arm set
// (no guards, no struct/nested-enum patterns) compiles to a single
// SwitchInt; anything else falls back to the general sequential
// check/body chain.
func (l *lowerer) lowerMatchStmt(s ast.Stmt) {
	scrutType := l.res.ExprTypes[s.Scrutinee]
	scrut := l.materialize(l.lowerExpr(s.Scrutinee))
	end := l.newBlock()

	if isSimpleArmSet(s.Arms) {
		l.lowerSimpleSwitch(scrut, scrutType, s.Arms, end, func(body *ast.Block) {
			l.lowerBlock(body)
		})
	} else {
		l.lowerGeneralMatch(scrut, scrutType, s.Arms, end, func(body *ast.Block) {
			l.lowerBlock(body)
		})
	}

	l.startBlock(end)
}

// lowerMatchExpr compiles a match used as an expression: every arm body
// assigns into a shared result local before jumping to the join block.
func (l *lowerer) lowerMatchExpr(e *ast.Expr, ty types.TypeID) Operand {
	scrutType := l.res.ExprTypes[e.Scrutinee]
	scrut := l.materialize(l.lowerExpr(e.Scrutinee))
	result := l.newTemp(ty, "match")
	end := l.newBlock()

	assign := func(body *ast.Block) {
		l.lowerBlock(body)
		if !l.curBlock().Terminated() {
			if v, ok := trailingExprValue(body); ok {
				op := l.lowerExprForType(v, ty)
				l.emit(Stmt{Kind: StmtAssign, Assign: AssignStmt{Dst: Place{Local: result}, Src: Rvalue{Kind: RvalueUse, Use: op}}})
			}
		}
	}

	if isSimpleArmSet(e.Arms) {
		l.lowerSimpleSwitch(scrut, scrutType, e.Arms, end, assign)
	} else {
		l.lowerGeneralMatch(scrut, scrutType, e.Arms, end, assign)
	}

	l.startBlock(end)
	return asOperand(Place{Local: result}, ty)
}

// trailingExprValue reports whether body ends in a bare expression
// statement, the implicit-return convention used by lambda and match-arm
// bodies (§4.1).
func trailingExprValue(body *ast.Block) (*ast.Expr, bool) {
	if body == nil || len(body.Stmts) == 0 {
		return nil, false
	}
	last := body.Stmts[len(body.Stmts)-1]
	if last.Kind == ast.StmtExpr && last.Expr != nil {
		return last.Expr, true
	}
	return nil, false
}

// isSimpleArmSet reports whether every arm is guard-free and matches
// either a literal or a bare (no nested-field) enum variant, the
// condition under which a single SwitchInt suffices (§4.4.3).
func isSimpleArmSet(arms []ast.MatchArm) bool {
	for _, a := range arms {
		if a.Guard != nil {
			return false
		}
		switch a.Pattern.Kind {
		case ast.PatternLiteral:
			if a.Pattern.Lit.Kind != ast.LitInt && a.Pattern.Lit.Kind != ast.LitUint && a.Pattern.Lit.Kind != ast.LitBool {
				return false
			}
		case ast.PatternEnumVariant:
			if len(a.Pattern.Bindings) > 0 {
				return false
			}
		case ast.PatternWildcard:
			// always representable as the switch's default case
		default:
			return false
		}
	}
	return true
}

func (l *lowerer) switchCaseValue(scrutType types.TypeID, p ast.Pattern) int64 {
	switch p.Kind {
	case ast.PatternLiteral:
		switch p.Lit.Kind {
		case ast.LitBool:
			if p.Lit.Bool {
				return 1
			}
			return 0
		default:
			return parseIntLiteral(p.Lit.Text)
		}
	case ast.PatternEnumVariant:
		if def := l.namedDefFor(scrutType); def != nil {
			if v, ok := def.VariantByName(p.VariantName); ok {
				return int64(v.Discriminant)
			}
		}
	}
	return 0
}

func (l *lowerer) namedDefFor(t types.TypeID) *types.TypeDefinition {
	if t == types.NoTypeID {
		return nil
	}
	tt := l.in.Get(t)
	for tt.Kind == types.KindOwned {
		tt = l.in.Get(tt.Elem)
	}
	if tt.Kind != types.KindNamed {
		return nil
	}
	def, ok := l.res.Defs.Lookup(tt.Named.Name)
	if !ok {
		return nil
	}
	return def
}

// lowerSimpleSwitch lowers a guard-free arm set to one SwitchInt over the
// scrutinee's literal value or enum discriminant (§4.4.3).
func (l *lowerer) lowerSimpleSwitch(scrut LocalID, scrutType types.TypeID, arms []ast.MatchArm, end BlockID, lowerBody func(*ast.Block)) {
	discr := asOperand(Place{Local: scrut}, scrutType)
	if def := l.namedDefFor(scrutType); def != nil && def.Kind == types.DefEnum {
		tmp := l.newTemp(l.in.Primitive(types.PrimInt64), "tag")
		l.emit(Stmt{Kind: StmtAssign, Assign: AssignStmt{Dst: Place{Local: tmp}, Src: Rvalue{
			Kind: RvalueDiscriminant, Discriminant: asOperand(Place{Local: scrut}, scrutType),
		}}})
		discr = asOperand(Place{Local: tmp}, l.in.Primitive(types.PrimInt64))
	}

	cases := make([]SwitchIntCase, 0, len(arms))
	defaultTarget := end
	bodies := make(map[int]*ast.Block)
	order := make([]int, 0, len(arms))
	for _, a := range arms {
		bb := l.newBlock()
		bodies[int(bb)] = a.Body
		order = append(order, int(bb))
		if a.Pattern.Kind == ast.PatternWildcard {
			defaultTarget = bb
			continue
		}
		cases = append(cases, SwitchIntCase{Value: l.switchCaseValue(scrutType, a.Pattern), Target: bb})
	}
	l.setTerm(Terminator{Kind: TermSwitchInt, SwitchInt: SwitchIntTerm{Discr: discr, Cases: cases, Default: defaultTarget}})

	for _, bbInt := range order {
		bb := BlockID(bbInt)
		l.startBlock(bb)
		lowerBody(bodies[bbInt])
		if !l.curBlock().Terminated() {
			l.setTerm(Terminator{Kind: TermGoto, Goto: GotoTerm{Target: end}})
		}
	}
}

// lowerGeneralMatch lowers an arbitrary arm set (guards, struct patterns,
// nested enum bindings) as a sequential check/body chain: each arm's check
// block evaluates the pattern test, extracts bindings on match, evaluates
// an optional guard, then branches to its body or the next arm's check
// (§4.4.3).
func (l *lowerer) lowerGeneralMatch(scrut LocalID, scrutType types.TypeID, arms []ast.MatchArm, end BlockID, lowerBody func(*ast.Block)) {
	if len(arms) == 0 {
		l.setTerm(Terminator{Kind: TermGoto, Goto: GotoTerm{Target: end}})
		return
	}

	checks := make([]BlockID, len(arms))
	bodies := make([]BlockID, len(arms))
	for i := range arms {
		checks[i] = l.newBlock()
		bodies[i] = l.newBlock()
	}

	l.setTerm(Terminator{Kind: TermGoto, Goto: GotoTerm{Target: checks[0]}})

	for i, a := range arms {
		l.startBlock(checks[i])
		next := end
		if i+1 < len(arms) {
			next = checks[i+1]
		}

		matched := l.lowerPatternCheck(scrut, scrutType, a.Pattern)
		bindBB := l.newBlock()
		l.setTerm(Terminator{Kind: TermSwitchInt, SwitchInt: SwitchIntTerm{
			Discr: matched, Cases: []SwitchIntCase{{Value: 1, Target: bindBB}}, Default: next,
		}})

		l.startBlock(bindBB)
		l.lowerPatternBindings(scrut, scrutType, a.Pattern)
		if a.Guard != nil {
			guard := l.lowerExpr(a.Guard)
			l.setTerm(Terminator{Kind: TermSwitchInt, SwitchInt: SwitchIntTerm{
				Discr: guard, Cases: []SwitchIntCase{{Value: 1, Target: bodies[i]}}, Default: next,
			}})
		} else {
			l.setTerm(Terminator{Kind: TermGoto, Goto: GotoTerm{Target: bodies[i]}})
		}
	}

	for i, a := range arms {
		l.startBlock(bodies[i])
		lowerBody(a.Body)
		if !l.curBlock().Terminated() {
			l.setTerm(Terminator{Kind: TermGoto, Goto: GotoTerm{Target: end}})
		}
	}
}

// lowerPatternCheck evaluates whether scrut matches p, returning a boolean
// operand (§4.4.3).
func (l *lowerer) lowerPatternCheck(scrut LocalID, scrutType types.TypeID, p ast.Pattern) Operand {
	boolTy := l.in.Primitive(types.PrimBool)
	switch p.Kind {
	case ast.PatternWildcard, ast.PatternBinding:
		return Operand{Kind: OperandConstant, Type: boolTy, Const: Const{Kind: ConstBool, Type: boolTy, BoolValue: true}}
	case ast.PatternLiteral:
		lit := l.lowerLiteral(p.Lit, scrutType)
		tmp := l.newTemp(boolTy, "patok")
		l.emit(Stmt{Kind: StmtAssign, Assign: AssignStmt{Dst: Place{Local: tmp}, Src: Rvalue{
			Kind:   RvalueBinaryOp,
			Binary: BinaryOpRvalue{Op: ast.OpEq, Left: asOperand(Place{Local: scrut}, scrutType), Right: lit},
		}}})
		return asOperand(Place{Local: tmp}, boolTy)
	case ast.PatternEnumVariant:
		tagTmp := l.newTemp(l.in.Primitive(types.PrimInt64), "tag")
		l.emit(Stmt{Kind: StmtAssign, Assign: AssignStmt{Dst: Place{Local: tagTmp}, Src: Rvalue{
			Kind: RvalueDiscriminant, Discriminant: asOperand(Place{Local: scrut}, scrutType),
		}}})
		var discr int64
		if def := l.namedDefFor(scrutType); def != nil {
			if v, ok := def.VariantByName(p.VariantName); ok {
				discr = int64(v.Discriminant)
			}
		}
		tmp := l.newTemp(boolTy, "patok")
		l.emit(Stmt{Kind: StmtAssign, Assign: AssignStmt{Dst: Place{Local: tmp}, Src: Rvalue{
			Kind: RvalueBinaryOp,
			Binary: BinaryOpRvalue{
				Op: ast.OpEq, Left: asOperand(Place{Local: tagTmp}, l.in.Primitive(types.PrimInt64)),
				Right: intConst(discr, l.in.Primitive(types.PrimInt64)),
			},
		}}})
		return asOperand(Place{Local: tmp}, boolTy)
	case ast.PatternStruct:
		// Struct patterns destructure unconditionally in this grammar
		// (no nested literal sub-patterns); the match always succeeds.
		return Operand{Kind: OperandConstant, Type: boolTy, Const: Const{Kind: ConstBool, Type: boolTy, BoolValue: true}}
	default:
		return Operand{Kind: OperandConstant, Type: boolTy, Const: Const{Kind: ConstBool, Type: boolTy, BoolValue: true}}
	}
}

// lowerPatternBindings materializes the bindings a matched pattern
// introduces: a wildcard/plain binding copies the scrutinee itself; an enum
// variant's positional bindings project field index i+1 (discriminant sits
// at index 0); a struct pattern projects each named field (§4.4.3).
func (l *lowerer) lowerPatternBindings(scrut LocalID, scrutType types.TypeID, p ast.Pattern) {
	switch p.Kind {
	case ast.PatternBinding:
		l.copyInto(p.BindingName, scrut, scrutType)
	case ast.PatternWildcard:
		if p.BindingName != "" {
			l.copyInto(p.BindingName, scrut, scrutType)
		}
	case ast.PatternEnumVariant:
		def := l.namedDefFor(scrutType)
		if def == nil {
			return
		}
		variant, ok := def.VariantByName(p.VariantName)
		if !ok {
			return
		}
		for i, name := range p.Bindings {
			if name == "" || name == "_" {
				continue
			}
			var ft types.TypeID
			if i < len(variant.AssociatedTypes) {
				ft = variant.AssociatedTypes[i]
			}
			place := Place{Local: scrut, Proj: []PlaceProj{{Kind: ProjField, FieldIdx: i + 1, FieldType: ft}}}
			l.newLocal(name, ft, p.Span)
			l.emit(Stmt{Kind: StmtAssign, Assign: AssignStmt{Dst: Place{Local: l.localByName[name]}, Src: Rvalue{
				Kind: RvalueUse, Use: asOperand(place, ft),
			}}})
		}
	case ast.PatternStruct:
		def := l.namedDefFor(scrutType)
		for _, pf := range p.StructFields {
			bindName := pf.Name
			if pf.Pattern != nil && pf.Pattern.BindingName != "" {
				bindName = pf.Pattern.BindingName
			}
			var fieldIdx int
			var ft types.TypeID
			if def != nil {
				if idx, t, ok := def.FieldIndex(pf.Name); ok {
					fieldIdx, ft = idx, t
				}
			}
			place := Place{Local: scrut, Proj: []PlaceProj{{Kind: ProjField, FieldName: pf.Name, FieldIdx: fieldIdx, FieldType: ft}}}
			l.newLocal(bindName, ft, p.Span)
			l.emit(Stmt{Kind: StmtAssign, Assign: AssignStmt{Dst: Place{Local: l.localByName[bindName]}, Src: Rvalue{
				Kind: RvalueUse, Use: asOperand(place, ft),
			}}})
		}
	}
}

func (l *lowerer) copyInto(name string, src LocalID, ty types.TypeID) {
	if name == "" || name == "_" {
		return
	}
	id := l.newLocal(name, ty, source.Span{})
	l.emit(Stmt{Kind: StmtAssign, Assign: AssignStmt{Dst: Place{Local: id}, Src: Rvalue{
		Kind: RvalueUse, Use: asOperand(Place{Local: src}, ty),
	}}})
}
