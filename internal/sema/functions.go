package sema

import (
	"aetherscript/internal/ast"
	"aetherscript/internal/diag"
	"aetherscript/internal/symbols"
	"aetherscript/internal/types"
)

// predeclareFunctionSignatures registers every local function's signature
// before any body is analyzed, so forward references resolve (§4.3 step 9).
func (a *Analyzer) predeclareFunctionSignatures(fc *funcChecker, mod *ast.Module) {
	for _, fn := range mod.FunctionDefinitions {
		names := make([]string, len(fn.GenericParams))
		for i, g := range fn.GenericParams {
			names[i] = g.Name
		}
		fc.checker.PushGenericScope(names)
		sig := sigFromFunction(fc, fn)
		fc.checker.PopGenericScope()
		fc.res.Functions[fn.Name] = sig
		if !fc.res.Table.AddSymbolToGlobal(symbolFromSig(fn, sig)) {
			fc.errf(diag.SemaDuplicateDefinition, fn.Span, "function %q is already defined in this module", fn.Name)
		}
	}
}

// analyzeFunctionBody walks one top-level function's body (§4.3 step 10;
// §4.3.3).
func (fc *funcChecker) analyzeFunctionBody(fn *ast.Function) {
	fc.analyzeBody(fn, types.NoTypeID)
}

// analyzeMethodBody walks one impl-block method's body, additionally
// binding `self` to the receiver type when the method declares it as its
// first parameter (§4.3 step 6; §4.3.3).
func (fc *funcChecker) analyzeMethodBody(fn *ast.Function, selfType types.TypeID) {
	fc.analyzeBody(fn, selfType)
}

func (fc *funcChecker) analyzeBody(fn *ast.Function, selfType types.TypeID) {
	if fn.Body == nil {
		return // @extern declarations have no body
	}
	prevFn := fc.currentFn
	fc.currentFn = fn
	defer func() { fc.currentFn = prevFn }()

	names := make([]string, len(fn.GenericParams))
	for i, g := range fn.GenericParams {
		names[i] = g.Name
	}
	fc.checker.PushGenericScope(names)
	defer fc.checker.PopGenericScope()

	table := fc.res.Table
	table.EnterScope(symbols.ScopeFunction)
	defer table.ExitScope()

	for i, p := range fn.Params {
		if i == 0 && p.Name == "self" && selfType != types.NoTypeID {
			table.AddSymbol(symbols.NewParameter("self", selfType, p.Span))
			continue
		}
		table.AddSymbol(symbols.NewParameter(p.Name, fc.resolveTypeSyntax(p.Type), p.Span))
	}

	retType := fc.checker.Interner.Primitive(types.PrimVoid)
	if fn.ReturnType != nil {
		retType = fc.resolveTypeSyntax(fn.ReturnType)
	}
	fc.currentRetType = retType

	fc.checkContracts(fn, table, retType)
	fc.checkBlock(fn.Body, table, retType)
}

// checkBlock analyzes every statement of b in its own nested scope.
func (fc *funcChecker) checkBlock(b *ast.Block, table *symbols.Table, retType types.TypeID) {
	table.EnterScope(symbols.ScopeBlock)
	defer table.ExitScope()
	for _, stmt := range b.Stmts {
		fc.checkStmt(stmt, table, retType)
	}
}

func (fc *funcChecker) checkStmt(s ast.Stmt, table *symbols.Table, retType types.TypeID) {
	switch s.Kind {
	case ast.StmtLet:
		fc.checkLet(s, table)
	case ast.StmtAssign:
		fc.checkAssign(s, table)
	case ast.StmtReturn:
		fc.checkReturn(s, table, retType)
	case ast.StmtExpr:
		fc.inferExprType(s.Expr, table)
		if s.Expr != nil && s.Expr.Kind == ast.ExprCall {
			releaseCallBorrows(table, s.Expr.Args)
		} else if s.Expr != nil && s.Expr.Kind == ast.ExprMethodCall {
			releaseCallBorrows(table, s.Expr.Args)
		}
	case ast.StmtIf:
		fc.inferExprType(s.Cond, table)
		fc.checkBlock(s.Then, table, retType)
		if s.Else != nil {
			fc.checkBlock(s.Else, table, retType)
		}
	case ast.StmtWhile:
		fc.inferExprType(s.Cond, table)
		if s.Invariant != nil {
			fc.inferExprType(s.Invariant, table)
		}
		fc.inLoopDepth++
		fc.checkBlock(s.Body, table, retType)
		fc.inLoopDepth--
	case ast.StmtForEach:
		fc.checkForEach(s, table, retType)
	case ast.StmtForRange:
		fc.checkForRange(s, table, retType)
	case ast.StmtBreak, ast.StmtContinue:
		if s.BreakLabel != "" {
			fc.errf(diag.SemaUnsupportedFeature, s.Span, "labeled break/continue is not supported")
		}
		if fc.inLoopDepth == 0 {
			fc.errf(diag.SemaInvalidOperation, s.Span, "break/continue outside of a loop")
		}
	case ast.StmtMatch:
		fc.checkMatchStmt(s, table, retType)
	case ast.StmtTry:
		fc.checkTry(s, table, retType)
	case ast.StmtThrow:
		fc.checkThrow(s, table)
	case ast.StmtConcurrent:
		prev := fc.inConcurrentBlock
		fc.inConcurrentBlock = true
		fc.checkBlock(s.ConcurrentBody, table, retType)
		fc.inConcurrentBlock = prev
	case ast.StmtBlock:
		fc.checkBlock(s.Body, table, retType)
	}
}

func (fc *funcChecker) checkLet(s ast.Stmt, table *symbols.Table) {
	var declared types.TypeID
	var initType types.TypeID
	if s.Init != nil {
		// A Future<T> initializer is accepted directly against a T-typed
		// declaration; Compatible reports CastFutureAwait and lowering
		// inserts the explicit await (§4.3.1).
		initType = fc.inferExprType(s.Init, table)
	}
	if s.DeclaredType != nil {
		declared = fc.resolveTypeSyntax(s.DeclaredType)
		if s.Init != nil {
			if ok, _ := fc.checker.Compatible(declared, initType); !ok {
				fc.errf(diag.SemaTypeMismatch, s.Span, "cannot initialize %q: declared type does not match initializer", s.Name)
			}
		}
	} else {
		declared = initType
	}
	sym := symbols.NewVariable(s.Name, declared, s.Mutable, s.Span)
	sym.Initialized = s.Init != nil
	if !table.AddSymbol(sym) {
		fc.errf(diag.SemaDuplicateDefinition, s.Span, "%q is already defined in this scope", s.Name)
	}
}

func (fc *funcChecker) checkAssign(s ast.Stmt, table *symbols.Table) {
	valType := fc.inferExprType(s.Value, table)
	switch s.Target.Kind {
	case ast.ExprIdent:
		sym, ok := table.LookupSymbol(s.Target.Name)
		if !ok {
			fc.errf(diag.SemaUndefinedSymbol, s.Target.Span, "undefined symbol %q", s.Target.Name)
			return
		}
		if !sym.Mutable {
			fc.errf(diag.SemaAssignToImmutable, s.Span, "cannot assign to immutable variable %q", s.Target.Name)
			return
		}
		if ok, _ := fc.checker.Compatible(sym.Type, valType); !ok {
			fc.errf(diag.SemaTypeMismatch, s.Span, "cannot assign value of a different type to %q", s.Target.Name)
		}
		sym.Initialized = true
	case ast.ExprField:
		baseType := fc.inferExprType(s.Target.FieldBase, table)
		def := fc.defForType(baseType)
		if def == nil {
			fc.errf(diag.SemaUnknownField, s.Target.Span, "cannot resolve field %q: base has no struct definition", s.Target.FieldName)
			return
		}
		_, fieldType, ok := def.FieldIndex(s.Target.FieldName)
		if !ok {
			fc.errf(diag.SemaUnknownField, s.Target.Span, "unknown field %q on %q", s.Target.FieldName, def.Name)
			return
		}
		if ok, _ := fc.checker.Compatible(fieldType, valType); !ok {
			fc.errf(diag.SemaTypeMismatch, s.Span, "field %q assignment type mismatch", s.Target.FieldName)
		}
	case ast.ExprIndex:
		baseType := fc.inferExprType(s.Target.Base, table)
		fc.inferExprType(s.Target.Index, table)
		bt := fc.checker.Interner.Get(baseType)
		if bt.Kind == types.KindMap {
			if ok, _ := fc.checker.Compatible(bt.Value, valType); !ok {
				fc.errf(diag.SemaTypeMismatch, s.Span, "map_insert value type mismatch")
			}
		} else if bt.Kind == types.KindArray {
			if ok, _ := fc.checker.Compatible(bt.Elem, valType); !ok {
				fc.errf(diag.SemaTypeMismatch, s.Span, "array element assignment type mismatch")
			}
		}
	default:
		fc.errf(diag.SemaInvalidOperation, s.Span, "invalid assignment target")
	}
}

func (fc *funcChecker) checkReturn(s ast.Stmt, table *symbols.Table, retType types.TypeID) {
	if s.ReturnValue == nil {
		if ok, _ := fc.checker.Compatible(retType, fc.checker.Interner.Primitive(types.PrimVoid)); !ok {
			fc.errf(diag.SemaTypeMismatch, s.Span, "missing return value")
		}
		return
	}
	valType := fc.inferExprType(s.ReturnValue, table)
	if ok, _ := fc.checker.Compatible(retType, valType); !ok {
		fc.errf(diag.SemaTypeMismatch, s.Span, "return value does not match the function's declared return type")
	}
}

func (fc *funcChecker) checkForEach(s ast.Stmt, table *symbols.Table, retType types.TypeID) {
	collType := fc.inferExprType(s.Collection, table)
	ct := fc.checker.Interner.Get(collType)
	var elemType types.TypeID
	switch ct.Kind {
	case types.KindArray:
		elemType = ct.Elem
	case types.KindMap:
		elemType = ct.Value
	default:
		fc.errf(diag.SemaTypeMismatch, s.Span, "for-each collection must be an Array or Map")
		elemType = fc.checker.Interner.Error()
	}
	table.EnterScope(symbols.ScopeLoop)
	table.AddSymbol(symbols.NewVariable(s.ElemName, elemType, false, s.Span))
	if s.IndexName != "" {
		table.AddSymbol(symbols.NewVariable(s.IndexName, fc.checker.Interner.Primitive(types.PrimInt), false, s.Span))
	}
	fc.inLoopDepth++
	fc.checkBlock(s.Body, table, retType)
	fc.inLoopDepth--
	table.ExitScope()
}

func (fc *funcChecker) checkForRange(s ast.Stmt, table *symbols.Table, retType types.TypeID) {
	fc.inferExprType(s.RangeLo, table)
	fc.inferExprType(s.RangeHi, table)
	if s.RangeStep != nil {
		fc.inferExprType(s.RangeStep, table)
	}
	table.EnterScope(symbols.ScopeLoop)
	table.AddSymbol(symbols.NewVariable(s.CounterName, fc.checker.Interner.Primitive(types.PrimInt), false, s.Span))
	fc.inLoopDepth++
	fc.checkBlock(s.Body, table, retType)
	fc.inLoopDepth--
	table.ExitScope()
}

func (fc *funcChecker) defForType(t types.TypeID) *types.TypeDefinition {
	tt := fc.checker.Interner.Get(t)
	for tt.Kind == types.KindOwned {
		tt = fc.checker.Interner.Get(tt.Elem)
	}
	if tt.Kind != types.KindNamed {
		return nil
	}
	def, ok := fc.res.Table.LookupTypeDefinition(tt.Named.Name)
	if !ok {
		return nil
	}
	return def
}
