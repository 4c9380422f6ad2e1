package sema

import (
	"aetherscript/internal/ast"
	"aetherscript/internal/diag"
	"aetherscript/internal/symbols"
	"aetherscript/internal/types"
)

// inferExprType resolves e's type, recording it in the module result and
// reporting any mismatch along the way (§4.3.1, §4.3.3, §4.3.4).
func (fc *funcChecker) inferExprType(e *ast.Expr, table *symbols.Table) types.TypeID {
	if e == nil {
		return fc.checker.Interner.Primitive(types.PrimVoid)
	}
	t := fc.inferExprTypeNoRecord(e, table)
	fc.res.ExprTypes[e] = t
	return t
}

func (fc *funcChecker) inferExprTypeNoRecord(e *ast.Expr, table *symbols.Table) types.TypeID {
	in := fc.checker.Interner
	switch e.Kind {
	case ast.ExprIdent:
		sym, ok := table.LookupSymbol(e.Name)
		if !ok {
			fc.errf(diag.SemaUndefinedSymbol, e.Span, "undefined symbol %q", e.Name)
			return in.Error()
		}
		if sym.Kind == symbols.KindVariable && !sym.Initialized {
			fc.errf(diag.SemaUseBeforeInitialization, e.Span, "use of %q before it is initialized", e.Name)
		}
		if sym.Moved {
			fc.errf(diag.SemaUseAfterMove, e.Span, "use of %q after it was moved", e.Name)
		}
		return sym.Type

	case ast.ExprLit:
		return fc.literalType(e.Lit)

	case ast.ExprCall:
		return fc.inferCallType(e, table)

	case ast.ExprMethodCall:
		return fc.inferMethodCallType(e, table)

	case ast.ExprBinary:
		return fc.inferBinaryType(e, table)

	case ast.ExprUnary:
		operandType := fc.inferExprType(e.Operand, table)
		if e.UnOp == ast.UnaryNot {
			return in.Primitive(types.PrimBool)
		}
		return operandType

	case ast.ExprBorrow:
		name := identName(e.Operand)
		if name != "" {
			var err error
			if e.Mutable {
				err = table.BorrowVariableMut(name)
			} else {
				err = table.BorrowVariable(name)
			}
			if err != nil {
				fc.errf(diag.SemaInvalidOperation, e.Span, "%s", err.Error())
			}
		}
		base := fc.inferExprType(e.Operand, table)
		ownership := types.Borrowed
		if e.Mutable {
			ownership = types.MutableBorrow
		}
		return in.Owned(base, ownership)

	case ast.ExprMove:
		name := identName(e.Operand)
		if name != "" {
			if sym, ok := table.LookupSymbol(name); ok {
				sym.Moved = true
			}
		}
		return fc.inferExprType(e.Operand, table)

	case ast.ExprCast:
		fc.inferExprType(e.Operand, table)
		return fc.resolveTypeSyntax(e.CastTo)

	case ast.ExprGroup:
		if len(e.Elems) == 1 {
			return fc.inferExprType(e.Elems[0], table)
		}
		return in.Primitive(types.PrimVoid)

	case ast.ExprTuple:
		args := make([]types.TypeID, len(e.Elems))
		for i, el := range e.Elems {
			args[i] = fc.inferExprType(el, table)
		}
		return in.GenericInstance(in.Named("Tuple", ""), args, "")

	case ast.ExprArrayLit:
		var elemType types.TypeID
		for _, el := range e.Elems {
			t := fc.inferExprType(el, table)
			if elemType == types.NoTypeID {
				elemType = t
			}
		}
		if elemType == types.NoTypeID {
			elemType = in.Variable()
		}
		return in.Array(elemType, uint64(len(e.Elems)), true)

	case ast.ExprMapLit:
		var keyType, valType types.TypeID
		for _, entry := range e.MapEntries {
			k := fc.inferExprType(entry.Key, table)
			v := fc.inferExprType(entry.Value, table)
			if keyType == types.NoTypeID {
				keyType = k
			}
			if valType == types.NoTypeID {
				valType = v
			}
		}
		if keyType == types.NoTypeID {
			keyType = in.Variable()
		}
		if valType == types.NoTypeID {
			valType = in.Variable()
		}
		return in.Map(keyType, valType)

	case ast.ExprIndex:
		baseType := fc.inferExprType(e.Base, table)
		fc.inferExprType(e.Index, table)
		bt := in.Get(baseType)
		switch bt.Kind {
		case types.KindArray:
			return bt.Elem
		case types.KindMap:
			return bt.Value
		default:
			fc.errf(diag.SemaInvalidOperation, e.Span, "cannot index a non-Array/Map value")
			return in.Error()
		}

	case ast.ExprField:
		baseType := fc.inferExprType(e.FieldBase, table)
		def := fc.defForType(baseType)
		if def == nil {
			fc.errf(diag.SemaUnknownField, e.Span, "cannot resolve field %q: base has no struct definition", e.FieldName)
			return in.Error()
		}
		_, fieldType, ok := def.FieldIndex(e.FieldName)
		if !ok {
			fc.errf(diag.SemaUnknownField, e.Span, "unknown field %q on %q", e.FieldName, def.Name)
			return in.Error()
		}
		return fieldType

	case ast.ExprStructLit:
		def, ok := fc.res.Table.LookupTypeDefinition(e.StructName)
		if !ok {
			fc.errf(diag.SemaUndefinedSymbol, e.Span, "undefined struct %q", e.StructName)
			for _, f := range e.Fields {
				fc.inferExprType(f.Value, table)
			}
			return in.Error()
		}
		seen := map[string]bool{}
		for _, f := range e.Fields {
			seen[f.Name] = true
			_, fieldType, ok := def.FieldIndex(f.Name)
			if !ok {
				fc.errf(diag.SemaUnknownField, f.Span, "unknown field %q on %q", f.Name, def.Name)
				fc.inferExprType(f.Value, table)
				continue
			}
			valType := fc.inferExprType(f.Value, table)
			if ok, _ := fc.checker.Compatible(fieldType, valType); !ok {
				fc.errf(diag.SemaTypeMismatch, f.Span, "field %q initializer type mismatch", f.Name)
			}
		}
		for _, field := range def.Fields {
			if !seen[field.Name] {
				fc.errf(diag.SemaMissingField, e.Span, "missing field %q in %q literal", field.Name, def.Name)
			}
		}
		return in.Named(def.Name, fc.checker.CurrentModule)

	case ast.ExprRange:
		fc.inferExprType(e.RangeLo, table)
		fc.inferExprType(e.RangeHi, table)
		return in.Array(in.Primitive(types.PrimInt), 0, false)

	case ast.ExprLambda:
		return fc.inferLambdaType(e, table)

	case ast.ExprMatch:
		return fc.checkMatchExpr(e, table)

	default:
		return in.Error()
	}
}

func (fc *funcChecker) literalType(l ast.Literal) types.TypeID {
	in := fc.checker.Interner
	switch l.Kind {
	case ast.LitInt:
		return in.Primitive(types.PrimInt)
	case ast.LitUint:
		return in.Primitive(types.PrimUint)
	case ast.LitFloat:
		return in.Primitive(types.PrimFloat)
	case ast.LitBool:
		return in.Primitive(types.PrimBool)
	case ast.LitString, ast.LitFString:
		return in.Primitive(types.PrimString)
	case ast.LitNothing:
		return in.Primitive(types.PrimVoid)
	default:
		return in.Error()
	}
}

func (fc *funcChecker) inferBinaryType(e *ast.Expr, table *symbols.Table) types.TypeID {
	lt := fc.inferExprType(e.Left, table)
	rt := fc.inferExprType(e.Right, table)
	in := fc.checker.Interner
	switch e.BinOp {
	case ast.OpEq, ast.OpNotEq, ast.OpLt, ast.OpLtEq, ast.OpGt, ast.OpGtEq, ast.OpAnd, ast.OpOr:
		return in.Primitive(types.PrimBool)
	default:
		if ok, _ := fc.checker.Compatible(lt, rt); !ok {
			if ok2, _ := fc.checker.Compatible(rt, lt); !ok2 {
				fc.errf(diag.SemaTypeMismatch, e.Span, "operands of arithmetic operator have incompatible types")
			}
		}
		return lt
	}
}

func (fc *funcChecker) inferLambdaType(e *ast.Expr, table *symbols.Table) types.TypeID {
	in := fc.checker.Interner
	table.EnterScope(symbols.ScopeFunction)
	defer table.ExitScope()

	params := make([]types.TypeID, len(e.Params))
	for i, p := range e.Params {
		pt := fc.resolveTypeSyntax(p.Type)
		params[i] = pt
		table.AddSymbol(symbols.NewParameter(p.Name, pt, p.Span))
	}
	for _, c := range e.Captures {
		if sym, ok := table.LookupSymbol(c.Name); ok {
			table.AddSymbol(&symbols.Symbol{Name: c.Name, Kind: symbols.KindVariable, Type: sym.Type, Initialized: true, Mutable: c.Kind == ast.CaptureByRefMut})
		}
	}

	ret := in.Primitive(types.PrimVoid)
	if e.ReturnType != nil {
		ret = fc.resolveTypeSyntax(e.ReturnType)
	}
	if e.Body != nil {
		bodyType := fc.checkArmBody(e.Body, table)
		if e.ReturnType == nil {
			ret = bodyType
		}
	}
	return in.Function(params, ret, false)
}

func identName(e *ast.Expr) string {
	if e != nil && e.Kind == ast.ExprIdent {
		return e.Name
	}
	return ""
}
