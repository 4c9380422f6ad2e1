package sema

import (
	"aetherscript/internal/ast"
	"aetherscript/internal/diag"
	"aetherscript/internal/source"
	"aetherscript/internal/symbols"
	"aetherscript/internal/types"
)

// checkMatchStmt analyzes a `match` used as a statement: every arm gets its
// own fresh block scope, each pattern is checked against the scrutinee's
// type, all arm bodies must be mutually type-compatible as a statement
// sequence (no single result value is required), and — when the scrutinee
// is an enum type — every variant must be covered or matched by a wildcard
// (§4.3.3 match).
func (fc *funcChecker) checkMatchStmt(s ast.Stmt, table *symbols.Table, retType types.TypeID) {
	scrutType := fc.inferExprType(s.Scrutinee, table)
	fc.checkMatchArms(s.Span, scrutType, s.Arms, table, func(arm ast.MatchArm, scope *symbols.Table) {
		fc.checkBlock(arm.Body, scope, retType)
	})
}

// checkMatchExpr analyzes a `match` used as an expression, additionally
// requiring every arm's trailing value to be mutually compatible, and
// returns that common type.
func (fc *funcChecker) checkMatchExpr(e *ast.Expr, table *symbols.Table) types.TypeID {
	scrutType := fc.inferExprType(e.Scrutinee, table)
	var result types.TypeID
	fc.checkMatchArms(e.Span, scrutType, e.Arms, table, func(arm ast.MatchArm, scope *symbols.Table) {
		armType := fc.checkArmBody(arm.Body, scope)
		if result == types.NoTypeID {
			result = armType
		} else if ok, _ := fc.checker.Compatible(result, armType); !ok {
			fc.errf(diag.SemaTypeMismatch, arm.Span, "match arms have incompatible types")
		}
	})
	if result == types.NoTypeID {
		return fc.checker.Interner.Primitive(types.PrimVoid)
	}
	return result
}

// checkArmBody evaluates a match arm's block, returning the type of its
// trailing expression statement if it ends with one, else Void.
func (fc *funcChecker) checkArmBody(b *ast.Block, table *symbols.Table) types.TypeID {
	table.EnterScope(symbols.ScopeBlock)
	defer table.ExitScope()
	var last types.TypeID
	for i, stmt := range b.Stmts {
		if i == len(b.Stmts)-1 && stmt.Kind == ast.StmtExpr {
			last = fc.inferExprType(stmt.Expr, table)
			continue
		}
		fc.checkStmt(stmt, table, fc.currentRetType)
	}
	if last == types.NoTypeID {
		return fc.checker.Interner.Primitive(types.PrimVoid)
	}
	return last
}

func (fc *funcChecker) checkMatchArms(span source.Span, scrutType types.TypeID, arms []ast.MatchArm, table *symbols.Table, visit func(ast.MatchArm, *symbols.Table)) {
	covered := map[string]bool{}
	hasWildcard := false
	for _, arm := range arms {
		table.EnterScope(symbols.ScopeBlock)
		fc.checkPattern(arm.Pattern, scrutType, table)
		if arm.Guard != nil {
			fc.inferExprType(arm.Guard, table)
		}
		if arm.Pattern.Kind == ast.PatternWildcard || arm.Pattern.Kind == ast.PatternBinding {
			hasWildcard = true
		}
		if arm.Pattern.Kind == ast.PatternEnumVariant {
			covered[arm.Pattern.VariantName] = true
		}
		visit(arm, table)
		table.ExitScope()
	}

	if !hasWildcard {
		def := fc.defForType(scrutType)
		if def != nil && def.Kind == types.DefEnum {
			var missing []string
			for _, v := range def.Variants {
				if !covered[v.Name] {
					missing = append(missing, v.Name)
				}
			}
			if len(missing) > 0 {
				fc.errf(diag.SemaInvalidOperation, span, "non-exhaustive patterns: missing %v", missing)
			}
		}
	}
}

// checkPattern binds pattern's names into table and validates its shape
// against expected (§4.3.3 match).
func (fc *funcChecker) checkPattern(p ast.Pattern, expected types.TypeID, table *symbols.Table) {
	switch p.Kind {
	case ast.PatternWildcard:
		if p.BindingName != "" {
			table.AddSymbol(symbols.NewVariable(p.BindingName, expected, false, p.Span))
		}
	case ast.PatternBinding:
		table.AddSymbol(symbols.NewVariable(p.BindingName, expected, false, p.Span))
	case ast.PatternLiteral:
		// literal shape checked structurally at lowering; nothing to bind
	case ast.PatternEnumVariant:
		def := fc.defForType(expected)
		if def == nil || def.Kind != types.DefEnum {
			fc.errf(diag.SemaTypeMismatch, p.Span, "pattern does not match a non-enum scrutinee")
			return
		}
		variant, ok := def.VariantByName(p.VariantName)
		if !ok {
			fc.errf(diag.SemaUnknownField, p.Span, "enum %q has no variant %q", def.Name, p.VariantName)
			return
		}
		for i, b := range p.Bindings {
			var bt types.TypeID
			if i < len(variant.AssociatedTypes) {
				bt = variant.AssociatedTypes[i]
			}
			table.AddSymbol(symbols.NewVariable(b, bt, false, p.Span))
		}
	case ast.PatternStruct:
		def := fc.defForType(expected)
		if def == nil || def.Kind != types.DefStruct {
			fc.errf(diag.SemaTypeMismatch, p.Span, "pattern does not match a non-struct scrutinee")
			return
		}
		for _, field := range p.StructFields {
			_, fieldType, ok := def.FieldIndex(field.Name)
			if !ok {
				fc.errf(diag.SemaUnknownField, p.Span, "unknown field %q on %q", field.Name, def.Name)
				continue
			}
			if field.Pattern != nil {
				fc.checkPattern(*field.Pattern, fieldType, table)
			} else {
				table.AddSymbol(symbols.NewVariable(field.Name, fieldType, false, p.Span))
			}
		}
	}
}
