package sema

import (
	"aetherscript/internal/ast"
	"aetherscript/internal/diag"
	"aetherscript/internal/symbols"
	"aetherscript/internal/types"
)

// checkTry analyzes a try/catch/finally statement (§4.3.3): the set of
// currently-uncaught exceptions is saved on entry and restored on exit;
// each catch clause's exception type must not duplicate an earlier clause;
// entering the finally block disallows a net increase in uncaught
// exceptions; anything still uncaught at the end propagates to the
// enclosing context.
func (fc *funcChecker) checkTry(s ast.Stmt, table *symbols.Table, retType types.TypeID) {
	savedExceptions := append([]string(nil), fc.currentExceptions...)

	fc.checkBlock(s.TryBody, table, retType)

	seen := map[string]bool{}
	for _, c := range s.Catches {
		name := exceptionTypeName(c.ExceptionType)
		if seen[name] {
			fc.errf(diag.SemaDuplicateCatchClause, c.Span, "duplicate catch clause for %q", name)
			continue
		}
		seen[name] = true

		table.EnterScope(symbols.ScopeBlock)
		table.AddSymbol(symbols.NewVariable(c.BindingName, fc.resolveTypeSyntax(c.ExceptionType), false, c.Span))
		fc.checkBlock(c.Body, table, retType)
		table.ExitScope()

		fc.currentExceptions = removeException(fc.currentExceptions, name)
	}

	if s.Finally != nil {
		before := len(fc.currentExceptions)
		prevFinally := fc.inFinallyBlock
		fc.inFinallyBlock = true
		fc.checkBlock(s.Finally, table, retType)
		fc.inFinallyBlock = prevFinally
		if len(fc.currentExceptions) > before {
			fc.errf(diag.SemaInvalidOperation, s.Finally.Span, "finally block must not increase the set of uncaught exceptions")
		}
	}

	// Anything left uncaught after this try rethrows to the enclosing
	// context; merge back with what was active before entering this try.
	for _, e := range fc.currentExceptions {
		if !containsException(savedExceptions, e) {
			savedExceptions = append(savedExceptions, e)
		}
	}
	fc.currentExceptions = savedExceptions
}

// checkThrow analyzes a throw statement (§4.3.3): the thrown value's type
// must end in Error/Exception or be a struct/enum/String type; throwing
// from within a finally block is an error.
func (fc *funcChecker) checkThrow(s ast.Stmt, table *symbols.Table) {
	if fc.inFinallyBlock {
		fc.errf(diag.SemaInvalidOperation, s.Span, "cannot throw from within a finally block")
		return
	}
	valType := fc.inferExprType(s.ThrowValue, table)
	name := fc.typeDisplayName(valType)
	if !isThrowable(fc, valType, name) {
		fc.errf(diag.SemaInvalidType, s.Span, "thrown value must be a throwable type (name ending in Error/Exception, or a struct/enum/String)")
		return
	}
	if !containsException(fc.currentExceptions, name) {
		fc.currentExceptions = append(fc.currentExceptions, name)
	}
}

func isThrowable(fc *funcChecker, t types.TypeID, name string) bool {
	if hasErrorOrExceptionSuffix(name) {
		return true
	}
	tt := fc.checker.Interner.Get(t)
	if tt.Kind == types.KindPrimitive && tt.Primitive == types.PrimString {
		return true
	}
	def := fc.defForType(t)
	return def != nil && (def.Kind == types.DefStruct || def.Kind == types.DefEnum)
}

func hasErrorOrExceptionSuffix(name string) bool {
	return hasSuffix(name, "Error") || hasSuffix(name, "Exception")
}

func hasSuffix(s, suffix string) bool {
	return len(s) >= len(suffix) && s[len(s)-len(suffix):] == suffix
}

func exceptionTypeName(ts *ast.TypeSyntax) string {
	if ts == nil {
		return "<unknown>"
	}
	return ts.Name
}

func removeException(list []string, name string) []string {
	out := list[:0]
	for _, e := range list {
		if e != name {
			out = append(out, e)
		}
	}
	return out
}

func containsException(list []string, name string) bool {
	for _, e := range list {
		if e == name {
			return true
		}
	}
	return false
}

func (fc *funcChecker) typeDisplayName(t types.TypeID) string {
	tt := fc.checker.Interner.Get(t)
	if tt.Kind == types.KindNamed {
		return tt.Named.Name
	}
	return tt.Kind.String()
}
