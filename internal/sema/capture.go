package sema

import (
	"sort"

	"aetherscript/internal/ast"
	"aetherscript/internal/source"
)

// runCaptureAnalysis computes the free-variable set of every Concurrent
// block and Lambda in mod, sorted lexicographically for deterministic
// lowering (§4.3.6).
func (a *Analyzer) runCaptureAnalysis(fc *funcChecker, mod *ast.Module) {
	for _, fn := range mod.FunctionDefinitions {
		if fn.Body != nil {
			walkBlockCaptures(fc, fn.Body, paramNames(fn.Params))
		}
	}
	for _, impl := range mod.ImplBlocks {
		for _, m := range impl.Methods {
			if m.Body != nil {
				walkBlockCaptures(fc, m.Body, paramNames(m.Params))
			}
		}
	}
}

func paramNames(params []ast.Param) map[string]bool {
	bound := make(map[string]bool, len(params))
	for _, p := range params {
		bound[p.Name] = true
	}
	return bound
}

// walkBlockCaptures recurses through a block, extending bound with every
// name introduced along the way, and recording a free-variable set whenever
// it encounters a Concurrent block or Lambda.
func walkBlockCaptures(fc *funcChecker, b *ast.Block, bound map[string]bool) {
	local := cloneSet(bound)
	for _, s := range b.Stmts {
		walkStmtCaptures(fc, s, local)
	}
}

func walkStmtCaptures(fc *funcChecker, s ast.Stmt, bound map[string]bool) {
	switch s.Kind {
	case ast.StmtLet:
		if s.Init != nil {
			walkExprCaptures(fc, s.Init, bound, nil)
		}
		bound[s.Name] = true
	case ast.StmtAssign:
		walkExprCaptures(fc, s.Target, bound, nil)
		walkExprCaptures(fc, s.Value, bound, nil)
	case ast.StmtReturn:
		walkExprCaptures(fc, s.ReturnValue, bound, nil)
	case ast.StmtExpr:
		walkExprCaptures(fc, s.Expr, bound, nil)
	case ast.StmtIf:
		walkExprCaptures(fc, s.Cond, bound, nil)
		walkBlockCaptures(fc, s.Then, bound)
		if s.Else != nil {
			walkBlockCaptures(fc, s.Else, bound)
		}
	case ast.StmtWhile:
		walkExprCaptures(fc, s.Cond, bound, nil)
		walkBlockCaptures(fc, s.Body, bound)
	case ast.StmtForEach:
		walkExprCaptures(fc, s.Collection, bound, nil)
		inner := cloneSet(bound)
		inner[s.ElemName] = true
		if s.IndexName != "" {
			inner[s.IndexName] = true
		}
		walkBlockCaptures(fc, s.Body, inner)
	case ast.StmtForRange:
		walkExprCaptures(fc, s.RangeLo, bound, nil)
		walkExprCaptures(fc, s.RangeHi, bound, nil)
		inner := cloneSet(bound)
		inner[s.CounterName] = true
		walkBlockCaptures(fc, s.Body, inner)
	case ast.StmtMatch:
		walkExprCaptures(fc, s.Scrutinee, bound, nil)
		for _, arm := range s.Arms {
			inner := cloneSet(bound)
			bindPatternNames(arm.Pattern, inner)
			walkBlockCaptures(fc, arm.Body, inner)
		}
	case ast.StmtTry:
		walkBlockCaptures(fc, s.TryBody, bound)
		for _, c := range s.Catches {
			inner := cloneSet(bound)
			inner[c.BindingName] = true
			walkBlockCaptures(fc, c.Body, inner)
		}
		if s.Finally != nil {
			walkBlockCaptures(fc, s.Finally, bound)
		}
	case ast.StmtThrow:
		walkExprCaptures(fc, s.ThrowValue, bound, nil)
	case ast.StmtConcurrent:
		free := map[string]bool{}
		walkExprCapturesInBlock(fc, s.ConcurrentBody, bound, free)
		fc.recordCapture(s.Span, free)
		walkBlockCaptures(fc, s.ConcurrentBody, bound)
	case ast.StmtBlock:
		walkBlockCaptures(fc, s.Body, bound)
	}
}

func walkExprCapturesInBlock(fc *funcChecker, b *ast.Block, bound map[string]bool, free map[string]bool) {
	inner := cloneSet(bound)
	for _, s := range b.Stmts {
		collectStmtFree(fc, s, inner, free)
	}
}

// collectStmtFree is a lighter traversal used only to populate free,
// without recursing into nested Concurrent/Lambda capture recording (those
// get their own entry when walkStmtCaptures reaches them normally).
func collectStmtFree(fc *funcChecker, s ast.Stmt, bound map[string]bool, free map[string]bool) {
	switch s.Kind {
	case ast.StmtLet:
		walkExprCaptures(fc, s.Init, bound, free)
		bound[s.Name] = true
	case ast.StmtAssign:
		walkExprCaptures(fc, s.Target, bound, free)
		walkExprCaptures(fc, s.Value, bound, free)
	case ast.StmtReturn:
		walkExprCaptures(fc, s.ReturnValue, bound, free)
	case ast.StmtExpr:
		walkExprCaptures(fc, s.Expr, bound, free)
	case ast.StmtIf:
		walkExprCaptures(fc, s.Cond, bound, free)
		for _, st := range s.Then.Stmts {
			collectStmtFree(fc, st, bound, free)
		}
		if s.Else != nil {
			for _, st := range s.Else.Stmts {
				collectStmtFree(fc, st, bound, free)
			}
		}
	case ast.StmtWhile:
		walkExprCaptures(fc, s.Cond, bound, free)
		for _, st := range s.Body.Stmts {
			collectStmtFree(fc, st, bound, free)
		}
	case ast.StmtForEach, ast.StmtForRange:
		walkExprCaptures(fc, s.Collection, bound, free)
		walkExprCaptures(fc, s.RangeLo, bound, free)
		walkExprCaptures(fc, s.RangeHi, bound, free)
		for _, st := range s.Body.Stmts {
			collectStmtFree(fc, st, bound, free)
		}
	case ast.StmtThrow:
		walkExprCaptures(fc, s.ThrowValue, bound, free)
	}
}

// walkExprCaptures records every Ident not present in bound, treating free
// as nil to mean "recording is disabled" (used for bound-set bookkeeping
// passes that don't need the result).
func walkExprCaptures(fc *funcChecker, e *ast.Expr, bound map[string]bool, free map[string]bool) {
	if e == nil {
		return
	}
	if e.Kind == ast.ExprIdent {
		if free != nil && !bound[e.Name] {
			free[e.Name] = true
		}
		return
	}
	walkExprCaptures(fc, e.Callee, bound, free)
	walkExprCaptures(fc, e.Receiver, bound, free)
	for _, a := range e.Args {
		walkExprCaptures(fc, a.Value, bound, free)
	}
	walkExprCaptures(fc, e.Left, bound, free)
	walkExprCaptures(fc, e.Right, bound, free)
	walkExprCaptures(fc, e.Operand, bound, free)
	for _, el := range e.Elems {
		walkExprCaptures(fc, el, bound, free)
	}
	for _, me := range e.MapEntries {
		walkExprCaptures(fc, me.Key, bound, free)
		walkExprCaptures(fc, me.Value, bound, free)
	}
	walkExprCaptures(fc, e.Base, bound, free)
	walkExprCaptures(fc, e.Index, bound, free)
	walkExprCaptures(fc, e.FieldBase, bound, free)
	for _, f := range e.Fields {
		walkExprCaptures(fc, f.Value, bound, free)
	}
	walkExprCaptures(fc, e.RangeLo, bound, free)
	walkExprCaptures(fc, e.RangeHi, bound, free)
	if e.Kind == ast.ExprLambda {
		inner := cloneSet(bound)
		for _, p := range e.Params {
			inner[p.Name] = true
		}
		lambdaFree := map[string]bool{}
		if e.Body != nil {
			walkExprCapturesInBlock(fc, e.Body, inner, lambdaFree)
		}
		fc.recordCapture(e.Span, lambdaFree)
		for name := range lambdaFree {
			if free != nil && !bound[name] {
				free[name] = true
			}
		}
	}
	if e.Kind == ast.ExprMatch {
		walkExprCaptures(fc, e.Scrutinee, bound, free)
		for _, arm := range e.Arms {
			inner := cloneSet(bound)
			bindPatternNames(arm.Pattern, inner)
			if arm.Body != nil {
				for _, st := range arm.Body.Stmts {
					collectStmtFree(fc, st, inner, free)
				}
			}
		}
	}
}

func bindPatternNames(p ast.Pattern, bound map[string]bool) {
	switch p.Kind {
	case ast.PatternWildcard, ast.PatternBinding:
		if p.BindingName != "" {
			bound[p.BindingName] = true
		}
	case ast.PatternEnumVariant:
		for _, b := range p.Bindings {
			bound[b] = true
		}
	case ast.PatternStruct:
		for _, f := range p.StructFields {
			if f.Pattern != nil {
				bindPatternNames(*f.Pattern, bound)
			} else {
				bound[f.Name] = true
			}
		}
	}
}

func cloneSet(s map[string]bool) map[string]bool {
	out := make(map[string]bool, len(s))
	for k, v := range s {
		out[k] = v
	}
	return out
}

// recordCapture stores free's names, sorted lexicographically, as the
// captured-variable set for the Concurrent block or Lambda at span (§4.3.6:
// "sorted lexicographically for determinism").
func (fc *funcChecker) recordCapture(span source.Span, free map[string]bool) {
	names := make([]string, 0, len(free))
	for name := range free {
		names = append(names, name)
	}
	sort.Strings(names)
	fc.res.Captures[span] = names
}
