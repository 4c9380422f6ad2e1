package mir

import "aetherscript/internal/ast"

// lowerPreconditions emits an Assert terminator per runtime-checked @pre
// condition, chaining a fresh block after each so the function body
// continues once every precondition holds (§4.4.1).
func (l *lowerer) lowerPreconditions(fn *ast.Function) {
	for _, c := range fn.Meta.Pre {
		if !c.RuntimeCheck || c.Cond == nil {
			continue
		}
		cond := l.lowerExpr(c.Cond)
		next := l.newBlock()
		l.setTerm(Terminator{Kind: TermAssert, Assert: AssertTerm{Cond: cond, Message: "precondition violated", Target: next}})
		l.startBlock(next)
	}
}

// lowerPostconditions emits an Assert per runtime-checked @post condition,
// evaluated with `return_value` bound to the function's return local
// (§4.3.7, §4.4.1: "post-conditions are deferred and emitted at every
// Return after mapping return_value to the return local").
func (l *lowerer) lowerPostconditions() {
	if l.currentFn == nil {
		return
	}
	prev := l.inPostcondition
	l.inPostcondition = true
	defer func() { l.inPostcondition = prev }()
	for _, c := range l.currentFn.Meta.Post {
		if !c.RuntimeCheck || c.Cond == nil {
			continue
		}
		cond := l.lowerExpr(c.Cond)
		next := l.newBlock()
		l.setTerm(Terminator{Kind: TermAssert, Assert: AssertTerm{Cond: cond, Message: "postcondition violated", Target: next}})
		l.startBlock(next)
	}
}
