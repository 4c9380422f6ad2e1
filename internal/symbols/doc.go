// Package symbols implements the lexical scope stack, symbol kinds, and
// per-symbol borrow-state tracking described by §3 and §4.2: a stack of
// Module/Function/Block/Loop frames, a per-module import table keyed by
// alias, and the borrow_variable/borrow_variable_mut/release_borrow state
// machine the ownership analysis (§4.3.5) drives.
package symbols
