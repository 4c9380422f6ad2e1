// Package parser turns a tokenized file into an *ast.Module.
//
// It is hand-written recursive-descent for statements and declarations,
// Pratt/precedence-climbing for expressions, following the ladder (lowest
// to highest): range, logical-or, logical-and, equality, relational,
// additive, multiplicative, unary, postfix.
//
// Parsing never stops at the first error: recoverable diagnostics are
// reported through a diag.Reporter and the cursor resynchronizes at the
// nearest statement or declaration boundary so the rest of the file still
// produces a usable, if partial, tree. The package takes an already
// tokenized stream; producing that stream from source text is outside its
// scope.
package parser
