// Package ast defines the syntax tree produced by internal/parser and
// consumed by internal/sema.
//
// Every node family (Expr, Stmt, Pattern, TypeSyntax) is a flat tagged
// union: a Kind field plus every variant's payload inlined as struct
// fields, rather than an interface with one implementing type per variant.
// This mirrors the shape internal/mir uses for Rvalue and Terminator, so
// lowering and analysis can switch on Kind directly. It trades the
// per-variant arena indirection other packages in this tree use for
// simplicity, at the cost of a larger Expr/Stmt struct; most fields sit
// unused for any given Kind.
//
// Types are purely syntactic here: a TypeSyntax names "Array<T>" or
// "^Widget" as written, with no notion of a resolved types.TypeID. That
// resolution, along with generic substitution and borrow-state tracking,
// belongs to internal/sema.
package ast
