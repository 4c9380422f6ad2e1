package ast

import "aetherscript/internal/source"

// TypeSyntaxKind tags a syntactic type expression, as written in source,
// before the semantic analyzer resolves it to a types.TypeID.
type TypeSyntaxKind uint8

const (
	TypeSyntaxPrimitive TypeSyntaxKind = iota
	TypeSyntaxNamed
	TypeSyntaxArray
	TypeSyntaxMap
	TypeSyntaxPointer
	TypeSyntaxFunction
	TypeSyntaxOwned // ^T written in type position
	TypeSyntaxBorrow
	TypeSyntaxBorrowMut
)

// TypeSyntax is a syntactic type as parsed (§4.1); internal/sema resolves
// it against the current generic scope and import set into a types.TypeID.
type TypeSyntax struct {
	Kind TypeSyntaxKind
	Span source.Span

	PrimitiveName string // "int", "float64", ... (matches the token.Kw* spelling)

	Name       string // TypeSyntaxNamed
	ModuleName string // optional qualifier
	Args       []*TypeSyntax // generic arguments, e.g. Array<T>, Map<K,V>

	Elem    *TypeSyntax // Array.element / Pointer.target / Owned.base
	HasSize bool
	Size    uint64

	Key   *TypeSyntax // Map.key
	Value *TypeSyntax // Map.value

	Mutable bool // Pointer.mutable

	Params   []*TypeSyntax // Function.params
	Return   *TypeSyntax   // Function.return
	Variadic bool
}

// Param is one function parameter as written in source.
type Param struct {
	Name string
	Type *TypeSyntax
	Span source.Span
}
