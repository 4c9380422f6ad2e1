package ast

import "aetherscript/internal/source"

// TypeDeclKind tags a TypeDeclSyntax variant (§3: TypeDefinition Struct/Enum/Alias).
type TypeDeclKind uint8

const (
	TypeDeclStruct TypeDeclKind = iota
	TypeDeclEnum
	TypeDeclAlias
)

// FieldSyntax is one `name: Type` struct field as written in source.
type FieldSyntax struct {
	Name string
	Type *TypeSyntax
	Span source.Span
}

// VariantSyntax is one enum variant, with an optional explicit discriminant
// and optional associated tuple-like payload types.
type VariantSyntax struct {
	Name            string
	Discriminant    *int64 // nil means positional, assigned by declaration order
	AssociatedTypes []*TypeSyntax
	Span            source.Span
}

// TypeDeclSyntax is a top-level `struct`/`enum`/`type alias` declaration,
// prior to semantic registration into a types.TypeDefinition.
type TypeDeclSyntax struct {
	Kind          TypeDeclKind
	Name          string
	GenericParams []GenericParam
	Fields        []FieldSyntax    // TypeDeclStruct
	Variants      []VariantSyntax  // TypeDeclEnum
	Target        *TypeSyntax      // TypeDeclAlias
	Export        ExportInfo
	Annotations   []Annotation
	Span          source.Span
}
