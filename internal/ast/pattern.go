package ast

import "aetherscript/internal/source"

// PatternKind tags the Pattern variant (§4.1 pattern grammar).
type PatternKind uint8

const (
	PatternWildcard PatternKind = iota // _ (optionally with binding)
	PatternLiteral
	PatternEnumVariant // EnumType::Variant[(bindings)] or bare Variant[(bindings)]
	PatternStruct      // StructName { field: pattern [, ...] }
	PatternBinding      // a bare identifier that binds
)

// PatternField is one `field: pattern` entry of a struct pattern; when
// Pattern is nil the shorthand `{ field }` form was used and the field
// binds a variable of the same name (§4.1).
type PatternField struct {
	Name    string
	Pattern *Pattern
}

// Pattern is a match-arm or destructuring pattern.
type Pattern struct {
	Kind PatternKind
	Span source.Span

	BindingName string // PatternWildcard (optional) / PatternBinding

	Lit Literal // PatternLiteral

	EnumType    string   // PatternEnumVariant, may be empty for a bare Variant
	VariantName string   // PatternEnumVariant
	Bindings    []string // PatternEnumVariant positional bindings

	StructName   string         // PatternStruct
	StructFields []PatternField // PatternStruct
}
