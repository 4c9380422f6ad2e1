package abi

import "aetherscript/internal/source"

// AbiModule is the serializable descriptor of one module's public surface
// (§3 ABI Module; §4.5).
type AbiModule struct {
	Name         string
	SourcePath   string
	Dependencies []Dependency
	Functions    []Function
	Types        Types
	Traits       []Trait
	Impls        []Impl
}

// Dependency is one entry of the module's import list.
type Dependency struct {
	Module            string
	VersionConstraint string // empty when unconstrained
}

// TypeKind tags an AbiType variant.
type TypeKind uint8

const (
	TypePrimitive TypeKind = iota
	TypeNamed
	TypeGenericParam
	TypeGenericInstance
	TypeArray
	TypeMap
	TypePointer
	TypeFunction
)

// AbiType is a tagged-union type reference persisted in the ABI; it mirrors
// the syntactic shape of ast.TypeSyntax rather than a resolved types.TypeID,
// since the ABI is a portable descriptor read by other compilation units
// that have not resolved this module's generics.
type AbiType struct {
	Kind TypeKind

	Name       string   // TypePrimitive / TypeNamed / TypeGenericParam / TypeGenericInstance (base name)
	ModuleName string   // TypeNamed / TypeGenericInstance, qualifying module when known
	Args       []AbiType // TypeGenericInstance

	Elem *AbiType // TypeArray.element / TypePointer.target
	Size *uint64  // TypeArray, nil when unsized

	Key   *AbiType // TypeMap.key
	Value *AbiType // TypeMap.value

	Mutable bool // TypePointer

	Params []AbiType // TypeFunction.params
	Return *AbiType  // TypeFunction.return
}

// ParameterMode records how a function parameter is passed. Borrow modes
// are not yet distinguished in the ABI (matches the original's own
// "TODO: Detect borrow modes", §C); every parameter is Owned.
type ParameterMode uint8

const (
	ParamOwned ParameterMode = iota
)

// Parameter is one function parameter's ABI entry.
type Parameter struct {
	Name string
	Type AbiType
	Mode ParameterMode
}

// GenericParam is one generic type parameter, freeform-constrained.
type GenericParam struct {
	Name        string
	Constraints []string
}

// Signature is a function's persisted signature (§4.5).
type Signature struct {
	GenericParams []GenericParam
	WhereClauses  []string
	Params        []Parameter
	Return        AbiType
	Variadic      bool
}

// CallingConvention distinguishes an extern function's ABI calling
// convention; StdCall/FastCall collapse to System per §4.3.2.
type CallingConvention uint8

const (
	ConventionC CallingConvention = iota
	ConventionSystem
)

// FunctionKindTag tags a Function's Kind variant (§4.5).
type FunctionKindTag uint8

const (
	KindNative FunctionKindTag = iota
	KindGeneric
	KindExtern
)

// FunctionKind is a tagged union over a function's ABI linkage.
type FunctionKind struct {
	Tag FunctionKindTag

	// KindNative
	Symbol string

	// KindGeneric
	SymbolPrefix string
	HasMir       bool

	// KindExtern
	Library           string
	ExternSymbol      string
	CallingConvention CallingConvention
}

// Contract is one persisted `@pre`/`@post` condition, rendered by the
// deterministic expression printer (§4.5).
type Contract struct {
	Expr    string
	Message string
}

// FunctionContracts is a function's persisted precondition/postcondition
// set; Verified and AssumesAxioms are reserved for a future verification
// pass and always zero-valued at generation time (§4.5).
type FunctionContracts struct {
	Preconditions  []Contract
	Postconditions []Contract
	Verified       bool
	AssumesAxioms  []string
}

// Function is one exported function's ABI entry.
type Function struct {
	Name           string
	Signature      Signature
	Kind           FunctionKind
	Contracts      FunctionContracts
	Attributes     []string // "export", "async", "extern"
	SourceLocation source.Span
}

// Visibility distinguishes a struct field's ABI visibility. Every field
// persisted here is public — private fields carry no ABI entry.
type Visibility uint8

const (
	VisibilityPublic Visibility = iota
)

// StructField is one ordered field of a persisted struct.
type StructField struct {
	Name       string
	Type       AbiType
	Visibility Visibility
}

// Struct is one exported struct type.
type Struct struct {
	Name           string
	GenericParams  []GenericParam
	Fields         []StructField
	Attributes     []string
	SourceLocation source.Span
}

// VariantField is one field of an enum variant; unnamed associated types
// get positional names `_0`, `_1`, … (§4.5).
type VariantField struct {
	Name string
	Type AbiType
}

// EnumVariant is one exported enum variant.
type EnumVariant struct {
	Name         string
	Fields       []VariantField
	Discriminant int64
}

// Enum is one exported enum type.
type Enum struct {
	Name           string
	GenericParams  []GenericParam
	Variants       []EnumVariant
	Attributes     []string
	SourceLocation source.Span
}

// TypeAlias is one exported `type Alias = Target` declaration.
type TypeAlias struct {
	Name           string
	GenericParams  []GenericParam
	Target         AbiType
	SourceLocation source.Span
}

// Types groups the three exported type-definition kinds.
type Types struct {
	Structs     []Struct
	Enums       []Enum
	TypeAliases []TypeAlias
}

// QuantifierKind distinguishes forall/exists in a flattened axiom binding.
type QuantifierKind uint8

const (
	QuantifierForAll QuantifierKind = iota
	QuantifierExists
)

// Quantifier is one flattened `forall x: T` / `exists x: T` binding of a
// trait axiom.
type Quantifier struct {
	Var  string
	Type AbiType
	Kind QuantifierKind
}

// Axiom is one trait-level axiom: a flattened quantifier list plus the
// condition expression it governs, rendered the same way contracts are.
type Axiom struct {
	Name           string
	Quantifiers    []Quantifier
	Expr           string
	SourceLocation source.Span
}

// TraitMethod is one method declared inside a trait.
type TraitMethod struct {
	Name       string
	Signature  Signature
	HasDefault bool
	Contracts  FunctionContracts
}

// Trait is one exported trait definition.
type Trait struct {
	Name           string
	GenericParams  []GenericParam
	Methods        []TraitMethod
	Axioms         []Axiom
	SourceLocation source.Span
}

// TraitRef names a trait plus its generic arguments, as referenced by an
// impl block's header.
type TraitRef struct {
	Name     string
	TypeArgs []AbiType
}

// MethodImpl is one method symbol within a trait impl, mangled
// `"Module.<TraitName>__<MethodName>"` (§4.5, §C).
type MethodImpl struct {
	Name   string
	Symbol string
}

// Impl is one trait implementation's ABI entry.
type Impl struct {
	TraitRef       TraitRef
	ForType        AbiType
	GenericParams  []GenericParam
	Methods        []MethodImpl
	SourceLocation source.Span
}
