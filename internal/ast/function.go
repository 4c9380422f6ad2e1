package ast

import "aetherscript/internal/source"

// Contract is one `@pre`/`@post`/invariant condition attached to a function
// (§4.3.7, §4.5): the braced expression plus whether it carries `check=runtime`.
type Contract struct {
	Cond         *Expr
	RuntimeCheck bool
	Span         source.Span
}

// Metadata collects the optional annotation-derived facts about a function
// that flow through to its ABI entry (§3 Function (AST); §4.3.7; §4.5).
type Metadata struct {
	Pre           []Contract
	Post          []Contract
	Invariants    []Contract
	Complexity    string // freeform, e.g. "O(n log n)"
	Perf          string // freeform perf hint
	AlgorithmHint string
	Throws        []string // named exception types this function may throw
	ThreadSafe    *bool    // nil means unspecified
	MayBlock      *bool
}

// GenericParam is one `<T: Bound1 + Bound2>` entry.
type GenericParam struct {
	Name        string
	Constraints []string
	Span        source.Span
}

// ExportInfo records whether a declaration is `pub` and, if so, the name it
// is exported under (normally identical to the declared name).
type ExportInfo struct {
	Exported bool
	AsName   string
}

// ExternInfo is the resolved payload of an `@extern(library=…, symbol=?,
// variadic=?)` annotation (§4.3.2).
type ExternInfo struct {
	Library  string
	Symbol   string // FFI symbol, defaults to the function name when absent
	Variadic bool
}

// Function is a top-level (or trait/impl method) function declaration
// (§3 Function (AST)).
type Function struct {
	Name             string
	GenericParams    []GenericParam
	WhereClause      []string // freeform bound strings (§4.5: "where clauses as freeform strings for now")
	Params           []Param
	ReturnType       *TypeSyntax // nil means Void
	Meta             Metadata
	Body             *Block // nil for external functions
	Export           ExportInfo
	IsAsync          bool
	Extern           *ExternInfo // non-nil for @extern declarations (§4.3.2)
	Annotations      []Annotation
	Span             source.Span
}

// TraitMethodSig is one method signature declared inside a trait (no body).
type TraitMethodSig struct {
	Name       string
	Params     []Param
	ReturnType *TypeSyntax
	Span       source.Span
}

// TraitDefinition is a `trait Name { ... }` declaration.
type TraitDefinition struct {
	Name    string
	Methods []TraitMethodSig
	Span    source.Span
}

// TraitRef names a trait plus its generic arguments, as used by an impl
// block's header (§4.5: "trait_ref { name, type_args }").
type TraitRef struct {
	Name     string
	TypeArgs []*TypeSyntax
}

// ImplBlock is `impl [TraitRef for] ForType { methods… }`.
type ImplBlock struct {
	Trait         *TraitRef // nil for an inherent impl
	ForType       *TypeSyntax
	GenericParams []GenericParam
	Methods       []*Function
	Span          source.Span
}

// ConstantDecl is a top-level `const NAME: Type = expr;`.
type ConstantDecl struct {
	Name       string
	Type       *TypeSyntax
	Value      *Expr
	Export     ExportInfo
	Span       source.Span
}

// Import is one `import path [as alias];` item.
type Import struct {
	Path  string
	Alias string // empty when absent; sema then uses the last path segment
	Span  source.Span
}

// Module is the top-level AST for one compiled file (§3 AST Module).
type Module struct {
	Name                string
	Imports             []Import
	TypeDefinitions     []*TypeDeclSyntax
	TraitDefinitions    []*TraitDefinition
	ImplBlocks          []*ImplBlock
	ConstantDeclarations []*ConstantDecl
	FunctionDefinitions []*Function
	ExternalFunctions   []*Function // Extern != nil
	Span                source.Span
}

// Exports reports the exported names of a module, keyed by the name they
// are imported under.
func (m *Module) Exports() map[string]ExportInfo {
	out := map[string]ExportInfo{}
	for _, f := range m.FunctionDefinitions {
		if f.Export.Exported {
			out[f.Name] = f.Export
		}
	}
	for _, c := range m.ConstantDeclarations {
		if c.Export.Exported {
			out[c.Name] = c.Export
		}
	}
	for _, td := range m.TypeDefinitions {
		if td.Export.Exported {
			out[td.Name] = td.Export
		}
	}
	return out
}
