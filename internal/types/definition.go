package types

import "aetherscript/internal/source"

// DefKind distinguishes the three TypeDefinition shapes (§3).
type DefKind uint8

const (
	DefStruct DefKind = iota
	DefEnum
	DefAlias
)

// StructField is one ordered field of a Struct TypeDefinition. Declaration
// order is semantically significant: construction, ABI field order, and
// MIR Aggregate{Struct} operand order must all agree (§8).
type StructField struct {
	Name string
	Type TypeID
}

// EnumVariant is one variant of an Enum TypeDefinition. Discriminant is
// assigned by declaration order starting at 0 (§3, §9 Open Question d:
// positional only, no explicit variant values).
type EnumVariant struct {
	Name          string
	Discriminant  int
	AssociatedTypes []TypeID
}

// TypeDefinition is one of Struct/Enum/Alias (§3).
type TypeDefinition struct {
	Kind DefKind
	Name string
	Span source.Span

	GenericParams []string

	Fields   []StructField // DefStruct
	Variants []EnumVariant // DefEnum
	Target   TypeID        // DefAlias
}

// VariantByName finds a variant by name, returning the variant and whether
// it was found.
func (d *TypeDefinition) VariantByName(name string) (EnumVariant, bool) {
	for _, v := range d.Variants {
		if v.Name == name {
			return v, true
		}
	}
	return EnumVariant{}, false
}

// FieldIndex resolves a struct field to its declaration-order index, used
// by both assignment-target resolution (§4.3.3) and MIR Place.projection
// Field{index,type} construction (§4.4.2).
func (d *TypeDefinition) FieldIndex(name string) (int, TypeID, bool) {
	for i, f := range d.Fields {
		if f.Name == name {
			return i, f.Type, true
		}
	}
	return -1, NoTypeID, false
}

// Registry stores TypeDefinitions by simple name, scoped to one module's
// analysis (§4.3 step 4). Generic type parameters are not stored here —
// the analyzer holds them in a transient generic scope while resolving a
// definition's own fields/variants.
type Registry struct {
	byName map[string]*TypeDefinition
}

// NewRegistry creates an empty definition registry.
func NewRegistry() *Registry {
	return &Registry{byName: make(map[string]*TypeDefinition)}
}

// Add registers a definition, returning false if the name is already taken
// (duplicate-definition detection is the caller's responsibility via
// symbols.SymbolTable; this registry is the backing store).
func (r *Registry) Add(def *TypeDefinition) bool {
	if _, exists := r.byName[def.Name]; exists {
		return false
	}
	r.byName[def.Name] = def
	return true
}

// Lookup finds a definition by simple name.
func (r *Registry) Lookup(name string) (*TypeDefinition, bool) {
	d, ok := r.byName[name]
	return d, ok
}

// All returns every registered definition keyed by name, for callers that
// need to re-export or iterate a whole module's type set (§4.3 step 3).
func (r *Registry) All() map[string]*TypeDefinition {
	return r.byName
}
