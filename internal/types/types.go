package types

// TypeID identifies a type inside an Interner's arena. Identity (not
// structural equality) lets callers compare types cheaply and lets the
// substitution cache in subst.go key on it directly.
type TypeID uint32

// NoTypeID marks the absence of a type.
const NoTypeID TypeID = 0

// FunctionSig is the Function{params, return, variadic} payload.
type FunctionSig struct {
	Params   []TypeID
	Return   TypeID
	Variadic bool
}

// NamedRef is the Named{name, module} payload.
type NamedRef struct {
	Name   string
	Module string
}

// GenericInstanceRef is the GenericInstance{base, args, module} payload.
type GenericInstanceRef struct {
	Base   TypeID
	Args   []TypeID
	Module string
}

// Type is the tagged union described by §3. Exactly one payload group is
// meaningful for a given Kind; the rest are zero.
type Type struct {
	Kind Kind

	Primitive PrimitiveKind

	Named NamedRef

	Elem     TypeID // Array.element, Pointer.target, Owned.base
	HasSize  bool   // Array.size present
	Size     uint64 // Array.size value

	Key   TypeID // Map.key
	Value TypeID // Map.value

	Mutable bool // Pointer.mutable

	Func FunctionSig

	Ownership Ownership // Owned.ownership

	GenericName        string   // Generic.name
	GenericConstraints []string // Generic.constraints (trait names)

	Instance GenericInstanceRef

	VarID uint32 // Variable(id)

	ModuleName string // Module(name)
}

// Interner is an arena of Types addressed by stable TypeID, following the
// teacher's arena+stable-index idiom (§9 Design Notes). Index 0 is reserved
// for NoTypeID.
type Interner struct {
	arena []Type

	errorID TypeID
	prim    map[PrimitiveKind]TypeID
	nextVar uint32
}

// NewInterner creates an Interner pre-populated with the fixed primitive
// and sentinel types so their TypeIDs are stable across a compilation.
func NewInterner() *Interner {
	in := &Interner{arena: make([]Type, 1, 64), prim: make(map[PrimitiveKind]TypeID, 19)} // arena[0] unused (NoTypeID)
	in.bootstrapPrimitives()
	return in
}

func (in *Interner) intern(t Type) TypeID {
	in.arena = append(in.arena, t)
	return TypeID(len(in.arena) - 1)
}

// Get returns the Type stored at id. Panics on out-of-range id, mirroring
// the teacher's arena-access contract (ids are only ever produced by this
// Interner).
func (in *Interner) Get(id TypeID) Type {
	return in.arena[id]
}

// Error is the sentinel Error type used to suppress cascading diagnostics
// once one has already been reported for an expression.
func (in *Interner) Error() TypeID { return in.errorID }

func (in *Interner) bootstrapPrimitives() {
	in.errorID = in.intern(Type{Kind: KindError})
	for _, p := range []PrimitiveKind{
		PrimInt, PrimInt8, PrimInt16, PrimInt32, PrimInt64,
		PrimUint, PrimUint8, PrimUint16, PrimUint32, PrimUint64,
		PrimFloat, PrimFloat32, PrimFloat64,
		PrimBool, PrimChar, PrimString, PrimVoid, PrimSizeT, PrimUintptrT,
	} {
		in.prim[p] = in.intern(Type{Kind: KindPrimitive, Primitive: p})
	}
}

// Primitive returns the interned TypeID for a primitive kind.
func (in *Interner) Primitive(p PrimitiveKind) TypeID { return in.prim[p] }

// Named interns a Named{name, module} type.
func (in *Interner) Named(name, module string) TypeID {
	return in.intern(Type{Kind: KindNamed, Named: NamedRef{Name: name, Module: module}})
}

// Array interns an Array{element, size?} type. hasSize=false models the
// unsized/dynamic array.
func (in *Interner) Array(elem TypeID, size uint64, hasSize bool) TypeID {
	return in.intern(Type{Kind: KindArray, Elem: elem, Size: size, HasSize: hasSize})
}

// Map interns a Map{key, value} type.
func (in *Interner) Map(key, value TypeID) TypeID {
	return in.intern(Type{Kind: KindMap, Key: key, Value: value})
}

// Pointer interns a Pointer{target, mutable} type.
func (in *Interner) Pointer(target TypeID, mutable bool) TypeID {
	return in.intern(Type{Kind: KindPointer, Elem: target, Mutable: mutable})
}

// Function interns a Function{params, return, variadic} type.
func (in *Interner) Function(params []TypeID, ret TypeID, variadic bool) TypeID {
	return in.intern(Type{Kind: KindFunction, Func: FunctionSig{Params: params, Return: ret, Variadic: variadic}})
}

// Owned interns an Owned{base, ownership} type, normalizing Owned(Owned(T))
// by collapsing to the innermost base with the outer ownership kind (§3
// invariant: "ownership wrappers never nest redundantly").
func (in *Interner) Owned(base TypeID, ownership Ownership) TypeID {
	if int(base) < len(in.arena) {
		inner := in.arena[base]
		if inner.Kind == KindOwned {
			base = inner.Elem
		}
	}
	return in.intern(Type{Kind: KindOwned, Elem: base, Ownership: ownership})
}

// Generic interns a Generic{name, constraints} type-parameter placeholder.
func (in *Interner) Generic(name string, constraints []string) TypeID {
	return in.intern(Type{Kind: KindGeneric, GenericName: name, GenericConstraints: constraints})
}

// GenericInstance interns a GenericInstance{base, args, module} type.
func (in *Interner) GenericInstance(base TypeID, args []TypeID, module string) TypeID {
	return in.intern(Type{Kind: KindGenericInstance, Instance: GenericInstanceRef{Base: base, Args: args, Module: module}})
}

// Variable interns a fresh inference hole Variable(id).
func (in *Interner) Variable() TypeID {
	in.nextVar++
	return in.intern(Type{Kind: KindVariable, VarID: in.nextVar})
}

// Module interns a Module(name) type.
func (in *Interner) Module(name string) TypeID {
	return in.intern(Type{Kind: KindModule, ModuleName: name})
}
