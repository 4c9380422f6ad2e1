package mir

import (
	"aetherscript/internal/source"
	"aetherscript/internal/types"
)

// FuncID identifies a function within a Program.
type FuncID int32

// BlockID identifies a basic block within a Func.
type BlockID int32

// LocalID identifies a local (parameter, return slot, or temporary) within a Func.
type LocalID int32

const (
	NoFuncID  FuncID  = -1
	NoBlockID BlockID = -1
	NoLocalID LocalID = -1
)

// Local is one function-local slot: a parameter, the synthetic return slot,
// or a lowering-introduced temporary (§4.4.1).
type Local struct {
	ID   LocalID
	Type types.TypeID
	Name string
	Span source.Span
}

// PlaceProjKind distinguishes a Place's projection steps (§4.4.2).
type PlaceProjKind uint8

const (
	// ProjDeref walks through an Owned/Pointer wrapper.
	ProjDeref PlaceProjKind = iota
	// ProjField appends a struct field access, resolved to its
	// declaration-order index.
	ProjField
	// ProjIndex appends an array/map index access by another local's value.
	ProjIndex
)

// PlaceProj is one projection step appended while resolving a field/index
// access or assignment target (§4.4.2: "walk Owned/Pointer wrappers
// prepending Deref projections, then append a Field{index,type}...").
type PlaceProj struct {
	Kind PlaceProjKind

	FieldName string // ProjField
	FieldIdx  int    // ProjField
	FieldType types.TypeID

	IndexLocal LocalID // ProjIndex: local holding the index/key value
	ElemType   types.TypeID
}

// Place is a storage location: a local plus zero or more projections.
type Place struct {
	Local LocalID
	Proj  []PlaceProj
}

// Base reports the place with no projections, i.e. the raw local.
func (p Place) Base() Place { return Place{Local: p.Local} }
