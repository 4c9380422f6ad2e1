package symbols

import (
	"aetherscript/internal/source"
	"aetherscript/internal/types"
)

// Kind classifies the semantic meaning of a symbol (§3).
type Kind uint8

const (
	KindInvalid Kind = iota
	KindVariable
	KindParameter
	KindFunction
	KindConstant
	KindType
	KindModule
)

func (k Kind) String() string {
	switch k {
	case KindVariable:
		return "variable"
	case KindParameter:
		return "parameter"
	case KindFunction:
		return "function"
	case KindConstant:
		return "constant"
	case KindType:
		return "type"
	case KindModule:
		return "module"
	default:
		return "invalid"
	}
}

// BorrowState is the per-symbol borrow-tracking state (§3, §4.2).
type BorrowState uint8

const (
	BorrowNone BorrowState = iota
	BorrowShared
	BorrowMut
)

// Symbol is one named entity visible in a scope (§3).
type Symbol struct {
	Name        string
	Type        types.TypeID
	Kind        Kind
	Mutable     bool
	Initialized bool
	Declared    source.Span
	Moved       bool

	BorrowState BorrowState
	BorrowCount int // number of outstanding shared borrows when BorrowState == BorrowShared

	FFISymbol string // optional; set for @extern declarations
}

// NewVariable creates a Variable symbol, uninitialized by default.
func NewVariable(name string, t types.TypeID, mutable bool, declared source.Span) *Symbol {
	return &Symbol{Name: name, Type: t, Kind: KindVariable, Mutable: mutable, Declared: declared}
}

// NewParameter creates a Parameter symbol; parameters are always
// initialized and mutable, matching §4.3.3's "binds each parameter as an
// initialized, mutable Parameter symbol."
func NewParameter(name string, t types.TypeID, declared source.Span) *Symbol {
	return &Symbol{Name: name, Type: t, Kind: KindParameter, Mutable: true, Initialized: true, Declared: declared}
}
