package types

import "fmt"

// Kind enumerates every variant of the Type tagged union (§3).
type Kind uint8

const (
	KindInvalid Kind = iota
	KindError
	KindPrimitive
	KindNamed
	KindArray
	KindMap
	KindPointer
	KindFunction
	KindOwned
	KindGeneric
	KindGenericInstance
	KindVariable
	KindModule
)

func (k Kind) String() string {
	switch k {
	case KindInvalid:
		return "invalid"
	case KindError:
		return "error"
	case KindPrimitive:
		return "primitive"
	case KindNamed:
		return "named"
	case KindArray:
		return "array"
	case KindMap:
		return "map"
	case KindPointer:
		return "pointer"
	case KindFunction:
		return "function"
	case KindOwned:
		return "owned"
	case KindGeneric:
		return "generic"
	case KindGenericInstance:
		return "generic_instance"
	case KindVariable:
		return "variable"
	case KindModule:
		return "module"
	default:
		return fmt.Sprintf("Kind(%d)", k)
	}
}

// PrimitiveKind enumerates the Primitive(kind) payload (§3).
type PrimitiveKind uint8

const (
	PrimInvalid PrimitiveKind = iota
	PrimInt
	PrimInt8
	PrimInt16
	PrimInt32
	PrimInt64
	PrimUint
	PrimUint8
	PrimUint16
	PrimUint32
	PrimUint64
	PrimFloat
	PrimFloat32
	PrimFloat64
	PrimBool
	PrimChar
	PrimString
	PrimVoid
	PrimSizeT
	PrimUintptrT
)

func (p PrimitiveKind) String() string {
	switch p {
	case PrimInt:
		return "Int"
	case PrimInt8:
		return "Int8"
	case PrimInt16:
		return "Int16"
	case PrimInt32:
		return "Int32"
	case PrimInt64:
		return "Int64"
	case PrimUint:
		return "UInt"
	case PrimUint8:
		return "UInt8"
	case PrimUint16:
		return "UInt16"
	case PrimUint32:
		return "UInt32"
	case PrimUint64:
		return "UInt64"
	case PrimFloat:
		return "Float"
	case PrimFloat32:
		return "Float32"
	case PrimFloat64:
		return "Float64"
	case PrimBool:
		return "Bool"
	case PrimChar:
		return "Char"
	case PrimString:
		return "String"
	case PrimVoid:
		return "Void"
	case PrimSizeT:
		return "SizeT"
	case PrimUintptrT:
		return "UIntPtrT"
	default:
		return "Invalid"
	}
}

// IsIntegral reports whether p is one of the signed/unsigned integer kinds.
func (p PrimitiveKind) IsIntegral() bool {
	switch p {
	case PrimInt, PrimInt8, PrimInt16, PrimInt32, PrimInt64,
		PrimUint, PrimUint8, PrimUint16, PrimUint32, PrimUint64, PrimSizeT, PrimUintptrT:
		return true
	default:
		return false
	}
}

// Ownership enumerates the Owned{base, ownership} payload's kind set (§3).
type Ownership uint8

const (
	Owned Ownership = iota
	Borrowed
	MutableBorrow
	Shared
)

func (o Ownership) String() string {
	switch o {
	case Owned:
		return "owned"
	case Borrowed:
		return "borrowed"
	case MutableBorrow:
		return "mutable_borrow"
	case Shared:
		return "shared"
	default:
		return "unknown"
	}
}
