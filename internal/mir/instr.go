package mir

import (
	"aetherscript/internal/ast"
	"aetherscript/internal/types"
)

// StmtKind tags a MIR statement variant (§4.4: "AST statements emit
// statements into the current block").
type StmtKind uint8

const (
	StmtAssign StmtKind = iota
	// StmtStorageLive marks a local's storage as live, emitted for every
	// parameter at function entry (§4.4.1).
	StmtStorageLive
)

// Stmt is a tagged-union MIR statement.
type Stmt struct {
	Kind StmtKind

	Assign      AssignStmt
	StorageLive StorageLiveStmt
}

// AssignStmt assigns an Rvalue to a Place.
type AssignStmt struct {
	Dst Place
	Src Rvalue
}

// StorageLiveStmt marks Local's storage as live.
type StorageLiveStmt struct {
	Local LocalID
}

// OperandKind distinguishes a MIR operand's source.
type OperandKind uint8

const (
	OperandConstant OperandKind = iota
	OperandCopy
	OperandMove
	// OperandAddrOf/OperandAddrOfMut back ExprBorrow's `&expr`/`&mut expr`
	// (§4.1, §4.3.5); the place's ownership wrapper is carried on its Type.
	OperandAddrOf
	OperandAddrOfMut
)

// Operand is a MIR operand (§4.4.2: "Literals lower to Operand::Constant.
// Variables lower to Operand::Copy(place)...").
type Operand struct {
	Kind  OperandKind
	Type  types.TypeID
	Const Const
	Place Place
}

// ConstKind distinguishes a Const's payload.
type ConstKind uint8

const (
	ConstInt ConstKind = iota
	ConstUint
	ConstFloat
	ConstBool
	ConstString
	ConstVoid
	// ConstFunc names a top-level function by symbol, used for the
	// string-constant function reference in a non-closure call (§4.4.6).
	ConstFunc
)

// Const is a MIR constant.
type Const struct {
	Kind ConstKind
	Type types.TypeID

	IntValue    int64
	UintValue   uint64
	FloatValue  float64
	BoolValue   bool
	StringValue string
	FuncName    string
}

// RvalueKind distinguishes a MIR Rvalue's payload.
type RvalueKind uint8

const (
	RvalueUse RvalueKind = iota
	RvalueUnaryOp
	RvalueBinaryOp
	// RvalueCall covers both ordinary calls and the runtime string/array/map
	// builtins, which lower identically (§4.4.2: "String operations lower to
	// calls into the runtime by emitting a Call rvalue...").
	RvalueCall
	RvalueStructLit
	RvalueArrayLit
	// RvalueDiscriminant reads an enum value's tag (§4.4.3).
	RvalueDiscriminant
	// RvalueClosure builds a function value capturing operands, assigned at
	// a lambda's creation site (§4.4.6).
	RvalueClosure
	// RvalueCast supports the Future<T> unwrap's pointer cast (§4.4.2).
	RvalueCast
)

// Rvalue is the right-hand side of an AssignStmt.
type Rvalue struct {
	Kind RvalueKind

	Use          Operand
	Unary        UnaryOpRvalue
	Binary       BinaryOpRvalue
	Call         CallRvalue
	StructLit    StructLitRvalue
	ArrayLit     ArrayLitRvalue
	Discriminant Operand
	Closure      ClosureRvalue
	Cast         CastRvalue
}

// UnaryOpRvalue applies a unary operator to Operand.
type UnaryOpRvalue struct {
	Op      ast.UnaryOp
	Operand Operand
}

// BinaryOpRvalue applies a binary operator to Left/Right.
type BinaryOpRvalue struct {
	Op    ast.BinaryOp
	Left  Operand
	Right Operand
}

// CallRvalue is a function call. FuncValue is non-nil when the callee
// resolves to a local of function type (a closure value); otherwise
// FuncName names the target directly, either a user function or a runtime
// builtin (§4.4.2, §4.4.6).
type CallRvalue struct {
	FuncName  string
	FuncValue *Operand
	Args      []Operand
}

// StructLitField is one `name: value` entry of a struct literal.
type StructLitField struct {
	Name  string
	Value Operand
}

// StructLitRvalue builds a struct value.
type StructLitRvalue struct {
	Type   types.TypeID
	Fields []StructLitField
}

// ArrayLitRvalue builds an array value.
type ArrayLitRvalue struct {
	Elems []Operand
}

// ClosureRvalue builds a function-typed value over a synthetic lambda
// function plus its captured operands (§4.4.6).
type ClosureRvalue struct {
	FuncName string
	Captures []Operand
}

// CastRvalue reinterprets Value as TargetType, used by the Future<T> unwrap
// sequence's pointer cast (§4.4.2).
type CastRvalue struct {
	Value      Operand
	TargetType types.TypeID
}
