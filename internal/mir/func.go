package mir

import (
	"aetherscript/internal/source"
	"aetherscript/internal/types"
)

// Func is one lowered function: top-level, impl-block method, or a
// synthetic `__lambda_<n>` (§4.4.1, §4.4.6).
type Func struct {
	ID   FuncID
	Name string
	Span source.Span

	Result      types.TypeID
	ParamCount  int
	ReturnLocal LocalID // NoLocalID for a Void-returning function

	Locals []Local
	Blocks []Block
	Entry  BlockID
}
