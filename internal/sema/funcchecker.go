package sema

import (
	"aetherscript/internal/ast"
	"aetherscript/internal/diag"
	"aetherscript/internal/source"
	"aetherscript/internal/symbols"
	"aetherscript/internal/types"
)

// funcChecker carries the per-module analysis state threaded through every
// pipeline step and every function-body walk (§4.3). It is the direct
// analogue of the teacher's internal typeChecker driving check.go's Check().
type funcChecker struct {
	a       *Analyzer
	checker *types.Checker
	res     *ModuleResult
	rep     diag.Reporter

	inLoopDepth       int
	inConcurrentBlock bool
	inFinallyBlock    bool
	currentExceptions []string // active catchable-exception stack for the innermost try (§4.3.3)

	currentFn      *ast.Function
	currentRetType types.TypeID
}

func (fc *funcChecker) errf(code diag.Code, sp source.Span, format string, args ...any) {
	diag.Errorf(fc.rep, code, sp, format, args...)
}

// resolveTypeSyntax turns a parsed TypeSyntax into an interned TypeID,
// resolving named types against the registered type-definition set and the
// generic parameters currently in scope (§4.3.1, §4.3 step 4).
func (fc *funcChecker) resolveTypeSyntax(ts *ast.TypeSyntax) types.TypeID {
	if ts == nil {
		return fc.checker.Interner.Primitive(types.PrimVoid)
	}
	in := fc.checker.Interner
	switch ts.Kind {
	case ast.TypeSyntaxPrimitive:
		return in.Primitive(primitiveKindFromName(ts.PrimitiveName))
	case ast.TypeSyntaxNamed:
		if fc.checker.IsGenericParam(ts.Name) {
			return in.Generic(ts.Name, nil)
		}
		base := in.Named(ts.Name, ts.ModuleName)
		if len(ts.Args) == 0 {
			return base
		}
		args := make([]types.TypeID, len(ts.Args))
		for i, a := range ts.Args {
			args[i] = fc.resolveTypeSyntax(a)
		}
		return in.GenericInstance(base, args, ts.ModuleName)
	case ast.TypeSyntaxArray:
		return in.Array(fc.resolveTypeSyntax(ts.Elem), ts.Size, ts.HasSize)
	case ast.TypeSyntaxMap:
		return in.Map(fc.resolveTypeSyntax(ts.Key), fc.resolveTypeSyntax(ts.Value))
	case ast.TypeSyntaxPointer:
		return in.Pointer(fc.resolveTypeSyntax(ts.Elem), ts.Mutable)
	case ast.TypeSyntaxFunction:
		params := make([]types.TypeID, len(ts.Params))
		for i, p := range ts.Params {
			params[i] = fc.resolveTypeSyntax(p)
		}
		ret := in.Primitive(types.PrimVoid)
		if ts.Return != nil {
			ret = fc.resolveTypeSyntax(ts.Return)
		}
		return in.Function(params, ret, ts.Variadic)
	case ast.TypeSyntaxOwned:
		return in.Owned(fc.resolveTypeSyntax(ts.Elem), types.Owned)
	case ast.TypeSyntaxBorrow:
		return in.Owned(fc.resolveTypeSyntax(ts.Elem), types.Borrowed)
	case ast.TypeSyntaxBorrowMut:
		return in.Owned(fc.resolveTypeSyntax(ts.Elem), types.MutableBorrow)
	default:
		return in.Error()
	}
}

func primitiveKindFromName(name string) types.PrimitiveKind {
	switch name {
	case "int":
		return types.PrimInt
	case "int8":
		return types.PrimInt8
	case "int16":
		return types.PrimInt16
	case "int32":
		return types.PrimInt32
	case "int64":
		return types.PrimInt64
	case "uint":
		return types.PrimUint
	case "uint8":
		return types.PrimUint8
	case "uint16":
		return types.PrimUint16
	case "uint32":
		return types.PrimUint32
	case "uint64":
		return types.PrimUint64
	case "float":
		return types.PrimFloat
	case "float32":
		return types.PrimFloat32
	case "float64":
		return types.PrimFloat64
	case "bool":
		return types.PrimBool
	case "char":
		return types.PrimChar
	case "string":
		return types.PrimString
	case "size_t":
		return types.PrimSizeT
	case "uintptr_t":
		return types.PrimUintptrT
	default:
		return types.PrimVoid
	}
}

func sigFromFunction(fc *funcChecker, fn *ast.Function) *FunctionSig {
	params := make([]types.TypeID, len(fn.Params))
	for i, p := range fn.Params {
		params[i] = fc.resolveTypeSyntax(p.Type)
	}
	ret := fc.checker.Interner.Primitive(types.PrimVoid)
	if fn.ReturnType != nil {
		ret = fc.resolveTypeSyntax(fn.ReturnType)
	}
	names := make([]string, len(fn.GenericParams))
	for i, g := range fn.GenericParams {
		names[i] = g.Name
	}
	sig := &FunctionSig{Name: fn.Name, GenericParams: names, Params: params, Return: ret}
	if fn.Extern != nil {
		sig.IsExtern = true
		sig.Variadic = fn.Extern.Variadic
		sig.FFISymbol = fn.Extern.Symbol
		if sig.FFISymbol == "" {
			sig.FFISymbol = fn.Name
		}
	}
	return sig
}

func symbolFromSig(fn *ast.Function, sig *FunctionSig) *symbols.Symbol {
	return &symbols.Symbol{
		Name:        fn.Name,
		Kind:        symbols.KindFunction,
		Type:        sig.Return,
		Initialized: true,
		FFISymbol:   sig.FFISymbol,
		Declared:    fn.Span,
	}
}
