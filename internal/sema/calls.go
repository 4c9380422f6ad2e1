package sema

import (
	"aetherscript/internal/ast"
	"aetherscript/internal/diag"
	"aetherscript/internal/source"
	"aetherscript/internal/symbols"
	"aetherscript/internal/types"
)

// inferCallType resolves an ordinary call's callee to a FunctionSig, checks
// argument arity (respecting the variadic flag) and type compatibility, and
// applies any explicit generic type arguments via structural substitution
// (§4.3.4).
func (fc *funcChecker) inferCallType(e *ast.Expr, table *symbols.Table) types.TypeID {
	in := fc.checker.Interner
	for _, a := range e.Args {
		fc.inferExprType(a.Value, table)
	}

	name := calleeName(e.Callee)
	sig := fc.resolveFunctionSig(name, table)
	if sig == nil {
		if name == "" {
			fc.inferExprType(e.Callee, table)
		} else {
			fc.errf(diag.SemaUndefinedSymbol, e.Span, "call to undefined function %q", name)
		}
		return in.Error()
	}

	if len(e.TypeArgs) > 0 {
		if len(sig.GenericParams) > 0 && len(e.TypeArgs) != len(sig.GenericParams) {
			fc.errf(diag.SemaGenericArgumentCountMismatch, e.Span,
				"call to %q expected %d type arguments, got %d", name, len(sig.GenericParams), len(e.TypeArgs))
		}
		sig = fc.instantiateSig(sig, e.TypeArgs)
	}

	fc.checkArity(e.Span, name, sig.Params, sig.Variadic, len(e.Args))
	for i, a := range e.Args {
		if i >= len(sig.Params) {
			break
		}
		argType := fc.res.ExprTypes[a.Value]
		if ok, _ := fc.checker.Compatible(sig.Params[i], argType); !ok {
			fc.errf(diag.SemaTypeMismatch, a.Value.Span, "argument %d to %q has an incompatible type", i+1, name)
		}
	}
	return sig.Return
}

// inferMethodCallType resolves a `receiver.method(...)` call via the
// dispatch table keyed by (receiver_type, method_name), falling back to a
// generic where-clause bound's trait method signature when the receiver is
// itself a generic type parameter (§4.3.4).
func (fc *funcChecker) inferMethodCallType(e *ast.Expr, table *symbols.Table) types.TypeID {
	in := fc.checker.Interner
	recvType := fc.inferExprType(e.Receiver, table)
	for _, a := range e.Args {
		fc.inferExprType(a.Value, table)
	}

	baseType := recvType
	rt := in.Get(baseType)
	for rt.Kind == types.KindOwned {
		baseType = rt.Elem
		rt = in.Get(baseType)
	}

	entry, ok := fc.res.Dispatch[DispatchKey{Receiver: baseType, Method: e.Method}]
	if !ok {
		if sig := fc.resolveGenericBoundMethod(baseType, e.Method); sig != nil {
			entry = DispatchEntry{Symbol: e.Method, Sig: *sig}
			ok = true
		}
	}
	if !ok {
		fc.errf(diag.SemaUndefinedSymbol, e.Span, "no method %q found for this receiver type", e.Method)
		return in.Error()
	}

	sig := entry.Sig
	fc.checkArity(e.Span, e.Method, sig.Params, sig.Variadic, len(e.Args))
	for i, a := range e.Args {
		if i >= len(sig.Params) {
			break
		}
		argType := fc.res.ExprTypes[a.Value]
		if ok, _ := fc.checker.Compatible(sig.Params[i], argType); !ok {
			fc.errf(diag.SemaTypeMismatch, a.Value.Span, "argument %d to %q has an incompatible type", i+1, e.Method)
		}
	}
	return sig.Return
}

// resolveGenericBoundMethod looks for method on any trait named as a bound
// of recv's generic parameter, used when a call site's receiver is itself a
// generic type parameter rather than a concrete registered type.
func (fc *funcChecker) resolveGenericBoundMethod(recv types.TypeID, method string) *FunctionSig {
	rt := fc.checker.Interner.Get(recv)
	if rt.Kind != types.KindGeneric {
		return nil
	}
	for _, bound := range rt.GenericConstraints {
		if tr, ok := fc.res.Traits[bound]; ok {
			for _, ms := range tr.Methods {
				if ms.Name == method {
					params := make([]types.TypeID, len(ms.Params))
					for i, p := range ms.Params {
						params[i] = fc.resolveTypeSyntax(p.Type)
					}
					ret := fc.checker.Interner.Primitive(types.PrimVoid)
					if ms.ReturnType != nil {
						ret = fc.resolveTypeSyntax(ms.ReturnType)
					}
					return &FunctionSig{Name: method, Params: params, Return: ret}
				}
			}
		}
	}
	return nil
}

func (fc *funcChecker) resolveFunctionSig(name string, table *symbols.Table) *FunctionSig {
	if name == "" {
		return nil
	}
	if sig, ok := fc.res.Functions[name]; ok {
		return sig
	}
	if sym, ok := table.LookupSymbol(name); ok && sym.Kind == symbols.KindFunction {
		return &FunctionSig{Name: name, Return: sym.Type, FFISymbol: sym.FFISymbol}
	}
	return nil
}

func (fc *funcChecker) instantiateSig(sig *FunctionSig, typeArgs []*ast.TypeSyntax) *FunctionSig {
	if len(sig.GenericParams) == 0 {
		return sig
	}
	bind := make(map[string]types.TypeID, len(sig.GenericParams))
	for i, name := range sig.GenericParams {
		if i < len(typeArgs) {
			bind[name] = fc.resolveTypeSyntax(typeArgs[i])
		}
	}
	subst := types.NewSubst(fc.checker.Interner, bind)
	params := make([]types.TypeID, len(sig.Params))
	for i, p := range sig.Params {
		params[i] = subst.Type(p)
	}
	return &FunctionSig{Name: sig.Name, Params: params, Return: subst.Type(sig.Return), Variadic: sig.Variadic}
}

func (fc *funcChecker) checkArity(span source.Span, name string, params []types.TypeID, variadic bool, gotArgs int) {
	if variadic {
		if gotArgs < len(params) {
			fc.errf(diag.SemaArgumentCountMismatch, span, "call to %q has too few arguments: expected at least %d, got %d", name, len(params), gotArgs)
		}
		return
	}
	if gotArgs != len(params) {
		fc.errf(diag.SemaArgumentCountMismatch, span, "call to %q expected %d arguments, got %d", name, len(params), gotArgs)
	}
}

func calleeName(e *ast.Expr) string {
	switch {
	case e == nil:
		return ""
	case e.Kind == ast.ExprIdent:
		return e.Name
	case e.Kind == ast.ExprField && e.FieldBase != nil && e.FieldBase.Kind == ast.ExprIdent:
		return e.FieldBase.Name + "." + e.FieldName
	default:
		return ""
	}
}
