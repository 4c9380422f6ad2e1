package sema

import (
	"aetherscript/internal/ast"
	"aetherscript/internal/diag"
	"aetherscript/internal/types"
)

// registerTraits records each trait's name, generic parameters (currently
// none at the trait level in this grammar), and method signatures (§4.3
// step 5).
func (a *Analyzer) registerTraits(fc *funcChecker, mod *ast.Module) {
	for _, tr := range mod.TraitDefinitions {
		fc.res.Traits[tr.Name] = tr
	}
}

// processImplBlocks resolves each impl block's Self type, builds the
// trait-generic substitution map, computes every method's effective
// signature (Self then trait-generic substitution), registers a namespaced
// method symbol and a dispatch-table entry keyed by (receiver_type,
// method_name), and verifies trait completeness (§4.3 step 6; §4.3.4).
func (a *Analyzer) processImplBlocks(fc *funcChecker, mod *ast.Module) {
	for _, impl := range mod.ImplBlocks {
		names := make([]string, len(impl.GenericParams))
		for i, g := range impl.GenericParams {
			names[i] = g.Name
		}
		fc.checker.PushGenericScope(names)

		selfType := fc.resolveTypeSyntax(impl.ForType)
		subst := types.NewSubst(fc.checker.Interner, nil).WithSelf(selfType)

		implemented := make(map[string]bool, len(impl.Methods))
		for _, m := range impl.Methods {
			sig := effectiveMethodSig(fc, subst, m)
			implemented[m.Name] = true

			symbolName := receiverTypeName(impl.ForType) + "::" + m.Name
			if impl.Trait != nil {
				symbolName = impl.Trait.Name + "::" + m.Name
			}
			fc.res.Functions[symbolName] = sig
			fc.res.Dispatch[DispatchKey{Receiver: selfType, Method: m.Name}] = DispatchEntry{Symbol: symbolName, Sig: *sig}

			fc.analyzeMethodBody(m, selfType)
		}

		if impl.Trait != nil {
			if tr, ok := fc.res.Traits[impl.Trait.Name]; ok {
				for _, ms := range tr.Methods {
					if !implemented[ms.Name] {
						fc.errf(diag.SemaTraitMethodNotImplemented, impl.Span,
							"type %q does not implement %q.%s required by trait %q",
							receiverTypeName(impl.ForType), impl.Trait.Name, ms.Name, impl.Trait.Name)
					}
				}
			} else {
				fc.errf(diag.SemaUndefinedSymbol, impl.Span, "undefined trait %q", impl.Trait.Name)
			}
		}

		fc.checker.PopGenericScope()
	}
}

// effectiveMethodSig computes a method's signature after substituting Self
// (and any trait-level generic arguments carried by subst) through its
// declared parameter and return types (§4.3.1, §4.3 step 6). The method's
// own `self` first parameter, when present, is not type-checked against a
// declared type — it is implicitly the receiver.
func effectiveMethodSig(fc *funcChecker, subst *types.Subst, m *ast.Function) *FunctionSig {
	params := make([]types.TypeID, 0, len(m.Params))
	start := 0
	if len(m.Params) > 0 && m.Params[0].Name == "self" {
		start = 1
	}
	for _, p := range m.Params[start:] {
		params = append(params, subst.Type(fc.resolveTypeSyntax(p.Type)))
	}
	ret := fc.checker.Interner.Primitive(types.PrimVoid)
	if m.ReturnType != nil {
		ret = subst.Type(fc.resolveTypeSyntax(m.ReturnType))
	}
	return &FunctionSig{Name: m.Name, Params: params, Return: ret}
}

func receiverTypeName(ts *ast.TypeSyntax) string {
	if ts == nil {
		return "<error>"
	}
	if ts.Kind == ast.TypeSyntaxNamed {
		return ts.Name
	}
	return "<anon>"
}
