package abi

import (
	"fmt"

	"aetherscript/internal/ast"
	"aetherscript/internal/sema"
	"aetherscript/internal/trace"
)

// Generate walks an analyzed module and produces its AbiModule (§4.5).
// Generation is only meaningful after semantic success (§7): callers are
// expected to check the diagnostics collected by the analyzer's reporter
// first (the analyzer reports there and leaves res.Diagnostics empty).
func Generate(res *sema.ModuleResult, sourcePath string) *AbiModule {
	return GenerateTraced(res, sourcePath, trace.Nop)
}

// GenerateTraced is Generate with a phase-boundary span emitted around the
// whole ABI-generation pass.
func GenerateTraced(res *sema.ModuleResult, sourcePath string, tracer trace.Tracer) *AbiModule {
	if tracer == nil {
		tracer = trace.Nop
	}
	span := trace.Begin(tracer, trace.ScopePass, "generate_abi", 0)
	defer func() { span.End(sourcePath) }()

	g := &generator{mod: res.Module, name: res.Module.Name}
	abi := &AbiModule{Name: g.name, SourcePath: sourcePath}

	for _, imp := range res.Module.Imports {
		abi.Dependencies = append(abi.Dependencies, Dependency{Module: imp.Path})
	}

	for _, fn := range res.Module.FunctionDefinitions {
		abi.Functions = append(abi.Functions, g.convertFunction(fn))
	}
	for _, ext := range res.Module.ExternalFunctions {
		abi.Functions = append(abi.Functions, g.convertExternalFunction(ext))
	}

	g.generateTypes(res.Module, abi)
	g.generateTraits(res.Module, abi)
	g.generateImpls(res.Module, abi)

	return abi
}

type generator struct {
	mod  *ast.Module
	name string
}

// mangleSymbol produces the "Module.Name" native-function scheme (§4.5),
// matching the original generator's dot-separated LLVM-facing naming.
func (g *generator) mangleSymbol(name string) string {
	return g.name + "." + name
}

// mangleMethod produces the "Module.<TraitName>__<MethodName>" scheme for
// a trait impl method symbol (§4.5, §C: double-underscore separator).
func (g *generator) mangleMethod(traitName, methodName string) string {
	return g.mangleSymbol(fmt.Sprintf("%s__%s", traitName, methodName))
}

func (g *generator) convertFunction(fn *ast.Function) Function {
	sig := g.convertSignature(fn.Params, fn.ReturnType, fn.GenericParams, fn.WhereClause)

	var kind FunctionKind
	if len(fn.GenericParams) == 0 {
		kind = FunctionKind{Tag: KindNative, Symbol: g.mangleSymbol(fn.Name)}
	} else {
		kind = FunctionKind{Tag: KindGeneric, SymbolPrefix: g.mangleSymbol(fn.Name), HasMir: true}
	}

	var attrs []string
	if fn.Export.Exported {
		attrs = append(attrs, "export")
	}
	if fn.IsAsync {
		attrs = append(attrs, "async")
	}

	return Function{
		Name:           fn.Name,
		Signature:      sig,
		Kind:           kind,
		Contracts:      g.convertContracts(fn.Meta),
		Attributes:     attrs,
		SourceLocation: fn.Span,
	}
}

func (g *generator) convertExternalFunction(fn *ast.Function) Function {
	sig := g.convertSignature(fn.Params, fn.ReturnType, nil, nil)
	sig.Variadic = fn.Extern != nil && fn.Extern.Variadic

	cc := ConventionC
	symbol := fn.Name
	library := ""
	if fn.Extern != nil {
		library = fn.Extern.Library
		if fn.Extern.Symbol != "" {
			symbol = fn.Extern.Symbol
		}
	}

	return Function{
		Name:      fn.Name,
		Signature: sig,
		Kind: FunctionKind{
			Tag: KindExtern, Library: library, ExternSymbol: symbol, CallingConvention: cc,
		},
		Contracts:      FunctionContracts{},
		Attributes:     []string{"extern"},
		SourceLocation: fn.Span,
	}
}

func (g *generator) convertSignature(params []ast.Param, ret *ast.TypeSyntax, generics []ast.GenericParam, where []string) Signature {
	out := Signature{WhereClauses: where}
	for _, p := range params {
		out.Params = append(out.Params, Parameter{
			Name: p.Name, Type: convertType(p.Type), Mode: ParamOwned,
		})
	}
	if ret != nil {
		out.Return = convertType(ret)
	} else {
		out.Return = AbiType{Kind: TypePrimitive, Name: "Void"}
	}
	for _, gp := range generics {
		out.GenericParams = append(out.GenericParams, GenericParam{Name: gp.Name, Constraints: gp.Constraints})
	}
	return out
}

func (g *generator) convertContracts(meta ast.Metadata) FunctionContracts {
	out := FunctionContracts{}
	for _, c := range meta.Pre {
		out.Preconditions = append(out.Preconditions, Contract{Expr: printExpr(c.Cond)})
	}
	for _, c := range meta.Post {
		out.Postconditions = append(out.Postconditions, Contract{Expr: printExpr(c.Cond)})
	}
	return out
}

// convertType mirrors ast.TypeSyntax's syntactic shape into an AbiType,
// rather than resolving through a types.Interner: the ABI is a portable
// descriptor consumed by callers that have not resolved this module's
// generics (§4.5).
func convertType(ts *ast.TypeSyntax) AbiType {
	if ts == nil {
		return AbiType{Kind: TypePrimitive, Name: "Void"}
	}
	switch ts.Kind {
	case ast.TypeSyntaxPrimitive:
		return AbiType{Kind: TypePrimitive, Name: ts.PrimitiveName}
	case ast.TypeSyntaxNamed:
		if len(ts.Args) > 0 {
			args := make([]AbiType, len(ts.Args))
			for i, a := range ts.Args {
				args[i] = convertType(a)
			}
			return AbiType{Kind: TypeGenericInstance, Name: ts.Name, ModuleName: ts.ModuleName, Args: args}
		}
		return AbiType{Kind: TypeNamed, Name: ts.Name, ModuleName: ts.ModuleName}
	case ast.TypeSyntaxArray:
		elem := convertType(ts.Elem)
		out := AbiType{Kind: TypeArray, Elem: &elem}
		if ts.HasSize {
			size := ts.Size
			out.Size = &size
		}
		return out
	case ast.TypeSyntaxMap:
		key, value := convertType(ts.Key), convertType(ts.Value)
		return AbiType{Kind: TypeMap, Key: &key, Value: &value}
	case ast.TypeSyntaxPointer:
		target := convertType(ts.Elem)
		return AbiType{Kind: TypePointer, Elem: &target, Mutable: ts.Mutable}
	case ast.TypeSyntaxFunction:
		params := make([]AbiType, len(ts.Params))
		for i, p := range ts.Params {
			params[i] = convertType(p)
		}
		ret := convertType(ts.Return)
		return AbiType{Kind: TypeFunction, Params: params, Return: &ret}
	case ast.TypeSyntaxOwned:
		// The ABI treats an owned wrapper as its base type (§C, matching the
		// original's TypeSpecifier::Owned handling).
		return convertType(ts.Elem)
	case ast.TypeSyntaxBorrow, ast.TypeSyntaxBorrowMut:
		return convertType(ts.Elem)
	default:
		return AbiType{Kind: TypeGenericParam, Name: ts.Name}
	}
}

func (g *generator) generateTypes(mod *ast.Module, abi *AbiModule) {
	for _, td := range mod.TypeDefinitions {
		switch td.Kind {
		case ast.TypeDeclStruct:
			s := Struct{Name: td.Name, SourceLocation: td.Span}
			for _, gp := range td.GenericParams {
				s.GenericParams = append(s.GenericParams, GenericParam{Name: gp.Name, Constraints: gp.Constraints})
			}
			for _, f := range td.Fields {
				s.Fields = append(s.Fields, StructField{Name: f.Name, Type: convertType(f.Type), Visibility: VisibilityPublic})
			}
			abi.Types.Structs = append(abi.Types.Structs, s)
		case ast.TypeDeclEnum:
			e := Enum{Name: td.Name, SourceLocation: td.Span}
			for _, gp := range td.GenericParams {
				e.GenericParams = append(e.GenericParams, GenericParam{Name: gp.Name, Constraints: gp.Constraints})
			}
			next := int64(0)
			for _, v := range td.Variants {
				disc := next
				if v.Discriminant != nil {
					disc = *v.Discriminant
				}
				next = disc + 1
				ev := EnumVariant{Name: v.Name, Discriminant: disc}
				for i, t := range v.AssociatedTypes {
					ev.Fields = append(ev.Fields, VariantField{Name: fmt.Sprintf("_%d", i), Type: convertType(t)})
				}
				e.Variants = append(e.Variants, ev)
			}
			abi.Types.Enums = append(abi.Types.Enums, e)
		case ast.TypeDeclAlias:
			a := TypeAlias{Name: td.Name, Target: convertType(td.Target), SourceLocation: td.Span}
			for _, gp := range td.GenericParams {
				a.GenericParams = append(a.GenericParams, GenericParam{Name: gp.Name, Constraints: gp.Constraints})
			}
			abi.Types.TypeAliases = append(abi.Types.TypeAliases, a)
		}
	}
}

func (g *generator) generateTraits(mod *ast.Module, abi *AbiModule) {
	for _, tr := range mod.TraitDefinitions {
		t := Trait{Name: tr.Name, SourceLocation: tr.Span}
		for _, m := range tr.Methods {
			t.Methods = append(t.Methods, TraitMethod{
				Name:      m.Name,
				Signature: g.convertSignature(m.Params, m.ReturnType, nil, nil),
				// This grammar has no trait-method default-body syntax; every
				// trait method is abstract (§C: axioms/defaults not yet parsed).
				HasDefault: false,
				Contracts:  FunctionContracts{},
			})
		}
		abi.Traits = append(abi.Traits, t)
	}
}

func (g *generator) generateImpls(mod *ast.Module, abi *AbiModule) {
	for _, impl := range mod.ImplBlocks {
		if impl.Trait == nil {
			continue
		}
		out := Impl{
			TraitRef:       TraitRef{Name: impl.Trait.Name},
			ForType:        convertType(impl.ForType),
			SourceLocation: impl.Span,
		}
		for _, ta := range impl.Trait.TypeArgs {
			out.TraitRef.TypeArgs = append(out.TraitRef.TypeArgs, convertType(ta))
		}
		for _, gp := range impl.GenericParams {
			out.GenericParams = append(out.GenericParams, GenericParam{Name: gp.Name, Constraints: gp.Constraints})
		}
		for _, m := range impl.Methods {
			out.Methods = append(out.Methods, MethodImpl{Name: m.Name, Symbol: g.mangleMethod(impl.Trait.Name, m.Name)})
		}
		abi.Impls = append(abi.Impls, out)
	}
}
