package sema

import (
	"aetherscript/internal/ast"
	"aetherscript/internal/diag"
	"aetherscript/internal/types"
)

// registerTypeDefinitions builds a canonical types.TypeDefinition for every
// struct/enum/alias declaration and registers it in both the type-definition
// registry and the symbol table (§4.3 step 4).
func (a *Analyzer) registerTypeDefinitions(fc *funcChecker, mod *ast.Module) {
	for _, td := range mod.TypeDefinitions {
		names := make([]string, len(td.GenericParams))
		for i, g := range td.GenericParams {
			names[i] = g.Name
		}
		fc.checker.PushGenericScope(names)

		def := &types.TypeDefinition{Name: td.Name, Span: td.Span, GenericParams: names}
		switch td.Kind {
		case ast.TypeDeclStruct:
			def.Kind = types.DefStruct
			for _, f := range td.Fields {
				def.Fields = append(def.Fields, types.StructField{Name: f.Name, Type: fc.resolveTypeSyntax(f.Type)})
			}
		case ast.TypeDeclEnum:
			def.Kind = types.DefEnum
			for i, v := range td.Variants {
				disc := i
				if v.Discriminant != nil {
					disc = int(*v.Discriminant)
				}
				assoc := make([]types.TypeID, len(v.AssociatedTypes))
				for j, at := range v.AssociatedTypes {
					assoc[j] = fc.resolveTypeSyntax(at)
				}
				def.Variants = append(def.Variants, types.EnumVariant{Name: v.Name, Discriminant: disc, AssociatedTypes: assoc})
			}
		case ast.TypeDeclAlias:
			def.Kind = types.DefAlias
			def.Target = fc.resolveTypeSyntax(td.Target)
		}

		fc.checker.PopGenericScope()

		typeID := fc.checker.Interner.Named(td.Name, fc.checker.CurrentModule)
		if !fc.res.Table.AddTypeDefinition(def, typeID) {
			fc.errf(diag.SemaDuplicateDefinition, td.Span, "type %q is already defined in this module", td.Name)
		}
	}
}
