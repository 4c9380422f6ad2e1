package parser

import (
	"aetherscript/internal/ast"
	"aetherscript/internal/diag"
	"aetherscript/internal/token"
)

// parseItem parses one module-level item and appends it to mod. Module
// items are imports, `func`, `struct`, `enum`, `trait`, `impl`, `const`, and
// annotated variants of those (`@extern` turns a `func` into an external
// declaration; `pub` adds an export record) (§4.1).
func (p *Parser) parseItem(mod *ast.Module) {
	annotations := p.parseAnnotations()
	exported := false
	if p.s.at(token.KwPub) {
		p.s.next()
		exported = true
	}

	switch p.s.peek().Kind {
	case token.KwImport:
		mod.Imports = append(mod.Imports, p.parseImport())
	case token.KwStruct:
		mod.TypeDefinitions = append(mod.TypeDefinitions, p.parseStructDecl(annotations, exported))
	case token.KwEnum:
		mod.TypeDefinitions = append(mod.TypeDefinitions, p.parseEnumDecl(annotations, exported))
	case token.KwTrait:
		mod.TraitDefinitions = append(mod.TraitDefinitions, p.parseTraitDecl())
	case token.KwImpl:
		mod.ImplBlocks = append(mod.ImplBlocks, p.parseImplBlock())
	case token.KwConst:
		mod.ConstantDeclarations = append(mod.ConstantDeclarations, p.parseConstDecl(exported))
	case token.KwFunc:
		fn := p.parseFuncDecl(annotations, exported)
		if fn.Extern != nil {
			mod.ExternalFunctions = append(mod.ExternalFunctions, fn)
		} else {
			mod.FunctionDefinitions = append(mod.FunctionDefinitions, fn)
		}
	default:
		got := p.s.next()
		p.errorf(got.Span, diag.SynUnexpectedToken, "expected a module item, found %q", got.Text)
	}
}

func (p *Parser) parseImport() ast.Import {
	start := p.expect(token.KwImport).Span
	path := p.expectIdentText("import path")
	for p.s.at(token.Dot) {
		p.s.next()
		path += "." + p.expectIdentText("import path segment")
	}
	alias := ""
	if p.s.at(token.KwAs) {
		p.s.next()
		alias = p.expectIdentText("import alias")
	}
	p.expect(token.Semicolon)
	return ast.Import{Path: path, Alias: alias, Span: start.Cover(p.lastSpan)}
}

func (p *Parser) exportInfo(name string, exported bool) ast.ExportInfo {
	if !exported {
		return ast.ExportInfo{}
	}
	return ast.ExportInfo{Exported: true, AsName: name}
}

func (p *Parser) parseStructDecl(annotations []ast.Annotation, exported bool) *ast.TypeDeclSyntax {
	start := p.expect(token.KwStruct).Span
	name := p.expectIdentText("struct name")
	generics := p.parseGenericParams()
	p.expect(token.LBrace)
	decl := &ast.TypeDeclSyntax{Kind: ast.TypeDeclStruct, Name: name, GenericParams: generics, Annotations: annotations}
	for !p.s.at(token.RBrace) && !p.s.at(token.EOF) {
		fstart := p.s.peek().Span
		fname := p.expectIdentText("field name")
		p.expect(token.Colon)
		fty := p.parseType()
		decl.Fields = append(decl.Fields, ast.FieldSyntax{Name: fname, Type: fty, Span: fstart.Cover(p.lastSpan)})
		if p.s.at(token.Comma) {
			p.s.next()
			continue
		}
		break
	}
	p.expect(token.RBrace)
	decl.Export = p.exportInfo(name, exported)
	decl.Span = start.Cover(p.lastSpan)
	return decl
}

func (p *Parser) parseEnumDecl(annotations []ast.Annotation, exported bool) *ast.TypeDeclSyntax {
	start := p.expect(token.KwEnum).Span
	name := p.expectIdentText("enum name")
	generics := p.parseGenericParams()
	p.expect(token.LBrace)
	decl := &ast.TypeDeclSyntax{Kind: ast.TypeDeclEnum, Name: name, GenericParams: generics, Annotations: annotations}
	for !p.s.at(token.RBrace) && !p.s.at(token.EOF) {
		before := p.s.pos
		vstart := p.s.peek().Span
		vname := p.expectIdentText("variant name")
		variant := ast.VariantSyntax{Name: vname}
		if p.s.at(token.LParen) {
			p.s.next()
			for !p.s.at(token.RParen) && !p.s.at(token.EOF) {
				variant.AssociatedTypes = append(variant.AssociatedTypes, p.parseType())
				if p.s.at(token.Comma) {
					p.s.next()
					continue
				}
				break
			}
			p.expect(token.RParen)
		}
		if p.s.at(token.Assign) {
			p.s.next()
			n := p.parseIntLiteralValue()
			variant.Discriminant = &n
		}
		variant.Span = vstart.Cover(p.lastSpan)
		decl.Variants = append(decl.Variants, variant)
		if p.s.at(token.Comma) {
			p.s.next()
			continue
		}
		if !p.progressOrAdvance(before) {
			continue
		}
		break
	}
	p.expect(token.RBrace)
	decl.Export = p.exportInfo(name, exported)
	decl.Span = start.Cover(p.lastSpan)
	return decl
}

func (p *Parser) parseIntLiteralValue() int64 {
	neg := false
	if p.s.at(token.Minus) {
		p.s.next()
		neg = true
	}
	t := p.expect(token.IntLit)
	var v int64
	for _, c := range t.Text {
		if c < '0' || c > '9' {
			break
		}
		v = v*10 + int64(c-'0')
	}
	if neg {
		v = -v
	}
	return v
}

func (p *Parser) parseTraitDecl() *ast.TraitDefinition {
	start := p.expect(token.KwTrait).Span
	name := p.expectIdentText("trait name")
	p.expect(token.LBrace)
	def := &ast.TraitDefinition{Name: name}
	for !p.s.at(token.RBrace) && !p.s.at(token.EOF) {
		before := p.s.pos
		def.Methods = append(def.Methods, p.parseTraitMethodSig())
		p.progressOrAdvance(before)
	}
	p.expect(token.RBrace)
	def.Span = start.Cover(p.lastSpan)
	return def
}

func (p *Parser) parseTraitMethodSig() ast.TraitMethodSig {
	start := p.expect(token.KwFunc).Span
	name := p.expectIdentText("method name")
	p.expect(token.LParen)
	params := p.parseLambdaParams()
	p.expect(token.RParen)
	var ret *ast.TypeSyntax
	if p.s.at(token.Arrow) {
		p.s.next()
		ret = p.parseType()
	}
	p.expect(token.Semicolon)
	return ast.TraitMethodSig{Name: name, Params: params, ReturnType: ret, Span: start.Cover(p.lastSpan)}
}

func (p *Parser) parseImplBlock() *ast.ImplBlock {
	start := p.expect(token.KwImpl).Span
	generics := p.parseGenericParams()

	first := p.parseType()
	impl := &ast.ImplBlock{GenericParams: generics}
	if p.s.at(token.KwFor) {
		p.s.next()
		forType := p.parseType()
		impl.Trait = &ast.TraitRef{Name: first.Name, TypeArgs: first.Args}
		impl.ForType = forType
	} else {
		impl.ForType = first
	}

	p.expect(token.LBrace)
	for !p.s.at(token.RBrace) && !p.s.at(token.EOF) {
		before := p.s.pos
		methodAnnotations := p.parseAnnotations()
		impl.Methods = append(impl.Methods, p.parseFuncDecl(methodAnnotations, false))
		p.progressOrAdvance(before)
	}
	p.expect(token.RBrace)
	impl.Span = start.Cover(p.lastSpan)
	return impl
}

func (p *Parser) parseConstDecl(exported bool) *ast.ConstantDecl {
	start := p.expect(token.KwConst).Span
	name := p.expectIdentText("constant name")
	var ty *ast.TypeSyntax
	if p.s.at(token.Colon) {
		p.s.next()
		ty = p.parseType()
	}
	p.expect(token.Assign)
	val := p.parseExpr()
	p.expect(token.Semicolon)
	return &ast.ConstantDecl{Name: name, Type: ty, Value: val, Export: p.exportInfo(name, exported), Span: start.Cover(p.lastSpan)}
}

// parseFuncDecl parses a `func` declaration, including the `@extern` shape
// (no body) (§4.3.2) and contract annotations (§4.3.7).
func (p *Parser) parseFuncDecl(annotations []ast.Annotation, exported bool) *ast.Function {
	start := p.expect(token.KwFunc).Span
	name := p.expectIdentText("function name")
	generics := p.parseGenericParams()

	p.expect(token.LParen)
	params := p.parseLambdaParams()
	p.expect(token.RParen)

	var ret *ast.TypeSyntax
	if p.s.at(token.Arrow) {
		p.s.next()
		ret = p.parseType()
	}
	where := p.parseWhereClause()

	fn := &ast.Function{
		Name: name, GenericParams: generics, WhereClause: where, Params: params, ReturnType: ret,
		Export: p.exportInfo(name, exported), Annotations: annotations,
	}
	applyAnnotationsToFunction(fn, annotations)

	if fn.Extern != nil {
		p.expect(token.Semicolon)
	} else {
		fn.Body = p.parseBlock()
	}
	fn.Span = start.Cover(p.lastSpan)
	return fn
}

// applyAnnotationsToFunction interprets @extern, @pre, @post, @invariant,
// @complexity and @async (§4.3.2/§4.3.7); other annotation names are ignored.
func applyAnnotationsToFunction(fn *ast.Function, annotations []ast.Annotation) {
	for _, ann := range annotations {
		switch ann.Name {
		case "extern":
			ext := &ast.ExternInfo{Symbol: fn.Name}
			if lib, ok := ann.Find("library"); ok {
				ext.Library = lib.Text
			}
			if sym, ok := ann.Find("symbol"); ok {
				ext.Symbol = sym.Text
			}
			if variadic, ok := ann.Find("variadic"); ok {
				ext.Variadic = variadic.Bool
			}
			fn.Extern = ext
		case "pre":
			if c, ok := contractFromAnnotation(ann); ok {
				fn.Meta.Pre = append(fn.Meta.Pre, c)
			}
		case "post":
			if c, ok := contractFromAnnotation(ann); ok {
				fn.Meta.Post = append(fn.Meta.Post, c)
			}
		case "invariant":
			if c, ok := contractFromAnnotation(ann); ok {
				fn.Meta.Invariants = append(fn.Meta.Invariants, c)
			}
		case "complexity":
			if pos := ann.Positional(); len(pos) > 0 {
				fn.Meta.Complexity = pos[0].Text
			}
		case "async":
			fn.IsAsync = true
		}
	}
}
