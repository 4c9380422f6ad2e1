package parser

import (
	"aetherscript/internal/ast"
	"aetherscript/internal/diag"
	"aetherscript/internal/token"
)

var primitiveNames = map[token.Kind]string{
	token.KwInt: "int", token.KwInt8: "int8", token.KwInt16: "int16",
	token.KwInt32: "int32", token.KwInt64: "int64",
	token.KwUint: "uint", token.KwUint8: "uint8", token.KwUint16: "uint16",
	token.KwUint32: "uint32", token.KwUint64: "uint64",
	token.KwFloat: "float", token.KwFloat32: "float32", token.KwFloat64: "float64",
	token.KwBool: "bool", token.KwChar: "char", token.KwString: "string",
	token.KwVoid: "void", token.KwSizeT: "size_t", token.KwUintptrT: "uintptr_t",
}

// parseType parses a syntactic type expression (§3 Type; §4.1).
func (p *Parser) parseType() *ast.TypeSyntax {
	start := p.s.peek().Span

	switch {
	case p.s.at(token.Caret): // ^T, owned/move sigil in type position
		p.s.next()
		elem := p.parseType()
		return &ast.TypeSyntax{Kind: ast.TypeSyntaxOwned, Elem: elem, Span: start.Cover(p.lastSpan)}

	case p.s.at(token.Amp): // &T or &mut T
		p.s.next()
		kind := ast.TypeSyntaxBorrow
		if p.s.at(token.KwMut) {
			p.s.next()
			kind = ast.TypeSyntaxBorrowMut
		}
		elem := p.parseType()
		return &ast.TypeSyntax{Kind: kind, Elem: elem, Span: start.Cover(p.lastSpan)}

	case p.s.at(token.Star): // *T pointer
		p.s.next()
		mutable := false
		if p.s.at(token.KwMut) {
			p.s.next()
			mutable = true
		}
		elem := p.parseType()
		return &ast.TypeSyntax{Kind: ast.TypeSyntaxPointer, Elem: elem, Mutable: mutable, Span: start.Cover(p.lastSpan)}

	case p.s.peek().IsPrimitiveType():
		t := p.s.next()
		return &ast.TypeSyntax{Kind: ast.TypeSyntaxPrimitive, PrimitiveName: primitiveNames[t.Kind], Span: t.Span}

	case p.s.at(token.LParen): // function type: (params) -> Return
		p.s.next()
		var params []*ast.TypeSyntax
		variadic := false
		for !p.s.at(token.RParen) && !p.s.at(token.EOF) {
			if p.s.at(token.DotDotDot) {
				p.s.next()
				variadic = true
				break
			}
			params = append(params, p.parseType())
			if p.s.at(token.Comma) {
				p.s.next()
				continue
			}
			break
		}
		p.expect(token.RParen)
		var ret *ast.TypeSyntax
		if p.s.at(token.Arrow) {
			p.s.next()
			ret = p.parseType()
		}
		return &ast.TypeSyntax{Kind: ast.TypeSyntaxFunction, Params: params, Return: ret, Variadic: variadic, Span: start.Cover(p.lastSpan)}

	case p.s.at(token.Ident):
		name := p.s.next().Text
		module := ""
		if p.s.at(token.ColonColon) {
			p.s.next()
			module = name
			name = p.expectIdentText("type name")
		}
		ts := &ast.TypeSyntax{Kind: ast.TypeSyntaxNamed, Name: name, ModuleName: module}
		if name == "Array" && p.s.at(token.Lt) {
			// Array<T, N?> (§3 Type: Array{element, size?}).
			p.s.next()
			ts.Kind = ast.TypeSyntaxArray
			ts.Elem = p.parseType()
			if p.s.at(token.Comma) {
				p.s.next()
				ts.HasSize = true
				ts.Size = uint64(p.parseIntLiteralValue())
			}
			p.expect(token.Gt)
			ts.Span = start.Cover(p.lastSpan)
			return ts
		}
		if name == "Map" && p.s.at(token.Lt) {
			// Map<K, V> (§3 Type: Map{key, value}).
			p.s.next()
			ts.Kind = ast.TypeSyntaxMap
			ts.Key = p.parseType()
			p.expect(token.Comma)
			ts.Value = p.parseType()
			p.expect(token.Gt)
			ts.Span = start.Cover(p.lastSpan)
			return ts
		}
		if p.s.at(token.Lt) {
			p.s.next()
			ts.Args = append(ts.Args, p.parseType())
			for p.s.at(token.Comma) {
				p.s.next()
				ts.Args = append(ts.Args, p.parseType())
			}
			p.expect(token.Gt)
		}
		ts.Span = start.Cover(p.lastSpan)
		return ts

	case p.s.at(token.LBracket): // [T; N] array sugar
		p.s.next()
		elem := p.parseType()
		ts := &ast.TypeSyntax{Kind: ast.TypeSyntaxArray, Elem: elem}
		if p.s.at(token.Semicolon) {
			p.s.next()
			p.expect(token.IntLit)
		}
		p.expect(token.RBracket)
		ts.Span = start.Cover(p.lastSpan)
		return ts

	default:
		got := p.s.next()
		p.errorf(got.Span, diag.SynUnexpectedToken, "expected a type, found %q", got.Text)
		return &ast.TypeSyntax{Kind: ast.TypeSyntaxNamed, Name: "<error>", Span: got.Span}
	}
}

// parseGenericParams parses `<T: Bound1 + Bound2, U>`.
func (p *Parser) parseGenericParams() []ast.GenericParam {
	if !p.s.at(token.Lt) {
		return nil
	}
	p.s.next()
	var params []ast.GenericParam
	for !p.s.at(token.Gt) && !p.s.at(token.EOF) {
		start := p.s.peek().Span
		name := p.expectIdentText("generic parameter name")
		gp := ast.GenericParam{Name: name}
		if p.s.at(token.Colon) {
			p.s.next()
			gp.Constraints = append(gp.Constraints, p.expectIdentText("bound name"))
			for p.s.at(token.Plus) {
				p.s.next()
				gp.Constraints = append(gp.Constraints, p.expectIdentText("bound name"))
			}
		}
		gp.Span = start.Cover(p.lastSpan)
		params = append(params, gp)
		if p.s.at(token.Comma) {
			p.s.next()
			continue
		}
		break
	}
	p.expect(token.Gt)
	return params
}

// parseWhereClause parses an optional `where T: Bound, U: Other` as a list
// of freeform bound strings (§4.5: "where clauses as freeform strings").
func (p *Parser) parseWhereClause() []string {
	if !p.s.at(token.KwWhere) {
		return nil
	}
	p.s.next()
	var clauses []string
	for {
		name := p.expectIdentText("where-clause type")
		p.expect(token.Colon)
		bound := p.expectIdentText("bound name")
		clauses = append(clauses, name+": "+bound)
		if p.s.at(token.Comma) {
			p.s.next()
			continue
		}
		break
	}
	return clauses
}
