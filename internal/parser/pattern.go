package parser

import (
	"aetherscript/internal/ast"
	"aetherscript/internal/diag"
	"aetherscript/internal/token"
)

// parsePattern parses a match-arm or destructuring pattern (§4.1 Pattern
// grammar): `_`, a literal, `EnumType::Variant[(bindings)]`, a bare
// `Variant[(bindings)]`, or `StructName { field: pattern [, ...] }` with
// shorthand `{ field }` binding a same-named variable.
func (p *Parser) parsePattern() ast.Pattern {
	start := p.s.peek().Span

	if p.s.at(token.Underscore) {
		p.s.next()
		pat := ast.Pattern{Kind: ast.PatternWildcard, Span: start.Cover(p.lastSpan)}
		if p.s.at(token.At) {
			p.s.next()
			pat.BindingName = p.expectIdentText("binding name")
		}
		return pat
	}

	if lit, ok := p.tryParseLiteralPattern(); ok {
		return lit
	}

	if p.s.at(token.Ident) {
		name := p.s.next().Text

		// Qualified enum pattern: EnumType::Variant[(bindings)].
		if p.s.at(token.ColonColon) {
			p.s.next()
			variant := p.expectIdentText("variant name")
			pat := ast.Pattern{Kind: ast.PatternEnumVariant, EnumType: name, VariantName: variant}
			pat.Bindings = p.parseOptionalVariantBindings()
			pat.Span = start.Cover(p.lastSpan)
			return pat
		}

		// Struct pattern: StructName { field: pattern, ... }.
		if p.s.at(token.LBrace) {
			p.s.next()
			pat := ast.Pattern{Kind: ast.PatternStruct, StructName: name}
			for !p.s.at(token.RBrace) && !p.s.at(token.EOF) {
				fname := p.expectIdentText("field name")
				field := ast.PatternField{Name: fname}
				if p.s.at(token.Colon) {
					p.s.next()
					sub := p.parsePattern()
					field.Pattern = &sub
				}
				pat.StructFields = append(pat.StructFields, field)
				if p.s.at(token.Comma) {
					p.s.next()
					continue
				}
				break
			}
			p.expect(token.RBrace)
			pat.Span = start.Cover(p.lastSpan)
			return pat
		}

		// Bare Variant[(bindings)] — ambiguous with a plain binding until the
		// analyzer resolves it against the enum registry; record both shapes
		// and let sema disambiguate (§4.1, §4.3).
		if p.s.at(token.LParen) {
			pat := ast.Pattern{Kind: ast.PatternEnumVariant, VariantName: name}
			pat.Bindings = p.parseOptionalVariantBindings()
			pat.Span = start.Cover(p.lastSpan)
			return pat
		}

		return ast.Pattern{Kind: ast.PatternBinding, BindingName: name, Span: start.Cover(p.lastSpan)}
	}

	got := p.s.next()
	p.errorf(got.Span, diag.SynUnexpectedToken, "expected a pattern, found %q", got.Text)
	return ast.Pattern{Kind: ast.PatternWildcard, Span: got.Span}
}

func (p *Parser) parseOptionalVariantBindings() []string {
	if !p.s.at(token.LParen) {
		return nil
	}
	p.s.next()
	var bindings []string
	for !p.s.at(token.RParen) && !p.s.at(token.EOF) {
		bindings = append(bindings, p.expectIdentText("binding name"))
		if p.s.at(token.Comma) {
			p.s.next()
			continue
		}
		break
	}
	p.expect(token.RParen)
	return bindings
}

func (p *Parser) tryParseLiteralPattern() (ast.Pattern, bool) {
	start := p.s.peek()
	switch start.Kind {
	case token.IntLit:
		p.s.next()
		return ast.Pattern{Kind: ast.PatternLiteral, Lit: ast.Literal{Kind: ast.LitInt, Text: start.Text}, Span: start.Span}, true
	case token.UintLit:
		p.s.next()
		return ast.Pattern{Kind: ast.PatternLiteral, Lit: ast.Literal{Kind: ast.LitUint, Text: start.Text}, Span: start.Span}, true
	case token.FloatLit:
		p.s.next()
		return ast.Pattern{Kind: ast.PatternLiteral, Lit: ast.Literal{Kind: ast.LitFloat, Text: start.Text}, Span: start.Span}, true
	case token.StringLit:
		p.s.next()
		return ast.Pattern{Kind: ast.PatternLiteral, Lit: ast.Literal{Kind: ast.LitString, Text: start.Text}, Span: start.Span}, true
	case token.KwTrue, token.KwFalse:
		p.s.next()
		return ast.Pattern{Kind: ast.PatternLiteral, Lit: ast.Literal{Kind: ast.LitBool, Bool: start.Kind == token.KwTrue}, Span: start.Span}, true
	default:
		return ast.Pattern{}, false
	}
}
