package parser

import (
	"aetherscript/internal/ast"
	"aetherscript/internal/diag"
	"aetherscript/internal/token"
)

// parseAnnotations parses zero or more leading `@name(args…)` decorations
// (§4.1).
func (p *Parser) parseAnnotations() []ast.Annotation {
	var out []ast.Annotation
	for p.s.at(token.At) {
		out = append(out, p.parseAnnotation())
	}
	return out
}

func (p *Parser) parseAnnotation() ast.Annotation {
	start := p.expect(token.At).Span
	name := p.expectIdentText("annotation name")
	ann := ast.Annotation{Name: name}

	if p.s.at(token.LParen) {
		p.s.next()
		for !p.s.at(token.RParen) && !p.s.at(token.EOF) {
			ann.Args = append(ann.Args, p.parseAnnotationArg())
			if p.s.at(token.Comma) {
				p.s.next()
				continue
			}
			break
		}
		p.expect(token.RParen)
	}

	ann.Span = start.Cover(p.lastSpan)
	return ann
}

func (p *Parser) parseAnnotationArg() ast.AnnotationArg {
	start := p.s.peek().Span

	// A braced expression is always positional: `{cond}`.
	if p.s.at(token.LBrace) {
		p.s.next()
		e := p.parseExpr()
		p.expect(token.RBrace)
		return ast.AnnotationArg{Kind: ast.AnnotationArgExpr, Expr: e, Span: start.Cover(p.lastSpan)}
	}

	// `label: value` or `label = value`; otherwise a bare positional value.
	label := ""
	if p.s.at(token.Ident) && (p.s.peekAt(1).Kind == token.Colon || p.s.peekAt(1).Kind == token.Assign) {
		label = p.s.next().Text
		p.s.next() // ':' or '='
	}

	switch {
	case p.s.at(token.LBrace):
		p.s.next()
		e := p.parseExpr()
		p.expect(token.RBrace)
		return ast.AnnotationArg{Label: label, Kind: ast.AnnotationArgExpr, Expr: e, Span: start.Cover(p.lastSpan)}
	case p.s.at(token.StringLit):
		t := p.s.next()
		return ast.AnnotationArg{Label: label, Kind: ast.AnnotationArgString, Text: t.Text, Span: start.Cover(p.lastSpan)}
	case p.s.at(token.IntLit), p.s.at(token.UintLit):
		t := p.s.next()
		return ast.AnnotationArg{Label: label, Kind: ast.AnnotationArgInt, Text: t.Text, Span: start.Cover(p.lastSpan)}
	case p.s.at(token.FloatLit):
		t := p.s.next()
		return ast.AnnotationArg{Label: label, Kind: ast.AnnotationArgFloat, Text: t.Text, Span: start.Cover(p.lastSpan)}
	case p.s.at(token.KwTrue), p.s.at(token.KwFalse):
		t := p.s.next()
		return ast.AnnotationArg{Label: label, Kind: ast.AnnotationArgBool, Bool: t.Kind == token.KwTrue, Span: start.Cover(p.lastSpan)}
	case p.s.at(token.Ident):
		t := p.s.next()
		return ast.AnnotationArg{Label: label, Kind: ast.AnnotationArgIdent, Text: t.Text, Span: start.Cover(p.lastSpan)}
	default:
		got := p.s.next()
		p.errorf(got.Span, diag.SynSyntaxError, "unexpected token %q in annotation argument", got.Text)
		return ast.AnnotationArg{Label: label, Kind: ast.AnnotationArgIdent, Text: got.Text, Span: start.Cover(p.lastSpan)}
	}
}

// contractFromAnnotation extracts `@pre({cond}, check=runtime)`-shaped
// annotations into a Contract (§4.1: "Contract argument extraction").
func contractFromAnnotation(ann ast.Annotation) (ast.Contract, bool) {
	var cond *ast.Expr
	runtime := false
	for _, arg := range ann.Args {
		switch {
		case arg.Label == "" && arg.Kind == ast.AnnotationArgExpr:
			cond = arg.Expr
		case arg.Label == "check" && arg.Text == "runtime":
			runtime = true
		}
	}
	if cond == nil {
		return ast.Contract{}, false
	}
	return ast.Contract{Cond: cond, RuntimeCheck: runtime, Span: ann.Span}, true
}
