package parser

import (
	"aetherscript/internal/ast"
	"aetherscript/internal/diag"
	"aetherscript/internal/source"
	"aetherscript/internal/token"
)

const maxExprDepth = 256

// parseExpr parses a full expression following the precedence ladder
// (lowest → highest): range, logical-or, logical-and, equality, relational,
// additive, multiplicative, unary, postfix (§4.1).
func (p *Parser) parseExpr() *ast.Expr {
	p.exprDepth++
	defer func() { p.exprDepth-- }()
	if p.exprDepth > maxExprDepth {
		got := p.s.peek()
		p.errorf(got.Span, diag.SynSyntaxError, "expression nested too deeply")
		return &ast.Expr{Kind: ast.ExprInvalid, Span: got.Span}
	}
	return p.parseRange()
}

func (p *Parser) parseRange() *ast.Expr {
	left := p.parseOr()
	if p.s.atAny(token.DotDot, token.DotDotEq) {
		incl := p.s.peek().Kind == token.DotDotEq
		p.s.next()
		right := p.parseOr()
		return &ast.Expr{Kind: ast.ExprRange, RangeLo: left, RangeHi: right, RangeInclusive: incl, Span: left.Span.Cover(right.Span)}
	}
	return left
}

func (p *Parser) parseOr() *ast.Expr {
	left := p.parseAnd()
	for p.s.at(token.OrOr) {
		p.s.next()
		right := p.parseAnd()
		left = &ast.Expr{Kind: ast.ExprBinary, BinOp: ast.OpOr, Left: left, Right: right, Span: left.Span.Cover(right.Span)}
	}
	return left
}

func (p *Parser) parseAnd() *ast.Expr {
	left := p.parseEquality()
	for p.s.at(token.AndAnd) {
		p.s.next()
		right := p.parseEquality()
		left = &ast.Expr{Kind: ast.ExprBinary, BinOp: ast.OpAnd, Left: left, Right: right, Span: left.Span.Cover(right.Span)}
	}
	return left
}

func (p *Parser) parseEquality() *ast.Expr {
	left := p.parseRelational()
	for p.s.atAny(token.EqEq, token.BangEq) {
		op := ast.OpEq
		if p.s.peek().Kind == token.BangEq {
			op = ast.OpNotEq
		}
		p.s.next()
		right := p.parseRelational()
		left = &ast.Expr{Kind: ast.ExprBinary, BinOp: op, Left: left, Right: right, Span: left.Span.Cover(right.Span)}
	}
	return left
}

var relOps = map[token.Kind]ast.BinaryOp{
	token.Lt: ast.OpLt, token.LtEq: ast.OpLtEq, token.Gt: ast.OpGt, token.GtEq: ast.OpGtEq,
}

func (p *Parser) parseRelational() *ast.Expr {
	left := p.parseAdditive()
	for {
		op, ok := relOps[p.s.peek().Kind]
		if !ok {
			return left
		}
		p.s.next()
		right := p.parseAdditive()
		left = &ast.Expr{Kind: ast.ExprBinary, BinOp: op, Left: left, Right: right, Span: left.Span.Cover(right.Span)}
	}
}

func (p *Parser) parseAdditive() *ast.Expr {
	left := p.parseMultiplicative()
	for p.s.atAny(token.Plus, token.Minus) {
		op := ast.OpAdd
		if p.s.peek().Kind == token.Minus {
			op = ast.OpSub
		}
		p.s.next()
		right := p.parseMultiplicative()
		left = &ast.Expr{Kind: ast.ExprBinary, BinOp: op, Left: left, Right: right, Span: left.Span.Cover(right.Span)}
	}
	return left
}

var mulOps = map[token.Kind]ast.BinaryOp{
	token.Star: ast.OpMul, token.Slash: ast.OpDiv, token.Percent: ast.OpMod,
}

func (p *Parser) parseMultiplicative() *ast.Expr {
	left := p.parseUnary()
	for {
		op, ok := mulOps[p.s.peek().Kind]
		if !ok {
			return left
		}
		p.s.next()
		right := p.parseUnary()
		left = &ast.Expr{Kind: ast.ExprBinary, BinOp: op, Left: left, Right: right, Span: left.Span.Cover(right.Span)}
	}
}

// parseUnary handles the right-associative prefix operators `!`, unary `-`,
// `&`/`&mut` (borrow), and `^` (move) (§4.1).
func (p *Parser) parseUnary() *ast.Expr {
	start := p.s.peek()
	switch start.Kind {
	case token.Bang:
		p.s.next()
		operand := p.parseUnary()
		return &ast.Expr{Kind: ast.ExprUnary, UnOp: ast.UnaryNot, Operand: operand, Span: start.Span.Cover(operand.Span)}
	case token.Minus:
		p.s.next()
		operand := p.parseUnary()
		return &ast.Expr{Kind: ast.ExprUnary, UnOp: ast.UnaryNeg, Operand: operand, Span: start.Span.Cover(operand.Span)}
	case token.Amp:
		p.s.next()
		mutable := false
		if p.s.at(token.KwMut) {
			p.s.next()
			mutable = true
		}
		operand := p.parseUnary()
		return &ast.Expr{Kind: ast.ExprBorrow, Operand: operand, Mutable: mutable, Span: start.Span.Cover(operand.Span)}
	case token.Caret:
		p.s.next()
		operand := p.parseUnary()
		return &ast.Expr{Kind: ast.ExprMove, Operand: operand, Span: start.Span.Cover(operand.Span)}
	default:
		return p.parsePostfix()
	}
}

// parsePostfix handles call, index, field, and method-call chains, the
// highest-precedence level (§4.1).
func (p *Parser) parsePostfix() *ast.Expr {
	e := p.parsePrimary()
	for {
		switch {
		case p.s.at(token.LParen):
			e = p.finishCall(e, nil)
		case p.s.at(token.LBracket):
			p.s.next()
			idx := p.parseExpr()
			p.expect(token.RBracket)
			e = &ast.Expr{Kind: ast.ExprIndex, Base: e, Index: idx, Span: e.Span.Cover(p.lastSpan)}
		case p.s.at(token.Dot):
			p.s.next()
			name := p.expectIdentText("field or method name")
			if p.s.at(token.LParen) {
				e = p.finishMethodCall(e, name)
			} else {
				e = &ast.Expr{Kind: ast.ExprField, FieldBase: e, FieldName: name, Span: e.Span.Cover(p.lastSpan)}
			}
		default:
			return e
		}
	}
}

func (p *Parser) finishCall(callee *ast.Expr, typeArgs []*ast.TypeSyntax) *ast.Expr {
	p.expect(token.LParen)
	args := p.parseArgList()
	return &ast.Expr{Kind: ast.ExprCall, Callee: callee, Args: args, TypeArgs: typeArgs, Span: callee.Span.Cover(p.lastSpan)}
}

func (p *Parser) finishMethodCall(receiver *ast.Expr, method string) *ast.Expr {
	p.expect(token.LParen)
	args := p.parseArgList()
	return &ast.Expr{Kind: ast.ExprMethodCall, Receiver: receiver, Method: method, Args: args, Span: receiver.Span.Cover(p.lastSpan)}
}

func (p *Parser) parseArgList() []ast.Arg {
	var args []ast.Arg
	for !p.s.at(token.RParen) && !p.s.at(token.EOF) {
		label := ""
		if p.s.at(token.Ident) && p.s.peekAt(1).Kind == token.Colon {
			label = p.s.next().Text
			p.s.next()
		}
		args = append(args, ast.Arg{Label: label, Value: p.parseExpr()})
		if p.s.at(token.Comma) {
			p.s.next()
			continue
		}
		break
	}
	p.expect(token.RParen)
	return args
}

func (p *Parser) parsePrimary() *ast.Expr {
	start := p.s.peek()
	switch start.Kind {
	case token.IntLit:
		p.s.next()
		return &ast.Expr{Kind: ast.ExprLit, Lit: ast.Literal{Kind: ast.LitInt, Text: start.Text}, Span: start.Span}
	case token.UintLit:
		p.s.next()
		return &ast.Expr{Kind: ast.ExprLit, Lit: ast.Literal{Kind: ast.LitUint, Text: start.Text}, Span: start.Span}
	case token.FloatLit:
		p.s.next()
		return &ast.Expr{Kind: ast.ExprLit, Lit: ast.Literal{Kind: ast.LitFloat, Text: start.Text}, Span: start.Span}
	case token.StringLit:
		p.s.next()
		return &ast.Expr{Kind: ast.ExprLit, Lit: ast.Literal{Kind: ast.LitString, Text: start.Text}, Span: start.Span}
	case token.FStringLit:
		p.s.next()
		return &ast.Expr{Kind: ast.ExprLit, Lit: ast.Literal{Kind: ast.LitFString, Text: start.Text}, Span: start.Span}
	case token.NothingLit:
		p.s.next()
		return &ast.Expr{Kind: ast.ExprLit, Lit: ast.Literal{Kind: ast.LitNothing}, Span: start.Span}
	case token.KwTrue, token.KwFalse:
		p.s.next()
		return &ast.Expr{Kind: ast.ExprLit, Lit: ast.Literal{Kind: ast.LitBool, Bool: start.Kind == token.KwTrue}, Span: start.Span}
	case token.KwMatch:
		return p.parseMatchExpr()
	case token.LBracket:
		return p.parseArrayLitOrLambda()
	case token.LParen:
		return p.parseParenOrLambda()
	case token.LBrace:
		return p.parseMapLit()
	case token.Ident:
		return p.parseIdentLed()
	default:
		p.s.next()
		p.errorf(start.Span, diag.SynUnexpectedToken, "unexpected token %q in expression", start.Text)
		return &ast.Expr{Kind: ast.ExprInvalid, Span: start.Span}
	}
}

// parseIdentLed handles a leading identifier: a bare reference, a call, a
// struct-literal (only when `IDENT :` follows the brace — §4.1), or the
// start of a `(params) => body` lambda disambiguated by lookahead.
func (p *Parser) parseIdentLed() *ast.Expr {
	start := p.s.next()
	ident := &ast.Expr{Kind: ast.ExprIdent, Name: start.Text, Span: start.Span}

	if p.s.at(token.LBrace) && p.looksLikeStructLiteral() {
		return p.finishStructLiteral(ident)
	}
	return ident
}

// looksLikeStructLiteral implements §4.1's disambiguation: `{` begins struct
// construction only if the next significant tokens are `IDENT :`. Empty `{}`
// is never struct construction.
func (p *Parser) looksLikeStructLiteral() bool {
	return p.s.peekAt(1).Kind == token.Ident && p.s.peekAt(2).Kind == token.Colon
}

func (p *Parser) finishStructLiteral(name *ast.Expr) *ast.Expr {
	p.expect(token.LBrace)
	lit := &ast.Expr{Kind: ast.ExprStructLit, StructName: name.Name}
	for !p.s.at(token.RBrace) && !p.s.at(token.EOF) {
		fname := p.expectIdentText("field name")
		p.expect(token.Colon)
		val := p.parseExpr()
		lit.Fields = append(lit.Fields, ast.FieldInit{Name: fname, Value: val})
		if p.s.at(token.Comma) {
			p.s.next()
			continue
		}
		break
	}
	p.expect(token.RBrace)
	lit.Span = name.Span.Cover(p.lastSpan)
	return lit
}

// parseArrayLitOrLambda implements §4.1's array-literal vs. capture-list
// disambiguation: after `[`, it is an array literal unless the matching `]`
// is immediately followed by `(`.
func (p *Parser) parseArrayLitOrLambda() *ast.Expr {
	start := p.expect(token.LBracket).Span
	if p.s.at(token.RBracket) && p.s.peekAt(1).Kind == token.LParen {
		captures := p.finishCaptureList()
		return p.parseLambdaFrom(start, captures)
	}

	lit := &ast.Expr{Kind: ast.ExprArrayLit}
	for !p.s.at(token.RBracket) && !p.s.at(token.EOF) {
		lit.Elems = append(lit.Elems, p.parseExpr())
		if p.s.at(token.Comma) {
			p.s.next()
			continue
		}
		break
	}
	if p.s.at(token.RBracket) && p.s.peekAt(1).Kind == token.LParen {
		p.s.next()
		captures := p.finishCaptureListFromElems(lit.Elems)
		return p.parseLambdaFrom(start, captures)
	}
	p.expect(token.RBracket)
	lit.Span = start.Cover(p.lastSpan)
	return lit
}

func (p *Parser) finishCaptureList() []ast.Capture {
	p.expect(token.RBracket)
	return nil
}

// finishCaptureListFromElems re-reads already-parsed bare-identifier array
// elements as a capture list (`name`, `&name`, `&mut name`) once the trailing
// `(` reveals the `[...]` was actually a lambda capture list.
func (p *Parser) finishCaptureListFromElems(elems []*ast.Expr) []ast.Capture {
	var caps []ast.Capture
	for _, e := range elems {
		switch e.Kind {
		case ast.ExprIdent:
			caps = append(caps, ast.Capture{Name: e.Name, Kind: ast.CaptureByValue, Span: e.Span})
		case ast.ExprBorrow:
			if e.Operand != nil && e.Operand.Kind == ast.ExprIdent {
				k := ast.CaptureByRef
				if e.Mutable {
					k = ast.CaptureByRefMut
				}
				caps = append(caps, ast.Capture{Name: e.Operand.Name, Kind: k, Span: e.Span})
			}
		}
	}
	return caps
}

// parseLambdaFrom parses the `(params) [-> T] => body` tail of a lambda once
// the optional capture list has already been consumed (§4.1).
func (p *Parser) parseLambdaFrom(start source.Span, captures []ast.Capture) *ast.Expr {
	p.expect(token.LParen)
	params := p.parseLambdaParams()
	p.expect(token.RParen)

	var ret *ast.TypeSyntax
	if p.s.at(token.Arrow) {
		p.s.next()
		ret = p.parseType()
	}
	p.expect(token.FatArrow)

	body := p.parseLambdaBody()
	return &ast.Expr{Kind: ast.ExprLambda, Captures: captures, Params: params, ReturnType: ret, Body: body, Span: start.Cover(p.lastSpan)}
}

func (p *Parser) parseLambdaParams() []ast.Param {
	var params []ast.Param
	for !p.s.at(token.RParen) && !p.s.at(token.EOF) {
		start := p.s.peek().Span
		name := p.expectIdentText("parameter name")
		var ty *ast.TypeSyntax
		if p.s.at(token.Colon) {
			p.s.next()
			ty = p.parseType()
		}
		params = append(params, ast.Param{Name: name, Type: ty, Span: start.Cover(p.lastSpan)})
		if p.s.at(token.Comma) {
			p.s.next()
			continue
		}
		break
	}
	return params
}

// parseLambdaBody parses either a bare expression or a block; a block whose
// final statement is a bare expression is an implicit return (§4.1) and is
// left for internal/sema/internal/mir to interpret when lowering the body.
func (p *Parser) parseLambdaBody() *ast.Block {
	if p.s.at(token.LBrace) {
		return p.parseBlock()
	}
	start := p.s.peek().Span
	e := p.parseExpr()
	return &ast.Block{Stmts: []ast.Stmt{{Kind: ast.StmtExpr, Expr: e, Span: e.Span}}, Span: start.Cover(p.lastSpan)}
}

// parseParenOrLambda disambiguates a parenthesized expression, a tuple, and
// a capture-less `(params) [-> T] => body` lambda by speculatively scanning
// for a matching `)` followed by `->` or `=>`.
func (p *Parser) parseParenOrLambda() *ast.Expr {
	start := p.s.peek().Span
	if p.looksLikeLambdaParams() {
		return p.parseLambdaFrom(start, nil)
	}

	p.expect(token.LParen)
	if p.s.at(token.RParen) {
		p.s.next()
		return &ast.Expr{Kind: ast.ExprTuple, Span: start.Cover(p.lastSpan)}
	}
	first := p.parseExpr()
	if p.s.at(token.Comma) {
		elems := []*ast.Expr{first}
		for p.s.at(token.Comma) {
			p.s.next()
			if p.s.at(token.RParen) {
				break
			}
			elems = append(elems, p.parseExpr())
		}
		p.expect(token.RParen)
		return &ast.Expr{Kind: ast.ExprTuple, Elems: elems, Span: start.Cover(p.lastSpan)}
	}
	p.expect(token.RParen)
	return &ast.Expr{Kind: ast.ExprGroup, Elems: []*ast.Expr{first}, Span: start.Cover(p.lastSpan)}
}

// looksLikeLambdaParams scans ahead from the current `(` to its matching `)`
// and reports whether `->` or `=>` immediately follows, without consuming
// any tokens.
func (p *Parser) looksLikeLambdaParams() bool {
	depth := 0
	offset := 0
	for {
		k := p.s.peekAt(offset).Kind
		switch k {
		case token.EOF:
			return false
		case token.LParen:
			depth++
		case token.RParen:
			depth--
			if depth == 0 {
				next := p.s.peekAt(offset + 1).Kind
				return next == token.Arrow || next == token.FatArrow
			}
		}
		offset++
	}
}

// parseMapLit parses a bare `{ key: value, ... }` map literal. Empty `{}` is
// never struct construction (§4.1); in primary-expression position it is an
// empty map literal, since blocks are only reachable through statement
// context, not through parseExpr.
func (p *Parser) parseMapLit() *ast.Expr {
	start := p.expect(token.LBrace).Span
	lit := &ast.Expr{Kind: ast.ExprMapLit}
	for !p.s.at(token.RBrace) && !p.s.at(token.EOF) {
		key := p.parseExpr()
		p.expect(token.Colon)
		val := p.parseExpr()
		lit.MapEntries = append(lit.MapEntries, ast.MapEntry{Key: key, Value: val})
		if p.s.at(token.Comma) {
			p.s.next()
			continue
		}
		break
	}
	p.expect(token.RBrace)
	lit.Span = start.Cover(p.lastSpan)
	return lit
}

func (p *Parser) parseMatchExpr() *ast.Expr {
	start := p.expect(token.KwMatch).Span
	scrutinee := p.parseExpr()
	p.expect(token.LBrace)
	var arms []ast.MatchArm
	for !p.s.at(token.RBrace) && !p.s.at(token.EOF) {
		arms = append(arms, p.parseMatchArm())
		if p.s.at(token.Comma) {
			p.s.next()
		}
	}
	p.expect(token.RBrace)
	return &ast.Expr{Kind: ast.ExprMatch, Scrutinee: scrutinee, Arms: arms, Span: start.Cover(p.lastSpan)}
}

func (p *Parser) parseMatchArm() ast.MatchArm {
	start := p.s.peek().Span
	pat := p.parsePattern()
	var guard *ast.Expr
	if p.s.at(token.KwIf) {
		p.s.next()
		guard = p.parseExpr()
	}
	p.expect(token.FatArrow)
	body := p.parseLambdaBody()
	return ast.MatchArm{Pattern: pat, Guard: guard, Body: body, Span: start.Cover(p.lastSpan)}
}
