package parser

import (
	"aetherscript/internal/ast"
	"aetherscript/internal/diag"
	"aetherscript/internal/token"
)

// parseBlock parses a brace-delimited statement sequence.
func (p *Parser) parseBlock() *ast.Block {
	start := p.expect(token.LBrace).Span
	blk := &ast.Block{}
	for !p.s.at(token.RBrace) && !p.s.at(token.EOF) {
		before := p.s.pos
		blk.Stmts = append(blk.Stmts, p.parseStmt())
		if p.s.pos == before {
			p.s.next()
			p.resyncStmt()
		}
	}
	p.expect(token.RBrace)
	blk.Span = start.Cover(p.lastSpan)
	return blk
}

func (p *Parser) parseStmt() ast.Stmt {
	switch p.s.peek().Kind {
	case token.KwLet, token.KwVar:
		return p.parseLetStmt()
	case token.KwReturn:
		return p.parseReturnStmt()
	case token.KwIf:
		return p.parseIfStmt()
	case token.KwWhile:
		return p.parseWhileStmt()
	case token.KwFor:
		return p.parseForStmt()
	case token.KwBreak:
		return p.parseBreakContinue(ast.StmtBreak, token.KwBreak)
	case token.KwContinue:
		return p.parseBreakContinue(ast.StmtContinue, token.KwContinue)
	case token.KwMatch:
		return p.parseMatchStmt()
	case token.KwTry:
		return p.parseTryStmt()
	case token.KwThrow:
		return p.parseThrowStmt()
	case token.KwConcurrent:
		return p.parseConcurrentStmt()
	case token.LBrace:
		blk := p.parseBlock()
		return ast.Stmt{Kind: ast.StmtBlock, Body: blk, Span: blk.Span}
	default:
		return p.parseExprOrAssignStmt()
	}
}

func (p *Parser) parseLetStmt() ast.Stmt {
	start := p.s.next().Span // 'let' or 'var'
	mutable := false
	if p.s.at(token.KwMut) {
		p.s.next()
		mutable = true
	}
	name := p.expectIdentText("binding name")
	var ty *ast.TypeSyntax
	if p.s.at(token.Colon) {
		p.s.next()
		ty = p.parseType()
	}
	var init *ast.Expr
	if p.s.at(token.Assign) {
		p.s.next()
		init = p.parseExpr()
	}
	p.expect(token.Semicolon)
	return ast.Stmt{Kind: ast.StmtLet, Name: name, DeclaredType: ty, Mutable: mutable, Init: init, Span: start.Cover(p.lastSpan)}
}

func (p *Parser) parseReturnStmt() ast.Stmt {
	start := p.expect(token.KwReturn).Span
	var val *ast.Expr
	if !p.s.at(token.Semicolon) {
		val = p.parseExpr()
	}
	p.expect(token.Semicolon)
	return ast.Stmt{Kind: ast.StmtReturn, ReturnValue: val, Span: start.Cover(p.lastSpan)}
}

func (p *Parser) parseIfStmt() ast.Stmt {
	start := p.expect(token.KwIf).Span
	cond := p.parseExpr()
	then := p.parseBlock()
	stmt := ast.Stmt{Kind: ast.StmtIf, Cond: cond, Then: then}
	if p.s.at(token.KwElse) {
		p.s.next()
		if p.s.at(token.KwIf) {
			nested := p.parseIfStmt()
			stmt.Else = &ast.Block{Stmts: []ast.Stmt{nested}, Span: nested.Span}
		} else {
			stmt.Else = p.parseBlock()
		}
	}
	stmt.Span = start.Cover(p.lastSpan)
	return stmt
}

func (p *Parser) parseWhileStmt() ast.Stmt {
	start := p.expect(token.KwWhile).Span
	cond := p.parseExpr()
	body := p.parseBlock()
	return ast.Stmt{Kind: ast.StmtWhile, Cond: cond, Body: body, Span: start.Cover(p.lastSpan)}
}

// parseForStmt implements §4.1's FixedIterationLoop vs. ForEachLoop
// disambiguation: after the initial operand, a `..`/`..=` makes it a
// fixed-iteration (counter + bounds + step + inclusive) loop; otherwise it
// is a `for x [: T] in expr` foreach loop.
func (p *Parser) parseForStmt() ast.Stmt {
	start := p.expect(token.KwFor).Span
	name := p.expectIdentText("loop variable name")

	var elemTy *ast.TypeSyntax
	if p.s.at(token.Colon) {
		p.s.next()
		elemTy = p.parseType()
	}

	if p.s.at(token.KwIn) {
		p.s.next()
		operand := p.parseOr() // parseOr, not parseExpr/parseRange, so a trailing `..` is recognized below
		if p.s.atAny(token.DotDot, token.DotDotEq) {
			incl := p.s.peek().Kind == token.DotDotEq
			p.s.next()
			hi := p.parseOr()
			// No explicit step syntax in the grammar; RangeStep stays nil and
			// defaults to 1 (§4.1 FixedIterationLoop).
			body := p.parseBlock()
			return ast.Stmt{Kind: ast.StmtForRange, CounterName: name, RangeLo: operand, RangeHi: hi,
				RangeIncl: incl, Body: body, Span: start.Cover(p.lastSpan)}
		}
		body := p.parseBlock()
		return ast.Stmt{Kind: ast.StmtForEach, ElemName: name, ElemType: elemTy, Collection: operand, Body: body, Span: start.Cover(p.lastSpan)}
	}

	got := p.s.peek()
	p.errorf(got.Span, diag.SynSyntaxError, "expected 'in' in for loop")
	body := p.parseBlock()
	return ast.Stmt{Kind: ast.StmtForEach, ElemName: name, Body: body, Span: start.Cover(p.lastSpan)}
}

func (p *Parser) parseBreakContinue(kind ast.StmtKind, kw token.Kind) ast.Stmt {
	start := p.expect(kw).Span
	label := ""
	if p.s.at(token.Ident) {
		label = p.s.next().Text
	}
	p.expect(token.Semicolon)
	return ast.Stmt{Kind: kind, BreakLabel: label, Span: start.Cover(p.lastSpan)}
}

func (p *Parser) parseMatchStmt() ast.Stmt {
	e := p.parseMatchExpr()
	return ast.Stmt{Kind: ast.StmtMatch, Scrutinee: e.Scrutinee, Arms: e.Arms, Span: e.Span}
}

func (p *Parser) parseTryStmt() ast.Stmt {
	start := p.expect(token.KwTry).Span
	body := p.parseBlock()
	stmt := ast.Stmt{Kind: ast.StmtTry, TryBody: body}
	for p.s.at(token.KwCatch) {
		stmt.Catches = append(stmt.Catches, p.parseCatchClause())
	}
	if p.s.at(token.KwFinally) {
		p.s.next()
		stmt.Finally = p.parseBlock()
	}
	stmt.Span = start.Cover(p.lastSpan)
	return stmt
}

func (p *Parser) parseCatchClause() ast.CatchClause {
	start := p.expect(token.KwCatch).Span
	var excType *ast.TypeSyntax
	binding := ""
	if p.s.at(token.LParen) {
		p.s.next()
		excType = p.parseType()
		if p.s.at(token.Ident) {
			binding = p.s.next().Text
		}
		p.expect(token.RParen)
	}
	body := p.parseBlock()
	return ast.CatchClause{ExceptionType: excType, BindingName: binding, Body: body, Span: start.Cover(p.lastSpan)}
}

func (p *Parser) parseThrowStmt() ast.Stmt {
	start := p.expect(token.KwThrow).Span
	val := p.parseExpr()
	p.expect(token.Semicolon)
	return ast.Stmt{Kind: ast.StmtThrow, ThrowValue: val, Span: start.Cover(p.lastSpan)}
}

func (p *Parser) parseConcurrentStmt() ast.Stmt {
	start := p.expect(token.KwConcurrent).Span
	body := p.parseBlock()
	return ast.Stmt{Kind: ast.StmtConcurrent, ConcurrentBody: body, Span: start.Cover(p.lastSpan)}
}

// parseExprOrAssignStmt parses a bare expression statement or an assignment
// `target = value;`.
func (p *Parser) parseExprOrAssignStmt() ast.Stmt {
	start := p.s.peek().Span
	e := p.parseExpr()
	if p.s.at(token.Assign) {
		p.s.next()
		val := p.parseExpr()
		p.expect(token.Semicolon)
		return ast.Stmt{Kind: ast.StmtAssign, Target: e, Value: val, Span: start.Cover(p.lastSpan)}
	}
	p.expect(token.Semicolon)
	return ast.Stmt{Kind: ast.StmtExpr, Expr: e, Span: start.Cover(p.lastSpan)}
}
