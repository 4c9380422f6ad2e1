package parser

import "aetherscript/internal/ast"

// ParseStmtForTest exposes statement parsing to external package tests. Not
// part of the public parsing API; production callers use ParseModule.
func (p *Parser) ParseStmtForTest() ast.Stmt { return p.parseStmt() }

// ParseExprForTest exposes expression parsing to external package tests.
func (p *Parser) ParseExprForTest() *ast.Expr { return p.parseExpr() }
