package abi

import (
	"fmt"
	"strconv"
	"strings"

	"aetherscript/internal/ast"
)

// printExpr renders e deterministically for contract/axiom persistence
// (§4.5): literals, bare-name variables, all binary arithmetic and
// comparison operators always fully parenthesized (no precedence elision,
// since downstream tools hash the result), logical and/or/not, unary
// negation, field access, indexing, and calls including `module.name`
// qualified references. Anything else renders as "<expr>".
func printExpr(e *ast.Expr) string {
	if e == nil {
		return "<expr>"
	}
	switch e.Kind {
	case ast.ExprLit:
		return printLit(e.Lit)
	case ast.ExprIdent:
		return e.Name
	case ast.ExprBinary:
		return fmt.Sprintf("(%s %s %s)", printExpr(e.Left), binOpText(e.BinOp), printExpr(e.Right))
	case ast.ExprUnary:
		switch e.UnOp {
		case ast.UnaryNot:
			return "!" + printExpr(e.Operand)
		case ast.UnaryNeg:
			return "-" + printExpr(e.Operand)
		}
		return "<expr>"
	case ast.ExprField:
		return printExpr(e.FieldBase) + "." + e.FieldName
	case ast.ExprIndex:
		return fmt.Sprintf("%s[%s]", printExpr(e.Base), printExpr(e.Index))
	case ast.ExprCall:
		args := make([]string, len(e.Args))
		for i, a := range e.Args {
			args[i] = printExpr(a.Value)
		}
		return fmt.Sprintf("%s(%s)", printCallee(e.Callee), strings.Join(args, ", "))
	case ast.ExprGroup:
		if len(e.Elems) == 1 {
			return printExpr(e.Elems[0])
		}
		return "<expr>"
	default:
		return "<expr>"
	}
}

// printCallee renders a call's callee: a bare name, or `module.name` for a
// qualified reference (a field access whose base is itself a bare
// identifier).
func printCallee(e *ast.Expr) string {
	if e == nil {
		return "<expr>"
	}
	switch e.Kind {
	case ast.ExprIdent:
		return e.Name
	case ast.ExprField:
		if e.FieldBase != nil && e.FieldBase.Kind == ast.ExprIdent {
			return e.FieldBase.Name + "." + e.FieldName
		}
		return printExpr(e)
	default:
		return printExpr(e)
	}
}

func binOpText(op ast.BinaryOp) string {
	switch op {
	case ast.OpAdd:
		return "+"
	case ast.OpSub:
		return "-"
	case ast.OpMul:
		return "*"
	case ast.OpDiv:
		return "/"
	case ast.OpMod:
		return "%"
	case ast.OpEq:
		return "=="
	case ast.OpNotEq:
		return "!="
	case ast.OpLt:
		return "<"
	case ast.OpLtEq:
		return "<="
	case ast.OpGt:
		return ">"
	case ast.OpGtEq:
		return ">="
	case ast.OpAnd:
		return "&&"
	case ast.OpOr:
		return "||"
	default:
		return "?"
	}
}

func printLit(l ast.Literal) string {
	switch l.Kind {
	case ast.LitInt, ast.LitUint, ast.LitFloat:
		return l.Text
	case ast.LitBool:
		return strconv.FormatBool(l.Bool)
	case ast.LitString, ast.LitFString:
		return strconv.Quote(l.Text)
	case ast.LitNothing:
		return "null"
	default:
		return "<expr>"
	}
}
