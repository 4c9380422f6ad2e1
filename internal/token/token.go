package token

import (
	"aetherscript/internal/source"
)

// Token represents a single source token with its location and trivia.
type Token struct {
	Kind    Kind
	Span    source.Span
	Text    string
	Leading []Trivia
}

// IsLiteral reports whether the token is a numeric, boolean, or string literal.
func (t Token) IsLiteral() bool {
	switch t.Kind {
	case NothingLit, IntLit, UintLit, FloatLit, BoolLit, StringLit, FStringLit:
		return true
	default:
		return false
	}
}

// IsPunctOrOp reports whether the token is a punctuation or operator.
func (t Token) IsPunctOrOp() bool {
	switch t.Kind {
	case Plus, Minus, Star, Slash, Percent, Assign, PlusAssign, MinusAssign, StarAssign,
		SlashAssign, PercentAssign, AmpAssign, PipeAssign, CaretAssign, ShlAssign, ShrAssign,
		EqEq, Bang, BangEq, Lt, LtEq, Gt, GtEq, Shl, Shr, Amp, Pipe, Caret, AndAnd, OrOr,
		Question, QuestionQuestion, Colon, ColonColon, Semicolon, Comma, Dot, DotDot, Arrow,
		FatArrow, LParen, RParen, LBrace, RBrace, LBracket, RBracket, At, Underscore,
		DotDotEq, DotDotDot, ColonAssign:
		return true
	default:
		return false
	}
}

// IsKeyword reports whether the token is a language keyword, including
// primitive type-name keywords and the boolean literals.
func (t Token) IsKeyword() bool {
	switch t.Kind {
	case KwModule, KwImport, KwAs, KwFunc, KwStruct, KwEnum, KwTrait, KwImpl, KwWhere, KwCase,
		KwPub, KwLet, KwVar, KwMut, KwConst, KwIf, KwElse, KwWhile, KwFor, KwIn, KwMatch,
		KwBreak, KwContinue, KwReturn, KwConcurrent, KwTry, KwCatch, KwFinally, KwThrow,
		KwRange, KwForall, KwExists, KwTrue, KwFalse,
		KwInt, KwInt8, KwInt16, KwInt32, KwInt64, KwUint, KwUint8, KwUint16, KwUint32, KwUint64,
		KwFloat, KwFloat32, KwFloat64, KwBool, KwChar, KwString, KwVoid, KwSizeT, KwUintptrT:
		return true
	default:
		return false
	}
}

// IsPrimitiveType reports whether the token names a primitive type.
func (t Token) IsPrimitiveType() bool {
	switch t.Kind {
	case KwInt, KwInt8, KwInt16, KwInt32, KwInt64, KwUint, KwUint8, KwUint16, KwUint32, KwUint64,
		KwFloat, KwFloat32, KwFloat64, KwBool, KwChar, KwString, KwVoid, KwSizeT, KwUintptrT:
		return true
	default:
		return false
	}
}

// IsIdent reports whether the token is an identifier.
func (t Token) IsIdent() bool { return t.Kind == Ident }
