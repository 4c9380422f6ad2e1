package parser

import (
	"fmt"

	"aetherscript/internal/ast"
	"aetherscript/internal/diag"
	"aetherscript/internal/source"
	"aetherscript/internal/token"
	"aetherscript/internal/trace"
)

// declKeywords are the synchronization points at the start of a declaration
// (§4.1 Error recovery).
var declKeywords = []token.Kind{
	token.KwFunc, token.KwStruct, token.KwEnum, token.KwLet, token.KwVar,
	token.KwConst, token.KwImport, token.KwModule, token.KwIf, token.KwWhile,
	token.KwReturn,
}

// Parser turns one file's token sequence into an *ast.Module. It collects
// diagnostics rather than aborting on the first error (§4.1 Failure
// semantics): a partial AST is returned whenever one can be produced.
type Parser struct {
	s        *stream
	file     source.FileID
	rep      diag.Reporter
	tracer   trace.Tracer
	lastSpan source.Span
	exprDepth int
}

// New creates a Parser over toks, a complete token sequence for file.
// rep receives every recoverable diagnostic as it is discovered.
func New(file source.FileID, toks []token.Token, rep diag.Reporter) *Parser {
	if rep == nil {
		rep = diag.NopReporter{}
	}
	return &Parser{s: newStream(toks), file: file, rep: rep, tracer: trace.Nop}
}

// SetTracer attaches t as the destination for this parser's phase-boundary
// span (emitted around ParseModule). A nil t disables tracing.
func (p *Parser) SetTracer(t trace.Tracer) {
	if t == nil {
		t = trace.Nop
	}
	p.tracer = t
}

// ParseModule parses one module: either `module N;` (file-scoped, items run
// to EOF) or `module N { ... }` (inline) (§4.1).
func (p *Parser) ParseModule() *ast.Module {
	span := trace.Begin(p.tracer, trace.ScopePass, "parse", 0)
	defer func() { span.End(fmt.Sprintf("file=%d", p.file)) }()

	start := p.s.peek().Span
	mod := &ast.Module{}

	if p.s.at(token.KwModule) {
		p.s.next()
		mod.Name = p.expectIdentText("module name")
		if p.s.at(token.LBrace) {
			p.s.next()
			p.parseItemsUntil(mod, token.RBrace)
			p.expect(token.RBrace)
		} else {
			p.expect(token.Semicolon)
			p.parseItemsUntil(mod, token.EOF)
		}
	} else {
		p.parseItemsUntil(mod, token.EOF)
	}

	mod.Span = start.Cover(p.lastSpan)
	return mod
}

func (p *Parser) parseItemsUntil(mod *ast.Module, end token.Kind) {
	for !p.s.at(end) && !p.s.at(token.EOF) {
		before := p.s.pos
		p.parseItem(mod)
		if p.s.pos == before {
			// No progress: force advance so malformed input can't hang the parser.
			p.s.next()
			p.resyncTop()
		}
	}
}

// resyncTop skips tokens until a declaration keyword, `@`, `}`, or EOF, the
// coarse module-level synchronization point (§4.1 Error recovery).
func (p *Parser) resyncTop() {
	for !p.s.at(token.EOF) {
		if p.s.atAny(declKeywords...) || p.s.at(token.At) || p.s.at(token.RBrace) {
			return
		}
		p.s.next()
	}
}

// resyncStmt skips to the next statement boundary: after `;`, a declaration
// keyword, or `}` (§4.1 Error recovery).
func (p *Parser) resyncStmt() {
	for !p.s.at(token.EOF) {
		if p.s.at(token.Semicolon) {
			p.s.next()
			return
		}
		if p.s.atAny(declKeywords...) || p.s.at(token.RBrace) || p.s.at(token.At) {
			return
		}
		p.s.next()
	}
}

// progressOrAdvance reports whether the cursor moved since before; if not,
// it force-advances one token so a malformed inner list (struct fields,
// enum variants, call arguments, ...) can never stall the parser.
func (p *Parser) progressOrAdvance(before int) bool {
	if p.s.pos != before {
		return true
	}
	if !p.s.at(token.EOF) {
		p.s.next()
	}
	return false
}

func (p *Parser) errorf(sp source.Span, code diag.Code, format string, args ...any) {
	diag.Errorf(p.rep, code, sp, format, args...)
}

func (p *Parser) errorSuggest(sp source.Span, code diag.Code, msg, suggestion string) {
	p.rep.Report(diag.Diagnostic{
		Severity:   diag.SevError,
		Code:       code,
		Message:    msg,
		Primary:    sp,
		Suggestion: suggestion,
	})
}

// expect consumes the next token if it has kind k, reporting a syntax error
// and leaving the cursor in place otherwise.
func (p *Parser) expect(k token.Kind) token.Token {
	if p.s.at(k) {
		t := p.s.next()
		p.lastSpan = t.Span
		return t
	}
	got := p.s.peek()
	p.errorSuggest(got.Span, diag.SynUnexpectedToken,
		fmt.Sprintf("expected %s, found %q", kindName(k), got.Text),
		suggestionFor(k))
	return got
}

func (p *Parser) expectIdentText(what string) string {
	if p.s.at(token.Ident) {
		t := p.s.next()
		p.lastSpan = t.Span
		return t.Text
	}
	got := p.s.peek()
	p.errorf(got.Span, diag.SynUnexpectedToken, "expected %s, found %q", what, got.Text)
	return ""
}

func suggestionFor(k token.Kind) string {
	switch k {
	case token.Semicolon:
		return "insert ';'"
	case token.RBrace:
		return "unexpected '}', check for a missing opening brace"
	case token.Colon:
		return "missing type annotation"
	default:
		return ""
	}
}

func kindName(k token.Kind) string {
	switch k {
	case token.Semicolon:
		return "';'"
	case token.RBrace:
		return "'}'"
	case token.RParen:
		return "')'"
	case token.RBracket:
		return "']'"
	case token.LBrace:
		return "'{'"
	case token.Colon:
		return "':'"
	case token.Ident:
		return "an identifier"
	default:
		return "a different token"
	}
}
