package diag

import "aetherscript/internal/source"

// Note provides auxiliary context for a diagnostic message.
type Note struct {
	Span source.Span
	Msg  string
}

// Diagnostic captures a single issue, its location, and an optional one-line
// fix suggestion. There is no quick-fix/edit machinery here: this core has no
// LSP surface, only a diagnostics stream (§6).
type Diagnostic struct {
	Severity   Severity
	Code       Code
	Message    string
	Primary    source.Span
	Notes      []Note
	Suggestion string
}

// WithNote returns a copy of d with an additional note attached.
func (d Diagnostic) WithNote(sp source.Span, msg string) Diagnostic {
	d.Notes = append(d.Notes, Note{Span: sp, Msg: msg})
	return d
}

// WithSuggestion returns a copy of d carrying a one-line fix suggestion.
func (d Diagnostic) WithSuggestion(msg string) Diagnostic {
	d.Suggestion = msg
	return d
}
