// Package diagfmt renders a diag.Bag as human-facing text: one line per
// diagnostic (path:line:col: SEVERITY code: message), a source-line excerpt
// with a caret/tilde underline under the primary span, and any attached
// notes. It is a thin formatter, not a diagnostics engine: every diagnostic
// it prints was already produced by a phase upstream.
package diagfmt
