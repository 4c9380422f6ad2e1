package diag

import (
	"fmt"

	"aetherscript/internal/source"
)

// Reporter is the minimal contract phases use to emit diagnostics without
// depending on how they're ultimately collected.
type Reporter interface {
	Report(d Diagnostic)
}

// BagReporter adapts a Bag to the Reporter interface.
type BagReporter struct{ Bag *Bag }

func (r BagReporter) Report(d Diagnostic) {
	if r.Bag == nil {
		return
	}
	r.Bag.Add(d)
}

// NopReporter discards every diagnostic. Useful for speculative analysis
// passes that only need a yes/no answer.
type NopReporter struct{}

func (NopReporter) Report(Diagnostic) {}

// Errorf is a convenience for emitting a SevError diagnostic with a formatted
// message and no notes or suggestion.
func Errorf(r Reporter, code Code, primary source.Span, format string, args ...any) {
	r.Report(Diagnostic{
		Severity: SevError,
		Code:     code,
		Message:  fmt.Sprintf(format, args...),
		Primary:  primary,
	})
}
