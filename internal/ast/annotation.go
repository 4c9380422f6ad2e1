package ast

import "aetherscript/internal/source"

// AnnotationArgKind tags the value kind of one annotation argument (§4.1:
// "strings, integers, floats, booleans, identifiers, or braced expressions").
type AnnotationArgKind uint8

const (
	AnnotationArgString AnnotationArgKind = iota
	AnnotationArgInt
	AnnotationArgFloat
	AnnotationArgBool
	AnnotationArgIdent
	AnnotationArgExpr // a braced expression, e.g. the `{n > 0}` of @pre({n > 0})
)

// AnnotationArg is one argument of an `@name(args…)` annotation. Label is
// empty for a positional argument.
type AnnotationArg struct {
	Label string
	Kind  AnnotationArgKind
	Text  string // raw text for String/Int/Float/Ident
	Bool  bool
	Expr  *Expr // set when Kind == AnnotationArgExpr
	Span  source.Span
}

// Annotation is a syntactic `@name(args…)` decoration attached to a module
// item (§4.1).
type Annotation struct {
	Name string
	Args []AnnotationArg
	Span source.Span
}

// Find returns the first argument with the given label, if any.
func (a *Annotation) Find(label string) (AnnotationArg, bool) {
	for _, arg := range a.Args {
		if arg.Label == label {
			return arg, true
		}
	}
	return AnnotationArg{}, false
}

// Positional returns the arguments with no label, in source order.
func (a *Annotation) Positional() []AnnotationArg {
	var out []AnnotationArg
	for _, arg := range a.Args {
		if arg.Label == "" {
			out = append(out, arg)
		}
	}
	return out
}
