package types

// Checker holds the module's type-definition registry, a stack of generic
// scopes, and the current module name used to resolve qualified names
// (§4.3.1).
type Checker struct {
	Interner      *Interner
	Defs          *Registry
	CurrentModule string

	genericScopes []map[string]bool
}

// NewChecker creates a Checker bound to one module's analysis.
func NewChecker(in *Interner, defs *Registry, module string) *Checker {
	return &Checker{Interner: in, Defs: defs, CurrentModule: module}
}

// PushGenericScope opens a new generic scope holding the given
// type-parameter names (used while resolving a type/function/impl's own
// generic parameters, §4.3 steps 4 and 6).
func (c *Checker) PushGenericScope(names []string) {
	scope := make(map[string]bool, len(names))
	for _, n := range names {
		scope[n] = true
	}
	c.genericScopes = append(c.genericScopes, scope)
}

// PopGenericScope closes the innermost generic scope.
func (c *Checker) PopGenericScope() {
	if len(c.genericScopes) > 0 {
		c.genericScopes = c.genericScopes[:len(c.genericScopes)-1]
	}
}

// IsGenericParam reports whether name is bound as a type parameter in any
// currently-open generic scope.
func (c *Checker) IsGenericParam(name string) bool {
	for i := len(c.genericScopes) - 1; i >= 0; i-- {
		if c.genericScopes[i][name] {
			return true
		}
	}
	return false
}

// CastKind distinguishes the numeric-widening cast inserted by Compatible
// from an identity match, so callers (the analyzer, scheduling MIR
// Cast{kind} insertion) can tell them apart.
type CastKind uint8

const (
	CastNone CastKind = iota
	CastNumericWiden
	CastFutureAwait
	CastAutoDeref
)

// Compatible reports whether a value of type `found` may be used where
// `expected` is required, and what implicit conversion (if any) the caller
// must materialize (§4.3.1):
//   - exact equality up to Variable(_) holes, which unify with anything on
//     first observation;
//   - Int/Int32 widen to Int64 via an explicit numeric cast;
//   - Future<T> is accepted at any site expecting non-Future T;
//   - a reference (Owned{Borrowed|MutableBorrow}) is interchangeable with
//     its base type for field/method lookup (auto-deref);
//   - Named{name,module} equals Named{name,_}: the names must match, and the
//     modules must match unless either is empty; the import set is not
//     consulted.
func (c *Checker) Compatible(expected, found TypeID) (bool, CastKind) {
	if expected == found {
		return true, CastNone
	}
	if expected == NoTypeID || found == NoTypeID {
		return true, CastNone
	}
	et := c.Interner.Get(expected)
	ft := c.Interner.Get(found)

	if et.Kind == KindError || ft.Kind == KindError {
		return true, CastNone
	}
	if et.Kind == KindVariable || ft.Kind == KindVariable {
		return true, CastNone
	}

	// The interner does not deduplicate composite types, so exact equality
	// of two composite types is decided component by component.
	if et.Kind == ft.Kind && et.Kind != KindPrimitive && et.Kind != KindNamed {
		ec := append(append([]TypeID{et.Elem, et.Key, et.Value, et.Func.Return, et.Instance.Base}, et.Func.Params...), et.Instance.Args...)
		fc := append(append([]TypeID{ft.Elem, ft.Key, ft.Value, ft.Func.Return, ft.Instance.Base}, ft.Func.Params...), ft.Instance.Args...)
		same := len(ec) == len(fc) && et.HasSize == ft.HasSize && et.Size == ft.Size && et.Mutable == ft.Mutable &&
			et.Ownership == ft.Ownership && et.Func.Variadic == ft.Func.Variadic && et.GenericName == ft.GenericName && et.ModuleName == ft.ModuleName
		for i := 0; same && i < len(ec); i++ {
			ok, cast := c.Compatible(ec[i], fc[i])
			same = ok && cast == CastNone
		}
		if same {
			return true, CastNone
		}
	}

	if ft.Kind == KindGenericInstance && c.isFuture(ft) && et.Kind != KindGenericInstance {
		inner := ft.Instance.Args
		if len(inner) == 1 {
			if ok, _ := c.Compatible(expected, inner[0]); ok {
				return true, CastFutureAwait
			}
		}
	}

	if et.Kind == KindPrimitive && ft.Kind == KindPrimitive {
		if c.numericWidens(ft.Primitive, et.Primitive) {
			return true, CastNumericWiden
		}
	}

	if ft.Kind == KindOwned && (ft.Ownership == Borrowed || ft.Ownership == MutableBorrow) {
		if ok, cast := c.Compatible(expected, ft.Elem); ok {
			if cast == CastNone {
				return true, CastAutoDeref
			}
			return true, cast
		}
	}
	if et.Kind == KindOwned && (et.Ownership == Borrowed || et.Ownership == MutableBorrow) {
		if ok, cast := c.Compatible(et.Elem, found); ok {
			if cast == CastNone {
				return true, CastAutoDeref
			}
			return true, cast
		}
	}

	if et.Kind == KindNamed && ft.Kind == KindNamed {
		if et.Named.Name == ft.Named.Name && (et.Named.Module == "" || ft.Named.Module == "" || et.Named.Module == ft.Named.Module) {
			return true, CastNone
		}
	}

	return false, CastNone
}

// isFuture reports whether t names the built-in Future<T> generic
// instance. Future is not a Primitive/Named kind of its own (§3 doesn't
// list it as a standalone variant) — it is modeled as a GenericInstance
// whose base is the Named "Future" type, matching how a user-level generic
// type is represented.
func (c *Checker) isFuture(t Type) bool {
	base := c.Interner.Get(t.Instance.Base)
	return base.Kind == KindNamed && base.Named.Name == "Future"
}

func (c *Checker) numericWidens(from, to PrimitiveKind) bool {
	if to != PrimInt64 {
		return false
	}
	return from == PrimInt || from == PrimInt32
}
