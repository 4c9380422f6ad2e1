package types

// Subst is a first-class type-substitution value: a map from type-variable
// name (as it appears in a Generic{name,...} type) to a concrete Type,
// applied structurally by a single recursive function (§9 Design Notes).
// Used both for Self-substitution in impl-method registration (§4.3 step 6)
// and for explicit-type-argument substitution at generic call sites
// (§4.3.4).
type Subst struct {
	in    *Interner
	bind  map[string]TypeID
	cache map[TypeID]TypeID
}

// NewSubst creates a substitution over bind, memoized per call chain.
func NewSubst(in *Interner, bind map[string]TypeID) *Subst {
	return &Subst{in: in, bind: bind, cache: make(map[TypeID]TypeID, len(bind))}
}

// WithSelf returns a Subst that additionally maps the literal name "Self"
// to receiver, without mutating the original binding map.
func (s *Subst) WithSelf(receiver TypeID) *Subst {
	bind := make(map[string]TypeID, len(s.bind)+1)
	for k, v := range s.bind {
		bind[k] = v
	}
	bind["Self"] = receiver
	return NewSubst(s.in, bind)
}

// Type applies the substitution to id, returning a (possibly freshly
// interned) TypeID. The structural cases named in §9 are: Generic,
// GenericInstance, Function, Pointer, Array, Map, Owned; everything else is
// identity.
func (s *Subst) Type(id TypeID) TypeID {
	if cached, ok := s.cache[id]; ok {
		return cached
	}
	result := s.typeNoCache(id)
	s.cache[id] = result
	return result
}

func (s *Subst) typeNoCache(id TypeID) TypeID {
	if id == NoTypeID {
		return id
	}
	t := s.in.Get(id)
	switch t.Kind {
	case KindGeneric:
		if target, ok := s.bind[t.GenericName]; ok {
			return target
		}
		return id
	case KindGenericInstance:
		args := make([]TypeID, len(t.Instance.Args))
		changed := false
		for i, a := range t.Instance.Args {
			na := s.Type(a)
			args[i] = na
			changed = changed || na != a
		}
		base := s.Type(t.Instance.Base)
		if !changed && base == t.Instance.Base {
			return id
		}
		return s.in.GenericInstance(base, args, t.Instance.Module)
	case KindFunction:
		params := make([]TypeID, len(t.Func.Params))
		changed := false
		for i, p := range t.Func.Params {
			np := s.Type(p)
			params[i] = np
			changed = changed || np != p
		}
		ret := s.Type(t.Func.Return)
		if !changed && ret == t.Func.Return {
			return id
		}
		return s.in.Function(params, ret, t.Func.Variadic)
	case KindPointer:
		elem := s.Type(t.Elem)
		if elem == t.Elem {
			return id
		}
		return s.in.Pointer(elem, t.Mutable)
	case KindArray:
		elem := s.Type(t.Elem)
		if elem == t.Elem {
			return id
		}
		return s.in.Array(elem, t.Size, t.HasSize)
	case KindMap:
		key := s.Type(t.Key)
		value := s.Type(t.Value)
		if key == t.Key && value == t.Value {
			return id
		}
		return s.in.Map(key, value)
	case KindOwned:
		elem := s.Type(t.Elem)
		if elem == t.Elem {
			return id
		}
		return s.in.Owned(elem, t.Ownership)
	default:
		return id
	}
}
