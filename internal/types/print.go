package types

import (
	"fmt"
	"strconv"
	"strings"
)

// Display renders id as a human-readable type name for diagnostics
// (TypeMismatch{expected, found} and friends, §7).
func (in *Interner) Display(id TypeID) string {
	if id == NoTypeID {
		return "<unknown>"
	}
	t := in.Get(id)
	switch t.Kind {
	case KindError:
		return "<error>"
	case KindPrimitive:
		return strings.ToLower(t.Primitive.String())
	case KindNamed:
		if t.Named.Module != "" {
			return t.Named.Module + "." + t.Named.Name
		}
		return t.Named.Name
	case KindArray:
		if t.HasSize {
			return fmt.Sprintf("Array<%s, %s>", in.Display(t.Elem), strconv.FormatUint(t.Size, 10))
		}
		return fmt.Sprintf("Array<%s>", in.Display(t.Elem))
	case KindMap:
		return fmt.Sprintf("Map<%s, %s>", in.Display(t.Key), in.Display(t.Value))
	case KindPointer:
		if t.Mutable {
			return fmt.Sprintf("Pointer<mut %s>", in.Display(t.Elem))
		}
		return fmt.Sprintf("Pointer<%s>", in.Display(t.Elem))
	case KindFunction:
		parts := make([]string, len(t.Func.Params))
		for i, p := range t.Func.Params {
			parts[i] = in.Display(p)
		}
		variadic := ""
		if t.Func.Variadic {
			variadic = ", ..."
		}
		return fmt.Sprintf("(%s%s) -> %s", strings.Join(parts, ", "), variadic, in.Display(t.Func.Return))
	case KindOwned:
		switch t.Ownership {
		case Borrowed:
			return "&" + in.Display(t.Elem)
		case MutableBorrow:
			return "&mut " + in.Display(t.Elem)
		case Shared:
			return "shared " + in.Display(t.Elem)
		default:
			return "^" + in.Display(t.Elem)
		}
	case KindGeneric:
		return t.GenericName
	case KindGenericInstance:
		parts := make([]string, len(t.Instance.Args))
		for i, a := range t.Instance.Args {
			parts[i] = in.Display(a)
		}
		return fmt.Sprintf("%s<%s>", in.Display(t.Instance.Base), strings.Join(parts, ", "))
	case KindVariable:
		return fmt.Sprintf("?%d", t.VarID)
	case KindModule:
		return "module " + t.ModuleName
	default:
		return "<invalid>"
	}
}
