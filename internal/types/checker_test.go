package types_test

import (
	"testing"

	"aetherscript/internal/types"
)

func TestPrimitiveIdentity(t *testing.T) {
	in := types.NewInterner()
	c := types.NewChecker(in, types.NewRegistry(), "main")

	intT := in.Primitive(types.PrimInt64)
	ok, cast := c.Compatible(intT, intT)
	if !ok || cast != types.CastNone {
		t.Fatalf("Int64 vs Int64 should be an exact match, got ok=%v cast=%v", ok, cast)
	}
}

func TestNumericWidening(t *testing.T) {
	in := types.NewInterner()
	c := types.NewChecker(in, types.NewRegistry(), "main")

	int32T := in.Primitive(types.PrimInt32)
	int64T := in.Primitive(types.PrimInt64)

	ok, cast := c.Compatible(int64T, int32T)
	if !ok || cast != types.CastNumericWiden {
		t.Fatalf("Int32 should widen to Int64, got ok=%v cast=%v", ok, cast)
	}

	boolT := in.Primitive(types.PrimBool)
	if ok, _ := c.Compatible(int64T, boolT); ok {
		t.Fatalf("Bool must not be compatible with Int64")
	}
}

func TestFutureAutoAwait(t *testing.T) {
	in := types.NewInterner()
	c := types.NewChecker(in, types.NewRegistry(), "main")

	intT := in.Primitive(types.PrimInt64)
	future := in.Named("Future", "")
	futureInt := in.GenericInstance(future, []types.TypeID{intT}, "")

	ok, cast := c.Compatible(intT, futureInt)
	if !ok || cast != types.CastFutureAwait {
		t.Fatalf("Future<Int64> should be compatible with Int64 via auto-await, got ok=%v cast=%v", ok, cast)
	}
}

func TestOwnedNormalization(t *testing.T) {
	in := types.NewInterner()
	intT := in.Primitive(types.PrimInt64)

	once := in.Owned(intT, types.Borrowed)
	twice := in.Owned(once, types.MutableBorrow)

	got := in.Get(twice)
	if got.Elem != intT {
		t.Fatalf("Owned(Owned(T)) must normalize to a single wrapper over T, got base=%v want=%v", got.Elem, intT)
	}
	if got.Ownership != types.MutableBorrow {
		t.Fatalf("normalized ownership should be the outer kind, got %v", got.Ownership)
	}
}

func TestAutoDerefBorrow(t *testing.T) {
	in := types.NewInterner()
	c := types.NewChecker(in, types.NewRegistry(), "main")

	pointT := in.Named("Point", "")
	borrowed := in.Owned(pointT, types.Borrowed)

	ok, cast := c.Compatible(pointT, borrowed)
	if !ok || cast != types.CastAutoDeref {
		t.Fatalf("&Point should auto-deref to Point, got ok=%v cast=%v", ok, cast)
	}
}

func TestSubstSelfAndGeneric(t *testing.T) {
	in := types.NewInterner()

	selfParam := in.Generic("Self", nil)
	tParam := in.Generic("T", []string{"Comparable"})
	arrayOfT := in.Array(tParam, 0, false)
	sig := in.Function([]types.TypeID{selfParam, arrayOfT}, tParam, false)

	receiver := in.Named("Widget", "ui")
	intT := in.Primitive(types.PrimInt64)

	s := types.NewSubst(in, map[string]types.TypeID{"T": intT}).WithSelf(receiver)
	substituted := s.Type(sig)

	got := in.Get(substituted)
	if got.Func.Params[0] != receiver {
		t.Fatalf("Self should substitute to the receiver type")
	}
	gotArray := in.Get(got.Func.Params[1])
	if gotArray.Elem != intT {
		t.Fatalf("Array<T> should substitute its element type")
	}
	if got.Func.Return != intT {
		t.Fatalf("bare T return should substitute directly")
	}
}

func TestFieldIndexPreservesDeclarationOrder(t *testing.T) {
	intT := types.NewInterner().Primitive(types.PrimInt64)
	def := &types.TypeDefinition{
		Kind: types.DefStruct,
		Name: "Point",
		Fields: []types.StructField{
			{Name: "x", Type: intT},
			{Name: "y", Type: intT},
		},
	}
	idx, _, ok := def.FieldIndex("y")
	if !ok || idx != 1 {
		t.Fatalf("FieldIndex(y) = %d, %v, want 1, true", idx, ok)
	}
}

func TestEnumDiscriminantsArePositional(t *testing.T) {
	def := &types.TypeDefinition{
		Kind: types.DefEnum,
		Name: "Opt",
		Variants: []types.EnumVariant{
			{Name: "Some", Discriminant: 0},
			{Name: "None", Discriminant: 1},
		},
	}
	v, ok := def.VariantByName("None")
	if !ok || v.Discriminant != 1 {
		t.Fatalf("None should be discriminant 1 by declaration order, got %+v", v)
	}
}
