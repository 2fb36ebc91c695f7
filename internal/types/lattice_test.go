package types

import "testing"

func TestSubtypeLattice(t *testing.T) {
	r := NewRegistry()

	tests := []struct {
		name string
		a, b Type
		want bool
	}{
		{"number <: *", r.Number(), r.All(), true},
		{"No <: number", r.No(), r.Number(), true},
		{"? <: number", r.Unknown(), r.Number(), true},
		{"number <: ?", r.Number(), r.Unknown(), true},
		{"number <: number", r.Number(), r.Number(), true},
		{"number <: string", r.Number(), r.Str(), false},
		{"NoObject <: Object", r.NoObject(), r.CreateObject("", nil), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := r.Subtype(tt.a, tt.b); got != tt.want {
				t.Errorf("Subtype(%s, %s) = %v, want %v", tt.a, tt.b, got, tt.want)
			}
		})
	}
}

func TestSubtypeViaUnion(t *testing.T) {
	r := NewRegistry()
	u := r.CreateUnion(r.Number(), r.Str())

	if !r.Subtype(r.Number(), u) {
		t.Errorf("number should be subtype of (number|string)")
	}
	if r.Subtype(r.Boolean(), u) {
		t.Errorf("boolean should not be subtype of (number|string)")
	}
	if !r.Subtype(u, r.All()) {
		t.Errorf("(number|string) should be subtype of *")
	}
}

func TestJoinMeetAgreeWithSubtype(t *testing.T) {
	r := NewRegistry()
	pairs := [][2]Type{
		{r.Number(), r.Str()},
		{r.Number(), r.All()},
		{r.No(), r.Number()},
		{r.Unknown(), r.Number()},
	}
	for _, p := range pairs {
		a, b := p[0], p[1]
		if r.Subtype(a, b) {
			if got := r.Join(a, b); got != b && !(isKind(b, KindUnknown) && got == b) {
				t.Errorf("a <: b but Join(a,b) = %s, want %s", got, b)
			}
			// Meet with Unknown yields the other operand.
			want := a
			if isKind(a, KindUnknown) {
				want = b
			}
			if got := r.Meet(a, b); got != want {
				t.Errorf("a <: b but Meet(a,b) = %s, want %s", got, want)
			}
		}
	}
}

func TestJoinIdempotentAndCommutative(t *testing.T) {
	r := NewRegistry()
	vals := []Type{r.Number(), r.Str(), r.Boolean(), r.Null(), r.Void()}
	for _, v := range vals {
		if got := r.Join(v, v); got != v {
			t.Errorf("Join(%s, %s) = %s, want %s (idempotent)", v, v, got, v)
		}
	}
	a, b := r.Number(), r.Str()
	j1 := r.Join(a, b)
	j2 := r.Join(b, a)
	if j1.String() != j2.String() {
		t.Errorf("Join not commutative: %s vs %s", j1, j2)
	}
}

func TestUnionCanonicalizationIsPermutationInvariant(t *testing.T) {
	r := NewRegistry()
	u1 := r.CreateUnion(r.Number(), r.Str(), r.Boolean())
	u2 := r.CreateUnion(r.Boolean(), r.Number(), r.Str())
	if u1.String() != u2.String() {
		t.Errorf("union order should not affect canonical form: %s vs %s", u1, u2)
	}
}

func TestUnionDedupesAndAbsorbsAll(t *testing.T) {
	r := NewRegistry()
	if got := r.CreateUnion(r.Number(), r.Number()); got != r.Number() {
		t.Errorf("CreateUnion(number, number) = %s, want number", got)
	}
	if got := r.CreateUnion(r.Number(), r.All()); got != r.All() {
		t.Errorf("CreateUnion(number, *) = %s, want *", got)
	}
	if got := r.CreateUnion(r.Number(), r.Unknown()); got != r.Unknown() {
		t.Errorf("CreateUnion(number, ?) = %s, want ?", got)
	}
}

func TestUnionNullNumberStringForm(t *testing.T) {
	r := NewRegistry()
	got := r.CreateUnion(r.Number(), r.Null())
	if got.String() != "(null|number)" {
		t.Errorf("CreateUnion(number, null).String() = %s, want (null|number)", got.String())
	}
}

func TestNominalIdentityIsStable(t *testing.T) {
	r := NewRegistry()
	a1 := r.CreateObject("Foo", nil)
	a2 := r.CreateObject("Foo", nil)
	if a1 != a2 {
		t.Errorf("CreateObject called twice with same name should return the same identity")
	}
}

func TestConstructorInstancePrototypeCycle(t *testing.T) {
	r := NewRegistry()
	ctor := r.CreateFunction("Foo", nil, nil, nil, true, false)

	if ctor.Instance == nil || ctor.Prototype == nil {
		t.Fatalf("constructor must have Instance and Prototype set")
	}
	if ctor.Instance.Constructor != ctor {
		t.Errorf("instance.Constructor should point back to the constructor")
	}
	if ctor.Prototype.Constructor != ctor {
		t.Errorf("prototype.Constructor should point back to the constructor")
	}
	if Deref(ctor.Instance.ImplicitPrototype) != Type(ctor.Prototype) {
		t.Errorf("instance's implicit prototype should be the constructor's Prototype object")
	}
	if !r.Subtype(ctor.Instance, ctor.Instance) {
		t.Errorf("instance should be a subtype of itself")
	}
}

func TestPropertyMergeDeclaredWinsOverStub(t *testing.T) {
	r := NewRegistry()
	obj := r.CreateObject("Foo", nil)

	r.IndexPropertyStub(obj, "bar")
	if obj.HasOwnProperty("bar") {
		t.Errorf("a stub reference must not register a property on the object")
	}
	owners := r.TypesWithProperty("bar")
	if len(owners) != 1 || owners[0] != obj {
		t.Errorf("a stub reference must still appear in the reverse property index")
	}

	r.DeclareProperty(obj, "bar", r.Number(), true, false)
	prop, ok := obj.GetOwnProperty("bar")
	if !ok || prop.Type != Type(r.Number()) || !prop.Declared {
		t.Errorf("declared property should now be registered as number/declared")
	}

	// A later stub must not downgrade the declared property.
	r.IndexPropertyStub(obj, "bar")
	r.DeclareProperty(obj, "bar", r.Str(), false, false)
	prop, _ = obj.GetOwnProperty("bar")
	if prop.Type != Type(r.Number()) || !prop.Declared {
		t.Errorf("declared property must not be overwritten by a later inferred one")
	}
}
