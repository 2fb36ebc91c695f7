package narrow

import (
	"testing"

	"github.com/nuxleus/closure-compiler/internal/ast"
	"github.com/nuxleus/closure-compiler/internal/types"
)

type fakeEnv struct {
	vars  map[string]types.Type
	ctors map[string]*types.FunctionType
}

func (e *fakeEnv) TypeOf(name string) (types.Type, bool) {
	t, ok := e.vars[name]
	return t, ok
}

func (e *fakeEnv) ConstructorOf(name string) *types.FunctionType {
	return e.ctors[name]
}

func ident(name string) *ast.Identifier { return &ast.Identifier{Value: name} }

func TestRefineTruthyIdentifier(t *testing.T) {
	r := types.NewRegistry()
	f := NewRefiner(r)
	x := r.CreateUnion(r.Number(), r.Null())
	env := &fakeEnv{vars: map[string]types.Type{"x": x}}

	got := f.Refine(ident("x"), true, env)
	if got["x"] != r.Number() {
		t.Errorf("truthy x should strip null, got %s", got["x"])
	}

	got = f.Refine(ident("x"), false, env)
	if got["x"].String() != x.String() {
		// null is always falsy; number can be falsy (0), so neither
		// alternate is eliminated by a falsy outcome.
		t.Errorf("falsy x narrowing = %s, want %s", got["x"], x.String())
	}
}

func TestRefineNullEquality(t *testing.T) {
	r := types.NewRegistry()
	f := NewRefiner(r)
	x := r.CreateUnion(r.Number(), r.Null())
	env := &fakeEnv{vars: map[string]types.Type{"x": x}}

	eq := &ast.BinaryExpression{Operator: "==", Left: ident("x"), Right: &ast.NullLiteral{}}
	got := f.Refine(eq, true, env)
	if got["x"] != r.Null() && got["x"].String() != "(null|undefined)" {
		t.Errorf("x == null (true branch) should narrow to null/undefined, got %s", got["x"])
	}

	got = f.Refine(eq, false, env)
	if got["x"] != r.Number() {
		t.Errorf("x == null (false branch) should strip null, got %s", got["x"])
	}
}

func TestRefineStrictEqualityDistinguishesNullFromUndefined(t *testing.T) {
	r := types.NewRegistry()
	f := NewRefiner(r)
	x := r.CreateUnion(r.Number(), r.Null(), r.Void())
	env := &fakeEnv{vars: map[string]types.Type{"x": x}}

	eqNull := &ast.BinaryExpression{Operator: "===", Left: ident("x"), Right: &ast.NullLiteral{}}
	got := f.Refine(eqNull, true, env)
	if got["x"] != r.Null() {
		t.Errorf("x === null (true branch) should narrow to null, got %s", got["x"])
	}

	eqUndef := &ast.BinaryExpression{Operator: "===", Left: ident("x"), Right: &ast.VoidLiteral{}}
	got = f.Refine(eqUndef, true, env)
	if got["x"] != r.Void() {
		t.Errorf("x === undefined (true branch) should narrow to undefined, got %s", got["x"])
	}

	got = f.Refine(eqUndef, false, env)
	if got["x"].String() == r.Void().String() {
		t.Errorf("x === undefined (false branch) should strip undefined only, got %s", got["x"])
	}
}

func TestRefineTypeofStrictEquality(t *testing.T) {
	r := types.NewRegistry()
	f := NewRefiner(r)
	x := r.CreateUnion(r.Number(), r.Str())
	env := &fakeEnv{vars: map[string]types.Type{"x": x}}

	cmp := &ast.BinaryExpression{
		Operator: "===",
		Left:     &ast.UnaryExpression{Operator: "typeof", Operand: ident("x")},
		Right:    &ast.StringLiteral{Value: "number"},
	}
	got := f.Refine(cmp, true, env)
	if got["x"] != r.Number() {
		t.Errorf("typeof x === 'number' (true) should narrow to number, got %s", got["x"])
	}
	got = f.Refine(cmp, false, env)
	if got["x"] != r.Str() {
		t.Errorf("typeof x === 'number' (false) should narrow to string, got %s", got["x"])
	}
}

func TestRefineInstanceof(t *testing.T) {
	r := types.NewRegistry()
	f := NewRefiner(r)
	ctor := r.CreateFunction("Foo", nil, nil, nil, true, false)
	x := r.Unknown()
	env := &fakeEnv{
		vars:  map[string]types.Type{"x": x},
		ctors: map[string]*types.FunctionType{"Foo": ctor},
	}

	expr := &ast.BinaryExpression{Operator: "instanceof", Left: ident("x"), Right: ident("Foo")}
	got := f.Refine(expr, true, env)
	if got["x"] != types.Type(ctor.Instance) {
		t.Errorf("x instanceof Foo (true) should narrow to Foo instance, got %s", got["x"])
	}
}

func TestRefineLogicalAndMergesViaMeet(t *testing.T) {
	r := types.NewRegistry()
	f := NewRefiner(r)
	x := r.CreateUnion(r.Number(), r.Str(), r.Null())
	env := &fakeEnv{vars: map[string]types.Type{"x": x}}

	expr := &ast.LogicalExpression{
		Operator: "&&",
		Left:     ident("x"),
		Right: &ast.BinaryExpression{
			Operator: "===",
			Left:     &ast.UnaryExpression{Operator: "typeof", Operand: ident("x")},
			Right:    &ast.StringLiteral{Value: "number"},
		},
	}
	got := f.Refine(expr, true, env)
	if got["x"] != r.Number() {
		t.Errorf("x && typeof x === 'number' should meet down to number, got %s", got["x"])
	}
}
