package typedscope

import (
	"testing"

	"github.com/nuxleus/closure-compiler/internal/ast"
	"github.com/nuxleus/closure-compiler/internal/token"
	"github.com/nuxleus/closure-compiler/internal/types"
)

func ident(name string) *ast.Identifier {
	return ast.NewIdentifier(token.Token{}, name)
}

func TestDeclareConstructorWithThisProperty(t *testing.T) {
	// /** @constructor */
	// function Foo() { this.x = 3; }
	thisAssign := &ast.ExpressionStatement{
		Expr: &ast.AssignmentExpression{
			Target: &ast.MemberExpression{Object: &ast.ThisExpression{}, Property: "x"},
			Value:  &ast.NumberLiteral{Value: 3},
		},
	}
	fn := &ast.FunctionStatement{
		Name: ident("Foo"),
		Body: &ast.BlockStatement{Statements: []ast.Statement{thisAssign}},
		Doc:  &ast.DocInfo{IsConstructor: true},
	}
	program := &ast.Program{File: "test.js", Statements: []ast.Statement{fn}}

	c := NewCreator()
	result := c.CreateScope([]*ast.Program{program})

	v, _, ok := result.Root.Lookup("Foo")
	if !ok {
		t.Fatalf("Foo should be declared in the global scope")
	}
	ctor, ok := v.Type.(*types.FunctionType)
	if !ok || !ctor.IsConstructor {
		t.Fatalf("Foo should be a constructor FunctionType, got %T", v.Type)
	}
	if ctor.Instance == nil {
		t.Fatalf("a constructor must have an Instance type")
	}

	xType := result.Registry.GetOwnPropertyType(ctor.Instance, "x")
	if xType != result.Registry.Number() {
		t.Errorf("this.x = 3 should declare x: number on the instance, got %s", xType)
	}
}

func TestDeclarePrototypeMethod(t *testing.T) {
	// /** @constructor */
	// function Foo() {}
	// Foo.prototype.bar = function() { return 1; };
	ctorStmt := &ast.FunctionStatement{
		Name: ident("Foo"),
		Body: &ast.BlockStatement{},
		Doc:  &ast.DocInfo{IsConstructor: true},
	}

	methodLit := &ast.FunctionLiteral{
		Body: &ast.BlockStatement{Statements: []ast.Statement{
			&ast.ReturnStatement{Value: &ast.NumberLiteral{Value: 1}},
		}},
	}
	protoAssign := &ast.ExpressionStatement{
		Expr: &ast.AssignmentExpression{
			Target: &ast.MemberExpression{
				Object:   &ast.MemberExpression{Object: ident("Foo"), Property: "prototype"},
				Property: "bar",
			},
			Value: methodLit,
		},
	}
	program := &ast.Program{File: "test.js", Statements: []ast.Statement{ctorStmt, protoAssign}}

	c := NewCreator()
	result := c.CreateScope([]*ast.Program{program})

	v, _, _ := result.Root.Lookup("Foo")
	ctor := v.Type.(*types.FunctionType)
	if ctor.Prototype == nil {
		t.Fatalf("constructor should have a Prototype object")
	}
	barType := result.Registry.GetOwnPropertyType(ctor.Prototype, "bar")
	barFn, ok := types.Deref(barType).(*types.FunctionType)
	if !ok {
		t.Fatalf("Foo.prototype.bar should be declared as a function, got %s", barType)
	}
	if barFn.This != ctor.Instance {
		t.Errorf("a prototype method's this should be the constructor's instance type")
	}
}

func TestDeclareBareStubIndexesWithoutDeclaring(t *testing.T) {
	ctorStmt := &ast.FunctionStatement{Name: ident("Foo"), Body: &ast.BlockStatement{}, Doc: &ast.DocInfo{IsConstructor: true}}

	stub := &ast.ExpressionStatement{
		Expr: &ast.MemberExpression{Object: ident("Foo"), Property: "bar"},
	}
	program := &ast.Program{File: "test.js", Statements: []ast.Statement{ctorStmt, stub}}

	c := NewCreator()
	result := c.CreateScope([]*ast.Program{program})

	v, _, _ := result.Root.Lookup("Foo")
	ctor := v.Type.(*types.FunctionType)
	if ctor.HasOwnProperty("bar") {
		t.Errorf("an unannotated stub reference must not register an own property")
	}
	owners := result.Registry.TypesWithProperty("bar")
	found := false
	for _, o := range owners {
		if o == ctor.ObjectType {
			found = true
		}
	}
	if !found {
		t.Errorf("an unannotated stub reference should still appear in the reverse property index")
	}
}

func TestVarAliasRegistersNominal(t *testing.T) {
	ctorStmt := &ast.FunctionStatement{Name: ident("Foo"), Body: &ast.BlockStatement{}, Doc: &ast.DocInfo{IsConstructor: true}}
	alias := &ast.VarStatement{Name: ident("Bar"), Value: ident("Foo")}
	program := &ast.Program{File: "test.js", Statements: []ast.Statement{ctorStmt, alias}}

	c := NewCreator()
	result := c.CreateScope([]*ast.Program{program})

	foo, _, _ := result.Root.Lookup("Foo")
	bar, _, _ := result.Root.Lookup("Bar")
	if bar.Type != foo.Type {
		t.Errorf("var Bar = Foo should alias Bar to Foo's type, got %s vs %s", bar.Type, foo.Type)
	}
}
