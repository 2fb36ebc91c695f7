package pipeline

import (
	"testing"

	"github.com/nuxleus/closure-compiler/internal/ast"
	"github.com/nuxleus/closure-compiler/internal/token"
)

func ident(name string) *ast.Identifier { return ast.NewIdentifier(token.Token{}, name) }

// TestStandardPipelineInfersParameterFlowThroughDeclaredScope builds a
// single top-level function `function identity(x) { return x; }` with no
// doc comment (so x's type is Unknown) and checks the inference
// stage resolves its return type by looking x up in the scope the scope
// creator built for the function body, not the global scope.
func TestStandardPipelineInfersParameterFlowThroughDeclaredScope(t *testing.T) {
	fnName := ident("identity")
	param := ident("x")
	body := &ast.BlockStatement{Statements: []ast.Statement{
		&ast.ReturnStatement{Value: ident("x")},
	}}
	fnStmt := &ast.FunctionStatement{Name: fnName, Params: []*ast.Identifier{param}, Body: body}
	program := &ast.Program{File: "main.fx", Statements: []ast.Statement{fnStmt}}

	ctx := Standard().Run(&Context{Programs: []*ast.Program{program}})

	if ctx.Registry == nil || ctx.Root == nil {
		t.Fatal("scope stage did not populate Root/Registry")
	}
	if _, ok := ctx.bodyScopes[body]; !ok {
		t.Fatal("scope creator did not record a body scope for the function")
	}
	got, ok := ctx.Returns[fnStmt]
	if !ok {
		t.Fatal("inference stage did not record a return type for identity")
	}
	if got != ctx.Registry.Unknown() {
		t.Errorf("identity(x) with no annotation should return Unknown, got %s", got)
	}
}
