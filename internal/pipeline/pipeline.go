// Package pipeline wires the scope creator and the inference engine into
// the single entry point a caller drives: parsing is someone else's job,
// so this package starts from the resulting programs and hands back a
// fully typed scope tree plus every function's inferred return type and
// diagnostics.
//
// Stages run in order over one shared context and continue past a
// stage's own errors so later stages still contribute diagnostics (a
// parse error shouldn't suppress the semantic errors a host wants to
// show together).
package pipeline

import (
	"github.com/nuxleus/closure-compiler/internal/ast"
	"github.com/nuxleus/closure-compiler/internal/diagnostics"
	"github.com/nuxleus/closure-compiler/internal/inference"
	"github.com/nuxleus/closure-compiler/internal/scope"
	"github.com/nuxleus/closure-compiler/internal/typedscope"
	"github.com/nuxleus/closure-compiler/internal/types"
)

// Context is the shared state every stage reads from and writes to.
type Context struct {
	Programs []*ast.Program

	Root       *scope.Scope
	Registry   *types.Registry
	Diags      *diagnostics.Sink
	bodyScopes map[*ast.BlockStatement]*scope.Scope

	// Returns holds each analyzed function's inferred return type, keyed
	// by the FunctionStatement/FunctionLiteral node so a caller can look
	// up any function it walked off the original programs.
	Returns map[ast.Node]types.Type
}

// Stage is one pipeline step: transforms a Context into the next
// Context, reporting failures onto the shared diagnostics sink rather
// than stopping the run.
type Stage interface {
	Run(ctx *Context) *Context
}

// Pipeline runs a fixed sequence of stages over one Context.
type Pipeline struct {
	stages []Stage
}

// New builds a pipeline that runs stages in the given order. Callers that
// only need the scope tree (no dataflow pass) can build a Pipeline with
// just ScopeStage; Standard builds the scope-then-inference pipeline.
func New(stages ...Stage) *Pipeline {
	return &Pipeline{stages: stages}
}

// Standard returns the default two-stage pipeline: build the typed scope
// tree, then run the dataflow analysis over every declared function.
func Standard() *Pipeline {
	return New(&ScopeStage{}, &InferenceStage{})
}

func (p *Pipeline) Run(initial *Context) *Context {
	ctx := initial
	for _, stage := range p.stages {
		ctx = stage.Run(ctx)
	}
	return ctx
}

// ScopeStage builds the typed scope tree over ctx.Programs.
type ScopeStage struct{}

func (s *ScopeStage) Run(ctx *Context) *Context {
	creator := typedscope.NewCreator()
	result := creator.CreateScope(ctx.Programs)
	ctx.Root = result.Root
	ctx.Registry = result.Registry
	ctx.Diags = result.Diags
	ctx.bodyScopes = result.BodyScopes
	return ctx
}

// InferenceStage runs the dataflow pass over every function the scope
// creator declared, walking the same program list to find each
// function's body and looking up the scope the creator built for it.
// It must run after ScopeStage: ctx.Root/Registry need to be fully
// resolved (no pending named types) before body inference can trust a
// property or constructor lookup.
type InferenceStage struct{}

func (s *InferenceStage) Run(ctx *Context) *Context {
	if ctx.Registry == nil || ctx.Root == nil {
		return ctx
	}
	engine := inference.NewEngine(ctx.Registry, ctx.Diags)
	ctx.Returns = make(map[ast.Node]types.Type)

	walkFunctions(ctx.Programs, func(name string, params []*ast.Identifier, body *ast.BlockStatement, node ast.Node) {
		fnScope, ok := ctx.bodyScopes[body]
		if !ok {
			fnScope = ctx.Root
		}
		ctx.Returns[node] = engine.InferFunctionBody(fnScope, body)
	})
	return ctx
}

// walkFunctions visits every function declaration, function-valued var and
// function literal assigned to a name or property (such as a prototype
// method) across programs, at any nesting depth, invoking visit with its
// name (best-effort, "" if anonymous), parameters, and body. Function
// literals written as object-literal values are not visited.
func walkFunctions(programs []*ast.Program, visit func(name string, params []*ast.Identifier, body *ast.BlockStatement, node ast.Node)) {
	for _, prog := range programs {
		walkStatements(prog.Statements, visit)
	}
}

func walkStatements(stmts []ast.Statement, visit func(string, []*ast.Identifier, *ast.BlockStatement, ast.Node)) {
	for _, stmt := range stmts {
		switch n := stmt.(type) {
		case *ast.FunctionStatement:
			visit(n.Name.Value, n.Params, n.Body, n)
			walkStatements(n.Body.Statements, visit)
		case *ast.VarStatement:
			if lit, ok := n.Value.(*ast.FunctionLiteral); ok {
				visit(n.Name.Value, lit.Params, lit.Body, lit)
				walkStatements(lit.Body.Statements, visit)
			}
		case *ast.ExpressionStatement:
			if assign, ok := n.Expr.(*ast.AssignmentExpression); ok {
				if lit, ok := assign.Value.(*ast.FunctionLiteral); ok {
					name := assign.Target.GetQualifiedName()
					visit(name, lit.Params, lit.Body, lit)
					walkStatements(lit.Body.Statements, visit)
				}
			}
		case *ast.IfStatement:
			walkStatements(n.Consequence.Statements, visit)
			if n.Alternative != nil {
				walkStatements([]ast.Statement{n.Alternative}, visit)
			}
		case *ast.ForStatement:
			walkStatements(n.Body.Statements, visit)
		case *ast.WhileStatement:
			walkStatements(n.Body.Statements, visit)
		case *ast.BlockStatement:
			walkStatements(n.Statements, visit)
		}
	}
}
