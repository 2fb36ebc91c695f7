// Package typedscope implements the typed scope creator: a two-phase AST
// walk that declares every name a program introduces, resolving
// doc-comment annotations into registry types as it goes. The first
// phase collects declarations without descending into nested function
// bodies; the second recurses into nested scopes once every top-level
// name is in place.
package typedscope

import (
	"github.com/nuxleus/closure-compiler/internal/ast"
	"github.com/nuxleus/closure-compiler/internal/config"
	"github.com/nuxleus/closure-compiler/internal/diagnostics"
	"github.com/nuxleus/closure-compiler/internal/docinfo"
	"github.com/nuxleus/closure-compiler/internal/scope"
	"github.com/nuxleus/closure-compiler/internal/types"
)

// Result bundles everything the scope creator produces for the inference
// engine and its callers to consume.
type Result struct {
	Root     *scope.Scope
	Registry *types.Registry
	Diags    *diagnostics.Sink

	// BodyScopes maps each function/constructor/method body to the
	// function-kind scope the creator built for it, so a later pass (the
	// inference engine) can resolve parameters and `this` without
	// re-deriving the scope tree itself.
	BodyScopes map[*ast.BlockStatement]*scope.Scope
}

// Creator runs the two-phase walk over a set of files sharing one
// registry and global scope: a single compilation unit.
type Creator struct {
	Registry   *types.Registry
	Diags      *diagnostics.Sink
	bodyScopes map[*ast.BlockStatement]*scope.Scope
}

// NewCreator builds a Creator around a fresh registry and diagnostic sink.
func NewCreator() *Creator {
	return &Creator{
		Registry:   types.NewRegistry(),
		Diags:      &diagnostics.Sink{},
		bodyScopes: make(map[*ast.BlockStatement]*scope.Scope),
	}
}

// CreateScope runs both phases over every program, in order, and returns
// the populated global scope. Forward references across files resolve
// because ResolvePending runs after each phase completes for every file,
// not after each individual file.
func (c *Creator) CreateScope(programs []*ast.Program) *Result {
	root := scope.NewRoot()
	gt := &types.GlobalThisType{ObjectType: c.Registry.CreateObject("", nil)}
	root.ThisType = gt

	for _, p := range programs {
		c.Diags.CurrentFile = p.File
		c.declarePass(root, p.Statements)
	}
	c.Registry.ResolvePending()

	for _, p := range programs {
		c.Diags.CurrentFile = p.File
		c.recursePass(root, p.Statements)
	}
	c.Registry.ResolvePending()

	if ctor, ok := c.Registry.ResolveNamed(config.WindowConstructorName); ok {
		if fn, ok := types.Deref(ctor).(*types.FunctionType); ok && fn.Instance != nil {
			gt.WindowInstance = fn.Instance
		}
	}

	return &Result{Root: root, Registry: c.Registry, Diags: c.Diags, BodyScopes: c.bodyScopes}
}

func (c *Creator) realizer() *docinfo.Realizer {
	return docinfo.NewRealizer(c.Registry)
}
