package typedscope

import (
	"github.com/nuxleus/closure-compiler/internal/ast"
	"github.com/nuxleus/closure-compiler/internal/scope"
	"github.com/nuxleus/closure-compiler/internal/types"
)

// recurseIntoFunction creates the function scope for a FunctionStatement
// already declared by declarePass, binds `this` (the constructor's
// Instance type for @constructor/@interface, otherwise left unset), and
// walks the body.
func (c *Creator) recurseIntoFunction(s *scope.Scope, name string, params []*ast.Identifier, body *ast.BlockStatement) {
	v, _, ok := s.Lookup(name)
	var fn *types.FunctionType
	if ok {
		fn, _ = types.Deref(v.Type).(*types.FunctionType)
	}
	c.enterFunctionBody(s, fn, params, body)
}

func (c *Creator) recurseIntoAnonymousFunction(s *scope.Scope, name string, lit *ast.FunctionLiteral) {
	v, _, ok := s.Lookup(name)
	var fn *types.FunctionType
	if ok {
		fn, _ = types.Deref(v.Type).(*types.FunctionType)
	}
	c.enterFunctionBody(s, fn, lit.Params, lit.Body)
}

// recurseMethodLiteral is enterFunctionBody for a function literal that
// isn't itself a top-level declaration: a prototype method, or the
// right-hand side of `NS.Sub = function(){}`.
func (c *Creator) recurseMethodLiteral(s *scope.Scope, fn *types.FunctionType, lit *ast.FunctionLiteral) {
	c.enterFunctionBody(s, fn, lit.Params, lit.Body)
}

func (c *Creator) enterFunctionBody(s *scope.Scope, fn *types.FunctionType, params []*ast.Identifier, body *ast.BlockStatement) {
	if body == nil {
		return
	}
	fnScope := scope.NewEnclosed(s, scope.KindFunction)
	if fn != nil {
		if fn.This != nil {
			fnScope.ThisType = fn.This
		} else if fn.Instance != nil {
			fnScope.ThisType = fn.Instance
		}
	}

	for i, p := range params {
		var t types.Type = c.Registry.Unknown()
		if fn != nil && i < len(fn.Params) {
			t = fn.Params[i]
		}
		fnScope.Declare(c.Registry, p.Value, t, true, p)
	}

	c.bodyScopes[body] = fnScope
	c.declarePass(fnScope, body.Statements)
	c.recursePass(fnScope, body.Statements)
}

// recurseExpressionStatement walks into the function literals an
// assignment-shaped statement introduces: prototype object literals,
// `F.prototype.m = function(){}`, and `NS.Sub = function(){}`. It also
// records `this.x = ...` assignments against whatever instance type the
// enclosing function scope bound `this` to.
func (c *Creator) recurseExpressionStatement(s *scope.Scope, n *ast.ExpressionStatement) {
	assign, ok := n.Expr.(*ast.AssignmentExpression)
	if !ok {
		return
	}
	target, ok := assign.Target.(*ast.MemberExpression)
	if !ok {
		return
	}

	if _, ok := target.Object.(*ast.ThisExpression); ok {
		if instance := protoObjectOf(s.ThisType); instance != nil {
			c.declareThisProperty(instance, target.Property, assign.Value, n.Doc)
		}
		return
	}

	if lit, ok := assign.Value.(*ast.FunctionLiteral); ok {
		if target.Property == "prototype" {
			return // F.prototype = {...} methods are handled below via the object literal branch
		}
		if obj, ok := target.Object.(*ast.MemberExpression); ok && obj.Property == "prototype" {
			if fn := c.resolveFunctionByPath(s, obj.Object); fn != nil {
				c.recurseMethodLiteral(s, fn, lit)
			}
			return
		}
		if path, ok := qualifiedName(target); ok {
			if fn, ok := types.Deref(c.Registry.GetOrCreateNamed(path)).(*types.FunctionType); ok {
				c.recurseMethodLiteral(s, fn, lit)
				return
			}
			if base, prop, ok := splitLastSegment(path); ok {
				if obj := c.resolveObjectByPath(s, base); obj != nil {
					if fn, ok := types.Deref(c.Registry.GetOwnPropertyType(obj, prop)).(*types.FunctionType); ok {
						c.recurseMethodLiteral(s, fn, lit)
					}
				}
			}
			return
		}
	}

	if target.Property == "prototype" {
		if lit, ok := assign.Value.(*ast.ObjectLiteral); ok {
			if fn := c.resolveFunctionByPath(s, target.Object); fn != nil {
				for _, prop := range lit.Properties {
					if methodLit, ok := prop.Value.(*ast.FunctionLiteral); ok {
						c.recurseMethodLiteral(s, fn, methodLit)
					}
				}
			}
		}
	}
}
