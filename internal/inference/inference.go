// Package inference implements the monotone dataflow pass that assigns a
// type to every expression in a function body and folds each assignment
// into its variable's tracked type.
//
// It is a single recursive walk that both computes an expression's type
// and, for a branch, narrows the environment for its consequent/
// alternate before walking in, joining the two branches back together
// afterward and running loop bodies to a fixpoint.
package inference

import (
	"github.com/nuxleus/closure-compiler/internal/ast"
	"github.com/nuxleus/closure-compiler/internal/diagnostics"
	"github.com/nuxleus/closure-compiler/internal/narrow"
	"github.com/nuxleus/closure-compiler/internal/scope"
	"github.com/nuxleus/closure-compiler/internal/types"
)

// maxLoopIterations bounds the fixpoint loop over a while/for body: the
// lattice has finite height per variable (join only ever adds
// alternates or widens to All), so this is a backstop against a
// malformed lattice rather than an expected iteration count.
const maxLoopIterations = 10

// Engine runs the dataflow pass against one registry. Diags is the sink
// shared with the rest of the pipeline; the engine itself adds no
// diagnostics to it.
type Engine struct {
	Registry *types.Registry
	Refiner  *narrow.Refiner
	Diags    *diagnostics.Sink
}

func NewEngine(r *types.Registry, diags *diagnostics.Sink) *Engine {
	return &Engine{Registry: r, Refiner: narrow.NewRefiner(r), Diags: diags}
}

// InferFunctionBody walks body under scope s (the function's own scope,
// already populated with its parameters by the scope creator) and
// returns the function's inferred return type: Void if it has no
// return statement, the join of every returned expression's type
// otherwise.
func (e *Engine) InferFunctionBody(s *scope.Scope, body *ast.BlockStatement) types.Type {
	env := newEnv(s, e.Registry)
	var returns []types.Type
	e.inferStatements(s, env, body.Statements, &returns)
	if len(returns) == 0 {
		return e.Registry.Void()
	}
	result := returns[0]
	for _, t := range returns[1:] {
		result = e.Registry.Join(result, t)
	}
	return result
}

func (e *Engine) inferStatements(s *scope.Scope, env *Env, stmts []ast.Statement, returns *[]types.Type) {
	for _, stmt := range stmts {
		e.inferStatement(s, env, stmt, returns)
	}
}

func (e *Engine) inferStatement(s *scope.Scope, env *Env, stmt ast.Statement, returns *[]types.Type) {
	switch n := stmt.(type) {
	case *ast.VarStatement:
		if n.Value != nil {
			t := e.InferExpression(s, env, n.Value)
			e.assignName(s, env, n.Name.Value, t)
		}

	case *ast.ExpressionStatement:
		e.InferExpression(s, env, n.Expr)

	case *ast.ReturnStatement:
		if n.Value != nil {
			*returns = append(*returns, e.InferExpression(s, env, n.Value))
		} else {
			*returns = append(*returns, e.Registry.Void())
		}

	case *ast.IfStatement:
		e.inferCondition(s, env, n.Condition)
		thenEnv := env.Clone()
		for k, v := range e.Refiner.Refine(n.Condition, true, env) {
			thenEnv.Set(k, v)
		}
		var thenReturns, elseReturns []types.Type
		e.inferStatements(s, thenEnv, n.Consequence.Statements, &thenReturns)

		elseEnv := env.Clone()
		for k, v := range e.Refiner.Refine(n.Condition, false, env) {
			elseEnv.Set(k, v)
		}
		switch alt := n.Alternative.(type) {
		case *ast.BlockStatement:
			e.inferStatements(s, elseEnv, alt.Statements, &elseReturns)
		case *ast.IfStatement:
			e.inferStatement(s, elseEnv, alt, &elseReturns)
		}
		*returns = append(*returns, thenReturns...)
		*returns = append(*returns, elseReturns...)

		merged := joinEnv(e.Registry, thenEnv, elseEnv)
		env.vars = merged.vars

	case *ast.WhileStatement:
		e.inferLoop(s, env, n.Test, n.Body.Statements, returns)

	case *ast.ForStatement:
		if n.Init != nil {
			e.inferStatement(s, env, n.Init, returns)
		}
		e.inferLoop(s, env, n.Test, n.Body.Statements, returns)
		if n.Update != nil {
			e.InferExpression(s, env, n.Update)
		}

	case *ast.BlockStatement:
		e.inferStatements(s, env, n.Statements, returns)

	case *ast.FunctionStatement:
		// Nested named function declarations are typed by their own
		// InferFunctionBody call, driven by the caller walking every
		// function in the programs (see pipeline); walking in here
		// would re-infer the same body against the wrong enclosing env.
	}
}

// inferLoop runs the loop body to a fixpoint: each iteration starts
// from the running env (the pre-loop env on the first iteration)
// narrowed by the test's true-outcome, and the
// post-body env is joined back into the running env until it stops
// changing (or the iteration cap is hit, in which case the last env is
// kept — a sound but possibly imprecise over-approximation).
func (e *Engine) inferLoop(s *scope.Scope, env *Env, test ast.Expression, body []ast.Statement, returns *[]types.Type) {
	if test != nil {
		e.inferCondition(s, env, test)
	}
	cur := env
	for i := 0; i < maxLoopIterations; i++ {
		bodyEnv := cur.Clone()
		if test != nil {
			for k, v := range e.Refiner.Refine(test, true, cur) {
				bodyEnv.Set(k, v)
			}
		}
		var bodyReturns []types.Type
		e.inferStatements(s, bodyEnv, body, &bodyReturns)
		*returns = append(*returns, bodyReturns...)

		next := joinEnv(e.Registry, cur, bodyEnv)
		if envEqual(cur, next) {
			cur = next
			break
		}
		cur = next
	}
	exitEnv := cur.Clone()
	if test != nil {
		for k, v := range e.Refiner.Refine(test, false, cur) {
			exitEnv.Set(k, v)
		}
	}
	env.vars = exitEnv.vars
}

func envEqual(a, b *Env) bool {
	if len(a.vars) != len(b.vars) {
		return false
	}
	for k, v := range a.vars {
		bv, ok := b.vars[k]
		if !ok || v.String() != bv.String() {
			return false
		}
	}
	return true
}

// inferCondition types the condition expression for its side effects
// (node decoration, assignment widening) without needing the result.
func (e *Engine) inferCondition(s *scope.Scope, env *Env, cond ast.Expression) {
	e.InferExpression(s, env, cond)
}

// InferExpression computes expr's type under env, decorates expr with
// it (ast.Expression.SetType), and returns it. Assignment sub-expressions
// update env and, for inferred variables, widen the declaring scope's
// tracked type as a side effect.
func (e *Engine) InferExpression(s *scope.Scope, env *Env, expr ast.Expression) types.Type {
	t := e.inferExpression(s, env, expr)
	expr.SetType(t)
	return t
}

func (e *Engine) inferExpression(s *scope.Scope, env *Env, expr ast.Expression) types.Type {
	switch n := expr.(type) {
	case *ast.Identifier:
		if t, ok := env.TypeOf(n.Value); ok {
			return t
		}
		return e.Registry.Unknown()

	case *ast.ThisExpression:
		if s.ThisType != nil {
			return s.ThisType
		}
		return e.Registry.Unknown()

	case *ast.NumberLiteral:
		return e.Registry.Number()
	case *ast.StringLiteral:
		return e.Registry.Str()
	case *ast.BooleanLiteral:
		return e.Registry.Boolean()
	case *ast.NullLiteral:
		return e.Registry.Null()
	case *ast.VoidLiteral:
		return e.Registry.Void()

	case *ast.FunctionLiteral:
		// Typed by the scope creator when it declares the literal; an
		// inner reference to it as a value just resolves whatever the
		// declaring var/property already carries, which the Identifier
		// or MemberExpression case above handles. A bare anonymous
		// literal reached without a declaring context has no name to
		// look up and falls back to Unknown.
		return e.Registry.Unknown()

	case *ast.ObjectLiteral:
		for _, prop := range n.Properties {
			e.InferExpression(s, env, prop.Value)
		}
		return e.Registry.Unknown()

	case *ast.MemberExpression:
		objType := e.InferExpression(s, env, n.Object)
		return e.Registry.GetPropertyType(objType, n.Property)

	case *ast.CallExpression:
		calleeType := e.InferExpression(s, env, n.Callee)
		for _, arg := range n.Arguments {
			e.InferExpression(s, env, arg)
		}
		if fn, ok := types.Deref(calleeType).(*types.FunctionType); ok && fn.Return != nil {
			return fn.Return
		}
		return e.Registry.Unknown()

	case *ast.NewExpression:
		calleeType := e.InferExpression(s, env, n.Callee)
		for _, arg := range n.Arguments {
			e.InferExpression(s, env, arg)
		}
		if fn, ok := types.Deref(calleeType).(*types.FunctionType); ok && fn.Instance != nil {
			return fn.Instance
		}
		return e.Registry.Unknown()

	case *ast.AssignmentExpression:
		valType := e.InferExpression(s, env, n.Value)
		e.applyAssignment(s, env, n.Target, valType)
		return valType

	case *ast.BinaryExpression:
		return e.inferBinary(s, env, n)

	case *ast.LogicalExpression:
		left := e.InferExpression(s, env, n.Left)
		right := e.InferExpression(s, env, n.Right)
		return e.Registry.Join(left, right)

	case *ast.UnaryExpression:
		switch n.Operator {
		case "!":
			e.InferExpression(s, env, n.Operand)
			return e.Registry.Boolean()
		case "typeof":
			e.InferExpression(s, env, n.Operand)
			return e.Registry.Str()
		default:
			return e.InferExpression(s, env, n.Operand)
		}

	default:
		return e.Registry.Unknown()
	}
}

// inferBinary types arithmetic, comparison and equality operators.
// "+" is the one overloaded case in this language, same as JS: string
// if either side is a subtype of string, numeric otherwise.
func (e *Engine) inferBinary(s *scope.Scope, env *Env, n *ast.BinaryExpression) types.Type {
	left := e.InferExpression(s, env, n.Left)
	right := e.InferExpression(s, env, n.Right)
	switch n.Operator {
	case "+":
		if e.Registry.Subtype(left, e.Registry.Str()) || e.Registry.Subtype(right, e.Registry.Str()) {
			return e.Registry.Str()
		}
		return e.Registry.Number()
	case "-", "*", "/", "%":
		return e.Registry.Number()
	case "==", "!=", "===", "!==", "<", ">", "<=", ">=", "instanceof":
		return e.Registry.Boolean()
	default:
		return e.Registry.Unknown()
	}
}

// applyAssignment records an assignment's effect on env and, for
// inferred names, the declaring scope.
func (e *Engine) applyAssignment(s *scope.Scope, env *Env, target ast.Expression, valType types.Type) {
	switch t := target.(type) {
	case *ast.Identifier:
		e.assignName(s, env, t.Value, valType)

	case *ast.MemberExpression:
		objType := e.InferExpression(s, env, t.Object)
		obj := objectOf(objType)
		if obj == nil {
			return
		}
		e.Registry.AddInferredProperty(obj, t.Property, valType)
	}
}

// assignName records an assignment to a plain identifier. A declared
// variable's type is fixed at declaration: it is never widened, and its
// flow-sensitive env entry is never overwritten by an assigned value's
// type either, so a read right after `var x = 3;` on a
// `/** @type {?number} */`-declared x still sees the declared type, not
// the initializer's narrower one. An inferred variable updates both the
// local env and the declaring scope's running join.
func (e *Engine) assignName(s *scope.Scope, env *Env, name string, valType types.Type) {
	if v, _, ok := s.Lookup(name); ok && v.Declared {
		return
	}
	env.Set(name, valType)
	s.Widen(e.Registry, name, valType)
}

// objectOf unwraps the ObjectType a qualified property lives on,
// mirroring the registry's own unexported protoObject.
func objectOf(t types.Type) *types.ObjectType {
	switch v := types.Deref(t).(type) {
	case *types.ObjectType:
		return v
	case *types.FunctionType:
		return v.ObjectType
	case *types.EnumType:
		return v.ObjectType
	case *types.GlobalThisType:
		return v.ObjectType
	default:
		return nil
	}
}
