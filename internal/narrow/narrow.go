// Package narrow implements the reverse abstract interpreter: given a
// boolean expression and which way a branch went, it derives the type
// refinements that must hold in that branch for every name the
// expression constrains.
//
// It recognizes a table of guard shapes off a condition expression (a
// bare identifier, a typeof/instanceof/equality test, and conjunctions/
// disjunctions of these) and returns the refinements as a plain map
// rather than mutating a scope directly, so the inference engine can
// apply them to whichever environment a branch or loop iteration
// carries.
package narrow

import (
	"github.com/nuxleus/closure-compiler/internal/ast"
	"github.com/nuxleus/closure-compiler/internal/types"
)

// Env is the inference engine's read access to the current flow-sensitive
// type of a name, used when a refinement needs to restrict a type already
// tracked for that name rather than invent one from scratch.
type Env interface {
	TypeOf(name string) (types.Type, bool)
	// ConstructorOf resolves a bare name used on the right of `instanceof`
	// to the constructor FunctionType it denotes, or nil if name isn't one.
	ConstructorOf(name string) *types.FunctionType
}

// Refiner derives narrowings against one registry.
type Refiner struct {
	Registry *types.Registry
}

func NewRefiner(r *types.Registry) *Refiner {
	return &Refiner{Registry: r}
}

// Refine returns the name -> narrowed-type refinements that hold given
// expr evaluated to outcome (true for the then-branch / while body,
// false for the else-branch / loop exit). An expression shape this
// package doesn't recognize contributes no refinements (narrowing is
// conservative: no entry is always a safe answer).
func (f *Refiner) Refine(expr ast.Expression, outcome bool, env Env) map[string]types.Type {
	switch e := expr.(type) {
	case *ast.Identifier:
		return f.refineTruthy(e.Value, outcome, env)

	case *ast.UnaryExpression:
		if e.Operator == "!" {
			return f.Refine(e.Operand, !outcome, env)
		}
		return nil

	case *ast.LogicalExpression:
		return f.refineLogical(e, outcome, env)

	case *ast.BinaryExpression:
		return f.refineBinary(e, outcome, env)

	default:
		return nil
	}
}

func (f *Refiner) refineTruthy(name string, outcome bool, env Env) map[string]types.Type {
	cur, ok := env.TypeOf(name)
	if !ok {
		return nil
	}
	return map[string]types.Type{name: f.Registry.RestrictByTruthy(cur, outcome)}
}

func (f *Refiner) refineLogical(e *ast.LogicalExpression, outcome bool, env Env) map[string]types.Type {
	switch e.Operator {
	case "&&":
		if !outcome {
			// `a && b` is false if a is false OR a is true and b is
			// false: no single narrowing is sound for either operand.
			return nil
		}
		left := f.Refine(e.Left, true, env)
		right := f.Refine(e.Right, true, env)
		return mergeMeet(f.Registry, left, right)
	case "||":
		if outcome {
			return nil
		}
		left := f.Refine(e.Left, false, env)
		right := f.Refine(e.Right, false, env)
		return mergeMeet(f.Registry, left, right)
	default:
		return nil
	}
}

func (f *Refiner) refineBinary(e *ast.BinaryExpression, outcome bool, env Env) map[string]types.Type {
	switch e.Operator {
	case "==", "!=":
		return f.refineLooseEquality(e, e.Operator == "!=" != outcome, env)
	case "===", "!==":
		return f.refineStrictEquality(e, e.Operator == "!==" != outcome, env)
	case "instanceof":
		return f.refineInstanceof(e, outcome, env)
	default:
		return nil
	}
}

// refineLooseEquality handles `typeof x == "tag"` the same way as its
// strict spelling, and `x == null` / `x != null` (also accepting
// `undefined` on either side, since loose equality treats null and
// undefined as interchangeable): isEqual true narrows x to its
// null/void alternates, false strips them.
func (f *Refiner) refineLooseEquality(e *ast.BinaryExpression, isEqual bool, env Env) map[string]types.Type {
	if name, tag, ok := splitTypeofCompare(e.Left, e.Right); ok {
		cur, ok := env.TypeOf(name)
		if !ok {
			return nil
		}
		if isEqual {
			return map[string]types.Type{name: f.Registry.RestrictByTypeof(cur, tag)}
		}
		return map[string]types.Type{name: f.Registry.RestrictByTypeofComplement(cur, tag)}
	}

	name, nullish := splitNullishCompare(e.Left, e.Right)
	if name == "" || !nullish {
		return nil
	}
	cur, ok := env.TypeOf(name)
	if !ok {
		return nil
	}
	if isEqual {
		return map[string]types.Type{name: f.Registry.RestrictToNullOrVoid(cur)}
	}
	return map[string]types.Type{name: f.Registry.RestrictNotNullOrVoid(cur)}
}

// refineStrictEquality recognizes `typeof x === "tag"` and `x === null` /
// `x === undefined`, keeping null and undefined apart.
func (f *Refiner) refineStrictEquality(e *ast.BinaryExpression, isEqual bool, env Env) map[string]types.Type {
	if name, tag, ok := splitTypeofCompare(e.Left, e.Right); ok {
		cur, ok := env.TypeOf(name)
		if !ok {
			return nil
		}
		if isEqual {
			return map[string]types.Type{name: f.Registry.RestrictByTypeof(cur, tag)}
		}
		return map[string]types.Type{name: f.Registry.RestrictByTypeofComplement(cur, tag)}
	}

	name, kind, nullish := splitNullishCompareKind(e.Left, e.Right)
	if name == "" || !nullish {
		return nil
	}
	cur, ok := env.TypeOf(name)
	if !ok {
		return nil
	}
	var nullishType types.Type
	if kind == nullishVoid {
		nullishType = f.Registry.Void()
	} else {
		nullishType = f.Registry.Null()
	}
	if isEqual {
		return map[string]types.Type{name: f.Registry.Meet(cur, nullishType)}
	}
	return map[string]types.Type{name: f.Registry.MinusType(cur, nullishType)}
}

func (f *Refiner) refineInstanceof(e *ast.BinaryExpression, outcome bool, env Env) map[string]types.Type {
	ident, ok := e.Left.(*ast.Identifier)
	if !ok {
		return nil
	}
	ctorName, ok := e.Right.(*ast.Identifier)
	if !ok {
		return nil
	}
	ctor := env.ConstructorOf(ctorName.Value)
	if ctor == nil || ctor.Instance == nil {
		return nil
	}
	cur, ok := env.TypeOf(ident.Value)
	if !ok {
		return nil
	}
	if outcome {
		return map[string]types.Type{ident.Value: f.Registry.Meet(cur, ctor.Instance)}
	}
	return map[string]types.Type{ident.Value: f.Registry.MinusType(cur, ctor.Instance)}
}

// splitNullishCompare recognizes `x == null` / `null == x` (and the
// undefined spelling), in either operand order.
func splitNullishCompare(left, right ast.Expression) (name string, nullish bool) {
	name, _, nullish = splitNullishCompareKind(left, right)
	return name, nullish
}

// nullishKind distinguishes which nullish literal a strict-equality compare
// matched: `null` and `undefined` are distinct values under === (unlike
// ==), so the caller needs to know which one to narrow by.
type nullishKind int

const (
	nullishNull nullishKind = iota
	nullishVoid
)

// splitNullishCompareKind is splitNullishCompare plus which literal
// (null or undefined) matched, for callers that must tell them apart.
func splitNullishCompareKind(left, right ast.Expression) (name string, kind nullishKind, nullish bool) {
	if id, ok := left.(*ast.Identifier); ok {
		if k, ok2 := nullishLiteralKind(right); ok2 {
			return id.Value, k, true
		}
	}
	if id, ok := right.(*ast.Identifier); ok {
		if k, ok2 := nullishLiteralKind(left); ok2 {
			return id.Value, k, true
		}
	}
	return "", 0, false
}

func nullishLiteralKind(e ast.Expression) (nullishKind, bool) {
	switch e.(type) {
	case *ast.NullLiteral:
		return nullishNull, true
	case *ast.VoidLiteral:
		return nullishVoid, true
	default:
		return 0, false
	}
}

// splitTypeofCompare recognizes `typeof x == "tag"` in either operand
// order.
func splitTypeofCompare(left, right ast.Expression) (name, tag string, ok bool) {
	if u, lit, ok2 := asTypeofAndLiteral(left, right); ok2 {
		return u, lit, true
	}
	if u, lit, ok2 := asTypeofAndLiteral(right, left); ok2 {
		return u, lit, true
	}
	return "", "", false
}

func asTypeofAndLiteral(a, b ast.Expression) (name, tag string, ok bool) {
	unary, isUnary := a.(*ast.UnaryExpression)
	if !isUnary || unary.Operator != "typeof" {
		return "", "", false
	}
	ident, isIdent := unary.Operand.(*ast.Identifier)
	if !isIdent {
		return "", "", false
	}
	str, isStr := b.(*ast.StringLiteral)
	if !isStr {
		return "", "", false
	}
	return ident.Value, str.Value, true
}

// mergeMeet combines two refinement maps produced by a conjunction:
// names refined by both sides intersect (Meet), names refined by only
// one side keep that refinement.
func mergeMeet(r *types.Registry, a, b map[string]types.Type) map[string]types.Type {
	if len(a) == 0 {
		return b
	}
	if len(b) == 0 {
		return a
	}
	out := make(map[string]types.Type, len(a)+len(b))
	for k, v := range a {
		out[k] = v
	}
	for k, v := range b {
		if existing, ok := out[k]; ok {
			out[k] = r.Meet(existing, v)
		} else {
			out[k] = v
		}
	}
	return out
}
