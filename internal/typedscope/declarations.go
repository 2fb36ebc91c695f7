package typedscope

import (
	"strings"

	"github.com/nuxleus/closure-compiler/internal/ast"
	"github.com/nuxleus/closure-compiler/internal/config"
	"github.com/nuxleus/closure-compiler/internal/diagnostics"
	"github.com/nuxleus/closure-compiler/internal/scope"
	"github.com/nuxleus/closure-compiler/internal/types"
)

// declarePass installs every name stmts introduces directly into s,
// without looking inside function bodies. Function literals get their
// signature type now so forward references and mutually recursive
// top-level functions resolve; their bodies wait for recursePass.
func (c *Creator) declarePass(s *scope.Scope, stmts []ast.Statement) {
	for _, stmt := range stmts {
		switch n := stmt.(type) {
		case *ast.FunctionStatement:
			c.declareFunctionStatement(s, n)
		case *ast.VarStatement:
			c.declareVarStatement(s, n)
		case *ast.ExpressionStatement:
			c.declareExpressionStatement(s, n)
		}
	}
}

// recursePass walks into every nested scope stmts introduces: function
// bodies (parameters plus their own two-phase declare/recurse), and
// plain control-flow bodies so nested var/function declarations and
// `this.x = ...` assignments are found.
func (c *Creator) recursePass(s *scope.Scope, stmts []ast.Statement) {
	for _, stmt := range stmts {
		switch n := stmt.(type) {
		case *ast.FunctionStatement:
			c.recurseIntoFunction(s, n.Name.Value, n.Params, n.Body)
		case *ast.VarStatement:
			if lit, ok := n.Value.(*ast.FunctionLiteral); ok {
				c.recurseIntoAnonymousFunction(s, n.Name.Value, lit)
			}
		case *ast.ExpressionStatement:
			c.recurseExpressionStatement(s, n)
		case *ast.IfStatement:
			c.recurseBlock(s, n.Consequence)
			if alt, ok := n.Alternative.(*ast.BlockStatement); ok {
				c.recurseBlock(s, alt)
			} else if alt, ok := n.Alternative.(*ast.IfStatement); ok {
				c.recursePass(s, []ast.Statement{alt})
			}
		case *ast.ForStatement:
			c.recurseBlock(s, n.Body)
		case *ast.WhileStatement:
			c.recurseBlock(s, n.Body)
		case *ast.BlockStatement:
			c.recurseBlock(s, n)
		}
	}
}

func (c *Creator) recurseBlock(parent *scope.Scope, body *ast.BlockStatement) {
	if body == nil {
		return
	}
	block := scope.NewEnclosed(parent, scope.KindBlock)
	c.declarePass(block, body.Statements)
	c.recursePass(block, body.Statements)
}

// -- function declarations ---------------------------------------------

func (c *Creator) declareFunctionStatement(s *scope.Scope, n *ast.FunctionStatement) {
	fn := c.buildFunctionType(n.Name.Value, n.Params, n.Doc)
	s.Declare(c.Registry, n.Name.Value, fn, true, n)
	if fn.IsConstructor || fn.IsInterface {
		c.wireInterfaces(fn, n.Doc)
	}
}

// buildFunctionType realizes a function declaration's doc comment into a
// FunctionType, creating the paired Instance/Prototype when @constructor
// or @interface is present.
func (c *Creator) buildFunctionType(name string, params []*ast.Identifier, doc *ast.DocInfo) *types.FunctionType {
	z := c.realizer()
	if doc != nil {
		z.PushTemplates(doc.Template)
	}

	paramTypes := make([]types.Type, len(params))
	docParams := z.RealizeParams(doc)
	for i := range params {
		if i < len(docParams) {
			paramTypes[i] = docParams[i]
		} else {
			paramTypes[i] = c.Registry.Unknown()
		}
	}

	ret := z.RealizeReturn(doc)
	isCtor := doc != nil && doc.IsConstructor
	isIface := doc != nil && doc.IsInterface

	var this types.Type
	fn := c.Registry.CreateFunction(name, paramTypes, ret, this, isCtor, isIface)
	if isCtor && fn.Instance != nil {
		fn.This = fn.Instance
	}
	return fn
}

func (c *Creator) wireInterfaces(fn *types.FunctionType, doc *ast.DocInfo) {
	z := c.realizer()
	if doc != nil {
		z.PushTemplates(doc.Template)
	}
	fn.Interfaces = append(fn.Interfaces, z.RealizeImplements(doc)...)
	if doc != nil && doc.Extends != nil {
		if parent, ok := types.Deref(z.Realize(doc.Extends)).(*types.FunctionType); ok && parent.Instance != nil && fn.Instance != nil {
			fn.Instance.ImplicitPrototype = parent.Instance
		}
	}
}

// -- var declarations ----------------------------------------------------

func (c *Creator) declareVarStatement(s *scope.Scope, n *ast.VarStatement) {
	name := n.Name.Value

	if n.Doc != nil && n.Doc.IsEnum {
		c.declareEnum(s, name, n)
		return
	}

	if n.Doc != nil && n.Doc.HasType {
		z := c.realizer()
		t := z.Realize(n.Doc.Type)
		s.Declare(c.Registry, name, t, true, n)
		return
	}

	if alias, ok := aliasTarget(n.Value); ok {
		if resolved := c.resolveQualified(s, alias); resolved != nil {
			c.Registry.RegisterNominal(name, resolved)
			s.Declare(c.Registry, name, resolved, true, n)
			return
		}
	}

	if lit, ok := n.Value.(*ast.FunctionLiteral); ok {
		fn := c.buildFunctionType("", paramsOf(lit), nil)
		s.Declare(c.Registry, name, fn, true, n)
		return
	}

	s.Declare(c.Registry, name, c.Registry.Unknown(), false, n)
}

func (c *Creator) declareEnum(s *scope.Scope, name string, n *ast.VarStatement) {
	z := c.realizer()
	var element types.Type
	if n.Doc.EnumElement != nil {
		element = z.Realize(n.Doc.EnumElement)
	} else {
		element = c.Registry.Number()
	}
	enum := c.Registry.CreateEnum(name, element)
	if lit, ok := n.Value.(*ast.ObjectLiteral); ok {
		for _, prop := range lit.Properties {
			c.Registry.AddEnumMember(enum, prop.Key)
		}
	}
	s.Declare(c.Registry, name, enum, true, n)
}

// aliasTarget recognizes `var A = B;` / `var A = ns.B;`: a bare
// reference to another name with no call, operator, or literal shape.
func aliasTarget(v ast.Expression) (string, bool) {
	switch e := v.(type) {
	case *ast.Identifier:
		return e.Value, true
	case *ast.MemberExpression:
		if base, ok := qualifiedName(e); ok {
			return base, true
		}
	}
	return "", false
}

func paramsOf(lit *ast.FunctionLiteral) []*ast.Identifier { return lit.Params }

// -- expression statements: prototype wiring, this-properties, stubs, casts

func (c *Creator) declareExpressionStatement(s *scope.Scope, n *ast.ExpressionStatement) {
	assign, ok := n.Expr.(*ast.AssignmentExpression)
	if ok {
		c.declareAssignment(s, assign, n.Doc)
		return
	}
	if call, ok := n.Expr.(*ast.CallExpression); ok {
		c.declareReflectObjectCast(s, call)
		return
	}
	if member, ok := n.Expr.(*ast.MemberExpression); ok {
		c.declareBareStub(s, member, n.Doc)
	}
}

func (c *Creator) declareAssignment(s *scope.Scope, assign *ast.AssignmentExpression, doc *ast.DocInfo) {
	target, ok := assign.Target.(*ast.MemberExpression)
	if !ok {
		return
	}
	path, ok := qualifiedName(target)
	if !ok {
		return
	}

	// F.prototype = { ...methods... }
	if target.Property == config.PrototypePropertyName {
		if fn := c.resolveFunctionByPath(s, target.Object); fn != nil {
			if lit, ok := assign.Value.(*ast.ObjectLiteral); ok {
				c.declarePrototypeLiteral(fn, lit)
			}
		}
		return
	}

	// F.prototype.m = value
	if obj, ok := target.Object.(*ast.MemberExpression); ok && obj.Property == config.PrototypePropertyName {
		if fn := c.resolveFunctionByPath(s, obj.Object); fn != nil && fn.Prototype != nil {
			t := c.valueType(assign.Value, doc)
			if method, ok := t.(*types.FunctionType); ok && method.Name == "" && method.This == nil {
				method.This = fn.Instance
			}
			c.Registry.DeclareProperty(fn.Prototype, target.Property, t, doc != nil, doc != nil && doc.IsExtern)
		}
		return
	}

	// this.x = value, only meaningful once we're inside a function body
	// (recursePass handles the constructor-instance binding); at the
	// top-level declare pass a bare `this` has no declared scope yet.
	if _, ok := target.Object.(*ast.ThisExpression); ok {
		return
	}

	// NS.Sub = function(){ ... } with a @constructor/@interface doc:
	// nominal nesting under a qualified path.
	if lit, ok := assign.Value.(*ast.FunctionLiteral); ok && doc != nil && (doc.IsConstructor || doc.IsInterface) {
		fn := c.buildFunctionType(path, lit.Params, doc)
		c.wireInterfaces(fn, doc)
		return
	}

	// Plain qualified property assignment: `ns.CONST = 3;`
	if base, prop, ok := splitLastSegment(path); ok {
		if obj := c.resolveObjectByPath(s, base); obj != nil {
			t := c.valueType(assign.Value, doc)
			c.Registry.DeclareProperty(obj, prop, t, doc != nil, doc != nil && doc.IsExtern)
		}
	}
}

// declareThisProperty is called from recursePass once we're walking a
// constructor's body with its Instance type in scope.
func (c *Creator) declareThisProperty(instance *types.ObjectType, name string, value ast.Expression, doc *ast.DocInfo) {
	t := c.valueType(value, doc)
	c.Registry.DeclareProperty(instance, name, t, doc != nil, doc != nil && doc.IsExtern)
}

// declarePrototypeLiteral handles `F.prototype = {m1: 5, m2: true}`. The
// literal's own properties are not owned by fn.Prototype itself: they land
// on a fresh anonymous object that becomes fn.Prototype's implicit
// prototype, so hasOwnProperty on an instance or on fn.Prototype stays
// false for them. Only a later `F.prototype.m3 = value` (handled in
// declareAssignment) declares a property directly on fn.Prototype.
func (c *Creator) declarePrototypeLiteral(fn *types.FunctionType, lit *ast.ObjectLiteral) {
	if fn.Prototype == nil {
		return
	}
	anon := c.Registry.CreateObject("", fn.Prototype.ImplicitPrototype)
	for _, prop := range lit.Properties {
		t := c.valueType(prop.Value, prop.Doc)
		c.Registry.DeclareProperty(anon, prop.Key, t, prop.Doc != nil, prop.Doc != nil && prop.Doc.IsExtern)
	}
	fn.Prototype.ImplicitPrototype = anon
}

// declareBareStub is `/** @type T */ x.y;` with no assignment: declares
// the property if annotated, otherwise just indexes the reference.
func (c *Creator) declareBareStub(s *scope.Scope, member *ast.MemberExpression, doc *ast.DocInfo) {
	path, ok := qualifiedName(member)
	if !ok {
		return
	}
	base, prop, ok := splitLastSegment(path)
	if !ok {
		return
	}
	obj := c.resolveObjectByPath(s, base)
	if obj == nil {
		return
	}
	if doc != nil && doc.HasType {
		z := c.realizer()
		c.Registry.DeclareProperty(obj, prop, z.Realize(doc.Type), true, doc.IsExtern)
		return
	}
	c.Registry.IndexPropertyStub(obj, prop)
}

// declareReflectObjectCast handles `goog.reflect.object(Ctor, {...})`:
// every key in the object literal becomes a declared property of Ctor's
// instance type, bypassing the usual extra-property diagnostics for a
// call whose whole point is to attach properties dynamically.
func (c *Creator) declareReflectObjectCast(s *scope.Scope, call *ast.CallExpression) {
	path, ok := qualifiedName(call.Callee)
	if !ok || path != "goog.reflect.object" {
		return
	}
	if len(call.Arguments) != 2 {
		return
	}
	fn := c.resolveFunctionByPath(s, call.Arguments[0])
	if fn == nil || fn.Instance == nil {
		c.Diags.Errorf(diagnostics.ConstructorExpected, call.GetToken(), "goog.reflect.object requires a constructor as its first argument")
		return
	}
	lit, ok := call.Arguments[1].(*ast.ObjectLiteral)
	if !ok {
		c.Diags.Errorf(diagnostics.ObjectlitExpected, call.GetToken(), "goog.reflect.object requires an object literal as its second argument")
		return
	}
	for _, prop := range lit.Properties {
		t := c.valueType(prop.Value, prop.Doc)
		c.Registry.DeclareProperty(fn.Instance, prop.Key, t, true, false)
	}
}

// valueType produces the best type available for a value at declare
// time: an explicit @type annotation wins, then a trivial literal shape,
// falling back to Unknown (the inference engine fills this in properly
// during its own pass).
func (c *Creator) valueType(v ast.Expression, doc *ast.DocInfo) types.Type {
	if doc != nil && doc.HasType {
		return c.realizer().Realize(doc.Type)
	}
	switch e := v.(type) {
	case *ast.NumberLiteral:
		return c.Registry.Number()
	case *ast.StringLiteral:
		return c.Registry.Str()
	case *ast.BooleanLiteral:
		return c.Registry.Boolean()
	case *ast.NullLiteral:
		return c.Registry.Null()
	case *ast.VoidLiteral:
		return c.Registry.Void()
	case *ast.FunctionLiteral:
		return c.buildFunctionType("", e.Params, doc)
	default:
		return c.Registry.Unknown()
	}
}

// -- name resolution helpers ---------------------------------------------

// qualifiedName flattens an Identifier/MemberExpression chain into a
// dotted path, e.g. `goog.reflect.object`.
func qualifiedName(e ast.Expression) (string, bool) {
	switch v := e.(type) {
	case *ast.Identifier:
		return v.Value, true
	case *ast.MemberExpression:
		base, ok := qualifiedName(v.Object)
		if !ok {
			return "", false
		}
		return base + "." + v.Property, true
	default:
		return "", false
	}
}

func splitLastSegment(path string) (base, last string, ok bool) {
	idx := strings.LastIndexByte(path, '.')
	if idx < 0 {
		return "", "", false
	}
	return path[:idx], path[idx+1:], true
}

// resolveQualified resolves a dotted path to a type, checking the scope
// chain for the leftmost segment first (a local/global var) and falling
// back to the registry's nominal table, then walking remaining segments
// as property accesses.
func (c *Creator) resolveQualified(s *scope.Scope, path string) types.Type {
	segments := strings.Split(path, ".")
	var cur types.Type
	if v, _, ok := s.Lookup(segments[0]); ok {
		cur = v.Type
	} else if t, ok := c.Registry.ResolveNamed(segments[0]); ok {
		cur = t
	} else {
		cur = c.Registry.GetOrCreateNamed(segments[0])
	}
	for _, seg := range segments[1:] {
		if seg == config.PrototypePropertyName {
			if fn, ok := types.Deref(cur).(*types.FunctionType); ok && fn.Prototype != nil {
				cur = fn.Prototype
				continue
			}
		}
		if obj := protoObjectOf(cur); obj != nil {
			cur = c.Registry.GetOwnPropertyType(obj, seg)
			continue
		}
		return c.Registry.Unknown()
	}
	return cur
}

// resolveObjectByPath is resolveQualified narrowed to the ObjectType the
// path denotes, for property-declaration call sites.
func (c *Creator) resolveObjectByPath(s *scope.Scope, path string) *types.ObjectType {
	return protoObjectOf(c.resolveQualified(s, path))
}

// resolveFunctionByPath resolves an expression that should name a
// constructor/function to its FunctionType, or nil.
func (c *Creator) resolveFunctionByPath(s *scope.Scope, e ast.Expression) *types.FunctionType {
	path, ok := qualifiedName(e)
	if !ok {
		return nil
	}
	fn, _ := types.Deref(c.resolveQualified(s, path)).(*types.FunctionType)
	return fn
}

func protoObjectOf(t types.Type) *types.ObjectType {
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
