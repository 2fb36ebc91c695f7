// Package docinfo realizes the doc-comment type expressions an external
// parser hands back on ast.DocInfo into actual types.Type values: it is
// the adapter between the AST's annotation shape and the type registry.
// A declaration's annotation that mentions a type not yet seen gets a
// pending Named placeholder rather than failing outright.
package docinfo

import (
	"github.com/nuxleus/closure-compiler/internal/ast"
	"github.com/nuxleus/closure-compiler/internal/types"
)

// Realizer turns parsed doc-comment type expressions into types.Type
// values, resolving `@template` names against the declaration that
// introduced them.
type Realizer struct {
	Registry  *types.Registry
	templates map[string]*types.TemplateType
}

// NewRealizer creates a Realizer bound to r. Each declaration gets its
// own Realizer (or a call to PushTemplates) so `@template` bindings don't
// leak between unrelated declarations.
func NewRealizer(r *types.Registry) *Realizer {
	return &Realizer{Registry: r, templates: make(map[string]*types.TemplateType)}
}

// PushTemplates registers names as this declaration's `@template`
// parameters, shadowing any of the same name from an enclosing
// declaration (nested generic methods are not in scope, but a clean
// shadow is simplest and matches how `@template` is documented to work:
// each annotated declaration owns its own parameter names).
func (z *Realizer) PushTemplates(names []string) {
	for _, n := range names {
		z.templates[n] = &types.TemplateType{Name: n}
	}
}

// Realize converts one type expression to a types.Type. Forward
// references to not-yet-seen nominal types become a pending NamedType via
// the registry (resolved later once the real declaration is processed).
func (z *Realizer) Realize(expr ast.TypeExpr) types.Type {
	if expr == nil {
		return z.Registry.Unknown()
	}
	switch e := expr.(type) {
	case ast.AllTypeExpr:
		return z.Registry.All()
	case ast.UnknownTypeExpr:
		return z.Registry.Unknown()
	case ast.TemplateTypeExpr:
		if t, ok := z.templates[e.Name]; ok {
			return t
		}
		t := &types.TemplateType{Name: e.Name}
		z.templates[e.Name] = t
		return t
	case ast.NamedTypeExpr:
		return z.realizeNamed(e.Name)
	case ast.NullableTypeExpr:
		inner := z.Realize(e.Inner)
		return z.Registry.CreateUnion(inner, z.Registry.Null())
	case ast.NonNullTypeExpr:
		inner := z.Realize(e.Inner)
		return z.Registry.RestrictNotNullOrVoid(inner)
	case ast.UnionTypeExpr:
		alts := make([]types.Type, len(e.Alternates))
		for i, a := range e.Alternates {
			alts[i] = z.Realize(a)
		}
		return z.Registry.CreateUnion(alts...)
	case ast.FunctionTypeExpr:
		return z.realizeFunction(e)
	case ast.RecordTypeExpr:
		fields := make(map[string]types.Type, len(e.Keys))
		for _, k := range e.Keys {
			fields[k] = z.Realize(e.Fields[k])
		}
		return z.Registry.CreateRecord(append([]string(nil), e.Keys...), fields)
	default:
		return z.Registry.Unknown()
	}
}

// realizeNamed resolves a bare name: a native primitive/composite kind
// first, then an already-registered nominal type, then a pending forward
// reference.
func (z *Realizer) realizeNamed(name string) types.Type {
	if t, ok := z.Registry.GetNative(name); ok {
		return t
	}
	return z.Registry.GetOrCreateNamed(name)
}

func (z *Realizer) realizeFunction(e ast.FunctionTypeExpr) types.Type {
	params := make([]types.Type, len(e.Params))
	for i, p := range e.Params {
		params[i] = z.Realize(p)
	}
	ret := z.Registry.Void()
	if e.ReturnType != nil {
		ret = z.Realize(e.ReturnType)
	}
	var this types.Type
	if e.This != nil {
		this = z.Realize(e.This)
	}
	// An anonymous function-type annotation (`@type {function(...):T}`)
	// is never nominal: name "" always mints a fresh FunctionType rather
	// than resolving an existing one.
	return z.Registry.CreateFunction("", params, ret, this, e.IsNew, false)
}

// RealizeParams pairs a DocInfo's @param entries with their types, in the
// order the comment listed them. The caller matches these positionally
// against the function's actual parameter identifiers.
func (z *Realizer) RealizeParams(doc *ast.DocInfo) []types.Type {
	if doc == nil {
		return nil
	}
	out := make([]types.Type, len(doc.Params))
	for i, p := range doc.Params {
		out[i] = z.Realize(p.Type)
	}
	return out
}

// RealizeReturn realizes a DocInfo's @return annotation, defaulting to
// Void when absent (the common case for a doc comment with no @return).
func (z *Realizer) RealizeReturn(doc *ast.DocInfo) types.Type {
	if doc == nil || doc.Return == nil {
		return z.Registry.Void()
	}
	return z.Realize(doc.Return)
}

// RealizeImplements realizes a DocInfo's @implements list into interface
// FunctionType values.
func (z *Realizer) RealizeImplements(doc *ast.DocInfo) []*types.FunctionType {
	if doc == nil {
		return nil
	}
	out := make([]*types.FunctionType, 0, len(doc.Implements))
	for _, expr := range doc.Implements {
		t := z.Realize(expr)
		if fn, ok := types.Deref(t).(*types.FunctionType); ok {
			out = append(out, fn)
		}
	}
	return out
}
