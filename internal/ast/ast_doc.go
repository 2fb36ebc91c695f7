package ast

// TypeExpr is a doc-comment type expression, already parsed by an
// external doc-comment parser. The doc-info adapter (internal/docinfo)
// reads these off a DocInfo and hands them to the type registry to
// realize as an actual types.Type.
type TypeExpr interface {
	typeExprNode()
}

// NamedTypeExpr references a type by (possibly qualified) name, e.g.
// `Foo`, `goog.Bar`, or a bare primitive name like `number`.
type NamedTypeExpr struct {
	Name string
}

func (NamedTypeExpr) typeExprNode() {}

// NullableTypeExpr is `?T`: T or null.
type NullableTypeExpr struct {
	Inner TypeExpr
}

func (NullableTypeExpr) typeExprNode() {}

// NonNullTypeExpr is `!T`: T with null and void removed, used on
// annotations where the author asserts non-nullability explicitly.
type NonNullTypeExpr struct {
	Inner TypeExpr
}

func (NonNullTypeExpr) typeExprNode() {}

// UnionTypeExpr is `(T1|T2|...)`.
type UnionTypeExpr struct {
	Alternates []TypeExpr
}

func (UnionTypeExpr) typeExprNode() {}

// FunctionTypeExpr is `function(this:T, A, B): R`.
type FunctionTypeExpr struct {
	This       TypeExpr // nil if no explicit this-type
	Params     []TypeExpr
	ReturnType TypeExpr // nil means Void
	IsNew      bool     // `function(new:T): T` constructor-type annotation
}

func (FunctionTypeExpr) typeExprNode() {}

// RecordTypeExpr is `{ k1: T1, k2: T2 }`, order preserved for the
// registry's Record field schema.
type RecordTypeExpr struct {
	Keys   []string
	Fields map[string]TypeExpr
}

func (RecordTypeExpr) typeExprNode() {}

// AllTypeExpr is the `*` wildcard (top).
type AllTypeExpr struct{}

func (AllTypeExpr) typeExprNode() {}

// UnknownTypeExpr is the `?` wildcard.
type UnknownTypeExpr struct{}

func (UnknownTypeExpr) typeExprNode() {}

// TemplateTypeExpr references one of the enclosing declaration's
// `@template` parameters, e.g. `T` inside `@template T` `@param {T} x`.
type TemplateTypeExpr struct {
	Name string
}

func (TemplateTypeExpr) typeExprNode() {}

// Param is one `@param` entry: a name paired with its declared type (the
// name lets the scope creator match doc params to function params
// positionally with a sanity check, and lets diagnostics name the
// mismatching parameter).
type Param struct {
	Name string
	Type TypeExpr
}

// DocInfo is the structured result of parsing the documentation comment
// attached to a declaration node. The doc-comment parser that produces it
// is external; this module only consumes the result.
type DocInfo struct {
	HasType       bool // true if @type was present (vs. inferred from shape)
	Type          TypeExpr
	Params        []Param
	Return        TypeExpr
	IsConstructor bool
	IsInterface   bool
	IsEnum        bool
	EnumElement   TypeExpr // element type for @enum {T}; nil means number
	Extends       TypeExpr
	Implements    []TypeExpr
	Template      []string
	IsExtern      bool // true when the declaration lives in the externs AST
}

// Empty reports whether this DocInfo carries no annotations at all, the
// common case for most declarations.
func (d *DocInfo) Empty() bool {
	if d == nil {
		return true
	}
	return !d.HasType && len(d.Params) == 0 && d.Return == nil &&
		!d.IsConstructor && !d.IsInterface && !d.IsEnum &&
		d.Extends == nil && len(d.Implements) == 0 && len(d.Template) == 0
}
