// Package types implements the type lattice and its canonicalizing
// registry: the sole producer of Type values, subtyping, join, meet,
// ternary equality and narrowing.
//
// Every variant is a pointer type so that identity equality has a single,
// uniform meaning across the lattice — two references are the same type
// iff they are the same pointer, Named excepted, which delegates identity
// to its resolved referent. Operations dispatch with a type switch over
// these pointer variants rather than a classic visitor: the switch is
// exhaustive by convention, and adding a variant means touching every
// switch in this package.
package types

import (
	"fmt"
	"strings"
)

// Type is the interface implemented by every lattice member.
type Type interface {
	String() string
	isType()
}

// PrimitiveKind enumerates the lattice's non-object singletons: the five
// value types plus the three special points (All, No, Unknown) plus
// NoObject, the bottom restricted to object types (subtyping rule 1).
type PrimitiveKind int

const (
	KindNumber PrimitiveKind = iota
	KindString
	KindBoolean
	KindNull
	KindVoid
	KindAll
	KindNo
	KindUnknown
	KindNoObject
)

func (k PrimitiveKind) String() string {
	switch k {
	case KindNumber:
		return "number"
	case KindString:
		return "string"
	case KindBoolean:
		return "boolean"
	case KindNull:
		return "null"
	case KindVoid:
		return "undefined"
	case KindAll:
		return "*"
	case KindNo:
		return "None"
	case KindUnknown:
		return "?"
	case KindNoObject:
		return "NoObject"
	default:
		return "?"
	}
}

// Primitive is a singleton value type or lattice endpoint. The registry
// creates exactly one Primitive per kind at initialization; callers never
// construct these directly.
type Primitive struct {
	Kind PrimitiveKind
}

func (p *Primitive) isType()        {}
func (p *Primitive) String() string { return p.Kind.String() }

// BoxedKind enumerates the three auto/unboxable wrapper object types.
type BoxedKind int

const (
	BoxedNumber BoxedKind = iota
	BoxedString
	BoxedBoolean
)

func (k BoxedKind) String() string {
	switch k {
	case BoxedNumber:
		return "Number"
	case BoxedString:
		return "String"
	case BoxedBoolean:
		return "Boolean"
	default:
		return "?"
	}
}

// Boxed is the object counterpart of a primitive (`new Number(3)`).
type Boxed struct {
	Kind BoxedKind
}

func (b *Boxed) isType()        {}
func (b *Boxed) String() string { return b.Kind.String() }

// Unbox returns the primitive kind a Boxed type auto-unboxes to.
func (b *Boxed) Unbox() PrimitiveKind {
	switch b.Kind {
	case BoxedNumber:
		return KindNumber
	case BoxedString:
		return KindString
	default:
		return KindBoolean
	}
}

// Property is one entry of an ObjectType's property map. Declared shadows
// inferred; InExterns is sticky across merges with the program's own
// declarations.
type Property struct {
	Name      string
	Type      Type
	Declared  bool
	InExterns bool
}

// ObjectType is a nominal or anonymous object: a property map plus an
// implicit-prototype link, with an optional back-reference to the
// constructor it is the prototype or instance of.
type ObjectType struct {
	id                int
	Name              string // "" for an anonymous object literal
	Properties        map[string]*Property
	propOrder         []string // insertion order of Properties; String() does not read it
	ImplicitPrototype Type     // nil, or another ObjectType/FunctionPrototype-ish Type
	Constructor       *FunctionType
}

func (o *ObjectType) isType() {}
func (o *ObjectType) String() string {
	if o.Name != "" {
		return o.Name
	}
	return "Object"
}

// GetOwnProperty returns the property declared directly on this object,
// ignoring the prototype chain.
func (o *ObjectType) GetOwnProperty(name string) (*Property, bool) {
	p, ok := o.Properties[name]
	return p, ok
}

// HasOwnProperty reports whether name is declared directly on this
// object (not via the prototype chain).
func (o *ObjectType) HasOwnProperty(name string) bool {
	_, ok := o.Properties[name]
	return ok
}

// setProperty installs or updates a property and records insertion order.
func (o *ObjectType) setProperty(p *Property) {
	if _, exists := o.Properties[p.Name]; !exists {
		o.propOrder = append(o.propOrder, p.Name)
	}
	o.Properties[p.Name] = p
}

// FunctionType specializes ObjectType with a parameter list, return type,
// this-type, and (for constructors/interfaces) the paired Prototype and
// Instance object types.
type FunctionType struct {
	*ObjectType
	Params       []Type
	Return       Type
	This         Type
	IsVariadic   bool
	IsConstructor bool
	IsInterface   bool

	// Prototype is the FunctionPrototype object reachable as fn.prototype.
	// Instance is the InstanceOf(fn) type `new fn()` produces. Both are
	// non-nil only for constructors/interfaces.
	Prototype *ObjectType
	Instance  *ObjectType

	// Interfaces lists the interfaces this constructor declares it
	// implements (`@implements`), used by the structural interface
	// subtyping rule.
	Interfaces []*FunctionType
}

func (f *FunctionType) String() string {
	params := make([]string, len(f.Params))
	for i, p := range f.Params {
		params[i] = typeString(p)
	}
	prefix := ""
	if f.This != nil {
		prefix = fmt.Sprintf("this:%s, ", typeString(f.This))
	}
	joined := strings.Join(params, ", ")
	if prefix != "" && joined != "" {
		joined = prefix + joined
	} else if prefix != "" {
		joined = strings.TrimSuffix(prefix, ", ")
	}
	ret := "undefined"
	if f.Return != nil {
		ret = typeString(f.Return)
	}
	return fmt.Sprintf("function (%s): %s", joined, ret)
}

// EnumType is a nominal type whose elements all share element type
// Element; EnumType itself has one EnumElement<Element> property per
// member name.
type EnumType struct {
	*ObjectType
	Element Type
}

func (e *EnumType) String() string { return fmt.Sprintf("enum{%s}", e.Name) }

// EnumElementType is the type of one member of an enum, e.g. `Foo.<number>`.
type EnumElementType struct {
	Enum    *EnumType
	Element Type
}

func (e *EnumElementType) isType() {}
func (e *EnumElementType) String() string {
	return fmt.Sprintf("%s.<%s>", e.Enum.Name, typeString(e.Element))
}

// RecordType is a structural object with a fixed, ordered property schema.
type RecordType struct {
	Keys   []string
	Fields map[string]Type
}

func (r *RecordType) isType() {}
func (r *RecordType) String() string {
	parts := make([]string, len(r.Keys))
	for i, k := range r.Keys {
		parts[i] = fmt.Sprintf("%s : %s", k, typeString(r.Fields[k]))
	}
	return fmt.Sprintf("{ %s }", strings.Join(parts, ", "))
}

// NamedType is a reference-by-qualified-name to another type, resolved
// lazily. Identity/equality delegates to Resolved once set; until then it
// behaves as Unknown for lattice purposes but keeps Name for diagnostics.
type NamedType struct {
	Name     string
	Resolved Type
}

func (n *NamedType) isType() {}
func (n *NamedType) String() string {
	if n.Resolved != nil {
		return typeString(n.Resolved)
	}
	return n.Name
}

// Deref returns the referent of a Named type, recursively, or the type
// itself if it isn't Named (or is an unresolved Named).
func Deref(t Type) Type {
	for {
		n, ok := t.(*NamedType)
		if !ok || n.Resolved == nil {
			return t
		}
		t = n.Resolved
	}
}

// UnionType is an unordered set of >=2 alternates. Construct only via
// Registry.CreateUnion / NormalizeUnion: a hand-built UnionType can
// violate the canonicalization invariants (flattened, deduplicated,
// sorted, with All/Unknown absorbed).
type UnionType struct {
	Alternates []Type // sorted by String(), flattened, deduplicated
}

func (u *UnionType) isType() {}
func (u *UnionType) String() string {
	parts := make([]string, len(u.Alternates))
	for i, t := range u.Alternates {
		parts[i] = typeString(t)
	}
	return fmt.Sprintf("(%s)", strings.Join(parts, "|"))
}

// TemplateType is a placeholder for a type parameter, substitutable at
// call sites.
type TemplateType struct {
	Name string
}

func (t *TemplateType) isType() {}
func (t *TemplateType) String() string { return t.Name }

// GlobalThisType is the synthetic type of the top-level `this`. It is
// structurally the union of all properties declared on it, and is a
// subtype of any detected Window-style constructor's instance type, but
// is never equal to it.
type GlobalThisType struct {
	*ObjectType
	WindowInstance *ObjectType // nil unless a "Window" constructor was declared
}

func (g *GlobalThisType) String() string { return "global this" }

// typeString is String() with a nil guard: callers build textual forms
// while inference is still in flight, and an un-annotated slot is
// legitimately nil until the scope creator or inference engine visits it.
func typeString(t Type) string {
	if t == nil {
		return "?"
	}
	return t.String()
}

