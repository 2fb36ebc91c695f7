package types

import "sort"

// Registry is the sole constructor of Type values for one compilation
// unit. It is not safe for concurrent use — the core runs single-threaded
// against one unit at a time; a parallel host must give each compilation
// unit its own Registry.
type Registry struct {
	natives map[PrimitiveKind]*Primitive
	boxed   map[BoxedKind]*Boxed

	named   map[string]Type   // qualified name -> realized type
	pending []*NamedType       // unresolved Named placeholders, for later resolution

	propertyIndex map[string]map[*ObjectType]struct{} // property name -> declaring/stub types

	nextID int
}

// NewRegistry creates a fresh registry with all native singletons
// initialized. Look-ups against it are total.
func NewRegistry() *Registry {
	r := &Registry{
		natives:       make(map[PrimitiveKind]*Primitive),
		boxed:         make(map[BoxedKind]*Boxed),
		named:         make(map[string]Type),
		propertyIndex: make(map[string]map[*ObjectType]struct{}),
	}
	for _, k := range []PrimitiveKind{
		KindNumber, KindString, KindBoolean, KindNull, KindVoid,
		KindAll, KindNo, KindUnknown, KindNoObject,
	} {
		r.natives[k] = &Primitive{Kind: k}
	}
	for _, k := range []BoxedKind{BoxedNumber, BoxedString, BoxedBoolean} {
		r.boxed[k] = &Boxed{Kind: k}
	}
	return r
}

func (r *Registry) Number() Type    { return r.natives[KindNumber] }
func (r *Registry) Str() Type       { return r.natives[KindString] }
func (r *Registry) Boolean() Type   { return r.natives[KindBoolean] }
func (r *Registry) Null() Type      { return r.natives[KindNull] }
func (r *Registry) Void() Type      { return r.natives[KindVoid] }
func (r *Registry) All() Type       { return r.natives[KindAll] }
func (r *Registry) No() Type        { return r.natives[KindNo] }
func (r *Registry) Unknown() Type   { return r.natives[KindUnknown] }
func (r *Registry) NoObject() Type  { return r.natives[KindNoObject] }

func (r *Registry) NumberObject() Type  { return r.boxed[BoxedNumber] }
func (r *Registry) StringObject() Type  { return r.boxed[BoxedString] }
func (r *Registry) BooleanObject() Type { return r.boxed[BoxedBoolean] }

// GetNative looks up a built-in kind by name: "number", "string",
// "boolean", "null", "void", "all", "no", "unknown", "object",
// "number-or-object", "string-or-object", "boolean-or-object".
func (r *Registry) GetNative(kind string) (Type, bool) {
	switch kind {
	case "number":
		return r.Number(), true
	case "string":
		return r.Str(), true
	case "boolean":
		return r.Boolean(), true
	case "null":
		return r.Null(), true
	case "void":
		return r.Void(), true
	case "all":
		return r.All(), true
	case "no":
		return r.No(), true
	case "unknown":
		return r.Unknown(), true
	case "no-object":
		return r.NoObject(), true
	case "number-object":
		return r.NumberObject(), true
	case "string-object":
		return r.StringObject(), true
	case "boolean-object":
		return r.BooleanObject(), true
	case "number-or-object":
		return r.CreateUnion(r.Number(), r.NumberObject()), true
	case "string-or-object":
		return r.CreateUnion(r.Str(), r.StringObject()), true
	case "boolean-or-object":
		return r.CreateUnion(r.Boolean(), r.BooleanObject()), true
	case "object":
		return r.CreateObject("", nil), true
	default:
		return nil, false
	}
}

// CreateObject creates a fresh anonymous or nominal object. If name is
// non-empty and already registered, the existing type is returned
// unchanged: nominal identity means the first declaration wins.
func (r *Registry) CreateObject(name string, implicitProto Type) *ObjectType {
	if name != "" {
		if existing, ok := r.named[name]; ok {
			if obj := protoObject(existing); obj != nil {
				return obj
			}
		}
	}
	r.nextID++
	obj := &ObjectType{
		id:                r.nextID,
		Name:              name,
		Properties:        make(map[string]*Property),
		ImplicitPrototype: implicitProto,
	}
	if name != "" {
		r.named[name] = obj
	}
	return obj
}

// CreateFunction creates a function type and, for constructors and
// interfaces, its paired Instance and Prototype object types.
func (r *Registry) CreateFunction(name string, params []Type, ret Type, thisTy Type, isCtor, isIface bool) *FunctionType {
	if name != "" {
		if existing, ok := r.named[name]; ok {
			if fn, ok := existing.(*FunctionType); ok {
				return fn
			}
		}
	}
	r.nextID++
	base := &ObjectType{
		id:         r.nextID,
		Name:       name,
		Properties: make(map[string]*Property),
	}
	fn := &FunctionType{
		ObjectType:    base,
		Params:        params,
		Return:        ret,
		This:          thisTy,
		IsConstructor: isCtor,
		IsInterface:   isIface,
	}
	base.Constructor = fn

	if isCtor || isIface {
		r.nextID++
		proto := &ObjectType{
			id:         r.nextID,
			Name:       name + ".prototype",
			Properties: make(map[string]*Property),
			Constructor: fn,
		}
		r.nextID++
		instance := &ObjectType{
			id:                r.nextID,
			Name:              name,
			Properties:        make(map[string]*Property),
			ImplicitPrototype: proto,
			Constructor:       fn,
		}
		fn.Prototype = proto
		fn.Instance = instance

		protoProp := &Property{Name: "prototype", Type: proto, Declared: true}
		base.setProperty(protoProp)
		r.indexProperty(base, "prototype")
	}

	if name != "" {
		r.named[name] = fn
	}
	return fn
}

// CreateEnum creates a nominal enum type whose members all share element
// type elementTy.
func (r *Registry) CreateEnum(name string, elementTy Type) *EnumType {
	if existing, ok := r.named[name]; ok {
		if e, ok := existing.(*EnumType); ok {
			return e
		}
	}
	r.nextID++
	e := &EnumType{
		ObjectType: &ObjectType{
			id:         r.nextID,
			Name:       name,
			Properties: make(map[string]*Property),
		},
		Element: elementTy,
	}
	r.named[name] = e
	return e
}

// AddEnumMember declares a member on an enum, typed EnumElement<Element>.
func (r *Registry) AddEnumMember(e *EnumType, memberName string) {
	elem := &EnumElementType{Enum: e, Element: e.Element}
	r.DeclareProperty(e.ObjectType, memberName, elem, true, false)
}

// CreateRecord creates a structural record type with a fixed, ordered
// property schema.
func (r *Registry) CreateRecord(keys []string, fields map[string]Type) *RecordType {
	orderedKeys := append([]string(nil), keys...)
	return &RecordType{Keys: orderedKeys, Fields: fields}
}

// GetOrCreateNamed returns the realized type registered under name, or an
// unresolved Named placeholder recorded for later resolution when a type
// reference names something not yet declared in this compilation unit.
func (r *Registry) GetOrCreateNamed(name string) Type {
	if existing, ok := r.named[name]; ok {
		return existing
	}
	n := &NamedType{Name: name}
	r.pending = append(r.pending, n)
	return n
}

// ResolveNamed looks up a qualified name directly, without creating a
// placeholder.
func (r *Registry) ResolveNamed(name string) (Type, bool) {
	t, ok := r.named[name]
	return t, ok
}

// RegisterNominal makes name resolve to t, for declaration forms (alias
// binding) that register a name after the fact rather than through
// CreateObject/CreateFunction/CreateEnum.
func (r *Registry) RegisterNominal(name string, t Type) {
	if _, exists := r.named[name]; !exists {
		r.named[name] = t
	}
}

// ResolvePending walks the list of Named placeholders created since the
// last call and resolves every one whose name has since been registered.
// Call this after each phase of scope construction, and again after
// recursing into nested scopes, so forward references within a
// compilation unit resolve once their target is declared.
func (r *Registry) ResolvePending() {
	still := r.pending[:0]
	for _, n := range r.pending {
		if t, ok := r.named[n.Name]; ok {
			n.Resolved = t
		} else {
			still = append(still, n)
		}
	}
	r.pending = still
}

// UnresolvedNamed returns every Named placeholder that never resolved by
// the end of analysis, for reporting as reference diagnostics.
func (r *Registry) UnresolvedNamed() []*NamedType {
	r.ResolvePending()
	return append([]*NamedType(nil), r.pending...)
}

func (r *Registry) indexProperty(obj *ObjectType, name string) {
	set, ok := r.propertyIndex[name]
	if !ok {
		set = make(map[*ObjectType]struct{})
		r.propertyIndex[name] = set
	}
	set[obj] = struct{}{}
}

// IndexPropertyStub records that obj was referenced with a bare,
// unannotated property name (`Foo.bar;` with no `@type` and no
// assignment) without declaring the property on obj itself: the stub
// shows up in the reverse index but not as an own property.
func (r *Registry) IndexPropertyStub(obj *ObjectType, name string) {
	r.indexProperty(obj, name)
}

// DeclareProperty adds or merges a declared/stub property. Declared
// shadows a prior stub; a later stub never downgrades a declared
// property; the InExterns flag is sticky once set.
func (r *Registry) DeclareProperty(obj *ObjectType, name string, t Type, declared bool, extern bool) {
	existing, ok := obj.GetOwnProperty(name)
	if !ok {
		obj.setProperty(&Property{Name: name, Type: t, Declared: declared, InExterns: extern})
		r.indexProperty(obj, name)
		return
	}
	switch {
	case existing.Declared && declared:
		// Both typed: first wins, silently.
		if extern {
			existing.InExterns = true
		}
	case existing.Declared && !declared:
		// Existing declared property wins over a later stub/inferred write.
		if extern {
			existing.InExterns = true
		}
	case !existing.Declared && declared:
		// New declared property overrides the stub.
		obj.setProperty(&Property{Name: name, Type: t, Declared: true, InExterns: existing.InExterns || extern})
	default:
		// Both stub/inferred: first wins.
		if extern {
			existing.InExterns = true
		}
	}
	r.indexProperty(obj, name)
}

// AddInferredProperty records an assignment-derived property, for
// `obj.p = value` assignments the inference engine walks over. If the
// property doesn't exist yet it is created as inferred; if it already
// exists as inferred its type joins with t; if it is declared, it is left
// untouched.
func (r *Registry) AddInferredProperty(obj *ObjectType, name string, t Type) {
	existing, ok := obj.GetOwnProperty(name)
	if !ok {
		obj.setProperty(&Property{Name: name, Type: t, Declared: false})
		r.indexProperty(obj, name)
		return
	}
	if existing.Declared {
		return
	}
	existing.Type = r.Join(existing.Type, t)
}

// TypesWithProperty returns every object type (declaring or merely
// stub-referencing) that has been indexed under name, sorted by creation
// order (registry id) for determinism.
func (r *Registry) TypesWithProperty(name string) []*ObjectType {
	set := r.propertyIndex[name]
	result := make([]*ObjectType, 0, len(set))
	for obj := range set {
		result = append(result, obj)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].id < result[j].id })
	return result
}

// protoObject unwraps a Type to the *ObjectType that anchors its
// prototype chain: Named dereferences, Function/Enum/GlobalThis expose
// their embedded ObjectType directly. Primitives and Boxed types have no
// ObjectType and yield nil; they are not autoboxed.
func protoObject(t Type) *ObjectType {
	t = Deref(t)
	switch v := t.(type) {
	case *ObjectType:
		return v
	case *FunctionType:
		return v.ObjectType
	case *EnumType:
		return v.ObjectType
	case *GlobalThisType:
		return v.ObjectType
	default:
		return nil
	}
}

// GetPropertyType walks owner's prototype chain looking for name. Returns
// Unknown if not found anywhere on the chain, including when the chain is
// cut short by an unresolved/Unknown link. A primitive or Boxed owner is
// not autoboxed and also yields Unknown.
func (r *Registry) GetPropertyType(owner Type, name string) Type {
	obj := protoObject(owner)
	for obj != nil {
		if p, ok := obj.GetOwnProperty(name); ok {
			return p.Type
		}
		obj = protoObject(obj.ImplicitPrototype)
	}
	return r.Unknown()
}

// GetOwnPropertyType is like GetPropertyType but only looks at the single
// object passed, not its prototype chain; for call sites that need to
// distinguish "own" from "inherited".
func (r *Registry) GetOwnPropertyType(owner Type, name string) Type {
	obj := protoObject(owner)
	if obj == nil {
		return r.Unknown()
	}
	if p, ok := obj.GetOwnProperty(name); ok {
		return p.Type
	}
	return r.Unknown()
}
