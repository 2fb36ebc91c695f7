package types

import "sort"

// CreateUnion returns the canonical union of the given alternates:
// flattened, deduplicated, sorted by textual form, with All absorbing
// everything and Unknown dominating. A single remaining alternate is
// returned directly rather than wrapped.
func (r *Registry) CreateUnion(alternates ...Type) Type {
	return NormalizeUnion(alternates)
}

// NormalizeUnion is the pure canonicalization function CreateUnion wraps;
// split out so Join and tests can reuse it without a Registry.
func NormalizeUnion(alternates []Type) Type {
	flat := make([]Type, 0, len(alternates))
	for _, t := range alternates {
		if t == nil {
			continue
		}
		if u, ok := t.(*UnionType); ok {
			flat = append(flat, u.Alternates...)
			continue
		}
		flat = append(flat, t)
	}

	for _, t := range flat {
		if _, ok := t.(*Primitive); ok && t.(*Primitive).Kind == KindUnknown {
			return t // Unknown dominates
		}
	}

	seen := make(map[string]bool)
	unique := make([]Type, 0, len(flat))
	var hasAll Type
	for _, t := range flat {
		if p, ok := t.(*Primitive); ok && p.Kind == KindAll {
			hasAll = t
			continue
		}
		s := t.String()
		if !seen[s] {
			seen[s] = true
			unique = append(unique, t)
		}
	}
	if hasAll != nil {
		return hasAll // All absorbs every other alternate
	}

	if len(unique) == 0 {
		return nil
	}
	if len(unique) == 1 {
		return unique[0]
	}

	sort.Slice(unique, func(i, j int) bool { return unique[i].String() < unique[j].String() })
	return &UnionType{Alternates: unique}
}

// Subtype reports a <: b, applying the lattice's ordered rules in turn:
// top/bottom/identity, Named dereferencing, union distribution on either
// side, then the per-kind structural rules below.
func (r *Registry) Subtype(a, b Type) bool {
	if a == nil || b == nil {
		return false
	}
	// Rule 1
	if isKind(b, KindAll) || isKind(b, KindUnknown) || isKind(a, KindUnknown) {
		return true
	}
	if isKind(a, KindNo) {
		return true
	}
	if isKind(a, KindNoObject) && isObjectLike(b) {
		return true
	}
	// Rule 2
	if a == b {
		return true
	}
	// Rule 5 (Named recursion), applied before union/object rules so a
	// Named on either side behaves exactly like its referent. An
	// unresolved Named behaves as Unknown.
	if na, ok := a.(*NamedType); ok {
		return r.Subtype(r.derefOrUnknown(na), b)
	}
	if nb, ok := b.(*NamedType); ok {
		return r.Subtype(a, r.derefOrUnknown(nb))
	}
	// Rule 3
	if ua, ok := a.(*UnionType); ok {
		for _, alt := range ua.Alternates {
			if !r.Subtype(alt, b) {
				return false
			}
		}
		return true
	}
	// Rule 4
	if ub, ok := b.(*UnionType); ok {
		for _, alt := range ub.Alternates {
			if r.Subtype(a, alt) {
				return true
			}
		}
		return false
	}

	switch av := a.(type) {
	case *Primitive:
		return false // already covered equality/top/bottom above
	case *Boxed:
		if bv, ok := b.(*Boxed); ok {
			return av.Kind == bv.Kind
		}
		return false
	case *EnumElementType:
		// Rule 8: an EnumElement<E> is <: E.
		return r.Subtype(av.Element, b)
	case *EnumType:
		return false // the enum container is not a subtype of its element
	case *RecordType:
		if bv, ok := b.(*RecordType); ok {
			return r.recordSubtype(av, bv)
		}
		return false
	case *TemplateType:
		if bv, ok := b.(*TemplateType); ok {
			return av.Name == bv.Name
		}
		return false
	case *FunctionType:
		if bv, ok := b.(*FunctionType); ok {
			return r.functionSubtype(av, bv)
		}
		if bv, ok := b.(*RecordType); ok {
			return r.objectSubtypeRecord(av.ObjectType, bv)
		}
		return false
	case *GlobalThisType:
		// GlobalThis is a subtype of whatever the detected Window instance
		// is a subtype of.
		return av.WindowInstance != nil && r.Subtype(av.WindowInstance, b)
	case *ObjectType:
		switch bv := b.(type) {
		case *RecordType:
			return r.objectSubtypeRecord(av, bv)
		case *FunctionType:
			if bv.IsInterface {
				return r.implementsInterface(av, bv) || r.prototypeChainReaches(av, bv.ObjectType)
			}
			return r.prototypeChainReaches(av, bv.ObjectType)
		case *ObjectType:
			return r.prototypeChainReaches(av, bv)
		default:
			return false
		}
	}
	return false
}

func (r *Registry) derefOrUnknown(n *NamedType) Type {
	if n.Resolved != nil {
		return n.Resolved
	}
	return r.Unknown()
}

func isKind(t Type, k PrimitiveKind) bool {
	p, ok := t.(*Primitive)
	return ok && p.Kind == k
}

func isObjectLike(t Type) bool {
	t = Deref(t)
	switch t.(type) {
	case *ObjectType, *FunctionType, *EnumType, *RecordType, *GlobalThisType:
		return true
	default:
		return false
	}
}

// prototypeChainReaches walks a's implicit-prototype chain (inclusive of
// a itself) looking for b by identity.
func (r *Registry) prototypeChainReaches(a, b *ObjectType) bool {
	cur := a
	for cur != nil {
		if cur == b {
			return true
		}
		cur = protoObject(cur.ImplicitPrototype)
	}
	return false
}

// implementsInterface reports whether a's constructor declares iface among
// its (transitively) implemented interfaces.
func (r *Registry) implementsInterface(a *ObjectType, iface *FunctionType) bool {
	ctor := a.Constructor
	if ctor == nil {
		return false
	}
	return ctorImplements(ctor, iface, make(map[*FunctionType]bool))
}

func ctorImplements(ctor *FunctionType, iface *FunctionType, seen map[*FunctionType]bool) bool {
	if ctor == nil || seen[ctor] {
		return false
	}
	seen[ctor] = true
	for _, i := range ctor.Interfaces {
		if i == iface {
			return true
		}
		if ctorImplements(i, iface, seen) {
			return true
		}
	}
	return false
}

// objectSubtypeRecord reports whether a has every field b declares, with
// a subtype value (rule 6, structural Record subtyping).
func (r *Registry) objectSubtypeRecord(a *ObjectType, b *RecordType) bool {
	for _, k := range b.Keys {
		var prop *Property
		for cur := a; cur != nil && prop == nil; cur = protoObject(cur.ImplicitPrototype) {
			prop, _ = cur.GetOwnProperty(k)
		}
		if prop == nil || !r.Subtype(prop.Type, b.Fields[k]) {
			return false
		}
	}
	return true
}

// recordSubtype implements record-to-record width-and-depth subtyping:
// every field b declares must exist on a with a subtype value. a may
// declare extra fields.
func (r *Registry) recordSubtype(a, b *RecordType) bool {
	for _, k := range b.Keys {
		av, ok := a.Fields[k]
		if !ok {
			return false
		}
		if !r.Subtype(av, b.Fields[k]) {
			return false
		}
	}
	return true
}

// functionSubtype implements rule 7: contravariant parameters, covariant
// return and this-type, with arity slack only when the supertype is
// variadic or the extra parameters are optional. This core has no
// optional-parameter tracking on FunctionType, so arity must match unless
// the supertype is variadic.
func (r *Registry) functionSubtype(a, b *FunctionType) bool {
	if !b.IsVariadic && len(a.Params) != len(b.Params) {
		return false
	}
	n := len(b.Params)
	if b.IsVariadic && len(a.Params) < n {
		n = len(a.Params)
	}
	for i := 0; i < n; i++ {
		// Contravariant: b's param must be a subtype of a's param.
		if !r.Subtype(b.Params[i], a.Params[i]) {
			return false
		}
	}
	if a.Return != nil && b.Return != nil && !r.Subtype(a.Return, b.Return) {
		return false
	}
	if a.This != nil && b.This != nil && !r.Subtype(a.This, b.This) {
		return false
	}
	return true
}

// resolveForLattice dereferences a resolved Named type, or substitutes
// Unknown for an unresolved one, so Join/Meet never have to special-case
// Named directly (Subtype does its own Named handling inline since it
// needs the ordered-rule structure).
func (r *Registry) resolveForLattice(t Type) Type {
	if n, ok := t.(*NamedType); ok {
		return r.derefOrUnknown(n)
	}
	return t
}

// Join returns the least supertype of a and b.
func (r *Registry) Join(a, b Type) Type {
	if a == nil {
		return b
	}
	if b == nil {
		return a
	}
	a = r.resolveForLattice(a)
	b = r.resolveForLattice(b)
	if ua, ok := a.(*UnionType); ok {
		return r.joinInto(ua.Alternates, b)
	}
	if ub, ok := b.(*UnionType); ok {
		return r.joinInto(ub.Alternates, a)
	}
	if isKind(a, KindAll) || isKind(b, KindAll) {
		return r.All()
	}
	if isKind(a, KindNo) {
		return b
	}
	if isKind(b, KindNo) {
		return a
	}
	if r.Subtype(a, b) {
		return b
	}
	if r.Subtype(b, a) {
		return a
	}
	if commonAncestor := r.commonNominalAncestor(a, b); commonAncestor != nil {
		return commonAncestor
	}
	return NormalizeUnion([]Type{a, b})
}

func (r *Registry) joinInto(alts []Type, t Type) Type {
	return NormalizeUnion(append(append([]Type(nil), alts...), t))
}

// commonNominalAncestor collapses a join of two instances of the same
// nominal hierarchy to their common ancestor, rather than keeping a
// union, when their prototype chains actually meet.
func (r *Registry) commonNominalAncestor(a, b Type) Type {
	oa := protoObject(a)
	ob := protoObject(b)
	if oa == nil || ob == nil {
		return nil
	}
	ancestorsOfA := map[*ObjectType]bool{}
	for cur := oa; cur != nil; cur = protoObject(cur.ImplicitPrototype) {
		ancestorsOfA[cur] = true
	}
	for cur := ob; cur != nil; cur = protoObject(cur.ImplicitPrototype) {
		if ancestorsOfA[cur] {
			return cur
		}
	}
	return nil
}

// Meet returns the greatest subtype of a and b.
func (r *Registry) Meet(a, b Type) Type {
	a = r.resolveForLattice(a)
	b = r.resolveForLattice(b)
	if isKind(a, KindUnknown) {
		if a == b {
			return a
		}
		return b
	}
	if isKind(b, KindUnknown) {
		return a
	}
	if r.Subtype(a, b) {
		return a
	}
	if r.Subtype(b, a) {
		return b
	}
	if isObjectLike(a) && isObjectLike(b) {
		return r.NoObject()
	}
	return r.No()
}
