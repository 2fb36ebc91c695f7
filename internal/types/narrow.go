package types

// BooleanOutcomes records which of {true, false} a value's boolean
// coercion can produce.
type BooleanOutcomes struct {
	CanBeTrue  bool
	CanBeFalse bool
}

func (o BooleanOutcomes) includes(outcome bool) bool {
	if outcome {
		return o.CanBeTrue
	}
	return o.CanBeFalse
}

func (o BooleanOutcomes) union(other BooleanOutcomes) BooleanOutcomes {
	return BooleanOutcomes{
		CanBeTrue:  o.CanBeTrue || other.CanBeTrue,
		CanBeFalse: o.CanBeFalse || other.CanBeFalse,
	}
}

// PossibleToBooleanOutcomes classifies which truthiness results t's
// values can produce: null/undefined are always false; objects are
// always true; number/string/boolean can be either; a union is the union
// of its alternates' outcome sets.
func (r *Registry) PossibleToBooleanOutcomes(t Type) BooleanOutcomes {
	t = Deref(t)
	if u, ok := t.(*UnionType); ok {
		var out BooleanOutcomes
		for _, alt := range u.Alternates {
			out = out.union(r.PossibleToBooleanOutcomes(alt))
		}
		return out
	}
	switch v := t.(type) {
	case *Primitive:
		switch v.Kind {
		case KindNull, KindVoid:
			return BooleanOutcomes{CanBeFalse: true}
		case KindNumber, KindString, KindBoolean:
			return BooleanOutcomes{CanBeTrue: true, CanBeFalse: true}
		default: // All, No, Unknown, NoObject: no information
			return BooleanOutcomes{CanBeTrue: true, CanBeFalse: true}
		}
	case *Boxed, *ObjectType, *FunctionType, *EnumType, *RecordType, *GlobalThisType:
		return BooleanOutcomes{CanBeTrue: true}
	default:
		return BooleanOutcomes{CanBeTrue: true, CanBeFalse: true}
	}
}

// RestrictByTruthy intersects t with the set of types whose possible
// boolean-coercion outcomes include outcome. A union keeps only the
// alternates consistent with outcome; a single type is kept unchanged if
// consistent, or narrowed to No if it can never produce outcome.
func (r *Registry) RestrictByTruthy(t Type, outcome bool) Type {
	deref := Deref(t)
	if u, ok := deref.(*UnionType); ok {
		kept := make([]Type, 0, len(u.Alternates))
		for _, alt := range u.Alternates {
			if r.PossibleToBooleanOutcomes(alt).includes(outcome) {
				kept = append(kept, alt)
			}
		}
		if len(kept) == 0 {
			return r.No()
		}
		return NormalizeUnion(kept)
	}
	if r.PossibleToBooleanOutcomes(deref).includes(outcome) {
		return t
	}
	return r.No()
}

// RestrictNotNullOrVoid removes Null and Void alternates from a union;
// non-union types pass through unchanged.
func (r *Registry) RestrictNotNullOrVoid(t Type) Type {
	u, ok := Deref(t).(*UnionType)
	if !ok {
		return t
	}
	kept := make([]Type, 0, len(u.Alternates))
	for _, alt := range u.Alternates {
		if isKind(alt, KindNull) || isKind(alt, KindVoid) {
			continue
		}
		kept = append(kept, alt)
	}
	if len(kept) == 0 {
		return r.No()
	}
	return NormalizeUnion(kept)
}

// RestrictToNullOrVoid keeps only the Null and Void alternates of a
// union (the complement of RestrictNotNullOrVoid), used on the `x ==
// null` true branch where x may statically include other alternates
// that loose equality to null rules out. A non-union type that is itself
// Null or Void passes through; anything else narrows to No.
func (r *Registry) RestrictToNullOrVoid(t Type) Type {
	deref := Deref(t)
	if u, ok := deref.(*UnionType); ok {
		kept := make([]Type, 0, 2)
		for _, alt := range u.Alternates {
			if isKind(alt, KindNull) || isKind(alt, KindVoid) {
				kept = append(kept, alt)
			}
		}
		if len(kept) == 0 {
			return r.No()
		}
		return NormalizeUnion(kept)
	}
	if isKind(deref, KindNull) || isKind(deref, KindVoid) {
		return t
	}
	return r.No()
}

// typeofTag returns the `typeof` result a value of type t would produce,
// or "" if t carries no typeof information (Unknown/All/No).
func typeofTag(t Type) string {
	switch v := Deref(t).(type) {
	case *Primitive:
		switch v.Kind {
		case KindNumber:
			return "number"
		case KindString:
			return "string"
		case KindBoolean:
			return "boolean"
		case KindVoid:
			return "undefined"
		case KindNull:
			return "object" // typeof null === "object"
		default:
			return ""
		}
	case *FunctionType:
		return "function"
	case *Boxed, *ObjectType, *EnumType, *RecordType, *GlobalThisType:
		return "object"
	default:
		return ""
	}
}

// RestrictByTypeof returns the alternate(s) of t whose typeof tag equals
// tag. Applied to a non-union type, it returns t unchanged if its tag
// matches and No otherwise.
func (r *Registry) RestrictByTypeof(t Type, tag string) Type {
	deref := Deref(t)
	if u, ok := deref.(*UnionType); ok {
		kept := make([]Type, 0, len(u.Alternates))
		for _, alt := range u.Alternates {
			if typeofTag(alt) == tag {
				kept = append(kept, alt)
			}
		}
		if len(kept) == 0 {
			return r.No()
		}
		return NormalizeUnion(kept)
	}
	if typeofTag(deref) == tag {
		return t
	}
	return r.No()
}

// RestrictByTypeofComplement is the complement used on the FALSE branch of
// `typeof x == "T"`: every alternate whose tag does NOT equal tag.
func (r *Registry) RestrictByTypeofComplement(t Type, tag string) Type {
	deref := Deref(t)
	if u, ok := deref.(*UnionType); ok {
		kept := make([]Type, 0, len(u.Alternates))
		for _, alt := range u.Alternates {
			if typeofTag(alt) != tag {
				kept = append(kept, alt)
			}
		}
		if len(kept) == 0 {
			return r.No()
		}
		return NormalizeUnion(kept)
	}
	if typeofTag(deref) != tag {
		return t
	}
	return r.No()
}

// MinusType removes a specific type from a union (the FALSE branch of
// `x instanceof C`): `x := minus(InstanceOf(C))`.
func (r *Registry) MinusType(t Type, remove Type) Type {
	deref := Deref(t)
	u, ok := deref.(*UnionType)
	if !ok {
		if r.Subtype(deref, remove) {
			return r.No()
		}
		return t
	}
	kept := make([]Type, 0, len(u.Alternates))
	for _, alt := range u.Alternates {
		if !r.Subtype(alt, remove) {
			kept = append(kept, alt)
		}
	}
	if len(kept) == 0 {
		return r.No()
	}
	return NormalizeUnion(kept)
}
