// Package scope implements the scope tree: a chain of variable tables
// linked to their enclosing scope, used by both the typed scope creator
// and the inference engine to declare and resolve names.
package scope

import (
	"github.com/nuxleus/closure-compiler/internal/ast"
	"github.com/nuxleus/closure-compiler/internal/types"
)

// Kind distinguishes the scope's role: a function scope introduces a new
// `this` and return-type context; a block scope (for/while/if bodies)
// does not, per this language's var-style (function-scoped) declarations.
type Kind int

const (
	KindGlobal Kind = iota
	KindFunction
	KindBlock
)

// Var is one declared name: its type slot, whether it was explicitly
// annotated (declared vars are never widened by inference), and the AST
// node that introduced it, for diagnostics.
type Var struct {
	Name     string
	Type     types.Type
	Declared bool
	Node     ast.Node
}

// Scope is one node of the scope tree. The root scope (Kind ==
// KindGlobal) has a nil Parent and is where GlobalThis and top-level
// declarations live.
type Scope struct {
	Parent *Scope
	Kind   Kind

	vars     map[string]*Var
	varOrder []string

	// ThisType is the type `this` resolves to within this scope and any
	// nested block scopes, until a deeper function scope overrides it.
	ThisType types.Type
}

// NewRoot creates the top-level (global) scope.
func NewRoot() *Scope {
	return &Scope{Kind: KindGlobal, vars: make(map[string]*Var)}
}

// NewEnclosed creates a scope nested inside parent.
func NewEnclosed(parent *Scope, kind Kind) *Scope {
	s := &Scope{Parent: parent, Kind: kind, vars: make(map[string]*Var)}
	if kind != KindFunction {
		s.ThisType = parent.ThisType
	}
	return s
}

// Root walks up to the outermost (global) scope.
func (s *Scope) Root() *Scope {
	cur := s
	for cur.Parent != nil {
		cur = cur.Parent
	}
	return cur
}

// IsGlobal reports whether this is the root scope.
func (s *Scope) IsGlobal() bool {
	return s.Parent == nil
}

// Declare installs name in this scope. A redeclaration in the same scope
// merges rather than shadows: a second declaration of the same name joins
// types instead of replacing, mirroring the property-merge rule the type
// registry applies to object properties — a declared type wins over an
// inferred one, and two declared types join.
func (s *Scope) Declare(r *types.Registry, name string, t types.Type, declared bool, node ast.Node) {
	existing, ok := s.vars[name]
	if !ok {
		s.vars[name] = &Var{Name: name, Type: t, Declared: declared, Node: node}
		s.varOrder = append(s.varOrder, name)
		return
	}
	switch {
	case existing.Declared && declared:
		existing.Type = r.Join(existing.Type, t)
	case existing.Declared && !declared:
		// declared shadows a later inferred redeclaration; no change.
	case !existing.Declared && declared:
		existing.Type = t
		existing.Declared = true
		existing.Node = node
	default:
		existing.Type = r.Join(existing.Type, t)
	}
}

// Lookup resolves name in this scope or any enclosing scope.
func (s *Scope) Lookup(name string) (*Var, *Scope, bool) {
	for cur := s; cur != nil; cur = cur.Parent {
		if v, ok := cur.vars[name]; ok {
			return v, cur, true
		}
	}
	return nil, nil, false
}

// LookupLocal resolves name only within this scope, without walking to
// the parent chain.
func (s *Scope) LookupLocal(name string) (*Var, bool) {
	v, ok := s.vars[name]
	return v, ok
}

// SetType updates the type of an already-declared name, wherever in the
// chain it lives, replacing rather than joining (the inference engine
// uses Widen instead).
func (s *Scope) SetType(name string, t types.Type) bool {
	if v, _, ok := s.Lookup(name); ok {
		v.Type = t
		return true
	}
	return false
}

// Widen folds t into name's tracked type wherever it's declared in the
// chain, joining rather than replacing — the inference engine calls this
// at every write so an inferred variable's final type is the join over
// all its assignments. A declared variable's type is fixed at
// declaration and is never widened.
func (s *Scope) Widen(r *types.Registry, name string, t types.Type) {
	v, _, ok := s.Lookup(name)
	if !ok || v.Declared {
		return
	}
	v.Type = r.Join(v.Type, t)
}

// Names returns the names declared directly in this scope, in
// declaration order.
func (s *Scope) Names() []string {
	out := make([]string, len(s.varOrder))
	copy(out, s.varOrder)
	return out
}
