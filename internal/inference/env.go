package inference

import (
	"github.com/nuxleus/closure-compiler/internal/scope"
	"github.com/nuxleus/closure-compiler/internal/types"
)

// Env is the flow-sensitive type environment threaded through one
// function body's analysis: a local overlay of narrowed/assigned types
// on top of the declaring scope, consulted name-first before falling
// back to the scope chain. Cloning it per branch gives each side of an
// if/else its own view of a name's type without leaking into the other.
type Env struct {
	vars     map[string]types.Type
	scope    *scope.Scope
	registry *types.Registry
}

func newEnv(s *scope.Scope, r *types.Registry) *Env {
	return &Env{vars: map[string]types.Type{}, scope: s, registry: r}
}

// Clone copies the local overlay; the underlying scope and registry are
// shared, since they outlive any single branch.
func (e *Env) Clone() *Env {
	cp := make(map[string]types.Type, len(e.vars))
	for k, v := range e.vars {
		cp[k] = v
	}
	return &Env{vars: cp, scope: e.scope, registry: e.registry}
}

// Set records a flow-sensitive type for name in this environment only.
func (e *Env) Set(name string, t types.Type) {
	e.vars[name] = t
}

// TypeOf implements narrow.Env: the local overlay wins, else the
// declaring scope chain.
func (e *Env) TypeOf(name string) (types.Type, bool) {
	if t, ok := e.vars[name]; ok {
		return t, true
	}
	if v, _, ok := e.scope.Lookup(name); ok {
		return v.Type, true
	}
	return nil, false
}

// ConstructorOf implements narrow.Env: resolves a bare name to the
// constructor FunctionType it denotes, whether declared in-scope or
// registered nominally (e.g. a constructor declared in another file).
func (e *Env) ConstructorOf(name string) *types.FunctionType {
	if t, ok := e.TypeOf(name); ok {
		if fn, ok := types.Deref(t).(*types.FunctionType); ok {
			return fn
		}
	}
	if t, ok := e.registry.ResolveNamed(name); ok {
		if fn, ok := types.Deref(t).(*types.FunctionType); ok {
			return fn
		}
	}
	return nil
}

// joinEnv merges two branch environments into the type each name holds
// after the branches rejoin: a name touched by only one side is joined
// with the other side's view of it (that side's scope-chain type, since
// it didn't narrow the name), names touched by both join.
func joinEnv(r *types.Registry, a, b *Env) *Env {
	out := newEnv(a.scope, r)
	for k, v := range a.vars {
		if bv, ok := b.vars[k]; ok {
			out.vars[k] = r.Join(v, bv)
		} else if cur, ok := b.TypeOf(k); ok {
			out.vars[k] = r.Join(v, cur)
		} else {
			out.vars[k] = v
		}
	}
	for k, v := range b.vars {
		if _, done := out.vars[k]; done {
			continue
		}
		if cur, ok := a.TypeOf(k); ok {
			out.vars[k] = r.Join(v, cur)
		} else {
			out.vars[k] = v
		}
	}
	return out
}
