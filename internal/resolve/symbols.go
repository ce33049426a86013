// Package resolve follows identifiers to the expressions they denote and
// maps resolved values to the module they were imported from.
package resolve

import "github.com/jward/docscan/internal/jsast"

// Value is a resolved syntax node together with the scope its identifiers
// resolve in.
type Value struct {
	Node  jsast.Node
	Scope *jsast.Scope
}

// Symbols resolves expressions through lexical bindings.
type Symbols struct{}

// NewSymbols returns a resolver over the bindings recorded by jsast.
func NewSymbols() *Symbols { return &Symbols{} }

// ResolveToValue follows expr through variable initializers, single
// assignments, imports and object-literal property reads until it reaches
// something it cannot see through. It returns false when a binding holds no
// determinable value or the chain is cyclic.
func (s *Symbols) ResolveToValue(expr jsast.Expr, scope *jsast.Scope) (Value, bool) {
	if expr == nil {
		return Value{}, false
	}
	return s.resolve(expr, scope, make(map[*jsast.Binding]bool))
}

func (s *Symbols) resolve(n jsast.Node, scope *jsast.Scope, seen map[*jsast.Binding]bool) (Value, bool) {
	switch n := n.(type) {
	case *jsast.Ident:
		b := scope.Lookup(n.Name)
		if b == nil {
			// Globals resolve to themselves.
			return Value{Node: n, Scope: scope}, true
		}
		if seen[b] {
			return Value{}, false
		}
		seen[b] = true
		return s.binding(b, seen)

	case *jsast.MemberExpr:
		if n.Computed {
			return Value{Node: n, Scope: scope}, true
		}
		obj, ok := s.resolve(n.Object, scope, seen)
		if ok {
			if lit, isLit := obj.Node.(*jsast.ObjectLit); isLit {
				if p := lit.Prop(n.Property); p != nil && p.Value != nil {
					return s.resolve(p.Value, obj.Scope, seen)
				}
			}
		}
		return Value{Node: n, Scope: scope}, true

	case *jsast.AssignExpr:
		if n.Right == nil {
			return Value{}, false
		}
		return s.resolve(n.Right, scope, seen)

	default:
		return Value{Node: n, Scope: scope}, true
	}
}

func (s *Symbols) binding(b *jsast.Binding, seen map[*jsast.Binding]bool) (Value, bool) {
	switch b.Kind {
	case jsast.BindImport:
		if b.Import == nil {
			return Value{}, false
		}
		return Value{Node: b.Import, Scope: b.Scope}, true
	case jsast.BindClass, jsast.BindFunction:
		if b.Node == nil {
			return Value{}, false
		}
		return Value{Node: b.Node, Scope: b.Scope}, true
	default:
		v := b.Value()
		if v == nil {
			return Value{}, false
		}
		return s.resolve(v, b.Scope, seen)
	}
}
