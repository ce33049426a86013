package jsast

// BindingKind says how a name was introduced.
type BindingKind string

const (
	BindImport   BindingKind = "import"
	BindVar      BindingKind = "var"
	BindParam    BindingKind = "param"
	BindClass    BindingKind = "class"
	BindFunction BindingKind = "function"
)

// Binding is a name declared in a scope.
type Binding struct {
	Name string
	Kind BindingKind
	// Init is the initializer (or parameter default) expression.
	Init Expr
	// Assigned collects plain `name = expr` assignments seen anywhere the
	// binding is visible.
	Assigned []Expr
	// Import is set for BindImport.
	Import *ImportSpec
	// Node is the declaring class or function for BindClass/BindFunction.
	Node  Node
	Scope *Scope
}

// Value returns the expression the binding holds: its initializer, or its
// only assignment. It returns nil when the value cannot be determined
// without evaluating control flow.
func (b *Binding) Value() Expr {
	if b.Init != nil {
		return b.Init
	}
	if len(b.Assigned) == 1 {
		return b.Assigned[0]
	}
	return nil
}

// Scope is a lexical scope. Declarations are visible throughout the scope
// regardless of position.
type Scope struct {
	Parent   *Scope
	bindings map[string]*Binding
}

// NewScope creates a scope nested in parent (nil for the file scope).
func NewScope(parent *Scope) *Scope {
	return &Scope{Parent: parent, bindings: make(map[string]*Binding)}
}

// Declare adds b to the scope and returns it. A redeclaration replaces the
// earlier binding.
func (s *Scope) Declare(b *Binding) *Binding {
	if s.bindings == nil {
		s.bindings = make(map[string]*Binding)
	}
	b.Scope = s
	s.bindings[b.Name] = b
	return b
}

// Own returns the binding declared directly in s.
func (s *Scope) Own(name string) *Binding {
	if s == nil {
		return nil
	}
	return s.bindings[name]
}

// Lookup finds name in s or the nearest enclosing scope.
func (s *Scope) Lookup(name string) *Binding {
	for sc := s; sc != nil; sc = sc.Parent {
		if b, ok := sc.bindings[name]; ok {
			return b
		}
	}
	return nil
}
