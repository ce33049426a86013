package resolve

import (
	"path"
	"strings"

	"github.com/jward/docscan/internal/jsast"
)

// maxModuleDepth bounds member/identifier unwinding in ResolveToModule.
const maxModuleDepth = 32

// Modules maps resolved values of one file to module names.
type Modules struct {
	path      string
	symbols   *Symbols
	reexports Reexports
}

// NewModules returns a module resolver for the file at importer (a slash
// separated path relative to the scan root). reexports may be nil.
func NewModules(importer string, symbols *Symbols, reexports Reexports) *Modules {
	if symbols == nil {
		symbols = NewSymbols()
	}
	return &Modules{path: importer, symbols: symbols, reexports: reexports}
}

// ResolveToModule reports the module a value originates from: the source of
// an import, the argument of require(), or the module of the root object of
// a member chain. Relative sources of files that re-export another module
// wholesale are followed one hop.
func (m *Modules) ResolveToModule(v Value) (string, bool) {
	source, ok := m.module(v, 0)
	if !ok {
		return "", false
	}
	return m.follow(source), true
}

func (m *Modules) module(v Value, depth int) (string, bool) {
	if depth > maxModuleDepth {
		return "", false
	}
	switch n := v.Node.(type) {
	case *jsast.ImportSpec:
		if n.Decl == nil {
			return "", false
		}
		return n.Decl.Source, n.Decl.Source != ""
	case *jsast.ImportDecl:
		return n.Source, n.Source != ""
	case *jsast.CallExpr:
		source, ok := jsast.RequireSource(n)
		if !ok || v.Scope.Lookup("require") != nil {
			return "", false
		}
		return source, true
	case *jsast.MemberExpr:
		if n.Object == nil {
			return "", false
		}
		return m.module(Value{Node: n.Object, Scope: v.Scope}, depth+1)
	case *jsast.Ident:
		resolved, ok := m.symbols.ResolveToValue(n, v.Scope)
		if !ok {
			return "", false
		}
		if id, same := resolved.Node.(*jsast.Ident); same && id == n {
			return "", false
		}
		return m.module(resolved, depth+1)
	}
	return "", false
}

func (m *Modules) follow(source string) string {
	if m.reexports == nil {
		return source
	}
	key, ok := TargetKey(m.path, source)
	if !ok {
		return source
	}
	if target, ok := m.reexports[key]; ok {
		return target
	}
	return source
}

// TargetKey returns the module key a relative source imported from the file
// at importer refers to. Package sources have no key.
func TargetKey(importer, source string) (string, bool) {
	if !isRelative(source) {
		return "", false
	}
	return ModuleKey(path.Join(path.Dir(importer), source)), true
}

func isRelative(source string) bool {
	return source == "." || source == ".." ||
		strings.HasPrefix(source, "./") || strings.HasPrefix(source, "../")
}
