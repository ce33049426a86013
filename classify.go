package docscan

import (
	"fmt"
	"regexp"

	"github.com/jward/docscan/internal/jsast"
	"github.com/jward/docscan/internal/resolve"
)

// SymbolResolver follows an expression through local bindings to the node
// that produced its value. It returns false when the chain ends in
// something that cannot be determined without evaluation.
type SymbolResolver interface {
	ResolveToValue(expr jsast.Expr, scope *jsast.Scope) (resolve.Value, bool)
}

// ModuleResolver names the module a resolved value was imported from. It
// returns false for locally defined values.
type ModuleResolver interface {
	ResolveToModule(v resolve.Value) (string, bool)
}

// Rule identifies which check classified a class as a component.
type Rule int

const (
	RuleNone Rule = iota
	RuleRenderMethod
	RuleDocblock
	RuleSuperclass
)

var ruleNames = [...]string{
	RuleNone:         "none",
	RuleRenderMethod: "render-method",
	RuleDocblock:     "docblock",
	RuleSuperclass:   "superclass",
}

func (r Rule) String() string {
	if r < 0 || int(r) >= len(ruleNames) {
		return fmt.Sprintf("Rule(%d)", int(r))
	}
	return ruleNames[r]
}

// ParseRule is the inverse of Rule.String.
func ParseRule(s string) (Rule, error) {
	for i, name := range ruleNames {
		if name == s {
			return Rule(i), nil
		}
	}
	return RuleNone, fmt.Errorf("docscan: unknown rule %q", s)
}

// DefaultModuleNames are the module names recognized as React itself.
var DefaultModuleNames = []string{
	"react",
	"react/addons",
	"react-native",
	"proptypes",
	"prop-types",
}

var extendsDocblock = regexp.MustCompile(`@extends React.Component`)

// componentProperty is the member name a superclass must read.
const componentProperty = "Component"

// Classifier decides whether class nodes are React component classes. It
// holds no per-call state and is safe for concurrent use as long as the
// syntax tree and resolvers are not mutated.
type Classifier struct {
	symbols SymbolResolver
	modules ModuleResolver
	names   map[string]bool
}

// NewClassifier returns a Classifier backed by the given resolvers. An empty
// moduleNames selects DefaultModuleNames. Membership is exact and
// case-sensitive.
func NewClassifier(symbols SymbolResolver, modules ModuleResolver, moduleNames []string) *Classifier {
	if len(moduleNames) == 0 {
		moduleNames = DefaultModuleNames
	}
	names := make(map[string]bool, len(moduleNames))
	for _, n := range moduleNames {
		names[n] = true
	}
	return &Classifier{symbols: symbols, modules: modules, names: names}
}

// IsModuleName reports whether name is in the classifier's allow-list.
func (c *Classifier) IsModuleName(name string) bool {
	return c.names[name]
}

// IsComponentClass reports whether node is a component class.
func (c *Classifier) IsComponentClass(node jsast.Node) bool {
	return c.Classify(node) != RuleNone
}

// Classify returns the first rule that matches node, or RuleNone. Nodes
// other than class declarations and expressions are never components.
func (c *Classifier) Classify(node jsast.Node) Rule {
	class, ok := node.(*jsast.Class)
	if !ok || class == nil {
		return RuleNone
	}
	if hasRenderMember(class) {
		return RuleRenderMethod
	}
	if hasExtendsDocblock(class) {
		return RuleDocblock
	}
	if c.extendsComponent(class) {
		return RuleSuperclass
	}
	return RuleNone
}

// IsComponentClass classifies node with the default module allow-list.
func IsComponentClass(node jsast.Node, symbols SymbolResolver, modules ModuleResolver) bool {
	return NewClassifier(symbols, modules, nil).IsComponentClass(node)
}

func hasRenderMember(class *jsast.Class) bool {
	for _, m := range class.Body {
		if isRenderMember(m) {
			return true
		}
	}
	return false
}

func isRenderMember(m jsast.ClassMember) bool {
	switch m := m.(type) {
	case *jsast.MethodDef:
		if m == nil || m.Computed || m.Static {
			return false
		}
		if m.Kind != jsast.MethodKindUnset && m.Kind != jsast.MethodKindMethod {
			return false
		}
		return isRenderKey(m.Key)
	case *jsast.PropertyDef:
		if m == nil || m.Computed || m.Static {
			return false
		}
		return isRenderKey(m.Key)
	}
	return false
}

func isRenderKey(k jsast.PropertyKey) bool {
	return k.Kind == jsast.KeyIdentifier && k.Name == "render"
}

// hasExtendsDocblock checks the declaration that encloses the class. In a
// statement list that is the first class declaration of the list, which
// need not be the class itself.
func hasExtendsDocblock(class *jsast.Class) bool {
	decl := enclosingDeclaration(class.Context)
	if decl == nil {
		return false
	}
	for _, cm := range decl.LeadingComments() {
		if cm != nil && extendsDocblock.MatchString(cm.Value) {
			return true
		}
	}
	return false
}

func enclosingDeclaration(ctx jsast.DeclContext) jsast.Commented {
	switch ctx := ctx.(type) {
	case *jsast.ListContext:
		if ctx == nil {
			return nil
		}
		for _, item := range ctx.Items {
			if c, ok := item.(*jsast.Class); ok && c != nil && c.Kind == jsast.ClassDeclaration {
				return c
			}
		}
	case *jsast.SingleContext:
		if ctx == nil {
			return nil
		}
		if c, ok := ctx.Decl.(jsast.Commented); ok {
			return c
		}
	}
	return nil
}

func (c *Classifier) extendsComponent(class *jsast.Class) bool {
	if class.SuperClass == nil || c.symbols == nil || c.modules == nil {
		return false
	}
	value, ok := c.symbols.ResolveToValue(class.SuperClass, class.Scope)
	if !ok || !isComponentRead(value.Node) {
		return false
	}
	module, ok := c.modules.ResolveToModule(value)
	return ok && c.names[module]
}

// isComponentRead matches `<anything>.Component`.
func isComponentRead(n jsast.Node) bool {
	m, ok := n.(*jsast.MemberExpr)
	return ok && m != nil && !m.Computed && m.Property == componentProperty
}
