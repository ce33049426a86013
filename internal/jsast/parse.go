package jsast

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	sitter "github.com/smacker/go-tree-sitter"
)

// Parse parses src with the grammar for language and builds its syntax
// model. The tree-sitter tree is released before Parse returns; the File
// holds no references into it.
func Parse(ctx context.Context, path string, src []byte, language string) (*File, error) {
	grammar, ok := GrammarForLanguage(language)
	if !ok {
		return nil, fmt.Errorf("jsast: %q: %w", language, ErrUnsupportedLanguage)
	}

	parser := sitter.NewParser()
	defer parser.Close()
	parser.SetLanguage(grammar)

	tree, err := parser.ParseCtx(ctx, nil, src)
	if err != nil {
		return nil, fmt.Errorf("jsast: parse %s: %w", path, err)
	}
	defer tree.Close()

	b := &builder{
		src: src,
		file: &File{
			Path:     path,
			Language: language,
			Lines:    bytes.Count(src, []byte{'\n'}) + 1,
			Scope:    NewScope(nil),
		},
		imports: make(map[string]bool),
	}
	b.file.Body = b.stmtList(tree.RootNode(), b.file.Scope)
	b.finish()
	return b.file, nil
}

// statementTypes are the tree-sitter node types dispatched through stmt when
// met outside a statement list.
var statementTypes = map[string]bool{
	"expression_statement":           true,
	"lexical_declaration":            true,
	"variable_declaration":           true,
	"class_declaration":              true,
	"abstract_class_declaration":     true,
	"function_declaration":           true,
	"generator_function_declaration": true,
	"export_statement":               true,
	"import_statement":               true,
	"if_statement":                   true,
	"for_statement":                  true,
	"for_in_statement":               true,
	"while_statement":                true,
	"do_statement":                   true,
	"try_statement":                  true,
	"with_statement":                 true,
	"switch_statement":               true,
	"return_statement":               true,
	"throw_statement":                true,
	"labeled_statement":              true,
	"empty_statement":                true,
}

// typeOnly nodes never contain runtime classes or bindings.
var typeOnly = map[string]bool{
	"type_annotation":        true,
	"type_arguments":         true,
	"type_parameters":        true,
	"type_alias_declaration": true,
	"interface_declaration":  true,
	"implements_clause":      true,
}

var functionTypes = map[string]bool{
	"function":            true,
	"function_expression": true,
	"generator_function":  true,
	"arrow_function":      true,
}

type pendingAssign struct {
	scope *Scope
	name  string
	value Expr
}

type builder struct {
	src     []byte
	file    *File
	assigns []pendingAssign
	imports map[string]bool
}

func (b *builder) text(n *sitter.Node) string {
	return n.Content(b.src)
}

func span(n *sitter.Node) Span {
	start, end := n.StartPoint(), n.EndPoint()
	return Span{
		StartLine: int(start.Row) + 1,
		StartCol:  int(start.Column) + 1,
		EndLine:   int(end.Row) + 1,
		EndCol:    int(end.Column) + 1,
	}
}

// namedChildren returns the named children of n, comments excluded.
func namedChildren(n *sitter.Node) []*sitter.Node {
	count := int(n.NamedChildCount())
	out := make([]*sitter.Node, 0, count)
	for i := 0; i < count; i++ {
		c := n.NamedChild(i)
		if c == nil || c.Type() == "comment" {
			continue
		}
		out = append(out, c)
	}
	return out
}

func firstNamed(n *sitter.Node) *sitter.Node {
	if kids := namedChildren(n); len(kids) > 0 {
		return kids[0]
	}
	return nil
}

func lastNamed(n *sitter.Node) *sitter.Node {
	if kids := namedChildren(n); len(kids) > 0 {
		return kids[len(kids)-1]
	}
	return nil
}

// modifiersBefore returns the token types that precede stop among n's
// children.
func modifiersBefore(n, stop *sitter.Node) []string {
	var mods []string
	for i := 0; i < int(n.ChildCount()); i++ {
		c := n.Child(i)
		if stop != nil && c.StartByte() >= stop.StartByte() {
			break
		}
		mods = append(mods, c.Type())
	}
	return mods
}

func unquote(s string) string {
	if len(s) >= 2 {
		q := s[0]
		if (q == '"' || q == '\'' || q == '`') && s[len(s)-1] == q {
			return s[1 : len(s)-1]
		}
	}
	return s
}

func (b *builder) comment(n *sitter.Node) *Comment {
	text := b.text(n)
	c := &Comment{Span: span(n), Text: text}
	switch {
	case strings.HasPrefix(text, "/*"):
		c.Block = true
		c.Value = strings.TrimSuffix(strings.TrimPrefix(text, "/*"), "*/")
	case strings.HasPrefix(text, "//"):
		c.Value = strings.TrimPrefix(text, "//")
	default:
		c.Value = text
	}
	return c
}

func (b *builder) addImport(source string) {
	if source == "" || b.imports[source] {
		return
	}
	b.imports[source] = true
	b.file.Imports = append(b.file.Imports, source)
}

// stmtList builds the statements of a program or block. Comments since the
// previous statement become the next statement's leading comments.
func (b *builder) stmtList(n *sitter.Node, scope *Scope) []Stmt {
	var (
		items   []Stmt
		pending []*Comment
		classes []*Class
	)
	for i := 0; i < int(n.NamedChildCount()); i++ {
		child := n.NamedChild(i)
		if child.Type() == "comment" {
			pending = append(pending, b.comment(child))
			continue
		}
		st := b.stmt(child, scope)
		if s, ok := st.(interface{ setComments([]*Comment) }); ok && len(pending) > 0 {
			s.setComments(pending)
		}
		pending = nil
		items = append(items, st)
		if c, ok := st.(*Class); ok {
			classes = append(classes, c)
		}
	}
	ctx := &ListContext{Items: items}
	for _, c := range classes {
		c.Context = ctx
	}
	return items
}

func (b *builder) stmt(n *sitter.Node, scope *Scope) Stmt {
	switch n.Type() {
	case "import_statement":
		return b.importDecl(n, scope)
	case "lexical_declaration", "variable_declaration":
		return b.varDecl(n, scope)
	case "export_statement":
		return b.exportStmt(n, scope)
	case "expression_statement":
		st := &ExprStmt{Span: span(n)}
		if x := firstNamed(n); x != nil {
			st.X = b.expr(x, scope, st)
		}
		return st
	case "class_declaration", "abstract_class_declaration":
		c := b.class(n, scope, ClassDeclaration, nil)
		if c.Name != "" {
			scope.Declare(&Binding{Name: c.Name, Kind: BindClass, Node: c})
		}
		return c
	case "function_declaration", "generator_function_declaration":
		fd := &FuncDecl{Span: span(n)}
		if name := n.ChildByFieldName("name"); name != nil {
			fd.Name = b.text(name)
			scope.Declare(&Binding{Name: fd.Name, Kind: BindFunction, Node: fd})
		}
		b.function(n, scope, fd)
		return fd
	case "statement_block":
		st := &OtherStmt{Span: span(n), Type: n.Type()}
		b.stmtList(n, NewScope(scope))
		return st
	default:
		st := &OtherStmt{Span: span(n), Type: n.Type()}
		b.walk(n, scope, st)
		return st
	}
}

// walk visits the children of a node the model does not represent, so that
// nested scopes, bindings and classes are still collected.
func (b *builder) walk(n *sitter.Node, scope *Scope, parent Node) {
	for _, c := range namedChildren(n) {
		switch {
		case typeOnly[c.Type()]:
		case c.Type() == "statement_block":
			b.stmtList(c, NewScope(scope))
		case statementTypes[c.Type()]:
			st := b.stmt(c, scope)
			if cl, ok := st.(*Class); ok && cl.Context == nil {
				cl.Context = &SingleContext{Decl: parent}
			}
		default:
			b.expr(c, scope, parent)
		}
	}
}

func (b *builder) importDecl(n *sitter.Node, scope *Scope) *ImportDecl {
	imp := &ImportDecl{Span: span(n)}
	if src := n.ChildByFieldName("source"); src != nil {
		imp.Source = unquote(b.text(src))
	}
	for _, c := range namedChildren(n) {
		switch c.Type() {
		case "import_clause":
			for _, part := range namedChildren(c) {
				b.importClause(part, imp)
			}
		case "import_require_clause":
			// import x = require('y')
			if id := firstNamed(c); id != nil && id.Type() == "identifier" {
				imp.Specs = append(imp.Specs, &ImportSpec{
					Span: span(id), Kind: ImportNamespace, Imported: "*", Local: b.text(id), Decl: imp,
				})
			}
			if src := c.ChildByFieldName("source"); src != nil {
				imp.Source = unquote(b.text(src))
			}
		}
	}
	for _, spec := range imp.Specs {
		scope.Declare(&Binding{Name: spec.Local, Kind: BindImport, Import: spec})
	}
	b.addImport(imp.Source)
	return imp
}

func (b *builder) importClause(n *sitter.Node, imp *ImportDecl) {
	switch n.Type() {
	case "identifier":
		imp.Specs = append(imp.Specs, &ImportSpec{
			Span: span(n), Kind: ImportDefault, Imported: "default", Local: b.text(n), Decl: imp,
		})
	case "namespace_import":
		if id := firstNamed(n); id != nil {
			imp.Specs = append(imp.Specs, &ImportSpec{
				Span: span(n), Kind: ImportNamespace, Imported: "*", Local: b.text(id), Decl: imp,
			})
		}
	case "named_imports":
		for _, spec := range namedChildren(n) {
			if spec.Type() != "import_specifier" {
				continue
			}
			name := spec.ChildByFieldName("name")
			if name == nil {
				continue
			}
			s := &ImportSpec{Span: span(spec), Kind: ImportNamed, Imported: unquote(b.text(name)), Decl: imp}
			s.Local = s.Imported
			if alias := spec.ChildByFieldName("alias"); alias != nil {
				s.Local = b.text(alias)
			}
			imp.Specs = append(imp.Specs, s)
		}
	}
}

func (b *builder) varDecl(n *sitter.Node, scope *Scope) *VarDecl {
	vd := &VarDecl{Span: span(n)}
	if n.ChildCount() > 0 {
		vd.Kind = n.Child(0).Type()
	}
	for _, c := range namedChildren(n) {
		if c.Type() != "variable_declarator" {
			continue
		}
		d := &Declarator{Span: span(c)}
		if value := c.ChildByFieldName("value"); value != nil {
			d.Init = b.expr(value, scope, d)
		}
		name := c.ChildByFieldName("name")
		switch {
		case name == nil:
		case name.Type() == "identifier":
			d.Name = b.text(name)
			scope.Declare(&Binding{Name: d.Name, Kind: BindVar, Init: d.Init})
		default:
			b.bindPattern(name, scope, BindVar, d.Init)
		}
		vd.Decls = append(vd.Decls, d)
	}
	return vd
}

func (b *builder) exportStmt(n *sitter.Node, scope *Scope) *ExportStmt {
	ex := &ExportStmt{Span: span(n)}
	namespaced := false
	for i := 0; i < int(n.ChildCount()); i++ {
		switch n.Child(i).Type() {
		case "default":
			ex.Default = true
		case "*":
			ex.Star = true
		case "namespace_export":
			namespaced = true
		}
	}
	if decl := n.ChildByFieldName("declaration"); decl != nil {
		ex.Decl = b.stmt(decl, scope)
		if c, ok := ex.Decl.(*Class); ok {
			c.Context = &SingleContext{Decl: ex}
		}
	}
	if value := n.ChildByFieldName("value"); value != nil {
		ex.Value = b.expr(value, scope, ex)
	}
	if src := n.ChildByFieldName("source"); src != nil {
		ex.Source = unquote(b.text(src))
		b.addImport(ex.Source)
	}

	defaultPassthrough := false
	for _, c := range namedChildren(n) {
		if c.Type() != "export_clause" {
			continue
		}
		for _, spec := range namedChildren(c) {
			if spec.Type() != "export_specifier" {
				continue
			}
			name := spec.ChildByFieldName("name")
			if name == nil {
				continue
			}
			local := unquote(b.text(name))
			exported := local
			if alias := spec.ChildByFieldName("alias"); alias != nil {
				exported = unquote(b.text(alias))
			}
			ex.Names = append(ex.Names, exported)
			if local == "default" && exported == "default" {
				defaultPassthrough = true
			}
		}
	}

	if ex.Source != "" && scope == b.file.Scope && b.file.Reexport == "" {
		if (ex.Star && !namespaced) || defaultPassthrough {
			b.file.Reexport = ex.Source
		}
	}
	return ex
}

func (b *builder) expr(n *sitter.Node, scope *Scope, parent Node) Expr {
	switch n.Type() {
	case "identifier", "shorthand_property_identifier":
		return &Ident{Span: span(n), Name: b.text(n)}
	case "parenthesized_expression", "as_expression", "satisfies_expression", "non_null_expression":
		if inner := firstNamed(n); inner != nil {
			return b.expr(inner, scope, parent)
		}
	case "type_assertion":
		if inner := lastNamed(n); inner != nil {
			return b.expr(inner, scope, parent)
		}
	case "member_expression":
		m := &MemberExpr{Span: span(n)}
		if obj := n.ChildByFieldName("object"); obj != nil {
			m.Object = b.expr(obj, scope, m)
		}
		if prop := n.ChildByFieldName("property"); prop != nil {
			m.Property = b.text(prop)
		}
		return m
	case "subscript_expression":
		m := &MemberExpr{Span: span(n), Computed: true}
		if obj := n.ChildByFieldName("object"); obj != nil {
			m.Object = b.expr(obj, scope, m)
		}
		if idx := n.ChildByFieldName("index"); idx != nil {
			m.Index = b.expr(idx, scope, m)
		}
		return m
	case "call_expression":
		return b.call(n, scope)
	case "string":
		return &StringLit{Span: span(n), Value: unquote(b.text(n))}
	case "object":
		return b.object(n, scope)
	case "assignment_expression":
		return b.assign(n, scope)
	case "class":
		return b.class(n, scope, ClassExpression, parent)
	}

	o := &OtherExpr{Span: span(n), Type: n.Type()}
	if functionTypes[n.Type()] {
		b.function(n, scope, o)
	} else {
		b.walk(n, scope, o)
	}
	return o
}

func (b *builder) call(n *sitter.Node, scope *Scope) *CallExpr {
	c := &CallExpr{Span: span(n)}
	if fn := n.ChildByFieldName("function"); fn != nil {
		c.Callee = b.expr(fn, scope, c)
	}
	if args := n.ChildByFieldName("arguments"); args != nil {
		if args.Type() == "arguments" {
			for _, a := range namedChildren(args) {
				c.Args = append(c.Args, b.expr(a, scope, c))
			}
		} else {
			b.walk(args, scope, c)
		}
	}
	if source, ok := RequireSource(c); ok {
		b.addImport(source)
	}
	return c
}

func (b *builder) assign(n *sitter.Node, scope *Scope) *AssignExpr {
	a := &AssignExpr{Span: span(n)}
	if left := n.ChildByFieldName("left"); left != nil {
		a.Left = b.expr(left, scope, a)
	}
	if right := n.ChildByFieldName("right"); right != nil {
		a.Right = b.expr(right, scope, a)
	}
	if id, ok := a.Left.(*Ident); ok && a.Right != nil {
		b.assigns = append(b.assigns, pendingAssign{scope: scope, name: id.Name, value: a.Right})
	}

	// module.exports = require('m')
	if scope == b.file.Scope && b.file.Reexport == "" {
		if m, ok := a.Left.(*MemberExpr); ok && !m.Computed && m.Property == "exports" {
			if obj, ok := m.Object.(*Ident); ok && obj.Name == "module" {
				if call, ok := a.Right.(*CallExpr); ok {
					if source, ok := RequireSource(call); ok {
						b.file.Reexport = source
					}
				}
			}
		}
	}
	return a
}

func (b *builder) object(n *sitter.Node, scope *Scope) *ObjectLit {
	o := &ObjectLit{Span: span(n)}
	for _, c := range namedChildren(n) {
		switch c.Type() {
		case "pair":
			key := c.ChildByFieldName("key")
			if key == nil {
				continue
			}
			k := b.key(key)
			p := &ObjectProp{Key: k.Name, Computed: k.Kind == KeyComputed}
			if value := c.ChildByFieldName("value"); value != nil {
				p.Value = b.expr(value, scope, o)
			}
			o.Props = append(o.Props, p)
		case "shorthand_property_identifier":
			o.Props = append(o.Props, &ObjectProp{
				Key:   b.text(c),
				Value: &Ident{Span: span(c), Name: b.text(c)},
			})
		case "method_definition":
			k := b.key(c.ChildByFieldName("name"))
			fn := &OtherExpr{Span: span(c), Type: c.Type()}
			b.function(c, scope, fn)
			o.Props = append(o.Props, &ObjectProp{Key: k.Name, Computed: k.Kind == KeyComputed, Value: fn})
		default:
			b.expr(c, scope, o)
		}
	}
	return o
}

// function builds the parameter scope and body of any function-like node.
func (b *builder) function(n *sitter.Node, scope *Scope, parent Node) *Scope {
	fs := NewScope(scope)
	if params := n.ChildByFieldName("parameters"); params != nil {
		b.params(params, fs)
	} else if param := n.ChildByFieldName("parameter"); param != nil {
		b.bindPattern(param, fs, BindParam, nil)
	}
	if body := n.ChildByFieldName("body"); body != nil {
		if body.Type() == "statement_block" {
			b.stmtList(body, fs)
		} else {
			b.expr(body, fs, parent)
		}
	}
	return fs
}

func (b *builder) params(n *sitter.Node, fs *Scope) {
	for _, p := range namedChildren(n) {
		switch p.Type() {
		case "assignment_pattern":
			var def Expr
			if right := p.ChildByFieldName("right"); right != nil {
				def = b.expr(right, fs, nil)
			}
			if left := p.ChildByFieldName("left"); left != nil {
				b.bindPattern(left, fs, BindParam, def)
			}
		case "required_parameter", "optional_parameter":
			var def Expr
			if value := p.ChildByFieldName("value"); value != nil {
				def = b.expr(value, fs, nil)
			}
			if pattern := p.ChildByFieldName("pattern"); pattern != nil {
				b.bindPattern(pattern, fs, BindParam, def)
			}
		case "decorator":
		default:
			b.bindPattern(p, fs, BindParam, nil)
		}
	}
}

// bindPattern declares every name in a binding pattern. Names bound by
// object destructuring receive a synthetic member read of init.
func (b *builder) bindPattern(n *sitter.Node, scope *Scope, kind BindingKind, init Expr) {
	switch n.Type() {
	case "identifier", "shorthand_property_identifier_pattern":
		scope.Declare(&Binding{Name: b.text(n), Kind: kind, Init: init})
	case "object_pattern":
		for _, c := range namedChildren(n) {
			switch c.Type() {
			case "shorthand_property_identifier_pattern":
				name := b.text(c)
				scope.Declare(&Binding{Name: name, Kind: kind, Init: memberOf(init, name)})
			case "pair_pattern":
				key, value := c.ChildByFieldName("key"), c.ChildByFieldName("value")
				if key == nil || value == nil {
					continue
				}
				k := b.key(key)
				var sub Expr
				if k.Kind != KeyComputed {
					sub = memberOf(init, k.Name)
				}
				b.bindPattern(value, scope, kind, sub)
			case "object_assignment_pattern":
				left := c.ChildByFieldName("left")
				if left == nil {
					continue
				}
				sub := memberOf(init, b.text(left))
				if sub == nil {
					if right := c.ChildByFieldName("right"); right != nil {
						sub = b.expr(right, scope, nil)
					}
				}
				b.bindPattern(left, scope, kind, sub)
			default:
				b.bindPattern(c, scope, kind, nil)
			}
		}
	case "assignment_pattern":
		left := n.ChildByFieldName("left")
		if left == nil {
			return
		}
		if init == nil {
			if right := n.ChildByFieldName("right"); right != nil {
				init = b.expr(right, scope, nil)
			}
		}
		b.bindPattern(left, scope, kind, init)
	case "array_pattern", "rest_pattern":
		for _, c := range namedChildren(n) {
			b.bindPattern(c, scope, kind, nil)
		}
	}
}

func memberOf(object Expr, name string) Expr {
	if object == nil || name == "" {
		return nil
	}
	return &MemberExpr{Span: object.Pos(), Object: object, Property: name}
}

func (b *builder) key(n *sitter.Node) PropertyKey {
	if n == nil {
		return PropertyKey{}
	}
	switch n.Type() {
	case "private_property_identifier":
		return PropertyKey{Kind: KeyPrivate, Name: b.text(n)}
	case "string":
		return PropertyKey{Kind: KeyString, Name: unquote(b.text(n))}
	case "number":
		return PropertyKey{Kind: KeyNumber, Name: b.text(n)}
	case "computed_property_name":
		return PropertyKey{Kind: KeyComputed, Name: b.text(n)}
	default:
		return PropertyKey{Kind: KeyIdentifier, Name: b.text(n)}
	}
}

func (b *builder) class(n *sitter.Node, scope *Scope, kind ClassKind, parent Node) *Class {
	c := &Class{Span: span(n), Kind: kind, Scope: scope}
	if name := n.ChildByFieldName("name"); name != nil {
		c.Name = b.text(name)
	}
	if parent != nil {
		c.Context = &SingleContext{Decl: parent}
	}
	b.file.Classes = append(b.file.Classes, c)

	inner := NewScope(scope)
	if kind == ClassExpression && c.Name != "" {
		inner.Declare(&Binding{Name: c.Name, Kind: BindClass, Node: c})
	}
	for _, child := range namedChildren(n) {
		switch child.Type() {
		case "class_heritage":
			c.SuperClass, c.SuperText = b.heritage(child, scope, c)
		case "class_body":
			c.Body = b.classBody(child, inner)
		}
	}
	return c
}

// heritage returns the extended expression. TypeScript wraps it in an
// extends_clause; JavaScript places it directly under class_heritage.
func (b *builder) heritage(n *sitter.Node, scope *Scope, c *Class) (Expr, string) {
	target := firstNamed(n)
	if target == nil {
		return nil, ""
	}
	switch target.Type() {
	case "extends_clause":
		value := target.ChildByFieldName("value")
		if value == nil {
			value = firstNamed(target)
		}
		if value == nil {
			return nil, ""
		}
		target = value
	case "implements_clause":
		return nil, ""
	}
	return b.expr(target, scope, c), b.text(target)
}

func (b *builder) classBody(n *sitter.Node, scope *Scope) []ClassMember {
	var members []ClassMember
	for _, m := range namedChildren(n) {
		switch m.Type() {
		case "decorator":
		case "method_definition":
			members = append(members, b.method(m, scope))
		case "field_definition", "public_field_definition":
			members = append(members, b.field(m, scope))
		default:
			other := &OtherMember{Span: span(m), Type: m.Type()}
			b.walk(m, NewScope(scope), other)
			members = append(members, other)
		}
	}
	return members
}

func (b *builder) method(n *sitter.Node, scope *Scope) *MethodDef {
	md := &MethodDef{Span: span(n), Kind: MethodKindMethod}
	name := n.ChildByFieldName("name")
	for _, mod := range modifiersBefore(n, name) {
		switch mod {
		case "static":
			md.Static = true
		case "static get":
			md.Static = true
			md.Kind = MethodKindGet
		case "get":
			md.Kind = MethodKindGet
		case "set":
			md.Kind = MethodKindSet
		}
	}
	md.Key = b.key(name)
	md.Computed = md.Key.Kind == KeyComputed
	if md.Kind == MethodKindMethod && !md.Static && md.Key.Kind == KeyIdentifier && md.Key.Name == "constructor" {
		md.Kind = MethodKindConstructor
	}
	b.function(n, scope, md)
	return md
}

func (b *builder) field(n *sitter.Node, scope *Scope) *PropertyDef {
	name := n.ChildByFieldName("property")
	if name == nil {
		name = n.ChildByFieldName("name")
	}
	pd := &PropertyDef{Span: span(n), Key: b.key(name)}
	pd.Computed = pd.Key.Kind == KeyComputed
	for _, mod := range modifiersBefore(n, name) {
		if mod == "static" {
			pd.Static = true
		}
	}
	if value := n.ChildByFieldName("value"); value != nil {
		b.expr(value, NewScope(scope), pd)
	}
	return pd
}

// finish attaches recorded plain assignments to the bindings they target.
func (b *builder) finish() {
	for _, a := range b.assigns {
		bd := a.scope.Lookup(a.name)
		if bd == nil || (bd.Kind != BindVar && bd.Kind != BindParam) {
			continue
		}
		bd.Assigned = append(bd.Assigned, a.value)
	}
}

// RequireSource reports the module of a `require('m')` call.
func RequireSource(c *CallExpr) (string, bool) {
	callee, ok := c.Callee.(*Ident)
	if !ok || callee.Name != "require" || len(c.Args) == 0 {
		return "", false
	}
	lit, ok := c.Args[0].(*StringLit)
	if !ok {
		return "", false
	}
	return lit.Value, true
}
