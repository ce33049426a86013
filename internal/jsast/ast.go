// Package jsast is a read-only syntax model for JavaScript and TypeScript
// sources, built from a tree-sitter parse. Node categories are sealed
// interfaces so consumers switch on concrete types instead of probing node
// type strings.
package jsast

// Span is a source range. Lines and columns are 1-based.
type Span struct {
	StartLine int
	StartCol  int
	EndLine   int
	EndCol    int
}

// Pos returns the span itself so embedding types satisfy Node.
func (s Span) Pos() Span { return s }

// Node is implemented by every syntax node.
type Node interface {
	Pos() Span
	node()
}

// Expr is an expression node.
type Expr interface {
	Node
	expr()
}

// Stmt is a statement or declaration appearing in a statement list.
type Stmt interface {
	Node
	Commented
	stmt()
}

// Commented is implemented by nodes that own leading comments.
type Commented interface {
	LeadingComments() []*Comment
}

// ClassMember is a direct child of a class body.
type ClassMember interface {
	Node
	classMember()
}

// DeclContext is the syntactic position a class occupies in its parent.
type DeclContext interface {
	declContext()
}

// Comment is a line or block comment. Value has the delimiters removed.
type Comment struct {
	Span
	Text  string
	Value string
	Block bool
}

// Leading is embedded by statements to carry their leading comments.
type Leading struct {
	Comments []*Comment
}

func (l *Leading) LeadingComments() []*Comment { return l.Comments }

func (l *Leading) setComments(c []*Comment) { l.Comments = c }

// --- Expressions ---

// Ident is an identifier reference.
type Ident struct {
	Span
	Name string
}

// MemberExpr is a property read. Computed reads (a[b]) keep Property empty
// and carry the index expression instead.
type MemberExpr struct {
	Span
	Object   Expr
	Property string
	Computed bool
	Index    Expr
}

// CallExpr is a function call.
type CallExpr struct {
	Span
	Callee Expr
	Args   []Expr
}

// StringLit is a string literal with quotes removed.
type StringLit struct {
	Span
	Value string
}

// ObjectProp is one key/value pair of an object literal.
type ObjectProp struct {
	Key      string
	Computed bool
	Value    Expr
}

// ObjectLit is an object literal.
type ObjectLit struct {
	Span
	Props []*ObjectProp
}

// Prop returns the last non-computed property named key, or nil.
func (o *ObjectLit) Prop(key string) *ObjectProp {
	var found *ObjectProp
	for _, p := range o.Props {
		if !p.Computed && p.Key == key {
			found = p
		}
	}
	return found
}

// AssignExpr is a plain assignment (left = right).
type AssignExpr struct {
	Span
	Left  Expr
	Right Expr
}

// OtherExpr stands for any expression the model does not distinguish.
type OtherExpr struct {
	Span
	Type string
}

func (*Ident) node()      {}
func (*MemberExpr) node() {}
func (*CallExpr) node()   {}
func (*StringLit) node()  {}
func (*ObjectLit) node()  {}
func (*AssignExpr) node() {}
func (*OtherExpr) node()  {}

func (*Ident) expr()      {}
func (*MemberExpr) expr() {}
func (*CallExpr) expr()   {}
func (*StringLit) expr()  {}
func (*ObjectLit) expr()  {}
func (*AssignExpr) expr() {}
func (*OtherExpr) expr()  {}

// --- Statements ---

// ImportKind distinguishes the import specifier forms.
type ImportKind string

const (
	ImportDefault   ImportKind = "default"
	ImportNamespace ImportKind = "namespace"
	ImportNamed     ImportKind = "named"
)

// ImportDecl is an ES import statement.
type ImportDecl struct {
	Span
	Leading
	Source string
	Specs  []*ImportSpec
}

// ImportSpec is one local binding introduced by an import.
type ImportSpec struct {
	Span
	Kind     ImportKind
	Imported string
	Local    string
	Decl     *ImportDecl
}

// Declarator is one name = init pair of a variable declaration. Name is
// empty for destructuring patterns.
type Declarator struct {
	Span
	Name string
	Init Expr
}

// VarDecl is a var, let or const declaration.
type VarDecl struct {
	Span
	Leading
	Kind  string
	Decls []*Declarator
}

// ExportStmt is an export statement. Decl is set for declaration exports,
// Value for `export default <expr>`, Source for re-exports.
type ExportStmt struct {
	Span
	Leading
	Decl    Stmt
	Value   Expr
	Default bool
	Source  string
	Star    bool
	Names   []string
}

// ExprStmt wraps an expression used as a statement.
type ExprStmt struct {
	Span
	Leading
	X Expr
}

// FuncDecl is a function declaration.
type FuncDecl struct {
	Span
	Leading
	Name string
}

// OtherStmt stands for any statement the model does not distinguish.
type OtherStmt struct {
	Span
	Leading
	Type string
}

func (*ImportDecl) node() {}
func (*ImportSpec) node() {}
func (*Declarator) node() {}
func (*VarDecl) node()    {}
func (*ExportStmt) node() {}
func (*ExprStmt) node()   {}
func (*FuncDecl) node()   {}
func (*OtherStmt) node()  {}

func (*ImportDecl) stmt() {}
func (*VarDecl) stmt()    {}
func (*ExportStmt) stmt() {}
func (*ExprStmt) stmt()   {}
func (*FuncDecl) stmt()   {}
func (*OtherStmt) stmt()  {}

// --- Classes ---

// ClassKind tells declarations from expressions.
type ClassKind string

const (
	ClassDeclaration ClassKind = "declaration"
	ClassExpression  ClassKind = "expression"
)

// Class is a class declaration or class expression.
type Class struct {
	Span
	Leading
	Kind       ClassKind
	Name       string
	Body       []ClassMember
	SuperClass Expr
	// SuperText is the superclass source text, for reporting.
	SuperText string
	Context   DeclContext
	Scope     *Scope
}

func (*Class) node() {}
func (*Class) expr() {}
func (*Class) stmt() {}

// KeyKind classifies a member or property key.
type KeyKind string

const (
	KeyIdentifier KeyKind = "identifier"
	KeyPrivate    KeyKind = "private"
	KeyString     KeyKind = "string"
	KeyNumber     KeyKind = "number"
	KeyComputed   KeyKind = "computed"
)

// PropertyKey is the key of a class member.
type PropertyKey struct {
	Kind KeyKind
	Name string
}

// MethodKind is the method discriminator. MethodKindUnset exists for trees
// whose producer leaves plain methods unlabelled.
type MethodKind string

const (
	MethodKindUnset       MethodKind = ""
	MethodKindMethod      MethodKind = "method"
	MethodKindConstructor MethodKind = "constructor"
	MethodKindGet         MethodKind = "get"
	MethodKindSet         MethodKind = "set"
)

// MethodDef is a class method.
type MethodDef struct {
	Span
	Key      PropertyKey
	Kind     MethodKind
	Static   bool
	Computed bool
}

// PropertyDef is a class field.
type PropertyDef struct {
	Span
	Key      PropertyKey
	Static   bool
	Computed bool
}

// OtherMember is any other class body element (static blocks, index
// signatures, abstract signatures).
type OtherMember struct {
	Span
	Type string
}

func (*MethodDef) node()   {}
func (*PropertyDef) node() {}
func (*OtherMember) node() {}

func (*MethodDef) classMember()   {}
func (*PropertyDef) classMember() {}
func (*OtherMember) classMember() {}

// ListContext places a class inside a statement list (program or block).
type ListContext struct {
	Items []Stmt
}

// SingleContext places a class under a single parent node, such as an
// export statement, a variable declarator or a call argument.
type SingleContext struct {
	Decl Node
}

func (*ListContext) declContext()   {}
func (*SingleContext) declContext() {}

// File is a parsed source file.
type File struct {
	Path     string
	Language string
	Lines    int
	Body     []Stmt
	Scope    *Scope
	// Classes lists every class in source order, nested ones included.
	Classes []*Class
	// Imports lists module sources from import, export-from and require.
	Imports []string
	// Reexport is the module this file re-exports wholesale, if any.
	Reexport string
}
