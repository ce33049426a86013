package docscan

import (
	"github.com/jward/docscan/internal/jsast"
	"github.com/jward/docscan/internal/resolve"
	"github.com/jward/docscan/internal/store"
)

// Public type aliases for the internal syntax model and store records.
// External consumers use these names; no conversion is needed.

type Node = jsast.Node
type Expr = jsast.Expr
type Scope = jsast.Scope
type ClassNode = jsast.Class
type SourceFile = jsast.File
type ResolvedValue = resolve.Value
type Reexports = resolve.Reexports

type Store = store.Store
type File = store.File
type IndexedClass = store.Class
type Import = store.Import
