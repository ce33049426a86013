package store

import "time"

// File is one indexed source file. ModuleKey is the normalized path other
// files use to import it; Reexport is the module it re-exports wholesale.
type File struct {
	ID          int64
	Path        string
	Language    string
	Hash        string
	ModuleKey   string
	Reexport    string
	LineCount   int
	LastIndexed time.Time
}

// Class is one class found in a file and its classification. Rule is empty
// for classes that are not components.
type Class struct {
	ID          int64
	FileID      int64
	Name        string
	Kind        string
	Superclass  string
	IsComponent bool
	Rule        string
	StartLine   int
	StartCol    int
	EndLine     int
	EndCol      int
}

// Import is a module source referenced by a file. TargetKey is the module
// key of the imported file for relative sources, empty otherwise.
type Import struct {
	ID        int64
	FileID    int64
	Source    string
	TargetKey string
}
