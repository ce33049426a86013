package store

// DataStore is the write/read surface the classification phase needs. Both
// Store (direct SQLite) and BatchedStore (in-memory buffering for parallel
// scans) implement it.
type DataStore interface {
	InsertClass(c *Class) (int64, error)
	InsertImport(imp *Import) (int64, error)

	ClassesByFile(fileID int64) ([]*Class, error)
	ImportsByFile(fileID int64) ([]*Import, error)
}

// Compile-time check: *Store satisfies DataStore.
var _ DataStore = (*Store)(nil)
