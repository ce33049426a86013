package store

import "sync"

// BatchedStore buffers one file's classification output in memory using
// fake (negative) IDs until CommitBatch writes it in a single transaction.
//
// Thread safety: the mutex protects fake ID allocation and slice appends.
// Reads pass through to the underlying Store, which is safe for concurrent
// reads, and are merged with the buffered rows.
type BatchedStore struct {
	store *Store
	mu    sync.Mutex

	FileID   int64
	Reexport string
	Classes  []Class
	Imports  []Import

	nextFakeID int64 // starts at -1, decrements
}

// Compile-time check: *BatchedStore satisfies DataStore.
var _ DataStore = (*BatchedStore)(nil)

// NewBatchedStore creates a BatchedStore for fileID backed by s for reads.
func NewBatchedStore(s *Store, fileID int64) *BatchedStore {
	return &BatchedStore{
		store:      s,
		FileID:     fileID,
		nextFakeID: -1,
	}
}

func (b *BatchedStore) allocFakeID() int64 {
	id := b.nextFakeID
	b.nextFakeID--
	return id
}

func (b *BatchedStore) InsertClass(c *Class) (int64, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	fakeID := b.allocFakeID()
	c.ID = fakeID
	b.Classes = append(b.Classes, *c)
	return fakeID, nil
}

func (b *BatchedStore) InsertImport(imp *Import) (int64, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	fakeID := b.allocFakeID()
	imp.ID = fakeID
	b.Imports = append(b.Imports, *imp)
	return fakeID, nil
}

// SetReexport records the file's wholesale re-export for commit.
func (b *BatchedStore) SetReexport(source string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.Reexport = source
}

// ClassesByFile returns classes for a file, merging buffered (not yet
// committed) classes with those already in the database.
func (b *BatchedStore) ClassesByFile(fileID int64) ([]*Class, error) {
	classes, err := b.store.ClassesByFile(fileID)
	if err != nil {
		return nil, err
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	for i := range b.Classes {
		if b.Classes[i].FileID == fileID {
			classes = append(classes, &b.Classes[i])
		}
	}
	return classes, nil
}

// ImportsByFile merges buffered imports with those in the database.
func (b *BatchedStore) ImportsByFile(fileID int64) ([]*Import, error) {
	imports, err := b.store.ImportsByFile(fileID)
	if err != nil {
		return nil, err
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	for i := range b.Imports {
		if b.Imports[i].FileID == fileID {
			imports = append(imports, &b.Imports[i])
		}
	}
	return imports, nil
}
