package store

import (
	"database/sql"
	"fmt"
)

// CommitBatch inserts all buffered data from a BatchedStore into SQLite
// within a single transaction and records the file's re-export. Fake IDs on
// the buffered rows are replaced with the real ones.
func (s *Store) CommitBatch(batch *BatchedStore) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("commit batch: begin: %w", err)
	}
	defer tx.Rollback()

	for i := range batch.Classes {
		c := &batch.Classes[i]
		realID, err := insertClassTx(tx, c)
		if err != nil {
			return fmt.Errorf("commit batch: class %q: %w", c.Name, err)
		}
		c.ID = realID
	}

	for i := range batch.Imports {
		imp := &batch.Imports[i]
		realID, err := insertImportTx(tx, imp)
		if err != nil {
			return fmt.Errorf("commit batch: import %q: %w", imp.Source, err)
		}
		imp.ID = realID
	}

	if _, err := tx.Exec("UPDATE files SET reexport = ? WHERE id = ?", batch.Reexport, batch.FileID); err != nil {
		return fmt.Errorf("commit batch: reexport: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit batch: %w", err)
	}
	return nil
}

func insertClassTx(tx *sql.Tx, c *Class) (int64, error) {
	res, err := tx.Exec(
		`INSERT INTO classes (file_id, name, kind, superclass, is_component, rule,
			start_line, start_col, end_line, end_col)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		c.FileID, c.Name, c.Kind, c.Superclass, c.IsComponent, c.Rule,
		c.StartLine, c.StartCol, c.EndLine, c.EndCol,
	)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

func insertImportTx(tx *sql.Tx, imp *Import) (int64, error) {
	res, err := tx.Exec(
		"INSERT INTO imports (file_id, source, target_key) VALUES (?, ?, ?)",
		imp.FileID, imp.Source, imp.TargetKey,
	)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}
