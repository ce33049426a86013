package store

import (
	"database/sql"
	"fmt"
)

// --- File operations ---

// FileColumns lists the files columns in the order ScanFileRow expects.
const FileColumns = "id, path, language, hash, module_key, reexport, line_count, last_indexed"

func (s *Store) InsertFile(f *File) (int64, error) {
	res, err := s.db.Exec(
		`INSERT INTO files (path, language, hash, module_key, reexport, line_count, last_indexed)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		f.Path, f.Language, f.Hash, f.ModuleKey, f.Reexport, f.LineCount, f.LastIndexed,
	)
	if err != nil {
		return 0, fmt.Errorf("insert file: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("last insert id: %w", err)
	}
	f.ID = id
	return id, nil
}

func scanFile(scanner interface{ Scan(...any) error }) (*File, error) {
	f := &File{}
	var indexed sql.NullTime
	err := scanner.Scan(&f.ID, &f.Path, &f.Language, &f.Hash, &f.ModuleKey, &f.Reexport, &f.LineCount, &indexed)
	if err != nil {
		return nil, err
	}
	f.LastIndexed = indexed.Time
	return f, nil
}

// ScanFileRow scans a row selected with FileColumns.
func ScanFileRow(scanner interface{ Scan(...any) error }) (*File, error) {
	return scanFile(scanner)
}

func (s *Store) queryFiles(query string, args ...any) ([]*File, error) {
	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var files []*File
	for rows.Next() {
		f, err := scanFile(rows)
		if err != nil {
			return nil, fmt.Errorf("scan file: %w", err)
		}
		files = append(files, f)
	}
	return files, rows.Err()
}

// FileByPath returns the file at path, or nil when it is not indexed.
func (s *Store) FileByPath(path string) (*File, error) {
	f, err := scanFile(s.db.QueryRow("SELECT "+FileColumns+" FROM files WHERE path = ?", path))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("file by path: %w", err)
	}
	return f, nil
}

// FileByID returns the file with the given ID, or nil.
func (s *Store) FileByID(id int64) (*File, error) {
	f, err := scanFile(s.db.QueryRow("SELECT "+FileColumns+" FROM files WHERE id = ?", id))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("file by id: %w", err)
	}
	return f, nil
}

// Files returns every indexed file ordered by path.
func (s *Store) Files() ([]*File, error) {
	files, err := s.queryFiles("SELECT " + FileColumns + " FROM files ORDER BY path")
	if err != nil {
		return nil, fmt.Errorf("files: %w", err)
	}
	return files, nil
}

func (s *Store) FilesByLanguage(language string) ([]*File, error) {
	files, err := s.queryFiles("SELECT "+FileColumns+" FROM files WHERE language = ? ORDER BY path", language)
	if err != nil {
		return nil, fmt.Errorf("files by language: %w", err)
	}
	return files, nil
}

// SetFileReexport records the module a file re-exports wholesale.
func (s *Store) SetFileReexport(fileID int64, source string) error {
	if _, err := s.db.Exec("UPDATE files SET reexport = ? WHERE id = ?", source, fileID); err != nil {
		return fmt.Errorf("set reexport: %w", err)
	}
	return nil
}

// --- Class operations ---

const classColumns = `id, file_id, name, kind, superclass, is_component, rule,
	start_line, start_col, end_line, end_col`

func (s *Store) InsertClass(c *Class) (int64, error) {
	res, err := s.db.Exec(
		`INSERT INTO classes (file_id, name, kind, superclass, is_component, rule,
			start_line, start_col, end_line, end_col)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		c.FileID, c.Name, c.Kind, c.Superclass, c.IsComponent, c.Rule,
		c.StartLine, c.StartCol, c.EndLine, c.EndCol,
	)
	if err != nil {
		return 0, fmt.Errorf("insert class: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("last insert id: %w", err)
	}
	c.ID = id
	return id, nil
}

func scanClass(scanner interface{ Scan(...any) error }) (*Class, error) {
	c := &Class{}
	err := scanner.Scan(
		&c.ID, &c.FileID, &c.Name, &c.Kind, &c.Superclass, &c.IsComponent, &c.Rule,
		&c.StartLine, &c.StartCol, &c.EndLine, &c.EndCol,
	)
	if err != nil {
		return nil, err
	}
	return c, nil
}

func (s *Store) queryClasses(query string, args ...any) ([]*Class, error) {
	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("query classes: %w", err)
	}
	defer rows.Close()
	var classes []*Class
	for rows.Next() {
		c, err := scanClass(rows)
		if err != nil {
			return nil, fmt.Errorf("scan class: %w", err)
		}
		classes = append(classes, c)
	}
	return classes, rows.Err()
}

// ClassesByFile returns a file's classes in source order.
func (s *Store) ClassesByFile(fileID int64) ([]*Class, error) {
	return s.queryClasses(
		"SELECT "+classColumns+" FROM classes WHERE file_id = ? ORDER BY start_line, start_col", fileID,
	)
}

// ComponentClasses returns every class classified as a component.
func (s *Store) ComponentClasses() ([]*Class, error) {
	return s.queryClasses(
		"SELECT " + classColumns + " FROM classes WHERE is_component ORDER BY file_id, start_line, start_col",
	)
}

// --- Import operations ---

func (s *Store) InsertImport(imp *Import) (int64, error) {
	res, err := s.db.Exec(
		"INSERT INTO imports (file_id, source, target_key) VALUES (?, ?, ?)",
		imp.FileID, imp.Source, imp.TargetKey,
	)
	if err != nil {
		return 0, fmt.Errorf("insert import: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("last insert id: %w", err)
	}
	imp.ID = id
	return id, nil
}

func (s *Store) ImportsByFile(fileID int64) ([]*Import, error) {
	rows, err := s.db.Query(
		"SELECT id, file_id, source, target_key FROM imports WHERE file_id = ? ORDER BY id", fileID,
	)
	if err != nil {
		return nil, fmt.Errorf("imports by file: %w", err)
	}
	defer rows.Close()
	var imports []*Import
	for rows.Next() {
		imp := &Import{}
		if err := rows.Scan(&imp.ID, &imp.FileID, &imp.Source, &imp.TargetKey); err != nil {
			return nil, fmt.Errorf("scan import: %w", err)
		}
		imports = append(imports, imp)
	}
	return imports, rows.Err()
}
