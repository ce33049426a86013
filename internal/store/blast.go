package store

import "fmt"

// FilesImportingKeys returns the IDs of files with an import resolving to
// any of the given module keys.
func (s *Store) FilesImportingKeys(keys []string) ([]int64, error) {
	if len(keys) == 0 {
		return nil, nil
	}
	args := make([]any, len(keys))
	for i, k := range keys {
		args[i] = k
	}
	rows, err := s.db.Query(
		"SELECT DISTINCT file_id FROM imports WHERE target_key IN ("+placeholderList(len(keys))+") ORDER BY file_id",
		args...,
	)
	if err != nil {
		return nil, fmt.Errorf("files importing keys: %w", err)
	}
	defer rows.Close()
	var fileIDs []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan file id: %w", err)
		}
		fileIDs = append(fileIDs, id)
	}
	return fileIDs, rows.Err()
}

// Reexports returns module key -> re-exported source for every file that
// re-exports a module wholesale.
func (s *Store) Reexports() (map[string]string, error) {
	rows, err := s.db.Query("SELECT module_key, reexport FROM files WHERE reexport != ''")
	if err != nil {
		return nil, fmt.Errorf("reexports: %w", err)
	}
	defer rows.Close()
	out := make(map[string]string)
	for rows.Next() {
		var key, source string
		if err := rows.Scan(&key, &source); err != nil {
			return nil, fmt.Errorf("scan reexport: %w", err)
		}
		out[key] = source
	}
	return out, rows.Err()
}

// PathsByIDs maps file IDs to paths, skipping IDs that no longer exist.
func (s *Store) PathsByIDs(ids []int64) ([]string, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	rows, err := s.db.Query(
		"SELECT path FROM files WHERE id IN ("+placeholderList(len(ids))+") ORDER BY path",
		int64sToArgs(ids)...,
	)
	if err != nil {
		return nil, fmt.Errorf("paths by ids: %w", err)
	}
	defer rows.Close()
	var paths []string
	for rows.Next() {
		var p string
		if err := rows.Scan(&p); err != nil {
			return nil, fmt.Errorf("scan path: %w", err)
		}
		paths = append(paths, p)
	}
	return paths, rows.Err()
}
