package runtime

import (
	"context"
	"fmt"
	"strings"

	"github.com/risor-io/risor/object"

	"github.com/jward/docscan/internal/store"
)

func makeFilesFn(s *store.Store) *object.Builtin {
	return object.NewBuiltin("files", func(ctx context.Context, args ...object.Object) object.Object {
		if len(args) > 1 {
			return object.Errorf("files: expected at most 1 argument, got %d", len(args))
		}

		var (
			files    []*store.File
			queryErr error
		)
		if len(args) == 1 {
			lang, err := toString(args[0])
			if err != nil {
				return object.Errorf("files: %v", err)
			}
			files, queryErr = s.FilesByLanguage(lang)
		} else {
			files, queryErr = s.Files()
		}
		if queryErr != nil {
			return object.Errorf("files: %v", queryErr)
		}

		results := make([]object.Object, 0, len(files))
		for _, f := range files {
			results = append(results, object.NewMap(map[string]object.Object{
				"id":         object.NewInt(f.ID),
				"path":       object.NewString(f.Path),
				"language":   object.NewString(f.Language),
				"module_key": object.NewString(f.ModuleKey),
				"reexport":   object.NewString(f.Reexport),
				"line_count": object.NewInt(int64(f.LineCount)),
			}))
		}
		return object.NewList(results)
	})
}

func makeClassesByFileFn(s *store.Store) *object.Builtin {
	return object.NewBuiltin("classes_by_file", func(ctx context.Context, args ...object.Object) object.Object {
		if len(args) != 1 {
			return object.NewArgsError("classes_by_file", 1, len(args))
		}
		fileID, err := toInt64(args[0])
		if err != nil {
			return object.Errorf("classes_by_file: %v", err)
		}

		classes, queryErr := s.ClassesByFile(fileID)
		if queryErr != nil {
			return object.Errorf("classes_by_file: %v", queryErr)
		}
		return classesToList(classes)
	})
}

func makeComponentsFn(s *store.Store) *object.Builtin {
	return object.NewBuiltin("components", func(ctx context.Context, args ...object.Object) object.Object {
		if len(args) != 0 {
			return object.NewArgsError("components", 0, len(args))
		}
		classes, err := s.ComponentClasses()
		if err != nil {
			return object.Errorf("components: %v", err)
		}
		return classesToList(classes)
	})
}

func makeImportsByFileFn(s *store.Store) *object.Builtin {
	return object.NewBuiltin("imports_by_file", func(ctx context.Context, args ...object.Object) object.Object {
		if len(args) != 1 {
			return object.NewArgsError("imports_by_file", 1, len(args))
		}
		fileID, err := toInt64(args[0])
		if err != nil {
			return object.Errorf("imports_by_file: %v", err)
		}

		imports, queryErr := s.ImportsByFile(fileID)
		if queryErr != nil {
			return object.Errorf("imports_by_file: %v", queryErr)
		}

		results := make([]object.Object, 0, len(imports))
		for _, imp := range imports {
			results = append(results, object.NewMap(map[string]object.Object{
				"id":         object.NewInt(imp.ID),
				"source":     object.NewString(imp.Source),
				"target_key": object.NewString(imp.TargetKey),
			}))
		}
		return object.NewList(results)
	})
}

// makeDBQueryFn creates a db_query bridge that executes read-only SQL.
// Returns a list of maps (column name → value).
func makeDBQueryFn(s *store.Store) *object.Builtin {
	return object.NewBuiltin("db_query", func(ctx context.Context, args ...object.Object) object.Object {
		if len(args) < 1 {
			return object.Errorf("db_query: expected at least 1 argument (sql), got %d", len(args))
		}
		sqlStr, err := toString(args[0])
		if err != nil {
			return object.Errorf("db_query: %v", err)
		}

		trimmed := strings.TrimSpace(strings.ToUpper(sqlStr))
		if !strings.HasPrefix(trimmed, "SELECT") {
			return object.Errorf("db_query: only SELECT queries are allowed")
		}

		var queryArgs []any
		for _, arg := range args[1:] {
			switch v := arg.(type) {
			case *object.Int:
				queryArgs = append(queryArgs, v.Value())
			case *object.Float:
				queryArgs = append(queryArgs, v.Value())
			case *object.String:
				queryArgs = append(queryArgs, v.Value())
			case *object.Bool:
				queryArgs = append(queryArgs, v.Value())
			case *object.NilType:
				queryArgs = append(queryArgs, nil)
			default:
				queryArgs = append(queryArgs, fmt.Sprintf("%v", arg))
			}
		}

		rows, queryErr := s.DB().QueryContext(ctx, sqlStr, queryArgs...)
		if queryErr != nil {
			return object.Errorf("db_query: %v", queryErr)
		}
		defer rows.Close()

		cols, colErr := rows.Columns()
		if colErr != nil {
			return object.Errorf("db_query: columns: %v", colErr)
		}

		var results []object.Object
		for rows.Next() {
			values := make([]any, len(cols))
			ptrs := make([]any, len(cols))
			for i := range values {
				ptrs[i] = &values[i]
			}
			if err := rows.Scan(ptrs...); err != nil {
				return object.Errorf("db_query: scan: %v", err)
			}
			row := make(map[string]object.Object, len(cols))
			for i, col := range cols {
				row[col] = sqlValueToObject(values[i])
			}
			results = append(results, object.NewMap(row))
		}
		if err := rows.Err(); err != nil {
			return object.Errorf("db_query: rows: %v", err)
		}
		if results == nil {
			results = []object.Object{}
		}
		return object.NewList(results)
	})
}

// sqlValueToObject converts a database value to a Risor object.
func sqlValueToObject(v any) object.Object {
	if v == nil {
		return object.Nil
	}
	switch val := v.(type) {
	case int64:
		return object.NewInt(val)
	case float64:
		return object.NewFloat(val)
	case string:
		return object.NewString(val)
	case bool:
		return object.NewBool(val)
	case []byte:
		return object.NewString(string(val))
	default:
		return object.NewString(fmt.Sprintf("%v", val))
	}
}

func classesToList(classes []*store.Class) object.Object {
	results := make([]object.Object, 0, len(classes))
	for _, c := range classes {
		results = append(results, object.NewMap(map[string]object.Object{
			"id":           object.NewInt(c.ID),
			"file_id":      object.NewInt(c.FileID),
			"name":         object.NewString(c.Name),
			"kind":         object.NewString(c.Kind),
			"superclass":   object.NewString(c.Superclass),
			"is_component": object.NewBool(c.IsComponent),
			"rule":         object.NewString(c.Rule),
			"start_line":   object.NewInt(int64(c.StartLine)),
			"start_col":    object.NewInt(int64(c.StartCol)),
			"end_line":     object.NewInt(int64(c.EndLine)),
			"end_col":      object.NewInt(int64(c.EndCol)),
		}))
	}
	return object.NewList(results)
}

func toInt64(obj object.Object) (int64, error) {
	if i, ok := obj.(*object.Int); ok {
		return i.Value(), nil
	}
	if f, ok := obj.(*object.Float); ok {
		return int64(f.Value()), nil
	}
	return 0, fmt.Errorf("expected int, got %s", obj.Type())
}

func toString(obj object.Object) (string, error) {
	if s, ok := obj.(*object.String); ok {
		return s.Value(), nil
	}
	return "", fmt.Errorf("expected string, got %s", obj.Type())
}
