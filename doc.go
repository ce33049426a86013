// Package docscan finds React component classes in JavaScript and
// TypeScript sources.
//
// A class counts as a component when any of three rules holds, tried in
// order:
//
//  1. Render method: the class body declares a non-static, non-computed
//     method or property named render. Getters, setters and the
//     constructor do not count.
//  2. Docblock: the declaration enclosing the class carries a leading
//     comment containing "@extends React.Component".
//  3. Superclass: the extended expression resolves to X.Component where X
//     comes from an allow-listed module (react, react-native, ...).
//
// # Classifier
//
// [Classifier] is the pure predicate. It reads a [ClassNode] and consults
// two collaborators: a [SymbolResolver] that follows bindings to the value
// an expression holds, and a [ModuleResolver] that names the module a
// value was imported from. Resolution failures fold into "not a
// component"; nothing is surfaced as an error.
//
//	c := docscan.NewClassifier(resolve.NewSymbols(), resolve.NewModules(path, nil, nil), nil)
//	for _, class := range file.Classes {
//		if c.IsComponentClass(class) { ... }
//	}
//
// [Analyze] and [AnalyzeSource] wire the collaborators for a parsed file.
//
// # Engine
//
// [Engine] indexes a source tree into SQLite:
//
//	e, err := docscan.New("docscan.db")
//	if err != nil { ... }
//	defer e.Close()
//
//	err = e.ScanDirectory(ctx, "path/to/project")
//	comps, err := e.Query().Components()
//
// Scans are incremental. Unchanged files (same content hash) are skipped
// unless the module allow-list changed since the last scan. When a file that
// re-exports another module wholesale changes, the files importing it are
// reclassified as well.
//
// # Reports
//
// Report scripts are Risor programs run against the index. They see the
// globals files(), classes_by_file(id), components(), imports_by_file(id),
// db_query(sql, args...) and classify_src(src, language), and hand rows
// back with emit(row). The bundled scripts live in scripts/report.
package docscan
