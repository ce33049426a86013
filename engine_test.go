package docscan

import (
	"context"
	"os"
	"path/filepath"
	"sort"
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jward/docscan/internal/config"
)

// fixture is a small React project. Paths are relative to the scan root.
var fixture = map[string]string{
	"src/App.js":          "import React from 'react';\n\nexport default class App extends React.Component {}\n",
	"src/Plain.js":        "class Plain {\n  helper() {}\n}\n",
	"src/Button.tsx":      "export class Button {\n  render() { return null; }\n}\n",
	"src/Legacy.js":       "/**\n * @extends React.Component\n */\nclass Legacy {}\n",
	"src/UsesBarrel.js":   "import R from './barrel';\n\nclass Barreled extends R.Component {}\n",
	"src/barrel/index.js": "export * from 'react';\n",

	"node_modules/lib/index.js": "class Vendored { render() {} }\n",
	".cache/Hidden.js":          "class Hidden { render() {} }\n",
	"README.md":                 "# fixture\n",
}

func writeFiles(t *testing.T, root string, files map[string]string) {
	t.Helper()
	for rel, content := range files {
		p := filepath.Join(root, filepath.FromSlash(rel))
		require.NoError(t, os.MkdirAll(filepath.Dir(p), 0o755))
		require.NoError(t, os.WriteFile(p, []byte(content), 0o644))
	}
}

func newTestEngine(t *testing.T, dbPath string, opts ...Option) *Engine {
	t.Helper()
	e, err := New(dbPath, opts...)
	require.NoError(t, err)
	t.Cleanup(func() { e.Close() })
	return e
}

// componentSet returns "relpath:Name:rule" for every component.
func componentSet(t *testing.T, e *Engine, root string) []string {
	t.Helper()
	comps, err := e.Query().Components()
	require.NoError(t, err)
	out := make([]string, 0, len(comps))
	for _, c := range comps {
		rel, err := filepath.Rel(root, c.File)
		require.NoError(t, err)
		out = append(out, filepath.ToSlash(rel)+":"+c.Name+":"+c.Rule)
	}
	sort.Strings(out)
	return out
}

func indexedPaths(t *testing.T, e *Engine, root string) []string {
	t.Helper()
	files, err := e.Query().Files()
	require.NoError(t, err)
	out := make([]string, 0, len(files))
	for _, f := range files {
		rel, err := filepath.Rel(root, f.Path)
		require.NoError(t, err)
		out = append(out, filepath.ToSlash(rel))
	}
	sort.Strings(out)
	return out
}

var fixtureComponents = []string{
	"src/App.js:App:superclass",
	"src/Button.tsx:Button:render-method",
	"src/Legacy.js:Legacy:docblock",
	"src/UsesBarrel.js:Barreled:superclass",
}

func TestNew_InvalidExclude(t *testing.T) {
	_, err := New(filepath.Join(t.TempDir(), "test.db"), WithExclude([]string{"["}, nil))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "exclude")
}

func TestNew_BadDatabasePath(t *testing.T) {
	_, err := New(filepath.Join(t.TempDir(), "missing", "dir", "test.db"))
	require.Error(t, err)
}

func TestEngine_ModulesAndConfig(t *testing.T) {
	dir := t.TempDir()

	e := newTestEngine(t, filepath.Join(dir, "a.db"))
	assert.Equal(t, DefaultModuleNames, e.Modules())
	assert.True(t, e.ModulesChanged(), "fresh index has no stored allow-list")

	cfg := &config.Config{
		Modules:   []string{"preact"},
		Languages: []string{"tsx"},
		Exclude:   config.Exclude{Files: []string{"*.stories.tsx"}},
	}
	e2 := newTestEngine(t, filepath.Join(dir, "b.db"), WithConfig(cfg))
	assert.Equal(t, []string{"preact"}, e2.Modules())
	assert.True(t, e2.accepts("Button.tsx"))
	assert.False(t, e2.accepts("Button.js"))
	assert.False(t, e2.accepts("notes.md"))

	e3 := newTestEngine(t, filepath.Join(dir, "c.db"), WithConfig(nil))
	assert.Equal(t, DefaultModuleNames, e3.Modules())
}

func TestScanDirectory_ClassifiesFixture(t *testing.T) {
	for _, parallel := range []bool{false, true} {
		name := "serial"
		if parallel {
			name = "parallel"
		}
		t.Run(name, func(t *testing.T) {
			root := t.TempDir()
			writeFiles(t, root, fixture)
			e := newTestEngine(t, filepath.Join(t.TempDir(), "test.db"), WithParallel(parallel))

			require.NoError(t, e.ScanDirectory(context.Background(), root))

			assert.Equal(t, fixtureComponents, componentSet(t, e, root))
			assert.Equal(t, []string{
				"src/App.js",
				"src/Button.tsx",
				"src/Legacy.js",
				"src/Plain.js",
				"src/UsesBarrel.js",
				"src/barrel/index.js",
			}, indexedPaths(t, e, root))
			assert.False(t, e.ModulesChanged())

			classes, err := e.Query().Classes(filepath.Join(root, "src", "Plain.js"))
			require.NoError(t, err)
			require.Len(t, classes, 1)
			assert.Equal(t, "Plain", classes[0].Name)
			assert.False(t, classes[0].IsComponent)
			assert.Empty(t, classes[0].Rule)

			app, err := e.Store().FileByPath(filepath.Join(root, "src", "App.js"))
			require.NoError(t, err)
			require.NotNil(t, app)
			assert.Equal(t, "javascript", app.Language)
			assert.Equal(t, 4, app.LineCount)

			barrel, err := e.Store().FileByPath(filepath.Join(root, "src", "barrel", "index.js"))
			require.NoError(t, err)
			assert.Equal(t, "react", barrel.Reexport)
		})
	}
}

func TestScanDirectory_SkipsUnchangedFiles(t *testing.T) {
	root := t.TempDir()
	writeFiles(t, root, fixture)
	e := newTestEngine(t, filepath.Join(t.TempDir(), "test.db"))
	ctx := context.Background()

	require.NoError(t, e.ScanDirectory(ctx, root))
	before, err := e.Store().FileByPath(filepath.Join(root, "src", "App.js"))
	require.NoError(t, err)

	require.NoError(t, e.ScanDirectory(ctx, root))
	after, err := e.Store().FileByPath(filepath.Join(root, "src", "App.js"))
	require.NoError(t, err)
	assert.Equal(t, before.ID, after.ID)
	assert.Equal(t, fixtureComponents, componentSet(t, e, root))
}

func TestScanFiles_ReclassifiesChangedFile(t *testing.T) {
	root := t.TempDir()
	writeFiles(t, root, fixture)
	e := newTestEngine(t, filepath.Join(t.TempDir(), "test.db"))
	ctx := context.Background()
	require.NoError(t, e.ScanDirectory(ctx, root))

	plain := filepath.Join(root, "src", "Plain.js")
	require.NoError(t, os.WriteFile(plain, []byte("class Plain {\n  render() {}\n}\n"), 0o644))
	require.NoError(t, e.ScanFiles(ctx, []string{plain}))

	classes, err := e.Query().Classes(plain)
	require.NoError(t, err)
	require.Len(t, classes, 1)
	assert.True(t, classes[0].IsComponent)
	assert.Equal(t, "render-method", classes[0].Rule)
}

func TestScanDirectory_RemovesDeletedFiles(t *testing.T) {
	root := t.TempDir()
	writeFiles(t, root, fixture)
	e := newTestEngine(t, filepath.Join(t.TempDir(), "test.db"))
	ctx := context.Background()
	require.NoError(t, e.ScanDirectory(ctx, root))

	require.NoError(t, os.Remove(filepath.Join(root, "src", "App.js")))
	require.NoError(t, e.ScanDirectory(ctx, root))

	assert.NotContains(t, indexedPaths(t, e, root), "src/App.js")
	assert.NotContains(t, componentSet(t, e, root), "src/App.js:App:superclass")

	// ScanFiles drops a path that no longer exists.
	legacy := filepath.Join(root, "src", "Legacy.js")
	require.NoError(t, os.Remove(legacy))
	require.NoError(t, e.ScanFiles(ctx, []string{legacy}))
	f, err := e.Store().FileByPath(legacy)
	require.NoError(t, err)
	assert.Nil(t, f)
}

func TestScan_ModulesChangeForcesReclassification(t *testing.T) {
	root := t.TempDir()
	writeFiles(t, root, fixture)
	dbPath := filepath.Join(t.TempDir(), "test.db")
	ctx := context.Background()

	e, err := New(dbPath)
	require.NoError(t, err)
	require.NoError(t, e.ScanDirectory(ctx, root))
	require.NoError(t, e.Close())

	e2 := newTestEngine(t, dbPath, WithModules("preact"))
	assert.True(t, e2.ModulesChanged())

	// Nothing changed on disk, yet every file is classified again.
	require.NoError(t, e2.ScanFiles(ctx, nil))
	assert.False(t, e2.ModulesChanged())
	assert.Equal(t, []string{
		"src/Button.tsx:Button:render-method",
		"src/Legacy.js:Legacy:docblock",
	}, componentSet(t, e2, root))
}

func TestScanFiles_BarrelChangeRescansImporters(t *testing.T) {
	for _, parallel := range []bool{false, true} {
		name := "serial"
		if parallel {
			name = "parallel"
		}
		t.Run(name, func(t *testing.T) {
			root := t.TempDir()
			writeFiles(t, root, fixture)
			e := newTestEngine(t, filepath.Join(t.TempDir(), "test.db"), WithParallel(parallel))
			ctx := context.Background()
			require.NoError(t, e.ScanDirectory(ctx, root))
			require.Contains(t, componentSet(t, e, root), "src/UsesBarrel.js:Barreled:superclass")

			barrel := filepath.Join(root, "src", "barrel", "index.js")
			require.NoError(t, os.WriteFile(barrel, []byte("export * from 'lodash';\n"), 0o644))
			require.NoError(t, e.ScanFiles(ctx, []string{barrel}))
			assert.NotContains(t, componentSet(t, e, root), "src/UsesBarrel.js:Barreled:superclass")

			require.NoError(t, os.WriteFile(barrel, []byte("export * from 'react';\n"), 0o644))
			require.NoError(t, e.ScanFiles(ctx, []string{barrel}))
			require.Contains(t, componentSet(t, e, root), "src/UsesBarrel.js:Barreled:superclass")

			// Removing the barrel also reclassifies its importers.
			require.NoError(t, os.Remove(barrel))
			require.NoError(t, e.ScanDirectory(ctx, root))
			assert.NotContains(t, componentSet(t, e, root), "src/UsesBarrel.js:Barreled:superclass")
		})
	}
}

func TestScanDirectory_Exclude(t *testing.T) {
	root := t.TempDir()
	writeFiles(t, root, fixture)
	e := newTestEngine(t, filepath.Join(t.TempDir(), "test.db"),
		WithExclude([]string{"barrel"}, []string{"*.tsx"}))

	require.NoError(t, e.ScanDirectory(context.Background(), root))
	assert.Equal(t, []string{
		"src/App.js",
		"src/Legacy.js",
		"src/Plain.js",
		"src/UsesBarrel.js",
	}, indexedPaths(t, e, root))
	// The barrel is not indexed, so its importer cannot be resolved.
	assert.Equal(t, []string{
		"src/App.js:App:superclass",
		"src/Legacy.js:Legacy:docblock",
	}, componentSet(t, e, root))
}

func TestScanDirectory_LanguageFilter(t *testing.T) {
	root := t.TempDir()
	writeFiles(t, root, fixture)
	e := newTestEngine(t, filepath.Join(t.TempDir(), "test.db"), WithLanguages("tsx"))

	require.NoError(t, e.ScanDirectory(context.Background(), root))
	assert.Equal(t, []string{"src/Button.tsx"}, indexedPaths(t, e, root))
}

func TestScanFiles_AggregatesFileErrors(t *testing.T) {
	root := t.TempDir()
	writeFiles(t, root, fixture)
	broken := filepath.Join(root, "src", "broken.js")
	require.NoError(t, os.MkdirAll(broken, 0o755))

	e := newTestEngine(t, filepath.Join(t.TempDir(), "test.db"))
	app := filepath.Join(root, "src", "App.js")
	err := e.ScanFiles(context.Background(), []string{broken, app})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "1 error(s)")
	assert.Contains(t, err.Error(), "broken.js")

	// The readable file is still indexed.
	assert.Equal(t, []string{"src/App.js:App:superclass"}, componentSet(t, e, root))
}

func TestScanFiles_CancelledContext(t *testing.T) {
	root := t.TempDir()
	writeFiles(t, root, fixture)
	e := newTestEngine(t, filepath.Join(t.TempDir(), "test.db"))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err := e.ScanFiles(ctx, []string{filepath.Join(root, "src", "App.js")})
	require.ErrorIs(t, err, context.Canceled)
}

func TestScanFiles_IgnoresUnsupportedAndMissing(t *testing.T) {
	root := t.TempDir()
	writeFiles(t, root, fixture)
	e := newTestEngine(t, filepath.Join(t.TempDir(), "test.db"))

	err := e.ScanFiles(context.Background(), []string{
		filepath.Join(root, "README.md"),
		filepath.Join(root, "src", "Nope.js"),
	})
	require.NoError(t, err)
	assert.Empty(t, indexedPaths(t, e, root))
}

func TestRunReport_Embedded(t *testing.T) {
	root := t.TempDir()
	writeFiles(t, root, fixture)
	e := newTestEngine(t, filepath.Join(t.TempDir(), "test.db"))
	ctx := context.Background()
	require.NoError(t, e.ScanDirectory(ctx, root))

	t.Run("components", func(t *testing.T) {
		rows, err := e.RunReport(ctx, "components", nil)
		require.NoError(t, err)
		require.Len(t, rows, 4)
		byName := make(map[string]map[string]any, len(rows))
		for _, r := range rows {
			byName[r["name"].(string)] = r
		}
		app := byName["App"]
		require.NotNil(t, app)
		assert.Equal(t, filepath.Join(root, "src", "App.js"), app["path"])
		assert.Equal(t, "superclass", app["rule"])
		assert.Equal(t, "React.Component", app["superclass"])
		assert.EqualValues(t, 3, app["line"])
		assert.Equal(t, "docblock", byName["Legacy"]["rule"])
	})

	t.Run("summary", func(t *testing.T) {
		rows, err := e.RunReport(ctx, "summary", nil)
		require.NoError(t, err)
		require.Len(t, rows, 2)
		assert.Equal(t, "javascript", rows[0]["language"])
		assert.EqualValues(t, 5, rows[0]["files"])
		assert.EqualValues(t, 4, rows[0]["classes"])
		assert.EqualValues(t, 3, rows[0]["components"])
		assert.Equal(t, "tsx", rows[1]["language"])
		assert.EqualValues(t, 1, rows[1]["components"])
	})

	t.Run("rules", func(t *testing.T) {
		rows, err := e.RunReport(ctx, "rules", nil)
		require.NoError(t, err)
		got := make(map[string]int64, len(rows))
		for _, r := range rows {
			got[r["rule"].(string)] = r["components"].(int64)
		}
		assert.Equal(t, map[string]int64{"docblock": 1, "render-method": 1, "superclass": 2}, got)
	})

	t.Run("unknown", func(t *testing.T) {
		_, err := e.RunReport(ctx, "nope", nil)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "report nope")
	})
}

func TestRunReport_CustomScripts(t *testing.T) {
	fsys := fstest.MapFS{
		"report/inline.risor": &fstest.MapFile{Data: []byte(`
for _, c := range classify_src(args["src"], "javascript") {
    emit({"name": c["name"], "rule": c["rule"], "component": c["is_component"]})
}
`)},
	}
	e := newTestEngine(t, filepath.Join(t.TempDir(), "test.db"), WithScriptsFS(fsys))

	rows, err := e.RunReport(context.Background(), "inline", map[string]any{
		"src": "class A { render() {} }\nclass B {}\n",
	})
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "A", rows[0]["name"])
	assert.Equal(t, "render-method", rows[0]["rule"])
	assert.Equal(t, true, rows[0]["component"])
	assert.Equal(t, "B", rows[1]["name"])
	assert.Equal(t, false, rows[1]["component"])
}
