package runtime

import (
	"context"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/risor-io/risor"
	"github.com/risor-io/risor/importer"
	"github.com/risor-io/risor/object"

	"github.com/jward/docscan/internal/store"
)

// ClassResult is one class reported by a ClassifyFunc.
type ClassResult struct {
	Name        string
	Kind        string
	Superclass  string
	IsComponent bool
	Rule        string
	StartLine   int
	EndLine     int
}

// ClassifyFunc parses and classifies a source snippet. It backs the
// classify_src global.
type ClassifyFunc func(ctx context.Context, src, language string) ([]ClassResult, error)

// Runtime embeds a Risor VM and exposes the index to report scripts.
type Runtime struct {
	store      *store.Store
	scriptsDir string
	fsys       fs.FS
	logger     *slog.Logger
	classify   ClassifyFunc
}

// RuntimeOption configures a Runtime.
type RuntimeOption func(*Runtime)

// WithRuntimeFS configures the Runtime to load scripts from an fs.FS
// instead of from disk. Also configures the Risor importer to use
// FSImporter for import statement resolution.
func WithRuntimeFS(fsys fs.FS) RuntimeOption {
	return func(r *Runtime) {
		r.fsys = fsys
	}
}

// WithLogger routes the script `log` global to l.
func WithLogger(l *slog.Logger) RuntimeOption {
	return func(r *Runtime) {
		r.logger = l
	}
}

// WithClassifier exposes fn to scripts as classify_src(src, language).
func WithClassifier(fn ClassifyFunc) RuntimeOption {
	return func(r *Runtime) {
		r.classify = fn
	}
}

// NewRuntime creates a Runtime wired to the given Store and scripts
// directory. s may be nil, in which case no index globals are defined.
func NewRuntime(s *store.Store, scriptsDir string, opts ...RuntimeOption) *Runtime {
	r := &Runtime{
		store:      s,
		scriptsDir: scriptsDir,
		logger:     slog.Default(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// RunScript loads and executes a Risor script with all standard globals
// plus any extra globals provided by the caller.
func (r *Runtime) RunScript(ctx context.Context, scriptPath string, extraGlobals map[string]any) error {
	src, err := r.LoadScript(scriptPath)
	if err != nil {
		return err
	}
	return r.eval(ctx, src, scriptPath, extraGlobals)
}

// RunSource executes Risor source code directly with all standard globals
// plus any extra globals. Useful for testing without script files.
func (r *Runtime) RunSource(ctx context.Context, source string, extraGlobals map[string]any) error {
	return r.eval(ctx, source, "<inline>", extraGlobals)
}

// RunReport runs a report script and returns the rows it passed to emit().
func (r *Runtime) RunReport(ctx context.Context, scriptPath string, extraGlobals map[string]any) ([]map[string]any, error) {
	src, err := r.LoadScript(scriptPath)
	if err != nil {
		return nil, err
	}
	return r.report(ctx, src, scriptPath, extraGlobals)
}

// RunReportSource is RunReport for inline source.
func (r *Runtime) RunReportSource(ctx context.Context, source string, extraGlobals map[string]any) ([]map[string]any, error) {
	return r.report(ctx, source, "<inline>", extraGlobals)
}

func (r *Runtime) report(ctx context.Context, source, label string, extraGlobals map[string]any) ([]map[string]any, error) {
	var (
		mu   sync.Mutex
		rows []map[string]any
	)
	globals := make(map[string]any, len(extraGlobals)+1)
	for k, v := range extraGlobals {
		globals[k] = v
	}
	globals["emit"] = makeEmitFn(func(row map[string]any) {
		mu.Lock()
		rows = append(rows, row)
		mu.Unlock()
	})
	if err := r.eval(ctx, source, label, globals); err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *Runtime) eval(ctx context.Context, source, label string, extraGlobals map[string]any) error {
	globals := r.buildGlobals(extraGlobals)

	var opts []risor.Option
	for name, val := range globals {
		opts = append(opts, risor.WithGlobal(name, val))
	}

	// Wire importer so Risor import statements resolve correctly.
	if imp := r.buildImporter(globals); imp != nil {
		opts = append(opts, risor.WithImporter(imp))
	}

	_, err := risor.Eval(ctx, source, opts...)
	if err != nil {
		return fmt.Errorf("runtime: script %s: %w", label, err)
	}
	return nil
}

// buildImporter returns a Risor importer configured for the Runtime's script source.
// Returns nil if neither fs.FS nor scriptsDir is configured.
func (r *Runtime) buildImporter(globals map[string]any) importer.Importer {
	globalNames := make([]string, 0, len(globals))
	for name := range globals {
		globalNames = append(globalNames, name)
	}

	if r.fsys != nil {
		return importer.NewFSImporter(importer.FSImporterOptions{
			GlobalNames: globalNames,
			SourceFS:    r.fsys,
			Extensions:  []string{".risor"},
		})
	}
	if r.scriptsDir != "" {
		return importer.NewLocalImporter(importer.LocalImporterOptions{
			GlobalNames: globalNames,
			SourceDir:   r.scriptsDir,
			Extensions:  []string{".risor"},
		})
	}
	return nil
}

// LoadScript reads a .risor file and returns its source code.
// When an fs.FS is configured, uses fs.ReadFile on the embedded filesystem.
// Otherwise, uses os.ReadFile with scriptsDir as the base directory.
func (r *Runtime) LoadScript(path string) (string, error) {
	if r.fsys != nil {
		fsPath := strings.TrimPrefix(filepath.ToSlash(path), "/")
		data, err := fs.ReadFile(r.fsys, fsPath)
		if err != nil {
			return "", fmt.Errorf("runtime: loading script %s from fs: %w", fsPath, err)
		}
		return string(data), nil
	}

	fullPath := path
	if !filepath.IsAbs(path) {
		fullPath = filepath.Join(r.scriptsDir, path)
	}

	data, err := os.ReadFile(fullPath)
	if err != nil {
		return "", fmt.Errorf("runtime: loading script %s: %w", fullPath, err)
	}
	return string(data), nil
}

// ReportScriptPath returns the path of a named report script.
func ReportScriptPath(name string) string {
	if strings.HasSuffix(name, ".risor") {
		return name
	}
	return filepath.Join("report", name+".risor")
}

// buildGlobals constructs the full set of globals exposed to Risor scripts.
func (r *Runtime) buildGlobals(extra map[string]any) map[string]any {
	globals := map[string]any{
		"log":  mustProxy(&logObject{logger: r.logger}),
		"args": object.NewMap(map[string]object.Object{}),
	}

	if r.classify != nil {
		globals["classify_src"] = makeClassifySrcFn(r.classify)
	}

	if r.store != nil {
		globals["files"] = makeFilesFn(r.store)
		globals["classes_by_file"] = makeClassesByFileFn(r.store)
		globals["components"] = makeComponentsFn(r.store)
		globals["imports_by_file"] = makeImportsByFileFn(r.store)
		globals["db_query"] = makeDBQueryFn(r.store)
	}

	for k, v := range extra {
		globals[k] = v
	}
	return globals
}

func mustProxy(v any) object.Object {
	p, err := object.NewProxy(v)
	if err != nil {
		panic(fmt.Sprintf("runtime: proxy error: %v", err))
	}
	return p
}
