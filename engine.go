package docscan

import (
	"bytes"
	"context"
	"crypto/sha256"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/jward/docscan/internal/config"
	"github.com/jward/docscan/internal/jsast"
	"github.com/jward/docscan/internal/resolve"
	"github.com/jward/docscan/internal/runtime"
	"github.com/jward/docscan/internal/store"
	"github.com/jward/docscan/scripts"
)

// modulesHashKey is the metadata key holding the allow-list fingerprint.
const modulesHashKey = "modules_hash"

// Engine orchestrates scanning: file discovery, change detection, parsing,
// classification and query access.
type Engine struct {
	store      *store.Store
	runtime    *runtime.Runtime
	scriptsDir string
	scriptsFS  fs.FS
	languages  map[string]bool // nil means all languages
	modules    []string
	exclude    *config.Matcher
	excludeErr error
	logger     *slog.Logger

	// useParallel enables the worker pool for parsing and classification.
	useParallel bool
}

// Option configures an Engine.
type Option func(*Engine)

// WithLanguages restricts which languages the Engine will process.
func WithLanguages(languages ...string) Option {
	return func(e *Engine) {
		if len(languages) == 0 {
			e.languages = nil
			return
		}
		e.languages = make(map[string]bool, len(languages))
		for _, lang := range languages {
			e.languages[lang] = true
		}
	}
}

// WithParallel controls parallel scanning. When true (default), files are
// parsed and classified by a worker pool and each file's rows are committed
// in one transaction. Set to false for serial mode.
func WithParallel(parallel bool) Option {
	return func(e *Engine) {
		e.useParallel = parallel
	}
}

// WithModules replaces the component module allow-list. An empty list keeps
// DefaultModuleNames.
func WithModules(modules ...string) Option {
	return func(e *Engine) {
		e.modules = append([]string(nil), modules...)
	}
}

// WithExclude skips directories and files whose base names match the given
// glob patterns. An invalid pattern makes New fail.
func WithExclude(dirs, files []string) Option {
	return func(e *Engine) {
		e.exclude, e.excludeErr = config.NewMatcher(dirs, files)
	}
}

// WithConfig applies the modules, languages and exclude settings of cfg.
func WithConfig(cfg *config.Config) Option {
	return func(e *Engine) {
		if cfg == nil {
			return
		}
		WithModules(cfg.Modules...)(e)
		WithLanguages(cfg.Languages...)(e)
		WithExclude(cfg.Exclude.Dirs, cfg.Exclude.Files)(e)
	}
}

// WithScriptsFS loads report scripts from fsys instead of the embedded set.
func WithScriptsFS(fsys fs.FS) Option {
	return func(e *Engine) {
		e.scriptsFS = fsys
	}
}

// WithScriptsDir loads report scripts from a directory on disk.
func WithScriptsDir(dir string) Option {
	return func(e *Engine) {
		e.scriptsDir = dir
	}
}

// WithLogger sets the logger for scan progress and per-file failures.
func WithLogger(l *slog.Logger) Option {
	return func(e *Engine) {
		if l != nil {
			e.logger = l
		}
	}
}

// New creates an Engine backed by a SQLite database at dbPath.
// Report script loading priority:
//  1. WithScriptsFS
//  2. WithScriptsDir
//  3. the scripts embedded in the binary
func New(dbPath string, opts ...Option) (*Engine, error) {
	s, err := store.NewStore(dbPath)
	if err != nil {
		return nil, fmt.Errorf("docscan: create store: %w", err)
	}
	if err := s.Migrate(); err != nil {
		s.Close()
		return nil, fmt.Errorf("docscan: migrate: %w", err)
	}

	e := &Engine{
		store:       s,
		logger:      slog.Default(),
		useParallel: true,
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.excludeErr != nil {
		s.Close()
		return nil, fmt.Errorf("docscan: exclude: %w", e.excludeErr)
	}
	if e.scriptsFS == nil && e.scriptsDir == "" {
		e.scriptsFS = scripts.FS
	}

	rtOpts := []runtime.RuntimeOption{
		runtime.WithLogger(e.logger),
		runtime.WithClassifier(e.classifySource),
	}
	if e.scriptsFS != nil {
		rtOpts = append(rtOpts, runtime.WithRuntimeFS(e.scriptsFS))
	}
	e.runtime = runtime.NewRuntime(s, e.scriptsDir, rtOpts...)

	return e, nil
}

// Close releases the Engine's database resources.
func (e *Engine) Close() error {
	return e.store.Close()
}

// Store returns the underlying Store for direct access.
func (e *Engine) Store() *Store {
	return e.store
}

// Query returns a new QueryBuilder wrapping the Store.
func (e *Engine) Query() *QueryBuilder {
	return NewQueryBuilder(e.store)
}

// Modules returns the effective module allow-list.
func (e *Engine) Modules() []string {
	if len(e.modules) == 0 {
		return DefaultModuleNames
	}
	return e.modules
}

// ModulesChanged reports whether the allow-list differs from the one the
// index was built with. It is true for a fresh database.
func (e *Engine) ModulesChanged() bool {
	stored, err := e.store.GetMetadata(modulesHashKey)
	if err != nil || stored == "" {
		return true
	}
	return stored != store.ComputeModulesHash(e.Modules())
}

func (e *Engine) storeModulesHash() error {
	return e.store.SetMetadata(modulesHashKey, store.ComputeModulesHash(e.Modules()))
}

// ScanDirectory scans every supported file under root. Inside a git work
// tree it uses git ls-files so ignored files are skipped; otherwise it walks
// the tree, skipping hidden directories, node_modules and vendor. Indexed
// files under root that are no longer listed are removed.
func (e *Engine) ScanDirectory(ctx context.Context, root string) error {
	root = filepath.Clean(root)
	paths, err := e.gitListFiles(root)
	if err != nil {
		e.logger.Debug("git ls-files unavailable, walking directory", "root", root, "error", err)
		paths, err = e.walkListFiles(root)
		if err != nil {
			return fmt.Errorf("docscan: %w", err)
		}
	}

	listed := make(map[string]bool, len(paths))
	kept := paths[:0]
	for _, p := range paths {
		if e.exclude.ExcludePath(root, p) {
			continue
		}
		listed[p] = true
		kept = append(kept, p)
	}

	stale, err := e.staleFiles(root, listed)
	if err != nil {
		return fmt.Errorf("docscan: %w", err)
	}
	return e.scanPaths(ctx, kept, stale)
}

// ScanFiles scans the given paths. Unchanged files are skipped; paths that
// no longer exist are removed from the index.
//
// Errors on individual files are logged and skipped; processing continues
// and the first error is returned at the end.
func (e *Engine) ScanFiles(ctx context.Context, paths []string) error {
	return e.scanPaths(ctx, paths, nil)
}

func (e *Engine) scanPaths(ctx context.Context, paths []string, stale []*store.File) error {
	force := e.ModulesChanged()
	if force {
		// Every indexed file was classified with another allow-list.
		all, err := e.store.Files()
		if err != nil {
			return fmt.Errorf("docscan: list files: %w", err)
		}
		for _, f := range all {
			paths = append(paths, f.Path)
		}
	}
	paths = dedupePaths(paths)

	start := time.Now()
	var (
		errs    []error
		scanned = make(map[string]bool, len(paths))
		total   int
	)
	// The second round rescans importers of files whose re-export changed.
	for round := 0; round < 2 && (len(paths) > 0 || len(stale) > 0); round++ {
		if err := ctx.Err(); err != nil {
			return err
		}
		res := e.scanRound(ctx, paths, stale, force || round > 0)
		errs = append(errs, res.errs...)
		total += len(res.scanned)
		for _, p := range res.scanned {
			scanned[p] = true
		}

		stale = nil
		paths = nil
		for _, p := range res.blast {
			if !scanned[p] {
				paths = append(paths, p)
			}
		}
		if len(paths) > 0 {
			e.logger.Debug("rescanning importers of changed re-exports", "files", len(paths))
		}
	}

	if err := e.storeModulesHash(); err != nil {
		errs = append(errs, fmt.Errorf("store modules hash: %w", err))
	}
	e.logger.Info("scan complete", "files", total, "errors", len(errs), "duration", time.Since(start))

	if len(errs) > 0 {
		return fmt.Errorf("docscan: scan had %d error(s): %w", len(errs), errs[0])
	}
	return nil
}

type roundResult struct {
	scanned []string // paths parsed and classified, unchanged files excluded
	blast   []string
	errs    []error
}

// scanRound runs the scan phases over one set of paths:
//
//	Phase A (serial):   stale removal, hash check, file records.
//	Phase B (parallel): parse.
//	re-export merge:    the index every file of the round classifies against.
//	Phase B2 (parallel): classify into per-file batches.
//	Phase C (serial):   commit batches.
func (e *Engine) scanRound(ctx context.Context, paths []string, stale []*store.File, force bool) roundResult {
	var res roundResult
	changed := make(map[string]bool)

	for _, f := range stale {
		key, err := e.removeFile(f)
		if err != nil {
			res.errs = append(res.errs, e.fileError("remove", f.Path, err))
			continue
		}
		if key != "" {
			changed[key] = true
		}
	}

	// ---- Phase A: Serial file preparation ----
	var items []*workItem
	for _, path := range paths {
		item, key, err := e.prepareFile(path, force)
		if key != "" {
			changed[key] = true
		}
		if err != nil {
			res.errs = append(res.errs, e.fileError("prepare", path, err))
			continue
		}
		if item != nil {
			items = append(items, item)
		}
	}
	for _, it := range items {
		res.scanned = append(res.scanned, it.path)
	}

	// ---- Phase B: Parse ----
	e.forEach(items, func(it *workItem) {
		it.file, it.err = jsast.Parse(ctx, it.path, it.src, it.lang)
	})

	reexports, err := e.store.Reexports()
	if err != nil {
		res.errs = append(res.errs, fmt.Errorf("load reexports: %w", err))
		reexports = map[string]string{}
	}
	index := resolve.Reexports(reexports)
	for _, it := range items {
		if it.err != nil {
			continue
		}
		index.Add(it.slashPath, it.file.Reexport)
		if it.file.Reexport != it.oldReexport {
			changed[resolve.ModuleKey(it.slashPath)] = true
		}
	}

	// ---- Phase B2: Classify ----
	e.forEach(items, func(it *workItem) {
		if it.err != nil {
			return
		}
		var ds store.DataStore = e.store
		if it.batch != nil {
			ds = it.batch
		}
		it.err = e.classifyFile(ds, it, index)
	})

	// ---- Phase C: Serial commit ----
	for _, it := range items {
		if it.err == nil {
			it.err = e.commitFile(it)
		}
		if it.err != nil {
			res.errs = append(res.errs, e.fileError("scan", it.path, it.err))
			// Drop the record so the next scan retries the file.
			if err := e.store.DeleteFile(it.fileID); err != nil {
				e.logger.Warn("failed to drop file record", "path", it.path, "error", err)
			}
		}
	}

	blast, err := e.blastPaths(changed)
	if err != nil {
		res.errs = append(res.errs, fmt.Errorf("blast radius: %w", err))
	}
	res.blast = blast
	return res
}

func (e *Engine) fileError(op, path string, err error) error {
	e.logger.Warn("scan failed", "op", op, "path", path, "error", err)
	return fmt.Errorf("%s %s: %w", op, path, err)
}

// prepareFile does Phase A work for a single file. It returns a nil item
// for skipped files, and the module key of a removed barrel file.
func (e *Engine) prepareFile(path string, force bool) (*workItem, string, error) {
	lang, ok := jsast.LanguageForFile(path)
	if !ok {
		return nil, "", nil // unsupported extension
	}
	if e.languages != nil && !e.languages[lang] {
		return nil, "", nil // filtered out
	}
	if e.exclude.ExcludeFile(path) {
		return nil, "", nil
	}

	existing, err := e.store.FileByPath(path)
	if err != nil {
		return nil, "", fmt.Errorf("lookup file: %w", err)
	}

	content, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			key, err := e.removeFile(existing)
			return nil, key, err
		}
		return nil, "", fmt.Errorf("read file: %w", err)
	}
	hash := fmt.Sprintf("%x", sha256.Sum256(content))
	if existing != nil && existing.Hash == hash && !force {
		return nil, "", nil // unchanged
	}

	var oldReexport string
	if existing != nil {
		oldReexport = existing.Reexport
		if err := e.store.DeleteFile(existing.ID); err != nil {
			return nil, "", fmt.Errorf("delete old data: %w", err)
		}
	}

	slashPath := filepath.ToSlash(path)
	fileID, err := e.store.InsertFile(&store.File{
		Path:        path,
		Language:    lang,
		Hash:        hash,
		ModuleKey:   resolve.ModuleKey(slashPath),
		LineCount:   bytes.Count(content, []byte{'\n'}) + 1,
		LastIndexed: time.Now(),
	})
	if err != nil {
		return nil, "", fmt.Errorf("insert file: %w", err)
	}

	item := &workItem{
		path:        path,
		slashPath:   slashPath,
		lang:        lang,
		fileID:      fileID,
		src:         content,
		oldReexport: oldReexport,
	}
	if e.useParallel {
		item.batch = store.NewBatchedStore(e.store, fileID)
	}
	return item, "", nil
}

// removeFile deletes an indexed file. It returns the file's module key when
// the file was a barrel, since importers must then be reclassified.
func (e *Engine) removeFile(f *store.File) (string, error) {
	if f == nil {
		return "", nil
	}
	if err := e.store.DeleteFile(f.ID); err != nil {
		return "", err
	}
	e.logger.Debug("removed file from index", "path", f.Path)
	if f.Reexport != "" {
		return f.ModuleKey, nil
	}
	return "", nil
}

// classifyFile writes the classes and imports of a parsed file to ds.
func (e *Engine) classifyFile(ds store.DataStore, it *workItem, index resolve.Reexports) error {
	reports := Analyze(it.file, AnalyzeOptions{Modules: e.modules, Reexports: index})
	for _, r := range reports {
		c := r.Class
		row := &store.Class{
			FileID:      it.fileID,
			Name:        c.Name,
			Kind:        string(c.Kind),
			Superclass:  r.Superclass,
			IsComponent: r.IsComponent(),
			StartLine:   c.StartLine,
			StartCol:    c.StartCol,
			EndLine:     c.EndLine,
			EndCol:      c.EndCol,
		}
		if row.IsComponent {
			row.Rule = r.Rule.String()
		}
		if _, err := ds.InsertClass(row); err != nil {
			return fmt.Errorf("insert class %q: %w", c.Name, err)
		}
	}

	for _, source := range it.file.Imports {
		imp := &store.Import{FileID: it.fileID, Source: source}
		if key, ok := resolve.TargetKey(it.slashPath, source); ok {
			imp.TargetKey = key
		}
		if _, err := ds.InsertImport(imp); err != nil {
			return fmt.Errorf("insert import %q: %w", source, err)
		}
	}
	return nil
}

// commitFile makes a classified file visible: the batch is written in one
// transaction, or in serial mode only the re-export is left to record.
func (e *Engine) commitFile(it *workItem) error {
	if it.batch == nil {
		return e.store.SetFileReexport(it.fileID, it.file.Reexport)
	}
	it.batch.SetReexport(it.file.Reexport)
	if err := e.store.CommitBatch(it.batch); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}

// blastPaths returns the paths of files importing any of the changed keys.
func (e *Engine) blastPaths(changed map[string]bool) ([]string, error) {
	if len(changed) == 0 {
		return nil, nil
	}
	keys := make([]string, 0, len(changed))
	for k := range changed {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	ids, err := e.store.FilesImportingKeys(keys)
	if err != nil {
		return nil, err
	}
	return e.store.PathsByIDs(ids)
}

// staleFiles returns indexed files under root that are not in listed.
func (e *Engine) staleFiles(root string, listed map[string]bool) ([]*store.File, error) {
	files, err := e.store.Files()
	if err != nil {
		return nil, fmt.Errorf("list files: %w", err)
	}
	var stale []*store.File
	for _, f := range files {
		if listed[f.Path] {
			continue
		}
		rel, err := filepath.Rel(root, f.Path)
		if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
			continue
		}
		stale = append(stale, f)
	}
	return stale, nil
}

func dedupePaths(paths []string) []string {
	seen := make(map[string]bool, len(paths))
	out := make([]string, 0, len(paths))
	for _, p := range paths {
		if seen[p] {
			continue
		}
		seen[p] = true
		out = append(out, p)
	}
	return out
}

// skipDirs are never descended into by the filesystem walk.
var skipDirs = map[string]bool{
	"node_modules": true,
	"vendor":       true,
}

// gitListFiles uses git ls-files to discover tracked and untracked (but not
// ignored) files under root, filtered to supported languages.
func (e *Engine) gitListFiles(root string) ([]string, error) {
	// --cached: tracked files, --others: untracked files,
	// --exclude-standard: respect .gitignore, .git/info/exclude, global excludes.
	cmd := exec.Command("git", "ls-files", "--cached", "--others", "--exclude-standard")
	cmd.Dir = root
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		return nil, fmt.Errorf("git ls-files: %w: %s", err, strings.TrimSpace(stderr.String()))
	}

	var paths []string
	for _, line := range strings.Split(stdout.String(), "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		absPath := filepath.Join(root, line)
		if _, ok := jsast.LanguageForFile(absPath); ok {
			paths = append(paths, absPath)
		}
	}
	return paths, nil
}

// walkListFiles discovers files by walking the filesystem, used as a fallback
// when git is not available. Skips hidden directories, node_modules, vendor
// and excluded directories.
func (e *Engine) walkListFiles(root string) ([]string, error) {
	var paths []string
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if path == root {
				return nil
			}
			name := d.Name()
			if strings.HasPrefix(name, ".") || skipDirs[name] || e.exclude.ExcludeDir(path) {
				return filepath.SkipDir
			}
			return nil
		}
		if _, ok := jsast.LanguageForFile(path); ok {
			paths = append(paths, path)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walk directory: %w", err)
	}
	return paths, nil
}

// RunReport runs a report script by name (see runtime.ReportScriptPath) and
// returns the rows it emitted. args is exposed to the script as `args`.
func (e *Engine) RunReport(ctx context.Context, script string, args map[string]any) ([]map[string]any, error) {
	var extras map[string]any
	if args != nil {
		extras = map[string]any{"args": args}
	}
	rows, err := e.runtime.RunReport(ctx, runtime.ReportScriptPath(script), extras)
	if err != nil {
		return nil, fmt.Errorf("docscan: report %s: %w", script, err)
	}
	return rows, nil
}

// classifySource backs the classify_src script global.
func (e *Engine) classifySource(ctx context.Context, src, language string) ([]runtime.ClassResult, error) {
	file, err := jsast.Parse(ctx, "<inline>", []byte(src), language)
	if err != nil {
		return nil, err
	}
	reports := Analyze(file, AnalyzeOptions{Modules: e.modules})
	out := make([]runtime.ClassResult, 0, len(reports))
	for _, r := range reports {
		res := runtime.ClassResult{
			Name:        r.Class.Name,
			Kind:        string(r.Class.Kind),
			Superclass:  r.Superclass,
			IsComponent: r.IsComponent(),
			StartLine:   r.Class.StartLine,
			EndLine:     r.Class.EndLine,
		}
		if res.IsComponent {
			res.Rule = r.Rule.String()
		}
		out = append(out, res)
	}
	return out, nil
}
