package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/jward/docscan"
	"github.com/jward/docscan/internal/config"
)

var (
	flagDB      string
	flagConfig  string
	flagFormat  string
	flagVerbose bool
)

// errorHandled is set by outputError so main() doesn't double-print.
var errorHandled bool

// stdout receives command results. Tests swap it for a buffer.
var stdout io.Writer = os.Stdout

func main() {
	if err := rootCmd.Execute(); err != nil {
		if !errorHandled {
			fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		}
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:           "docscan",
	Short:         "Find React component classes in JavaScript and TypeScript sources",
	Long:          "docscan parses JavaScript and TypeScript with tree-sitter, decides which classes are React components, and keeps the results in a SQLite index for queries and Risor reports.",
	SilenceErrors: true,
	SilenceUsage:  true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		setupLogger(os.Stderr, flagVerbose)
		return validateFormat(flagFormat)
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagDB, "db", "", "database path (default: .docscan/index.db relative to repo root)")
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "config file (default: .docscan.toml at the repo root)")
	rootCmd.PersistentFlags().StringVar(&flagFormat, "format", "json", "output format: json|text")
	rootCmd.PersistentFlags().BoolVarP(&flagVerbose, "verbose", "v", false, "log per-file progress to stderr")

	rootCmd.AddCommand(scanCmd)
	rootCmd.AddCommand(watchCmd)
	rootCmd.AddCommand(checkCmd)
	rootCmd.AddCommand(componentsCmd)
	rootCmd.AddCommand(classesCmd)
	rootCmd.AddCommand(filesCmd)
	rootCmd.AddCommand(summaryCmd)
	rootCmd.AddCommand(dependentsCmd)
	rootCmd.AddCommand(reportCmd)
}

func setupLogger(w io.Writer, verbose bool) {
	level := slog.LevelWarn
	if verbose {
		level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level})))
}

var (
	flagForce     bool
	flagLanguages string
	flagSerial    bool
)

var scanCmd = &cobra.Command{
	Use:   "scan [path]",
	Short: "Scan a directory and classify its classes",
	Long:  "Parses supported files under path, classifies every class and writes the results to the SQLite index. Unchanged files are skipped.",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runScan,
}

func init() {
	scanCmd.Flags().BoolVar(&flagForce, "force", false, "delete database and scan from scratch")
	scanCmd.Flags().StringVar(&flagLanguages, "languages", "", "comma-separated language filter (e.g. javascript,tsx)")
	scanCmd.Flags().BoolVar(&flagSerial, "serial", false, "parse and classify files one at a time")
}

func runScan(cmd *cobra.Command, args []string) error {
	start := time.Now()

	targetDir, err := resolveTargetDir(args)
	if err != nil {
		return err
	}
	repoRoot := findRepoRoot(targetDir)
	dbPath := resolveDBPath(repoRoot)

	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return fmt.Errorf("creating %s: %w", filepath.Dir(dbPath), err)
	}
	if flagForce {
		if err := os.Remove(dbPath); err != nil && !os.IsNotExist(err) {
			return fmt.Errorf("removing database for --force: %w", err)
		}
		fmt.Fprintf(os.Stderr, "Cleared database: %s\n", dbPath)
	}

	opts, err := engineOptions(repoRoot)
	if err != nil {
		return err
	}
	if flagLanguages != "" {
		opts = append(opts, docscan.WithLanguages(splitList(flagLanguages)...))
	}
	if flagSerial {
		opts = append(opts, docscan.WithParallel(false))
	}

	engine, err := docscan.New(dbPath, opts...)
	if err != nil {
		return fmt.Errorf("creating engine: %w", err)
	}
	defer engine.Close()

	if err := engine.ScanDirectory(background(cmd), targetDir); err != nil {
		return fmt.Errorf("scanning: %w", err)
	}

	fmt.Fprintf(os.Stderr, "Scanned %s in %s\n", targetDir, time.Since(start).Round(time.Millisecond))
	fmt.Fprintf(os.Stderr, "Database: %s\n", dbPath)
	return nil
}

var watchCmd = &cobra.Command{
	Use:   "watch [path]",
	Short: "Scan a directory, then rescan files as they change",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runWatch,
}

func runWatch(cmd *cobra.Command, args []string) error {
	targetDir, err := resolveTargetDir(args)
	if err != nil {
		return err
	}
	repoRoot := findRepoRoot(targetDir)
	dbPath := resolveDBPath(repoRoot)
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return fmt.Errorf("creating %s: %w", filepath.Dir(dbPath), err)
	}

	cfg, err := loadConfig(repoRoot)
	if err != nil {
		return err
	}
	engine, err := docscan.New(dbPath, docscan.WithConfig(cfg), docscan.WithLogger(slog.Default()))
	if err != nil {
		return fmt.Errorf("creating engine: %w", err)
	}
	defer engine.Close()

	ctx, stop := signal.NotifyContext(background(cmd), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := engine.ScanDirectory(ctx, targetDir); err != nil {
		// Keep watching; the failed files are retried when they change.
		fmt.Fprintf(os.Stderr, "Initial scan: %s\n", err)
	}
	fmt.Fprintf(os.Stderr, "Watching %s (Ctrl-C to stop)\n", targetDir)

	return engine.Watch(ctx, []string{targetDir}, cfg.Watch.Debounce, func(paths []string, err error) {
		if err != nil {
			fmt.Fprintf(os.Stderr, "Rescan of %d file(s) failed: %s\n", len(paths), err)
			return
		}
		fmt.Fprintf(os.Stderr, "Rescanned %d file(s)\n", len(paths))
	})
}

// engineOptions returns the options shared by commands that build an Engine.
func engineOptions(repoRoot string) ([]docscan.Option, error) {
	cfg, err := loadConfig(repoRoot)
	if err != nil {
		return nil, err
	}
	return []docscan.Option{
		docscan.WithConfig(cfg),
		docscan.WithLogger(slog.Default()),
	}, nil
}

// loadConfig reads --config, or .docscan.toml at repoRoot when it exists.
func loadConfig(repoRoot string) (*config.Config, error) {
	if flagConfig != "" {
		cfg, err := config.Load(flagConfig)
		if err != nil {
			return nil, fmt.Errorf("loading config: %w", err)
		}
		return cfg, nil
	}
	cfg, err := config.LoadOrDefault(filepath.Join(repoRoot, config.FileName))
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}
	return cfg, nil
}

func splitList(s string) []string {
	parts := strings.Split(s, ",")
	out := parts[:0]
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// resolveTargetDir returns the absolute path of the directory to scan.
func resolveTargetDir(args []string) (string, error) {
	dir := "."
	if len(args) > 0 {
		dir = args[0]
	}
	abs, err := filepath.Abs(dir)
	if err != nil {
		return "", fmt.Errorf("resolving path %q: %w", dir, err)
	}
	info, err := os.Stat(abs)
	if err != nil {
		return "", fmt.Errorf("directory not found: %s", abs)
	}
	if !info.IsDir() {
		return "", fmt.Errorf("not a directory: %s", abs)
	}
	return abs, nil
}

// findRepoRoot walks up from startDir looking for a .git directory.
// Returns the directory containing .git, or startDir if not found.
func findRepoRoot(startDir string) string {
	dir := startDir
	for {
		if info, err := os.Stat(filepath.Join(dir, ".git")); err == nil && info.IsDir() {
			return dir
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return startDir
		}
		dir = parent
	}
}

// resolveDBPath returns the database path from the --db flag or the default.
func resolveDBPath(repoRoot string) string {
	if flagDB != "" {
		if filepath.IsAbs(flagDB) {
			return flagDB
		}
		return filepath.Join(repoRoot, flagDB)
	}
	return filepath.Join(repoRoot, ".docscan", "index.db")
}

// cwdRepoRoot is the repo root of the working directory, used by query
// commands.
func cwdRepoRoot() (string, error) {
	cwd, err := os.Getwd()
	if err != nil {
		return "", fmt.Errorf("getting cwd: %w", err)
	}
	return findRepoRoot(cwd), nil
}

// openEngine opens an existing index for querying and reports.
func openEngine(extra ...docscan.Option) (*docscan.Engine, error) {
	repoRoot, err := cwdRepoRoot()
	if err != nil {
		return nil, err
	}
	dbPath := resolveDBPath(repoRoot)
	if _, err := os.Stat(dbPath); os.IsNotExist(err) {
		return nil, fmt.Errorf("database not found: %s (run 'docscan scan' first)", dbPath)
	}
	opts, err := engineOptions(repoRoot)
	if err != nil {
		return nil, err
	}
	return docscan.New(dbPath, append(opts, extra...)...)
}

// background is the context used when a command has none (tests call RunE
// directly).
func background(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}
