package docscan

import (
	"context"
	"fmt"
	"time"

	"github.com/jward/docscan/internal/jsast"
	"github.com/jward/docscan/internal/watcher"
)

// Watch rescans changed files under roots until ctx is cancelled. Changes
// are batched over debounce (config.DefaultDebounce when zero). onScan, if
// non-nil, is called after every batch with the paths and the scan error.
func (e *Engine) Watch(ctx context.Context, roots []string, debounce time.Duration, onScan func(paths []string, err error)) error {
	w, err := watcher.New(debounce, e.exclude, func(paths []string) {
		err := e.ScanFiles(ctx, paths)
		if err != nil {
			e.logger.Error("rescan failed", "files", len(paths), "error", err)
		} else {
			e.logger.Info("rescanned", "files", len(paths))
		}
		if onScan != nil {
			onScan(paths, err)
		}
	}, watcher.WithLogger(e.logger), watcher.WithFilter(e.accepts))
	if err != nil {
		return fmt.Errorf("docscan: watch: %w", err)
	}

	if err := w.Watch(roots); err != nil {
		w.Close()
		return fmt.Errorf("docscan: watch: %w", err)
	}
	e.logger.Info("watching", "roots", roots)

	<-ctx.Done()
	if err := w.Close(); err != nil {
		return fmt.Errorf("docscan: watch: %w", err)
	}
	<-w.Done()
	return nil
}

// accepts reports whether path has a supported, enabled language.
func (e *Engine) accepts(path string) bool {
	lang, ok := jsast.LanguageForFile(path)
	if !ok {
		return false
	}
	return e.languages == nil || e.languages[lang]
}
