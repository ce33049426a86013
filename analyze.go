package docscan

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/jward/docscan/internal/jsast"
	"github.com/jward/docscan/internal/resolve"
)

// AnalyzeOptions configures Analyze.
type AnalyzeOptions struct {
	// Modules is the allow-list; empty means DefaultModuleNames.
	Modules []string
	// Reexports lets relative imports of barrel files resolve to the module
	// they re-export. May be nil.
	Reexports resolve.Reexports
}

// ClassReport is the classification of one class.
type ClassReport struct {
	Class      *jsast.Class
	Rule       Rule
	Superclass string
}

// IsComponent reports whether any rule matched.
func (r ClassReport) IsComponent() bool { return r.Rule != RuleNone }

// Analyze classifies every class in file, in source order.
func Analyze(file *jsast.File, opts AnalyzeOptions) []ClassReport {
	if file == nil {
		return nil
	}
	symbols := resolve.NewSymbols()
	modules := resolve.NewModules(filepath.ToSlash(file.Path), symbols, opts.Reexports)
	c := NewClassifier(symbols, modules, opts.Modules)

	reports := make([]ClassReport, 0, len(file.Classes))
	for _, class := range file.Classes {
		reports = append(reports, ClassReport{
			Class:      class,
			Rule:       c.Classify(class),
			Superclass: class.SuperText,
		})
	}
	return reports
}

// AnalyzeSource parses src as the file at path and classifies its classes.
// The language comes from the file extension.
func AnalyzeSource(ctx context.Context, path string, src []byte, opts AnalyzeOptions) (*jsast.File, []ClassReport, error) {
	lang, ok := jsast.LanguageForFile(path)
	if !ok {
		return nil, nil, fmt.Errorf("docscan: %s: %w", path, jsast.ErrUnsupportedLanguage)
	}
	file, err := jsast.Parse(ctx, path, src, lang)
	if err != nil {
		return nil, nil, fmt.Errorf("docscan: parse %s: %w", path, err)
	}
	return file, Analyze(file, opts), nil
}
