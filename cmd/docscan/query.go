package main

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/spf13/cobra"

	"github.com/jward/docscan"
)

var (
	flagLimit      int
	flagOffset     int
	flagSort       string
	flagOrder      string
	flagRule       string
	flagLanguage   string
	flagPathPrefix string
	flagFile       string
	flagComponents bool
)

// addListFlags registers the paging and filter flags shared by listings.
func addListFlags(cmd *cobra.Command) {
	cmd.Flags().IntVar(&flagLimit, "limit", 50, "pagination limit (max 500)")
	cmd.Flags().IntVar(&flagOffset, "offset", 0, "pagination offset")
	cmd.Flags().StringVar(&flagOrder, "order", "asc", "sort order: asc|desc")
	cmd.Flags().StringVar(&flagLanguage, "language", "", "filter by language (javascript, typescript, tsx)")
	cmd.Flags().StringVar(&flagPathPrefix, "path-prefix", "", "filter by file path prefix")
}

var componentsCmd = &cobra.Command{
	Use:   "components",
	Short: "List component classes",
	Args:  cobra.NoArgs,
	RunE:  runComponents,
}

var classesCmd = &cobra.Command{
	Use:   "classes [pattern]",
	Short: "Search classes by glob pattern",
	Long:  "Search indexed classes by name. Use * as wildcard (e.g. '*Button*'). With --file, list the classes of one file in source order.",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runClasses,
}

func init() {
	for _, cmd := range []*cobra.Command{componentsCmd, classesCmd} {
		addListFlags(cmd)
		cmd.Flags().StringVar(&flagSort, "sort", "", "sort field: name|file|rule|line")
		cmd.Flags().StringVar(&flagRule, "rule", "", "filter by rule: render-method|docblock|superclass")
	}
	classesCmd.Flags().StringVar(&flagFile, "file", "", "list the classes of this file")
	classesCmd.Flags().BoolVar(&flagComponents, "components", false, "only component classes")

	addListFlags(filesCmd)
}

func runComponents(cmd *cobra.Command, args []string) error {
	filter, err := buildClassFilter()
	if err != nil {
		return outputError("components", err)
	}
	filter.ComponentsOnly = true
	return searchClasses("components", "", filter)
}

func runClasses(cmd *cobra.Command, args []string) error {
	if flagFile != "" {
		return classesOfFile(flagFile)
	}
	filter, err := buildClassFilter()
	if err != nil {
		return outputError("classes", err)
	}
	filter.ComponentsOnly = flagComponents
	pattern := ""
	if len(args) > 0 {
		pattern = args[0]
	}
	return searchClasses("classes", pattern, filter)
}

func searchClasses(command, pattern string, filter docscan.ClassFilter) error {
	engine, err := openEngine()
	if err != nil {
		return outputError(command, err)
	}
	defer engine.Close()

	result, err := engine.Query().SearchClasses(pattern, filter, buildSort(), buildPagination())
	if err != nil {
		return outputError(command, err)
	}
	classes := make([]CLIClass, len(result.Items))
	for i, ci := range result.Items {
		classes[i] = classInfoToCLI(ci)
	}
	return outputResult(CLIResult{
		Command:    command,
		Results:    classes,
		TotalCount: &result.TotalCount,
	})
}

func classesOfFile(file string) error {
	engine, err := openEngine()
	if err != nil {
		return outputError("classes", err)
	}
	defer engine.Close()

	path, err := resolveFilePath(file)
	if err != nil {
		return outputError("classes", err)
	}
	infos, err := engine.Query().Classes(path)
	if err != nil {
		return outputError("classes", err)
	}
	classes := make([]CLIClass, len(infos))
	for i, ci := range infos {
		classes[i] = classInfoToCLI(ci)
	}
	return outputResult(CLIResult{Command: "classes", Results: classes})
}

var filesCmd = &cobra.Command{
	Use:   "files",
	Short: "List indexed files",
	Args:  cobra.NoArgs,
	RunE:  runFiles,
}

func runFiles(cmd *cobra.Command, args []string) error {
	engine, err := openEngine()
	if err != nil {
		return outputError("files", err)
	}
	defer engine.Close()

	prefix := flagPathPrefix
	if prefix != "" {
		if prefix, err = resolveFilePath(prefix); err != nil {
			return outputError("files", err)
		}
	}
	result, err := engine.Query().ListFiles(prefix, flagLanguage, buildSort().Order, buildPagination())
	if err != nil {
		return outputError("files", err)
	}
	files := make([]CLIFile, len(result.Items))
	for i, f := range result.Items {
		files[i] = CLIFile{
			ID:        f.ID,
			Path:      f.Path,
			Language:  f.Language,
			LineCount: f.LineCount,
			Reexport:  f.Reexport,
		}
	}
	return outputResult(CLIResult{
		Command:    "files",
		Results:    files,
		TotalCount: &result.TotalCount,
	})
}

var summaryCmd = &cobra.Command{
	Use:   "summary",
	Short: "Count files, classes and components",
	Args:  cobra.NoArgs,
	RunE:  runSummary,
}

func runSummary(cmd *cobra.Command, args []string) error {
	engine, err := openEngine()
	if err != nil {
		return outputError("summary", err)
	}
	defer engine.Close()

	sum, err := engine.Query().Summary()
	if err != nil {
		return outputError("summary", err)
	}
	return outputResult(CLIResult{Command: "summary", Results: summaryToCLI(sum)})
}

var dependentsCmd = &cobra.Command{
	Use:   "dependents <file>",
	Short: "List files importing a file",
	Args:  cobra.ExactArgs(1),
	RunE:  runDependents,
}

func runDependents(cmd *cobra.Command, args []string) error {
	engine, err := openEngine()
	if err != nil {
		return outputError("dependents", err)
	}
	defer engine.Close()

	path, err := resolveFilePath(args[0])
	if err != nil {
		return outputError("dependents", err)
	}
	paths, err := engine.Query().Dependents(path)
	if err != nil {
		return outputError("dependents", err)
	}
	if paths == nil {
		paths = []string{}
	}
	return outputResult(CLIResult{Command: "dependents", Results: paths})
}

// --- Helpers ---

// resolveFilePath converts a file argument to an absolute path.
func resolveFilePath(file string) (string, error) {
	if filepath.IsAbs(file) {
		return file, nil
	}
	abs, err := filepath.Abs(file)
	if err != nil {
		return "", fmt.Errorf("resolving file path %q: %w", file, err)
	}
	return abs, nil
}

// outputResult marshals a CLIResult to stdout in the selected format.
func outputResult(result CLIResult) error {
	if flagFormat == "text" {
		return outputResultText(stdout, result)
	}
	enc := json.NewEncoder(stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(result)
}

// outputError reports err in the selected format and returns it.
func outputError(command string, err error) error {
	errorHandled = true
	if flagFormat == "text" {
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		return err
	}
	enc := json.NewEncoder(stdout)
	enc.SetIndent("", "  ")
	_ = enc.Encode(CLIResult{Command: command, Error: err.Error()})
	return err
}

// buildPagination creates a Pagination from CLI flags.
func buildPagination() docscan.Pagination {
	return docscan.Pagination{
		Limit:  flagLimit,
		Offset: flagOffset,
	}
}

// buildSort creates a Sort from CLI flags.
func buildSort() docscan.Sort {
	var field docscan.SortField
	switch flagSort {
	case "file":
		field = docscan.SortByFile
	case "rule":
		field = docscan.SortByRule
	case "line":
		field = docscan.SortByLine
	default:
		field = docscan.SortByName
	}

	order := docscan.Asc
	if flagOrder == "desc" {
		order = docscan.Desc
	}
	return docscan.Sort{Field: field, Order: order}
}

// buildClassFilter creates a ClassFilter from the --rule, --language and
// --path-prefix flags.
func buildClassFilter() (docscan.ClassFilter, error) {
	var filter docscan.ClassFilter
	if flagRule != "" {
		rule, err := docscan.ParseRule(flagRule)
		if err != nil || rule == docscan.RuleNone {
			return filter, fmt.Errorf("invalid rule %q: must be one of render-method, docblock, superclass", flagRule)
		}
		filter.Rule = rule
	}
	filter.Language = flagLanguage
	if flagPathPrefix != "" {
		prefix, err := resolveFilePath(flagPathPrefix)
		if err != nil {
			return filter, err
		}
		filter.PathPrefix = prefix
	}
	return filter, nil
}

func classInfoToCLI(ci *docscan.ClassInfo) CLIClass {
	return CLIClass{
		File:        ci.File,
		Name:        ci.Name,
		Kind:        ci.Kind,
		Superclass:  ci.Superclass,
		IsComponent: ci.IsComponent,
		Rule:        ci.Rule,
		StartLine:   ci.StartLine,
		StartCol:    ci.StartCol,
		EndLine:     ci.EndLine,
		EndCol:      ci.EndCol,
	}
}

func summaryToCLI(sum *docscan.Summary) CLISummary {
	out := CLISummary{
		Files:      sum.Files,
		Classes:    sum.Classes,
		Components: sum.Components,
		Rules:      sum.ByRule,
	}
	for lang, ls := range sum.ByLanguage {
		out.Languages = append(out.Languages, CLILanguageSummary{
			Language:   lang,
			Files:      ls.Files,
			Classes:    ls.Classes,
			Components: ls.Components,
		})
	}
	sort.Slice(out.Languages, func(i, j int) bool {
		return out.Languages[i].Language < out.Languages[j].Language
	})
	return out
}
