package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/jward/docscan"
)

var checkCmd = &cobra.Command{
	Use:   "check <file>...",
	Short: "Classify the classes of files without touching the index",
	Long:  "Parses each file and reports every class it declares, whether it is a component and which rule matched. Relative imports are resolved without re-export information.",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runCheck,
}

func runCheck(cmd *cobra.Command, args []string) error {
	var classes []CLIClass
	for _, arg := range args {
		path, err := resolveFilePath(arg)
		if err != nil {
			return outputError("check", err)
		}
		cfg, err := loadConfig(findRepoRoot(filepath.Dir(path)))
		if err != nil {
			return outputError("check", err)
		}
		src, err := os.ReadFile(path)
		if err != nil {
			return outputError("check", fmt.Errorf("reading %s: %w", arg, err))
		}

		_, reports, err := docscan.AnalyzeSource(background(cmd), path, src, docscan.AnalyzeOptions{Modules: cfg.Modules})
		if err != nil {
			return outputError("check", err)
		}
		for _, r := range reports {
			c := CLIClass{
				File:        path,
				Name:        r.Class.Name,
				Kind:        string(r.Class.Kind),
				Superclass:  r.Superclass,
				IsComponent: r.IsComponent(),
				StartLine:   r.Class.StartLine,
				StartCol:    r.Class.StartCol,
				EndLine:     r.Class.EndLine,
				EndCol:      r.Class.EndCol,
			}
			if c.IsComponent {
				c.Rule = r.Rule.String()
			}
			classes = append(classes, c)
		}
	}
	if classes == nil {
		classes = []CLIClass{}
	}
	return outputResult(CLIResult{Command: "check", Results: classes})
}

var (
	flagScriptsDir string
	flagArgs       []string
)

var reportCmd = &cobra.Command{
	Use:   "report <name>",
	Short: "Run a Risor report script against the index",
	Long:  "Runs report/<name>.risor (or a path ending in .risor) and prints the rows it emits. Built-in reports: components, summary, rules.",
	Args:  cobra.ExactArgs(1),
	RunE:  runReport,
}

func init() {
	reportCmd.Flags().StringVar(&flagScriptsDir, "scripts-dir", "", "load scripts from disk path instead of embedded")
	reportCmd.Flags().StringArrayVar(&flagArgs, "arg", nil, "script argument as key=value, available as args[key]")
}

func runReport(cmd *cobra.Command, args []string) error {
	scriptArgs, err := parseScriptArgs(flagArgs)
	if err != nil {
		return outputError("report", err)
	}

	var opts []docscan.Option
	if flagScriptsDir != "" {
		opts = append(opts, docscan.WithScriptsDir(flagScriptsDir))
	}
	engine, err := openEngine(opts...)
	if err != nil {
		return outputError("report", err)
	}
	defer engine.Close()

	rows, err := engine.RunReport(background(cmd), args[0], scriptArgs)
	if err != nil {
		return outputError("report", err)
	}
	if rows == nil {
		rows = []map[string]any{}
	}
	count := len(rows)
	return outputResult(CLIResult{Command: "report", Results: rows, TotalCount: &count})
}

// parseScriptArgs turns key=value pairs into the script's args map.
func parseScriptArgs(pairs []string) (map[string]any, error) {
	if len(pairs) == 0 {
		return nil, nil
	}
	out := make(map[string]any, len(pairs))
	for _, p := range pairs {
		key, value, ok := strings.Cut(p, "=")
		if !ok || key == "" {
			return nil, fmt.Errorf("invalid --arg %q: want key=value", p)
		}
		out[key] = value
	}
	return out, nil
}
