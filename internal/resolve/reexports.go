package resolve

import (
	"path"
	"strings"
)

var moduleExts = []string{".tsx", ".ts", ".mts", ".cts", ".jsx", ".js", ".mjs", ".cjs"}

// Reexports indexes files that re-export another module wholesale, keyed by
// ModuleKey of the file path. Values are the re-exported source as written.
type Reexports map[string]string

// Add records that the file at filePath re-exports source. Empty sources
// are ignored.
func (r Reexports) Add(filePath, source string) {
	if source == "" {
		return
	}
	r[ModuleKey(filePath)] = source
}

// ModuleKey normalizes a file path or relative import target so that
// "lib/index.js", "lib/index" and "lib" compare equal.
func ModuleKey(p string) string {
	p = path.Clean(strings.ReplaceAll(p, "\\", "/"))
	for _, ext := range moduleExts {
		if strings.HasSuffix(p, ext) {
			p = strings.TrimSuffix(p, ext)
			break
		}
	}
	if p == "index" {
		return "."
	}
	return strings.TrimSuffix(p, "/index")
}
