package store

import (
	"crypto/sha256"
	"fmt"
	"sort"
)

// ComputeModulesHash fingerprints a component module allow-list. Order and
// duplicates do not affect the result.
func ComputeModulesHash(names []string) string {
	sorted := make([]string, len(names))
	copy(sorted, names)
	sort.Strings(sorted)

	h := sha256.New()
	prev := ""
	for i, n := range sorted {
		if i > 0 && n == prev {
			continue
		}
		fmt.Fprintf(h, "module:%s\n", n)
		prev = n
	}
	return fmt.Sprintf("%x", h.Sum(nil))
}
