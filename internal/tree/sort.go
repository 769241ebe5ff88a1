package tree

import (
	"slices"
	"strings"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// SortPaths returns a sorted copy of paths.
//
// Two paths are compared from the first byte at which they differ. If only
// one of the remainders still contains a separator, that path continues into
// a sub-folder and sorts first. Otherwise the full paths are compared with
// locale-aware collation, falling back to byte order when the collator
// considers them equal.
func SortPaths(paths []string) []string {
	sorted := slices.Clone(paths)

	// Start from byte order so the result never depends on input order.
	slices.Sort(sorted)

	c := collate.New(language.Und)
	slices.SortStableFunc(sorted, func(a, b string) int {
		return comparePaths(c, a, b)
	})
	return sorted
}

// ComparePaths orders two paths the way SortPaths does.
func ComparePaths(a, b string) int {
	return comparePaths(collate.New(language.Und), a, b)
}

func comparePaths(c *collate.Collator, a, b string) int {
	i := commonPrefixLen(a, b)
	aInFolder := strings.Contains(a[i:], Separator)
	bInFolder := strings.Contains(b[i:], Separator)

	switch {
	case aInFolder && !bInFolder:
		return -1
	case !aInFolder && bInFolder:
		return 1
	}

	if r := c.CompareString(a, b); r != 0 {
		return r
	}
	return strings.Compare(a, b)
}

func commonPrefixLen(a, b string) int {
	n := min(len(a), len(b))
	i := 0
	for i < n && a[i] == b[i] {
		i++
	}
	return i
}

// Dedupe removes repeated paths, keeping the first occurrence.
func Dedupe(paths []string) []string {
	seen := make(map[string]struct{}, len(paths))
	out := make([]string, 0, len(paths))
	for _, p := range paths {
		if _, ok := seen[p]; ok {
			continue
		}
		seen[p] = struct{}{}
		out = append(out, p)
	}
	return out
}
