package tree

import "strings"

// Build creates a forest from a set of paths. Duplicates are dropped and the
// remaining paths are sorted with SortPaths before insertion, so the result
// is the same for any ordering of the same input.
func Build(paths []string) Forest {
	f, _ := BuildWithConflicts(paths)
	return f
}

// BuildWithConflicts is Build that also reports every path whose final
// segment was supplied both as a file and as a folder. The folder always
// wins: a file entry never replaces a folder, and a folder entry turns an
// existing file into an (initially empty) folder.
func BuildWithConflicts(paths []string) (Forest, []string) {
	root := []*Node{}
	index := make(map[string]*Node)
	var conflicts []string

	for _, p := range SortPaths(Dedupe(paths)) {
		parts := strings.Split(p, Separator)
		level := &root
		prefix := ""

		for i, part := range parts {
			isFile := i == len(parts)-1
			prefix = Join(prefix, part)

			node, ok := index[prefix]
			switch {
			case !ok:
				node = &Node{Name: part}
				if !isFile {
					node.Children = []*Node{}
				}
				*level = append(*level, node)
				index[prefix] = node
			case !isFile && node.Children == nil:
				node.Children = []*Node{}
				conflicts = append(conflicts, prefix)
			case isFile && node.Children != nil:
				conflicts = append(conflicts, prefix)
			}

			if !isFile {
				level = &node.Children
			}
		}
	}

	return Forest(root), conflicts
}
