// Package tree builds a nested file/folder forest from a flat set of paths.
package tree

import "strings"

// Separator delimits path segments. Paths are always slash separated,
// regardless of the host OS.
const Separator = "/"

// Node is a file or folder in a Forest.
// Children is nil for files and non-nil (possibly empty) for folders.
type Node struct {
	Name     string
	Children []*Node
}

// IsFolder reports whether the node is a folder.
func (n *Node) IsFolder() bool {
	return n.Children != nil
}

// Forest is the ordered list of root-level nodes.
type Forest []*Node

// WalkFunc is called for every node visited by Walk. path is the
// slash-joined path from the root, depth is 1 for root-level nodes.
// Returning false skips the node's children.
type WalkFunc func(path string, depth int, n *Node) bool

// Walk visits the forest in document order: a folder, then its children.
func (f Forest) Walk(fn WalkFunc) {
	walk(f, "", 1, fn)
}

func walk(nodes []*Node, parent string, depth int, fn WalkFunc) {
	for _, n := range nodes {
		p := Join(parent, n.Name)
		if !fn(p, depth, n) {
			continue
		}
		if n.Children != nil {
			walk(n.Children, p, depth+1, fn)
		}
	}
}

// Find returns the node at path, or nil.
func (f Forest) Find(path string) *Node {
	level := []*Node(f)
	parts := strings.Split(path, Separator)
	for i, part := range parts {
		var next *Node
		for _, n := range level {
			if n.Name == part {
				next = n
				break
			}
		}
		if next == nil {
			return nil
		}
		if i == len(parts)-1 {
			return next
		}
		level = next.Children
	}
	return nil
}

// FolderPaths returns the path of every folder in document order.
func (f Forest) FolderPaths() []string {
	var paths []string
	f.Walk(func(path string, _ int, n *Node) bool {
		if n.IsFolder() {
			paths = append(paths, path)
		}
		return true
	})
	return paths
}

// Join appends name to a parent path.
func Join(parent, name string) string {
	if parent == "" {
		return name
	}
	return parent + Separator + name
}

// Parent returns the parent folder of path, or "" for root-level entries.
func Parent(path string) string {
	i := strings.LastIndex(path, Separator)
	if i < 0 {
		return ""
	}
	return path[:i]
}

// IsWithin reports whether path lies strictly inside folder.
func IsWithin(path, folder string) bool {
	return strings.HasPrefix(path, folder+Separator)
}
