package tree

import (
	"bufio"
	"io"
)

// Print writes the forest as an indented text tree. Folders carry a
// trailing separator.
func Print(w io.Writer, f Forest) error {
	bw := bufio.NewWriter(w)
	printLevel(bw, f, "")
	return bw.Flush()
}

func printLevel(w *bufio.Writer, nodes []*Node, indent string) {
	for i, n := range nodes {
		last := i == len(nodes)-1

		connector, childIndent := "├── ", "│   "
		if last {
			connector, childIndent = "└── ", "    "
		}

		name := n.Name
		if n.IsFolder() {
			name += Separator
		}
		_, _ = w.WriteString(indent + connector + name + "\n")

		if n.IsFolder() {
			printLevel(w, n.Children, indent+childIndent)
		}
	}
}
