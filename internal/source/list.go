package source

import (
	"bufio"
	"fmt"
	"io"
	"path"
	"strings"
)

// ReadList reads newline-separated paths. Blank lines are skipped, paths
// are cleaned, and leading "./" or "/" and trailing "/" are removed.
// Backslashes are kept as part of the name.
func ReadList(r io.Reader) ([]string, error) {
	var paths []string

	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for sc.Scan() {
		if p, ok := normalize(sc.Text()); ok {
			paths = append(paths, p)
		}
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("read path list: %w", err)
	}
	return paths, nil
}

func normalize(line string) (string, bool) {
	line = strings.TrimRight(line, "\r")
	if strings.TrimSpace(line) == "" {
		return "", false
	}

	p := strings.TrimLeft(path.Clean(line), "/")
	if p == "" || p == "." {
		return "", false
	}
	return p, true
}
