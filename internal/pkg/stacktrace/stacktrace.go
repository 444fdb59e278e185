package stacktrace

import "strings"

// InternalPaths extracts the `internal/...go:line` frames from a
// debug.Stack() dump, dropping runtime and third-party frames.
func InternalPaths(stack []byte) []string {
	var paths []string
	for line := range strings.Lines(string(stack)) {
		line = strings.TrimSpace(line)

		_, rest, ok := strings.Cut(line, "/internal/")
		if !ok || !strings.Contains(rest, ".go:") {
			continue
		}

		frame, _, _ := strings.Cut(rest, " ")
		paths = append(paths, "internal/"+frame)
	}
	return paths
}
