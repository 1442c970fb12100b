package rfc2html

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// Regenerate with: go run ./cmd/gen-golden
func TestGoldenMarkup(t *testing.T) {
	paths, err := filepath.Glob("testdata/*.txt")
	if err != nil {
		t.Fatalf("glob: %v", err)
	}
	if len(paths) == 0 {
		t.Fatalf("no testdata")
	}
	for _, path := range paths {
		src, err := os.ReadFile(path)
		if err != nil {
			t.Fatalf("read %s: %v", path, err)
		}
		goldenPath := strings.TrimSuffix(path, ".txt") + ".golden"
		want, err := os.ReadFile(goldenPath)
		if err != nil {
			t.Fatalf("read %s: %v", goldenPath, err)
		}
		got := Markup(string(src))
		if got != string(want) {
			t.Fatalf("%s mismatch\n---want---\n%s\n---got---\n%s", goldenPath, want, got)
		}
		if strings.Count(got, "\n") != strings.Count(string(src), "\n") {
			t.Fatalf("%s: newline count changed", path)
		}
	}
}
