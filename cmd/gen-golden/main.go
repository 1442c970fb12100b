package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"pkt.systems/rfc2html"
)

func main() {
	root := "testdata"
	var paths []string
	err := filepath.WalkDir(root, func(path string, d os.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		if d.IsDir() {
			return nil
		}
		if strings.HasSuffix(path, ".txt") {
			paths = append(paths, path)
		}
		return nil
	})
	if err != nil {
		fatalf("walk %s: %v", root, err)
	}
	if len(paths) == 0 {
		fatalf("no text files found under %s", root)
	}
	for _, path := range paths {
		src, err := os.ReadFile(path)
		if err != nil {
			fatalf("read %s: %v", path, err)
		}
		if err := rfc2html.ValidateInput(src); err != nil {
			fatalf("validate %s: %v", path, err)
		}
		out := rfc2html.Markup(string(src))
		goldenPath := goldenPath(path)
		if err := os.WriteFile(goldenPath, []byte(out), 0o644); err != nil {
			fatalf("write %s: %v", goldenPath, err)
		}
		fmt.Fprintf(os.Stdout, "wrote %s\n", goldenPath)
	}
}

// goldenPath maps testdata/name.txt to testdata/name.golden.
func goldenPath(txtPath string) string {
	return strings.TrimSuffix(txtPath, ".txt") + ".golden"
}

func fatalf(format string, args ...any) {
	fmt.Fprintf(os.Stderr, format+"\n", args...)
	os.Exit(1)
}
