package main

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func readSource(t *testing.T, src inputSource) string {
	t.Helper()
	buf, err := src.read(context.Background())
	if err != nil {
		t.Fatalf("read %s: %v", src.name, err)
	}
	return string(buf)
}

func TestOpenInputFileAndURL(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "rfc.txt")
	if err := os.WriteFile(path, []byte("hello"), 0o644); err != nil {
		t.Fatalf("write temp file: %v", err)
	}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("stream"))
	}))
	defer srv.Close()

	sources, err := openInputs([]string{path, "file://" + path, srv.URL}, nil)
	if err != nil {
		t.Fatalf("openInputs: %v", err)
	}
	if len(sources) != 3 {
		t.Fatalf("expected 3 sources, got %d", len(sources))
	}
	if got := readSource(t, sources[0]); got != "hello" {
		t.Fatalf("unexpected file content: %q", got)
	}
	if got := readSource(t, sources[1]); got != "hello" {
		t.Fatalf("unexpected file URL content: %q", got)
	}
	if sources[2].url != srv.URL {
		t.Fatalf("expected http source to keep its URL, got %q", sources[2].url)
	}
	if got := readSource(t, sources[2]); got != "stream" {
		t.Fatalf("unexpected http content: %q", got)
	}
}

func TestOpenInputsDefaultsToStdin(t *testing.T) {
	sources, err := openInputs(nil, strings.NewReader("from stdin"))
	if err != nil {
		t.Fatalf("openInputs: %v", err)
	}
	if len(sources) != 1 || sources[0].name != "-" {
		t.Fatalf("expected a single stdin source, got %+v", sources)
	}
	if got := readSource(t, sources[0]); got != "from stdin" {
		t.Fatalf("unexpected stdin content: %q", got)
	}
	if _, err := openInputs([]string{"  "}, nil); err == nil {
		t.Fatalf("expected error for empty input argument")
	}
}

func TestResolveOSC8(t *testing.T) {
	cases := map[string]bool{
		"on":   true,
		"off":  false,
		"1":    true,
		"0":    false,
		"auto": false,
	}
	for input, want := range cases {
		got, err := resolveOSC8(input, &bytes.Buffer{})
		if err != nil {
			t.Fatalf("resolveOSC8(%q): %v", input, err)
		}
		if got != want {
			t.Fatalf("resolveOSC8(%q)=%v want %v", input, got, want)
		}
	}
	if _, err := resolveOSC8("nope", &bytes.Buffer{}); err == nil {
		t.Fatalf("expected error for invalid osc8 value")
	}
}

func TestRunRendersFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "doc.txt")
	if err := os.WriteFile(path, []byte("See RFC 1234 & more\n"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	var stdout, stderr bytes.Buffer
	if code := run([]string{path}, nil, &stdout, &stderr); code != 0 {
		t.Fatalf("exit %d: %s", code, stderr.String())
	}
	want := "<pre>See <a href=\"./rfc1234\">RFC 1234</a> &amp; more\n</pre>"
	if stdout.String() != want {
		t.Fatalf("unexpected output\nwant %q\ngot  %q", want, stdout.String())
	}
}

func TestRunWritesOutputFile(t *testing.T) {
	out := filepath.Join(t.TempDir(), "nested", "doc.html")
	var stdout, stderr bytes.Buffer
	code := run([]string{"-o", out, "--pre=false"}, strings.NewReader("BCP 14"), &stdout, &stderr)
	if code != 0 {
		t.Fatalf("exit %d: %s", code, stderr.String())
	}
	data, err := os.ReadFile(out)
	if err != nil {
		t.Fatalf("read output: %v", err)
	}
	if string(data) != `<a href="./bcp14">BCP 14</a>` {
		t.Fatalf("unexpected output file content: %q", string(data))
	}
	if stdout.Len() != 0 {
		t.Fatalf("expected nothing on stdout, got %q", stdout.String())
	}
}

func TestRunStripRoundTrip(t *testing.T) {
	src := "x < y, see Section 2.4 of RFC 2595.\n   RFC-793 Section\n   3.3 and draft-ietf-\n   name-00\n"
	var rendered, stderr bytes.Buffer
	if code := run(nil, strings.NewReader(src), &rendered, &stderr); code != 0 {
		t.Fatalf("render exit %d: %s", code, stderr.String())
	}
	if !strings.Contains(rendered.String(), "x &lt; y") {
		t.Fatalf("expected escaped input, got %q", rendered.String())
	}
	var stripped bytes.Buffer
	if code := run([]string{"--strip"}, &rendered, &stripped, &stderr); code != 0 {
		t.Fatalf("strip exit %d: %s", code, stderr.String())
	}
	if stripped.String() != src {
		t.Fatalf("round trip mismatch\nwant %q\ngot  %q", src, stripped.String())
	}
}

func TestRunListing(t *testing.T) {
	src := "See Section 2.1 and RFC 1234.\n"
	var stdout, stderr bytes.Buffer
	code := run([]string{"--list", "-w", "80", "--osc8", "off"}, strings.NewReader(src), &stdout, &stderr)
	if code != 0 {
		t.Fatalf("exit %d: %s", code, stderr.String())
	}
	lines := strings.Split(strings.TrimRight(stdout.String(), "\n"), "\n")
	if len(lines) != 2 {
		t.Fatalf("expected 2 listing lines, got %q", stdout.String())
	}
	want := [][]string{
		{"1:5", "local-section", "#section-2.1", "Section", "2.1"},
		{"1:21", "document", "./rfc1234", "RFC", "1234"},
	}
	for i, line := range lines {
		got := strings.Fields(line)
		if strings.Join(got, "|") != strings.Join(want[i], "|") {
			t.Fatalf("line %d: want %v, got %v", i+1, want[i], got)
		}
	}
}

func TestRunListingOSC8(t *testing.T) {
	var stdout, stderr bytes.Buffer
	code := run([]string{"-l", "-8", "on"}, strings.NewReader("RFC 2119"), &stdout, &stderr)
	if code != 0 {
		t.Fatalf("exit %d: %s", code, stderr.String())
	}
	if !strings.Contains(stdout.String(), "\x1b]8;;https://www.rfc-editor.org/rfc/rfc2119\x1b\\RFC 2119\x1b]8;;\x1b\\") {
		t.Fatalf("missing OSC 8 link in %q", stdout.String())
	}
}

func TestRunHTTPInput(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, "RFC 2119\n")
	}))
	defer srv.Close()
	var stdout, stderr bytes.Buffer
	if code := run([]string{"--pre=false", srv.URL}, nil, &stdout, &stderr); code != 0 {
		t.Fatalf("exit %d: %s", code, stderr.String())
	}
	if stdout.String() != "<a href=\"./rfc2119\">RFC 2119</a>\n" {
		t.Fatalf("unexpected output: %q", stdout.String())
	}
}

func TestRunUsageErrors(t *testing.T) {
	var stdout, stderr bytes.Buffer
	if code := run([]string{"--strip", "--list"}, nil, &stdout, &stderr); code != 2 {
		t.Fatalf("expected exit 2 for conflicting modes, got %d", code)
	}
	if code := run([]string{"--no-such-flag"}, nil, &stdout, &stderr); code != 2 {
		t.Fatalf("expected exit 2 for unknown flag, got %d", code)
	}
	if code := run([]string{"--osc8", "maybe"}, nil, &stdout, &stderr); code != 2 {
		t.Fatalf("expected exit 2 for bad --osc8, got %d", code)
	}
	if code := run([]string{filepath.Join(t.TempDir(), "missing.txt")}, nil, &stdout, &stderr); code != 1 {
		t.Fatalf("expected exit 1 for missing input, got %d", code)
	}
}

func TestFitTruncates(t *testing.T) {
	if got := fit("abcdefghij", 5); got != "abcd…" {
		t.Fatalf("fit: got %q", got)
	}
	if got := fit("abc", 5); got != "abc" {
		t.Fatalf("fit short: got %q", got)
	}
}

func TestFitHrefDropsScheme(t *testing.T) {
	if got := fitHref("https://example.com/a", 15); got != "example.com/a" {
		t.Fatalf("fitHref: got %q", got)
	}
	if got := fitHref("./rfc1234#section-2.4", 10); got != "./rfc1234…" {
		t.Fatalf("fitHref relative: got %q", got)
	}
}

func TestResolveHref(t *testing.T) {
	base, err := url.Parse("https://www.rfc-editor.org/rfc/")
	if err != nil {
		t.Fatalf("parse base: %v", err)
	}
	if got := resolveHref(base, "./rfc1234"); got != "https://www.rfc-editor.org/rfc/rfc1234" {
		t.Fatalf("resolveHref: got %q", got)
	}
	doc, _ := url.Parse("https://www.rfc-editor.org/rfc/rfc7817.txt")
	if got := resolveHref(doc, "#section-2"); got != "https://www.rfc-editor.org/rfc/rfc7817.txt#section-2" {
		t.Fatalf("resolveHref local: got %q", got)
	}
	if got := resolveHref(nil, "./bcp14"); got != "./bcp14" {
		t.Fatalf("resolveHref nil base: got %q", got)
	}
}

func TestOSC8Supported(t *testing.T) {
	cases := []struct {
		env  map[string]string
		want bool
	}{
		{env: map[string]string{}, want: false},
		{env: map[string]string{"TERM_PROGRAM": "WezTerm"}, want: true},
		{env: map[string]string{"TERM_PROGRAM": "WezTerm", "OSC8": "0"}, want: false},
		{env: map[string]string{"TERM": "xterm-kitty"}, want: true},
		{env: map[string]string{"VTE_VERSION": "6003"}, want: true},
		{env: map[string]string{"VTE_VERSION": "4200"}, want: false},
	}
	for _, tc := range cases {
		getenv := func(key string) string { return tc.env[key] }
		if got := osc8Supported(getenv); got != tc.want {
			t.Fatalf("env %v: got %v want %v", tc.env, got, tc.want)
		}
	}
}

func TestRunReportsFailureOnce(t *testing.T) {
	var stdout, stderr bytes.Buffer
	missing := filepath.Join(t.TempDir(), "missing.txt")
	if code := run([]string{missing}, nil, &stdout, &stderr); code != 1 {
		t.Fatalf("expected exit 1, got %d", code)
	}
	if n := strings.Count(stderr.String(), "\n"); n != 1 {
		t.Fatalf("expected one line on stderr, got %d: %q", n, stderr.String())
	}
}

func TestRunVerboseCountsRenderedReferences(t *testing.T) {
	var stdout, stderr bytes.Buffer
	src := "Section 5.1 of\rRFC 4279"
	if code := run([]string{"-v", "--pre=false"}, strings.NewReader(src), &stdout, &stderr); code != 0 {
		t.Fatalf("exit %d: %s", code, stderr.String())
	}
	if strings.Count(stdout.String(), "<a ") != 1 {
		t.Fatalf("expected one anchor after normalization, got %q", stdout.String())
	}
	if !strings.Contains(stderr.String(), "references=1") {
		t.Fatalf("expected debug log to count the rendered reference, got %q", stderr.String())
	}
}
