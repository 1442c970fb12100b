package rfc2html

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestStripRoundTrip(t *testing.T) {
	inputs := []string{
		"text RFC 1234 text",
		"Section 2.4 of RFC 2595",
		"Appendix B (Examples) of RFC 5678",
		"Section 5.1 of\n   RFC 4279",
		"         4.2.2.9  Initial Sequence Number Selection: RFC-793 Section\n            3.3, page 27",
		"draft-ietf-\n              some-name-00",
		"draft-ietf-   S. Author\n              some-name-00   Org",
		"See Section 2.1 for details, but also Section 2.4 of RFC 2595 for comparison.",
		"a &amp; b &lt;https://example.com/a?b=c&amp;d=e&gt; STD 1\n\f\n",
		"Section 2 (a&nbsp;b) of RFC 1",
		"RFC 793 Section 3.3 and Appendix&nbsp;A of RFC 2 and https://example.com/Section&nbsp;1",
		"draft-ietf-\n   RFC 1234 text\n   name-00",
		"",
	}
	for _, in := range inputs {
		if got := Strip(Markup(in, WithURLLinks(true))); got != in {
			t.Fatalf("round trip mismatch\nwant %q\ngot  %q", in, got)
		}
	}
}

func TestStripRoundTripTestdata(t *testing.T) {
	paths, err := filepath.Glob("testdata/*.txt")
	if err != nil {
		t.Fatalf("glob: %v", err)
	}
	for _, path := range paths {
		src, err := os.ReadFile(path)
		if err != nil {
			t.Fatalf("read %s: %v", path, err)
		}
		if got := Strip(Markup(string(src))); got != string(src) {
			t.Fatalf("%s: round trip mismatch", path)
		}
	}
}

func TestStripRemovesPre(t *testing.T) {
	got := Strip(`<pre>x <a href="./rfc1">RFC 1</a></pre>`)
	if got != "x RFC 1" {
		t.Fatalf("unexpected output %q", got)
	}
	if strings.Contains(Strip("a&nbsp;b"), " ") {
		t.Fatalf("non-breaking spaces outside anchors must be kept")
	}
}

func TestStripRestoresOnlyLabelSpace(t *testing.T) {
	cases := map[string]string{
		`<a href="./rfc1#section-2">Section&nbsp;2 (a&nbsp;b) of RFC 1</a>`: "Section 2 (a&nbsp;b) of RFC 1",
		`<a href="./rfc793#section-3.3">RFC-793 Section&nbsp;</a>`:          "RFC-793 Section",
		`<a href="#appendix-A">Appendix A</a>`:                              "Appendix A",
		`<a href="./rfc1">x&nbsp;y</a>`:                                     "x&nbsp;y",
	}
	for in, want := range cases {
		if got := Strip(in); got != want {
			t.Fatalf("Strip(%q) = %q, want %q", in, got, want)
		}
	}
}
