package rfc2html

import (
	"strings"

	"golang.org/x/net/html"
)

// Strip removes the anchor and pre markup added by Markup and Render. The
// non-breaking space Markup puts after a locator label is turned back into
// the space it replaced, or dropped when it ends the anchor of a reference
// split at a line break. Any other &nbsp; is left alone, so
// Strip(Markup(text)) == text for text that holds no a or pre tags of its
// own.
func Strip(marked string) string {
	z := html.NewTokenizer(strings.NewReader(marked))
	var b, anchor strings.Builder
	b.Grow(len(marked))
	inAnchor := false
	href := ""
	for {
		tt := z.Next()
		if tt == html.ErrorToken {
			b.WriteString(anchor.String())
			return b.String()
		}
		raw := string(z.Raw())
		switch tt {
		case html.StartTagToken, html.EndTagToken:
			name, hasAttr := z.TagName()
			switch string(name) {
			case "a":
				if tt == html.EndTagToken && inAnchor {
					b.WriteString(restoreLabelSpace(anchor.String(), href))
					anchor.Reset()
				}
				inAnchor = tt == html.StartTagToken
				href = ""
				if inAnchor && hasAttr {
					href = anchorHref(z)
				}
				continue
			case "pre":
				continue
			}
		case html.TextToken:
			if inAnchor {
				anchor.WriteString(raw)
				continue
			}
		}
		b.WriteString(raw)
	}
}

func anchorHref(z *html.Tokenizer) string {
	for {
		key, val, more := z.TagAttr()
		if string(key) == "href" {
			return string(val)
		}
		if !more {
			return ""
		}
	}
}

// restoreLabelSpace undoes the substitution made for the first locator
// label in the anchor text. Only locator targets carry one.
func restoreLabelSpace(content, href string) string {
	if !strings.Contains(href, "#"+LocatorSection.fragmentPrefix()) && !strings.Contains(href, "#"+LocatorAppendix.fragmentPrefix()) {
		return content
	}
	at, label := -1, ""
	for _, kind := range []LocatorKind{LocatorSection, LocatorAppendix} {
		if i := strings.Index(content, kind.Label()); i >= 0 && (at < 0 || i < at) {
			at, label = i, kind.Label()
		}
	}
	if at < 0 {
		return content
	}
	rest := content[at+len(label):]
	if !strings.HasPrefix(rest, nbsp) {
		return content
	}
	head := content[:at+len(label)]
	if rest == nbsp {
		return head
	}
	return head + " " + rest[len(nbsp):]
}
