package rfc2html

import "fmt"

// Span is a half-open byte range [Start, End) over the original text.
type Span struct {
	Start int
	End   int
}

// Len returns the number of bytes covered by the span.
func (s Span) Len() int {
	return s.End - s.Start
}

// IsZero reports whether the span is unset.
func (s Span) IsZero() bool {
	return s.Start == 0 && s.End == 0
}

// Overlaps reports whether two non-empty spans share at least one byte.
func (s Span) Overlaps(o Span) bool {
	return s.Start < o.End && o.Start < s.End
}

// LineCol returns the 1-based line and column of the span start in text.
func (s Span) LineCol(text string) (line, col int) {
	line = 1
	lastNewline := -1
	for i := 0; i < s.Start && i < len(text); i++ {
		if text[i] == '\n' {
			line++
			lastNewline = i
		}
	}
	return line, s.Start - lastNewline
}

func (s Span) String() string {
	return fmt.Sprintf("[%d,%d)", s.Start, s.End)
}

// Token is a candidate reference fragment found by Scan.
type Token struct {
	Kind    TokenKind
	Span    Span
	DocID   DocID
	Locator Locator
	URL     string
}

type tokenKind uint8

// TokenKind is the exported alias of tokenKind.
type TokenKind = tokenKind

const (
	tokenDocID tokenKind = iota
	tokenLocator
	tokenConnective
	tokenURL
)

const (
	// TokenDocID is a document identifier (RFC/BCP/STD number or draft name).
	TokenDocID TokenKind = tokenDocID
	// TokenLocator is a Section or Appendix phrase.
	TokenLocator TokenKind = tokenLocator
	// TokenConnective is the word "of" joining a locator to a document.
	TokenConnective TokenKind = tokenConnective
	// TokenURL is an http, https or ftp URL.
	TokenURL TokenKind = tokenURL
)

func (k tokenKind) String() string {
	switch k {
	case tokenDocID:
		return "docid"
	case tokenLocator:
		return "locator"
	case tokenConnective:
		return "connective"
	case tokenURL:
		return "url"
	default:
		return "unknown"
	}
}

// DocKind names the series of a document identifier.
type DocKind uint8

const (
	DocRFC DocKind = iota
	DocBCP
	DocSTD
	DocDraft
)

// Keyword returns the literal keyword that introduces the identifier.
func (k DocKind) Keyword() string {
	switch k {
	case DocRFC:
		return "RFC"
	case DocBCP:
		return "BCP"
	case DocSTD:
		return "STD"
	case DocDraft:
		return "draft-"
	default:
		return ""
	}
}

// DocID identifies another standards document.
type DocID struct {
	Kind DocKind
	// Name holds the digits for RFC/BCP/STD and the full joined draft name
	// (including the "draft-" prefix) for drafts.
	Name string
	// Fragments are the visible pieces of a draft name. A draft broken over
	// a line has two; everything else has one equal to the token span.
	Fragments []Span
}

// Target returns the relative link target of the document.
func (d DocID) Target() string {
	switch d.Kind {
	case DocDraft:
		return "./" + d.Name
	case DocRFC:
		return "./rfc" + d.Name
	case DocBCP:
		return "./bcp" + d.Name
	case DocSTD:
		return "./std" + d.Name
	default:
		return ""
	}
}

// LocatorKind is the label of a locator.
type LocatorKind uint8

const (
	LocatorSection LocatorKind = iota
	LocatorAppendix
)

// Label returns the keyword of the locator kind.
func (k LocatorKind) Label() string {
	if k == LocatorAppendix {
		return "Appendix"
	}
	return "Section"
}

func (k LocatorKind) fragmentPrefix() string {
	if k == LocatorAppendix {
		return "appendix-"
	}
	return "section-"
}

// Locator is a Section or Appendix phrase.
type Locator struct {
	Kind       LocatorKind
	Designator string
	// Description is the parenthesised text following the designator. It is
	// only captured when the locator continues into a cross-document
	// reference and never contributes to a link target.
	Description string

	Label          Span
	DesignatorSpan Span
	// DescriptionSpan includes the parentheses; zero when absent.
	DescriptionSpan Span
}

// Core is the label-through-designator span.
func (l Locator) Core() Span {
	return Span{Start: l.Label.Start, End: l.DesignatorSpan.End}
}

// Fragment returns the in-document fragment, e.g. "#section-2.4".
func (l Locator) Fragment() string {
	return "#" + l.Kind.fragmentPrefix() + l.Designator
}
