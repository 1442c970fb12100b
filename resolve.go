package rfc2html

import "strings"

// ReferenceKind classifies a resolved reference.
type ReferenceKind uint8

const (
	// RefCrossDocSection is a locator bound to another document.
	RefCrossDocSection ReferenceKind = iota
	// RefLocalSection is a locator within the current document.
	RefLocalSection
	// RefBareDocID is an RFC, BCP or STD identifier on its own.
	RefBareDocID
	// RefDraftName is an Internet-Draft name.
	RefDraftName
	// RefURL is an autolinked URL.
	RefURL
)

func (k ReferenceKind) String() string {
	switch k {
	case RefCrossDocSection:
		return "cross-section"
	case RefLocalSection:
		return "local-section"
	case RefBareDocID:
		return "document"
	case RefDraftName:
		return "draft"
	case RefURL:
		return "url"
	default:
		return "unknown"
	}
}

// Segment is one anchor of a reference.
type Segment struct {
	Span Span
	Href string
	// Text is the visible anchor content. It differs from the bytes under
	// Span only by the non-breaking space substitution.
	Text string
}

// Reference is a resolved unit to be anchored. It has one segment, or two
// when the reference is split at a line break.
type Reference struct {
	Kind       ReferenceKind
	DocID      DocID
	Locator    Locator
	Connective Span
	URL        string
	Segments   []Segment
}

// Href returns the target of the first segment.
func (r Reference) Href() string {
	if len(r.Segments) == 0 {
		return ""
	}
	return r.Segments[0].Href
}

// Span covers every segment of the reference.
func (r Reference) Span() Span {
	if len(r.Segments) == 0 {
		return Span{}
	}
	return Span{Start: r.Segments[0].Span.Start, End: r.Segments[len(r.Segments)-1].Span.End}
}

// Resolve groups tokens produced by Scan on the same text into references.
// Tokens are consumed greedily left to right; a token claimed by one
// reference is never reused by another.
func Resolve(text string, tokens []Token) []Reference {
	refs := make([]Reference, 0, len(tokens))
	for k := 0; k < len(tokens); {
		tok := tokens[k]
		switch tok.Kind {
		case tokenLocator:
			if k+2 < len(tokens) && tokens[k+1].Kind == tokenConnective && tokens[k+2].Kind == tokenDocID {
				refs = append(refs, locatorOfDoc(text, tok, tokens[k+1], tokens[k+2]))
				k += 3
				continue
			}
			refs = append(refs, localSection(text, tok.Locator))
		case tokenDocID:
			if tok.DocID.Kind == DocDraft {
				refs = append(refs, draftName(text, tok.DocID))
				break
			}
			if ref, ok := docWithLocator(text, tokens, k); ok {
				refs = append(refs, ref)
				k += 2
				continue
			}
			refs = append(refs, Reference{
				Kind:     RefBareDocID,
				DocID:    tok.DocID,
				Segments: []Segment{{Span: tok.Span, Href: tok.DocID.Target(), Text: text[tok.Span.Start:tok.Span.End]}},
			})
		case tokenURL:
			refs = append(refs, Reference{
				Kind:     RefURL,
				URL:      tok.URL,
				Segments: []Segment{{Span: tok.Span, Href: tok.URL, Text: tok.URL}},
			})
		}
		k++
	}
	return refs
}

// locatorOfDoc builds "Section N of RFC M" as one anchor. Any line break in
// the window stays inside the anchor.
func locatorOfDoc(text string, loc, conn, doc Token) Reference {
	span := Span{Start: loc.Span.Start, End: doc.Span.End}
	return Reference{
		Kind:       RefCrossDocSection,
		DocID:      doc.DocID,
		Locator:    loc.Locator,
		Connective: conn.Span,
		Segments: []Segment{{
			Span: span,
			Href: doc.DocID.Target() + loc.Locator.Fragment(),
			Text: labelText(text, span, loc.Locator),
		}},
	}
}

// docWithLocator handles an identifier followed by a single space and a
// locator ("RFC-793 Section 3.3"). On one line it is one anchor. When the
// designator sits on the next line the reference splits in two: the
// identifier and label link to the other document, the designator alone
// links locally, and the line break stays outside both.
func docWithLocator(text string, tokens []Token, k int) (Reference, bool) {
	if k+1 >= len(tokens) || tokens[k+1].Kind != tokenLocator {
		return Reference{}, false
	}
	if k+2 < len(tokens) && tokens[k+2].Kind == tokenConnective {
		return Reference{}, false
	}
	doc, loc := tokens[k].DocID, tokens[k+1].Locator
	if text[tokens[k].Span.End:loc.Label.Start] != " " {
		return Reference{}, false
	}
	ref := Reference{Kind: RefCrossDocSection, DocID: doc, Locator: loc}
	href := doc.Target() + loc.Fragment()
	if !strings.Contains(text[loc.Label.End:loc.DesignatorSpan.Start], "\n") {
		span := Span{Start: tokens[k].Span.Start, End: loc.DesignatorSpan.End}
		ref.Segments = []Segment{{Span: span, Href: href, Text: labelText(text, span, loc)}}
		return ref, true
	}
	head := Span{Start: tokens[k].Span.Start, End: loc.Label.End}
	ref.Segments = []Segment{
		{Span: head, Href: href, Text: text[head.Start:head.End] + nbsp},
		{Span: loc.DesignatorSpan, Href: loc.Fragment(), Text: loc.Designator},
	}
	return ref, true
}

func localSection(text string, loc Locator) Reference {
	span := loc.Core()
	return Reference{
		Kind:     RefLocalSection,
		Locator:  loc,
		Segments: []Segment{{Span: span, Href: loc.Fragment(), Text: text[span.Start:span.End]}},
	}
}

// draftName anchors every fragment of a draft name with the full name as
// target. Text between fragments stays outside the anchors.
func draftName(text string, doc DocID) Reference {
	ref := Reference{Kind: RefDraftName, DocID: doc}
	for _, frag := range doc.Fragments {
		ref.Segments = append(ref.Segments, Segment{Span: frag, Href: doc.Target(), Text: text[frag.Start:frag.End]})
	}
	return ref
}

// labelText returns the text under span with a single space between the
// locator label and its designator replaced by a non-breaking space.
func labelText(text string, span Span, loc Locator) string {
	if text[loc.Label.End:loc.DesignatorSpan.Start] != " " {
		return text[span.Start:span.End]
	}
	return text[span.Start:loc.Label.End] + nbsp + text[loc.DesignatorSpan.Start:span.End]
}
