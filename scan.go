package rfc2html

import "strings"

const (
	// maxDescriptionLen bounds the search for the closing parenthesis of a
	// locator description.
	maxDescriptionLen = 200
	// maxDraftResyncLines is how many lines after a broken draft name are
	// searched for the remaining name fragment.
	maxDraftResyncLines = 3
	// maxResyncLineLen bounds each of those lines so the lookahead stays
	// constant per draft head.
	maxResyncLineLen = 256
)

var urlSchemes = [...]string{"http://", "https://", "ftp://"}

// Scan walks text left to right and returns every non-overlapping
// candidate token in input order. Ordinary text between tokens is never
// consumed. Only WithURLLinks affects scanning.
func Scan(text string, opts ...RenderOption) []Token {
	cfg := newRenderConfig(opts)
	s := scanner{text: text, urls: cfg.urlLinks}
	return s.run()
}

type scanner struct {
	text   string
	urls   bool
	tokens []Token
}

func (s *scanner) run() []Token {
	i := 0
	for i < len(s.text) {
		if next, ok := s.scanAt(i); ok {
			i = next
			continue
		}
		i++
	}
	return s.tokens
}

// scanAt tries every matcher at offset i and returns the offset where
// scanning resumes.
func (s *scanner) scanAt(i int) (int, bool) {
	if i > 0 && isWordByte(s.text[i-1]) {
		return 0, false
	}
	if s.urls {
		if tok, ok := s.matchURL(i); ok {
			s.tokens = append(s.tokens, tok)
			return tok.Span.End, true
		}
	}
	if tok, ok := s.matchDraft(i); ok {
		s.tokens = append(s.tokens, tok)
		s.scanFiller(tok.DocID.Fragments)
		return tok.Span.End, true
	}
	if tok, ok := s.matchDocID(i); ok {
		s.tokens = append(s.tokens, tok)
		return tok.Span.End, true
	}
	if loc, ok := s.matchLocator(i); ok {
		return s.emitLocator(loc), true
	}
	return 0, false
}

// matchDocID matches RFC, BCP or STD followed by an optional single space
// or hyphen and a run of digits.
func (s *scanner) matchDocID(i int) (Token, bool) {
	var kind DocKind
	switch {
	case strings.HasPrefix(s.text[i:], "RFC"):
		kind = DocRFC
	case strings.HasPrefix(s.text[i:], "BCP"):
		kind = DocBCP
	case strings.HasPrefix(s.text[i:], "STD"):
		kind = DocSTD
	default:
		return Token{}, false
	}
	j := i + 3
	if j < len(s.text) && (s.text[j] == ' ' || s.text[j] == '-') {
		j++
	}
	start := j
	for j < len(s.text) && isDigit(s.text[j]) {
		j++
	}
	if j == start || (j < len(s.text) && isAlnum(s.text[j])) {
		return Token{}, false
	}
	span := Span{Start: i, End: j}
	return Token{
		Kind: tokenDocID,
		Span: span,
		DocID: DocID{
			Kind:      kind,
			Name:      s.text[start:j],
			Fragments: []Span{span},
		},
	}, true
}

// matchDraft matches an Internet-Draft name ending in a two digit
// revision. A name ending in a hyphen at a line break is resumed on one of
// the following lines.
func (s *scanner) matchDraft(i int) (Token, bool) {
	if !strings.HasPrefix(s.text[i:], "draft-") {
		return Token{}, false
	}
	end := s.nameRun(i)
	first := Span{Start: i, End: end}
	name := s.text[i:end]
	if hasRevision(name) && s.nameBoundary(end) {
		return Token{
			Kind:  tokenDocID,
			Span:  first,
			DocID: DocID{Kind: DocDraft, Name: name, Fragments: []Span{first}},
		}, true
	}
	if name[len(name)-1] != '-' {
		return Token{}, false
	}
	second, ok := s.resyncDraft(name, end)
	if !ok {
		return Token{}, false
	}
	return Token{
		Kind: tokenDocID,
		Span: Span{Start: i, End: second.End},
		DocID: DocID{
			Kind:      DocDraft,
			Name:      name + s.text[second.Start:second.End],
			Fragments: []Span{first, second},
		},
	}, true
}

// resyncDraft looks for the rest of a draft name at the start of one of
// the next few lines. Text skipped on the way is filler and must not
// contain a hyphen.
func (s *scanner) resyncDraft(head string, from int) (Span, bool) {
	pos := from
	for range maxDraftResyncLines {
		line := s.text[pos:min(len(s.text), pos+maxResyncLineLen)]
		nl := strings.IndexByte(line, '\n')
		if nl < 0 || strings.IndexByte(line[:nl], '-') >= 0 {
			return Span{}, false
		}
		pos += nl + 1
		start := s.skipHorizontal(pos)
		if start >= len(s.text) || !isAlnum(s.text[start]) {
			continue
		}
		end := s.nameRun(start)
		if hasRevision(head+s.text[start:end]) && s.nameBoundary(end) {
			return Span{Start: start, End: end}, true
		}
	}
	return Span{}, false
}

// scanFiller picks up RFC, BCP and STD identifiers in the filler between
// the fragments of a broken draft name, typically a page header.
func (s *scanner) scanFiller(frags []Span) {
	if len(frags) < 2 {
		return
	}
	for j := frags[0].End; j < frags[1].Start; j++ {
		if isWordByte(s.text[j-1]) {
			continue
		}
		if tok, ok := s.matchDocID(j); ok && tok.Span.End <= frags[1].Start {
			s.tokens = append(s.tokens, tok)
			j = tok.Span.End - 1
		}
	}
}

// matchLocator matches "Section" or "Appendix", whitespace holding at most
// one line break, and a designator.
func (s *scanner) matchLocator(i int) (Locator, bool) {
	var kind LocatorKind
	switch {
	case strings.HasPrefix(s.text[i:], "Section"):
		kind = LocatorSection
	case strings.HasPrefix(s.text[i:], "Appendix"):
		kind = LocatorAppendix
	default:
		return Locator{}, false
	}
	labelEnd := i + len(kind.Label())
	j, lines := s.skipSpace(labelEnd)
	if j == labelEnd || lines > 1 {
		return Locator{}, false
	}
	var end int
	if kind == LocatorSection {
		end = s.sectionDesignator(j)
	} else {
		end = s.appendixDesignator(j)
	}
	if end == j || (end < len(s.text) && isAlnum(s.text[end])) {
		return Locator{}, false
	}
	return Locator{
		Kind:           kind,
		Designator:     s.text[j:end],
		Label:          Span{Start: i, End: labelEnd},
		DesignatorSpan: Span{Start: j, End: end},
	}, true
}

// emitLocator appends the locator and, when it continues with "of" and a
// document identifier, the connective and the identifier as well. The
// whole window from label to identifier holds at most one line break.
func (s *scanner) emitLocator(loc Locator) int {
	pos := loc.DesignatorSpan.End
	breaks := strings.Count(s.text[loc.Label.End:loc.DesignatorSpan.Start], "\n")
	desc, hasDesc := s.matchDescription(pos)
	if hasDesc {
		pos = desc.End
		breaks += strings.Count(s.text[desc.Start:desc.End], "\n")
	}
	conn, doc, ok := s.matchCrossDoc(pos, 1-breaks)
	span := loc.Core()
	if hasDesc && ok {
		loc.DescriptionSpan = desc
		loc.Description = s.text[desc.Start+1 : desc.End-1]
		span.End = desc.End
	}
	s.tokens = append(s.tokens, Token{Kind: tokenLocator, Span: span, Locator: loc})
	if !ok {
		return span.End
	}
	s.tokens = append(s.tokens, Token{Kind: tokenConnective, Span: conn}, doc)
	return doc.Span.End
}

// matchDescription matches " (text)" starting at pos. The text holds no
// nested parentheses and at most one line break.
func (s *scanner) matchDescription(pos int) (Span, bool) {
	if pos+1 >= len(s.text) || s.text[pos] != ' ' || s.text[pos+1] != '(' {
		return Span{}, false
	}
	lines := 0
	limit := min(len(s.text), pos+2+maxDescriptionLen)
	for j := pos + 2; j < limit; j++ {
		switch s.text[j] {
		case ')':
			if j == pos+2 {
				return Span{}, false
			}
			return Span{Start: pos + 1, End: j + 1}, true
		case '(':
			return Span{}, false
		case '\n':
			lines++
			if lines > 1 {
				return Span{}, false
			}
		}
	}
	return Span{}, false
}

// matchCrossDoc matches whitespace, "of", whitespace and an RFC/BCP/STD
// identifier with no more than maxBreaks line breaks in between.
func (s *scanner) matchCrossDoc(pos, maxBreaks int) (Span, Token, bool) {
	ofStart, before := s.skipSpace(pos)
	if ofStart == pos || !strings.HasPrefix(s.text[ofStart:], "of") {
		return Span{}, Token{}, false
	}
	ofEnd := ofStart + 2
	docStart, after := s.skipSpace(ofEnd)
	if docStart == ofEnd || before+after > maxBreaks {
		return Span{}, Token{}, false
	}
	doc, ok := s.matchDocID(docStart)
	if !ok {
		return Span{}, Token{}, false
	}
	return Span{Start: ofStart, End: ofEnd}, doc, true
}

// matchURL matches an http, https or ftp URL. Trailing punctuation and
// escaped angle brackets are left outside the match.
func (s *scanner) matchURL(i int) (Token, bool) {
	prefix := 0
	for _, scheme := range urlSchemes {
		if len(s.text)-i >= len(scheme) && strings.EqualFold(s.text[i:i+len(scheme)], scheme) {
			prefix = len(scheme)
			break
		}
	}
	if prefix == 0 {
		return Token{}, false
	}
	j := i + prefix
	for j < len(s.text) && !s.urlStop(j) {
		j++
	}
	for j > i+prefix && strings.IndexByte(".,;:!?)]'", s.text[j-1]) >= 0 {
		j--
	}
	if j == i+prefix {
		return Token{}, false
	}
	return Token{Kind: tokenURL, Span: Span{Start: i, End: j}, URL: s.text[i:j]}, true
}

func (s *scanner) urlStop(j int) bool {
	switch s.text[j] {
	case ' ', '\t', '\n', '\r', '"', '<', '>':
		return true
	case '&':
		rest := s.text[j:]
		return strings.HasPrefix(rest, "&gt;") || strings.HasPrefix(rest, "&lt;") || strings.HasPrefix(rest, "&quot;")
	}
	return false
}

func (s *scanner) sectionDesignator(j int) int {
	end := s.digitRun(j)
	if end == j {
		return j
	}
	for end+1 < len(s.text) && s.text[end] == '.' && isDigit(s.text[end+1]) {
		end = s.digitRun(end + 1)
	}
	return end
}

func (s *scanner) appendixDesignator(j int) int {
	end := j
	for end < len(s.text) && s.text[end] >= 'A' && s.text[end] <= 'Z' {
		end++
	}
	if end-j > 1 && strings.Trim(s.text[j:end], "IVXLCDM") != "" {
		return j
	}
	if end == j {
		return j
	}
	for end+1 < len(s.text) && s.text[end] == '.' && isDigit(s.text[end+1]) {
		end = s.digitRun(end + 1)
	}
	return end
}

func (s *scanner) digitRun(j int) int {
	for j < len(s.text) && isDigit(s.text[j]) {
		j++
	}
	return j
}

// nameRun returns the end of the run of letters, digits and hyphens at j.
func (s *scanner) nameRun(j int) int {
	for j < len(s.text) && (isAlnum(s.text[j]) || s.text[j] == '-') {
		j++
	}
	return j
}

func (s *scanner) nameBoundary(j int) bool {
	return j >= len(s.text) || !isWordByte(s.text[j])
}

// skipSpace skips spaces, tabs and newlines, returning the new offset and
// the number of newlines skipped.
func (s *scanner) skipSpace(j int) (int, int) {
	lines := 0
	for j < len(s.text) {
		switch s.text[j] {
		case ' ', '\t':
		case '\n':
			lines++
		default:
			return j, lines
		}
		j++
	}
	return j, lines
}

func (s *scanner) skipHorizontal(j int) int {
	for j < len(s.text) && (s.text[j] == ' ' || s.text[j] == '\t') {
		j++
	}
	return j
}

// hasRevision reports whether a draft name ends in "-NN".
func hasRevision(name string) bool {
	n := len(name)
	return n >= len("draft-x-00") && name[n-3] == '-' && isDigit(name[n-2]) && isDigit(name[n-1])
}

func isDigit(b byte) bool {
	return b >= '0' && b <= '9'
}

func isAlnum(b byte) bool {
	return isDigit(b) || (b >= 'a' && b <= 'z') || (b >= 'A' && b <= 'Z')
}

func isWordByte(b byte) bool {
	return isAlnum(b) || b == '-' || b == '_'
}
