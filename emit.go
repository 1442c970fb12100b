package rfc2html

import (
	"cmp"
	"errors"
	"fmt"
	"slices"
	"strings"
)

// ErrOverlappingSpans reports reference segments that overlap or fall
// outside the text. It indicates a resolver bug, never bad input.
var ErrOverlappingSpans = errors.New("overlapping reference spans")

const (
	nbsp        = "&nbsp;"
	anchorOpen  = `<a href="`
	anchorMid   = `">`
	anchorClose = "</a>"
)

type placedSegment struct {
	kind ReferenceKind
	Segment
}

// Emit copies text to the result, wrapping every reference segment in an
// anchor. Bytes outside segments are copied unchanged. Segments are placed
// by position, so references found inside the filler of a broken draft
// name may follow the draft in refs.
func Emit(text string, refs []Reference) (string, error) {
	segs := make([]placedSegment, 0, len(refs)+2)
	for _, ref := range refs {
		for _, seg := range ref.Segments {
			segs = append(segs, placedSegment{kind: ref.Kind, Segment: seg})
		}
	}
	slices.SortStableFunc(segs, func(a, b placedSegment) int {
		return cmp.Compare(a.Span.Start, b.Span.Start)
	})
	var b strings.Builder
	b.Grow(len(text) + len(segs)*48)
	pos := 0
	for _, seg := range segs {
		if seg.Span.Start < pos || seg.Span.Len() <= 0 || seg.Span.End > len(text) {
			return "", fmt.Errorf("emit: %s segment %s after offset %d: %w", seg.kind, seg.Span, pos, ErrOverlappingSpans)
		}
		b.WriteString(text[pos:seg.Span.Start])
		b.WriteString(anchorOpen)
		b.WriteString(seg.Href)
		b.WriteString(anchorMid)
		b.WriteString(seg.Text)
		b.WriteString(anchorClose)
		pos = seg.Span.End
	}
	b.WriteString(text[pos:])
	return b.String(), nil
}
