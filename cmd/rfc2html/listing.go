package main

import (
	"fmt"
	"io"
	"net/url"
	"strings"

	"github.com/muesli/reflow/ansi"
	"github.com/muesli/reflow/padding"
	"github.com/muesli/reflow/truncate"
	"pkt.systems/rfc2html"
)

const (
	columnGap   = "  "
	maxHrefPct  = 45
	ellipsis    = "…"
	minTextCols = 8
)

type listingConfig struct {
	width int
	osc8  bool
	base  *url.URL
}

type listEntry struct {
	pos  string
	kind string
	href string
	text string
}

// writeListing prints one line per anchor: position, reference kind,
// target and the visible text collapsed onto one line.
func writeListing(w io.Writer, text string, refs []rfc2html.Reference, cfg listingConfig) error {
	var entries []listEntry
	var posW, kindW, hrefW int
	for _, ref := range refs {
		for _, seg := range ref.Segments {
			line, col := seg.Span.LineCol(text)
			e := listEntry{
				pos:  fmt.Sprintf("%d:%d", line, col),
				kind: ref.Kind.String(),
				href: seg.Href,
				text: strings.Join(strings.Fields(text[seg.Span.Start:seg.Span.End]), " "),
			}
			posW = max(posW, ansi.PrintableRuneWidth(e.pos))
			kindW = max(kindW, ansi.PrintableRuneWidth(e.kind))
			hrefW = max(hrefW, ansi.PrintableRuneWidth(e.href))
			entries = append(entries, e)
		}
	}
	if cfg.width > 0 {
		hrefW = min(hrefW, cfg.width*maxHrefPct/100)
	}
	for _, e := range entries {
		var b strings.Builder
		b.WriteString(padding.String(e.pos, uint(posW)))
		b.WriteString(columnGap)
		b.WriteString(padding.String(e.kind, uint(kindW)))
		b.WriteString(columnGap)
		b.WriteString(padding.String(fitHref(e.href, hrefW), uint(hrefW)))
		b.WriteString(columnGap)
		visible := e.text
		if cfg.width > 0 {
			visible = fit(visible, max(cfg.width-ansi.PrintableRuneWidth(b.String()), minTextCols))
		}
		if cfg.osc8 {
			visible = osc8Link(resolveHref(cfg.base, e.href), visible)
		}
		b.WriteString(visible)
		if _, err := fmt.Fprintln(w, b.String()); err != nil {
			return err
		}
	}
	return nil
}

// fit truncates s to limit columns, ending with an ellipsis when cut.
func fit(s string, limit int) string {
	if ansi.PrintableRuneWidth(s) <= limit {
		return s
	}
	if limit <= 0 {
		return ""
	}
	return truncate.StringWithTail(s, uint(limit), ellipsis)
}

// fitHref drops the scheme of an absolute target before truncating it.
func fitHref(href string, limit int) string {
	if ansi.PrintableRuneWidth(href) <= limit {
		return href
	}
	if idx := strings.Index(href, "://"); idx != -1 {
		if trimmed := href[idx+3:]; ansi.PrintableRuneWidth(trimmed) <= limit {
			return trimmed
		}
	}
	return fit(href, limit)
}

// resolveHref makes a relative anchor target absolute against base.
func resolveHref(base *url.URL, href string) string {
	if base == nil {
		return href
	}
	ref, err := url.Parse(href)
	if err != nil {
		return href
	}
	return base.ResolveReference(ref).String()
}
