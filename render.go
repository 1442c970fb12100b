package rfc2html

import (
	"fmt"
	"io"
	"strings"
)

const tabWidth = 8

var htmlEscaper = strings.NewReplacer("&", "&amp;", "<", "&lt;", ">", "&gt;")

// Markup returns text with every recognized reference wrapped in an anchor.
// All other bytes, including line breaks and indentation, are kept as is.
func Markup(text string, opts ...RenderOption) string {
	out, err := Emit(text, Resolve(text, Scan(text, opts...)))
	if err != nil {
		panic("rfc2html: " + err.Error())
	}
	return out
}

// References returns the resolved references of text in input order.
func References(text string, opts ...RenderOption) []Reference {
	return Resolve(text, Scan(text, opts...))
}

// RenderRequest configures Render.
type RenderRequest struct {
	Reader  io.Reader
	Writer  io.Writer
	Options []RenderOption
}

// Render reads one whole document from Reader and writes its marked-up
// form to Writer.
func Render(req RenderRequest) error {
	if req.Reader == nil {
		return fmt.Errorf("render: Reader is nil")
	}
	if req.Writer == nil {
		return fmt.Errorf("render: Writer is nil")
	}
	src, err := io.ReadAll(req.Reader)
	if err != nil {
		return fmt.Errorf("render: read: %w", err)
	}
	if err := ValidateInput(src); err != nil {
		return fmt.Errorf("render: %w", err)
	}
	cfg := newRenderConfig(req.Options)
	out := Markup(Prepare(string(src), req.Options...), req.Options...)
	if cfg.pre {
		out = "<pre>" + out + "</pre>"
	}
	if _, err := io.WriteString(req.Writer, out); err != nil {
		return fmt.Errorf("render: write: %w", err)
	}
	return nil
}

// Prepare applies the enabled normalization and escaping to text, giving
// the exact text Render marks up.
func Prepare(text string, opts ...RenderOption) string {
	cfg := newRenderConfig(opts)
	if cfg.normalize {
		text = Normalize(text)
	}
	if cfg.escape {
		text = htmlEscaper.Replace(text)
	}
	return text
}

// Normalize converts carriage returns to line feeds the way plain text
// RFCs expect (CRLF becomes LF, a lone CR becomes LF) and expands tabs to
// 8 column stops.
func Normalize(text string) string {
	if !strings.ContainsAny(text, "\r\t") {
		return text
	}
	var b strings.Builder
	b.Grow(len(text))
	col := 0
	for i := 0; i < len(text); i++ {
		c := text[i]
		switch c {
		case '\r':
			if i+1 < len(text) && text[i+1] == '\n' {
				continue
			}
			if i > 0 && text[i-1] == '\n' {
				continue
			}
			b.WriteByte('\n')
			col = 0
		case '\n':
			b.WriteByte('\n')
			col = 0
		case '\t':
			n := tabWidth - col%tabWidth
			b.WriteString(strings.Repeat(" ", n))
			col += n
		default:
			b.WriteByte(c)
			if c&0xC0 != 0x80 {
				col++
			}
		}
	}
	return b.String()
}
