// Package rfc2html turns plain text RFCs into HTML with links.
//
// The engine recognizes references to other standards documents (RFC, BCP
// and STD numbers, Internet-Draft names) and to sections and appendices,
// and wraps each one in an anchor. Every other byte, including line breaks
// and indentation, is copied unchanged.
//
// The work happens in three stages that can be used on their own:
//   - Scan finds candidate tokens with their byte spans
//   - Resolve groups tokens into references with link targets
//   - Emit rewrites the text with anchor markup
//
// Markup runs all three. Render and HTTPRender add document plumbing on
// top: input validation, line ending normalization, HTML escaping and the
// pre wrapper.
//
// Example:
//
//	out := rfc2html.Markup("See Section 2.4 of RFC 2595.")
//	// See <a href="./rfc2595#section-2.4">Section&nbsp;2.4 of RFC 2595</a>.
//
// A reference broken by the document's own line wrapping is handled
// explicitly: "Section 5.1 of\n   RFC 4279" stays one anchor with the line
// break inside it, while a draft name or an "RFC-793 Section\n   3.3"
// reference is split into two anchors around the line break.
package rfc2html
