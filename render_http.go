package rfc2html

import (
	"context"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"strings"
)

// ErrNotPlainText reports an HTTP response that is not a plain text
// document, such as the HTML page the RFC editor serves for /rfc/rfcNNNN.
var ErrNotPlainText = errors.New("response is not text/plain")

// HTTPRenderRequest configures HTTPRender.
type HTTPRenderRequest struct {
	URL     string
	Client  *http.Client
	Writer  io.Writer
	Options []RenderOption
}

// HTTPRender fetches a plain text document over HTTP(S) and renders it.
// Responses declaring a media type other than text/plain are rejected with
// ErrNotPlainText; a response without Content-Type is accepted.
func HTTPRender(ctx context.Context, req HTTPRenderRequest) error {
	if req.URL == "" {
		return fmt.Errorf("render http: URL is required")
	}
	if req.Writer == nil {
		return fmt.Errorf("render http: Writer is nil")
	}
	if ctx == nil {
		ctx = context.Background()
	}
	client := req.Client
	if client == nil {
		client = http.DefaultClient
	}
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, req.URL, nil)
	if err != nil {
		return fmt.Errorf("render http: build request: %w", err)
	}
	if httpReq.URL.Scheme != "http" && httpReq.URL.Scheme != "https" {
		return fmt.Errorf("render http: unsupported scheme %q", httpReq.URL.Scheme)
	}
	httpReq.Header.Set("Accept", "text/plain")
	resp, err := client.Do(httpReq)
	if err != nil {
		return fmt.Errorf("render http: request: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("render http: status %s", resp.Status)
	}
	if err := checkPlainText(resp.Header.Get("Content-Type")); err != nil {
		return fmt.Errorf("render http: %s: %w", req.URL, err)
	}
	return Render(RenderRequest{
		Reader:  resp.Body,
		Writer:  req.Writer,
		Options: req.Options,
	})
}

func checkPlainText(contentType string) error {
	if contentType == "" {
		return nil
	}
	mediaType, params, err := mime.ParseMediaType(contentType)
	if err != nil {
		return fmt.Errorf("content type %q: %w", contentType, ErrNotPlainText)
	}
	if mediaType != "text/plain" {
		return fmt.Errorf("content type %s: %w", mediaType, ErrNotPlainText)
	}
	if cs, ok := params["charset"]; ok && !isUTF8Compatible(cs) {
		return fmt.Errorf("charset %s: %w", cs, ErrNotPlainText)
	}
	return nil
}

// isUTF8Compatible accepts the charsets RFC text is published in.
func isUTF8Compatible(charset string) bool {
	switch strings.ToLower(charset) {
	case "utf-8", "us-ascii":
		return true
	}
	return false
}
