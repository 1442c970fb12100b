package main

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/rs/zerolog"
	"github.com/spf13/pflag"
	"golang.org/x/net/html"
	"golang.org/x/term"
	"pkt.systems/rfc2html"
	"pkt.systems/version"
)

const (
	defaultWidth = 100
	defaultBase  = "https://www.rfc-editor.org/rfc/"
)

func init() {
	version.SetDefaultModule("pkt.systems/rfc2html")
}

func main() {
	os.Exit(run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr))
}

type options struct {
	outPath   string
	pre       bool
	escape    bool
	normalize bool
	urls      bool
	strip     bool
	list      bool
	width     int
	osc8      string
	base      string
	verbose   bool
}

func run(args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	var opts options
	flags := pflag.NewFlagSet("rfc2html", pflag.ContinueOnError)
	flags.SetOutput(stderr)
	flags.StringVarP(&opts.outPath, "output", "o", "", "Output file instead of stdout")
	flags.BoolVar(&opts.pre, "pre", true, "Wrap each document in <pre>")
	flags.BoolVar(&opts.escape, "escape", true, "HTML-escape &, < and > before linking")
	flags.BoolVar(&opts.normalize, "normalize", true, "Normalize line endings and expand tabs")
	flags.BoolVar(&opts.urls, "urls", true, "Link http, https and ftp URLs")
	flags.BoolVar(&opts.strip, "strip", false, "Remove links from rendered HTML instead of adding them")
	flags.BoolVarP(&opts.list, "list", "l", false, "List references instead of rendering HTML")
	flags.IntVarP(&opts.width, "width", "w", 0, "Listing width (0 uses terminal width if available)")
	flags.StringVarP(&opts.osc8, "osc8", "8", "auto", "OSC8 hyperlinks in listings: auto|on|off")
	flags.StringVar(&opts.base, "base", defaultBase, "Base URL for listing hyperlinks")
	flags.BoolVarP(&opts.verbose, "verbose", "v", false, "Debug logging on stderr")

	flags.SetInterspersed(true)
	flags.Usage = func() {
		fmt.Fprintln(stderr, version.Module(), version.Current())
		fmt.Fprintf(stderr, "Usage: rfc2html [flags] [inputs...]\n")
		fmt.Fprintln(stderr, "\nInputs are files, file:// or http(s):// URLs. If none is given, text is read from stdin.")
		fmt.Fprintln(stderr, "\nFlags:")
		flags.PrintDefaults()
	}

	if err := flags.Parse(args); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return 0
		}
		return 2
	}
	if opts.strip && opts.list {
		fmt.Fprintln(stderr, "--strip and --list are mutually exclusive")
		return 2
	}
	osc8, err := resolveOSC8(opts.osc8, stdout)
	if err != nil {
		fmt.Fprintf(stderr, "invalid --osc8 %q: %v\n", opts.osc8, err)
		return 2
	}
	base, err := url.Parse(opts.base)
	if err != nil {
		fmt.Fprintf(stderr, "invalid --base %q: %v\n", opts.base, err)
		return 2
	}

	logger := newLogger(stderr, opts.verbose)
	ctx := logger.WithContext(context.Background())

	sources, err := openInputs(flags.Args(), stdin)
	if err != nil {
		fmt.Fprintf(stderr, "open input: %v\n", err)
		return 1
	}

	writer, closeOut, err := resolveOutput(opts.outPath, stdout)
	if err != nil {
		fmt.Fprintf(stderr, "open output: %v\n", err)
		return 1
	}
	if closeOut != nil {
		defer func() { _ = closeOut.Close() }()
	}

	for _, src := range sources {
		if err := process(ctx, src, writer, opts, osc8, base); err != nil {
			fmt.Fprintf(stderr, "%s: %v\n", src.name, err)
			return 1
		}
	}
	return 0
}

func newLogger(w io.Writer, verbose bool) zerolog.Logger {
	level := zerolog.WarnLevel
	if verbose {
		level = zerolog.DebugLevel
	}
	console := zerolog.ConsoleWriter{Out: w, NoColor: !isTerminal(w)}
	return zerolog.New(console).Level(level).With().Timestamp().Logger()
}

func (o options) renderOptions() []rfc2html.RenderOption {
	return []rfc2html.RenderOption{
		rfc2html.WithPre(o.pre),
		rfc2html.WithEscape(o.escape),
		rfc2html.WithNormalize(o.normalize),
		rfc2html.WithURLLinks(o.urls),
	}
}

// process runs one document through the selected mode.
func process(ctx context.Context, src inputSource, w io.Writer, opts options, osc8 bool, base *url.URL) error {
	logger := zerolog.Ctx(ctx).With().Str("source", src.name).Logger()
	if src.url != "" && !opts.strip && !opts.list {
		logger.Debug().Msg("fetching")
		return rfc2html.HTTPRender(ctx, rfc2html.HTTPRenderRequest{
			URL:     src.url,
			Writer:  w,
			Options: opts.renderOptions(),
		})
	}

	data, err := src.read(ctx)
	if err != nil {
		return fmt.Errorf("read: %w", err)
	}
	logger.Debug().Int("bytes", len(data)).Msg("read")

	switch {
	case opts.strip:
		out := rfc2html.Strip(string(data))
		if opts.escape {
			out = html.UnescapeString(out)
		}
		_, err = io.WriteString(w, out)
		return err
	case opts.list:
		if err := rfc2html.ValidateInput(data); err != nil {
			return err
		}
		text := string(data)
		if opts.normalize {
			text = rfc2html.Normalize(text)
		}
		refs := rfc2html.References(text, rfc2html.WithURLLinks(opts.urls))
		logger.Debug().Int("references", len(refs)).Msg("resolved")
		docBase := base
		if src.url != "" {
			if u, err := url.Parse(src.url); err == nil {
				docBase = u
			}
		}
		return writeListing(w, text, refs, listingConfig{
			width: resolveWidth(opts.width),
			osc8:  osc8,
			base:  docBase,
		})
	}

	var out bytes.Buffer
	if err := rfc2html.Render(rfc2html.RenderRequest{
		Reader:  bytes.NewReader(data),
		Writer:  &out,
		Options: opts.renderOptions(),
	}); err != nil {
		return err
	}
	if e := logger.Debug(); e.Enabled() {
		rendered := rfc2html.Prepare(string(data), opts.renderOptions()...)
		e.Int("references", len(rfc2html.References(rendered, opts.renderOptions()...))).
			Int("output_bytes", out.Len()).
			Msg("rendered")
	}
	_, err = w.Write(out.Bytes())
	return err
}

func resolveWidth(width int) int {
	if width > 0 {
		return width
	}
	return terminalWidth(defaultWidth)
}

func terminalWidth(fallback int) int {
	fd := int(os.Stdout.Fd())
	if term.IsTerminal(fd) {
		if w, _, err := term.GetSize(fd); err == nil && w > 0 {
			return w
		}
	}
	if value := os.Getenv("COLUMNS"); value != "" {
		if w, err := strconv.Atoi(value); err == nil && w > 0 {
			return w
		}
	}
	return fallback
}

func resolveOSC8(mode string, w io.Writer) (bool, error) {
	switch strings.ToLower(strings.TrimSpace(mode)) {
	case "", "auto":
		return isTerminal(w) && detectOSC8Support(), nil
	case "on", "true", "1", "yes":
		return true, nil
	case "off", "false", "0", "no":
		return false, nil
	default:
		return false, fmt.Errorf("expected auto|on|off")
	}
}

// inputSource is one document to process. url is set for http(s) inputs.
type inputSource struct {
	name string
	url  string
	open func(ctx context.Context) (io.Reader, io.Closer, error)
}

func (s inputSource) read(ctx context.Context) ([]byte, error) {
	reader, closer, err := s.open(ctx)
	if err != nil {
		return nil, err
	}
	if closer != nil {
		defer func() { _ = closer.Close() }()
	}
	return io.ReadAll(reader)
}

func openInputs(args []string, stdin io.Reader) ([]inputSource, error) {
	if len(args) == 0 {
		return []inputSource{{
			name: "-",
			open: func(context.Context) (io.Reader, io.Closer, error) {
				return stdin, nil, nil
			},
		}}, nil
	}
	sources := make([]inputSource, 0, len(args))
	for _, raw := range args {
		src, err := makeInputSource(raw)
		if err != nil {
			return nil, err
		}
		sources = append(sources, src)
	}
	return sources, nil
}

func makeInputSource(raw string) (inputSource, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return inputSource{}, fmt.Errorf("empty input argument")
	}
	u, err := url.Parse(raw)
	if err == nil && u.Scheme != "" {
		switch strings.ToLower(u.Scheme) {
		case "http", "https":
			return inputSource{name: raw, url: raw, open: func(ctx context.Context) (io.Reader, io.Closer, error) {
				return openURL(ctx, raw)
			}}, nil
		case "file":
			path := u.Path
			if path == "" {
				path = u.Host
			}
			if unescaped, err := url.PathUnescape(path); err == nil {
				path = unescaped
			}
			return inputSource{name: raw, open: func(context.Context) (io.Reader, io.Closer, error) {
				return openFile(path)
			}}, nil
		}
	}
	return inputSource{name: raw, open: func(context.Context) (io.Reader, io.Closer, error) {
		return openFile(raw)
	}}, nil
}

func openURL(ctx context.Context, raw string) (io.Reader, io.Closer, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, raw, nil)
	if err != nil {
		return nil, nil, err
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return nil, nil, err
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		_ = resp.Body.Close()
		return nil, nil, fmt.Errorf("http %s: %s", raw, resp.Status)
	}
	return resp.Body, resp.Body, nil
}

func openFile(path string) (io.Reader, io.Closer, error) {
	f, err := os.Open(normalizePath(path))
	if err != nil {
		return nil, nil, err
	}
	return f, f, nil
}

func resolveOutput(path string, stdout io.Writer) (io.Writer, io.Closer, error) {
	if strings.TrimSpace(path) == "" {
		return stdout, nil, nil
	}
	clean := normalizePath(path)
	dir := filepath.Dir(clean)
	if dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, nil, err
		}
	}
	f, err := os.Create(clean)
	if err != nil {
		return nil, nil, err
	}
	return f, f, nil
}

func normalizePath(path string) string {
	if strings.HasPrefix(path, "~/") || path == "~" {
		home, err := os.UserHomeDir()
		if err == nil {
			if path == "~" {
				path = home
			} else {
				path = filepath.Join(home, path[2:])
			}
		}
	}
	abs, err := filepath.Abs(path)
	if err == nil {
		return abs
	}
	return path
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return term.IsTerminal(int(f.Fd()))
}
