package rfc2html

// RenderOption configures rendering behavior.
type RenderOption func(*renderConfig)

type renderConfig struct {
	urlLinks  bool
	escape    bool
	pre       bool
	normalize bool
}

func newRenderConfig(opts []RenderOption) renderConfig {
	cfg := renderConfig{}
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}
	return cfg
}

// WithURLLinks enables or disables anchoring of http, https and ftp URLs.
func WithURLLinks(enabled bool) RenderOption {
	return func(cfg *renderConfig) {
		cfg.urlLinks = enabled
	}
}

// WithEscape enables HTML escaping of &, < and > before markup.
func WithEscape(enabled bool) RenderOption {
	return func(cfg *renderConfig) {
		cfg.escape = enabled
	}
}

// WithPre wraps the rendered document in a pre element.
func WithPre(enabled bool) RenderOption {
	return func(cfg *renderConfig) {
		cfg.pre = enabled
	}
}

// WithNormalize enables line ending normalization and tab expansion.
func WithNormalize(enabled bool) RenderOption {
	return func(cfg *renderConfig) {
		cfg.normalize = enabled
	}
}
