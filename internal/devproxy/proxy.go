// Package devproxy forwards API calls from the dev server to the backend,
// stripping the API prefix the same way the production reverse proxy does.
package devproxy

import (
	"crypto/tls"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httputil"
	"net/url"
	"strings"

	"github.com/rs/zerolog"

	"github.com/rce-portal/portal/internal/metrics"
)

// Options configures the proxy rule
type Options struct {
	// Target is the backend origin, e.g. http://backend:8654
	Target string
	// Prefix is stripped before forwarding, e.g. /api
	Prefix string
	// ChangeOrigin sends the target host as the Host header
	ChangeOrigin bool
	// Secure verifies the backend TLS certificate
	Secure bool
	Logger zerolog.Logger
}

// New creates the reverse proxy handler
func New(opts Options) (http.Handler, error) {
	target, err := url.Parse(opts.Target)
	if err != nil {
		return nil, fmt.Errorf("invalid proxy target: %w", err)
	}
	if target.Scheme == "" || target.Host == "" {
		return nil, fmt.Errorf("invalid proxy target %q: scheme and host are required", opts.Target)
	}

	prefix := strings.TrimRight(opts.Prefix, "/")
	log := opts.Logger.With().Str("target", target.String()).Logger()

	transport := http.DefaultTransport.(*http.Transport).Clone()
	if !opts.Secure {
		transport.TLSClientConfig = &tls.Config{
			InsecureSkipVerify: true, // Backends in dev often use self-signed certificates
		}
	}

	proxy := &httputil.ReverseProxy{
		Transport: transport,
		Rewrite: func(pr *httputil.ProxyRequest) {
			// Strip the encoded form too so escapes like %2F reach the backend as sent
			pr.Out.URL.Path = StripPrefix(pr.In.URL.Path, prefix)
			pr.Out.URL.RawPath = StripPrefix(pr.In.URL.EscapedPath(), prefix)
			pr.SetURL(target)
			pr.SetXForwarded()

			if !opts.ChangeOrigin {
				pr.Out.Host = pr.In.Host
			}
		},
		ErrorHandler: func(w http.ResponseWriter, r *http.Request, err error) {
			metrics.ProxyUpstreamErrors.Inc()
			log.Error().Err(err).Str("path", r.URL.Path).Msg("Backend request failed")

			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusBadGateway)
			json.NewEncoder(w).Encode(map[string]string{"error": "Backend unavailable"})
		},
	}

	return proxy, nil
}

// StripPrefix removes prefix from p when it is a whole leading path segment.
// "/api/empresas" -> "/empresas", "/api" -> "/", "/apiary" is left alone.
func StripPrefix(p, prefix string) string {
	if prefix == "" {
		return p
	}
	if p == prefix {
		return "/"
	}
	if rest, ok := strings.CutPrefix(p, prefix+"/"); ok {
		return "/" + rest
	}
	return p
}
