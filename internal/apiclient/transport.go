package apiclient

import (
	"net/http"

	"github.com/oklog/ulid/v2"
	"github.com/rs/zerolog"

	"github.com/rce-portal/portal/internal/session"
)

const (
	bearerPrefix    = "Bearer "
	requestIDHeader = "X-Request-ID"
)

// Navigator is the location the shell is currently showing.
// Assign performs a full navigation, guard included.
type Navigator interface {
	Location() string
	Assign(path string) error
}

// authTransport applies the outbound and inbound transforms to every request
type authTransport struct {
	base      http.RoundTripper
	store     session.TokenStore
	navigator Navigator
	loginPath string
	logger    zerolog.Logger
}

func (t *authTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	out := req.Clone(req.Context())

	if out.Header.Get(requestIDHeader) == "" {
		out.Header.Set(requestIDHeader, ulid.Make().String())
	}

	// Storage read failures fall through as "no token"
	token, err := t.store.Load()
	if err != nil {
		t.logger.Debug().Err(err).Msg("Failed to read session token")
	} else if token != "" {
		out.Header.Set("Authorization", bearerPrefix+token)
	}

	resp, err := t.base.RoundTrip(out)
	if err != nil {
		return nil, err
	}

	if resp.StatusCode == http.StatusUnauthorized {
		t.invalidateSession(out)
	}

	return resp, nil
}

// invalidateSession clears the token and sends the shell to the login page.
// Already being on the login page means no navigation, so repeated 401s never loop.
func (t *authTransport) invalidateSession(req *http.Request) {
	log := t.logger.With().
		Str("path", req.URL.Path).
		Str("request_id", req.Header.Get(requestIDHeader)).
		Logger()

	if err := t.store.Delete(); err != nil {
		log.Warn().Err(err).Msg("Failed to clear session token after 401")
	}

	if t.navigator == nil {
		log.Info().Msg("Session invalidated")
		return
	}

	if t.navigator.Location() == t.loginPath {
		log.Info().Msg("Session invalidated, already on login page")
		return
	}

	log.Info().Str("redirect", t.loginPath).Msg("Session invalidated, redirecting to login")
	if err := t.navigator.Assign(t.loginPath); err != nil {
		log.Warn().Err(err).Msg("Failed to navigate to login page")
	}
}
