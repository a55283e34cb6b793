// Package shell wires the session token, the router with its navigation
// guard and the API client into the client runtime the commands drive.
package shell

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/rs/zerolog"

	"github.com/rce-portal/portal/internal/apiclient"
	"github.com/rce-portal/portal/internal/router"
	"github.com/rce-portal/portal/internal/session"
)

var ErrSessionExpired = errors.New("session expired")

// Shell is one running client: token, router and API client share state
type Shell struct {
	Store  session.TokenStore
	Router *router.Router
	Client *apiclient.Client
	logger zerolog.Logger
}

// New builds a shell against origin with the given token store
func New(origin string, store session.TokenStore, logger zerolog.Logger) (*Shell, error) {
	r, err := router.New(router.Routes(), logger)
	if err != nil {
		return nil, fmt.Errorf("failed to build router: %w", err)
	}
	r.BeforeEach(router.AuthGuard(store))

	client := apiclient.New(apiclient.Options{
		Origin:    origin,
		Store:     store,
		Navigator: r,
		LoginPath: router.LoginPath,
		Logger:    logger,
	})

	return &Shell{
		Store:  store,
		Router: r,
		Client: client,
		logger: logger,
	}, nil
}

// Open navigates to location and renders the view the router lands on.
// A 401 while rendering leaves the shell on the login page.
func (s *Shell) Open(ctx context.Context, location string, out io.Writer) (router.Match, error) {
	match, err := s.Router.Push(location)
	if err != nil {
		return router.Match{}, err
	}

	view, ok := views[match.Route.View]
	if !ok {
		return match, fmt.Errorf("no view registered for %s", match.Route.View)
	}

	if err := view(ctx, s, match, out); err != nil {
		if apiclient.IsUnauthorized(err) {
			return s.Router.Current(), fmt.Errorf("%w, now at %s: %w", ErrSessionExpired, s.Router.Location(), err)
		}
		return match, err
	}

	return match, nil
}

// Login authenticates, stores the token and moves to the dashboard
func (s *Shell) Login(ctx context.Context, username, password string) (*apiclient.LoginResponse, error) {
	if _, err := s.Router.Push(router.LoginPath); err != nil {
		return nil, err
	}

	resp, err := s.Client.Login(ctx, username, password)
	if err != nil {
		return resp, err
	}

	if err := s.Store.Save(resp.Token); err != nil {
		return resp, fmt.Errorf("failed to save session token: %w", err)
	}

	if _, err := s.Router.Push(router.DashboardPath); err != nil {
		return resp, err
	}

	s.logger.Debug().Msg("Session token stored")
	return resp, nil
}

// Logout revokes the token server side when possible and always clears it locally
func (s *Shell) Logout(ctx context.Context) error {
	if session.Present(s.Store) {
		if err := s.Client.Logout(ctx); err != nil {
			s.logger.Warn().Err(err).Msg("Server-side logout failed, clearing local session anyway")
		}
	}

	if err := s.Store.Delete(); err != nil {
		return fmt.Errorf("failed to clear session token: %w", err)
	}

	return s.Router.Assign(router.LoginPath)
}
