package router

import (
	"errors"
	"fmt"
	"path"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
)

const maxRedirects = 10

var (
	ErrRouteNotFound = errors.New("route not found")
	ErrRedirectLoop  = errors.New("too many redirects")
	ErrDuplicateName = errors.New("duplicate route name")
)

// Match is a resolved location: the leaf route and its ancestor chain
type Match struct {
	Path     string
	FullPath string // path plus query and fragment
	Route    *Route
	Matched  []*Route // root first, leaf last
}

// Name returns the leaf route name
func (m Match) Name() string {
	if m.Route == nil {
		return ""
	}
	return m.Route.Name
}

// RequiresAuth reports whether the leaf or any ancestor requires a session
func (m Match) RequiresAuth() bool {
	for _, r := range m.Matched {
		if r.Meta.RequiresAuth {
			return true
		}
	}
	return false
}

// Guest reports whether the leaf is a guest-only route
func (m Match) Guest() bool {
	return m.Route != nil && m.Route.Meta.Guest
}

// Router maps paths to routes and runs guards before each transition.
// It is safe for concurrent use; transitions are serialized.
type Router struct {
	byPath map[string]Match
	byName map[string]Match
	guards []GuardFunc
	logger zerolog.Logger

	mu      sync.Mutex
	current Match
	history []string
}

// New validates the route table and builds a router for it
func New(routes []Route, logger zerolog.Logger) (*Router, error) {
	if err := validateRoutes(routes); err != nil {
		return nil, err
	}

	r := &Router{
		byPath: make(map[string]Match),
		byName: make(map[string]Match),
		logger: logger,
	}

	if err := r.register(cloneRoutes(routes), "", nil); err != nil {
		return nil, err
	}

	return r, nil
}

func validateRoutes(routes []Route) error {
	validate := validator.New()

	// Route names double as identifiers in redirects and logs
	validate.RegisterValidation("alphanumdash", func(fl validator.FieldLevel) bool {
		for _, char := range fl.Field().String() {
			if !((char >= 'a' && char <= 'z') ||
				(char >= 'A' && char <= 'Z') ||
				(char >= '0' && char <= '9') ||
				char == '-') {
				return false
			}
		}
		return true
	})

	for i := range routes {
		if err := validate.Struct(routes[i]); err != nil {
			return fmt.Errorf("invalid route %q: %w", routes[i].Path, err)
		}
	}
	return nil
}

func (r *Router) register(routes []Route, parentPath string, ancestors []*Route) error {
	for i := range routes {
		route := &routes[i]

		fullPath := route.Path
		if !strings.HasPrefix(fullPath, "/") {
			fullPath = path.Join(parentPath, fullPath)
		}
		fullPath = normalizePath(fullPath)

		chain := make([]*Route, 0, len(ancestors)+1)
		chain = append(chain, ancestors...)
		chain = append(chain, route)

		match := Match{Path: fullPath, FullPath: fullPath, Route: route, Matched: chain}

		key := strings.ToLower(fullPath)
		if _, exists := r.byPath[key]; exists {
			return fmt.Errorf("duplicate route path %q", fullPath)
		}
		r.byPath[key] = match

		if route.Name != "" {
			if _, exists := r.byName[route.Name]; exists {
				return fmt.Errorf("%w: %s", ErrDuplicateName, route.Name)
			}
			r.byName[route.Name] = match
		}

		if err := r.register(route.Children, fullPath, chain); err != nil {
			return err
		}
	}
	return nil
}

// cloneRoutes deep-copies the table so callers cannot mutate it afterwards
func cloneRoutes(routes []Route) []Route {
	if routes == nil {
		return nil
	}
	out := make([]Route, len(routes))
	for i, route := range routes {
		out[i] = route
		out[i].Children = cloneRoutes(route.Children)
	}
	return out
}

// normalizePath drops trailing slashes except for the root
func normalizePath(p string) string {
	if p == "" {
		return "/"
	}
	if len(p) > 1 {
		p = strings.TrimRight(p, "/")
	}
	if p == "" {
		return "/"
	}
	return p
}

// BeforeEach registers a guard. Guards run in registration order and the
// first redirect wins.
func (r *Router) BeforeEach(guard GuardFunc) {
	r.mu.Lock()
	r.guards = append(r.guards, guard)
	r.mu.Unlock()
}

// Resolve maps a location to its route without navigating.
// Paths match case-insensitively; the match carries the declared casing.
func (r *Router) Resolve(location string) (Match, error) {
	p := location
	suffix := ""
	if idx := strings.IndexAny(p, "?#"); idx >= 0 {
		p, suffix = p[:idx], p[idx:]
	}
	p = normalizePath(p)

	match, ok := r.byPath[strings.ToLower(p)]
	if !ok {
		return Match{}, fmt.Errorf("%w: %s", ErrRouteNotFound, location)
	}
	match.FullPath = match.Path + suffix
	return match, nil
}

// ResolveName returns the match for a named route
func (r *Router) ResolveName(name string) (Match, error) {
	match, ok := r.byName[name]
	if !ok {
		return Match{}, fmt.Errorf("%w: name %s", ErrRouteNotFound, name)
	}
	return match, nil
}

// Push navigates to location, following static and guard redirects
func (r *Router) Push(location string) (Match, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	match, err := r.navigate(location)
	if err != nil {
		return Match{}, err
	}
	r.history = append(r.history, match.FullPath)
	return match, nil
}

// Assign is a full navigation: history restarts at the target
func (r *Router) Assign(location string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	match, err := r.navigate(location)
	if err != nil {
		return err
	}
	r.history = []string{match.FullPath}
	return nil
}

// Location returns the current path, empty before the first navigation
func (r *Router) Location() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.current.Path
}

// Current returns the current match
func (r *Router) Current() Match {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.current
}

// History returns the visited locations, oldest first
func (r *Router) History() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.history...)
}

// navigate must be called with r.mu held
func (r *Router) navigate(location string) (Match, error) {
	from := r.current
	target := location

	for i := 0; i < maxRedirects; i++ {
		to, err := r.Resolve(target)
		if err != nil {
			return Match{}, err
		}

		if to.Route.Redirect != "" {
			target = to.Route.Redirect
			continue
		}

		decision := r.runGuards(to, from)
		if !decision.Proceeds() {
			redirect, err := r.ResolveName(decision.RedirectName)
			if err != nil {
				return Match{}, err
			}
			r.logger.Debug().
				Str("to", to.FullPath).
				Str("redirect", redirect.Path).
				Msg("Navigation redirected by guard")
			target = redirect.Path
			continue
		}

		r.current = to
		r.logger.Debug().
			Str("from", from.FullPath).
			Str("to", to.FullPath).
			Str("route", to.Name()).
			Msg("Navigated")
		return to, nil
	}

	return Match{}, fmt.Errorf("%w: %s", ErrRedirectLoop, location)
}

func (r *Router) runGuards(to, from Match) Decision {
	for _, guard := range r.guards {
		if decision := guard(to, from); !decision.Proceeds() {
			return decision
		}
	}
	return Proceed()
}
