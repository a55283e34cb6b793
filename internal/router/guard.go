package router

import "github.com/rce-portal/portal/internal/session"

// Decision is the outcome of a guard: proceed, or redirect to a named route
type Decision struct {
	RedirectName string
}

// Proceed lets the transition continue
func Proceed() Decision {
	return Decision{}
}

// RedirectTo aborts the transition in favour of the named route
func RedirectTo(name string) Decision {
	return Decision{RedirectName: name}
}

// Proceeds reports whether the transition may continue
func (d Decision) Proceeds() bool {
	return d.RedirectName == ""
}

// GuardFunc runs before every transition
type GuardFunc func(to, from Match) Decision

// AuthGuard gates routes on the presence of a session token:
// auth-required routes (or their ancestors) need a token, guest routes need none,
// everything else passes.
func AuthGuard(store session.TokenStore) GuardFunc {
	return func(to, from Match) Decision {
		authenticated := session.Present(store)

		switch {
		case to.RequiresAuth():
			if !authenticated {
				return RedirectTo(NameLogin)
			}
		case to.Guest():
			if authenticated {
				return RedirectTo(NameDashboard)
			}
		}

		return Proceed()
	}
}
