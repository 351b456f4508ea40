package shopkit

import (
	"net/http"
	"time"

	"github.com/goliatone/go-router"
)

// RouteGuard intercepts navigation to protected paths and redirects
// unauthenticated or wrongly-roled identities to the login flow. It is
// stateless per navigation: every protected-route request is re-evaluated
// against the current session, with exactly two outcomes, allowed or
// redirecting.
type RouteGuard struct {
	policies PolicySet
	sessions *SessionStore
	gate     *Gate
	cfg      GuardConfig
	logger   Logger
}

func NewRouteGuard(sessions *SessionStore, policies PolicySet, cfg GuardConfig) *RouteGuard {
	return &RouteGuard{
		policies: policies,
		sessions: sessions,
		gate:     NewGate(),
		cfg:      cfg,
		logger:   defLogger{},
	}
}

func (g *RouteGuard) WithLogger(logger Logger) *RouteGuard {
	if logger != nil {
		g.logger = logger
		g.gate = g.gate.WithLogger(logger)
	}
	return g
}

// Middleware evaluates the policy set on every request. Paths outside the
// protected matcher pass through untouched.
func (g *RouteGuard) Middleware() router.MiddlewareFunc {
	return func(hf router.HandlerFunc) router.HandlerFunc {
		return func(c router.Context) error {
			policy, protected := g.policies.Match(c.Path())
			if !protected {
				return c.Next()
			}

			identity, _ := g.sessions.Get()
			if g.gate.IsAuthorized(identity, policy) {
				return c.Next()
			}

			return g.redirectToLogin(c)
		}
	}
}

// redirectToLogin preserves the originally requested destination in the
// rejected-route cookie so post-login navigation can restore it.
func (g *RouteGuard) redirectToLogin(c router.Context) error {
	g.logger.Info(
		"Route rejected, redirecting to login",
		"path", c.OriginalURL(),
	)

	g.SetRedirect(c)

	statusCode := http.StatusSeeOther
	if c.Method() == string(router.GET) {
		statusCode = http.StatusFound
	}
	return c.Redirect(g.cfg.GetLoginPath(), statusCode)
}

// SetRedirect records the current URL as the post-login destination.
func (g *RouteGuard) SetRedirect(c router.Context) {
	c.Cookie(&router.Cookie{
		Name:     g.cfg.GetRejectedRouteKey(),
		Value:    c.OriginalURL(),
		Expires:  time.Now().Add(time.Minute * 5),
		HTTPOnly: true,
		Secure:   true,
		SameSite: "Lax",
	})
}

// GetRedirect pops the recorded destination, falling back to def.
func (g *RouteGuard) GetRedirect(c router.Context, def ...string) string {
	rejectedRoute := g.cfg.GetRejectedRouteKey()
	r := c.Cookies(rejectedRoute)
	if r == "" {
		if len(def) > 0 {
			return def[0]
		}
		return g.cfg.GetRejectedRouteDefault()
	}
	g.cookieDel(c, rejectedRoute)
	return r
}

// GetRedirectOrDefault pops the recorded destination, trying the referer
// header before the configured default.
func (g *RouteGuard) GetRedirectOrDefault(c router.Context) string {
	rejectedRoute := g.cfg.GetRejectedRouteKey()
	refererHeader := string(c.Referer())

	r := c.Cookies(rejectedRoute, refererHeader)
	if r == "" {
		r = g.cfg.GetRejectedRouteDefault()
	}
	g.cookieDel(c, rejectedRoute)
	return r
}

func (g *RouteGuard) cookieDel(c router.Context, name string) {
	c.Cookie(&router.Cookie{
		Name:     name,
		Value:    "",
		Expires:  time.Now().Add(-time.Hour * (24 * 365)),
		HTTPOnly: true,
		Secure:   true,
		SameSite: "Lax",
	})
}

// GuardOptions is the default GuardConfig implementation.
type GuardOptions struct {
	LoginPath            string
	RejectedRouteKey     string
	RejectedRouteDefault string
}

var _ GuardConfig = GuardOptions{}

func (o GuardOptions) GetLoginPath() string {
	if o.LoginPath == "" {
		return "/login"
	}
	return o.LoginPath
}

func (o GuardOptions) GetRejectedRouteKey() string {
	if o.RejectedRouteKey == "" {
		return "rejected_route"
	}
	return o.RejectedRouteKey
}

func (o GuardOptions) GetRejectedRouteDefault() string {
	if o.RejectedRouteDefault == "" {
		return "/"
	}
	return o.RejectedRouteDefault
}
