package middleware

import (
	"net"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/nfrund/folio/internal/backend"
	"github.com/nfrund/folio/internal/config"
)

const (
	// EnvironmentContextKey holds the config.Environment resolved for the request host.
	EnvironmentContextKey = "environment"
	// EndpointsContextKey holds the config.Endpoints resolved for the request host.
	EndpointsContextKey = "endpoints"
	// BackendContextKey holds the *backend.Client for the resolved API root.
	BackendContextKey = "backend"
)

// Environment resolves the API endpoints from the request's Host header and
// makes them, and a client for them, available to handlers. A development
// hostname is only honoured for a direct loopback peer.
func Environment(resolver *config.Resolver, pool *backend.Pool) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			env, endpoints := resolver.ResolveRequest(c.Request().Host, isLocalPeer(c.Request()))
			c.Set(EnvironmentContextKey, env)
			c.Set(EndpointsContextKey, endpoints)
			c.Set(BackendContextKey, pool.For(endpoints.APIURL))
			return next(c)
		}
	}
}

// isLocalPeer reports whether the request comes straight from this machine.
// Anything relayed by a proxy counts as remote, since the proxy keeps the
// client's Host header.
func isLocalPeer(req *http.Request) bool {
	for _, h := range []string{echo.HeaderXForwardedFor, echo.HeaderXRealIP, "Forwarded"} {
		if req.Header.Get(h) != "" {
			return false
		}
	}
	host, _, err := net.SplitHostPort(req.RemoteAddr)
	if err != nil {
		host = req.RemoteAddr
	}
	ip := net.ParseIP(host)
	return ip != nil && ip.IsLoopback()
}

// EndpointsFrom returns the endpoints resolved for this request.
func EndpointsFrom(c echo.Context) config.Endpoints {
	endpoints, _ := c.Get(EndpointsContextKey).(config.Endpoints)
	return endpoints
}

// EnvironmentFrom returns the environment resolved for this request.
func EnvironmentFrom(c echo.Context) config.Environment {
	env, _ := c.Get(EnvironmentContextKey).(config.Environment)
	return env
}

// BackendFrom returns the API client for this request. It panics when the
// Environment middleware has not run, which is a routing bug.
func BackendFrom(c echo.Context) *backend.Client {
	return c.Get(BackendContextKey).(*backend.Client)
}
