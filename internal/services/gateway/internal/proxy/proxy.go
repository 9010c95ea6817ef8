package proxy

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/http/httputil"
	"net/url"
	"strings"

	"github.com/gamma-omg/lexi-explore/internal/pkg/httpx"
	"github.com/gamma-omg/lexi-explore/internal/pkg/router"
)

// Route forwards every request under Prefix to Target. With Strip set the
// prefix is removed before forwarding.
type Route struct {
	Name   string
	Prefix string
	Target *url.URL
	Strip  bool
}

type GatewayOption func(*Gateway) *Gateway

func WithRoute(r Route) GatewayOption {
	return func(g *Gateway) *Gateway {
		g.routes = append(g.routes, r)
		return g
	}
}

func WithTransport(t http.RoundTripper) GatewayOption {
	return func(g *Gateway) *Gateway {
		g.transport = t
		return g
	}
}

// Gateway exposes several services under a single origin.
type Gateway struct {
	routes    []Route
	transport http.RoundTripper
	router    *router.Router
}

func NewGateway(opts ...GatewayOption) *Gateway {
	g := &Gateway{
		transport: http.DefaultTransport,
		router:    router.New(),
	}

	for _, opt := range opts {
		g = opt(g)
	}

	if len(g.routes) == 0 {
		panic("at least one route is required")
	}

	g.mount()
	return g
}

func (g *Gateway) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	g.router.ServeHTTP(w, r)
}

func (g *Gateway) mount() {
	for _, rt := range g.routes {
		if rt.Target == nil {
			panic(fmt.Sprintf("route %q has no target", rt.Name))
		}

		prefix := "/" + strings.Trim(rt.Prefix, "/")
		var h http.Handler = g.reverseProxy(rt)
		if rt.Strip {
			h = http.StripPrefix(prefix, h)
		}

		g.router.Handle(prefix, h)
		g.router.Handle(prefix+"/", h)
	}
}

func (g *Gateway) reverseProxy(rt Route) *httputil.ReverseProxy {
	return &httputil.ReverseProxy{
		Rewrite: func(pr *httputil.ProxyRequest) {
			pr.SetURL(rt.Target)
			pr.SetXForwarded()
		},
		Transport: g.transport,
		ErrorHandler: func(w http.ResponseWriter, r *http.Request, err error) {
			if errors.Is(err, context.Canceled) {
				return
			}

			slog.Error("upstream request failed",
				"error", err,
				"route", rt.Name,
				"method", r.Method,
				"url", r.URL.String(),
			)
			httpx.WriteError(w, http.StatusBadGateway, "Bad Gateway")
		},
	}
}

// Probe checks the health endpoint of every upstream.
func (g *Gateway) Probe(ctx context.Context) error {
	client := &http.Client{Transport: g.transport}
	probed := make(map[string]bool)

	for _, rt := range g.routes {
		if probed[rt.Target.String()] {
			continue
		}
		probed[rt.Target.String()] = true

		req, err := http.NewRequestWithContext(ctx, http.MethodGet, rt.Target.JoinPath("healthz").String(), nil)
		if err != nil {
			return fmt.Errorf("create %s probe: %w", rt.Name, err)
		}

		resp, err := client.Do(req)
		if err != nil {
			return fmt.Errorf("probe %s: %w", rt.Name, err)
		}
		_ = resp.Body.Close()

		if resp.StatusCode != http.StatusOK {
			return fmt.Errorf("probe %s: unexpected status %d", rt.Name, resp.StatusCode)
		}
	}

	return nil
}
