package router

import (
	"errors"
	"net/http"
	"net/url"

	"github.com/go-chi/chi/v5"
)

// ErrUnknownRoute is returned for paths outside the route surface.
var ErrUnknownRoute = errors.New("unknown route")

const (
	// RootPattern creates or resumes a session.
	RootPattern = "/"
	// ChatPattern adopts the session named in the path.
	ChatPattern = "/chat/{chatID}"
)

// Route is a matched page path.
type Route struct {
	Path   string
	ChatID string
}

var routes = newRouteTable()

func newRouteTable() *chi.Mux {
	r := chi.NewRouter()
	noop := func(http.ResponseWriter, *http.Request) {}
	r.Get(RootPattern, noop)
	r.Get(ChatPattern, noop)
	return r
}

// Parse matches path against the page routes.
func Parse(path string) (Route, error) {
	if path == "" {
		path = "/"
	}

	rctx := chi.NewRouteContext()
	if !routes.Match(rctx, http.MethodGet, path) {
		return Route{}, ErrUnknownRoute
	}

	route := Route{Path: path}
	if raw := rctx.URLParam("chatID"); raw != "" {
		id, err := url.PathUnescape(raw)
		if err != nil {
			return Route{}, ErrUnknownRoute
		}
		route.ChatID = id
	} else if path != RootPattern {
		return Route{}, ErrUnknownRoute
	}
	return route, nil
}

// ChatPath returns the page path of session id.
func ChatPath(id string) string {
	return "/chat/" + url.PathEscape(id)
}
