package client

import (
	"context"
	"net/http"

	"github.com/dmitrijs2005/medcasegen/internal/client/tokenstore"
	"github.com/dmitrijs2005/medcasegen/internal/common"
	"github.com/dmitrijs2005/medcasegen/internal/logging"
)

// Navigator sends the user to the login screen after the API rejected the
// stored credentials. Only interactive front ends provide one.
type Navigator interface {
	ToLogin(ctx context.Context)
}

// NavigatorFunc adapts a function to Navigator.
type NavigatorFunc func(ctx context.Context)

func (f NavigatorFunc) ToLogin(ctx context.Context) { f(ctx) }

// authorizer attaches the stored token as a bearer credential.
type authorizer struct {
	store tokenstore.Store
	next  http.RoundTripper
}

func (a *authorizer) RoundTrip(req *http.Request) (*http.Response, error) {
	token, ok := a.store.Read(req.Context())
	if !ok {
		return a.next.RoundTrip(req)
	}

	r := req.Clone(req.Context())
	r.Header.Set(common.AuthorizationHeader, common.BearerPrefix+token)
	return a.next.RoundTrip(r)
}

// responseGuard drops the stored token when the API answers 401.
type responseGuard struct {
	store  tokenstore.Store
	nav    Navigator
	logger logging.Logger
	next   http.RoundTripper
}

func (g *responseGuard) RoundTrip(req *http.Request) (*http.Response, error) {
	resp, err := g.next.RoundTrip(req)
	if err != nil {
		return nil, err
	}

	if resp.StatusCode == http.StatusUnauthorized {
		ctx := req.Context()
		g.logger.Info(ctx, "credentials rejected by api, clearing session", "path", req.URL.Path)
		g.store.Clear(ctx)
		if g.nav != nil {
			g.nav.ToLogin(ctx)
		}
	}

	return resp, nil
}
