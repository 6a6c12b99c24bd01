package backend

import (
	"context"
	"net/http"
	"strings"

	"github.com/hvacdesk/hv/internal/domain"
	"github.com/hvacdesk/hv/internal/ports"
)

var _ ports.AuthGateway = (*Client)(nil)

// Login returns the bearer token issued for credentials. An empty token is
// returned as is; the caller decides how to treat it.
func (c *Client) Login(ctx context.Context, credentials domain.Credentials) (string, error) {
	var out tokenDTO
	err := c.sendForm(ctx, "login", http.MethodPost, "/Auth/Login", []formField{
		{name: "email", value: strings.TrimSpace(credentials.Identifier)},
		{name: "password", value: credentials.Secret},
	}, authNone, &out)
	if err != nil {
		return "", err
	}

	return strings.TrimSpace(out.Token), nil
}

func (c *Client) CurrentUser(ctx context.Context, token string) (domain.Identity, error) {
	resp, err := c.do(ctx, call{
		op:     "current user",
		method: http.MethodGet,
		path:   "/Auth/CurrentUser",
		auth:   authExplicit,
		token:  token,
	})
	if err != nil {
		return domain.Identity{}, err
	}

	var out identityDTO
	if err := decodeBody("current user", resp, &out); err != nil {
		return domain.Identity{}, err
	}

	return out.toDomain(), nil
}

func (c *Client) Register(ctx context.Context, profile domain.Profile) error {
	return c.postJSON(ctx, "register", "/Auth/Register", profile, nil)
}
