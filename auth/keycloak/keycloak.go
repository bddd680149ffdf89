// Package keycloak implements login against a Keycloak realm using the
// OpenID Connect authorization code flow.
package keycloak

import (
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/gobuffalo/buffalo"
	"github.com/markbates/goth"
	"github.com/markbates/goth/providers/openidConnect"

	"github.com/treconstruction/changeorderino-api/auth"
	"github.com/treconstruction/changeorderino-api/domain"
)

const SessionKeyAuth = "keycloak_session"

type Config struct {
	IssuerURL    string
	ClientID     string
	ClientSecret string
	CallbackURL  string
}

type Provider struct {
	config Config
	oidc   *openidConnect.Provider
}

func New(config Config) (*Provider, error) {
	if config.IssuerURL == "" || config.ClientID == "" {
		return nil, errors.New("keycloak: issuer URL and client ID are required")
	}

	discoveryURL := strings.TrimSuffix(config.IssuerURL, "/") + "/.well-known/openid-configuration"
	oidc, err := openidConnect.New(
		config.ClientID,
		config.ClientSecret,
		config.CallbackURL,
		discoveryURL,
		"openid", "profile", "email", "roles",
	)
	if err != nil {
		return nil, fmt.Errorf("keycloak: failed to create OIDC provider: %w", err)
	}

	return &Provider{config: config, oidc: oidc}, nil
}

// AuthRequest begins the code flow and returns the URL the browser should be
// sent to. The goth session is stashed in the Buffalo session for the
// callback to pick up.
func (p *Provider) AuthRequest(c buffalo.Context) (string, error) {
	sess, err := p.oidc.BeginAuth(domain.RandomString(24, ""))
	if err != nil {
		return "", fmt.Errorf("keycloak: begin auth failed: %w", err)
	}

	authURL, err := sess.GetAuthURL()
	if err != nil {
		return "", fmt.Errorf("keycloak: no auth URL: %w", err)
	}

	c.Session().Set(SessionKeyAuth, sess.Marshal())
	if err := c.Session().Save(); err != nil {
		return "", fmt.Errorf("keycloak: failed to save session: %w", err)
	}

	return authURL, nil
}

// AuthCallback completes the code flow, exchanging the authorization code for
// tokens and mapping the Keycloak claims onto an auth.User.
func (p *Provider) AuthCallback(c buffalo.Context) auth.Response {
	marshaled, ok := c.Session().Get(SessionKeyAuth).(string)
	if !ok {
		return auth.Response{Error: errors.New("keycloak: no auth session found")}
	}

	sess, err := p.oidc.UnmarshalSession(marshaled)
	if err != nil {
		return auth.Response{Error: fmt.Errorf("keycloak: bad auth session: %w", err)}
	}

	if _, err := sess.Authorize(p.oidc, c.Params()); err != nil {
		return auth.Response{Error: fmt.Errorf("keycloak: authorization failed: %w", err)}
	}

	gothUser, err := p.oidc.FetchUser(sess)
	if err != nil {
		return auth.Response{Error: fmt.Errorf("keycloak: failed to fetch user: %w", err)}
	}

	if gothUser.Email == "" {
		return auth.Response{Error: errors.New("keycloak: no email in token claims")}
	}

	user := auth.User{
		FirstName: gothUser.FirstName,
		LastName:  gothUser.LastName,
		Email:     gothUser.Email,
		SubjectID: gothUser.UserID,
		Roles:     realmRoles(gothUser),
	}
	if user.FirstName == "" && gothUser.Name != "" {
		user.FirstName = gothUser.Name
	}

	return auth.Response{AuthUser: &user}
}

// LogoutURL returns the Keycloak end-session endpoint, sending the browser
// back to the UI afterward.
func (p *Provider) LogoutURL() string {
	return fmt.Sprintf("%s/protocol/openid-connect/logout?post_logout_redirect_uri=%s&client_id=%s",
		strings.TrimSuffix(p.config.IssuerURL, "/"),
		url.QueryEscape(domain.LogoutRedirectURL),
		url.QueryEscape(p.config.ClientID),
	)
}

// realmRoles digs the realm role names out of the Keycloak token claims
func realmRoles(u goth.User) []string {
	realmAccess, ok := u.RawData["realm_access"].(map[string]any)
	if !ok {
		return nil
	}

	rawRoles, ok := realmAccess["roles"].([]any)
	if !ok {
		return nil
	}

	roles := make([]string, 0, len(rawRoles))
	for _, r := range rawRoles {
		if s, ok := r.(string); ok {
			roles = append(roles, s)
		}
	}
	return roles
}
