package auth

import "github.com/gobuffalo/buffalo"

// User holds common attributes expected from auth providers
type User struct {
	FirstName            string
	LastName             string
	Email                string
	SubjectID            string
	Roles                []string
	AccessToken          string `json:"AccessToken"`
	AccessTokenExpiresAt int64  `json:"AccessTokenExpiresAt"`
	IsNew                bool
}

// Response holds fields for login and logout responses. Not all fields will have values.
type Response struct {
	RedirectURL string
	AuthUser    *User
	Error       error
}

// Provider is the interface for authentication providers
type Provider interface {
	AuthRequest(buffalo.Context) (string, error)
	AuthCallback(buffalo.Context) Response
	LogoutURL() string
}
