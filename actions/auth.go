package actions

import (
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/gobuffalo/buffalo"

	"github.com/treconstruction/changeorderino-api/api"
	"github.com/treconstruction/changeorderino-api/auth"
	"github.com/treconstruction/changeorderino-api/auth/keycloak"
	"github.com/treconstruction/changeorderino-api/domain"
	"github.com/treconstruction/changeorderino-api/log"
	"github.com/treconstruction/changeorderino-api/models"
)

const (
	// http param for access token
	AccessTokenParam = "access-token"

	// logout http param for what is normally the bearer token
	LogoutToken = "token"

	// http param and session key for ReturnTo
	ReturnToParam      = "return-to"
	ReturnToSessionKey = "ReturnTo"

	// http param for token type
	TokenTypeParam = "token-type"
)

func authProvider() (auth.Provider, error) {
	return keycloak.New(keycloak.Config{
		IssuerURL:    domain.Env.KeycloakIssuerURL,
		ClientID:     domain.Env.KeycloakClientID,
		ClientSecret: domain.Env.KeycloakClientSecret,
		CallbackURL:  domain.AuthCallbackURL,
	})
}

// swagger:operation POST /auth/login Authentication AuthLogin
// AuthLogin
//
// Start the Keycloak login process
// ---
//
//	responses:
//	  '200':
//	    description: returns a "RedirectURL" key with the identity provider's authorization url
func authRequest(c buffalo.Context) error {
	getOrSetReturnTo(c)

	sp, err := authProvider()
	if err != nil {
		return reportErrorAndClearSession(c, &api.AppError{
			Err:        err,
			HttpStatus: http.StatusInternalServerError,
			Key:        api.ErrorLoadingAuthProvider,
			Message:    "unable to load auth provider.",
		})
	}

	redirectURL, err := sp.AuthRequest(c)
	if err != nil {
		return reportErrorAndClearSession(c, &api.AppError{
			Err:        err,
			HttpStatus: http.StatusInternalServerError,
			Key:        api.ErrorGettingAuthURL,
			Message:    "unable to determine what the authentication url should be",
		})
	}

	authRedirect := map[string]string{
		"RedirectURL": redirectURL,
	}

	// Reply with a 200 and leave it to the UI to do the redirect
	return renderOk(c, authRedirect)
}

func getOrSetReturnTo(c buffalo.Context) string {
	returnTo := c.Param(ReturnToParam)

	if returnTo == "" {
		var ok bool
		returnTo, ok = c.Session().Get(ReturnToSessionKey).(string)
		if !ok || returnTo == "" {
			returnTo = domain.DefaultUIPath
		}

		return returnTo
	}

	c.Session().Set(ReturnToSessionKey, returnTo)
	if err := c.Session().Save(); err != nil {
		log.Errorf("failed to set %s in session: %s", ReturnToSessionKey, err)
	}

	return returnTo
}

func authCallback(c buffalo.Context) error {
	sp, err := authProvider()
	if err != nil {
		return reportErrorAndClearSession(c, &api.AppError{
			HttpStatus: http.StatusInternalServerError,
			Key:        api.ErrorLoadingAuthProvider,
			Message:    "unable to load auth provider in auth callback.",
		})
	}

	authResp := sp.AuthCallback(c)
	if authResp.Error != nil {
		err = fmt.Errorf("auth response error: %w", authResp.Error)
		return reportErrorAndClearSession(c, api.NewAppError(err, api.ErrorAuthProvidersCallback, api.CategoryInternal))
	}

	returnTo := getOrSetReturnTo(c)

	if authResp.AuthUser == nil {
		return reportErrorAndClearSession(c, &api.AppError{
			HttpStatus: http.StatusFound,
			Key:        api.ErrorAuthProvidersCallback,
			Err:        errors.New("nil authResp.AuthUser"),
		})
	}

	// if we have an authuser, find or create user in local db and finish login
	var user models.User

	authUser := authResp.AuthUser
	tx := models.Tx(c)
	if err := user.FindOrCreateFromAuthUser(tx, authUser); err != nil {
		return reportErrorAndClearSession(c, &api.AppError{
			HttpStatus: http.StatusInternalServerError,
			Key:        api.ErrorWithAuthUser,
			Message:    err.Error(),
		})
	}

	// login was success, clear session so new login can be initiated if needed
	c.Session().Clear()
	if err := c.Session().Save(); err != nil {
		return reportError(c, appErrorFromErr(err))
	}

	authUser.IsNew = time.Since(user.CreatedAt) < time.Second*30

	uat, err := user.CreateAccessToken(tx)
	if err != nil {
		return reportErrorAndClearSession(c, &api.AppError{
			HttpStatus: http.StatusInternalServerError,
			Key:        api.ErrorCreatingAccessToken,
			Message:    err.Error(),
		})
	}

	authUser.AccessToken = uat.AccessToken
	authUser.AccessTokenExpiresAt = uat.ExpiresAt.UTC().Unix()

	log.SetUser(c, user.ID.String(), user.Name(), user.Email)

	return c.Redirect(http.StatusFound, getLoginSuccessRedirectURL(*authUser, returnTo))
}

// getLoginSuccessRedirectURL generates the URL for redirection after a successful login
func getLoginSuccessRedirectURL(authUser auth.User, returnTo string) string {
	uiURL := domain.Env.UIURL

	params := fmt.Sprintf("?%s=Bearer&%s=%s",
		TokenTypeParam, AccessTokenParam, authUser.AccessToken)

	// New Users go straight to the welcome page
	if authUser.IsNew {
		uiURL += "/welcome"
		if len(returnTo) > 0 {
			params += "&" + ReturnToParam + "=" + url.QueryEscape(returnTo)
		}
		return uiURL + params
	}

	// Avoid two question marks in the params
	if strings.Contains(returnTo, "?") && strings.HasPrefix(params, "?") {
		params = "&" + params[1:]
	}

	return uiURL + returnTo + params
}

// swagger:operation GET /auth/logout Authentication AuthLogout
// AuthLogout
//
// Logout of application
// ---
//
//	parameters:
//	- name: token
//	  in: query
//	  required: true
//	  description: the user's bearer token
//	responses:
//	  '302':
//	    description: redirect to UI
func authDestroy(c buffalo.Context) error {
	tokenParam := c.Param(LogoutToken)
	if tokenParam == "" {
		return reportErrorAndClearSession(c, &api.AppError{
			HttpStatus: http.StatusBadRequest,
			Key:        api.ErrorMissingLogoutToken,
			Message:    LogoutToken + " is required to logout",
		})
	}

	var uat models.UserAccessToken
	tx := models.Tx(c)
	if err := uat.FindByBearerToken(tx, tokenParam); err != nil {
		return reportErrorAndClearSession(c, err)
	}

	authUser, err := uat.GetUser(tx)
	if err != nil {
		return reportErrorAndClearSession(c, &api.AppError{
			HttpStatus: http.StatusInternalServerError,
			Key:        api.ErrorAuthProvidersLogout,
			Message:    err.Error(),
		})
	}

	log.SetUser(c, authUser.ID.String(), authUser.Name(), authUser.Email)

	sp, err := authProvider()
	if err != nil {
		return reportErrorAndClearSession(c, &api.AppError{
			HttpStatus: http.StatusInternalServerError,
			Key:        api.ErrorLoadingAuthProvider,
			Message:    err.Error(),
		})
	}

	if err := uat.DeleteByBearerToken(tx, tokenParam); err != nil {
		return reportErrorAndClearSession(c, err)
	}

	c.Session().Clear()
	if err := c.Session().Save(); err != nil {
		return reportError(c, appErrorFromErr(err))
	}

	return c.Redirect(http.StatusFound, sp.LogoutURL())
}
