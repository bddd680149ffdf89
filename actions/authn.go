package actions

import (
	"errors"
	"fmt"

	"github.com/gobuffalo/buffalo"

	"github.com/treconstruction/changeorderino-api/api"
	"github.com/treconstruction/changeorderino-api/domain"
	"github.com/treconstruction/changeorderino-api/log"
	"github.com/treconstruction/changeorderino-api/models"
)

// AuthN authenticates the request by its bearer token and puts the user on
// the context.
func AuthN(next buffalo.Handler) buffalo.Handler {
	return func(c buffalo.Context) error {
		bearerToken := domain.GetBearerTokenFromRequest(c.Request())
		if bearerToken == "" {
			err := errors.New("no bearer token provided")
			return reportError(c, api.NewAppError(err, api.ErrorNotAuthorized, api.CategoryUnauthorized))
		}

		var userAccessToken models.UserAccessToken
		tx := models.Tx(c)
		if err := userAccessToken.FindByBearerToken(tx, bearerToken); err != nil {
			var appErr *api.AppError
			if errors.As(err, &appErr) && appErr.Category == api.CategoryDatabase {
				return reportError(c, appErr)
			}
			err = errors.New("invalid bearer token")
			return reportError(c, api.NewAppError(err, api.ErrorNotAuthorized, api.CategoryUnauthorized))
		}

		isExpired, err := userAccessToken.DeleteIfExpired(tx)
		if err != nil {
			return reportError(c, err)
		}

		if isExpired {
			err = errors.New("expired bearer token")
			return reportError(c, api.NewAppError(err, api.ErrorNotAuthorized, api.CategoryUnauthorized))
		}

		if err := userAccessToken.RenewLastUsed(tx); err != nil {
			return reportError(c, err)
		}

		user, err := userAccessToken.GetUser(tx)
		if err != nil {
			err = fmt.Errorf("error finding user by access token, %s", err.Error())
			return reportError(c, err)
		}
		c.Set(domain.ContextKeyCurrentUser, user)

		log.SetUser(c, user.ID.String(), user.Name(), user.Email)
		newExtra(c, "user_id", user.ID)
		newExtra(c, "email", user.Email)
		newExtra(c, "ip", c.Request().RemoteAddr)

		return next(c)
	}
}
