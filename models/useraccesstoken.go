package models

import (
	"crypto/sha256"
	"fmt"
	"time"

	"github.com/gobuffalo/nulls"
	"github.com/gobuffalo/pop/v6"
	"github.com/gobuffalo/validate/v3"
	"github.com/gofrs/uuid"

	"github.com/treconstruction/changeorderino-api/api"
	"github.com/treconstruction/changeorderino-api/domain"
)

// UserAccessToken is a bearer token for API authentication. Only a sha256
// hash of the token is stored.
type UserAccessToken struct {
	ID         uuid.UUID  `db:"id"`
	UserID     uuid.UUID  `db:"user_id" validate:"required"`
	TokenHash  string     `db:"token_hash" validate:"required"`
	ExpiresAt  time.Time  `db:"expires_at" validate:"required"`
	LastUsedAt nulls.Time `db:"last_used_at"`
	CreatedAt  time.Time  `db:"created_at"`
	UpdatedAt  time.Time  `db:"updated_at"`

	User User `belongs_to:"users" validate:"-"`

	// the plaintext token, only populated at creation time, never stored
	AccessToken string `db:"-"`
}

type UserAccessTokens []UserAccessToken

func (u *UserAccessToken) Validate(tx *pop.Connection) (*validate.Errors, error) {
	return validateModel(u), nil
}

func (u *UserAccessToken) Create(tx *pop.Connection) error {
	return create(tx, u)
}

func (u *UserAccessToken) Update(tx *pop.Connection) error {
	return update(tx, u)
}

// HashAccessToken returns a sha256 hash of the given token string
func HashAccessToken(token string) string {
	return fmt.Sprintf("%x", sha256.Sum256([]byte(token)))
}

func createAccessTokenForUser(tx *pop.Connection, user User) (UserAccessToken, error) {
	token, err := getRandomToken()
	if err != nil {
		return UserAccessToken{}, err
	}

	uat := UserAccessToken{
		UserID:    user.ID,
		TokenHash: HashAccessToken(token),
		ExpiresAt: time.Now().UTC().Add(time.Second * time.Duration(domain.Env.AccessTokenLifetimeSeconds)),
	}
	if err := uat.Create(tx); err != nil {
		return uat, err
	}

	uat.AccessToken = token
	return uat, nil
}

// FindByBearerToken hashes the presented token and looks it up
func (u *UserAccessToken) FindByBearerToken(tx *pop.Connection, bearerToken string) error {
	if err := tx.Where("token_hash = ?", HashAccessToken(bearerToken)).First(u); err != nil {
		return api.NewAppError(err, api.ErrorFindingAccessToken, api.CategoryUnauthorized)
	}
	return nil
}

// DeleteIfExpired destroys the token and returns true if it is past its expiration
func (u *UserAccessToken) DeleteIfExpired(tx *pop.Connection) (bool, error) {
	if u.ExpiresAt.After(time.Now().UTC()) {
		return false, nil
	}

	if err := destroy(tx, u); err != nil {
		return true, fmt.Errorf("unable to delete expired access token, id: %s, %w", u.ID, err)
	}
	return true, nil
}

// DeleteByBearerToken removes the token record matching the presented token
func (u *UserAccessToken) DeleteByBearerToken(tx *pop.Connection, bearerToken string) error {
	if err := u.FindByBearerToken(tx, bearerToken); err != nil {
		return err
	}
	if err := destroy(tx, u); err != nil {
		return api.NewAppError(err, api.ErrorDeletingAccessToken, api.CategoryInternal)
	}
	return nil
}

// GetUser loads the user this token belongs to
func (u *UserAccessToken) GetUser(tx *pop.Connection) (User, error) {
	if err := tx.Load(u, "User"); err != nil {
		return User{}, fmt.Errorf("error loading user for access token: %w", err)
	}
	return u.User, nil
}

// RenewLastUsed stamps the token with the current time
func (u *UserAccessToken) RenewLastUsed(tx *pop.Connection) error {
	u.LastUsedAt = nulls.NewTime(time.Now().UTC())
	return u.Update(tx)
}
