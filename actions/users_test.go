package actions

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/treconstruction/changeorderino-api/models"
)

func (as *ActionSuite) Test_usersMe() {
	db := as.DB

	f := models.CreateUserFixtures(db, 2)
	user := f.Users[0]

	tests := []struct {
		name       string
		token      string
		wantStatus int
		wantInBody []string
	}{
		{
			name:       "unauthenticated",
			token:      "doesnt-exist",
			wantStatus: http.StatusUnauthorized,
		},
		{
			name:       "authenticated",
			token:      user.Email,
			wantStatus: http.StatusOK,
			wantInBody: []string{
				`{"id":"` + user.ID.String(),
				`"email":"` + user.Email,
				`"first_name":"` + user.FirstName,
				`"last_name":"` + user.LastName,
				`"roles":["` + models.RoleForeman,
			},
		},
	}

	for _, tt := range tests {
		as.T().Run(tt.name, func(t *testing.T) {
			req := as.JSON("/users/me")
			req.Headers["Authorization"] = fmt.Sprintf("Bearer %s", tt.token)

			res := req.Get()

			as.Require().Equal(tt.wantStatus, res.Code, "incorrect status code returned: %d", res.Code)
			if tt.wantStatus != http.StatusOK {
				return
			}

			as.verifyResponseData(tt.wantInBody, res.Body.String(), "Users Me fields")
		})
	}
}

func (as *ActionSuite) Test_authnRenewsTokenLastUsed() {
	db := as.DB

	user := models.CreateUserFixtures(db, 1).Users[0]

	var token models.UserAccessToken
	as.NoError(token.FindByBearerToken(db, user.Email))
	as.False(token.LastUsedAt.Valid, "a fresh token has never been used")

	req := as.JSON("/users/me")
	req.Headers["Authorization"] = fmt.Sprintf("Bearer %s", user.Email)
	res := req.Get()
	as.Require().Equal(http.StatusOK, res.Code, "incorrect status code returned: %d", res.Code)

	as.NoError(token.FindByBearerToken(db, user.Email))
	as.True(token.LastUsedAt.Valid, "the request should stamp the token")
}

func (as *ActionSuite) Test_usersList() {
	db := as.DB

	f := models.CreateUserFixtures(db, 2)
	foreman := f.Users[0]
	admin := models.CreateAdminUserFixture(db)

	tests := []struct {
		name       string
		actor      models.User
		wantStatus int
	}{
		{
			name:       "foreman may not list users",
			actor:      foreman,
			wantStatus: http.StatusNotFound,
		},
		{
			name:       "admin may list users",
			actor:      admin,
			wantStatus: http.StatusOK,
		},
	}

	for _, tt := range tests {
		as.T().Run(tt.name, func(t *testing.T) {
			req := as.JSON("/users")
			req.Headers["Authorization"] = fmt.Sprintf("Bearer %s", tt.actor.Email)

			res := req.Get()

			as.Require().Equal(tt.wantStatus, res.Code, "incorrect status code returned: %d", res.Code)
			if tt.wantStatus != http.StatusOK {
				return
			}

			body := res.Body.String()
			as.Contains(body, foreman.ID.String(), "user list is missing a user")
			as.Contains(body, admin.ID.String(), "user list is missing the admin")
		})
	}
}

func (as *ActionSuite) Test_usersView() {
	db := as.DB

	f := models.CreateUserFixtures(db, 2)
	self := f.Users[0]
	other := f.Users[1]
	admin := models.CreateAdminUserFixture(db)

	tests := []struct {
		name       string
		actor      models.User
		viewed     models.User
		wantStatus int
	}{
		{
			name:       "user views self",
			actor:      self,
			viewed:     self,
			wantStatus: http.StatusOK,
		},
		{
			name:       "user may not view another",
			actor:      self,
			viewed:     other,
			wantStatus: http.StatusNotFound,
		},
		{
			name:       "admin views anyone",
			actor:      admin,
			viewed:     other,
			wantStatus: http.StatusOK,
		},
	}

	for _, tt := range tests {
		as.T().Run(tt.name, func(t *testing.T) {
			req := as.JSON("/users/%s", tt.viewed.ID)
			req.Headers["Authorization"] = fmt.Sprintf("Bearer %s", tt.actor.Email)

			res := req.Get()

			as.Require().Equal(tt.wantStatus, res.Code, "incorrect status code returned: %d", res.Code)
			if tt.wantStatus != http.StatusOK {
				return
			}
			as.Contains(res.Body.String(), tt.viewed.Email, "viewed user is missing from the response")
		})
	}
}
