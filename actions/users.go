package actions

import (
	"github.com/gobuffalo/buffalo"

	"github.com/treconstruction/changeorderino-api/domain"
	"github.com/treconstruction/changeorderino-api/models"
)

// swagger:operation GET /users Users UsersList
//
// UsersList
//
// list all users, admin only
//
// ---
// responses:
//   '200':
//     description: all users
//     schema:
//       type: array
//       items:
//         "$ref": "#/definitions/User"
func usersList(c buffalo.Context) error {
	tx := models.Tx(c)
	var users models.Users
	if err := tx.Order("last_name asc, first_name asc").All(&users); err != nil {
		return reportError(c, err)
	}

	return renderOk(c, users.ConvertToAPI())
}

// swagger:operation GET /users/{id} Users UsersView
//
// UsersView
//
// view one user
//
// ---
// parameters:
// - name: id
//   in: path
//   required: true
//   description: user ID
// responses:
//   '200':
//     description: a User
//     schema:
//       "$ref": "#/definitions/User"
func usersView(c buffalo.Context) error {
	user := getReferencedUserFromCtx(c)
	return renderOk(c, user.ConvertToAPI())
}

// swagger:operation GET /users/me Users UsersMe
//
// UsersMe
//
// view the authenticated user
//
// ---
// responses:
//   '200':
//     description: the current User
//     schema:
//       "$ref": "#/definitions/User"
func usersMe(c buffalo.Context) error {
	user := models.CurrentUser(c)
	return renderOk(c, user.ConvertToAPI())
}

func getReferencedUserFromCtx(c buffalo.Context) *models.User {
	user, ok := c.Value(domain.TypeUser).(*models.User)
	if !ok {
		panic("user not found in context")
	}
	return user
}
