package models

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gobuffalo/events"
	"github.com/gobuffalo/pop/v6"
	"github.com/gobuffalo/pop/v6/slices"
	"github.com/gobuffalo/validate/v3"
	"github.com/gofrs/uuid"
	"github.com/pkg/errors"

	"github.com/treconstruction/changeorderino-api/api"
	"github.com/treconstruction/changeorderino-api/auth"
	"github.com/treconstruction/changeorderino-api/domain"
	"github.com/treconstruction/changeorderino-api/log"
)

// Application roles, assigned in Keycloak and mirrored here on login
const (
	RoleAdmin          = "admin"
	RoleForeman        = "foreman"
	RoleProjectManager = "project_manager"
	RoleOfficeStaff    = "office_staff"

	// role name still present in older identity records
	roleLegacyViewer = "viewer"
)

// DefaultRole is assigned when the identity provider supplies no recognized role
const DefaultRole = RoleForeman

var validRoles = map[string]struct{}{
	RoleAdmin:          {},
	RoleForeman:        {},
	RoleProjectManager: {},
	RoleOfficeStaff:    {},
}

// User is an authenticated person, sourced from Keycloak
type User struct {
	ID           uuid.UUID     `db:"id"`
	Email        string        `db:"email" validate:"required,email"`
	FirstName    string        `db:"first_name"`
	LastName     string        `db:"last_name"`
	SubjectID    string        `db:"subject_id"`
	Roles        slices.String `db:"roles"`
	LastLoginUTC time.Time     `db:"last_login_utc"`
	CreatedAt    time.Time     `db:"created_at"`
	UpdatedAt    time.Time     `db:"updated_at"`
}

type Users []User

func (u *User) Validate(tx *pop.Connection) (*validate.Errors, error) {
	return validateModel(u), nil
}

// Create stores the User data as a new record in the database.
func (u *User) Create(tx *pop.Connection) error {
	if err := create(tx, u); err != nil {
		return err
	}

	e := events.Event{
		Kind:    domain.EventApiUserCreated,
		Message: fmt.Sprintf("Username: %s  Email: %s", u.Name(), u.Email),
		Payload: events.Payload{domain.EventPayloadID: u.ID},
	}
	emitEvent(e)

	return nil
}

// Update writes the User data to an existing database record.
func (u *User) Update(tx *pop.Connection) error {
	return update(tx, u)
}

func (u *User) GetID() uuid.UUID {
	return u.ID
}

func (u *User) FindByID(tx *pop.Connection, id uuid.UUID) error {
	return find(tx, u, id)
}

func (u *User) FindByEmail(tx *pop.Connection, email string) error {
	err := tx.Where("email = ?", email).First(u)
	return appErrorFromDB(err, api.ErrorQueryFailure)
}

func (u *User) FindBySubjectID(tx *pop.Connection, subjectID string) error {
	err := tx.Where("subject_id = ?", subjectID).First(u)
	return appErrorFromDB(err, api.ErrorQueryFailure)
}

// IsActorAllowedTo gates actions on user records: admins may do anything,
// everyone else may only view themselves.
func (u *User) IsActorAllowedTo(tx *pop.Connection, actor User, p Permission, sub SubResource, r *http.Request) bool {
	if actor.IsAdmin() {
		return true
	}

	switch p {
	case PermissionView, PermissionUpdate:
		return actor.ID == u.ID
	}
	return false
}

func (u *User) Name() string {
	return strings.TrimSpace(strings.TrimSpace(u.FirstName) + " " + strings.TrimSpace(u.LastName))
}

func (u *User) IsAdmin() bool {
	return u.HasRole(RoleAdmin)
}

// HasRole reports whether the user carries the given role
func (u *User) HasRole(role string) bool {
	return domain.IsStringInSlice(role, u.Roles)
}

// IsAuthorized implements the access rule used across the app: the user must
// hold at least one of the required roles. A user with no stored roles is
// never authorized. An empty requirement list only demands authentication.
func (u *User) IsAuthorized(required []string) bool {
	if len(required) == 0 {
		return true
	}
	if len(u.Roles) == 0 {
		return false
	}

	for _, role := range u.Roles {
		if domain.IsStringInSlice(role, required) {
			return true
		}
	}
	return false
}

// NormalizeRoles filters raw role strings from the identity provider down to
// the roles this app knows. The legacy viewer role maps to office_staff.
// Anything else is dropped and logged so a misconfigured realm gets noticed.
func NormalizeRoles(raw []string) []string {
	var roles []string
	var dropped []string

	for _, r := range raw {
		r = strings.ToLower(strings.TrimSpace(r))
		if r == roleLegacyViewer {
			r = RoleOfficeStaff
		}
		if _, ok := validRoles[r]; !ok {
			dropped = append(dropped, r)
			continue
		}
		if !domain.IsStringInSlice(r, roles) {
			roles = append(roles, r)
		}
	}

	if len(dropped) > 0 {
		log.WithFields(map[string]any{"dropped_roles": dropped}).
			Warningf("dropped %d unrecognized role(s) from identity provider", len(dropped))
	}

	return roles
}

// FindOrCreateFromAuthUser syncs a Keycloak login into the local users table.
// Names and roles follow the identity provider on every login.
func (u *User) FindOrCreateFromAuthUser(tx *pop.Connection, authUser *auth.User) error {
	err := tx.Where("subject_id = ? or email = ?", authUser.SubjectID, authUser.Email).First(u)
	if domain.IsOtherThanNoRows(err) {
		return appErrorFromDB(err, api.ErrorQueryFailure)
	}

	roles := NormalizeRoles(authUser.Roles)
	if len(roles) == 0 {
		roles = []string{DefaultRole}
	}

	isNew := u.ID == uuid.Nil

	u.Email = authUser.Email
	u.FirstName = authUser.FirstName
	u.LastName = authUser.LastName
	u.SubjectID = authUser.SubjectID
	u.Roles = roles
	u.LastLoginUTC = time.Now().UTC()

	if isNew {
		return u.Create(tx)
	}
	return u.Update(tx)
}

// CreateAccessToken generates a new bearer token for the user
func (u *User) CreateAccessToken(tx *pop.Connection) (UserAccessToken, error) {
	if u.ID == uuid.Nil {
		return UserAccessToken{}, errors.New("cannot create token for unsaved user")
	}

	uat, err := createAccessTokenForUser(tx, *u)
	if err != nil {
		return uat, errors.Wrap(err, "error creating access token")
	}
	return uat, nil
}

// FindAdmins loads all users with the admin role, for internal notifications
func (us *Users) FindAdmins(tx *pop.Connection) error {
	err := tx.Where("? = ANY(roles)", RoleAdmin).All(us)
	return appErrorFromDB(err, api.ErrorQueryFailure)
}

func (u *User) ConvertToAPI() api.User {
	return api.User{
		ID:           u.ID,
		Email:        u.Email,
		FirstName:    u.FirstName,
		LastName:     u.LastName,
		Name:         u.Name(),
		Roles:        u.Roles,
		LastLoginUTC: u.LastLoginUTC,
	}
}

func (us *Users) ConvertToAPI() api.Users {
	users := make(api.Users, len(*us))
	for i, u := range *us {
		users[i] = u.ConvertToAPI()
	}
	return users
}

func (u User) String() string {
	ju, _ := json.Marshal(u)
	return string(ju)
}
