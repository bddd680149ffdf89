package api

import (
	"time"

	"github.com/gofrs/uuid"
)

// swagger:model
type Users []User

// app user
// swagger:model
type User struct {
	// unique ID
	//
	// swagger:strfmt uuid4
	ID uuid.UUID `json:"id"`

	// email address
	Email string `json:"email"`

	// first name
	FirstName string `json:"first_name"`

	// last name
	LastName string `json:"last_name"`

	// full name
	Name string `json:"name"`

	// roles in the application ('admin', 'foreman', 'project_manager', 'office_staff')
	Roles []string `json:"roles"`

	// last login date and time (UTC)
	LastLoginUTC time.Time `json:"last_login_utc"`
}
