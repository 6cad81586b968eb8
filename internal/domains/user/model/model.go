package model

import "plek/shared/model"

const (
	TableName  = "users"
	EntityName = "user"

	FieldID           = "id"
	FieldEmail        = "email"
	FieldPassword     = "password"
	FieldGoogleID     = "google_id"
	FieldFirstName    = "first_name"
	FieldLastName     = "last_name"
	FieldProfileImage = "profile_image"
	FieldIsVerified   = "is_verified"
	FieldLastLogin    = "last_login"
	FieldActive       = "active"

	RoleTable            = "user_roles"
	ManagedBuildingTable = "coordinator_buildings"
	ManagedFloorTable    = "coordinator_floors"
	ManagedDeptTable     = "coordinator_departments"
)

type User struct {
	ID           string  `db:"id"`
	Email        string  `db:"email"`
	Password     string  `db:"password"`
	GoogleID     *string `db:"google_id"`
	FirstName    string  `db:"first_name"`
	LastName     string  `db:"last_name"`
	ProfileImage *string `db:"profile_image"`
	IsVerified   bool    `db:"is_verified"`
	LastLogin    *string `db:"last_login"`
	Active       bool    `db:"active"`
	model.Metadata
}

func (u User) FullName() string {
	if u.LastName == "" {
		return u.FirstName
	}

	return u.FirstName + " " + u.LastName
}

// UserRole is one row of the role join table. Roles are additive tags; a
// user may hold several at once.
type UserRole struct {
	UserID string `db:"user_id"`
	Role   string `db:"role"`
}

// Assignment is one management grant linking a coordinator to a building,
// floor, or department. Table decides the kind.
type Assignment struct {
	UserID   string `db:"user_id"`
	TargetID string `db:"target_id"`
}
