package models

import "time"

// Role is the closed set of user roles. Authorization checkpoints must
// switch exhaustively over these values; free-text comparison is not allowed.
type Role string

const (
	RoleSuperAdmin Role = "super_admin"
	RolePumpAdmin  Role = "pump_admin"
	RoleUser       Role = "user"
)

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	switch r {
	case RoleSuperAdmin, RolePumpAdmin, RoleUser:
		return true
	}
	return false
}

// User is a registered account (driver or admin).
type User struct {
	ID             string    `bson:"id" json:"id"`
	Email          string    `bson:"email" json:"email"`
	HashedPassword string    `bson:"hashed_password" json:"-"`
	FullName       string    `bson:"full_name,omitempty" json:"full_name,omitempty"`
	Phone          string    `bson:"phone,omitempty" json:"phone,omitempty"`
	VehicleNumber  string    `bson:"vehicle_number,omitempty" json:"vehicle_number,omitempty"`
	FCMToken       string    `bson:"fcm_token,omitempty" json:"-"`
	Role           Role      `bson:"role" json:"role"`
	CreatedAt      time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt      time.Time `bson:"updated_at" json:"updated_at"`
}
