package model

import "time"

const (
	RoleClient    = "client"
	RoleDecorator = "decorator"
	RoleAdmin     = "admin"
)

// User maps a verified sign-in email to its marketplace role. Records are
// created on first sign-in with the client role; only admins change roles.
type User struct {
	ID        string    `json:"id,omitempty" bson:"_id,omitempty" validate:"omitempty,mongodb"`
	Email     string    `json:"email" bson:"email" validate:"required,email"`
	Name      string    `json:"name" bson:"name" validate:"required,min=2,max=100"`
	Role      string    `json:"role" bson:"role" validate:"omitempty,oneof=client decorator admin"`
	CreatedAt time.Time `json:"created_at" bson:"created_at" validate:"omitempty"`
}

type RoleUpdate struct {
	Role string `json:"role" validate:"required,oneof=client decorator admin"`
}
