package model

import "time"

// Booking workflow statuses. Beyond the implicit unassigned state the
// allow-list is flat: any listed status may be set from any other
// non-terminal one, Completed is terminal.
const (
	StatusAssigned  = "Assigned"
	StatusPlanning  = "Planning"
	StatusEquipping = "Equipping"
	StatusOnWay     = "On Way"
	StatusSettingUp = "Setting up"
	StatusCompleted = "Completed"
)

// AllowedStatuses is the fixed transition allow-list for decorator status
// updates, in workflow order by convention only.
var AllowedStatuses = []string{
	StatusAssigned,
	StatusPlanning,
	StatusEquipping,
	StatusOnWay,
	StatusSettingUp,
	StatusCompleted,
}

func IsAllowedStatus(status string) bool {
	for _, s := range AllowedStatuses {
		if s == status {
			return true
		}
	}
	return false
}

type Booking struct {
	ID              string     `json:"id,omitempty" bson:"_id,omitempty" validate:"omitempty,mongodb"`
	ClientEmail     string     `json:"client_email" bson:"client_email" validate:"required,email"`
	ServiceName     string     `json:"service_name" bson:"service_name" validate:"required,min=2,max=100"`
	Contact         string     `json:"contact" bson:"contact" validate:"required"`
	Location        string     `json:"location" bson:"location" validate:"required,min=2,max=200"`
	Unit            int        `json:"unit" bson:"unit" validate:"required,min=1,max=1000"`
	BookingDate     time.Time  `json:"booking_date" bson:"booking_date" validate:"required"`
	TotalCost       float64    `json:"total_cost" bson:"total_cost" validate:"required,gt=0"`
	Assigned        bool       `json:"assigned" bson:"assigned"`
	AssignTo        string     `json:"assign_to,omitempty" bson:"assign_to,omitempty" validate:"omitempty,mongodb"`
	Status          string     `json:"status,omitempty" bson:"status,omitempty" validate:"omitempty,booking_status"`
	StatusUpdatedAt time.Time  `json:"status_updated_at,omitempty" bson:"status_updated_at,omitempty"`
	CompletedAt     *time.Time `json:"completed_at,omitempty" bson:"completed_at,omitempty"`
	Paid            bool       `json:"paid" bson:"paid"`
	CreatedAt       time.Time  `json:"created_at" bson:"created_at" validate:"omitempty"`
}

// BookingInfoUpdate is the client-editable detail set. All fields are
// optional; the booking must not be assigned yet.
type BookingInfoUpdate struct {
	Contact     string     `json:"contact,omitempty" validate:"omitempty"`
	Location    string     `json:"location,omitempty" validate:"omitempty,min=2,max=200"`
	Unit        *int       `json:"unit,omitempty" validate:"omitempty,min=1,max=1000"`
	BookingDate *time.Time `json:"booking_date,omitempty" validate:"omitempty"`
	TotalCost   *float64   `json:"total_cost,omitempty" validate:"omitempty,gt=0"`
}

type BookingAssignment struct {
	DecoratorID string `json:"decorator_id" validate:"required,mongodb"`
}

type BookingStatusUpdate struct {
	Status string `json:"status" validate:"required,booking_status"`
}

// BookingFilter drives the admin listing: both booleans are optional and
// omitted from the query when nil.
type BookingFilter struct {
	Assigned *bool
	Paid     *bool
}
