package model

import "time"

const (
	DecoratorPending  = "pending"
	DecoratorAccepted = "accepted"
)

// Decorator is a workforce profile created by an application and accepted
// (or not) by an admin. Task counters track assignment workload.
type Decorator struct {
	ID              string    `json:"id,omitempty" bson:"_id,omitempty" validate:"omitempty,mongodb"`
	Name            string    `json:"name" bson:"name" validate:"required,min=2,max=100"`
	Email           string    `json:"email" bson:"email" validate:"required,email"`
	Phone           string    `json:"phone" bson:"phone" validate:"required"`
	Location        string    `json:"location" bson:"location" validate:"required,min=2,max=200"`
	Specialty       string    `json:"specialty" bson:"specialty" validate:"required,min=2,max=100"`
	ExperienceYears int       `json:"experience_years" bson:"experience_years" validate:"omitempty,min=0,max=60"`
	Rating          float64   `json:"rating" bson:"rating" validate:"omitempty,min=0,max=5"`
	Status          string    `json:"status" bson:"status" validate:"omitempty,oneof=pending accepted"`
	TaskCompleted   int       `json:"task_completed" bson:"task_completed" validate:"omitempty,min=0"`
	TaskPending     int       `json:"task_pending" bson:"task_pending" validate:"omitempty,min=0"`
	CreatedAt       time.Time `json:"created_at" bson:"created_at" validate:"omitempty"`
}

// PublicDecorator is the projection served to unauthenticated visitors.
// Contact details stay private.
type PublicDecorator struct {
	ID              string  `json:"id" bson:"_id"`
	Name            string  `json:"name" bson:"name"`
	Location        string  `json:"location" bson:"location"`
	Specialty       string  `json:"specialty" bson:"specialty"`
	ExperienceYears int     `json:"experience_years" bson:"experience_years"`
	Rating          float64 `json:"rating" bson:"rating"`
	TaskCompleted   int     `json:"task_completed" bson:"task_completed"`
}

// DecoratorReview sets acceptance status and optionally overrides the
// task counters. Nil counters leave stored values untouched.
type DecoratorReview struct {
	Status        string `json:"status,omitempty" validate:"omitempty,oneof=pending accepted"`
	TaskCompleted *int   `json:"task_completed,omitempty" validate:"omitempty,min=0"`
	TaskPending   *int   `json:"task_pending,omitempty" validate:"omitempty,min=0"`
}

type TaskCounterDelta struct {
	Delta int `json:"delta,omitempty" validate:"omitempty,min=-100,max=100"`
}

type DecoratorFilter struct {
	Status   string
	Location string
}
