package model

import "time"

// Service is a catalog listing a client can book.
type Service struct {
	ID           string    `json:"id,omitempty" bson:"_id,omitempty" validate:"omitempty,mongodb"`
	Name         string    `json:"name" bson:"name" validate:"required,min=2,max=100"`
	Category     string    `json:"category" bson:"category" validate:"required,min=2,max=50"`
	Description  string    `json:"description" bson:"description" validate:"required,min=10,max=2000"`
	Cost         float64   `json:"cost" bson:"cost" validate:"required,gt=0"`
	Unit         string    `json:"unit" bson:"unit" validate:"required,min=1,max=30"`
	Rating       float64   `json:"rating" bson:"rating" validate:"omitempty,min=0,max=5"`
	TotalReviews int       `json:"total_reviews" bson:"total_reviews" validate:"omitempty,min=0"`
	CreatedAt    time.Time `json:"created_at" bson:"created_at" validate:"omitempty"`
}

// ServiceFilter carries the optional, independently combinable catalog
// search parameters. A nil/empty field omits that clause entirely.
type ServiceFilter struct {
	Name     string
	Category string
	MinCost  *float64
	MaxCost  *float64
}

// HasCostBound reports whether either cost bound is present, which flips
// the listing sort to cost ascending.
func (f ServiceFilter) HasCostBound() bool {
	return f.MinCost != nil || f.MaxCost != nil
}
