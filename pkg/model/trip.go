package model

import "time"

// Trip is a scheduled outing. Trips are owned by the scheduling side of
// the system and are read-only to the booking core.
type Trip struct {
	ID          string    `json:"id,omitempty" bson:"_id,omitempty" validate:"omitempty,mongodb"`
	Name        string    `json:"name" bson:"name" validate:"required,min=2,max=100"`
	Description string    `json:"description,omitempty" bson:"description,omitempty" validate:"omitempty,max=1000"`
	Date        time.Time `json:"date" bson:"date" validate:"required"`
	DurationMin int       `json:"duration_min" bson:"duration_min" validate:"omitempty,min=1"`
	Capacity    int       `json:"capacity" bson:"capacity" validate:"required,min=1,max=200"`
	Price       float64   `json:"price" bson:"price" validate:"required,gt=0"`
	Location    string    `json:"location,omitempty" bson:"location,omitempty"`
	Status      string    `json:"status" bson:"status"`
}
