package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Trip is the denormalized "My Trips" record. Trips derived from a booking
// carry the booking's ObjectID in BookingRef and are read-only projections;
// user-planned trips have no BookingRef.
type Trip struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	DisplayID   string             `bson:"display_id" json:"display_id"`
	UserID      primitive.ObjectID `bson:"user_id" json:"user_id"`
	BookingRef  primitive.ObjectID `bson:"booking_ref,omitempty" json:"booking_ref,omitempty"`
	Title       string             `bson:"title" json:"title" validate:"required"`
	Destination string             `bson:"destination,omitempty" json:"destination,omitempty"`
	StartDate   string             `bson:"start_date,omitempty" json:"start_date,omitempty"`
	EndDate     string             `bson:"end_date,omitempty" json:"end_date,omitempty"`
	Travelers   int                `bson:"travelers,omitempty" json:"travelers,omitempty"`
	TotalCost   float64            `bson:"total_cost,omitempty" json:"total_cost,omitempty"`
	Status      string             `bson:"status,omitempty" json:"status,omitempty"`
	Notes       string             `bson:"notes,omitempty" json:"notes,omitempty"`
	CreatedAt   time.Time          `bson:"created_at" json:"created_at"`
	UpdatedAt   time.Time          `bson:"updated_at" json:"updated_at"`
}
