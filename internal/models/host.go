package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

const (
	ExperienceBeginner     = "Beginner"
	ExperienceIntermediate = "Intermediate"
	ExperienceExpert       = "Expert"

	// ServiceAccommodation triggers the property-image requirement in the
	// profile completion gate.
	ServiceAccommodation = "Accommodation"
)

type Host struct {
	ID                 primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	UserID             primitive.ObjectID `bson:"user_id" json:"user_id"`
	Name               string             `bson:"name" json:"name" validate:"required"`
	Location           string             `bson:"location,omitempty" json:"location,omitempty"`
	Rating             float64            `bson:"rating" json:"rating" validate:"gte=0,lte=5"`
	Reviews            int                `bson:"reviews" json:"reviews"`
	Verified           bool               `bson:"verified" json:"verified"`
	Languages          []string           `bson:"languages,omitempty" json:"languages,omitempty"`
	Price              float64            `bson:"price" json:"price"`
	Image              string             `bson:"image,omitempty" json:"image,omitempty"`
	PropertyImage      string             `bson:"property_image,omitempty" json:"property_image,omitempty"`
	Services           []string           `bson:"services,omitempty" json:"services,omitempty"`
	Available          bool               `bson:"available" json:"available"`
	Description        string             `bson:"description,omitempty" json:"description,omitempty"`
	Experience         string             `bson:"experience,omitempty" json:"experience,omitempty" validate:"omitempty,oneof=Beginner Intermediate Expert"`
	ResponseTime       string             `bson:"response_time,omitempty" json:"response_time,omitempty"`
	CancellationPolicy string             `bson:"cancellation_policy,omitempty" json:"cancellation_policy,omitempty"`
	MinStay            int                `bson:"min_stay,omitempty" json:"min_stay,omitempty"`
	MaxGuests          int                `bson:"max_guests,omitempty" json:"max_guests,omitempty"`
	AvailableFrom      string             `bson:"available_from,omitempty" json:"available_from,omitempty"`
	AvailableTo        string             `bson:"available_to,omitempty" json:"available_to,omitempty"`
	CreatedAt          time.Time          `bson:"created_at" json:"created_at"`
	UpdatedAt          time.Time          `bson:"updated_at" json:"updated_at"`
}

// ProfileStatus reports whether a host listing carries everything it needs to
// accept bookings, plus what is still missing.
type ProfileStatus struct {
	Complete             bool     `json:"complete"`
	CompletionPercentage int      `json:"completion_percentage"`
	MissingFields        []string `json:"missing_fields"`
}

// OffersAccommodation reports whether "Accommodation" is among the host's
// services.
func (h *Host) OffersAccommodation() bool {
	for _, s := range h.Services {
		if s == ServiceAccommodation {
			return true
		}
	}
	return false
}
