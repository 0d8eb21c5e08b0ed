package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/tripnest/server/internal/helpers"
	"github.com/tripnest/server/internal/models"
)

type TripService struct {
	tripRepo models.TripRepo
}

func NewTripService(tripRepo models.TripRepo) *TripService {
	return &TripService{
		tripRepo: tripRepo,
	}
}

// CreateTrip records a user-planned trip. Trips derived from bookings are
// created by the booking service instead and carry a booking reference.
func (ts *TripService) CreateTrip(ctx context.Context, ownerID primitive.ObjectID, trip *models.Trip) (*models.Trip, error) {
	if err := models.Validate.Struct(trip); err != nil {
		return nil, models.Invalid("invalid trip data: %v", err)
	}

	now := time.Now()
	trip.ID = primitive.NilObjectID
	trip.UserID = ownerID
	trip.BookingRef = primitive.NilObjectID
	trip.CreatedAt = now
	trip.UpdatedAt = now

	for attempt := 0; attempt < refMaxAttempts; attempt++ {
		displayID, err := helpers.GenerateReferenceCode(helpers.TripPrefix)
		if err != nil {
			return nil, err
		}
		trip.DisplayID = displayID
		created, err := ts.tripRepo.CreateTrip(ctx, trip)
		if err != nil {
			if errors.Is(err, models.ErrDuplicateReference) {
				continue
			}
			return nil, err
		}
		return created, nil
	}

	return nil, fmt.Errorf("could not allocate a unique trip reference")
}

func (ts *TripService) GetTrip(ctx context.Context, id, ownerID primitive.ObjectID) (*models.Trip, error) {
	return ts.tripRepo.FindTripByID(ctx, id, ownerID)
}

func (ts *TripService) ListTrips(ctx context.Context, ownerID primitive.ObjectID) ([]*models.Trip, error) {
	return ts.tripRepo.ListTripsByUser(ctx, ownerID)
}

func (ts *TripService) UpdateTrip(ctx context.Context, id, ownerID primitive.ObjectID, fields map[string]interface{}) (*models.Trip, error) {
	// The identifying fields of a trip are not client-updatable.
	delete(fields, "user_id")
	delete(fields, "display_id")
	delete(fields, "booking_ref")
	if len(fields) == 0 {
		return nil, models.Invalid("no fields to update")
	}
	return ts.tripRepo.UpdateTrip(ctx, id, ownerID, bson.M(fields))
}

func (ts *TripService) DeleteTrip(ctx context.Context, id, ownerID primitive.ObjectID) error {
	return ts.tripRepo.DeleteTrip(ctx, id, ownerID)
}
