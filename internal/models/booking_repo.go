package models

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type BookingRepo interface {
	CreateBookingWithTrip(ctx context.Context, booking *Booking, trip *Trip) (*Booking, error)
	FindBookingByID(ctx context.Context, id primitive.ObjectID) (*Booking, error)
	ListBookingsByUser(ctx context.Context, userID primitive.ObjectID) ([]*Booking, error)
	ListBookingsByHosts(ctx context.Context, hostIDs []primitive.ObjectID) ([]*Booking, error)
	UpdateBookingStatus(ctx context.Context, id primitive.ObjectID, fromStatuses []string, set bson.M) (*Booking, error)
	MarkBookingPaid(ctx context.Context, id primitive.ObjectID, method string) (*Booking, error)
}

// CreateBookingWithTrip inserts the booking and its derived trip projection in
// a single session transaction, so a crash cannot leave a booking without its
// trip or vice versa.
func (mdb *MongodbRepo) CreateBookingWithTrip(ctx context.Context, booking *Booking, trip *Trip) (*Booking, error) {
	session, err := mdb.client.StartSession()
	if err != nil {
		return nil, fmt.Errorf("error starting session: %v", err)
	}
	defer session.EndSession(ctx)

	_, err = session.WithTransaction(ctx, func(sc mongo.SessionContext) (interface{}, error) {
		res, err := mdb.Collection(BookingsCollection).InsertOne(sc, booking)
		if err != nil {
			if mongo.IsDuplicateKeyError(err) {
				return nil, ErrDuplicateReference
			}
			return nil, fmt.Errorf("error inserting booking: %v", err)
		}
		oid, ok := res.InsertedID.(primitive.ObjectID)
		if !ok {
			return nil, fmt.Errorf("unexpected inserted id type %T", res.InsertedID)
		}
		booking.ID = oid

		if trip != nil {
			trip.BookingRef = oid
			tripRes, err := mdb.Collection(TripsCollection).InsertOne(sc, trip)
			if err != nil {
				if mongo.IsDuplicateKeyError(err) {
					return nil, ErrDuplicateReference
				}
				return nil, fmt.Errorf("error inserting derived trip: %v", err)
			}
			if tripOid, ok := tripRes.InsertedID.(primitive.ObjectID); ok {
				trip.ID = tripOid
			}
		}
		return nil, nil
	})
	if err != nil {
		booking.ID = primitive.NilObjectID
		return nil, err
	}

	return booking, nil
}

func (mdb *MongodbRepo) FindBookingByID(ctx context.Context, id primitive.ObjectID) (*Booking, error) {
	var booking Booking
	err := mdb.Collection(BookingsCollection).FindOne(ctx, bson.M{"_id": id}).Decode(&booking)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("error finding booking: %v", err)
	}
	return &booking, nil
}

func (mdb *MongodbRepo) ListBookingsByUser(ctx context.Context, userID primitive.ObjectID) ([]*Booking, error) {
	return mdb.findBookings(ctx, bson.M{"user_id": userID})
}

func (mdb *MongodbRepo) ListBookingsByHosts(ctx context.Context, hostIDs []primitive.ObjectID) ([]*Booking, error) {
	if len(hostIDs) == 0 {
		return []*Booking{}, nil
	}
	return mdb.findBookings(ctx, bson.M{"host_id": bson.M{"$in": hostIDs}})
}

func (mdb *MongodbRepo) findBookings(ctx context.Context, filter bson.M) ([]*Booking, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	cursor, err := mdb.Collection(BookingsCollection).Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("error finding bookings: %v", err)
	}
	defer cursor.Close(ctx)

	bookings := make([]*Booking, 0)
	for cursor.Next(ctx) {
		var b Booking
		if err := cursor.Decode(&b); err != nil {
			return nil, fmt.Errorf("error decoding booking: %v", err)
		}
		bookings = append(bookings, &b)
	}
	if err := cursor.Err(); err != nil {
		return nil, fmt.Errorf("cursor error: %v", err)
	}
	return bookings, nil
}

// UpdateBookingStatus performs a conditional update: the document must still
// be in one of fromStatuses, which makes state transitions atomic under
// concurrent requests.
func (mdb *MongodbRepo) UpdateBookingStatus(ctx context.Context, id primitive.ObjectID, fromStatuses []string, set bson.M) (*Booking, error) {
	set["updated_at"] = time.Now()

	filter := bson.M{
		"_id":    id,
		"status": bson.M{"$in": fromStatuses},
	}

	var updated Booking
	err := mdb.Collection(BookingsCollection).FindOneAndUpdate(
		ctx,
		filter,
		bson.M{"$set": set},
		findAfterUpdate(),
	).Decode(&updated)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrInvalidTransition
		}
		return nil, fmt.Errorf("error updating booking status: %v", err)
	}
	return &updated, nil
}

// MarkBookingPaid captures payment in one conditional write: the booking must
// still be confirmed with payment pending, and moves to completed/paid.
func (mdb *MongodbRepo) MarkBookingPaid(ctx context.Context, id primitive.ObjectID, method string) (*Booking, error) {
	filter := bson.M{
		"_id":            id,
		"status":         BookingStatusConfirmed,
		"payment_status": PaymentStatusPending,
	}
	set := bson.M{
		"status":         BookingStatusCompleted,
		"payment_status": PaymentStatusPaid,
		"payment_method": method,
		"updated_at":     time.Now(),
	}

	var updated Booking
	err := mdb.Collection(BookingsCollection).FindOneAndUpdate(
		ctx,
		filter,
		bson.M{"$set": set},
		findAfterUpdate(),
	).Decode(&updated)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrPaymentNotAllowed
		}
		return nil, fmt.Errorf("error capturing payment: %v", err)
	}
	return &updated, nil
}
