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

// TripRepo queries always carry the owner's user id, so one user can never
// read or mutate another user's trips.
type TripRepo interface {
	CreateTrip(ctx context.Context, trip *Trip) (*Trip, error)
	FindTripByID(ctx context.Context, id, ownerID primitive.ObjectID) (*Trip, error)
	ListTripsByUser(ctx context.Context, ownerID primitive.ObjectID) ([]*Trip, error)
	UpdateTrip(ctx context.Context, id, ownerID primitive.ObjectID, fields bson.M) (*Trip, error)
	DeleteTrip(ctx context.Context, id, ownerID primitive.ObjectID) error
}

func (mdb *MongodbRepo) CreateTrip(ctx context.Context, trip *Trip) (*Trip, error) {
	res, err := mdb.Collection(TripsCollection).InsertOne(ctx, trip)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, ErrDuplicateReference
		}
		return nil, fmt.Errorf("error creating trip: %v", err)
	}
	if oid, ok := res.InsertedID.(primitive.ObjectID); ok {
		trip.ID = oid
	}
	return trip, nil
}

func (mdb *MongodbRepo) FindTripByID(ctx context.Context, id, ownerID primitive.ObjectID) (*Trip, error) {
	var trip Trip
	err := mdb.Collection(TripsCollection).FindOne(ctx, bson.M{"_id": id, "user_id": ownerID}).Decode(&trip)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("error finding trip: %v", err)
	}
	return &trip, nil
}

func (mdb *MongodbRepo) ListTripsByUser(ctx context.Context, ownerID primitive.ObjectID) ([]*Trip, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	cursor, err := mdb.Collection(TripsCollection).Find(ctx, bson.M{"user_id": ownerID}, opts)
	if err != nil {
		return nil, fmt.Errorf("error listing trips: %v", err)
	}
	defer cursor.Close(ctx)

	trips := make([]*Trip, 0)
	for cursor.Next(ctx) {
		var t Trip
		if err := cursor.Decode(&t); err != nil {
			return nil, fmt.Errorf("error decoding trip: %v", err)
		}
		trips = append(trips, &t)
	}
	if err := cursor.Err(); err != nil {
		return nil, fmt.Errorf("cursor error: %v", err)
	}
	return trips, nil
}

func (mdb *MongodbRepo) UpdateTrip(ctx context.Context, id, ownerID primitive.ObjectID, fields bson.M) (*Trip, error) {
	fields["updated_at"] = time.Now()

	var updated Trip
	err := mdb.Collection(TripsCollection).FindOneAndUpdate(
		ctx,
		bson.M{"_id": id, "user_id": ownerID},
		bson.M{"$set": fields},
		findAfterUpdate(),
	).Decode(&updated)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("error updating trip: %v", err)
	}
	return &updated, nil
}

func (mdb *MongodbRepo) DeleteTrip(ctx context.Context, id, ownerID primitive.ObjectID) error {
	res, err := mdb.Collection(TripsCollection).DeleteOne(ctx, bson.M{"_id": id, "user_id": ownerID})
	if err != nil {
		return fmt.Errorf("error deleting trip: %v", err)
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}
