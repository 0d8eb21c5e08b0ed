package models

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type TransportationRepo interface {
	CreateTransportation(ctx context.Context, t *Transportation) (*Transportation, error)
	FindTransportationByID(ctx context.Context, id primitive.ObjectID) (*Transportation, error)
	ListTransportations(ctx context.Context, filter bson.M, offset, limit int) ([]*Transportation, int, error)
}

func (mdb *MongodbRepo) CreateTransportation(ctx context.Context, t *Transportation) (*Transportation, error) {
	res, err := mdb.Collection(TransportationsCollection).InsertOne(ctx, t)
	if err != nil {
		return nil, fmt.Errorf("error creating transportation: %v", err)
	}
	if oid, ok := res.InsertedID.(primitive.ObjectID); ok {
		t.ID = oid
	}
	return t, nil
}

func (mdb *MongodbRepo) FindTransportationByID(ctx context.Context, id primitive.ObjectID) (*Transportation, error) {
	var t Transportation
	err := mdb.Collection(TransportationsCollection).FindOne(ctx, bson.M{"_id": id}).Decode(&t)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("error finding transportation: %v", err)
	}
	return &t, nil
}

func (mdb *MongodbRepo) ListTransportations(ctx context.Context, filter bson.M, offset, limit int) ([]*Transportation, int, error) {
	col := mdb.Collection(TransportationsCollection)

	total, err := col.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, fmt.Errorf("error counting transportations: %v", err)
	}

	opts := options.Find().
		SetSkip(int64(offset)).
		SetLimit(int64(limit)).
		SetSort(bson.D{{Key: "departure_time", Value: 1}})

	cursor, err := col.Find(ctx, filter, opts)
	if err != nil {
		return nil, 0, fmt.Errorf("error listing transportations: %v", err)
	}
	defer cursor.Close(ctx)

	items := make([]*Transportation, 0)
	for cursor.Next(ctx) {
		var t Transportation
		if err := cursor.Decode(&t); err != nil {
			return nil, 0, fmt.Errorf("error decoding transportation: %v", err)
		}
		items = append(items, &t)
	}
	if err := cursor.Err(); err != nil {
		return nil, 0, fmt.Errorf("cursor error: %v", err)
	}
	return items, int(total), nil
}
