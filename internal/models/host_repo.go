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

type HostRepo interface {
	CreateHost(ctx context.Context, host *Host) (*Host, error)
	FindHostByID(ctx context.Context, id primitive.ObjectID) (*Host, error)
	FindHostsByUserID(ctx context.Context, userID primitive.ObjectID) ([]*Host, error)
	ListHosts(ctx context.Context, filter bson.M, offset, limit int) ([]*Host, int, error)
	UpdateHost(ctx context.Context, id, ownerID primitive.ObjectID, fields bson.M) (*Host, error)
}

func (mdb *MongodbRepo) CreateHost(ctx context.Context, host *Host) (*Host, error) {
	res, err := mdb.Collection(HostsCollection).InsertOne(ctx, host)
	if err != nil {
		return nil, fmt.Errorf("error creating host: %v", err)
	}
	if oid, ok := res.InsertedID.(primitive.ObjectID); ok {
		host.ID = oid
	}
	return host, nil
}

func (mdb *MongodbRepo) FindHostByID(ctx context.Context, id primitive.ObjectID) (*Host, error) {
	var host Host
	err := mdb.Collection(HostsCollection).FindOne(ctx, bson.M{"_id": id}).Decode(&host)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("error finding host: %v", err)
	}
	return &host, nil
}

func (mdb *MongodbRepo) FindHostsByUserID(ctx context.Context, userID primitive.ObjectID) ([]*Host, error) {
	cursor, err := mdb.Collection(HostsCollection).Find(ctx, bson.M{"user_id": userID})
	if err != nil {
		return nil, fmt.Errorf("error finding hosts: %v", err)
	}
	defer cursor.Close(ctx)

	var hosts []*Host
	for cursor.Next(ctx) {
		var h Host
		if err := cursor.Decode(&h); err != nil {
			return nil, fmt.Errorf("error decoding host: %v", err)
		}
		hosts = append(hosts, &h)
	}
	if err := cursor.Err(); err != nil {
		return nil, fmt.Errorf("cursor error: %v", err)
	}
	return hosts, nil
}

func (mdb *MongodbRepo) ListHosts(ctx context.Context, filter bson.M, offset, limit int) ([]*Host, int, error) {
	col := mdb.Collection(HostsCollection)

	total, err := col.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, fmt.Errorf("error counting hosts: %v", err)
	}

	opts := options.Find().
		SetSkip(int64(offset)).
		SetLimit(int64(limit)).
		SetSort(bson.D{{Key: "rating", Value: -1}})

	cursor, err := col.Find(ctx, filter, opts)
	if err != nil {
		return nil, 0, fmt.Errorf("error listing hosts: %v", err)
	}
	defer cursor.Close(ctx)

	hosts := make([]*Host, 0)
	for cursor.Next(ctx) {
		var h Host
		if err := cursor.Decode(&h); err != nil {
			return nil, 0, fmt.Errorf("error decoding host: %v", err)
		}
		hosts = append(hosts, &h)
	}
	if err := cursor.Err(); err != nil {
		return nil, 0, fmt.Errorf("cursor error: %v", err)
	}
	return hosts, int(total), nil
}

// UpdateHost applies partial updates. The filter includes the owner so a host
// can only be modified by the user it belongs to; user_id itself is never
// updatable.
func (mdb *MongodbRepo) UpdateHost(ctx context.Context, id, ownerID primitive.ObjectID, fields bson.M) (*Host, error) {
	delete(fields, "user_id")
	fields["updated_at"] = time.Now()

	var updated Host
	err := mdb.Collection(HostsCollection).FindOneAndUpdate(
		ctx,
		bson.M{"_id": id, "user_id": ownerID},
		bson.M{"$set": fields},
		findAfterUpdate(),
	).Decode(&updated)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("error updating host: %v", err)
	}
	return &updated, nil
}
