package models

import (
	"context"
	"fmt"

	"github.com/go-playground/validator/v10"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

var Validate = validator.New()

const (
	UsersCollection           = "users"
	HostsCollection           = "hosts"
	BookingsCollection        = "bookings"
	TripsCollection           = "trips"
	TransportationsCollection = "transportations"
	ConversationsCollection   = "conversations"
	MessagesCollection        = "messages"
)

type MongodbRepo struct {
	client *mongo.Client
	dbName string
}

func MongodbNewRepo(client *mongo.Client, dbName string) *MongodbRepo {
	return &MongodbRepo{
		client: client,
		dbName: dbName,
	}
}

func (mdb *MongodbRepo) Collection(name string) *mongo.Collection {
	return mdb.client.Database(mdb.dbName).Collection(name)
}

func (mdb *MongodbRepo) Client() *mongo.Client {
	return mdb.client
}

func findAfterUpdate() *options.FindOneAndUpdateOptions {
	return options.FindOneAndUpdate().SetReturnDocument(options.After)
}

// EnsureIndexes creates the unique indexes the repositories rely on:
// case-normalized usernames/emails and human-readable reference codes.
func (mdb *MongodbRepo) EnsureIndexes(ctx context.Context) error {
	unique := options.Index().SetUnique(true)

	userIndexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "username", Value: 1}}, Options: unique},
		{Keys: bson.D{{Key: "email", Value: 1}}, Options: unique},
	}
	if _, err := mdb.Collection(UsersCollection).Indexes().CreateMany(ctx, userIndexes); err != nil {
		return fmt.Errorf("failed to create user indexes: %v", err)
	}

	if _, err := mdb.Collection(BookingsCollection).Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "booking_id", Value: 1}}, Options: unique,
	}); err != nil {
		return fmt.Errorf("failed to create booking index: %v", err)
	}

	if _, err := mdb.Collection(TripsCollection).Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "display_id", Value: 1}}, Options: unique,
	}); err != nil {
		return fmt.Errorf("failed to create trip index: %v", err)
	}

	if _, err := mdb.Collection(MessagesCollection).Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "conversation_id", Value: 1}, {Key: "created_at", Value: 1}},
	}); err != nil {
		return fmt.Errorf("failed to create message index: %v", err)
	}

	// One thread per participant pair and scope, even under concurrent first
	// messages racing the upsert.
	if _, err := mdb.Collection(ConversationsCollection).Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "pair_key", Value: 1}, {Key: "trip_id", Value: 1}, {Key: "booking_id", Value: 1}},
		Options: unique,
	}); err != nil {
		return fmt.Errorf("failed to create conversation index: %v", err)
	}

	return nil
}
