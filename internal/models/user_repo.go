package models

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

type UserRepo interface {
	CreateUser(ctx context.Context, user *User) (*User, error)
	FindUserByID(ctx context.Context, id primitive.ObjectID) (*User, error)
	FindUserByUsernameOrEmail(ctx context.Context, identifier string) (*User, error)
	UpdateUserFields(ctx context.Context, id primitive.ObjectID, fields bson.M) (*User, error)
	UpdateLastLogin(ctx context.Context, id primitive.ObjectID) error
}

func (mdb *MongodbRepo) CreateUser(ctx context.Context, user *User) (*User, error) {
	col := mdb.Collection(UsersCollection)

	// Usernames and emails are stored lowercase, so the unique index doubles
	// as a case-insensitive constraint. Pre-check to produce field-specific
	// messages; the index remains the source of truth under races.
	count, err := col.CountDocuments(ctx, bson.M{"email": user.Email})
	if err != nil {
		return nil, fmt.Errorf("error checking email: %v", err)
	}
	if count > 0 {
		return nil, ErrDuplicateEmail
	}

	count, err = col.CountDocuments(ctx, bson.M{"username": user.Username})
	if err != nil {
		return nil, fmt.Errorf("error checking username: %v", err)
	}
	if count > 0 {
		return nil, ErrDuplicateUsername
	}

	res, err := col.InsertOne(ctx, user)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			if strings.Contains(err.Error(), "email") {
				return nil, ErrDuplicateEmail
			}
			return nil, ErrDuplicateUsername
		}
		return nil, fmt.Errorf("error creating user: %v", err)
	}

	if oid, ok := res.InsertedID.(primitive.ObjectID); ok {
		user.ID = oid
	}
	return user, nil
}

func (mdb *MongodbRepo) FindUserByID(ctx context.Context, id primitive.ObjectID) (*User, error) {
	var user User
	err := mdb.Collection(UsersCollection).FindOne(ctx, bson.M{"_id": id}).Decode(&user)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("error finding user: %v", err)
	}
	return &user, nil
}

func (mdb *MongodbRepo) FindUserByUsernameOrEmail(ctx context.Context, identifier string) (*User, error) {
	identifier = strings.ToLower(strings.TrimSpace(identifier))

	var user User
	filter := bson.M{"$or": []bson.M{
		{"username": identifier},
		{"email": identifier},
	}}
	err := mdb.Collection(UsersCollection).FindOne(ctx, filter).Decode(&user)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("error finding user: %v", err)
	}
	return &user, nil
}

func (mdb *MongodbRepo) UpdateUserFields(ctx context.Context, id primitive.ObjectID, fields bson.M) (*User, error) {
	fields["updated_at"] = time.Now()

	var updated User
	err := mdb.Collection(UsersCollection).FindOneAndUpdate(
		ctx,
		bson.M{"_id": id},
		bson.M{"$set": fields},
		findAfterUpdate(),
	).Decode(&updated)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("error updating user: %v", err)
	}
	return &updated, nil
}

func (mdb *MongodbRepo) UpdateLastLogin(ctx context.Context, id primitive.ObjectID) error {
	_, err := mdb.Collection(UsersCollection).UpdateOne(
		ctx,
		bson.M{"_id": id},
		bson.M{"$set": bson.M{"last_login": time.Now()}},
	)
	if err != nil {
		return fmt.Errorf("error updating last login: %v", err)
	}
	return nil
}
