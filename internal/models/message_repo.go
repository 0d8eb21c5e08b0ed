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

type MessageRepo interface {
	FindOrCreateConversation(ctx context.Context, a, b primitive.ObjectID, tripID, bookingID primitive.ObjectID) (*Conversation, error)
	FindConversationByID(ctx context.Context, id primitive.ObjectID) (*Conversation, error)
	ListConversationsByUser(ctx context.Context, userID primitive.ObjectID) ([]*Conversation, error)
	AppendMessage(ctx context.Context, msg *Message) (*Message, error)
	ListMessages(ctx context.Context, conversationID primitive.ObjectID) ([]*Message, error)
	MarkConversationRead(ctx context.Context, conversationID, readerID primitive.ObjectID) error
}

// FindOrCreateConversation upserts the thread for a participant pair,
// optionally scoped by trip or booking. Participants are stored sorted so the
// same pair always resolves to the same document, and the filter pins the
// scope fields even when absent, so an unscoped send never lands in a trip-
// or booking-scoped thread for the same pair.
func (mdb *MongodbRepo) FindOrCreateConversation(ctx context.Context, a, b primitive.ObjectID, tripID, bookingID primitive.ObjectID) (*Conversation, error) {
	first, second := a, b
	if second.Hex() < first.Hex() {
		first, second = second, first
	}
	participants := []primitive.ObjectID{first, second}
	pairKey := first.Hex() + ":" + second.Hex()

	now := time.Now()
	filter := bson.M{"pair_key": pairKey}
	setOnInsert := bson.M{
		"pair_key":     pairKey,
		"participants": participants,
		"created_at":   now,
		"unread_counts": map[string]int{
			first.Hex():  0,
			second.Hex(): 0,
		},
	}
	if tripID.IsZero() {
		filter["trip_id"] = bson.M{"$exists": false}
	} else {
		filter["trip_id"] = tripID
		setOnInsert["trip_id"] = tripID
	}
	if bookingID.IsZero() {
		filter["booking_id"] = bson.M{"$exists": false}
	} else {
		filter["booking_id"] = bookingID
		setOnInsert["booking_id"] = bookingID
	}

	update := bson.M{
		"$set":         bson.M{"updated_at": now},
		"$setOnInsert": setOnInsert,
	}

	opts := options.FindOneAndUpdate().
		SetUpsert(true).
		SetReturnDocument(options.After)

	var conv Conversation
	err := mdb.Collection(ConversationsCollection).FindOneAndUpdate(ctx, filter, update, opts).Decode(&conv)
	if mongo.IsDuplicateKeyError(err) {
		// Lost an upsert race against the unique pair index; the thread
		// exists now, so the same filter matches on a second pass.
		err = mdb.Collection(ConversationsCollection).FindOneAndUpdate(ctx, filter, update, opts).Decode(&conv)
	}
	if err != nil {
		return nil, fmt.Errorf("error upserting conversation: %v", err)
	}
	return &conv, nil
}

func (mdb *MongodbRepo) FindConversationByID(ctx context.Context, id primitive.ObjectID) (*Conversation, error) {
	var conv Conversation
	err := mdb.Collection(ConversationsCollection).FindOne(ctx, bson.M{"_id": id}).Decode(&conv)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("error finding conversation: %v", err)
	}
	return &conv, nil
}

func (mdb *MongodbRepo) ListConversationsByUser(ctx context.Context, userID primitive.ObjectID) ([]*Conversation, error) {
	opts := options.Find().SetSort(bson.D{{Key: "last_message_at", Value: -1}})
	cursor, err := mdb.Collection(ConversationsCollection).Find(ctx, bson.M{"participants": userID}, opts)
	if err != nil {
		return nil, fmt.Errorf("error listing conversations: %v", err)
	}
	defer cursor.Close(ctx)

	convs := make([]*Conversation, 0)
	for cursor.Next(ctx) {
		var c Conversation
		if err := cursor.Decode(&c); err != nil {
			return nil, fmt.Errorf("error decoding conversation: %v", err)
		}
		convs = append(convs, &c)
	}
	if err := cursor.Err(); err != nil {
		return nil, fmt.Errorf("cursor error: %v", err)
	}
	return convs, nil
}

// AppendMessage inserts the message and refreshes the conversation's
// last-message snapshot and the receiver's unread counter.
func (mdb *MongodbRepo) AppendMessage(ctx context.Context, msg *Message) (*Message, error) {
	res, err := mdb.Collection(MessagesCollection).InsertOne(ctx, msg)
	if err != nil {
		return nil, fmt.Errorf("error inserting message: %v", err)
	}
	if oid, ok := res.InsertedID.(primitive.ObjectID); ok {
		msg.ID = oid
	}

	_, err = mdb.Collection(ConversationsCollection).UpdateOne(
		ctx,
		bson.M{"_id": msg.ConversationID},
		bson.M{
			"$set": bson.M{
				"last_message":    msg.Content,
				"last_message_at": msg.CreatedAt,
				"updated_at":      msg.CreatedAt,
			},
			"$inc": bson.M{
				fmt.Sprintf("unread_counts.%s", msg.ReceiverID.Hex()): 1,
			},
		},
	)
	if err != nil {
		return nil, fmt.Errorf("error updating conversation snapshot: %v", err)
	}

	return msg, nil
}

func (mdb *MongodbRepo) ListMessages(ctx context.Context, conversationID primitive.ObjectID) ([]*Message, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: 1}})
	cursor, err := mdb.Collection(MessagesCollection).Find(ctx, bson.M{"conversation_id": conversationID}, opts)
	if err != nil {
		return nil, fmt.Errorf("error listing messages: %v", err)
	}
	defer cursor.Close(ctx)

	msgs := make([]*Message, 0)
	for cursor.Next(ctx) {
		var m Message
		if err := cursor.Decode(&m); err != nil {
			return nil, fmt.Errorf("error decoding message: %v", err)
		}
		msgs = append(msgs, &m)
	}
	if err := cursor.Err(); err != nil {
		return nil, fmt.Errorf("cursor error: %v", err)
	}
	return msgs, nil
}

func (mdb *MongodbRepo) MarkConversationRead(ctx context.Context, conversationID, readerID primitive.ObjectID) error {
	_, err := mdb.Collection(MessagesCollection).UpdateMany(
		ctx,
		bson.M{"conversation_id": conversationID, "receiver_id": readerID, "read": false},
		bson.M{"$set": bson.M{"read": true}},
	)
	if err != nil {
		return fmt.Errorf("error marking messages read: %v", err)
	}

	_, err = mdb.Collection(ConversationsCollection).UpdateOne(
		ctx,
		bson.M{"_id": conversationID},
		bson.M{"$set": bson.M{
			fmt.Sprintf("unread_counts.%s", readerID.Hex()): 0,
			"updated_at": time.Now(),
		}},
	)
	if err != nil {
		return fmt.Errorf("error resetting unread count: %v", err)
	}
	return nil
}
