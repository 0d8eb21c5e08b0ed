package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

const (
	MessageTypeText    = "text"
	MessageTypePayment = "payment"
	MessageTypeSystem  = "system"
)

// Conversation groups the two participants of a message thread, optionally
// scoped to a trip or booking.
type Conversation struct {
	ID           primitive.ObjectID   `bson:"_id,omitempty" json:"id"`
	Participants []primitive.ObjectID `bson:"participants" json:"participants"`
	// PairKey is the sorted participant pair as "hexA:hexB"; the unique index
	// on (pair_key, trip_id, booking_id) keys on it because a multikey index
	// over the participants array cannot enforce pair uniqueness.
	PairKey       string             `bson:"pair_key" json:"-"`
	TripID        primitive.ObjectID `bson:"trip_id,omitempty" json:"trip_id,omitempty"`
	BookingID     primitive.ObjectID `bson:"booking_id,omitempty" json:"booking_id,omitempty"`
	LastMessage   string             `bson:"last_message,omitempty" json:"last_message,omitempty"`
	LastMessageAt time.Time          `bson:"last_message_at,omitempty" json:"last_message_at,omitempty"`
	// UnreadCounts maps a participant's hex id to their unread total.
	UnreadCounts map[string]int `bson:"unread_counts,omitempty" json:"unread_counts,omitempty"`
	CreatedAt    time.Time      `bson:"created_at" json:"created_at"`
	UpdatedAt    time.Time      `bson:"updated_at" json:"updated_at"`
}

type Message struct {
	ID             primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	ConversationID primitive.ObjectID `bson:"conversation_id" json:"conversation_id"`
	SenderID       primitive.ObjectID `bson:"sender_id" json:"sender_id"`
	ReceiverID     primitive.ObjectID `bson:"receiver_id" json:"receiver_id"`
	Content        string             `bson:"content" json:"content" validate:"required"`
	Type           string             `bson:"type" json:"type" validate:"required,oneof=text payment system"`
	Read           bool               `bson:"read" json:"read"`
	Attachments    []string           `bson:"attachments,omitempty" json:"attachments,omitempty"`
	CreatedAt      time.Time          `bson:"created_at" json:"created_at"`
}

// HasParticipant reports whether the given user belongs to the conversation.
func (c *Conversation) HasParticipant(userID primitive.ObjectID) bool {
	for _, p := range c.Participants {
		if p == userID {
			return true
		}
	}
	return false
}
