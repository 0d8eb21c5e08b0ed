package services

import (
	"context"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/tripnest/server/internal/models"
)

type MessageService struct {
	messageRepo models.MessageRepo
	userRepo    models.UserRepo
}

func NewMessageService(messageRepo models.MessageRepo, userRepo models.UserRepo) *MessageService {
	return &MessageService{
		messageRepo: messageRepo,
		userRepo:    userRepo,
	}
}

type SendMessageRequest struct {
	ReceiverID string `json:"receiver_id" binding:"required"`
	Content    string `json:"content" binding:"required"`
	Type       string `json:"type"`
	TripID     string `json:"trip_id"`
	BookingID  string `json:"booking_id"`
}

// Send finds or creates the conversation between sender and receiver and
// appends the message to it.
func (ms *MessageService) Send(ctx context.Context, senderID primitive.ObjectID, req SendMessageRequest) (*models.Message, error) {
	receiverID, err := primitive.ObjectIDFromHex(strings.TrimSpace(req.ReceiverID))
	if err != nil {
		return nil, models.Invalid("invalid receiver id")
	}
	if receiverID == senderID {
		return nil, models.Invalid("cannot message yourself")
	}
	if strings.TrimSpace(req.Content) == "" {
		return nil, models.Invalid("message content is required")
	}

	msgType := req.Type
	if msgType == "" {
		msgType = models.MessageTypeText
	}
	if err := models.Validate.Var(msgType, "oneof=text payment system"); err != nil {
		return nil, models.Invalid("invalid message type: %s", msgType)
	}

	// The receiver must be a real account.
	if _, err := ms.userRepo.FindUserByID(ctx, receiverID); err != nil {
		return nil, err
	}

	tripID := parseOptionalObjectID(req.TripID)
	bookingID := parseOptionalObjectID(req.BookingID)

	conv, err := ms.messageRepo.FindOrCreateConversation(ctx, senderID, receiverID, tripID, bookingID)
	if err != nil {
		return nil, err
	}

	msg := &models.Message{
		ConversationID: conv.ID,
		SenderID:       senderID,
		ReceiverID:     receiverID,
		Content:        req.Content,
		Type:           msgType,
		Read:           false,
		CreatedAt:      time.Now(),
	}

	return ms.messageRepo.AppendMessage(ctx, msg)
}

func (ms *MessageService) ListConversations(ctx context.Context, userID primitive.ObjectID) ([]*models.Conversation, error) {
	return ms.messageRepo.ListConversationsByUser(ctx, userID)
}

// ListMessages returns a conversation's messages in insertion order. A caller
// who is not a participant gets a not-found, never another user's thread.
func (ms *MessageService) ListMessages(ctx context.Context, conversationID, callerID primitive.ObjectID) ([]*models.Message, error) {
	conv, err := ms.messageRepo.FindConversationByID(ctx, conversationID)
	if err != nil {
		return nil, err
	}
	if !conv.HasParticipant(callerID) {
		return nil, models.ErrNotFound
	}
	return ms.messageRepo.ListMessages(ctx, conversationID)
}

func (ms *MessageService) MarkRead(ctx context.Context, conversationID, callerID primitive.ObjectID) error {
	conv, err := ms.messageRepo.FindConversationByID(ctx, conversationID)
	if err != nil {
		return err
	}
	if !conv.HasParticipant(callerID) {
		return models.ErrNotFound
	}
	return ms.messageRepo.MarkConversationRead(ctx, conversationID, callerID)
}

func parseOptionalObjectID(hex string) primitive.ObjectID {
	hex = strings.TrimSpace(hex)
	if hex == "" {
		return primitive.NilObjectID
	}
	id, err := primitive.ObjectIDFromHex(hex)
	if err != nil {
		return primitive.NilObjectID
	}
	return id
}
