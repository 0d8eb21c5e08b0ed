package services

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/tripnest/server/internal/models"
)

// fakeMessageRepo keys conversations by the sorted pair plus scope, matching
// the unique (pair_key, trip_id, booking_id) index.
type fakeMessageRepo struct {
	convs    map[string]*models.Conversation
	byID     map[primitive.ObjectID]*models.Conversation
	messages []*models.Message
}

func newFakeMessageRepo() *fakeMessageRepo {
	return &fakeMessageRepo{
		convs: map[string]*models.Conversation{},
		byID:  map[primitive.ObjectID]*models.Conversation{},
	}
}

func (f *fakeMessageRepo) FindOrCreateConversation(ctx context.Context, a, b primitive.ObjectID, tripID, bookingID primitive.ObjectID) (*models.Conversation, error) {
	first, second := a, b
	if second.Hex() < first.Hex() {
		first, second = second, first
	}
	pairKey := first.Hex() + ":" + second.Hex()
	key := fmt.Sprintf("%s|%s|%s", pairKey, tripID.Hex(), bookingID.Hex())

	if conv, ok := f.convs[key]; ok {
		return conv, nil
	}
	conv := &models.Conversation{
		ID:           primitive.NewObjectID(),
		Participants: []primitive.ObjectID{first, second},
		PairKey:      pairKey,
		TripID:       tripID,
		BookingID:    bookingID,
		UnreadCounts: map[string]int{first.Hex(): 0, second.Hex(): 0},
		CreatedAt:    time.Now(),
	}
	f.convs[key] = conv
	f.byID[conv.ID] = conv
	return conv, nil
}

func (f *fakeMessageRepo) FindConversationByID(ctx context.Context, id primitive.ObjectID) (*models.Conversation, error) {
	conv, ok := f.byID[id]
	if !ok {
		return nil, models.ErrNotFound
	}
	return conv, nil
}

func (f *fakeMessageRepo) ListConversationsByUser(ctx context.Context, userID primitive.ObjectID) ([]*models.Conversation, error) {
	out := []*models.Conversation{}
	for _, conv := range f.byID {
		if conv.HasParticipant(userID) {
			out = append(out, conv)
		}
	}
	return out, nil
}

func (f *fakeMessageRepo) AppendMessage(ctx context.Context, msg *models.Message) (*models.Message, error) {
	msg.ID = primitive.NewObjectID()
	f.messages = append(f.messages, msg)

	conv := f.byID[msg.ConversationID]
	conv.LastMessage = msg.Content
	conv.LastMessageAt = msg.CreatedAt
	conv.UnreadCounts[msg.ReceiverID.Hex()]++
	return msg, nil
}

func (f *fakeMessageRepo) ListMessages(ctx context.Context, conversationID primitive.ObjectID) ([]*models.Message, error) {
	out := []*models.Message{}
	for _, m := range f.messages {
		if m.ConversationID == conversationID {
			out = append(out, m)
		}
	}
	return out, nil
}

func (f *fakeMessageRepo) MarkConversationRead(ctx context.Context, conversationID, readerID primitive.ObjectID) error {
	for _, m := range f.messages {
		if m.ConversationID == conversationID && m.ReceiverID == readerID {
			m.Read = true
		}
	}
	if conv, ok := f.byID[conversationID]; ok {
		conv.UnreadCounts[readerID.Hex()] = 0
	}
	return nil
}

func seedMessagingUsers(t *testing.T, repo *fakeUserRepo) (*models.User, *models.User) {
	t.Helper()
	alice := &models.User{ID: primitive.NewObjectID(), Role: models.RoleTourist, IsActive: true}
	bob := &models.User{ID: primitive.NewObjectID(), Role: models.RoleTourist, IsActive: true}
	repo.users[alice.ID] = alice
	repo.users[bob.ID] = bob
	return alice, bob
}

func TestSendReusesConversationForSamePair(t *testing.T) {
	userRepo := newFakeUserRepo()
	msgRepo := newFakeMessageRepo()
	svc := NewMessageService(msgRepo, userRepo)
	alice, bob := seedMessagingUsers(t, userRepo)

	first, err := svc.Send(context.Background(), alice.ID, SendMessageRequest{
		ReceiverID: bob.ID.Hex(),
		Content:    "Is the tour still on for Friday?",
	})
	require.NoError(t, err)

	// The reply from the other direction lands in the same thread.
	second, err := svc.Send(context.Background(), bob.ID, SendMessageRequest{
		ReceiverID: alice.ID.Hex(),
		Content:    "Yes, see you at the pier.",
	})
	require.NoError(t, err)

	assert.Equal(t, first.ConversationID, second.ConversationID)
	assert.Len(t, msgRepo.byID, 1)

	conv := msgRepo.byID[first.ConversationID]
	assert.Equal(t, "Yes, see you at the pier.", conv.LastMessage)
	assert.Equal(t, 1, conv.UnreadCounts[alice.ID.Hex()])
	assert.Equal(t, 1, conv.UnreadCounts[bob.ID.Hex()])
}

func TestSendScopedThreadsStaySeparate(t *testing.T) {
	userRepo := newFakeUserRepo()
	msgRepo := newFakeMessageRepo()
	svc := NewMessageService(msgRepo, userRepo)
	alice, bob := seedMessagingUsers(t, userRepo)

	plain, err := svc.Send(context.Background(), alice.ID, SendMessageRequest{
		ReceiverID: bob.ID.Hex(),
		Content:    "General question",
	})
	require.NoError(t, err)

	scoped, err := svc.Send(context.Background(), alice.ID, SendMessageRequest{
		ReceiverID: bob.ID.Hex(),
		Content:    "About my booking",
		BookingID:  primitive.NewObjectID().Hex(),
	})
	require.NoError(t, err)

	assert.NotEqual(t, plain.ConversationID, scoped.ConversationID)
	assert.Len(t, msgRepo.byID, 2)
}

func TestSendValidation(t *testing.T) {
	userRepo := newFakeUserRepo()
	svc := NewMessageService(newFakeMessageRepo(), userRepo)
	alice, bob := seedMessagingUsers(t, userRepo)

	tests := []struct {
		name string
		req  SendMessageRequest
		want error
	}{
		{"self message", SendMessageRequest{ReceiverID: alice.ID.Hex(), Content: "hi"}, models.ErrValidation},
		{"empty content", SendMessageRequest{ReceiverID: bob.ID.Hex(), Content: "   "}, models.ErrValidation},
		{"bad receiver id", SendMessageRequest{ReceiverID: "not-a-hex-id", Content: "hi"}, models.ErrValidation},
		{"unknown type", SendMessageRequest{ReceiverID: bob.ID.Hex(), Content: "hi", Type: "broadcast"}, models.ErrValidation},
		{"unknown receiver", SendMessageRequest{ReceiverID: primitive.NewObjectID().Hex(), Content: "hi"}, models.ErrNotFound},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.Send(context.Background(), alice.ID, tc.req)
			assert.ErrorIs(t, err, tc.want)
		})
	}
}

func TestListMessagesParticipantsOnly(t *testing.T) {
	userRepo := newFakeUserRepo()
	msgRepo := newFakeMessageRepo()
	svc := NewMessageService(msgRepo, userRepo)
	alice, bob := seedMessagingUsers(t, userRepo)

	msg, err := svc.Send(context.Background(), alice.ID, SendMessageRequest{
		ReceiverID: bob.ID.Hex(),
		Content:    "private note",
	})
	require.NoError(t, err)

	_, err = svc.ListMessages(context.Background(), msg.ConversationID, primitive.NewObjectID())
	assert.ErrorIs(t, err, models.ErrNotFound)

	msgs, err := svc.ListMessages(context.Background(), msg.ConversationID, bob.ID)
	require.NoError(t, err)
	require.Len(t, msgs, 1)
	assert.Equal(t, "private note", msgs[0].Content)
}

func TestMarkReadZeroesUnreadCount(t *testing.T) {
	userRepo := newFakeUserRepo()
	msgRepo := newFakeMessageRepo()
	svc := NewMessageService(msgRepo, userRepo)
	alice, bob := seedMessagingUsers(t, userRepo)

	msg, err := svc.Send(context.Background(), alice.ID, SendMessageRequest{
		ReceiverID: bob.ID.Hex(),
		Content:    "ping",
	})
	require.NoError(t, err)

	err = svc.MarkRead(context.Background(), msg.ConversationID, primitive.NewObjectID())
	assert.ErrorIs(t, err, models.ErrNotFound)

	require.NoError(t, svc.MarkRead(context.Background(), msg.ConversationID, bob.ID))

	conv := msgRepo.byID[msg.ConversationID]
	assert.Equal(t, 0, conv.UnreadCounts[bob.ID.Hex()])

	msgs, err := svc.ListMessages(context.Background(), msg.ConversationID, bob.ID)
	require.NoError(t, err)
	assert.True(t, msgs[0].Read)
}
