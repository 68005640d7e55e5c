package application

import (
	"context"
	"net/http"
	"testing"

	"cat_connect/domain"
	"cat_connect/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestCreateChatReturnsExistingOpenChat(t *testing.T) {
	adopter := primitive.NewObjectID()
	cat := &domain.Cat{ID: primitive.NewObjectID(), SellerID: primitive.NewObjectID(), Status: domain.CatPublished}
	service := NewChatService(newFakeChatStore(), newFakeCatStore(cat), testTracer, testLogger())

	first, status, err := service.Create(context.Background(), cat.ID, adopter)
	require.NoError(t, err)
	assert.Equal(t, http.StatusCreated, status)
	assert.Equal(t, []primitive.ObjectID{adopter, cat.SellerID}, first.Participants)

	second, status, err := service.Create(context.Background(), cat.ID, adopter)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, first.ID, second.ID)
}

func TestCreateChatRejectsOwnListing(t *testing.T) {
	seller := primitive.NewObjectID()
	cat := &domain.Cat{ID: primitive.NewObjectID(), SellerID: seller, Status: domain.CatPublished}
	service := NewChatService(newFakeChatStore(), newFakeCatStore(cat), testTracer, testLogger())

	_, status, err := service.Create(context.Background(), cat.ID, seller)

	assert.Equal(t, http.StatusBadRequest, status)
	assert.Error(t, err)
}

func TestSendMessageOnlyParticipants(t *testing.T) {
	chat := &domain.Chat{
		ID:           primitive.NewObjectID(),
		Participants: []primitive.ObjectID{primitive.NewObjectID(), primitive.NewObjectID()},
		Status:       domain.ChatOpen,
	}
	service := NewChatService(newFakeChatStore(chat), newFakeCatStore(), testTracer, testLogger())

	status, err := service.SendMessage(context.Background(), chat.ID, primitive.NewObjectID(), "hello")

	assert.Equal(t, http.StatusForbidden, status)
	require.Error(t, err)
	assert.Equal(t, errors.NotChatParticipant, err.Error())
}

func TestSendMessageClosedChat(t *testing.T) {
	sender := primitive.NewObjectID()
	chat := &domain.Chat{
		ID:           primitive.NewObjectID(),
		Participants: []primitive.ObjectID{sender, primitive.NewObjectID()},
		Status:       domain.ChatArchived,
	}
	service := NewChatService(newFakeChatStore(chat), newFakeCatStore(), testTracer, testLogger())

	status, err := service.SendMessage(context.Background(), chat.ID, sender, "hello")

	assert.Equal(t, http.StatusConflict, status)
	require.Error(t, err)
	assert.Equal(t, errors.ChatAlreadyClosed, err.Error())
}

func TestSendMessageAppends(t *testing.T) {
	sender := primitive.NewObjectID()
	chat := &domain.Chat{
		ID:           primitive.NewObjectID(),
		Participants: []primitive.ObjectID{sender, primitive.NewObjectID()},
		Status:       domain.ChatOpen,
	}
	store := newFakeChatStore(chat)
	service := NewChatService(store, newFakeCatStore(), testTracer, testLogger())

	status, err := service.SendMessage(context.Background(), chat.ID, sender, "is Mira still available?")

	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, status)

	saved, err := store.Get(context.Background(), chat.ID)
	require.NoError(t, err)
	require.Len(t, saved.Messages, 1)
	assert.Equal(t, sender, saved.Messages[0].SenderID)
	assert.Equal(t, "is Mira still available?", saved.Messages[0].Text)
	assert.False(t, saved.Messages[0].SentAt.IsZero())
}

func TestUpdateStatusClosedChatStaysClosed(t *testing.T) {
	participant := primitive.NewObjectID()
	chat := &domain.Chat{
		ID:           primitive.NewObjectID(),
		Participants: []primitive.ObjectID{participant, primitive.NewObjectID()},
		Status:       domain.ChatCompleted,
	}
	service := NewChatService(newFakeChatStore(chat), newFakeCatStore(), testTracer, testLogger())

	status, err := service.UpdateStatus(context.Background(), chat.ID, participant, domain.ChatCancelled)

	assert.Equal(t, http.StatusConflict, status)
	require.Error(t, err)
	assert.Equal(t, errors.ChatAlreadyClosed, err.Error())
}
