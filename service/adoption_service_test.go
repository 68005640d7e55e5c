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

func TestStartAdoptionRequiresPublishedCat(t *testing.T) {
	cat := &domain.Cat{ID: primitive.NewObjectID(), SellerID: primitive.NewObjectID(), Status: domain.CatDraft}
	service := NewAdoptionService(newFakeAdoptionStore(), &fakePaymentStore{}, newFakeCatStore(cat), newFakeChatStore(), testTracer, testLogger())

	_, status, err := service.Start(context.Background(), cat.ID, primitive.NewObjectID())

	assert.Equal(t, http.StatusConflict, status)
	assert.Error(t, err)
}

func TestStartAdoptionRejectsOwnCat(t *testing.T) {
	seller := primitive.NewObjectID()
	cat := &domain.Cat{ID: primitive.NewObjectID(), SellerID: seller, Status: domain.CatPublished}
	service := NewAdoptionService(newFakeAdoptionStore(), &fakePaymentStore{}, newFakeCatStore(cat), newFakeChatStore(), testTracer, testLogger())

	_, status, err := service.Start(context.Background(), cat.ID, seller)

	assert.Equal(t, http.StatusBadRequest, status)
	assert.Error(t, err)
}

func TestStartAdoptionIdempotentWhileOpen(t *testing.T) {
	adopter := primitive.NewObjectID()
	cat := &domain.Cat{ID: primitive.NewObjectID(), SellerID: primitive.NewObjectID(), Status: domain.CatPublished}
	service := NewAdoptionService(newFakeAdoptionStore(), &fakePaymentStore{}, newFakeCatStore(cat), newFakeChatStore(), testTracer, testLogger())

	first, status, err := service.Start(context.Background(), cat.ID, adopter)
	require.NoError(t, err)
	assert.Equal(t, http.StatusCreated, status)

	second, status, err := service.Start(context.Background(), cat.ID, adopter)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, first.ID, second.ID)
}

func TestCompleteAdoptionSellerOnly(t *testing.T) {
	adoption := &domain.Adoption{
		ID:        primitive.NewObjectID(),
		CatID:     primitive.NewObjectID(),
		SellerID:  primitive.NewObjectID(),
		AdopterID: primitive.NewObjectID(),
		Status:    domain.AdoptionOpenStatus,
	}
	service := NewAdoptionService(newFakeAdoptionStore(adoption), &fakePaymentStore{}, newFakeCatStore(), newFakeChatStore(), testTracer, testLogger())

	status, err := service.Complete(context.Background(), adoption.ID, adoption.AdopterID)

	assert.Equal(t, http.StatusForbidden, status)
	require.Error(t, err)
	assert.Equal(t, errors.NotCatOwner, err.Error())
}

func TestCompleteAdoptionSideEffects(t *testing.T) {
	seller := primitive.NewObjectID()
	adopter := primitive.NewObjectID()
	cat := &domain.Cat{
		ID:          primitive.NewObjectID(),
		Name:        "Mira",
		SellerID:    seller,
		Status:      domain.CatPublished,
		AdoptionFee: 80,
	}
	adoption := &domain.Adoption{
		ID:        primitive.NewObjectID(),
		CatID:     cat.ID,
		SellerID:  seller,
		AdopterID: adopter,
		Status:    domain.AdoptionOpenStatus,
	}
	chat := &domain.Chat{
		ID:           primitive.NewObjectID(),
		Participants: []primitive.ObjectID{adopter, seller},
		CatID:        cat.ID,
		Status:       domain.ChatOpen,
	}

	adoptionStore := newFakeAdoptionStore(adoption)
	paymentStore := &fakePaymentStore{}
	catStore := newFakeCatStore(cat)
	chatStore := newFakeChatStore(chat)
	service := NewAdoptionService(adoptionStore, paymentStore, catStore, chatStore, testTracer, testLogger())

	status, err := service.Complete(context.Background(), adoption.ID, seller)

	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, status)

	completed, err := adoptionStore.Get(context.Background(), adoption.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.AdoptionStatus(domain.AdoptionCompletedStatus), completed.Status)
	require.NotNil(t, completed.Cat)
	assert.Equal(t, "Mira", completed.Cat.Name)

	archived, err := chatStore.Get(context.Background(), chat.ID)
	require.NoError(t, err)
	assert.True(t, archived.Snapshot)
	assert.Equal(t, domain.ChatStatus(domain.ChatArchived), archived.Status)

	payments, err := paymentStore.GetByPayer(context.Background(), adopter)
	require.NoError(t, err)
	require.Len(t, payments, 1)
	assert.Equal(t, 80.0, payments[0].Amount)
	assert.Equal(t, adoption.ID, payments[0].AdoptionID)

	assert.Contains(t, catStore.deleted, cat.ID)
}

func TestCompleteAdoptionIsOneWay(t *testing.T) {
	seller := primitive.NewObjectID()
	cat := &domain.Cat{ID: primitive.NewObjectID(), SellerID: seller, Status: domain.CatPublished}
	adoption := &domain.Adoption{
		ID:        primitive.NewObjectID(),
		CatID:     cat.ID,
		SellerID:  seller,
		AdopterID: primitive.NewObjectID(),
		Status:    domain.AdoptionOpenStatus,
	}
	service := NewAdoptionService(newFakeAdoptionStore(adoption), &fakePaymentStore{}, newFakeCatStore(cat), newFakeChatStore(), testTracer, testLogger())

	status, err := service.Complete(context.Background(), adoption.ID, seller)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, status)

	status, err = service.Complete(context.Background(), adoption.ID, seller)
	assert.Equal(t, http.StatusConflict, status)
	require.Error(t, err)
	assert.Equal(t, errors.AdoptionAlreadyClosed, err.Error())
}
