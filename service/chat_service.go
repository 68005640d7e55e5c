package application

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"cat_connect/domain"
	"cat_connect/errors"

	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

type ChatService struct {
	store  domain.ChatStore
	cats   domain.CatStore
	tracer trace.Tracer
	logger *logrus.Logger
}

func NewChatService(store domain.ChatStore, cats domain.CatStore, tracer trace.Tracer, logger *logrus.Logger) *ChatService {
	return &ChatService{
		store:  store,
		cats:   cats,
		tracer: tracer,
		logger: logger,
	}
}

// Create opens a chat between an interested adopter and the cat's seller. An
// existing open chat for the same pair and cat is returned instead of a
// duplicate.
func (service *ChatService) Create(ctx context.Context, catID primitive.ObjectID, adopterID primitive.ObjectID) (*domain.Chat, int, error) {
	ctx, span := service.tracer.Start(ctx, "ChatService.Create")
	defer span.End()

	service.logger.Infoln("ChatService.Create : Create service reached")

	cat, err := service.cats.Get(ctx, catID)
	if err != nil || cat == nil {
		return nil, http.StatusNotFound, fmt.Errorf("cat not found")
	}
	if cat.SellerID == adopterID {
		return nil, http.StatusBadRequest, fmt.Errorf("cannot open a chat on your own listing")
	}

	existing, err := service.store.GetByCat(ctx, catID)
	if err == nil {
		for _, chat := range existing {
			if chat.Status == domain.ChatOpen && isParticipant(chat, adopterID) {
				return chat, http.StatusOK, nil
			}
		}
	}

	chat := &domain.Chat{
		Participants: []primitive.ObjectID{adopterID, cat.SellerID},
		CatID:        catID,
		Status:       domain.ChatOpen,
		Messages:     []domain.Message{},
		CreatedAt:    time.Now(),
	}

	saved, err := service.store.Insert(ctx, chat)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return nil, http.StatusInternalServerError, err
	}

	return saved, http.StatusCreated, nil
}

func (service *ChatService) Get(ctx context.Context, id primitive.ObjectID, requesterID primitive.ObjectID) (*domain.Chat, int, error) {
	ctx, span := service.tracer.Start(ctx, "ChatService.Get")
	defer span.End()

	chat, err := service.store.Get(ctx, id)
	if err != nil || chat == nil {
		return nil, http.StatusNotFound, fmt.Errorf("chat not found")
	}
	if !isParticipant(chat, requesterID) {
		span.SetStatus(codes.Error, errors.NotChatParticipant)
		return nil, http.StatusForbidden, fmt.Errorf(errors.NotChatParticipant)
	}

	return chat, http.StatusOK, nil
}

func (service *ChatService) GetByUser(ctx context.Context, userID primitive.ObjectID) ([]*domain.Chat, error) {
	ctx, span := service.tracer.Start(ctx, "ChatService.GetByUser")
	defer span.End()

	return service.store.GetByUser(ctx, userID)
}

// Messages may only be appended by a participant while the chat is open.
func (service *ChatService) SendMessage(ctx context.Context, chatID primitive.ObjectID, senderID primitive.ObjectID, text string) (int, error) {
	ctx, span := service.tracer.Start(ctx, "ChatService.SendMessage")
	defer span.End()

	service.logger.Infoln("ChatService.SendMessage : SendMessage service reached")

	chat, err := service.store.Get(ctx, chatID)
	if err != nil || chat == nil {
		return http.StatusNotFound, fmt.Errorf("chat not found")
	}
	if !isParticipant(chat, senderID) {
		span.SetStatus(codes.Error, errors.NotChatParticipant)
		return http.StatusForbidden, fmt.Errorf(errors.NotChatParticipant)
	}
	if chat.Status != domain.ChatOpen {
		span.SetStatus(codes.Error, errors.ChatAlreadyClosed)
		return http.StatusConflict, fmt.Errorf(errors.ChatAlreadyClosed)
	}

	message := domain.Message{
		SenderID: senderID,
		Text:     text,
		SentAt:   time.Now(),
	}

	err = service.store.AppendMessage(ctx, chatID, &message)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return http.StatusInternalServerError, err
	}

	return http.StatusOK, nil
}

func (service *ChatService) UpdateStatus(ctx context.Context, chatID primitive.ObjectID, requesterID primitive.ObjectID, status domain.ChatStatus) (int, error) {
	ctx, span := service.tracer.Start(ctx, "ChatService.UpdateStatus")
	defer span.End()

	chat, err := service.store.Get(ctx, chatID)
	if err != nil || chat == nil {
		return http.StatusNotFound, fmt.Errorf("chat not found")
	}
	if !isParticipant(chat, requesterID) {
		span.SetStatus(codes.Error, errors.NotChatParticipant)
		return http.StatusForbidden, fmt.Errorf(errors.NotChatParticipant)
	}
	if chat.Status != domain.ChatOpen {
		span.SetStatus(codes.Error, errors.ChatAlreadyClosed)
		return http.StatusConflict, fmt.Errorf(errors.ChatAlreadyClosed)
	}

	err = service.store.UpdateStatus(ctx, chatID, status)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return http.StatusInternalServerError, err
	}

	return http.StatusOK, nil
}

func isParticipant(chat *domain.Chat, userID primitive.ObjectID) bool {
	for _, participant := range chat.Participants {
		if participant == userID {
			return true
		}
	}
	return false
}
