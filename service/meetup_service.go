package application

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"cat_connect/domain"

	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

type MeetupService struct {
	store  domain.MeetupStore
	tracer trace.Tracer
	logger *logrus.Logger
}

func NewMeetupService(store domain.MeetupStore, tracer trace.Tracer, logger *logrus.Logger) *MeetupService {
	return &MeetupService{
		store:  store,
		tracer: tracer,
		logger: logger,
	}
}

func (service *MeetupService) Create(ctx context.Context, meetup *domain.Meetup) (*domain.Meetup, int, error) {
	ctx, span := service.tracer.Start(ctx, "MeetupService.Create")
	defer span.End()

	service.logger.Infoln("MeetupService.Create : Create service reached")

	if meetup.Title == "" {
		return nil, http.StatusBadRequest, fmt.Errorf("title is required")
	}
	if meetup.Date.Before(time.Now()) {
		return nil, http.StatusBadRequest, fmt.Errorf("meetup date must be in the future")
	}

	meetup.CreatedAt = time.Now()

	saved, err := service.store.Insert(ctx, meetup)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return nil, http.StatusInternalServerError, err
	}

	return saved, http.StatusCreated, nil
}

func (service *MeetupService) Get(ctx context.Context, id primitive.ObjectID) (*domain.Meetup, error) {
	ctx, span := service.tracer.Start(ctx, "MeetupService.Get")
	defer span.End()

	return service.store.Get(ctx, id)
}

func (service *MeetupService) GetAll(ctx context.Context) ([]*domain.Meetup, error) {
	ctx, span := service.tracer.Start(ctx, "MeetupService.GetAll")
	defer span.End()

	return service.store.GetAll(ctx)
}

func (service *MeetupService) Delete(ctx context.Context, id primitive.ObjectID, requesterID primitive.ObjectID, requesterRole string) (int, error) {
	ctx, span := service.tracer.Start(ctx, "MeetupService.Delete")
	defer span.End()

	meetup, err := service.store.Get(ctx, id)
	if err != nil || meetup == nil {
		return http.StatusNotFound, fmt.Errorf("meetup not found")
	}
	if meetup.OrganizerID != requesterID && requesterRole != domain.RoleAdmin {
		return http.StatusForbidden, fmt.Errorf("only the organizer or an admin can delete a meetup")
	}

	err = service.store.Delete(ctx, id)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return http.StatusInternalServerError, err
	}

	return http.StatusOK, nil
}

// CleanupExpired drops meetups whose date is before the start of the current
// day. Meetups scheduled for today survive until tomorrow's run.
func (service *MeetupService) CleanupExpired(ctx context.Context) (int64, error) {
	ctx, span := service.tracer.Start(ctx, "MeetupService.CleanupExpired")
	defer span.End()

	now := time.Now()
	cutoff := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())

	deleted, err := service.store.DeleteOlderThan(ctx, cutoff)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		service.logger.Errorf("MeetupService.CleanupExpired : %s", err)
		return 0, err
	}

	if deleted > 0 {
		service.logger.Infof("MeetupService.CleanupExpired : removed %d expired meetups", deleted)
	}

	return deleted, nil
}
