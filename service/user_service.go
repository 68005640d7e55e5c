package application

import (
	"context"
	"fmt"
	"net/http"

	"cat_connect/domain"
	"cat_connect/errors"

	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

type UserService struct {
	store    domain.UserStore
	cats     domain.CatStore
	geocoder domain.Geocoder
	tracer   trace.Tracer
	logger   *logrus.Logger
}

func NewUserService(store domain.UserStore, cats domain.CatStore, geocoder domain.Geocoder, tracer trace.Tracer, logger *logrus.Logger) *UserService {
	return &UserService{
		store:    store,
		cats:     cats,
		geocoder: geocoder,
		tracer:   tracer,
		logger:   logger,
	}
}

func (service *UserService) Get(ctx context.Context, id primitive.ObjectID) (*domain.User, error) {
	ctx, span := service.tracer.Start(ctx, "UserService.Get")
	defer span.End()

	return service.store.Get(ctx, id)
}

func (service *UserService) GetOneUser(ctx context.Context, username string) (*domain.User, error) {
	ctx, span := service.tracer.Start(ctx, "UserService.GetOneUser")
	defer span.End()

	return service.store.GetOneUser(ctx, username)
}

func (service *UserService) GetAll(ctx context.Context) ([]*domain.User, error) {
	ctx, span := service.tracer.Start(ctx, "UserService.GetAll")
	defer span.End()

	return service.store.GetAll(ctx)
}

func (service *UserService) DoesEmailExist(ctx context.Context, email string) (string, error) {
	ctx, span := service.tracer.Start(ctx, "UserService.DoesEmailExist")
	defer span.End()

	user, err := service.store.GetByEmail(ctx, email)
	if err != nil || user == nil {
		return "", fmt.Errorf("email not found")
	}
	return user.ID.Hex(), nil
}

func (service *UserService) UpdateUser(ctx context.Context, user *domain.User) (*domain.User, error) {
	ctx, span := service.tracer.Start(ctx, "UserService.UpdateUser")
	defer span.End()

	service.logger.Infoln("UserService.UpdateUser : UpdateUser service reached")

	return service.store.UpdateUser(ctx, user)
}

func (service *UserService) UpdatePreferences(ctx context.Context, id primitive.ObjectID, preferences *domain.Preferences) error {
	ctx, span := service.tracer.Start(ctx, "UserService.UpdatePreferences")
	defer span.End()

	service.logger.Infoln("UserService.UpdatePreferences : UpdatePreferences service reached")

	return service.store.UpdatePreferences(ctx, id, preferences)
}

// UpdateLocation resolves the postal address to coordinates through the
// geocoder port and stores the resulting point for the matchmaking geo query.
func (service *UserService) UpdateLocation(ctx context.Context, id primitive.ObjectID, postalCode, countryCode string) (int, error) {
	ctx, span := service.tracer.Start(ctx, "UserService.UpdateLocation")
	defer span.End()

	service.logger.Infoln("UserService.UpdateLocation : UpdateLocation service reached")

	point, err := service.geocoder.Geocode(ctx, postalCode, countryCode)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		service.logger.Errorf("UserService.UpdateLocation : %s", err)
		return http.StatusBadGateway, fmt.Errorf(errors.GeocoderError)
	}

	err = service.store.UpdateLocation(ctx, id, point, postalCode, countryCode)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return http.StatusInternalServerError, err
	}

	return http.StatusOK, nil
}

// Accounts with published listings cannot be removed.
func (service *UserService) DeleteAccount(ctx context.Context, id primitive.ObjectID) (int, error) {
	ctx, span := service.tracer.Start(ctx, "UserService.DeleteAccount")
	defer span.End()

	cats, err := service.cats.GetBySeller(ctx, id)
	if err == nil {
		for _, cat := range cats {
			if cat.Status == domain.CatPublished {
				span.SetStatus(codes.Error, errors.UserHasPublishedCats)
				return http.StatusConflict, fmt.Errorf(errors.UserHasPublishedCats)
			}
		}
	}

	err = service.store.DeleteAccount(ctx, id)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return http.StatusInternalServerError, err
	}

	return http.StatusOK, nil
}
