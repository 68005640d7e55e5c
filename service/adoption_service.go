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

type AdoptionService struct {
	store    domain.AdoptionStore
	payments domain.PaymentStore
	cats     domain.CatStore
	chats    domain.ChatStore
	tracer   trace.Tracer
	logger   *logrus.Logger
}

func NewAdoptionService(store domain.AdoptionStore, payments domain.PaymentStore, cats domain.CatStore, chats domain.ChatStore, tracer trace.Tracer, logger *logrus.Logger) *AdoptionService {
	return &AdoptionService{
		store:    store,
		payments: payments,
		cats:     cats,
		chats:    chats,
		tracer:   tracer,
		logger:   logger,
	}
}

// Start opens an adoption for a published cat on behalf of the adopter.
func (service *AdoptionService) Start(ctx context.Context, catID primitive.ObjectID, adopterID primitive.ObjectID) (*domain.Adoption, int, error) {
	ctx, span := service.tracer.Start(ctx, "AdoptionService.Start")
	defer span.End()

	service.logger.Infoln("AdoptionService.Start : Start service reached")

	cat, err := service.cats.Get(ctx, catID)
	if err != nil || cat == nil {
		return nil, http.StatusNotFound, fmt.Errorf("cat not found")
	}
	if cat.Status != domain.CatPublished {
		return nil, http.StatusConflict, fmt.Errorf("cat is not published")
	}
	if cat.SellerID == adopterID {
		return nil, http.StatusBadRequest, fmt.Errorf("cannot adopt your own cat")
	}

	existing, err := service.store.GetByCat(ctx, catID)
	if err == nil {
		for _, adoption := range existing {
			if adoption.Status == domain.AdoptionStatus(domain.AdoptionOpenStatus) && adoption.AdopterID == adopterID {
				return adoption, http.StatusOK, nil
			}
		}
	}

	adoption := &domain.Adoption{
		CatID:     catID,
		SellerID:  cat.SellerID,
		AdopterID: adopterID,
		Status:    domain.AdoptionOpenStatus,
		CreatedAt: time.Now(),
	}

	saved, err := service.store.Insert(ctx, adoption)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return nil, http.StatusInternalServerError, err
	}

	return saved, http.StatusCreated, nil
}

func (service *AdoptionService) Get(ctx context.Context, id primitive.ObjectID) (*domain.Adoption, error) {
	ctx, span := service.tracer.Start(ctx, "AdoptionService.Get")
	defer span.End()

	return service.store.Get(ctx, id)
}

// Complete finalizes an adoption. Only the seller can complete, the transition
// is one way, and it snapshots the listing into the adoption and its chats,
// records the fee payment, and removes the live listing.
func (service *AdoptionService) Complete(ctx context.Context, adoptionID primitive.ObjectID, requesterID primitive.ObjectID) (int, error) {
	ctx, span := service.tracer.Start(ctx, "AdoptionService.Complete")
	defer span.End()

	service.logger.Infoln("AdoptionService.Complete : Complete service reached")

	adoption, err := service.store.Get(ctx, adoptionID)
	if err != nil || adoption == nil {
		return http.StatusNotFound, fmt.Errorf("adoption not found")
	}
	if adoption.SellerID != requesterID {
		span.SetStatus(codes.Error, errors.NotCatOwner)
		return http.StatusForbidden, fmt.Errorf(errors.NotCatOwner)
	}
	if adoption.Status != domain.AdoptionStatus(domain.AdoptionOpenStatus) {
		span.SetStatus(codes.Error, errors.AdoptionAlreadyClosed)
		return http.StatusConflict, fmt.Errorf(errors.AdoptionAlreadyClosed)
	}

	cat, err := service.cats.Get(ctx, adoption.CatID)
	if err != nil || cat == nil {
		return http.StatusNotFound, fmt.Errorf("cat not found")
	}

	err = service.store.Complete(ctx, adoptionID, cat)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return http.StatusInternalServerError, err
	}

	// chats about the cat keep a read-only transcript after the listing goes
	chats, err := service.chats.GetByCat(ctx, adoption.CatID)
	if err == nil {
		for _, chat := range chats {
			if markErr := service.chats.MarkSnapshot(ctx, chat.ID); markErr != nil {
				service.logger.Errorf("AdoptionService.Complete : snapshot chat %s: %s", chat.ID.Hex(), markErr)
			}
			if chat.Status == domain.ChatOpen {
				if statusErr := service.chats.UpdateStatus(ctx, chat.ID, domain.ChatArchived); statusErr != nil {
					service.logger.Errorf("AdoptionService.Complete : archive chat %s: %s", chat.ID.Hex(), statusErr)
				}
			}
		}
	}

	if cat.AdoptionFee > 0 {
		payment := &domain.PaymentRecord{
			AdoptionID: adoptionID,
			PayerID:    adoption.AdopterID,
			Amount:     cat.AdoptionFee,
			CreatedAt:  time.Now(),
		}
		if _, payErr := service.payments.Insert(ctx, payment); payErr != nil {
			service.logger.Errorf("AdoptionService.Complete : record payment: %s", payErr)
		}
	}

	err = service.cats.Delete(ctx, adoption.CatID)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		service.logger.Errorf("AdoptionService.Complete : remove listing: %s", err)
	}

	return http.StatusOK, nil
}

func (service *AdoptionService) GetPaymentsByPayer(ctx context.Context, payerID primitive.ObjectID) ([]*domain.PaymentRecord, error) {
	ctx, span := service.tracer.Start(ctx, "AdoptionService.GetPaymentsByPayer")
	defer span.End()

	return service.payments.GetByPayer(ctx, payerID)
}
