package application

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"cat_connect/domain"

	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

type SubscriptionService struct {
	store    domain.SubscriptionStore
	users    domain.UserStore
	payments domain.PaymentProvider
	tracer   trace.Tracer
	logger   *logrus.Logger
}

func NewSubscriptionService(store domain.SubscriptionStore, users domain.UserStore, payments domain.PaymentProvider, tracer trace.Tracer, logger *logrus.Logger) *SubscriptionService {
	return &SubscriptionService{
		store:    store,
		users:    users,
		payments: payments,
		tracer:   tracer,
		logger:   logger,
	}
}

func (service *SubscriptionService) GetPlans(ctx context.Context) ([]*domain.SubscriptionPlan, error) {
	ctx, span := service.tracer.Start(ctx, "SubscriptionService.GetPlans")
	defer span.End()

	return service.store.GetPlans(ctx)
}

func (service *SubscriptionService) GetByUser(ctx context.Context, userID primitive.ObjectID) (*domain.UserSubscription, error) {
	ctx, span := service.tracer.Start(ctx, "SubscriptionService.GetByUser")
	defer span.End()

	return service.store.GetByUser(ctx, userID)
}

// Checkout starts a Stripe checkout session for the chosen plan and returns
// the redirect URL. The subscription record is written up front and confirmed
// or corrected later by the webhook.
func (service *SubscriptionService) Checkout(ctx context.Context, userID primitive.ObjectID, planID primitive.ObjectID) (string, int, error) {
	ctx, span := service.tracer.Start(ctx, "SubscriptionService.Checkout")
	defer span.End()

	service.logger.Infoln("SubscriptionService.Checkout : Checkout service reached")

	user, err := service.users.Get(ctx, userID)
	if err != nil || user == nil {
		return "", http.StatusNotFound, fmt.Errorf("user not found")
	}

	plan, err := service.store.GetPlan(ctx, planID)
	if err != nil || plan == nil {
		return "", http.StatusNotFound, fmt.Errorf("plan not found")
	}

	checkoutURL, err := service.payments.CreateCheckoutSession(ctx, user.Email, plan.StripePriceID)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		service.logger.Errorf("SubscriptionService.Checkout : %s", err)
		return "", http.StatusBadGateway, err
	}

	now := time.Now()
	subscription := &domain.UserSubscription{
		UserID:    userID,
		PlanID:    planID,
		Status:    domain.SubscriptionActive,
		StartedAt: now,
		EndsAt:    ExpiryDate(now, plan.PeriodMonths),
	}

	err = service.store.Upsert(ctx, subscription)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return "", http.StatusInternalServerError, err
	}

	return checkoutURL, http.StatusOK, nil
}

// ExpiryDate adds the plan period in whole calendar months.
func ExpiryDate(startedAt time.Time, periodMonths int) time.Time {
	return startedAt.AddDate(0, periodMonths, 0)
}

// Cancel flips the subscription to cancelled. Access runs until EndsAt.
func (service *SubscriptionService) Cancel(ctx context.Context, userID primitive.ObjectID) (int, error) {
	ctx, span := service.tracer.Start(ctx, "SubscriptionService.Cancel")
	defer span.End()

	subscription, err := service.store.GetByUser(ctx, userID)
	if err != nil || subscription == nil {
		return http.StatusNotFound, fmt.Errorf("subscription not found")
	}
	if subscription.Status != domain.SubscriptionActive {
		return http.StatusConflict, fmt.Errorf("subscription is not active")
	}

	subscription.Status = domain.SubscriptionCancelled
	err = service.store.Upsert(ctx, subscription)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return http.StatusInternalServerError, err
	}

	return http.StatusOK, nil
}

// HandleWebhook verifies the Stripe signature, maps the event onto a
// subscription status, and applies it by Stripe subscription id.
func (service *SubscriptionService) HandleWebhook(ctx context.Context, payload []byte, signature string) (int, error) {
	ctx, span := service.tracer.Start(ctx, "SubscriptionService.HandleWebhook")
	defer span.End()

	event, err := service.payments.ParseWebhookEvent(payload, signature)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		service.logger.Errorf("SubscriptionService.HandleWebhook : %s", err)
		if errors.Is(err, domain.ErrUnknownWebhookEvent) {
			// unknown events are acknowledged so Stripe stops retrying
			return http.StatusOK, nil
		}
		return http.StatusBadRequest, err
	}

	service.logger.Infof("SubscriptionService.HandleWebhook : %s -> %s", event.Type, event.Status)

	err = service.store.UpdateStatusByStripeID(ctx, event.StripeSubscriptionID, domain.SubscriptionStatus(event.Status))
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return http.StatusNotFound, err
	}

	return http.StatusOK, nil
}

// HasActiveSubscription reports whether the user currently holds a usable
// subscription, counting cancelled ones that have not yet reached EndsAt.
func (service *SubscriptionService) HasActiveSubscription(ctx context.Context, userID primitive.ObjectID) bool {
	ctx, span := service.tracer.Start(ctx, "SubscriptionService.HasActiveSubscription")
	defer span.End()

	subscription, err := service.store.GetByUser(ctx, userID)
	if err != nil || subscription == nil {
		return false
	}

	switch subscription.Status {
	case domain.SubscriptionActive:
		return true
	case domain.SubscriptionCancelled:
		return time.Now().Before(subscription.EndsAt)
	default:
		return false
	}
}
