package payments

import (
	"context"
	"encoding/json"
	"fmt"

	"cat_connect/domain"

	"github.com/sirupsen/logrus"
	"github.com/stripe/stripe-go/v76"
	"github.com/stripe/stripe-go/v76/checkout/session"
	"github.com/stripe/stripe-go/v76/webhook"
)

type StripeProvider struct {
	webhookSecret string
	successURL    string
	cancelURL     string
	logger        *logrus.Logger
}

func New(apiKey, webhookSecret, successURL, cancelURL string, logger *logrus.Logger) *StripeProvider {
	stripe.Key = apiKey
	return &StripeProvider{
		webhookSecret: webhookSecret,
		successURL:    successURL,
		cancelURL:     cancelURL,
		logger:        logger,
	}
}

func (p *StripeProvider) CreateCheckoutSession(ctx context.Context, customerEmail, priceID string) (string, error) {
	params := &stripe.CheckoutSessionParams{
		Mode:          stripe.String(string(stripe.CheckoutSessionModeSubscription)),
		CustomerEmail: stripe.String(customerEmail),
		LineItems: []*stripe.CheckoutSessionLineItemParams{
			{
				Price:    stripe.String(priceID),
				Quantity: stripe.Int64(1),
			},
		},
		SuccessURL: stripe.String(p.successURL),
		CancelURL:  stripe.String(p.cancelURL),
	}
	params.Context = ctx

	checkoutSession, err := session.New(params)
	if err != nil {
		p.logger.Errorf("StripeProvider.CreateCheckoutSession : %s", err)
		return "", err
	}

	return checkoutSession.URL, nil
}

// ParseWebhookEvent verifies the signature and maps the Stripe event onto the
// subscription status transitions the service applies. Idempotency and retry
// semantics stay on Stripe's side.
func (p *StripeProvider) ParseWebhookEvent(payload []byte, signature string) (*domain.PaymentEvent, error) {
	event, err := webhook.ConstructEvent(payload, signature, p.webhookSecret)
	if err != nil {
		p.logger.Errorf("StripeProvider.ParseWebhookEvent : signature verification failed: %s", err)
		return nil, err
	}

	var subscription struct {
		ID     string `json:"id"`
		Status string `json:"status"`
	}
	if err := json.Unmarshal(event.Data.Raw, &subscription); err != nil {
		return nil, err
	}

	paymentEvent := &domain.PaymentEvent{
		Type:                 string(event.Type),
		StripeSubscriptionID: subscription.ID,
	}

	switch event.Type {
	case "customer.subscription.created":
		paymentEvent.Status = domain.SubscriptionActive
	case "customer.subscription.deleted":
		paymentEvent.Status = domain.SubscriptionCancelled
	case "customer.subscription.updated":
		switch subscription.Status {
		case "past_due", "unpaid":
			paymentEvent.Status = domain.SubscriptionPastDue
		case "canceled":
			paymentEvent.Status = domain.SubscriptionCancelled
		case "incomplete_expired":
			paymentEvent.Status = domain.SubscriptionExpired
		default:
			paymentEvent.Status = domain.SubscriptionActive
		}
	case "invoice.payment_failed":
		paymentEvent.Status = domain.SubscriptionPastDue
	default:
		return nil, fmt.Errorf("%w: %s", domain.ErrUnknownWebhookEvent, event.Type)
	}

	return paymentEvent, nil
}
