package domain

import (
	"context"
	"errors"
)

// External collaborators are injected so handlers and services never call
// third-party SDKs directly.

// ErrUnknownWebhookEvent marks webhook events the provider does not map onto
// a subscription transition. Webhook handlers acknowledge these instead of
// failing so the sender stops retrying them.
var ErrUnknownWebhookEvent = errors.New("unhandled webhook event type")

type Geocoder interface {
	Geocode(ctx context.Context, postalCode, countryCode string) (*GeoPoint, error)
}

type Mailer interface {
	Send(to, subject, body string) error
}

type PaymentEvent struct {
	Type                 string
	StripeSubscriptionID string
	Status               string
}

type PaymentProvider interface {
	CreateCheckoutSession(ctx context.Context, customerEmail, priceID string) (string, error)
	ParseWebhookEvent(payload []byte, signature string) (*PaymentEvent, error)
}
