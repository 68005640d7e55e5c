package domain

import (
	"context"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type SubscriptionStore interface {
	GetPlans(ctx context.Context) ([]*SubscriptionPlan, error)
	GetPlan(ctx context.Context, id primitive.ObjectID) (*SubscriptionPlan, error)
	InsertPlan(ctx context.Context, plan *SubscriptionPlan) (*SubscriptionPlan, error)
	GetByUser(ctx context.Context, userID primitive.ObjectID) (*UserSubscription, error)
	Upsert(ctx context.Context, subscription *UserSubscription) error
	UpdateStatusByStripeID(ctx context.Context, stripeSubscriptionID string, status SubscriptionStatus) error
}
