package domain

import (
	"context"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type RatingStore interface {
	Upsert(ctx context.Context, rating *Rating) error
	GetBySeller(ctx context.Context, sellerID primitive.ObjectID) ([]*Rating, error)
}
