package domain

import (
	"context"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type CatStore interface {
	Insert(ctx context.Context, cat *Cat) (*Cat, error)
	Get(ctx context.Context, id primitive.ObjectID) (*Cat, error)
	GetBySeller(ctx context.Context, sellerID primitive.ObjectID) ([]*Cat, error)
	GetAllPublished(ctx context.Context) ([]*Cat, error)
	Update(ctx context.Context, cat *Cat) error
	UpdateStatus(ctx context.Context, id primitive.ObjectID, status CatStatus) error
	Delete(ctx context.Context, id primitive.ObjectID) error
	// FindNearby returns published cats within radiusKm of coordinates
	// ([longitude, latitude]), ordered by proximity.
	FindNearby(ctx context.Context, coordinates []float64, radiusKm float64) ([]*Cat, error)
	EnsureIndexes(ctx context.Context) error
}
