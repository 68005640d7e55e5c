package store

import (
	"context"

	"cat_connect/domain"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.opentelemetry.io/otel/trace"
)

const RatingsCollection = "ratings"

type RatingMongoDBStore struct {
	ratings *mongo.Collection
	tracer  trace.Tracer
}

func NewRatingMongoDBStore(client *mongo.Client, tracer trace.Tracer) domain.RatingStore {
	ratings := client.Database(DATABASE).Collection(RatingsCollection)
	return &RatingMongoDBStore{
		ratings: ratings,
		tracer:  tracer,
	}
}

// One rating per rater/seller pair; a second submission replaces the first.
func (store *RatingMongoDBStore) Upsert(ctx context.Context, rating *domain.Rating) error {
	ctx, span := store.tracer.Start(ctx, "RatingStore.Upsert")
	defer span.End()

	if rating.ID.IsZero() {
		rating.ID = primitive.NewObjectID()
	}

	filter := bson.M{"raterId": rating.RaterID, "sellerId": rating.SellerID}
	update := bson.M{"$set": bson.M{
		"_id":       rating.ID,
		"raterId":   rating.RaterID,
		"sellerId":  rating.SellerID,
		"stars":     rating.Stars,
		"comment":   rating.Comment,
		"createdAt": rating.CreatedAt,
	}}
	opts := options.Update().SetUpsert(true)

	_, err := store.ratings.UpdateOne(ctx, filter, update, opts)
	return err
}

func (store *RatingMongoDBStore) GetBySeller(ctx context.Context, sellerID primitive.ObjectID) ([]*domain.Rating, error) {
	ctx, span := store.tracer.Start(ctx, "RatingStore.GetBySeller")
	defer span.End()

	cursor, err := store.ratings.Find(ctx, bson.M{"sellerId": sellerID})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(context.TODO())

	var ratings []*domain.Rating
	for cursor.Next(context.TODO()) {
		var rating domain.Rating
		if err := cursor.Decode(&rating); err != nil {
			return nil, err
		}
		ratings = append(ratings, &rating)
	}
	return ratings, cursor.Err()
}
