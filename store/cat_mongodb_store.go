package store

import (
	"context"

	"cat_connect/domain"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const (
	DATABASE       = "catconnect"
	CatsCollection = "cats"
)

type CatMongoDBStore struct {
	cats   *mongo.Collection
	tracer trace.Tracer
}

func NewCatMongoDBStore(client *mongo.Client, tracer trace.Tracer) domain.CatStore {
	cats := client.Database(DATABASE).Collection(CatsCollection)
	return &CatMongoDBStore{
		cats:   cats,
		tracer: tracer,
	}
}

// The 2dsphere index backs the $near pre-filter in FindNearby.
func (store *CatMongoDBStore) EnsureIndexes(ctx context.Context) error {
	index := mongo.IndexModel{
		Keys: bson.D{{Key: "location", Value: "2dsphere"}},
	}
	_, err := store.cats.Indexes().CreateOne(ctx, index)
	return err
}

func (store *CatMongoDBStore) Insert(ctx context.Context, cat *domain.Cat) (*domain.Cat, error) {
	ctx, span := store.tracer.Start(ctx, "CatStore.Insert")
	defer span.End()

	cat.ID = primitive.NewObjectID()
	result, err := store.cats.InsertOne(ctx, cat)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}
	cat.ID = result.InsertedID.(primitive.ObjectID)
	return cat, nil
}

func (store *CatMongoDBStore) Get(ctx context.Context, id primitive.ObjectID) (*domain.Cat, error) {
	ctx, span := store.tracer.Start(ctx, "CatStore.Get")
	defer span.End()

	filter := bson.M{"_id": id}
	return store.filterOne(filter)
}

func (store *CatMongoDBStore) GetBySeller(ctx context.Context, sellerID primitive.ObjectID) ([]*domain.Cat, error) {
	ctx, span := store.tracer.Start(ctx, "CatStore.GetBySeller")
	defer span.End()

	filter := bson.M{"sellerId": sellerID}
	return store.filter(filter)
}

func (store *CatMongoDBStore) GetAllPublished(ctx context.Context) ([]*domain.Cat, error) {
	ctx, span := store.tracer.Start(ctx, "CatStore.GetAllPublished")
	defer span.End()

	filter := bson.M{"status": domain.CatPublished}
	return store.filter(filter)
}

func (store *CatMongoDBStore) Update(ctx context.Context, cat *domain.Cat) error {
	ctx, span := store.tracer.Start(ctx, "CatStore.Update")
	defer span.End()

	_, err := store.cats.UpdateOne(ctx, bson.M{"_id": cat.ID}, bson.M{"$set": cat})
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return err
	}
	return nil
}

func (store *CatMongoDBStore) UpdateStatus(ctx context.Context, id primitive.ObjectID, status domain.CatStatus) error {
	ctx, span := store.tracer.Start(ctx, "CatStore.UpdateStatus")
	defer span.End()

	_, err := store.cats.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": bson.M{"status": status}})
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return err
	}
	return nil
}

func (store *CatMongoDBStore) Delete(ctx context.Context, id primitive.ObjectID) error {
	ctx, span := store.tracer.Start(ctx, "CatStore.Delete")
	defer span.End()

	_, err := store.cats.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return err
	}
	return nil
}

// FindNearby issues a single $near query against the 2dsphere index, bounded
// by radiusKm converted to meters. Only published cats are candidates. An
// empty result is not an error.
func (store *CatMongoDBStore) FindNearby(ctx context.Context, coordinates []float64, radiusKm float64) ([]*domain.Cat, error) {
	ctx, span := store.tracer.Start(ctx, "CatStore.FindNearby")
	defer span.End()

	filter := bson.M{
		"status": domain.CatPublished,
		"location": bson.M{
			"$near": bson.M{
				"$geometry": bson.M{
					"type":        "Point",
					"coordinates": coordinates,
				},
				"$maxDistance": radiusKm * 1000,
			},
		},
	}

	cats, err := store.filter(filter)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}
	return cats, nil
}

func (store *CatMongoDBStore) filter(filter interface{}) ([]*domain.Cat, error) {
	cursor, err := store.cats.Find(context.TODO(), filter)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(context.TODO())

	return decodeCats(cursor)
}

func (store *CatMongoDBStore) filterOne(filter interface{}) (cat *domain.Cat, err error) {
	result := store.cats.FindOne(context.TODO(), filter)
	err = result.Decode(&cat)
	return
}

func decodeCats(cursor *mongo.Cursor) (cats []*domain.Cat, err error) {
	for cursor.Next(context.TODO()) {
		var cat domain.Cat
		err = cursor.Decode(&cat)
		if err != nil {
			return
		}
		cats = append(cats, &cat)
	}
	err = cursor.Err()
	return
}
