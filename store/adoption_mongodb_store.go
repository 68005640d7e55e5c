package store

import (
	"context"

	"cat_connect/domain"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.opentelemetry.io/otel/trace"
)

const (
	AdoptionsCollection = "adoptions"
	PaymentsCollection  = "payments"
)

type AdoptionMongoDBStore struct {
	adoptions *mongo.Collection
	tracer    trace.Tracer
}

func NewAdoptionMongoDBStore(client *mongo.Client, tracer trace.Tracer) domain.AdoptionStore {
	adoptions := client.Database(DATABASE).Collection(AdoptionsCollection)
	return &AdoptionMongoDBStore{
		adoptions: adoptions,
		tracer:    tracer,
	}
}

func (store *AdoptionMongoDBStore) Insert(ctx context.Context, adoption *domain.Adoption) (*domain.Adoption, error) {
	ctx, span := store.tracer.Start(ctx, "AdoptionStore.Insert")
	defer span.End()

	adoption.ID = primitive.NewObjectID()
	result, err := store.adoptions.InsertOne(ctx, adoption)
	if err != nil {
		return nil, err
	}
	adoption.ID = result.InsertedID.(primitive.ObjectID)
	return adoption, nil
}

func (store *AdoptionMongoDBStore) Get(ctx context.Context, id primitive.ObjectID) (*domain.Adoption, error) {
	ctx, span := store.tracer.Start(ctx, "AdoptionStore.Get")
	defer span.End()

	var adoption domain.Adoption
	err := store.adoptions.FindOne(ctx, bson.M{"_id": id}).Decode(&adoption)
	if err != nil {
		return nil, err
	}
	return &adoption, nil
}

func (store *AdoptionMongoDBStore) GetByCat(ctx context.Context, catID primitive.ObjectID) ([]*domain.Adoption, error) {
	ctx, span := store.tracer.Start(ctx, "AdoptionStore.GetByCat")
	defer span.End()

	cursor, err := store.adoptions.Find(ctx, bson.M{"catId": catID})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(context.TODO())

	var adoptions []*domain.Adoption
	for cursor.Next(context.TODO()) {
		var adoption domain.Adoption
		if err := cursor.Decode(&adoption); err != nil {
			return nil, err
		}
		adoptions = append(adoptions, &adoption)
	}
	return adoptions, cursor.Err()
}

// Complete flips the status one-way and freezes the cat document inside the
// adoption, since the live listing is deleted right after.
func (store *AdoptionMongoDBStore) Complete(ctx context.Context, id primitive.ObjectID, snapshot *domain.Cat) error {
	ctx, span := store.tracer.Start(ctx, "AdoptionStore.Complete")
	defer span.End()

	update := bson.M{"$set": bson.M{
		"status": domain.AdoptionCompletedStatus,
		"cat":    snapshot,
	}}
	_, err := store.adoptions.UpdateOne(ctx, bson.M{"_id": id}, update)
	return err
}

type PaymentMongoDBStore struct {
	payments *mongo.Collection
	tracer   trace.Tracer
}

func NewPaymentMongoDBStore(client *mongo.Client, tracer trace.Tracer) domain.PaymentStore {
	payments := client.Database(DATABASE).Collection(PaymentsCollection)
	return &PaymentMongoDBStore{
		payments: payments,
		tracer:   tracer,
	}
}

func (store *PaymentMongoDBStore) Insert(ctx context.Context, payment *domain.PaymentRecord) (*domain.PaymentRecord, error) {
	ctx, span := store.tracer.Start(ctx, "PaymentStore.Insert")
	defer span.End()

	payment.ID = primitive.NewObjectID()
	result, err := store.payments.InsertOne(ctx, payment)
	if err != nil {
		return nil, err
	}
	payment.ID = result.InsertedID.(primitive.ObjectID)
	return payment, nil
}

func (store *PaymentMongoDBStore) GetByPayer(ctx context.Context, payerID primitive.ObjectID) ([]*domain.PaymentRecord, error) {
	ctx, span := store.tracer.Start(ctx, "PaymentStore.GetByPayer")
	defer span.End()

	cursor, err := store.payments.Find(ctx, bson.M{"payerId": payerID})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(context.TODO())

	var payments []*domain.PaymentRecord
	for cursor.Next(context.TODO()) {
		var payment domain.PaymentRecord
		if err := cursor.Decode(&payment); err != nil {
			return nil, err
		}
		payments = append(payments, &payment)
	}
	return payments, cursor.Err()
}
