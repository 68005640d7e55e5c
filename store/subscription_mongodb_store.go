package store

import (
	"context"
	"errors"

	"cat_connect/domain"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.opentelemetry.io/otel/trace"
)

const (
	PlansCollection             = "subscriptions"
	UserSubscriptionsCollection = "userSubscriptions"
)

type SubscriptionMongoDBStore struct {
	plans         *mongo.Collection
	subscriptions *mongo.Collection
	tracer        trace.Tracer
}

func NewSubscriptionMongoDBStore(client *mongo.Client, tracer trace.Tracer) domain.SubscriptionStore {
	database := client.Database(DATABASE)
	return &SubscriptionMongoDBStore{
		plans:         database.Collection(PlansCollection),
		subscriptions: database.Collection(UserSubscriptionsCollection),
		tracer:        tracer,
	}
}

func (store *SubscriptionMongoDBStore) GetPlans(ctx context.Context) ([]*domain.SubscriptionPlan, error) {
	ctx, span := store.tracer.Start(ctx, "SubscriptionStore.GetPlans")
	defer span.End()

	cursor, err := store.plans.Find(ctx, bson.D{{}})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(context.TODO())

	var plans []*domain.SubscriptionPlan
	for cursor.Next(context.TODO()) {
		var plan domain.SubscriptionPlan
		if err := cursor.Decode(&plan); err != nil {
			return nil, err
		}
		plans = append(plans, &plan)
	}
	return plans, cursor.Err()
}

func (store *SubscriptionMongoDBStore) GetPlan(ctx context.Context, id primitive.ObjectID) (*domain.SubscriptionPlan, error) {
	ctx, span := store.tracer.Start(ctx, "SubscriptionStore.GetPlan")
	defer span.End()

	var plan domain.SubscriptionPlan
	err := store.plans.FindOne(ctx, bson.M{"_id": id}).Decode(&plan)
	if err != nil {
		return nil, err
	}
	return &plan, nil
}

func (store *SubscriptionMongoDBStore) InsertPlan(ctx context.Context, plan *domain.SubscriptionPlan) (*domain.SubscriptionPlan, error) {
	ctx, span := store.tracer.Start(ctx, "SubscriptionStore.InsertPlan")
	defer span.End()

	plan.ID = primitive.NewObjectID()
	result, err := store.plans.InsertOne(ctx, plan)
	if err != nil {
		return nil, err
	}
	plan.ID = result.InsertedID.(primitive.ObjectID)
	return plan, nil
}

func (store *SubscriptionMongoDBStore) GetByUser(ctx context.Context, userID primitive.ObjectID) (*domain.UserSubscription, error) {
	ctx, span := store.tracer.Start(ctx, "SubscriptionStore.GetByUser")
	defer span.End()

	var subscription domain.UserSubscription
	err := store.subscriptions.FindOne(ctx, bson.M{"userId": userID}).Decode(&subscription)
	if err != nil {
		return nil, err
	}
	return &subscription, nil
}

func (store *SubscriptionMongoDBStore) Upsert(ctx context.Context, subscription *domain.UserSubscription) error {
	ctx, span := store.tracer.Start(ctx, "SubscriptionStore.Upsert")
	defer span.End()

	if subscription.ID.IsZero() {
		subscription.ID = primitive.NewObjectID()
	}

	filter := bson.M{"userId": subscription.UserID}
	update := bson.M{"$set": subscription}
	opts := options.Update().SetUpsert(true)

	_, err := store.subscriptions.UpdateOne(ctx, filter, update, opts)
	return err
}

func (store *SubscriptionMongoDBStore) UpdateStatusByStripeID(ctx context.Context, stripeSubscriptionID string, status domain.SubscriptionStatus) error {
	ctx, span := store.tracer.Start(ctx, "SubscriptionStore.UpdateStatusByStripeID")
	defer span.End()

	filter := bson.M{"stripeSubscriptionId": stripeSubscriptionID}
	update := bson.M{"$set": bson.M{"status": status}}

	result, err := store.subscriptions.UpdateOne(ctx, filter, update)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return errors.New("no subscription for stripe id")
	}
	return nil
}
