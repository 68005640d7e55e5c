package store

import (
	"context"
	"time"

	"cat_connect/domain"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.opentelemetry.io/otel/trace"
)

const MeetupsCollection = "meetups"

type MeetupMongoDBStore struct {
	meetups *mongo.Collection
	tracer  trace.Tracer
}

func NewMeetupMongoDBStore(client *mongo.Client, tracer trace.Tracer) domain.MeetupStore {
	meetups := client.Database(DATABASE).Collection(MeetupsCollection)
	return &MeetupMongoDBStore{
		meetups: meetups,
		tracer:  tracer,
	}
}

func (store *MeetupMongoDBStore) Insert(ctx context.Context, meetup *domain.Meetup) (*domain.Meetup, error) {
	ctx, span := store.tracer.Start(ctx, "MeetupStore.Insert")
	defer span.End()

	meetup.ID = primitive.NewObjectID()
	result, err := store.meetups.InsertOne(ctx, meetup)
	if err != nil {
		return nil, err
	}
	meetup.ID = result.InsertedID.(primitive.ObjectID)
	return meetup, nil
}

func (store *MeetupMongoDBStore) Get(ctx context.Context, id primitive.ObjectID) (*domain.Meetup, error) {
	ctx, span := store.tracer.Start(ctx, "MeetupStore.Get")
	defer span.End()

	filter := bson.M{"_id": id}
	return store.filterOne(filter)
}

func (store *MeetupMongoDBStore) GetAll(ctx context.Context) ([]*domain.Meetup, error) {
	ctx, span := store.tracer.Start(ctx, "MeetupStore.GetAll")
	defer span.End()

	filter := bson.D{{}}
	return store.filter(filter)
}

func (store *MeetupMongoDBStore) Update(ctx context.Context, meetup *domain.Meetup) error {
	ctx, span := store.tracer.Start(ctx, "MeetupStore.Update")
	defer span.End()

	_, err := store.meetups.UpdateOne(ctx, bson.M{"_id": meetup.ID}, bson.M{"$set": meetup})
	return err
}

func (store *MeetupMongoDBStore) Delete(ctx context.Context, id primitive.ObjectID) error {
	ctx, span := store.tracer.Start(ctx, "MeetupStore.Delete")
	defer span.End()

	_, err := store.meetups.DeleteOne(ctx, bson.M{"_id": id})
	return err
}

// Single bulk delete used by the daily cleanup job.
func (store *MeetupMongoDBStore) DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	ctx, span := store.tracer.Start(ctx, "MeetupStore.DeleteOlderThan")
	defer span.End()

	result, err := store.meetups.DeleteMany(ctx, bson.M{"date": bson.M{"$lt": cutoff}})
	if err != nil {
		return 0, err
	}
	return result.DeletedCount, nil
}

func (store *MeetupMongoDBStore) filter(filter interface{}) ([]*domain.Meetup, error) {
	cursor, err := store.meetups.Find(context.TODO(), filter)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(context.TODO())

	return decodeMeetups(cursor)
}

func (store *MeetupMongoDBStore) filterOne(filter interface{}) (meetup *domain.Meetup, err error) {
	result := store.meetups.FindOne(context.TODO(), filter)
	err = result.Decode(&meetup)
	return
}

func decodeMeetups(cursor *mongo.Cursor) (meetups []*domain.Meetup, err error) {
	for cursor.Next(context.TODO()) {
		var meetup domain.Meetup
		err = cursor.Decode(&meetup)
		if err != nil {
			return
		}
		meetups = append(meetups, &meetup)
	}
	err = cursor.Err()
	return
}
