package store

import (
	"context"
	"errors"

	"cat_connect/domain"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.opentelemetry.io/otel/trace"
)

const UsersCollection = "users"

type UserMongoDBStore struct {
	users  *mongo.Collection
	tracer trace.Tracer
}

func NewUserMongoDBStore(client *mongo.Client, tracer trace.Tracer) domain.UserStore {
	users := client.Database(DATABASE).Collection(UsersCollection)
	return &UserMongoDBStore{
		users:  users,
		tracer: tracer,
	}
}

func (store *UserMongoDBStore) Register(ctx context.Context, user *domain.User) (*domain.User, error) {
	ctx, span := store.tracer.Start(ctx, "UserStore.Register")
	defer span.End()

	user.ID = primitive.NewObjectID()
	result, err := store.users.InsertOne(ctx, user)
	if err != nil {
		return nil, err
	}
	user.ID = result.InsertedID.(primitive.ObjectID)
	return user, nil
}

func (store *UserMongoDBStore) Get(ctx context.Context, id primitive.ObjectID) (*domain.User, error) {
	ctx, span := store.tracer.Start(ctx, "UserStore.Get")
	defer span.End()

	filter := bson.M{"_id": id}
	return store.filterOne(filter)
}

func (store *UserMongoDBStore) GetOneUser(ctx context.Context, username string) (*domain.User, error) {
	ctx, span := store.tracer.Start(ctx, "UserStore.GetOneUser")
	defer span.End()

	filter := bson.M{"username": username}
	return store.filterOne(filter)
}

func (store *UserMongoDBStore) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	ctx, span := store.tracer.Start(ctx, "UserStore.GetByEmail")
	defer span.End()

	filter := bson.M{"email": email}
	return store.filterOne(filter)
}

func (store *UserMongoDBStore) GetAll(ctx context.Context) ([]*domain.User, error) {
	ctx, span := store.tracer.Start(ctx, "UserStore.GetAll")
	defer span.End()

	filter := bson.D{{}}
	return store.filter(filter)
}

func (store *UserMongoDBStore) UpdateUser(ctx context.Context, user *domain.User) (*domain.User, error) {
	ctx, span := store.tracer.Start(ctx, "UserStore.UpdateUser")
	defer span.End()

	updateData := bson.M{
		"email":       user.Email,
		"avatar":      user.Avatar,
		"postalCode":  user.PostalCode,
		"countryCode": user.CountryCode,
	}

	filter := bson.M{"_id": user.ID}
	update := bson.M{"$set": updateData}

	result, err := store.users.UpdateOne(ctx, filter, update)
	if err != nil {
		return nil, err
	}

	if result.MatchedCount == 0 {
		return nil, errors.New("No user updated")
	}

	return user, nil
}

func (store *UserMongoDBStore) UpdatePassword(ctx context.Context, id primitive.ObjectID, passwordHash string) error {
	ctx, span := store.tracer.Start(ctx, "UserStore.UpdatePassword")
	defer span.End()

	_, err := store.users.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": bson.M{"password": passwordHash}})
	return err
}

func (store *UserMongoDBStore) SetVerified(ctx context.Context, username string) error {
	ctx, span := store.tracer.Start(ctx, "UserStore.SetVerified")
	defer span.End()

	result, err := store.users.UpdateOne(ctx, bson.M{"username": username}, bson.M{"$set": bson.M{"verified": true}})
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return errors.New("user not found")
	}
	return nil
}

func (store *UserMongoDBStore) UpdatePreferences(ctx context.Context, id primitive.ObjectID, preferences *domain.Preferences) error {
	ctx, span := store.tracer.Start(ctx, "UserStore.UpdatePreferences")
	defer span.End()

	_, err := store.users.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": bson.M{"preferences": preferences}})
	return err
}

func (store *UserMongoDBStore) UpdateLocation(ctx context.Context, id primitive.ObjectID, location *domain.GeoPoint, postalCode, countryCode string) error {
	ctx, span := store.tracer.Start(ctx, "UserStore.UpdateLocation")
	defer span.End()

	update := bson.M{"$set": bson.M{
		"location":    location,
		"postalCode":  postalCode,
		"countryCode": countryCode,
	}}
	_, err := store.users.UpdateOne(ctx, bson.M{"_id": id}, update)
	return err
}

func (store *UserMongoDBStore) DeleteAccount(ctx context.Context, id primitive.ObjectID) error {
	ctx, span := store.tracer.Start(ctx, "UserStore.DeleteAccount")
	defer span.End()

	result, err := store.users.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if result.DeletedCount == 0 {
		return errors.New("No user deleted")
	}
	return nil
}

func (store *UserMongoDBStore) filter(filter interface{}) ([]*domain.User, error) {
	cursor, err := store.users.Find(context.TODO(), filter)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(context.TODO())

	return decodeUsers(cursor)
}

func (store *UserMongoDBStore) filterOne(filter interface{}) (user *domain.User, err error) {
	result := store.users.FindOne(context.TODO(), filter)
	err = result.Decode(&user)
	return
}

func decodeUsers(cursor *mongo.Cursor) (users []*domain.User, err error) {
	for cursor.Next(context.TODO()) {
		var user domain.User
		err = cursor.Decode(&user)
		if err != nil {
			return
		}
		users = append(users, &user)
	}
	err = cursor.Err()
	return
}
