package store

import (
	"context"

	"cat_connect/domain"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.opentelemetry.io/otel/trace"
)

const ChatsCollection = "chats"

type ChatMongoDBStore struct {
	chats  *mongo.Collection
	tracer trace.Tracer
}

func NewChatMongoDBStore(client *mongo.Client, tracer trace.Tracer) domain.ChatStore {
	chats := client.Database(DATABASE).Collection(ChatsCollection)
	return &ChatMongoDBStore{
		chats:  chats,
		tracer: tracer,
	}
}

func (store *ChatMongoDBStore) Insert(ctx context.Context, chat *domain.Chat) (*domain.Chat, error) {
	ctx, span := store.tracer.Start(ctx, "ChatStore.Insert")
	defer span.End()

	chat.ID = primitive.NewObjectID()
	result, err := store.chats.InsertOne(ctx, chat)
	if err != nil {
		return nil, err
	}
	chat.ID = result.InsertedID.(primitive.ObjectID)
	return chat, nil
}

func (store *ChatMongoDBStore) Get(ctx context.Context, id primitive.ObjectID) (*domain.Chat, error) {
	ctx, span := store.tracer.Start(ctx, "ChatStore.Get")
	defer span.End()

	filter := bson.M{"_id": id}
	return store.filterOne(filter)
}

func (store *ChatMongoDBStore) GetByUser(ctx context.Context, userID primitive.ObjectID) ([]*domain.Chat, error) {
	ctx, span := store.tracer.Start(ctx, "ChatStore.GetByUser")
	defer span.End()

	filter := bson.M{"participants": userID}
	return store.filter(filter)
}

func (store *ChatMongoDBStore) GetByCat(ctx context.Context, catID primitive.ObjectID) ([]*domain.Chat, error) {
	ctx, span := store.tracer.Start(ctx, "ChatStore.GetByCat")
	defer span.End()

	filter := bson.M{"catId": catID}
	return store.filter(filter)
}

func (store *ChatMongoDBStore) AppendMessage(ctx context.Context, id primitive.ObjectID, message *domain.Message) error {
	ctx, span := store.tracer.Start(ctx, "ChatStore.AppendMessage")
	defer span.End()

	update := bson.M{"$push": bson.M{"messages": message}}
	_, err := store.chats.UpdateOne(ctx, bson.M{"_id": id}, update)
	return err
}

func (store *ChatMongoDBStore) UpdateStatus(ctx context.Context, id primitive.ObjectID, status domain.ChatStatus) error {
	ctx, span := store.tracer.Start(ctx, "ChatStore.UpdateStatus")
	defer span.End()

	_, err := store.chats.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": bson.M{"status": status}})
	return err
}

func (store *ChatMongoDBStore) MarkSnapshot(ctx context.Context, id primitive.ObjectID) error {
	ctx, span := store.tracer.Start(ctx, "ChatStore.MarkSnapshot")
	defer span.End()

	_, err := store.chats.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": bson.M{"snapshot": true}})
	return err
}

func (store *ChatMongoDBStore) filter(filter interface{}) ([]*domain.Chat, error) {
	cursor, err := store.chats.Find(context.TODO(), filter)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(context.TODO())

	return decodeChats(cursor)
}

func (store *ChatMongoDBStore) filterOne(filter interface{}) (chat *domain.Chat, err error) {
	result := store.chats.FindOne(context.TODO(), filter)
	err = result.Decode(&chat)
	return
}

func decodeChats(cursor *mongo.Cursor) (chats []*domain.Chat, err error) {
	for cursor.Next(context.TODO()) {
		var chat domain.Chat
		err = cursor.Decode(&chat)
		if err != nil {
			return
		}
		chats = append(chats, &chat)
	}
	err = cursor.Err()
	return
}
