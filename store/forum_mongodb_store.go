package store

import (
	"context"

	"cat_connect/domain"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.opentelemetry.io/otel/trace"
)

const ForumCollection = "forumPosts"

type ForumMongoDBStore struct {
	posts  *mongo.Collection
	tracer trace.Tracer
}

func NewForumMongoDBStore(client *mongo.Client, tracer trace.Tracer) domain.ForumStore {
	posts := client.Database(DATABASE).Collection(ForumCollection)
	return &ForumMongoDBStore{
		posts:  posts,
		tracer: tracer,
	}
}

func (store *ForumMongoDBStore) Insert(ctx context.Context, post *domain.ForumPost) (*domain.ForumPost, error) {
	ctx, span := store.tracer.Start(ctx, "ForumStore.Insert")
	defer span.End()

	post.ID = primitive.NewObjectID()
	result, err := store.posts.InsertOne(ctx, post)
	if err != nil {
		return nil, err
	}
	post.ID = result.InsertedID.(primitive.ObjectID)
	return post, nil
}

func (store *ForumMongoDBStore) Get(ctx context.Context, id primitive.ObjectID) (*domain.ForumPost, error) {
	ctx, span := store.tracer.Start(ctx, "ForumStore.Get")
	defer span.End()

	filter := bson.M{"_id": id}
	return store.filterOne(filter)
}

func (store *ForumMongoDBStore) GetAll(ctx context.Context) ([]*domain.ForumPost, error) {
	ctx, span := store.tracer.Start(ctx, "ForumStore.GetAll")
	defer span.End()

	filter := bson.D{{}}
	return store.filter(filter)
}

func (store *ForumMongoDBStore) AppendComment(ctx context.Context, id primitive.ObjectID, comment *domain.Comment) error {
	ctx, span := store.tracer.Start(ctx, "ForumStore.AppendComment")
	defer span.End()

	update := bson.M{"$push": bson.M{"comments": comment}}
	_, err := store.posts.UpdateOne(ctx, bson.M{"_id": id}, update)
	return err
}

func (store *ForumMongoDBStore) Delete(ctx context.Context, id primitive.ObjectID) error {
	ctx, span := store.tracer.Start(ctx, "ForumStore.Delete")
	defer span.End()

	_, err := store.posts.DeleteOne(ctx, bson.M{"_id": id})
	return err
}

func (store *ForumMongoDBStore) filter(filter interface{}) ([]*domain.ForumPost, error) {
	cursor, err := store.posts.Find(context.TODO(), filter)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(context.TODO())

	return decodePosts(cursor)
}

func (store *ForumMongoDBStore) filterOne(filter interface{}) (post *domain.ForumPost, err error) {
	result := store.posts.FindOne(context.TODO(), filter)
	err = result.Decode(&post)
	return
}

func decodePosts(cursor *mongo.Cursor) (posts []*domain.ForumPost, err error) {
	for cursor.Next(context.TODO()) {
		var post domain.ForumPost
		err = cursor.Decode(&post)
		if err != nil {
			return
		}
		posts = append(posts, &post)
	}
	err = cursor.Err()
	return
}
