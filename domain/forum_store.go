package domain

import (
	"context"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type ForumStore interface {
	Insert(ctx context.Context, post *ForumPost) (*ForumPost, error)
	Get(ctx context.Context, id primitive.ObjectID) (*ForumPost, error)
	GetAll(ctx context.Context) ([]*ForumPost, error)
	AppendComment(ctx context.Context, id primitive.ObjectID, comment *Comment) error
	Delete(ctx context.Context, id primitive.ObjectID) error
}
