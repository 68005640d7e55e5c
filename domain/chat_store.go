package domain

import (
	"context"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type ChatStore interface {
	Insert(ctx context.Context, chat *Chat) (*Chat, error)
	Get(ctx context.Context, id primitive.ObjectID) (*Chat, error)
	GetByUser(ctx context.Context, userID primitive.ObjectID) ([]*Chat, error)
	GetByCat(ctx context.Context, catID primitive.ObjectID) ([]*Chat, error)
	AppendMessage(ctx context.Context, id primitive.ObjectID, message *Message) error
	UpdateStatus(ctx context.Context, id primitive.ObjectID, status ChatStatus) error
	MarkSnapshot(ctx context.Context, id primitive.ObjectID) error
}
