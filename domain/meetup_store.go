package domain

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type MeetupStore interface {
	Insert(ctx context.Context, meetup *Meetup) (*Meetup, error)
	Get(ctx context.Context, id primitive.ObjectID) (*Meetup, error)
	GetAll(ctx context.Context) ([]*Meetup, error)
	Update(ctx context.Context, meetup *Meetup) error
	Delete(ctx context.Context, id primitive.ObjectID) error
	DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error)
}
