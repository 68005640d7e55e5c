package domain

import (
	"context"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type ReportStore interface {
	Insert(ctx context.Context, report *Report) (*Report, error)
	GetAll(ctx context.Context) ([]*Report, error)
	UpdateStatus(ctx context.Context, id primitive.ObjectID, status ReportStatus) error
}
