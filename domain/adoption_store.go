package domain

import (
	"context"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type AdoptionStore interface {
	Insert(ctx context.Context, adoption *Adoption) (*Adoption, error)
	Get(ctx context.Context, id primitive.ObjectID) (*Adoption, error)
	GetByCat(ctx context.Context, catID primitive.ObjectID) ([]*Adoption, error)
	Complete(ctx context.Context, id primitive.ObjectID, snapshot *Cat) error
}

type PaymentStore interface {
	Insert(ctx context.Context, payment *PaymentRecord) (*PaymentRecord, error)
	GetByPayer(ctx context.Context, payerID primitive.ObjectID) ([]*PaymentRecord, error)
}
