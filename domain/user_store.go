package domain

import (
	"context"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type UserStore interface {
	Register(ctx context.Context, user *User) (*User, error)
	Get(ctx context.Context, id primitive.ObjectID) (*User, error)
	GetOneUser(ctx context.Context, username string) (*User, error)
	GetByEmail(ctx context.Context, email string) (*User, error)
	GetAll(ctx context.Context) ([]*User, error)
	UpdateUser(ctx context.Context, user *User) (*User, error)
	UpdatePassword(ctx context.Context, id primitive.ObjectID, passwordHash string) error
	SetVerified(ctx context.Context, username string) error
	UpdatePreferences(ctx context.Context, id primitive.ObjectID, preferences *Preferences) error
	UpdateLocation(ctx context.Context, id primitive.ObjectID, location *GeoPoint, postalCode, countryCode string) error
	DeleteAccount(ctx context.Context, id primitive.ObjectID) error
}
