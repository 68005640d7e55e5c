package application

import (
	"context"
	"fmt"
	"math"
	"net/http"
	"time"

	"cat_connect/domain"

	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

type SellerRatingSummary struct {
	SellerID primitive.ObjectID `json:"sellerId"`
	Average  float64            `json:"average"`
	Count    int                `json:"count"`
	Ratings  []*domain.Rating   `json:"ratings"`
}

type RatingService struct {
	store  domain.RatingStore
	users  domain.UserStore
	tracer trace.Tracer
	logger *logrus.Logger
}

func NewRatingService(store domain.RatingStore, users domain.UserStore, tracer trace.Tracer, logger *logrus.Logger) *RatingService {
	return &RatingService{
		store:  store,
		users:  users,
		tracer: tracer,
		logger: logger,
	}
}

// Rate upserts the rater's rating for a seller. One rating per rater and
// seller, repeat submissions overwrite.
func (service *RatingService) Rate(ctx context.Context, rating *domain.Rating) (int, error) {
	ctx, span := service.tracer.Start(ctx, "RatingService.Rate")
	defer span.End()

	service.logger.Infoln("RatingService.Rate : Rate service reached")

	if err := rating.ValidateRating(); err != nil {
		return http.StatusBadRequest, err
	}
	if rating.RaterID == rating.SellerID {
		return http.StatusBadRequest, fmt.Errorf("cannot rate yourself")
	}

	seller, err := service.users.Get(ctx, rating.SellerID)
	if err != nil || seller == nil {
		return http.StatusNotFound, fmt.Errorf("seller not found")
	}

	rating.CreatedAt = time.Now()

	err = service.store.Upsert(ctx, rating)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return http.StatusInternalServerError, err
	}

	return http.StatusOK, nil
}

// GetSellerSummary returns all ratings for a seller along with the average
// rounded to one decimal.
func (service *RatingService) GetSellerSummary(ctx context.Context, sellerID primitive.ObjectID) (*SellerRatingSummary, error) {
	ctx, span := service.tracer.Start(ctx, "RatingService.GetSellerSummary")
	defer span.End()

	ratings, err := service.store.GetBySeller(ctx, sellerID)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	summary := &SellerRatingSummary{
		SellerID: sellerID,
		Count:    len(ratings),
		Ratings:  ratings,
	}

	if len(ratings) > 0 {
		var total int
		for _, rating := range ratings {
			total += rating.Stars
		}
		average := float64(total) / float64(len(ratings))
		summary.Average = math.Round(average*10) / 10
	}

	return summary, nil
}
