package application

import (
	"context"
	"fmt"
	"math"
	"net/http"
	"sort"
	"strings"

	"cat_connect/domain"
	"cat_connect/errors"

	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const (
	earthRadiusKm   = 6371.0
	defaultRadiusKm = 50.0

	outOfRadiusPenalty   = -5000.0
	shelterBonus         = 50.0
	ageBracketBonus      = 50.0
	genderBonus          = 50.0
	castratedBonus       = 50.0
	colourBonus          = 50.0
	allergyFriendlyBonus = 1000.0
	feeRangeBonus        = 2000.0
	healthStatusBonus    = 50.0
)

type ScoredCat struct {
	Cat   *domain.Cat
	Score float64
}

type MatchmakingService struct {
	cats   domain.CatStore
	users  domain.UserStore
	tracer trace.Tracer
	logger *logrus.Logger
}

func NewMatchmakingService(cats domain.CatStore, users domain.UserStore, tracer trace.Tracer, logger *logrus.Logger) *MatchmakingService {
	return &MatchmakingService{
		cats:   cats,
		users:  users,
		tracer: tracer,
		logger: logger,
	}
}

// Haversine returns the great-circle distance in kilometers between two
// [longitude, latitude] pairs. A missing or malformed pair yields +Inf so the
// candidate falls out of proximity scoring instead of blowing up the request.
func Haversine(a, b []float64) float64 {
	if len(a) < 2 || len(b) < 2 {
		return math.Inf(1)
	}

	lon1 := a[0] * math.Pi / 180
	lat1 := a[1] * math.Pi / 180
	lon2 := b[0] * math.Pi / 180
	lat2 := b[1] * math.Pi / 180

	dLat := lat2 - lat1
	dLon := lon2 - lon1

	h := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1)*math.Cos(lat2)*math.Sin(dLon/2)*math.Sin(dLon/2)

	return 2 * earthRadiusKm * math.Asin(math.Sqrt(h))
}

func ageBracketMatches(brackets []string, ageYears float64) bool {
	for _, bracket := range brackets {
		switch bracket {
		case "kitten":
			if ageYears <= 1 {
				return true
			}
		case "young":
			if ageYears > 1 && ageYears <= 3 {
				return true
			}
		case "adult":
			if ageYears > 3 && ageYears <= 8 {
				return true
			}
		case "senior":
			if ageYears > 8 {
				return true
			}
		}
	}
	return false
}

// CalculateScores annotates every candidate with an additive desirability
// score against one preference snapshot and one user coordinate. Unset
// preference fields contribute zero. Scores are request-scoped and never
// persisted.
func CalculateScores(cats []*domain.Cat, userCoordinates []float64, prefs *domain.Preferences) []ScoredCat {
	radius := defaultRadiusKm
	if prefs != nil && prefs.Radius != nil && *prefs.Radius > 0 {
		radius = *prefs.Radius
	}

	scored := make([]ScoredCat, 0, len(cats))
	for _, cat := range cats {
		var score float64

		var catCoordinates []float64
		if cat.Location != nil {
			catCoordinates = cat.Location.Coordinates
		}
		distance := Haversine(userCoordinates, catCoordinates)

		if distance <= radius {
			score += (1 - distance/radius) * 50
		} else {
			// The $near pre-filter already excludes these; kept for
			// callers that score an unfiltered list.
			score += outOfRadiusPenalty
		}

		if !math.IsInf(distance, 1) {
			cat.DistanceKm = int(math.Round(distance))
		}

		if prefs != nil {
			if prefs.SheltersOnly != nil && *prefs.SheltersOnly && cat.Shelter {
				score += shelterBonus
			}
			if len(prefs.AgeRange) > 0 && ageBracketMatches(prefs.AgeRange, cat.AgeYears) {
				score += ageBracketBonus
			}
			if prefs.Gender != nil && *prefs.Gender == cat.Sex {
				score += genderBonus
			}
			if prefs.Castrated != nil && *prefs.Castrated && cat.Sterilized {
				score += castratedBonus
			}
			// The stored colour list is compared verbatim against the
			// lower-cased cat colour, matching the original behavior.
			if len(prefs.Colour) > 0 && containsString(prefs.Colour, strings.ToLower(cat.Color)) {
				score += colourBonus
			}
			if prefs.AllergyFriendly != nil && *prefs.AllergyFriendly && cat.AllergyFriendly {
				score += allergyFriendlyBonus
			}
			if prefs.FeeMin != nil && prefs.FeeMax != nil &&
				cat.AdoptionFee >= *prefs.FeeMin && cat.AdoptionFee <= *prefs.FeeMax {
				score += feeRangeBonus
			}
			if prefs.HealthStatus != nil && *prefs.HealthStatus == cat.HealthStatus {
				score += healthStatusBonus
			}
		}

		scored = append(scored, ScoredCat{Cat: cat, Score: score})
	}

	return scored
}

func containsString(list []string, value string) bool {
	for _, item := range list {
		if item == value {
			return true
		}
	}
	return false
}

// Matchmaking loads the user's stored preferences and location, pre-filters
// candidates with a single radius-bounded geo query, scores them, and returns
// the cats sorted descending by score with the score discarded. Ties keep the
// database proximity order.
func (service *MatchmakingService) Matchmaking(ctx context.Context, userID primitive.ObjectID) ([]*domain.Cat, int, error) {
	ctx, span := service.tracer.Start(ctx, "MatchmakingService.Matchmaking")
	defer span.End()

	service.logger.Infoln("MatchmakingService.Matchmaking : Matchmaking service reached")

	user, err := service.users.Get(ctx, userID)
	if err != nil || user == nil {
		span.SetStatus(codes.Error, errors.MatchmakingNotFound)
		return nil, http.StatusNotFound, fmt.Errorf(errors.MatchmakingNotFound)
	}

	if user.Preferences == nil || user.Location == nil || len(user.Location.Coordinates) < 2 {
		span.SetStatus(codes.Error, errors.MatchmakingNotFound)
		return nil, http.StatusNotFound, fmt.Errorf(errors.MatchmakingNotFound)
	}

	prefs := user.Preferences
	radius := defaultRadiusKm
	if prefs.Radius != nil && *prefs.Radius > 0 {
		radius = *prefs.Radius
	}

	candidates, err := service.cats.FindNearby(ctx, user.Location.Coordinates, radius)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return nil, http.StatusInternalServerError, err
	}

	// candidates the user is selling are never their own matches
	filtered := make([]*domain.Cat, 0, len(candidates))
	for _, cat := range candidates {
		if cat.SellerID != user.ID {
			filtered = append(filtered, cat)
		}
	}

	scored := CalculateScores(filtered, user.Location.Coordinates, prefs)

	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].Score > scored[j].Score
	})

	cats := make([]*domain.Cat, 0, len(scored))
	for _, entry := range scored {
		cats = append(cats, entry.Cat)
	}

	service.populateSellers(ctx, cats)

	return cats, http.StatusOK, nil
}

// seller name and avatar ride along with each match
func (service *MatchmakingService) populateSellers(ctx context.Context, cats []*domain.Cat) {
	sellers := make(map[primitive.ObjectID]*domain.User)
	for _, cat := range cats {
		seller, ok := sellers[cat.SellerID]
		if !ok {
			seller, _ = service.users.Get(ctx, cat.SellerID)
			sellers[cat.SellerID] = seller
		}
		if seller != nil {
			cat.SellerName = seller.Username
			cat.SellerAvatar = seller.Avatar
		}
	}
}
