package application

import (
	"context"
	"math"
	"net/http"
	"testing"

	"cat_connect/domain"
	"cat_connect/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

var (
	berlin  = []float64{13.405, 52.52}
	potsdam = []float64{13.0645, 52.3906}
	hamburg = []float64{9.9937, 53.5511}
)

func floatPtr(v float64) *float64 { return &v }
func boolPtr(v bool) *bool        { return &v }
func stringPtr(v string) *string  { return &v }

func TestHaversineZeroAtIdentity(t *testing.T) {
	assert.InDelta(t, 0, Haversine(berlin, berlin), 1e-9)
}

func TestHaversineSymmetry(t *testing.T) {
	assert.InDelta(t, Haversine(berlin, hamburg), Haversine(hamburg, berlin), 1e-9)
}

func TestHaversineKnownDistance(t *testing.T) {
	// Berlin to Hamburg is roughly 255 km
	distance := Haversine(berlin, hamburg)
	assert.InDelta(t, 255, distance, 5)
}

func TestHaversineMissingCoordinates(t *testing.T) {
	assert.True(t, math.IsInf(Haversine(nil, berlin), 1))
	assert.True(t, math.IsInf(Haversine(berlin, []float64{13.0}), 1))
}

func TestCalculateScoresProximityFullAtZeroDistance(t *testing.T) {
	cat := &domain.Cat{ID: primitive.NewObjectID(), Location: domain.NewGeoPoint(berlin[0], berlin[1])}

	scored := CalculateScores([]*domain.Cat{cat}, berlin, &domain.Preferences{})

	require.Len(t, scored, 1)
	assert.InDelta(t, 50, scored[0].Score, 1e-9)
	assert.Equal(t, 0, cat.DistanceKm)
}

func TestCalculateScoresZeroAtExactRadius(t *testing.T) {
	cat := &domain.Cat{ID: primitive.NewObjectID(), Location: domain.NewGeoPoint(potsdam[0], potsdam[1])}
	// a radius of exactly the separation keeps the candidate inside, with a
	// distance component of 0 rather than the out-of-radius penalty
	radius := Haversine(berlin, potsdam)
	prefs := &domain.Preferences{Radius: &radius}

	scored := CalculateScores([]*domain.Cat{cat}, berlin, prefs)

	require.Len(t, scored, 1)
	assert.InDelta(t, 0, scored[0].Score, 1e-9)
}

func TestCalculateScoresOutOfRadiusPenalty(t *testing.T) {
	cat := &domain.Cat{ID: primitive.NewObjectID(), Location: domain.NewGeoPoint(hamburg[0], hamburg[1])}
	prefs := &domain.Preferences{Radius: floatPtr(50)}

	scored := CalculateScores([]*domain.Cat{cat}, berlin, prefs)

	require.Len(t, scored, 1)
	assert.InDelta(t, -5000, scored[0].Score, 1e-9)
}

func TestCalculateScoresMissingLocationPenalized(t *testing.T) {
	cat := &domain.Cat{ID: primitive.NewObjectID()}

	scored := CalculateScores([]*domain.Cat{cat}, berlin, &domain.Preferences{})

	require.Len(t, scored, 1)
	assert.InDelta(t, -5000, scored[0].Score, 1e-9)
	assert.Equal(t, 0, cat.DistanceKm)
}

func TestCalculateScoresCloserScoresHigher(t *testing.T) {
	near := &domain.Cat{ID: primitive.NewObjectID(), Location: domain.NewGeoPoint(13.41, 52.525)}
	far := &domain.Cat{ID: primitive.NewObjectID(), Location: domain.NewGeoPoint(potsdam[0], potsdam[1])}

	scored := CalculateScores([]*domain.Cat{near, far}, berlin, &domain.Preferences{})

	require.Len(t, scored, 2)
	assert.Greater(t, scored[0].Score, scored[1].Score)
}

func TestCalculateScoresUnsetPreferencesAreNeutral(t *testing.T) {
	cat := &domain.Cat{
		ID:              primitive.NewObjectID(),
		Location:        domain.NewGeoPoint(berlin[0], berlin[1]),
		Shelter:         true,
		Sex:             "f",
		Sterilized:      true,
		Color:           "black",
		AllergyFriendly: true,
		AdoptionFee:     50,
		HealthStatus:    "healthy",
	}

	scored := CalculateScores([]*domain.Cat{cat}, berlin, &domain.Preferences{})

	require.Len(t, scored, 1)
	assert.InDelta(t, 50, scored[0].Score, 1e-9)
}

func TestCalculateScoresAllBonuses(t *testing.T) {
	cat := &domain.Cat{
		ID:              primitive.NewObjectID(),
		Location:        domain.NewGeoPoint(berlin[0], berlin[1]),
		Shelter:         true,
		AgeYears:        0.5,
		Sex:             "f",
		Sterilized:      true,
		Color:           "Black",
		AllergyFriendly: true,
		AdoptionFee:     80,
		HealthStatus:    "healthy",
	}
	prefs := &domain.Preferences{
		SheltersOnly:    boolPtr(true),
		AgeRange:        []string{"kitten"},
		Gender:          stringPtr("f"),
		Castrated:       boolPtr(true),
		Colour:          []string{"black"},
		AllergyFriendly: boolPtr(true),
		FeeMin:          floatPtr(0),
		FeeMax:          floatPtr(100),
		HealthStatus:    stringPtr("healthy"),
	}

	scored := CalculateScores([]*domain.Cat{cat}, berlin, prefs)

	require.Len(t, scored, 1)
	// proximity 50 + shelter 50 + age 50 + gender 50 + castrated 50 +
	// colour 50 + allergy 1000 + fee 2000 + health 50
	assert.InDelta(t, 3350, scored[0].Score, 1e-9)
}

func TestCalculateScoresAllergyMismatchGivesNothing(t *testing.T) {
	cat := &domain.Cat{ID: primitive.NewObjectID(), Location: domain.NewGeoPoint(berlin[0], berlin[1])}
	prefs := &domain.Preferences{AllergyFriendly: boolPtr(true)}

	scored := CalculateScores([]*domain.Cat{cat}, berlin, prefs)

	require.Len(t, scored, 1)
	assert.InDelta(t, 50, scored[0].Score, 1e-9)
}

func TestCalculateScoresFeeRangeInclusiveBounds(t *testing.T) {
	atMin := &domain.Cat{ID: primitive.NewObjectID(), Location: domain.NewGeoPoint(berlin[0], berlin[1]), AdoptionFee: 20}
	atMax := &domain.Cat{ID: primitive.NewObjectID(), Location: domain.NewGeoPoint(berlin[0], berlin[1]), AdoptionFee: 100}
	above := &domain.Cat{ID: primitive.NewObjectID(), Location: domain.NewGeoPoint(berlin[0], berlin[1]), AdoptionFee: 100.01}
	prefs := &domain.Preferences{FeeMin: floatPtr(20), FeeMax: floatPtr(100)}

	scored := CalculateScores([]*domain.Cat{atMin, atMax, above}, berlin, prefs)

	require.Len(t, scored, 3)
	assert.InDelta(t, 2050, scored[0].Score, 1e-9)
	assert.InDelta(t, 2050, scored[1].Score, 1e-9)
	assert.InDelta(t, 50, scored[2].Score, 1e-9)
}

func TestCalculateScoresFeeBonusNeedsBothBounds(t *testing.T) {
	cat := &domain.Cat{ID: primitive.NewObjectID(), Location: domain.NewGeoPoint(berlin[0], berlin[1]), AdoptionFee: 50}
	prefs := &domain.Preferences{FeeMin: floatPtr(0)}

	scored := CalculateScores([]*domain.Cat{cat}, berlin, prefs)

	require.Len(t, scored, 1)
	assert.InDelta(t, 50, scored[0].Score, 1e-9)
}

func TestCalculateScoresColourComparedAgainstLowercase(t *testing.T) {
	cat := &domain.Cat{ID: primitive.NewObjectID(), Location: domain.NewGeoPoint(berlin[0], berlin[1]), Color: "Black"}

	matching := CalculateScores([]*domain.Cat{cat}, berlin, &domain.Preferences{Colour: []string{"black"}})
	assert.InDelta(t, 100, matching[0].Score, 1e-9)

	// stored preference values are matched verbatim
	nonMatching := CalculateScores([]*domain.Cat{cat}, berlin, &domain.Preferences{Colour: []string{"Black"}})
	assert.InDelta(t, 50, nonMatching[0].Score, 1e-9)
}

func TestAgeBracketMatches(t *testing.T) {
	assert.True(t, ageBracketMatches([]string{"kitten"}, 1))
	assert.False(t, ageBracketMatches([]string{"kitten"}, 1.5))
	assert.True(t, ageBracketMatches([]string{"young"}, 1.5))
	assert.True(t, ageBracketMatches([]string{"young"}, 3))
	assert.True(t, ageBracketMatches([]string{"adult"}, 8))
	assert.False(t, ageBracketMatches([]string{"adult"}, 9))
	assert.True(t, ageBracketMatches([]string{"senior"}, 9))
	assert.True(t, ageBracketMatches([]string{"kitten", "senior"}, 12))
}

func TestCalculateScoresDistanceRounded(t *testing.T) {
	cat := &domain.Cat{ID: primitive.NewObjectID(), Location: domain.NewGeoPoint(potsdam[0], potsdam[1])}

	CalculateScores([]*domain.Cat{cat}, berlin, &domain.Preferences{})

	expected := int(math.Round(Haversine(berlin, potsdam)))
	assert.Equal(t, expected, cat.DistanceKm)
}

func TestMatchmakingUnknownUser(t *testing.T) {
	service := NewMatchmakingService(newFakeCatStore(), newFakeUserStore(), testTracer, testLogger())

	cats, status, err := service.Matchmaking(context.Background(), primitive.NewObjectID())

	assert.Nil(t, cats)
	assert.Equal(t, http.StatusNotFound, status)
	require.Error(t, err)
	assert.Equal(t, errors.MatchmakingNotFound, err.Error())
}

func TestMatchmakingMissingPreferencesOrLocation(t *testing.T) {
	withoutPrefs := &domain.User{ID: primitive.NewObjectID(), Location: domain.NewGeoPoint(berlin[0], berlin[1])}
	withoutLocation := &domain.User{ID: primitive.NewObjectID(), Preferences: &domain.Preferences{}}
	service := NewMatchmakingService(newFakeCatStore(), newFakeUserStore(withoutPrefs, withoutLocation), testTracer, testLogger())

	for _, user := range []*domain.User{withoutPrefs, withoutLocation} {
		_, status, err := service.Matchmaking(context.Background(), user.ID)
		assert.Equal(t, http.StatusNotFound, status)
		require.Error(t, err)
		assert.Equal(t, errors.MatchmakingNotFound, err.Error())
	}
}

func TestMatchmakingEmptyResultIsNotNil(t *testing.T) {
	user := &domain.User{
		ID:          primitive.NewObjectID(),
		Preferences: &domain.Preferences{},
		Location:    domain.NewGeoPoint(berlin[0], berlin[1]),
	}
	catStore := newFakeCatStore()
	service := NewMatchmakingService(catStore, newFakeUserStore(user), testTracer, testLogger())

	cats, status, err := service.Matchmaking(context.Background(), user.ID)

	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, status)
	assert.NotNil(t, cats)
	assert.Empty(t, cats)
}

func TestMatchmakingRadiusForwardedToQuery(t *testing.T) {
	user := &domain.User{
		ID:          primitive.NewObjectID(),
		Preferences: &domain.Preferences{Radius: floatPtr(25)},
		Location:    domain.NewGeoPoint(berlin[0], berlin[1]),
	}
	catStore := newFakeCatStore()
	service := NewMatchmakingService(catStore, newFakeUserStore(user), testTracer, testLogger())

	_, _, err := service.Matchmaking(context.Background(), user.ID)

	require.NoError(t, err)
	assert.InDelta(t, 25, catStore.lastRadius, 1e-9)
	assert.Equal(t, user.Location.Coordinates, catStore.lastCoordinates)
}

func TestMatchmakingDefaultRadius(t *testing.T) {
	user := &domain.User{
		ID:          primitive.NewObjectID(),
		Preferences: &domain.Preferences{},
		Location:    domain.NewGeoPoint(berlin[0], berlin[1]),
	}
	catStore := newFakeCatStore()
	service := NewMatchmakingService(catStore, newFakeUserStore(user), testTracer, testLogger())

	_, _, err := service.Matchmaking(context.Background(), user.ID)

	require.NoError(t, err)
	assert.InDelta(t, 50, catStore.lastRadius, 1e-9)
}

func TestMatchmakingRanksAndFiltersOwnCats(t *testing.T) {
	seller := &domain.User{ID: primitive.NewObjectID(), Username: "shelter-mitte", Avatar: "mitte.png"}
	user := &domain.User{
		ID: primitive.NewObjectID(),
		Preferences: &domain.Preferences{
			AllergyFriendly: boolPtr(true),
		},
		Location: domain.NewGeoPoint(berlin[0], berlin[1]),
	}

	plain := &domain.Cat{
		ID:       primitive.NewObjectID(),
		Name:     "Mira",
		SellerID: seller.ID,
		Location: domain.NewGeoPoint(13.41, 52.525),
	}
	hypoallergenic := &domain.Cat{
		ID:              primitive.NewObjectID(),
		Name:            "Felix",
		SellerID:        seller.ID,
		AllergyFriendly: true,
		Location:        domain.NewGeoPoint(potsdam[0], potsdam[1]),
	}
	own := &domain.Cat{
		ID:       primitive.NewObjectID(),
		Name:     "Own",
		SellerID: user.ID,
		Location: domain.NewGeoPoint(berlin[0], berlin[1]),
	}

	catStore := newFakeCatStore()
	catStore.nearby = []*domain.Cat{plain, hypoallergenic, own}
	service := NewMatchmakingService(catStore, newFakeUserStore(user, seller), testTracer, testLogger())

	cats, status, err := service.Matchmaking(context.Background(), user.ID)

	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, status)
	require.Len(t, cats, 2)

	// the allergy bonus outweighs the proximity edge of the closer cat
	assert.Equal(t, "Felix", cats[0].Name)
	assert.Equal(t, "Mira", cats[1].Name)

	assert.Equal(t, "shelter-mitte", cats[0].SellerName)
	assert.Equal(t, "mitte.png", cats[0].SellerAvatar)
}

func TestMatchmakingStableOrderOnTies(t *testing.T) {
	user := &domain.User{
		ID:          primitive.NewObjectID(),
		Preferences: &domain.Preferences{},
		Location:    domain.NewGeoPoint(berlin[0], berlin[1]),
	}

	first := &domain.Cat{ID: primitive.NewObjectID(), Name: "First", SellerID: primitive.NewObjectID(), Location: domain.NewGeoPoint(berlin[0], berlin[1])}
	second := &domain.Cat{ID: primitive.NewObjectID(), Name: "Second", SellerID: primitive.NewObjectID(), Location: domain.NewGeoPoint(berlin[0], berlin[1])}

	catStore := newFakeCatStore()
	catStore.nearby = []*domain.Cat{first, second}
	service := NewMatchmakingService(catStore, newFakeUserStore(user), testTracer, testLogger())

	cats, _, err := service.Matchmaking(context.Background(), user.ID)

	require.NoError(t, err)
	require.Len(t, cats, 2)
	assert.Equal(t, "First", cats[0].Name)
	assert.Equal(t, "Second", cats[1].Name)
}
